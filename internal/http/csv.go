package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"rosteradmin/internal/model"
	"rosteradmin/internal/repository"
)

const csvHeader = "ID,Username,Level,Created At,Updated At"

// maxImportBytes caps the uploaded CSV size.
const maxImportBytes = 10 << 20

func (s *Server) handleExportStudents(w http.ResponseWriter, r *http.Request) {
	students, err := s.store.StudentsForExport(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "Error exporting students")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=students.csv")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, buildStudentsCSV(students))
}

// buildStudentsCSV joins fields with bare commas, matching the import
// format. Usernames containing commas will not round-trip; that is a
// documented limitation of the format, not something to quietly escape.
func buildStudentsCSV(students []model.Student) string {
	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteByte('\n')
	for _, student := range students {
		b.WriteString(strconv.FormatInt(student.ID, 10))
		b.WriteByte(',')
		b.WriteString(student.Username)
		b.WriteByte(',')
		b.WriteString(string(student.Level))
		b.WriteByte(',')
		b.WriteString(student.CreatedAt.UTC().Format(time.RFC3339))
		b.WriteByte(',')
		b.WriteString(student.UpdatedAt.UTC().Format(time.RFC3339))
		b.WriteByte('\n')
	}
	return b.String()
}

type importResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

func (s *Server) handleImportStudents(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "CSV file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error importing students")
		return
	}
	content := string(data)
	if strings.TrimSpace(content) == "" {
		writeError(w, http.StatusBadRequest, "File is empty")
		return
	}

	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		writeError(w, http.StatusBadRequest, "Invalid CSV format")
		return
	}

	result := importResult{}
	// First line is the header. Rows keep being processed past any
	// individual failure: a duplicate username, a bad level, or a store
	// error skips the row, never the file.
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			continue
		}

		username := strings.TrimSpace(parts[0])
		level, err := model.ParseLevel(parts[1])
		if err != nil || username == "" {
			result.Skipped++
			continue
		}
		if _, err := s.store.CreateStudent(r.Context(), username, level); err != nil {
			if !errors.Is(err, repository.ErrUsernameTaken) {
				s.log.WithError(err).WithField("username", username).Warn("import row failed")
			}
			result.Skipped++
			continue
		}
		result.Imported++
	}

	fields := logrus.Fields{"imported": result.Imported, "skipped": result.Skipped}
	if claims := claimsFromContext(r.Context()); claims != nil {
		fields["admin"] = claims.Username
	}
	s.log.WithFields(fields).Info("csv import")

	message := fmt.Sprintf("Import completed: %d imported, %d skipped", result.Imported, result.Skipped)
	writeSuccess(w, http.StatusOK, message, result)
}
