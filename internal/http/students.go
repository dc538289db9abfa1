package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"rosteradmin/internal/model"
	"rosteradmin/internal/repository"
)

type studentResponse struct {
	ID        int64       `json:"id"`
	Username  string      `json:"username"`
	Level     model.Level `json:"level"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

func toStudentResponse(student model.Student) studentResponse {
	return studentResponse{
		ID:        student.ID,
		Username:  student.Username,
		Level:     student.Level,
		CreatedAt: student.CreatedAt,
		UpdatedAt: student.UpdatedAt,
	}
}

type studentPage struct {
	Content       []studentResponse `json:"content"`
	Page          int               `json:"page"`
	Size          int               `json:"size"`
	TotalElements int64             `json:"totalElements"`
	TotalPages    int64             `json:"totalPages"`
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	query := repository.ListQuery{
		Page:      0,
		Size:      10,
		SortBy:    r.URL.Query().Get("sortBy"),
		Direction: r.URL.Query().Get("direction"),
		Search:    r.URL.Query().Get("search"),
	}
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			query.Page = parsed
		}
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			query.Size = parsed
		}
	}
	if raw := r.URL.Query().Get("level"); raw != "" {
		level, err := model.ParseLevel(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid level value")
			return
		}
		query.Level = &level
	}

	students, total, err := s.store.ListStudents(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error retrieving students")
		return
	}

	content := make([]studentResponse, 0, len(students))
	for _, student := range students {
		content = append(content, toStudentResponse(student))
	}
	totalPages := total / int64(query.Size)
	if total%int64(query.Size) != 0 {
		totalPages++
	}

	writeSuccess(w, http.StatusOK, "Success", studentPage{
		Content:       content,
		Page:          query.Page,
		Size:          query.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	})
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	id, err := studentID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid student id")
		return
	}

	student, err := s.store.StudentByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Student not found with id: %d", id))
			return
		}
		writeError(w, http.StatusInternalServerError, "Error retrieving student")
		return
	}

	writeSuccess(w, http.StatusOK, "Success", toStudentResponse(student))
}

type studentRequest struct {
	Username string `json:"username"`
	Level    string `json:"level"`
}

func (s *Server) parseStudentRequest(r *http.Request) (string, model.Level, error) {
	var req studentRequest
	if err := decodeJSON(r, &req); err != nil {
		return "", "", errors.New("Invalid request data")
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return "", "", errors.New("Username is required")
	}
	level, err := model.ParseLevel(req.Level)
	if err != nil {
		return "", "", errors.New("Invalid level value")
	}
	return username, level, nil
}

func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	username, level, err := s.parseStudentRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	student, err := s.store.CreateStudent(r.Context(), username, level)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			writeError(w, http.StatusConflict, "Username already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error creating student")
		return
	}

	writeSuccess(w, http.StatusCreated, "Student created successfully", toStudentResponse(student))
}

func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, err := studentID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid student id")
		return
	}
	username, level, err := s.parseStudentRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	student, err := s.store.UpdateStudent(r.Context(), id, username, level)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, fmt.Sprintf("Student not found with id: %d", id))
		case errors.Is(err, repository.ErrUsernameTaken):
			writeError(w, http.StatusConflict, "Username already exists")
		default:
			writeError(w, http.StatusInternalServerError, "Error updating student")
		}
		return
	}

	writeSuccess(w, http.StatusOK, "Student updated successfully", toStudentResponse(student))
}

func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, err := studentID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid student id")
		return
	}

	if err := s.store.DeleteStudent(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Student not found with id: %d", id))
			return
		}
		writeError(w, http.StatusInternalServerError, "Error deleting student")
		return
	}

	writeSuccess(w, http.StatusOK, "Student deleted successfully", nil)
}
