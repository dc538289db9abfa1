package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rosteradmin/internal/model"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) CreateAdmin(ctx context.Context, admin model.Admin) error {
	taken, err := s.AdminExists(ctx, admin.Username)
	if err != nil {
		return err
	}
	if taken {
		return ErrUsernameTaken
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO admins (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, admin.ID, admin.Username, admin.PasswordHash, admin.CreatedAt)
	if isUniqueViolation(err) {
		return ErrUsernameTaken
	}
	return err
}

func (s *Store) AdminByUsername(ctx context.Context, username string) (model.Admin, error) {
	var admin model.Admin
	row := s.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, created_at
		FROM admins
		WHERE username = $1
	`, username)
	err := row.Scan(&admin.ID, &admin.Username, &admin.PasswordHash, &admin.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Admin{}, ErrNotFound
	}
	return admin, err
}

func (s *Store) AdminExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM admins WHERE username = $1)
	`, username).Scan(&exists)
	return exists, err
}

// ListQuery describes one page of the student roster. Search matches the
// username case-insensitively or the numeric id as a substring; Level, when
// set, is an exact match applied in conjunction with Search.
type ListQuery struct {
	Page      int
	Size      int
	SortBy    string
	Direction string
	Search    string
	Level     *model.Level
}

func (s *Store) ListStudents(ctx context.Context, q ListQuery) ([]model.Student, int64, error) {
	column, err := sortColumn(q.SortBy)
	if err != nil {
		return nil, 0, err
	}
	direction := "ASC"
	if strings.EqualFold(q.Direction, "DESC") {
		direction = "DESC"
	}

	var (
		conds []string
		args  []interface{}
	)
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(username ILIKE $%d OR id::text LIKE $%d)", n, n))
	}
	if q.Level != nil {
		args = append(args, string(*q.Level))
		conds = append(conds, fmt.Sprintf("level = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := s.pool.QueryRow(ctx, "SELECT count(*) FROM students"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, username, level, created_at, updated_at
		FROM students%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, where, column, direction, len(args)+1, len(args)+2)
	args = append(args, q.Size, q.Page*q.Size)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	students := make([]model.Student, 0, q.Size)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, 0, err
		}
		students = append(students, student)
	}
	return students, total, rows.Err()
}

func (s *Store) StudentByID(ctx context.Context, id int64) (model.Student, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, username, level, created_at, updated_at
		FROM students
		WHERE id = $1
	`, id)
	student, err := scanStudent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Student{}, ErrNotFound
	}
	return student, err
}

func (s *Store) StudentUsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM students WHERE username = $1)
	`, username).Scan(&exists)
	return exists, err
}

// CreateStudent inserts a new student. The existence pre-check gives the
// friendlier conflict message; the unique index on username is the actual
// guarantee, so a racing insert still surfaces as ErrUsernameTaken.
func (s *Store) CreateStudent(ctx context.Context, username string, level model.Level) (model.Student, error) {
	taken, err := s.StudentUsernameExists(ctx, username)
	if err != nil {
		return model.Student{}, err
	}
	if taken {
		return model.Student{}, ErrUsernameTaken
	}

	now := time.Now().UTC()
	student := model.Student{
		Username:  username,
		Level:     level,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = s.pool.QueryRow(ctx, `
		INSERT INTO students (username, level, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		RETURNING id
	`, username, string(level), now).Scan(&student.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Student{}, ErrUsernameTaken
		}
		return model.Student{}, err
	}
	return student, nil
}

// UpdateStudent overwrites username and level and refreshes updated_at.
// Renaming to a username held by a different student is a conflict; keeping
// the current username is not.
func (s *Store) UpdateStudent(ctx context.Context, id int64, username string, level model.Level) (model.Student, error) {
	current, err := s.StudentByID(ctx, id)
	if err != nil {
		return model.Student{}, err
	}
	if username != current.Username {
		taken, err := s.StudentUsernameExists(ctx, username)
		if err != nil {
			return model.Student{}, err
		}
		if taken {
			return model.Student{}, ErrUsernameTaken
		}
	}

	now := time.Now().UTC()
	_, err = s.pool.Exec(ctx, `
		UPDATE students
		SET username = $1, level = $2, updated_at = $3
		WHERE id = $4
	`, username, string(level), now, id)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Student{}, ErrUsernameTaken
		}
		return model.Student{}, err
	}

	current.Username = username
	current.Level = level
	current.UpdatedAt = now
	return current, nil
}

func (s *Store) DeleteStudent(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// StudentsForExport returns the full roster ascending by id, unpaginated.
func (s *Store) StudentsForExport(ctx context.Context) ([]model.Student, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, username, level, created_at, updated_at
		FROM students
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	return students, rows.Err()
}

func scanStudent(row pgx.Row) (model.Student, error) {
	var (
		student model.Student
		level   string
	)
	err := row.Scan(&student.ID, &student.Username, &level, &student.CreatedAt, &student.UpdatedAt)
	student.Level = model.Level(level)
	return student, err
}

// sortColumn maps the exposed sort properties to columns. Anything else is
// rejected rather than interpolated into the query.
func sortColumn(field string) (string, error) {
	switch field {
	case "", "id":
		return "id", nil
	case "username":
		return "username", nil
	case "level":
		return "level", nil
	case "createdAt":
		return "created_at", nil
	case "updatedAt":
		return "updated_at", nil
	}
	return "", ErrBadSortField
}
