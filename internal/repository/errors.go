package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound reports that no record matched the given key.
	ErrNotFound = errors.New("record not found")

	// ErrUsernameTaken reports a username uniqueness violation, whether
	// caught by the advisory pre-check or by the database constraint.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrBadSortField reports an unrecognized sort property on a list query.
	ErrBadSortField = errors.New("unknown sort field")
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
