package dbx

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/techelevate/platform/internal/common"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// UniqueViolation reports whether err is a PostgreSQL unique constraint
// violation and, if so, which constraint fired.
func UniqueViolation(err error) (constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// ConflictFrom maps a unique violation to common.ConflictError using fields,
// a constraint-name to field-name table. Unknown constraints report the
// constraint name itself. Any other error yields nil.
func ConflictFrom(err error, fields map[string]string) error {
	constraint, ok := UniqueViolation(err)
	if !ok {
		return nil
	}
	if field, known := fields[constraint]; known {
		return common.Conflict(field)
	}
	return common.Conflict(constraint)
}
