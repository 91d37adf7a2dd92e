package errors

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ParseDBError maps driver-level database errors onto APIErrors so callers
// never leak raw driver messages. Uniqueness violations are reported as
// DUPLICATE_RESOURCE; everything else becomes a generic database error.
func ParseDBError(err error) *APIError {
	if err == nil {
		return nil
	}

	if apiErr, ok := err.(*APIError); ok {
		return apiErr
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrResourceNotFound
	}

	if isUniqueViolation(err) {
		return ErrDuplicateResource
	}

	return ErrDatabase
}

// isUniqueViolation detects unique-constraint violations for the three
// supported dialects: MySQL error 1062, PostgreSQL SQLSTATE 23505, and the
// SQLite driver's textual "UNIQUE constraint failed".
func isUniqueViolation(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed: UNIQUE")
}
