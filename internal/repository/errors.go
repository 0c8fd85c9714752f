package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"foodgram/internal/pkg/apperror"
)

// isUniqueViolation recognises composite-key violations from every engine we
// run on: gorm's translated error, a raw PostgreSQL 23505, or SQLite's
// "UNIQUE constraint failed".
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	s := err.Error()
	return strings.Contains(s, "UNIQUE constraint failed") ||
		strings.Contains(s, "duplicate key value violates unique constraint")
}

// translate maps storage errors onto the apperror taxonomy.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", what, apperror.ErrNotFound)
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w", what, apperror.ErrDuplicate)
	}
	return err
}
