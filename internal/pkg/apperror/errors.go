// Package apperror holds the error taxonomy shared by repositories, services
// and the HTTP layer.
package apperror

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrDuplicate       = errors.New("already exists")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrAccessDenied    = errors.New("access denied")
	ErrUnauthenticated = errors.New("authentication required")
)

// ValidationError carries per-field messages. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Validation builds a ValidationError for a single field.
func Validation(field, message string) error {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// NewValidation wraps a field map; nil or empty maps yield nil.
func NewValidation(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
