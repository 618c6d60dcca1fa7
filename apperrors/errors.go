// Package apperrors defines the error taxonomy shared by services and
// controllers. Services return these; the request boundary translates them
// into HTTP responses and never leaks storage internals to callers.
package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrAuthRequired is returned when a request reaches a protected operation
// without an acting user identity.
var ErrAuthRequired = errors.New("authentication required")

// ValidationError reports malformed, missing or out-of-enum input with
// field-level detail.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}

// ConflictError reports a uniqueness violation.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NotFoundError reports that the requested entity does not exist.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

// StorageError wraps an underlying store failure. Its cause is logged
// server-side only.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return "storage error: " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
