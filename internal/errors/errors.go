// Package errors provides domain-specific sentinel errors and error
// wrapping utilities shared across the resolver service.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrDatasetNotFound indicates the reference dataset file is missing.
	ErrDatasetNotFound = errors.New("reference dataset not found")

	// ErrDatasetEmpty indicates the reference dataset decoded to zero records.
	ErrDatasetEmpty = errors.New("reference dataset is empty")

	// ErrNotInitialized indicates the resolution index has not been built.
	ErrNotInitialized = errors.New("resolution index not initialized")

	// ErrNotFound indicates a requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates the caller provided invalid input.
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError represents input validation failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
