package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or empty.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidRecord is returned when a performance record carries negative
	// timing fields or a difficulty outside the supported range.
	ErrInvalidRecord = errors.New("invalid performance record")

	// ErrInvalidQualityRating is returned when a review quality is outside 0-5.
	ErrInvalidQualityRating = errors.New("invalid quality rating")

	// ErrInvalidDifficulty is returned when a difficulty level is outside 1-5.
	ErrInvalidDifficulty = errors.New("invalid difficulty level")

	// ErrLevelChangeNotReady is returned when a level change is committed while
	// the corresponding gate is closed.
	ErrLevelChangeNotReady = errors.New("level change not ready")
)

// ValidationError describes a single field that failed validation.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
