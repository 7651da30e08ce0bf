package learning

import "errors"

// Service errors. The API layer maps these to HTTP status codes.
var (
	// ErrWordNotFound indicates the student has no progress for the word.
	// API layer should map this to HTTP 404 Not Found.
	ErrWordNotFound = errors.New("vocabulary word not found")

	// ErrInvalidWordID indicates an empty or oversized word ID.
	ErrInvalidWordID = errors.New("invalid word ID")

	// ErrInvalidStudentID indicates a nil student ID.
	ErrInvalidStudentID = errors.New("invalid student ID")
)
