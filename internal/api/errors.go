package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/lingo-progress/internal/api/shared"
	"github.com/phrazzld/lingo-progress/internal/domain"
	"github.com/phrazzld/lingo-progress/internal/domain/srs"
	"github.com/phrazzld/lingo-progress/internal/service/auth"
	"github.com/phrazzld/lingo-progress/internal/service/learning"
	"github.com/phrazzld/lingo-progress/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, learning.ErrWordNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, domain.ErrLevelChangeNotReady),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrInvalidRecord),
		errors.Is(err, domain.ErrInvalidQualityRating),
		errors.Is(err, domain.ErrInvalidDifficulty),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, learning.ErrInvalidWordID),
		errors.Is(err, learning.ErrInvalidStudentID),
		errors.Is(err, srs.ErrInvalidPostponeDays),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"
	case errors.Is(err, auth.ErrMissingToken):
		return "Authentication required"

	case errors.Is(err, learning.ErrWordNotFound),
		errors.Is(err, store.ErrVocabularyProgressNotFound):
		return "Word not found"

	case errors.Is(err, domain.ErrLevelChangeNotReady):
		return "Level change is not available yet"

	case errors.Is(err, domain.ErrInvalidRecord):
		return "Invalid performance record"
	case errors.Is(err, domain.ErrInvalidQualityRating):
		return "Quality must be between 0 and 5"
	case errors.Is(err, domain.ErrInvalidDifficulty):
		return "Difficulty must be between 1 and 5"
	case errors.Is(err, srs.ErrInvalidPostponeDays):
		return "Days must be at least 1"
	case errors.Is(err, learning.ErrInvalidWordID):
		return "Invalid word ID"
	case errors.Is(err, learning.ErrInvalidStudentID),
		errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Validation error"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status and safe message for err. defaultMsg, when
// set, replaces the generic message on 500 responses.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && defaultMsg != "" {
		message = defaultMsg
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError turns a validator error into a message naming the
// first failing field, without echoing the rejected value.
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Validation error"
	}

	fe := fieldErrs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag(), fe.Param()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag, param string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "must be at least " + param
	case "max":
		return "must be at most " + param
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
