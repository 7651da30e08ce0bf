package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/lingo-progress/internal/api/shared"
	"github.com/phrazzld/lingo-progress/internal/domain"
	"github.com/phrazzld/lingo-progress/internal/service/auth"
)

// requireStudentID extracts the authenticated student from the request
// context, writing a 401 response when it is missing.
func requireStudentID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	studentID, ok := shared.StudentIDFromContext(r.Context())
	if !ok {
		log.Warn("student ID not found or invalid in request context")
		HandleAPIError(w, r, auth.ErrMissingToken, "")
		return uuid.Nil, false
	}
	return studentID, true
}

// getPathWordID extracts the {wordID} path parameter.
func getPathWordID(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "wordID")
	wordID, err := url.PathUnescape(raw)
	if err != nil {
		return "", domain.NewValidationError("word_id", "has invalid encoding", domain.ErrValidation)
	}
	wordID = strings.TrimSpace(wordID)
	if wordID == "" {
		return "", domain.NewValidationError("word_id", "is required", domain.ErrValidation)
	}
	return wordID, nil
}

// decodeAndValidate decodes the JSON body into req and validates it, writing
// a 400 response on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}, log *slog.Logger) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		log.Debug("invalid request body", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}
