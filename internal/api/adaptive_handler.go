package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-progress/internal/api/shared"
	"github.com/phrazzld/lingo-progress/internal/platform/logger"
	"github.com/phrazzld/lingo-progress/internal/service/learning"
)

// AdaptiveHandler serves the difficulty adaptation endpoints.
type AdaptiveHandler struct {
	learning learning.Service
	logger   *slog.Logger
}

// NewAdaptiveHandler creates a new AdaptiveHandler
func NewAdaptiveHandler(learningService learning.Service, logger *slog.Logger) *AdaptiveHandler {
	if learningService == nil {
		panic("learningService cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil for AdaptiveHandler")
	}

	return &AdaptiveHandler{
		learning: learningService,
		logger:   logger.With(slog.String("component", "adaptive_handler")),
	}
}

// GetState handles GET /adaptive/state
func (h *AdaptiveHandler) GetState(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	studentID, ok := requireStudentID(w, r, log)
	if !ok {
		return
	}

	status, err := h.learning.GetAdaptiveState(r.Context(), studentID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load adaptive state")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, adaptiveStatusToResponse(status))
}

// RecordAnswer handles POST /adaptive/answers
func (h *AdaptiveHandler) RecordAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	studentID, ok := requireStudentID(w, r, log)
	if !ok {
		return
	}

	var req RecordAnswerRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	status, err := h.learning.RecordAnswer(r.Context(), studentID, req.ToRecord())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record answer")
		return
	}

	log.Debug("answer recorded",
		slog.String("content_id", req.ContentID),
		slog.Int("recommended_difficulty", status.State.RecommendedDifficulty))
	shared.RespondWithJSON(w, r, http.StatusOK, adaptiveStatusToResponse(status))
}

// LevelUp handles POST /adaptive/level-up
func (h *AdaptiveHandler) LevelUp(w http.ResponseWriter, r *http.Request) {
	h.commit(w, r, h.learning.CommitLevelUp)
}

// LevelDown handles POST /adaptive/level-down
func (h *AdaptiveHandler) LevelDown(w http.ResponseWriter, r *http.Request) {
	h.commit(w, r, h.learning.CommitLevelDown)
}

func (h *AdaptiveHandler) commit(
	w http.ResponseWriter,
	r *http.Request,
	commit func(ctx context.Context, studentID uuid.UUID) (*learning.AdaptiveStatus, error),
) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	studentID, ok := requireStudentID(w, r, log)
	if !ok {
		return
	}

	status, err := commit(r.Context(), studentID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to change level")
		return
	}

	log.Info("level committed", slog.Int("current_difficulty", status.State.CurrentDifficulty))
	shared.RespondWithJSON(w, r, http.StatusOK, adaptiveStatusToResponse(status))
}
