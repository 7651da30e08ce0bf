package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/phrazzld/lingo-progress/internal/api/shared"
	"github.com/phrazzld/lingo-progress/internal/domain"
	"github.com/phrazzld/lingo-progress/internal/platform/logger"
	"github.com/phrazzld/lingo-progress/internal/service/learning"
)

// maxDueLimit bounds the limit query parameter of the due words endpoint.
const maxDueLimit = 500

// VocabularyHandler serves the spaced-repetition endpoints.
type VocabularyHandler struct {
	learning learning.Service
	logger   *slog.Logger
}

// NewVocabularyHandler creates a new VocabularyHandler
func NewVocabularyHandler(learningService learning.Service, logger *slog.Logger) *VocabularyHandler {
	if learningService == nil {
		panic("learningService cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil for VocabularyHandler")
	}

	return &VocabularyHandler{
		learning: learningService,
		logger:   logger.With(slog.String("component", "vocabulary_handler")),
	}
}

// AddWord handles PUT /vocabulary/{wordID}. It responds 201 when the word
// was added and 200 when it was already in the curriculum.
func (h *VocabularyHandler) AddWord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	studentID, ok := requireStudentID(w, r, log)
	if !ok {
		return
	}
	wordID, err := getPathWordID(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	progress, created, err := h.learning.InitializeWord(r.Context(), studentID, wordID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add word")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	shared.RespondWithJSON(w, r, status, progressToResponse(progress))
}

// ReviewWord handles POST /vocabulary/{wordID}/reviews
func (h *VocabularyHandler) ReviewWord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	studentID, ok := requireStudentID(w, r, log)
	if !ok {
		return
	}
	wordID, err := getPathWordID(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req ReviewWordRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	progress, err := h.learning.ReviewWord(r.Context(), studentID, wordID, domain.Quality(*req.Quality))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record review")
		return
	}

	log.Debug("review recorded",
		slog.String("word_id", wordID),
		slog.Int("quality", *req.Quality),
		slog.String("status", string(progress.Status)))
	shared.RespondWithJSON(w, r, http.StatusOK, progressToResponse(progress))
}

// PostponeWord handles POST /vocabulary/{wordID}/postpone
func (h *VocabularyHandler) PostponeWord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	studentID, ok := requireStudentID(w, r, log)
	if !ok {
		return
	}
	wordID, err := getPathWordID(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req PostponeWordRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	progress, err := h.learning.PostponeWord(r.Context(), studentID, wordID, req.Days)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to postpone word")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, progressToResponse(progress))
}

// DueWords handles GET /vocabulary/due?limit=N. Without a limit the
// configured batch size applies.
func (h *VocabularyHandler) DueWords(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	studentID, ok := requireStudentID(w, r, log)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxDueLimit {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit: must be between 1 and 500")
			return
		}
		limit = n
	}

	words, err := h.learning.DueWords(r.Context(), studentID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load due words")
		return
	}

	resp := DueWordsResponse{
		Words: make([]VocabularyProgressResponse, 0, len(words)),
		Count: len(words),
	}
	for _, p := range words {
		resp.Words = append(resp.Words, progressToResponse(p))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Stats handles GET /vocabulary/stats
func (h *VocabularyHandler) Stats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	studentID, ok := requireStudentID(w, r, log)
	if !ok {
		return
	}

	stats, err := h.learning.StudyStats(r.Context(), studentID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute study stats")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}
