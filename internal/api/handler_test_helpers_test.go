package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/lingo-progress/internal/api/shared"
	"github.com/phrazzld/lingo-progress/internal/platform/logger"
	"github.com/stretchr/testify/require"
)

// newTestRouter mounts both handlers the way cmd/server does, with
// authentication replaced by a fixed student ID. uuid.Nil leaves the request
// unauthenticated.
func newTestRouter(t *testing.T, svc *MockLearningService, studentID uuid.UUID) http.Handler {
	t.Helper()

	log, _ := logger.NewTestLogger()
	adaptiveHandler := NewAdaptiveHandler(svc, log)
	vocabularyHandler := NewVocabularyHandler(svc, log)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if studentID != uuid.Nil {
				req = req.WithContext(shared.WithStudentID(req.Context(), studentID))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Get("/adaptive/state", adaptiveHandler.GetState)
	r.Post("/adaptive/answers", adaptiveHandler.RecordAnswer)
	r.Post("/adaptive/level-up", adaptiveHandler.LevelUp)
	r.Post("/adaptive/level-down", adaptiveHandler.LevelDown)
	r.Get("/vocabulary/due", vocabularyHandler.DueWords)
	r.Get("/vocabulary/stats", vocabularyHandler.Stats)
	r.Put("/vocabulary/{wordID}", vocabularyHandler.AddWord)
	r.Post("/vocabulary/{wordID}/reviews", vocabularyHandler.ReviewWord)
	r.Post("/vocabulary/{wordID}/postpone", vocabularyHandler.PostponeWord)
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), "body: %s", rr.Body.String())
}
