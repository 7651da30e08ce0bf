package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/lingo-progress/internal/api"
	apiMiddleware "github.com/phrazzld/lingo-progress/internal/api/middleware"
	"github.com/phrazzld/lingo-progress/internal/redact"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	adaptiveHandler := api.NewAdaptiveHandler(app.learningService, app.logger)
	vocabularyHandler := api.NewVocabularyHandler(app.learningService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/adaptive/state", adaptiveHandler.GetState)
			r.Post("/adaptive/answers", adaptiveHandler.RecordAnswer)
			r.Post("/adaptive/level-up", adaptiveHandler.LevelUp)
			r.Post("/adaptive/level-down", adaptiveHandler.LevelDown)

			r.Get("/vocabulary/due", vocabularyHandler.DueWords)
			r.Get("/vocabulary/stats", vocabularyHandler.Stats)
			r.Put("/vocabulary/{wordID}", vocabularyHandler.AddWord)
			r.Post("/vocabulary/{wordID}/reviews", vocabularyHandler.ReviewWord)
			r.Post("/vocabulary/{wordID}/postpone", vocabularyHandler.PostponeWord)
		})
	})

	var cacheCheck func(context.Context) error
	if app.cache != nil {
		cacheCheck = app.cache.HealthCheck
	}
	r.Get("/health", healthHandler(cacheCheck, app.logger))

	return r
}

// healthHandler answers OK, or 503 when cacheCheck is set and the cache does
// not respond.
func healthHandler(cacheCheck func(context.Context) error, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, body := http.StatusOK, "OK"
		if cacheCheck != nil {
			if err := cacheCheck(r.Context()); err != nil {
				log.Error("cache health check failed", "error", redact.Error(err))
				status, body = http.StatusServiceUnavailable, "cache unavailable"
			}
		}

		w.WriteHeader(status)
		if _, err := w.Write([]byte(body)); err != nil {
			log.Error("Failed to write health check response", "error", err)
		}
	}
}
