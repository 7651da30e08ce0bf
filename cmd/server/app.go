package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/lingo-progress/internal/config"
	"github.com/phrazzld/lingo-progress/internal/domain/adaptive"
	"github.com/phrazzld/lingo-progress/internal/domain/srs"
	"github.com/phrazzld/lingo-progress/internal/events"
	"github.com/phrazzld/lingo-progress/internal/platform/cache"
	"github.com/phrazzld/lingo-progress/internal/platform/postgres"
	"github.com/phrazzld/lingo-progress/internal/service/auth"
	"github.com/phrazzld/lingo-progress/internal/service/learning"
	"github.com/phrazzld/lingo-progress/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	cache  *cache.Cache

	jwtService      auth.JWTService
	learningService learning.Service
}

// newApplication creates a new application instance with all dependencies initialized.
// The database connection must already be established and migrated.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	statsCache, err := app.setupStatsCache(ctx)
	if err != nil {
		return nil, err
	}

	catalog, err := loadMessageCatalog(cfg.Scheduler.MessagesFile)
	if err != nil {
		app.closeCache()
		return nil, err
	}

	adaptiveStates := postgres.NewPostgresAdaptiveStateStore(db, logger)
	vocabulary := postgres.NewPostgresVocabularyStore(db, logger)
	transactor := store.NewSQLTransactor(db, adaptiveStates, vocabulary)

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(events.NewLoggingHandler(logger))
	emitter.RegisterHandler(learning.NewStatsInvalidationHandler(statsCache))

	adaptiveParams, srsParams := schedulerParams(cfg.Scheduler)
	app.learningService = learning.NewLearningService(
		transactor,
		adaptive.NewService(adaptiveParams, catalog),
		srs.NewServiceWithParams(srsParams),
		emitter,
		statsCache,
		learning.Config{
			StartingDifficulty: cfg.Scheduler.StartingDifficulty,
			MaxDueWords:        cfg.Scheduler.MaxDueWords,
		},
		logger,
	)

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupStatsCache connects to Redis when a cache URL is configured. Without
// one, study stats are computed on every request.
func (app *application) setupStatsCache(ctx context.Context) (cache.StudyStatsCache, error) {
	if app.config.Cache.URL == "" {
		app.logger.Info("stats cache disabled")
		return cache.NoopStatsCache{}, nil
	}

	c, err := cache.New(ctx, app.config.Cache.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to cache: %w", err)
	}
	app.cache = c

	statsCache, err := cache.NewRedisStatsCache(
		c.Client,
		time.Duration(app.config.Cache.StatsTTLSeconds)*time.Second,
		app.logger,
	)
	if err != nil {
		app.closeCache()
		return nil, fmt.Errorf("failed to create stats cache: %w", err)
	}

	app.logger.Info("stats cache enabled",
		slog.Int("ttl_seconds", app.config.Cache.StatsTTLSeconds))
	return statsCache, nil
}

// schedulerParams maps the scheduler config onto the adaptation and
// vocabulary scheduling thresholds.
func schedulerParams(cfg config.SchedulerConfig) (*adaptive.Params, *srs.Params) {
	adaptiveParams := adaptive.NewParams(adaptive.ParamsConfig{
		WindowSize:        cfg.WindowSize,
		StreakThreshold:   cfg.StreakThreshold,
		RateMinWindow:     cfg.RateMinWindow,
		RateUpThreshold:   cfg.RateUpThreshold,
		RateDownThreshold: cfg.RateDownThreshold,
		LevelUpMinRate:    cfg.LevelUpMinRate,
		LevelDownMaxRate:  cfg.LevelDownMaxRate,
	})
	srsParams := srs.NewParams(srs.ParamsConfig{
		MinEaseFactor:        cfg.MinEaseFactor,
		FirstInterval:        cfg.FirstIntervalDays,
		SecondInterval:       cfg.SecondIntervalDays,
		MasteredMinReviews:   cfg.MasteredMinReviews,
		MasteredMinAccuracy:  cfg.MasteredMinAccuracy,
		MasteredIntervalDays: cfg.MasteredIntervalDays,
	})
	return adaptiveParams, srsParams
}

func loadMessageCatalog(path string) (adaptive.MessageCatalog, error) {
	if path == "" {
		return nil, nil
	}
	catalog, err := adaptive.LoadMessageCatalog(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load message catalog: %w", err)
	}
	return catalog, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	app.closeCache()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
		app.db = nil
	}

	app.logger.Info("Application shutdown completed")
}

func (app *application) closeCache() {
	if app.cache == nil {
		return
	}
	if err := app.cache.Close(); err != nil {
		app.logger.Error("Error closing cache connection", "error", err)
	}
	app.cache = nil
}
