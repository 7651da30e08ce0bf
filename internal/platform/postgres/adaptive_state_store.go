package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-progress/internal/domain"
	"github.com/phrazzld/lingo-progress/internal/platform/logger"
	"github.com/phrazzld/lingo-progress/internal/redact"
	"github.com/phrazzld/lingo-progress/internal/store"
)

// PostgresAdaptiveStateStore implements the store.AdaptiveStateStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAdaptiveStateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAdaptiveStateStore creates a new PostgreSQL implementation of the
// AdaptiveStateStore interface. If logger is nil, a default logger will be used.
func NewPostgresAdaptiveStateStore(db store.DBTX, logger *slog.Logger) *PostgresAdaptiveStateStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAdaptiveStateStore{
		db:     db,
		logger: logger.With(slog.String("component", "adaptive_state_store")),
	}
}

// Ensure PostgresAdaptiveStateStore implements store.AdaptiveStateStore interface
var _ store.AdaptiveStateStore = (*PostgresAdaptiveStateStore)(nil)

const selectAdaptiveStateSQL = `
	SELECT student_id, current_difficulty, consecutive_correct, consecutive_incorrect,
	       recent_performance, recommended_difficulty, show_hint, encouragement, updated_at
	FROM adaptive_states
	WHERE student_id = $1
`

// Get implements store.AdaptiveStateStore.Get
func (s *PostgresAdaptiveStateStore) Get(ctx context.Context, studentID uuid.UUID) (*domain.AdaptiveState, error) {
	return s.get(ctx, selectAdaptiveStateSQL, studentID)
}

// GetForUpdate implements store.AdaptiveStateStore.GetForUpdate
func (s *PostgresAdaptiveStateStore) GetForUpdate(
	ctx context.Context,
	studentID uuid.UUID,
) (*domain.AdaptiveState, error) {
	return s.get(ctx, selectAdaptiveStateSQL+" FOR UPDATE", studentID)
}

func (s *PostgresAdaptiveStateStore) get(
	ctx context.Context,
	query string,
	studentID uuid.UUID,
) (*domain.AdaptiveState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		state         domain.AdaptiveState
		window        []byte
		encouragement sql.NullString
	)

	err := s.db.QueryRowContext(ctx, query, studentID).Scan(
		&state.StudentID,
		&state.CurrentDifficulty,
		&state.ConsecutiveCorrect,
		&state.ConsecutiveIncorrect,
		&window,
		&state.RecommendedDifficulty,
		&state.ShowHint,
		&encouragement,
		&state.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("adaptive state not found", slog.String("student_id", studentID.String()))
			return nil, store.ErrAdaptiveStateNotFound
		}
		log.Error("failed to get adaptive state",
			slog.String("error", redact.Error(err)),
			slog.String("student_id", studentID.String()))
		return nil, store.NewStoreError("adaptive_state", "get", "query failed", MapError(err))
	}

	state.RecentPerformance = []domain.PerformanceRecord{}
	if len(window) > 0 {
		if err := json.Unmarshal(window, &state.RecentPerformance); err != nil {
			log.Error("stored performance window is not valid JSON",
				slog.String("error", redact.Error(err)),
				slog.String("student_id", studentID.String()))
			return nil, store.NewStoreError("adaptive_state", "get", "decode window", err)
		}
	}
	if encouragement.Valid {
		msg := encouragement.String
		state.Encouragement = &msg
	}

	return &state, nil
}

// Upsert implements store.AdaptiveStateStore.Upsert
func (s *PostgresAdaptiveStateStore) Upsert(ctx context.Context, state *domain.AdaptiveState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		log.Warn("adaptive state validation failed during upsert",
			slog.String("error", redact.Error(err)),
			slog.String("student_id", state.StudentID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	window := state.RecentPerformance
	if window == nil {
		window = []domain.PerformanceRecord{}
	}
	windowJSON, err := json.Marshal(window)
	if err != nil {
		return store.NewStoreError("adaptive_state", "upsert", "encode window", err)
	}

	var encouragement sql.NullString
	if state.Encouragement != nil {
		encouragement = sql.NullString{String: *state.Encouragement, Valid: true}
	}

	query := `
		INSERT INTO adaptive_states (
			student_id, current_difficulty, consecutive_correct, consecutive_incorrect,
			recent_performance, recommended_difficulty, show_hint, encouragement, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (student_id) DO UPDATE SET
			current_difficulty     = EXCLUDED.current_difficulty,
			consecutive_correct    = EXCLUDED.consecutive_correct,
			consecutive_incorrect  = EXCLUDED.consecutive_incorrect,
			recent_performance     = EXCLUDED.recent_performance,
			recommended_difficulty = EXCLUDED.recommended_difficulty,
			show_hint              = EXCLUDED.show_hint,
			encouragement          = EXCLUDED.encouragement,
			updated_at             = EXCLUDED.updated_at
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		state.StudentID,
		state.CurrentDifficulty,
		state.ConsecutiveCorrect,
		state.ConsecutiveIncorrect,
		windowJSON,
		state.RecommendedDifficulty,
		state.ShowHint,
		encouragement,
		state.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to upsert adaptive state",
			slog.String("error", redact.Error(err)),
			slog.String("student_id", state.StudentID.String()))
		return store.NewStoreError("adaptive_state", "upsert", "exec failed", MapError(err))
	}

	log.Debug("adaptive state saved",
		slog.String("student_id", state.StudentID.String()),
		slog.Int("current_difficulty", state.CurrentDifficulty),
		slog.Int("window_length", len(window)))
	return nil
}

// WithTx implements store.AdaptiveStateStore.WithTx
func (s *PostgresAdaptiveStateStore) WithTx(tx *sql.Tx) store.AdaptiveStateStore {
	return &PostgresAdaptiveStateStore{
		db:     tx,
		logger: s.logger,
	}
}
