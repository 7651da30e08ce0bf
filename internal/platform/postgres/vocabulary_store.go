package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-progress/internal/domain"
	"github.com/phrazzld/lingo-progress/internal/platform/logger"
	"github.com/phrazzld/lingo-progress/internal/redact"
	"github.com/phrazzld/lingo-progress/internal/store"
)

// PostgresVocabularyStore implements the store.VocabularyProgressStore interface
// using a PostgreSQL database as the storage backend.
type PostgresVocabularyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresVocabularyStore creates a new PostgreSQL implementation of the
// VocabularyProgressStore interface. If logger is nil, a default logger will be used.
func NewPostgresVocabularyStore(db store.DBTX, logger *slog.Logger) *PostgresVocabularyStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresVocabularyStore{
		db:     db,
		logger: logger.With(slog.String("component", "vocabulary_store")),
	}
}

// Ensure PostgresVocabularyStore implements store.VocabularyProgressStore interface
var _ store.VocabularyProgressStore = (*PostgresVocabularyStore)(nil)

const vocabularyColumns = `
	student_id, word_id, times_reviewed, times_correct, times_incorrect,
	ease_factor, interval_days, status, last_reviewed_at, next_review_at
`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanVocabularyProgress(row rowScanner) (*domain.VocabularyProgress, error) {
	var (
		p            domain.VocabularyProgress
		status       string
		lastReviewed sql.NullTime
	)

	err := row.Scan(
		&p.StudentID,
		&p.WordID,
		&p.TimesReviewed,
		&p.TimesCorrect,
		&p.TimesIncorrect,
		&p.EaseFactor,
		&p.Interval,
		&status,
		&lastReviewed,
		&p.NextReviewAt,
	)
	if err != nil {
		return nil, err
	}

	p.Status = domain.VocabularyStatus(status)
	if lastReviewed.Valid {
		t := lastReviewed.Time
		p.LastReviewedAt = &t
	}
	return &p, nil
}

func nullableTime(p *domain.VocabularyProgress) sql.NullTime {
	if p.LastReviewedAt == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *p.LastReviewedAt, Valid: true}
}

// Create implements store.VocabularyProgressStore.Create
func (s *PostgresVocabularyStore) Create(ctx context.Context, progress *domain.VocabularyProgress) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := progress.Validate(); err != nil {
		log.Warn("vocabulary progress validation failed during create",
			slog.String("error", redact.Error(err)),
			slog.String("word_id", progress.WordID))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO vocabulary_progress (` + vocabularyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		progress.StudentID,
		progress.WordID,
		progress.TimesReviewed,
		progress.TimesCorrect,
		progress.TimesIncorrect,
		progress.EaseFactor,
		progress.Interval,
		string(progress.Status),
		nullableTime(progress),
		progress.NextReviewAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("vocabulary progress already exists",
				slog.String("student_id", progress.StudentID.String()),
				slog.String("word_id", progress.WordID))
			return MapUniqueViolation(err, store.ErrVocabularyProgressExists)
		}
		log.Error("failed to create vocabulary progress",
			slog.String("error", redact.Error(err)),
			slog.String("student_id", progress.StudentID.String()),
			slog.String("word_id", progress.WordID))
		return store.NewStoreError("vocabulary_progress", "create", "exec failed", MapError(err))
	}

	log.Debug("vocabulary progress created",
		slog.String("student_id", progress.StudentID.String()),
		slog.String("word_id", progress.WordID))
	return nil
}

// Get implements store.VocabularyProgressStore.Get
func (s *PostgresVocabularyStore) Get(
	ctx context.Context,
	studentID uuid.UUID,
	wordID string,
) (*domain.VocabularyProgress, error) {
	return s.get(ctx, false, studentID, wordID)
}

// GetForUpdate implements store.VocabularyProgressStore.GetForUpdate
func (s *PostgresVocabularyStore) GetForUpdate(
	ctx context.Context,
	studentID uuid.UUID,
	wordID string,
) (*domain.VocabularyProgress, error) {
	return s.get(ctx, true, studentID, wordID)
}

func (s *PostgresVocabularyStore) get(
	ctx context.Context,
	forUpdate bool,
	studentID uuid.UUID,
	wordID string,
) (*domain.VocabularyProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + vocabularyColumns + ` FROM vocabulary_progress WHERE student_id = $1 AND word_id = $2`
	if forUpdate {
		query += " FOR UPDATE"
	}

	p, err := scanVocabularyProgress(s.db.QueryRowContext(ctx, query, studentID, wordID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("vocabulary progress not found",
				slog.String("student_id", studentID.String()),
				slog.String("word_id", wordID))
			return nil, store.ErrVocabularyProgressNotFound
		}
		log.Error("failed to get vocabulary progress",
			slog.String("error", redact.Error(err)),
			slog.String("student_id", studentID.String()),
			slog.String("word_id", wordID))
		return nil, store.NewStoreError("vocabulary_progress", "get", "query failed", MapError(err))
	}
	return p, nil
}

// Update implements store.VocabularyProgressStore.Update
func (s *PostgresVocabularyStore) Update(ctx context.Context, progress *domain.VocabularyProgress) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := progress.Validate(); err != nil {
		log.Warn("vocabulary progress validation failed during update",
			slog.String("error", redact.Error(err)),
			slog.String("word_id", progress.WordID))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE vocabulary_progress
		SET times_reviewed = $3, times_correct = $4, times_incorrect = $5,
		    ease_factor = $6, interval_days = $7, status = $8,
		    last_reviewed_at = $9, next_review_at = $10
		WHERE student_id = $1 AND word_id = $2
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		progress.StudentID,
		progress.WordID,
		progress.TimesReviewed,
		progress.TimesCorrect,
		progress.TimesIncorrect,
		progress.EaseFactor,
		progress.Interval,
		string(progress.Status),
		nullableTime(progress),
		progress.NextReviewAt,
	)
	if err != nil {
		log.Error("failed to update vocabulary progress",
			slog.String("error", redact.Error(err)),
			slog.String("student_id", progress.StudentID.String()),
			slog.String("word_id", progress.WordID))
		return store.NewStoreError("vocabulary_progress", "update", "exec failed", MapError(err))
	}

	if err := CheckRowsAffected(result, "vocabulary progress"); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrVocabularyProgressNotFound
		}
		return store.NewStoreError("vocabulary_progress", "update", "rows affected", err)
	}

	log.Debug("vocabulary progress updated",
		slog.String("student_id", progress.StudentID.String()),
		slog.String("word_id", progress.WordID),
		slog.String("status", string(progress.Status)),
		slog.Int("interval", progress.Interval))
	return nil
}

// ListByStudent implements store.VocabularyProgressStore.ListByStudent
func (s *PostgresVocabularyStore) ListByStudent(
	ctx context.Context,
	studentID uuid.UUID,
) ([]*domain.VocabularyProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Curriculum order: new words are introduced in the order they were added
	query := `SELECT ` + vocabularyColumns + ` FROM vocabulary_progress WHERE student_id = $1 ORDER BY added_seq`

	rows, err := s.db.QueryContext(ctx, query, studentID)
	if err != nil {
		log.Error("failed to list vocabulary progress",
			slog.String("error", redact.Error(err)),
			slog.String("student_id", studentID.String()))
		return nil, store.NewStoreError("vocabulary_progress", "list", "query failed", MapError(err))
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", redact.Error(closeErr)))
		}
	}()

	result := []*domain.VocabularyProgress{}
	for rows.Next() {
		p, err := scanVocabularyProgress(rows)
		if err != nil {
			return nil, store.NewStoreError("vocabulary_progress", "list", "scan failed", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("vocabulary_progress", "list", "iteration failed", err)
	}

	log.Debug("listed vocabulary progress",
		slog.String("student_id", studentID.String()),
		slog.Int("count", len(result)))
	return result, nil
}

// WithTx implements store.VocabularyProgressStore.WithTx
func (s *PostgresVocabularyStore) WithTx(tx *sql.Tx) store.VocabularyProgressStore {
	return &PostgresVocabularyStore{
		db:     tx,
		logger: s.logger,
	}
}
