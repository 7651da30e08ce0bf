package learning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-progress/internal/domain"
	"github.com/phrazzld/lingo-progress/internal/domain/adaptive"
	"github.com/phrazzld/lingo-progress/internal/domain/srs"
	"github.com/phrazzld/lingo-progress/internal/events"
	"github.com/phrazzld/lingo-progress/internal/platform/cache"
	"github.com/phrazzld/lingo-progress/internal/platform/logger"
	"github.com/phrazzld/lingo-progress/internal/redact"
	"github.com/phrazzld/lingo-progress/internal/store"
)

// maxWordIDLength bounds word identifiers accepted from callers.
const maxWordIDLength = 128

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	tx         store.Transactor
	adaptive   adaptive.Service
	srs        srs.Service
	emitter    events.EventEmitter
	statsCache cache.StudyStatsCache
	cfg        Config
	locks      *studentLocks
	now        func() time.Time
	logger     *slog.Logger
}

// Option customizes a service created by NewLearningService.
type Option func(*serviceImpl)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *serviceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// NewLearningService creates a new Service implementation.
// A nil emitter or stats cache disables that concern.
func NewLearningService(
	tx store.Transactor,
	adaptiveSvc adaptive.Service,
	srsSvc srs.Service,
	emitter events.EventEmitter,
	statsCache cache.StudyStatsCache,
	cfg Config,
	logger *slog.Logger,
	opts ...Option,
) Service {
	if tx == nil {
		panic("tx cannot be nil")
	}
	if adaptiveSvc == nil {
		panic("adaptiveSvc cannot be nil")
	}
	if srsSvc == nil {
		panic("srsSvc cannot be nil")
	}

	if statsCache == nil {
		statsCache = cache.NoopStatsCache{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.StartingDifficulty == 0 {
		cfg.StartingDifficulty = domain.MinDifficulty
	}
	if cfg.MaxDueWords <= 0 {
		cfg.MaxDueWords = 20
	}

	s := &serviceImpl{
		tx:         tx,
		adaptive:   adaptiveSvc,
		srs:        srsSvc,
		emitter:    emitter,
		statsCache: statsCache,
		cfg:        cfg,
		locks:      newStudentLocks(),
		now:        func() time.Time { return time.Now().UTC() },
		logger:     logger.With(slog.String("component", "learning_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *serviceImpl) status(state *domain.AdaptiveState) *AdaptiveStatus {
	return &AdaptiveStatus{
		State:          state,
		LevelUpReady:   s.adaptive.ShouldLevelUp(state),
		LevelDownReady: s.adaptive.ShouldLevelDown(state),
	}
}

// loadState returns the stored state or a fresh one.
func (s *serviceImpl) loadState(
	ctx context.Context,
	repo store.AdaptiveStateStore,
	studentID uuid.UUID,
	forUpdate bool,
	now time.Time,
) (*domain.AdaptiveState, error) {
	var (
		state *domain.AdaptiveState
		err   error
	)
	if forUpdate {
		state, err = repo.GetForUpdate(ctx, studentID)
	} else {
		state, err = repo.Get(ctx, studentID)
	}
	if err != nil {
		if errors.Is(err, store.ErrAdaptiveStateNotFound) {
			return s.adaptive.InitialState(studentID, s.cfg.StartingDifficulty, now), nil
		}
		return nil, fmt.Errorf("failed to load adaptive state: %w", err)
	}
	return state, nil
}

// emit publishes an event after its change has been committed. Handler
// failures are logged; the change itself already succeeded.
func (s *serviceImpl) emit(ctx context.Context, eventType string, studentID uuid.UUID, payload interface{}, now time.Time) {
	if s.emitter == nil {
		return
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := events.NewEvent(eventType, studentID, payload, now)
	if err != nil {
		log.Error("failed to build event",
			slog.String("event_type", eventType),
			slog.String("error", redact.Error(err)))
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("event handler failed",
			slog.String("event_type", eventType),
			slog.String("event_id", event.ID.String()),
			slog.String("error", redact.Error(err)))
	}
}

func validateStudentID(studentID uuid.UUID) error {
	if studentID == uuid.Nil {
		return ErrInvalidStudentID
	}
	return nil
}

func normalizeWordID(wordID string) (string, error) {
	wordID = strings.TrimSpace(wordID)
	if wordID == "" || len(wordID) > maxWordIDLength {
		return "", fmt.Errorf("%w: %q", ErrInvalidWordID, wordID)
	}
	return wordID, nil
}

// GetAdaptiveState implements Service.GetAdaptiveState
func (s *serviceImpl) GetAdaptiveState(ctx context.Context, studentID uuid.UUID) (*AdaptiveStatus, error) {
	if err := validateStudentID(studentID); err != nil {
		return nil, err
	}
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now()

	var state *domain.AdaptiveState
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		var err error
		state, err = s.loadState(ctx, repos.AdaptiveStates, studentID, false, now)
		return err
	})
	if err != nil {
		log.Error("failed to get adaptive state",
			slog.String("error", redact.Error(err)),
			slog.String("student_id", studentID.String()))
		return nil, err
	}

	return s.status(state), nil
}

// RecordAnswer implements Service.RecordAnswer
func (s *serviceImpl) RecordAnswer(
	ctx context.Context,
	studentID uuid.UUID,
	record domain.PerformanceRecord,
) (*AdaptiveStatus, error) {
	if err := validateStudentID(studentID); err != nil {
		return nil, err
	}
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now()

	if record.Timestamp.IsZero() {
		record.Timestamp = now
	}
	if err := record.Validate(); err != nil {
		log.Debug("rejected invalid performance record",
			slog.String("student_id", studentID.String()),
			slog.String("error", redact.Error(err)))
		return nil, err
	}

	unlock := s.locks.lock(studentID)
	defer unlock()

	var next *domain.AdaptiveState
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		state, err := s.loadState(ctx, repos.AdaptiveStates, studentID, true, now)
		if err != nil {
			return err
		}

		next, err = s.adaptive.RecordAnswer(state, record)
		if err != nil {
			return err
		}
		next.UpdatedAt = now

		if err := repos.AdaptiveStates.Upsert(ctx, next); err != nil {
			return fmt.Errorf("failed to save adaptive state: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRecord) {
			return nil, err
		}
		log.Error("failed to record answer",
			slog.String("error", redact.Error(err)),
			slog.String("student_id", studentID.String()))
		return nil, err
	}

	result := s.status(next)
	log.Debug("answer recorded",
		slog.String("student_id", studentID.String()),
		slog.Bool("correct", record.Correct),
		slog.Int("recommended_difficulty", next.RecommendedDifficulty),
		slog.Bool("level_up_ready", result.LevelUpReady),
		slog.Bool("level_down_ready", result.LevelDownReady))

	s.emit(ctx, events.TypeAnswerRecorded, studentID, events.AnswerRecordedPayload{
		ContentID:             record.ContentID,
		Correct:               record.Correct,
		Difficulty:            record.Difficulty,
		RecommendedDifficulty: next.RecommendedDifficulty,
		LevelUpReady:          result.LevelUpReady,
		LevelDownReady:        result.LevelDownReady,
	}, now)

	return result, nil
}

// CommitLevelUp implements Service.CommitLevelUp
func (s *serviceImpl) CommitLevelUp(ctx context.Context, studentID uuid.UUID) (*AdaptiveStatus, error) {
	return s.commitLevel(ctx, studentID, "up", s.adaptive.CommitLevelUp)
}

// CommitLevelDown implements Service.CommitLevelDown
func (s *serviceImpl) CommitLevelDown(ctx context.Context, studentID uuid.UUID) (*AdaptiveStatus, error) {
	return s.commitLevel(ctx, studentID, "down", s.adaptive.CommitLevelDown)
}

func (s *serviceImpl) commitLevel(
	ctx context.Context,
	studentID uuid.UUID,
	direction string,
	commit func(*domain.AdaptiveState) (*domain.AdaptiveState, error),
) (*AdaptiveStatus, error) {
	if err := validateStudentID(studentID); err != nil {
		return nil, err
	}
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now()

	unlock := s.locks.lock(studentID)
	defer unlock()

	var from int
	var next *domain.AdaptiveState
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		state, err := s.loadState(ctx, repos.AdaptiveStates, studentID, true, now)
		if err != nil {
			return err
		}
		from = state.CurrentDifficulty

		next, err = commit(state)
		if err != nil {
			return err
		}
		next.UpdatedAt = now

		if err := repos.AdaptiveStates.Upsert(ctx, next); err != nil {
			return fmt.Errorf("failed to save adaptive state: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrLevelChangeNotReady) {
			log.Debug("level change rejected",
				slog.String("student_id", studentID.String()),
				slog.String("direction", direction))
			return nil, err
		}
		log.Error("failed to commit level change",
			slog.String("error", redact.Error(err)),
			slog.String("student_id", studentID.String()),
			slog.String("direction", direction))
		return nil, err
	}

	log.Info("level changed",
		slog.String("student_id", studentID.String()),
		slog.Int("from", from),
		slog.Int("to", next.CurrentDifficulty))

	s.emit(ctx, events.TypeLevelChanged, studentID, events.LevelChangedPayload{
		From: from,
		To:   next.CurrentDifficulty,
	}, now)

	return s.status(next), nil
}

// InitializeWord implements Service.InitializeWord
func (s *serviceImpl) InitializeWord(
	ctx context.Context,
	studentID uuid.UUID,
	wordID string,
) (*domain.VocabularyProgress, bool, error) {
	if err := validateStudentID(studentID); err != nil {
		return nil, false, err
	}
	wordID, err := normalizeWordID(wordID)
	if err != nil {
		return nil, false, err
	}
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now()

	unlock := s.locks.lock(studentID)
	defer unlock()

	var (
		progress *domain.VocabularyProgress
		created  bool
	)
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		existing, err := repos.Vocabulary.Get(ctx, studentID, wordID)
		if err == nil {
			progress = existing
			return nil
		}
		if !errors.Is(err, store.ErrVocabularyProgressNotFound) {
			return fmt.Errorf("failed to look up word: %w", err)
		}

		progress = s.srs.InitializeProgress(wordID, studentID, now)
		if err := repos.Vocabulary.Create(ctx, progress); err != nil {
			return fmt.Errorf("failed to create word progress: %w", err)
		}
		created = true
		return nil
	})
	if err != nil {
		log.Error("failed to initialize word",
			slog.String("error", redact.Error(err)),
			slog.String("student_id", studentID.String()),
			slog.String("word_id", wordID))
		return nil, false, err
	}

	if created {
		s.emit(ctx, events.TypeVocabularyAdded, studentID, events.VocabularyScheduledPayload{
			WordID:       wordID,
			NextReviewAt: progress.NextReviewAt,
		}, now)
	}
	return progress, created, nil
}

// ReviewWord implements Service.ReviewWord
func (s *serviceImpl) ReviewWord(
	ctx context.Context,
	studentID uuid.UUID,
	wordID string,
	quality domain.Quality,
) (*domain.VocabularyProgress, error) {
	if err := validateStudentID(studentID); err != nil {
		return nil, err
	}
	wordID, err := normalizeWordID(wordID)
	if err != nil {
		return nil, err
	}
	if !quality.Valid() {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidQualityRating, quality)
	}
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now()

	unlock := s.locks.lock(studentID)
	defer unlock()

	var previous, next *domain.VocabularyProgress
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		var err error
		previous, err = repos.Vocabulary.GetForUpdate(ctx, studentID, wordID)
		if err != nil {
			if errors.Is(err, store.ErrVocabularyProgressNotFound) {
				return ErrWordNotFound
			}
			return fmt.Errorf("failed to load word progress: %w", err)
		}

		next, err = s.srs.RecordReview(previous, quality, now)
		if err != nil {
			return err
		}

		if err := repos.Vocabulary.Update(ctx, next); err != nil {
			return fmt.Errorf("failed to save word progress: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrWordNotFound) {
			log.Debug("review for unknown word",
				slog.String("student_id", studentID.String()),
				slog.String("word_id", wordID))
			return nil, err
		}
		log.Error("failed to review word",
			slog.String("error", redact.Error(err)),
			slog.String("student_id", studentID.String()),
			slog.String("word_id", wordID))
		return nil, err
	}

	log.Debug("word reviewed",
		slog.String("student_id", studentID.String()),
		slog.String("word_id", wordID),
		slog.Int("quality", int(quality)),
		slog.String("status", string(next.Status)),
		slog.Int("interval", next.Interval))

	payload := events.VocabularyReviewedPayload{
		WordID:   wordID,
		Quality:  int(quality),
		Status:   string(next.Status),
		Interval: next.Interval,
	}
	s.emit(ctx, events.TypeVocabularyReviewed, studentID, payload, now)
	if previous.Status != domain.StatusMastered && next.Status == domain.StatusMastered {
		s.emit(ctx, events.TypeVocabularyMastered, studentID, payload, now)
	}

	return next, nil
}

// PostponeWord implements Service.PostponeWord
func (s *serviceImpl) PostponeWord(
	ctx context.Context,
	studentID uuid.UUID,
	wordID string,
	days int,
) (*domain.VocabularyProgress, error) {
	if err := validateStudentID(studentID); err != nil {
		return nil, err
	}
	wordID, err := normalizeWordID(wordID)
	if err != nil {
		return nil, err
	}
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now()

	unlock := s.locks.lock(studentID)
	defer unlock()

	var next *domain.VocabularyProgress
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		current, err := repos.Vocabulary.GetForUpdate(ctx, studentID, wordID)
		if err != nil {
			if errors.Is(err, store.ErrVocabularyProgressNotFound) {
				return ErrWordNotFound
			}
			return fmt.Errorf("failed to load word progress: %w", err)
		}

		next, err = s.srs.PostponeReview(current, days, now)
		if err != nil {
			return err
		}

		if err := repos.Vocabulary.Update(ctx, next); err != nil {
			return fmt.Errorf("failed to save word progress: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrWordNotFound) || errors.Is(err, srs.ErrInvalidPostponeDays) {
			return nil, err
		}
		log.Error("failed to postpone word",
			slog.String("error", redact.Error(err)),
			slog.String("student_id", studentID.String()),
			slog.String("word_id", wordID))
		return nil, err
	}

	s.emit(ctx, events.TypeVocabularyPostponed, studentID, events.VocabularyScheduledPayload{
		WordID:       wordID,
		NextReviewAt: next.NextReviewAt,
	}, now)
	return next, nil
}

func (s *serviceImpl) listWords(ctx context.Context, studentID uuid.UUID) ([]*domain.VocabularyProgress, error) {
	var all []*domain.VocabularyProgress
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		var err error
		all, err = repos.Vocabulary.ListByStudent(ctx, studentID)
		if err != nil {
			return fmt.Errorf("failed to list words: %w", err)
		}
		return nil
	})
	return all, err
}

// DueWords implements Service.DueWords
func (s *serviceImpl) DueWords(
	ctx context.Context,
	studentID uuid.UUID,
	maxWords int,
) ([]*domain.VocabularyProgress, error) {
	if err := validateStudentID(studentID); err != nil {
		return nil, err
	}
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now()

	if maxWords <= 0 {
		maxWords = s.cfg.MaxDueWords
	}

	all, err := s.listWords(ctx, studentID)
	if err != nil {
		log.Error("failed to select due words",
			slog.String("error", redact.Error(err)),
			slog.String("student_id", studentID.String()))
		return nil, err
	}

	due := s.srs.SelectDueWords(all, maxWords, now)
	log.Debug("selected due words",
		slog.String("student_id", studentID.String()),
		slog.Int("candidates", len(all)),
		slog.Int("selected", len(due)))
	return due, nil
}

// StudyStats implements Service.StudyStats
func (s *serviceImpl) StudyStats(ctx context.Context, studentID uuid.UUID) (*srs.StudyStats, error) {
	if err := validateStudentID(studentID); err != nil {
		return nil, err
	}
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now()

	if cached, ok := s.statsCache.Get(ctx, studentID, now); ok {
		log.Debug("study stats served from cache", slog.String("student_id", studentID.String()))
		return cached, nil
	}

	all, err := s.listWords(ctx, studentID)
	if err != nil {
		log.Error("failed to compute study stats",
			slog.String("error", redact.Error(err)),
			slog.String("student_id", studentID.String()))
		return nil, err
	}

	stats := s.srs.ComputeStudyStats(all, now)
	// DueToday grows on its own when the next scheduled review arrives
	validUntil, _ := s.srs.NextDueChange(all, now)
	s.statsCache.Set(ctx, studentID, now, stats, validUntil)
	return &stats, nil
}
