package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-progress/internal/domain"
)

// Common errors
var (
	ErrNilProgress         = errors.New("vocabulary progress cannot be nil")
	ErrInvalidPostponeDays = errors.New("postpone days must be at least 1")
)

// Service defines the interface for spaced-repetition operations.
// All methods are pure and take the current time explicitly.
type Service interface {
	// InitializeProgress creates progress for a word entering a student's curriculum
	InitializeProgress(wordID string, studentID uuid.UUID, now time.Time) *domain.VocabularyProgress

	// RecordReview computes new progress from a 0-5 quality rating
	RecordReview(
		progress *domain.VocabularyProgress,
		quality domain.Quality,
		now time.Time,
	) (*domain.VocabularyProgress, error)

	// PostponeReview pushes the next review time forward by a specified number of days
	PostponeReview(
		progress *domain.VocabularyProgress,
		days int,
		now time.Time,
	) (*domain.VocabularyProgress, error)

	// SelectDueWords returns at most maxWords items to study next
	SelectDueWords(all []*domain.VocabularyProgress, maxWords int, now time.Time) []*domain.VocabularyProgress

	// ComputeStudyStats summarizes statuses and today's activity
	ComputeStudyStats(all []*domain.VocabularyProgress, now time.Time) StudyStats

	// NextDueChange reports the earliest review time after now, if any. Stats
	// computed at now stay accurate until then unless progress is written.
	NextDueChange(all []*domain.VocabularyProgress, now time.Time) (time.Time, bool)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{
		params: params,
	}
}

// InitializeProgress implements Service.InitializeProgress
func (s *defaultService) InitializeProgress(wordID string, studentID uuid.UUID, now time.Time) *domain.VocabularyProgress {
	p := domain.NewVocabularyProgress(wordID, studentID, now)
	p.EaseFactor = s.params.InitialEaseFactor
	return p
}

// RecordReview implements Service.RecordReview
func (s *defaultService) RecordReview(
	progress *domain.VocabularyProgress,
	quality domain.Quality,
	now time.Time,
) (*domain.VocabularyProgress, error) {
	// Validate inputs
	if progress == nil {
		return nil, ErrNilProgress
	}

	if !quality.Valid() {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidQualityRating, quality)
	}

	return calculateNextProgress(progress, quality, now, s.params), nil
}

// PostponeReview implements Service.PostponeReview
func (s *defaultService) PostponeReview(
	progress *domain.VocabularyProgress,
	days int,
	now time.Time,
) (*domain.VocabularyProgress, error) {
	if progress == nil {
		return nil, ErrNilProgress
	}

	if days < 1 {
		return nil, ErrInvalidPostponeDays
	}

	next := progress.Clone()

	// Postponing an overdue word counts from now, not from the stale due date
	base := progress.NextReviewAt
	if base.Before(now) {
		base = now
	}
	next.NextReviewAt = base.AddDate(0, 0, days)

	return next, nil
}

// SelectDueWords implements Service.SelectDueWords
func (s *defaultService) SelectDueWords(
	all []*domain.VocabularyProgress,
	maxWords int,
	now time.Time,
) []*domain.VocabularyProgress {
	return selectDueWords(all, maxWords, now)
}

// ComputeStudyStats implements Service.ComputeStudyStats
func (s *defaultService) ComputeStudyStats(all []*domain.VocabularyProgress, now time.Time) StudyStats {
	return computeStudyStats(all, now)
}

// NextDueChange implements Service.NextDueChange
func (s *defaultService) NextDueChange(all []*domain.VocabularyProgress, now time.Time) (time.Time, bool) {
	return nextDueChange(all, now)
}
