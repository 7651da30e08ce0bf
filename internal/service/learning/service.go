package learning

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-progress/internal/domain"
	"github.com/phrazzld/lingo-progress/internal/domain/srs"
)

// AdaptiveStatus is a student's adaptive state together with the two
// level-change gates evaluated against it.
type AdaptiveStatus struct {
	State          *domain.AdaptiveState `json:"state"`
	LevelUpReady   bool                  `json:"level_up_ready"`
	LevelDownReady bool                  `json:"level_down_ready"`
}

// Config holds the tunables the service needs from application configuration.
type Config struct {
	// StartingDifficulty is assigned to students with no stored state.
	StartingDifficulty int
	// MaxDueWords is the batch size used when DueWords is called with maxWords <= 0.
	MaxDueWords int
}

// Service coordinates the learning engines with storage, events and caching.
//
// Every mutating method holds a per-student lock for its whole
// read-modify-persist cycle and runs that cycle in one transaction, so two
// requests for the same student never interleave within a process.
type Service interface {
	// GetAdaptiveState returns the student's state, or a fresh state at the
	// configured starting difficulty when none is stored. A fresh state is not
	// persisted until the first answer.
	GetAdaptiveState(ctx context.Context, studentID uuid.UUID) (*AdaptiveStatus, error)

	// RecordAnswer applies one graded answer and persists the result.
	//
	// Returns:
	//   - domain.ErrInvalidRecord (wrapped) when the record fails validation
	//   - ErrInvalidStudentID for a nil student
	RecordAnswer(ctx context.Context, studentID uuid.UUID, record domain.PerformanceRecord) (*AdaptiveStatus, error)

	// CommitLevelUp applies a pending level increase.
	// Returns domain.ErrLevelChangeNotReady (wrapped) when the gate is closed.
	CommitLevelUp(ctx context.Context, studentID uuid.UUID) (*AdaptiveStatus, error)

	// CommitLevelDown applies a pending level decrease.
	// Returns domain.ErrLevelChangeNotReady (wrapped) when the gate is closed.
	CommitLevelDown(ctx context.Context, studentID uuid.UUID) (*AdaptiveStatus, error)

	// InitializeWord adds a word to the student's curriculum. Calling it for a
	// word that already exists returns the stored progress and created=false.
	InitializeWord(ctx context.Context, studentID uuid.UUID, wordID string) (progress *domain.VocabularyProgress, created bool, err error)

	// ReviewWord records a 0-5 quality rating for a word.
	//
	// Returns:
	//   - ErrWordNotFound when the word was never initialized
	//   - domain.ErrInvalidQualityRating (wrapped) for ratings outside 0-5
	ReviewWord(ctx context.Context, studentID uuid.UUID, wordID string, quality domain.Quality) (*domain.VocabularyProgress, error)

	// PostponeWord moves a word's next review forward by days (at least 1).
	PostponeWord(ctx context.Context, studentID uuid.UUID, wordID string, days int) (*domain.VocabularyProgress, error)

	// DueWords returns the next study batch. maxWords <= 0 uses the configured default.
	DueWords(ctx context.Context, studentID uuid.UUID, maxWords int) ([]*domain.VocabularyProgress, error)

	// StudyStats summarizes the student's vocabulary, served from cache when possible.
	StudyStats(ctx context.Context, studentID uuid.UUID) (*srs.StudyStats, error)
}
