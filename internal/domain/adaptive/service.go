package adaptive

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-progress/internal/domain"
)

// Common errors
var (
	ErrNilState = errors.New("adaptive state cannot be nil")
)

// Service defines the interface for difficulty adaptation operations.
// All methods are pure: they never modify their arguments.
type Service interface {
	// InitialState creates the state for a student starting at the given
	// difficulty, clamped to the supported range.
	InitialState(studentID uuid.UUID, startingDifficulty int, now time.Time) *domain.AdaptiveState

	// RecordAnswer applies one graded answer and returns the new state.
	// An invalid record yields domain.ErrInvalidRecord and no state.
	RecordAnswer(state *domain.AdaptiveState, record domain.PerformanceRecord) (*domain.AdaptiveState, error)

	// ShouldLevelUp reports whether the caller may commit a level increase.
	ShouldLevelUp(state *domain.AdaptiveState) bool

	// ShouldLevelDown reports whether the caller may commit a level decrease.
	ShouldLevelDown(state *domain.AdaptiveState) bool

	// CommitLevelUp moves the current difficulty to the recommendation and
	// resets the correct streak. Returns domain.ErrLevelChangeNotReady when
	// the level-up gate is closed.
	CommitLevelUp(state *domain.AdaptiveState) (*domain.AdaptiveState, error)

	// CommitLevelDown moves the current difficulty to the recommendation and
	// resets the incorrect streak. Returns domain.ErrLevelChangeNotReady when
	// the level-down gate is closed.
	CommitLevelDown(state *domain.AdaptiveState) (*domain.AdaptiveState, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
	rules  []EncouragementRule
}

// NewDefaultService creates a new adaptation service with default parameters
func NewDefaultService() Service {
	return NewService(NewDefaultParams(), nil)
}

// NewService creates an adaptation service with custom parameters and an
// optional message catalog.
func NewService(params *Params, catalog MessageCatalog) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{
		params: params,
		rules:  EncouragementRules(params, catalog),
	}
}

// InitialState implements Service.InitialState
func (s *defaultService) InitialState(studentID uuid.UUID, startingDifficulty int, now time.Time) *domain.AdaptiveState {
	return domain.NewAdaptiveState(studentID, startingDifficulty, now)
}

// RecordAnswer implements Service.RecordAnswer
func (s *defaultService) RecordAnswer(
	state *domain.AdaptiveState,
	record domain.PerformanceRecord,
) (*domain.AdaptiveState, error) {
	if state == nil {
		return nil, ErrNilState
	}

	// Reject before touching the window
	if err := record.Validate(); err != nil {
		return nil, err
	}

	return calculateNextState(state, record, s.rules, s.params), nil
}

// ShouldLevelUp implements Service.ShouldLevelUp
func (s *defaultService) ShouldLevelUp(state *domain.AdaptiveState) bool {
	if state == nil {
		return false
	}
	return levelUpReady(state, s.params)
}

// ShouldLevelDown implements Service.ShouldLevelDown
func (s *defaultService) ShouldLevelDown(state *domain.AdaptiveState) bool {
	if state == nil {
		return false
	}
	return levelDownReady(state, s.params)
}

// CommitLevelUp implements Service.CommitLevelUp
func (s *defaultService) CommitLevelUp(state *domain.AdaptiveState) (*domain.AdaptiveState, error) {
	if state == nil {
		return nil, ErrNilState
	}
	if !levelUpReady(state, s.params) {
		return nil, fmt.Errorf("%w: level up", domain.ErrLevelChangeNotReady)
	}

	next := state.Clone()
	next.CurrentDifficulty = domain.ClampDifficulty(state.RecommendedDifficulty)
	next.ConsecutiveCorrect = 0
	return next, nil
}

// CommitLevelDown implements Service.CommitLevelDown
func (s *defaultService) CommitLevelDown(state *domain.AdaptiveState) (*domain.AdaptiveState, error) {
	if state == nil {
		return nil, ErrNilState
	}
	if !levelDownReady(state, s.params) {
		return nil, fmt.Errorf("%w: level down", domain.ErrLevelChangeNotReady)
	}

	next := state.Clone()
	next.CurrentDifficulty = domain.ClampDifficulty(state.RecommendedDifficulty)
	next.ConsecutiveIncorrect = 0
	return next, nil
}
