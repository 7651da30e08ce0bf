package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AdaptiveState is the per-student difficulty adaptation state.
//
// CurrentDifficulty is authoritative and only changes when the caller commits
// a level change. RecommendedDifficulty, ShowHint and Encouragement are derived
// on every recorded answer.
type AdaptiveState struct {
	StudentID             uuid.UUID           `json:"student_id"`
	CurrentDifficulty     int                 `json:"current_difficulty"`
	ConsecutiveCorrect    int                 `json:"consecutive_correct"`
	ConsecutiveIncorrect  int                 `json:"consecutive_incorrect"`
	RecentPerformance     []PerformanceRecord `json:"recent_performance"`
	RecommendedDifficulty int                 `json:"recommended_difficulty"`
	ShowHint              bool                `json:"show_hint"`
	Encouragement         *string             `json:"encouragement"`
	UpdatedAt             time.Time           `json:"updated_at"`
}

// NewAdaptiveState creates the initial state for a student. The starting
// difficulty is clamped to [MinDifficulty, MaxDifficulty] rather than rejected,
// so construction never fails on out-of-range stored levels.
func NewAdaptiveState(studentID uuid.UUID, startingDifficulty int, now time.Time) *AdaptiveState {
	d := ClampDifficulty(startingDifficulty)
	return &AdaptiveState{
		StudentID:             studentID,
		CurrentDifficulty:     d,
		RecommendedDifficulty: d,
		RecentPerformance:     []PerformanceRecord{},
		UpdatedAt:             now,
	}
}

// WindowLength returns the number of records in the recent-performance window.
func (s *AdaptiveState) WindowLength() int {
	return len(s.RecentPerformance)
}

// CorrectCount returns the number of correct answers in the window.
func (s *AdaptiveState) CorrectCount() int {
	n := 0
	for _, r := range s.RecentPerformance {
		if r.Correct {
			n++
		}
	}
	return n
}

// SuccessRate returns the fraction of correct answers in the window, or 0 for
// an empty window.
func (s *AdaptiveState) SuccessRate() float64 {
	if len(s.RecentPerformance) == 0 {
		return 0
	}
	return float64(s.CorrectCount()) / float64(len(s.RecentPerformance))
}

// Clone returns a deep copy, so the window and encouragement of the result can
// be changed without touching s.
func (s *AdaptiveState) Clone() *AdaptiveState {
	c := *s
	c.RecentPerformance = make([]PerformanceRecord, len(s.RecentPerformance))
	copy(c.RecentPerformance, s.RecentPerformance)
	if s.Encouragement != nil {
		msg := *s.Encouragement
		c.Encouragement = &msg
	}
	return &c
}

// Validate checks a state loaded from or about to be written to storage.
func (s *AdaptiveState) Validate() error {
	if s.StudentID == uuid.Nil {
		return NewValidationError("student_id", "cannot be empty", ErrInvalidID)
	}
	if !ValidDifficulty(s.CurrentDifficulty) {
		return fmt.Errorf("%w: current difficulty %d", ErrInvalidDifficulty, s.CurrentDifficulty)
	}
	if !ValidDifficulty(s.RecommendedDifficulty) {
		return fmt.Errorf("%w: recommended difficulty %d", ErrInvalidDifficulty, s.RecommendedDifficulty)
	}
	if s.ConsecutiveCorrect < 0 || s.ConsecutiveIncorrect < 0 {
		return NewValidationError("consecutive counters", "cannot be negative", ErrValidation)
	}
	if s.ConsecutiveCorrect > 0 && s.ConsecutiveIncorrect > 0 {
		return NewValidationError("consecutive counters", "cannot both be positive", ErrValidation)
	}
	for i, r := range s.RecentPerformance {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("recent performance[%d]: %w", i, err)
		}
	}
	return nil
}
