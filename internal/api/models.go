package api

import (
	"time"

	"github.com/phrazzld/lingo-progress/internal/domain"
	"github.com/phrazzld/lingo-progress/internal/service/learning"
)

// RecordAnswerRequest is the payload for POST /api/adaptive/answers.
type RecordAnswerRequest struct {
	ContentID      string `json:"content_id"       validate:"required,max=128"`
	Difficulty     int    `json:"difficulty"       validate:"min=1,max=5"`
	Correct        *bool  `json:"correct"          validate:"required"`
	ResponseTimeMs int    `json:"response_time_ms" validate:"min=0"`
	HintsUsed      int    `json:"hints_used"       validate:"min=0"`
	// Timestamp defaults to the server clock when omitted.
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// ToRecord converts the request into a domain performance record.
func (r RecordAnswerRequest) ToRecord() domain.PerformanceRecord {
	record := domain.PerformanceRecord{
		ContentID:      r.ContentID,
		Difficulty:     r.Difficulty,
		Correct:        r.Correct != nil && *r.Correct,
		ResponseTimeMs: r.ResponseTimeMs,
		HintsUsed:      r.HintsUsed,
	}
	if r.Timestamp != nil {
		record.Timestamp = r.Timestamp.UTC()
	}
	return record
}

// ReviewWordRequest is the payload for POST /api/vocabulary/{wordID}/reviews.
type ReviewWordRequest struct {
	Quality *int `json:"quality" validate:"required,min=0,max=5"`
}

// PostponeWordRequest is the payload for POST /api/vocabulary/{wordID}/postpone.
type PostponeWordRequest struct {
	Days int `json:"days" validate:"required,min=1,max=365"`
}

// AdaptiveStateResponse is the client view of a student's adaptive state.
type AdaptiveStateResponse struct {
	CurrentDifficulty     int       `json:"current_difficulty"`
	RecommendedDifficulty int       `json:"recommended_difficulty"`
	ConsecutiveCorrect    int       `json:"consecutive_correct"`
	ConsecutiveIncorrect  int       `json:"consecutive_incorrect"`
	WindowLength          int       `json:"window_length"`
	SuccessRate           float64   `json:"success_rate"`
	ShowHint              bool      `json:"show_hint"`
	Encouragement         *string   `json:"encouragement"`
	LevelUpReady          bool      `json:"level_up_ready"`
	LevelDownReady        bool      `json:"level_down_ready"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func adaptiveStatusToResponse(status *learning.AdaptiveStatus) AdaptiveStateResponse {
	state := status.State
	return AdaptiveStateResponse{
		CurrentDifficulty:     state.CurrentDifficulty,
		RecommendedDifficulty: state.RecommendedDifficulty,
		ConsecutiveCorrect:    state.ConsecutiveCorrect,
		ConsecutiveIncorrect:  state.ConsecutiveIncorrect,
		WindowLength:          state.WindowLength(),
		SuccessRate:           state.SuccessRate(),
		ShowHint:              state.ShowHint,
		Encouragement:         state.Encouragement,
		LevelUpReady:          status.LevelUpReady,
		LevelDownReady:        status.LevelDownReady,
		UpdatedAt:             state.UpdatedAt,
	}
}

// VocabularyProgressResponse is the client view of one word's schedule.
type VocabularyProgressResponse struct {
	WordID         string     `json:"word_id"`
	Status         string     `json:"status"`
	TimesReviewed  int        `json:"times_reviewed"`
	TimesCorrect   int        `json:"times_correct"`
	TimesIncorrect int        `json:"times_incorrect"`
	EaseFactor     float64    `json:"ease_factor"`
	Interval       int        `json:"interval_days"`
	LastReviewedAt *time.Time `json:"last_reviewed_at"`
	NextReviewAt   time.Time  `json:"next_review_at"`
}

func progressToResponse(p *domain.VocabularyProgress) VocabularyProgressResponse {
	return VocabularyProgressResponse{
		WordID:         p.WordID,
		Status:         string(p.Status),
		TimesReviewed:  p.TimesReviewed,
		TimesCorrect:   p.TimesCorrect,
		TimesIncorrect: p.TimesIncorrect,
		EaseFactor:     p.EaseFactor,
		Interval:       p.Interval,
		LastReviewedAt: p.LastReviewedAt,
		NextReviewAt:   p.NextReviewAt,
	}
}

// DueWordsResponse lists the next study batch in presentation order.
type DueWordsResponse struct {
	Words []VocabularyProgressResponse `json:"words"`
	Count int                          `json:"count"`
}
