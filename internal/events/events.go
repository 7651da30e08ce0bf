package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the learning service.
const (
	TypeAnswerRecorded      = "answer.recorded"
	TypeLevelChanged        = "level.changed"
	TypeVocabularyReviewed  = "vocabulary.reviewed"
	TypeVocabularyMastered  = "vocabulary.mastered"
	TypeVocabularyAdded     = "vocabulary.added"
	TypeVocabularyPostponed = "vocabulary.postponed"
)

// Event is a fact about a student's learning progress that already happened.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	StudentID uuid.UUID `json:"student_id"`

	// Payload contains the type-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates an Event with a fresh ID and the given payload.
func NewEvent(eventType string, studentID uuid.UUID, payload interface{}, now time.Time) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		StudentID: studentID,
		Payload:   payloadBytes,
		CreatedAt: now,
	}, nil
}

// AnswerRecordedPayload accompanies TypeAnswerRecorded.
type AnswerRecordedPayload struct {
	ContentID             string `json:"content_id"`
	Correct               bool   `json:"correct"`
	Difficulty            int    `json:"difficulty"`
	RecommendedDifficulty int    `json:"recommended_difficulty"`
	LevelUpReady          bool   `json:"level_up_ready"`
	LevelDownReady        bool   `json:"level_down_ready"`
}

// LevelChangedPayload accompanies TypeLevelChanged.
type LevelChangedPayload struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// VocabularyReviewedPayload accompanies TypeVocabularyReviewed and TypeVocabularyMastered.
type VocabularyReviewedPayload struct {
	WordID   string `json:"word_id"`
	Quality  int    `json:"quality"`
	Status   string `json:"status"`
	Interval int    `json:"interval"`
}

// VocabularyScheduledPayload accompanies TypeVocabularyAdded and TypeVocabularyPostponed.
type VocabularyScheduledPayload struct {
	WordID       string    `json:"word_id"`
	NextReviewAt time.Time `json:"next_review_at"`
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a plain function to EventHandler.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *Event) error
}
