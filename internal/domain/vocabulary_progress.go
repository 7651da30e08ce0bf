package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// VocabularyStatus is the learning stage of a word for a student.
type VocabularyStatus string

// Possible vocabulary status values
const (
	StatusNew      VocabularyStatus = "new"
	StatusLearning VocabularyStatus = "learning"
	StatusReview   VocabularyStatus = "review"
	StatusMastered VocabularyStatus = "mastered"
)

// Valid reports whether s is one of the known statuses.
func (s VocabularyStatus) Valid() bool {
	switch s {
	case StatusNew, StatusLearning, StatusReview, StatusMastered:
		return true
	default:
		return false
	}
}

// Quality is the 0-5 recall rating of a single review.
type Quality int

const (
	// QualityBlackout means the word was not recalled at all
	QualityBlackout Quality = 0
	// QualityIncorrect means an incorrect answer, remembered on seeing the solution
	QualityIncorrect Quality = 1
	// QualityIncorrectFamiliar means an incorrect answer that felt familiar
	QualityIncorrectFamiliar Quality = 2
	// QualityCorrectDifficult means a correct answer with serious effort
	QualityCorrectDifficult Quality = 3
	// QualityCorrectHesitation means a correct answer after some hesitation
	QualityCorrectHesitation Quality = 4
	// QualityPerfect means perfect recall
	QualityPerfect Quality = 5
)

// Valid reports whether q is within 0-5.
func (q Quality) Valid() bool {
	return q >= QualityBlackout && q <= QualityPerfect
}

// Initial values for new vocabulary progress.
const (
	InitialEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// Validation errors for VocabularyProgress
var (
	ErrEmptyWordID         = errors.New("word ID cannot be empty")
	ErrEmptyStudentID      = errors.New("student ID cannot be empty")
	ErrInvalidInterval     = errors.New("interval must be greater than or equal to 0")
	ErrInvalidEaseFactor   = errors.New("ease factor must be at least 1.3")
	ErrInvalidReviewCounts = errors.New("correct and incorrect counts must add up to reviews")
	ErrInvalidVocabStatus  = errors.New("invalid vocabulary status")
)

// VocabularyProgress is a student's spaced-repetition record for one word.
// History is cumulative: records are never deleted.
type VocabularyProgress struct {
	WordID         string           `json:"word_id"`
	StudentID      uuid.UUID        `json:"student_id"`
	TimesReviewed  int              `json:"times_reviewed"`
	TimesCorrect   int              `json:"times_correct"`
	TimesIncorrect int              `json:"times_incorrect"`
	EaseFactor     float64          `json:"ease_factor"`
	Interval       int              `json:"interval"` // days
	Status         VocabularyStatus `json:"status"`
	LastReviewedAt *time.Time       `json:"last_reviewed_at"`
	NextReviewAt   time.Time        `json:"next_review_at"`
}

// NewVocabularyProgress creates progress for a word entering a student's
// curriculum. The word is due immediately.
func NewVocabularyProgress(wordID string, studentID uuid.UUID, now time.Time) *VocabularyProgress {
	return &VocabularyProgress{
		WordID:       wordID,
		StudentID:    studentID,
		EaseFactor:   InitialEaseFactor,
		Interval:     0,
		Status:       StatusNew,
		NextReviewAt: now,
	}
}

// Clone returns a copy that shares no pointers with p.
func (p *VocabularyProgress) Clone() *VocabularyProgress {
	c := *p
	if p.LastReviewedAt != nil {
		t := *p.LastReviewedAt
		c.LastReviewedAt = &t
	}
	return &c
}

// Validate checks if the VocabularyProgress has valid data.
func (p *VocabularyProgress) Validate() error {
	if p.WordID == "" {
		return ErrEmptyWordID
	}
	if p.StudentID == uuid.Nil {
		return ErrEmptyStudentID
	}
	if p.Interval < 0 {
		return ErrInvalidInterval
	}
	if p.EaseFactor < MinEaseFactor {
		return ErrInvalidEaseFactor
	}
	if p.TimesReviewed < 0 || p.TimesCorrect < 0 || p.TimesIncorrect < 0 ||
		p.TimesCorrect+p.TimesIncorrect != p.TimesReviewed {
		return ErrInvalidReviewCounts
	}
	if !p.Status.Valid() {
		return ErrInvalidVocabStatus
	}
	return nil
}
