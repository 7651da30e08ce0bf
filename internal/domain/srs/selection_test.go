package srs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-progress/internal/domain"
	"github.com/stretchr/testify/assert"
)

func progressAt(wordID string, studentID uuid.UUID, status domain.VocabularyStatus, nextAt time.Time, ease float64) *domain.VocabularyProgress {
	return &domain.VocabularyProgress{
		WordID:       wordID,
		StudentID:    studentID,
		EaseFactor:   ease,
		Status:       status,
		NextReviewAt: nextAt,
	}
}

func wordIDs(ps []*domain.VocabularyProgress) []string {
	ids := make([]string, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.WordID)
	}
	return ids
}

func TestSelectDueWords(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	student := uuid.New()

	day := 24 * time.Hour
	o1 := progressAt("o1", student, domain.StatusReview, now.Add(-day), 2.5)
	o2 := progressAt("o2", student, domain.StatusReview, now.Add(-3*day), 2.5)
	o3 := progressAt("o3", student, domain.StatusLearning, now.Add(-day), 1.8)
	n1 := progressAt("n1", student, domain.StatusNew, now.Add(time.Hour), 2.5)
	n2 := progressAt("n2", student, domain.StatusNew, now.Add(time.Hour), 2.5)
	notDue := progressAt("later", student, domain.StatusReview, now.Add(2*day), 2.5)

	all := []*domain.VocabularyProgress{n1, o1, notDue, n2, o2, o3}

	testCases := []struct {
		name     string
		maxWords int
		expected []string
	}{
		{name: "due first then new", maxWords: 10, expected: []string{"o2", "o3", "o1", "n1", "n2"}},
		{name: "new fills remaining slots", maxWords: 4, expected: []string{"o2", "o3", "o1", "n1"}},
		{name: "due items are truncated", maxWords: 2, expected: []string{"o2", "o3"}},
		{name: "zero limit", maxWords: 0, expected: []string{}},
		{name: "negative limit", maxWords: -3, expected: []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := selectDueWords(all, tc.maxWords, now)
			assert.NotNil(t, got)
			assert.Equal(t, tc.expected, wordIDs(got))
			assert.LessOrEqual(t, len(got), max(tc.maxWords, 0))
		})
	}
}

func TestSelectDueWords_DueExactlyNow(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	student := uuid.New()

	// A new word whose due date has arrived is selected once, in the due group
	fresh := progressAt("fresh", student, domain.StatusNew, now, 2.5)
	overdue := progressAt("overdue", student, domain.StatusReview, now.Add(-time.Minute), 2.5)
	pending := progressAt("pending", student, domain.StatusNew, now.Add(time.Minute), 2.5)

	got := selectDueWords([]*domain.VocabularyProgress{pending, fresh, overdue}, 5, now)
	assert.Equal(t, []string{"overdue", "fresh", "pending"}, wordIDs(got))
}

func TestSelectDueWords_StableTies(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	student := uuid.New()
	due := now.Add(-2 * time.Hour)

	all := []*domain.VocabularyProgress{
		progressAt("a", student, domain.StatusReview, due, 2.0),
		progressAt("b", student, domain.StatusReview, due, 2.0),
		nil,
		progressAt("c", student, domain.StatusReview, due, 2.0),
	}

	got := selectDueWords(all, 10, now)
	assert.Equal(t, []string{"a", "b", "c"}, wordIDs(got))
}

func TestSelectDueWords_EmptyInput(t *testing.T) {
	t.Parallel()
	got := selectDueWords(nil, 20, time.Now())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
