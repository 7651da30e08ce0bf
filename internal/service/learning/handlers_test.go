package learning_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-progress/internal/events"
	"github.com/phrazzld/lingo-progress/internal/service/learning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsInvalidationHandler(t *testing.T) {
	ctx := context.Background()
	statsCache := newMemoryStatsCache()
	handler := learning.NewStatsInvalidationHandler(statsCache)
	studentID := uuid.New()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		eventType  string
		invalidate bool
	}{
		{events.TypeVocabularyAdded, true},
		{events.TypeVocabularyReviewed, true},
		{events.TypeVocabularyMastered, true},
		{events.TypeVocabularyPostponed, true},
		{events.TypeAnswerRecorded, false},
		{events.TypeLevelChanged, false},
	}

	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			before := statsCache.invalidated
			event, err := events.NewEvent(tt.eventType, studentID, struct{}{}, now)
			require.NoError(t, err)

			require.NoError(t, handler.HandleEvent(ctx, event))
			if tt.invalidate {
				assert.Equal(t, before+1, statsCache.invalidated)
			} else {
				assert.Equal(t, before, statsCache.invalidated)
			}
		})
	}

	assert.Panics(t, func() { learning.NewStatsInvalidationHandler(nil) })
}
