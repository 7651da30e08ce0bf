package learning

import (
	"context"
	"strings"

	"github.com/phrazzld/lingo-progress/internal/events"
	"github.com/phrazzld/lingo-progress/internal/platform/cache"
)

// NewStatsInvalidationHandler drops a student's cached study stats whenever
// one of their vocabulary records changes. Register it on the emitter passed
// to NewLearningService so StudyStats never serves a snapshot older than the
// latest review.
func NewStatsInvalidationHandler(statsCache cache.StudyStatsCache) events.EventHandler {
	if statsCache == nil {
		panic("statsCache cannot be nil")
	}
	return events.HandlerFunc(func(ctx context.Context, event *events.Event) error {
		if !strings.HasPrefix(event.Type, "vocabulary.") {
			return nil
		}
		statsCache.Invalidate(ctx, event.StudentID, event.CreatedAt)
		return nil
	})
}
