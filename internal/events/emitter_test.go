package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-progress/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEvent(t *testing.T) *Event {
	t.Helper()
	event, err := NewEvent(TypeAnswerRecorded, uuid.New(), AnswerRecordedPayload{ContentID: "q1", Correct: true}, time.Now())
	require.NoError(t, err)
	return event
}

func TestInMemoryEventEmitter(t *testing.T) {
	// Create a minimal logger that discards output
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("emit event with no handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(discard)

		// Should not error even with no handlers
		err := emitter.EmitEvent(context.Background(), newTestEvent(t))
		assert.NoError(t, err)
	})

	t.Run("emit event with successful handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(discard)

		handler1 := &MockEventHandler{}
		handler2 := &MockEventHandler{}
		emitter.RegisterHandler(handler1)
		emitter.RegisterHandler(handler2)

		event := newTestEvent(t)
		err := emitter.EmitEvent(context.Background(), event)
		assert.NoError(t, err)

		// Verify both handlers received the event
		assert.Equal(t, 1, handler1.HandledCount)
		assert.Equal(t, 1, handler2.HandledCount)
		assert.Equal(t, event, handler1.LastEvent)
		assert.Equal(t, event, handler2.LastEvent)
	})

	t.Run("handlers run in registration order", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(nil)

		var order []string
		for _, name := range []string{"first", "second", "third"} {
			emitter.RegisterHandler(HandlerFunc(func(ctx context.Context, event *Event) error {
				order = append(order, name)
				return nil
			}))
		}

		require.NoError(t, emitter.EmitEvent(context.Background(), newTestEvent(t)))
		assert.Equal(t, []string{"first", "second", "third"}, order)
	})

	t.Run("emit event with failing handler", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(discard)

		// Create handlers - one successful, one that fails
		successHandler := &MockEventHandler{}
		failingHandler := &MockEventHandler{
			HandlerError: errors.New("handler error"),
		}
		emitter.RegisterHandler(failingHandler)
		emitter.RegisterHandler(successHandler)

		err := emitter.EmitEvent(context.Background(), newTestEvent(t))
		assert.Error(t, err)
		assert.Equal(t, "handler error", err.Error())

		// Both handlers should still have received the event
		assert.Equal(t, 1, successHandler.HandledCount)
		assert.Equal(t, 1, failingHandler.HandledCount)
	})
}

func TestLoggingHandler(t *testing.T) {
	l, buf := logger.NewTestLogger()
	h := NewLoggingHandler(l)

	event := newTestEvent(t)
	require.NoError(t, h.HandleEvent(context.Background(), event))

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "learning event", entries[0]["msg"])
	assert.Equal(t, TypeAnswerRecorded, entries[0]["event_type"])
	assert.Equal(t, "event_log", entries[0]["component"])
	assert.True(t, strings.Contains(entries[0]["payload"].(string), `"content_id":"q1"`))
}
