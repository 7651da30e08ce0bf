package shared

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is the type for request-scoped values set by the API layer.
type ContextKey string

const (
	// StudentIDContextKey holds the authenticated student's uuid.UUID.
	StudentIDContextKey ContextKey = "studentID"

	// TraceIDKey holds the request trace ID.
	TraceIDKey ContextKey = "traceID"
)

// NewTraceID returns a random 32 character hex trace ID.
func NewTraceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// WithTraceID stores traceID in the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// WithStudentID stores the authenticated student in the context.
func WithStudentID(ctx context.Context, studentID uuid.UUID) context.Context {
	return context.WithValue(ctx, StudentIDContextKey, studentID)
}

// StudentIDFromContext returns the authenticated student, or false when the
// request was not authenticated.
func StudentIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	studentID, ok := ctx.Value(StudentIDContextKey).(uuid.UUID)
	if !ok || studentID == uuid.Nil {
		return uuid.Nil, false
	}
	return studentID, true
}
