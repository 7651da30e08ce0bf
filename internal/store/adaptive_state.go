package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-progress/internal/domain"
)

// AdaptiveStateStore defines the interface for adaptive state persistence.
// There is at most one state per student.
type AdaptiveStateStore interface {
	// Get retrieves a student's adaptive state.
	// Returns ErrAdaptiveStateNotFound if none has been saved yet.
	Get(ctx context.Context, studentID uuid.UUID) (*domain.AdaptiveState, error)

	// GetForUpdate is Get with a row-level lock (SELECT ... FOR UPDATE).
	// It must be called inside a transaction to have any effect.
	GetForUpdate(ctx context.Context, studentID uuid.UUID) (*domain.AdaptiveState, error)

	// Upsert inserts or replaces the student's state.
	// Returns ErrInvalidEntity if the state fails domain validation.
	Upsert(ctx context.Context, state *domain.AdaptiveState) error

	// WithTx returns a new AdaptiveStateStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) AdaptiveStateStore
}
