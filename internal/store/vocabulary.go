package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-progress/internal/domain"
)

// VocabularyProgressStore defines the interface for vocabulary progress persistence.
// Records are keyed by student and word and are never deleted.
type VocabularyProgressStore interface {
	// Create saves new progress.
	// Returns ErrVocabularyProgressExists if the student already has the word.
	// Returns ErrInvalidEntity if the progress fails domain validation.
	Create(ctx context.Context, progress *domain.VocabularyProgress) error

	// Get retrieves progress for one word.
	// Returns ErrVocabularyProgressNotFound if it does not exist.
	// NOTE: This method does NOT lock the row; use GetForUpdate before an update.
	Get(ctx context.Context, studentID uuid.UUID, wordID string) (*domain.VocabularyProgress, error)

	// GetForUpdate retrieves progress with a row-level lock using SELECT FOR UPDATE.
	// Returns ErrVocabularyProgressNotFound if it does not exist.
	GetForUpdate(ctx context.Context, studentID uuid.UUID, wordID string) (*domain.VocabularyProgress, error)

	// Update replaces existing progress identified by its student and word.
	// Returns ErrVocabularyProgressNotFound if it does not exist.
	Update(ctx context.Context, progress *domain.VocabularyProgress) error

	// ListByStudent returns all of a student's progress in the order the words
	// were created. A student with no words yields an empty slice.
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*domain.VocabularyProgress, error)

	// WithTx returns a new VocabularyProgressStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) VocabularyProgressStore
}
