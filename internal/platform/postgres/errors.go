package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/lingo-progress/internal/store"
)

// SQLSTATE codes the learning schema can raise.
const (
	// uniqueViolationCode fires on vocabulary_progress_pkey when a word is
	// created twice for a student.
	uniqueViolationCode = "23505"

	// checkViolationCode covers the range and counter checks on both tables.
	checkViolationCode = "23514"

	notNullViolationCode = "23502"

	// invalidTextRepresentationCode is raised for a malformed JSONB window.
	invalidTextRepresentationCode = "22P02"
)

// constraintMessages describes the constraints declared in the migrations.
// Postgres names inline column checks <table>_<column>_check.
var constraintMessages = map[string]string{
	"adaptive_states_current_difficulty_check":     "current difficulty must be between 1 and 5",
	"adaptive_states_recommended_difficulty_check": "recommended difficulty must be between 1 and 5",
	"adaptive_states_consecutive_correct_check":    "correct streak cannot be negative",
	"adaptive_states_consecutive_incorrect_check":  "incorrect streak cannot be negative",
	"adaptive_states_single_streak":                "only one answer streak can be non-zero",
	"vocabulary_progress_pkey":                     "word already in the student's curriculum",
	"vocabulary_progress_word_id_check":            "word ID cannot be empty",
	"vocabulary_progress_ease_factor_check":        "ease factor must be at least 1.3",
	"vocabulary_progress_interval_days_check":      "interval cannot be negative",
	"vocabulary_progress_times_reviewed_check":     "review count cannot be negative",
	"vocabulary_progress_times_correct_check":      "correct count cannot be negative",
	"vocabulary_progress_times_incorrect_check":    "incorrect count cannot be negative",
	"vocabulary_progress_status_check":             "unknown vocabulary status",
	"vocabulary_progress_counts":                   "correct and incorrect counts must add up to times reviewed",
}

// describeConstraint returns a readable explanation of a constraint, falling
// back to its name.
func describeConstraint(name string) string {
	if msg, ok := constraintMessages[name]; ok {
		return msg
	}
	if name == "" {
		return "unnamed constraint"
	}
	return "constraint " + name
}

// MapError translates driver errors into store errors. The original error is
// kept in the message for logs; callers match on the store sentinels.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case uniqueViolationCode:
		return fmt.Errorf("%w: %s: %v", store.ErrDuplicate, describeConstraint(pgErr.ConstraintName), err)
	case checkViolationCode:
		return fmt.Errorf("%w: %s: %v", store.ErrInvalidEntity, describeConstraint(pgErr.ConstraintName), err)
	case notNullViolationCode:
		return fmt.Errorf("%w: %s.%s is required: %v", store.ErrInvalidEntity, pgErr.TableName, pgErr.ColumnName, err)
	case invalidTextRepresentationCode:
		return fmt.Errorf("%w: malformed column value: %v", store.ErrInvalidEntity, err)
	default:
		return err
	}
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// MapUniqueViolation wraps a unique violation in the given sentinel, e.g.
// store.ErrVocabularyProgressExists. Other errors are returned unchanged.
func MapUniqueViolation(err error, sentinel error) error {
	if !IsUniqueViolation(err) {
		return err
	}
	var pgErr *pgconn.PgError
	errors.As(err, &pgErr)
	return fmt.Errorf("%w: %s", sentinel, describeConstraint(pgErr.ConstraintName))
}

// CheckRowsAffected returns store.ErrNotFound wrapped with entityName when an
// UPDATE matched no rows.
func CheckRowsAffected(result sql.Result, entityName string) error {
	if result == nil {
		return fmt.Errorf("nil result for %s", entityName)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", store.ErrNotFound, entityName)
	}
	return nil
}
