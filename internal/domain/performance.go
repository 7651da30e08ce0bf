package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Difficulty bounds shared by the adaptive engine and its callers.
const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

var validate = validator.New()

// PerformanceRecord is one graded answer event. It is immutable once created.
type PerformanceRecord struct {
	Timestamp      time.Time `json:"timestamp"`
	ContentID      string    `json:"content_id"`
	Difficulty     int       `json:"difficulty" validate:"min=1,max=5"`
	Correct        bool      `json:"correct"`
	ResponseTimeMs int       `json:"response_time_ms" validate:"min=0"`
	HintsUsed      int       `json:"hints_used" validate:"min=0"`
}

// Validate checks the record's numeric fields. Any failure wraps ErrInvalidRecord.
func (r PerformanceRecord) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return NewValidationError(
			fe.Field(),
			fmt.Sprintf("failed %s=%s (got %v)", fe.Tag(), fe.Param(), fe.Value()),
			ErrInvalidRecord,
		)
	}

	return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
}

// ClampDifficulty bounds d to [MinDifficulty, MaxDifficulty].
func ClampDifficulty(d int) int {
	if d < MinDifficulty {
		return MinDifficulty
	}
	if d > MaxDifficulty {
		return MaxDifficulty
	}
	return d
}

// ValidDifficulty reports whether d is within the supported range.
func ValidDifficulty(d int) bool {
	return d >= MinDifficulty && d <= MaxDifficulty
}
