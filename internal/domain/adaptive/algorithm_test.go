package adaptive

import (
	"testing"

	"github.com/phrazzld/lingo-progress/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestAppendToWindow(t *testing.T) {
	t.Parallel()

	var window []domain.PerformanceRecord
	for i := 0; i < 4; i++ {
		window = appendToWindow(window, domain.PerformanceRecord{ResponseTimeMs: i}, 3)
	}

	assert.Len(t, window, 3)
	assert.Equal(t, 1, window[0].ResponseTimeMs, "oldest record dropped first")
	assert.Equal(t, 3, window[2].ResponseTimeMs)

	before := []domain.PerformanceRecord{{ResponseTimeMs: 10}, {ResponseTimeMs: 11}}
	after := appendToWindow(before, domain.PerformanceRecord{ResponseTimeMs: 12}, 2)
	assert.Equal(t, 10, before[0].ResponseTimeMs, "input slice is not modified")
	assert.Equal(t, []int{11, 12}, []int{after[0].ResponseTimeMs, after[1].ResponseTimeMs})
}

func TestUpdateStreaks(t *testing.T) {
	t.Parallel()

	cc, ci := updateStreaks(2, 0, true)
	assert.Equal(t, 3, cc)
	assert.Equal(t, 0, ci)

	cc, ci = updateStreaks(4, 0, false)
	assert.Equal(t, 0, cc)
	assert.Equal(t, 1, ci)
}

func TestApplyRateRule(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name        string
		recommended int
		current     int
		rate        float64
		window      int
		expected    int
	}{
		{name: "empty window skips rule", recommended: 3, current: 3, rate: 0, window: 0, expected: 3},
		{name: "short window skips rule", recommended: 3, current: 3, rate: 1, window: 4, expected: 3},
		{name: "high rate raises", recommended: 3, current: 3, rate: 0.9, window: 5, expected: 4},
		{name: "high rate keeps streak raise", recommended: 4, current: 3, rate: 0.9, window: 10, expected: 4},
		{name: "high rate at top level", recommended: 5, current: 5, rate: 1, window: 10, expected: 5},
		{name: "threshold is exclusive upward", recommended: 3, current: 3, rate: 0.85, window: 10, expected: 3},
		{name: "low rate lowers", recommended: 3, current: 3, rate: 0.4, window: 5, expected: 2},
		{name: "low rate at bottom level", recommended: 1, current: 1, rate: 0, window: 6, expected: 1},
		{name: "threshold is exclusive downward", recommended: 3, current: 3, rate: 0.5, window: 6, expected: 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := applyRateRule(tc.recommended, tc.current, tc.rate, tc.window, params)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestShouldShowHint(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	assert.True(t, shouldShowHint(2, 0.9, 10, params))
	assert.True(t, shouldShowHint(0, 0.3, 3, params))
	assert.False(t, shouldShowHint(0, 0.3, 2, params), "rate needs three answers")
	assert.False(t, shouldShowHint(1, 0.4, 5, params), "rate threshold is exclusive")
}

func TestNewParamsOverrides(t *testing.T) {
	t.Parallel()

	params := NewParams(ParamsConfig{WindowSize: 8, StreakThreshold: 4, RateUpThreshold: 0.9})
	assert.Equal(t, 8, params.WindowSize)
	assert.Equal(t, 8, params.LevelUpWindow)
	assert.Equal(t, 4, params.StreakThreshold)
	assert.Equal(t, 4, params.LevelUpMinStreak)
	assert.Equal(t, 0.9, params.RateUpThreshold)
	assert.Equal(t, 0.5, params.RateDownThreshold, "unset fields keep defaults")
}
