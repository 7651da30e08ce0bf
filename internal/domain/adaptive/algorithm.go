package adaptive

import (
	"github.com/phrazzld/lingo-progress/internal/domain"
)

// appendToWindow returns a new window with record appended, keeping only the
// most recent size records. The input slice is never modified.
func appendToWindow(window []domain.PerformanceRecord, record domain.PerformanceRecord, size int) []domain.PerformanceRecord {
	start := 0
	if len(window)+1 > size {
		start = len(window) + 1 - size
	}

	next := make([]domain.PerformanceRecord, 0, len(window)-start+1)
	next = append(next, window[start:]...)
	return append(next, record)
}

// updateStreaks increments the streak matching the answer and resets the other.
func updateStreaks(consecutiveCorrect, consecutiveIncorrect int, correct bool) (int, int) {
	if correct {
		return consecutiveCorrect + 1, 0
	}
	return 0, consecutiveIncorrect + 1
}

// applyStreakRule moves the recommendation one level from current after a
// streak of params.StreakThreshold answers in the same direction.
func applyStreakRule(current, consecutiveCorrect, consecutiveIncorrect int, params *Params) int {
	switch {
	case consecutiveCorrect >= params.StreakThreshold:
		return min(domain.MaxDifficulty, current+1)
	case consecutiveIncorrect >= params.StreakThreshold:
		return max(domain.MinDifficulty, current-1)
	default:
		return current
	}
}

// applyRateRule combines the streak recommendation with the window success rate.
// It only pushes the recommendation further, never back past the streak result.
func applyRateRule(recommended, current int, successRate float64, windowLength int, params *Params) int {
	if windowLength == 0 || windowLength < params.RateMinWindow {
		return recommended
	}

	if successRate > params.RateUpThreshold {
		return min(domain.MaxDifficulty, max(recommended, current+1))
	}
	if successRate < params.RateDownThreshold {
		return max(domain.MinDifficulty, min(recommended, current-1))
	}
	return recommended
}

// shouldShowHint reports whether the next item should offer a hint.
func shouldShowHint(consecutiveIncorrect int, successRate float64, windowLength int, params *Params) bool {
	return consecutiveIncorrect >= params.HintIncorrectStreak ||
		(successRate < params.HintRateThreshold && windowLength >= params.HintMinWindow)
}

// calculateNextState applies one answer to state and returns the new state.
// The caller must have validated record.
func calculateNextState(
	state *domain.AdaptiveState,
	record domain.PerformanceRecord,
	rules []EncouragementRule,
	params *Params,
) *domain.AdaptiveState {
	next := state.Clone()

	next.RecentPerformance = appendToWindow(state.RecentPerformance, record, params.WindowSize)
	next.ConsecutiveCorrect, next.ConsecutiveIncorrect = updateStreaks(
		state.ConsecutiveCorrect,
		state.ConsecutiveIncorrect,
		record.Correct,
	)

	current := state.CurrentDifficulty
	windowLength := next.WindowLength()
	successRate := next.SuccessRate()

	recommended := applyStreakRule(current, next.ConsecutiveCorrect, next.ConsecutiveIncorrect, params)
	next.RecommendedDifficulty = applyRateRule(recommended, current, successRate, windowLength, params)

	next.ShowHint = shouldShowHint(next.ConsecutiveIncorrect, successRate, windowLength, params)
	next.Encouragement = selectEncouragement(rules, signals{
		consecutiveCorrect:   next.ConsecutiveCorrect,
		consecutiveIncorrect: next.ConsecutiveIncorrect,
		successRate:          successRate,
		windowLength:         windowLength,
	})

	return next
}

// levelUpReady is the level-up gate.
func levelUpReady(state *domain.AdaptiveState, params *Params) bool {
	return state.CurrentDifficulty < domain.MaxDifficulty &&
		state.WindowLength() == params.LevelUpWindow &&
		state.SuccessRate() >= params.LevelUpMinRate &&
		state.ConsecutiveCorrect >= params.LevelUpMinStreak
}

// levelDownReady is the level-down gate.
func levelDownReady(state *domain.AdaptiveState, params *Params) bool {
	return state.CurrentDifficulty > domain.MinDifficulty &&
		state.WindowLength() >= params.LevelDownMinWindow &&
		state.SuccessRate() < params.LevelDownMaxRate
}
