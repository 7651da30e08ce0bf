package srs

import (
	"math"
	"time"

	"github.com/phrazzld/lingo-progress/internal/domain"
)

// calculateNewEaseFactor applies the SM-2 ease update for a review of the given quality.
//
// The adjustment is 0.1 - (5-q)*(0.08 + (5-q)*0.02): +0.1 for perfect recall,
// 0 for quality 4, and increasingly negative below that. The result never
// drops below params.MinEaseFactor; there is no upper bound.
func calculateNewEaseFactor(currentEF float64, quality domain.Quality, params *Params) float64 {
	miss := float64(domain.QualityPerfect - quality)
	newEF := currentEF + (0.1 - miss*(0.08+miss*0.02))

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}
	return newEF
}

// calculateNewInterval determines the next interval in days.
//
// Parameters:
//   - currentInterval: the interval before this review
//   - timesReviewed: the review count including this review
//   - easeFactor: the ease factor already updated for this review
//   - quality: the review quality
//
// Algorithm behavior:
//   - A failed review (quality below the pass threshold) resets to the lapse interval
//     regardless of history
//   - The first and second reviews use fixed intervals
//   - Later reviews multiply the previous interval by the new ease factor, rounded
func calculateNewInterval(
	currentInterval int,
	timesReviewed int,
	easeFactor float64,
	quality domain.Quality,
	params *Params,
) int {
	if quality < params.PassThreshold {
		return params.LapseInterval
	}

	switch timesReviewed {
	case 1:
		return params.FirstInterval
	case 2:
		return params.SecondInterval
	default:
		return int(math.Round(float64(currentInterval) * easeFactor))
	}
}

// calculateStatus derives the learning stage after a review.
//
// The predicates look at cumulative counters and the new interval, not at the
// latest quality alone: a failed review on a word already in review or mastered
// keeps that status even though its interval just collapsed.
func calculateStatus(timesReviewed, timesCorrect, interval int, params *Params) domain.VocabularyStatus {
	accuracy := 0.0
	if timesReviewed > 0 {
		accuracy = float64(timesCorrect) / float64(timesReviewed)
	}

	switch {
	case (timesReviewed >= params.MasteredMinReviews && accuracy >= params.MasteredMinAccuracy) ||
		interval >= params.MasteredIntervalDays:
		return domain.StatusMastered
	case timesReviewed >= params.ReviewStatusMinReviews:
		return domain.StatusReview
	default:
		return domain.StatusLearning
	}
}

// calculateNextReviewDate schedules the next review interval days after now.
func calculateNextReviewDate(interval int, now time.Time) time.Time {
	return now.AddDate(0, 0, interval)
}

// calculateNextProgress creates a new VocabularyProgress with updated values based on the review.
//
// The input is copied, never modified; the returned value is a fresh object.
func calculateNextProgress(
	progress *domain.VocabularyProgress,
	quality domain.Quality,
	now time.Time,
	params *Params,
) *domain.VocabularyProgress {
	next := progress.Clone()

	next.TimesReviewed++
	if quality >= params.PassThreshold {
		next.TimesCorrect++
	} else {
		next.TimesIncorrect++
	}

	next.EaseFactor = calculateNewEaseFactor(progress.EaseFactor, quality, params)
	next.Interval = calculateNewInterval(progress.Interval, next.TimesReviewed, next.EaseFactor, quality, params)
	next.Status = calculateStatus(next.TimesReviewed, next.TimesCorrect, next.Interval, params)

	reviewedAt := now
	next.LastReviewedAt = &reviewedAt
	next.NextReviewAt = calculateNextReviewDate(next.Interval, now)

	return next
}
