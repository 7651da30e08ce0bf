package srs

import (
	"math"
	"time"

	"github.com/phrazzld/lingo-progress/internal/domain"
)

// StudyStats summarizes a student's vocabulary set at a point in time.
type StudyStats struct {
	New      int `json:"new"`
	Learning int `json:"learning"`
	Review   int `json:"review"`
	Mastered int `json:"mastered"`

	DueToday     int `json:"due_today"`
	StudiedToday int `json:"studied_today"`
	// AccuracyToday is a whole percentage (0-100) over words studied today.
	AccuracyToday int `json:"accuracy_today"`
}

// sameDay reports whether t falls on the calendar date of ref, in ref's location.
func sameDay(t, ref time.Time) bool {
	t = t.In(ref.Location())
	ty, tm, td := t.Date()
	ry, rm, rd := ref.Date()
	return ty == ry && tm == rm && td == rd
}

// computeStudyStats counts statuses and today's activity. An empty set yields
// all zeros.
func computeStudyStats(all []*domain.VocabularyProgress, now time.Time) StudyStats {
	var stats StudyStats
	var reviewedToday, correctToday int

	for _, p := range all {
		if p == nil {
			continue
		}

		switch p.Status {
		case domain.StatusNew:
			stats.New++
		case domain.StatusLearning:
			stats.Learning++
		case domain.StatusReview:
			stats.Review++
		case domain.StatusMastered:
			stats.Mastered++
		}

		if !p.NextReviewAt.After(now) {
			stats.DueToday++
		}

		if p.LastReviewedAt != nil && sameDay(*p.LastReviewedAt, now) {
			stats.StudiedToday++
			reviewedToday += p.TimesReviewed
			correctToday += p.TimesCorrect
		}
	}

	if reviewedToday > 0 {
		stats.AccuracyToday = int(math.Round(float64(correctToday) / float64(reviewedToday) * 100))
	}

	return stats
}

// nextDueChange returns the earliest NextReviewAt strictly after now, which is
// when DueToday next grows without any review taking place.
func nextDueChange(all []*domain.VocabularyProgress, now time.Time) (time.Time, bool) {
	var next time.Time
	found := false
	for _, p := range all {
		if p == nil || !p.NextReviewAt.After(now) {
			continue
		}
		if !found || p.NextReviewAt.Before(next) {
			next = p.NextReviewAt
			found = true
		}
	}
	return next, found
}
