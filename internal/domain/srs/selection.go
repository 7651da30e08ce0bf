package srs

import (
	"sort"
	"time"

	"github.com/phrazzld/lingo-progress/internal/domain"
)

// selectDueWords picks the next study batch.
//
// Due items (NextReviewAt <= now) come first, most overdue first, ties broken by
// lower ease factor. Remaining slots are filled with new items in their original
// order. The result never exceeds maxWords.
func selectDueWords(all []*domain.VocabularyProgress, maxWords int, now time.Time) []*domain.VocabularyProgress {
	if maxWords <= 0 {
		return []*domain.VocabularyProgress{}
	}

	due := make([]*domain.VocabularyProgress, 0, len(all))
	selected := make(map[progressKey]struct{}, len(all))
	for _, p := range all {
		if p == nil {
			continue
		}
		if !p.NextReviewAt.After(now) {
			due = append(due, p)
			selected[keyOf(p)] = struct{}{}
		}
	}

	// Stable so equal keys keep input order
	sort.SliceStable(due, func(i, j int) bool {
		oi := now.Sub(due[i].NextReviewAt)
		oj := now.Sub(due[j].NextReviewAt)
		if oi != oj {
			return oi > oj
		}
		return due[i].EaseFactor < due[j].EaseFactor
	})

	result := due
	if len(result) < maxWords {
		for _, p := range all {
			if len(result) >= maxWords {
				break
			}
			if p == nil || p.Status != domain.StatusNew {
				continue
			}
			if _, ok := selected[keyOf(p)]; ok {
				continue
			}
			result = append(result, p)
			selected[keyOf(p)] = struct{}{}
		}
	}

	if len(result) > maxWords {
		result = result[:maxWords]
	}
	return result
}

// progressKey identifies a progress record independent of its pointer.
type progressKey struct {
	studentID string
	wordID    string
}

func keyOf(p *domain.VocabularyProgress) progressKey {
	return progressKey{studentID: p.StudentID.String(), wordID: p.WordID}
}
