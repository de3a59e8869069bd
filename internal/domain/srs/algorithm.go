package srs

import (
	"math"
	"time"

	"github.com/phrazzld/studyplan-api/internal/domain"
)

// calculateNewEasinessFactor applies the SM-2 easiness update for a successful
// review of the given quality.
//
// The adjustment is 0.1 - (5-q)*(0.08 + (5-q)*0.02), so quality 5 adds 0.10,
// quality 4 leaves the factor unchanged and quality 3 subtracts 0.14. The result
// never drops below params.MinEasinessFactor. There is no upper bound.
//
// Failed reviews never reach this function: a lapse resets the schedule but
// leaves the easiness factor as it was.
func calculateNewEasinessFactor(currentEF float64, quality int, params *Params) float64 {
	miss := float64(MaxQuality - quality)
	newEF := currentEF + (0.1 - miss*(0.08+miss*0.02))

	if newEF < params.MinEasinessFactor {
		newEF = params.MinEasinessFactor
	}

	return newEF
}

// calculateNewInterval returns the interval in days for the given repetition
// number (already incremented for this review).
//
//   - 1st consecutive success: params.FirstInterval (1 day)
//   - 2nd consecutive success: params.SecondInterval (6 days)
//   - later successes: previous interval multiplied by the easiness factor the
//     card had before this review, rounded half to even
func calculateNewInterval(repetitions, previousInterval int, easinessFactor float64, params *Params) int {
	switch {
	case repetitions <= 1:
		return params.FirstInterval
	case repetitions == 2:
		return params.SecondInterval
	}

	interval := int(math.RoundToEven(float64(previousInterval) * easinessFactor))
	if interval < 1 {
		interval = 1
	}
	return interval
}

// calculateNextCard creates a new Flashcard with scheduling state advanced by
// one review. The input card is not modified.
func calculateNextCard(
	card *domain.Flashcard,
	quality int,
	now time.Time,
	params *Params,
) *domain.Flashcard {
	next := *card

	ef := card.EasinessFactor
	if ef <= 0 {
		ef = params.DefaultEasinessFactor
	}
	next.EasinessFactor = ef

	if quality < params.PassingQuality {
		// Lapse: start over, keep the easiness factor.
		next.Repetitions = 0
		next.Interval = params.FirstInterval
	} else {
		next.Repetitions = card.Repetitions + 1
		next.Interval = calculateNewInterval(next.Repetitions, card.Interval, ef, params)
		next.EasinessFactor = calculateNewEasinessFactor(ef, quality, params)
	}

	reviewedAt := now
	next.LastReviewedAt = &reviewedAt
	next.NextReviewDate = now.AddDate(0, 0, next.Interval)
	next.UpdatedAt = now

	return &next
}
