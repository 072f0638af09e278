package srs

import "github.com/flashcard-ai/backend/internal/models"

// MasteryDisplayCapDays is the interval at or beyond which a card shows
// as fully mastered.
const MasteryDisplayCapDays = 365

// DisplayMastery maps a review interval to a coarse percentage shown to
// the user. It is a presentation heuristic only and never feeds back into
// Schedule. Monotonic in the interval.
func DisplayMastery(intervalDays int) int {
	switch {
	case intervalDays <= 0:
		return 0
	case intervalDays >= MasteryDisplayCapDays:
		return 100
	case intervalDays < 3:
		return 20
	case intervalDays < 7:
		return 40
	case intervalDays < 14:
		return 60
	case intervalDays < 30:
		return 75
	case intervalDays < 90:
		return 90
	case intervalDays < 180:
		return 95
	default:
		return 100
	}
}

// MasteryBand labels the histogram range a mastery percentage falls in.
// The deck stats view buckets cards into these five bands.
func MasteryBand(mastery int) string {
	switch {
	case mastery < 20:
		return "0-19"
	case mastery < 40:
		return "20-39"
	case mastery < 60:
		return "40-59"
	case mastery < 80:
		return "60-79"
	default:
		return "80-100"
	}
}

// DeckMastery is the arithmetic mean of DisplayMastery over a card set.
// An empty deck has zero mastery.
func DeckMastery(cards []models.Card) float64 {
	if len(cards) == 0 {
		return 0.0
	}
	sum := 0
	for _, c := range cards {
		sum += DisplayMastery(c.IntervalDays)
	}
	return float64(sum) / float64(len(cards))
}
