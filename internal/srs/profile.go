package srs

import (
	"sort"
	"time"

	"github.com/flashcard-ai/backend/internal/models"
)

// RecentDeckLimit is how many decks the "recent decks" surface shows.
const RecentDeckLimit = 5

// RecomputeProfile reduces a full card snapshot to the account-level
// rollup. It is deliberately a full recompute rather than an incremental
// patch so the cached rollup can never drift from the true state. The
// caller stamps LastUpdated when persisting.
func RecomputeProfile(cards []models.Card, today time.Time) models.ProfileRollup {
	day := DateOnly(today)
	due := 0
	for _, c := range cards {
		if IsDue(c.ReviewState, day) {
			due++
		}
	}
	return models.ProfileRollup{
		TotalCards:  len(cards),
		MeanMastery: DeckMastery(cards),
		DueCount:    due,
	}
}

// RecentDecks orders deck summaries by last-accessed time (falling back
// to creation time) descending and keeps the first limit entries.
func RecentDecks(decks []models.DeckSummary, limit int) []models.DeckSummary {
	sorted := make([]models.DeckSummary, len(decks))
	copy(sorted, decks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return recency(sorted[i]).After(recency(sorted[j]))
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func recency(d models.DeckSummary) time.Time {
	if d.LastAccessedAt != nil {
		return *d.LastAccessedAt
	}
	return d.CreatedAt
}
