package models

import "time"

// ProfileRollup is the account-level derived view. It is a pure function
// of the user's current deck/card snapshot and is recomputed in full on
// every mutation — never patched incrementally.
type ProfileRollup struct {
	TotalCards  int       `json:"total_cards"`
	MeanMastery float64   `json:"mean_mastery"`
	DueCount    int       `json:"due_count"`
	LastUpdated time.Time `json:"last_updated"`
}

type ProfileResponse struct {
	Profile     ProfileRollup `json:"profile"`
	RecentDecks []DeckSummary `json:"recent_decks"`
}
