package models

import "time"

type Deck struct {
	ID             string     `json:"id"`
	UserID         int64      `json:"-"`
	Title          string     `json:"title"`
	SourceType     string     `json:"source_type,omitempty"`
	OriginalText   string     `json:"original_text,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`
	Cards          []Card     `json:"cards,omitempty"`
}

// DeckSummary is the lightweight listing view ("recent decks" surfaces).
type DeckSummary struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	CardCount      int        `json:"card_count"`
	Mastery        float64    `json:"mastery"`
	DueCount       int        `json:"due_count"`
	CreatedAt      time.Time  `json:"created_at"`
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`
}

// ── Request/Response Types ─────────────────────────────

type GenerateDeckRequest struct {
	Title string `json:"title" validate:"required"`
	Text  string `json:"text" validate:"required,min=50"`
	Count int    `json:"count" validate:"omitempty,min=1,max=30"`
}

type RenameDeckRequest struct {
	Title string `json:"title" validate:"required"`
}

type CreateDeckResponse struct {
	Deck     Deck       `json:"deck"`
	Imported int        `json:"imported"`
	Rejected int        `json:"rejected"`
	Errors   []RowError `json:"errors,omitempty"`
}

type DeckListResponse struct {
	Decks []DeckSummary `json:"decks"`
	Total int           `json:"total"`
}

// DeckStats is the per-deck statistics view: overall mastery plus a
// histogram of cards over display-mastery bands.
type DeckStats struct {
	TotalCards     int            `json:"total_cards"`
	DeckMastery    float64        `json:"deck_mastery"`
	DueCount       int            `json:"due_count"`
	MasteryBuckets map[string]int `json:"mastery_buckets"`
	Cards          []CardStatsRow `json:"cards"`
}

// StudyQueueResponse is what a study session starts from: the cards due
// today, plus never-reviewed cards the user can pull forward when the due
// queue is empty.
type StudyQueueResponse struct {
	Due    []Card `json:"due"`
	Unseen []Card `json:"unseen"`
}

type CardStatsRow struct {
	Question       string     `json:"question"`
	Mastery        int        `json:"mastery"`
	EasinessFactor float64    `json:"easiness_factor"`
	Repetitions    int        `json:"repetitions"`
	IntervalDays   int        `json:"interval_days"`
	NextReviewAt   *time.Time `json:"next_review_at,omitempty"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	LastQuality    *int       `json:"last_quality,omitempty"`
	Attempts       int        `json:"attempts"`
}
