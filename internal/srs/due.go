package srs

import (
	"sort"
	"time"

	"github.com/flashcard-ai/backend/internal/models"
)

// IsDue reports whether a card should be reviewed today. A card with no
// scheduled review date has never been graded and is always due.
func IsDue(state models.ReviewState, today time.Time) bool {
	return state.NextReviewAt == nil || !state.NextReviewAt.After(DateOnly(today))
}

// DueCards filters cards due on or before today and orders them by
// ascending (interval, next review date): the shortest-interval cards
// carry the most fragile memories and surface first, ties broken by the
// most overdue.
func DueCards(cards []models.Card, today time.Time) []models.Card {
	day := DateOnly(today)
	var due []models.Card
	for _, c := range cards {
		if IsDue(c.ReviewState, day) {
			due = append(due, c)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		if due[i].IntervalDays != due[j].IntervalDays {
			return due[i].IntervalDays < due[j].IntervalDays
		}
		return nextReviewOrZero(due[i]).Before(nextReviewOrZero(due[j]))
	})
	return due
}

// UnseenCards returns cards that have never been reviewed. Used to let a
// user study ahead when nothing is strictly due.
func UnseenCards(cards []models.Card) []models.Card {
	var unseen []models.Card
	for _, c := range cards {
		if c.IntervalDays == 0 && c.LastReviewedAt == nil {
			unseen = append(unseen, c)
		}
	}
	return unseen
}

// nextReviewOrZero sorts never-scheduled cards ahead of everything else.
func nextReviewOrZero(c models.Card) time.Time {
	if c.NextReviewAt == nil {
		return time.Time{}
	}
	return *c.NextReviewAt
}
