package srs

import (
	"testing"
	"time"

	"github.com/flashcard-ai/backend/internal/models"
)

func cardWith(id string, interval int, next *time.Time) models.Card {
	return models.Card{
		ID: id,
		ReviewState: models.ReviewState{
			EasinessFactor: DefaultEF,
			IntervalDays:   interval,
			NextReviewAt:   next,
		},
	}
}

func TestIsDue(t *testing.T) {
	today := day(2026, time.March, 10)
	yesterday := day(2026, time.March, 9)
	tomorrow := day(2026, time.March, 11)

	tests := []struct {
		name string
		next *time.Time
		want bool
	}{
		{"never scheduled", nil, true},
		{"overdue", &yesterday, true},
		{"due today", &today, true},
		{"due tomorrow", &tomorrow, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := models.ReviewState{NextReviewAt: tt.next}
			if got := IsDue(state, today); got != tt.want {
				t.Errorf("IsDue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDueCardsFiltersAndOrders(t *testing.T) {
	today := day(2026, time.March, 10)
	d5 := day(2026, time.March, 5)
	d8 := day(2026, time.March, 8)
	d9 := day(2026, time.March, 9)
	d20 := day(2026, time.March, 20)

	cards := []models.Card{
		cardWith("long-overdue", 14, &d5),
		cardWith("future", 6, &d20),
		cardWith("short-later", 1, &d9),
		cardWith("short-earlier", 1, &d8),
		cardWith("fresh", 0, nil),
		cardWith("mid", 6, &d9),
	}

	got := DueCards(cards, today)

	wantOrder := []string{"fresh", "short-earlier", "short-later", "mid", "long-overdue"}
	if len(got) != len(wantOrder) {
		t.Fatalf("got %d due cards, want %d", len(got), len(wantOrder))
	}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("position %d: got %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestDueCardsEmpty(t *testing.T) {
	d20 := day(2026, time.March, 20)
	cards := []models.Card{cardWith("future", 6, &d20)}
	if got := DueCards(cards, day(2026, time.March, 10)); len(got) != 0 {
		t.Errorf("got %d due cards, want 0", len(got))
	}
}

func TestUnseenCards(t *testing.T) {
	reviewed := day(2026, time.March, 1)
	seen := cardWith("seen", 1, nil)
	seen.LastReviewedAt = &reviewed
	failed := cardWith("failed-back-to-one", 1, &reviewed)
	failed.LastReviewedAt = &reviewed

	cards := []models.Card{
		cardWith("fresh-a", 0, nil),
		seen,
		failed,
		cardWith("fresh-b", 0, &reviewed),
	}

	got := UnseenCards(cards)
	if len(got) != 2 {
		t.Fatalf("got %d unseen cards, want 2", len(got))
	}
	if got[0].ID != "fresh-a" || got[1].ID != "fresh-b" {
		t.Errorf("unseen = [%s %s], want [fresh-a fresh-b]", got[0].ID, got[1].ID)
	}
}
