package srs

import (
	"testing"

	"github.com/flashcard-ai/backend/internal/models"
)

func TestDisplayMastery(t *testing.T) {
	tests := []struct {
		interval int
		want     int
	}{
		{-1, 0},
		{0, 0},
		{1, 20},
		{2, 20},
		{3, 40},
		{6, 40},
		{7, 60},
		{13, 60},
		{14, 75},
		{29, 75},
		{30, 90},
		{89, 90},
		{90, 95},
		{179, 95},
		{180, 100},
		{364, 100},
		{365, 100},
		{1000, 100},
	}

	for _, tt := range tests {
		if got := DisplayMastery(tt.interval); got != tt.want {
			t.Errorf("DisplayMastery(%d) = %d, want %d", tt.interval, got, tt.want)
		}
	}
}

func TestDisplayMasteryMonotonic(t *testing.T) {
	prev := DisplayMastery(0)
	for i := 1; i <= 400; i++ {
		got := DisplayMastery(i)
		if got < prev {
			t.Fatalf("DisplayMastery(%d) = %d < DisplayMastery(%d) = %d", i, got, i-1, prev)
		}
		prev = got
	}
}

func TestMasteryBand(t *testing.T) {
	tests := []struct {
		mastery int
		want    string
	}{
		{0, "0-19"},
		{19, "0-19"},
		{20, "20-39"},
		{39, "20-39"},
		{40, "40-59"},
		{59, "40-59"},
		{60, "60-79"},
		{75, "60-79"},
		{79, "60-79"},
		{80, "80-100"},
		{90, "80-100"},
		{100, "80-100"},
	}

	for _, tt := range tests {
		if got := MasteryBand(tt.mastery); got != tt.want {
			t.Errorf("MasteryBand(%d) = %q, want %q", tt.mastery, got, tt.want)
		}
	}
}

func TestDeckMastery(t *testing.T) {
	tests := []struct {
		name      string
		intervals []int
		want      float64
	}{
		{"empty deck", nil, 0},
		{"single fresh card", []int{0}, 0},
		{"mixed", []int{0, 1, 7, 30}, (0 + 20 + 60 + 90) / 4.0},
		{"all mastered", []int{365, 400}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards := make([]models.Card, len(tt.intervals))
			for i, iv := range tt.intervals {
				cards[i] = cardWith("", iv, nil)
			}
			if got := DeckMastery(cards); got != tt.want {
				t.Errorf("DeckMastery = %v, want %v", got, tt.want)
			}
		})
	}
}
