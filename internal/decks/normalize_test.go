package decks

import (
	"strings"
	"testing"
	"time"

	"github.com/flashcard-ai/backend/internal/models"
)

var testToday = time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)

func TestNormalizeCandidateFresh(t *testing.T) {
	candidate := models.CandidateCard{
		Question:     "  What is the boiling point of water at sea level?  ",
		Answer:       "100°C",
		QuestionType: "Identification",
		Hint:         "Metric units.",
		Options:      []string{"100°C", "90°C", "110°C", "212°C"},
		Tags:         []string{"Chemistry", "chemistry", " basics "},
	}

	card, err := NormalizeCandidate(candidate, testToday)
	if err != nil {
		t.Fatalf("NormalizeCandidate returned error: %v", err)
	}

	if card.ID == "" {
		t.Error("card got no ID")
	}
	if card.Question != "What is the boiling point of water at sea level?" {
		t.Errorf("question not trimmed: %q", card.Question)
	}
	if len(card.Options) != 4 {
		t.Errorf("got %d options, want 4", len(card.Options))
	}
	if len(card.Tags) != 2 || card.Tags[0] != "chemistry" || card.Tags[1] != "basics" {
		t.Errorf("tags = %v, want lowercased dedupe", card.Tags)
	}

	if card.EasinessFactor != 2.5 {
		t.Errorf("EasinessFactor = %v, want 2.5", card.EasinessFactor)
	}
	if card.IntervalDays != 0 || card.Repetitions != 0 || card.Attempts != 0 {
		t.Errorf("fresh card has non-zero counters: %+v", card.ReviewState)
	}
	wantDue := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	if card.NextReviewAt == nil || !card.NextReviewAt.Equal(wantDue) {
		t.Errorf("NextReviewAt = %v, want %v (due immediately)", card.NextReviewAt, wantDue)
	}
}

func TestNormalizeCandidateAnswerJoinsOptions(t *testing.T) {
	candidate := models.CandidateCard{
		Question: "Q?",
		Answer:   "Right",
		Options:  []string{"Wrong A", "Wrong B", "Wrong C"},
	}

	card, err := NormalizeCandidate(candidate, testToday)
	if err != nil {
		t.Fatalf("NormalizeCandidate returned error: %v", err)
	}
	if len(card.Options) != 4 {
		t.Fatalf("got %d options, want 4", len(card.Options))
	}
	if card.Options[0] != "Right" {
		t.Errorf("answer not inserted: %v", card.Options)
	}
}

func TestNormalizeCandidateDedupesAndPads(t *testing.T) {
	candidate := models.CandidateCard{
		Question: "Q?",
		Answer:   "Yes",
		Options:  []string{"Yes", "Yes", " No ", ""},
	}

	card, err := NormalizeCandidate(candidate, testToday)
	if err != nil {
		t.Fatalf("NormalizeCandidate returned error: %v", err)
	}
	if len(card.Options) != 4 {
		t.Fatalf("got %d options, want 4 after padding: %v", len(card.Options), card.Options)
	}
	if card.Options[0] != "Yes" || card.Options[1] != "No" {
		t.Errorf("options = %v", card.Options)
	}
	for _, filler := range card.Options[2:] {
		if filler != "None of the above" && filler != "All of the above" && filler != "Cannot be determined" {
			t.Errorf("unexpected filler %q", filler)
		}
	}
}

func TestNormalizeCandidatePadsWhenFillersCollide(t *testing.T) {
	candidate := models.CandidateCard{
		Question: "Q?",
		Answer:   "None of the above",
		Options:  []string{"None of the above", "All of the above"},
	}

	card, err := NormalizeCandidate(candidate, testToday)
	if err != nil {
		t.Fatalf("NormalizeCandidate returned error: %v", err)
	}
	if len(card.Options) != 4 {
		t.Fatalf("got %d options, want 4: %v", len(card.Options), card.Options)
	}
	seen := make(map[string]bool)
	for _, opt := range card.Options {
		if seen[opt] {
			t.Errorf("duplicate option %q: %v", opt, card.Options)
		}
		seen[opt] = true
	}
}

func TestNormalizeCandidateTruncatesKeepingAnswer(t *testing.T) {
	candidate := models.CandidateCard{
		Question: "Q?",
		Answer:   "F",
		Options:  []string{"A", "B", "C", "D", "E", "F"},
	}

	card, err := NormalizeCandidate(candidate, testToday)
	if err != nil {
		t.Fatalf("NormalizeCandidate returned error: %v", err)
	}
	if len(card.Options) != 4 {
		t.Fatalf("got %d options, want 4: %v", len(card.Options), card.Options)
	}
	found := false
	for _, opt := range card.Options {
		if opt == "F" {
			found = true
		}
	}
	if !found {
		t.Errorf("answer dropped during truncation: %v", card.Options)
	}
}

func TestNormalizeCandidateRejections(t *testing.T) {
	tests := []struct {
		name      string
		candidate models.CandidateCard
		reason    string
	}{
		{"empty question", models.CandidateCard{Answer: "A", Options: []string{"A", "B"}}, "question"},
		{"empty answer", models.CandidateCard{Question: "Q?", Options: []string{"A", "B"}}, "answer"},
		{"no options at all", models.CandidateCard{Question: "Q?", Answer: "A"}, "options"},
		{"only duplicates of the answer", models.CandidateCard{Question: "Q?", Answer: "A", Options: []string{"A", "A", " A "}}, "options"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeCandidate(tt.candidate, testToday)
			if err == nil {
				t.Fatal("expected rejection")
			}
			if !strings.Contains(err.Error(), tt.reason) {
				t.Errorf("err = %v, want mention of %q", err, tt.reason)
			}
		})
	}
}

func TestNormalizeCandidateResumedState(t *testing.T) {
	reviewed := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	next := time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)
	candidate := models.CandidateCard{
		Question: "Q?",
		Answer:   "A",
		Options:  []string{"A", "B", "C", "D"},
		ReviewState: &models.ReviewState{
			EasinessFactor: 2.36,
			IntervalDays:   6,
			Repetitions:    2,
			LastReviewedAt: &reviewed,
			NextReviewAt:   &next,
			Attempts:       3,
			CorrectStreak:  2,
		},
	}

	card, err := NormalizeCandidate(candidate, testToday)
	if err != nil {
		t.Fatalf("NormalizeCandidate returned error: %v", err)
	}
	if card.EasinessFactor != 2.36 || card.IntervalDays != 6 || card.Repetitions != 2 {
		t.Errorf("resumed state lost: %+v", card.ReviewState)
	}
	wantReviewed := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	if card.LastReviewedAt == nil || !card.LastReviewedAt.Equal(wantReviewed) {
		t.Errorf("LastReviewedAt = %v, want date-only %v", card.LastReviewedAt, wantReviewed)
	}
	if card.NextReviewAt == nil || !card.NextReviewAt.Equal(next) {
		t.Errorf("NextReviewAt = %v, want %v", card.NextReviewAt, next)
	}
}

func TestNormalizeCandidateDerivesNextReview(t *testing.T) {
	reviewed := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	candidate := models.CandidateCard{
		Question: "Q?",
		Answer:   "A",
		Options:  []string{"A", "B", "C", "D"},
		ReviewState: &models.ReviewState{
			EasinessFactor: 2.5,
			IntervalDays:   6,
			Repetitions:    2,
			LastReviewedAt: &reviewed,
		},
	}

	card, err := NormalizeCandidate(candidate, testToday)
	if err != nil {
		t.Fatalf("NormalizeCandidate returned error: %v", err)
	}
	want := time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)
	if card.NextReviewAt == nil || !card.NextReviewAt.Equal(want) {
		t.Errorf("NextReviewAt = %v, want derived %v", card.NextReviewAt, want)
	}
}

func TestNormalizeCandidateRepairsBadEF(t *testing.T) {
	candidate := models.CandidateCard{
		Question:    "Q?",
		Answer:      "A",
		Options:     []string{"A", "B", "C", "D"},
		ReviewState: &models.ReviewState{EasinessFactor: 0, IntervalDays: 3},
	}

	card, err := NormalizeCandidate(candidate, testToday)
	if err != nil {
		t.Fatalf("NormalizeCandidate returned error: %v", err)
	}
	if card.EasinessFactor != 2.5 {
		t.Errorf("EasinessFactor = %v, want repaired default 2.5", card.EasinessFactor)
	}
	wantDue := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	if card.NextReviewAt == nil || !card.NextReviewAt.Equal(wantDue) {
		t.Errorf("NextReviewAt = %v, want backfilled %v", card.NextReviewAt, wantDue)
	}
}
