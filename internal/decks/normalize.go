package decks

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/flashcard-ai/backend/internal/models"
	"github.com/flashcard-ai/backend/internal/srs"
)

// fillerOptions pad an option set that has too few distractors. Real
// distractors always win; fillers only close the gap to four.
var fillerOptions = []string{
	"None of the above",
	"All of the above",
	"Cannot be determined",
}

const optionCount = 4

// NormalizeCandidate turns a raw candidate into a storable card: fresh
// ID, trimmed content, a repaired four-option set that contains the
// answer, and review state (carried over from an import, or fresh).
//
// A candidate is rejected when its question or answer is empty, or when
// fewer than two real options remain after repair. One real distractor
// plus the answer is the minimum for a meaningful multiple choice.
func NormalizeCandidate(c models.CandidateCard, today time.Time) (models.Card, error) {
	question := strings.TrimSpace(c.Question)
	answer := strings.TrimSpace(c.Answer)
	if question == "" {
		return models.Card{}, fmt.Errorf("empty question")
	}
	if answer == "" {
		return models.Card{}, fmt.Errorf("empty answer")
	}

	questionType := strings.TrimSpace(c.QuestionType)
	if questionType == "" {
		questionType = "Identification"
	}

	options := normalizeOptions(c.Options, answer)
	if len(options) < 2 {
		return models.Card{}, fmt.Errorf("fewer than 2 usable options")
	}
	options = padOptions(options)

	card := models.Card{
		ID:           uuid.NewString(),
		Question:     question,
		Answer:       answer,
		QuestionType: questionType,
		Hint:         strings.TrimSpace(c.Hint),
		Options:      options,
		Tags:         normalizeTags(c.Tags),
		ReviewState:  candidateState(c.ReviewState, today),
	}
	return card, nil
}

// normalizeOptions trims, dedupes, and guarantees the answer is a member.
func normalizeOptions(raw []string, answer string) []string {
	seen := make(map[string]bool)
	var options []string
	for _, opt := range raw {
		trimmed := strings.TrimSpace(opt)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		options = append(options, trimmed)
	}
	if !seen[answer] {
		options = append([]string{answer}, options...)
	}
	if len(options) > optionCount {
		options = keepAnswer(options, answer)
	}
	return options
}

// keepAnswer truncates to optionCount while never dropping the answer:
// the answer plus the first distractors, in their original order.
func keepAnswer(options []string, answer string) []string {
	kept := make([]string, 0, optionCount)
	for _, opt := range options {
		if opt == answer {
			kept = append(kept, opt)
			break
		}
	}
	for _, opt := range options {
		if len(kept) == optionCount {
			break
		}
		if opt != answer {
			kept = append(kept, opt)
		}
	}
	return kept
}

func padOptions(options []string) []string {
	seen := make(map[string]bool, len(options))
	for _, opt := range options {
		seen[opt] = true
	}
	for _, filler := range fillerOptions {
		if len(options) >= optionCount {
			return options
		}
		if !seen[filler] {
			options = append(options, filler)
			seen[filler] = true
		}
	}
	// The fixed list can collide with real options; numbered fillers
	// close any remaining gap.
	for n := 1; len(options) < optionCount; n++ {
		filler := fmt.Sprintf("None of these (%d)", n)
		if !seen[filler] {
			options = append(options, filler)
			seen[filler] = true
		}
	}
	return options
}

func normalizeTags(raw []string) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, tag := range raw {
		trimmed := strings.ToLower(strings.TrimSpace(tag))
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		tags = append(tags, trimmed)
	}
	return tags
}

// candidateState carries imported progress forward, or starts fresh. An
// imported state with gaps gets safe defaults so the scheduler never sees
// a zero easiness factor.
func candidateState(state *models.ReviewState, today time.Time) models.ReviewState {
	if state == nil {
		return srs.NewReviewState(today)
	}
	out := *state
	if out.EasinessFactor < srs.MinEF {
		out.EasinessFactor = srs.DefaultEF
	}
	if out.LastReviewedAt != nil {
		d := srs.DateOnly(*out.LastReviewedAt)
		out.LastReviewedAt = &d
	}
	if out.NextReviewAt == nil {
		// The next review date is always derivable: last review plus
		// the interval, or today for a card with no history.
		var d time.Time
		if out.LastReviewedAt != nil {
			d = out.LastReviewedAt.AddDate(0, 0, out.IntervalDays)
		} else {
			d = srs.DateOnly(today)
		}
		out.NextReviewAt = &d
	} else {
		d := srs.DateOnly(*out.NextReviewAt)
		out.NextReviewAt = &d
	}
	return out
}
