// Package deckio reads and writes deck files. CSV and XLSX share one
// column contract: snake_case headers, options and tags joined with
// semicolons, review-state columns optional so an export can be
// re-imported with progress intact. The display_mastery column is
// derived from interval_days on export and ignored on import.
package deckio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/flashcard-ai/backend/internal/models"
	"github.com/flashcard-ai/backend/internal/srs"
)

// Headers is the canonical column order for both formats.
var Headers = []string{
	"question", "answer", "question_type", "hint", "options", "tags",
	"easiness_factor", "interval_days", "repetitions", "last_quality_response",
	"last_reviewed_at", "next_review_at", "attempts", "correct_streak",
	"display_mastery",
}

const dateLayout = "2006-01-02"

// RowCandidate pairs a parsed candidate with its source row number so
// later validation failures can still name the row.
type RowCandidate struct {
	Row       int
	Candidate models.CandidateCard
}

// ParseCSV reads candidate cards from r. Structurally broken rows become
// RowErrors; the rest parse. Only an unreadable file or a bad header is a
// hard error.
func ParseCSV(r io.Reader) ([]RowCandidate, []models.RowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("empty file")
	}

	cols, err := headerIndex(records[0])
	if err != nil {
		return nil, nil, err
	}

	var candidates []RowCandidate
	var rowErrs []models.RowError
	for i, record := range records[1:] {
		row := i + 2 // 1-based, after the header
		candidate, err := parseRecord(record, cols)
		if err != nil {
			rowErrs = append(rowErrs, models.RowError{Row: row, Reason: err.Error()})
			continue
		}
		candidates = append(candidates, RowCandidate{Row: row, Candidate: candidate})
	}
	return candidates, rowErrs, nil
}

// WriteCSV writes cards to w in the canonical column order.
func WriteCSV(w io.Writer, cards []models.Card) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, card := range cards {
		if err := writer.Write(cardRecord(card)); err != nil {
			return fmt.Errorf("write card %s: %w", card.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ── Shared row codec ────────────────────────────────────

func headerIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"question", "answer"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}
	return cols, nil
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseRecord(record []string, cols map[string]int) (models.CandidateCard, error) {
	var c models.CandidateCard

	c.Question = field(record, cols, "question")
	if c.Question == "" {
		return c, fmt.Errorf("missing question")
	}
	c.Answer = field(record, cols, "answer")
	if c.Answer == "" {
		return c, fmt.Errorf("missing answer")
	}

	c.QuestionType = field(record, cols, "question_type")
	if c.QuestionType == "" {
		c.QuestionType = "Identification"
	}
	c.Hint = field(record, cols, "hint")
	c.Options = splitList(field(record, cols, "options"))
	c.Tags = splitList(field(record, cols, "tags"))

	state, err := parseReviewState(record, cols)
	if err != nil {
		return c, err
	}
	c.ReviewState = state
	return c, nil
}

// parseReviewState returns nil when the row carries no progress columns,
// so imports of plain question/answer files start fresh.
func parseReviewState(record []string, cols map[string]int) (*models.ReviewState, error) {
	ef := field(record, cols, "easiness_factor")
	if ef == "" {
		return nil, nil
	}

	var state models.ReviewState
	var err error
	state.EasinessFactor, err = strconv.ParseFloat(ef, 64)
	if err != nil {
		return nil, fmt.Errorf("bad easiness_factor %q", ef)
	}

	intFields := []struct {
		name string
		dst  *int
	}{
		{"interval_days", &state.IntervalDays},
		{"repetitions", &state.Repetitions},
		{"attempts", &state.Attempts},
		{"correct_streak", &state.CorrectStreak},
	}
	for _, f := range intFields {
		raw := field(record, cols, f.name)
		if raw == "" {
			continue
		}
		*f.dst, err = strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("bad %s %q", f.name, raw)
		}
	}

	if raw := field(record, cols, "last_quality_response"); raw != "" {
		q, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("bad last_quality_response %q", raw)
		}
		state.LastQualityResponse = &q
	}

	dateFields := []struct {
		name string
		dst  **time.Time
	}{
		{"last_reviewed_at", &state.LastReviewedAt},
		{"next_review_at", &state.NextReviewAt},
	}
	for _, f := range dateFields {
		raw := field(record, cols, f.name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("bad %s %q", f.name, raw)
		}
		*f.dst = &t
	}

	return &state, nil
}

func cardRecord(card models.Card) []string {
	return []string{
		card.Question,
		card.Answer,
		card.QuestionType,
		card.Hint,
		joinList(card.Options),
		joinList(card.Tags),
		strconv.FormatFloat(card.EasinessFactor, 'f', -1, 64),
		strconv.Itoa(card.IntervalDays),
		strconv.Itoa(card.Repetitions),
		intPtrString(card.LastQualityResponse),
		dateString(card.LastReviewedAt),
		dateString(card.NextReviewAt),
		strconv.Itoa(card.Attempts),
		strconv.Itoa(card.CorrectStreak),
		strconv.Itoa(srs.DisplayMastery(card.IntervalDays)),
	}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ";") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func joinList(items []string) string {
	return strings.Join(items, "; ")
}

func intPtrString(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func dateString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
