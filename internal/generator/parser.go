package generator

import (
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
)

// GeneratedCard is one candidate flashcard as the model emitted it,
// before normalization assigns IDs and review state.
type GeneratedCard struct {
	Question     string   `json:"question"`
	Answer       string   `json:"answer"`
	QuestionType string   `json:"question_type"`
	Hint         string   `json:"hint"`
	Options      []string `json:"options"`
	Tags         []string `json:"tags"`
}

type generatedPayload struct {
	Cards []GeneratedCard `json:"cards"`
}

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// ParseResponse decodes the model's JSON into candidate cards. Individual
// malformed candidates are dropped with a warning; the response as a whole
// is rejected only when the JSON is unreadable or no candidate survives.
func ParseResponse(responseBody string) ([]GeneratedCard, error) {
	cleaned := stripCodeFences(responseBody)
	cleaned = removeTrailingCommas(cleaned)

	var payload generatedPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		// Some responses come back as a bare array instead of the
		// documented {"cards": [...]} wrapper.
		var bare []GeneratedCard
		if err2 := json.Unmarshal([]byte(cleaned), &bare); err2 != nil {
			return nil, fmt.Errorf("failed to parse JSON response: %w", err)
		}
		payload.Cards = bare
	}

	if len(payload.Cards) == 0 {
		return nil, &ValidationError{Errors: []string{"no cards in response"}}
	}

	var cards []GeneratedCard
	var errs []string
	for i, c := range payload.Cards {
		if reason := validateCandidate(c); reason != "" {
			errs = append(errs, fmt.Sprintf("card %d: %s", i+1, reason))
			log.Printf("WARNING: dropping generated card %d: %s", i+1, reason)
			continue
		}
		cards = append(cards, c)
	}

	if len(cards) == 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return cards, nil
}

// validateCandidate returns a rejection reason, or "" if the candidate is
// usable. Option-set repair (dedupe, padding) happens later; the parser
// only rejects cards that cannot be repaired.
func validateCandidate(c GeneratedCard) string {
	if strings.TrimSpace(c.Question) == "" {
		return "empty question"
	}
	if strings.TrimSpace(c.Answer) == "" {
		return "empty answer"
	}
	switch c.QuestionType {
	case "Identification", "Fill in the Blank":
	case "":
		return "missing question_type"
	default:
		return fmt.Sprintf("unknown question_type %q", c.QuestionType)
	}
	return ""
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

// removeTrailingCommas tolerates the trailing commas models sometimes
// emit inside otherwise valid JSON.
func removeTrailingCommas(s string) string {
	return trailingCommaRe.ReplaceAllString(s, "$1")
}
