package generator

import (
	"errors"
	"strings"
	"testing"
)

const validResponse = `{
	"cards": [
		{
			"question": "What pigment absorbs light during photosynthesis?",
			"answer": "Chlorophyll",
			"question_type": "Identification",
			"hint": "It gives leaves their color.",
			"options": ["Chlorophyll", "Carotene", "Melanin", "Hemoglobin"],
			"tags": ["biology"]
		},
		{
			"question": "Water evaporates and later returns to the surface as ____.",
			"answer": "precipitation",
			"question_type": "Fill in the Blank",
			"hint": "Rain and snow count.",
			"options": ["precipitation", "condensation", "transpiration", "infiltration"],
			"tags": ["earth science", "water cycle"]
		}
	]
}`

func TestParseResponseValid(t *testing.T) {
	cards, err := ParseResponse(validResponse)
	if err != nil {
		t.Fatalf("ParseResponse returned error: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("got %d cards, want 2", len(cards))
	}
	if cards[0].Question != "What pigment absorbs light during photosynthesis?" {
		t.Errorf("unexpected question: %q", cards[0].Question)
	}
	if cards[0].QuestionType != "Identification" {
		t.Errorf("QuestionType = %q, want Identification", cards[0].QuestionType)
	}
	if len(cards[1].Options) != 4 {
		t.Errorf("got %d options, want 4", len(cards[1].Options))
	}
	if cards[1].Tags[1] != "water cycle" {
		t.Errorf("unexpected tag: %q", cards[1].Tags[1])
	}
}

func TestParseResponseStripsCodeFences(t *testing.T) {
	fenced := "```json\n" + validResponse + "\n```"
	cards, err := ParseResponse(fenced)
	if err != nil {
		t.Fatalf("ParseResponse returned error: %v", err)
	}
	if len(cards) != 2 {
		t.Errorf("got %d cards, want 2", len(cards))
	}
}

func TestParseResponseToleratesTrailingCommas(t *testing.T) {
	withCommas := `{
		"cards": [
			{
				"question": "Q?",
				"answer": "A",
				"question_type": "Identification",
				"options": ["A", "B", "C", "D",],
				"tags": ["t",],
			},
		],
	}`
	cards, err := ParseResponse(withCommas)
	if err != nil {
		t.Fatalf("ParseResponse returned error: %v", err)
	}
	if len(cards) != 1 {
		t.Errorf("got %d cards, want 1", len(cards))
	}
}

func TestParseResponseBareArray(t *testing.T) {
	bare := `[{"question":"Q?","answer":"A","question_type":"Identification","options":["A","B"],"tags":[]}]`
	cards, err := ParseResponse(bare)
	if err != nil {
		t.Fatalf("ParseResponse returned error: %v", err)
	}
	if len(cards) != 1 {
		t.Errorf("got %d cards, want 1", len(cards))
	}
}

func TestParseResponseDropsBadCandidates(t *testing.T) {
	mixed := `{
		"cards": [
			{"question": "", "answer": "A", "question_type": "Identification"},
			{"question": "Q?", "answer": "", "question_type": "Identification"},
			{"question": "Q?", "answer": "A", "question_type": "Essay"},
			{"question": "Keeper?", "answer": "Yes", "question_type": "Identification", "options": ["Yes", "No"]}
		]
	}`
	cards, err := ParseResponse(mixed)
	if err != nil {
		t.Fatalf("ParseResponse returned error: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("got %d cards, want 1 survivor", len(cards))
	}
	if cards[0].Question != "Keeper?" {
		t.Errorf("wrong survivor: %q", cards[0].Question)
	}
}

func TestParseResponseAllBad(t *testing.T) {
	allBad := `{"cards": [{"question": "", "answer": ""}]}`
	_, err := ParseResponse(allBad)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(verr.Errors) == 0 {
		t.Error("ValidationError carries no reasons")
	}
}

func TestParseResponseInvalidJSON(t *testing.T) {
	if _, err := ParseResponse("not json at all"); err == nil {
		t.Error("expected error for non-JSON input")
	}
}

func TestParseResponseEmptyCards(t *testing.T) {
	_, err := ParseResponse(`{"cards": []}`)
	if err == nil || !strings.Contains(err.Error(), "no cards") {
		t.Errorf("err = %v, want no-cards validation error", err)
	}
}

func TestMockClientOutputParses(t *testing.T) {
	cards, err := ParseResponse(buildMockJSON())
	if err != nil {
		t.Fatalf("mock output failed to parse: %v", err)
	}
	if len(cards) != 6 {
		t.Errorf("got %d mock cards, want 6", len(cards))
	}
	for i, c := range cards {
		if len(c.Options) != 4 {
			t.Errorf("mock card %d: got %d options, want 4", i+1, len(c.Options))
		}
		if c.Options[0] != c.Answer {
			t.Errorf("mock card %d: answer %q not first option %q", i+1, c.Answer, c.Options[0])
		}
	}
}
