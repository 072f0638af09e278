package generator

import (
	"fmt"
	"strings"
)

// SystemPrompt frames the model as a flashcard author and pins down the
// output contract the parser expects.
func SystemPrompt() string {
	return `You are an expert study-material author. You turn source text into
high-quality flashcards for spaced-repetition review.

Rules:
- Every card tests exactly one fact or concept from the source text. Never
  invent facts that are not in the source.
- Two question types are allowed:
  - "Identification": a direct question ("What is...?", "Which process...?").
  - "Fill in the Blank": a sentence from the source with one key term
    replaced by "____".
- Each card has exactly 4 answer options. One of them is the correct
  answer, copied verbatim into the "answer" field. The three distractors
  must be plausible but wrong, drawn from the same topic area.
- Each card has a one-sentence hint that points at the relevant part of
  the source without giving the answer away.
- Each card has 1-3 lowercase topic tags.

Output ONLY valid JSON, no prose before or after, in this shape:

{
  "cards": [
    {
      "question": "...",
      "answer": "...",
      "question_type": "Identification",
      "hint": "...",
      "options": ["...", "...", "...", "..."],
      "tags": ["..."]
    }
  ]
}`
}

// BuildUserPrompt asks for count cards over the given source text. The
// title gives the model topic context for distractor quality.
func BuildUserPrompt(title, text string, count int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Create %d flashcards from the following source material.\n\n", count))
	sb.WriteString(fmt.Sprintf("Deck title: %s\n\n", title))
	sb.WriteString("Mix Identification and Fill in the Blank cards roughly evenly. ")
	sb.WriteString("Cover the most important facts first; do not write two cards on the same fact.\n\n")
	sb.WriteString("Source material:\n\"\"\"\n")
	sb.WriteString(text)
	sb.WriteString("\n\"\"\"\n")
	return sb.String()
}
