package models

import "time"

// Quality is a user's self-reported recall grade for one review event.
// The UI produces exactly four values; 3 is never emitted but still sits
// on the pass side of the threshold used by the scheduler.
type Quality int

const (
	QualityAgain Quality = 1 // failed, show again soon
	QualityHard  Quality = 2 // failed, but the answer felt close
	QualityGood  Quality = 4 // recalled with some effort
	QualityEasy  Quality = 5 // recalled instantly
)

var ValidQualities = map[Quality]bool{
	QualityAgain: true,
	QualityHard:  true,
	QualityGood:  true,
	QualityEasy:  true,
}

// ReviewState holds the per-card scheduling fields owned by the scheduler.
// NextReviewAt == nil means the card is due now.
type ReviewState struct {
	EasinessFactor      float64    `json:"easiness_factor"`
	IntervalDays        int        `json:"interval_days"`
	Repetitions         int        `json:"repetitions"`
	LastQualityResponse *int       `json:"last_quality_response,omitempty"`
	LastReviewedAt      *time.Time `json:"last_reviewed_at,omitempty"`
	NextReviewAt        *time.Time `json:"next_review_at,omitempty"`
	Attempts            int        `json:"attempts"`
	CorrectStreak       int        `json:"correct_streak"`
}

type Card struct {
	ID           string   `json:"id"`
	DeckID       string   `json:"deck_id"`
	Question     string   `json:"question"`
	Answer       string   `json:"answer"`
	QuestionType string   `json:"question_type,omitempty"`
	Hint         string   `json:"hint,omitempty"`
	Options      []string `json:"options"`
	Tags         []string `json:"tags,omitempty"`
	ReviewState
}

// CandidateCard is what the content provider (LLM generation or a
// spreadsheet row) hands the core before normalization. Review state is
// optional and only populated when re-importing a previously exported deck.
type CandidateCard struct {
	Question     string   `json:"question"`
	Answer       string   `json:"answer"`
	QuestionType string   `json:"question_type,omitempty"`
	Hint         string   `json:"hint,omitempty"`
	Options      []string `json:"options"`
	Tags         []string `json:"tags,omitempty"`

	ReviewState *ReviewState `json:"review_state,omitempty"`
}

// RowError reports why a single candidate or spreadsheet row was rejected.
// Row is 1-based over the candidate sequence (header excluded for imports).
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type GradeCardRequest struct {
	Quality int `json:"quality" validate:"required,min=1,max=5"`
}

type GradeCardResponse struct {
	Card    Card          `json:"card"`
	Mastery int           `json:"mastery"`
	Profile ProfileRollup `json:"profile"`
}
