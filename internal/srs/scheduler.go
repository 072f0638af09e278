// Package srs implements the spaced-repetition core: the SM-2-family
// scheduler, due-card selection, display mastery, and profile rollups.
// Everything here is a pure function over in-memory state; persistence
// belongs to the caller.
package srs

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/flashcard-ai/backend/internal/models"
)

const (
	// DefaultEF is the easiness factor assigned to a freshly created card.
	DefaultEF = 2.5
	// MinEF is the floor below which the easiness factor never falls.
	MinEF = 1.3
	// InitialIntervalDays is the interval after the first successful
	// review, and after any failed review.
	InitialIntervalDays = 1
	// SecondIntervalDays is the interval after the second consecutive
	// successful review.
	SecondIntervalDays = 6
	// PassThreshold separates failing grades (quality < 3) from passing.
	PassThreshold = 3
)

// ErrInvalidQuality is returned when a grade outside the UI's quality
// scale reaches the scheduler. Out-of-range grades indicate a caller bug,
// so they are rejected rather than clamped.
var ErrInvalidQuality = errors.New("invalid quality grade")

// NewReviewState returns the review state for a freshly created card:
// zero interval and repetitions, default easiness, due immediately.
func NewReviewState(today time.Time) models.ReviewState {
	due := DateOnly(today)
	return models.ReviewState{
		EasinessFactor: DefaultEF,
		NextReviewAt:   &due,
	}
}

// Schedule applies one grading event to a card's review state and returns
// the updated state. It never mutates its input and performs no I/O.
//
// On failure (quality < PassThreshold) repetitions, interval, and the
// correct streak reset. On success the interval follows the SM-2 ladder:
// 1 day, then 6 days, then ceil(interval * EF) using the easiness factor
// from before this review. The easiness adjustment itself applies on pass
// and fail alike, rounded to two decimals and floored at MinEF.
func Schedule(state models.ReviewState, quality models.Quality, today time.Time) (models.ReviewState, error) {
	if !models.ValidQualities[quality] {
		return state, fmt.Errorf("%w: %d", ErrInvalidQuality, quality)
	}

	day := DateOnly(today)
	q := int(quality)
	next := state

	if q < PassThreshold {
		next.Repetitions = 0
		next.IntervalDays = InitialIntervalDays
		next.CorrectStreak = 0
	} else {
		next.CorrectStreak = state.CorrectStreak + 1
		switch {
		case state.Repetitions == 0:
			next.IntervalDays = InitialIntervalDays
		case state.Repetitions == 1:
			next.IntervalDays = SecondIntervalDays
		default:
			// Ceiling so the next interval never shrinks to the
			// current one through rounding.
			next.IntervalDays = int(math.Ceil(float64(state.IntervalDays) * state.EasinessFactor))
		}
		next.Repetitions = state.Repetitions + 1
	}

	ef := state.EasinessFactor + (0.1 - float64(5-q)*(0.08+float64(5-q)*0.02))
	ef = math.Round(ef*100) / 100
	if ef < MinEF {
		ef = MinEF
	}
	next.EasinessFactor = ef

	next.Attempts = state.Attempts + 1
	next.LastQualityResponse = &q
	next.LastReviewedAt = &day
	due := day.AddDate(0, 0, next.IntervalDays)
	next.NextReviewAt = &due

	return next, nil
}

// DateOnly truncates a timestamp to its UTC calendar date. Review
// scheduling operates on whole days, never times of day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
