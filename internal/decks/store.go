package decks

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/flashcard-ai/backend/internal/models"
)

// ErrNotFound is returned when a deck or card does not exist or does not
// belong to the requesting user. Handlers map it to 404.
var ErrNotFound = errors.New("not found")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Decks ───────────────────────────────────────────────

const deckCols = `id, user_id, title, source_type, original_text, created_at, last_accessed_at`

// CreateDeck inserts a deck and all of its cards in one transaction so a
// partially written deck can never be observed.
func (s *Store) CreateDeck(deck *models.Deck) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin create deck: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRow(
		`INSERT INTO decks (id, user_id, title, source_type, original_text, last_accessed_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		deck.ID, deck.UserID, deck.Title, deck.SourceType,
		nullString(deck.OriginalText), nullTime(deck.LastAccessedAt),
	).Scan(&deck.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert deck: %w", err)
	}

	for i := range deck.Cards {
		if err := insertCard(tx, deck.ID, &deck.Cards[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create deck: %w", err)
	}
	return nil
}

func (s *Store) GetDeck(deckID string, userID int64) (*models.Deck, error) {
	var deck models.Deck
	var originalText sql.NullString
	var lastAccessed sql.NullTime
	err := s.db.QueryRow(
		`SELECT `+deckCols+` FROM decks WHERE id = $1 AND user_id = $2`,
		deckID, userID,
	).Scan(&deck.ID, &deck.UserID, &deck.Title, &deck.SourceType,
		&originalText, &deck.CreatedAt, &lastAccessed)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get deck: %w", err)
	}
	deck.OriginalText = originalText.String
	deck.LastAccessedAt = timePtr(lastAccessed)

	cards, err := s.ListCards(deckID)
	if err != nil {
		return nil, err
	}
	deck.Cards = cards
	return &deck, nil
}

func (s *Store) ListDecks(userID int64) ([]models.Deck, error) {
	rows, err := s.db.Query(
		`SELECT `+deckCols+` FROM decks WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	defer rows.Close()

	var decks []models.Deck
	for rows.Next() {
		var deck models.Deck
		var originalText sql.NullString
		var lastAccessed sql.NullTime
		if err := rows.Scan(&deck.ID, &deck.UserID, &deck.Title, &deck.SourceType,
			&originalText, &deck.CreatedAt, &lastAccessed); err != nil {
			return nil, fmt.Errorf("scan deck: %w", err)
		}
		deck.OriginalText = originalText.String
		deck.LastAccessedAt = timePtr(lastAccessed)
		decks = append(decks, deck)
	}
	return decks, rows.Err()
}

func (s *Store) RenameDeck(deckID string, userID int64, title string) error {
	res, err := s.db.Exec(
		`UPDATE decks SET title = $1 WHERE id = $2 AND user_id = $3`,
		title, deckID, userID,
	)
	if err != nil {
		return fmt.Errorf("rename deck: %w", err)
	}
	return requireRow(res)
}

// DeleteDeck removes a deck; its cards go with it via ON DELETE CASCADE.
func (s *Store) DeleteDeck(deckID string, userID int64) error {
	res, err := s.db.Exec(
		`DELETE FROM decks WHERE id = $1 AND user_id = $2`,
		deckID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete deck: %w", err)
	}
	return requireRow(res)
}

// TouchDeck records a study access for recency ordering on the profile.
func (s *Store) TouchDeck(deckID string, userID int64, at time.Time) error {
	_, err := s.db.Exec(
		`UPDATE decks SET last_accessed_at = $1 WHERE id = $2 AND user_id = $3`,
		at, deckID, userID,
	)
	if err != nil {
		return fmt.Errorf("touch deck: %w", err)
	}
	return nil
}

// ── Cards ───────────────────────────────────────────────

const cardCols = `id, deck_id, question, answer, question_type, hint, options, tags,
	easiness_factor, interval_days, repetitions, last_quality_response,
	last_reviewed_at, next_review_at, attempts, correct_streak`

const cardColsJoined = `c.id, c.deck_id, c.question, c.answer, c.question_type, c.hint, c.options, c.tags,
	c.easiness_factor, c.interval_days, c.repetitions, c.last_quality_response,
	c.last_reviewed_at, c.next_review_at, c.attempts, c.correct_streak`

func insertCard(tx *sql.Tx, deckID string, card *models.Card) error {
	options, err := json.Marshal(card.Options)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}
	tags, err := json.Marshal(card.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO cards (id, deck_id, question, answer, question_type, hint, options, tags,
			easiness_factor, interval_days, repetitions, last_quality_response,
			last_reviewed_at, next_review_at, attempts, correct_streak)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		card.ID, deckID, card.Question, card.Answer, card.QuestionType,
		nullString(card.Hint), options, tags,
		card.EasinessFactor, card.IntervalDays, card.Repetitions,
		nullIntPtr(card.LastQualityResponse),
		nullTime(card.LastReviewedAt), nullTime(card.NextReviewAt),
		card.Attempts, card.CorrectStreak,
	)
	if err != nil {
		return fmt.Errorf("insert card: %w", err)
	}
	return nil
}

func (s *Store) ListCards(deckID string) ([]models.Card, error) {
	rows, err := s.db.Query(
		`SELECT `+cardCols+` FROM cards WHERE deck_id = $1 ORDER BY created_at, id`,
		deckID,
	)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()
	return scanCards(rows)
}

// ListUserCards returns every card the user owns, across all decks. The
// profile rollup recomputes from this snapshot.
func (s *Store) ListUserCards(userID int64) ([]models.Card, error) {
	rows, err := s.db.Query(
		`SELECT `+cardColsJoined+`
		 FROM cards c JOIN decks d ON c.deck_id = d.id
		 WHERE d.user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list user cards: %w", err)
	}
	defer rows.Close()
	return scanCards(rows)
}

func (s *Store) GetCard(deckID, cardID string, userID int64) (*models.Card, error) {
	rows, err := s.db.Query(
		`SELECT `+cardColsJoined+`
		 FROM cards c JOIN decks d ON c.deck_id = d.id
		 WHERE c.id = $1 AND c.deck_id = $2 AND d.user_id = $3`,
		cardID, deckID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get card: %w", err)
	}
	defer rows.Close()

	cards, err := scanCards(rows)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, ErrNotFound
	}
	return &cards[0], nil
}

// UpdateCardReview persists a grading result as a single-row update, so a
// concurrent grade on another card can never clobber this one.
func (s *Store) UpdateCardReview(cardID string, state models.ReviewState) error {
	res, err := s.db.Exec(
		`UPDATE cards
		 SET easiness_factor = $1, interval_days = $2, repetitions = $3,
		     last_quality_response = $4, last_reviewed_at = $5, next_review_at = $6,
		     attempts = $7, correct_streak = $8
		 WHERE id = $9`,
		state.EasinessFactor, state.IntervalDays, state.Repetitions,
		nullIntPtr(state.LastQualityResponse),
		nullTime(state.LastReviewedAt), nullTime(state.NextReviewAt),
		state.Attempts, state.CorrectStreak, cardID,
	)
	if err != nil {
		return fmt.Errorf("update card review: %w", err)
	}
	return requireRow(res)
}

func scanCards(rows *sql.Rows) ([]models.Card, error) {
	var cards []models.Card
	for rows.Next() {
		var card models.Card
		var hint sql.NullString
		var options, tags []byte
		var lastQuality sql.NullInt64
		var lastReviewed, nextReview sql.NullTime
		if err := rows.Scan(&card.ID, &card.DeckID, &card.Question, &card.Answer,
			&card.QuestionType, &hint, &options, &tags,
			&card.EasinessFactor, &card.IntervalDays, &card.Repetitions,
			&lastQuality, &lastReviewed, &nextReview,
			&card.Attempts, &card.CorrectStreak); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		card.Hint = hint.String
		if err := json.Unmarshal(options, &card.Options); err != nil {
			return nil, fmt.Errorf("decode options for card %s: %w", card.ID, err)
		}
		if err := json.Unmarshal(tags, &card.Tags); err != nil {
			return nil, fmt.Errorf("decode tags for card %s: %w", card.ID, err)
		}
		if lastQuality.Valid {
			q := int(lastQuality.Int64)
			card.LastQualityResponse = &q
		}
		card.LastReviewedAt = timePtr(lastReviewed)
		card.NextReviewAt = timePtr(nextReview)
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// ── Profile Rollups ─────────────────────────────────────

func (s *Store) UpsertProfile(userID int64, rollup models.ProfileRollup) error {
	_, err := s.db.Exec(
		`INSERT INTO profile_rollups (user_id, total_cards, mean_mastery, due_count, last_updated)
		 VALUES ($1, $2, $3, $4, NOW())
		 ON CONFLICT (user_id) DO UPDATE
		 SET total_cards = $2, mean_mastery = $3, due_count = $4, last_updated = NOW()`,
		userID, rollup.TotalCards, rollup.MeanMastery, rollup.DueCount,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (s *Store) GetProfile(userID int64) (*models.ProfileRollup, error) {
	var rollup models.ProfileRollup
	err := s.db.QueryRow(
		`SELECT total_cards, mean_mastery, due_count, last_updated
		 FROM profile_rollups WHERE user_id = $1`,
		userID,
	).Scan(&rollup.TotalCards, &rollup.MeanMastery, &rollup.DueCount, &rollup.LastUpdated)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &rollup, nil
}

// ── Helpers ─────────────────────────────────────────────

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullIntPtr(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
