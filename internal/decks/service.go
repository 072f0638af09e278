package decks

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/flashcard-ai/backend/internal/deckio"
	"github.com/flashcard-ai/backend/internal/generator"
	"github.com/flashcard-ai/backend/internal/models"
	"github.com/flashcard-ai/backend/internal/srs"
)

// DefaultCardCount is how many cards a generation request produces when
// the client does not ask for a specific number.
const DefaultCardCount = 10

type Service struct {
	store *Store
	gen   *generator.Generator
	now   func() time.Time
}

func NewService(store *Store, gen *generator.Generator) *Service {
	return &Service{store: store, gen: gen, now: time.Now}
}

// ── Deck Creation ───────────────────────────────────────

// GenerateDeck asks the model for cards over the source text, normalizes
// the survivors, and stores them as a new deck. Candidates the
// normalizer rejects are reported, not fatal.
func (s *Service) GenerateDeck(ctx context.Context, userID int64, req models.GenerateDeckRequest) (*models.CreateDeckResponse, error) {
	count := req.Count
	if count <= 0 {
		count = DefaultCardCount
	}

	candidates, llmResp, err := s.gen.GenerateCards(ctx, req.Title, req.Text, count)
	if err != nil {
		return nil, err
	}

	today := s.now()
	var cards []models.Card
	var rowErrs []models.RowError
	for i, gc := range candidates {
		card, err := NormalizeCandidate(candidateFromGenerated(gc), today)
		if err != nil {
			rowErrs = append(rowErrs, models.RowError{Row: i + 1, Reason: err.Error()})
			continue
		}
		cards = append(cards, card)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("all %d generated cards were rejected", len(candidates))
	}

	deck := models.Deck{
		ID:           uuid.NewString(),
		UserID:       userID,
		Title:        req.Title,
		SourceType:   "generated",
		OriginalText: req.Text,
		Cards:        cards,
	}
	for i := range deck.Cards {
		deck.Cards[i].DeckID = deck.ID
	}
	if err := s.store.CreateDeck(&deck); err != nil {
		return nil, err
	}

	if _, err := s.refreshProfile(userID); err != nil {
		return nil, err
	}

	log.Printf("[decks] generated deck %s for user %d: %d cards, %d rejected, %d output tokens",
		deck.ID, userID, len(cards), len(rowErrs), llmResp.OutputTokens)

	return &models.CreateDeckResponse{
		Deck:     deck,
		Imported: len(cards),
		Rejected: len(rowErrs),
		Errors:   rowErrs,
	}, nil
}

// ImportDeck builds a deck from an uploaded spreadsheet. Broken rows are
// reported per row; when no row survives, nothing is created and the
// response carries only the errors.
func (s *Service) ImportDeck(userID int64, title, format string, r io.Reader) (*models.CreateDeckResponse, error) {
	var rowCandidates []deckio.RowCandidate
	var rowErrs []models.RowError
	var err error

	switch format {
	case "csv":
		rowCandidates, rowErrs, err = deckio.ParseCSV(r)
	case "xlsx":
		rowCandidates, rowErrs, err = deckio.ParseXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported import format %q", format)
	}
	if err != nil {
		return nil, err
	}

	today := s.now()
	var cards []models.Card
	for _, rc := range rowCandidates {
		card, err := NormalizeCandidate(rc.Candidate, today)
		if err != nil {
			rowErrs = append(rowErrs, models.RowError{Row: rc.Row, Reason: err.Error()})
			continue
		}
		cards = append(cards, card)
	}

	if len(cards) == 0 {
		return &models.CreateDeckResponse{Rejected: len(rowErrs), Errors: rowErrs}, nil
	}

	deck := models.Deck{
		ID:         uuid.NewString(),
		UserID:     userID,
		Title:      title,
		SourceType: "imported",
		Cards:      cards,
	}
	for i := range deck.Cards {
		deck.Cards[i].DeckID = deck.ID
	}
	if err := s.store.CreateDeck(&deck); err != nil {
		return nil, err
	}
	if _, err := s.refreshProfile(userID); err != nil {
		return nil, err
	}

	log.Printf("[decks] imported deck %s for user %d: %d cards, %d rows rejected",
		deck.ID, userID, len(cards), len(rowErrs))

	return &models.CreateDeckResponse{
		Deck:     deck,
		Imported: len(cards),
		Rejected: len(rowErrs),
		Errors:   rowErrs,
	}, nil
}

// ── Deck Access ─────────────────────────────────────────

func (s *Service) ListDecks(userID int64) (*models.DeckListResponse, error) {
	decks, err := s.store.ListDecks(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.DeckSummary, 0, len(decks))
	today := s.now()
	for _, deck := range decks {
		cards, err := s.store.ListCards(deck.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summarize(deck, cards, today))
	}
	return &models.DeckListResponse{Decks: summaries, Total: len(summaries)}, nil
}

// GetDeck loads a deck with its cards and records the access for recency
// ordering.
func (s *Service) GetDeck(deckID string, userID int64) (*models.Deck, error) {
	deck, err := s.store.GetDeck(deckID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.store.TouchDeck(deckID, userID, s.now()); err != nil {
		log.Printf("[decks] WARN: touch deck %s: %v", deckID, err)
	}
	return deck, nil
}

func (s *Service) RenameDeck(deckID string, userID int64, title string) error {
	return s.store.RenameDeck(deckID, userID, title)
}

func (s *Service) DeleteDeck(deckID string, userID int64) error {
	if err := s.store.DeleteDeck(deckID, userID); err != nil {
		return err
	}
	_, err := s.refreshProfile(userID)
	return err
}

// ── Study ───────────────────────────────────────────────

// StudyQueue returns the cards due today plus the never-reviewed pool,
// and counts as a deck access.
func (s *Service) StudyQueue(deckID string, userID int64) (*models.StudyQueueResponse, error) {
	deck, err := s.store.GetDeck(deckID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.store.TouchDeck(deckID, userID, s.now()); err != nil {
		log.Printf("[decks] WARN: touch deck %s: %v", deckID, err)
	}

	today := s.now()
	return &models.StudyQueueResponse{
		Due:    srs.DueCards(deck.Cards, today),
		Unseen: srs.UnseenCards(deck.Cards),
	}, nil
}

// GradeCard applies one review grade: schedule the card, persist it as a
// single-row update, then recompute the profile rollup before answering.
func (s *Service) GradeCard(deckID, cardID string, userID int64, quality models.Quality) (*models.GradeCardResponse, error) {
	card, err := s.store.GetCard(deckID, cardID, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	state, err := srs.Schedule(card.ReviewState, quality, now)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateCardReview(cardID, state); err != nil {
		return nil, err
	}
	if err := s.store.TouchDeck(deckID, userID, now); err != nil {
		log.Printf("[decks] WARN: touch deck %s: %v", deckID, err)
	}

	profile, err := s.refreshProfile(userID)
	if err != nil {
		return nil, err
	}

	card.ReviewState = state
	return &models.GradeCardResponse{
		Card:    *card,
		Mastery: srs.DisplayMastery(state.IntervalDays),
		Profile: profile,
	}, nil
}

// ── Stats, Export, Profile ──────────────────────────────

func (s *Service) DeckStats(deckID string, userID int64) (*models.DeckStats, error) {
	deck, err := s.store.GetDeck(deckID, userID)
	if err != nil {
		return nil, err
	}

	today := s.now()
	buckets := make(map[string]int)
	rows := make([]models.CardStatsRow, 0, len(deck.Cards))
	due := 0
	for _, card := range deck.Cards {
		mastery := srs.DisplayMastery(card.IntervalDays)
		buckets[srs.MasteryBand(mastery)]++
		if srs.IsDue(card.ReviewState, today) {
			due++
		}
		rows = append(rows, models.CardStatsRow{
			Question:       card.Question,
			Mastery:        mastery,
			EasinessFactor: card.EasinessFactor,
			Repetitions:    card.Repetitions,
			IntervalDays:   card.IntervalDays,
			NextReviewAt:   card.NextReviewAt,
			LastReviewedAt: card.LastReviewedAt,
			LastQuality:    card.LastQualityResponse,
			Attempts:       card.Attempts,
		})
	}

	return &models.DeckStats{
		TotalCards:     len(deck.Cards),
		DeckMastery:    srs.DeckMastery(deck.Cards),
		DueCount:       due,
		MasteryBuckets: buckets,
		Cards:          rows,
	}, nil
}

// ExportDeck writes the deck's cards to w in the requested format.
func (s *Service) ExportDeck(deckID string, userID int64, format string, w io.Writer) (*models.Deck, error) {
	deck, err := s.store.GetDeck(deckID, userID)
	if err != nil {
		return nil, err
	}

	switch format {
	case "csv":
		err = deckio.WriteCSV(w, deck.Cards)
	case "xlsx":
		err = deckio.WriteXLSX(w, deck.Cards)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return deck, nil
}

// Profile returns the cached rollup plus the recent-deck list. A user
// without a rollup row yet gets one computed on the spot.
func (s *Service) Profile(userID int64) (*models.ProfileResponse, error) {
	rollup, err := s.store.GetProfile(userID)
	if err == ErrNotFound {
		fresh, err := s.refreshProfile(userID)
		if err != nil {
			return nil, err
		}
		rollup = &fresh
	} else if err != nil {
		return nil, err
	}

	list, err := s.ListDecks(userID)
	if err != nil {
		return nil, err
	}

	return &models.ProfileResponse{
		Profile:     *rollup,
		RecentDecks: srs.RecentDecks(list.Decks, srs.RecentDeckLimit),
	}, nil
}

// ── Helpers ─────────────────────────────────────────────

// refreshProfile recomputes the rollup from every card the user owns and
// persists it. Runs after each mutation so the cached numbers never drift.
func (s *Service) refreshProfile(userID int64) (models.ProfileRollup, error) {
	cards, err := s.store.ListUserCards(userID)
	if err != nil {
		return models.ProfileRollup{}, err
	}

	now := s.now()
	rollup := srs.RecomputeProfile(cards, now)
	if err := s.store.UpsertProfile(userID, rollup); err != nil {
		return models.ProfileRollup{}, err
	}
	rollup.LastUpdated = now
	return rollup, nil
}

func summarize(deck models.Deck, cards []models.Card, today time.Time) models.DeckSummary {
	due := 0
	for _, card := range cards {
		if srs.IsDue(card.ReviewState, today) {
			due++
		}
	}
	return models.DeckSummary{
		ID:             deck.ID,
		Title:          deck.Title,
		CardCount:      len(cards),
		Mastery:        srs.DeckMastery(cards),
		DueCount:       due,
		CreatedAt:      deck.CreatedAt,
		LastAccessedAt: deck.LastAccessedAt,
	}
}

func candidateFromGenerated(gc generator.GeneratedCard) models.CandidateCard {
	return models.CandidateCard{
		Question:     gc.Question,
		Answer:       gc.Answer,
		QuestionType: gc.QuestionType,
		Hint:         gc.Hint,
		Options:      gc.Options,
		Tags:         gc.Tags,
	}
}
