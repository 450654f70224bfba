package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/flashcard"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

const (
	defaultCardPageSize    = 50
	maxCardPageSize        = 500
	defaultHistoryPageSize = 50
)

// CardListOptions narrows ListCards.
type CardListOptions struct {
	DueOnly bool
	Limit   int
	Offset  int
}

// CardService handles card-related business logic
type CardService interface {
	CreateCard(ctx context.Context, deckID, question, answer string) (*models.Card, error)
	ListCards(ctx context.Context, deckID string, opts CardListOptions) ([]models.Card, int, error)
	GetCard(ctx context.Context, id string) (*models.Card, error)
	UpdateCard(ctx context.Context, id, question, answer string) (*models.Card, error)
	DeleteCard(ctx context.Context, id string) error
	History(ctx context.Context, cardID string, limit int) ([]models.ReviewHistory, error)
}

type cardService struct {
	cardRepo    repository.CardRepository
	deckRepo    repository.DeckRepository
	historyRepo repository.ReviewHistoryRepository
	now         func() time.Time
}

// NewCardService creates a new CardService
func NewCardService(cardRepo repository.CardRepository, deckRepo repository.DeckRepository, historyRepo repository.ReviewHistoryRepository) CardService {
	return &cardService{cardRepo: cardRepo, deckRepo: deckRepo, historyRepo: historyRepo, now: time.Now}
}

func validateCardContent(question, answer string) error {
	if question == "" {
		return apperrors.NewValidationError("question", "cannot be empty")
	}
	if answer == "" {
		return apperrors.NewValidationError("answer", "cannot be empty")
	}
	return nil
}

func (s *cardService) requireDeck(ctx context.Context, deckID string) error {
	deck, err := s.deckRepo.Get(ctx, deckID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get deck: %v", err)
		return apperrors.NewInternalError(err)
	}
	if deck == nil {
		return apperrors.NewNotFoundError("deck", deckID)
	}
	return nil
}

// CreateCard adds a never-reviewed card: default easiness, no interval, due immediately.
func (s *cardService) CreateCard(ctx context.Context, deckID, question, answer string) (*models.Card, error) {
	log := logger.FromContext(ctx)
	question, answer = strings.TrimSpace(question), strings.TrimSpace(answer)
	log.Debug("creating card: deck_id=%s", deckID)

	if err := validateCardContent(question, answer); err != nil {
		return nil, err
	}
	if err := s.requireDeck(ctx, deckID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	card := models.Card{
		ID:       uuid.New().String(),
		DeckID:   deckID,
		Question: question,
		Answer:   answer,
		SchedulingState: models.SchedulingState{
			EasinessFactor: flashcard.DefaultEasinessFactor,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.cardRepo.Insert(ctx, card); err != nil {
		log.Error("failed to create card: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	return &card, nil
}

// ListCards returns one page of a deck's cards and the total matching count.
func (s *cardService) ListCards(ctx context.Context, deckID string, opts CardListOptions) ([]models.Card, int, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing cards: deck_id=%s, due_only=%t, limit=%d, offset=%d", deckID, opts.DueOnly, opts.Limit, opts.Offset)

	if opts.Limit < 0 || opts.Offset < 0 {
		return nil, 0, apperrors.NewValidationError("limit/offset", "must not be negative")
	}
	if opts.Limit == 0 {
		opts.Limit = defaultCardPageSize
	}
	opts.Limit = min(opts.Limit, maxCardPageSize)

	if err := s.requireDeck(ctx, deckID); err != nil {
		return nil, 0, err
	}

	filter := models.CardFilter{DeckID: deckID, Limit: opts.Limit, Offset: opts.Offset}
	if opts.DueOnly {
		now := s.now()
		filter.DueBefore = &now
	}

	cards, err := s.cardRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, 0, apperrors.NewInternalError(err)
	}
	total, err := s.cardRepo.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count cards: %v", err)
		return nil, 0, apperrors.NewInternalError(err)
	}
	return cards, total, nil
}

func (s *cardService) GetCard(ctx context.Context, id string) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting card: id=%s", id)

	card, err := s.cardRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	if card == nil {
		return nil, apperrors.NewNotFoundError("card", id)
	}
	return card, nil
}

// UpdateCard edits question and answer. The schedule is left alone.
func (s *cardService) UpdateCard(ctx context.Context, id, question, answer string) (*models.Card, error) {
	log := logger.FromContext(ctx)
	question, answer = strings.TrimSpace(question), strings.TrimSpace(answer)
	log.Debug("updating card: id=%s", id)

	if err := validateCardContent(question, answer); err != nil {
		return nil, err
	}

	if err := s.cardRepo.UpdateContent(ctx, id, question, answer, s.now().UTC()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("card", id)
		}
		log.Error("failed to update card: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	return s.GetCard(ctx, id)
}

func (s *cardService) DeleteCard(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting card: id=%s", id)

	if err := s.cardRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFoundError("card", id)
		}
		log.Error("failed to delete card: %v", err)
		return apperrors.NewInternalError(err)
	}
	return nil
}

func (s *cardService) History(ctx context.Context, cardID string, limit int) ([]models.ReviewHistory, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing review history: card_id=%s, limit=%d", cardID, limit)

	if _, err := s.GetCard(ctx, cardID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryPageSize
	}
	entries, err := s.historyRepo.ListForCard(ctx, cardID, limit)
	if err != nil {
		log.Error("failed to list review history: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	return entries, nil
}
