package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

// DeckService handles deck-related business logic
type DeckService interface {
	CreateDeck(ctx context.Context, learnerID, name, description string) (*models.Deck, error)
	ListDecks(ctx context.Context, learnerID string, opts DeckListOptions) ([]models.Deck, error)
	GetDeck(ctx context.Context, id string) (*models.Deck, error)
	UpdateDeck(ctx context.Context, id, name, description string) (*models.Deck, error)
	DeleteDeck(ctx context.Context, id string) error
}

// DeckListOptions sorts and filters a learner's decks. Query matches deck
// names case-insensitively; an empty Sort lists the most recently updated first.
type DeckListOptions struct {
	Query string
	Sort  models.DeckSort
}

type deckService struct {
	deckRepo    repository.DeckRepository
	learnerRepo repository.LearnerRepository
	now         func() time.Time
}

// NewDeckService creates a new DeckService
func NewDeckService(deckRepo repository.DeckRepository, learnerRepo repository.LearnerRepository) DeckService {
	return &deckService{deckRepo: deckRepo, learnerRepo: learnerRepo, now: time.Now}
}

func (s *deckService) CreateDeck(ctx context.Context, learnerID, name, description string) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	name = strings.TrimSpace(name)
	log.Debug("creating deck: learner_id=%s, name=%s", learnerID, name)

	if name == "" {
		return nil, apperrors.NewValidationError("name", "cannot be empty")
	}
	if err := requireLearner(ctx, s.learnerRepo, learnerID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	deck := models.Deck{
		ID:          uuid.New().String(),
		LearnerID:   learnerID,
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.deckRepo.Insert(ctx, deck); err != nil {
		log.Error("failed to create deck: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	return &deck, nil
}

func (s *deckService) ListDecks(ctx context.Context, learnerID string, opts DeckListOptions) ([]models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing decks: learner_id=%s, query=%q, sort=%s", learnerID, opts.Query, opts.Sort)

	if opts.Sort == "" {
		opts.Sort = models.DeckSortRecent
	}
	if !opts.Sort.IsValid() {
		return nil, apperrors.NewValidationError("sort", "must be one of recent, alphabetical, card_count")
	}
	if err := requireLearner(ctx, s.learnerRepo, learnerID); err != nil {
		return nil, err
	}
	decks, err := s.deckRepo.List(ctx, models.DeckFilter{
		LearnerID: learnerID,
		Name:      strings.TrimSpace(opts.Query),
		Sort:      opts.Sort,
	})
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	return decks, nil
}

func (s *deckService) GetDeck(ctx context.Context, id string) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting deck: id=%s", id)

	deck, err := s.deckRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	if deck == nil {
		return nil, apperrors.NewNotFoundError("deck", id)
	}
	return deck, nil
}

func (s *deckService) UpdateDeck(ctx context.Context, id, name, description string) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating deck: id=%s", id)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name", "cannot be empty")
	}

	deck, err := s.GetDeck(ctx, id)
	if err != nil {
		return nil, err
	}
	deck.Name = name
	deck.Description = strings.TrimSpace(description)
	deck.UpdatedAt = s.now().UTC()

	if err := s.deckRepo.Update(ctx, *deck); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("deck", id)
		}
		log.Error("failed to update deck: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	return deck, nil
}

func (s *deckService) DeleteDeck(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting deck: id=%s", id)

	if err := s.deckRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFoundError("deck", id)
		}
		log.Error("failed to delete deck: %v", err)
		return apperrors.NewInternalError(err)
	}
	return nil
}

func requireLearner(ctx context.Context, repo repository.LearnerRepository, learnerID string) error {
	if strings.TrimSpace(learnerID) == "" {
		return apperrors.NewValidationError("learner_id", "cannot be empty")
	}
	learner, err := repo.Get(ctx, learnerID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get learner: %v", err)
		return apperrors.NewInternalError(err)
	}
	if learner == nil {
		return apperrors.NewNotFoundError("learner", learnerID)
	}
	return nil
}
