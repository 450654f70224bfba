package repository

import (
	"context"
	"time"

	"github.com/vytor/flashdeck/internal/models"
)

// Lookups return (nil, nil) when the row does not exist.

// LearnerRepository handles learner data access
type LearnerRepository interface {
	Insert(ctx context.Context, learner models.Learner) error
	Get(ctx context.Context, id string) (*models.Learner, error)
	List(ctx context.Context) ([]models.Learner, error)
	Update(ctx context.Context, learner models.Learner) error
	Delete(ctx context.Context, id string) error
}

// DeckRepository handles deck data access. Decks it returns carry their card count.
type DeckRepository interface {
	Insert(ctx context.Context, deck models.Deck) error
	Get(ctx context.Context, id string) (*models.Deck, error)
	List(ctx context.Context, filter models.DeckFilter) ([]models.Deck, error)
	CountForLearner(ctx context.Context, learnerID string) (int, error)
	Update(ctx context.Context, deck models.Deck) error
	Delete(ctx context.Context, id string) error
}

// CardRepository handles card data access. It is also the card source and
// card store of a review session.
type CardRepository interface {
	Insert(ctx context.Context, card models.Card) error
	Get(ctx context.Context, id string) (*models.Card, error)
	List(ctx context.Context, filter models.CardFilter) ([]models.Card, error)
	Count(ctx context.Context, filter models.CardFilter) (int, error)
	UpdateContent(ctx context.Context, id, question, answer string, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	LoadCardsForLearner(ctx context.Context, learnerID string) ([]models.Card, error)
	PersistCardUpdate(ctx context.Context, card models.Card) error
}

// ActivityRepository stores per-learner study activity logs
type ActivityRepository interface {
	LoadActivityLog(ctx context.Context, learnerID string) (models.StudyActivityLog, error)
	PersistActivityLog(ctx context.Context, learnerID string, log models.StudyActivityLog) error
}

// ReviewHistoryRepository stores one row per answered card
type ReviewHistoryRepository interface {
	Insert(ctx context.Context, entry models.ReviewHistory) (int64, error)
	ListForCard(ctx context.Context, cardID string, limit int) ([]models.ReviewHistory, error)
}
