package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vytor/flashdeck/internal/activity"
	apperrors "github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/flashcard"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

// A card with at least this many successful repetitions counts as learned.
const learnedRepetitions = 3

// StatsService handles statistics-related business logic
type StatsService interface {
	Summary(ctx context.Context, learnerID string, now time.Time) (*models.StudyStats, error)
}

type statsService struct {
	learnerRepo  repository.LearnerRepository
	deckRepo     repository.DeckRepository
	cardRepo     repository.CardRepository
	activityRepo repository.ActivityRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(
	learnerRepo repository.LearnerRepository,
	deckRepo repository.DeckRepository,
	cardRepo repository.CardRepository,
	activityRepo repository.ActivityRepository,
) StatsService {
	return &statsService{
		learnerRepo:  learnerRepo,
		deckRepo:     deckRepo,
		cardRepo:     cardRepo,
		activityRepo: activityRepo,
	}
}

func (s *statsService) Summary(ctx context.Context, learnerID string, now time.Time) (*models.StudyStats, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting study stats: learner_id=%s", learnerID)

	if err := requireLearner(ctx, s.learnerRepo, learnerID); err != nil {
		return nil, err
	}

	var (
		decks int
		cards []models.Card
		days  models.StudyActivityLog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		decks, err = s.deckRepo.CountForLearner(gctx, learnerID)
		return err
	})
	g.Go(func() error {
		var err error
		cards, err = s.cardRepo.LoadCardsForLearner(gctx, learnerID)
		return err
	})
	g.Go(func() error {
		var err error
		days, err = s.activityRepo.LoadActivityLog(gctx, learnerID)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("failed to load study stats: %v", err)
		return nil, apperrors.NewInternalError(err)
	}

	stats := &models.StudyStats{
		TotalDecks:    decks,
		TotalCards:    len(cards),
		CardsDue:      flashcard.CountDue(cards, now),
		StudyDays:     len(days.StudyDays),
		LastStudyDate: days.LastStudyDate,
		CurrentStreak: activity.CurrentStreak(days, now),
	}
	for _, c := range cards {
		switch {
		case c.Repetitions == 0:
			stats.NewCards++
		case c.Repetitions < learnedRepetitions:
			stats.ReviewingCards++
		default:
			stats.LearnedCards++
		}
	}
	return stats, nil
}
