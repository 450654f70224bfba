package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/flashcard"
	"github.com/vytor/flashdeck/internal/jobs"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/review"
)

// ReviewService runs one review session per learner
type ReviewService interface {
	Due(ctx context.Context, learnerID string, refresh bool) (models.SessionSummary, error)
	Reveal(ctx context.Context, learnerID string) (models.SessionSummary, error)
	Answer(ctx context.Context, learnerID, cardID string, quality models.ResponseQuality) (*models.Card, models.SessionSummary, error)
	Reset(ctx context.Context, learnerID string) (models.SessionSummary, error)
	Summary(ctx context.Context, learnerID string) (models.SessionSummary, error)
}

// ReviewOption configures a ReviewService.
type ReviewOption func(*reviewService)

// WithReviewClock replaces time.Now for every session the service creates.
func WithReviewClock(now func() time.Time) ReviewOption {
	return func(s *reviewService) { s.now = now }
}

func WithReviewRefreshWindow(d time.Duration) ReviewOption {
	return func(s *reviewService) { s.refreshWindow = d }
}

// WithReviewOrder sets the order policy shared by all sessions.
func WithReviewOrder(order flashcard.OrderPolicy) ReviewOption {
	return func(s *reviewService) { s.order = order }
}

type sessionEntry struct {
	mu      sync.Mutex
	session *review.Session
}

type reviewService struct {
	cardRepo    repository.CardRepository
	learnerRepo repository.LearnerRepository
	recorder    review.ActivityRecorder
	queue       jobs.JobQueue

	now           func() time.Time
	refreshWindow time.Duration
	order         flashcard.OrderPolicy

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// NewReviewService creates a new ReviewService. recorder and queue may be nil.
func NewReviewService(
	cardRepo repository.CardRepository,
	learnerRepo repository.LearnerRepository,
	recorder review.ActivityRecorder,
	queue jobs.JobQueue,
	opts ...ReviewOption,
) ReviewService {
	s := &reviewService{
		cardRepo:      cardRepo,
		learnerRepo:   learnerRepo,
		recorder:      recorder,
		queue:         queue,
		now:           time.Now,
		refreshWindow: review.DefaultRefreshWindow,
		sessions:      make(map[string]*sessionEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.order == nil {
		s.order = flashcard.NewShuffleOrder()
	}
	return s
}

// lock returns learnerID's session entry locked. The caller must unlock it.
func (s *reviewService) lock(ctx context.Context, learnerID string) (*sessionEntry, error) {
	s.mu.Lock()
	entry, ok := s.sessions[learnerID]
	s.mu.Unlock()

	if !ok {
		if err := requireLearner(ctx, s.learnerRepo, learnerID); err != nil {
			return nil, err
		}
		opts := []review.Option{
			review.WithClock(s.now),
			review.WithOrder(s.order),
			review.WithRefreshWindow(s.refreshWindow),
		}
		if s.recorder != nil {
			opts = append(opts, review.WithRecorder(s.recorder))
		}

		s.mu.Lock()
		// Another request may have created it while the learner was looked up.
		if entry, ok = s.sessions[learnerID]; !ok {
			entry = &sessionEntry{session: review.NewSession(learnerID, s.cardRepo, s.cardRepo, opts...)}
			s.sessions[learnerID] = entry
			logger.FromContext(ctx).WithPrefix("review_service").Debug("session created: learner=%s", learnerID)
		}
		s.mu.Unlock()
	}

	entry.mu.Lock()
	return entry, nil
}

func (s *reviewService) Due(ctx context.Context, learnerID string, refresh bool) (models.SessionSummary, error) {
	log := logger.FromContext(ctx).WithPrefix("review_service")
	log.Debug("due set requested: learner=%s, refresh=%t", learnerID, refresh)

	entry, err := s.lock(ctx, learnerID)
	if err != nil {
		return models.SessionSummary{}, err
	}
	defer entry.mu.Unlock()

	if _, err := entry.session.Refresh(ctx, refresh); err != nil {
		return models.SessionSummary{}, apperrors.NewStorageError(err)
	}
	return entry.session.Summary(), nil
}

func (s *reviewService) Reveal(ctx context.Context, learnerID string) (models.SessionSummary, error) {
	entry, err := s.lock(ctx, learnerID)
	if err != nil {
		return models.SessionSummary{}, err
	}
	defer entry.mu.Unlock()

	entry.session.Reveal()
	return entry.session.Summary(), nil
}

// Answer grades the current card. cardID, when set, must name that card.
func (s *reviewService) Answer(ctx context.Context, learnerID, cardID string, quality models.ResponseQuality) (*models.Card, models.SessionSummary, error) {
	log := logger.FromContext(ctx).WithPrefix("review_service")
	log.Debug("answer submitted: learner=%s, card_id=%s, quality=%s", learnerID, cardID, quality)

	if !quality.IsValid() {
		return nil, models.SessionSummary{}, apperrors.NewInvalidQualityError(flashcard.ErrInvalidQuality)
	}

	entry, err := s.lock(ctx, learnerID)
	if err != nil {
		return nil, models.SessionSummary{}, err
	}
	defer entry.mu.Unlock()
	sess := entry.session

	current := sess.Current()
	if current == nil {
		return nil, sess.Summary(), apperrors.NewNoCurrentCardError(learnerID)
	}
	if cardID != "" && cardID != current.ID {
		msg := fmt.Sprintf("card %s is not the current card", cardID)
		return nil, sess.Summary(), apperrors.NewInvalidTransitionError(msg, review.ErrInvalidTransition)
	}

	currentID := current.ID
	updated, err := sess.Answer(ctx, quality)
	switch {
	case errors.Is(err, review.ErrInvalidTransition):
		return nil, sess.Summary(), apperrors.NewInvalidTransitionError("answer must be revealed before grading", err)
	case errors.Is(err, flashcard.ErrInvalidQuality):
		return nil, sess.Summary(), apperrors.NewInvalidQualityError(err)
	case errors.Is(err, repository.ErrNotFound):
		log.Warn("card deleted during session, dropping it: learner=%s, card_id=%s", learnerID, currentID)
		sess.Drop()
		return nil, sess.Summary(), apperrors.NewNotFoundError("card", currentID)
	case err != nil:
		return nil, sess.Summary(), apperrors.NewStorageError(err)
	case updated == nil:
		return nil, sess.Summary(), apperrors.NewNoCurrentCardError(learnerID)
	}

	s.enqueueHistory(ctx, learnerID, quality, *updated)
	return updated, sess.Summary(), nil
}

func (s *reviewService) enqueueHistory(ctx context.Context, learnerID string, quality models.ResponseQuality, card models.Card) {
	if s.queue == nil {
		return
	}
	entry := models.ReviewHistory{
		CardID:         card.ID,
		LearnerID:      learnerID,
		Quality:        quality,
		IntervalDays:   card.Interval,
		EasinessFactor: card.EasinessFactor,
		ReviewedAt:     card.UpdatedAt,
	}
	if err := s.queue.EnqueueReviewHistory(entry); err != nil {
		logger.FromContext(ctx).WithPrefix("review_service").Warn("review history not recorded: card_id=%s: %v", card.ID, err)
	}
}

func (s *reviewService) Reset(ctx context.Context, learnerID string) (models.SessionSummary, error) {
	log := logger.FromContext(ctx).WithPrefix("review_service")
	log.Debug("session reset: learner=%s", learnerID)

	entry, err := s.lock(ctx, learnerID)
	if err != nil {
		return models.SessionSummary{}, err
	}
	defer entry.mu.Unlock()

	if err := entry.session.Reset(ctx); err != nil {
		return models.SessionSummary{}, apperrors.NewStorageError(err)
	}
	return entry.session.Summary(), nil
}

func (s *reviewService) Summary(ctx context.Context, learnerID string) (models.SessionSummary, error) {
	entry, err := s.lock(ctx, learnerID)
	if err != nil {
		return models.SessionSummary{}, err
	}
	defer entry.mu.Unlock()
	return entry.session.Summary(), nil
}
