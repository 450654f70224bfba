package review

import (
	"context"
	"fmt"
	"time"

	"github.com/vytor/flashdeck/internal/flashcard"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
)

// DefaultRefreshWindow is how long a loaded due set is reused before Refresh hits storage again.
const DefaultRefreshWindow = 60 * time.Second

// CardSource supplies every card a learner owns, due or not.
type CardSource interface {
	LoadCardsForLearner(ctx context.Context, learnerID string) ([]models.Card, error)
}

// CardStore persists the scheduler's output for an answered card.
type CardStore interface {
	PersistCardUpdate(ctx context.Context, card models.Card) error
}

// ActivityRecorder is told about every successful answer.
type ActivityRecorder interface {
	RecordActivity(ctx context.Context, learnerID string, now time.Time) error
}

type State int

const (
	Empty State = iota
	InProgress
	Finished
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case InProgress:
		return "in_progress"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session is one learner's pass over their due cards.
// It is not safe for concurrent use.
type Session struct {
	learnerID     string
	source        CardSource
	store         CardStore
	recorder      ActivityRecorder
	order         flashcard.OrderPolicy
	now           func() time.Time
	refreshWindow time.Duration

	cards      []models.Card
	cursor     int
	showAnswer bool
	lastFetch  time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithOrder sets the presentation order policy.
func WithOrder(order flashcard.OrderPolicy) Option {
	return func(s *Session) {
		s.order = order
	}
}

// WithRefreshWindow sets the throttle for non-forced refreshes. Zero disables throttling.
func WithRefreshWindow(d time.Duration) Option {
	return func(s *Session) {
		s.refreshWindow = d
	}
}

// WithRecorder attaches the study-activity recorder.
func WithRecorder(r ActivityRecorder) Option {
	return func(s *Session) {
		s.recorder = r
	}
}

func NewSession(learnerID string, source CardSource, store CardStore, opts ...Option) *Session {
	s := &Session{
		learnerID:     learnerID,
		source:        source,
		store:         store,
		now:           time.Now,
		refreshWindow: DefaultRefreshWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.order == nil {
		s.order = flashcard.NewShuffleOrder()
	}
	return s
}

func (s *Session) LearnerID() string { return s.learnerID }

// Load replaces the queue with cards as given, rewinding to the first one.
func (s *Session) Load(cards []models.Card) {
	s.cards = append([]models.Card(nil), cards...)
	s.cursor = 0
	s.showAnswer = false
}

// Refresh reloads the due set from the card source. Unless force is set, a refresh
// within the refresh window of the previous fetch is skipped and reports false.
// On error the session keeps its previous queue.
func (s *Session) Refresh(ctx context.Context, force bool) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("review")
	now := s.now()

	if !force && !s.lastFetch.IsZero() && now.Sub(s.lastFetch) < s.refreshWindow {
		log.Debug("due set fetched %v ago, skipping refresh: learner=%s", now.Sub(s.lastFetch), s.learnerID)
		return false, nil
	}

	cards, err := s.source.LoadCardsForLearner(ctx, s.learnerID)
	if err != nil {
		log.Error("failed to load cards: learner=%s: %v", s.learnerID, err)
		return false, fmt.Errorf("load cards for learner %s: %w", s.learnerID, err)
	}

	due := flashcard.SelectDue(cards, now, s.order)
	s.Load(due)
	s.lastFetch = now
	log.Debug("loaded due set: learner=%s, candidates=%d, due=%d", s.learnerID, len(cards), len(due))
	return true, nil
}

// Reveal shows the current card's answer. It does nothing outside InProgress.
func (s *Session) Reveal() {
	if s.State() != InProgress {
		return
	}
	s.showAnswer = true
}

// Answer grades the current card, persists the new schedule and advances.
//
// With no current card it is a no-op and returns (nil, nil). Answering before
// Reveal fails with ErrInvalidTransition. If the scheduler or the card store
// fails the session does not move, so the same answer can be resubmitted.
func (s *Session) Answer(ctx context.Context, quality models.ResponseQuality) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("review")

	current := s.Current()
	if current == nil {
		log.Debug("answer with no current card ignored: learner=%s", s.learnerID)
		return nil, nil
	}
	if !s.showAnswer {
		return nil, fmt.Errorf("%w: card %s answered before reveal", ErrInvalidTransition, current.ID)
	}

	now := s.now()
	updated, err := flashcard.ApplyReview(*current, quality, now)
	if err != nil {
		return nil, err
	}

	if err := s.store.PersistCardUpdate(ctx, updated); err != nil {
		log.Error("failed to persist card %s: %v", updated.ID, err)
		return nil, fmt.Errorf("persist card %s: %w", updated.ID, err)
	}

	if s.recorder != nil {
		if err := s.recorder.RecordActivity(ctx, s.learnerID, now); err != nil {
			log.Warn("failed to record study activity: learner=%s: %v", s.learnerID, err)
		}
	}

	s.cards[s.cursor] = updated
	s.cursor++
	s.showAnswer = false

	log.Debug("card answered: id=%s, quality=%s, interval=%d, ease=%.2f, progress=%.0f%%",
		updated.ID, quality, updated.Interval, updated.EasinessFactor, s.Progress())
	return &updated, nil
}

// Reset forces a fresh due set and starts over from its first card.
// If the reload fails the session keeps its queue and its position.
func (s *Session) Reset(ctx context.Context) error {
	_, err := s.Refresh(ctx, true)
	return err
}

// Drop removes the current card from the queue without grading it, for cards
// that no longer exist in storage.
func (s *Session) Drop() {
	if s.cursor >= len(s.cards) {
		return
	}
	s.cards = append(s.cards[:s.cursor:s.cursor], s.cards[s.cursor+1:]...)
	s.showAnswer = false
}

func (s *Session) State() State {
	switch {
	case len(s.cards) == 0:
		return Empty
	case s.cursor < len(s.cards):
		return InProgress
	default:
		return Finished
	}
}

// Current returns the card being reviewed, or nil once the queue is exhausted.
func (s *Session) Current() *models.Card {
	if s.cursor >= len(s.cards) {
		return nil
	}
	return &s.cards[s.cursor]
}

// Cards returns a copy of the queue, answered cards carrying their new schedule.
func (s *Session) Cards() []models.Card {
	return append([]models.Card(nil), s.cards...)
}

func (s *Session) Cursor() int          { return s.cursor }
func (s *Session) ShowAnswer() bool     { return s.showAnswer }
func (s *Session) LastFetch() time.Time { return s.lastFetch }
func (s *Session) IsFinished() bool     { return s.State() == Finished }

func (s *Session) Remaining() int {
	return max(len(s.cards)-s.cursor, 0)
}

// Progress is the share of the queue already answered, 0 to 100.
func (s *Session) Progress() float64 {
	if len(s.cards) == 0 {
		return 0
	}
	return float64(s.cursor) / float64(len(s.cards)) * 100
}

// Summary snapshots the session. The current card's answer is blanked until revealed.
func (s *Session) Summary() models.SessionSummary {
	ids := make([]string, len(s.cards))
	for i, c := range s.cards {
		ids[i] = c.ID
	}
	sum := models.SessionSummary{
		LearnerID:  s.learnerID,
		State:      s.State().String(),
		DueCount:   len(s.cards),
		CardIDs:    ids,
		Cursor:     s.cursor,
		Remaining:  s.Remaining(),
		Progress:   s.Progress(),
		ShowAnswer: s.showAnswer,
		LastFetch:  s.lastFetch,
	}
	if cur := s.Current(); cur != nil {
		c := *cur
		if !s.showAnswer {
			c.Answer = ""
		}
		sum.CurrentCard = &c
	}
	return sum
}
