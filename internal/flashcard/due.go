package flashcard

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/vytor/flashdeck/internal/models"
)

// OrderPolicy decides the presentation order of a due set. Order sorts in place.
type OrderPolicy interface {
	Order(cards []models.Card)
}

// ShuffleOrder is a Fisher-Yates shuffle over its own source. Safe for concurrent use.
type ShuffleOrder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewShuffleOrder returns a shuffle seeded from the runtime's random source.
func NewShuffleOrder() *ShuffleOrder {
	return &ShuffleOrder{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededShuffleOrder returns a reproducible shuffle, mostly for tests.
func NewSeededShuffleOrder(seed uint64) *ShuffleOrder {
	return &ShuffleOrder{rng: rand.New(rand.NewPCG(seed, seed))}
}

func (s *ShuffleOrder) Order(cards []models.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(cards) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// KeepOrder leaves cards as the caller supplied them.
type KeepOrder struct{}

func (KeepOrder) Order([]models.Card) {}

// IsDue reports whether card should be reviewed at now. Never-scheduled cards are always due.
func IsDue(card models.Card, now time.Time) bool {
	return card.NextReviewAt == nil || !card.NextReviewAt.After(now)
}

// SelectDue returns the due subset of cards in the order chosen by order.
// The input slice is not modified. A nil order falls back to a fresh shuffle.
func SelectDue(cards []models.Card, now time.Time, order OrderPolicy) []models.Card {
	due := make([]models.Card, 0, len(cards))
	for _, c := range cards {
		if IsDue(c, now) {
			due = append(due, c)
		}
	}
	if order == nil {
		order = NewShuffleOrder()
	}
	order.Order(due)
	return due
}

func CountDue(cards []models.Card, now time.Time) int {
	n := 0
	for _, c := range cards {
		if IsDue(c, now) {
			n++
		}
	}
	return n
}
