package flashcard_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/flashcard"
	"github.com/vytor/flashdeck/internal/models"
)

func at(t time.Time) *time.Time { return &t }

func dueFixture(now time.Time) []models.Card {
	return []models.Card{
		{ID: "never-reviewed"},
		{ID: "past", SchedulingState: models.SchedulingState{NextReviewAt: at(now.Add(-72 * time.Hour))}},
		{ID: "exactly-now", SchedulingState: models.SchedulingState{NextReviewAt: at(now)}},
		{ID: "tomorrow", SchedulingState: models.SchedulingState{NextReviewAt: at(now.Add(24 * time.Hour))}},
		{ID: "one-ns-later", SchedulingState: models.SchedulingState{NextReviewAt: at(now.Add(time.Nanosecond))}},
	}
}

func ids(cards []models.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func TestIsDue(t *testing.T) {
	now := reviewTime
	want := map[string]bool{
		"never-reviewed": true,
		"past":           true,
		"exactly-now":    true,
		"tomorrow":       false,
		"one-ns-later":   false,
	}
	for _, c := range dueFixture(now) {
		assert.Equal(t, want[c.ID], flashcard.IsDue(c, now), c.ID)
	}
}

func TestSelectDue_Membership(t *testing.T) {
	now := reviewTime
	cards := dueFixture(now)
	order := flashcard.NewShuffleOrder()

	for i := 0; i < 20; i++ {
		due := flashcard.SelectDue(cards, now, order)
		assert.ElementsMatch(t, []string{"never-reviewed", "past", "exactly-now"}, ids(due))
	}
}

func TestSelectDue_DoesNotMutateInput(t *testing.T) {
	now := reviewTime
	cards := dueFixture(now)
	before := ids(cards)

	_ = flashcard.SelectDue(cards, now, flashcard.NewSeededShuffleOrder(7))

	assert.Equal(t, before, ids(cards))
}

func TestSelectDue_KeepOrder(t *testing.T) {
	now := reviewTime
	due := flashcard.SelectDue(dueFixture(now), now, flashcard.KeepOrder{})
	assert.Equal(t, []string{"never-reviewed", "past", "exactly-now"}, ids(due))
}

func TestSelectDue_NilOrderStillFilters(t *testing.T) {
	now := reviewTime
	due := flashcard.SelectDue(dueFixture(now), now, nil)
	assert.Len(t, due, 3)
}

func TestSelectDue_Empty(t *testing.T) {
	due := flashcard.SelectDue(nil, reviewTime, flashcard.KeepOrder{})
	assert.NotNil(t, due)
	assert.Empty(t, due)
}

func TestShuffleOrder_SeededIsReproducible(t *testing.T) {
	cards := make([]models.Card, 30)
	for i := range cards {
		cards[i] = models.Card{ID: fmt.Sprintf("c%02d", i)}
	}

	a := flashcard.SelectDue(cards, reviewTime, flashcard.NewSeededShuffleOrder(42))
	b := flashcard.SelectDue(cards, reviewTime, flashcard.NewSeededShuffleOrder(42))

	assert.Equal(t, ids(a), ids(b))
	assert.ElementsMatch(t, ids(cards), ids(a))
}

func TestShuffleOrder_ProducesDifferentOrders(t *testing.T) {
	cards := make([]models.Card, 30)
	for i := range cards {
		cards[i] = models.Card{ID: fmt.Sprintf("c%02d", i)}
	}
	order := flashcard.NewSeededShuffleOrder(1)

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		seen[fmt.Sprint(ids(flashcard.SelectDue(cards, reviewTime, order)))] = true
	}
	// 30! orderings; ten draws colliding down to one would mean no shuffling at all.
	require.Greater(t, len(seen), 1)
}

func TestCountDue(t *testing.T) {
	now := reviewTime
	assert.Equal(t, 3, flashcard.CountDue(dueFixture(now), now))
	assert.Equal(t, 5, flashcard.CountDue(dueFixture(now), now.Add(48*time.Hour)))
	assert.Equal(t, 0, flashcard.CountDue(nil, now))
}
