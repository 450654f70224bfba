package flashcard_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/flashcard"
	"github.com/vytor/flashdeck/internal/models"
)

var reviewTime = time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)

var allQualities = []models.ResponseQuality{
	models.Incorrect, models.Hard, models.Difficult, models.Easy, models.Good, models.Perfect,
}

func TestComputeNextState_GoodOnMatureCard(t *testing.T) {
	state := models.SchedulingState{EasinessFactor: 2.5, Interval: 6, Repetitions: 2}

	next, err := flashcard.ComputeNextState(state, models.Good, reviewTime)

	require.NoError(t, err)
	assert.Equal(t, 3, next.Repetitions)
	assert.Equal(t, 15, next.Interval)
	assert.InDelta(t, 2.5, next.EasinessFactor, 1e-9)
	require.NotNil(t, next.NextReviewAt)
	assert.Equal(t, time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC), *next.NextReviewAt)
}

func TestComputeNextState_IncorrectOnFreshCard(t *testing.T) {
	state := models.SchedulingState{EasinessFactor: 2.5}

	next, err := flashcard.ComputeNextState(state, models.Incorrect, reviewTime)

	require.NoError(t, err)
	assert.Equal(t, 0, next.Repetitions)
	assert.Equal(t, 1, next.Interval)
	assert.InDelta(t, 1.7, next.EasinessFactor, 1e-9)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), *next.NextReviewAt)
}

func TestComputeNextState_DefaultsWhenAbsent(t *testing.T) {
	next, err := flashcard.ComputeNextState(models.SchedulingState{}, models.Perfect, reviewTime)

	require.NoError(t, err)
	assert.Equal(t, 1, next.Repetitions)
	assert.Equal(t, 1, next.Interval)
	// 2.5 + 0.1 is clamped back to the ceiling.
	assert.Equal(t, flashcard.MaxEasinessFactor, next.EasinessFactor)
}

func TestComputeNextState_LapseResetsRegardlessOfHistory(t *testing.T) {
	priors := []models.SchedulingState{
		{EasinessFactor: 2.5, Interval: 0, Repetitions: 0},
		{EasinessFactor: 1.3, Interval: 1, Repetitions: 1},
		{EasinessFactor: 2.1, Interval: 40, Repetitions: 7},
		{EasinessFactor: 2.5, Interval: 365, Repetitions: 20},
	}
	for _, prior := range priors {
		for _, q := range []models.ResponseQuality{models.Incorrect, models.Hard, models.Difficult} {
			next, err := flashcard.ComputeNextState(prior, q, reviewTime)
			require.NoError(t, err)
			assert.Equal(t, 0, next.Repetitions, "quality %s prior %+v", q, prior)
			assert.Equal(t, 1, next.Interval, "quality %s prior %+v", q, prior)
		}
	}
}

func TestComputeNextState_IntervalProgression(t *testing.T) {
	tests := []struct {
		name         string
		prior        models.SchedulingState
		quality      models.ResponseQuality
		wantInterval int
		wantReps     int
	}{
		{
			name:         "first success is one day",
			prior:        models.SchedulingState{EasinessFactor: 2.5, Interval: 0, Repetitions: 0},
			quality:      models.Easy,
			wantInterval: 1,
			wantReps:     1,
		},
		{
			name:         "second success is six days",
			prior:        models.SchedulingState{EasinessFactor: 2.5, Interval: 1, Repetitions: 1},
			quality:      models.Good,
			wantInterval: 6,
			wantReps:     2,
		},
		{
			name:         "third success multiplies by prior easiness",
			prior:        models.SchedulingState{EasinessFactor: 2.5, Interval: 6, Repetitions: 2},
			quality:      models.Easy,
			wantInterval: 15,
			wantReps:     3,
		},
		{
			name:         "rounds half up",
			prior:        models.SchedulingState{EasinessFactor: 1.5, Interval: 5, Repetitions: 4},
			quality:      models.Perfect,
			wantInterval: 8, // 7.5
			wantReps:     5,
		},
		{
			name:         "rounds down below half",
			prior:        models.SchedulingState{EasinessFactor: 1.3, Interval: 10, Repetitions: 3},
			quality:      models.Good,
			wantInterval: 13,
			wantReps:     4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := flashcard.ComputeNextState(tt.prior, tt.quality, reviewTime)
			require.NoError(t, err)
			assert.Equal(t, tt.wantInterval, next.Interval)
			assert.Equal(t, tt.wantReps, next.Repetitions)
		})
	}
}

func TestComputeNextState_EasinessStaysInBounds(t *testing.T) {
	for _, ef := range []float64{0, 1.3, 1.31, 1.8, 2.2, 2.5} {
		for _, reps := range []int{0, 1, 2, 5} {
			for _, q := range allQualities {
				prior := models.SchedulingState{EasinessFactor: ef, Interval: 10, Repetitions: reps}
				next, err := flashcard.ComputeNextState(prior, q, reviewTime)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, next.EasinessFactor, flashcard.MinEasinessFactor)
				assert.LessOrEqual(t, next.EasinessFactor, flashcard.MaxEasinessFactor)
				if next.Repetitions >= 1 {
					assert.GreaterOrEqual(t, next.Interval, 1)
				}
			}
		}
	}
}

func TestComputeNextState_RepeatedLapsesFloorAtMinimum(t *testing.T) {
	state := models.SchedulingState{EasinessFactor: 2.5, Interval: 10, Repetitions: 3}
	for i := 0; i < 10; i++ {
		var err error
		state, err = flashcard.ComputeNextState(state, models.Incorrect, reviewTime)
		require.NoError(t, err)
	}
	assert.Equal(t, flashcard.MinEasinessFactor, state.EasinessFactor)
}

func TestComputeNextState_Deterministic(t *testing.T) {
	prior := models.SchedulingState{EasinessFactor: 2.2, Interval: 9, Repetitions: 4}
	for _, q := range allQualities {
		a, err := flashcard.ComputeNextState(prior, q, reviewTime)
		require.NoError(t, err)
		b, err := flashcard.ComputeNextState(prior, q, reviewTime)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestComputeNextState_InvalidQuality(t *testing.T) {
	prior := models.SchedulingState{EasinessFactor: 2.5, Interval: 6, Repetitions: 2}
	for _, q := range []models.ResponseQuality{-1, 6, 42} {
		next, err := flashcard.ComputeNextState(prior, q, reviewTime)
		assert.ErrorIs(t, err, flashcard.ErrInvalidQuality)
		assert.Equal(t, prior, next, "state must be returned untouched")
	}
}

func TestComputeNextState_MidnightUsesUTCDate(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	// 22:00 local on the 10th is 03:00 UTC on the 11th.
	now := time.Date(2024, 3, 10, 22, 0, 0, 0, loc)

	next, err := flashcard.ComputeNextState(models.SchedulingState{}, models.Good, now)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), *next.NextReviewAt)
}

func TestApplyReview_KeepsIdentity(t *testing.T) {
	card := models.Card{
		ID:       "card-1",
		DeckID:   "deck-1",
		Question: "capital of France?",
		Answer:   "Paris",
		SchedulingState: models.SchedulingState{
			EasinessFactor: 2.5,
			Interval:       1,
			Repetitions:    1,
		},
		CreatedAt: reviewTime.Add(-48 * time.Hour),
	}

	updated, err := flashcard.ApplyReview(card, models.Good, reviewTime)

	require.NoError(t, err)
	assert.Equal(t, card.ID, updated.ID)
	assert.Equal(t, card.DeckID, updated.DeckID)
	assert.Equal(t, card.CreatedAt, updated.CreatedAt)
	assert.Equal(t, reviewTime, updated.UpdatedAt)
	assert.Equal(t, 6, updated.Interval)
	assert.Equal(t, 2, updated.Repetitions)
}

func TestApplyReview_InvalidQualityLeavesCard(t *testing.T) {
	card := models.Card{ID: "card-1"}
	updated, err := flashcard.ApplyReview(card, 7, reviewTime)
	assert.ErrorIs(t, err, flashcard.ErrInvalidQuality)
	assert.Equal(t, card, updated)
}
