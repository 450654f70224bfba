package flashcard

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/vytor/flashdeck/internal/models"
)

const (
	MinEasinessFactor     = 1.3
	MaxEasinessFactor     = 2.5
	DefaultEasinessFactor = 2.5
	InitialInterval       = 1
	SecondInterval        = 6
)

// ErrInvalidQuality is returned when a grade falls outside INCORRECT..PERFECT.
var ErrInvalidQuality = errors.New("flashcard: invalid response quality")

// ComputeNextState applies one SM-2 review to state.
// Answers below EASY count as a lapse: repetitions reset and the card comes back tomorrow.
// Due dates are midnight UTC, interval days after now's UTC date.
func ComputeNextState(state models.SchedulingState, quality models.ResponseQuality, now time.Time) (models.SchedulingState, error) {
	if !quality.IsValid() {
		return state, fmt.Errorf("%w: %d", ErrInvalidQuality, int(quality))
	}

	ef := state.EasinessFactor
	if ef == 0 {
		ef = DefaultEasinessFactor
	}
	interval := max(state.Interval, 0)
	repetitions := max(state.Repetitions, 0)

	if quality < models.Easy {
		repetitions = 0
		interval = InitialInterval
	} else {
		repetitions++
		switch repetitions {
		case 1:
			interval = InitialInterval
		case 2:
			interval = SecondInterval
		default:
			interval = int(math.Round(float64(interval) * ef))
		}
	}

	q := float64(5 - quality)
	ef = ef + (0.1 - q*(0.08+q*0.02))
	ef = math.Max(MinEasinessFactor, math.Min(MaxEasinessFactor, ef))

	next := Midnight(now).AddDate(0, 0, interval)
	return models.SchedulingState{
		EasinessFactor: ef,
		Interval:       interval,
		Repetitions:    repetitions,
		NextReviewAt:   &next,
	}, nil
}

// ApplyReview schedules card for quality and stamps UpdatedAt.
func ApplyReview(card models.Card, quality models.ResponseQuality, now time.Time) (models.Card, error) {
	next, err := ComputeNextState(card.SchedulingState, quality, now)
	if err != nil {
		return card, err
	}
	card.SchedulingState = next
	card.UpdatedAt = now
	return card, nil
}

// Midnight returns 00:00 UTC of t's UTC calendar date.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
