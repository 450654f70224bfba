package models

import "time"

// SchedulingState is the part of a card owned by the scheduler.
type SchedulingState struct {
	EasinessFactor float64    `json:"easiness_factor"`
	Interval       int        `json:"interval"`
	Repetitions    int        `json:"repetitions"`
	NextReviewAt   *time.Time `json:"next_review_at"`
}

type Card struct {
	ID       string `json:"id"`
	DeckID   string `json:"deck_id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	SchedulingState
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Deck struct {
	ID          string    `json:"id"`
	LearnerID   string    `json:"learner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CardCount   int       `json:"card_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DeckSort is the order of a deck listing.
type DeckSort string

const (
	DeckSortRecent       DeckSort = "recent"
	DeckSortAlphabetical DeckSort = "alphabetical"
	DeckSortCardCount    DeckSort = "card_count"
)

func (s DeckSort) IsValid() bool {
	switch s {
	case DeckSortRecent, DeckSortAlphabetical, DeckSortCardCount:
		return true
	}
	return false
}

// DeckFilter narrows deck listings. Name matches case-insensitively anywhere
// in the deck name. An empty Sort means DeckSortRecent.
type DeckFilter struct {
	LearnerID string
	Name      string
	Sort      DeckSort
}

// CardFilter narrows card listings. Zero values mean "no filter".
type CardFilter struct {
	LearnerID string
	DeckID    string
	DueBefore *time.Time
	Limit     int
	Offset    int
}

type ReviewHistory struct {
	ID             int64           `json:"id"`
	CardID         string          `json:"card_id"`
	LearnerID      string          `json:"learner_id"`
	Quality        ResponseQuality `json:"quality"`
	IntervalDays   int             `json:"interval_days"`
	EasinessFactor float64         `json:"easiness_factor"`
	ReviewedAt     time.Time       `json:"reviewed_at"`
}
