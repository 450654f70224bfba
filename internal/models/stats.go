package models

import "time"

type StudyStats struct {
	TotalDecks     int        `json:"total_decks"`
	TotalCards     int        `json:"total_cards"`
	CardsDue       int        `json:"cards_due"`
	NewCards       int        `json:"new_cards"`
	ReviewingCards int        `json:"reviewing_cards"`
	LearnedCards   int        `json:"learned_cards"`
	StudyDays      int        `json:"study_days"`
	LastStudyDate  *time.Time `json:"last_study_date"`
	CurrentStreak  int        `json:"current_streak"`
}

// SessionSummary is a snapshot of a learner's review session.
type SessionSummary struct {
	LearnerID   string    `json:"learner_id"`
	State       string    `json:"state"`
	DueCount    int       `json:"due_count"`
	CardIDs     []string  `json:"card_ids"`
	Cursor      int       `json:"cursor"`
	Remaining   int       `json:"remaining"`
	Progress    float64   `json:"progress"`
	ShowAnswer  bool      `json:"show_answer"`
	CurrentCard *Card     `json:"current_card,omitempty"`
	LastFetch   time.Time `json:"last_fetch"`
}
