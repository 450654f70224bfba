package models

import "time"

type Learner struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// StudyActivityLog records the calendar days (UTC, YYYY-MM-DD) a learner reviewed at least one card.
type StudyActivityLog struct {
	LearnerID     string     `json:"learner_id"`
	StudyDays     []string   `json:"study_days"`
	LastStudyDate *time.Time `json:"last_study_date"`
}
