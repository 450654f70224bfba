package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

type activityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new ActivityRepository implementation
func NewActivityRepository(db *sql.DB) repository.ActivityRepository {
	return &activityRepository{db: db}
}

// LoadActivityLog returns an empty log for a learner who never studied.
func (r *activityRepository) LoadActivityLog(ctx context.Context, learnerID string) (models.StudyActivityLog, error) {
	log := logger.FromContext(ctx).WithPrefix("activity_repo")
	out := models.StudyActivityLog{LearnerID: learnerID, StudyDays: []string{}}

	rows, err := r.db.QueryContext(ctx, `SELECT day FROM study_days WHERE learner_id = ? ORDER BY day`, learnerID)
	if err != nil {
		log.Error("failed to load study days: %v", err)
		return out, err
	}
	defer rows.Close()
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return out, err
		}
		out.StudyDays = append(out.StudyDays, day)
	}
	if err := rows.Err(); err != nil {
		return out, err
	}

	var last sql.NullTime
	err = r.db.QueryRowContext(ctx, `SELECT last_study_date FROM study_activity WHERE learner_id = ?`, learnerID).Scan(&last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to load last study date: %v", err)
		return out, err
	}
	out.LastStudyDate = timePtr(last)
	return out, nil
}

// PersistActivityLog adds any new days and stores the last study date. Days are never removed.
func (r *activityRepository) PersistActivityLog(ctx context.Context, learnerID string, a models.StudyActivityLog) error {
	log := logger.FromContext(ctx).WithPrefix("activity_repo")
	log.Debug("persisting activity log: learner_id=%s, days=%d", learnerID, len(a.StudyDays))

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO study_days (learner_id, day) VALUES (?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, day := range a.StudyDays {
			if _, err := stmt.ExecContext(ctx, learnerID, day); err != nil {
				log.Error("failed to insert study day %s: %v", day, err)
				return err
			}
		}
		_, err = tx.ExecContext(ctx, `
INSERT INTO study_activity (learner_id, last_study_date) VALUES (?, ?)
ON CONFLICT(learner_id) DO UPDATE SET last_study_date = excluded.last_study_date
`, learnerID, nullableTime(a.LastStudyDate))
		return err
	})
}
