package sqlite

import (
	"context"
	"database/sql"

	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

type reviewHistoryRepository struct {
	db *sql.DB
}

// NewReviewHistoryRepository creates a new ReviewHistoryRepository implementation
func NewReviewHistoryRepository(db *sql.DB) repository.ReviewHistoryRepository {
	return &reviewHistoryRepository{db: db}
}

func (r *reviewHistoryRepository) Insert(ctx context.Context, e models.ReviewHistory) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("inserting review history: card_id=%s, quality=%d", e.CardID, e.Quality)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO review_history (card_id, learner_id, quality, interval_days, easiness_factor, reviewed_at)
VALUES (?, ?, ?, ?, ?, ?)
`, e.CardID, e.LearnerID, int(e.Quality), e.IntervalDays, e.EasinessFactor, utc(e.ReviewedAt))
	if err != nil {
		log.Error("failed to insert review history: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *reviewHistoryRepository) ListForCard(ctx context.Context, cardID string, limit int) ([]models.ReviewHistory, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, card_id, learner_id, quality, interval_days, easiness_factor, reviewed_at
FROM review_history
WHERE card_id = ?
ORDER BY reviewed_at DESC, id DESC
LIMIT ?
`, cardID, limit)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("history_repo").Error("failed to list review history: %v", err)
		return nil, err
	}
	defer rows.Close()

	out := []models.ReviewHistory{}
	for rows.Next() {
		var e models.ReviewHistory
		var quality int
		if err := rows.Scan(&e.ID, &e.CardID, &e.LearnerID, &quality, &e.IntervalDays, &e.EasinessFactor, &e.ReviewedAt); err != nil {
			return nil, err
		}
		e.Quality = models.ResponseQuality(quality)
		e.ReviewedAt = e.ReviewedAt.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
