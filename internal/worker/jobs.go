package worker

import (
	"context"
	"fmt"

	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
)

// HistoryWriter is the part of the review history repository a job needs.
type HistoryWriter interface {
	Insert(ctx context.Context, entry models.ReviewHistory) (int64, error)
}

// RecordReviewHistoryJob appends one answered card to the review history.
type RecordReviewHistoryJob struct {
	Repo  HistoryWriter
	Entry models.ReviewHistory
}

func (j *RecordReviewHistoryJob) Name() string { return "record_review_history" }

func (j *RecordReviewHistoryJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"card_id":    j.Entry.CardID,
		"learner_id": j.Entry.LearnerID,
	})

	id, err := j.Repo.Insert(ctx, j.Entry)
	if err != nil {
		return fmt.Errorf("insert review history for card %s: %w", j.Entry.CardID, err)
	}
	log.Debug("review history recorded: id=%d, quality=%s", id, j.Entry.Quality)
	return nil
}
