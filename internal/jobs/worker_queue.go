package jobs

import (
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/worker"
)

// WorkerQueue implements JobQueue using worker pools
type WorkerQueue struct {
	historyPool *worker.Pool
	historyRepo repository.ReviewHistoryRepository
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(historyPool *worker.Pool, historyRepo repository.ReviewHistoryRepository) JobQueue {
	return &WorkerQueue{
		historyPool: historyPool,
		historyRepo: historyRepo,
	}
}

func (q *WorkerQueue) EnqueueReviewHistory(entry models.ReviewHistory) error {
	err := q.historyPool.Submit(&worker.RecordReviewHistoryJob{
		Repo:  q.historyRepo,
		Entry: entry,
	})
	if err != nil {
		logger.Default().WithPrefix("jobs").Warn("failed to enqueue review history: card_id=%s: %v", entry.CardID, err)
	}
	return err
}
