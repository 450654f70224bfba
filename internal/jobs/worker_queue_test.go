package jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vytor/flashdeck/internal/jobs"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/testutil/mocks"
	"github.com/vytor/flashdeck/internal/worker"
)

func TestWorkerQueue_EnqueueReviewHistory(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := new(mocks.MockReviewHistoryRepository)
	entry := models.ReviewHistory{
		CardID:         "c1",
		LearnerID:      "l1",
		Quality:        models.Easy,
		IntervalDays:   6,
		EasinessFactor: 2.36,
		ReviewedAt:     time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	repo.On("Insert", mock.Anything, entry).Return(int64(1), nil).Once()

	pool := worker.NewPool(1, 4)
	pool.Start(context.Background())
	q := jobs.NewWorkerQueue(pool, repo)

	require.NoError(t, q.EnqueueReviewHistory(entry))
	pool.Stop()

	repo.AssertExpectations(t)
}

func TestWorkerQueue_StoppedPool(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := new(mocks.MockReviewHistoryRepository)
	pool := worker.NewPool(1, 1)
	pool.Start(context.Background())
	pool.Stop()

	err := jobs.NewWorkerQueue(pool, repo).EnqueueReviewHistory(models.ReviewHistory{CardID: "c1"})

	assert.ErrorIs(t, err, worker.ErrPoolStopped)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}
