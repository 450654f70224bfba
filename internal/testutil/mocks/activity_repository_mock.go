package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/flashdeck/internal/models"
)

// MockActivityRepository is a mock implementation of repository.ActivityRepository
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) LoadActivityLog(ctx context.Context, learnerID string) (models.StudyActivityLog, error) {
	args := m.Called(ctx, learnerID)
	return args.Get(0).(models.StudyActivityLog), args.Error(1)
}

func (m *MockActivityRepository) PersistActivityLog(ctx context.Context, learnerID string, log models.StudyActivityLog) error {
	args := m.Called(ctx, learnerID, log)
	return args.Error(0)
}

// MockActivityRecorder is a mock implementation of review.ActivityRecorder
type MockActivityRecorder struct {
	mock.Mock
}

func (m *MockActivityRecorder) RecordActivity(ctx context.Context, learnerID string, now time.Time) error {
	args := m.Called(ctx, learnerID, now)
	return args.Error(0)
}
