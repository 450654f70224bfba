package activity

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
)

// MaxStreakDays bounds the backward walk in CurrentStreak.
const MaxStreakDays = 100

const dayLayout = "2006-01-02"

// Store loads and saves a learner's activity log.
type Store interface {
	LoadActivityLog(ctx context.Context, learnerID string) (models.StudyActivityLog, error)
	PersistActivityLog(ctx context.Context, learnerID string, log models.StudyActivityLog) error
}

// DayKey is the UTC calendar date of t.
func DayKey(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// MarkDay adds now's day to log, keeping StudyDays sorted, and stamps LastStudyDate.
// It reports whether the day was new.
func MarkDay(log models.StudyActivityLog, now time.Time) (models.StudyActivityLog, bool) {
	key := DayKey(now)
	days := slices.Clone(log.StudyDays)
	slices.Sort(days)
	i, found := slices.BinarySearch(days, key)
	if !found {
		days = slices.Insert(days, i, key)
	}
	last := now.UTC()
	log.StudyDays = days
	log.LastStudyDate = &last
	return log, !found
}

// CurrentStreak counts consecutive study days ending today, or ending yesterday
// when today has no review yet.
func CurrentStreak(log models.StudyActivityLog, now time.Time) int {
	if len(log.StudyDays) == 0 {
		return 0
	}
	days := make(map[string]struct{}, len(log.StudyDays))
	for _, d := range log.StudyDays {
		days[d] = struct{}{}
	}
	has := func(t time.Time) bool {
		_, ok := days[DayKey(t)]
		return ok
	}

	day := now.UTC()
	if !has(day) {
		day = day.AddDate(0, 0, -1)
		if !has(day) {
			return 0
		}
	}

	streak := 0
	for streak < MaxStreakDays && has(day) {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// Recorder writes study activity through a Store. Updates for the same learner
// are serialized; different learners don't block each other.
type Recorder struct {
	store Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store, locks: make(map[string]*sync.Mutex)}
}

func (r *Recorder) lock(learnerID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[learnerID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[learnerID] = l
	}
	return l
}

// RecordActivity marks now's day for learnerID and persists the log.
func (r *Recorder) RecordActivity(ctx context.Context, learnerID string, now time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("activity")

	l := r.lock(learnerID)
	l.Lock()
	defer l.Unlock()

	current, err := r.store.LoadActivityLog(ctx, learnerID)
	if err != nil {
		return fmt.Errorf("load activity log for %s: %w", learnerID, err)
	}
	current.LearnerID = learnerID

	updated, added := MarkDay(current, now)
	if err := r.store.PersistActivityLog(ctx, learnerID, updated); err != nil {
		return fmt.Errorf("persist activity log for %s: %w", learnerID, err)
	}
	if added {
		log.Debug("new study day recorded: learner=%s, day=%s, total_days=%d", learnerID, DayKey(now), len(updated.StudyDays))
	}
	return nil
}

// Streak loads learnerID's log and returns the current streak at now.
func (r *Recorder) Streak(ctx context.Context, learnerID string, now time.Time) (int, error) {
	current, err := r.store.LoadActivityLog(ctx, learnerID)
	if err != nil {
		return 0, fmt.Errorf("load activity log for %s: %w", learnerID, err)
	}
	return CurrentStreak(current, now), nil
}
