package live

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jornada-tracker/internal/domain"
)

type recorder struct {
	mu      sync.Mutex
	updates []Update
}

func (r *recorder) publish(u Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, u)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.updates)
}

func (r *recorder) last() Update {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updates[len(r.updates)-1]
}

// fakeClock is a clock tests move by hand
type fakeClock struct {
	nanos atomic.Int64
}

func newFakeClock(t time.Time) *fakeClock {
	c := &fakeClock{}
	c.set(t)
	return c
}

func (c *fakeClock) set(t time.Time) { c.nanos.Store(t.UnixNano()) }
func (c *fakeClock) now() time.Time  { return time.Unix(0, c.nanos.Load()) }

func newTestScheduler(ctx context.Context, clock *fakeClock, rec *recorder) *Scheduler {
	s := NewScheduler(ctx, 5*time.Millisecond, rec.publish, nil)
	s.now = clock.now
	return s
}

func TestScheduler_FinishedTargetDoesNotRun(t *testing.T) {
	start := time.Date(2024, 3, 11, 7, 0, 0, 0, time.Local)
	end := start.Add(time.Hour)
	rec := &recorder{}
	s := newTestScheduler(context.Background(), newFakeClock(end.Add(time.Minute)), rec)
	defer s.Stop()

	s.Watch(Target{Key: "a", Start: &start, End: &end})

	assert.Equal(t, 0, s.Active())
	assert.Equal(t, 1, rec.count())
	assert.Equal(t, domain.StatusFinished, s.Snapshot()["a"].Status)
	assert.Equal(t, 60, s.Snapshot()["a"].ElapsedMinutes)
}

func TestScheduler_TaskStopsWhenFinished(t *testing.T) {
	start := time.Date(2024, 3, 11, 7, 0, 0, 0, time.Local)
	clock := newFakeClock(start.Add(30 * time.Second))
	rec := &recorder{}
	s := newTestScheduler(context.Background(), clock, rec)
	defer s.Stop()

	s.Watch(Target{Key: "a", Start: &start, EstimatedMinutes: 1})
	require.Equal(t, 1, s.Active())
	assert.Equal(t, domain.StatusInProgress, s.Snapshot()["a"].Status)

	clock.set(start.Add(2 * time.Minute))
	done := make(chan struct{})
	go func() {
		s.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task did not stop after finishing")
	}
	assert.Equal(t, 0, s.Active())
	assert.Equal(t, domain.StatusFinished, rec.last().State.Status)
	assert.Equal(t, float64(100), s.Snapshot()["a"].PercentComplete)
}

func TestScheduler_StopCancelsRunningTasks(t *testing.T) {
	start := time.Date(2024, 3, 11, 7, 0, 0, 0, time.Local)
	rec := &recorder{}
	s := newTestScheduler(context.Background(), newFakeClock(start.Add(time.Minute)), rec)

	s.WatchAll([]Target{
		{Key: "a", Start: &start, EstimatedMinutes: 600},
		{Key: "b", Start: &start, EstimatedMinutes: 600},
		{Key: "c"},
	})
	assert.Equal(t, 3, s.Active())
	assert.Equal(t, domain.StatusPending, s.Snapshot()["c"].Status)

	s.Stop()
	assert.Equal(t, 0, s.Active())

	n := rec.count()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, n, rec.count(), "no updates after Stop")

	s.Watch(Target{Key: "d", Start: &start, EstimatedMinutes: 600})
	assert.Equal(t, 0, s.Active(), "a stopped scheduler ignores new targets")
}

func TestScheduler_ParentCancellation(t *testing.T) {
	start := time.Date(2024, 3, 11, 7, 0, 0, 0, time.Local)
	ctx, cancel := context.WithCancel(context.Background())
	s := newTestScheduler(ctx, newFakeClock(start.Add(time.Minute)), &recorder{})

	s.Watch(Target{Key: "a", Start: &start, EstimatedMinutes: 600})
	cancel()

	done := make(chan struct{})
	go func() {
		s.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tasks survived context cancellation")
	}
}

func TestScheduler_WatchReplacesSameKey(t *testing.T) {
	start := time.Date(2024, 3, 11, 7, 0, 0, 0, time.Local)
	s := newTestScheduler(context.Background(), newFakeClock(start.Add(time.Minute)), &recorder{})
	defer s.Stop()

	s.Watch(Target{Key: "a", Start: &start, EstimatedMinutes: 600})
	s.Watch(Target{Key: "a", Start: &start, EstimatedMinutes: 600})

	assert.Equal(t, 1, s.Active())
}

func TestScheduler_SnapshotIsACopy(t *testing.T) {
	s := newTestScheduler(context.Background(), newFakeClock(time.Now()), &recorder{})
	defer s.Stop()

	s.Watch(Target{Key: "a"})
	snap := s.Snapshot()
	snap["a"] = domain.ActivityTimeState{Status: domain.StatusFinished}

	assert.Equal(t, domain.StatusPending, s.Snapshot()["a"].Status)
}

func TestTargetsFromShift(t *testing.T) {
	start := domain.Instant{Time: time.Date(2024, 3, 11, 7, 0, 0, 0, time.Local)}
	shift := domain.PersistedShift{
		Activities: []domain.PersistedActivity{
			{ID: "x1", StartTime: start, EstimatedMinutes: 90},
			{StartTime: start, Minutes: 20},
			{},
		},
	}

	targets := TargetsFromShift(shift)

	require.Len(t, targets, 3)
	assert.Equal(t, "x1", targets[0].Key)
	assert.Equal(t, 90, targets[0].EstimatedMinutes)
	assert.Equal(t, "1", targets[1].Key)
	assert.Equal(t, 20, targets[1].EstimatedMinutes)
	assert.Nil(t, targets[2].Start)
	assert.Equal(t, domain.DefaultEstimatedMinutes, targets[2].EstimatedMinutes)
}
