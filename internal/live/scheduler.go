// Package live keeps activity time states current while they are being
// watched.
package live

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"jornada-tracker/internal/domain"
	"jornada-tracker/internal/logging"
)

// DefaultInterval is the recompute period when none is configured.
const DefaultInterval = time.Second

// Target is one activity to watch.
type Target struct {
	Key              string
	Start            *time.Time
	End              *time.Time
	EstimatedMinutes int
}

// Update is a freshly computed state for one target.
type Update struct {
	Key   string                   `json:"key"`
	State domain.ActivityTimeState `json:"state"`
	At    time.Time                `json:"at"`
}

// PublishFunc receives every update. It is called from the task
// goroutines and must be safe for concurrent use.
type PublishFunc func(Update)

type task struct {
	target Target
	ctx    context.Context
	cancel context.CancelFunc
}

// Scheduler runs one recurring task per watched activity. A task stops
// on its own once the activity is finished, when it is replaced, or
// when the scheduler stops.
type Scheduler struct {
	ctx      context.Context
	cancel   context.CancelFunc
	interval time.Duration
	publish  PublishFunc
	logger   *log.Logger
	now      func() time.Time

	mu     sync.Mutex
	states map[string]domain.ActivityTimeState
	tasks  map[string]*task
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler bound to ctx. Cancelling ctx stops
// every task.
func NewScheduler(ctx context.Context, interval time.Duration, publish PublishFunc, logger *log.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if publish == nil {
		publish = func(Update) {}
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Scheduler{
		ctx:      ctx,
		cancel:   cancel,
		interval: interval,
		publish:  publish,
		logger:   logging.OrDiscard(logger),
		now:      time.Now,
		states:   make(map[string]domain.ActivityTimeState),
		tasks:    make(map[string]*task),
	}
}

// Watch starts a task for t, replacing any task with the same key. The
// first state is computed and published before Watch returns; a target
// that is already finished never gets a running task.
func (s *Scheduler) Watch(t Target) {
	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	if old, ok := s.tasks[t.Key]; ok {
		old.cancel()
	}
	ctx, cancel := context.WithCancel(s.ctx)
	tk := &task{target: t, ctx: ctx, cancel: cancel}
	s.tasks[t.Key] = tk
	s.wg.Add(1)
	s.mu.Unlock()

	if s.tick(tk) {
		s.release(tk)
		s.wg.Done()
		return
	}
	go s.run(tk)
}

// WatchAll starts a task per target
func (s *Scheduler) WatchAll(targets []Target) {
	for _, t := range targets {
		s.Watch(t)
	}
}

// Snapshot returns a copy of the latest state of every watched target.
func (s *Scheduler) Snapshot() map[string]domain.ActivityTimeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]domain.ActivityTimeState, len(s.states))
	for k, v := range s.states {
		out[k] = v
	}
	return out
}

// Active returns the number of tasks still running.
func (s *Scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Wait blocks until every task has stopped.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Stop cancels every task and waits for them to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.cancel()
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Scheduler) run(tk *task) {
	defer s.wg.Done()
	defer s.release(tk)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-tk.ctx.Done():
			return
		case <-ticker.C:
			if s.tick(tk) {
				s.logger.Debug("activity finished", "key", tk.target.Key)
				return
			}
		}
	}
}

// tick recomputes and publishes the state of a task. It reports whether
// the task is done.
func (s *Scheduler) tick(tk *task) bool {
	now := s.now()
	t := tk.target
	state := domain.ProjectActivityState(t.Start, t.End, t.EstimatedMinutes, now)

	s.mu.Lock()
	if tk.ctx.Err() != nil {
		s.mu.Unlock()
		return true
	}
	s.states[t.Key] = state
	s.mu.Unlock()

	s.publish(Update{Key: t.Key, State: state, At: now})
	return state.IsFinished()
}

// release drops a task unless a newer one has taken over its key.
func (s *Scheduler) release(tk *task) {
	tk.cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tasks[tk.target.Key] == tk {
		delete(s.tasks, tk.target.Key)
	}
}
