package scheduler

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// TaskFunc runs on every fire of a repeating task. fire is the 1-based
// count of fires so far. Returning false stops the task.
type TaskFunc func(fire int) bool

// Task is a handle to one repeating scheduled callback. Stopping is
// idempotent; once stopped the callback never fires again.
type Task struct {
	id       string
	interval time.Duration
	fn       TaskFunc
	done     chan struct{}
	stopOnce sync.Once
}

// Stop cancels the task. Safe to call more than once and safe to call
// after the task has already stopped itself.
func (t *Task) Stop() {
	t.stopOnce.Do(func() {
		close(t.done)
	})
}

// Done is closed when the task will never fire again
func (t *Task) Done() <-chan struct{} {
	return t.done
}

func (t *Task) run() {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	fire := 0
	for {
		select {
		case <-t.done:
			return
		case <-ticker.C:
			// A tick may race with Stop; prefer the stop signal so a
			// cancelled task never fires.
			select {
			case <-t.done:
				return
			default:
			}
			fire++
			if !t.fn(fire) {
				t.Stop()
				return
			}
		}
	}
}

// Scheduler runs cancellable repeating tasks keyed by ID. It replaces ad
// hoc timers so that cancellation is a first-class operation.
type Scheduler struct {
	logger *zap.Logger
	mu     sync.Mutex
	tasks  map[string]*Task
}

// New creates a scheduler
func New(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		logger: logger,
		tasks:  make(map[string]*Task),
	}
}

// Repeat schedules fn to run every interval until fn returns false or the
// task is stopped. Scheduling a new task under an existing ID stops the
// old one first.
func (s *Scheduler) Repeat(id string, interval time.Duration, fn TaskFunc) *Task {
	task := &Task{
		id:       id,
		interval: interval,
		fn:       fn,
		done:     make(chan struct{}),
	}

	s.mu.Lock()
	if old, ok := s.tasks[id]; ok {
		old.Stop()
		s.logger.Warn("Replacing scheduled task", zap.String("taskID", id))
	}
	s.tasks[id] = task
	s.mu.Unlock()

	go func() {
		task.run()
		s.mu.Lock()
		if current, ok := s.tasks[id]; ok && current == task {
			delete(s.tasks, id)
		}
		s.mu.Unlock()
	}()

	return task
}

// Stop cancels the task registered under id. Unknown IDs are a no-op.
func (s *Scheduler) Stop(id string) {
	s.mu.Lock()
	task, ok := s.tasks[id]
	s.mu.Unlock()
	if ok {
		task.Stop()
	}
}

// Len returns the number of tasks that have not finished yet
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}
