package scheduler

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// Task runs one job every interval until stopped. The first run happens one
// interval after Start.
type Task struct {
	name     string
	interval time.Duration
	job      func()
	logger   *slog.Logger

	mu        sync.Mutex
	scheduler *gocron.Scheduler
}

// New creates a stopped Task.
func New(name string, interval time.Duration, job func(), logger *slog.Logger) *Task {
	if logger == nil {
		logger = slog.Default()
	}
	return &Task{
		name:     name,
		interval: interval,
		job:      job,
		logger:   logger,
	}
}

// Start schedules the job and starts the underlying scheduler. Starting a
// running task is a no-op.
func (t *Task) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.scheduler != nil {
		return nil
	}
	if t.interval <= 0 {
		return fmt.Errorf("scheduler %s: interval must be positive", t.name)
	}

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	_, err := s.Every(t.interval).WaitForSchedule().Do(t.job)
	if err != nil {
		return fmt.Errorf("scheduler %s: %w", t.name, err)
	}

	s.StartAsync()
	t.scheduler = s
	t.logger.Debug("periodic task started", "task", t.name, "interval", t.interval)
	return nil
}

// Stop cancels any future runs. It is safe to call on a stopped task.
func (t *Task) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.scheduler == nil {
		return
	}
	t.scheduler.Stop()
	t.scheduler = nil
	t.logger.Debug("periodic task stopped", "task", t.name)
}

// Running reports whether the task is scheduled.
func (t *Task) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scheduler != nil
}
