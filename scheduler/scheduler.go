package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Task is one fetch invocation. The scheduler holds no state between
// invocations; whatever the task needs it must carry itself.
type Task func(ctx context.Context) error

// Scheduler re-invokes a task on a fixed interval. The first run
// happens immediately on Start, then once per tick until Stop.
type Scheduler struct {
	interval time.Duration
	task     Task
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	log      *slog.Logger
}

// NewScheduler creates a scheduler for the given task and interval.
func NewScheduler(interval time.Duration, task Task, log *slog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		interval: interval,
		task:     task,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
		log:      log,
	}
}

// Start starts the scheduler loop in a goroutine.
func (s *Scheduler) Start() {
	go s.run()
}

// Stop cancels the loop and waits for the current run to finish.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.done
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runOnce()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.runOnce()
		}
	}
}

func (s *Scheduler) runOnce() {
	runID := uuid.NewString()
	log := s.log.With("run_id", runID)

	start := time.Now()
	log.Info("run started")
	if err := s.task(s.ctx); err != nil {
		log.Error("run failed", "err", err, "took", time.Since(start))
		return
	}
	log.Info("run finished", "took", time.Since(start))
}
