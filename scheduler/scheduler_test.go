package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestSchedulerRunsImmediatelyAndOnTicks(t *testing.T) {
	var runs atomic.Int64
	task := func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}

	s := NewScheduler(20*time.Millisecond, task, nil)
	s.Start()
	time.Sleep(70 * time.Millisecond)
	s.Stop()

	got := runs.Load()
	if got < 3 {
		t.Errorf("task ran %d times in ~70ms at 20ms interval, want at least 3 (immediate + ticks)", got)
	}
}

func TestSchedulerStopCancelsTaskContext(t *testing.T) {
	started := make(chan struct{})
	task := func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}

	s := NewScheduler(time.Hour, task, nil)
	s.Start()
	<-started

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop() did not return after cancelling a blocked task")
	}
}

func TestSchedulerKeepsRunningAfterTaskError(t *testing.T) {
	var runs atomic.Int64
	task := func(ctx context.Context) error {
		runs.Add(1)
		return errors.New("transient")
	}

	s := NewScheduler(15*time.Millisecond, task, nil)
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	if got := runs.Load(); got < 2 {
		t.Errorf("task ran %d times, want the schedule to survive task errors", got)
	}
}
