package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/agbru/usagewarn/internal/errors"
)

func TestRun_RejectsSubSecondInterval(t *testing.T) {
	t.Parallel()
	s := New(500*time.Millisecond, func() {}, nil)

	err := s.Run(context.Background())
	var cfgErr apperrors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Run() error = %v, want ConfigError", err)
	}
}

func TestRun_ImmediateFirstTick(t *testing.T) {
	t.Parallel()
	var runs atomic.Int32
	first := make(chan struct{}, 1)
	s := New(time.Hour, func() {
		if runs.Add(1) == 1 {
			first <- struct{}{}
		}
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case <-first:
	case <-time.After(2 * time.Second):
		t.Fatal("first tick did not fire immediately")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	if got := runs.Load(); got != 1 {
		t.Errorf("runs = %d, want 1 with an hourly interval", got)
	}
}

func TestRun_PeriodicTicks(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for real timer ticks")
	}
	t.Parallel()

	var runs atomic.Int32
	s := New(time.Second, func() { runs.Add(1) }, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2500*time.Millisecond)
	defer cancel()
	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// One immediate tick plus at least one periodic tick.
	if got := runs.Load(); got < 2 {
		t.Errorf("runs = %d, want at least 2", got)
	}
}

func TestTickNow_SkipsWhileRunning(t *testing.T) {
	t.Parallel()
	var runs atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})
	s := New(time.Hour, func() {
		if runs.Add(1) == 1 {
			close(entered)
			<-release
		}
	}, nil)

	done := make(chan struct{})
	go func() {
		s.TickNow()
		close(done)
	}()
	<-entered

	s.TickNow()
	close(release)
	<-done

	if got := runs.Load(); got != 1 {
		t.Errorf("runs = %d, want 1 (overlapping tick skipped)", got)
	}

	s.TickNow()
	if got := runs.Load(); got != 2 {
		t.Errorf("runs = %d, want 2 after the first run finished", got)
	}
}

func TestTickNow_RecoversPanics(t *testing.T) {
	t.Parallel()
	s := New(time.Hour, func() { panic("boom") }, nil)
	s.TickNow()
	s.TickNow()
}

func TestInterval(t *testing.T) {
	t.Parallel()
	if got := New(3*time.Second, func() {}, nil).Interval(); got != 3*time.Second {
		t.Errorf("Interval() = %v", got)
	}
}
