package cache

import (
	"context"
	"testing"
	"time"
)

// TestSweeperRun tests that the sweeper removes stale entries and stops
// when its context is cancelled.
func TestSweeperRun(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := New(WithClock(clock.Now))
	c.Put("stale", newResult("stale", 10))
	clock.Advance(25 * time.Hour)
	c.Put("fresh", newResult("fresh", 90))

	s := NewSweeper(c, WithInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for c.Len() != 1 {
		select {
		case <-deadline:
			t.Fatalf("sweeper did not remove the stale entry, %d entries left", c.Len())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop after cancellation")
	}

	if _, ok := c.Get("fresh"); !ok {
		t.Error("fresh entry must survive sweeping")
	}
}

// TestNewSweeperDefaults tests sweeper defaults.
func TestNewSweeperDefaults(t *testing.T) {
	t.Parallel()

	s := NewSweeper(New(), WithInterval(0), WithSweeperLogger(nil))
	if s.interval != DefaultSweepInterval {
		t.Errorf("expected interval %v, got %v", DefaultSweepInterval, s.interval)
	}
	if s.logger == nil {
		t.Error("expected default logger")
	}
}
