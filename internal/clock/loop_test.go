package clock

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLoopRunsCallbacks(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan time.Duration, 1)
	start := time.Now()
	l.AfterFunc(20*time.Millisecond, func() {
		done <- time.Since(start)
		cancel()
	})

	err := l.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}

	select {
	case d := <-done:
		if d < 20*time.Millisecond {
			t.Errorf("callback ran early: %v", d)
		}
	default:
		t.Fatal("callback never ran")
	}
}

func TestLoopCancel(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	fired := false
	h := l.AfterFunc(10*time.Millisecond, func() { fired = true })
	if !l.Cancel(h) {
		t.Fatal("expected pending timer")
	}

	_ = l.Run(ctx)
	if fired {
		t.Error("canceled callback ran")
	}
}

func TestLoopPostAndClose(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())

	ran := 0
	l.Post(func() { ran++ })
	l.Post(func() { ran++; cancel() })

	_ = l.Run(ctx)
	if ran != 2 {
		t.Errorf("expected 2 posted callbacks, got %d", ran)
	}

	if err := l.Run(context.Background()); !errors.Is(err, ErrLoopClosed) {
		t.Errorf("expected ErrLoopClosed, got %v", err)
	}

	// must not block once closed
	l.Post(func() {})
	if l.Pending() != 0 {
		t.Errorf("expected no armed timers after close, got %d", l.Pending())
	}
}
