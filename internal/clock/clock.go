package clock

import (
	"errors"
	"time"
)

// Handle identifies a scheduled callback. The zero Handle is never issued.
type Handle uint64

// Scheduler is a one-shot timer source. Implementations run every callback on
// one goroutine and never run a callback whose handle was canceled.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Handle
	// Cancel reports whether the callback was still pending.
	Cancel(h Handle) bool
}

var (
	// ErrLoopRunning indicates Run was called on a loop that is already running.
	ErrLoopRunning = errors.New("clock: loop already running")

	// ErrLoopClosed indicates the loop was stopped and cannot run again.
	ErrLoopClosed = errors.New("clock: loop closed")
)
