package clock

import (
	"context"
	"sync"
	"time"
)

// Loop is a real-time event loop. Timers are armed with time.AfterFunc but
// their callbacks are queued and run on the goroutine executing Run, one at a
// time. Post lets other goroutines hand work to that goroutine.
type Loop struct {
	mu      sync.Mutex
	next    Handle
	timers  map[Handle]*time.Timer
	queue   chan func()
	done    chan struct{}
	running bool
	closed  bool
}

func NewLoop() *Loop {
	return &Loop{
		timers: make(map[Handle]*time.Timer),
		queue:  make(chan func(), 256),
		done:   make(chan struct{}),
	}
}

func (l *Loop) Now() time.Time { return time.Now() }

func (l *Loop) AfterFunc(d time.Duration, fn func()) Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.next++
	h := l.next
	l.timers[h] = time.AfterFunc(d, func() {
		l.Post(func() {
			if l.take(h) {
				fn()
			}
		})
	})
	return h
}

func (l *Loop) Cancel(h Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, ok := l.timers[h]
	if !ok {
		return false
	}
	t.Stop()
	delete(l.timers, h)
	return true
}

// Post queues fn to run on the loop goroutine. Posting to a closed loop is a
// no-op.
func (l *Loop) Post(fn func()) {
	select {
	case l.queue <- fn:
	case <-l.done:
	}
}

// Pending returns the number of armed timers.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}

// Run processes callbacks until ctx is done. It must be called at most once.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	switch {
	case l.closed:
		l.mu.Unlock()
		return ErrLoopClosed
	case l.running:
		l.mu.Unlock()
		return ErrLoopRunning
	}
	l.running = true
	l.mu.Unlock()

	defer l.close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}

// take removes h from the armed set, reporting whether it was still armed.
func (l *Loop) take(h Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.timers[h]; !ok {
		return false
	}
	delete(l.timers, h)
	return true
}

func (l *Loop) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.running = false
	close(l.done)
	for h, t := range l.timers {
		t.Stop()
		delete(l.timers, h)
	}
}
