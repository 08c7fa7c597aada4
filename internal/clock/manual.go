package clock

import (
	"container/heap"
	"time"
)

type timer struct {
	handle Handle
	due    time.Time
	seq    uint64
	fn     func()
	index  int
}

type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].due.Equal(h[j].due) {
		return h[i].seq < h[j].seq
	}
	return h[i].due.Before(h[j].due)
}
func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *timerHeap) Push(x any) {
	t := x.(*timer)
	t.index = len(*h)
	*h = append(*h, t)
}
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// Manual is a virtual clock. Time only moves when Advance or RunUntilIdle is
// called, and due callbacks run in due-time order (ties in scheduling order)
// on the calling goroutine. Manual is NOT safe for concurrent use.
type Manual struct {
	now     time.Time
	seq     uint64
	next    Handle
	pending timerHeap
	byID    map[Handle]*timer
	fired   int
}

func NewManual(start time.Time) *Manual {
	return &Manual{
		now:  start,
		byID: make(map[Handle]*timer),
	}
}

func (m *Manual) Now() time.Time { return m.now }

func (m *Manual) AfterFunc(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	m.next++
	m.seq++
	t := &timer{handle: m.next, due: m.now.Add(d), seq: m.seq, fn: fn}
	heap.Push(&m.pending, t)
	m.byID[t.handle] = t
	return t.handle
}

func (m *Manual) Cancel(h Handle) bool {
	t, ok := m.byID[h]
	if !ok {
		return false
	}
	delete(m.byID, h)
	heap.Remove(&m.pending, t.index)
	return true
}

// Advance moves time forward by d, running every callback that becomes due,
// including callbacks scheduled by callbacks within the window.
func (m *Manual) Advance(d time.Duration) {
	m.AdvanceTo(m.now.Add(d))
}

// AdvanceTo moves time forward to target. Time never moves backwards.
func (m *Manual) AdvanceTo(target time.Time) {
	for len(m.pending) > 0 && !m.pending[0].due.After(target) {
		m.runNext()
	}
	if target.After(m.now) {
		m.now = target
	}
}

// RunUntilIdle runs pending callbacks in order, jumping time to each due
// point, until nothing is pending or limit callbacks have run. It returns
// the number of callbacks run.
func (m *Manual) RunUntilIdle(limit int) int {
	n := 0
	for len(m.pending) > 0 && n < limit {
		m.runNext()
		n++
	}
	return n
}

// NextDue reports when the earliest pending callback is due.
func (m *Manual) NextDue() (time.Time, bool) {
	if len(m.pending) == 0 {
		return time.Time{}, false
	}
	return m.pending[0].due, true
}

// Pending returns the number of callbacks waiting to fire.
func (m *Manual) Pending() int { return len(m.pending) }

// Fired returns the number of callbacks run so far.
func (m *Manual) Fired() int { return m.fired }

func (m *Manual) runNext() {
	t := heap.Pop(&m.pending).(*timer)
	delete(m.byID, t.handle)
	if t.due.After(m.now) {
		m.now = t.due
	}
	m.fired++
	t.fn()
}
