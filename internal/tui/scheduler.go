// Package tui hosts a show inside a bubbletea program.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/stageshow/internal/clock"
)

// timerMsg reports that a scheduled callback is due.
type timerMsg struct {
	id clock.Handle
}

type pendingTimer struct {
	fn  func()
	due time.Time
}

// Scheduler implements clock.Scheduler on top of the program's event loop.
// AfterFunc queues a tea.Tick; the callback runs inside Update when the
// tick's message arrives. It must only be used from Update and Init.
type Scheduler struct {
	now    func() time.Time
	next   clock.Handle
	timers map[clock.Handle]pendingTimer
	queued []tea.Cmd
}

var _ clock.Scheduler = (*Scheduler)(nil)

func NewScheduler() *Scheduler {
	return &Scheduler{
		now:    time.Now,
		timers: make(map[clock.Handle]pendingTimer),
	}
}

func (s *Scheduler) Now() time.Time { return s.now() }

func (s *Scheduler) AfterFunc(d time.Duration, fn func()) clock.Handle {
	if d < 0 {
		d = 0
	}
	s.next++
	h := s.next
	s.timers[h] = pendingTimer{fn: fn, due: s.now().Add(d)}
	s.queued = append(s.queued, tea.Tick(d, func(time.Time) tea.Msg {
		return timerMsg{id: h}
	}))
	return h
}

// Cancel drops the callback. Its tick still arrives and is ignored.
func (s *Scheduler) Cancel(h clock.Handle) bool {
	if _, ok := s.timers[h]; !ok {
		return false
	}
	delete(s.timers, h)
	return true
}

// Pending returns the number of callbacks waiting to fire.
func (s *Scheduler) Pending() int { return len(s.timers) }

// fire runs the callback for h if it is still pending.
func (s *Scheduler) fire(h clock.Handle) bool {
	t, ok := s.timers[h]
	if !ok {
		return false
	}
	delete(s.timers, h)
	t.fn()
	return true
}

// drain returns the ticks queued since the last call.
func (s *Scheduler) drain() tea.Cmd {
	if len(s.queued) == 0 {
		return nil
	}
	cmds := s.queued
	s.queued = nil
	return tea.Batch(cmds...)
}
