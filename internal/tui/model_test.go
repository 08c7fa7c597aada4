package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/stageshow/internal/clock"
	"github.com/san-kum/stageshow/internal/config"
	"github.com/san-kum/stageshow/internal/sequence"
	"github.com/san-kum/stageshow/internal/show"
	"github.com/san-kum/stageshow/internal/signup"
	"github.com/san-kum/stageshow/internal/stage"
	"github.com/san-kum/stageshow/internal/surface"
)

type harness struct {
	m      *Model
	sched  *Scheduler
	seq    *sequence.Sequencer
	screen *surface.Screen
	now    time.Time
	start  time.Time
	trans  []sequence.Transition
}

func newHarness(t *testing.T, cfg *config.Config, deps func(*surface.Screen) show.Deps) *harness {
	t.Helper()
	h := &harness{start: time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)}
	h.now = h.start
	h.sched = NewScheduler()
	h.sched.now = func() time.Time { return h.now }
	h.screen = surface.NewScreen(80, 24, h.sched, surface.GetTheme(""))

	d := show.Deps{}
	if deps != nil {
		d = deps(h.screen)
	}
	stages, err := show.Build(cfg, d)
	require.NoError(t, err)

	h.seq = sequence.New(stages, stage.Env{Surface: h.screen, Clock: h.sched},
		sequence.WithObserver(func(tr sequence.Transition) { h.trans = append(h.trans, tr) }))
	h.m = New(h.screen, h.sched, h.seq, Options{QuitOnFinish: true})
	return h
}

// nextDue returns the pending timer due first, ties going to the earlier
// handle.
func (s *Scheduler) nextDue() (clock.Handle, time.Time, bool) {
	var (
		best    clock.Handle
		bestDue time.Time
		found   bool
	)
	for h, t := range s.timers {
		if !found || t.due.Before(bestDue) || (t.due.Equal(bestDue) && h < best) {
			best, bestDue, found = h, t.due, true
		}
	}
	return best, bestDue, found
}

// step fires the earliest pending timer, moving the fake clock to its due
// time.
func (h *harness) step() bool {
	id, due, ok := h.sched.nextDue()
	if !ok {
		return false
	}
	if due.After(h.now) {
		h.now = due
	}
	h.m.Update(timerMsg{id: id})
	return true
}

func (h *harness) key(k tea.KeyMsg) tea.Cmd {
	_, cmd := h.m.Update(k)
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_PlaysScenario(t *testing.T) {
	h := newHarness(t, config.GetPreset("scenario"), nil)

	cmd := h.m.Init()
	assert.NotNil(t, cmd)
	assert.Equal(t, sequence.Running, h.seq.State())
	assert.Contains(t, h.m.View(), "A")

	for h.seq.State() == sequence.Running {
		require.True(t, h.step(), "sequence stalled")
	}

	assert.Equal(t, sequence.Finished, h.seq.State())
	require.Len(t, h.trans, 3)
	assert.Equal(t, 100*time.Millisecond, h.trans[1].At.Sub(h.start))
	assert.Equal(t, 1300*time.Millisecond, h.trans[2].At.Sub(h.start))
	assert.Empty(t, h.m.View(), "finished show should quit")
	assert.NoError(t, h.m.Err())
}

func TestModel_QuitStopsSequence(t *testing.T) {
	h := newHarness(t, config.GetPreset("scenario"), nil)
	h.m.Init()

	cmd := h.key(runes("q"))
	assert.NotNil(t, cmd)
	assert.Equal(t, sequence.Stopped, h.seq.State())
	assert.True(t, h.screen.Empty(), "stop should clean up the active stage")
	assert.Empty(t, h.m.View())
}

func TestModel_CtrlC(t *testing.T) {
	h := newHarness(t, config.GetPreset("scenario"), nil)
	h.m.Init()
	h.key(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Equal(t, sequence.Stopped, h.seq.State())
}

func TestModel_WindowResize(t *testing.T) {
	h := newHarness(t, config.GetPreset("scenario"), nil)
	h.m.Init()
	h.m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	w, ht := h.screen.Bounds()
	assert.Equal(t, 120, w)
	assert.Equal(t, 40, ht)
}

func TestModel_RunMsg(t *testing.T) {
	h := newHarness(t, config.GetPreset("scenario"), nil)
	h.m.Init()
	ran := false
	h.m.Update(RunMsg(func() { ran = true }))
	assert.True(t, ran)
}

func TestModel_StartFailure(t *testing.T) {
	h := &harness{}
	h.sched = NewScheduler()
	h.screen = surface.NewScreen(80, 24, h.sched, surface.GetTheme(""))
	st := stage.NewText("empty", stage.TextOptions{})
	h.seq = sequence.New([]stage.Stage{st}, stage.Env{Surface: h.screen, Clock: h.sched})
	h.m = New(h.screen, h.sched, h.seq, Options{QuitOnFinish: true})

	cmd := h.m.Init()
	assert.NotNil(t, cmd)
	assert.ErrorIs(t, h.m.Err(), stage.ErrMissingContent)
	assert.Empty(t, h.m.View())
}

type chanSubmitter chan string

func (c chanSubmitter) Submit(_ context.Context, number string) error {
	c <- number
	return nil
}

func TestModel_SignupInput(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Stages = []config.StageConfig{{
		Kind:        config.KindSignup,
		Name:        "gimme",
		Content:     "We'll text you tomorrow.",
		Placeholder: "1-508-222-3333",
	}}

	sub := make(chanSubmitter, 1)
	replies := make(chan func(), 1)
	h := newHarness(t, cfg, func(scr *surface.Screen) show.Deps {
		return show.Deps{Signup: func(id, placeholder string) func() {
			f := signup.NewForm(context.Background(), scr, sub, func(fn func()) { replies <- fn }, id, placeholder)
			return f.Arm
		}}
	})
	h.m.Init()
	require.True(t, h.screen.Focused())
	assert.Contains(t, h.m.View(), "1-508-222-3333")

	h.key(runes("508222333q"))
	h.key(tea.KeyMsg{Type: tea.KeyBackspace})
	h.key(runes("3"))
	assert.Equal(t, sequence.Running, h.seq.State(), "q typed into a field must not quit")
	assert.Equal(t, "5082223333", h.screen.Find("gimme").Field.Value)

	h.key(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "5082223333", <-sub)

	select {
	case fn := <-replies:
		h.m.Update(RunMsg(fn))
	case <-time.After(2 * time.Second):
		t.Fatal("no reply dispatched")
	}
	assert.True(t, strings.Contains(h.m.View(), "See you tomorrow!"))
	assert.Equal(t, sequence.Running, h.seq.State(), "signup stage holds")
}

func TestScheduler_Cancel(t *testing.T) {
	s := NewScheduler()
	ran := false
	h := s.AfterFunc(time.Second, func() { ran = true })
	assert.Equal(t, 1, s.Pending())
	assert.NotNil(t, s.drain())
	assert.Nil(t, s.drain())

	assert.True(t, s.Cancel(h))
	assert.False(t, s.Cancel(h))
	assert.False(t, s.fire(h))
	assert.False(t, ran)
}

func TestScheduler_NextDueOrder(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewScheduler()
	s.now = func() time.Time { return now }
	s.AfterFunc(2*time.Second, func() {})
	b := s.AfterFunc(time.Second, func() {})
	c := s.AfterFunc(time.Second, func() {})

	id, due, ok := s.nextDue()
	require.True(t, ok)
	assert.Equal(t, b, id)
	assert.Equal(t, now.Add(time.Second), due)

	s.fire(b)
	id, _, _ = s.nextDue()
	assert.Equal(t, c, id)
}
