package tui

import (
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/stageshow/internal/sequence"
	"github.com/san-kum/stageshow/internal/surface"
)

// RunMsg carries work from other goroutines onto the event loop.
type RunMsg func()

type frameMsg time.Time

type Options struct {
	FPS int
	// QuitOnFinish ends the program once the chain finishes or fails.
	QuitOnFinish bool
}

// Model plays a sequence on a Screen. The sequence and screen must have been
// built with the model's Scheduler.
type Model struct {
	screen *surface.Screen
	sched  *Scheduler
	seq    *sequence.Sequencer
	opts   Options

	mu      sync.Mutex
	program *tea.Program

	started  bool
	quitting bool
	err      error
}

func New(screen *surface.Screen, sched *Scheduler, seq *sequence.Sequencer, opts Options) *Model {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	return &Model{screen: screen, sched: sched, seq: seq, opts: opts}
}

// Attach sets the program that Dispatch sends to.
func (m *Model) Attach(p *tea.Program) {
	m.mu.Lock()
	m.program = p
	m.mu.Unlock()
}

// Dispatch runs fn inside Update. Safe from any goroutine.
func (m *Model) Dispatch(fn func()) {
	m.mu.Lock()
	p := m.program
	m.mu.Unlock()
	if p == nil {
		slog.Warn("dispatch before program attached")
		return
	}
	p.Send(RunMsg(fn))
}

// Err returns the error that ended the show, if any.
func (m *Model) Err() error { return m.err }

func (m *Model) Init() tea.Cmd {
	m.started = true
	if err := m.seq.Start(); err != nil {
		m.err = err
		m.quitting = true
		return tea.Quit
	}
	return tea.Batch(m.sched.drain(), m.frame())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case timerMsg:
		m.sched.fire(msg.id)
	case RunMsg:
		msg()
	case frameMsg:
		if !m.quitting {
			cmd = m.frame()
		}
	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	}

	if !m.quitting && m.opts.QuitOnFinish {
		switch m.seq.State() {
		case sequence.Finished:
			m.quitting = true
			cmd = tea.Quit
		case sequence.Failed:
			m.err = m.seq.Err()
			m.quitting = true
			cmd = tea.Quit
		}
	}
	return m, tea.Batch(cmd, m.sched.drain())
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m.quit()
	case tea.KeyEnter:
		m.screen.Submit()
	case tea.KeyBackspace:
		m.screen.Backspace()
	case tea.KeySpace:
		m.screen.Type(' ')
	case tea.KeyRunes:
		if !m.screen.Focused() && msg.String() == "q" {
			return m.quit()
		}
		m.screen.Type(msg.Runes...)
	}
	return nil
}

func (m *Model) quit() tea.Cmd {
	if m.seq.State() == sequence.Running {
		m.seq.Stop()
	}
	m.quitting = true
	return tea.Quit
}

func (m *Model) frame() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	return m.screen.View()
}
