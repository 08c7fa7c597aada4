package sequence

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/san-kum/stageshow/internal/stage"
)

var (
	// ErrEmpty indicates a sequence without stages.
	ErrEmpty = errors.New("sequence: no stages")

	// ErrStarted indicates Start was called twice.
	ErrStarted = errors.New("sequence: already started")

	// ErrStopped is handed to the finalizer when Stop tears the chain down.
	ErrStopped = errors.New("sequence: stopped")
)

// State is the lifecycle position of a sequence.
type State int

const (
	Idle State = iota
	Running
	Finished
	Failed
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Finished:
		return "finished"
	case Failed:
		return "failed"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Transition describes one hand-over. From is empty for the first stage, To
// is empty when the chain ends.
type Transition struct {
	From  string
	To    string
	Index int
	At    time.Time
}

type Option func(*Sequencer)

// WithFinalizer sets the terminal action. It runs once, with nil after the
// last stage advances, the Begin error when a stage fails, or ErrStopped.
func WithFinalizer(fn func(error)) Option {
	return func(s *Sequencer) { s.finalize = fn }
}

// WithObserver registers fn for every transition.
func WithObserver(fn func(Transition)) Option {
	return func(s *Sequencer) { s.observers = append(s.observers, fn) }
}

// WithLogger replaces slog.Default for lifecycle and failure records.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sequencer) { s.log = l }
}

type Sequencer struct {
	stages    []stage.Stage
	env       stage.Env
	state     State
	active    int
	err       error
	ignored   int
	finalize  func(error)
	observers []func(Transition)
	log       *slog.Logger
	done      chan struct{}
}

func New(stages []stage.Stage, env stage.Env, opts ...Option) *Sequencer {
	s := &Sequencer{
		stages: append([]stage.Stage(nil), stages...),
		env:    env,
		active: -1,
		log:    slog.Default(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the first stage. A Begin failure is returned and also
// reported to the finalizer.
func (s *Sequencer) Start() error {
	if s.state != Idle {
		return ErrStarted
	}
	if len(s.stages) == 0 {
		s.state = Failed
		s.err = ErrEmpty
		s.end(ErrEmpty)
		return ErrEmpty
	}
	s.state = Running
	return s.activate(0)
}

// Stop cleans up the active stage and ends the chain early.
func (s *Sequencer) Stop() {
	if s.state != Running {
		return
	}
	s.state = Stopped
	s.stages[s.active].CleanUp()
	s.log.Debug("sequence stopped", "stage", s.stages[s.active].Name())
	s.end(ErrStopped)
}

func (s *Sequencer) State() State { return s.state }

// Active returns the active stage and its index, or nil and -1.
func (s *Sequencer) Active() (stage.Stage, int) {
	if s.state != Running || s.active < 0 {
		return nil, -1
	}
	return s.stages[s.active], s.active
}

// Err returns the failure that ended the chain, if any.
func (s *Sequencer) Err() error { return s.err }

// IgnoredAdvances counts advance calls that arrived after the first one of
// their activation.
func (s *Sequencer) IgnoredAdvances() int { return s.ignored }

// Done is closed when the chain reaches a terminal state.
func (s *Sequencer) Done() <-chan struct{} { return s.done }

func (s *Sequencer) Len() int { return len(s.stages) }

func (s *Sequencer) activate(i int) error {
	from := ""
	if s.active >= 0 {
		from = s.stages[s.active].Name()
	}
	s.active = i
	st := s.stages[i]
	s.notify(Transition{From: from, To: st.Name(), Index: i})

	if err := st.Begin(s.env, s.advanceFor(i)); err != nil {
		err = fmt.Errorf("sequence: stage %d (%s): %w", i, st.Name(), err)
		s.state = Failed
		s.err = err
		st.CleanUp()
		s.log.Error("stage failed to begin", "stage", st.Name(), "index", i, "err", err)
		s.end(err)
		return err
	}
	s.log.Debug("stage began", "stage", st.Name(), "index", i)
	return nil
}

func (s *Sequencer) advanceFor(i int) stage.Advance {
	var fired atomic.Bool
	return func() {
		if !fired.CompareAndSwap(false, true) || s.state != Running || s.active != i {
			s.ignored++
			s.log.Debug("ignored advance", "index", i)
			return
		}

		cur := s.stages[i]
		cur.CleanUp()

		if i+1 == len(s.stages) {
			s.state = Finished
			s.notify(Transition{From: cur.Name(), Index: len(s.stages)})
			s.log.Debug("sequence finished", "stages", len(s.stages))
			s.end(nil)
			return
		}
		_ = s.activate(i + 1)
	}
}

func (s *Sequencer) notify(t Transition) {
	if s.env.Clock != nil {
		t.At = s.env.Clock.Now()
	}
	for _, fn := range s.observers {
		fn(t)
	}
}

func (s *Sequencer) end(err error) {
	close(s.done)
	if s.finalize != nil {
		s.finalize(err)
	}
}
