package stage

import (
	"github.com/san-kum/stageshow/internal/clock"
	"github.com/san-kum/stageshow/internal/surface"
)

// Advance ends the current stage and activates the next one. The sequencer
// guards it, so only the first call per activation has an effect.
type Advance func()

// Env is what a stage may touch while it is active.
type Env struct {
	Surface surface.Surface
	Clock   clock.Scheduler
}

// Stage is one unit of a show.
type Stage interface {
	Name() string
	// Begin renders the stage and arranges for advance to be called once
	// the stage's completion condition is met. It returns immediately.
	Begin(env Env, advance Advance) error
	// CleanUp removes everything Begin put on the surface and cancels any
	// pending timers. It is safe to call more than once.
	CleanUp()
}
