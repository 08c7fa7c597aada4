package stage

import (
	"errors"
	"fmt"
)

// Contract violations, reported by Begin.
var (
	// ErrMissingContent indicates a text stage with nothing to show.
	ErrMissingContent = errors.New("stage: missing content")

	// ErrNegativeDelay indicates a delay below zero.
	ErrNegativeDelay = errors.New("stage: negative delay")

	// ErrUnknownAnimation indicates animation names the surface cannot
	// signal completion for, which would stall the stage forever.
	ErrUnknownAnimation = errors.New("stage: no known animation effect")

	// ErrLabelCount indicates a banner without exactly three labels.
	ErrLabelCount = errors.New("stage: banner needs exactly three labels")

	// ErrNonPositiveDuration indicates a banner with no lifetime.
	ErrNonPositiveDuration = errors.New("stage: duration must be positive")

	// ErrNoEnv indicates Begin was called without a surface or clock.
	ErrNoEnv = errors.New("stage: missing surface or clock")

	// ErrActive indicates Begin was called on a stage that is already active.
	ErrActive = errors.New("stage: already active")
)

// ContractError wraps a contract violation with the offending stage.
type ContractError struct {
	Stage   string
	Wrapped error
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("stage %q: %v", e.Stage, e.Wrapped)
}

func (e *ContractError) Unwrap() error {
	return e.Wrapped
}

func violation(name string, err error) error {
	return &ContractError{Stage: name, Wrapped: err}
}
