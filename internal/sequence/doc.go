// Package sequence chains stages into a show.
//
// A [Sequencer] owns an ordered list of stages and hands each one a guarded
// advance closure when it begins. The first call to that closure cleans up
// the current stage and begins the next; later calls are ignored. After the
// last stage the sequencer reaches an explicit terminal state and runs the
// finalizer supplied with [WithFinalizer].
//
// The sequencer holds no timers and renders nothing. It must be driven from
// the goroutine its stages' scheduler runs callbacks on.
package sequence
