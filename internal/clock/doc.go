// Package clock provides the timing primitives stages are scheduled on.
//
// Every [Scheduler] runs its callbacks on a single goroutine, so stage code
// never needs locks:
//
//   - [Manual]: virtual time, advanced explicitly (tests, dry runs)
//   - [Loop]: real time, callbacks run on the goroutine inside [Loop.Run]
//
// The bubbletea host in internal/tui provides a third implementation that
// runs callbacks inside the program's Update.
//
// # Example
//
//	c := clock.NewManual(time.Time{})
//	c.AfterFunc(100*time.Millisecond, func() { fmt.Println("fired") })
//	c.Advance(100 * time.Millisecond) // prints "fired"
package clock
