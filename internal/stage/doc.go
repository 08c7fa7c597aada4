// Package stage defines the unit of a show and its two reusable variants.
//
//   - [Stage]: the contract every stage implements (Begin, CleanUp)
//   - [Text]: renders a styled text block, waits a fixed delay or until its
//     animation completes, then advances
//   - [Banner]: a bouncing, color-cycling label driven by three independent
//     timer chains for a fixed duration
//
// A stage receives its render target and scheduler in [Env] when it begins
// and keeps them only until CleanUp. Stages never block: all waiting is done
// through the scheduler.
package stage
