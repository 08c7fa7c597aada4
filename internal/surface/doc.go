// Package surface provides the render target stages draw into.
//
// The package defines the abstract surface and a terminal implementation:
//
//   - [Surface]: append/clear/style primitives plus animation-completion
//     subscription
//   - [Node]: one rendered element (rich text, style, optional absolute
//     position, animation classes)
//   - [Screen]: an in-memory terminal surface rendered with lipgloss
//   - [Canvas]: the cell grid a Screen composes frames on
//   - [Printer]: writes Screen frames to a plain ANSI terminal
//
// # Animations
//
// Node classes that name a keyframed effect (animate.css names such as
// "zoomInDown" or "bounce") animate when the node is appended. Modifier
// classes ("faster", "slow", "delay-2s") change timing. The screen emits one
// completion signal per keyframed effect through its [clock.Scheduler].
package surface
