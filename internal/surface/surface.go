package surface

// Surface is the mutable display a stage draws into. A surface is owned by
// exactly one active stage at a time; implementations need not be safe for
// concurrent use.
type Surface interface {
	// Append adds n to the surface. Keyframed classes start animating now.
	Append(n *Node)
	// Remove detaches a single node.
	Remove(n *Node)
	// Clear removes every node and pending animation signal.
	Clear()
	// SetStyle overrides the surface-level style (background, default text).
	SetStyle(s Style)
	// ClearStyle drops the override set by SetStyle.
	ClearStyle()
	// Bounds returns the surface size in cells.
	Bounds() (w, h int)
	// Measure returns the size in cells n occupies when drawn.
	Measure(n *Node) (w, h int)
	// OnAnimationComplete subscribes fn to n's completion signals. fn runs
	// once per keyframed effect, with the effect name.
	OnAnimationComplete(n *Node, fn func(effect string))
	// CanAnimate reports whether classes contain an effect this surface
	// emits completion signals for.
	CanAnimate(classes []string) bool
}
