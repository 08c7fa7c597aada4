package surface

import (
	"slices"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/stageshow/internal/clock"
)

type animation struct {
	start    time.Time
	delay    time.Duration
	duration time.Duration
	effects  []Effect
	handles  []clock.Handle
	subs     []func(string)
	done     int
}

// Screen is a terminal surface. It keeps the node list and surface style in
// memory and composes a frame on demand with View. Animation completion
// signals are scheduled on the Screen's clock, so a Screen must only be used
// from that clock's goroutine.
type Screen struct {
	width, height int
	clock         clock.Scheduler
	theme         Theme
	nodes         []*Node
	override      *Style
	anims         map[*Node]*animation
	focus         *Node
	onSubmit      func(string)
	canvas        *Canvas
}

func NewScreen(w, h int, c clock.Scheduler, theme Theme) *Screen {
	return &Screen{
		width:  w,
		height: h,
		clock:  c,
		theme:  theme,
		anims:  make(map[*Node]*animation),
		canvas: NewCanvas(w, h),
	}
}

func (s *Screen) Append(n *Node) {
	s.nodes = append(s.nodes, n)

	effects := Keyframed(n.Classes)
	if len(effects) == 0 {
		return
	}
	a := s.anim(n)
	a.duration, a.delay = Timing(n.Classes)
	a.start = s.clock.Now()
	a.effects = effects
	for _, e := range effects {
		name := e.Name
		a.handles = append(a.handles, s.clock.AfterFunc(a.delay+a.duration, func() {
			s.complete(n, name)
		}))
	}
}

func (s *Screen) Remove(n *Node) {
	s.cancelAnim(n)
	s.nodes = slices.DeleteFunc(s.nodes, func(m *Node) bool { return m == n })
	if s.focus == n {
		s.focus, s.onSubmit = nil, nil
	}
}

func (s *Screen) Clear() {
	for n := range s.anims {
		s.cancelAnim(n)
	}
	s.nodes = nil
	s.focus, s.onSubmit = nil, nil
}

func (s *Screen) SetStyle(st Style) { s.override = &st }
func (s *Screen) ClearStyle()       { s.override = nil }

func (s *Screen) Bounds() (int, int) { return s.width, s.height }

// Resize changes the surface size; nodes keep their positions.
func (s *Screen) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	s.width, s.height = w, h
	s.canvas = NewCanvas(w, h)
}

func (s *Screen) Measure(n *Node) (int, int) {
	k := n.Style.Merge(Style{Size: DefaultSize}).Size.Scale()
	w := 0
	for _, l := range n.Content {
		if lw := lipgloss.Width(l.String()) * k; lw > w {
			w = lw
		}
	}
	h := len(n.Content) * k
	if n.Field != nil {
		if fw := lipgloss.Width(fieldText(n.Field)) + 4; fw > w {
			w = fw
		}
		h += 2
		if n.Field.Status != "" {
			h++
		}
	}
	return w, h
}

func (s *Screen) OnAnimationComplete(n *Node, fn func(string)) {
	a := s.anim(n)
	a.subs = append(a.subs, fn)
}

func (s *Screen) CanAnimate(classes []string) bool {
	return len(Keyframed(classes)) > 0
}

// Nodes returns the nodes currently on the surface, in append order.
func (s *Screen) Nodes() []*Node {
	return slices.Clone(s.nodes)
}

// Find returns the first node with the given ID.
func (s *Screen) Find(id string) *Node {
	for _, n := range s.nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// Empty reports whether the surface has no content and no style override.
func (s *Screen) Empty() bool {
	return len(s.nodes) == 0 && s.override == nil
}

// Style returns the effective surface style.
func (s *Screen) Style() Style {
	base := Style{Foreground: s.theme.Foreground, Background: s.theme.Background}
	if s.override == nil {
		return base
	}
	return s.override.Merge(base)
}

// Overridden reports whether a stage set a surface-level style.
func (s *Screen) Overridden() bool { return s.override != nil }

// Animating reports whether n has completion signals still pending.
func (s *Screen) Animating(n *Node) bool {
	a, ok := s.anims[n]
	return ok && len(a.handles) > a.done
}

// Focus routes typed input to n's field; submit runs on Submit.
func (s *Screen) Focus(n *Node, submit func(string)) {
	if n.Field == nil {
		n.Field = &Field{}
	}
	s.focus, s.onSubmit = n, submit
}

// Focused reports whether an input field is accepting keys.
func (s *Screen) Focused() bool { return s.focus != nil }

// Type appends runes to the focused field.
func (s *Screen) Type(r ...rune) {
	if s.focus == nil {
		return
	}
	s.focus.Field.Value += string(r)
}

// SetInput replaces the focused field's value.
func (s *Screen) SetInput(v string) {
	if s.focus == nil {
		return
	}
	s.focus.Field.Value = v
}

// Backspace deletes the last rune of the focused field.
func (s *Screen) Backspace() {
	if s.focus == nil {
		return
	}
	v := []rune(s.focus.Field.Value)
	if len(v) > 0 {
		s.focus.Field.Value = string(v[:len(v)-1])
	}
}

// Submit hands the focused field's value to the submit callback.
func (s *Screen) Submit() {
	if s.focus == nil || s.onSubmit == nil {
		return
	}
	s.onSubmit(s.focus.Field.Value)
}

func (s *Screen) anim(n *Node) *animation {
	a, ok := s.anims[n]
	if !ok {
		a = &animation{}
		s.anims[n] = a
	}
	return a
}

func (s *Screen) complete(n *Node, effect string) {
	a, ok := s.anims[n]
	if !ok {
		return
	}
	a.done++
	for _, fn := range slices.Clone(a.subs) {
		fn(effect)
	}
}

func (s *Screen) cancelAnim(n *Node) {
	a, ok := s.anims[n]
	if !ok {
		return
	}
	for _, h := range a.handles {
		s.clock.Cancel(h)
	}
	delete(s.anims, n)
}

// progress returns how far n's animation has run, or -1 when n is not
// animating.
func (s *Screen) progress(n *Node) float64 {
	a, ok := s.anims[n]
	if !ok || len(a.effects) == 0 || a.duration <= 0 {
		return -1
	}
	elapsed := s.clock.Now().Sub(a.start) - a.delay
	if elapsed < 0 {
		return 0
	}
	p := float64(elapsed) / float64(a.duration)
	if p >= 1 {
		return -1
	}
	return p
}
