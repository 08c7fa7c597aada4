package stage

import (
	"strings"
	"time"

	"github.com/san-kum/stageshow/internal/clock"
	"github.com/san-kum/stageshow/internal/surface"
)

const (
	DefaultDelay = time.Second
	DefaultColor = "#000000"
)

// TextOptions configures a Text stage. Zero Color and FontSize take the
// defaults; a zero Delay means "advance immediately", so start from
// DefaultTextOptions when the default delay is wanted.
type TextOptions struct {
	Content    string
	Color      string
	FontSize   surface.Size
	Delay      time.Duration
	Animations []string
	// SideEffect runs once per activation, after the content is on the
	// surface and the completion trigger is armed.
	SideEffect func()
	// Hold disables the completion trigger; the stage stays until the
	// sequence is torn down.
	Hold bool
}

func DefaultTextOptions() TextOptions {
	return TextOptions{
		Color:    DefaultColor,
		FontSize: surface.DefaultSize,
		Delay:    DefaultDelay,
	}
}

// Text renders one block of styled text and advances after a delay. With
// animations configured, the delay starts when the first animation
// completion signal arrives instead of at render time.
type Text struct {
	name string
	opts TextOptions

	env       Env
	active    bool
	node      *surface.Node
	timer     clock.Handle
	triggered bool
}

func NewText(name string, opts TextOptions) *Text {
	if opts.Color == "" {
		opts.Color = DefaultColor
	}
	if opts.FontSize == 0 {
		opts.FontSize = surface.DefaultSize
	}
	opts.Animations = append([]string(nil), opts.Animations...)
	return &Text{name: name, opts: opts}
}

func (t *Text) Name() string { return t.name }

// Options returns a copy of the stage configuration.
func (t *Text) Options() TextOptions {
	o := t.opts
	o.Animations = append([]string(nil), t.opts.Animations...)
	return o
}

func (t *Text) Begin(env Env, advance Advance) error {
	if err := t.validate(env); err != nil {
		return err
	}
	content, err := surface.ParseMarkup(t.opts.Content)
	if err != nil {
		return violation(t.name, err)
	}

	t.env, t.active, t.triggered = env, true, false
	t.node = surface.NewText(content, surface.Style{
		Foreground: t.opts.Color,
		Size:       t.opts.FontSize,
	})
	t.node.ID = t.name

	fire := func() {
		t.timer = 0
		if t.active {
			advance()
		}
	}

	// Held stages animate but never arm the timer.
	if len(t.opts.Animations) > 0 {
		t.node.AddClass(surface.AnimatedClass)
		t.node.AddClass(t.opts.Animations...)
		env.Surface.OnAnimationComplete(t.node, func(string) {
			if t.triggered || !t.active {
				return
			}
			t.triggered = true
			if !t.opts.Hold {
				t.timer = env.Clock.AfterFunc(t.opts.Delay, fire)
			}
		})
	}
	env.Surface.Append(t.node)
	if len(t.opts.Animations) == 0 && !t.opts.Hold {
		t.timer = env.Clock.AfterFunc(t.opts.Delay, fire)
	}

	if t.opts.SideEffect != nil {
		t.opts.SideEffect()
	}
	return nil
}

func (t *Text) CleanUp() {
	if t.timer != 0 && t.env.Clock != nil {
		t.env.Clock.Cancel(t.timer)
	}
	if t.env.Surface != nil {
		t.env.Surface.Clear()
	}
	t.timer = 0
	t.active = false
	t.node = nil
	t.env = Env{}
}

// Active reports whether Begin ran and CleanUp has not.
func (t *Text) Active() bool { return t.active }

func (t *Text) validate(env Env) error {
	switch {
	case t.active:
		return violation(t.name, ErrActive)
	case env.Surface == nil || env.Clock == nil:
		return violation(t.name, ErrNoEnv)
	case strings.TrimSpace(t.opts.Content) == "":
		return violation(t.name, ErrMissingContent)
	case t.opts.Delay < 0:
		return violation(t.name, ErrNegativeDelay)
	case len(t.opts.Animations) > 0 && !env.Surface.CanAnimate(t.opts.Animations):
		return violation(t.name, ErrUnknownAnimation)
	}
	return nil
}
