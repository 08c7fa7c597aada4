package stage

import (
	"math"
	"time"

	"github.com/san-kum/stageshow/internal/clock"
	"github.com/san-kum/stageshow/internal/surface"
)

// Growth factors applied on every motion tick.
const (
	compactSpeedGrowth = 1.015
	compactFontGrowth  = 1.005
	speedGrowth        = 1.005
	fontGrowth         = 1.002
)

const (
	lightColor = "#ffffff"
	darkColor  = "#000000"
)

// BannerOptions configures a Banner stage.
type BannerOptions struct {
	Labels            []string
	Duration          time.Duration
	FrameInterval     time.Duration
	PaletteInterval   time.Duration
	LabelInterval     time.Duration
	LabelAcceleration float64
	// InitialSpeed is in cells per motion tick.
	InitialSpeed float64
	FontSize     float64
	// Compact selects the faster growth used on small devices. It is
	// resolved by the caller; the stage never inspects the host.
	Compact bool
	// MaxSpeed and MaxFontSize clamp growth when positive.
	MaxSpeed    float64
	MaxFontSize float64
}

func DefaultBannerOptions() BannerOptions {
	return BannerOptions{
		Labels:            []string{"BUILD", "MAKE", "DO"},
		Duration:          15500 * time.Millisecond,
		FrameInterval:     time.Second / 60,
		PaletteInterval:   time.Second / 2,
		LabelInterval:     time.Second / 3,
		LabelAcceleration: 1.005,
		InitialSpeed:      0.25,
		FontSize:          48,
	}
}

// BannerStats counts the updates a Banner activation performed.
type BannerStats struct {
	Frames   int
	Palettes int
	Labels   int
}

type bannerRun struct {
	node        *surface.Node
	x, y        float64
	dirX, dirY  float64
	speed       float64
	fontSize    float64
	inverted    bool
	label       int
	labelPeriod time.Duration

	frame, palette, text, master clock.Handle
	stopped                      bool
}

// Banner bounces a cycling label around the surface. Motion, palette and
// label updates run on three independent re-arming timers; a master timer
// cancels all three together after Duration and advances.
type Banner struct {
	name    string
	opts    BannerOptions
	env     Env
	advance Advance
	run     *bannerRun
	stats   BannerStats
}

func NewBanner(name string, opts BannerOptions) *Banner {
	d := DefaultBannerOptions()
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = d.FrameInterval
	}
	if opts.PaletteInterval <= 0 {
		opts.PaletteInterval = d.PaletteInterval
	}
	if opts.LabelInterval <= 0 {
		opts.LabelInterval = d.LabelInterval
	}
	if opts.LabelAcceleration <= 0 {
		opts.LabelAcceleration = d.LabelAcceleration
	}
	if opts.InitialSpeed <= 0 {
		opts.InitialSpeed = d.InitialSpeed
	}
	if opts.FontSize <= 0 {
		opts.FontSize = d.FontSize
	}
	opts.Labels = append([]string(nil), opts.Labels...)
	return &Banner{name: name, opts: opts}
}

func (b *Banner) Name() string { return b.name }

func (b *Banner) Options() BannerOptions {
	o := b.opts
	o.Labels = append([]string(nil), b.opts.Labels...)
	return o
}

// Stats returns the update counts of the latest activation.
func (b *Banner) Stats() BannerStats { return b.stats }

// Running reports whether the periodic updates are still scheduled.
func (b *Banner) Running() bool { return b.run != nil && !b.run.stopped }

func (b *Banner) Begin(env Env, advance Advance) error {
	switch {
	case b.run != nil:
		return violation(b.name, ErrActive)
	case env.Surface == nil || env.Clock == nil:
		return violation(b.name, ErrNoEnv)
	case len(b.opts.Labels) != 3:
		return violation(b.name, ErrLabelCount)
	case b.opts.Duration <= 0:
		return violation(b.name, ErrNonPositiveDuration)
	}

	b.env, b.advance, b.stats = env, advance, BannerStats{}
	r := &bannerRun{
		dirX:        1,
		dirY:        1,
		speed:       b.opts.InitialSpeed,
		fontSize:    b.opts.FontSize,
		labelPeriod: b.opts.LabelInterval,
	}
	r.node = surface.NewText(surface.Plain(b.opts.Labels[0]), surface.Style{})
	r.node.ID = b.name
	r.node.Position = &surface.Point{}
	b.run = r

	b.render()
	env.Surface.Append(r.node)

	r.frame = env.Clock.AfterFunc(b.opts.FrameInterval, b.frameTick)
	r.palette = env.Clock.AfterFunc(b.opts.PaletteInterval, b.paletteTick)
	r.text = env.Clock.AfterFunc(r.labelPeriod, b.labelTick)
	r.master = env.Clock.AfterFunc(b.opts.Duration, b.finish)
	return nil
}

func (b *Banner) CleanUp() {
	if b.run == nil {
		return
	}
	b.stop()
	b.env.Clock.Cancel(b.run.master)
	b.env.Surface.Remove(b.run.node)
	b.env.Surface.ClearStyle()
	b.run = nil
	b.env = Env{}
	b.advance = nil
}

func (b *Banner) frameTick() {
	r := b.run
	if r == nil || r.stopped {
		return
	}
	w, h := b.env.Surface.Measure(r.node)
	sw, sh := b.env.Surface.Bounds()

	if r.x+float64(w) > float64(sw) {
		r.dirX = -1
	}
	if r.x <= 0 {
		r.dirX = 1
	}
	if r.y+float64(h) > float64(sh) {
		r.dirY = -1
	}
	if r.y <= 0 {
		r.dirY = 1
	}

	r.x += r.dirX * r.speed
	r.y += r.dirY * r.speed

	if b.opts.Compact {
		r.speed *= compactSpeedGrowth
		r.fontSize *= compactFontGrowth
	} else {
		r.speed *= speedGrowth
		r.fontSize *= fontGrowth
	}
	if b.opts.MaxSpeed > 0 {
		r.speed = math.Min(r.speed, b.opts.MaxSpeed)
	}
	if b.opts.MaxFontSize > 0 {
		r.fontSize = math.Min(r.fontSize, b.opts.MaxFontSize)
	}

	b.stats.Frames++
	b.render()
	r.frame = b.env.Clock.AfterFunc(b.opts.FrameInterval, b.frameTick)
}

func (b *Banner) paletteTick() {
	r := b.run
	if r == nil || r.stopped {
		return
	}
	r.inverted = !r.inverted
	b.stats.Palettes++
	b.render()
	r.palette = b.env.Clock.AfterFunc(b.opts.PaletteInterval, b.paletteTick)
}

func (b *Banner) labelTick() {
	r := b.run
	if r == nil || r.stopped {
		return
	}
	r.label = (r.label + 1) % len(b.opts.Labels)
	r.node.SetText(b.opts.Labels[r.label])
	b.stats.Labels++

	r.labelPeriod = time.Duration(float64(r.labelPeriod) / b.opts.LabelAcceleration)
	if r.labelPeriod < time.Millisecond {
		r.labelPeriod = time.Millisecond
	}
	r.text = b.env.Clock.AfterFunc(r.labelPeriod, b.labelTick)
}

func (b *Banner) finish() {
	if b.run == nil || b.run.stopped {
		return
	}
	b.stop()
	b.advance()
}

// stop cancels the three periodic chains as a unit.
func (b *Banner) stop() {
	r := b.run
	if r.stopped {
		return
	}
	r.stopped = true
	for _, h := range []clock.Handle{r.frame, r.palette, r.text} {
		b.env.Clock.Cancel(h)
	}
}

func (b *Banner) render() {
	r := b.run
	fg, bg, bold := lightColor, darkColor, false
	if r.inverted {
		fg, bg, bold = darkColor, lightColor, true
	}
	r.node.Position = &surface.Point{X: r.x, Y: r.y}
	r.node.Style = surface.Style{Foreground: fg, Bold: bold, Size: surface.Size(r.fontSize)}
	b.env.Surface.SetStyle(surface.Style{Background: bg})
}
