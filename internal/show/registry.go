package show

import (
	"fmt"
	"sort"
	"time"

	"github.com/san-kum/stageshow/internal/config"
	"github.com/san-kum/stageshow/internal/stage"
	"github.com/san-kum/stageshow/internal/surface"
)

// Deps carries what the stage factories need from the host.
type Deps struct {
	// Signup builds the side effect for a signup stage. The stage's node
	// carries the stage name as its ID. Nil leaves signup stages inert.
	Signup func(nodeID, placeholder string) func()
}

// Factory builds one stage from its script entry.
type Factory func(cfg *config.Config, sc config.StageConfig, deps Deps) (stage.Stage, error)

type Registry struct {
	kinds map[string]Factory
}

func NewRegistry() *Registry {
	r := &Registry{kinds: make(map[string]Factory)}
	r.kinds[config.KindText] = newText
	r.kinds[config.KindBanner] = newBanner
	r.kinds[config.KindSignup] = newSignup
	return r
}

func (r *Registry) Register(kind string, f Factory) {
	r.kinds[kind] = f
}

func (r *Registry) Get(kind string) (Factory, error) {
	f, ok := r.kinds[kind]
	if !ok {
		return nil, fmt.Errorf("unknown stage kind: %s", kind)
	}
	return f, nil
}

func (r *Registry) ListKinds() []string {
	names := make([]string, 0, len(r.kinds))
	for k := range r.kinds {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Build validates cfg and constructs its stages in order.
func (r *Registry) Build(cfg *config.Config, deps Deps) ([]stage.Stage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid script %q: %w", cfg.Name, err)
	}
	stages := make([]stage.Stage, 0, len(cfg.Stages))
	for i, sc := range cfg.Stages {
		f, err := r.Get(sc.Kind)
		if err != nil {
			return nil, fmt.Errorf("stage %d: %w", i, err)
		}
		st, err := f(cfg, sc, deps)
		if err != nil {
			return nil, fmt.Errorf("stage %d (%s): %w", i, sc.Name, err)
		}
		stages = append(stages, st)
	}
	return stages, nil
}

// Build uses the default registry.
func Build(cfg *config.Config, deps Deps) ([]stage.Stage, error) {
	return NewRegistry().Build(cfg, deps)
}

func textOptions(sc config.StageConfig) (stage.TextOptions, error) {
	opts := stage.DefaultTextOptions()
	opts.Content = sc.Content
	if sc.Color != "" {
		c, err := surface.NormalizeColor(sc.Color)
		if err != nil {
			return opts, err
		}
		opts.Color = c
	}
	if sc.FontSize != "" {
		sz, err := surface.ParseSize(sc.FontSize)
		if err != nil {
			return opts, err
		}
		opts.FontSize = sz
	}
	opts.Delay = time.Duration(sc.Delay()) * time.Millisecond
	opts.Animations = append([]string(nil), sc.Animate...)
	opts.Hold = sc.Hold
	return opts, nil
}

func newText(_ *config.Config, sc config.StageConfig, _ Deps) (stage.Stage, error) {
	opts, err := textOptions(sc)
	if err != nil {
		return nil, err
	}
	return stage.NewText(sc.Name, opts), nil
}

func newSignup(_ *config.Config, sc config.StageConfig, deps Deps) (stage.Stage, error) {
	opts, err := textOptions(sc)
	if err != nil {
		return nil, err
	}
	opts.Hold = true
	if deps.Signup != nil {
		opts.SideEffect = deps.Signup(sc.Name, sc.Placeholder)
	}
	return stage.NewText(sc.Name, opts), nil
}

// BannerOptions merges the script's banner defaults with one stage's
// overrides.
func BannerOptions(cfg *config.Config, sc config.StageConfig) stage.BannerOptions {
	opts := stage.DefaultBannerOptions()
	b := cfg.Banner
	if b.Labels != nil {
		opts.Labels = b.Labels
	}
	if b.DurationMs > 0 {
		opts.Duration = time.Duration(b.DurationMs) * time.Millisecond
	}
	if b.InitialSpeed > 0 {
		opts.InitialSpeed = b.InitialSpeed
	}
	if b.FontSize > 0 {
		opts.FontSize = b.FontSize
	}
	opts.MaxSpeed = b.MaxSpeed
	opts.MaxFontSize = b.MaxFontSize

	if sc.Labels != nil {
		opts.Labels = sc.Labels
	}
	if sc.DurationMs > 0 {
		opts.Duration = time.Duration(sc.DurationMs) * time.Millisecond
	}
	opts.Compact = cfg.Compact
	return opts
}

func newBanner(cfg *config.Config, sc config.StageConfig, _ Deps) (stage.Stage, error) {
	return stage.NewBanner(sc.Name, BannerOptions(cfg, sc)), nil
}
