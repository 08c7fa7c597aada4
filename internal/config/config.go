package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/stageshow/internal/surface"
)

const (
	DefaultWidth    = 80
	DefaultHeight   = 24
	DefaultTheme    = "paper"
	DefaultEndpoint = "http://localhost:8080/ping"
	DefaultDelayMs  = 1000
	DefaultPreset   = "hacktheplanet"
)

// Stage kinds understood by the show builder.
const (
	KindText   = "text"
	KindBanner = "banner"
	KindSignup = "signup"
)

// Config is a show script.
type Config struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Theme       string        `yaml:"theme"`
	Compact     bool          `yaml:"compact"`
	Endpoint    string        `yaml:"endpoint"`
	Surface     SurfaceConfig `yaml:"surface"`
	Banner      BannerConfig  `yaml:"banner"`
	Stages      []StageConfig `yaml:"stages"`
}

type SurfaceConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// BannerConfig holds defaults for every banner stage in the script.
type BannerConfig struct {
	Labels       []string `yaml:"labels,omitempty"`
	DurationMs   int      `yaml:"duration_ms,omitempty"`
	InitialSpeed float64  `yaml:"initial_speed,omitempty"`
	FontSize     float64  `yaml:"font_size,omitempty"`
	MaxSpeed     float64  `yaml:"max_speed,omitempty"`
	MaxFontSize  float64  `yaml:"max_font_size,omitempty"`
}

type StageConfig struct {
	Kind     string   `yaml:"kind"`
	Name     string   `yaml:"name"`
	Content  string   `yaml:"content,omitempty"`
	Color    string   `yaml:"color,omitempty"`
	FontSize string   `yaml:"font_size,omitempty"`
	DelayMs  *int     `yaml:"delay_ms,omitempty"`
	Animate  []string `yaml:"animate,omitempty"`
	Hold     bool     `yaml:"hold,omitempty"`

	// banner overrides
	Labels     []string `yaml:"labels,omitempty"`
	DurationMs int      `yaml:"duration_ms,omitempty"`

	// signup
	Placeholder string `yaml:"placeholder,omitempty"`
}

// Delay returns the configured delay in milliseconds, or the default.
func (s StageConfig) Delay() int {
	if s.DelayMs == nil {
		return DefaultDelayMs
	}
	return *s.DelayMs
}

func DefaultConfig() *Config {
	return &Config{
		Name:     "untitled",
		Theme:    DefaultTheme,
		Endpoint: DefaultEndpoint,
		Surface: SurfaceConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a script on top of the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every problem in the script at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Surface.Width <= 0 || c.Surface.Height <= 0 {
		errs = append(errs, fmt.Errorf("surface: size must be positive, got %dx%d", c.Surface.Width, c.Surface.Height))
	}
	if len(c.Stages) == 0 {
		errs = append(errs, errors.New("no stages"))
	}
	if c.Banner.Labels != nil && len(c.Banner.Labels) != 3 {
		errs = append(errs, fmt.Errorf("banner: need exactly 3 labels, got %d", len(c.Banner.Labels)))
	}

	seen := make(map[string]bool)
	for i, s := range c.Stages {
		where := fmt.Sprintf("stage %d (%s)", i, s.Name)
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("stage %d: missing name", i))
		} else if seen[s.Name] {
			errs = append(errs, fmt.Errorf("%s: duplicate name", where))
		}
		seen[s.Name] = true

		switch s.Kind {
		case KindText, KindSignup:
			if strings.TrimSpace(s.Content) == "" {
				errs = append(errs, fmt.Errorf("%s: missing content", where))
			}
			if s.Delay() < 0 {
				errs = append(errs, fmt.Errorf("%s: negative delay", where))
			}
			if s.Color != "" {
				if _, err := surface.NormalizeColor(s.Color); err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", where, err))
				}
			}
			if s.FontSize != "" {
				if _, err := surface.ParseSize(s.FontSize); err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", where, err))
				}
			}
			errs = append(errs, checkAnimations(where, s.Animate)...)
		case KindBanner:
			if s.Labels != nil && len(s.Labels) != 3 {
				errs = append(errs, fmt.Errorf("%s: need exactly 3 labels, got %d", where, len(s.Labels)))
			}
			if s.DurationMs < 0 {
				errs = append(errs, fmt.Errorf("%s: negative duration", where))
			}
		default:
			errs = append(errs, fmt.Errorf("%s: unknown kind %q", where, s.Kind))
		}
	}
	return errors.Join(errs...)
}

func checkAnimations(where string, names []string) []error {
	if len(names) == 0 {
		return nil
	}
	var errs []error
	keyframed := 0
	for _, n := range names {
		if _, ok := surface.LookupEffect(n); ok {
			keyframed++
			continue
		}
		if !surface.IsModifier(n) {
			errs = append(errs, fmt.Errorf("%s: unknown animation %q", where, n))
		}
	}
	if keyframed == 0 && len(errs) == 0 {
		errs = append(errs, fmt.Errorf("%s: animate needs at least one effect", where))
	}
	return errs
}

// Clone returns a deep copy, so presets can be handed out and edited.
func (c *Config) Clone() *Config {
	out := *c
	out.Banner.Labels = slices.Clone(c.Banner.Labels)
	out.Stages = make([]StageConfig, len(c.Stages))
	for i, s := range c.Stages {
		s.Animate = slices.Clone(s.Animate)
		s.Labels = slices.Clone(s.Labels)
		if s.DelayMs != nil {
			d := *s.DelayMs
			s.DelayMs = &d
		}
		out.Stages[i] = s
	}
	return &out
}
