// Package settings persists per-user preferences between runs.
package settings

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/stageshow/internal/config"
	"github.com/san-kum/stageshow/internal/surface"
)

const AppName = "stageshow"

const (
	settingsObject   = "settings"
	settingsProperty = "user"
)

// Settings are applied below script values and above built-in defaults.
type Settings struct {
	// Compact forces the device class; nil means detect from the terminal.
	Compact  *bool  `yaml:"compact,omitempty"`
	Theme    string `yaml:"theme"`
	Preset   string `yaml:"preset"`
	Endpoint string `yaml:"endpoint"`
	FPS      int    `yaml:"fps"`
}

func DefaultSettings() *Settings {
	return &Settings{
		Theme:    config.DefaultTheme,
		Preset:   config.DefaultPreset,
		Endpoint: config.DefaultEndpoint,
		FPS:      30,
	}
}

// Manager loads and saves Settings. A nil gdata manager keeps settings in
// memory only.
type Manager struct {
	gdataManager *gdata.Manager
	settings     *Settings
}

// Open returns a Manager backed by the per-user data directory. If the
// directory is unavailable the manager degrades to memory only.
func Open() *Manager {
	gm, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		slog.Warn("settings storage unavailable, using defaults", "err", err)
		gm = nil
	}
	return NewManager(gm)
}

func NewManager(gm *gdata.Manager) *Manager {
	m := &Manager{
		gdataManager: gm,
		settings:     DefaultSettings(),
	}
	if err := m.Load(); err != nil {
		slog.Warn("failed to load settings, using defaults", "err", err)
	}
	return m
}

// Persistent reports whether Save writes anywhere.
func (m *Manager) Persistent() bool { return m.gdataManager != nil }

func (m *Manager) Load() error {
	if m.gdataManager == nil {
		m.settings = DefaultSettings()
		return nil
	}
	if !m.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		m.settings = DefaultSettings()
		return nil
	}

	data, err := m.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		m.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		m.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	m.settings = loaded
	return nil
}

func (m *Manager) Save() error {
	if m.gdataManager == nil {
		return nil
	}
	data, err := yaml.Marshal(m.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := m.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	slog.Debug("settings saved")
	return nil
}

func (m *Manager) Get() *Settings { return m.settings }

// Keys lists the names accepted by Set.
func Keys() []string {
	keys := []string{"compact", "theme", "preset", "endpoint", "fps"}
	sort.Strings(keys)
	return keys
}

// Set parses value into the named setting. Only memory is changed; call
// Save to persist. Setting compact to "auto" clears the override.
func (m *Manager) Set(key, value string) error {
	s := m.settings
	switch strings.ToLower(key) {
	case "compact":
		if value == "auto" || value == "" {
			s.Compact = nil
			return nil
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("compact: %w", err)
		}
		s.Compact = &b
	case "theme":
		if surface.GetTheme(value).Name != value {
			return fmt.Errorf("unknown theme %q (have %s)", value, strings.Join(surface.ThemeNames(), ", "))
		}
		s.Theme = value
	case "preset":
		if config.GetPreset(value) == nil {
			return fmt.Errorf("unknown preset %q (have %s)", value, strings.Join(config.ListPresets(), ", "))
		}
		s.Preset = value
	case "endpoint":
		if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return fmt.Errorf("endpoint must be an http(s) URL, got %q", value)
		}
		s.Endpoint = value
	case "fps":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 || n > 120 {
			return fmt.Errorf("fps must be between 1 and 120, got %q", value)
		}
		s.FPS = n
	default:
		return fmt.Errorf("unknown setting %q (have %s)", key, strings.Join(Keys(), ", "))
	}
	return nil
}

// Lines renders the settings as key/value pairs in Keys order.
func (s *Settings) Lines() [][2]string {
	compact := "auto"
	if s.Compact != nil {
		compact = strconv.FormatBool(*s.Compact)
	}
	return [][2]string{
		{"compact", compact},
		{"endpoint", s.Endpoint},
		{"fps", strconv.Itoa(s.FPS)},
		{"preset", s.Preset},
		{"theme", s.Theme},
	}
}
