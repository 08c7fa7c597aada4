package surface

// Theme is the default look of an empty surface.
type Theme struct {
	Name       string
	Foreground string
	Background string
	Accent     string
	Muted      string
}

// Available themes
var (
	ThemePaper = Theme{
		Name:       "paper",
		Foreground: "#000000",
		Background: "#ffffff",
		Accent:     "#2d77ef",
		Muted:      "#888888",
	}

	ThemeNight = Theme{
		Name:       "night",
		Foreground: "#ffffff",
		Background: "#000000",
		Accent:     "#00ffff",
		Muted:      "#666688",
	}

	ThemeRetro = Theme{
		Name:       "retro",
		Foreground: "#00ff00", // green phosphor
		Background: "#001100",
		Accent:     "#88ff88",
		Muted:      "#005500",
	}

	// Paper matches a blank browser page.
	DefaultTheme = ThemePaper

	Themes = []Theme{
		ThemePaper,
		ThemeNight,
		ThemeRetro,
	}
)

// GetTheme returns a theme by name, falling back to the default.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return DefaultTheme
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
