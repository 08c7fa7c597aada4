package config

import "sort"

func ms(n int) *int { return &n }

const signupContent = `We'll text you tomorrow.
<p>To be clear: we actually have $50 to give away &amp; this is approved by the admins.</p>
<p>We promise to never spam you &amp; we'll delete your number on Thursday.</p>`

var Presets = map[string]*Config{
	"hacktheplanet": {
		Name:        "hacktheplanet",
		Description: "the full teaser: warning, boot text, bouncing banner, pitch, signup",
		Theme:       DefaultTheme,
		Endpoint:    DefaultEndpoint,
		Surface:     SurfaceConfig{Width: DefaultWidth, Height: DefaultHeight},
		Stages: []StageConfig{
			{Kind: KindText, Name: "warning", Content: "warning: fast flashing lights.", DelayMs: ms(2000)},
			{Kind: KindText, Name: "preface0", Content: "..."},
			{Kind: KindText, Name: "preface1", Content: "initializing", Color: "#2d77ef", DelayMs: ms(500)},
			{Kind: KindText, Name: "preface2", Content: "initializing hack", DelayMs: ms(800)},
			{Kind: KindText, Name: "preface3", Content: "initializing hack the", DelayMs: ms(800)},
			{Kind: KindText, Name: "preface4", Content: "initializing hack the planet..", DelayMs: ms(1250)},
			{Kind: KindBanner, Name: "intro"},
			{Kind: KindText, Name: "bait", Content: "hey."},
			{Kind: KindText, Name: "bait1", Content: "Hey."},
			{Kind: KindText, Name: "bait2", Content: "HEY YOU!", FontSize: "112px", DelayMs: ms(1250)},
			{Kind: KindText, Name: "itsbig", Content: "something", FontSize: "128px"},
			{Kind: KindText, Name: "itsbig2", Content: "<b>BIG</b>", FontSize: "160px", Animate: []string{"zoomInDown", "faster"}, DelayMs: ms(1200)},
			{Kind: KindText, Name: "happening", Content: "is happening", DelayMs: ms(1200)},
			{Kind: KindText, Name: "happening2", Content: "on Wednesday", DelayMs: ms(1200)},
			{Kind: KindText, Name: "win", Content: "You'll have the chance to win...", DelayMs: ms(1500)},
			{Kind: KindText, Name: "win2", Content: "$50", FontSize: "200px", DelayMs: ms(2000)},
			{Kind: KindText, Name: "youin", Content: "You down?", DelayMs: ms(1500)},
			{Kind: KindText, Name: "cool", Content: "Cool.", DelayMs: ms(1200)},
			{Kind: KindText, Name: "cool2", Content: "We thought you would be.", DelayMs: ms(2000)},
			{Kind: KindSignup, Name: "gimme", Content: signupContent, FontSize: "48px", Placeholder: "1-508-222-3333"},
		},
	},
	"teaser": {
		Name:        "teaser",
		Description: "a short cut of the show without the signup",
		Theme:       DefaultTheme,
		Endpoint:    DefaultEndpoint,
		Surface:     SurfaceConfig{Width: DefaultWidth, Height: DefaultHeight},
		Banner:      BannerConfig{DurationMs: 4000},
		Stages: []StageConfig{
			{Kind: KindText, Name: "warning", Content: "warning: fast flashing lights.", DelayMs: ms(1500)},
			{Kind: KindText, Name: "boot", Content: "initializing hack the planet..", Color: "#2d77ef", DelayMs: ms(1000)},
			{Kind: KindBanner, Name: "intro"},
			{Kind: KindText, Name: "big", Content: "<b>BIG</b>", FontSize: "160px", Animate: []string{"zoomInDown", "faster"}, DelayMs: ms(1200)},
			{Kind: KindText, Name: "soon", Content: "is happening", DelayMs: ms(1200)},
		},
	},
	"scenario": {
		Name:        "scenario",
		Description: "two stages: a timed one and an animated one",
		Theme:       DefaultTheme,
		Endpoint:    DefaultEndpoint,
		Surface:     SurfaceConfig{Width: DefaultWidth, Height: DefaultHeight},
		Stages: []StageConfig{
			{Kind: KindText, Name: "a", Content: "A", DelayMs: ms(100)},
			{Kind: KindText, Name: "b", Content: "B", DelayMs: ms(200), Animate: []string{"zoomIn"}},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
