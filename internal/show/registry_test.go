package show

import (
	"strings"
	"testing"
	"time"

	"github.com/san-kum/stageshow/internal/config"
	"github.com/san-kum/stageshow/internal/stage"
	"github.com/san-kum/stageshow/internal/surface"
)

func TestListKinds(t *testing.T) {
	got := NewRegistry().ListKinds()
	want := []string{"banner", "signup", "text"}
	if len(got) != len(want) {
		t.Fatalf("kinds = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("kinds[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGet_Unknown(t *testing.T) {
	if _, err := NewRegistry().Get("video"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestBuild_Preset(t *testing.T) {
	cfg := config.GetPreset("hacktheplanet")
	var armed []string
	deps := Deps{Signup: func(id, placeholder string) func() {
		armed = append(armed, id+"|"+placeholder)
		return func() {}
	}}

	stages, err := Build(cfg, deps)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(stages) != len(cfg.Stages) {
		t.Fatalf("stages = %d, want %d", len(stages), len(cfg.Stages))
	}
	for i, st := range stages {
		if st.Name() != cfg.Stages[i].Name {
			t.Errorf("stage %d name = %q, want %q", i, st.Name(), cfg.Stages[i].Name)
		}
	}
	if _, ok := stages[6].(*stage.Banner); !ok {
		t.Errorf("stage 6 = %T, want *stage.Banner", stages[6])
	}
	if len(armed) != 1 || armed[0] != "gimme|1-508-222-3333" {
		t.Errorf("signup factory calls = %v", armed)
	}

	last, ok := stages[len(stages)-1].(*stage.Text)
	if !ok {
		t.Fatalf("last stage = %T", stages[len(stages)-1])
	}
	opts := last.Options()
	if !opts.Hold || opts.SideEffect == nil {
		t.Error("signup stage should hold and carry a side effect")
	}
	if opts.FontSize != 48 {
		t.Errorf("signup font size = %v", opts.FontSize)
	}
}

func TestBuild_TextOptions(t *testing.T) {
	cfg := config.GetPreset("hacktheplanet")
	stages, err := Build(cfg, Deps{})
	if err != nil {
		t.Fatal(err)
	}
	big := stages[11].(*stage.Text).Options()
	if big.Content != "<b>BIG</b>" {
		t.Errorf("content = %q", big.Content)
	}
	if big.FontSize != surface.Size(160) {
		t.Errorf("font size = %v", big.FontSize)
	}
	if big.Delay != 1200*time.Millisecond {
		t.Errorf("delay = %v", big.Delay)
	}
	if strings.Join(big.Animations, " ") != "zoomInDown faster" {
		t.Errorf("animations = %v", big.Animations)
	}

	initializing := stages[2].(*stage.Text).Options()
	if initializing.Color != "#2d77ef" {
		t.Errorf("color = %q", initializing.Color)
	}
	if stages[1].(*stage.Text).Options().Delay != time.Second {
		t.Error("default delay not applied")
	}
}

func TestBannerOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Compact = true
	cfg.Banner = config.BannerConfig{
		Labels:     []string{"A", "B", "C"},
		DurationMs: 4000,
		FontSize:   32,
		MaxSpeed:   3,
	}
	opts := BannerOptions(cfg, config.StageConfig{Kind: config.KindBanner, Name: "b", DurationMs: 2000})

	if !opts.Compact {
		t.Error("compact not carried")
	}
	if opts.Duration != 2*time.Second {
		t.Errorf("duration = %v, stage override should win", opts.Duration)
	}
	if strings.Join(opts.Labels, ",") != "A,B,C" {
		t.Errorf("labels = %v", opts.Labels)
	}
	if opts.FontSize != 32 || opts.MaxSpeed != 3 {
		t.Errorf("font %v speed cap %v", opts.FontSize, opts.MaxSpeed)
	}
	if opts.InitialSpeed != stage.DefaultBannerOptions().InitialSpeed {
		t.Errorf("initial speed = %v", opts.InitialSpeed)
	}
}

func TestBuild_Invalid(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Stages = []config.StageConfig{{Kind: "video", Name: "x"}}
	if _, err := Build(cfg, Deps{}); err == nil {
		t.Error("expected validation error")
	}
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	r.Register("blank", func(_ *config.Config, sc config.StageConfig, _ Deps) (stage.Stage, error) {
		return stage.NewText(sc.Name, stage.TextOptions{Content: " "}), nil
	})
	if _, err := r.Get("blank"); err != nil {
		t.Error(err)
	}
}
