package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/san-kum/stageshow/internal/clock"
	"github.com/san-kum/stageshow/internal/config"
	"github.com/san-kum/stageshow/internal/sequence"
	"github.com/san-kum/stageshow/internal/settings"
	"github.com/san-kum/stageshow/internal/show"
	"github.com/san-kum/stageshow/internal/signup"
	"github.com/san-kum/stageshow/internal/stage"
	"github.com/san-kum/stageshow/internal/surface"
	"github.com/san-kum/stageshow/internal/tui"
)

// compactWidth is the terminal width below which a device counts as small.
const compactWidth = 80

// setupLogging routes slog through the standard logger. While a show owns
// the terminal, logs go to --log or nowhere.
func setupLogging(display bool) error {
	if verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	switch {
	case logFile != "" && display:
		_, err := tea.LogToFile(logFile, "stageshow")
		return err
	case logFile != "":
		f, err := os.OpenFile(logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
		if err != nil {
			return err
		}
		log.SetOutput(f)
	case display:
		log.SetOutput(io.Discard)
	}
	return nil
}

// loadScript resolves the show to play: a script path, --preset, or the
// saved default preset. Saved theme and endpoint fill in what a preset
// leaves at the built-in default; flags override everything.
func loadScript(cmd *cobra.Command, args []string, prefs *settings.Settings) (*config.Config, error) {
	var cfg *config.Config
	if len(args) > 0 {
		c, err := config.Load(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to load script: %w", err)
		}
		cfg = c
	} else {
		name := prefs.Preset
		if preset != "" {
			name = preset
		}
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
		applyPrefs(cfg, prefs)
	}

	flags := cmd.Flags()
	if flags.Lookup("theme") != nil && flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Lookup("endpoint") != nil && flags.Changed("endpoint") {
		cfg.Endpoint = endpoint
	}
	if flags.Lookup("width") != nil && flags.Changed("width") {
		cfg.Surface.Width = width
	}
	if flags.Lookup("height") != nil && flags.Changed("height") {
		cfg.Surface.Height = height
	}
	return cfg, nil
}

// applyPrefs copies saved theme and endpoint into fields the script left
// empty or at the built-in default.
func applyPrefs(cfg *config.Config, prefs *settings.Settings) {
	if prefs.Theme != "" && (cfg.Theme == "" || cfg.Theme == config.DefaultTheme) {
		cfg.Theme = prefs.Theme
	}
	if prefs.Endpoint != "" && (cfg.Endpoint == "" || cfg.Endpoint == config.DefaultEndpoint) {
		cfg.Endpoint = prefs.Endpoint
	}
}

// resolveCompact decides the device class once, before the show starts:
// flag, then script, then saved preference, then terminal width.
func resolveCompact(cmd *cobra.Command, cfg *config.Config, prefs *settings.Settings) bool {
	if cmd.Flags().Changed("compact") {
		return compact
	}
	if cfg.Compact {
		return true
	}
	if prefs.Compact != nil {
		return *prefs.Compact
	}
	w, _, err := term.GetSize(os.Stdout.Fd())
	return err == nil && w > 0 && w < compactWidth
}

func runShow(cmd *cobra.Command, args []string) error {
	if err := setupLogging(true); err != nil {
		return err
	}
	prefs := settings.Open().Get()

	cfg, err := loadScript(cmd, args, prefs)
	if err != nil {
		return err
	}
	cfg.Compact = resolveCompact(cmd, cfg, prefs)
	if !cmd.Flags().Changed("fps") && prefs.FPS > 0 {
		frameRate = prefs.FPS
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid script %q:\n%w", cfg.Name, err)
	}
	slog.Info("starting show", "name", cfg.Name, "stages", len(cfg.Stages), "compact", cfg.Compact)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if headless {
		return playHeadless(ctx, cfg)
	}
	return playTUI(ctx, cmd, cfg)
}

func signupDeps(ctx context.Context, cfg *config.Config, scr *surface.Screen, dispatch signup.Dispatch) show.Deps {
	client := signup.NewClient(cfg.Endpoint)
	return show.Deps{Signup: func(id, placeholder string) func() {
		return signup.NewForm(ctx, scr, client, dispatch, id, placeholder).Arm
	}}
}

func playTUI(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
	w, h := cfg.Surface.Width, cfg.Surface.Height
	if !cmd.Flags().Changed("width") && !cmd.Flags().Changed("height") {
		if tw, th, err := term.GetSize(os.Stdout.Fd()); err == nil && tw > 0 && th > 0 {
			w, h = tw, th
		}
	}

	sched := tui.NewScheduler()
	scr := surface.NewScreen(w, h, sched, surface.GetTheme(cfg.Theme))

	var m *tui.Model
	dispatch := func(fn func()) { m.Dispatch(fn) }
	stages, err := show.Build(cfg, signupDeps(ctx, cfg, scr, dispatch))
	if err != nil {
		return err
	}
	seq := sequence.New(stages, stage.Env{Surface: scr, Clock: sched},
		sequence.WithLogger(slog.Default().With("show", cfg.Name)))
	m = tui.New(scr, sched, seq, tui.Options{FPS: frameRate, QuitOnFinish: true})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	m.Attach(p)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return m.Err()
}

// playHeadless runs the show on a real-time loop and prints frames to
// stdout. Lines read from stdin are typed into a focused signup field.
func playHeadless(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := clock.NewLoop()
	scr := surface.NewScreen(cfg.Surface.Width, cfg.Surface.Height, loop, surface.GetTheme(cfg.Theme))
	stages, err := show.Build(cfg, signupDeps(ctx, cfg, scr, loop.Post))
	if err != nil {
		return err
	}

	var showErr error
	seq := sequence.New(stages, stage.Env{Surface: scr, Clock: loop},
		sequence.WithLogger(slog.Default().With("show", cfg.Name)),
		sequence.WithFinalizer(func(err error) {
			if !errors.Is(err, sequence.ErrStopped) {
				showErr = err
			}
			cancel()
		}))

	printer := surface.NewPrinter(os.Stdout, frameRate)
	var frame func()
	frame = func() {
		printer.Frame(scr, loop.Now())
		loop.AfterFunc(printer.Interval(), frame)
	}

	loop.Post(func() {
		printer.Start()
		if err := seq.Start(); err != nil {
			return
		}
		frame()
	})

	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			line := sc.Text()
			loop.Post(func() {
				if scr.Focused() {
					scr.SetInput(line)
					scr.Submit()
				}
			})
		}
	}()

	loop.Run(ctx)
	seq.Stop()
	printer.Stop()
	fmt.Println()
	slog.Info("show ended", "state", seq.State(), "frames", printer.Frames())
	return showErr
}
