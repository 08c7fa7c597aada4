package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/stageshow/internal/collector"
	"github.com/san-kum/stageshow/internal/config"
	"github.com/san-kum/stageshow/internal/settings"
	"github.com/san-kum/stageshow/internal/storage"
	"github.com/san-kum/stageshow/internal/timeline"
)

var (
	dataDir string
	logFile string
	verbose bool

	preset    string
	compact   bool
	headless  bool
	frameRate int
	endpoint  string
	theme     string
	width     int
	height    int

	svgFile   string
	plot      bool
	limitSecs float64

	addr   string
	format string
	output string
	before string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "stageshow",
		Short:         "play scripted full-screen stage shows in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runShow,
	}
	addPlayFlags(rootCmd)

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".stageshow", "data directory for submissions")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "write logs to this file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [script.yaml]",
		Short: "play a script or preset",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runShow,
	}
	addPlayFlags(runCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in shows",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSTAGES\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%s\n", name, len(p.Stages), p.Description)
			}
			return w.Flush()
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate [script.yaml]",
		Short: "check a script for errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return fmt.Errorf("failed to load script: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("%s:\n%w", args[0], err)
			}
			fmt.Printf("%s: ok (%d stages)\n", args[0], len(cfg.Stages))
			return nil
		},
	}

	timelineCmd := &cobra.Command{
		Use:   "timeline [script.yaml]",
		Short: "dry-run a show on a virtual clock and report stage timings",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTimeline,
	}
	timelineCmd.Flags().StringVar(&preset, "preset", "", "built-in show to use")
	timelineCmd.Flags().StringVar(&svgFile, "svg", "", "write a gantt chart to this file")
	timelineCmd.Flags().BoolVar(&plot, "plot", false, "plot stage durations")
	timelineCmd.Flags().Float64Var(&limitSecs, "limit", timeline.DefaultLimit.Seconds(), "virtual time limit in seconds")
	timelineCmd.Flags().BoolVar(&compact, "compact", false, "use compact device growth")

	exportScriptCmd := &cobra.Command{
		Use:   "export-script [preset] [path]",
		Short: "write a built-in show as an editable script",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetPreset(args[0])
			if cfg == nil {
				return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
			}
			if err := config.Save(args[1], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s to %s\n", args[0], args[1])
			return nil
		},
	}

	collectCmd := &cobra.Command{
		Use:   "collect",
		Short: "run the signup collector service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setupLogging(false); err != nil {
				return err
			}
			st := storage.New(dataDir)
			if err := st.Init(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return collector.NewServer(st).Run(ctx, addr)
		},
	}
	collectCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	submissionsCmd := &cobra.Command{
		Use:   "submissions",
		Short: "inspect collected signups",
	}
	subListCmd := &cobra.Command{
		Use:   "list",
		Short: "list submissions",
		RunE:  listSubmissions,
	}
	subExportCmd := &cobra.Command{
		Use:   "export",
		Short: "export submissions as json or csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			subs, err := storage.New(dataDir).List()
			if err != nil {
				return err
			}
			return storage.Export(output, format, subs)
		},
	}
	subExportCmd.Flags().StringVar(&format, "format", "json", "json or csv")
	subExportCmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	subPurgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "delete submissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			var cutoff time.Time
			if before != "" {
				t, err := time.Parse(time.RFC3339, before)
				if err != nil {
					return fmt.Errorf("invalid --before: %w", err)
				}
				cutoff = t
			}
			n, err := storage.New(dataDir).Purge(cutoff)
			if err != nil {
				return err
			}
			fmt.Printf("purged %d submissions\n", n)
			return nil
		},
	}
	subPurgeCmd.Flags().StringVar(&before, "before", "", "only delete submissions received before this RFC 3339 time")
	submissionsCmd.AddCommand(subListCmd, subExportCmd, subPurgeCmd)

	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "show or change saved preferences",
	}
	settingsShowCmd := &cobra.Command{
		Use:   "show",
		Short: "print saved preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := settings.Open()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, kv := range m.Get().Lines() {
				fmt.Fprintf(w, "%s\t%s\n", kv[0], kv[1])
			}
			if !m.Persistent() {
				fmt.Fprintln(w, "(not persisted: no user data directory)")
			}
			return w.Flush()
		},
	}
	settingsSetCmd := &cobra.Command{
		Use:       "set [key] [value]",
		Short:     "change a preference",
		Args:      cobra.ExactArgs(2),
		ValidArgs: settings.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := settings.Open()
			if err := m.Set(args[0], args[1]); err != nil {
				return err
			}
			return m.Save()
		},
	}
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd)

	rootCmd.AddCommand(runCmd, presetsCmd, validateCmd, timelineCmd, exportScriptCmd, collectCmd, submissionsCmd, settingsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "built-in show to play")
	cmd.Flags().BoolVar(&compact, "compact", false, "use compact device growth")
	cmd.Flags().BoolVar(&headless, "headless", false, "print frames instead of running the interactive player")
	cmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	cmd.Flags().StringVar(&endpoint, "endpoint", config.DefaultEndpoint, "signup endpoint")
	cmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "surface theme")
	cmd.Flags().IntVar(&width, "width", config.DefaultWidth, "surface width in cells")
	cmd.Flags().IntVar(&height, "height", config.DefaultHeight, "surface height in cells")
}

func listSubmissions(cmd *cobra.Command, args []string) error {
	subs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		fmt.Println("no submissions")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNUMBER\tRECEIVED\tSOURCE")
	for _, s := range subs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Number, s.Received.Local().Format("2006-01-02 15:04:05"), s.Source)
	}
	return w.Flush()
}

func runTimeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadScript(cmd, args, settings.Open().Get())
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("compact") {
		cfg.Compact = compact
	}

	limit := time.Duration(limitSecs * float64(time.Second))
	r, err := timeline.Run(cfg, limit)
	if err != nil {
		return err
	}
	if err := r.WriteTable(os.Stdout); err != nil {
		return err
	}
	if plot {
		fmt.Println()
		fmt.Println(r.Plot(60, 10))
	}
	if svgFile != "" {
		if err := os.WriteFile(svgFile, []byte(r.SVG(800)), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgFile)
	}
	return nil
}
