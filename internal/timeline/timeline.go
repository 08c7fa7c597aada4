// Package timeline plays a show on a virtual clock and reports when each
// stage ran.
package timeline

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/san-kum/stageshow/internal/clock"
	"github.com/san-kum/stageshow/internal/config"
	"github.com/san-kum/stageshow/internal/sequence"
	"github.com/san-kum/stageshow/internal/show"
	"github.com/san-kum/stageshow/internal/stage"
	"github.com/san-kum/stageshow/internal/surface"
)

// DefaultLimit bounds a dry run in virtual time.
const DefaultLimit = 10 * time.Minute

var epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Entry is one stage activation. Open entries were still active when the
// dry run ended.
type Entry struct {
	Index int
	Name  string
	Kind  string
	Start time.Duration
	End   time.Duration
	Open  bool
}

func (e Entry) Duration() time.Duration { return e.End - e.Start }

type Report struct {
	Name     string
	Entries  []Entry
	Total    time.Duration
	State    sequence.State
	Err      error
	Ignored  int
	Timeouts bool
}

// Run plays cfg on a virtual clock and a headless screen until the chain
// ends, a stage holds with nothing left to wait for, or limit elapses.
func Run(cfg *config.Config, limit time.Duration) (*Report, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	stages, err := show.Build(cfg, show.Deps{})
	if err != nil {
		return nil, err
	}

	clk := clock.NewManual(epoch)
	scr := surface.NewScreen(cfg.Surface.Width, cfg.Surface.Height, clk, surface.GetTheme(cfg.Theme))

	r := &Report{Name: cfg.Name}
	observe := func(tr sequence.Transition) {
		at := tr.At.Sub(epoch)
		if n := len(r.Entries); n > 0 && r.Entries[n-1].Open {
			r.Entries[n-1].End = at
			r.Entries[n-1].Open = false
		}
		if tr.To != "" {
			r.Entries = append(r.Entries, Entry{
				Index: tr.Index,
				Name:  tr.To,
				Kind:  cfg.Stages[tr.Index].Kind,
				Start: at,
				Open:  true,
			})
		}
	}

	seq := sequence.New(stages, stage.Env{Surface: scr, Clock: clk}, sequence.WithObserver(observe))
	if err := seq.Start(); err != nil {
		r.State, r.Err = seq.State(), err
		return r, nil
	}

	for seq.State() == sequence.Running {
		due, ok := clk.NextDue()
		if !ok {
			break
		}
		if due.Sub(epoch) > limit {
			r.Timeouts = true
			break
		}
		clk.AdvanceTo(due)
	}

	r.Total = clk.Now().Sub(epoch)
	for i := range r.Entries {
		if r.Entries[i].Open {
			r.Entries[i].End = r.Total
		}
	}
	r.State = seq.State()
	r.Err = seq.Err()
	r.Ignored = seq.IgnoredAdvances()
	if seq.State() == sequence.Running {
		seq.Stop()
	}
	return r, nil
}

// WriteTable prints one row per activation.
func (r *Report) WriteTable(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSTAGE\tKIND\tSTART\tEND\tDURATION")
	for _, e := range r.Entries {
		end := fmtDur(e.End)
		if e.Open {
			end = "(holds)"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", e.Index, e.Name, e.Kind, fmtDur(e.Start), end, fmtDur(e.Duration()))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%s: %d stages, %s, %s", r.Name, len(r.Entries), fmtDur(r.Total), r.State)
	if r.Ignored > 0 {
		fmt.Fprintf(out, ", %d ignored advances", r.Ignored)
	}
	if r.Timeouts {
		fmt.Fprint(out, ", stopped at time limit")
	}
	if r.Err != nil {
		fmt.Fprintf(out, "\nerror: %v", r.Err)
	}
	_, err := fmt.Fprintln(out)
	return err
}

func fmtDur(d time.Duration) string {
	return fmt.Sprintf("%.3fs", d.Seconds())
}
