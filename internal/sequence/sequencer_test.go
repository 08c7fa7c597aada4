package sequence

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/stageshow/internal/clock"
	"github.com/san-kum/stageshow/internal/stage"
	"github.com/san-kum/stageshow/internal/surface"
)

// recorder is a stage that logs its lifecycle and exposes its advance.
type recorder struct {
	name    string
	log     *[]string
	advance stage.Advance
	fail    error
}

func (p *recorder) Name() string { return p.name }

func (p *recorder) Begin(env stage.Env, advance stage.Advance) error {
	*p.log = append(*p.log, "begin:"+p.name)
	if p.fail != nil {
		return p.fail
	}
	p.advance = advance
	return nil
}

func (p *recorder) CleanUp() {
	*p.log = append(*p.log, "cleanup:"+p.name)
}

func text(name, content string, delay time.Duration, anims ...string) *stage.Text {
	opts := stage.DefaultTextOptions()
	opts.Content = content
	opts.Delay = delay
	opts.Animations = anims
	return stage.NewText(name, opts)
}

var _ = Describe("Sequencer", func() {
	var (
		c      *clock.Manual
		screen *surface.Screen
		env    stage.Env
	)

	BeforeEach(func() {
		c = clock.NewManual(time.Time{})
		screen = surface.NewScreen(80, 24, c, surface.ThemePaper)
		env = stage.Env{Surface: screen, Clock: c}
	})

	visible := func() string {
		var parts []string
		for _, n := range screen.Nodes() {
			parts = append(parts, n.Text())
		}
		return strings.Join(parts, "|")
	}

	Describe("the A/B zoom scenario", func() {
		It("renders A, then B, and ends after B's animation plus delay", func() {
			var finished []error
			seq := New([]stage.Stage{
				text("a", "A", 100*time.Millisecond),
				text("b", "B", 200*time.Millisecond, "zoomIn"),
			}, env, WithFinalizer(func(err error) { finished = append(finished, err) }))

			Expect(seq.Start()).To(Succeed())
			Expect(visible()).To(Equal("A"))

			c.Advance(99 * time.Millisecond)
			Expect(visible()).To(Equal("A"))

			c.Advance(time.Millisecond)
			Expect(visible()).To(Equal("B"))

			// zoomIn takes 1s from B's render at 100ms; then 200ms delay.
			c.Advance(1199 * time.Millisecond)
			Expect(visible()).To(Equal("B"))
			Expect(seq.State()).To(Equal(Running))

			c.Advance(time.Millisecond)
			Expect(visible()).To(BeEmpty())
			Expect(seq.State()).To(Equal(Finished))
			Expect(finished).To(HaveLen(1))
			Expect(finished[0]).NotTo(HaveOccurred())
			Expect(seq.Done()).To(BeClosed())
		})
	})

	Describe("ordering", func() {
		It("cleans up stage N before beginning stage N+1", func() {
			var log []string
			a := &recorder{name: "a", log: &log}
			b := &recorder{name: "b", log: &log}
			seq := New([]stage.Stage{a, b}, env)

			Expect(seq.Start()).To(Succeed())
			a.advance()
			Expect(log).To(Equal([]string{"begin:a", "cleanup:a", "begin:b"}))

			b.advance()
			Expect(log).To(Equal([]string{"begin:a", "cleanup:a", "begin:b", "cleanup:b"}))
		})

		It("never shows content of two text stages at once", func() {
			overlap := false
			seq := New([]stage.Stage{
				text("a", "A", 10*time.Millisecond),
				text("b", "B", 10*time.Millisecond),
				text("c", "C", 10*time.Millisecond),
			}, env, WithObserver(func(Transition) {
				if len(screen.Nodes()) > 0 {
					overlap = true
				}
			}))
			Expect(seq.Start()).To(Succeed())
			c.Advance(time.Second)
			Expect(overlap).To(BeFalse())
			Expect(seq.State()).To(Equal(Finished))
		})

		It("reports transitions with virtual timestamps", func() {
			var ts []Transition
			seq := New([]stage.Stage{
				text("a", "A", 100*time.Millisecond),
				text("b", "B", 50*time.Millisecond),
			}, env, WithObserver(func(t Transition) { ts = append(ts, t) }))
			start := c.Now()
			Expect(seq.Start()).To(Succeed())
			c.Advance(time.Second)

			Expect(ts).To(HaveLen(3))
			Expect(ts[0].From).To(BeEmpty())
			Expect(ts[0].To).To(Equal("a"))
			Expect(ts[1].At.Sub(start)).To(Equal(100 * time.Millisecond))
			Expect(ts[2].To).To(BeEmpty())
			Expect(ts[2].At.Sub(start)).To(Equal(150 * time.Millisecond))
		})
	})

	Describe("advance guarding", func() {
		It("ignores repeated advance calls from one activation", func() {
			var log []string
			a := &recorder{name: "a", log: &log}
			b := &recorder{name: "b", log: &log}
			cc := &recorder{name: "c", log: &log}
			seq := New([]stage.Stage{a, b, cc}, env)
			Expect(seq.Start()).To(Succeed())

			a.advance()
			a.advance()
			a.advance()
			Expect(log).To(Equal([]string{"begin:a", "cleanup:a", "begin:b"}))
			Expect(seq.IgnoredAdvances()).To(Equal(2))

			active, idx := seq.Active()
			Expect(active).To(BeIdenticalTo(stage.Stage(b)))
			Expect(idx).To(Equal(1))
		})

		It("logs ignored advances through the configured logger", func() {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
			var log []string
			a := &recorder{name: "a", log: &log}
			b := &recorder{name: "b", log: &log}
			seq := New([]stage.Stage{a, b}, env, WithLogger(logger.With("show", "demo")))
			Expect(seq.Start()).To(Succeed())

			a.advance()
			a.advance()
			out := buf.String()
			Expect(out).To(ContainSubstring("stage began"))
			Expect(out).To(ContainSubstring("ignored advance"))
			Expect(out).To(ContainSubstring("show=demo"))
		})
	})

	Describe("failures", func() {
		It("fails loudly when a stage violates its contract", func() {
			var final error
			seq := New([]stage.Stage{
				text("a", "A", 10*time.Millisecond),
				text("empty", "", 10*time.Millisecond),
				text("never", "N", 10*time.Millisecond),
			}, env, WithFinalizer(func(err error) { final = err }))

			Expect(seq.Start()).To(Succeed())
			c.Advance(time.Second)

			Expect(seq.State()).To(Equal(Failed))
			Expect(errors.Is(seq.Err(), stage.ErrMissingContent)).To(BeTrue())
			Expect(errors.Is(final, stage.ErrMissingContent)).To(BeTrue())
			Expect(screen.Empty()).To(BeTrue())
		})

		It("returns the first stage's failure from Start", func() {
			var log []string
			boom := errors.New("boom")
			seq := New([]stage.Stage{&recorder{name: "a", log: &log, fail: boom}}, env)
			Expect(seq.Start()).To(MatchError(boom))
			Expect(seq.State()).To(Equal(Failed))
		})

		It("rejects empty chains and double starts", func() {
			Expect(New(nil, env).Start()).To(MatchError(ErrEmpty))

			var log []string
			seq := New([]stage.Stage{&recorder{name: "a", log: &log}}, env)
			Expect(seq.Start()).To(Succeed())
			Expect(seq.Start()).To(MatchError(ErrStarted))
		})
	})

	Describe("Stop", func() {
		It("tears down a running banner with no stray updates", func() {
			banner := stage.NewBanner("intro", stage.DefaultBannerOptions())
			var final error
			seq := New([]stage.Stage{banner, text("after", "after", time.Second)}, env,
				WithFinalizer(func(err error) { final = err }))
			Expect(seq.Start()).To(Succeed())

			c.Advance(3 * time.Second)
			seq.Stop()

			Expect(seq.State()).To(Equal(Stopped))
			Expect(final).To(MatchError(ErrStopped))
			Expect(c.Pending()).To(BeZero())
			Expect(screen.Empty()).To(BeTrue())

			stats := banner.Stats()
			c.Advance(time.Minute)
			Expect(banner.Stats()).To(Equal(stats))
		})

		It("hands over from the banner exactly once after its duration", func() {
			banner := stage.NewBanner("intro", stage.DefaultBannerOptions())
			seq := New([]stage.Stage{banner, text("after", "hey.", time.Second)}, env)
			Expect(seq.Start()).To(Succeed())

			c.Advance(15500 * time.Millisecond)
			Expect(visible()).To(Equal("hey."))
			Expect(screen.Overridden()).To(BeFalse())
			Expect(seq.IgnoredAdvances()).To(BeZero())
		})
	})
})
