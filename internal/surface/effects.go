package surface

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// AnimatedClass marks a node as carrying animation classes.
const AnimatedClass = "animated"

const baseDuration = time.Second

// Effect is a keyframed animation. Offset returns the displacement at
// progress p as fractions of the surface size; Reveal returns the share of
// the node that is visible.
type Effect struct {
	Name   string
	Offset func(p float64) (dx, dy float64)
	Reveal func(p float64) float64
}

func still(float64) (float64, float64) { return 0, 0 }
func shown(float64) float64             { return 1 }
func ramp(p float64) float64            { return math.Min(1, p*1.5) }
func easeOut(p float64) float64         { return 1 - (1-p)*(1-p) }

var effects = map[string]Effect{
	"bounce": {Offset: func(p float64) (float64, float64) {
		return 0, -0.08 * math.Abs(math.Sin(p*2*math.Pi))
	}, Reveal: shown},
	"flash": {Offset: still, Reveal: func(p float64) float64 {
		if int(p*4)%2 == 1 {
			return 0
		}
		return 1
	}},
	"pulse": {Offset: still, Reveal: shown},
	"shake": {Offset: func(p float64) (float64, float64) {
		return 0.02 * math.Sin(p*10*math.Pi), 0
	}, Reveal: shown},
	"tada": {Offset: func(p float64) (float64, float64) {
		return 0.01 * math.Sin(p*8*math.Pi), 0
	}, Reveal: shown},
	"fadeIn": {Offset: still, Reveal: ramp},
	"fadeInDown": {Offset: func(p float64) (float64, float64) {
		return 0, -0.2 * (1 - easeOut(p))
	}, Reveal: ramp},
	"fadeInUp": {Offset: func(p float64) (float64, float64) {
		return 0, 0.2 * (1 - easeOut(p))
	}, Reveal: ramp},
	"zoomIn": {Offset: still, Reveal: easeOut},
	"zoomInDown": {Offset: func(p float64) (float64, float64) {
		return 0, -0.5 * (1 - easeOut(p))
	}, Reveal: easeOut},
	"zoomInUp": {Offset: func(p float64) (float64, float64) {
		return 0, 0.5 * (1 - easeOut(p))
	}, Reveal: easeOut},
	"bounceIn": {Offset: func(p float64) (float64, float64) {
		return 0, -0.05 * math.Sin(p*3*math.Pi) * (1 - p)
	}, Reveal: ramp},
	"slideInLeft": {Offset: func(p float64) (float64, float64) {
		return -(1 - easeOut(p)), 0
	}, Reveal: shown},
	"slideInRight": {Offset: func(p float64) (float64, float64) {
		return 1 - easeOut(p), 0
	}, Reveal: shown},
}

var speeds = map[string]time.Duration{
	"faster": 500 * time.Millisecond,
	"fast":   800 * time.Millisecond,
	"slow":   2 * time.Second,
	"slower": 3 * time.Second,
}

func init() {
	for name, e := range effects {
		e.Name = name
		effects[name] = e
	}
}

// LookupEffect returns the keyframed effect with the given name.
func LookupEffect(name string) (Effect, bool) {
	e, ok := effects[name]
	return e, ok
}

// IsModifier reports whether name is a timing class rather than an effect.
func IsModifier(name string) bool {
	if name == AnimatedClass {
		return true
	}
	if _, ok := speeds[name]; ok {
		return true
	}
	_, ok := parseDelayClass(name)
	return ok
}

// EffectNames lists every keyframed effect.
func EffectNames() []string {
	names := make([]string, 0, len(effects))
	for n := range effects {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Timing resolves the duration and start delay implied by a class list.
// The last speed class wins, as it would in a stylesheet.
func Timing(classes []string) (duration, delay time.Duration) {
	duration = baseDuration
	for _, c := range classes {
		if d, ok := speeds[c]; ok {
			duration = d
		}
		if d, ok := parseDelayClass(c); ok {
			delay = d
		}
	}
	return duration, delay
}

// Keyframed returns the effects named in classes, in order.
func Keyframed(classes []string) []Effect {
	var out []Effect
	for _, c := range classes {
		if e, ok := effects[c]; ok {
			out = append(out, e)
		}
	}
	return out
}

func parseDelayClass(c string) (time.Duration, bool) {
	if !strings.HasPrefix(c, "delay-") || !strings.HasSuffix(c, "s") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(c, "delay-"), "s"))
	if err != nil || n < 0 {
		return 0, false
	}
	return time.Duration(n) * time.Second, true
}
