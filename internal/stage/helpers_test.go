package stage

import (
	"time"

	"github.com/san-kum/stageshow/internal/clock"
	"github.com/san-kum/stageshow/internal/surface"
)

func newEnv() (Env, *surface.Screen, *clock.Manual) {
	c := clock.NewManual(time.Time{})
	s := surface.NewScreen(80, 24, c, surface.ThemePaper)
	return Env{Surface: s, Clock: c}, s, c
}

// recordingSurface wraps a Screen and logs primitive calls in order.
type recordingSurface struct {
	*surface.Screen
	calls *[]string
}

func (r recordingSurface) Append(n *surface.Node) {
	*r.calls = append(*r.calls, "append")
	r.Screen.Append(n)
}

func (r recordingSurface) Clear() {
	*r.calls = append(*r.calls, "clear")
	r.Screen.Clear()
}

type recordingClock struct {
	*clock.Manual
	calls *[]string
}

func (r recordingClock) AfterFunc(d time.Duration, fn func()) clock.Handle {
	*r.calls = append(*r.calls, "schedule")
	return r.Manual.AfterFunc(d, fn)
}
