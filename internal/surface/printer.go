package surface

import (
	"fmt"
	"io"
	"time"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// Printer writes frames of a Screen to a plain terminal, throttled to a
// frame rate. It is used when no interactive program hosts the screen.
type Printer struct {
	out       io.Writer
	frameRate int
	lastFrame time.Time
	frames    int
}

func NewPrinter(out io.Writer, frameRate int) *Printer {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &Printer{out: out, frameRate: frameRate}
}

// Frame prints s if at least one frame interval has passed since the last
// printed frame, measured on now.
func (p *Printer) Frame(s *Screen, now time.Time) bool {
	if !p.lastFrame.IsZero() && now.Sub(p.lastFrame) < p.Interval() {
		return false
	}
	p.lastFrame = now
	p.frames++
	fmt.Fprint(p.out, clearScreen+s.View()+"\n")
	return true
}

// Interval is the minimum time between frames.
func (p *Printer) Interval() time.Duration {
	return time.Second / time.Duration(p.frameRate)
}

// Frames returns how many frames were printed.
func (p *Printer) Frames() int { return p.frames }

func (p *Printer) Start() { fmt.Fprint(p.out, hideCursor) }
func (p *Printer) Stop()  { fmt.Fprint(p.out, showCursor) }
