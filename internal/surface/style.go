package surface

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Size is a font size in CSS pixels.
type Size float64

const (
	DefaultSize Size = 80

	// pxPerCell is how many CSS pixels one magnification step covers.
	pxPerCell = 64
)

// ParseSize accepts "80px", "80" or "1.5em" (16px em).
func ParseSize(s string) (Size, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, fmt.Errorf("surface: empty size")
	}
	mult := 1.0
	switch {
	case strings.HasSuffix(s, "px"):
		s = strings.TrimSuffix(s, "px")
	case strings.HasSuffix(s, "em"):
		s = strings.TrimSuffix(s, "em")
		mult = 16
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("surface: invalid size %q: %w", s, err)
	}
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("surface: size must be positive, got %q", s)
	}
	return Size(v * mult), nil
}

func (s Size) String() string {
	return strconv.FormatFloat(float64(s), 'f', -1, 64) + "px"
}

// Scale is the integer cell magnification used to draw text at this size.
func (s Size) Scale() int {
	k := int(math.Round(float64(s) / pxPerCell))
	if k < 1 {
		return 1
	}
	return k
}

// Style is the visual state of a node or of the whole surface.
type Style struct {
	Foreground string
	Background string
	Bold       bool
	Size       Size
}

// Merge returns s with every zero field taken from base.
func (s Style) Merge(base Style) Style {
	if s.Foreground == "" {
		s.Foreground = base.Foreground
	}
	if s.Background == "" {
		s.Background = base.Background
	}
	if s.Size == 0 {
		s.Size = base.Size
	}
	s.Bold = s.Bold || base.Bold
	return s
}

var namedColors = map[string]string{
	"black": "#000000",
	"white": "#ffffff",
	"red":   "#ff0000",
	"green": "#008000",
	"blue":  "#0000ff",
	"gray":  "#808080",
	"grey":  "#808080",
}

// NormalizeColor maps CSS color names to hex and validates hex colors.
func NormalizeColor(c string) (string, error) {
	c = strings.TrimSpace(strings.ToLower(c))
	if hex, ok := namedColors[c]; ok {
		return hex, nil
	}
	if !strings.HasPrefix(c, "#") || (len(c) != 4 && len(c) != 7) {
		return "", fmt.Errorf("surface: unsupported color %q", c)
	}
	if _, err := strconv.ParseUint(c[1:], 16, 32); err != nil {
		return "", fmt.Errorf("surface: unsupported color %q", c)
	}
	if len(c) == 4 {
		c = "#" + strings.Repeat(c[1:2], 2) + strings.Repeat(c[2:3], 2) + strings.Repeat(c[3:4], 2)
	}
	return c, nil
}
