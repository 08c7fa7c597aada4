package surface

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Cell is one character position on a Canvas.
type Cell struct {
	Rune   rune
	Fg     string
	Bold   bool
	Italic bool
	// cont marks the right half of a double-width rune.
	cont bool
}

// Canvas is a fixed grid of styled cells.
type Canvas struct {
	Width, Height int
	Background    string
	Grid          [][]Cell
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]Cell, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]Cell, w)
	}
	c.Clear()
	return c
}

// Clear resets the canvas to blanks.
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = Cell{Rune: ' '}
		}
	}
}

// Set writes a cell at (x, y), ignoring positions off the canvas.
func (c *Canvas) Set(x, y int, cell Cell) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return
	}
	c.Grid[y][x] = cell
}

// Put writes text starting at (x, y), each rune magnified scale times
// horizontally. It returns the number of columns used.
func (c *Canvas) Put(x, y int, text string, scale int, tmpl Cell) int {
	col := x
	for _, r := range text {
		w := lipgloss.Width(string(r))
		if w < 1 {
			continue
		}
		for k := 0; k < scale; k++ {
			cell := tmpl
			cell.Rune = r
			c.Set(col, y, cell)
			for extra := 1; extra < w; extra++ {
				c.Set(col+extra, y, Cell{cont: true})
			}
			col += w
		}
	}
	return col - x
}

// Rune returns the rune at (x, y), or 0 when off the canvas.
func (c *Canvas) Rune(x, y int) rune {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return 0
	}
	return c.Grid[y][x].Rune
}

// String renders the canvas without color.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		for _, cell := range row {
			if cell.cont {
				continue
			}
			b.WriteRune(cell.Rune)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Render draws the canvas with lipgloss, batching runs of equal style.
func (c *Canvas) Render() string {
	var b strings.Builder
	for y, row := range c.Grid {
		var (
			run  strings.Builder
			last Cell
		)
		flush := func() {
			if run.Len() == 0 {
				return
			}
			st := lipgloss.NewStyle().Bold(last.Bold).Italic(last.Italic)
			if last.Fg != "" {
				st = st.Foreground(lipgloss.Color(last.Fg))
			}
			if c.Background != "" {
				st = st.Background(lipgloss.Color(c.Background))
			}
			b.WriteString(st.Render(run.String()))
			run.Reset()
		}
		for x, cell := range row {
			if cell.cont {
				continue
			}
			if x > 0 && (cell.Fg != last.Fg || cell.Bold != last.Bold || cell.Italic != last.Italic) {
				flush()
			}
			last = cell
			run.WriteRune(cell.Rune)
		}
		flush()
		if y < len(c.Grid)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
