package surface

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const flowGap = 1

// View composes the current frame.
func (s *Screen) View() string {
	c := s.canvas
	c.Clear()
	st := s.Style()
	c.Background = st.Background

	var flow []*Node
	for _, n := range s.nodes {
		if n.Position == nil {
			flow = append(flow, n)
		}
	}
	s.drawFlow(c, flow, st)

	for _, n := range s.nodes {
		if n.Position != nil {
			s.drawNode(c, n, int(math.Round(n.Position.X)), int(math.Round(n.Position.Y)), st)
		}
	}
	return c.Render()
}

// drawFlow stacks flowing nodes in a column centered on the surface.
func (s *Screen) drawFlow(c *Canvas, nodes []*Node, st Style) {
	if len(nodes) == 0 {
		return
	}
	total := 0
	for i, n := range nodes {
		_, h := s.Measure(n)
		total += h
		if i > 0 {
			total += flowGap
		}
	}
	y := (s.height - total) / 2
	if y < 0 {
		y = 0
	}
	for _, n := range nodes {
		w, h := s.Measure(n)
		x := (s.width - w) / 2
		s.drawNode(c, n, x, y, st)
		y += h + flowGap
	}
}

func (s *Screen) drawNode(c *Canvas, n *Node, x, y int, st Style) {
	ns := n.Style.Merge(Style{Foreground: st.Foreground, Size: DefaultSize})
	k := ns.Size.Scale()
	reveal := 1.0

	if p := s.progress(n); p >= 0 {
		for _, e := range Keyframed(n.Classes) {
			dx, dy := e.Offset(p)
			x += int(math.Round(dx * float64(s.width)))
			y += int(math.Round(dy * float64(s.height)))
			reveal = math.Min(reveal, e.Reveal(p))
		}
	}
	if reveal <= 0 {
		return
	}

	w, _ := s.Measure(n)
	row := y
	for _, line := range n.Content {
		lw := lipgloss.Width(line.String()) * k
		for rep := 0; rep < k; rep++ {
			col := x + (w-lw)/2
			for _, span := range line {
				text := revealText(span.Text, reveal)
				col += c.Put(col, row, text, k, Cell{
					Fg:     ns.Foreground,
					Bold:   ns.Bold || span.Bold,
					Italic: span.Italic,
				})
				if pad := lipgloss.Width(span.Text) - lipgloss.Width(text); pad > 0 {
					col += pad * k
				}
			}
			row++
		}
	}

	if n.Field != nil {
		row++
		s.drawField(c, n, x, row, w, ns)
	}
}

func (s *Screen) drawField(c *Canvas, n *Node, x, y, w int, ns Style) {
	f := n.Field
	text := "[ " + fieldText(f) + " ]"
	fg := ns.Foreground
	if f.Value == "" {
		fg = s.theme.Muted
	}
	col := x + (w-lipgloss.Width(text))/2
	c.Put(col, y, text, 1, Cell{Fg: fg, Bold: s.focus == n})
	if f.Status != "" {
		col = x + (w-lipgloss.Width(f.Status))/2
		c.Put(col, y+1, f.Status, 1, Cell{Fg: s.theme.Accent})
	}
}

func fieldText(f *Field) string {
	if f.Value == "" {
		return f.Placeholder
	}
	return f.Value
}

// revealText keeps the centered share of text, blanking the rest.
func revealText(text string, share float64) string {
	if share >= 1 {
		return text
	}
	runes := []rune(text)
	keep := int(math.Ceil(float64(len(runes)) * share))
	hide := len(runes) - keep
	left := hide / 2
	var b strings.Builder
	for i, r := range runes {
		if i < left || i >= left+keep {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
