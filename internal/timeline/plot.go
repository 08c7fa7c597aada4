package timeline

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
)

// Plot charts each stage's duration in seconds, in activation order.
func (r *Report) Plot(width, height int) string {
	if len(r.Entries) == 0 {
		return ""
	}
	data := make([]float64, len(r.Entries))
	for i, e := range r.Entries {
		data[i] = e.Duration().Seconds()
	}
	if len(data) == 1 {
		data = append(data, data[0])
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(2),
		asciigraph.Caption(fmt.Sprintf("%s: stage duration (s)", r.Name)))
}

// SVG draws the report as a gantt chart, one bar per activation.
func (r *Report) SVG(width int) string {
	const (
		rowHeight = 22
		labelW    = 140
		pad       = 10
	)
	if width <= labelW+2*pad {
		width = labelW + 2*pad + 100
	}
	height := len(r.Entries)*rowHeight + 2*pad + rowHeight

	total := r.Total.Seconds()
	if total <= 0 {
		total = 1
	}
	span := float64(width - labelW - 2*pad)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
<g font-family="monospace" font-size="12">
`, width, height, width, height))

	for i, e := range r.Entries {
		y := pad + i*rowHeight
		x := float64(labelW+pad) + e.Start.Seconds()/total*span
		w := e.Duration().Seconds() / total * span
		if w < 1 {
			w = 1
		}
		fill := "#2d77ef"
		switch {
		case e.Open:
			fill = "#888888"
		case e.Kind == "banner":
			fill = "#000000"
		}
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d">%s</text>
<rect x="%.1f" y="%d" width="%.1f" height="%d" fill="%s"/>
`, pad, y+rowHeight-7, escape(e.Name), x, y+3, w, rowHeight-6, fill))
	}

	axisY := pad + len(r.Entries)*rowHeight + rowHeight - 7
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d">0s</text>
<text x="%d" y="%d" text-anchor="end">%.2fs</text>
`, labelW+pad, axisY, width-pad, axisY, r.Total.Seconds()))

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func escape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;").Replace(s)
}
