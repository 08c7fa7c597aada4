package surface

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Span is a run of text sharing one weight/slant.
type Span struct {
	Text   string
	Bold   bool
	Italic bool
}

// Line is one visual line of spans.
type Line []Span

// Rich is multi-line styled text.
type Rich []Line

// Plain builds single-style rich text, splitting on newlines.
func Plain(s string) Rich {
	var r Rich
	for _, l := range strings.Split(s, "\n") {
		r = append(r, Line{{Text: l}})
	}
	return r
}

// ParseMarkup converts the small HTML subset used in show content into
// rich text: <b>/<strong>, <i>/<em>, <br> and <p> line breaks. Whitespace
// collapses the way a browser would; other tags are dropped, their text kept.
func ParseMarkup(s string) (Rich, error) {
	z := html.NewTokenizer(strings.NewReader(s))
	var (
		out          Rich
		cur          Line
		bold, italic int
	)
	breakLine := func() {
		out = append(out, trimLine(cur))
		cur = nil
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, err
			}
			if len(cur) > 0 || len(out) == 0 {
				breakLine()
			}
			return dropEmptyEdges(out), nil
		case html.TextToken:
			text := collapseSpace(string(z.Text()))
			if text == "" {
				continue
			}
			cur = append(cur, Span{Text: text, Bold: bold > 0, Italic: italic > 0})
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "b", "strong":
				if tt == html.StartTagToken {
					bold++
				}
			case "i", "em":
				if tt == html.StartTagToken {
					italic++
				}
			case "br":
				breakLine()
			case "p", "div", "h1", "h2", "h3":
				if len(cur) > 0 {
					breakLine()
				}
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "b", "strong":
				if bold > 0 {
					bold--
				}
			case "i", "em":
				if italic > 0 {
					italic--
				}
			case "p", "div", "h1", "h2", "h3":
				if len(cur) > 0 {
					breakLine()
				}
			}
		}
	}
}

// String returns the text without styling, lines joined by newlines.
func (r Rich) String() string {
	lines := make([]string, len(r))
	for i, l := range r {
		lines[i] = l.String()
	}
	return strings.Join(lines, "\n")
}

func (l Line) String() string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(s.Text)
	}
	return b.String()
}

func collapseSpace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s != "" {
			return " "
		}
		return ""
	}
	out := strings.Join(fields, " ")
	if isSpace(s[0]) {
		out = " " + out
	}
	if isSpace(s[len(s)-1]) {
		out += " "
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}

func trimLine(l Line) Line {
	for len(l) > 0 && strings.TrimSpace(l[0].Text) == "" {
		l = l[1:]
	}
	for len(l) > 0 && strings.TrimSpace(l[len(l)-1].Text) == "" {
		l = l[:len(l)-1]
	}
	if len(l) == 0 {
		return Line{}
	}
	out := make(Line, len(l))
	copy(out, l)
	out[0].Text = strings.TrimLeft(out[0].Text, " ")
	out[len(out)-1].Text = strings.TrimRight(out[len(out)-1].Text, " ")
	return out
}

func dropEmptyEdges(r Rich) Rich {
	for len(r) > 1 && len(r[0]) == 0 {
		r = r[1:]
	}
	for len(r) > 1 && len(r[len(r)-1]) == 0 {
		r = r[:len(r)-1]
	}
	return r
}
