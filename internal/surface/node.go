package surface

import "slices"

// Point is an absolute position in cells from the surface's top-left corner.
type Point struct {
	X, Y float64
}

// Field is an editable single-line input rendered under a node's content.
type Field struct {
	Placeholder string
	Value       string
	Status      string
}

// Node is one rendered element. A nil Position means the node flows in the
// centered column with the other flowing nodes.
type Node struct {
	ID       string
	Content  Rich
	Style    Style
	Position *Point
	Classes  []string
	Field    *Field
}

// NewText returns a flowing text node.
func NewText(content Rich, style Style) *Node {
	return &Node{Content: content, Style: style}
}

// AddClass appends classes that are not already present.
func (n *Node) AddClass(classes ...string) {
	for _, c := range classes {
		if !n.HasClass(c) {
			n.Classes = append(n.Classes, c)
		}
	}
}

func (n *Node) HasClass(c string) bool {
	return slices.Contains(n.Classes, c)
}

// Animated reports whether the node carries at least one keyframed effect.
func (n *Node) Animated() bool {
	return len(Keyframed(n.Classes)) > 0
}

// SetText replaces the content with plain text.
func (n *Node) SetText(s string) {
	n.Content = Plain(s)
}

func (n *Node) Text() string {
	return n.Content.String()
}
