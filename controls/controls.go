// Package controls is a labeled button group keyed by string identifiers.
// It keeps no styling; shells lay the rows out and forward clicks.
package controls

import "image"

// Item is one button.
type Item struct {
	Key  string
	Text string
}

// Button is an item placed on screen.
type Button struct {
	Item
	Rect image.Rectangle
}

type Group struct {
	rows     [][]Item
	handlers map[string][]func()
}

func New(rows ...[]Item) *Group {
	return &Group{rows: rows, handlers: make(map[string][]func())}
}

// Rows returns the button rows in display order.
func (g *Group) Rows() [][]Item {
	return g.rows
}

// Has reports whether key names a button of the group.
func (g *Group) Has(key string) bool {
	for _, row := range g.rows {
		for _, it := range row {
			if it.Key == key {
				return true
			}
		}
	}
	return false
}

// OnClick registers fn for clicks on key and returns a function removing it.
func (g *Group) OnClick(key string, fn func()) (remove func()) {
	g.handlers[key] = append(g.handlers[key], fn)
	idx := len(g.handlers[key]) - 1
	return func() {
		if hs := g.handlers[key]; idx < len(hs) {
			hs[idx] = nil
		}
	}
}

// Click runs the handlers of key. It reports false for unknown keys.
func (g *Group) Click(key string) bool {
	if !g.Has(key) {
		return false
	}
	for _, fn := range g.handlers[key] {
		if fn != nil {
			fn()
		}
	}
	return true
}

// Layout places the rows top to bottom starting at origin, each button
// size wide and high with gap pixels between buttons and rows.
func (g *Group) Layout(origin, size image.Point, gap int) []Button {
	var out []Button
	y := origin.Y
	for _, row := range g.rows {
		x := origin.X
		for _, it := range row {
			out = append(out, Button{Item: it, Rect: image.Rectangle{Min: image.Pt(x, y), Max: image.Pt(x+size.X, y+size.Y)}})
			x += size.X + gap
		}
		y += size.Y + gap
	}
	return out
}

// HitTest returns the key of the button under p.
func HitTest(buttons []Button, p image.Point) (string, bool) {
	for _, b := range buttons {
		if p.In(b.Rect) {
			return b.Key, true
		}
	}
	return "", false
}
