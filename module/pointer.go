package module

import (
	fractal "github.com/marben/fractal_playground"
	"github.com/marben/fractal_playground/controls"
)

// Pointer routes raw pointer input of a pixel shell: presses on buttons
// become clicks, presses on the canvas start a gesture on the view, and
// every release goes to the window.
type Pointer struct {
	View    View
	Window  *Window
	Buttons []controls.Button

	pressed bool
	touch   bool
}

func (p *Pointer) Pressed() bool { return p.pressed }

func (p *Pointer) Press(pos fractal.Vector, touch bool) {
	if key, ok := controls.HitTest(p.Buttons, fractal.Point(pos)); ok {
		p.View.Controls().Click(key)
		return
	}
	if !fractal.Point(pos).In(p.View.Canvas().Bounds()) {
		return
	}
	p.pressed, p.touch = true, touch
	p.View.PointerDown(pos)
}

// Move forwards pos while a gesture started on the canvas is in progress,
// even when the pointer has left the canvas.
func (p *Pointer) Move(pos fractal.Vector) {
	if p.pressed {
		p.View.PointerMove(pos)
	}
}

func (p *Pointer) Release(pos fractal.Vector) {
	ev := PointerEvent{Pos: pos, Touch: p.touch}
	p.pressed, p.touch = false, false
	if p.Window != nil {
		p.Window.PointerUp(ev)
	}
}
