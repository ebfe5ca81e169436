package host

import (
	"image"

	fractal "github.com/marben/fractal_playground"
)

// Drag tracks a pan gesture. While dragging, the last frame is shown
// shifted by the pointer offset; the worker only learns about the move when
// the pointer is released.
type Drag struct {
	dragging bool
	start    fractal.Vector
	delta    fractal.Vector
	changed  bool
	snapshot *image.RGBA
}

func (d *Drag) Dragging() bool { return d.dragging }

// Down starts a drag at p.
func (d *Drag) Down(p fractal.Vector) {
	d.dragging = true
	d.start = p
}

// Move updates the offset. It reports false when not dragging or when the
// pointer is still within half a pixel of the start.
func (d *Drag) Move(p fractal.Vector) (fractal.Vector, bool) {
	if !d.dragging {
		return fractal.Vector{}, false
	}
	delta := p.Sub(d.start)
	d.delta = delta
	if fractal.Similar(delta, fractal.Vector{}) {
		return fractal.Vector{}, false
	}
	d.changed = true
	return delta, true
}

// Up ends the drag. It returns the final offset and whether the view moved.
func (d *Drag) Up() (fractal.Vector, bool) {
	if !d.dragging {
		return fractal.Vector{}, false
	}
	delta, changed := d.delta, d.changed
	*d = Drag{}
	return delta, changed
}
