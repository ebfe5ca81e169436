// Package module defines how playground modules are mounted into the shared
// viewport, one at a time.
package module

import (
	"image"
	"math"

	fractal "github.com/marben/fractal_playground"
	"github.com/marben/fractal_playground/controls"
)

// DefaultScaleFactor is the number of device pixels per container pixel.
const DefaultScaleFactor = 2

// InputMode is the pointer device a shell listens to. Shells never route
// both kinds at once.
type InputMode int

const (
	Mouse InputMode = iota
	Touch
)

func (m InputMode) String() string {
	if m == Touch {
		return "touch"
	}
	return "mouse"
}

// InputFor picks touch input on touch capable devices.
func InputFor(touchCapable bool) InputMode {
	if touchCapable {
		return Touch
	}
	return Mouse
}

// Container is the element a module is mounted into.
type Container interface {
	// Size is the container size in layout pixels.
	Size() image.Point
	ScaleFactor() float64
	// Window receives events that happen outside the container.
	Window() *Window
	Input() InputMode
}

// DeviceSize returns the canvas size in device pixels for c.
func DeviceSize(c Container) image.Point {
	s := c.ScaleFactor()
	if s <= 0 {
		s = DefaultScaleFactor
	}
	size := c.Size()
	return image.Pt(int(math.Round(float64(size.X)*s)), int(math.Round(float64(size.Y)*s)))
}

// View is what a mounted module shows. All methods are called from the
// shell's UI loop.
type View interface {
	// Canvas is the visible bitmap in device pixels.
	Canvas() *image.RGBA
	Controls() *controls.Group
	// PointerDown and PointerMove receive canvas positions in device pixels.
	PointerDown(p fractal.Vector)
	PointerMove(p fractal.Vector)
	// Tick lets the view take in results that arrived since the last tick.
	Tick()
	// Redraw reports whether Canvas changed since the previous call.
	Redraw() bool
	// Notice is a non-fatal message for the user, empty when all is well.
	Notice() string
}

// Mounted is returned by Mount.
type Mounted struct {
	View View
	// BeforeUnmount releases everything the module holds outside its view.
	BeforeUnmount func()
}

type Module interface {
	Mount(c Container) (Mounted, error)
}

// Box is a fixed size Container.
type Box struct {
	W, H  int
	Scale float64
	Win   *Window
	Mode  InputMode
}

func (b *Box) Size() image.Point    { return image.Pt(b.W, b.H) }
func (b *Box) ScaleFactor() float64 { return b.Scale }
func (b *Box) Window() *Window      { return b.Win }
func (b *Box) Input() InputMode     { return b.Mode }
