package fractal

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidView is returned for views that would make the mapping degenerate.
var ErrInvalidView = errors.New("invalid view")

// ViewState places the math plane on the canvas.
type ViewState struct {
	// Center is the canvas position of the math origin.
	Center Vector
	// UnitSize is the number of pixels per math unit.
	UnitSize float64
}

// Validate reports whether v can be used for mapping.
func (v ViewState) Validate() error {
	if !(v.UnitSize > 0) || math.IsInf(v.UnitSize, 0) {
		return fmt.Errorf("%w: unit size %v", ErrInvalidView, v.UnitSize)
	}
	if !Finite(v.Center) {
		return fmt.Errorf("%w: center %v", ErrInvalidView, v.Center)
	}
	return nil
}

// Coordinates converts between canvas space and math space.
//
// Canvas Y grows downward while math Y grows upward, so the Y axis is
// mirrored around the center row.
type Coordinates struct {
	size Vector
	view ViewState
}

// NewCoordinates returns a mapper for a canvas of the given size.
func NewCoordinates(canvasSize Vector, view ViewState) (*Coordinates, error) {
	if err := view.Validate(); err != nil {
		return nil, err
	}
	return &Coordinates{size: canvasSize, view: view}, nil
}

func (c *Coordinates) CanvasSize() Vector { return c.size }
func (c *Coordinates) View() ViewState    { return c.view }
func (c *Coordinates) Center() Vector     { return c.view.Center }
func (c *Coordinates) UnitSize() float64  { return c.view.UnitSize }

// SetView replaces the whole view.
func (c *Coordinates) SetView(v ViewState) error {
	if err := v.Validate(); err != nil {
		return err
	}
	c.view = v
	return nil
}

// SetCenter moves the math origin to the canvas position p.
func (c *Coordinates) SetCenter(p Vector) error {
	if !Finite(p) {
		return fmt.Errorf("%w: center %v", ErrInvalidView, p)
	}
	c.view.Center = p
	return nil
}

// SetUnitSize changes the zoom level without moving the origin.
func (c *Coordinates) SetUnitSize(u float64) error {
	if !(u > 0) || math.IsInf(u, 0) {
		return fmt.Errorf("%w: unit size %v", ErrInvalidView, u)
	}
	c.view.UnitSize = u
	return nil
}

// ToMath maps a canvas position to the math plane.
func (c *Coordinates) ToMath(p Vector) Vector {
	return Vector{
		X: (p.X - c.view.Center.X) / c.view.UnitSize,
		Y: (c.view.Center.Y - p.Y) / c.view.UnitSize,
	}
}

// project maps m to the canvas without rounding.
func (c *Coordinates) project(m Vector) Vector {
	return Vector{
		X: m.X*c.view.UnitSize + c.view.Center.X,
		Y: c.view.Center.Y - m.Y*c.view.UnitSize,
	}
}

// ToCanvas maps a math point to the nearest canvas pixel.
func (c *Coordinates) ToCanvas(m Vector) Vector {
	p := c.project(m)
	return Vector{X: math.Round(p.X), Y: math.Round(p.Y)}
}

// BoundingCanvas is ToCanvas clamped into the canvas rectangle.
func (c *Coordinates) BoundingCanvas(m Vector) Vector {
	p := c.ToCanvas(m)
	p.X = math.Min(math.Max(p.X, 0), c.size.X)
	p.Y = math.Min(math.Max(p.Y, 0), c.size.Y)
	return p
}

// Middle returns the geometric center of the canvas.
func (c *Coordinates) Middle() Vector {
	return c.size.Mul(0.5)
}

// SetCenterToMath moves the view so that m lands on the canvas center,
// keeping the zoom level.
func (c *Coordinates) SetCenterToMath(m Vector) error {
	offset := c.project(m).Sub(c.view.Center)
	return c.SetCenter(c.Middle().Sub(offset))
}
