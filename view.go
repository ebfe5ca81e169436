package fractal

import (
	"fmt"
	"math"
	"sort"
)

const (
	// DefaultPadding is the margin in pixels around the default math square.
	DefaultPadding = 20
	// CoordinateSquareMathSize is the side of the math square shown by the default view.
	CoordinateSquareMathSize = 4
)

// DefaultView centers the math origin on the canvas and fits a square of
// CoordinateSquareMathSize math units into the shorter canvas side minus padding.
func DefaultView(canvasSize Vector, padding float64) (ViewState, error) {
	side := math.Min(canvasSize.X, canvasSize.Y)
	if !(side > 0) {
		return ViewState{}, fmt.Errorf("%w: canvas size %v", ErrInvalidView, canvasSize)
	}
	square := side - 2*padding
	if square <= 0 {
		// padding larger than the canvas: show the square edge to edge
		square = side
	}
	v := ViewState{
		Center:   canvasSize.Mul(0.5),
		UnitSize: square / CoordinateSquareMathSize,
	}
	return v, v.Validate()
}

// Region is a rectangle of the math plane.
type Region struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// ViewForRegion returns the view that fits r into a canvas of the given size,
// centered, preserving the aspect ratio.
func ViewForRegion(r Region, canvasSize Vector) (ViewState, error) {
	w, h := r.Xmax-r.Xmin, r.Ymax-r.Ymin
	if !(w > 0) || !(h > 0) {
		return ViewState{}, fmt.Errorf("%w: empty region %+v", ErrInvalidView, r)
	}
	u := math.Min(canvasSize.X/w, canvasSize.Y/h)
	mid := Vector{X: (r.Xmin + r.Xmax) / 2, Y: (r.Ymin + r.Ymax) / 2}
	v := ViewState{
		Center: Vector{
			X: canvasSize.X/2 - mid.X*u,
			Y: canvasSize.Y/2 + mid.Y*u,
		},
		UnitSize: u,
	}
	return v, v.Validate()
}

// Classic regions / landmarks in the Mandelbrot set
var (
	// Seahorse Valley – dense filaments and repeating “seahorse” curls
	SeahorseValley = Region{Xmin: -0.8, Xmax: -0.7, Ymin: 0.05, Ymax: 0.15}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = Region{Xmin: -1.85, Xmax: -1.75, Ymin: -0.10, Ymax: -0.02}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Region{Xmin: -0.7435, Xmax: -0.7420, Ymin: 0.1310, Ymax: 0.1325}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = Region{Xmin: -0.7480, Xmax: -0.7450, Ymin: 0.0950, Ymax: 0.0980}

	// Valley of the Dragon – deep, highly detailed spiral filaments
	ValleyOfTheDragon = Region{Xmin: -0.7400, Xmax: -0.7350, Ymin: 0.1800, Ymax: 0.1850}
)

// Landmarks indexes the classic regions by a short name.
var Landmarks = map[string]Region{
	"seahorse": SeahorseValley,
	"elephant": ElephantValley,
	"spiral":   SpiralMinibrot,
	"triple":   TripleSpiral,
	"dragon":   ValleyOfTheDragon,
}

// LandmarkNames returns the keys of Landmarks in sorted order.
func LandmarkNames() []string {
	names := make([]string, 0, len(Landmarks))
	for n := range Landmarks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
