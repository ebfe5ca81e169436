package fractal

import (
	"image/color"

	"golang.org/x/image/colornames"
)

// BackgroundColor is used for points that never escape and for the area
// uncovered while the view is dragged.
var BackgroundColor = color.RGBA{A: 0xff}

// GradientPoints are the control colours of the default gradient, from
// fastest to slowest escape.
var GradientPoints = []color.RGBA{
	colornames.Midnightblue,
	colornames.Royalblue,
	colornames.Deepskyblue,
	colornames.Gold,
	colornames.Darkorange,
	colornames.White,
}

// Gradient maps an escape step to a colour.
type Gradient []color.RGBA

// DefaultGradient is the gradient used when no other is configured.
var DefaultGradient = NewGradient(GradientPoints, IterationsCount)

// NewGradient spreads points evenly over n entries and fills the entries in
// between by linear interpolation.
func NewGradient(points []color.RGBA, n int) Gradient {
	g := make(Gradient, n)
	switch {
	case n == 0:
		return g
	case len(points) == 0:
		for i := range g {
			g[i] = BackgroundColor
		}
		return g
	case len(points) == 1 || n == 1:
		for i := range g {
			g[i] = points[0]
		}
		return g
	}

	segments := len(points) - 1
	for i := range g {
		pos := float64(i) / float64(n-1) * float64(segments)
		seg := int(pos)
		if seg >= segments {
			seg = segments - 1
		}
		g[i] = lerpRGBA(points[seg], points[seg+1], pos-float64(seg))
	}
	return g
}

// At returns the colour for an escape at step i, clamped to the gradient range.
func (g Gradient) At(i int) color.RGBA {
	if len(g) == 0 {
		return BackgroundColor
	}
	if i < 0 {
		i = 0
	}
	if i >= len(g) {
		i = len(g) - 1
	}
	return g[i]
}

// Color returns the colour of an escape-time result.
func (g Gradient) Color(r EscapeResult) color.RGBA {
	if !r.Escaped {
		return BackgroundColor
	}
	return g.At(r.Steps)
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: lerpUint8(a.R, b.R, t),
		G: lerpUint8(a.G, b.G, t),
		B: lerpUint8(a.B, b.B, t),
		A: lerpUint8(a.A, b.A, t),
	}
}

func lerpUint8(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}
