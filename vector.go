package fractal

import (
	"encoding/json"
	"fmt"
	"image"
	"math"

	"seehuhn.de/go/geom/vec"
)

// Vector is a point in either canvas (pixel) space or math (complex plane) space.
type Vector = vec.Vec2

// V is shorthand for Vector{X: x, Y: y}.
func V(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

// similarityThreshold is the per-component distance below which two vectors
// are considered the same pixel position.
const similarityThreshold = 0.5

// Similar reports whether a and b differ by less than half a pixel in both components.
func Similar(a, b Vector) bool {
	return math.Abs(a.X-b.X) < similarityThreshold && math.Abs(a.Y-b.Y) < similarityThreshold
}

// Finite reports whether both components are finite numbers.
func Finite(v Vector) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Point converts v to an integer pixel position, rounding both components.
func Point(v Vector) image.Point {
	return image.Pt(int(math.Round(v.X)), int(math.Round(v.Y)))
}

// FromPoint converts a pixel position to a Vector.
func FromPoint(p image.Point) Vector {
	return Vector{X: float64(p.X), Y: float64(p.Y)}
}

// pair is the wire form of a Vector: a two element JSON array.
type pair [2]float64

func pairOf(v Vector) pair {
	return pair{v.X, v.Y}
}

func (p pair) vector() Vector {
	return Vector{X: p[0], Y: p[1]}
}

func (p *pair) UnmarshalJSON(b []byte) error {
	var raw []float64
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("expected [x, y], got %d numbers", len(raw))
	}
	p[0], p[1] = raw[0], raw[1]
	return nil
}
