package fractal

import "fmt"

// IterationsCount is the iteration budget of the escape-time test.
const IterationsCount = 100

// escapeRadiusSq is the squared escape radius |z| > 2.
const escapeRadiusSq = 4

// JuliaC is the fixed constant of the rendered Julia set.
var JuliaC = Vector{X: 0.14, Y: 0.6}

// EscapeResult is the outcome of the escape-time test.
// Steps is only meaningful when Escaped is true.
type EscapeResult struct {
	Escaped bool
	Steps   int
}

// BelongsToSet iterates z = z² + c starting at z0 and reports the iteration
// index at which |z| exceeded 2, if it did within IterationsCount iterations.
func BelongsToSet(z0, c Vector) EscapeResult {
	x, y := z0.X, z0.Y
	for i := 0; i < IterationsCount; i++ {
		x, y = x*x-y*y+c.X, 2*x*y+c.Y
		if x*x+y*y > escapeRadiusSq {
			return EscapeResult{Escaped: true, Steps: i}
		}
	}
	return EscapeResult{}
}

// Julia tests p against the Julia set for JuliaC.
func Julia(p Vector) EscapeResult {
	return BelongsToSet(p, JuliaC)
}

// Mandelbrot tests p against the Mandelbrot set.
func Mandelbrot(p Vector) EscapeResult {
	return BelongsToSet(Vector{}, p)
}

// SetType selects the escape-time variant.
type SetType int

const (
	MandelbrotSet SetType = iota
	JuliaSet
)

func (s SetType) String() string {
	switch s {
	case MandelbrotSet:
		return "mandelbrot"
	case JuliaSet:
		return "julia"
	}
	return fmt.Sprintf("SetType(%d)", int(s))
}

// ParseSetType parses the wire name of a set.
func ParseSetType(name string) (SetType, error) {
	switch name {
	case "mandelbrot":
		return MandelbrotSet, nil
	case "julia":
		return JuliaSet, nil
	}
	return 0, fmt.Errorf("unknown fractal set %q", name)
}

// Func returns the membership test of s.
func (s SetType) Func() func(Vector) EscapeResult {
	if s == JuliaSet {
		return Julia
	}
	return Mandelbrot
}
