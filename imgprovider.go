package fractal

//go:generate go run github.com/marben/irpc/cmd/irpc

// ImgProvider renders one view to completion and returns its RGBA pixels,
// 4*width*height bytes in row order. The math origin sits at
// (originX, originY) on the canvas with unitSize pixels per math unit.
type ImgProvider interface {
	RenderImage(set SetType, width, height int, originX, originY, unitSize float64) ([]byte, error)
}
