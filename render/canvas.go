package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Canvas is a pixel addressed RGBA drawing surface.
type Canvas struct {
	img *image.RGBA
}

func NewCanvas(w, h int) *Canvas {
	return &Canvas{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func (c *Canvas) Bounds() image.Rectangle { return c.img.Rect }
func (c *Canvas) Width() int              { return c.img.Rect.Dx() }
func (c *Canvas) Height() int             { return c.img.Rect.Dy() }

// RGBA exposes the backing image. Callers must not retain it across frames.
func (c *Canvas) RGBA() *image.RGBA { return c.img }

// FillRect fills r clipped to the canvas.
// Rows are written directly into Pix so blocks of one pass can be filled
// from several goroutines as long as they do not overlap.
func (c *Canvas) FillRect(r image.Rectangle, col color.RGBA) {
	r = r.Intersect(c.img.Rect)
	if r.Empty() {
		return
	}
	row := c.img.PixOffset(r.Min.X, r.Min.Y)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for i := row; i < row+4*r.Dx(); i += 4 {
			c.img.Pix[i+0] = col.R
			c.img.Pix[i+1] = col.G
			c.img.Pix[i+2] = col.B
			c.img.Pix[i+3] = col.A
		}
		row += c.img.Stride
	}
}

// Fill paints the whole canvas.
func (c *Canvas) Fill(col color.RGBA) {
	c.FillRect(c.img.Rect, col)
}

// ImageData returns a copy of the pixels.
func (c *Canvas) ImageData() []byte {
	pix := make([]byte, len(c.img.Pix))
	copy(pix, c.img.Pix)
	return pix
}

// Snapshot returns a copy of the canvas as an image.
func (c *Canvas) Snapshot() *image.RGBA {
	return &image.RGBA{
		Pix:    c.ImageData(),
		Stride: c.img.Stride,
		Rect:   c.img.Rect,
	}
}

// PutImageData copies src onto the canvas with its origin at `at`.
// Parts falling outside the canvas are dropped.
func (c *Canvas) PutImageData(src image.Image, at image.Point) {
	b := src.Bounds()
	dst := b.Sub(b.Min).Add(at)
	draw.Draw(c.img, dst, src, b.Min, draw.Src)
}

// PutPix is PutImageData for a raw RGBA buffer of the given size.
func (c *Canvas) PutPix(pix []byte, w, h int, at image.Point) {
	if len(pix) < 4*w*h {
		return
	}
	c.PutImageData(&image.RGBA{Pix: pix, Stride: 4 * w, Rect: image.Rect(0, 0, w, h)}, at)
}
