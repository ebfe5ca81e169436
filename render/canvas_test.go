package render

import (
	"image"
	"image/color"
	"testing"
)

func TestFillRectClips(t *testing.T) {
	c := NewCanvas(4, 3)
	red := color.RGBA{R: 255, A: 255}
	c.FillRect(image.Rect(2, 1, 10, 10), red)

	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			got := c.RGBA().RGBAAt(x, y)
			want := color.RGBA{}
			if x >= 2 && y >= 1 {
				want = red
			}
			if got != want {
				t.Errorf("(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}

	// fully outside is a no-op
	c.FillRect(image.Rect(-5, -5, -1, -1), color.RGBA{G: 255, A: 255})
	if got := c.RGBA().RGBAAt(0, 0); got != (color.RGBA{}) {
		t.Errorf("outside fill leaked: %v", got)
	}
}

func TestImageDataIsACopy(t *testing.T) {
	c := NewCanvas(2, 2)
	data := c.ImageData()
	data[0] = 99
	if c.RGBA().Pix[0] != 0 {
		t.Error("ImageData shares the canvas buffer")
	}
}

func TestPutImageDataShifts(t *testing.T) {
	src := NewCanvas(3, 3)
	blue := color.RGBA{B: 255, A: 255}
	src.Fill(blue)

	dst := NewCanvas(4, 4)
	dst.PutImageData(src.Snapshot(), image.Pt(2, -1))

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := color.RGBA{}
			if x >= 2 && y <= 1 {
				want = blue
			}
			if got := dst.RGBA().RGBAAt(x, y); got != want {
				t.Errorf("(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestSplitRectNoClip(t *testing.T) {
	tiles := splitRectNoClip(image.Rect(10, 0, 35, 8), 10, 8)
	want := []image.Rectangle{
		image.Rect(10, 0, 20, 8),
		image.Rect(20, 0, 30, 8),
		image.Rect(30, 0, 35, 8),
	}
	if len(tiles) != len(want) {
		t.Fatalf("got %v, want %v", tiles, want)
	}
	for i := range want {
		if tiles[i] != want[i] {
			t.Errorf("tile %d = %v, want %v", i, tiles[i], want[i])
		}
	}
}
