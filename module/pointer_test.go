package module

import (
	"image"
	"slices"
	"testing"

	fractal "github.com/marben/fractal_playground"
	"github.com/marben/fractal_playground/controls"
)

type recordingView struct {
	canvas   *image.RGBA
	controls *controls.Group
	events   []string
}

func (v *recordingView) Canvas() *image.RGBA        { return v.canvas }
func (v *recordingView) Controls() *controls.Group  { return v.controls }
func (v *recordingView) PointerDown(fractal.Vector) { v.events = append(v.events, "down") }
func (v *recordingView) PointerMove(fractal.Vector) { v.events = append(v.events, "move") }
func (v *recordingView) Tick()                      {}
func (v *recordingView) Redraw() bool               { return false }
func (v *recordingView) Notice() string             { return "" }

func TestPointerRouting(t *testing.T) {
	v := &recordingView{
		canvas:   image.NewRGBA(image.Rect(0, 0, 100, 100)),
		controls: controls.New([]controls.Item{{Key: "plus", Text: "+"}}),
	}
	v.controls.OnClick("plus", func() { v.events = append(v.events, "plus") })
	win := NewWindow()
	win.OnPointerUp(func(ev PointerEvent) { v.events = append(v.events, "up") })

	p := &Pointer{View: v, Window: win, Buttons: v.controls.Layout(image.Pt(0, 110), image.Pt(40, 20), 4)}

	p.Move(fractal.V(5, 5))
	p.Press(fractal.V(10, 115), false)
	p.Release(fractal.V(10, 115))

	p.Press(fractal.V(50, 50), true)
	if !p.Pressed() {
		t.Fatal("press on canvas not tracked")
	}
	p.Move(fractal.V(60, 50))
	p.Move(fractal.V(300, 300))
	p.Release(fractal.V(300, 300))
	p.Move(fractal.V(70, 50))

	p.Press(fractal.V(500, 500), false)
	if p.Pressed() {
		t.Error("press outside canvas tracked")
	}

	want := []string{"plus", "up", "down", "move", "move", "up"}
	if !slices.Equal(v.events, want) {
		t.Errorf("events = %v, want %v", v.events, want)
	}
}
