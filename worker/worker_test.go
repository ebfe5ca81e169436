package worker

import (
	"bytes"
	"context"
	"errors"
	"image"
	"slices"
	"testing"
	"time"

	fractal "github.com/marben/fractal_playground"
	"github.com/marben/fractal_playground/render"
)

type recorder struct {
	frames []fractal.Frame
	err    error
}

func (r *recorder) PostFrame(_ context.Context, f fractal.Frame) error {
	if r.err != nil {
		return r.err
	}
	r.frames = append(r.frames, f)
	return nil
}

func (r *recorder) steps() []int {
	var s []int
	for _, f := range r.frames {
		s = append(s, f.Step)
	}
	return s
}

func initMessage(t *testing.T, w, h float64) fractal.Message {
	t.Helper()
	size := fractal.V(w, h)
	view, err := fractal.DefaultView(size, fractal.DefaultPadding)
	if err != nil {
		t.Fatal(err)
	}
	return fractal.InitMessage(size, view)
}

func mustHandle(t *testing.T, w *Worker, msg fractal.Message) {
	t.Helper()
	if err := w.Handle(context.Background(), msg); err != nil {
		t.Fatalf("%s: %v", msg.Type, err)
	}
}

func drain(t *testing.T, w *Worker) {
	t.Helper()
	for {
		ran, err := w.Step()
		if err != nil {
			t.Fatal(err)
		}
		if !ran {
			return
		}
	}
}

func coordinatesOf(t *testing.T, w *Worker) *fractal.Coordinates {
	t.Helper()
	view, ok := w.View()
	if !ok {
		t.Fatal("worker not initialized")
	}
	c, err := fractal.NewCoordinates(w.st.coords.CanvasSize(), view)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNotInitialized(t *testing.T) {
	w := New(&recorder{})
	err := w.Handle(context.Background(), fractal.RenderMessage())
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("err = %v, want ErrNotInitialized", err)
	}
}

func TestRejectsInvalidMessage(t *testing.T) {
	w := New(&recorder{})
	mustHandle(t, w, initMessage(t, 32, 32))
	err := w.Handle(context.Background(), fractal.ZoomMessage(3))
	if !errors.Is(err, fractal.ErrBadMessage) {
		t.Errorf("err = %v, want ErrBadMessage", err)
	}
}

func TestInitRejectsOversizedCanvas(t *testing.T) {
	view := fractal.ViewState{Center: fractal.V(5, 5), UnitSize: 1}
	for _, size := range []fractal.Vector{fractal.V(1e19, 10), fractal.V(1e6, 1e6), fractal.V(12.5, 10)} {
		w := New(&recorder{})
		err := w.Handle(context.Background(), fractal.InitMessage(size, view))
		if !errors.Is(err, fractal.ErrBadMessage) {
			t.Errorf("size %v: err = %v, want ErrBadMessage", size, err)
		}
		if _, ok := w.View(); ok {
			t.Errorf("size %v: worker initialized", size)
		}
	}
}

func TestSetSurvivesReinit(t *testing.T) {
	w := New(&recorder{})
	if w.Set() != fractal.MandelbrotSet {
		t.Fatalf("set before init = %v", w.Set())
	}
	mustHandle(t, w, initMessage(t, 32, 32))
	mustHandle(t, w, fractal.SetFractalFunctionMessage(fractal.JuliaSet))
	mustHandle(t, w, initMessage(t, 64, 64))
	if w.Set() != fractal.JuliaSet {
		t.Errorf("set after second init = %v, want julia", w.Set())
	}
}

func TestRenderPasses(t *testing.T) {
	rec := &recorder{}
	w := New(rec)
	mustHandle(t, w, initMessage(t, 64, 48))
	mustHandle(t, w, fractal.RenderMessage())

	if !slices.Equal(rec.steps(), []int{16}) {
		t.Fatalf("after Handle: steps = %v, want the first pass only", rec.steps())
	}
	drain(t, w)
	if want := []int{16, 8, 4, 2, 1}; !slices.Equal(rec.steps(), want) {
		t.Fatalf("steps = %v, want %v", rec.steps(), want)
	}
	for _, f := range rec.frames {
		if f.Width != 64 || f.Height != 48 || len(f.Pix) != 64*48*4 {
			t.Errorf("frame %dx%d with %d bytes", f.Width, f.Height, len(f.Pix))
		}
	}
	if &rec.frames[0].Pix[0] == &rec.frames[1].Pix[0] {
		t.Error("frames share a pixel buffer")
	}
}

func TestEscapeClipMatchesFullRender(t *testing.T) {
	for _, set := range []fractal.SetType{fractal.MandelbrotSet, fractal.JuliaSet} {
		t.Run(set.String(), func(t *testing.T) {
			final := func(opts ...Option) []byte {
				rec := &recorder{}
				w := New(rec, opts...)
				mustHandle(t, w, initMessage(t, 120, 90))
				mustHandle(t, w, fractal.MoveCenterMessage(fractal.V(35, -20)))
				mustHandle(t, w, fractal.SetFractalFunctionMessage(set))
				mustHandle(t, w, fractal.ZoomMessage(fractal.ZoomOut))
				drain(t, w)
				return rec.frames[len(rec.frames)-1].Pix
			}
			clipped := final(WithEscapeClip(true))
			full := final(WithEscapeClip(false))
			parallel := final(WithWorkers(3), WithStep(8))
			if !bytes.Equal(clipped, full) {
				t.Error("clipped render differs from full render")
			}
			if !bytes.Equal(parallel, full) {
				t.Error("parallel render differs from full render")
			}
		})
	}
}

func TestConvergedFrameMatchesDirectEvaluation(t *testing.T) {
	rec := &recorder{}
	w := New(rec)
	mustHandle(t, w, initMessage(t, 80, 60))
	mustHandle(t, w, fractal.SetFractalFunctionMessage(fractal.JuliaSet))
	drain(t, w)

	c := coordinatesOf(t, w)
	canvas := render.NewCanvas(80, 60)
	for y := 0; y < 60; y++ {
		for x := 0; x < 80; x++ {
			r := fractal.Julia(c.ToMath(fractal.V(float64(x), float64(y))))
			canvas.FillRect(image.Rect(x, y, x+1, y+1), fractal.DefaultGradient.Color(r))
		}
	}
	if got := rec.frames[len(rec.frames)-1].Pix; !bytes.Equal(got, canvas.RGBA().Pix) {
		t.Error("converged frame differs from direct evaluation")
	}
}

func TestZoomKeepsCenterAnchored(t *testing.T) {
	for _, factor := range []float64{fractal.ZoomIn, fractal.ZoomOut} {
		w := New(&recorder{})
		mustHandle(t, w, initMessage(t, 800, 800))
		mustHandle(t, w, fractal.MoveCenterMessage(fractal.V(37, -11)))

		before := coordinatesOf(t, w)
		anchor := before.ToMath(before.Middle())

		mustHandle(t, w, fractal.ZoomMessage(factor))
		after := coordinatesOf(t, w)
		if got := after.ToCanvas(anchor); got != fractal.V(400, 400) {
			t.Errorf("zoom %v: anchor maps to %v, want canvas center", factor, got)
		}
		if want := before.UnitSize() * factor; after.UnitSize() != want {
			t.Errorf("zoom %v: unit size %v, want %v", factor, after.UnitSize(), want)
		}
	}
}

func TestSetFractalFunctionResetsView(t *testing.T) {
	w := New(&recorder{})
	init := initMessage(t, 200, 100)
	mustHandle(t, w, init)
	mustHandle(t, w, fractal.ZoomMessage(fractal.ZoomIn))
	mustHandle(t, w, fractal.MoveCenterMessage(fractal.V(5, 5)))

	mustHandle(t, w, fractal.SetFractalFunctionMessage(fractal.JuliaSet))
	first, _ := w.View()
	mustHandle(t, w, fractal.SetFractalFunctionMessage(fractal.JuliaSet))
	second, _ := w.View()

	if first != init.Init.View || second != init.Init.View {
		t.Errorf("views after reset: %+v, %+v; want %+v", first, second, init.Init.View)
	}
	if w.Set() != fractal.JuliaSet {
		t.Errorf("set = %v", w.Set())
	}
}

func TestMoveCenter(t *testing.T) {
	w := New(&recorder{})
	mustHandle(t, w, initMessage(t, 100, 100))
	mustHandle(t, w, fractal.MoveCenterMessage(fractal.V(-10, 7)))
	v, _ := w.View()
	if v.Center != fractal.V(40, 57) {
		t.Errorf("center = %v, want (40, 57)", v.Center)
	}
}

func TestJuliaAtCanvasCenter(t *testing.T) {
	rec := &recorder{}
	w := New(rec)
	mustHandle(t, w, initMessage(t, 800, 800))
	mustHandle(t, w, fractal.SetFractalFunctionMessage(fractal.JuliaSet))

	c := coordinatesOf(t, w)
	if c.UnitSize() != 190 || c.Center() != fractal.V(400, 400) {
		t.Fatalf("view = %+v", c.View())
	}
	m := c.ToMath(fractal.V(400, 400))
	if m != fractal.V(0, 0) {
		t.Fatalf("canvas center maps to %v", m)
	}
	r := fractal.BelongsToSet(fractal.V(0, 0), fractal.JuliaC)
	if !r.Escaped || r.Steps != 47 {
		t.Fatalf("julia origin = %+v, want escape at step 47", r)
	}

	drain(t, w)
	f := rec.frames[len(rec.frames)-1]
	i := (400*f.Width + 400) * 4
	got := f.Pix[i : i+4]
	want := fractal.DefaultGradient.At(47)
	if !bytes.Equal(got, []byte{want.R, want.G, want.B, want.A}) {
		t.Errorf("pixel at center = %v, want %v", got, want)
	}
}

func TestNewRenderCancelsPendingPasses(t *testing.T) {
	rec := &recorder{}
	w := New(rec)
	mustHandle(t, w, initMessage(t, 64, 64))
	mustHandle(t, w, fractal.RenderMessage())
	mustHandle(t, w, fractal.MoveCenterMessage(fractal.V(3, 3)))
	drain(t, w)

	if want := []int{16, 16, 8, 4, 2, 1}; !slices.Equal(rec.steps(), want) {
		t.Errorf("steps = %v, want %v", rec.steps(), want)
	}
}

func TestSinkFailureStopsRender(t *testing.T) {
	rec := &recorder{err: errors.New("host gone")}
	w := New(rec)
	mustHandle(t, w, initMessage(t, 32, 32))
	mustHandle(t, w, fractal.RenderMessage())
	if w.Pending() {
		t.Error("render continued after the sink failed")
	}
}

func TestPanicInPassIsRecovered(t *testing.T) {
	calls := 0
	sink := fractal.FrameSinkFunc(func(context.Context, fractal.Frame) error {
		calls++
		if calls == 2 {
			panic("blit exploded")
		}
		return nil
	})
	w := New(sink)
	mustHandle(t, w, initMessage(t, 32, 32))
	mustHandle(t, w, fractal.RenderMessage())

	_, err := w.Step()
	if !errors.Is(err, ErrPassFailed) {
		t.Fatalf("err = %v, want ErrPassFailed", err)
	}
	if w.Pending() {
		t.Error("failed render left passes scheduled")
	}

	// the worker stays usable
	mustHandle(t, w, fractal.RenderMessage())
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRun(t *testing.T) {
	frames := make(chan fractal.Frame, 16)
	sink := fractal.FrameSinkFunc(func(ctx context.Context, f fractal.Frame) error {
		select {
		case frames <- f:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	w := New(sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	inbox := make(chan fractal.Message, 4)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, inbox) }()

	inbox <- initMessage(t, 48, 48)
	inbox <- fractal.RenderMessage()

	timeout := time.After(5 * time.Second)
	for final := false; !final; {
		select {
		case f := <-frames:
			final = f.Final()
		case <-timeout:
			t.Fatal("no final frame")
		}
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run returned %v", err)
	}
}

func TestRunStopsWhenInboxCloses(t *testing.T) {
	w := New(&recorder{})
	inbox := make(chan fractal.Message)
	close(inbox)
	if err := w.Run(context.Background(), inbox); err != nil {
		t.Errorf("Run returned %v", err)
	}
}
