// Package worker implements the rendering worker: an actor that owns an
// off-screen canvas and a view, reacts to host messages and posts a full
// frame after every pass of the progressive renderer.
package worker

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	fractal "github.com/marben/fractal_playground"
	"github.com/marben/fractal_playground/render"
)

var (
	ErrNotInitialized = errors.New("worker not initialized")
	ErrPassFailed     = errors.New("render pass failed")
)

// escapeSquare is the math square outside of which every point escapes at step 0.
var escapeSquare = [2]fractal.Vector{fractal.V(-2, 2), fractal.V(2, -2)}

type Option func(*Worker)

// WithStep sets the block size of the first pass.
func WithStep(step int) Option {
	return func(w *Worker) { w.step = step }
}

// WithWorkers evaluates every pass on n goroutines.
func WithWorkers(n int) Option {
	return func(w *Worker) { w.workers = n }
}

// WithEscapeClip toggles iterating only the part of the canvas that can
// contain non trivial points. The converged frame is the same either way.
func WithEscapeClip(on bool) Option {
	return func(w *Worker) { w.clip = on }
}

func WithGradient(g fractal.Gradient) Option {
	return func(w *Worker) { w.gradient = g }
}

// state is everything Init creates.
type state struct {
	set      fractal.SetType
	coords   *fractal.Coordinates
	defaults fractal.ViewState
	canvas   *render.Canvas
}

// Worker is not safe for concurrent use; Run owns it once started.
type Worker struct {
	sink  fractal.FrameSink
	queue render.Queue
	loop  *render.Loop
	st    *state

	step     int
	workers  int
	clip     bool
	gradient fractal.Gradient
}

func New(sink fractal.FrameSink, opts ...Option) *Worker {
	w := &Worker{
		sink:     sink,
		step:     render.DefaultStep,
		workers:  1,
		clip:     true,
		gradient: fractal.DefaultGradient,
	}
	w.loop = render.NewLoop(&w.queue)
	for _, o := range opts {
		o(w)
	}
	return w
}

// View returns the current view, or false before Init.
func (w *Worker) View() (fractal.ViewState, bool) {
	if w.st == nil {
		return fractal.ViewState{}, false
	}
	return w.st.coords.View(), true
}

// Set returns the active fractal set. It is MandelbrotSet before Init.
func (w *Worker) Set() fractal.SetType {
	if w.st == nil {
		return fractal.MandelbrotSet
	}
	return w.st.set
}

// Pending reports whether a refinement pass is waiting.
func (w *Worker) Pending() bool {
	return w.queue.Len() > 0
}

// Step runs the next waiting pass. It reports false when there was none.
func (w *Worker) Step() (bool, error) {
	if !w.Pending() {
		return false, nil
	}
	var ran bool
	err := w.guard(func() { ran = w.queue.RunNext() })
	return ran, err
}

// Handle applies one message. Render triggering messages run the first pass
// before returning; later passes are left for Step.
func (w *Worker) Handle(ctx context.Context, msg fractal.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if msg.Type != fractal.MsgInit && w.st == nil {
		return fmt.Errorf("%s: %w", msg.Type, ErrNotInitialized)
	}

	switch msg.Type {
	case fractal.MsgInit:
		var err error
		if perr := w.guard(func() { err = w.init(msg.Init) }); perr != nil {
			return perr
		}
		return err
	case fractal.MsgRender:
	case fractal.MsgSetFractalFunction:
		w.st.set = msg.Set
		if err := w.st.coords.SetView(w.st.defaults); err != nil {
			return err
		}
	case fractal.MsgZoom:
		c := w.st.coords
		anchor := c.ToMath(c.Middle())
		if err := c.SetUnitSize(c.UnitSize() * msg.Zoom); err != nil {
			return err
		}
		if err := c.SetCenterToMath(anchor); err != nil {
			return err
		}
	case fractal.MsgMoveCenter:
		c := w.st.coords
		if err := c.SetCenter(c.Center().Add(msg.Delta)); err != nil {
			return err
		}
	}
	return w.guard(func() { w.render(ctx) })
}

func (w *Worker) init(p fractal.InitPayload) error {
	coords, err := fractal.NewCoordinates(p.CanvasSize, p.View)
	if err != nil {
		return err
	}
	w.loop.Cancel()
	pt := fractal.Point(p.CanvasSize)
	w.st = &state{
		set:      w.Set(),
		coords:   coords,
		defaults: p.View,
		canvas:   render.NewCanvas(pt.X, pt.Y),
	}
	w.st.canvas.Fill(fractal.BackgroundColor)
	log.Printf("worker: canvas %dx%d, unit size %g", pt.X, pt.Y, p.View.UnitSize)
	return nil
}

// guard turns a panic inside Init or a pass into an error and drops the
// render it belonged to.
func (w *Worker) guard(fn func()) (err error) {
	defer func() {
		if p := recover(); p != nil {
			w.loop.Cancel()
			err = fmt.Errorf("%w: %v", ErrPassFailed, p)
		}
	}()
	fn()
	return nil
}

func (w *Worker) render(ctx context.Context) {
	st := w.st
	canvas := st.canvas
	bounds := canvas.Bounds()
	job := render.Job{
		Start:   bounds.Min,
		End:     bounds.Max,
		Step:    w.step,
		Workers: w.workers,
	}
	if w.clip {
		canvas.Fill(w.gradient.At(0))
		job.Start, job.End = escapeBounds(st.coords, bounds)
	}

	fn := st.set.Func()
	coords := st.coords
	gradient := w.gradient
	job.Callback = func(p image.Point, step int) {
		r := fn(coords.ToMath(fractal.FromPoint(p)))
		canvas.FillRect(job.Block(p, step), gradient.Color(r))
	}

	started := time.Now()
	var token render.Token
	job.OnPassComplete = func(step int) {
		f := fractal.Frame{
			Width:  bounds.Dx(),
			Height: bounds.Dy(),
			Step:   step,
			Pix:    canvas.ImageData(),
		}
		if err := w.sink.PostFrame(ctx, f); err != nil {
			log.Printf("worker: post frame: %v", err)
			w.loop.Cancel()
			return
		}
		if step <= 1 && w.loop.Current(token) {
			log.Printf("worker: %s rendered in %s", st.set, time.Since(started))
		}
	}
	token = w.loop.Render(job)
}

// escapeBounds returns the part of the canvas covering the math square
// [-2, 2]², widened by one pixel at the far edges to absorb rounding.
func escapeBounds(c *fractal.Coordinates, canvas image.Rectangle) (image.Point, image.Point) {
	tl := fractal.Point(c.BoundingCanvas(escapeSquare[0]))
	br := fractal.Point(c.BoundingCanvas(escapeSquare[1]))
	br = br.Add(image.Pt(1, 1))
	br.X = min(br.X, canvas.Max.X)
	br.Y = min(br.Y, canvas.Max.Y)
	return tl, br
}

// Run processes messages from inbox until it is closed or ctx is done.
// Waiting refinement passes run only while no message is pending, so every
// message is seen between two passes.
func (w *Worker) Run(ctx context.Context, inbox <-chan fractal.Message) error {
	for {
		if w.Pending() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case msg, ok := <-inbox:
				if !ok {
					return nil
				}
				w.handle(ctx, msg)
			default:
				if _, err := w.Step(); err != nil {
					log.Printf("worker: %v", err)
				}
			}
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-inbox:
			if !ok {
				return nil
			}
			w.handle(ctx, msg)
		}
	}
}

func (w *Worker) handle(ctx context.Context, msg fractal.Message) {
	if err := w.Handle(ctx, msg); err != nil {
		log.Printf("worker: %s: %v", msg.Type, err)
	}
}
