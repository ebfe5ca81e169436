// Package host is the UI side of the fractal-sets module: it owns the
// visible canvas, turns button clicks and drags into worker messages and
// shows the frames the worker sends back.
package host

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	fractal "github.com/marben/fractal_playground"
	"github.com/marben/fractal_playground/controls"
	"github.com/marben/fractal_playground/module"
	"github.com/marben/fractal_playground/render"
)

// sendTimeout bounds how long the UI loop waits for the worker to accept a message.
const sendTimeout = 2 * time.Second

var ErrWorkerGone = errors.New("worker stopped")

// Button keys.
const (
	KeyMandelbrot = "mandelbrot"
	KeyJulia      = "julia"
	KeyPlus       = "plus"
	KeyMinus      = "minus"
)

var (
	setButtons = []controls.Item{
		{Key: KeyMandelbrot, Text: "Mandelbrot set"},
		{Key: KeyJulia, Text: "Julia set"},
	}
	zoomButtons = []controls.Item{
		{Key: KeyPlus, Text: "+"},
		{Key: KeyMinus, Text: "-"},
	}
)

// Host is not safe for concurrent use; every method runs on the UI loop.
type Host struct {
	link     fractal.WorkerLink
	frames   <-chan fractal.Frame
	canvas   *render.Canvas
	size     fractal.Vector
	view     fractal.ViewState
	controls *controls.Group
	drag     Drag

	ctx     context.Context
	cancel  context.CancelFunc
	unsubs  []func()
	mounted bool
	dirty   bool
	notice  string
}

var _ module.View = (*Host)(nil)

// Mount creates the visible canvas for c, wires the buttons and the window
// pointer release, and starts the first render on link.
// On error the link is left open for the caller to close.
func Mount(c module.Container, link fractal.WorkerLink, padding float64) (*Host, error) {
	px := module.DeviceSize(c)
	size := fractal.FromPoint(px)
	view, err := fractal.DefaultView(size, padding)
	if err != nil {
		return nil, fmt.Errorf("default view: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &Host{
		link:     link,
		frames:   link.Frames(),
		canvas:   render.NewCanvas(px.X, px.Y),
		size:     size,
		view:     view,
		controls: controls.New(setButtons, zoomButtons),
		ctx:      ctx,
		cancel:   cancel,
		mounted:  true,
		dirty:    true,
	}
	h.canvas.Fill(fractal.DefaultGradient.At(0))

	h.controls.OnClick(KeyMandelbrot, func() { h.send(fractal.SetFractalFunctionMessage(fractal.MandelbrotSet)) })
	h.controls.OnClick(KeyJulia, func() { h.send(fractal.SetFractalFunctionMessage(fractal.JuliaSet)) })
	h.controls.OnClick(KeyPlus, func() { h.send(fractal.ZoomMessage(fractal.ZoomIn)) })
	h.controls.OnClick(KeyMinus, func() { h.send(fractal.ZoomMessage(fractal.ZoomOut)) })

	if w := c.Window(); w != nil {
		h.unsubs = append(h.unsubs, w.OnPointerUp(func(module.PointerEvent) { h.PointerUp() }))
	}

	for _, msg := range []fractal.Message{fractal.InitMessage(size, view), fractal.RenderMessage()} {
		if err := h.sendErr(msg); err != nil {
			h.release()
			return nil, err
		}
	}
	return h, nil
}

// DefaultView returns the view sent with Init.
func (h *Host) DefaultView() fractal.ViewState { return h.view }

func (h *Host) Canvas() *image.RGBA       { return h.canvas.RGBA() }
func (h *Host) Controls() *controls.Group { return h.controls }
func (h *Host) Notice() string            { return h.notice }
func (h *Host) Mounted() bool             { return h.mounted }

// Redraw reports whether the canvas changed since the previous call.
func (h *Host) Redraw() bool {
	d := h.dirty
	h.dirty = false
	return d
}

// Tick shows every frame that arrived since the previous tick.
func (h *Host) Tick() {
	for h.frames != nil {
		select {
		case f, ok := <-h.frames:
			if !ok {
				h.frames = nil
				if h.mounted {
					h.fail(ErrWorkerGone)
				}
				return
			}
			h.ShowFrame(f)
		default:
			return
		}
	}
}

// ShowFrame blits f at the canvas origin. Frames arriving after unmount or
// not matching the canvas size are dropped.
func (h *Host) ShowFrame(f fractal.Frame) {
	if !h.mounted {
		return
	}
	if f.Width != h.canvas.Width() || f.Height != h.canvas.Height() || len(f.Pix) != 4*f.Width*f.Height {
		log.Printf("host: dropping %dx%d frame for %dx%d canvas", f.Width, f.Height, h.canvas.Width(), h.canvas.Height())
		return
	}
	h.canvas.PutPix(f.Pix, f.Width, f.Height, image.Point{})
	h.dirty = true
}

func (h *Host) PointerDown(p fractal.Vector) {
	if !h.mounted {
		return
	}
	h.drag.Down(p)
}

// PointerMove shows the last frame shifted by the drag offset. No
// rendering happens until the pointer is released.
func (h *Host) PointerMove(p fractal.Vector) {
	delta, ok := h.drag.Move(p)
	if !ok {
		return
	}
	if h.drag.snapshot == nil {
		h.drag.snapshot = h.canvas.Snapshot()
	}
	h.canvas.Fill(fractal.BackgroundColor)
	h.canvas.PutImageData(h.drag.snapshot, fractal.Point(delta))
	h.dirty = true
}

// PointerUp ends a drag and asks the worker to move the view by the drag offset.
func (h *Host) PointerUp() {
	delta, moved := h.drag.Up()
	if moved && h.mounted {
		h.send(fractal.MoveCenterMessage(delta))
	}
}

// Unmount stops the worker and releases the window listeners. Frames
// still in flight are ignored.
func (h *Host) Unmount() {
	if !h.mounted {
		return
	}
	h.release()
	if err := h.link.Close(); err != nil {
		log.Printf("host: close worker: %v", err)
	}
}

func (h *Host) release() {
	h.mounted = false
	for _, unsub := range h.unsubs {
		unsub()
	}
	h.unsubs = nil
	h.cancel()
}

func (h *Host) send(msg fractal.Message) {
	if err := h.sendErr(msg); err != nil {
		h.fail(err)
	}
}

func (h *Host) sendErr(msg fractal.Message) error {
	ctx, cancel := context.WithTimeout(h.ctx, sendTimeout)
	defer cancel()
	if err := h.link.Send(ctx, msg); err != nil {
		return fmt.Errorf("send %s: %w", msg.Type, err)
	}
	return nil
}

// fail records a worker failure. The canvas keeps its last frame.
func (h *Host) fail(err error) {
	log.Printf("host: %v", err)
	h.notice = "Renderer unavailable: " + err.Error()
	h.dirty = true
}
