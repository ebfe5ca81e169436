package module

import (
	"sync"

	fractal "github.com/marben/fractal_playground"
)

// PointerEvent is a pointer position from either device.
type PointerEvent struct {
	Pos   fractal.Vector
	Touch bool
}

// Window dispatches events that are not bound to the mounted container,
// such as a drag released outside the canvas.
type Window struct {
	mu        sync.Mutex
	next      int
	pointerUp map[int]func(PointerEvent)
}

func NewWindow() *Window {
	return &Window{pointerUp: make(map[int]func(PointerEvent))}
}

// OnPointerUp subscribes fn to pointer releases. The returned function
// unsubscribes it and may be called more than once.
func (w *Window) OnPointerUp(fn func(PointerEvent)) (unsubscribe func()) {
	w.mu.Lock()
	id := w.next
	w.next++
	w.pointerUp[id] = fn
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		delete(w.pointerUp, id)
		w.mu.Unlock()
	}
}

// PointerUp delivers ev to every subscriber.
func (w *Window) PointerUp(ev PointerEvent) {
	w.mu.Lock()
	fns := make([]func(PointerEvent), 0, len(w.pointerUp))
	for _, fn := range w.pointerUp {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Listeners returns the number of subscribers.
func (w *Window) Listeners() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pointerUp)
}
