package module

import (
	"sync"

	fractal "github.com/marben/fractal_playground"
)

// Events carries input from callbacks that must return at once, such as
// browser event handlers, to the goroutine that owns the view. Posted
// events are never lost; pointer moves are coalesced so that at most one is
// waiting at any time.
type Events struct {
	ch chan func()

	mu         sync.Mutex
	move       fractal.Vector
	moveFn     func(fractal.Vector)
	moveQueued bool
}

func NewEvents(size int) *Events {
	return &Events{ch: make(chan func(), size)}
}

// C delivers the queued events. The receiver runs each one.
func (e *Events) C() <-chan func() {
	return e.ch
}

// Post queues fn without blocking the caller. When the queue is full fn is
// handed over by a goroutine, so it may run after events posted later.
func (e *Events) Post(fn func()) {
	select {
	case e.ch <- fn:
	default:
		go func() { e.ch <- fn }()
	}
}

// PostMove queues fn(p). A move that is still waiting is replaced by the
// newer position.
func (e *Events) PostMove(p fractal.Vector, fn func(fractal.Vector)) {
	e.mu.Lock()
	queued := e.moveQueued
	e.move, e.moveFn, e.moveQueued = p, fn, true
	e.mu.Unlock()
	if !queued {
		e.Post(e.flushMove)
	}
}

func (e *Events) flushMove() {
	e.mu.Lock()
	p, fn := e.move, e.moveFn
	e.moveQueued = false
	e.mu.Unlock()
	fn(p)
}
