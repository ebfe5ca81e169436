// Package transport connects a host to a rendering worker, either in
// process or over a websocket.
package transport

import (
	"context"
	"errors"
	"log"
	"sync"

	fractal "github.com/marben/fractal_playground"
	"github.com/marben/fractal_playground/worker"
)

var ErrClosed = errors.New("worker link closed")

// inboxSize is how many messages may wait for the worker before Send blocks.
const inboxSize = 64

// Local runs a worker on its own goroutine.
type Local struct {
	inbox  chan fractal.Message
	frames chan fractal.Frame
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

var _ fractal.WorkerLink = (*Local)(nil)

// NewLocal starts a worker that lives until Close or until ctx is done.
func NewLocal(ctx context.Context, opts ...worker.Option) *Local {
	ctx, cancel := context.WithCancel(ctx)
	l := &Local{
		inbox:  make(chan fractal.Message, inboxSize),
		frames: make(chan fractal.Frame, 4),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	w := worker.New(fractal.FrameSinkFunc(l.post), opts...)
	go func() {
		defer close(l.frames)
		defer close(l.done)
		if err := w.Run(ctx, l.inbox); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("local worker: %v", err)
		}
	}()
	return l
}

func (l *Local) post(ctx context.Context, f fractal.Frame) error {
	select {
	case l.frames <- f:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Local) Send(ctx context.Context, msg fractal.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	select {
	case <-l.done:
		return ErrClosed
	default:
	}
	select {
	case l.inbox <- msg:
		return nil
	case <-l.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Local) Frames() <-chan fractal.Frame {
	return l.frames
}

// Close stops the worker and waits for it to exit.
func (l *Local) Close() error {
	l.once.Do(l.cancel)
	<-l.done
	return nil
}
