// Package fractal holds the fractal-set types shared by the host, the
// rendering worker and the transports connecting them: the escape-time
// evaluator, the canvas/math coordinate mapping, the colour gradient and the
// host to worker message set.
package fractal

import "context"

// WorkerLink is the host side of a connection to a rendering worker.
// Messages are delivered in send order; frames arrive in the order the
// worker produced them.
type WorkerLink interface {
	Send(ctx context.Context, msg Message) error
	// Frames is closed when the worker goes away.
	Frames() <-chan Frame
	// Close stops the worker and releases the connection.
	Close() error
}

// FrameSink is the worker side of a link.
type FrameSink interface {
	PostFrame(ctx context.Context, f Frame) error
}

// FrameSinkFunc adapts a function to FrameSink.
type FrameSinkFunc func(ctx context.Context, f Frame) error

func (fn FrameSinkFunc) PostFrame(ctx context.Context, f Frame) error {
	return fn(ctx, f)
}
