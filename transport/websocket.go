package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	fractal "github.com/marben/fractal_playground"
	"github.com/marben/fractal_playground/worker"
)

// maxMessageBytes bounds a host to worker message.
const maxMessageBytes = 64 << 10

// Remote is the host side of a worker running behind a websocket.
// Messages travel as JSON text messages, frames as binary messages.
type Remote struct {
	conn   *websocket.Conn
	frames chan fractal.Frame
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

var _ fractal.WorkerLink = (*Remote)(nil)

// Dial connects to a worker endpoint such as ws://localhost:8080/ws.
func Dial(ctx context.Context, url string) (*Remote, error) {
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket.Dial %q: %w", url, err)
	}
	return NewRemote(c), nil
}

// NewRemote wraps an established connection.
func NewRemote(c *websocket.Conn) *Remote {
	c.SetReadLimit(fractal.MaxFrameBytes + frameHeaderLen)
	ctx, cancel := context.WithCancel(context.Background())
	r := &Remote{
		conn:   c,
		frames: make(chan fractal.Frame, 4),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go r.readLoop(ctx)
	return r
}

func (r *Remote) readLoop(ctx context.Context) {
	defer close(r.frames)
	defer close(r.done)
	for {
		typ, data, err := r.conn.Read(ctx)
		if err != nil {
			if !closedNormally(err) && ctx.Err() == nil {
				log.Printf("remote worker: read: %v", err)
			}
			return
		}
		if typ != websocket.MessageBinary {
			log.Printf("remote worker: unexpected %v message", typ)
			continue
		}
		f, err := DecodeFrame(data)
		if err != nil {
			log.Printf("remote worker: %v", err)
			continue
		}
		select {
		case r.frames <- f:
		case <-ctx.Done():
			return
		}
	}
}

func (r *Remote) Send(ctx context.Context, msg fractal.Message) error {
	select {
	case <-r.done:
		return ErrClosed
	default:
	}
	if err := wsjson.Write(ctx, r.conn, msg); err != nil {
		return fmt.Errorf("send %s: %w", msg.Type, err)
	}
	return nil
}

func (r *Remote) Frames() <-chan fractal.Frame {
	return r.frames
}

// Close ends the connection, which stops the worker on the other side.
func (r *Remote) Close() error {
	var err error
	r.once.Do(func() {
		err = r.conn.Close(websocket.StatusNormalClosure, "unmount")
		r.cancel()
	})
	<-r.done
	if closedNormally(err) {
		return nil
	}
	return err
}

func closedNormally(err error) bool {
	if err == nil {
		return true
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	}
	return errors.Is(err, context.Canceled)
}

// ServeWorker runs a worker for one accepted connection until the peer
// disconnects or ctx is done. Malformed messages are logged and skipped.
func ServeWorker(ctx context.Context, c *websocket.Conn, opts ...worker.Option) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.SetReadLimit(maxMessageBytes)

	sink := fractal.FrameSinkFunc(func(ctx context.Context, f fractal.Frame) error {
		return c.Write(ctx, websocket.MessageBinary, EncodeFrame(f))
	})
	w := worker.New(sink, opts...)

	inbox := make(chan fractal.Message, inboxSize)
	runErr := make(chan error, 1)
	go func() { runErr <- w.Run(ctx, inbox) }()

	readErr := readMessages(ctx, c, inbox)
	close(inbox)
	cancel()
	if err := <-runErr; err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("worker: %w", err)
	}
	if closedNormally(readErr) {
		return nil
	}
	return readErr
}

func readMessages(ctx context.Context, c *websocket.Conn, inbox chan<- fractal.Message) error {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			return err
		}
		if typ != websocket.MessageText {
			log.Printf("worker conn: unexpected %v message", typ)
			continue
		}
		var msg fractal.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("worker conn: %v", err)
			continue
		}
		select {
		case inbox <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
