package transport

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/semaphore"

	fractal "github.com/marben/fractal_playground"
	"github.com/marben/fractal_playground/worker"
)

var ErrNoFrame = errors.New("worker produced no frame")

// ImgProvider serves fractal.ImgProvider by running a private worker per
// request until its render converges. At most limit requests render at a time.
type ImgProvider struct {
	sem  *semaphore.Weighted
	opts []worker.Option
}

var _ fractal.ImgProvider = (*ImgProvider)(nil)

func NewImgProvider(limit int, opts ...worker.Option) *ImgProvider {
	return &ImgProvider{sem: semaphore.NewWeighted(int64(max(limit, 1))), opts: opts}
}

func (p *ImgProvider) RenderImage(set fractal.SetType, width, height int, originX, originY, unitSize float64) ([]byte, error) {
	return p.Render(context.Background(), set, fractal.V(float64(width), float64(height)), fractal.ViewState{Center: fractal.V(originX, originY), UnitSize: unitSize})
}

// Render waits for a free slot, then runs Init and SetFractalFunction on a
// fresh worker and steps it until no pass is left. The last frame is the
// converged one.
func (p *ImgProvider) Render(ctx context.Context, set fractal.SetType, size fractal.Vector, view fractal.ViewState) ([]byte, error) {
	msgs := []fractal.Message{fractal.InitMessage(size, view), fractal.SetFractalFunctionMessage(set)}
	for _, msg := range msgs {
		if err := msg.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", msg.Type, err)
		}
	}

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer p.sem.Release(1)

	var last *fractal.Frame
	w := worker.New(fractal.FrameSinkFunc(func(_ context.Context, f fractal.Frame) error {
		last = &f
		return nil
	}), p.opts...)

	started := time.Now()
	for _, msg := range msgs {
		if err := w.Handle(ctx, msg); err != nil {
			return nil, fmt.Errorf("%s: %w", msg.Type, err)
		}
	}
	for w.Pending() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := w.Step(); err != nil {
			return nil, err
		}
	}
	if last == nil || !last.Final() {
		return nil, ErrNoFrame
	}
	log.Printf("img provider: %s %dx%d in %s", set, last.Width, last.Height, time.Since(started))
	return last.Pix, nil
}
