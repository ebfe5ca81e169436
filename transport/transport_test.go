package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	fractal "github.com/marben/fractal_playground"
)

func initMessage(t *testing.T, w, h float64) fractal.Message {
	t.Helper()
	size := fractal.V(w, h)
	view, err := fractal.DefaultView(size, fractal.DefaultPadding)
	if err != nil {
		t.Fatal(err)
	}
	return fractal.InitMessage(size, view)
}

// waitFinal reads frames until a converged one arrives.
func waitFinal(t *testing.T, frames <-chan fractal.Frame) (fractal.Frame, int) {
	t.Helper()
	timeout := time.After(10 * time.Second)
	n := 0
	for {
		select {
		case f, ok := <-frames:
			if !ok {
				t.Fatal("frames closed before the final frame")
			}
			n++
			if f.Final() {
				return f, n
			}
		case <-timeout:
			t.Fatal("timed out waiting for the final frame")
		}
	}
}

func TestFrameCodec(t *testing.T) {
	f := fractal.Frame{Width: 2, Height: 1, Step: 4, Pix: []byte{1, 2, 3, 4, 5, 6, 7, 8}}
	got, err := DecodeFrame(EncodeFrame(f))
	if err != nil {
		t.Fatal(err)
	}
	if got.Width != 2 || got.Height != 1 || got.Step != 4 || string(got.Pix) != string(f.Pix) {
		t.Errorf("decoded %+v", got)
	}

	for _, b := range [][]byte{
		nil,
		{0, 0, 0, 1},
		EncodeFrame(fractal.Frame{Width: 3, Height: 3, Step: 1, Pix: make([]byte, 8)}),
	} {
		if _, err := DecodeFrame(b); !errors.Is(err, ErrBadFrame) {
			t.Errorf("DecodeFrame(%d bytes) err = %v", len(b), err)
		}
	}
}

func TestLocal(t *testing.T) {
	ctx := context.Background()
	l := NewLocal(ctx)

	if err := l.Send(ctx, initMessage(t, 40, 30)); err != nil {
		t.Fatal(err)
	}
	if err := l.Send(ctx, fractal.SetFractalFunctionMessage(fractal.JuliaSet)); err != nil {
		t.Fatal(err)
	}
	f, n := waitFinal(t, l.Frames())
	if f.Width != 40 || f.Height != 30 {
		t.Errorf("frame %dx%d", f.Width, f.Height)
	}
	if n < 2 {
		t.Errorf("got %d frames, want coarse frames before the final one", n)
	}

	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	for range l.Frames() {
		// frames buffered before Close are still delivered; the channel then closes
	}
	if err := l.Send(ctx, fractal.RenderMessage()); !errors.Is(err, ErrClosed) {
		t.Errorf("send after close: err = %v, want ErrClosed", err)
	}
	// closing twice is fine
	if err := l.Close(); err != nil {
		t.Error(err)
	}
}

func TestLocalRejectsInvalidMessage(t *testing.T) {
	l := NewLocal(context.Background())
	defer l.Close()
	if err := l.Send(context.Background(), fractal.ZoomMessage(10)); !errors.Is(err, fractal.ErrBadMessage) {
		t.Errorf("err = %v, want ErrBadMessage", err)
	}
}

func newWorkerServer(t *testing.T) (string, <-chan error) {
	t.Helper()
	served := make(chan error, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			t.Error(err)
			return
		}
		served <- ServeWorker(r.Context(), c)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http"), served
}

func TestRemote(t *testing.T) {
	url, served := newWorkerServer(t)
	ctx := context.Background()

	r, err := Dial(ctx, url)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Send(ctx, initMessage(t, 50, 40)); err != nil {
		t.Fatal(err)
	}
	if err := r.Send(ctx, fractal.RenderMessage()); err != nil {
		t.Fatal(err)
	}
	f, _ := waitFinal(t, r.Frames())
	if f.Width != 50 || f.Height != 40 || len(f.Pix) != 50*40*4 {
		t.Errorf("frame %dx%d, %d bytes", f.Width, f.Height, len(f.Pix))
	}

	if err := r.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
	select {
	case err := <-served:
		if err != nil {
			t.Errorf("ServeWorker: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after the client closed")
	}
}

func TestServeWorkerSkipsBadMessages(t *testing.T) {
	url, _ := newWorkerServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.CloseNow()
	c.SetReadLimit(fractal.MaxFrameBytes + frameHeaderLen)

	for _, raw := range []string{
		`{"type":"zoom","payload":3}`,
		`garbage`,
		`{"type":"init","payload":{"canvasSize":[1e19,10],"coordinatesCenter":[5,5],"mathUnitSize":1}}`,
		`{"type":"init","payload":{"canvasSize":[1e6,1e6],"coordinatesCenter":[5,5],"mathUnitSize":1}}`,
		`{"type":"init","payload":{"canvasSize":[16,16],"coordinatesCenter":[8,8],"mathUnitSize":4}}`,
		`{"type":"render"}`,
	} {
		if err := c.Write(ctx, websocket.MessageText, []byte(raw)); err != nil {
			t.Fatal(err)
		}
	}

	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if typ != websocket.MessageBinary {
			t.Fatalf("got %v message", typ)
		}
		f, err := DecodeFrame(data)
		if err != nil {
			t.Fatal(err)
		}
		if f.Final() {
			break
		}
	}
	c.Close(websocket.StatusNormalClosure, "")
}
