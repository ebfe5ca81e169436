// cliclient renders one view of a fractal set and saves it as a PNG file.
// It uses an in-process worker, a server side one when -server is given, or
// the server's irpc image service when -rpc is given.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"math"
	"net"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/marben/irpc"
	"golang.org/x/image/draw"

	fractal "github.com/marben/fractal_playground"
	"github.com/marben/fractal_playground/transport"
	"github.com/marben/fractal_playground/worker"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

type options struct {
	server  string
	rpc     string
	set     fractal.SetType
	region  string
	width   int
	height  int
	zoom    int
	scale   float64
	out     string
	timeout time.Duration
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("cliclient", flag.ContinueOnError)
	fs.StringVar(&o.server, "server", "", "worker endpoint, e.g. ws://localhost:8080/ws; empty renders in process")
	fs.StringVar(&o.rpc, "rpc", "", "irpc image service address, e.g. localhost:8081")
	set := fs.String("set", "mandelbrot", "fractal set: mandelbrot or julia")
	fs.StringVar(&o.region, "region", "", "landmark to render: "+strings.Join(fractal.LandmarkNames(), ", "))
	size := fs.String("size", "1920x1080", "canvas size in pixels")
	fs.IntVar(&o.zoom, "zoom", 0, "number of 2x zoom steps, negative zooms out")
	fs.Float64Var(&o.scale, "scale", 1, "upscale factor applied to the saved image")
	fs.StringVar(&o.out, "o", "fractal.png", "output file")
	fs.DurationVar(&o.timeout, "timeout", time.Minute, "give up after this long")
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	if o.server != "" && o.rpc != "" {
		return o, fmt.Errorf("-server and -rpc are exclusive")
	}

	var err error
	if o.set, err = fractal.ParseSetType(*set); err != nil {
		return o, err
	}
	if _, err := fmt.Sscanf(*size, "%dx%d", &o.width, &o.height); err != nil || o.width < 1 || o.height < 1 {
		return o, fmt.Errorf("bad -size %q", *size)
	}
	if o.region != "" {
		if _, ok := fractal.Landmarks[o.region]; !ok {
			return o, fmt.Errorf("unknown -region %q", o.region)
		}
	}
	if !(o.scale > 0) {
		return o, fmt.Errorf("bad -scale %v", o.scale)
	}
	return o, nil
}

// initialView is the view the worker starts from and resets to.
func (o options) initialView() (fractal.ViewState, error) {
	size := fractal.V(float64(o.width), float64(o.height))
	var (
		v   fractal.ViewState
		err error
	)
	if o.region != "" {
		v, err = fractal.ViewForRegion(fractal.Landmarks[o.region], size)
	} else {
		v, err = fractal.DefaultView(size, fractal.DefaultPadding)
	}
	if err != nil {
		return v, err
	}

	// zoom around the canvas center like the zoom buttons do
	c, err := fractal.NewCoordinates(size, v)
	if err != nil {
		return v, err
	}
	anchor := c.ToMath(c.Middle())
	if err := c.SetUnitSize(v.UnitSize * math.Pow(fractal.ZoomIn, float64(o.zoom))); err != nil {
		return v, err
	}
	if err := c.SetCenterToMath(anchor); err != nil {
		return v, err
	}
	return c.View(), nil
}

func run() error {
	o, err := parseFlags(os.Args[1:])
	if err != nil {
		return err
	}
	view, err := o.initialView()
	if err != nil {
		return fmt.Errorf("view: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	started := time.Now()
	var img *image.RGBA
	if o.rpc != "" {
		img, err = renderRPC(ctx, o, view)
	} else {
		img, err = renderLink(ctx, o, view)
	}
	if err != nil {
		return err
	}
	log.Printf("%s rendered in %s", o.set, time.Since(started))

	if o.scale != 1 {
		img = upscale(img, o.scale)
	}
	return save(o.out, img)
}

// renderRPC asks the server's image service for the finished image.
func renderRPC(ctx context.Context, o options, view fractal.ViewState) (*image.RGBA, error) {
	log.Printf("connecting to image service on %s", o.rpc)
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", o.rpc)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}
	ep := irpc.NewEndpoint(conn)
	defer ep.Close()

	client, err := fractal.NewImgProviderIrpcClient(ep)
	if err != nil {
		return nil, fmt.Errorf("failed to create ImgProvider client: %w", err)
	}
	return renderImage(client, o, view)
}

func renderImage(p fractal.ImgProvider, o options, view fractal.ViewState) (*image.RGBA, error) {
	pix, err := p.RenderImage(o.set, o.width, o.height, view.Center.X, view.Center.Y, view.UnitSize)
	if err != nil {
		return nil, fmt.Errorf("RenderImage: %w", err)
	}
	if len(pix) != 4*o.width*o.height {
		return nil, fmt.Errorf("got %d bytes for a %dx%d image", len(pix), o.width, o.height)
	}
	return &image.RGBA{Pix: pix, Stride: 4 * o.width, Rect: image.Rect(0, 0, o.width, o.height)}, nil
}

func renderLink(ctx context.Context, o options, view fractal.ViewState) (*image.RGBA, error) {
	var (
		link fractal.WorkerLink
		err  error
	)
	if o.server != "" {
		log.Printf("connecting to %s", o.server)
		link, err = transport.Dial(ctx, o.server)
		if err != nil {
			return nil, err
		}
	} else {
		link = transport.NewLocal(ctx, worker.WithWorkers(runtime.NumCPU()))
	}
	defer link.Close()

	return render(ctx, link, o.set, fractal.V(float64(o.width), float64(o.height)), view)
}

// render asks the worker for one view and waits for the converged frame.
func render(ctx context.Context, link fractal.WorkerLink, set fractal.SetType, size fractal.Vector, view fractal.ViewState) (*image.RGBA, error) {
	// SetFractalFunction resets to the Init view and starts the only render
	for _, msg := range []fractal.Message{fractal.InitMessage(size, view), fractal.SetFractalFunctionMessage(set)} {
		if err := link.Send(ctx, msg); err != nil {
			return nil, fmt.Errorf("send %s: %w", msg.Type, err)
		}
	}

	for {
		select {
		case f, ok := <-link.Frames():
			if !ok {
				return nil, fmt.Errorf("worker closed before the image converged")
			}
			log.Printf("pass with step %d done", f.Step)
			if f.Final() {
				return &image.RGBA{Pix: f.Pix, Stride: 4 * f.Width, Rect: image.Rect(0, 0, f.Width, f.Height)}, nil
			}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func upscale(src *image.RGBA, factor float64) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, int(math.Round(float64(b.Dx())*factor)), int(math.Round(float64(b.Dy())*factor))))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func save(filename string, img image.Image) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	log.Printf("fully rendered image saved to %q", filename)
	return f.Close()
}
