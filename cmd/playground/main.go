// playground is the desktop shell: a window showing the fractal-sets module
// with its buttons below the canvas.
package main

import (
	"context"
	"flag"
	"log"
	"runtime"

	"github.com/hajimehoshi/ebiten/v2"

	fractal "github.com/marben/fractal_playground"
	"github.com/marben/fractal_playground/host"
	"github.com/marben/fractal_playground/module"
	"github.com/marben/fractal_playground/transport"
	"github.com/marben/fractal_playground/worker"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run() error {
	width := flag.Int("width", 640, "canvas width in window pixels")
	height := flag.Int("height", 480, "canvas height in window pixels")
	scale := flag.Float64("scale", module.DefaultScaleFactor, "device pixels per window pixel")
	remote := flag.String("remote", "", "worker endpoint, e.g. ws://localhost:8080/ws; empty runs the worker in process")
	touch := flag.Bool("touch", false, "listen to touch input instead of the mouse")
	flag.Parse()

	box := &module.Box{
		W:     *width,
		H:     *height,
		Scale: *scale,
		Win:   module.NewWindow(),
		Mode:  module.InputFor(*touch),
	}

	dial := func(ctx context.Context) (fractal.WorkerLink, error) {
		return transport.NewLocal(ctx, worker.WithWorkers(runtime.NumCPU())), nil
	}
	if *remote != "" {
		dial = func(ctx context.Context) (fractal.WorkerLink, error) {
			log.Printf("connecting to %s", *remote)
			return transport.Dial(ctx, *remote)
		}
	}

	s := module.NewSwitcher(box)
	s.Register(host.Name, host.Module{Dial: dial})
	defer s.Close()

	g, err := newGame(box, s, host.Name)
	if err != nil {
		return err
	}

	ebiten.SetWindowTitle("fractal playground")
	ebiten.SetWindowSize(g.windowSize())
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}
