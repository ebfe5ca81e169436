package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/marben/irpc"

	"github.com/marben/fractal_playground/transport"
	"github.com/marben/fractal_playground/worker"
)

// main is the entry point for the fractal worker server.
// Every websocket connection gets its own worker; the server itself renders nothing
// until a host sends Init. Cli clients can instead ask for whole images over irpc on tcp.
func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run() error {
	addr := flag.String("addr", ":8080", "http listen address")
	static := flag.String("static", "./static", "directory with index.html and main.wasm")
	workers := flag.Int("workers", runtime.NumCPU(), "goroutines per render pass")
	clip := flag.Bool("clip", true, "only iterate the part of the canvas covering [-2,2]²")
	rpcAddr := flag.String("rpc", ":8081", "tcp listen address of the irpc image service; empty disables it")
	renders := flag.Int("renders", 2, "irpc images rendered at the same time")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := []worker.Option{worker.WithWorkers(*workers), worker.WithEscapeClip(*clip)}
	srv := webServer(ctx, *addr, *static, opts...)

	errc := make(chan error, 2)
	go func() {
		errc <- fmt.Errorf("httpServer: %w", srv.ListenAndServe())
	}()

	if *rpcAddr != "" {
		lis, err := net.Listen("tcp", *rpcAddr)
		if err != nil {
			return fmt.Errorf("net.Listen: %w", err)
		}
		log.Printf("tcp listening on: %s", lis.Addr())
		rpc := rpcServer(transport.NewImgProvider(*renders, opts...))
		defer rpc.Close()
		go func() {
			if err := rpc.Serve(lis); err != nil && !errors.Is(err, irpc.ErrServerClosed) {
				errc <- fmt.Errorf("server.Serve tcp: %w", err)
			}
		}()
	}

	log.Printf("fractal server waiting for websocket and tcp connections")
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
