package main

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/marben/fractal_playground/transport"
	"github.com/marben/fractal_playground/worker"
)

// webServer creates server serving files in the static folder
// and a websocket endpoint at /ws running one worker per connection.
func webServer(ctx context.Context, addr, static string, opts ...worker.Option) *http.Server {
	var conns connCounter
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", websocketHandler(ctx, &conns, opts))
	mux.Handle("/", http.FileServer(http.Dir(static)))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("listening on http://localhost%s", addr)
	return srv
}

// websocketHandler handles the http ws endpoint.
// The worker lives as long as the connection.
func websocketHandler(ctx context.Context, conns *connCounter, opts []worker.Option) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // TODO: tighten in prod
		})
		if err != nil {
			log.Println(err)
			return
		}
		defer c.CloseNow()

		log.Printf("got connection from: %s", r.RemoteAddr)
		conns.inc()
		defer conns.dec()

		if err := transport.ServeWorker(ctx, c, opts...); err != nil {
			log.Printf("err: worker for %q: %v", r.RemoteAddr, err)
			return
		}
		c.Close(websocket.StatusNormalClosure, "")
	}
}

// connCounter counts connected hosts.
type connCounter struct {
	m sync.Mutex
	n int
}

func (c *connCounter) inc() {
	c.m.Lock()
	c.n++
	n := c.n
	c.m.Unlock()

	log.Printf("workers: %d", n)
}

func (c *connCounter) dec() {
	c.m.Lock()
	c.n--
	n := c.n
	c.m.Unlock()

	log.Printf("workers: %d", n)
}
