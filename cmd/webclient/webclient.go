//go:build js && wasm

// webclient is the browser shell of the playground. It mounts the
// fractal-sets module into the #playground element and talks to a worker
// on the server over a websocket.
package main

import (
	"context"
	"fmt"
	"log"
	"syscall/js"
	"time"

	fractal "github.com/marben/fractal_playground"
	"github.com/marben/fractal_playground/host"
	"github.com/marben/fractal_playground/module"
	"github.com/marben/fractal_playground/transport"
)

// frameInterval is how often the UI loop takes in worker frames.
const frameInterval = 16 * time.Millisecond

func main() {
	logScreenf("Starting WASM web client...")

	loc := js.Global().Get("window").Get("location")
	proto := "ws"
	if loc.Get("protocol").String() == "https:" {
		proto = "wss"
	}
	websocketUrl := proto + "://" + loc.Get("host").String() + "/ws"

	c := newDOMContainer("playground")
	logScreenf("Container %v, scale %g, %s input", c.Size(), c.ScaleFactor(), c.Input())

	s := module.NewSwitcher(c)
	s.Register(host.Name, host.Module{
		Dial: func(ctx context.Context) (fractal.WorkerLink, error) {
			logScreenf("Connecting to worker at %s...", websocketUrl)
			return transport.Dial(ctx, websocketUrl)
		},
	})

	ui := newUI(c)
	// js callbacks must not block, so everything touching the view runs on
	// the UI goroutine.
	go ui.run(func() {
		if err := s.Show(host.Name); err != nil {
			logFatalf("Show: %v", err)
		}
		_, v := s.Active()
		ui.mount(v)
		logScreenf("Module %s mounted.", host.Name)
	})

	js.Global().Get("window").Call("addEventListener", "beforeunload", js.FuncOf(func(js.Value, []js.Value) any {
		ui.post(s.Close)
		return nil
	}))

	select {}
}

// ui owns the mounted view. Browser events are posted to it as closures.
type ui struct {
	c      *domContainer
	events *module.Events
	view   module.View
	notice string
}

func newUI(c *domContainer) *ui {
	return &ui{c: c, events: module.NewEvents(256)}
}

// post queues fn without blocking the browser event loop.
func (u *ui) post(fn func()) {
	u.events.Post(fn)
}

func (u *ui) run(start func()) {
	start()
	tick := time.NewTicker(frameInterval)
	defer tick.Stop()
	for {
		select {
		case fn := <-u.events.C():
			fn()
		case <-tick.C:
			u.redraw()
		}
	}
}

func (u *ui) mount(v module.View) {
	u.view = v
	initCanvas(u.c, v.Canvas().Bounds().Dx(), v.Canvas().Bounds().Dy())
	createButtons(v.Controls(), u.post)
	u.listen()
}

func (u *ui) redraw() {
	if u.view == nil {
		return
	}
	u.view.Tick()
	if u.view.Redraw() {
		displayImage(u.view.Canvas())
	}
	if n := u.view.Notice(); n != u.notice {
		u.notice = n
		logScreenf("%s", n)
	}
}

// listen routes pointer events of the chosen device to the view. Releases
// are taken from the whole window so a drag may end outside the canvas.
// Positions are read inside the browser callback; moves are coalesced and
// presses and releases are always delivered.
func (u *ui) listen() {
	canvas := canvasElement()
	win := js.Global().Get("window")
	scale := u.c.ScaleFactor()

	on := func(target js.Value, event string, fn func(ev js.Value)) {
		target.Call("addEventListener", event, js.FuncOf(func(_ js.Value, args []js.Value) any {
			fn(args[0])
			return nil
		}))
	}
	move := func(p fractal.Vector) { u.view.PointerMove(p) }

	switch u.c.Input() {
	case module.Touch:
		pos := func(ev js.Value) (fractal.Vector, bool) {
			touches := ev.Get("touches")
			if touches.Length() == 0 {
				return fractal.Vector{}, false
			}
			t := touches.Index(0)
			r := canvas.Call("getBoundingClientRect")
			p := fractal.V(t.Get("clientX").Float()-r.Get("left").Float(), t.Get("clientY").Float()-r.Get("top").Float())
			return p.Mul(scale), true
		}
		on(canvas, "touchstart", func(ev js.Value) {
			if p, ok := pos(ev); ok {
				u.post(func() { u.view.PointerDown(p) })
			}
		})
		on(canvas, "touchmove", func(ev js.Value) {
			if p, ok := pos(ev); ok {
				u.events.PostMove(p, move)
			}
		})
		on(win, "touchend", func(js.Value) {
			u.post(func() { u.c.Window().PointerUp(module.PointerEvent{Touch: true}) })
		})
	default:
		pos := func(ev js.Value) fractal.Vector {
			return fractal.V(ev.Get("offsetX").Float(), ev.Get("offsetY").Float()).Mul(scale)
		}
		on(canvas, "mousedown", func(ev js.Value) {
			p := pos(ev)
			u.post(func() { u.view.PointerDown(p) })
		})
		on(canvas, "mousemove", func(ev js.Value) { u.events.PostMove(pos(ev), move) })
		on(win, "mouseup", func(ev js.Value) {
			p := pos(ev)
			u.post(func() { u.c.Window().PointerUp(module.PointerEvent{Pos: p}) })
		})
	}
}

// logScreenf appends a formatted message to the log element in the DOM.
func logScreenf(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	log.Print(msg)

	doc := js.Global().Get("document")
	logElem := doc.Call("getElementById", "log")
	if logElem.IsNull() {
		return
	}
	logElem.Set("textContent", logElem.Get("textContent").String()+msg+"\n")
}

// logFatalf logs a fatal error to the log window and terminates the program.
func logFatalf(format string, a ...any) {
	logScreenf("FATAL: "+format, a...)
	log.Fatalf(format, a...)
}
