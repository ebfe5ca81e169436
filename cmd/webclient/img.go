//go:build js && wasm

package main

import (
	"image"
	"math"
	"strconv"
	"syscall/js"

	"github.com/marben/fractal_playground/controls"
	"github.com/marben/fractal_playground/module"
)

// domContainer is a DOM element the module is mounted into.
type domContainer struct {
	elem  js.Value
	win   *module.Window
	input module.InputMode
}

func newDOMContainer(id string) *domContainer {
	return &domContainer{
		elem:  js.Global().Get("document").Call("getElementById", id),
		win:   module.NewWindow(),
		input: module.InputFor(isTouchDevice()),
	}
}

func (c *domContainer) Size() image.Point {
	return image.Pt(c.elem.Get("clientWidth").Int(), c.elem.Get("clientHeight").Int())
}

func (c *domContainer) ScaleFactor() float64 {
	r := js.Global().Get("window").Get("devicePixelRatio")
	if r.Type() != js.TypeNumber {
		return module.DefaultScaleFactor
	}
	return math.Max(r.Float(), 1)
}

func (c *domContainer) Window() *module.Window  { return c.win }
func (c *domContainer) Input() module.InputMode { return c.input }

func isTouchDevice() bool {
	win := js.Global().Get("window")
	if !win.Get("ontouchstart").IsUndefined() {
		return true
	}
	return win.Get("navigator").Get("maxTouchPoints").Int() > 0
}

func canvasElement() js.Value {
	return js.Global().Get("document").Call("getElementById", "myCanvas")
}

// initCanvas sizes the canvas bitmap in device pixels and its box in layout pixels.
func initCanvas(c *domContainer, width, height int) {
	canvas := canvasElement()
	canvas.Set("width", width)
	canvas.Set("height", height)

	size := c.Size()
	style := canvas.Get("style")
	style.Set("width", js.ValueOf(strconv.Itoa(size.X)+"px"))
	style.Set("height", js.ValueOf(strconv.Itoa(size.Y)+"px"))
}

// displays image on the site
func displayImage(img *image.RGBA) {
	ctx := canvasElement().Call("getContext", "2d")

	width := img.Rect.Dx()
	height := img.Rect.Dy()

	// Copy the Go byte slice into a JS TypedArray of width * height * 4 (RGBA)
	jsData := js.Global().Get("Uint8ClampedArray").New(len(img.Pix))
	js.CopyBytesToJS(jsData, img.Pix)

	imageData := js.Global().Get("ImageData").New(jsData, width, height)
	ctx.Call("putImageData", imageData, 0, 0)
}

// createButtons adds one DOM button row per control row to #controls.
// Clicks are handed to post so they run on the UI goroutine.
func createButtons(g *controls.Group, post func(func())) {
	doc := js.Global().Get("document")
	parent := doc.Call("getElementById", "controls")
	for _, row := range g.Rows() {
		div := doc.Call("createElement", "div")
		for _, it := range row {
			key := it.Key
			b := doc.Call("createElement", "button")
			b.Set("textContent", it.Text)
			b.Call("addEventListener", "click", js.FuncOf(func(js.Value, []js.Value) any {
				post(func() { g.Click(key) })
				return nil
			}))
			div.Call("appendChild", b)
		}
		parent.Call("appendChild", div)
	}
}
