package main

import (
	"fmt"
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	fractal "github.com/marben/fractal_playground"
	"github.com/marben/fractal_playground/module"
)

// Button bar geometry in device pixels.
const (
	buttonW   = 180
	buttonH   = 40
	buttonGap = 8
)

var (
	buttonColor = colornames.Darkslateblue
	barColor    = colornames.Black
)

// game hosts one mounted module. The canvas fills the top of the screen and
// the module's buttons are laid out under it.
type game struct {
	box     *module.Box
	s       *module.Switcher
	view    module.View
	pointer module.Pointer

	canvasSize image.Point
	screen     image.Point
	canvasImg  *ebiten.Image
	touchIDs   []ebiten.TouchID
	touchID    ebiten.TouchID
	touching   bool
}

func newGame(box *module.Box, s *module.Switcher, name string) (*game, error) {
	if err := s.Show(name); err != nil {
		return nil, err
	}
	_, v := s.Active()

	canvasSize := v.Canvas().Bounds().Size()
	origin := image.Pt(buttonGap, canvasSize.Y+buttonGap)
	buttons := v.Controls().Layout(origin, image.Pt(buttonW, buttonH), buttonGap)

	screen := canvasSize
	for _, b := range buttons {
		screen.Y = max(screen.Y, b.Rect.Max.Y+buttonGap)
	}

	return &game{
		box:        box,
		s:          s,
		view:       v,
		pointer:    module.Pointer{View: v, Window: box.Win, Buttons: buttons},
		canvasSize: canvasSize,
		screen:     screen,
		canvasImg:  ebiten.NewImage(canvasSize.X, canvasSize.Y),
	}, nil
}

// windowSize is the screen size in window pixels.
func (g *game) windowSize() (int, int) {
	scale := g.box.ScaleFactor()
	if scale <= 0 {
		scale = module.DefaultScaleFactor
	}
	return int(math.Ceil(float64(g.screen.X) / scale)), int(math.Ceil(float64(g.screen.Y) / scale))
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	switch g.box.Input() {
	case module.Touch:
		g.updateTouch()
	default:
		g.updateMouse()
	}

	g.view.Tick()
	return nil
}

func cursor() fractal.Vector {
	x, y := ebiten.CursorPosition()
	return fractal.V(float64(x), float64(y))
}

func (g *game) updateMouse() {
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.pointer.Press(cursor(), false)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		g.pointer.Release(cursor())
	case g.pointer.Pressed():
		g.pointer.Move(cursor())
	}
}

// updateTouch follows the first finger that touched the screen.
func (g *game) updateTouch() {
	if g.touching {
		x, y := ebiten.TouchPosition(g.touchID)
		p := fractal.V(float64(x), float64(y))
		if inpututil.IsTouchJustReleased(g.touchID) {
			x, y = inpututil.TouchPositionInPreviousTick(g.touchID)
			g.touching = false
			g.pointer.Release(fractal.V(float64(x), float64(y)))
			return
		}
		g.pointer.Move(p)
		return
	}

	g.touchIDs = inpututil.AppendJustPressedTouchIDs(g.touchIDs[:0])
	if len(g.touchIDs) == 0 {
		return
	}
	g.touchID, g.touching = g.touchIDs[0], true
	x, y := ebiten.TouchPosition(g.touchID)
	g.pointer.Press(fractal.V(float64(x), float64(y)), true)
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.view.Redraw() {
		g.canvasImg.WritePixels(g.view.Canvas().Pix)
	}
	screen.Fill(barColor)
	screen.DrawImage(g.canvasImg, nil)

	for _, b := range g.pointer.Buttons {
		r := b.Rect
		vector.DrawFilledRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), buttonColor, false)
		ebitenutil.DebugPrintAt(screen, b.Text, r.Min.X+8, r.Min.Y+r.Dy()/2-8)
	}

	if n := g.view.Notice(); n != "" {
		ebitenutil.DebugPrintAt(screen, n, buttonGap, buttonGap)
	}
	if name, _ := g.s.Active(); name != "" {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s  %.0f TPS", name, ebiten.ActualTPS()), buttonGap, g.canvasSize.Y-24)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.screen.X, g.screen.Y
}

var _ ebiten.Game = (*game)(nil)
