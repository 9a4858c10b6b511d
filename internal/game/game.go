// Package game runs the isometric engine inside an ebiten window.
package game

import (
	"fmt"
	"image/color"
	"sync/atomic"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Iso-Map/internal/iso"
)

var backgroundColor = color.RGBA{R: 12, G: 14, B: 12, A: 255}

// Input is one frame of pointer and key state.
type Input struct {
	Cursor   iso.Point
	Moved    bool // cursor differs from last frame
	Pressed  bool // left button went down this frame
	Released bool // left button went up this frame

	ToggleGrid   bool // G
	ToggleCenter bool // X
	ToggleLog    bool // L
	CopyCell     bool // C
}

// Game implements ebiten.Game around an iso.Engine.
type Game struct {
	engine *iso.Engine
	loader *Loader
	events *EventLog
	log    logrus.FieldLogger
	face   *text.GoTextFace

	width  int
	height int

	lastCursor iso.Point
	showLog    bool
	frames     atomic.Int64 // ticks advanced, stamped on event log entries

	// copyText writes the clipboard; swapped out in tests.
	copyText func(string) error
	// renderErr is the first frame error; Update returns it to stop the loop.
	renderErr error
}

// New wires a game. face may be nil, in which case debug captions are skipped.
func New(engine *iso.Engine, loader *Loader, log logrus.FieldLogger, face *text.GoTextFace, width, height int) *Game {
	return &Game{
		engine:   engine,
		loader:   loader,
		log:      log,
		face:     face,
		width:    width,
		height:   height,
		showLog:  true,
		copyText: clipboard.WriteAll,
	}
}

// AttachEventLog creates the on-screen event log, stamped with this game's
// frame counter. Add it to the logger as a hook.
func (g *Game) AttachEventLog() *EventLog {
	g.events = NewEventLog(func() int { return int(g.frames.Load()) })
	return g.events
}

func (g *Game) Update() error {
	return g.step(g.pollInput())
}

// step applies one tick of input and advances the engine. It returns the load
// or render error that ends the game.
func (g *Game) step(in Input) error {
	if err := g.loader.Err(); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	if g.renderErr != nil {
		return g.renderErr
	}

	if in.Moved {
		g.engine.PointerMove(in.Cursor)
	}
	if in.Pressed {
		g.engine.PointerDown(in.Cursor)
	}
	if in.Released {
		g.engine.PointerUp(in.Cursor)
	}

	if in.ToggleGrid || in.ToggleCenter {
		d := g.engine.Debug()
		d.TileGrid = d.TileGrid != in.ToggleGrid
		d.ScreenCenter = d.ScreenCenter != in.ToggleCenter
		g.engine.SetDebug(d)
		g.log.WithFields(logrus.Fields{"grid": d.TileGrid, "center": d.ScreenCenter}).Debug("debug overlays")
	}
	if in.ToggleLog {
		g.showLog = !g.showLog
	}
	if in.CopyCell {
		g.copyHovered()
	}

	g.engine.Advance()
	g.frames.Add(1)
	return nil
}

func (g *Game) copyHovered() {
	c, ok := g.engine.Hovered()
	if !ok {
		return
	}
	if err := g.copyText(c.String()); err != nil {
		g.log.WithError(err).Warn("clipboard unavailable")
		return
	}
	g.log.WithField("cell", c.String()).Info("copied cell")
}

// pollInput reads ebiten's input state. Buttons and keys are edge-triggered.
func (g *Game) pollInput() Input {
	x, y := ebiten.CursorPosition()
	cur := iso.Point{X: float64(x), Y: float64(y)}
	in := Input{
		Cursor:       cur,
		Moved:        cur != g.lastCursor,
		Pressed:      inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		Released:     inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
		ToggleGrid:   inpututil.IsKeyJustPressed(ebiten.KeyG),
		ToggleCenter: inpututil.IsKeyJustPressed(ebiten.KeyX),
		ToggleLog:    inpututil.IsKeyJustPressed(ebiten.KeyL),
		CopyCell:     inpututil.IsKeyJustPressed(ebiten.KeyC),
	}
	g.lastCursor = cur
	return in
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	g.render(&screenSurface{dst: screen, face: g.face})

	if status, ok := g.statusLine(); ok {
		ebitenutil.DebugPrintAt(screen, status, 8, 8)
	}
	if g.showLog && g.events != nil {
		g.events.Draw(screen)
	}
}

// statusLine is the loader status while loading, and stays up afterwards if
// any image failed.
func (g *Game) statusLine() (string, bool) {
	if g.loader.Ready() && g.loader.ImageErr() == nil {
		return "", false
	}
	return g.loader.Status(), true
}

// render draws the engine's current state onto s and keeps the first error.
func (g *Game) render(s iso.Surface) {
	if g.renderErr != nil {
		return
	}
	if err := g.engine.Render(s); err != nil {
		g.renderErr = err
		g.log.WithError(err).Error("render failed")
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
