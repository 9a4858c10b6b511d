package iso

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// DebugOptions toggles the diagnostic overlays.
type DebugOptions struct {
	TileGrid     bool // diamond outline and row:col caption on every cell
	ScreenCenter bool // dot in the middle of the surface
}

// EngineConfig is everything the engine needs besides its collaborators.
type EngineConfig struct {
	Geometry       TileGeometry
	Center         Cell // cell centred on the canvas at startup
	CanvasWidth    int
	CanvasHeight   int
	TerrainSprites SpriteTable
	ObjectSprites  SpriteTable
	Character      CharacterConfig
	HoverImage     string
	Debug          DebugOptions
}

// Engine runs the frame: it owns the viewport, the character and the hover
// state, and turns pointer events into pans, hovers and move commands.
type Engine struct {
	geom       TileGeometry
	level      LevelProvider
	images     ImageProvider
	log        logrus.FieldLogger
	hoverImage string
	debug      DebugOptions

	terrain *Layer
	objects *Layer
	char    *Character
	view    *Viewport
	queue   Compositor

	hover    Cell
	hovering bool
	frame    int
}

// NewEngine wires the engine. The level and images may still be loading; the
// engine draws whatever is ready.
func NewEngine(cfg EngineConfig, level LevelProvider, images ImageProvider, log logrus.FieldLogger) *Engine {
	return &Engine{
		geom:       cfg.Geometry,
		level:      level,
		images:     images,
		log:        log,
		hoverImage: cfg.HoverImage,
		debug:      cfg.Debug,
		terrain:    NewLayer("terrain", cfg.Geometry, cfg.TerrainSprites, images),
		objects:    NewLayer("objects", cfg.Geometry, cfg.ObjectSprites, images),
		char:       NewCharacter(cfg.Geometry, cfg.Character),
		view:       NewViewport(cfg.Geometry, cfg.Center, cfg.CanvasWidth, cfg.CanvasHeight),
	}
}

// Advance moves the simulation on by one tick: the character walks and
// animates. Call it once per update, never per draw.
func (e *Engine) Advance() {
	e.frame++
	e.char.Step()
}

// Render draws the whole scene as of the last Advance. It changes no state
// besides the draw queue, so it may run any number of times per tick.
func (e *Engine) Render(s Surface) error {
	e.queue.Reset()

	shift := e.view.Shift()
	charY := e.char.Position().Y

	if m := e.level.TerrainMatrix(); m != nil {
		err := e.terrain.Enqueue(&e.queue, m, shift, func(Cell) Depth { return DepthTerrain })
		if err != nil {
			return fmt.Errorf("frame %d: %w", e.frame, err)
		}
		if e.debug.TileGrid {
			b := m.Bounds()
			e.queue.Push(DepthTerrain, func(s Surface) { drawTileGrid(s, e.geom, b, shift) })
		}
	}
	if m := e.level.ObjectsMatrix(); m != nil {
		err := e.objects.Enqueue(&e.queue, m, shift, func(c Cell) Depth {
			return ObjectDepth(e.geom.CellToWorld(c).Y, charY)
		})
		if err != nil {
			return fmt.Errorf("frame %d: %w", e.frame, err)
		}
	}
	if c, ok := e.Hovered(); ok {
		e.queue.Push(DepthHover, func(s Surface) { e.drawHover(s, c, shift) })
	}
	e.queue.Push(DepthCharacter, func(s Surface) { e.char.Draw(s, e.images, shift) })

	e.queue.Execute(s)

	if e.debug.ScreenCenter {
		drawScreenCenter(s)
	}
	return nil
}

func (e *Engine) drawHover(s Surface, c Cell, shift Point) {
	img, ok := e.images.Image(e.hoverImage)
	if !ok {
		return
	}
	p := e.geom.CellToScreen(c, shift)
	s.Blit(img, img.Bounds(), Rect{
		X: p.X - e.geom.HalfWidth,
		Y: p.Y,
		W: e.geom.Width,
		H: e.geom.Height,
	})
}

// Requests returns the last frame's draw queue in execution order.
func (e *Engine) Requests() []RenderRequest { return e.queue.Requests() }

// PointerMove pans while a press is held and updates the hovered cell
// otherwise.
func (e *Engine) PointerMove(p Point) {
	if e.view.Dragging() {
		e.view.PointerMove(p)
		return
	}
	e.updateHover(p)
}

// PointerDown starts a press, which becomes a pan or a click.
func (e *Engine) PointerDown(p Point) {
	e.view.PointerDown(p)
}

// PointerUp ends the press. A press that stayed inside the drag dead zone is
// a click; a click on the map sends the character there.
func (e *Engine) PointerUp(p Point) {
	click := e.view.PointerUp(p)
	e.updateHover(p)
	if !click {
		return
	}
	c, ok := e.CellAt(p)
	if !ok {
		e.log.WithFields(logrus.Fields{"x": p.X, "y": p.Y}).Debug("clicked outside the map")
		return
	}
	e.MoveToTile(c)
}

// CellAt hit-tests screen point p against the loaded terrain.
func (e *Engine) CellAt(p Point) (Cell, bool) {
	m := e.level.TerrainMatrix()
	if m == nil {
		return Cell{}, false
	}
	return e.geom.ScreenToCell(p, e.view.Shift(), m.Bounds())
}

func (e *Engine) updateHover(p Point) {
	e.hover, e.hovering = e.CellAt(p)
}

// MoveToTile sends the character to c. It reports false, and does nothing,
// when c is off the map or no level is loaded.
func (e *Engine) MoveToTile(c Cell) bool {
	m := e.level.TerrainMatrix()
	if m == nil || !m.Bounds().Contains(c) {
		e.log.WithField("cell", c.String()).Debug("move target outside the map")
		return false
	}
	e.char.MoveToTile(c)
	e.log.WithFields(logrus.Fields{
		"cell":      c.String(),
		"direction": e.char.Direction().String(),
	}).Info("character moving")
	return true
}

// Hovered returns the cell under the pointer, if any.
func (e *Engine) Hovered() (Cell, bool) { return e.hover, e.hovering }

// CharacterPosition returns the character's world position.
func (e *Engine) CharacterPosition() Point { return e.char.Position() }

// Character exposes the character for read-only queries.
func (e *Engine) Character() *Character { return e.char }

// Shift returns the current viewport shift.
func (e *Engine) Shift() Point { return e.view.Shift() }

// Dragging reports whether a press is in progress.
func (e *Engine) Dragging() bool { return e.view.Dragging() }

func (e *Engine) Debug() DebugOptions     { return e.debug }
func (e *Engine) SetDebug(d DebugOptions) { e.debug = d }
func (e *Engine) Geometry() TileGeometry  { return e.geom }
func (e *Engine) Frame() int              { return e.frame }
