package iso

import (
	"image"
	"io"

	"github.com/sirupsen/logrus"
)

// Headless runs an Engine against a DrawLog with in-memory images and level.
// It mirrors what the window does each frame, without ebiten, and backs the
// headless report and tests.
type Headless struct {
	Config  EngineConfig
	Engine  *Engine
	Surface *DrawLog
	Images  *MemImages
	Level   *StaticLevel
	Log     *logrus.Logger
}

type headlessOptionKind int

const (
	headlessOptConfig  headlessOptionKind = iota // geometry and canvas, applied first
	headlessOptContent                           // level and images, applied before the engine is built
)

// HeadlessOption is a builder function applied during NewHeadless.
type HeadlessOption struct {
	kind headlessOptionKind
	fn   func(*Headless)
}

// WithEngineConfig replaces the whole engine config.
func WithEngineConfig(cfg EngineConfig) HeadlessOption {
	return HeadlessOption{headlessOptConfig, func(h *Headless) {
		h.Config = cfg
	}}
}

// WithCanvas sets the surface size.
func WithCanvas(w, h int) HeadlessOption {
	return HeadlessOption{headlessOptConfig, func(hl *Headless) {
		hl.Config.CanvasWidth = w
		hl.Config.CanvasHeight = h
	}}
}

// WithCenter sets the cell centred at startup.
func WithCenter(c Cell) HeadlessOption {
	return HeadlessOption{headlessOptConfig, func(h *Headless) {
		h.Config.Center = c
	}}
}

// WithSpawn sets the character's starting cell.
func WithSpawn(c Cell) HeadlessOption {
	return HeadlessOption{headlessOptConfig, func(h *Headless) {
		h.Config.Character.Spawn = c
	}}
}

// WithDebug turns on debug overlays.
func WithDebug(d DebugOptions) HeadlessOption {
	return HeadlessOption{headlessOptConfig, func(h *Headless) {
		h.Config.Debug = d
	}}
}

// WithLevel loads the given matrices.
func WithLevel(terrain, objects Matrix) HeadlessOption {
	return HeadlessOption{headlessOptContent, func(h *Headless) {
		h.Level.Set(terrain, objects)
	}}
}

// WithAllImages registers a placeholder image for every sheet in the sprite
// tables, the hover highlight and every character layer.
func WithAllImages() HeadlessOption {
	return HeadlessOption{headlessOptContent, func(h *Headless) {
		for name, sh := range h.Config.TerrainSprites {
			h.Images.Add(name, sh.Width*4, sh.Height*4)
		}
		for name, sh := range h.Config.ObjectSprites {
			h.Images.Add(name, sh.Width*4, sh.Height*4)
		}
		g := h.Config.Geometry
		h.Images.Add(h.Config.HoverImage, int(g.Width), int(g.Height))
		ch := h.Config.Character
		for _, key := range ch.Layers {
			h.Images.Add(key, ch.Width*8, ch.Height*8)
		}
	}}
}

// WithImage registers one placeholder image.
func WithImage(key string, w, h int) HeadlessOption {
	return HeadlessOption{headlessOptContent, func(hl *Headless) {
		hl.Images.Add(key, w, h)
	}}
}

// WithLogger sends engine logs to l.
func WithLogger(l *logrus.Logger) HeadlessOption {
	return HeadlessOption{headlessOptConfig, func(h *Headless) {
		h.Log = l
	}}
}

// NewHeadless builds a Headless in ordered passes:
//  1. Config (geometry, canvas, sprites, character, logger)
//  2. Content (level, images)
//  3. Engine
func NewHeadless(opts ...HeadlessOption) *Headless {
	h := &Headless{
		Config: DefaultHeadlessConfig(),
		Images: NewMemImages(),
		Level:  &StaticLevel{},
	}
	for _, o := range opts {
		if o.kind == headlessOptConfig {
			o.fn(h)
		}
	}
	if h.Log == nil {
		h.Log = logrus.New()
		h.Log.SetOutput(io.Discard)
	}
	for _, o := range opts {
		if o.kind == headlessOptContent {
			o.fn(h)
		}
	}
	h.Surface = NewDrawLog(h.Config.CanvasWidth, h.Config.CanvasHeight)
	h.Engine = NewEngine(h.Config, h.Level, h.Images, h.Log)
	return h
}

// DefaultHeadlessConfig is a small self-contained config: 64×32 tiles on an
// 800×600 canvas centred on (7,7), one terrain sheet, one object sheet and a
// single-layer character.
func DefaultHeadlessConfig() EngineConfig {
	return EngineConfig{
		Geometry:       NewTileGeometry(64, 32),
		Center:         Cell{Row: 7, Col: 7},
		CanvasWidth:    800,
		CanvasHeight:   600,
		TerrainSprites: SpriteTable{"grass": {Width: 64, Height: 32}},
		ObjectSprites:  SpriteTable{"tree": {Width: 128, Height: 256}},
		HoverImage:     "hover",
		Character: CharacterConfig{
			Width:  128,
			Height: 128,
			Layers: []string{"hero"},
			ActionFrames: map[Action][]int{
				ActionBase: {0, 128, 256, 384},
				ActionRun:  {512, 640, 768, 896, 1024, 1152, 1280, 1408},
			},
			DirectionRows: map[Direction]int{
				DirW: 0, DirNW: 128, DirN: 256, DirNE: 384,
				DirE: 512, DirSE: 640, DirS: 768, DirSW: 896,
			},
			FrameSpeed:   map[Action]float64{ActionBase: 0.075, ActionRun: 0.2},
			Speed:        3,
			AnchorOffset: 20,
			Spawn:        Cell{Row: 7, Col: 7},
		},
	}
}

// RunFrames advances and renders n frames into the DrawLog, clearing it before
// each one so it always holds the last frame. It stops at the first frame
// error.
func (h *Headless) RunFrames(n int) error {
	for i := 0; i < n; i++ {
		h.Engine.Advance()
		h.Surface.Reset()
		if err := h.Engine.Render(h.Surface); err != nil {
			return err
		}
	}
	return nil
}

// Click presses and releases at p without moving.
func (h *Headless) Click(p Point) {
	h.Engine.PointerMove(p)
	h.Engine.PointerDown(p)
	h.Engine.PointerUp(p)
}

// Drag presses at from, moves to `to` in steps equal increments and releases.
func (h *Headless) Drag(from, to Point, steps int) {
	if steps < 1 {
		steps = 1
	}
	h.Engine.PointerMove(from)
	h.Engine.PointerDown(from)
	d := to.Sub(from)
	for i := 1; i <= steps; i++ {
		f := float64(i) / float64(steps)
		h.Engine.PointerMove(Point{X: from.X + d.X*f, Y: from.Y + d.Y*f})
	}
	h.Engine.PointerUp(to)
}

// MemImages is an ImageProvider over placeholder images held in memory.
type MemImages struct {
	images map[string]Image
}

func NewMemImages() *MemImages {
	return &MemImages{images: make(map[string]Image)}
}

// Add registers a w×h placeholder under key.
func (m *MemImages) Add(key string, w, h int) {
	m.images[key] = memImage{key: key, bounds: image.Rect(0, 0, w, h)}
}

// Remove drops key, as if it had never loaded.
func (m *MemImages) Remove(key string) {
	delete(m.images, key)
}

func (m *MemImages) Image(key string) (Image, bool) {
	img, ok := m.images[key]
	return img, ok
}

type memImage struct {
	key    string
	bounds image.Rectangle
}

func (i memImage) Bounds() image.Rectangle { return i.bounds }
func (i memImage) Key() string             { return i.key }

// StaticLevel is a LevelProvider over fixed matrices.
type StaticLevel struct {
	terrain Matrix
	objects Matrix
}

// Set replaces both matrices.
func (l *StaticLevel) Set(terrain, objects Matrix) {
	l.terrain = terrain
	l.objects = objects
}

func (l *StaticLevel) TerrainMatrix() Matrix { return l.terrain }
func (l *StaticLevel) ObjectsMatrix() Matrix { return l.objects }

// FilledMatrix returns a rows×cols matrix with ref in every cell.
func FilledMatrix(rows, cols int, ref string) Matrix {
	m := make(Matrix, rows)
	for r := range m {
		m[r] = make([]string, cols)
		for c := range m[r] {
			m[r][c] = ref
		}
	}
	return m
}
