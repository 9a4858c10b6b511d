package iso

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// Direction is the way the character faces, one of eight compass points.
// Screen Y grows downwards, so S is "down the screen".
type Direction int

const (
	DirE Direction = iota
	DirSE
	DirS
	DirSW
	DirW
	DirNW
	DirN
	DirNE
)

func (d Direction) String() string {
	switch d {
	case DirE:
		return "E"
	case DirSE:
		return "SE"
	case DirS:
		return "S"
	case DirSW:
		return "SW"
	case DirW:
		return "W"
	case DirNW:
		return "NW"
	case DirN:
		return "N"
	case DirNE:
		return "NE"
	default:
		return "unknown"
	}
}

// directionSector is a half-open angle range [min, max) in radians, as
// returned by math.Atan2.
type directionSector struct {
	min, max float64
	dir      Direction
}

// directionSectors covers (-π, π] in π/4 wide sectors centred on each
// direction. W is split in two because it straddles ±π.
var directionSectors = [...]directionSector{
	{-math.Pi / 8, math.Pi / 8, DirE},
	{math.Pi / 8, 3 * math.Pi / 8, DirSE},
	{3 * math.Pi / 8, 5 * math.Pi / 8, DirS},
	{5 * math.Pi / 8, 7 * math.Pi / 8, DirSW},
	{7 * math.Pi / 8, math.Inf(1), DirW},
	{math.Inf(-1), -7 * math.Pi / 8, DirW},
	{-7 * math.Pi / 8, -5 * math.Pi / 8, DirNW},
	{-5 * math.Pi / 8, -3 * math.Pi / 8, DirN},
	{-3 * math.Pi / 8, -math.Pi / 8, DirNE},
}

// DirectionFromAngle classifies an Atan2 angle into one of the eight
// directions.
func DirectionFromAngle(a float64) Direction {
	for _, s := range directionSectors {
		if a >= s.min && a < s.max {
			return s.dir
		}
	}
	// NaN.
	return DirE
}

// Action is what the character is doing; it picks the animation strip.
type Action int

const (
	ActionBase Action = iota
	ActionRun
	ActionAttack
	ActionLose
	ActionWin
)

func (a Action) String() string {
	switch a {
	case ActionBase:
		return "base"
	case ActionRun:
		return "run"
	case ActionAttack:
		return "attack"
	case ActionLose:
		return "lose"
	case ActionWin:
		return "win"
	default:
		return "unknown"
	}
}

var (
	// ErrCharacterBusy is returned when an action is requested mid-move.
	ErrCharacterBusy = errors.New("character is moving")
	// ErrInvalidAction is returned for actions that only movement may set.
	ErrInvalidAction = errors.New("action cannot be set directly")
)

// CharacterConfig holds the sprite sheet layout and motion tuning.
type CharacterConfig struct {
	Width  int
	Height int
	// Layers are image keys drawn bottom to top, all sharing one layout.
	Layers []string
	// ActionFrames lists each action's frame X offsets on the sheet.
	ActionFrames map[Action][]int
	// DirectionRows gives each direction's Y offset on the sheet.
	DirectionRows map[Direction]int
	// FrameSpeed is how far the animation tick advances per frame.
	FrameSpeed map[Action]float64
	// Speed is movement in world pixels per frame.
	Speed float64
	// AnchorOffset lifts the sprite bottom this many pixels above tile height
	// over the feet position. Purely visual.
	AnchorOffset float64
	Spawn        Cell
}

// Character owns the walker's position, target and animation state. Its
// direction and action follow from MoveToTile and Step; nothing else writes
// them.
type Character struct {
	cfg  CharacterConfig
	geom TileGeometry

	pos       Point
	target    Point
	hasTarget bool
	dir       Direction
	action    Action
	tick      float64
}

// NewCharacter places a character at cfg.Spawn, facing E and idle.
func NewCharacter(g TileGeometry, cfg CharacterConfig) *Character {
	return &Character{
		cfg:    cfg,
		geom:   g,
		pos:    g.CellToWorld(cfg.Spawn),
		dir:    DirE,
		action: ActionBase,
	}
}

// Position returns the feet position in world space.
func (c *Character) Position() Point { return c.pos }

// Target returns the pending move target, if any.
func (c *Character) Target() (Point, bool) { return c.target, c.hasTarget }

func (c *Character) Direction() Direction { return c.dir }
func (c *Character) Action() Action       { return c.action }

// MoveToTile walks the character to cell. The facing is fixed now and kept
// for the whole walk; a move onto the current position keeps the old facing.
func (c *Character) MoveToTile(cell Cell) {
	c.target = c.geom.CellToWorld(cell)
	c.hasTarget = true
	c.action = ActionRun

	d := c.target.Sub(c.pos)
	if d.X != 0 || d.Y != 0 {
		c.dir = DirectionFromAngle(math.Atan2(d.Y, d.X))
	}
}

// SetAction switches to one of the non-movement actions. Base is allowed
// too. Run belongs to MoveToTile.
func (c *Character) SetAction(a Action) error {
	if a == ActionRun {
		return fmt.Errorf("%w: %s", ErrInvalidAction, a)
	}
	if c.hasTarget {
		return fmt.Errorf("set %s: %w", a, ErrCharacterBusy)
	}
	c.action = a
	return nil
}

// Step advances one frame: the animation tick, then the walk.
func (c *Character) Step() {
	c.tick += c.cfg.FrameSpeed[c.action]

	if !c.hasTarget {
		return
	}
	d := c.target.Sub(c.pos)
	dist := d.Len()
	if dist <= c.cfg.Speed {
		c.pos = c.target
		c.target = Point{}
		c.hasTarget = false
		c.action = ActionBase
		return
	}
	c.pos.X += d.X / dist * c.cfg.Speed
	c.pos.Y += d.Y / dist * c.cfg.Speed
}

// Frame returns the index into the current action's frame list.
func (c *Character) Frame() int {
	n := len(c.cfg.ActionFrames[c.action])
	if n == 0 {
		return 0
	}
	return int(math.Floor(math.Mod(c.tick, float64(n))))
}

// SourceRect returns the part of the sheet for the current action, frame and
// direction.
func (c *Character) SourceRect() image.Rectangle {
	frames := c.cfg.ActionFrames[c.action]
	x := 0
	if len(frames) > 0 {
		x = frames[c.Frame()]
	}
	y := c.cfg.DirectionRows[c.dir]
	return image.Rect(x, y, x+c.cfg.Width, y+c.cfg.Height)
}

// Anchor returns where the sprite goes on screen.
func (c *Character) Anchor(shift Point) Rect {
	w := float64(c.cfg.Width)
	h := float64(c.cfg.Height)
	return Rect{
		X: c.pos.X - w/2 + shift.X,
		Y: c.pos.Y - h + c.geom.Height + c.cfg.AnchorOffset + shift.Y,
		W: w,
		H: h,
	}
}

// Draw blits every sprite layer. Nothing is drawn until all layers are loaded.
func (c *Character) Draw(s Surface, images ImageProvider, shift Point) {
	imgs := make([]Image, 0, len(c.cfg.Layers))
	for _, key := range c.cfg.Layers {
		img, ok := images.Image(key)
		if !ok {
			return
		}
		imgs = append(imgs, img)
	}
	src := c.SourceRect()
	dst := c.Anchor(shift)
	for _, img := range imgs {
		s.Blit(img, src, dst)
	}
}
