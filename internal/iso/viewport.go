package iso

// DragDeadZone is how far (pixels) the pointer may wander from where it was
// pressed before the press counts as a pan instead of a click.
const DragDeadZone = 4.0

type panState int

const (
	panIdle panState = iota
	panDragging
)

func (s panState) String() string {
	switch s {
	case panIdle:
		return "idle"
	case panDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Viewport owns the screen-space shift added to every projected point and
// updates it from drag gestures.
type Viewport struct {
	shift Point

	state  panState
	anchor Point   // where the pointer went down
	last   Point   // last pointer position seen while dragging
	travel float64 // furthest the pointer got from anchor this press
}

// NewViewport centres the middle of the center cell's diamond on a canvas of
// the given size.
func NewViewport(g TileGeometry, center Cell, canvasW, canvasH int) *Viewport {
	c := g.TileCenter(center)
	return &Viewport{
		shift: Point{
			X: float64(canvasW)/2 - c.X,
			Y: float64(canvasH)/2 - c.Y,
		},
	}
}

// Shift returns the current world→screen translation.
func (v *Viewport) Shift() Point { return v.shift }

// Dragging reports whether a press is in progress.
func (v *Viewport) Dragging() bool { return v.state == panDragging }

// PointerDown starts a drag at p. A second press without a release in
// between restarts the drag from p.
func (v *Viewport) PointerDown(p Point) {
	v.state = panDragging
	v.anchor = p
	v.last = p
	v.travel = 0
}

// PointerMove pans by the delta since the previous pointer position. Deltas
// are applied incrementally, so a missed event costs one step, never drift.
// It reports whether the shift changed.
func (v *Viewport) PointerMove(p Point) bool {
	if v.state != panDragging {
		return false
	}
	v.note(p)
	d := p.Sub(v.last)
	v.last = p
	if d.X == 0 && d.Y == 0 {
		return false
	}
	v.shift = v.shift.Add(d)
	return true
}

// PointerUp ends the press and reports whether it was a click: the pointer
// never left the dead zone around where it went down. Any pan, even one that
// came back to its start, is not a click.
func (v *Viewport) PointerUp(p Point) (click bool) {
	if v.state != panDragging {
		return false
	}
	v.note(p)
	click = v.travel <= DragDeadZone

	v.state = panIdle
	v.anchor = Point{}
	v.last = Point{}
	v.travel = 0
	return click
}

func (v *Viewport) note(p Point) {
	if d := p.Sub(v.anchor).Len(); d > v.travel {
		v.travel = d
	}
}
