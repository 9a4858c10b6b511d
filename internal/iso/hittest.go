package iso

import "math"

// hitAnchorOffset is subtracted from the pointer Y before the projection is
// inverted. Tile rendering has no matching adjustment; it is kept so hover
// and click keep landing on the same cells they always have.
const hitAnchorOffset = 1.0

// ScreenToCell finds the cell under screen point p. ok is false when the
// point falls outside the matrix; that is an ordinary outcome, not an error.
func (g TileGeometry) ScreenToCell(p, shift Point, b Bounds) (c Cell, ok bool) {
	ax := p.X - shift.X
	ay := p.Y - shift.Y - hitAnchorOffset

	c = Cell{
		Row: int(math.Floor((ay/g.HalfHeight - ax/g.HalfWidth) / 2)),
		Col: int(math.Floor((ay/g.HalfHeight + ax/g.HalfWidth) / 2)),
	}
	if !b.Contains(c) {
		return Cell{}, false
	}
	return c, true
}
