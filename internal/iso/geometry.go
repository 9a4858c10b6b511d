package iso

import (
	"fmt"
	"math"
)

// Cell addresses one slot of the terrain and objects matrices.
type Cell struct {
	Row int
	Col int
}

// String formats the cell as "row:col", the same form used for tile captions.
func (c Cell) String() string {
	return fmt.Sprintf("%d:%d", c.Row, c.Col)
}

// Point is a pixel position. World points carry no viewport shift; screen
// points are world points plus the current shift.
type Point struct {
	X float64
	Y float64
}

func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Len returns the distance of p from the origin.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// Bounds is the extent of a level matrix.
type Bounds struct {
	Rows int
	Cols int
}

// Contains reports whether c lies inside the matrix.
func (b Bounds) Contains(c Cell) bool {
	return c.Row >= 0 && c.Row < b.Rows && c.Col >= 0 && c.Col < b.Cols
}

// TileGeometry is the diamond footprint shared by every projection call.
type TileGeometry struct {
	Width      float64
	Height     float64
	HalfWidth  float64
	HalfHeight float64
}

// NewTileGeometry builds a geometry whose half sizes are derived from width
// and height, so the two can never disagree.
func NewTileGeometry(width, height float64) TileGeometry {
	return TileGeometry{
		Width:      width,
		Height:     height,
		HalfWidth:  width / 2,
		HalfHeight: height / 2,
	}
}

// CellToWorld maps a cell to the top vertex of its diamond in world space.
func (g TileGeometry) CellToWorld(c Cell) Point {
	return Point{
		X: float64(c.Col-c.Row) * g.HalfWidth,
		Y: float64(c.Col+c.Row) * g.HalfHeight,
	}
}

// CellToScreen is CellToWorld translated by the viewport shift.
func (g TileGeometry) CellToScreen(c Cell, shift Point) Point {
	return g.CellToWorld(c).Add(shift)
}

// TileCenter returns the world point in the middle of the cell's diamond.
func (g TileGeometry) TileCenter(c Cell) Point {
	p := g.CellToWorld(c)
	p.Y += g.HalfHeight
	return p
}

// WorldToCell is the exact inverse of CellToWorld. Any world point inside a
// diamond (top vertex included) maps back to that diamond's cell.
func (g TileGeometry) WorldToCell(p Point) Cell {
	return Cell{
		Row: int(math.Floor((p.Y/g.HalfHeight - p.X/g.HalfWidth) / 2)),
		Col: int(math.Floor((p.Y/g.HalfHeight + p.X/g.HalfWidth) / 2)),
	}
}

// Diamond returns the four corners of the tile outline whose top vertex is at
// p: top, right, bottom, left.
func (g TileGeometry) Diamond(p Point) []Point {
	return []Point{
		{X: p.X, Y: p.Y},
		{X: p.X + g.HalfWidth, Y: p.Y + g.HalfHeight},
		{X: p.X, Y: p.Y + g.Height},
		{X: p.X - g.HalfWidth, Y: p.Y + g.HalfHeight},
	}
}
