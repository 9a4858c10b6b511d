package iso

import (
	"fmt"
	"image/color"
)

// Layer draws one sprite per non-empty cell of a level matrix, anchored so the
// sprite's bottom edge sits on the tile's bottom edge.
type Layer struct {
	name    string
	geom    TileGeometry
	sprites SpriteTable
	images  ImageProvider
}

// NewLayer creates a layer resolving references against sprites.
func NewLayer(name string, geom TileGeometry, sprites SpriteTable, images ImageProvider) *Layer {
	return &Layer{name: name, geom: geom, sprites: sprites, images: images}
}

// Name identifies the layer in errors and logs.
func (l *Layer) Name() string { return l.name }

// Enqueue pushes one request per non-empty cell of m. depth decides each
// cell's depth. A reference the sprite table can't resolve aborts the layer
// before anything for this frame is drawn.
func (l *Layer) Enqueue(q *Compositor, m Matrix, shift Point, depth func(Cell) Depth) error {
	for row := range m {
		for col, ref := range m[row] {
			if ref == "" {
				continue
			}
			c := Cell{Row: row, Col: col}
			sp, err := l.sprites.Resolve(ref)
			if err != nil {
				return fmt.Errorf("%s layer: cell %s: %w", l.name, c, err)
			}
			dst := l.Anchor(sp, l.geom.CellToScreen(c, shift))
			q.Push(depth(c), func(s Surface) {
				l.draw(s, sp, dst)
			})
		}
	}
	return nil
}

// Anchor places sprite sp over the tile whose top vertex is at p: centred
// horizontally, bottom on the tile's bottom edge.
func (l *Layer) Anchor(sp Sprite, p Point) Rect {
	w := float64(sp.Width())
	h := float64(sp.Height())
	return Rect{
		X: p.X - w/2,
		Y: p.Y - h + l.geom.Height,
		W: w,
		H: h,
	}
}

func (l *Layer) draw(s Surface, sp Sprite, dst Rect) {
	img, ok := l.images.Image(sp.Name)
	if !ok {
		return
	}
	s.Blit(img, sp.Src, dst)
}

var (
	gridColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	captionColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	centerColor  = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// Debug captions have their baseline captionBaseline pixels below the tile's
// top vertex and are CaptionSize pixels tall.
const (
	captionBaseline = 18
	CaptionSize     = 10
)

// drawTileGrid outlines every cell in b and labels it row:col.
func drawTileGrid(s Surface, g TileGeometry, b Bounds, shift Point) {
	for row := 0; row < b.Rows; row++ {
		for col := 0; col < b.Cols; col++ {
			c := Cell{Row: row, Col: col}
			p := g.CellToScreen(c, shift)
			s.StrokePolygon(g.Diamond(p), 1, gridColor)
			caption := c.String()
			s.Text(caption, p.X-s.TextWidth(caption)/2, p.Y+captionBaseline-CaptionSize, captionColor)
		}
	}
}

// drawScreenCenter marks the middle of the surface.
func drawScreenCenter(s Surface) {
	w, h := s.Size()
	s.FillRect(Rect{X: float64(w)/2 - 2, Y: float64(h)/2 - 2, W: 4, H: 4}, centerColor)
}
