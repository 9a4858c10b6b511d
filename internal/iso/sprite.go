package iso

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"
)

var (
	// ErrBadSpriteRef is returned for a reference that is not "name:row:col".
	ErrBadSpriteRef = errors.New("malformed sprite reference")
	// ErrUnknownSprite is returned for a reference naming a sheet that is not
	// in the sprite table. It means the level and sprite config disagree.
	ErrUnknownSprite = errors.New("unknown sprite")
)

// SpriteSheet describes the frame size of one sprite sheet image.
type SpriteSheet struct {
	Width  int
	Height int
}

// SpriteTable maps sheet names to their frame sizes. Terrain and objects each
// have their own table.
type SpriteTable map[string]SpriteSheet

// Sprite is a resolved sprite reference: which image to blit and which part
// of it.
type Sprite struct {
	Name string
	Src  image.Rectangle
}

// Width is the frame width in pixels.
func (s Sprite) Width() int { return s.Src.Dx() }

// Height is the frame height in pixels.
func (s Sprite) Height() int { return s.Src.Dy() }

// ParseSpriteRef splits a "name:row:col" reference.
func ParseSpriteRef(ref string) (name string, row, col int, err error) {
	parts := strings.Split(ref, ":")
	if len(parts) != 3 || parts[0] == "" {
		return "", 0, 0, fmt.Errorf("%w: %q", ErrBadSpriteRef, ref)
	}
	row, err = strconv.Atoi(parts[1])
	if err != nil || row < 0 {
		return "", 0, 0, fmt.Errorf("%w: %q: bad row", ErrBadSpriteRef, ref)
	}
	col, err = strconv.Atoi(parts[2])
	if err != nil || col < 0 {
		return "", 0, 0, fmt.Errorf("%w: %q: bad col", ErrBadSpriteRef, ref)
	}
	return parts[0], row, col, nil
}

// Resolve turns a reference into the source rectangle on its sheet.
func (t SpriteTable) Resolve(ref string) (Sprite, error) {
	name, row, col, err := ParseSpriteRef(ref)
	if err != nil {
		return Sprite{}, err
	}
	sheet, ok := t[name]
	if !ok {
		return Sprite{}, fmt.Errorf("%w: %q", ErrUnknownSprite, name)
	}
	x := col * sheet.Width
	y := row * sheet.Height
	return Sprite{
		Name: name,
		Src:  image.Rect(x, y, x+sheet.Width, y+sheet.Height),
	}, nil
}

// Matrix is one layer of a level: a sprite reference per cell, "" for empty.
type Matrix [][]string

// Bounds returns the matrix extent. Levels are rectangular; the first row
// gives the column count.
func (m Matrix) Bounds() Bounds {
	if len(m) == 0 {
		return Bounds{}
	}
	return Bounds{Rows: len(m), Cols: len(m[0])}
}

// At returns the reference at c, or "" outside the matrix.
func (m Matrix) At(c Cell) string {
	if c.Row < 0 || c.Row >= len(m) || c.Col < 0 || c.Col >= len(m[c.Row]) {
		return ""
	}
	return m[c.Row][c.Col]
}

// Validate resolves every non-empty reference in m against t and returns the
// first failure, tagged with its cell.
func (t SpriteTable) Validate(m Matrix) error {
	for row := range m {
		for col, ref := range m[row] {
			if ref == "" {
				continue
			}
			if _, err := t.Resolve(ref); err != nil {
				return fmt.Errorf("cell %d:%d: %w", row, col, err)
			}
		}
	}
	return nil
}
