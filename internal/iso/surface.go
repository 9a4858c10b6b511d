package iso

import (
	"image"
	"image/color"
)

// Image is an opaque, already decoded picture that a Surface can blit.
// *ebiten.Image satisfies it.
type Image interface {
	Bounds() image.Rectangle
}

// ImageProvider hands out loaded images by key. ok is false while the image
// is still loading; callers skip the draw and try again next frame.
type ImageProvider interface {
	Image(key string) (img Image, ok bool)
}

// LevelProvider hands out the matrices of the loaded level, nil while the
// level is still loading. Both matrices have the same dimensions.
type LevelProvider interface {
	TerrainMatrix() Matrix
	ObjectsMatrix() Matrix
}

// Rect is a destination rectangle in screen pixels.
type Rect struct {
	X, Y, W, H float64
}

// Surface is the immediate-mode drawing target for one frame.
type Surface interface {
	// Size returns the drawable area in pixels.
	Size() (w, h int)
	// Blit draws the src part of img scaled into dst.
	Blit(img Image, src image.Rectangle, dst Rect)
	// StrokePolygon outlines the closed polygon through pts.
	StrokePolygon(pts []Point, width float32, clr color.Color)
	FillRect(r Rect, clr color.Color)
	// Text draws s with its top-left corner at (x, y).
	Text(s string, x, y float64, clr color.Color)
	TextWidth(s string) float64
}
