package iso

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

// DrawKind names a Surface primitive.
type DrawKind string

const (
	DrawBlit    DrawKind = "blit"
	DrawPolygon DrawKind = "polygon"
	DrawRect    DrawKind = "rect"
	DrawText    DrawKind = "text"
)

// DrawCall is one recorded Surface call.
type DrawCall struct {
	Seq  int
	Kind DrawKind
	Key  string          // image key for blits, caption for text
	Src  image.Rectangle // blit source
	Dst  Rect            // blit/rect destination, text origin in X/Y
	Pts  []Point         // polygon corners
}

// String formats the call as a fixed-width log line.
//
//	#0042 blit    trees          src=(0,0)-(128,256)  dst=(336.0,-8.0 128x256)
func (c DrawCall) String() string {
	switch c.Kind {
	case DrawBlit:
		return fmt.Sprintf("#%04d %-7s %-14s src=%v  dst=(%.1f,%.1f %.0fx%.0f)",
			c.Seq, c.Kind, c.Key, c.Src, c.Dst.X, c.Dst.Y, c.Dst.W, c.Dst.H)
	case DrawPolygon:
		return fmt.Sprintf("#%04d %-7s %d points", c.Seq, c.Kind, len(c.Pts))
	case DrawText:
		return fmt.Sprintf("#%04d %-7s %-14q at=(%.1f,%.1f)", c.Seq, c.Kind, c.Key, c.Dst.X, c.Dst.Y)
	default:
		return fmt.Sprintf("#%04d %-7s (%.1f,%.1f %.0fx%.0f)", c.Seq, c.Kind, c.Dst.X, c.Dst.Y, c.Dst.W, c.Dst.H)
	}
}

// KeyedImage is an Image that knows its provider key. DrawLog records the key
// for blits of keyed images.
type KeyedImage interface {
	Image
	Key() string
}

// DrawLog is a Surface that records every call instead of drawing. It backs
// the headless runner and tests.
type DrawLog struct {
	width  int
	height int
	calls  []DrawCall
}

// NewDrawLog creates a recording surface of the given size.
func NewDrawLog(w, h int) *DrawLog {
	return &DrawLog{width: w, height: h}
}

func (d *DrawLog) Size() (int, int) { return d.width, d.height }

func (d *DrawLog) Blit(img Image, src image.Rectangle, dst Rect) {
	key := ""
	if k, ok := img.(KeyedImage); ok {
		key = k.Key()
	}
	d.add(DrawCall{Kind: DrawBlit, Key: key, Src: src, Dst: dst})
}

func (d *DrawLog) StrokePolygon(pts []Point, _ float32, _ color.Color) {
	d.add(DrawCall{Kind: DrawPolygon, Pts: append([]Point(nil), pts...)})
}

func (d *DrawLog) FillRect(r Rect, _ color.Color) {
	d.add(DrawCall{Kind: DrawRect, Dst: r})
}

func (d *DrawLog) Text(s string, x, y float64, _ color.Color) {
	d.add(DrawCall{Kind: DrawText, Key: s, Dst: Rect{X: x, Y: y}})
}

// TextWidth assumes a 6 px monospace advance, like ebitenutil's debug font.
func (d *DrawLog) TextWidth(s string) float64 { return float64(6 * len(s)) }

func (d *DrawLog) add(c DrawCall) {
	c.Seq = len(d.calls)
	d.calls = append(d.calls, c)
}

// Calls returns every recorded call in order.
func (d *DrawLog) Calls() []DrawCall { return d.calls }

// Reset forgets all recorded calls.
func (d *DrawLog) Reset() { d.calls = d.calls[:0] }

// Filter returns calls matching kind and key. Empty strings match anything.
func (d *DrawLog) Filter(kind DrawKind, key string) []DrawCall {
	var out []DrawCall
	for _, c := range d.calls {
		if kind != "" && c.Kind != kind {
			continue
		}
		if key != "" && c.Key != key {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Count returns how many calls match kind and key.
func (d *DrawLog) Count(kind DrawKind, key string) int {
	return len(d.Filter(kind, key))
}

// IndexOf returns the sequence number of the first blit of key, or -1.
func (d *DrawLog) IndexOf(key string) int {
	for _, c := range d.calls {
		if c.Kind == DrawBlit && c.Key == key {
			return c.Seq
		}
	}
	return -1
}

// Format returns the whole log, one call per line.
func (d *DrawLog) Format() string {
	var sb strings.Builder
	for _, c := range d.calls {
		sb.WriteString(c.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
