package game

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/Garsondee/Iso-Map/internal/iso"
)

// NewCaptionFace returns the face used for debug captions.
func NewCaptionFace() (*text.GoTextFace, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load caption font: %w", err)
	}
	return &text.GoTextFace{Source: src, Size: iso.CaptionSize}, nil
}

// screenSurface draws engine requests onto an ebiten image.
type screenSurface struct {
	dst  *ebiten.Image
	face *text.GoTextFace
}

func (s *screenSurface) Size() (int, int) {
	b := s.dst.Bounds()
	return b.Dx(), b.Dy()
}

// Blit copies src out of img, which must be an *ebiten.Image, scaled to dst.
func (s *screenSurface) Blit(img iso.Image, src image.Rectangle, dst iso.Rect) {
	eimg, ok := img.(*ebiten.Image)
	if !ok || src.Dx() <= 0 || src.Dy() <= 0 {
		return
	}
	sub, ok := eimg.SubImage(src).(*ebiten.Image)
	if !ok {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(dst.W/float64(src.Dx()), dst.H/float64(src.Dy()))
	op.GeoM.Translate(dst.X, dst.Y)
	s.dst.DrawImage(sub, op)
}

func (s *screenSurface) StrokePolygon(pts []iso.Point, width float32, clr color.Color) {
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		vector.StrokeLine(s.dst, float32(p.X), float32(p.Y), float32(q.X), float32(q.Y), width, clr, true)
	}
}

func (s *screenSurface) FillRect(r iso.Rect, clr color.Color) {
	vector.FillRect(s.dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), clr, false)
}

func (s *screenSurface) Text(str string, x, y float64, clr color.Color) {
	if s.face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(s.dst, str, s.face, op)
}

func (s *screenSurface) TextWidth(str string) float64 {
	if s.face == nil {
		return 0
	}
	return text.Advance(str, s.face)
}
