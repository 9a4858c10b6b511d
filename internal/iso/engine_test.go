package iso

import (
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func grassLevel(objects Matrix) HeadlessOption {
	return WithLevel(FilledMatrix(15, 15, "grass:0:0"), objects)
}

func emptyObjects() Matrix {
	return make(Matrix, 15)
}

func objectsWith(c Cell, ref string) Matrix {
	m := emptyObjects()
	for r := range m {
		m[r] = make([]string, 15)
	}
	m[c.Row][c.Col] = ref
	return m
}

func TestEngine_ClickCentreSendsCharacterToCentreCell(t *testing.T) {
	h := NewHeadless(grassLevel(emptyObjects()), WithAllImages(), WithSpawn(Cell{0, 0}))

	h.Click(Point{X: 400, Y: 300})

	target, ok := h.Engine.Character().Target()
	if !ok {
		t.Fatal("expected a move target after the click")
	}
	if want := h.Config.Geometry.CellToWorld(Cell{7, 7}); target != want {
		t.Fatalf("expected target %v, got %v", want, target)
	}
	if h.Engine.Character().Direction() != DirS {
		t.Fatalf("expected to face S from 0:0, got %v", h.Engine.Character().Direction())
	}

	if err := h.RunFrames(100); err != nil {
		t.Fatalf("render: %v", err)
	}
	if h.Engine.CharacterPosition() != (Point{X: 0, Y: 224}) {
		t.Fatalf("expected arrival at (0,224), got %v", h.Engine.CharacterPosition())
	}
	if h.Engine.Character().Action() != ActionBase {
		t.Fatalf("expected base after arrival, got %v", h.Engine.Character().Action())
	}
}

func TestEngine_ObjectDepthAgainstCharacter(t *testing.T) {
	tests := []struct {
		name        string
		object      Cell
		behindChar  bool
		description string
	}{
		{"object north of character", Cell{5, 5}, true, "y=160 < 224"},
		{"object south of character", Cell{9, 9}, false, "y=288 > 224"},
		{"object on character row", Cell{6, 8}, false, "y=224 == 224"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHeadless(grassLevel(objectsWith(tt.object, "tree:0:0")), WithAllImages())
			if err := h.RunFrames(1); err != nil {
				t.Fatalf("render: %v", err)
			}
			tree := h.Surface.IndexOf("tree")
			hero := h.Surface.IndexOf("hero")
			if tree < 0 || hero < 0 {
				t.Fatalf("expected both tree and hero drawn:\n%s", h.Surface.Format())
			}
			if got := tree < hero; got != tt.behindChar {
				t.Fatalf("%s: expected tree-before-hero=%v, got tree #%d hero #%d",
					tt.description, tt.behindChar, tree, hero)
			}
			if h.Surface.IndexOf("grass") != 0 {
				t.Fatalf("expected terrain first, got:\n%s", h.Surface.Format())
			}
		})
	}
}

func TestEngine_TerrainDrawsEveryCell(t *testing.T) {
	h := NewHeadless(grassLevel(emptyObjects()), WithAllImages())
	if err := h.RunFrames(1); err != nil {
		t.Fatalf("render: %v", err)
	}
	if n := h.Surface.Count(DrawBlit, "grass"); n != 225 {
		t.Fatalf("expected 225 grass blits, got %d", n)
	}
	// Cell 0:0 with shift (400,60): top vertex (400,60).
	first := h.Surface.Filter(DrawBlit, "grass")[0]
	if want := (Rect{X: 368, Y: 60, W: 64, H: 32}); first.Dst != want {
		t.Fatalf("expected first tile at %v, got %v", want, first.Dst)
	}
}

func TestEngine_DragPansWithoutMoving(t *testing.T) {
	h := NewHeadless(grassLevel(emptyObjects()), WithAllImages())
	before := h.Engine.CharacterPosition()

	h.Drag(Point{X: 400, Y: 300}, Point{X: 500, Y: 350}, 5)

	if h.Engine.Shift() != (Point{X: 500, Y: 110}) {
		t.Fatalf("expected shift (500,110), got %v", h.Engine.Shift())
	}
	if _, ok := h.Engine.Character().Target(); ok {
		t.Fatal("a drag must not issue a move")
	}
	if err := h.RunFrames(10); err != nil {
		t.Fatalf("render: %v", err)
	}
	if h.Engine.CharacterPosition() != before {
		t.Fatalf("character moved from %v to %v", before, h.Engine.CharacterPosition())
	}
	if h.Engine.Dragging() {
		t.Fatal("expected idle after release")
	}
}

func TestEngine_PanDuringWalkKeepsTarget(t *testing.T) {
	h := NewHeadless(grassLevel(emptyObjects()), WithAllImages())
	h.Click(Point{X: 432, Y: 316}) // centre of 7:8
	want, ok := h.Engine.Character().Target()
	if !ok {
		t.Fatal("expected a move target")
	}
	h.Drag(Point{X: 100, Y: 100}, Point{X: 200, Y: 100}, 4)
	got, ok := h.Engine.Character().Target()
	if !ok || got != want {
		t.Fatalf("pan changed the target from %v to %v (ok=%v)", want, got, ok)
	}
}

func TestEngine_ClickOutsideMapIsLogged(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	h := NewHeadless(grassLevel(emptyObjects()), WithAllImages(), WithLogger(logger))

	h.Click(Point{X: 5, Y: 5})

	if _, ok := h.Engine.Character().Target(); ok {
		t.Fatal("a click off the map must not move the character")
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Message != "clicked outside the map" {
		t.Fatalf("expected an outside-click log entry, got %+v", entry)
	}
	if entry.Level != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %v", entry.Level)
	}
	if _, ok := h.Engine.Hovered(); ok {
		t.Fatal("expected no hovered cell off the map")
	}
}

func TestEngine_MoveIsLoggedWithDirection(t *testing.T) {
	logger, hook := test.NewNullLogger()
	h := NewHeadless(grassLevel(emptyObjects()), WithAllImages(), WithLogger(logger))

	if !h.Engine.MoveToTile(Cell{7, 8}) {
		t.Fatal("expected the move to be accepted")
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Message != "character moving" {
		t.Fatalf("expected a move log entry, got %+v", entry)
	}
	if entry.Data["cell"] != "7:8" || entry.Data["direction"] != "SE" {
		t.Fatalf("unexpected fields %v", entry.Data)
	}
	if h.Engine.MoveToTile(Cell{20, 0}) {
		t.Fatal("expected a move off the map to be refused")
	}
}

func TestEngine_NothingLoadedDrawsNothing(t *testing.T) {
	h := NewHeadless()
	if err := h.RunFrames(3); err != nil {
		t.Fatalf("render: %v", err)
	}
	if n := len(h.Surface.Calls()); n != 0 {
		t.Fatalf("expected an empty frame, got:\n%s", h.Surface.Format())
	}
	h.Click(Point{X: 400, Y: 300})
	if _, ok := h.Engine.Character().Target(); ok {
		t.Fatal("a click before the level loads must not move the character")
	}
}

func TestEngine_LevelWithoutImagesSkipsBlits(t *testing.T) {
	h := NewHeadless(grassLevel(objectsWith(Cell{3, 3}, "tree:0:0")))
	if err := h.RunFrames(1); err != nil {
		t.Fatalf("render: %v", err)
	}
	if n := h.Surface.Count(DrawBlit, ""); n != 0 {
		t.Fatalf("expected no blits before images load, got %d", n)
	}
	if h.Engine.Requests() == nil {
		t.Fatal("expected requests queued even with no images")
	}
}

func TestEngine_CharacterWaitsForEveryLayer(t *testing.T) {
	cfg := DefaultHeadlessConfig()
	cfg.Character.Layers = []string{"clothes", "head"}
	h := NewHeadless(WithEngineConfig(cfg), grassLevel(emptyObjects()), WithImage("grass", 256, 128), WithImage("clothes", 1024, 1024))
	if err := h.RunFrames(1); err != nil {
		t.Fatalf("render: %v", err)
	}
	if h.Surface.IndexOf("clothes") != -1 {
		t.Fatal("character drew with the head layer missing")
	}
	h.Images.Add("head", 1024, 1024)
	if err := h.RunFrames(1); err != nil {
		t.Fatalf("render: %v", err)
	}
	clothes, head := h.Surface.IndexOf("clothes"), h.Surface.IndexOf("head")
	if clothes < 0 || head != clothes+1 {
		t.Fatalf("expected clothes then head, got %d and %d", clothes, head)
	}
}

func TestEngine_UnknownSpriteFailsTheFrame(t *testing.T) {
	objects := objectsWith(Cell{2, 3}, "rock:0:0")
	h := NewHeadless(grassLevel(objects), WithAllImages())
	shift := h.Engine.Shift()
	pos := h.Engine.CharacterPosition()

	err := h.RunFrames(1)
	if !errors.Is(err, ErrUnknownSprite) {
		t.Fatalf("expected ErrUnknownSprite, got %v", err)
	}
	if !strings.Contains(err.Error(), "objects layer: cell 2:3") {
		t.Fatalf("expected the cell in the error, got %q", err)
	}
	if h.Engine.Shift() != shift || h.Engine.CharacterPosition() != pos {
		t.Fatal("a failed frame changed the viewport or character")
	}
	if n := len(h.Surface.Calls()); n != 0 {
		t.Fatalf("expected nothing drawn on a failed frame, got %d calls", n)
	}
}

func TestEngine_HoverHighlight(t *testing.T) {
	h := NewHeadless(grassLevel(emptyObjects()), WithAllImages())
	h.Engine.PointerMove(Point{X: 400, Y: 300})

	c, ok := h.Engine.Hovered()
	if !ok || c != (Cell{7, 7}) {
		t.Fatalf("expected hover on 7:7, got %v (ok=%v)", c, ok)
	}
	if err := h.RunFrames(1); err != nil {
		t.Fatalf("render: %v", err)
	}
	calls := h.Surface.Filter(DrawBlit, "hover")
	if len(calls) != 1 {
		t.Fatalf("expected one hover blit, got %d", len(calls))
	}
	if want := (Rect{X: 368, Y: 284, W: 64, H: 32}); calls[0].Dst != want {
		t.Fatalf("expected hover at %v, got %v", want, calls[0].Dst)
	}
	hover := calls[0].Seq
	if hover != 225 || h.Surface.IndexOf("hero") <= hover {
		t.Fatalf("expected hover after terrain and before the character:\n%s", h.Surface.Format())
	}

	h.Engine.PointerMove(Point{X: 0, Y: 0})
	if _, ok := h.Engine.Hovered(); ok {
		t.Fatal("expected hover cleared off the map")
	}
}

func TestEngine_HoverFrozenWhileDragging(t *testing.T) {
	h := NewHeadless(grassLevel(emptyObjects()), WithAllImages())
	h.Engine.PointerMove(Point{X: 400, Y: 300})
	h.Engine.PointerDown(Point{X: 400, Y: 300})
	h.Engine.PointerMove(Point{X: 500, Y: 300})
	if c, _ := h.Engine.Hovered(); c != (Cell{7, 7}) {
		t.Fatalf("hover changed mid-drag to %v", c)
	}
	h.Engine.PointerUp(Point{X: 500, Y: 300})
	// The map moved with the pointer, so the same cell is still under it.
	if c, ok := h.Engine.Hovered(); !ok || c != (Cell{7, 7}) {
		t.Fatalf("expected 7:7 under the pointer after the pan, got %v (ok=%v)", c, ok)
	}
}

func TestEngine_DebugOverlays(t *testing.T) {
	h := NewHeadless(grassLevel(emptyObjects()), WithAllImages(),
		WithDebug(DebugOptions{TileGrid: true, ScreenCenter: true}))
	if err := h.RunFrames(1); err != nil {
		t.Fatalf("render: %v", err)
	}
	if n := h.Surface.Count(DrawPolygon, ""); n != 225 {
		t.Fatalf("expected 225 outlines, got %d", n)
	}
	captions := h.Surface.Filter(DrawText, "7:7")
	if len(captions) != 1 {
		t.Fatalf("expected one 7:7 caption, got %d", len(captions))
	}
	// Top vertex (400,284); caption is 18 px wide in the log's 6 px font.
	if got := captions[0].Dst; got.X != 391 || got.Y != 292 {
		t.Fatalf("expected caption at (391,292), got (%v,%v)", got.X, got.Y)
	}
	calls := h.Surface.Calls()
	last := calls[len(calls)-1]
	if last.Kind != DrawRect || last.Dst != (Rect{X: 398, Y: 298, W: 4, H: 4}) {
		t.Fatalf("expected the centre marker last, got %v", last)
	}
	if h.Surface.IndexOf("hero") < h.Surface.Filter(DrawPolygon, "")[224].Seq {
		t.Fatal("expected the grid under the character")
	}

	h.Engine.SetDebug(DebugOptions{})
	if err := h.RunFrames(1); err != nil {
		t.Fatalf("render: %v", err)
	}
	if h.Surface.Count(DrawPolygon, "")+h.Surface.Count(DrawRect, "") != 0 {
		t.Fatal("expected overlays off after SetDebug")
	}
}

func TestEngine_RenderDoesNotMoveCharacter(t *testing.T) {
	h := NewHeadless(grassLevel(emptyObjects()), WithAllImages(), WithSpawn(Cell{0, 0}))
	if !h.Engine.MoveToTile(Cell{7, 7}) {
		t.Fatal("expected 7:7 to be a valid target")
	}
	s := NewDrawLog(800, 600)
	for i := 0; i < 3; i++ {
		if err := h.Engine.Render(s); err != nil {
			t.Fatalf("render: %v", err)
		}
	}
	if h.Engine.CharacterPosition() != (Point{}) {
		t.Fatalf("expected no movement from draws alone, got %v", h.Engine.CharacterPosition())
	}
	if h.Engine.Frame() != 0 {
		t.Fatalf("expected frame 0 before any advance, got %d", h.Engine.Frame())
	}

	h.Engine.Advance()
	if err := h.Engine.Render(s); err != nil {
		t.Fatalf("render: %v", err)
	}
	if h.Engine.CharacterPosition() != (Point{X: 0, Y: 3}) {
		t.Fatalf("expected one step to (0,3), got %v", h.Engine.CharacterPosition())
	}
}

func TestEngine_FrameCounter(t *testing.T) {
	h := NewHeadless(grassLevel(emptyObjects()), WithAllImages())
	if err := h.RunFrames(7); err != nil {
		t.Fatalf("render: %v", err)
	}
	if h.Engine.Frame() != 7 {
		t.Fatalf("expected frame 7, got %d", h.Engine.Frame())
	}
}
