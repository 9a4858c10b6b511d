package config

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Garsondee/Iso-Map/internal/assets"
	"github.com/Garsondee/Iso-Map/internal/iso"
	"github.com/Garsondee/Iso-Map/internal/level"
)

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("expected the default config to be valid, got %v", err)
	}
}

func TestDefault_EngineStartsCentred(t *testing.T) {
	cfg := Default().Engine()
	v := iso.NewViewport(cfg.Geometry, cfg.Center, cfg.CanvasWidth, cfg.CanvasHeight)
	if v.Shift() != (iso.Point{X: 400, Y: 60}) {
		t.Fatalf("expected shift (400,60), got %v", v.Shift())
	}
	if cfg.Geometry.HalfWidth != 32 || cfg.Geometry.HalfHeight != 16 {
		t.Fatalf("unexpected half sizes %v", cfg.Geometry)
	}
}

func TestEngine_CopiesSpriteTables(t *testing.T) {
	c := Default()
	e := c.Engine()
	e.TerrainSprites["lava"] = iso.SpriteSheet{Width: 1, Height: 1}
	if _, ok := c.TerrainSprites["lava"]; ok {
		t.Fatal("engine config shares its sprite table with the config")
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero tile width", func(c *Config) { c.TileWidth = 0 }},
		{"negative canvas", func(c *Config) { c.CanvasHeight = -1 }},
		{"negative centre", func(c *Config) { c.Center = iso.Cell{Row: -1} }},
		{"no level", func(c *Config) { c.LevelSource = "" }},
		{"empty sheet", func(c *Config) { c.ObjectSprites["trees"] = iso.SpriteSheet{} }},
		{"zero speed", func(c *Config) { c.Character.Speed = 0 }},
		{"no layers", func(c *Config) { c.Character.Layers = nil }},
		{"no run frames", func(c *Config) { delete(c.Character.ActionFrames, iso.ActionRun) }},
		{"empty win frames", func(c *Config) { c.Character.ActionFrames[iso.ActionWin] = nil }},
		{"missing direction", func(c *Config) { delete(c.Character.DirectionRows, iso.DirSW) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			if err := c.Validate(); !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestGrasslandSprites_TreesFrame(t *testing.T) {
	sp, err := GrasslandSprites().Resolve("trees:1:2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sp.Src.Min.X != 256 || sp.Src.Min.Y != 256 || sp.Width() != 128 || sp.Height() != 256 {
		t.Fatalf("unexpected source %v", sp.Src)
	}
}

func TestShippedLevelMatchesDefaultSprites(t *testing.T) {
	c := Default()
	lv, err := level.Load(context.Background(), filepath.Join("..", "..", c.LevelSource), nil)
	if err != nil {
		t.Fatalf("load shipped level: %v", err)
	}
	if err := lv.Validate(c.TerrainSprites, c.ObjectSprites); err != nil {
		t.Fatalf("shipped level does not validate: %v", err)
	}
	if !lv.Bounds().Contains(c.Center) || !lv.Bounds().Contains(c.Character.Spawn) {
		t.Fatalf("centre %v or spawn %v outside %v", c.Center, c.Character.Spawn, lv.Bounds())
	}
}

func TestDefault_EveryManifestImageIsDrawn(t *testing.T) {
	cfg := Default()
	used := map[string]bool{cfg.HoverImage: true}
	for name := range cfg.TerrainSprites {
		used[name] = true
	}
	for name := range cfg.ObjectSprites {
		used[name] = true
	}
	for _, layer := range cfg.Character.Layers {
		used[layer] = true
	}
	m := assets.DefaultManifest()
	for _, key := range m.Keys() {
		if !used[key] {
			t.Fatalf("manifest image %q is loaded but never drawn", key)
		}
	}
	for key := range used {
		if _, ok := m[key]; !ok {
			t.Fatalf("image %q is drawn but missing from the manifest", key)
		}
	}
}
