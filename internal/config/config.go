// Package config holds the game's settings and their defaults.
package config

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"

	"github.com/Garsondee/Iso-Map/internal/assets"
	"github.com/Garsondee/Iso-Map/internal/iso"
	"github.com/Garsondee/Iso-Map/internal/level"
)

var ErrInvalid = errors.New("invalid config")

// Config is everything cmd/game can tune.
type Config struct {
	TileWidth    float64
	TileHeight   float64
	CanvasWidth  int
	CanvasHeight int
	Center       iso.Cell // cell centred at startup

	// LevelSource is a level file path or an http(s) URL.
	LevelSource string
	AssetRoot   string

	TerrainSprites iso.SpriteTable
	ObjectSprites  iso.SpriteTable
	HoverImage     string
	Character      iso.CharacterConfig

	Debug     iso.DebugOptions
	LogLevel  string
	LogFormat string
}

// GrasslandSprites is the frame size of every summer grassland sheet.
func GrasslandSprites() iso.SpriteTable {
	return iso.SpriteTable{
		"trees":          {Width: 128, Height: 256},
		"watter":         {Width: 64, Height: 64},
		"rottentower":    {Width: 358, Height: 358},
		"structures":     {Width: 64, Height: 256},
		"grassland":      {Width: 64, Height: 128},
		"tiledGrassland": {Width: 128, Height: 64},
	}
}

// DefaultCharacter is the 128×128 two-layer hero sheet.
func DefaultCharacter() iso.CharacterConfig {
	return iso.CharacterConfig{
		Width:  128,
		Height: 128,
		Layers: []string{assets.KeyCharacterBody, assets.KeyCharacterHead},
		ActionFrames: map[iso.Action][]int{
			iso.ActionBase:   {0, 128, 256, 384},
			iso.ActionRun:    {512, 640, 768, 896, 1024, 1152, 1280, 1408},
			iso.ActionAttack: {1536, 1664, 1792, 1920, 2048},
			iso.ActionLose:   {2432, 2560, 2688, 2816, 2944, 3072},
			iso.ActionWin:    {3200, 3328, 3456, 3584, 3712, 3840, 3968},
		},
		DirectionRows: map[iso.Direction]int{
			iso.DirW:  0,
			iso.DirNW: 128,
			iso.DirN:  256,
			iso.DirNE: 384,
			iso.DirE:  512,
			iso.DirSE: 640,
			iso.DirS:  768,
			iso.DirSW: 896,
		},
		FrameSpeed: map[iso.Action]float64{
			iso.ActionBase:   0.075,
			iso.ActionRun:    0.2,
			iso.ActionAttack: 0.15,
			iso.ActionLose:   0.1,
			iso.ActionWin:    0.1,
		},
		Speed:        3,
		AnchorOffset: 20,
		Spawn:        iso.Cell{Row: 7, Col: 7},
	}
}

// Default returns the stock game: 64×32 tiles on an 800×600 window, centred
// on 7:7, level 1 from ./data.
func Default() Config {
	return Config{
		TileWidth:      64,
		TileHeight:     32,
		CanvasWidth:    800,
		CanvasHeight:   600,
		Center:         iso.Cell{Row: 7, Col: 7},
		LevelSource:    filepath.Join("data", level.FileName(1)),
		AssetRoot:      "assets",
		TerrainSprites: GrasslandSprites(),
		ObjectSprites:  GrasslandSprites(),
		HoverImage:     assets.KeyHover,
		Character:      DefaultCharacter(),
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Validate reports the first setting the engine can't run with.
func (c Config) Validate() error {
	switch {
	case c.TileWidth <= 0 || c.TileHeight <= 0:
		return fmt.Errorf("%w: tile size %vx%v", ErrInvalid, c.TileWidth, c.TileHeight)
	case c.CanvasWidth <= 0 || c.CanvasHeight <= 0:
		return fmt.Errorf("%w: canvas %dx%d", ErrInvalid, c.CanvasWidth, c.CanvasHeight)
	case c.Center.Row < 0 || c.Center.Col < 0:
		return fmt.Errorf("%w: centre cell %s", ErrInvalid, c.Center)
	case c.LevelSource == "":
		return fmt.Errorf("%w: no level source", ErrInvalid)
	}
	if err := validateSheets("terrain", c.TerrainSprites); err != nil {
		return err
	}
	if err := validateSheets("objects", c.ObjectSprites); err != nil {
		return err
	}
	return validateCharacter(c.Character)
}

func validateSheets(layer string, t iso.SpriteTable) error {
	for name, sh := range t {
		if sh.Width <= 0 || sh.Height <= 0 {
			return fmt.Errorf("%w: %s sheet %q is %dx%d", ErrInvalid, layer, name, sh.Width, sh.Height)
		}
	}
	return nil
}

func validateCharacter(ch iso.CharacterConfig) error {
	switch {
	case ch.Width <= 0 || ch.Height <= 0:
		return fmt.Errorf("%w: character frame %dx%d", ErrInvalid, ch.Width, ch.Height)
	case ch.Speed <= 0:
		return fmt.Errorf("%w: character speed %v", ErrInvalid, ch.Speed)
	case len(ch.Layers) == 0:
		return fmt.Errorf("%w: character has no sprite layers", ErrInvalid)
	}
	for _, a := range []iso.Action{iso.ActionBase, iso.ActionRun} {
		if len(ch.ActionFrames[a]) == 0 {
			return fmt.Errorf("%w: no frames for action %s", ErrInvalid, a)
		}
	}
	for a, frames := range ch.ActionFrames {
		if len(frames) == 0 {
			return fmt.Errorf("%w: no frames for action %s", ErrInvalid, a)
		}
	}
	for d := iso.DirE; d <= iso.DirNE; d++ {
		if _, ok := ch.DirectionRows[d]; !ok {
			return fmt.Errorf("%w: no sheet row for direction %s", ErrInvalid, d)
		}
	}
	return nil
}

// Engine converts c into the engine's configuration, with its own copies of
// the sprite tables.
func (c Config) Engine() iso.EngineConfig {
	return iso.EngineConfig{
		Geometry:       iso.NewTileGeometry(c.TileWidth, c.TileHeight),
		Center:         c.Center,
		CanvasWidth:    c.CanvasWidth,
		CanvasHeight:   c.CanvasHeight,
		TerrainSprites: maps.Clone(c.TerrainSprites),
		ObjectSprites:  maps.Clone(c.ObjectSprites),
		Character:      c.Character,
		HoverImage:     c.HoverImage,
		Debug:          c.Debug,
	}
}
