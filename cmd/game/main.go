package main

import (
	"context"
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Iso-Map/internal/assets"
	"github.com/Garsondee/Iso-Map/internal/config"
	"github.com/Garsondee/Iso-Map/internal/game"
	"github.com/Garsondee/Iso-Map/internal/iso"
	"github.com/Garsondee/Iso-Map/internal/level"
	"github.com/Garsondee/Iso-Map/internal/logger"
)

func main() {
	cfg := config.Default()
	flag.IntVar(&cfg.CanvasWidth, "width", cfg.CanvasWidth, "window width")
	flag.IntVar(&cfg.CanvasHeight, "height", cfg.CanvasHeight, "window height")
	flag.StringVar(&cfg.LevelSource, "level", cfg.LevelSource, "level file or http(s) URL")
	flag.StringVar(&cfg.AssetRoot, "assets", cfg.AssetRoot, "asset directory")
	flag.IntVar(&cfg.Center.Row, "center-row", cfg.Center.Row, "row of the cell centred at startup")
	flag.IntVar(&cfg.Center.Col, "center-col", cfg.Center.Col, "col of the cell centred at startup")
	flag.BoolVar(&cfg.Debug.TileGrid, "debug-grid", cfg.Debug.TileGrid, "outline and label every cell")
	flag.BoolVar(&cfg.Debug.ScreenCenter, "debug-center", cfg.Debug.ScreenCenter, "mark the screen centre")
	flag.StringVar(&cfg.LogLevel, "log-level", "", "log level (default $LOG_LEVEL or info)")
	flag.StringVar(&cfg.LogFormat, "log-format", "", "log format: text or json (default $LOG_FORMAT or text)")
	flag.Parse()

	log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("bad configuration")
	}

	images := assets.NewStore()
	levels := &level.Store{}
	engine := iso.NewEngine(cfg.Engine(), levels, images, log)

	loader := &game.Loader{
		Config:   cfg,
		Levels:   levels,
		Images:   images,
		Assets:   &assets.Loader{Root: cfg.AssetRoot, Log: log},
		Manifest: assets.DefaultManifest(),
		Log:      log,
	}

	face, err := game.NewCaptionFace()
	if err != nil {
		log.WithError(err).Warn("debug captions disabled")
	}
	g := game.New(engine, loader, log, face, cfg.CanvasWidth, cfg.CanvasHeight)
	log.AddHook(g.AttachEventLog())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loader.Start(ctx)

	ebiten.SetWindowTitle("Iso Map")
	ebiten.SetWindowSize(cfg.CanvasWidth, cfg.CanvasHeight)
	if err := ebiten.RunGame(g); err != nil {
		log.WithError(err).Fatal("game stopped")
	}
}
