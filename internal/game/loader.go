package game

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Garsondee/Iso-Map/internal/assets"
	"github.com/Garsondee/Iso-Map/internal/config"
	"github.com/Garsondee/Iso-Map/internal/level"
)

// Loader fetches the level and decodes the images in parallel while the game
// loop runs. The engine draws whatever has arrived.
type Loader struct {
	Config   config.Config
	Levels   *level.Store
	Images   *assets.Store
	Assets   *assets.Loader
	Manifest assets.Manifest
	Client   *http.Client
	Log      logrus.FieldLogger

	mu     sync.Mutex
	stage  string
	err    error
	ready  bool
	images error
}

// Start runs the loader in the background.
func (l *Loader) Start(ctx context.Context) {
	l.setStage("loading")
	go func() { _ = l.Run(ctx) }()
}

// Run loads everything and blocks until done. Only a level failure is an
// error; images that fail are logged and left undrawn.
func (l *Loader) Run(ctx context.Context) error {
	l.setStage("loading")
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := l.Assets.Load(ctx, l.Images, l.Manifest)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		l.mu.Lock()
		l.images = err
		l.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		return l.loadLevel(ctx)
	})
	err := g.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.err = err
		l.stage = "failed: " + err.Error()
		l.Log.WithError(err).Error("loading failed")
		return err
	}
	l.ready = true
	l.stage = "ready"
	if n := countErrors(l.images); n > 0 {
		l.stage = fmt.Sprintf("ready, %d images failed", n)
	}
	return nil
}

// countErrors counts the failures inside a joined error.
func countErrors(err error) int {
	if err == nil {
		return 0
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return len(j.Unwrap())
	}
	return 1
}

func (l *Loader) loadLevel(ctx context.Context) error {
	src := l.Config.LevelSource
	lv, err := level.Load(ctx, src, l.Client)
	if err != nil {
		return err
	}
	if err := lv.Validate(l.Config.TerrainSprites, l.Config.ObjectSprites); err != nil {
		return fmt.Errorf("level %s: %w", src, err)
	}
	l.Levels.Set(lv)
	b := lv.Bounds()
	l.Log.WithFields(logrus.Fields{
		"source": src,
		"rows":   b.Rows,
		"cols":   b.Cols,
	}).Info("level loaded")
	return nil
}

func (l *Loader) setStage(s string) {
	l.mu.Lock()
	l.stage = s
	l.mu.Unlock()
}

// Status is a one-line description for the status bar.
func (l *Loader) Status() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stage
}

// Err returns the load error, if loading failed.
func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Ready reports whether loading finished successfully.
func (l *Loader) Ready() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ready
}

// ImageErr returns the joined image failures of a finished load.
func (l *Loader) ImageErr() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.images
}
