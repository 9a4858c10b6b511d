// Package assets loads the sprite sheets into an image store the engine
// reads from.
package assets

import (
	"context"
	"errors"
	"fmt"
	_ "image/png"
	"path/filepath"
	"sort"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Garsondee/Iso-Map/internal/iso"
)

// Image keys the engine looks up besides sprite sheet names.
const (
	KeyHover         = "hover"
	KeyCharacterBody = "character/clothes"
	KeyCharacterHead = "character/head"
)

const defaultLoadLimit = 4

// Manifest maps image keys to file paths relative to the asset root.
type Manifest map[string]string

// DefaultManifest is the summer grassland set, the hover highlight and the
// two-layer character.
func DefaultManifest() Manifest {
	return Manifest{
		"structures":     "grassland/summer/structures.png",
		"trees":          "grassland/summer/trees.png",
		"watter":         "grassland/summer/water.png",
		"grassland":      "grassland/summer/grassland.png",
		"rottentower":    "grassland/summer/rottentower.png",
		"tiledGrassland": "grassland/summer/tiled_grassland_2x2.png",
		KeyHover:         "images/select-tile.png",
		KeyCharacterBody: "character/clothes.png",
		KeyCharacterHead: "character/head.png",
	}
}

// Keys returns the manifest keys in sorted order.
func (m Manifest) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Store is a concurrency-safe iso.ImageProvider. Loading goroutines Put while
// the game loop reads.
type Store struct {
	mu     sync.RWMutex
	images map[string]iso.Image
}

func NewStore() *Store {
	return &Store{images: make(map[string]iso.Image)}
}

// Put stores img under key, replacing any previous image.
func (s *Store) Put(key string, img iso.Image) {
	s.mu.Lock()
	s.images[key] = img
	s.mu.Unlock()
}

func (s *Store) Image(key string) (iso.Image, bool) {
	s.mu.RLock()
	img, ok := s.images[key]
	s.mu.RUnlock()
	return img, ok
}

// Len returns the number of loaded images.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.images)
}

// Decoder opens one image file.
type Decoder func(path string) (iso.Image, error)

// FileDecoder decodes an image file into an *ebiten.Image.
func FileDecoder(path string) (iso.Image, error) {
	img, _, err := ebitenutil.NewImageFromFile(path)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Loader decodes a manifest into a Store.
type Loader struct {
	Root   string
	Decode Decoder
	Limit  int // concurrent decodes; 0 means defaultLoadLimit
	Log    logrus.FieldLogger
}

// Load decodes every manifest entry into store. Images that fail are logged
// and left out; the engine skips draws for missing images. The returned error
// joins every failure, or is the context error if ctx ended first.
func (l *Loader) Load(ctx context.Context, store *Store, m Manifest) error {
	decode := l.Decode
	if decode == nil {
		decode = FileDecoder
	}
	limit := l.Limit
	if limit <= 0 {
		limit = defaultLoadLimit
	}

	var (
		mu       sync.Mutex
		failures []error
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, key := range m.Keys() {
		path := filepath.Join(l.Root, m[key])
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := decode(path)
			if err != nil {
				l.Log.WithError(err).WithField("key", key).Warn("image failed to load")
				mu.Lock()
				failures = append(failures, fmt.Errorf("asset %q: %w", key, err))
				mu.Unlock()
				return nil
			}
			store.Put(key, img)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	l.Log.WithFields(logrus.Fields{
		"loaded": store.Len(),
		"failed": len(failures),
	}).Info("assets loaded")
	return errors.Join(failures...)
}
