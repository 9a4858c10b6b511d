// Package level loads the terrain and object matrices of a level and serves
// them over HTTP.
package level

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/Garsondee/Iso-Map/internal/iso"
)

var (
	ErrEmptyLevel        = errors.New("level has no terrain")
	ErrDimensionMismatch = errors.New("level matrices differ in shape")
	ErrFetch             = errors.New("level fetch failed")
)

// Level is the on-disk level layout. Empty cells are null in JSON and the
// empty string here.
type Level struct {
	Terrain iso.Matrix `json:"terrainMatrix"`
	Objects iso.Matrix `json:"objectsMatrix"`
}

// Decode reads one level document.
func Decode(r io.Reader) (*Level, error) {
	var l Level
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return nil, fmt.Errorf("decode level: %w", err)
	}
	return &l, nil
}

// Bounds returns the terrain dimensions.
func (l *Level) Bounds() iso.Bounds { return l.Terrain.Bounds() }

// Validate checks that the terrain is rectangular, that the objects matrix is
// absent or the same shape, and that every reference resolves.
func (l *Level) Validate(terrain, objects iso.SpriteTable) error {
	b := l.Terrain.Bounds()
	if b.Rows == 0 || b.Cols == 0 {
		return ErrEmptyLevel
	}
	if err := rectangular("terrain", l.Terrain, b); err != nil {
		return err
	}
	if len(l.Objects) > 0 {
		if err := rectangular("objects", l.Objects, b); err != nil {
			return err
		}
	}
	if err := terrain.Validate(l.Terrain); err != nil {
		return fmt.Errorf("terrain: %w", err)
	}
	if err := objects.Validate(l.Objects); err != nil {
		return fmt.Errorf("objects: %w", err)
	}
	return nil
}

func rectangular(name string, m iso.Matrix, b iso.Bounds) error {
	if len(m) != b.Rows {
		return fmt.Errorf("%s: %d rows, want %d: %w", name, len(m), b.Rows, ErrDimensionMismatch)
	}
	for r, row := range m {
		if len(row) != b.Cols {
			return fmt.Errorf("%s row %d: %d cols, want %d: %w", name, r, len(row), b.Cols, ErrDimensionMismatch)
		}
	}
	return nil
}

// Load reads a level from a file path or an http(s) URL.
func Load(ctx context.Context, src string, client *http.Client) (*Level, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return fetch(ctx, src, client)
	}
	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("open level: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

func fetch(ctx context.Context, url string, client *http.Client) (*Level, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch level: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch level: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: %s", ErrFetch, url, resp.Status)
	}
	return Decode(resp.Body)
}

// Store holds the current level for the engine. It is empty until Set; the
// engine treats empty matrices as not loaded yet.
type Store struct {
	mu    sync.RWMutex
	level *Level
}

// Set publishes l. The matrices must not be modified afterwards.
func (s *Store) Set(l *Level) {
	s.mu.Lock()
	s.level = l
	s.mu.Unlock()
}

// Loaded reports whether a level has been set.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.level != nil
}

func (s *Store) TerrainMatrix() iso.Matrix {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.level == nil {
		return nil
	}
	return s.level.Terrain
}

func (s *Store) ObjectsMatrix() iso.Matrix {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.level == nil {
		return nil
	}
	return s.level.Objects
}
