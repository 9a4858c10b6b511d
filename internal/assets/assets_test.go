package assets

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/Garsondee/Iso-Map/internal/iso"
)

type fakeImage struct{ path string }

func (fakeImage) Bounds() image.Rectangle { return image.Rect(0, 0, 64, 32) }

type fakeDecoder struct {
	mu    sync.Mutex
	seen  []string
	fails map[string]bool
}

func (d *fakeDecoder) decode(path string) (iso.Image, error) {
	d.mu.Lock()
	d.seen = append(d.seen, path)
	d.mu.Unlock()
	if d.fails[filepath.Base(path)] {
		return nil, errors.New("corrupt png")
	}
	return fakeImage{path: path}, nil
}

func TestLoader_LoadsEveryEntry(t *testing.T) {
	logger, hook := test.NewNullLogger()
	dec := &fakeDecoder{}
	store := NewStore()
	l := &Loader{Root: "/assets", Decode: dec.decode, Log: logger}

	if err := l.Load(context.Background(), store, DefaultManifest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Len() != len(DefaultManifest()) {
		t.Fatalf("expected %d images, got %d", len(DefaultManifest()), store.Len())
	}
	img, ok := store.Image("trees")
	if !ok {
		t.Fatal("expected trees to be loaded")
	}
	if got := img.(fakeImage).path; got != filepath.Join("/assets", "grassland/summer/trees.png") {
		t.Fatalf("unexpected path %q", got)
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Message != "assets loaded" || entry.Data["failed"] != 0 {
		t.Fatalf("expected a summary entry, got %+v", entry)
	}
}

func TestLoader_FailuresAreSkipped(t *testing.T) {
	logger, hook := test.NewNullLogger()
	dec := &fakeDecoder{fails: map[string]bool{"head.png": true, "water.png": true}}
	store := NewStore()
	l := &Loader{Decode: dec.decode, Log: logger, Limit: 1}

	err := l.Load(context.Background(), store, DefaultManifest())
	if err == nil {
		t.Fatal("expected the failures to be reported")
	}
	for _, key := range []string{KeyCharacterHead, "watter"} {
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("expected %q in %q", key, err)
		}
		if _, ok := store.Image(key); ok {
			t.Fatalf("failed image %q should not be stored", key)
		}
	}
	if store.Len() != len(DefaultManifest())-2 {
		t.Fatalf("expected the rest loaded, got %d", store.Len())
	}
	warnings := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warnings++
		}
	}
	if warnings != 2 {
		t.Fatalf("expected 2 warnings, got %d", warnings)
	}
}

func TestLoader_CancelledContext(t *testing.T) {
	logger, _ := test.NewNullLogger()
	dec := &fakeDecoder{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := (&Loader{Decode: dec.decode, Log: logger}).Load(ctx, NewStore(), DefaultManifest())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(dec.seen) != 0 {
		t.Fatalf("expected no decodes after cancel, got %v", dec.seen)
	}
}

func TestManifest_KeysSorted(t *testing.T) {
	keys := Manifest{"b": "b.png", "a": "a.png", "c": "c.png"}.Keys()
	if strings.Join(keys, ",") != "a,b,c" {
		t.Fatalf("expected a,b,c, got %v", keys)
	}
}

func TestDefaultManifest_DecodesEachFileOnce(t *testing.T) {
	seen := map[string]string{}
	for _, key := range DefaultManifest().Keys() {
		path := DefaultManifest()[key]
		if prev, ok := seen[path]; ok {
			t.Fatalf("%s is loaded twice, as %q and %q", path, prev, key)
		}
		seen[path] = key
	}
}

func TestStore_IsAnImageProvider(t *testing.T) {
	var p iso.ImageProvider = NewStore()
	if _, ok := p.Image("missing"); ok {
		t.Fatal("expected a miss on an empty store")
	}
}
