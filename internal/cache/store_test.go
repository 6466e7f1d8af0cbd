package cache

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStorePutAndStat(t *testing.T) {
	store, layout := newTestStore(t)

	modTime := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)
	payload := []byte("payload")
	if _, err := store.Put(context.Background(), "frames.zip", bytes.NewReader(payload), PutOptions{ModTime: modTime}); err != nil {
		t.Fatalf("put error: %v", err)
	}

	entry, err := store.Stat(context.Background(), "frames.zip")
	if err != nil {
		t.Fatalf("stat error: %v", err)
	}
	if entry.FilePath != filepath.Join(layout.DownloadDir, "frames.zip") {
		t.Fatalf("unexpected path: %s", entry.FilePath)
	}
	if entry.SizeBytes != int64(len(payload)) {
		t.Fatalf("size mismatch: %d", entry.SizeBytes)
	}
	if !entry.ModTime.Equal(modTime) {
		t.Fatalf("modtime mismatch: expected %v got %v", modTime, entry.ModTime)
	}

	body, err := os.ReadFile(entry.FilePath)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if string(body) != string(payload) {
		t.Fatalf("payload mismatch: %s", string(body))
	}
}

func TestStoreStatMissing(t *testing.T) {
	store, _ := newTestStore(t)
	if _, err := store.Stat(context.Background(), "missing.zip"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStorePutLeavesNoTempFiles(t *testing.T) {
	store, layout := newTestStore(t)
	for _, body := range []string{"first", "second"} {
		if _, err := store.Put(context.Background(), "frames.zip", bytes.NewReader([]byte(body)), PutOptions{}); err != nil {
			t.Fatalf("put error: %v", err)
		}
	}
	entries, err := os.ReadDir(layout.DownloadDir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "frames.zip" {
		t.Fatalf("only the final file should remain, got %v", entries)
	}
	body, err := os.ReadFile(filepath.Join(layout.DownloadDir, "frames.zip"))
	if err != nil || string(body) != "second" {
		t.Fatalf("unexpected content %q err=%v", body, err)
	}
}

func TestStoreIgnoresDirectories(t *testing.T) {
	store, layout := newTestStore(t)
	if err := os.MkdirAll(filepath.Join(layout.DownloadDir, "frames.zip"), 0o755); err != nil {
		t.Fatalf("mkdir error: %v", err)
	}
	if _, err := store.Stat(context.Background(), "frames.zip"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for directory, got %v", err)
	}
}

func TestStorePutFailureLeavesNoFile(t *testing.T) {
	store, layout := newTestStore(t)
	body := io.MultiReader(bytes.NewReader([]byte("partial")), failingReader{})
	if _, err := store.Put(context.Background(), "frames.zip", body, PutOptions{}); err == nil {
		t.Fatalf("expected put to fail")
	}
	entries, err := os.ReadDir(layout.DownloadDir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("failed put should leave nothing behind, found %d entries", len(entries))
	}
}

func TestStorePutHonoursCancellation(t *testing.T) {
	store, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Put(ctx, "frames.zip", bytes.NewReader([]byte("data")), PutOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestStoreRejectsUnsafeNames(t *testing.T) {
	store, _ := newTestStore(t)
	for _, name := range []string{"", ".", "..", "../escape.zip", `dir\file.zip`} {
		if _, err := store.Path(name); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("expected ErrInvalidName for %q, got %v", name, err)
		}
	}
}

func TestLayoutEnsureIsIdempotent(t *testing.T) {
	layout, err := NewLayout(filepath.Join(t.TempDir(), "root"))
	if err != nil {
		t.Fatalf("layout error: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := layout.Ensure(); err != nil {
			t.Fatalf("ensure #%d failed: %v", i, err)
		}
	}
	for _, dir := range []string{layout.Root, layout.DownloadDir, layout.ExtractDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}

func TestLayoutExtracted(t *testing.T) {
	layout, err := NewLayout(t.TempDir())
	if err != nil {
		t.Fatalf("layout error: %v", err)
	}
	done, err := layout.Extracted("frames")
	if err != nil || done {
		t.Fatalf("fresh layout should not be extracted: %v %v", done, err)
	}
	dir, _ := layout.ExtractPath("frames")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir error: %v", err)
	}
	done, err = layout.Extracted("frames")
	if err != nil || !done {
		t.Fatalf("existing extract dir should count as extracted: %v %v", done, err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

// newTestStore returns a Store backed by a temporary data root.
func newTestStore(t *testing.T) (Store, Layout) {
	t.Helper()
	layout, err := NewLayout(t.TempDir())
	if err != nil {
		t.Fatalf("failed to build layout: %v", err)
	}
	store, err := NewStore(layout)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store, layout
}
