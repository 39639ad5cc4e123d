package preview

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/cattery/internal/cataas"
)

var gifHeader = []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")

func TestOpen_WritesFileWithDetectedExtension(t *testing.T) {
	dir := t.TempDir()
	h, err := Open(dir, &cataas.Image{Data: gifHeader})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = h.Release() })

	if filepath.Dir(h.Path()) != dir {
		t.Fatalf("Path = %q, want it under %q", h.Path(), dir)
	}
	if filepath.Ext(h.Path()) != ".gif" {
		t.Fatalf("Path = %q, want .gif extension", h.Path())
	}
	data, err := os.ReadFile(h.Path())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(data, gifHeader) || !bytes.Equal(h.Bytes(), gifHeader) {
		t.Fatalf("preview bytes mismatch")
	}
	if !strings.HasPrefix(h.URL(), "file://") {
		t.Fatalf("URL = %q, want file:// URL", h.URL())
	}
}

func TestRelease_RemovesFileAndIsIdempotent(t *testing.T) {
	h, err := Open(t.TempDir(), &cataas.Image{Data: gifHeader, Extension: ".gif"})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	path := h.Path()

	if err := h.Release(); err != nil {
		t.Fatalf("Release returned error: %v", err)
	}
	if err := h.Release(); err != nil {
		t.Fatalf("second Release returned error: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Stat after Release = %v, want not exist", err)
	}
	if h.Path() != "" || h.URL() != "" || !h.Released() {
		t.Fatalf("released handle still exposes path %q", h.Path())
	}
}

func TestNilHandleIsSafe(t *testing.T) {
	var h *Handle
	if err := h.Release(); err != nil {
		t.Fatalf("nil Release returned error: %v", err)
	}
	if h.Path() != "" || h.Bytes() != nil || h.Image() != nil {
		t.Fatalf("nil handle returned data")
	}
}

func TestOpen_NilImage(t *testing.T) {
	if _, err := Open(t.TempDir(), nil); err == nil {
		t.Fatalf("Open(nil) returned nil error")
	}
}

func TestSweep_RemovesOnlyOldPreviews(t *testing.T) {
	dir := t.TempDir()
	old, err := Open(dir, &cataas.Image{Data: gifHeader})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	fresh, err := Open(dir, &cataas.Image{Data: gifHeader})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = fresh.Release() })

	stale := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(old.Path(), stale, stale); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}
	other := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(other, []byte("keep"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.Chtimes(other, stale, stale); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	removed, err := Sweep(dir, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, err := os.Stat(old.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("old preview still present: %v", err)
	}
	for _, path := range []string{fresh.Path(), other} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("%s removed: %v", path, err)
		}
	}
}

func TestSweep_MissingDir(t *testing.T) {
	removed, err := Sweep(filepath.Join(t.TempDir(), "absent"), time.Now())
	if err != nil || removed != 0 {
		t.Fatalf("Sweep = %d, %v; want 0, nil", removed, err)
	}
}
