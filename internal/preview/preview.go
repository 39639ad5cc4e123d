// Package preview turns fetched image bytes into a displayable file handle.
// A Handle owns a temporary file and must be released once it is superseded
// or its view is torn down.
package preview

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/five82/cattery/internal/cataas"
)

// Handle is a displayable view of an image backed by a temporary file.
type Handle struct {
	image *cataas.Image
	path  string

	mu       sync.Mutex
	released bool
}

// Open writes img to a new temporary file under dir. An empty dir uses the
// system temporary directory.
func Open(dir string, img *cataas.Image) (*Handle, error) {
	if img == nil {
		return nil, errors.New("preview: image is nil")
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create preview dir: %w", err)
		}
	}

	ext := img.Extension
	if ext == "" {
		ext = mimetype.Detect(img.Data).Extension()
	}
	file, err := os.CreateTemp(dir, "cat-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("create preview file: %w", err)
	}
	if _, err := file.Write(img.Data); err != nil {
		_ = file.Close()
		_ = os.Remove(file.Name())
		return nil, fmt.Errorf("write preview file: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(file.Name())
		return nil, fmt.Errorf("close preview file: %w", err)
	}
	return &Handle{image: img, path: file.Name()}, nil
}

// Image returns the underlying payload.
func (h *Handle) Image() *cataas.Image {
	if h == nil {
		return nil
	}
	return h.image
}

// Bytes returns the raw image bytes.
func (h *Handle) Bytes() []byte {
	if h == nil || h.image == nil {
		return nil
	}
	return h.image.Data
}

// Path returns the file path, or "" once released.
func (h *Handle) Path() string {
	if h == nil {
		return ""
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return ""
	}
	return h.path
}

// URL returns a file:// URL for the preview, or "" once released.
func (h *Handle) URL() string {
	path := h.Path()
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}

// Released reports whether Release has been called.
func (h *Handle) Released() bool {
	if h == nil {
		return true
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

// Release removes the backing file. It is safe to call more than once.
func (h *Handle) Release() error {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return nil
	}
	h.released = true
	if err := os.Remove(h.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove preview file: %w", err)
	}
	return nil
}

// Sweep removes preview files in dir last modified before cutoff. Files left
// by a previous run that exited without releasing its handles are the usual
// target. A missing dir is not an error.
func Sweep(dir string, cutoff time.Time) (int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "cat-*"))
	if err != nil {
		return 0, fmt.Errorf("list previews: %w", err)
	}
	removed := 0
	var errs []error
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
