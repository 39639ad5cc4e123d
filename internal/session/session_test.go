package session

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"runtime"
	"sync"
	"testing"

	"github.com/five82/cattery/internal/cataas"
	"github.com/five82/cattery/internal/state"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type fakeFetcher struct {
	mu      sync.Mutex
	gate    map[string]chan struct{}
	imgErr  error
	jsonErr error
	calls   []string
}

func (f *fakeFetcher) wait(ctx context.Context, id string) error {
	f.mu.Lock()
	f.calls = append(f.calls, id)
	ch := f.gate[id]
	f.mu.Unlock()
	if ch == nil {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeFetcher) Image(ctx context.Context, req cataas.Request) (*cataas.Image, error) {
	if err := f.wait(ctx, req.Path.ID); err != nil {
		return nil, err
	}
	if f.imgErr != nil {
		return nil, f.imgErr
	}
	return &cataas.Image{URL: "https://cataas.com/cat/" + req.Path.ID, ContentType: "image/png", Extension: ".png", Data: pngHeader}, nil
}

func (f *fakeFetcher) HTML(ctx context.Context, req cataas.Request) (*cataas.HTMLCard, error) {
	if err := f.wait(ctx, req.Path.ID); err != nil {
		return nil, err
	}
	return &cataas.HTMLCard{CataasID: req.Path.ID}, nil
}

func (f *fakeFetcher) JSON(ctx context.Context, req cataas.Request) (*cataas.Record, error) {
	if err := f.wait(ctx, req.Path.ID); err != nil {
		return nil, err
	}
	if f.jsonErr != nil {
		return nil, f.jsonErr
	}
	return &cataas.Record{ID: req.Path.ID, Mimetype: "image/png"}, nil
}

func (f *fakeFetcher) Tags(context.Context) ([]string, error) {
	return []string{"cute", "orange"}, nil
}

func newSession(t *testing.T, f cataas.Fetcher) *Session {
	t.Helper()
	s := New(f, t.TempDir(), log.New(io.Discard, "", 0))
	t.Cleanup(s.Close)
	return s
}

func idReq(id string) cataas.Request {
	return cataas.Request{Path: cataas.PathParams{ID: id}}
}

func TestFetchImage_ReleasesSupersededPreview(t *testing.T) {
	s := newSession(t, &fakeFetcher{})
	ctx := context.Background()

	if err := s.FetchImage(ctx, idReq("one")); err != nil {
		t.Fatalf("FetchImage: %v", err)
	}
	first := s.Image.Snapshot().Value
	firstPath := first.Path()

	if err := s.FetchImage(ctx, idReq("two")); err != nil {
		t.Fatalf("FetchImage: %v", err)
	}
	if !first.Released() {
		t.Fatalf("first preview was not released")
	}
	if _, err := os.Stat(firstPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("first preview file still present: %v", err)
	}
	snap := s.Image.Snapshot()
	if snap.Status != state.StatusSuccess || snap.Value.Image().URL != "https://cataas.com/cat/two" {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestFetchJSON_StaleResultDiscarded(t *testing.T) {
	gate := make(chan struct{})
	f := &fakeFetcher{gate: map[string]chan struct{}{"slow": gate}}
	s := newSession(t, f)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- s.FetchJSON(ctx, idReq("slow")) }()

	// wait until the slow fetch is registered before superseding it
	for {
		f.mu.Lock()
		n := len(f.calls)
		f.mu.Unlock()
		if n == 1 {
			break
		}
		runtime.Gosched()
	}

	if err := s.FetchJSON(ctx, idReq("fast")); err != nil {
		t.Fatalf("FetchJSON(fast): %v", err)
	}
	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("slow fetch returned %v, want ErrSuperseded", err)
	}
	if got := s.JSON.Snapshot().Value.ID; got != "fast" {
		t.Fatalf("record id = %q, want fast", got)
	}
}

func TestFetch_ErrorIsPublished(t *testing.T) {
	schemaErr := &cataas.SchemaError{Payload: []byte("{}"), Err: errors.New("_id is required")}
	s := newSession(t, &fakeFetcher{jsonErr: schemaErr})

	err := s.Fetch(context.Background(), cataas.ModeJSON, idReq("x"))
	if !errors.Is(err, cataas.ErrSchema) {
		t.Fatalf("Fetch error = %v, want schema error", err)
	}
	snap := s.JSON.Snapshot()
	if snap.Status != state.StatusError || !errors.Is(snap.Err, cataas.ErrSchema) {
		t.Fatalf("snapshot = %+v, want schema error", snap)
	}
}

func TestFetch_DispatchesByMode(t *testing.T) {
	s := newSession(t, &fakeFetcher{})
	ctx := context.Background()

	if err := s.Fetch(ctx, cataas.ModeHTML, idReq("h")); err != nil {
		t.Fatalf("Fetch(html): %v", err)
	}
	if s.HTML.Snapshot().Value.CataasID != "h" {
		t.Fatalf("html snapshot = %+v", s.HTML.Snapshot())
	}
	if s.Image.Snapshot().Status != state.StatusIdle || s.JSON.Snapshot().Status != state.StatusIdle {
		t.Fatalf("other trackers changed on html fetch")
	}
}

func TestSubscribeAndClose(t *testing.T) {
	s := newSession(t, &fakeFetcher{})
	var mu sync.Mutex
	calls := 0
	cancel := s.Subscribe(func() {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	if err := s.LoadTags(context.Background()); err != nil {
		t.Fatalf("LoadTags: %v", err)
	}
	if tags := s.Tags.Snapshot().Value; len(tags) != 2 {
		t.Fatalf("tags = %v", tags)
	}
	mu.Lock()
	got := calls
	mu.Unlock()
	cancel()
	if got != 2 {
		t.Fatalf("calls = %d, want 2 (loading, success)", got)
	}

	if err := s.FetchImage(context.Background(), idReq("c")); err != nil {
		t.Fatalf("FetchImage: %v", err)
	}
	handle := s.Image.Snapshot().Value
	s.Close()
	if !handle.Released() {
		t.Fatalf("Close did not release the preview")
	}
	mu.Lock()
	defer mu.Unlock()
	if calls != 2 {
		t.Fatalf("cancelled subscriber was called again: %d", calls)
	}
}
