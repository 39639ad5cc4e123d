// Package session ties the cataas fetcher to one observable tracker per
// response format.
package session

import (
	"context"
	"fmt"
	"log"

	"github.com/five82/cattery/internal/cataas"
	"github.com/five82/cattery/internal/preview"
	"github.com/five82/cattery/internal/state"
)

// Session holds the latest result of each kind of fetch. A new fetch of one
// kind supersedes the previous fetch of the same kind only.
type Session struct {
	fetcher    cataas.Fetcher
	previewDir string
	logger     *log.Logger

	Image *state.Tracker[*preview.Handle]
	HTML  *state.Tracker[*cataas.HTMLCard]
	JSON  *state.Tracker[*cataas.Record]
	Tags  *state.Tracker[[]string]
}

// New returns a session fetching through f. Image previews are written under
// previewDir, or the system temp dir when it is empty.
func New(f cataas.Fetcher, previewDir string, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	return &Session{
		fetcher:    f,
		previewDir: previewDir,
		logger:     logger,
		Image:      state.NewTracker[*preview.Handle](),
		HTML:       state.NewTracker[*cataas.HTMLCard](),
		JSON:       state.NewTracker[*cataas.Record](),
		Tags:       state.NewTracker[[]string](),
	}
}

// Fetch dispatches req to the fetch for mode.
func (s *Session) Fetch(ctx context.Context, mode cataas.Mode, req cataas.Request) error {
	switch mode {
	case cataas.ModeHTML:
		return s.FetchHTML(ctx, req)
	case cataas.ModeJSON:
		return s.FetchJSON(ctx, req)
	default:
		return s.FetchImage(ctx, req)
	}
}

// FetchImage downloads an image and exposes it as a preview handle. The
// handle it replaces is released.
func (s *Session) FetchImage(ctx context.Context, req cataas.Request) error {
	reqCtx, ticket := s.Image.Begin(ctx)
	img, err := s.fetcher.Image(reqCtx, req)
	var handle *preview.Handle
	if err == nil {
		handle, err = preview.Open(s.previewDir, img)
	}
	return s.finish("image", s.Image.Resolve(ticket, handle, err), err)
}

// FetchHTML fetches the HTML card for req.
func (s *Session) FetchHTML(ctx context.Context, req cataas.Request) error {
	reqCtx, ticket := s.HTML.Begin(ctx)
	card, err := s.fetcher.HTML(reqCtx, req)
	return s.finish("html", s.HTML.Resolve(ticket, card, err), err)
}

// FetchJSON fetches and validates the metadata record for req.
func (s *Session) FetchJSON(ctx context.Context, req cataas.Request) error {
	reqCtx, ticket := s.JSON.Begin(ctx)
	rec, err := s.fetcher.JSON(reqCtx, req)
	return s.finish("json", s.JSON.Resolve(ticket, rec, err), err)
}

// LoadTags refreshes the tag vocabulary.
func (s *Session) LoadTags(ctx context.Context) error {
	reqCtx, ticket := s.Tags.Begin(ctx)
	tags, err := s.fetcher.Tags(reqCtx)
	return s.finish("tags", s.Tags.Resolve(ticket, tags, err), err)
}

// finish returns ErrSuperseded when a newer fetch of the same kind won.
func (s *Session) finish(kind string, applied bool, err error) error {
	if !applied {
		s.logger.Printf("%s fetch superseded", kind)
		return ErrSuperseded
	}
	if err != nil {
		s.logger.Printf("%s fetch failed: %v", kind, err)
		return fmt.Errorf("%s fetch: %w", kind, err)
	}
	return nil
}

// Subscribe calls fn after any tracker changes.
func (s *Session) Subscribe(fn func()) (cancel func()) {
	cancels := []func(){
		s.Image.Subscribe(func(state.Snapshot[*preview.Handle]) { fn() }),
		s.HTML.Subscribe(func(state.Snapshot[*cataas.HTMLCard]) { fn() }),
		s.JSON.Subscribe(func(state.Snapshot[*cataas.Record]) { fn() }),
		s.Tags.Subscribe(func(state.Snapshot[[]string]) { fn() }),
	}
	return func() {
		for _, c := range cancels {
			c()
		}
	}
}

// Close cancels in-flight fetches and releases the current preview.
func (s *Session) Close() {
	s.Image.Close()
	s.HTML.Close()
	s.JSON.Close()
	s.Tags.Close()
}
