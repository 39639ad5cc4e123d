// Package favorites keeps the user's saved cats and persists them to a
// storage.KV under a fixed key.
package favorites

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/five82/cattery/internal/cataas"
	"github.com/five82/cattery/internal/state"
	"github.com/five82/cattery/internal/storage"
)

// StorageKey is the key the list is persisted under.
const StorageKey = "cataas-favorites"

// ErrNotFound is returned by Remove for an unknown id.
var ErrNotFound = errors.New("favorite not found")

// Customization is the caption and query a favourite was saved with.
type Customization struct {
	Text  string             `json:"text,omitempty"`
	Query cataas.QueryParams `json:"query"`
}

// FavoriteCat is a saved reference to a remote image.
type FavoriteCat struct {
	ID            string         `json:"id"`
	CataasID      string         `json:"cataasId"`
	SavedAt       time.Time      `json:"savedAt"`
	Customization *Customization `json:"customization,omitempty"`
}

// Request rebuilds the cataas request that shows this favourite.
func (f FavoriteCat) Request() cataas.Request {
	req := cataas.Request{Path: cataas.PathParams{ID: f.CataasID}}
	if f.Customization != nil {
		req.Path.Text = f.Customization.Text
		req.Query = f.Customization.Query
	}
	return req
}

// Store is the observable favourites list.
type Store struct {
	kv   storage.KV
	list *state.Cell[[]FavoriteCat]

	// serializes mutations so a rollback never clobbers a newer write
	mu sync.Mutex

	now   func() time.Time
	newID func() string
}

// Open loads the persisted list from kv.
func Open(ctx context.Context, kv storage.KV) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("favorites: storage is required")
	}
	list, err := storage.LoadJSON(ctx, kv, StorageKey, []FavoriteCat(nil))
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	return &Store{
		kv:    kv,
		list:  state.NewCell(list),
		now:   time.Now,
		newID: shortID,
	}, nil
}

func shortID() string {
	return uuid.New().String()[:8]
}

// List returns a copy of the current favourites, oldest first.
func (s *Store) List() []FavoriteCat {
	return slices.Clone(s.list.Get())
}

// Len reports the number of favourites.
func (s *Store) Len() int {
	return len(s.list.Get())
}

// Find returns the favourite with the given local id.
func (s *Store) Find(id string) (FavoriteCat, bool) {
	for _, f := range s.list.Get() {
		if f.ID == id {
			return f, true
		}
	}
	return FavoriteCat{}, false
}

// HasCataasID reports whether any favourite points at the remote id.
func (s *Store) HasCataasID(cataasID string) bool {
	for _, f := range s.list.Get() {
		if f.CataasID == cataasID {
			return true
		}
	}
	return false
}

// Subscribe calls fn with a copy of the list after every change.
func (s *Store) Subscribe(fn func([]FavoriteCat)) (cancel func()) {
	return s.list.Subscribe(func(list []FavoriteCat) {
		fn(slices.Clone(list))
	})
}

// Add saves a new favourite for cataasID and returns it.
func (s *Store) Add(ctx context.Context, cataasID string, custom *Customization) (FavoriteCat, error) {
	cataasID = strings.TrimSpace(cataasID)
	if cataasID == "" {
		return FavoriteCat{}, fmt.Errorf("favorites: cataas id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fav := FavoriteCat{
		ID:       s.uniqueID(),
		CataasID: cataasID,
		SavedAt:  s.now().UTC(),
	}
	if custom != nil {
		c := *custom
		fav.Customization = &c
	}

	prev := s.list.Get()
	next := append(slices.Clone(prev), fav)
	if err := s.commit(ctx, prev, next); err != nil {
		return FavoriteCat{}, err
	}
	return fav, nil
}

// Remove deletes the favourite with the given local id.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.list.Get()
	next := slices.DeleteFunc(slices.Clone(prev), func(f FavoriteCat) bool {
		return f.ID == id
	})
	if len(next) == len(prev) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.commit(ctx, prev, next)
}

// commit publishes next and persists it, restoring prev if the write fails.
func (s *Store) commit(ctx context.Context, prev, next []FavoriteCat) error {
	s.list.Set(next)
	if err := storage.SaveJSON(ctx, s.kv, StorageKey, next); err != nil {
		s.list.Set(prev)
		return fmt.Errorf("save favorites: %w", err)
	}
	return nil
}

func (s *Store) uniqueID() string {
	for {
		id := s.newID()
		if _, taken := s.Find(id); !taken {
			return id
		}
	}
}
