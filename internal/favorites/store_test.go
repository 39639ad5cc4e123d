package favorites

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/cattery/internal/cataas"
	"github.com/five82/cattery/internal/storage"
)

type failingKV struct {
	*storage.MemoryStore
	fail bool
}

func (f *failingKV) Save(ctx context.Context, key string, value []byte) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.MemoryStore.Save(ctx, key, value)
}

func openStore(t *testing.T, kv storage.KV) *Store {
	t.Helper()
	s, err := Open(context.Background(), kv)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	return s
}

func TestAddThenRemoveRestoresList(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, storage.NewMemoryStore())
	if _, err := s.Add(ctx, "abc", nil); err != nil {
		t.Fatalf("Add: %v", err)
	}
	before := s.List()

	fav, err := s.Add(ctx, "def", &Customization{Text: "hi", Query: cataas.QueryParams{Type: cataas.TypeSquare}})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Remove(ctx, fav.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got := s.List(); !reflect.DeepEqual(got, before) {
		t.Fatalf("List after add/remove = %+v, want %+v", got, before)
	}
}

func TestAddProducesDistinctIDs(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, storage.NewMemoryStore())
	a, err := s.Add(ctx, "abc", nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	b, err := s.Add(ctx, "abc", nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("two adds produced the same id %q", a.ID)
	}
	if len(a.ID) != 8 {
		t.Fatalf("id %q, want 8 characters", a.ID)
	}
}

func TestAddRecordsTimestampAndCustomization(t *testing.T) {
	s := openStore(t, storage.NewMemoryStore())
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	custom := &Customization{Text: "meow", Query: cataas.QueryParams{Filter: cataas.FilterMono}}
	fav, err := s.Add(context.Background(), " xyz ", custom)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	custom.Text = "changed"

	if fav.CataasID != "xyz" || !fav.SavedAt.Equal(fixed) {
		t.Fatalf("fav = %+v", fav)
	}
	if fav.Customization == nil || fav.Customization.Text != "meow" {
		t.Fatalf("customization = %+v, want a copy with text meow", fav.Customization)
	}
	req := fav.Request()
	if req.Path.ID != "xyz" || req.Path.Text != "meow" || req.Query.Filter != cataas.FilterMono {
		t.Fatalf("Request = %+v", req)
	}
	if !s.HasCataasID("xyz") || s.HasCataasID("nope") {
		t.Fatalf("HasCataasID mismatch")
	}
	if _, ok := s.Find(fav.ID); !ok {
		t.Fatalf("Find(%q) not found", fav.ID)
	}
}

func TestAddRejectsEmptyID(t *testing.T) {
	s := openStore(t, storage.NewMemoryStore())
	if _, err := s.Add(context.Background(), "  ", nil); err == nil {
		t.Fatalf("Add with empty id returned nil error")
	}
	if s.Len() != 0 {
		t.Fatalf("Len = %d, want 0", s.Len())
	}
}

func TestRemoveUnknownID(t *testing.T) {
	s := openStore(t, storage.NewMemoryStore())
	if err := s.Remove(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Remove(missing) = %v, want ErrNotFound", err)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	s := openStore(t, kv)
	fav, err := s.Add(ctx, "abc", &Customization{Text: "hello"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	reopened := openStore(t, kv)
	got := reopened.List()
	if len(got) != 1 || got[0].ID != fav.ID || got[0].Customization.Text != "hello" {
		t.Fatalf("reopened list = %+v", got)
	}
}

func TestRollbackOnPersistFailure(t *testing.T) {
	ctx := context.Background()
	kv := &failingKV{MemoryStore: storage.NewMemoryStore()}
	s := openStore(t, kv)
	fav, err := s.Add(ctx, "abc", nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	var notified [][]FavoriteCat
	cancel := s.Subscribe(func(list []FavoriteCat) { notified = append(notified, list) })
	defer cancel()

	kv.fail = true
	if _, err := s.Add(ctx, "def", nil); err == nil {
		t.Fatalf("Add with failing storage returned nil error")
	}
	if err := s.Remove(ctx, fav.ID); err == nil {
		t.Fatalf("Remove with failing storage returned nil error")
	}
	if got := s.List(); len(got) != 1 || got[0].ID != fav.ID {
		t.Fatalf("List after failures = %+v, want original", got)
	}
	if last := notified[len(notified)-1]; len(last) != 1 {
		t.Fatalf("last notification = %+v, want rolled-back list", last)
	}
}

func TestOpenRejectsCorruptData(t *testing.T) {
	kv := storage.NewMemoryStore()
	_ = kv.Save(context.Background(), StorageKey, []byte("not json"))
	if _, err := Open(context.Background(), kv); err == nil {
		t.Fatalf("Open with corrupt data returned nil error")
	}
}
