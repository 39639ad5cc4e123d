package storage

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func backends(t *testing.T) map[string]func(t *testing.T, dir string) KV {
	t.Helper()
	return map[string]func(t *testing.T, dir string) KV{
		BackendFile: func(t *testing.T, dir string) KV {
			kv, err := Open(BackendFile, dir)
			if err != nil {
				t.Fatalf("Open(file) returned error: %v", err)
			}
			return kv
		},
		BackendSQLite: func(t *testing.T, dir string) KV {
			kv, err := Open(BackendSQLite, dir)
			if err != nil {
				t.Fatalf("Open(sqlite) returned error: %v", err)
			}
			return kv
		},
	}
}

func TestKV_RoundTripAndReopen(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			dir := filepath.Join(t.TempDir(), "data")

			kv := open(t, dir)
			if _, ok, err := kv.Load(ctx, "missing"); err != nil || ok {
				t.Fatalf("Load(missing) = ok %v err %v, want absent", ok, err)
			}
			if err := kv.Save(ctx, "greeting", []byte("meow")); err != nil {
				t.Fatalf("Save returned error: %v", err)
			}
			if err := kv.Save(ctx, "greeting", []byte("purr")); err != nil {
				t.Fatalf("overwrite Save returned error: %v", err)
			}
			if err := kv.Close(); err != nil {
				t.Fatalf("Close returned error: %v", err)
			}

			kv = open(t, dir)
			t.Cleanup(func() { _ = kv.Close() })
			got, ok, err := kv.Load(ctx, "greeting")
			if err != nil || !ok {
				t.Fatalf("Load after reopen = ok %v err %v", ok, err)
			}
			if string(got) != "purr" {
				t.Fatalf("Load = %q, want purr", got)
			}
		})
	}
}

func TestKV_RejectsEmptyKey(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			kv := open(t, t.TempDir())
			t.Cleanup(func() { _ = kv.Close() })
			if err := kv.Save(context.Background(), "  ", []byte("x")); err == nil {
				t.Fatalf("Save with empty key returned nil error")
			}
		})
	}
}

func TestFileStore_RejectsPathKeys(t *testing.T) {
	store, err := OpenFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
	}
	if err := store.Save(context.Background(), "../escape", []byte("x")); err == nil {
		t.Fatalf("Save(../escape) returned nil error")
	}
}

func TestFileStore_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenFileStore(dir)
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
	}
	if err := store.Save(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "k.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("dir entries = %v, want [k.json]", names)
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open("redis", t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "unknown storage backend") {
		t.Fatalf("Open(redis) error = %v, want unknown backend", err)
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()

	got, err := LoadJSON(ctx, kv, "list", []string{"default"})
	if err != nil {
		t.Fatalf("LoadJSON returned error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"default"}) {
		t.Fatalf("LoadJSON on absent key = %v, want fallback", got)
	}

	if err := SaveJSON(ctx, kv, "list", []string{"a", "b"}); err != nil {
		t.Fatalf("SaveJSON returned error: %v", err)
	}
	got, err = LoadJSON(ctx, kv, "list", []string(nil))
	if err != nil {
		t.Fatalf("LoadJSON returned error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("LoadJSON = %v, want [a b]", got)
	}

	_ = kv.Save(ctx, "broken", []byte("{"))
	if _, err := LoadJSON(ctx, kv, "broken", 0); err == nil {
		t.Fatalf("LoadJSON on corrupt value returned nil error")
	}
}
