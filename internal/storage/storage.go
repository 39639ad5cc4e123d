// Package storage provides the durable key-value stores behind favourites.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// KV is a durable key-value store.
type KV interface {
	// Load returns the value stored under key. ok is false when the key has
	// never been saved.
	Load(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Save replaces the value stored under key.
	Save(ctx context.Context, key string, value []byte) error
	// Close releases the store.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open returns the store for backend rooted at dir.
func Open(backend, dir string) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendFile:
		store, err := OpenFileStore(dir)
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendSQLite:
		store, err := OpenSQLiteStore(filepath.Join(dir, sqliteFileName))
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// LoadJSON decodes the value under key into a T, returning fallback when the
// key is absent.
func LoadJSON[T any](ctx context.Context, kv KV, key string, fallback T) (T, error) {
	raw, ok, err := kv.Load(ctx, key)
	if err != nil {
		return fallback, err
	}
	if !ok || len(raw) == 0 {
		return fallback, nil
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return fallback, fmt.Errorf("decode %s: %w", key, err)
	}
	return out, nil
}

// SaveJSON encodes value and stores it under key.
func SaveJSON[T any](ctx context.Context, kv KV, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return kv.Save(ctx, key, raw)
}

// MemoryStore keeps values in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (m *MemoryStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryStore) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
