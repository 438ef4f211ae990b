// Package repo contains all storage access for the trip planner.
// State lives in a single named slot of a key-value store, the server-side
// counterpart of the browser's localStorage. Each backend has its own file.
// No business logic lives here, only slot I/O and the trip-list codec.
package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkordes/ourtrip/internal/domain"
)

// KV is a string key-value store holding serialized slots.
type KV interface {
	// Get returns the value stored under key.
	// Returns domain.ErrNotFound if the key has never been written.
	Get(ctx context.Context, key string) (string, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key, value string) error
}

// memoryKV is an in-process KV. Contents are lost when the process exits.
type memoryKV struct {
	mu    sync.RWMutex
	slots map[string]string
}

// NewMemoryKV returns an empty in-memory KV, safe for concurrent use.
func NewMemoryKV() KV {
	return &memoryKV{slots: make(map[string]string)}
}

func (m *memoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.slots[key]
	if !ok {
		return "", fmt.Errorf("repo.memoryKV.Get %q: %w", key, domain.ErrNotFound)
	}
	return v, nil
}

func (m *memoryKV) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = value
	return nil
}
