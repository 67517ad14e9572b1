// Package storage persists the ledger in a durable key-value substrate and
// hydrates it back at startup. Two independent entries are kept: the
// transaction list and the initial-balance scalar.
package storage

import (
	"context"
	"sync"
)

// KV is the durable key-value substrate the persistence adapter writes to.
// SetAll applies all entries atomically: either every entry is replaced or
// the prior values remain untouched.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	SetAll(ctx context.Context, entries map[string]string) error
	Close() error
}

// MemoryKV is an in-memory implementation of KV. It is safe for concurrent
// use; data is lost on restart, so it serves tests and the "memory" backend.
type MemoryKV struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryKV creates an empty in-memory key-value store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		entries: make(map[string]string),
	}
}

// Get implements the KV interface.
func (m *MemoryKV) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.entries[key]
	return v, ok, nil
}

// SetAll implements the KV interface. All entries are stored under a single
// lock acquisition, so readers never observe a partial write.
func (m *MemoryKV) SetAll(ctx context.Context, entries map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k, v := range entries {
		m.entries[k] = v
	}
	return nil
}

// Close implements the KV interface.
func (m *MemoryKV) Close() error {
	return nil
}

// Ensure MemoryKV implements the KV interface.
var _ KV = (*MemoryKV)(nil)
