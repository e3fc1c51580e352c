// memory.go provides the in-process Store backend. It is the default
// when no Valkey instance is configured, and the fallback when the
// configured one is unreachable at startup.
package cache

import (
	"context"
	"sync"
	"time"
)

// memoryEntry is one stored value with its absolute expiry. A zero
// expiry never expires.
type memoryEntry struct {
	data    []byte
	expires time.Time
}

// Memory is a concurrency-safe in-memory TTL cache.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry)}
}

// Get retrieves a value, lazily evicting it when expired.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.expires.IsZero() && time.Now().After(e.expires) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false
	}
	return e.data, true
}

// Set stores a value. ttl <= 0 keeps the entry until overwritten.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	e := memoryEntry{data: value}
	if ttl > 0 {
		e.expires = time.Now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
}

// Delete removes a single entry.
func (m *Memory) Delete(_ context.Context, key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}
