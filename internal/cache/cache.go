// Package cache provides the record cache the ingestion pipeline reads
// through: a byte-value store contract, an in-memory TTL backend, a
// Valkey (Redis-compatible) backend, and a typed get-or-set loader that
// collapses concurrent producers per key.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// Store is the cache collaborator contract. Values are opaque bytes;
// typed access goes through the Loader helpers. A zero ttl means the
// backend's default.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

// Loader wraps a Store with JSON encoding and per-key single-flight so
// concurrent cold-cache callers for the same key share one producer run.
type Loader struct {
	store Store
	ttl   time.Duration
	group singleflight.Group
}

// NewLoader creates a loader over the given store. ttl applies to every
// value written through the loader.
func NewLoader(store Store, ttl time.Duration) *Loader {
	return &Loader{store: store, ttl: ttl}
}

// GetOrSet returns the cached value for key, or runs produce, stores the
// result, and returns it. Producer errors are returned to every waiting
// caller and nothing is cached for them.
func GetOrSet[T any](ctx context.Context, l *Loader, key string, produce func(context.Context) (T, error)) (T, error) {
	if v, ok := Get[T](ctx, l, key); ok {
		return v, nil
	}

	out, err, _ := l.group.Do(key, func() (any, error) {
		// A concurrent caller may have filled the key while this one
		// waited on the flight.
		if v, ok := Get[T](ctx, l, key); ok {
			return v, nil
		}
		v, err := produce(ctx)
		if err != nil {
			return nil, err
		}
		Set(ctx, l, key, v)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out.(T), nil
}

// Get reads and decodes a cached value. A decode failure counts as a
// miss; the stale entry is evicted so the next write replaces it.
func Get[T any](ctx context.Context, l *Loader, key string) (T, bool) {
	var v T
	raw, ok := l.store.Get(ctx, key)
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		slog.Warn("cache entry undecodable, evicting", "key", key, "error", err)
		l.store.Delete(ctx, key)
		var zero T
		return zero, false
	}
	return v, true
}

// Set encodes and stores a value under key with the loader's TTL.
func Set[T any](ctx context.Context, l *Loader, key string, value T) {
	raw, err := json.Marshal(value)
	if err != nil {
		slog.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	l.store.Set(ctx, key, raw, l.ttl)
}
