// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// valkey.go provides the Valkey (Redis-compatible) Store backend. Record
// maps cached here survive process restarts, which is what makes the
// stale-fallback path of the fetch orchestrator useful in practice.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// recordKeyPrefix namespaces record-map entries in Valkey.
	recordKeyPrefix = "record:"

	// DefaultRecordTTL is how long a cached record map stays fresh.
	DefaultRecordTTL = 5 * time.Minute
)

// ConnectValkey creates a Valkey client and verifies the connection with a ping.
func ConnectValkey(host, port, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("valkey ping: %w", err)
	}

	slog.Info("valkey connected", "addr", fmt.Sprintf("%s:%s", host, port))
	return client, nil
}

// Valkey is a Store backed by a Valkey client.
type Valkey struct {
	client *redis.Client
	ttl    time.Duration
}

// NewValkey creates a Valkey-backed store. ttl is the default expiry for
// entries written without an explicit one.
func NewValkey(client *redis.Client, ttl time.Duration) *Valkey {
	if ttl == 0 {
		ttl = DefaultRecordTTL
	}
	return &Valkey{client: client, ttl: ttl}
}

// Get retrieves a cached value. Returns false on miss or backend error;
// a flaky cache must degrade to a miss, never to a failure.
func (v *Valkey) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := v.client.Get(ctx, recordKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("record cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("record cache hit", "key", key)
	return val, true
}

// Set stores a value. ttl <= 0 uses the store default.
func (v *Valkey) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = v.ttl
	}
	if err := v.client.Set(ctx, recordKeyPrefix+key, value, ttl).Err(); err != nil {
		slog.Warn("record cache set error", "key", key, "error", err)
	}
}

// Delete removes a single entry.
func (v *Valkey) Delete(ctx context.Context, key string) {
	if err := v.client.Del(ctx, recordKeyPrefix+key).Err(); err != nil {
		slog.Warn("record cache delete error", "key", key, "error", err)
	}
}
