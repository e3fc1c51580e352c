// Package fetcher is the cache-first retrieval layer for content
// graphs: read-through document fetching with bounded retry and a
// stale-cache fallback, plus batch retrieval of individually addressed
// blocks the document chunk dropped.
package fetcher

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"notionsite/internal/cache"
	"notionsite/internal/metrics"
	"notionsite/internal/normalize"
	"notionsite/internal/notion"
)

const (
	// documentKeyPrefix keys the primary cache entry of a document.
	documentKeyPrefix = "page_content_"

	// staleKeyPrefix keys the block-level stale copy written on every
	// successful upstream fetch and served when retries fail.
	staleKeyPrefix = "page_block_"

	// DefaultBatchSize is the id count per batch upstream call.
	DefaultBatchSize = 100

	defaultAttempts = 3
	defaultBackoff  = time.Second
)

// ErrUnavailable reports that every attempt failed and no stale copy
// existed. Callers translate it to "document unavailable" and degrade;
// it never escapes as a request fault.
var ErrUnavailable = errors.New("fetcher: upstream unavailable")

// Upstream is the content API contract the orchestrator consumes.
type Upstream interface {
	GetDocument(ctx context.Context, id string) (notion.RawRecordMap, error)
	GetBlocks(ctx context.Context, ids []string) (notion.RawRecordMap, error)
}

// Fetcher orchestrates cache, upstream, and retry policy.
type Fetcher struct {
	loader   *cache.Loader
	upstream Upstream
	recorder *metrics.Recorder

	attempts int
	backoff  time.Duration
}

// New creates a fetch orchestrator. recorder may be nil.
func New(loader *cache.Loader, upstream Upstream, recorder *metrics.Recorder) *Fetcher {
	return &Fetcher{
		loader:   loader,
		upstream: upstream,
		recorder: recorder,
		attempts: defaultAttempts,
		backoff:  defaultBackoff,
	}
}

// SetRetryPolicy overrides attempt count and backoff. Used by tests and
// by hosts that tune the policy.
func (f *Fetcher) SetRetryPolicy(attempts int, backoff time.Duration) {
	if attempts > 0 {
		f.attempts = attempts
	}
	if backoff >= 0 {
		f.backoff = backoff
	}
}

// FetchDocument returns the normalized record map for a document id, or
// nil when the upstream is unavailable and no cached copy exists. The
// get-or-set path is single-flighted per key, so concurrent cold-cache
// callers share one upstream fetch.
func (f *Fetcher) FetchDocument(ctx context.Context, id string) *notion.RecordMap {
	rm, err := cache.GetOrSet(ctx, f.loader, documentKeyPrefix+id, func(ctx context.Context) (*notion.RecordMap, error) {
		return f.fetchWithRetry(ctx, id)
	})
	if err != nil {
		slog.Error("document unavailable", "id", id, "error", err)
		return nil
	}
	// Callers resolved by the same flight would otherwise share one
	// instance, and assembly mutates the graph it is handed.
	return rm.Clone()
}

// fetchWithRetry calls the upstream up to the configured attempt count.
// After each failure it waits the fixed backoff and tries the stale
// block-level cache before the next attempt.
func (f *Fetcher) fetchWithRetry(ctx context.Context, id string) (*notion.RecordMap, error) {
	for attempt := 1; attempt <= f.attempts; attempt++ {
		slog.Info("fetching document", "id", id, "attempt", attempt)
		start := time.Now()

		raw, err := f.upstream.GetDocument(ctx, id)
		if err == nil {
			slog.Info("document fetched", "id", id, "elapsed", time.Since(start).String())
			f.recorder.IncUpstream("document", "ok")

			rm := normalize.RecordMap(raw, id)
			// Stale copy outlives the primary entry; it is the retry
			// fallback for the next outage.
			cache.Set(ctx, f.loader, staleKeyPrefix+id, rm)
			return rm, nil
		}

		slog.Warn("upstream fetch failed", "id", id, "attempt", attempt, "error", err)
		f.recorder.IncUpstream("document", "error")
		f.recorder.IncRetry()

		if f.backoff > 0 {
			select {
			case <-time.After(f.backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if stale, ok := cache.Get[*notion.RecordMap](ctx, f.loader, staleKeyPrefix+id); ok && stale != nil {
			slog.Warn("serving stale cached document", "id", id)
			f.recorder.IncStaleServed()
			return stale, nil
		}
	}

	f.recorder.IncRetryExhausted()
	return nil, ErrUnavailable
}

// FetchMissing retrieves the given block ids in fixed-size batches and
// merges the results. Blocks already collected from an earlier batch are
// never overwritten by a later one.
func (f *Fetcher) FetchMissing(ctx context.Context, ids []string, batchSize int) map[string]notion.Block {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	merged := make(map[string]notion.Block)
	for start := 0; start < len(ids); start += batchSize {
		end := min(start+batchSize, len(ids))
		batch := ids[start:end]

		slog.Info("fetching missing blocks", "count", len(batch), "total", len(ids))
		raw, err := f.upstream.GetBlocks(ctx, batch)
		if err != nil {
			slog.Warn("missing block batch failed", "count", len(batch), "error", err)
			f.recorder.IncUpstream("blocks", "error")
			continue
		}
		f.recorder.IncUpstream("blocks", "ok")

		_, blocks := normalize.BlockTable(raw.Table("block"))
		for id, b := range blocks {
			if _, exists := merged[id]; exists {
				continue
			}
			merged[id] = b
		}
	}
	return merged
}
