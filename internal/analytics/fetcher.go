package analytics

import (
	"context"
	"errors"
	"log/slog"

	"chartdeck/internal/domain"
)

// Fetcher resolves datasets through the cache, falling back to the API and
// populating the cache on a miss. The cache is optional.
type Fetcher struct {
	client *Client
	cache  *Cache
	log    *slog.Logger
}

// NewFetcher wires a Fetcher. cache may be nil to disable caching.
func NewFetcher(client *Client, cache *Cache, log *slog.Logger) *Fetcher {
	return &Fetcher{client: client, cache: cache, log: log}
}

// Fetch returns the dataset for symbol. Cached payloads still decode into a
// fresh Dataset pointer per call.
func (f *Fetcher) Fetch(ctx context.Context, symbol string) (*domain.Dataset, error) {
	if f.cache != nil {
		payload, err := f.cache.Get(ctx, symbol)
		if err == nil {
			return decodeDataset(symbol, payload)
		}
		if !errors.Is(err, ErrCacheMiss) {
			f.log.Warn("dataset cache read failed", "symbol", symbol, "error", err)
		}
	}

	raw, err := f.client.fetchRaw(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		if err := f.cache.Put(ctx, symbol, raw); err != nil {
			f.log.Warn("dataset cache write failed", "symbol", symbol, "error", err)
		}
	}

	return decodeDataset(symbol, raw)
}

// Refresh bypasses and repopulates the cache for symbol.
func (f *Fetcher) Refresh(ctx context.Context, symbol string) (*domain.Dataset, error) {
	if f.cache != nil {
		if err := f.cache.Invalidate(ctx, symbol); err != nil {
			f.log.Warn("dataset cache invalidation failed", "symbol", symbol, "error", err)
		}
	}
	return f.Fetch(ctx, symbol)
}
