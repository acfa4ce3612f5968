package analytics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// ErrCacheMiss is returned when no fresh payload exists for a symbol.
var ErrCacheMiss = errors.New("analytics: cache miss")

// Cache stores raw analysis payloads in SQLite, keyed by symbol with a TTL.
// Payloads are cached as received bytes; decoding always produces a fresh
// Dataset so cached reads keep the pointer-identity contract.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
}

// NewCache opens (or creates) the cache database at dbPath.
func NewCache(dbPath string, ttl time.Duration) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS datasets (
			symbol     TEXT PRIMARY KEY,
			payload    BLOB NOT NULL,
			fetched_at INTEGER NOT NULL
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating datasets table: %w", err)
	}

	return &Cache{db: db, ttl: ttl}, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached payload for symbol, or ErrCacheMiss when absent or
// older than the TTL.
func (c *Cache) Get(ctx context.Context, symbol string) ([]byte, error) {
	var payload []byte
	var fetchedAt int64
	err := c.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM datasets WHERE symbol = ?`, symbol,
	).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache for %s: %w", symbol, err)
	}

	if time.Since(time.Unix(fetchedAt, 0)) > c.ttl {
		return nil, ErrCacheMiss
	}
	return payload, nil
}

// Put stores the payload for symbol, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, symbol string, payload []byte) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO datasets (symbol, payload, fetched_at) VALUES (?, ?, ?)`,
		symbol, payload, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("writing cache for %s: %w", symbol, err)
	}
	return nil
}

// Invalidate removes the cached payload for symbol, forcing the next fetch
// to hit the API.
func (c *Cache) Invalidate(ctx context.Context, symbol string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM datasets WHERE symbol = ?`, symbol)
	return err
}
