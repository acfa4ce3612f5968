// Package analytics consumes the remote analytics API that produces candle
// series, indicator overlays, and detected patterns. The package only
// transports and caches datasets; it never computes indicators or detects
// patterns itself.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"chartdeck/internal/domain"
	"chartdeck/internal/util"
)

// Client fetches analysis payloads over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	log        *slog.Logger
}

// NewClient creates a client for the analytics API at baseURL.
func NewClient(baseURL string, timeout time.Duration, maxRetries int, log *slog.Logger) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if maxRetries == 0 {
		maxRetries = 3
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		log:        log,
	}
}

// FetchDataset retrieves the full analysis payload for symbol. Every call
// returns a freshly allocated Dataset so callers can use pointer identity to
// detect supersession.
func (c *Client) FetchDataset(ctx context.Context, symbol string) (*domain.Dataset, error) {
	raw, err := c.fetchRaw(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return decodeDataset(symbol, raw)
}

// fetchRaw returns the analysis payload bytes for symbol, retrying transient
// failures with backoff.
func (c *Client) fetchRaw(ctx context.Context, symbol string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/api/v1/analysis/%s", c.baseURL, url.PathEscape(symbol))

	var body []byte
	err := util.Retry(ctx, c.maxRetries, 500*time.Millisecond, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, resp.Body)
			return fmt.Errorf("analytics API returned %d for %s", resp.StatusCode, symbol)
		}

		body, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetching analysis for %s: %w", symbol, err)
	}
	return body, nil
}

// decodeDataset parses an analysis payload into a Dataset.
func decodeDataset(symbol string, raw []byte) (*domain.Dataset, error) {
	ds := &domain.Dataset{}
	if err := json.Unmarshal(raw, ds); err != nil {
		return nil, fmt.Errorf("decoding analysis for %s: %w", symbol, err)
	}
	ds.Symbol = symbol
	return ds, nil
}
