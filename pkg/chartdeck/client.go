// Package chartdeck provides a Go SDK for the chartdeck-server API.
package chartdeck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"chartdeck/internal/domain"
)

// Client provides a Go SDK for interacting with the chartdeck-server API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new chartdeck API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// GetDataset retrieves the analytics dataset for a symbol.
func (c *Client) GetDataset(ctx context.Context, symbol string) (*domain.Dataset, error) {
	var resp struct {
		Symbol  string          `json:"symbol"`
		Dataset *domain.Dataset `json:"dataset"`
	}
	if err := c.getJSON(ctx, "/api/dataset/"+symbol, &resp); err != nil {
		return nil, err
	}
	return resp.Dataset, nil
}

// GetChartPNG renders a chart pane for a symbol and returns the PNG bytes.
// Pane is "price" or "oscillator".
func (c *Client) GetChartPNG(ctx context.Context, symbol, pane string) ([]byte, error) {
	url := fmt.Sprintf("%s/api/chart/%s?pane=%s", c.baseURL, symbol, pane)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting chart: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart request failed: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// GetWatchlist retrieves the watchlist symbols.
func (c *Client) GetWatchlist(ctx context.Context) ([]string, error) {
	var resp struct {
		Symbols []string `json:"symbols"`
	}
	if err := c.getJSON(ctx, "/api/watchlist", &resp); err != nil {
		return nil, err
	}
	return resp.Symbols, nil
}

// AddToWatchlist adds a symbol to the watchlist.
func (c *Client) AddToWatchlist(ctx context.Context, symbol string) error {
	return c.doNoBody(ctx, http.MethodPut, "/api/watchlist/"+symbol)
}

// RemoveFromWatchlist removes a symbol from the watchlist.
func (c *Client) RemoveFromWatchlist(ctx context.Context, symbol string) error {
	return c.doNoBody(ctx, http.MethodDelete, "/api/watchlist/"+symbol)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request %s failed: status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

func (c *Client) doNoBody(ctx context.Context, method, path string) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("%s %s failed: status %d", method, path, resp.StatusCode)
	}
	return nil
}
