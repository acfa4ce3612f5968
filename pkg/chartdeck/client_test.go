package chartdeck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	c := NewClient(baseURL)

	if c == nil {
		t.Fatal("expected non-nil client")
	}

	if c.baseURL != baseURL {
		t.Errorf("expected baseURL %q, got %q", baseURL, c.baseURL)
	}

	if c.httpClient == nil {
		t.Fatal("expected non-nil httpClient")
	}
}

func TestGetDataset(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/dataset/AAPL" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"symbol":"AAPL","dataset":{"symbol":"AAPL","candles":[{"time":1700000000,"open":10,"high":12,"low":9,"close":11,"volume":100}]}}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	ds, err := c.GetDataset(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetDataset: %v", err)
	}
	if ds == nil || len(ds.Candles) != 1 {
		t.Fatalf("expected 1 candle, got %+v", ds)
	}
	if ds.Candles[0].Close != 11 {
		t.Errorf("close = %v, want 11", ds.Candles[0].Close)
	}
}

func TestGetChartPNG(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("pane"); got != "oscillator" {
			t.Errorf("pane = %q, want oscillator", got)
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("\x89PNG"))
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	png, err := c.GetChartPNG(context.Background(), "AAPL", "oscillator")
	if err != nil {
		t.Fatalf("GetChartPNG: %v", err)
	}
	if string(png) != "\x89PNG" {
		t.Errorf("unexpected payload %q", png)
	}
}

func TestWatchlistOps(t *testing.T) {
	var gotMethod, gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		if r.Method == http.MethodGet {
			w.Write([]byte(`{"symbols":["AAPL","MSFT"]}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	ctx := context.Background()

	symbols, err := c.GetWatchlist(ctx)
	if err != nil {
		t.Fatalf("GetWatchlist: %v", err)
	}
	if len(symbols) != 2 {
		t.Errorf("symbols = %v, want 2 entries", symbols)
	}

	if err := c.AddToWatchlist(ctx, "TSLA"); err != nil {
		t.Fatalf("AddToWatchlist: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/api/watchlist/TSLA" {
		t.Errorf("add used %s %s", gotMethod, gotPath)
	}

	if err := c.RemoveFromWatchlist(ctx, "TSLA"); err != nil {
		t.Fatalf("RemoveFromWatchlist: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/watchlist/TSLA" {
		t.Errorf("remove used %s %s", gotMethod, gotPath)
	}
}

func TestGetDatasetServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	if _, err := c.GetDataset(context.Background(), "AAPL"); err == nil {
		t.Fatal("expected error on 502 response")
	}
}
