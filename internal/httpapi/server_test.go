package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"chartdeck/internal/domain"
	"chartdeck/internal/render"
)

type stubFetcher struct {
	datasets map[string]*domain.Dataset
	err      error
}

func (f *stubFetcher) Fetch(_ context.Context, symbol string) (*domain.Dataset, error) {
	if f.err != nil {
		return nil, f.err
	}
	ds, ok := f.datasets[symbol]
	if !ok {
		return nil, errors.New("unknown symbol")
	}
	return ds, nil
}

type stubView struct {
	received []*domain.Dataset
	png      []byte
	err      error
}

func (v *stubView) OnDataset(ds *domain.Dataset) {
	v.received = append(v.received, ds)
}

func (v *stubView) Snapshot(_ render.PaneKind) ([]byte, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.png, nil
}

type stubTracker struct {
	active string
}

func (t *stubTracker) SetActive(symbol string) { t.active = symbol }

func testDataset(symbol string) *domain.Dataset {
	return &domain.Dataset{
		Symbol: symbol,
		Candles: []domain.CandlePoint{
			{Time: 1700000000, Open: 10, High: 12, Low: 9, Close: 11, Volume: 1000},
			{Time: 1700000060, Open: 11, High: 13, Low: 10, Close: 12, Volume: 1200},
		},
	}
}

func newTestServer(fetcher *stubFetcher, view *stubView, tracker *stubTracker) *httptest.Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	var t ActiveTracker
	if tracker != nil {
		t = tracker
	}
	srv := NewServer(fetcher, view, t, nil, nil, nil, log)
	return httptest.NewServer(srv.Handler())
}

func TestHealth(t *testing.T) {
	ts := newTestServer(&stubFetcher{}, &stubView{}, nil)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestGetDataset(t *testing.T) {
	fetcher := &stubFetcher{datasets: map[string]*domain.Dataset{
		"AAPL": testDataset("AAPL"),
	}}
	ts := newTestServer(fetcher, &stubView{}, nil)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/dataset/aapl")
	if err != nil {
		t.Fatalf("GET /api/dataset/aapl: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var got DatasetResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if got.Symbol != "AAPL" {
		t.Errorf("symbol = %q, want AAPL", got.Symbol)
	}
	if got.Dataset == nil || len(got.Dataset.Candles) != 2 {
		t.Errorf("expected dataset with 2 candles, got %+v", got.Dataset)
	}
}

func TestGetDatasetUpstreamError(t *testing.T) {
	ts := newTestServer(&stubFetcher{err: errors.New("boom")}, &stubView{}, nil)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/dataset/AAPL")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
}

func TestGetChartDrivesView(t *testing.T) {
	fetcher := &stubFetcher{datasets: map[string]*domain.Dataset{
		"MSFT": testDataset("MSFT"),
	}}
	view := &stubView{png: []byte("\x89PNG fake")}
	tracker := &stubTracker{}
	ts := newTestServer(fetcher, view, tracker)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/chart/msft?pane=oscillator")
	if err != nil {
		t.Fatalf("GET /api/chart: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q, want image/png", ct)
	}

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "\x89PNG fake" {
		t.Errorf("unexpected body %q", body)
	}
	if len(view.received) != 1 || view.received[0].Symbol != "MSFT" {
		t.Errorf("view did not receive the MSFT dataset: %+v", view.received)
	}
	if tracker.active != "MSFT" {
		t.Errorf("active symbol = %q, want MSFT", tracker.active)
	}
}

func TestGetChartSnapshotFailure(t *testing.T) {
	fetcher := &stubFetcher{datasets: map[string]*domain.Dataset{
		"MSFT": testDataset("MSFT"),
	}}
	view := &stubView{err: errors.New("no surface")}
	ts := newTestServer(fetcher, view, nil)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/chart/MSFT")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestGetSummary(t *testing.T) {
	fetcher := &stubFetcher{datasets: map[string]*domain.Dataset{
		"AAPL": testDataset("AAPL"),
	}}
	ts := newTestServer(fetcher, &stubView{}, nil)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/summary/AAPL")
	if err != nil {
		t.Fatalf("GET /api/summary: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var got map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decoding summary: %v", err)
	}
	if got["symbol"] != "AAPL" {
		t.Errorf("summary symbol = %v, want AAPL", got["symbol"])
	}
}

func TestWatchlistUnconfigured(t *testing.T) {
	ts := newTestServer(&stubFetcher{}, &stubView{}, nil)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/watchlist")
	if err != nil {
		t.Fatalf("GET /api/watchlist: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var got WatchlistResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decoding watchlist: %v", err)
	}
	if len(got.Symbols) != 0 {
		t.Errorf("symbols = %v, want empty", got.Symbols)
	}

	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/watchlist/AAPL", nil)
	putResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT /api/watchlist/AAPL: %v", err)
	}
	putResp.Body.Close()
	if putResp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("put status = %d, want 503", putResp.StatusCode)
	}
}

func TestAuditsUnconfigured(t *testing.T) {
	ts := newTestServer(&stubFetcher{}, &stubView{}, nil)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/audits")
	if err != nil {
		t.Fatalf("GET /api/audits: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var got AuditsResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decoding audits: %v", err)
	}
	if len(got.Entries) != 0 {
		t.Errorf("entries = %v, want empty", got.Entries)
	}
}

func TestCORSHeaders(t *testing.T) {
	ts := newTestServer(&stubFetcher{}, &stubView{}, nil)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if origin := resp.Header.Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("allow-origin = %q, want *", origin)
	}
}
