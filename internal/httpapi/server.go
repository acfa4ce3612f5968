package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"chartdeck/internal/archive"
	"chartdeck/internal/dashboard"
	"chartdeck/internal/domain"
	"chartdeck/internal/render"
	"chartdeck/internal/watchlist"
)

// DatasetFetcher resolves datasets, typically through the analytics cache.
type DatasetFetcher interface {
	Fetch(ctx context.Context, symbol string) (*domain.Dataset, error)
}

// ChartView is the live chart the dashboard drives: datasets go in,
// snapshots of the rendered panes come out.
type ChartView interface {
	OnDataset(ds *domain.Dataset)
	Snapshot(kind render.PaneKind) ([]byte, error)
}

// ActiveTracker learns which symbol the dashboard currently charts.
type ActiveTracker interface {
	SetActive(symbol string)
}

// Server serves the dashboard HTTP API.
type Server struct {
	fetcher DatasetFetcher
	view    ChartView
	tracker ActiveTracker       // nil: no scheduler wired
	watch   *watchlist.Service  // nil: watchlist page disabled
	store   *archive.Store      // nil: audits page disabled
	hub     *Hub                // nil: no websocket channel
	log     *slog.Logger
}

// NewServer creates a dashboard server. Optional collaborators may be nil;
// the matching endpoints then degrade gracefully.
func NewServer(
	fetcher DatasetFetcher,
	view ChartView,
	tracker ActiveTracker,
	watch *watchlist.Service,
	store *archive.Store,
	hub *Hub,
	log *slog.Logger,
) *Server {
	return &Server{
		fetcher: fetcher,
		view:    view,
		tracker: tracker,
		watch:   watch,
		store:   store,
		hub:     hub,
		log:     log,
	}
}

// RegisterRoutes registers all API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/dataset/{symbol}", s.handleDataset)
	mux.HandleFunc("GET /api/summary/{symbol}", s.handleSummary)
	mux.HandleFunc("GET /api/chart/{symbol}", s.handleChart)
	mux.HandleFunc("GET /api/watchlist", s.handleGetWatchlist)
	mux.HandleFunc("PUT /api/watchlist/{symbol}", s.handleAddWatchlist)
	mux.HandleFunc("DELETE /api/watchlist/{symbol}", s.handleRemoveWatchlist)
	mux.HandleFunc("GET /api/audits", s.handleAudits)
	mux.HandleFunc("GET /api/audits/{symbol}/{date}", s.handleAuditDetail)
	if s.hub != nil {
		mux.HandleFunc("GET /ws", s.hub.HandleWebSocket)
	}
}

// Handler returns an http.Handler with CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(r.PathValue("symbol"))

	ds, err := s.fetcher.Fetch(r.Context(), symbol)
	if err != nil {
		s.log.Warn("fetching dataset", "symbol", symbol, "error", err)
		writeError(w, http.StatusBadGateway, fmt.Sprintf("failed to fetch %s", symbol))
		return
	}

	writeJSON(w, DatasetResponse{Symbol: symbol, Dataset: ds})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(r.PathValue("symbol"))

	ds, err := s.fetcher.Fetch(r.Context(), symbol)
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("failed to fetch %s", symbol))
		return
	}

	writeJSON(w, dashboard.Summarize(ds))
}

// handleChart renders the requested pane for a symbol. Viewing a chart also
// makes its symbol the active one, so scheduled refreshes keep it current.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(r.PathValue("symbol"))

	kind := render.PanePrice
	if r.URL.Query().Get("pane") == "oscillator" {
		kind = render.PaneOscillator
	}

	ds, err := s.fetcher.Fetch(r.Context(), symbol)
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("failed to fetch %s", symbol))
		return
	}

	if s.tracker != nil {
		s.tracker.SetActive(symbol)
	}
	s.view.OnDataset(ds)

	png, err := s.view.Snapshot(kind)
	if err != nil {
		s.log.Warn("snapshotting pane", "symbol", symbol, "pane", kind, "error", err)
		writeError(w, http.StatusNotFound, fmt.Sprintf("no %s pane for %s", kind, symbol))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (s *Server) handleGetWatchlist(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		writeJSON(w, WatchlistResponse{Symbols: []string{}})
		return
	}

	symbols, err := s.watch.Symbols()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get watchlist")
		return
	}
	if symbols == nil {
		symbols = []string{}
	}
	writeJSON(w, WatchlistResponse{Symbols: symbols})
}

func (s *Server) handleAddWatchlist(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		writeError(w, http.StatusServiceUnavailable, "watchlist not configured")
		return
	}

	symbol := strings.ToUpper(r.PathValue("symbol"))
	if err := s.watch.Add(symbol); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to add %s: %v", symbol, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveWatchlist(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		writeError(w, http.StatusServiceUnavailable, "watchlist not configured")
		return
	}

	symbol := strings.ToUpper(r.PathValue("symbol"))
	if err := s.watch.Remove(symbol); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to remove %s: %v", symbol, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAudits(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, AuditsResponse{Entries: []archive.Entry{}})
		return
	}

	entries, err := s.store.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list archive")
		return
	}
	if entries == nil {
		entries = []archive.Entry{}
	}
	writeJSON(w, AuditsResponse{Entries: entries})
}

func (s *Server) handleAuditDetail(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "archive not configured")
		return
	}

	symbol := strings.ToUpper(r.PathValue("symbol"))
	date := r.PathValue("date")

	records, err := s.store.ReadSnapshot(symbol, date)
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no snapshot for %s on %s", symbol, date))
		return
	}

	writeJSON(w, AuditDetailResponse{Symbol: symbol, Date: date, Candles: records})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
