// Package watchlist wraps the Alpaca watchlist API behind a small service
// used by the dashboard's watchlist page. The platform stores no watchlist
// state of its own; Alpaca is the source of truth.
package watchlist

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	alpacaapi "github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
)

// DefaultName is the watchlist the service finds or creates on first use.
const DefaultName = "chartdeck"

// AlpacaAPI is the subset of the Alpaca client the service needs.
type AlpacaAPI interface {
	GetWatchlists() ([]alpacaapi.Watchlist, error)
	GetWatchlist(id string) (*alpacaapi.Watchlist, error)
	CreateWatchlist(req alpacaapi.CreateWatchlistRequest) (*alpacaapi.Watchlist, error)
	AddSymbolToWatchlist(id string, req alpacaapi.AddSymbolToWatchlistRequest) (*alpacaapi.Watchlist, error)
	RemoveSymbolFromWatchlist(id string, req alpacaapi.RemoveSymbolFromWatchlistRequest) error
}

// Service manages one named watchlist.
type Service struct {
	api  AlpacaAPI
	name string
	log  *slog.Logger

	id string // resolved lazily
}

// NewService creates a watchlist service over api. A nil api disables the
// service; all calls then return ErrNotConfigured.
func NewService(api AlpacaAPI, name string, log *slog.Logger) *Service {
	if name == "" {
		name = DefaultName
	}
	return &Service{api: api, name: name, log: log}
}

// ErrNotConfigured is returned when no Alpaca credentials were provided.
var ErrNotConfigured = fmt.Errorf("watchlist: alpaca client not configured")

// ensureID finds or creates the named watchlist and caches its ID.
func (s *Service) ensureID() error {
	if s.api == nil {
		return ErrNotConfigured
	}
	if s.id != "" {
		return nil
	}

	lists, err := s.api.GetWatchlists()
	if err != nil {
		return fmt.Errorf("listing watchlists: %w", err)
	}
	for _, w := range lists {
		if w.Name == s.name {
			s.id = w.ID
			return nil
		}
	}

	w, err := s.api.CreateWatchlist(alpacaapi.CreateWatchlistRequest{Name: s.name})
	if err != nil {
		return fmt.Errorf("creating watchlist %q: %w", s.name, err)
	}
	s.id = w.ID
	s.log.Info("watchlist created", "name", s.name, "id", w.ID)
	return nil
}

// Symbols returns the watchlist's symbols, sorted.
func (s *Service) Symbols() ([]string, error) {
	if err := s.ensureID(); err != nil {
		return nil, err
	}

	wl, err := s.api.GetWatchlist(s.id)
	if err != nil {
		return nil, fmt.Errorf("getting watchlist: %w", err)
	}

	symbols := make([]string, 0, len(wl.Assets))
	for _, a := range wl.Assets {
		symbols = append(symbols, a.Symbol)
	}
	sort.Strings(symbols)
	return symbols, nil
}

// Add puts symbol on the watchlist.
func (s *Service) Add(symbol string) error {
	if err := s.ensureID(); err != nil {
		return err
	}
	symbol = strings.ToUpper(symbol)
	if _, err := s.api.AddSymbolToWatchlist(s.id, alpacaapi.AddSymbolToWatchlistRequest{Symbol: symbol}); err != nil {
		return fmt.Errorf("adding %s: %w", symbol, err)
	}
	return nil
}

// Remove takes symbol off the watchlist.
func (s *Service) Remove(symbol string) error {
	if err := s.ensureID(); err != nil {
		return err
	}
	symbol = strings.ToUpper(symbol)
	if err := s.api.RemoveSymbolFromWatchlist(s.id, alpacaapi.RemoveSymbolFromWatchlistRequest{Symbol: symbol}); err != nil {
		return fmt.Errorf("removing %s: %w", symbol, err)
	}
	return nil
}
