// Package httpapi provides the HTTP REST API for the chartdeck dashboard:
// dataset JSON, rendered chart images, watchlist management, archive
// listings, and a websocket channel for refresh notifications.
package httpapi

import (
	"chartdeck/internal/archive"
	"chartdeck/internal/domain"
)

// DatasetResponse pairs a dataset with its display summary.
type DatasetResponse struct {
	Symbol  string          `json:"symbol"`
	Dataset *domain.Dataset `json:"dataset"`
}

// WatchlistResponse lists the watchlist's symbols.
type WatchlistResponse struct {
	Symbols []string `json:"symbols"`
}

// AuditsResponse lists archived dataset snapshots.
type AuditsResponse struct {
	Entries []archive.Entry `json:"entries"`
}

// AuditDetailResponse holds one archived snapshot's candles.
type AuditDetailResponse struct {
	Symbol  string                  `json:"symbol"`
	Date    string                  `json:"date"`
	Candles []archive.CandleRecord  `json:"candles"`
}

// UpdateMessage is pushed over the websocket when a symbol refreshes.
type UpdateMessage struct {
	Type   string `json:"type"`
	Symbol string `json:"symbol"`
}
