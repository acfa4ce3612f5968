// Package archive persists candle snapshots of fetched datasets as Parquet
// files, one file per symbol and fetch day. The audits page lists and reads
// these snapshots; nothing in the archive is ever mutated in place.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"chartdeck/internal/domain"
)

// Store writes and reads dataset snapshots under a root directory.
type Store struct {
	Dir string
}

// NewStore creates an archive store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// CandleRecord is the Parquet schema for archived candles.
type CandleRecord struct {
	Symbol string  `parquet:"symbol"`
	Time   int64   `parquet:"time,timestamp(second)"` // Unix seconds
	Open   float64 `parquet:"open"`
	High   float64 `parquet:"high"`
	Low    float64 `parquet:"low"`
	Close  float64 `parquet:"close"`
	Volume float64 `parquet:"volume"`
}

// Entry describes one archived snapshot.
type Entry struct {
	Symbol string `json:"symbol"`
	Date   string `json:"date"`
	Path   string `json:"-"`
}

// WriteSnapshot archives the dataset's candles under today's date. Empty
// datasets are skipped silently; there is nothing to audit.
func (s *Store) WriteSnapshot(ds *domain.Dataset, now time.Time) error {
	if ds.Empty() {
		return nil
	}

	records := make([]CandleRecord, len(ds.Candles))
	for i, c := range ds.Candles {
		records[i] = CandleRecord{
			Symbol: ds.Symbol,
			Time:   c.Time,
			Open:   c.Open,
			High:   c.High,
			Low:    c.Low,
			Close:  c.Close,
			Volume: c.Volume,
		}
	}

	dir := filepath.Join(s.Dir, ds.Symbol)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating archive dir: %w", err)
	}

	path := filepath.Join(dir, now.Format("2006-01-02")+".parquet")
	if err := parquet.WriteFile(path, records); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	return nil
}

// ReadSnapshot reads the archived candles for symbol on date (YYYY-MM-DD).
func (s *Store) ReadSnapshot(symbol, date string) ([]CandleRecord, error) {
	path := filepath.Join(s.Dir, symbol, date+".parquet")
	records, err := parquet.ReadFile[CandleRecord](path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	return records, nil
}

// List returns all archived snapshots, sorted by symbol then date.
func (s *Store) List() ([]Entry, error) {
	symbols, err := os.ReadDir(s.Dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, sym := range symbols {
		if !sym.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(s.Dir, sym.Name()))
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			name := f.Name()
			if !strings.HasSuffix(name, ".parquet") {
				continue
			}
			entries = append(entries, Entry{
				Symbol: sym.Name(),
				Date:   strings.TrimSuffix(name, ".parquet"),
				Path:   filepath.Join(s.Dir, sym.Name(), name),
			})
		}
	}

	sort.Slice(entries, func(a, b int) bool {
		if entries[a].Symbol != entries[b].Symbol {
			return entries[a].Symbol < entries[b].Symbol
		}
		return entries[a].Date < entries[b].Date
	})
	return entries, nil
}
