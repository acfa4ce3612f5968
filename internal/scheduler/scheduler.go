// Package scheduler drives periodic dataset refreshes: on each cron tick it
// refetches every watched symbol, archives the result, pushes the active
// symbol's dataset into the chart lifecycle, and notifies dashboard clients.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"chartdeck/internal/archive"
	"chartdeck/internal/domain"
	"chartdeck/internal/util"
)

// Fetcher refetches a symbol's dataset, bypassing caches.
type Fetcher interface {
	Refresh(ctx context.Context, symbol string) (*domain.Dataset, error)
}

// DatasetSink receives the active symbol's new dataset.
type DatasetSink interface {
	OnDataset(ds *domain.Dataset)
}

// Notifier is told when any watched symbol has fresh data.
type Notifier interface {
	DatasetUpdated(symbol string)
}

// Scheduler manages the refresh cron task.
type Scheduler struct {
	cron     *cron.Cron
	fetcher  Fetcher
	sink     DatasetSink
	notifier Notifier
	store    *archive.Store // nil disables archiving
	limiter  *util.RateLimiter
	log      *slog.Logger

	mu      sync.Mutex
	symbols []string
	active  string
}

// New creates a Scheduler refreshing symbols. notifier and store may be nil.
func New(fetcher Fetcher, sink DatasetSink, notifier Notifier, store *archive.Store, symbols []string, ratePerMin int, log *slog.Logger) *Scheduler {
	if ratePerMin <= 0 {
		ratePerMin = 60
	}
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		fetcher:  fetcher,
		sink:     sink,
		notifier: notifier,
		store:    store,
		limiter:  util.NewRateLimiter(ratePerMin),
		log:      log,
		symbols:  symbols,
	}
}

// Register installs the refresh task under the given cron spec.
func (s *Scheduler) Register(spec string) error {
	_, err := s.cron.AddFunc(spec, s.refreshTask)
	return err
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info("scheduler stopped")
}

// SetActive records which symbol the dashboard is currently charting; only
// that symbol's refresh reaches the chart lifecycle.
func (s *Scheduler) SetActive(symbol string) {
	s.mu.Lock()
	s.active = symbol
	s.mu.Unlock()
}

// RunNow executes the refresh task immediately (manual trigger).
func (s *Scheduler) RunNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s.mu.Lock()
	symbols := make([]string, len(s.symbols))
	copy(symbols, s.symbols)
	active := s.active
	s.mu.Unlock()

	for _, symbol := range symbols {
		if err := s.limiter.Wait(ctx); err != nil {
			s.log.Warn("refresh aborted", "error", err)
			return
		}

		ds, err := s.fetcher.Refresh(ctx, symbol)
		if err != nil {
			s.log.Warn("refreshing dataset", "symbol", symbol, "error", err)
			continue
		}

		if s.store != nil {
			if err := s.store.WriteSnapshot(ds, time.Now()); err != nil {
				s.log.Warn("archiving snapshot", "symbol", symbol, "error", err)
			}
		}

		if symbol == active && s.sink != nil {
			s.sink.OnDataset(ds)
		}
		if s.notifier != nil {
			s.notifier.DatasetUpdated(symbol)
		}
	}
}
