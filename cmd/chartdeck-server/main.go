package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/asaskevich/EventBus"

	"chartdeck/internal/analytics"
	"chartdeck/internal/archive"
	"chartdeck/internal/chart"
	"chartdeck/internal/config"
	"chartdeck/internal/domain"
	"chartdeck/internal/httpapi"
	"chartdeck/internal/lifecycle"
	"chartdeck/internal/render"
	"chartdeck/internal/render/chartimg"
	"chartdeck/internal/scheduler"
	"chartdeck/internal/util"
	"chartdeck/internal/watchlist"
)

// fixedContainer is the server-side stand-in for a browser viewport. Width
// changes arrive over the resize bus rather than from a window manager.
type fixedContainer struct {
	width int
}

func (c *fixedContainer) Width() int { return c.width }

// chartView joins the lifecycle binding (dataset in) with the image engine
// (snapshot out) into the single view the HTTP layer drives.
type chartView struct {
	binding *lifecycle.Binding
	engine  *chartimg.Engine
}

func (v *chartView) OnDataset(ds *domain.Dataset) { v.binding.OnDataset(ds) }

func (v *chartView) Snapshot(kind render.PaneKind) ([]byte, error) {
	return v.engine.Snapshot(kind)
}

func main() {
	cfgPath := "config/chartdeck.yaml"
	if p := os.Getenv("CHARTDECK_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)

	// Chart pipeline: engine -> orchestrator -> binding, resized over the bus.
	engine := chartimg.New()
	container := &fixedContainer{width: cfg.Chart.Width}
	orch := chart.NewOrchestrator(engine, container, chart.Options{
		PriceHeight:      cfg.Chart.PriceHeight,
		OscillatorHeight: cfg.Chart.OscillatorHeight,
	}, logger)

	bus := EventBus.New()
	binding := lifecycle.NewBinding(orch, lifecycle.NewBusResizeSource(bus), logger)
	if err := binding.Bind(); err != nil {
		log.Fatalf("failed to bind chart lifecycle: %v", err)
	}
	defer binding.Unbind()

	view := &chartView{binding: binding, engine: engine}

	// Analytics: upstream client with sqlite-backed cache.
	client := analytics.NewClient(
		cfg.Analytics.BaseURL,
		time.Duration(cfg.Analytics.TimeoutSec)*time.Second,
		cfg.Analytics.MaxRetries,
		logger,
	)
	var cache *analytics.Cache
	if cfg.Storage.SQLitePath != "" {
		cache, err = analytics.NewCache(cfg.Storage.SQLitePath, time.Duration(cfg.Analytics.CacheTTLSec)*time.Second)
		if err != nil {
			log.Fatalf("failed to open dataset cache: %v", err)
		}
		defer cache.Close()
	}
	fetcher := analytics.NewFetcher(client, cache, logger)

	var store *archive.Store
	if cfg.Storage.ArchiveDir != "" {
		store = archive.NewStore(cfg.Storage.ArchiveDir)
	}

	var watch *watchlist.Service
	if cfg.Alpaca.APIKey != "" {
		api := alpaca.NewClient(alpaca.ClientOpts{
			APIKey:    cfg.Alpaca.APIKey,
			APISecret: cfg.Alpaca.APISecret,
			BaseURL:   cfg.Alpaca.BaseURL,
		})
		watch = watchlist.NewService(api, watchlist.DefaultName, logger)
	}

	hub := httpapi.NewHub(logger)
	go hub.Run()

	var sched *scheduler.Scheduler
	if cfg.Refresh.CronSpec != "" && len(cfg.Refresh.Symbols) > 0 {
		sched = scheduler.New(fetcher, binding, hub, store, cfg.Refresh.Symbols, cfg.Analytics.RateLimitPerMin, logger)
		if err := sched.Register(cfg.Refresh.CronSpec); err != nil {
			log.Fatalf("failed to register refresh schedule: %v", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	var tracker httpapi.ActiveTracker
	if sched != nil {
		tracker = sched
	}
	server := httpapi.NewServer(fetcher, view, tracker, watch, store, hub, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("chartdeck-server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	httpServer.Close()
}
