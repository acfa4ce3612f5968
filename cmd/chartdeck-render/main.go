// One-shot tool: fetch the analytics dataset for a symbol and render its
// price and oscillator panes to PNG files.
//
// Usage:
//
//	go run cmd/chartdeck-render/main.go -symbol AAPL -out ./out
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chartdeck/internal/analytics"
	"chartdeck/internal/chart"
	"chartdeck/internal/config"
	"chartdeck/internal/render"
	"chartdeck/internal/render/chartimg"
	"chartdeck/internal/util"
)

type fixedContainer struct {
	width int
}

func (c *fixedContainer) Width() int { return c.width }

func main() {
	symbol := flag.String("symbol", "", "symbol to render (required)")
	outDir := flag.String("out", ".", "output directory for PNG files")
	width := flag.Int("width", 0, "chart width override")
	flag.Parse()

	if *symbol == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfgPath := "config/chartdeck.yaml"
	if p := os.Getenv("CHARTDECK_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, "text")
	slog.SetDefault(logger)

	if *width <= 0 {
		*width = cfg.Chart.Width
	}

	client := analytics.NewClient(
		cfg.Analytics.BaseURL,
		time.Duration(cfg.Analytics.TimeoutSec)*time.Second,
		cfg.Analytics.MaxRetries,
		logger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ds, err := client.FetchDataset(ctx, strings.ToUpper(*symbol))
	if err != nil {
		log.Fatalf("failed to fetch dataset: %v", err)
	}

	engine := chartimg.New()
	orch := chart.NewOrchestrator(engine, &fixedContainer{width: *width}, chart.Options{
		PriceHeight:      cfg.Chart.PriceHeight,
		OscillatorHeight: cfg.Chart.OscillatorHeight,
	}, logger)
	defer orch.Close()

	orch.Reconcile(ds)

	wrote := 0
	for _, kind := range []render.PaneKind{render.PanePrice, render.PaneOscillator} {
		png, err := engine.Snapshot(kind)
		if err != nil {
			logger.Info("skipping pane", "pane", kind, "reason", err)
			continue
		}
		path := filepath.Join(*outDir, strings.ToLower(*symbol)+"-"+string(kind)+".png")
		if err := os.WriteFile(path, png, 0o644); err != nil {
			log.Fatalf("failed to write %s: %v", path, err)
		}
		logger.Info("wrote pane", "path", path, "bytes", len(png))
		wrote++
	}

	if wrote == 0 {
		log.Fatalf("no panes rendered for %s", *symbol)
	}
}
