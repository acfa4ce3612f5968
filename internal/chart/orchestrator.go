package chart

import (
	"log/slog"

	"chartdeck/internal/domain"
	"chartdeck/internal/render"
	"chartdeck/internal/series"
)

// Conventional RSI reference thresholds. These are fixed constants, never
// derived from the data.
const (
	Overbought = 70.0
	Oversold   = 30.0
)

// Options sizes the panes an orchestrator creates.
type Options struct {
	PriceHeight      int
	OscillatorHeight int
}

// Orchestrator owns the panes that share one time axis. Each dataset change
// runs a full reconcile cycle: destroy whatever panes the previous dataset
// left behind, then mount and populate fresh panes for the new one. Surfaces
// are never reused across datasets; the engine's internal time-scale state
// does not survive a symbol switch.
type Orchestrator struct {
	engine    render.Engine
	container render.Container
	opts      Options
	log       *slog.Logger

	price   *Pane
	osc     *Pane
	unlinks []func()
	current *domain.Dataset
}

// NewOrchestrator creates an orchestrator holding no panes.
func NewOrchestrator(engine render.Engine, container render.Container, opts Options, log *slog.Logger) *Orchestrator {
	if opts.PriceHeight == 0 {
		opts.PriceHeight = 400
	}
	if opts.OscillatorHeight == 0 {
		opts.OscillatorHeight = 160
	}
	return &Orchestrator{engine: engine, container: container, opts: opts, log: log}
}

// Current returns the dataset rendered by the last reconcile cycle.
func (o *Orchestrator) Current() *domain.Dataset { return o.current }

// PricePane returns the price pane, or nil when none is mounted.
func (o *Orchestrator) PricePane() *Pane { return o.price }

// OscillatorPane returns the oscillator pane, or nil when none is mounted.
func (o *Orchestrator) OscillatorPane() *Pane { return o.osc }

// Reconcile runs one full cycle for ds. A nil or empty dataset destroys all
// panes and renders nothing; that is the valid empty state, not an error.
// Mount failures are isolated per pane: a pane that cannot mount this cycle
// is logged and skipped without aborting the rest of the render.
func (o *Orchestrator) Reconcile(ds *domain.Dataset) {
	// No surface survives a dataset change.
	o.teardown()
	o.current = ds

	if ds.Empty() {
		return
	}

	if err := ds.Validate(); err != nil {
		o.log.Warn("malformed dataset, skipping render", "symbol", ds.Symbol, "error", err)
		return
	}

	o.mountPrice(ds)
	if len(ds.Oscillator) > 0 {
		o.mountOscillator(ds)
	}

	o.alignPanes()
}

func (o *Orchestrator) mountPrice(ds *domain.Dataset) {
	pane := NewPane(render.PanePrice, o.engine, o.log)
	if err := pane.Mount(o.container, o.opts.PriceHeight); err != nil {
		o.log.Warn("mounting price pane", "symbol", ds.Symbol, "error", err)
		return
	}

	layers := []render.Layer{series.CandleLayer(ds.Candles)}
	if len(ds.BandOverlay) > 0 {
		upper, middle, lower := series.BandLayers(ds.BandOverlay)
		layers = append(layers, upper, middle, lower)
	}
	if len(ds.Patterns) > 0 {
		markers := MapPatterns(ds.Patterns, ds.AnchorTime())
		layers = append(layers, render.MarkerLayer(markers))
	}

	if err := pane.SetLayers(layers); err != nil {
		o.log.Warn("populating price pane", "symbol", ds.Symbol, "error", err)
	}
	o.price = pane
}

func (o *Orchestrator) mountOscillator(ds *domain.Dataset) {
	pane := NewPane(render.PaneOscillator, o.engine, o.log)
	if err := pane.Mount(o.container, o.opts.OscillatorHeight); err != nil {
		o.log.Warn("mounting oscillator pane", "symbol", ds.Symbol, "error", err)
		return
	}

	err := pane.SetLayers([]render.Layer{
		series.LineLayer("RSI", series.ColorOscillator, ds.Oscillator),
		render.RefLineLayer("Overbought", series.ColorBandMiddle, Overbought),
		render.RefLineLayer("Oversold", series.ColorBandMiddle, Oversold),
	})
	if err != nil {
		o.log.Warn("populating oscillator pane", "symbol", ds.Symbol, "error", err)
	}
	o.osc = pane
}

// alignPanes fits the price pane's time axis to the full dataset, copies the
// resulting visible range onto the oscillator pane, and links the two so
// scroll and zoom on either pane mirror onto the other.
func (o *Orchestrator) alignPanes() {
	if o.price == nil {
		return
	}

	o.price.Surface().FitContent()

	if o.osc == nil {
		return
	}

	if r, ok := o.price.Surface().VisibleRange(); ok {
		o.osc.Surface().SetVisibleRange(r)
	}

	// Mirror range changes both ways. The applying flag stops the echo: a
	// mirrored SetVisibleRange fires the target's own subscription, which
	// must not bounce back.
	var applying bool
	mirror := func(target render.Surface) func(render.TimeRange) {
		return func(r render.TimeRange) {
			if applying {
				return
			}
			applying = true
			target.SetVisibleRange(r)
			applying = false
		}
	}

	o.unlinks = append(o.unlinks,
		o.price.Surface().SubscribeVisibleRange(mirror(o.osc.Surface())),
		o.osc.Surface().SubscribeVisibleRange(mirror(o.price.Surface())),
	)
}

// Resize propagates a new container width to every mounted pane. The visible
// time range is unaffected.
func (o *Orchestrator) Resize(width int) {
	if o.price != nil {
		if err := o.price.Resize(width); err != nil {
			o.log.Warn("resizing price pane", "error", err)
		}
	}
	if o.osc != nil {
		if err := o.osc.Resize(width); err != nil {
			o.log.Warn("resizing oscillator pane", "error", err)
		}
	}
}

// Close destroys all panes. Idempotent.
func (o *Orchestrator) Close() {
	o.teardown()
	o.current = nil
}

func (o *Orchestrator) teardown() {
	for _, unlink := range o.unlinks {
		unlink()
	}
	o.unlinks = nil

	if o.price != nil {
		o.price.Destroy()
		o.price = nil
	}
	if o.osc != nil {
		o.osc.Destroy()
		o.osc = nil
	}
}
