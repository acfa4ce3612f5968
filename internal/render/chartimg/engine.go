// Package chartimg implements the render.Engine boundary on top of
// github.com/wcharczuk/go-chart/v2, rasterizing each surface to a PNG
// image. Candlesticks are drawn by a custom series using the renderer
// primitives directly; go-chart has no native candle type.
package chartimg

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"chartdeck/internal/render"
)

// ErrNoSurface is returned by Snapshot when no live surface exists for the
// requested pane kind.
var ErrNoSurface = errors.New("chartimg: no live surface for pane")

// Engine creates PNG-backed surfaces and keeps track of the most recently
// created live surface per pane kind so callers can snapshot the current
// render.
type Engine struct {
	mu   sync.Mutex
	last map[render.PaneKind]*Surface
}

// New creates an Engine.
func New() *Engine {
	return &Engine{last: make(map[render.PaneKind]*Surface)}
}

// CreateSurface allocates a new surface. The previous surface of the same
// kind, if any, stops being the snapshot target; its owner is expected to
// destroy it.
func (e *Engine) CreateSurface(opts render.SurfaceOptions) (render.Surface, error) {
	if opts.Width <= 0 {
		return nil, render.ErrZeroWidth
	}
	if opts.Height <= 0 {
		return nil, fmt.Errorf("chartimg: invalid surface height %d", opts.Height)
	}

	s := &Surface{engine: e, opts: opts, subs: make(map[int]func(render.TimeRange))}

	e.mu.Lock()
	e.last[opts.Kind] = s
	e.mu.Unlock()
	return s, nil
}

// Snapshot renders the current live surface of the given kind to PNG bytes.
func (e *Engine) Snapshot(kind render.PaneKind) ([]byte, error) {
	e.mu.Lock()
	s := e.last[kind]
	e.mu.Unlock()

	if s == nil {
		return nil, ErrNoSurface
	}
	return s.PNG()
}

func (e *Engine) forget(s *Surface) {
	e.mu.Lock()
	if e.last[s.opts.Kind] == s {
		delete(e.last, s.opts.Kind)
	}
	e.mu.Unlock()
}

// Surface is one PNG-backed drawing surface.
type Surface struct {
	engine *Engine

	mu         sync.Mutex
	opts       render.SurfaceOptions
	layers     []render.Layer
	visible    render.TimeRange
	hasVisible bool
	subs       map[int]func(render.TimeRange)
	nextSub    int
	destroyed  bool
}

// SetLayers atomically replaces the surface's layer set.
func (s *Surface) SetLayers(layers []render.Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return
	}
	s.layers = layers
}

// Resize updates the surface width. The visible range is untouched.
func (s *Surface) Resize(width int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed || width <= 0 {
		return
	}
	s.opts.Width = width
}

// Width reports the current surface width.
func (s *Surface) Width() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts.Width
}

// FitContent sets the visible range to span all layer data.
func (s *Surface) FitContent() {
	s.mu.Lock()
	min, max := s.dataRangeLocked()
	s.mu.Unlock()

	if max == 0 {
		return
	}
	s.SetVisibleRange(render.TimeRange{From: min, To: max})
}

// VisibleRange reports the current visible range.
func (s *Surface) VisibleRange() (render.TimeRange, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible, s.hasVisible
}

// SetVisibleRange sets the visible range and notifies subscribers.
func (s *Surface) SetVisibleRange(r render.TimeRange) {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return
	}
	s.visible = r
	s.hasVisible = true
	subs := make([]func(render.TimeRange), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(r)
	}
}

// SubscribeVisibleRange registers fn for range changes.
func (s *Surface) SubscribeVisibleRange(fn func(render.TimeRange)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Destroy releases the surface. Idempotent.
func (s *Surface) Destroy() {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return
	}
	s.destroyed = true
	s.layers = nil
	s.subs = map[int]func(render.TimeRange){}
	s.mu.Unlock()

	s.engine.forget(s)
}

// dataRangeLocked scans all layers for the min and max timestamps.
func (s *Surface) dataRangeLocked() (min, max int64) {
	for _, l := range s.layers {
		for _, b := range l.Bars {
			if min == 0 || b.Time < min {
				min = b.Time
			}
			if b.Time > max {
				max = b.Time
			}
		}
		for _, p := range l.Points {
			if min == 0 || p.Time < min {
				min = p.Time
			}
			if p.Time > max {
				max = p.Time
			}
		}
	}
	return min, max
}

// PNG renders the surface's current state to PNG bytes.
func (s *Surface) PNG() ([]byte, error) {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return nil, errors.New("chartimg: surface is destroyed")
	}
	layers := s.layers
	opts := s.opts
	visible := s.visible
	hasVisible := s.hasVisible
	s.mu.Unlock()

	graph, err := buildChart(layers, opts, visible, hasVisible)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("rendering %s pane: %w", opts.Kind, err)
	}
	return buf.Bytes(), nil
}

// buildChart translates the layer set into a go-chart graph.
func buildChart(layers []render.Layer, opts render.SurfaceOptions, visible render.TimeRange, hasVisible bool) (*chart.Chart, error) {
	xmin, xmax := 0.0, 0.0
	var seriesList []chart.Series
	var candles []render.Bar

	for _, l := range layers {
		switch l.Kind {
		case render.LayerCandles:
			if len(l.Bars) == 0 {
				continue
			}
			candles = l.Bars
			cs := &candleSeries{bars: l.Bars}
			seriesList = append(seriesList, cs)
			updateSpan(&xmin, &xmax, float64(l.Bars[0].Time), float64(l.Bars[len(l.Bars)-1].Time))

		case render.LayerLine:
			if len(l.Points) == 0 {
				continue
			}
			xs := make([]float64, len(l.Points))
			ys := make([]float64, len(l.Points))
			for i, p := range l.Points {
				xs[i] = float64(p.Time)
				ys[i] = p.Value
			}
			seriesList = append(seriesList, chart.ContinuousSeries{
				Name:    l.Title,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: parseColor(l.Color, chart.ColorBlue),
					StrokeWidth: 1.5,
				},
			})
			updateSpan(&xmin, &xmax, xs[0], xs[len(xs)-1])
		}
	}

	if len(seriesList) == 0 {
		return nil, errors.New("chartimg: no drawable layers")
	}

	// Reference lines and markers need the x span, so they go second.
	for _, l := range layers {
		switch l.Kind {
		case render.LayerRefLine:
			seriesList = append(seriesList, chart.ContinuousSeries{
				Name:    l.Title,
				XValues: []float64{xmin, xmax},
				YValues: []float64{l.Level, l.Level},
				Style: chart.Style{
					StrokeColor:     parseColor(l.Color, chart.ColorAlternateGray),
					StrokeWidth:     1.0,
					StrokeDashArray: []float64{4.0, 4.0},
				},
			})

		case render.LayerMarkers:
			if len(l.Markers) == 0 {
				continue
			}
			seriesList = append(seriesList, chart.AnnotationSeries{
				Annotations: markerAnnotations(l.Markers, candles),
			})
		}
	}

	graph := &chart.Chart{
		Width:  opts.Width,
		Height: opts.Height,
		XAxis: chart.XAxis{
			ValueFormatter: func(v interface{}) string {
				f, ok := v.(float64)
				if !ok {
					return ""
				}
				return time.Unix(int64(f), 0).UTC().Format("01-02")
			},
		},
		Series: seriesList,
	}

	if hasVisible {
		graph.XAxis.Range = &chart.ContinuousRange{
			Min: float64(visible.From),
			Max: float64(visible.To),
		}
	}
	return graph, nil
}

// markerAnnotations places markers above or below the candle at their anchor
// time, nudged a fraction of the bar's span so the glyph clears the wick.
func markerAnnotations(markers []render.Marker, candles []render.Bar) []chart.Value2 {
	barAt := make(map[int64]render.Bar, len(candles))
	for _, b := range candles {
		barAt[b.Time] = b
	}

	out := make([]chart.Value2, 0, len(markers))
	for _, m := range markers {
		y := 0.0
		if b, ok := barAt[m.Time]; ok {
			span := b.High - b.Low
			if m.Position == render.PositionBelow {
				y = b.Low - span*0.1
			} else {
				y = b.High + span*0.1
			}
		}
		label := m.Label
		switch m.Shape {
		case render.ShapeArrowUp:
			label = "▲ " + label
		case render.ShapeArrowDown:
			label = "▼ " + label
		case render.ShapeCircle:
			label = "● " + label
		}
		out = append(out, chart.Value2{
			XValue: float64(m.Time),
			YValue: y,
			Label:  label,
		})
	}
	return out
}

func updateSpan(xmin, xmax *float64, lo, hi float64) {
	if *xmin == 0 || lo < *xmin {
		*xmin = lo
	}
	if hi > *xmax {
		*xmax = hi
	}
}
