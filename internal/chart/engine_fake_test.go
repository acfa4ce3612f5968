package chart

import (
	"errors"

	"chartdeck/internal/render"
)

// fakeContainer is a width provider with a mutable width.
type fakeContainer struct {
	width int
}

func (c *fakeContainer) Width() int { return c.width }

// fakeEngine records every surface it creates so tests can inspect surfaces
// after the orchestrator has dropped its references to them.
type fakeEngine struct {
	surfaces  []*fakeSurface
	failKinds map[render.PaneKind]bool // kinds whose creation fails
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{failKinds: make(map[render.PaneKind]bool)}
}

func (e *fakeEngine) CreateSurface(opts render.SurfaceOptions) (render.Surface, error) {
	if e.failKinds[opts.Kind] {
		return nil, errors.New("fake engine: surface creation failed")
	}
	s := &fakeSurface{kind: opts.Kind, width: opts.Width, height: opts.Height}
	e.surfaces = append(e.surfaces, s)
	return s, nil
}

// live returns the surfaces of the given kind that are not destroyed.
func (e *fakeEngine) live(kind render.PaneKind) []*fakeSurface {
	var out []*fakeSurface
	for _, s := range e.surfaces {
		if s.kind == kind && s.destroyed == 0 {
			out = append(out, s)
		}
	}
	return out
}

type fakeSurface struct {
	kind      render.PaneKind
	width     int
	height    int
	layers    []render.Layer
	setCalls  int
	destroyed int
	fitted    bool

	visible    render.TimeRange
	hasVisible bool
	rangeSubs  []func(render.TimeRange)

	onSetLayers func() // test hook, runs inside SetLayers
}

func (s *fakeSurface) SetLayers(layers []render.Layer) {
	s.layers = layers
	s.setCalls++
	if s.onSetLayers != nil {
		s.onSetLayers()
	}
}

func (s *fakeSurface) Resize(width int) { s.width = width }

func (s *fakeSurface) Width() int { return s.width }

func (s *fakeSurface) FitContent() {
	s.fitted = true
	var min, max int64
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
	if max > 0 {
		s.applyRange(render.TimeRange{From: min, To: max})
	}
}

func (s *fakeSurface) VisibleRange() (render.TimeRange, bool) {
	return s.visible, s.hasVisible
}

func (s *fakeSurface) SetVisibleRange(r render.TimeRange) { s.applyRange(r) }

func (s *fakeSurface) applyRange(r render.TimeRange) {
	s.visible = r
	s.hasVisible = true
	for _, fn := range s.rangeSubs {
		if fn != nil {
			fn(r)
		}
	}
}

func (s *fakeSurface) SubscribeVisibleRange(fn func(render.TimeRange)) func() {
	idx := len(s.rangeSubs)
	s.rangeSubs = append(s.rangeSubs, fn)
	return func() { s.rangeSubs[idx] = nil }
}

func (s *fakeSurface) Destroy() { s.destroyed++ }

// scroll simulates a user viewport change on this surface.
func (s *fakeSurface) scroll(r render.TimeRange) { s.applyRange(r) }
