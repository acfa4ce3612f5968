// Package chart implements the multi-pane synchronized chart core: pane
// controllers owning one rendering surface each, the orchestrator that
// decides which panes exist for a given dataset, and the pattern-to-marker
// annotation mapper.
package chart

import (
	"errors"
	"fmt"
	"log/slog"

	"chartdeck/internal/render"
)

// ErrNotMounted is returned by pane operations that require a mounted
// surface.
var ErrNotMounted = errors.New("chart: pane is not mounted")

// ErrAlreadyMounted is returned by Mount on a pane that already holds a
// surface. Panes are single-use: mount once, destroy once.
var ErrAlreadyMounted = errors.New("chart: pane is already mounted")

// Pane owns exactly one rendering surface for one logical pane. It moves
// from unmounted to mounted via Mount and back via Destroy; after Destroy
// the pane is terminal and a new Pane must be created for the next mount.
type Pane struct {
	kind    render.PaneKind
	engine  render.Engine
	log     *slog.Logger
	surface render.Surface // nil while unmounted
}

// NewPane creates an unmounted pane of the given kind.
func NewPane(kind render.PaneKind, engine render.Engine, log *slog.Logger) *Pane {
	return &Pane{kind: kind, engine: engine, log: log}
}

// Kind returns the pane's logical identity.
func (p *Pane) Kind() render.PaneKind { return p.kind }

// Mounted reports whether the pane currently holds a surface.
func (p *Pane) Mounted() bool { return p.surface != nil }

// Surface returns the underlying surface, or nil while unmounted. Callers
// other than the orchestrator must not destroy it.
func (p *Pane) Surface() render.Surface { return p.surface }

// Mount allocates a surface sized to the container's current width and the
// given height. It fails, leaving the pane unmounted, when the container has
// no measurable width yet; callers defer until layout is ready.
func (p *Pane) Mount(container render.Container, height int) error {
	if p.surface != nil {
		return ErrAlreadyMounted
	}

	width := container.Width()
	if width <= 0 {
		return render.ErrZeroWidth
	}

	surface, err := p.engine.CreateSurface(render.SurfaceOptions{
		Width:  width,
		Height: height,
		Kind:   p.kind,
	})
	if err != nil {
		return fmt.Errorf("creating %s surface: %w", p.kind, err)
	}

	p.surface = surface
	p.log.Debug("pane mounted", "kind", p.kind, "width", width, "height", height)
	return nil
}

// SetLayers atomically replaces the pane's full layer set. Partial updates
// against a just-recreated surface are a classic source of stale-state bugs,
// so the only supported operation is full replacement.
func (p *Pane) SetLayers(layers []render.Layer) error {
	if p.surface == nil {
		return ErrNotMounted
	}
	p.surface.SetLayers(layers)
	return nil
}

// Resize updates the surface width. The visible time range is preserved.
func (p *Pane) Resize(width int) error {
	if p.surface == nil {
		return ErrNotMounted
	}
	p.surface.Resize(width)
	return nil
}

// Destroy releases the surface. Calling Destroy on an already-unmounted pane
// is a no-op; unmount and dataset-change handlers may both try to clean up
// the same pane.
func (p *Pane) Destroy() {
	if p.surface == nil {
		return
	}
	p.surface.Destroy()
	p.surface = nil
	p.log.Debug("pane destroyed", "kind", p.kind)
}
