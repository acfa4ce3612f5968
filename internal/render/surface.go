// Package render defines the boundary between the chart core and the
// underlying graphics engine: surfaces (one per visual pane), the layers and
// markers drawn on them, and the container the host page provides.
//
// Surfaces are imperative, stateful objects. They are created and destroyed
// explicitly by their owning pane controller and never shared.
package render

import "errors"

// ErrZeroWidth is returned when a surface would be created against a
// container whose layout has no measurable width yet.
var ErrZeroWidth = errors.New("render: container has zero width")

// PaneKind is the logical identity of a pane. At most one mounted surface
// exists per kind at any time.
type PaneKind string

const (
	PanePrice      PaneKind = "price"
	PaneOscillator PaneKind = "oscillator"
)

// Container is the host-owned mount target. The chart core only ever reads
// its width; it never mutates the container.
type Container interface {
	Width() int
}

// TimeRange is a half-open visible range on the shared time axis, in unix
// seconds.
type TimeRange struct {
	From int64
	To   int64
}

// SurfaceOptions configures a new surface.
type SurfaceOptions struct {
	Width  int
	Height int
	Kind   PaneKind
}

// Engine creates rendering surfaces. Engines are long-lived; surfaces are
// per-mount.
type Engine interface {
	CreateSurface(opts SurfaceOptions) (Surface, error)
}

// Surface is one mounted drawing surface. All methods must be called from
// the owning event loop; surfaces are not safe for concurrent use.
//
// A surface keeps whatever internal series objects its engine needs, but the
// only way to change what it draws is SetLayers, which replaces the full
// layer set in one call.
type Surface interface {
	// SetLayers atomically replaces every layer on the surface.
	SetLayers(layers []Layer)

	// Resize updates the surface width, preserving the visible time range.
	Resize(width int)

	// Width reports the current surface width.
	Width() int

	// FitContent sets the visible range to span all layer data.
	FitContent()

	// VisibleRange reports the current visible time range. ok is false when
	// the surface has no data yet.
	VisibleRange() (r TimeRange, ok bool)

	// SetVisibleRange sets the visible time range.
	SetVisibleRange(r TimeRange)

	// SubscribeVisibleRange registers fn to run whenever the visible range
	// changes, and returns an unsubscribe func. Used to keep panes
	// time-aligned under scroll and zoom.
	SubscribeVisibleRange(fn func(TimeRange)) (cancel func())

	// Destroy releases the surface and everything attached to it. Destroy is
	// idempotent.
	Destroy()
}
