// Package lifecycle glues the chart orchestrator to its two external event
// sources: dataset arrivals from the fetch layer and container resize
// notifications from the host. It guarantees that reconcile cycles are
// serialized, that stale datasets are dropped, and that resize handling
// never targets a surface mid-teardown.
package lifecycle

import (
	"log/slog"
	"sync"

	"chartdeck/internal/chart"
	"chartdeck/internal/domain"
)

// ResizeSource is an injected subscribe/unsubscribe capability for container
// width changes. Subscribe registers fn and returns an unsubscribe func.
type ResizeSource interface {
	Subscribe(fn func(width int)) (cancel func(), err error)
}

// Binding connects one Orchestrator to a ResizeSource and a stream of
// dataset arrivals.
//
// OnDataset serializes reconcile cycles: a dataset arriving while a cycle is
// in flight is queued and only the newest queued dataset is ever rendered,
// so the previous cycle's surfaces are always fully destroyed before the
// next cycle mounts. Resize events arriving mid-cycle are held back and
// applied once the cycle completes; the reverse order could resize an
// already-destroyed surface.
type Binding struct {
	orch *chart.Orchestrator
	src  ResizeSource
	log  *slog.Logger

	mu            sync.Mutex
	cancelResize  func()
	latest        *domain.Dataset
	reconciling   bool
	pendingResize int // 0 means none queued
}

// NewBinding creates an unbound Binding.
func NewBinding(orch *chart.Orchestrator, src ResizeSource, log *slog.Logger) *Binding {
	return &Binding{orch: orch, src: src, log: log}
}

// Bind installs the resize subscription. Bind is idempotent: rebinding first
// removes the previous subscription so exactly one is ever active.
func (b *Binding) Bind() error {
	b.mu.Lock()
	old := b.cancelResize
	b.cancelResize = nil
	b.mu.Unlock()

	if old != nil {
		old()
	}

	cancel, err := b.src.Subscribe(b.onResize)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.cancelResize = cancel
	b.mu.Unlock()
	return nil
}

// OnDataset records ds as the latest dataset and runs reconcile cycles until
// the rendered dataset is the latest one. Calls made while a cycle is in
// flight, including re-entrant calls from engine callbacks, return
// immediately; the running cycle picks the new dataset up before finishing.
func (b *Binding) OnDataset(ds *domain.Dataset) {
	b.mu.Lock()
	b.latest = ds
	if b.reconciling {
		// The in-flight loop re-checks latest after each cycle.
		b.mu.Unlock()
		return
	}
	b.reconciling = true

	for {
		cur := b.latest
		b.mu.Unlock()

		b.orch.Reconcile(cur)

		b.mu.Lock()
		if b.latest == cur {
			break
		}
		b.log.Debug("dataset superseded mid-cycle, reconciling newest",
			"stale", symbolOf(cur), "latest", symbolOf(b.latest))
	}
	b.reconciling = false
	width := b.pendingResize
	b.pendingResize = 0
	b.mu.Unlock()

	if width > 0 {
		b.orch.Resize(width)
	}
}

// Latest returns the most recently received dataset, rendered or not.
func (b *Binding) Latest() *domain.Dataset {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.latest
}

func (b *Binding) onResize(width int) {
	b.mu.Lock()
	if b.reconciling {
		// Hold the resize until the destroy/mount cycle finishes.
		b.pendingResize = width
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()

	b.orch.Resize(width)
}

// Unbind removes the resize subscription and destroys all panes. Idempotent;
// safe to call from both unmount and teardown paths.
func (b *Binding) Unbind() {
	b.mu.Lock()
	cancel := b.cancelResize
	b.cancelResize = nil
	b.latest = nil
	b.pendingResize = 0
	b.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	b.orch.Close()
}

func symbolOf(ds *domain.Dataset) string {
	if ds == nil {
		return ""
	}
	return ds.Symbol
}
