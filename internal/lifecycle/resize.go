package lifecycle

import (
	"github.com/asaskevich/EventBus"
)

// TopicResize is the event bus topic carrying container width changes.
const TopicResize = "container:resize"

// BusResizeSource adapts an EventBus to the ResizeSource capability. The bus
// is the host page's notification channel; the chart core only ever
// subscribes, it never publishes structural changes back.
type BusResizeSource struct {
	bus EventBus.Bus
}

// NewBusResizeSource wraps bus as a ResizeSource.
func NewBusResizeSource(bus EventBus.Bus) *BusResizeSource {
	return &BusResizeSource{bus: bus}
}

// Subscribe registers fn for resize events. Handlers run synchronously with
// the publisher, preserving event ordering.
func (s *BusResizeSource) Subscribe(fn func(width int)) (func(), error) {
	handler := func(width int) { fn(width) }
	if err := s.bus.Subscribe(TopicResize, handler); err != nil {
		return nil, err
	}
	cancel := func() {
		// Unsubscribe by handler identity; errors only mean it was already
		// removed.
		_ = s.bus.Unsubscribe(TopicResize, handler)
	}
	return cancel, nil
}

// PublishResize notifies subscribers of a new container width.
func PublishResize(bus EventBus.Bus, width int) {
	bus.Publish(TopicResize, width)
}
