package realtime

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type Listener func(ctx context.Context, ev ProductEvent) error

// Hub re-emits events to the listeners registered for their type.
type Hub struct {
	mu        sync.RWMutex
	listeners map[EventType][]Listener
	logger    *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{listeners: make(map[EventType][]Listener), logger: logger}
}

func (h *Hub) On(t EventType, fn Listener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners[t] = append(h.listeners[t], fn)
}

// Emit calls every listener for ev.Type. Listener errors are logged and
// never stop the remaining listeners.
func (h *Hub) Emit(ctx context.Context, ev ProductEvent) {
	h.mu.RLock()
	listeners := append([]Listener(nil), h.listeners[ev.Type]...)
	h.mu.RUnlock()

	for _, fn := range listeners {
		if err := fn(ctx, ev); err != nil {
			h.logger.Warn("event listener failed",
				zap.String("type", string(ev.Type)),
				zap.Int("product_id", ev.ProductID),
				zap.Error(err),
			)
		}
	}
}

// Publish emits ev in-process, so a Hub can stand in for a broker when the
// service runs as a single instance.
func (h *Hub) Publish(ctx context.Context, ev ProductEvent) error {
	h.Emit(ctx, ev)
	return nil
}

// Run forwards events from src into h until ctx is done.
func Run(ctx context.Context, src Source, h *Hub) error {
	events, err := src.Events(ctx)
	if err != nil {
		return err
	}
	for ev := range events {
		h.Emit(ctx, ev)
	}
	return ctx.Err()
}
