package realtime

import (
	"context"

	"github.com/rogerio-castellano/storefront/internal/cache"
	"go.uber.org/zap"
)

// RegisterInvalidation drops the cached product whenever it is updated or
// deleted anywhere.
func RegisterInvalidation(h *Hub, c cache.ProductCache, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	invalidate := func(ctx context.Context, ev ProductEvent) error {
		logger.Debug("invalidating cached product",
			zap.String("type", string(ev.Type)),
			zap.Int("product_id", ev.ProductID),
		)
		return c.Invalidate(ctx, ev.ProductID)
	}
	h.On(ProductUpdated, invalidate)
	h.On(ProductDeleted, invalidate)
}
