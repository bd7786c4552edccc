// Package realtime carries catalog change notifications between instances
// and re-emits them to in-process listeners such as the cache invalidator.
//
// Delivery is fire-and-forget. Ordering and reconnects are whatever the
// underlying Redis or Kafka client provides.
package realtime

import (
	"context"
	"time"
)

type EventType string

const (
	ProductUpdated EventType = "product.updated"
	ProductDeleted EventType = "product.deleted"
)

type ProductEvent struct {
	Type      EventType `json:"type"`
	ProductID int       `json:"product_id"`
	At        time.Time `json:"at"`
}

func NewProductEvent(t EventType, productID int) ProductEvent {
	return ProductEvent{Type: t, ProductID: productID, At: time.Now().UTC()}
}

type Publisher interface {
	Publish(ctx context.Context, ev ProductEvent) error
}

// Source yields events until ctx is cancelled, then closes the channel.
type Source interface {
	Events(ctx context.Context) (<-chan ProductEvent, error)
}
