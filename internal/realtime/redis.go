package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisBus publishes and receives events on a Redis pub/sub channel.
type RedisBus struct {
	rdb     *redis.Client
	channel string
	logger  *zap.Logger
}

func NewRedisBus(rdb *redis.Client, channel string, logger *zap.Logger) *RedisBus {
	return &RedisBus{rdb: rdb, channel: channel, logger: logger}
}

func (b *RedisBus) Publish(ctx context.Context, ev ProductEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, data).Err()
}

func (b *RedisBus) Events(ctx context.Context) (<-chan ProductEvent, error) {
	ps := b.rdb.Subscribe(ctx, b.channel)
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", b.channel, err)
	}

	out := make(chan ProductEvent)
	go func() {
		defer close(out)
		defer ps.Close()

		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev ProductEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					b.logger.Warn("dropping malformed event", zap.String("channel", msg.Channel), zap.Error(err))
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
