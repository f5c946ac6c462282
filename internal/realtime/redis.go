package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	entity "relief-exchange/internal/domain"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisBroker uses Redis pub/sub channels as the realtime transport.
type RedisBroker struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisBroker(client *redis.Client, logger *zap.Logger) *RedisBroker {
	return &RedisBroker{client: client, logger: logger}
}

func (b *RedisBroker) Publish(ctx context.Context, channel string, event entity.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := b.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", channel, err)
	}
	return nil
}

func (b *RedisBroker) Subscribe(ctx context.Context, channels ...string) (<-chan Message, error) {
	ps := b.client.Subscribe(ctx, channels...)
	// Wait for the subscription confirmation so errors surface here.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	out := make(chan Message)
	go func() {
		defer close(out)
		defer ps.Close()
		in := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-in:
				if !ok {
					return
				}
				var ev entity.Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					b.logger.Warn("dropping undecodable event", zap.String("channel", msg.Channel), zap.Error(err))
					continue
				}
				select {
				case out <- Message{Channel: msg.Channel, Event: ev}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
