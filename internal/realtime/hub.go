package realtime

import (
	"context"
	"sync"

	entity "relief-exchange/internal/domain"
)

const subscriberBuffer = 16

// Hub is an in-process Broker used when no Redis is configured. Slow
// subscribers lose events rather than block publishers.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan Message]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan Message]struct{})}
}

func (h *Hub) Publish(_ context.Context, channel string, event entity.Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[channel] {
		select {
		case ch <- Message{Channel: channel, Event: event}:
		default:
		}
	}
	return nil
}

func (h *Hub) Subscribe(ctx context.Context, channels ...string) (<-chan Message, error) {
	ch := make(chan Message, subscriberBuffer)
	h.mu.Lock()
	for _, c := range channels {
		if h.subs[c] == nil {
			h.subs[c] = make(map[chan Message]struct{})
		}
		h.subs[c][ch] = struct{}{}
	}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		for _, c := range channels {
			delete(h.subs[c], ch)
			if len(h.subs[c]) == 0 {
				delete(h.subs, c)
			}
		}
		h.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}
