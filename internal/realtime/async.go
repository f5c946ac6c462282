package realtime

import (
	"context"
	"sync"
	"time"

	entity "relief-exchange/internal/domain"

	"go.uber.org/zap"
)

const publishTimeout = 3 * time.Second

type envelope struct {
	channel string
	event   entity.Event
}

// AsyncPublisher queues events and hands them to the next publisher from a
// single worker goroutine. Publish never blocks; a full queue drops the event.
// After Close, Publish returns ErrClosed.
type AsyncPublisher struct {
	next   Publisher
	logger *zap.Logger
	queue  chan envelope

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewAsyncPublisher(next Publisher, size int, logger *zap.Logger) *AsyncPublisher {
	if size <= 0 {
		size = 256
	}
	p := &AsyncPublisher{
		next:   next,
		logger: logger,
		queue:  make(chan envelope, size),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *AsyncPublisher) Publish(_ context.Context, channel string, event entity.Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.queue <- envelope{channel: channel, event: event}:
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *AsyncPublisher) run() {
	defer close(p.done)
	for env := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		if err := p.next.Publish(ctx, env.channel, env.event); err != nil {
			p.logger.Warn("realtime publish failed",
				zap.String("channel", env.channel),
				zap.String("type", string(env.event.Type)),
				zap.Error(err))
		}
		cancel()
	}
}

// Close stops accepting events and waits for the queue to drain.
func (p *AsyncPublisher) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()
	<-p.done
}
