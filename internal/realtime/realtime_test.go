package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	entity "relief-exchange/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserChannel(t *testing.T) {
	id := uuid.MustParse("3f2c8a4e-1111-4222-8333-944445555666")
	assert.Equal(t, "relief:user:3f2c8a4e-1111-4222-8333-944445555666", UserChannel(id))
}

func TestHubDeliversToSubscribers(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs, err := hub.Subscribe(ctx, GlobalChannel)
	require.NoError(t, err)

	ev := entity.Event{Type: entity.EventMatchProposed, RequestID: uuid.New(), OfferID: uuid.New()}
	require.NoError(t, hub.Publish(ctx, GlobalChannel, ev))
	require.NoError(t, hub.Publish(ctx, UserChannel(uuid.New()), ev))

	select {
	case m := <-msgs:
		assert.Equal(t, GlobalChannel, m.Channel)
		assert.Equal(t, ev.RequestID, m.Event.RequestID)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-msgs:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

type blockingPublisher struct {
	release chan struct{}
	mu      sync.Mutex
	got     []entity.Event
}

func (p *blockingPublisher) Publish(_ context.Context, _ string, ev entity.Event) error {
	<-p.release
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, ev)
	return nil
}

func TestAsyncPublisherDropsWhenFull(t *testing.T) {
	next := &blockingPublisher{release: make(chan struct{})}
	p := NewAsyncPublisher(next, 1, zap.NewNop())

	ctx := context.Background()
	// the worker takes one event and blocks; the queue holds one more
	require.NoError(t, p.Publish(ctx, GlobalChannel, entity.Event{Type: entity.EventMatchProposed}))
	require.Eventually(t, func() bool { return len(p.queue) == 0 }, time.Second, time.Millisecond)
	require.NoError(t, p.Publish(ctx, GlobalChannel, entity.Event{Type: entity.EventMatchAccepted}))
	assert.ErrorIs(t, p.Publish(ctx, GlobalChannel, entity.Event{Type: entity.EventMatchRejected}), ErrQueueFull)

	close(next.release)
	p.Close()
	assert.Len(t, next.got, 2)
}

func TestAsyncPublisherRejectsAfterClose(t *testing.T) {
	next := &blockingPublisher{release: make(chan struct{})}
	close(next.release)
	p := NewAsyncPublisher(next, 4, zap.NewNop())

	ctx := context.Background()
	require.NoError(t, p.Publish(ctx, GlobalChannel, entity.Event{Type: entity.EventMatchProposed}))
	p.Close()
	p.Close()

	assert.NotPanics(t, func() {
		err := p.Publish(ctx, GlobalChannel, entity.Event{Type: entity.EventMatchAccepted})
		assert.ErrorIs(t, err, ErrClosed)
	})
	assert.Len(t, next.got, 1, "queued events drain before Close returns")
}

func TestAsyncPublisherConcurrentClose(t *testing.T) {
	next := &blockingPublisher{release: make(chan struct{})}
	close(next.release)
	p := NewAsyncPublisher(next, 64, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				err := p.Publish(context.Background(), GlobalChannel, entity.Event{Type: entity.EventMatchProposed})
				if err != nil && !errors.Is(err, ErrClosed) && !errors.Is(err, ErrQueueFull) {
					t.Errorf("unexpected publish error: %v", err)
				}
			}
		}()
	}
	assert.NotPanics(t, p.Close)
	wg.Wait()
}
