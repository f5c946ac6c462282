// Package realtime delivers match events to map/dashboard clients and to
// individual users. Delivery is fire-and-forget.
package realtime

import (
	"context"
	"errors"

	entity "relief-exchange/internal/domain"

	"github.com/google/uuid"
)

const (
	GlobalChannel = "relief:events"
	userPrefix    = "relief:user:"
)

var (
	ErrQueueFull = errors.New("realtime: event queue full")
	ErrClosed    = errors.New("realtime: publisher closed")
)

func UserChannel(userID uuid.UUID) string {
	return userPrefix + userID.String()
}

type Publisher interface {
	Publish(ctx context.Context, channel string, event entity.Event) error
}

// Message is an event received on a subscribed channel.
type Message struct {
	Channel string
	Event   entity.Event
}

// Subscriber streams events until ctx is cancelled; the returned channel is
// closed afterwards.
type Subscriber interface {
	Subscribe(ctx context.Context, channels ...string) (<-chan Message, error)
}

// Broker is a transport that can both publish and subscribe.
type Broker interface {
	Publisher
	Subscriber
}
