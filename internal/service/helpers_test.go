package service

import (
	"context"
	"errors"
	"sync"
	"time"

	entity "relief-exchange/internal/domain"
	"relief-exchange/internal/repository"

	"github.com/google/uuid"
)

var errBoom = errors.New("boom")

type published struct {
	channel string
	event   entity.Event
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(_ context.Context, channel string, ev entity.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{channel: channel, event: ev})
	return nil
}

func (p *recordingPublisher) on(channel string) []entity.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []entity.Event
	for _, e := range p.events {
		if e.channel == channel {
			out = append(out, e.event)
		}
	}
	return out
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, string, entity.Event) error { return errBoom }

type failingNotifications struct {
	repository.NotificationRepository
}

func (failingNotifications) SaveNotification(context.Context, *entity.Notification) error {
	return errBoom
}

// flakyOffers fails every UpdateOffer call.
type flakyOffers struct {
	repository.OfferRepository
}

func (flakyOffers) UpdateOffer(context.Context, *entity.ResourceOffer) error { return errBoom }

// flakyRequests lets the first n UpdateRequest calls through and fails the rest.
type flakyRequests struct {
	repository.RequestRepository
	mu    sync.Mutex
	allow int
}

func (f *flakyRequests) UpdateRequest(ctx context.Context, r *entity.ResourceRequest) error {
	f.mu.Lock()
	if f.allow <= 0 {
		f.mu.Unlock()
		return errBoom
	}
	f.allow--
	f.mu.Unlock()
	return f.RequestRepository.UpdateRequest(ctx, r)
}

func fixedClock(t *time.Time) Clock {
	return func() time.Time { return *t }
}

func newRequest(owner uuid.UUID, qty int, lat, lng float64, now time.Time) *entity.ResourceRequest {
	return &entity.ResourceRequest{
		ID:          uuid.New(),
		RequesterID: owner,
		RequestType: entity.ResourceFood,
		Quantity:    qty,
		Urgency:     entity.UrgencyMedium,
		Location:    entity.GeoPoint{Lat: lat, Lng: lng},
		Address:     "shelter",
		RequiredBy:  now.Add(24 * time.Hour),
		Status:      entity.RequestPending,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func newOffer(owner uuid.UUID, qty int, lat, lng float64, now time.Time) *entity.ResourceOffer {
	return &entity.ResourceOffer{
		ID:                uuid.New(),
		ProviderID:        owner,
		ResourceType:      entity.ResourceFood,
		Quantity:          qty,
		QuantityRemaining: qty,
		Location:          entity.GeoPoint{Lat: lat, Lng: lng},
		Address:           "depot",
		AvailableFrom:     now,
		AvailableUntil:    now.Add(48 * time.Hour),
		Status:            entity.OfferAvailable,
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}
