// Package repository declares the storage contracts the matching engine
// depends on. Backends live in the memory, mongodb and postgresql packages.
package repository

import (
	"context"
	"errors"
	"time"

	entity "relief-exchange/internal/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrVersionConflict = errors.New("version conflict")
)

// OfferQuery selects offers that can serve a request located at Near.
type OfferQuery struct {
	Near           entity.GeoPoint
	RadiusMeters   float64
	ResourceType   entity.ResourceType
	Statuses       []entity.OfferStatus
	AvailableAfter time.Time // AvailableUntil must be strictly later
	MinRemaining   int
	Page           entity.Page
}

// RequestQuery selects requests that an offer located at Near can serve.
type RequestQuery struct {
	Near          entity.GeoPoint
	RadiusMeters  float64
	RequestType   entity.ResourceType
	Statuses      []entity.RequestStatus
	RequiredAfter time.Time // RequiredBy must be strictly later
	Page          entity.Page
}

type OfferHit struct {
	Offer          *entity.ResourceOffer
	DistanceMeters float64
}

type RequestHit struct {
	Request        *entity.ResourceRequest
	DistanceMeters float64
}

// Update methods are compare-and-swap on Version: the write applies only if
// the stored version equals the in-memory one, after which the in-memory
// version is incremented. A stale version yields ErrVersionConflict.
type RequestRepository interface {
	CreateRequest(ctx context.Context, r *entity.ResourceRequest) error
	GetRequestByID(ctx context.Context, id uuid.UUID) (*entity.ResourceRequest, error)
	ListRequestsByRequester(ctx context.Context, requesterID uuid.UUID) ([]entity.ResourceRequest, error)
	UpdateRequest(ctx context.Context, r *entity.ResourceRequest) error
	DeleteRequest(ctx context.Context, id uuid.UUID, version int64) error
	NearbyRequests(ctx context.Context, q RequestQuery) ([]RequestHit, error)
}

type OfferRepository interface {
	CreateOffer(ctx context.Context, o *entity.ResourceOffer) error
	GetOfferByID(ctx context.Context, id uuid.UUID) (*entity.ResourceOffer, error)
	ListOffersByProvider(ctx context.Context, providerID uuid.UUID) ([]entity.ResourceOffer, error)
	UpdateOffer(ctx context.Context, o *entity.ResourceOffer) error
	DeleteOffer(ctx context.Context, id uuid.UUID, version int64) error
	NearbyOffers(ctx context.Context, q OfferQuery) ([]OfferHit, error)
	// ListExpirableOffers returns non-terminal offers whose window closed at or before now.
	ListExpirableOffers(ctx context.Context, now time.Time, limit int) ([]entity.ResourceOffer, error)
}

// AtomicWriter is implemented by stores that can apply several aggregate
// updates as one unit. Versions follow the same CAS rule as single updates
// and are only incremented when the whole unit commits.
type AtomicWriter interface {
	UpdateAggregates(ctx context.Context, requests []*entity.ResourceRequest, offers []*entity.ResourceOffer) error
}

type NotificationRepository interface {
	SaveNotification(ctx context.Context, n *entity.Notification) error
	ListNotifications(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, page entity.Page) ([]entity.Notification, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, recipientID uuid.UUID, id primitive.ObjectID, at time.Time) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID, at time.Time) (int64, error)
}

type HistoryRepository interface {
	SaveHistoryStatus(ctx context.Context, h *entity.HistoryStatus) error
	ListHistoryByRequest(ctx context.Context, requestID uuid.UUID) ([]entity.HistoryStatus, error)
	ListHistoryByOffer(ctx context.Context, offerID uuid.UUID) ([]entity.HistoryStatus, error)
}

// Store bundles one backend's repositories. Atomic is nil when the backend
// cannot write several aggregates in one transaction.
type Store struct {
	Requests      RequestRepository
	Offers        OfferRepository
	Notifications NotificationRepository
	History       HistoryRepository
	Atomic        AtomicWriter
	Close         func(ctx context.Context) error
}
