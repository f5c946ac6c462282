package mongodb

import (
	"time"

	entity "relief-exchange/internal/domain"

	"github.com/google/uuid"
)

// geoPoint is a GeoJSON point; coordinates are [lng, lat].
type geoPoint struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

func toGeoPoint(p entity.GeoPoint) geoPoint {
	return geoPoint{Type: "Point", Coordinates: []float64{p.Lng, p.Lat}}
}

func (g geoPoint) entity() entity.GeoPoint {
	if len(g.Coordinates) != 2 {
		return entity.GeoPoint{}
	}
	return entity.GeoPoint{Lat: g.Coordinates[1], Lng: g.Coordinates[0]}
}

type requestDocument struct {
	ID          uuid.UUID         `bson:"_id"`
	RequesterID uuid.UUID         `bson:"requester_id"`
	RequestType string            `bson:"request_type"`
	Quantity    int               `bson:"quantity"`
	Urgency     string            `bson:"urgency"`
	Location    geoPoint          `bson:"location"`
	Address     string            `bson:"address"`
	RequiredBy  time.Time         `bson:"required_by"`
	Status      string            `bson:"status"`
	Matches     []entity.MatchRef `bson:"matches"`
	Version     int64             `bson:"version"`
	CreatedAt   time.Time         `bson:"created_at"`
	UpdatedAt   time.Time         `bson:"updated_at"`
}

type requestHitDocument struct {
	requestDocument `bson:",inline"`
	Distance        float64 `bson:"distance"`
}

func toRequestDocument(r *entity.ResourceRequest) requestDocument {
	matches := r.Matches
	if matches == nil {
		matches = []entity.MatchRef{}
	}
	return requestDocument{
		ID:          r.ID,
		RequesterID: r.RequesterID,
		RequestType: string(r.RequestType),
		Quantity:    r.Quantity,
		Urgency:     string(r.Urgency),
		Location:    toGeoPoint(r.Location),
		Address:     r.Address,
		RequiredBy:  r.RequiredBy,
		Status:      string(r.Status),
		Matches:     matches,
		Version:     r.Version,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (d requestDocument) entity() *entity.ResourceRequest {
	return &entity.ResourceRequest{
		ID:          d.ID,
		RequesterID: d.RequesterID,
		RequestType: entity.ResourceType(d.RequestType),
		Quantity:    d.Quantity,
		Urgency:     entity.Urgency(d.Urgency),
		Location:    d.Location.entity(),
		Address:     d.Address,
		RequiredBy:  d.RequiredBy.UTC(),
		Status:      entity.RequestStatus(d.Status),
		Matches:     d.Matches,
		Version:     d.Version,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

type offerDocument struct {
	ID                uuid.UUID         `bson:"_id"`
	ProviderID        uuid.UUID         `bson:"provider_id"`
	ResourceType      string            `bson:"resource_type"`
	Quantity          int               `bson:"quantity"`
	QuantityRemaining int               `bson:"quantity_remaining"`
	Location          geoPoint          `bson:"location"`
	Address           string            `bson:"address"`
	AvailableFrom     time.Time         `bson:"available_from"`
	AvailableUntil    time.Time         `bson:"available_until"`
	Status            string            `bson:"status"`
	Matches           []entity.MatchRef `bson:"matches"`
	Version           int64             `bson:"version"`
	CreatedAt         time.Time         `bson:"created_at"`
	UpdatedAt         time.Time         `bson:"updated_at"`
}

type offerHitDocument struct {
	offerDocument `bson:",inline"`
	Distance      float64 `bson:"distance"`
}

func toOfferDocument(o *entity.ResourceOffer) offerDocument {
	matches := o.Matches
	if matches == nil {
		matches = []entity.MatchRef{}
	}
	return offerDocument{
		ID:                o.ID,
		ProviderID:        o.ProviderID,
		ResourceType:      string(o.ResourceType),
		Quantity:          o.Quantity,
		QuantityRemaining: o.QuantityRemaining,
		Location:          toGeoPoint(o.Location),
		Address:           o.Address,
		AvailableFrom:     o.AvailableFrom,
		AvailableUntil:    o.AvailableUntil,
		Status:            string(o.Status),
		Matches:           matches,
		Version:           o.Version,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

func (d offerDocument) entity() *entity.ResourceOffer {
	return &entity.ResourceOffer{
		ID:                d.ID,
		ProviderID:        d.ProviderID,
		ResourceType:      entity.ResourceType(d.ResourceType),
		Quantity:          d.Quantity,
		QuantityRemaining: d.QuantityRemaining,
		Location:          d.Location.entity(),
		Address:           d.Address,
		AvailableFrom:     d.AvailableFrom.UTC(),
		AvailableUntil:    d.AvailableUntil.UTC(),
		Status:            entity.OfferStatus(d.Status),
		Matches:           d.Matches,
		Version:           d.Version,
		CreatedAt:         d.CreatedAt.UTC(),
		UpdatedAt:         d.UpdatedAt.UTC(),
	}
}
