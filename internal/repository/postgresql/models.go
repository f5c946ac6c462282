package postgresql

import (
	"encoding/json"
	"fmt"
	"time"

	entity "relief-exchange/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type requestRow struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	RequesterID uuid.UUID      `gorm:"type:uuid;index"`
	RequestType string         `gorm:"size:32;index:idx_requests_search,priority:1"`
	Quantity    int            `gorm:"not null"`
	Urgency     string         `gorm:"size:16"`
	Lat         float64        `gorm:"index:idx_requests_search,priority:2"`
	Lng         float64        `gorm:"not null"`
	Address     string         `gorm:"size:512"`
	RequiredBy  time.Time      `gorm:"not null"`
	Status      string         `gorm:"size:32;index"`
	Matches     datatypes.JSON `gorm:"type:jsonb"`
	Version     int64          `gorm:"not null;default:1"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (requestRow) TableName() string { return "resource_requests" }

type requestHitRow struct {
	Row      requestRow `gorm:"embedded"`
	Distance float64
}

type offerRow struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ProviderID        uuid.UUID      `gorm:"type:uuid;index"`
	ResourceType      string         `gorm:"size:32;index:idx_offers_search,priority:1"`
	Quantity          int            `gorm:"not null"`
	QuantityRemaining int            `gorm:"not null"`
	Lat               float64        `gorm:"index:idx_offers_search,priority:2"`
	Lng               float64        `gorm:"not null"`
	Address           string         `gorm:"size:512"`
	AvailableFrom     time.Time      `gorm:"not null"`
	AvailableUntil    time.Time      `gorm:"not null;index"`
	Status            string         `gorm:"size:32;index"`
	Matches           datatypes.JSON `gorm:"type:jsonb"`
	Version           int64          `gorm:"not null;default:1"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (offerRow) TableName() string { return "resource_offers" }

type offerHitRow struct {
	Row      offerRow `gorm:"embedded"`
	Distance float64
}

type notificationRow struct {
	ID          string     `gorm:"size:24;primaryKey"`
	RecipientID uuid.UUID  `gorm:"type:uuid;index:idx_notifications_inbox,priority:1"`
	SenderID    *uuid.UUID `gorm:"type:uuid"`
	Type        string     `gorm:"size:32"`
	Title       string     `gorm:"size:255"`
	Message     string     `gorm:"type:text"`
	RequestID   *uuid.UUID `gorm:"type:uuid"`
	OfferID     *uuid.UUID `gorm:"type:uuid"`
	Priority    string     `gorm:"size:16"`
	IsRead      bool       `gorm:"not null;default:false"`
	ReadAt      *time.Time
	CreatedAt   time.Time `gorm:"index:idx_notifications_inbox,priority:2"`
}

func (notificationRow) TableName() string { return "notifications" }

type historyRow struct {
	ID        string    `gorm:"size:24;primaryKey"`
	RequestID uuid.UUID `gorm:"type:uuid;index"`
	OfferID   uuid.UUID `gorm:"type:uuid;index"`
	OldStatus string    `gorm:"size:32"`
	NewStatus string    `gorm:"size:32"`
	ChangedBy string    `gorm:"size:64"`
	Timestamp time.Time `gorm:"index"`
	Note      string
}

func (historyRow) TableName() string { return "history_status" }

func encodeMatches(m []entity.MatchRef) (datatypes.JSON, error) {
	if m == nil {
		m = []entity.MatchRef{}
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode matches: %w", err)
	}
	return datatypes.JSON(raw), nil
}

func decodeMatches(raw datatypes.JSON) ([]entity.MatchRef, error) {
	if len(raw) == 0 {
		return []entity.MatchRef{}, nil
	}
	var m []entity.MatchRef
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode matches: %w", err)
	}
	return m, nil
}

func toRequestRow(r *entity.ResourceRequest) (requestRow, error) {
	matches, err := encodeMatches(r.Matches)
	if err != nil {
		return requestRow{}, err
	}
	return requestRow{
		ID:          r.ID,
		RequesterID: r.RequesterID,
		RequestType: string(r.RequestType),
		Quantity:    r.Quantity,
		Urgency:     string(r.Urgency),
		Lat:         r.Location.Lat,
		Lng:         r.Location.Lng,
		Address:     r.Address,
		RequiredBy:  r.RequiredBy,
		Status:      string(r.Status),
		Matches:     matches,
		Version:     r.Version,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

func (row requestRow) entity() (*entity.ResourceRequest, error) {
	matches, err := decodeMatches(row.Matches)
	if err != nil {
		return nil, err
	}
	return &entity.ResourceRequest{
		ID:          row.ID,
		RequesterID: row.RequesterID,
		RequestType: entity.ResourceType(row.RequestType),
		Quantity:    row.Quantity,
		Urgency:     entity.Urgency(row.Urgency),
		Location:    entity.GeoPoint{Lat: row.Lat, Lng: row.Lng},
		Address:     row.Address,
		RequiredBy:  row.RequiredBy.UTC(),
		Status:      entity.RequestStatus(row.Status),
		Matches:     matches,
		Version:     row.Version,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}, nil
}

func toOfferRow(o *entity.ResourceOffer) (offerRow, error) {
	matches, err := encodeMatches(o.Matches)
	if err != nil {
		return offerRow{}, err
	}
	return offerRow{
		ID:                o.ID,
		ProviderID:        o.ProviderID,
		ResourceType:      string(o.ResourceType),
		Quantity:          o.Quantity,
		QuantityRemaining: o.QuantityRemaining,
		Lat:               o.Location.Lat,
		Lng:               o.Location.Lng,
		Address:           o.Address,
		AvailableFrom:     o.AvailableFrom,
		AvailableUntil:    o.AvailableUntil,
		Status:            string(o.Status),
		Matches:           matches,
		Version:           o.Version,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}, nil
}

func (row offerRow) entity() (*entity.ResourceOffer, error) {
	matches, err := decodeMatches(row.Matches)
	if err != nil {
		return nil, err
	}
	return &entity.ResourceOffer{
		ID:                row.ID,
		ProviderID:        row.ProviderID,
		ResourceType:      entity.ResourceType(row.ResourceType),
		Quantity:          row.Quantity,
		QuantityRemaining: row.QuantityRemaining,
		Location:          entity.GeoPoint{Lat: row.Lat, Lng: row.Lng},
		Address:           row.Address,
		AvailableFrom:     row.AvailableFrom.UTC(),
		AvailableUntil:    row.AvailableUntil.UTC(),
		Status:            entity.OfferStatus(row.Status),
		Matches:           matches,
		Version:           row.Version,
		CreatedAt:         row.CreatedAt.UTC(),
		UpdatedAt:         row.UpdatedAt.UTC(),
	}, nil
}
