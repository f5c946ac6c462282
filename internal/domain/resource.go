package entity

import (
	"relief-exchange/internal/geo"

	"github.com/google/uuid"
)

type ResourceType string

const (
	ResourceFood      ResourceType = "food"
	ResourceShelter   ResourceType = "shelter"
	ResourceMedical   ResourceType = "medical"
	ResourceTransport ResourceType = "transport"
	ResourceOther     ResourceType = "other"
)

func (t ResourceType) Valid() bool {
	switch t {
	case ResourceFood, ResourceShelter, ResourceMedical, ResourceTransport, ResourceOther:
		return true
	}
	return false
}

type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// GeoPoint is a WGS84 coordinate in decimal degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DistanceTo returns the great-circle distance to p in meters.
func (g GeoPoint) DistanceTo(p GeoPoint) float64 {
	return geo.Distance(geo.Point{Lat: g.Lat, Lng: g.Lng}, geo.Point{Lat: p.Lat, Lng: p.Lng})
}

func (g GeoPoint) Point() geo.Point {
	return geo.Point{Lat: g.Lat, Lng: g.Lng}
}

// Actor is the authenticated caller as resolved by the HTTP boundary.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

// Page is an offset window over an ordered result set.
type Page struct {
	Limit  int `form:"limit" json:"limit"`
	Offset int `form:"offset" json:"offset"`
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
