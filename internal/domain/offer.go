package entity

import (
	"time"

	"github.com/google/uuid"
)

type OfferStatus string

const (
	OfferAvailable        OfferStatus = "available"
	OfferPartiallyMatched OfferStatus = "partially_matched"
	OfferFullyMatched     OfferStatus = "fully_matched"
	OfferFulfilled        OfferStatus = "fulfilled"
	OfferExpired          OfferStatus = "expired"
)

func (s OfferStatus) IsTerminal() bool {
	return s == OfferFulfilled || s == OfferExpired
}

func (s OfferStatus) rank() int {
	switch s {
	case OfferAvailable:
		return 0
	case OfferPartiallyMatched:
		return 1
	case OfferFullyMatched:
		return 2
	}
	return 3
}

type ResourceOffer struct {
	ID                uuid.UUID    `json:"id"`
	ProviderID        uuid.UUID    `json:"providerId"`
	ResourceType      ResourceType `json:"resourceType"`
	Quantity          int          `json:"quantity"`
	QuantityRemaining int          `json:"quantityRemaining"`
	Location          GeoPoint     `json:"location"`
	Address           string       `json:"address"`
	AvailableFrom     time.Time    `json:"availableFrom"`
	AvailableUntil    time.Time    `json:"availableUntil"`
	Status            OfferStatus  `json:"status"`
	Matches           []MatchRef   `json:"matches"`
	Version           int64        `json:"version"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

type CreateOfferInput struct {
	ResourceType   ResourceType `json:"resource_type" validate:"required,oneof=food shelter medical transport other"`
	Quantity       int          `json:"quantity" validate:"required,min=1"`
	Lat            float64      `json:"lat" validate:"min=-90,max=90"`
	Lng            float64      `json:"lng" validate:"min=-180,max=180"`
	Address        string       `json:"address" validate:"required,max=512"`
	AvailableFrom  time.Time    `json:"available_from"`
	AvailableUntil time.Time    `json:"available_until" validate:"required"`
}

func (o *ResourceOffer) Clone() *ResourceOffer {
	c := *o
	c.Matches = cloneMatches(o.Matches)
	return &c
}

// FindMatch returns the index of the pairing with requestID.
func (o *ResourceOffer) FindMatch(requestID uuid.UUID) (int, bool) {
	for i := range o.Matches {
		if o.Matches[i].RequestID == requestID {
			return i, true
		}
	}
	return -1, false
}

func (o *ResourceOffer) Elapsed(now time.Time) bool {
	return !o.AvailableUntil.After(now)
}

// ExpireIfElapsed moves a non-terminal offer whose window has closed to
// expired. It reports whether the status changed.
func (o *ResourceOffer) ExpireIfElapsed(now time.Time) bool {
	if o.Status.IsTerminal() || !o.Elapsed(now) {
		return false
	}
	o.Status = OfferExpired
	o.UpdatedAt = now
	return true
}

// Escalate raises the status after a pairing change: any pairing makes the
// offer partially_matched, and it becomes fully_matched once accepted
// pairings commit the whole quantity. It never lowers the status.
func (o *ResourceOffer) Escalate() {
	if o.Status.IsTerminal() {
		return
	}
	next := OfferPartiallyMatched
	if o.CommittedTotal() >= o.Quantity {
		next = OfferFullyMatched
	}
	if next.rank() > o.Status.rank() {
		o.Status = next
	}
}

// CommittedTotal sums allocations of accepted and fulfilled pairings.
func (o *ResourceOffer) CommittedTotal() int {
	total := 0
	for _, m := range o.Matches {
		if m.Status == MatchAccepted || m.Status == MatchFulfilled {
			total += m.Allocated
		}
	}
	return total
}

// Release returns an allocation to the remaining capacity.
func (o *ResourceOffer) Release(qty int) {
	o.QuantityRemaining += qty
	if o.QuantityRemaining > o.Quantity {
		o.QuantityRemaining = o.Quantity
	}
}

func (o *ResourceOffer) AllPairingsTerminal() bool {
	for _, m := range o.Matches {
		if !m.Status.IsTerminal() {
			return false
		}
	}
	return true
}

func (o *ResourceOffer) AllocatedTotal() int {
	total := 0
	for _, m := range o.Matches {
		total += m.Allocated
	}
	return total
}

// Settle marks the offer fulfilled once at least one pairing was fulfilled
// and none is still open. An expired offer stays expired. It reports whether
// the status changed.
func (o *ResourceOffer) Settle() bool {
	if o.Status.IsTerminal() || !o.AllPairingsTerminal() {
		return false
	}
	for _, m := range o.Matches {
		if m.Status == MatchFulfilled {
			o.Status = OfferFulfilled
			return true
		}
	}
	return false
}
