package entity

import (
	"time"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestMatched   RequestStatus = "matched"
	RequestFulfilled RequestStatus = "fulfilled"
	RequestCancelled RequestStatus = "cancelled"
)

func (s RequestStatus) IsTerminal() bool {
	return s == RequestFulfilled || s == RequestCancelled
}

type ResourceRequest struct {
	ID          uuid.UUID     `json:"id"`
	RequesterID uuid.UUID     `json:"requesterId"`
	RequestType ResourceType  `json:"requestType"`
	Quantity    int           `json:"quantity"`
	Urgency     Urgency       `json:"urgency"`
	Location    GeoPoint      `json:"location"`
	Address     string        `json:"address"`
	RequiredBy  time.Time     `json:"requiredBy"`
	Status      RequestStatus `json:"status"`
	Matches     []MatchRef    `json:"matches"`
	Version     int64         `json:"version"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type CreateRequestInput struct {
	RequestType ResourceType `json:"request_type" validate:"required,oneof=food shelter medical transport other"`
	Quantity    int          `json:"quantity" validate:"required,min=1"`
	Urgency     Urgency      `json:"urgency" validate:"required,oneof=low medium high critical"`
	Lat         float64      `json:"lat" validate:"min=-90,max=90"`
	Lng         float64      `json:"lng" validate:"min=-180,max=180"`
	Address     string       `json:"address" validate:"required,max=512"`
	RequiredBy  time.Time    `json:"required_by" validate:"required"`
}

func (r *ResourceRequest) Clone() *ResourceRequest {
	c := *r
	c.Matches = cloneMatches(r.Matches)
	return &c
}

// FindMatch returns the index of the pairing with offerID.
func (r *ResourceRequest) FindMatch(offerID uuid.UUID) (int, bool) {
	for i := range r.Matches {
		if r.Matches[i].OfferID == offerID {
			return i, true
		}
	}
	return -1, false
}

func (r *ResourceRequest) DeadlinePassed(now time.Time) bool {
	return !r.RequiredBy.After(now)
}

// HasLiveMatches reports whether any pairing is not rejected.
func (r *ResourceRequest) HasLiveMatches() bool {
	for _, m := range r.Matches {
		if m.Status != MatchRejected {
			return true
		}
	}
	return false
}

// RecomputeStatus keeps the aggregate status in line with its pairings:
// matched iff at least one pairing is not rejected, unless already terminal.
func (r *ResourceRequest) RecomputeStatus() {
	if r.Status.IsTerminal() {
		return
	}
	if r.HasLiveMatches() {
		r.Status = RequestMatched
		return
	}
	r.Status = RequestPending
}

// HasAcceptedMatches reports whether any pairing has been accepted but not
// yet fulfilled.
func (r *ResourceRequest) HasAcceptedMatches() bool {
	for _, m := range r.Matches {
		if m.Status == MatchAccepted {
			return true
		}
	}
	return false
}
