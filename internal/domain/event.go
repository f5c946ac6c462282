package entity

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventMatchProposed  EventType = "match_proposed"
	EventMatchAccepted  EventType = "match_accepted"
	EventMatchRejected  EventType = "match_rejected"
	EventMatchFulfilled EventType = "match_fulfilled"
)

// EventTypeFor returns the realtime event tag for a pairing entering status.
func EventTypeFor(status MatchStatus) EventType {
	switch status {
	case MatchAccepted:
		return EventMatchAccepted
	case MatchRejected:
		return EventMatchRejected
	case MatchFulfilled:
		return EventMatchFulfilled
	}
	return EventMatchProposed
}

// Event is the realtime payload. Location is only set on global broadcasts.
type Event struct {
	Type       EventType   `json:"type"`
	RequestID  uuid.UUID   `json:"requestId"`
	OfferID    uuid.UUID   `json:"offerId"`
	Status     MatchStatus `json:"status"`
	Location   *GeoPoint   `json:"location,omitempty"`
	OccurredAt time.Time   `json:"occurredAt"`
}
