package entity

import (
	"time"

	"github.com/google/uuid"
)

// MatchStatus is the per-pairing state shared by a request and an offer.
// A freshly proposed pairing is stored as pending.
type MatchStatus string

const (
	MatchPending   MatchStatus = "pending"
	MatchAccepted  MatchStatus = "accepted"
	MatchRejected  MatchStatus = "rejected"
	MatchFulfilled MatchStatus = "fulfilled"
)

func (s MatchStatus) IsTerminal() bool {
	return s == MatchRejected || s == MatchFulfilled
}

// CanTransitionTo reports whether pending → accepted → fulfilled or
// pending → rejected allows moving from s to next.
func (s MatchStatus) CanTransitionTo(next MatchStatus) bool {
	switch s {
	case MatchPending:
		return next == MatchAccepted || next == MatchRejected
	case MatchAccepted:
		return next == MatchFulfilled
	}
	return false
}

type MatchOrigin string

const (
	OriginManual MatchOrigin = "manual"
	OriginSystem MatchOrigin = "system"
)

// MatchRef is one pairing as recorded on either aggregate. Both sides use the
// same shape; Allocated is only ever set on the offer side.
type MatchRef struct {
	RequestID uuid.UUID   `json:"requestId" bson:"request_id"`
	OfferID   uuid.UUID   `json:"offerId" bson:"offer_id"`
	MatchedAt time.Time   `json:"matchedAt" bson:"matched_at"`
	Origin    MatchOrigin `json:"origin" bson:"origin"`
	Status    MatchStatus `json:"status" bson:"status"`
	Allocated int         `json:"allocated,omitempty" bson:"allocated,omitempty"`
}

func cloneMatches(in []MatchRef) []MatchRef {
	if in == nil {
		return nil
	}
	out := make([]MatchRef, len(in))
	copy(out, in)
	return out
}
