package entity

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HistoryStatus is one pairing transition in the append-only audit trail.
type HistoryStatus struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	RequestID uuid.UUID          `bson:"request_id" json:"requestId"`
	OfferID   uuid.UUID          `bson:"offer_id" json:"offerId"`
	OldStatus string             `bson:"old_status" json:"oldStatus"`
	NewStatus string             `bson:"new_status" json:"newStatus"`
	ChangedBy string             `bson:"changed_by" json:"changedBy"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	Note      string             `bson:"note" json:"note"`
}
