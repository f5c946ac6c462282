package entity

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
	PriorityUrgent NotificationPriority = "urgent"
)

// Notification type tags.
const (
	NotifyOfferMatched     = "offer_matched"
	NotifyRequestMatched   = "request_matched"
	NotifyOfferAccepted    = "offer_accepted"
	NotifyMatchRejected    = "match_rejected"
	NotifyRequestFulfilled = "request_fulfilled"
)

type Notification struct {
	ID          primitive.ObjectID   `bson:"_id" json:"id"`
	RecipientID uuid.UUID            `bson:"recipient_id" json:"recipientId"`
	SenderID    *uuid.UUID           `bson:"sender_id,omitempty" json:"senderId,omitempty"`
	Type        string               `bson:"type" json:"type"`
	Title       string               `bson:"title" json:"title"`
	Message     string               `bson:"message" json:"message"`
	RequestID   *uuid.UUID           `bson:"request_id,omitempty" json:"requestId,omitempty"`
	OfferID     *uuid.UUID           `bson:"offer_id,omitempty" json:"offerId,omitempty"`
	Priority    NotificationPriority `bson:"priority" json:"priority"`
	IsRead      bool                 `bson:"is_read" json:"isRead"`
	ReadAt      *time.Time           `bson:"read_at,omitempty" json:"readAt,omitempty"`
	CreatedAt   time.Time            `bson:"created_at" json:"createdAt"`
}

// PriorityForUrgency maps a request's urgency onto a notification priority.
func PriorityForUrgency(u Urgency) NotificationPriority {
	switch u {
	case UrgencyCritical:
		return PriorityUrgent
	case UrgencyHigh:
		return PriorityHigh
	case UrgencyLow:
		return PriorityLow
	}
	return PriorityNormal
}
