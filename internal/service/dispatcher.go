package service

import (
	"context"
	"fmt"
	"time"

	entity "relief-exchange/internal/domain"
	"relief-exchange/internal/realtime"
	"relief-exchange/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Transition describes one pairing changing status. From is empty for a new
// proposal.
type Transition struct {
	Request *entity.ResourceRequest
	Offer   *entity.ResourceOffer
	From    entity.MatchStatus
	To      entity.MatchStatus
	ActorID uuid.UUID
	At      time.Time
	Note    string
}

// Dispatcher fans a transition out to the inbox, the audit trail and the
// realtime channels. Only inbox failures are reported back.
type Dispatcher struct {
	notifications repository.NotificationRepository
	history       repository.HistoryRepository
	publisher     realtime.Publisher
	logger        *zap.Logger
}

func NewDispatcher(notifications repository.NotificationRepository, history repository.HistoryRepository, publisher realtime.Publisher, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		notifications: notifications,
		history:       history,
		publisher:     publisher,
		logger:        nopLogger(logger),
	}
}

// OnTransition notifies the counterpart of the actor. The returned error is
// the notification write failure, if any; the transition stands regardless.
func (d *Dispatcher) OnTransition(ctx context.Context, t Transition) error {
	d.recordHistory(ctx, t)

	var notifyErr error
	for _, recipient := range counterparts(t) {
		n := buildNotification(t, recipient)
		if err := d.notifications.SaveNotification(ctx, n); err != nil {
			d.logger.Warn("failed to save notification",
				zap.Stringer("recipient", recipient),
				zap.String("type", n.Type),
				zap.Error(err))
			if notifyErr == nil {
				notifyErr = fmt.Errorf("notify %s: %w", recipient, err)
			}
		}
		d.publish(ctx, realtime.UserChannel(recipient), eventFor(t, false))
	}
	d.publish(ctx, realtime.GlobalChannel, eventFor(t, true))
	return notifyErr
}

func (d *Dispatcher) publish(ctx context.Context, channel string, ev entity.Event) {
	if d.publisher == nil {
		return
	}
	if err := d.publisher.Publish(ctx, channel, ev); err != nil {
		d.logger.Warn("realtime event dropped",
			zap.String("channel", channel),
			zap.String("type", string(ev.Type)),
			zap.Error(err))
	}
}

func (d *Dispatcher) recordHistory(ctx context.Context, t Transition) {
	if d.history == nil {
		return
	}
	h := &entity.HistoryStatus{
		ID:        primitive.NewObjectID(),
		RequestID: t.Request.ID,
		OfferID:   t.Offer.ID,
		OldStatus: string(t.From),
		NewStatus: string(t.To),
		ChangedBy: t.ActorID.String(),
		Timestamp: t.At,
		Note:      t.Note,
	}
	if err := d.history.SaveHistoryStatus(ctx, h); err != nil {
		d.logger.Warn("failed to save status history",
			zap.Stringer("request_id", t.Request.ID),
			zap.Stringer("offer_id", t.Offer.ID),
			zap.Error(err))
	}
}

// counterparts returns who hears about a transition: the other party when
// the actor owns one side, both parties otherwise. Nobody is told about
// their own action.
func counterparts(t Transition) []uuid.UUID {
	requester, provider := t.Request.RequesterID, t.Offer.ProviderID
	var out []uuid.UUID
	switch t.ActorID {
	case requester:
		out = append(out, provider)
	case provider:
		out = append(out, requester)
	default:
		out = append(out, requester, provider)
	}
	filtered := out[:0]
	for _, id := range out {
		if id != t.ActorID && id != uuid.Nil {
			filtered = append(filtered, id)
		}
	}
	return filtered
}

func buildNotification(t Transition, recipient uuid.UUID) *entity.Notification {
	requestID, offerID := t.Request.ID, t.Offer.ID
	n := &entity.Notification{
		ID:          primitive.NewObjectID(),
		RecipientID: recipient,
		RequestID:   &requestID,
		OfferID:     &offerID,
		Priority:    entity.PriorityForUrgency(t.Request.Urgency),
		CreatedAt:   t.At,
	}
	if t.ActorID != uuid.Nil {
		sender := t.ActorID
		n.SenderID = &sender
	}

	kind := string(t.Request.RequestType)
	switch t.To {
	case entity.MatchPending:
		if recipient == t.Offer.ProviderID {
			n.Type = entity.NotifyOfferMatched
			n.Title = "Your offer was matched"
			n.Message = fmt.Sprintf("A %s request for %d unit(s) was matched to your offer.", kind, t.Request.Quantity)
		} else {
			n.Type = entity.NotifyRequestMatched
			n.Title = "Your request was matched"
			n.Message = fmt.Sprintf("A provider offer of %s was matched to your request.", kind)
		}
	case entity.MatchAccepted:
		n.Type = entity.NotifyOfferAccepted
		n.Title = "Match accepted"
		n.Message = fmt.Sprintf("The requester accepted your %s offer.", kind)
	case entity.MatchRejected:
		n.Type = entity.NotifyMatchRejected
		n.Title = "Match rejected"
		n.Message = fmt.Sprintf("A %s match was rejected.", kind)
	case entity.MatchFulfilled:
		n.Type = entity.NotifyRequestFulfilled
		n.Title = "Request fulfilled"
		n.Message = fmt.Sprintf("Your %s request has been fulfilled.", kind)
	}
	return n
}

func eventFor(t Transition, global bool) entity.Event {
	ev := entity.Event{
		Type:       entity.EventTypeFor(t.To),
		RequestID:  t.Request.ID,
		OfferID:    t.Offer.ID,
		Status:     t.To,
		OccurredAt: t.At,
	}
	if global {
		loc := t.Request.Location
		ev.Location = &loc
	}
	return ev
}
