package service

import (
	"context"
	"fmt"

	entity "relief-exchange/internal/domain"
	"relief-exchange/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ReconcileAction string

const (
	ReconcileNone          ReconcileAction = "none"
	ReconcileRestoredOffer ReconcileAction = "restored_offer_ref"
	ReconcileAlignedStatus ReconcileAction = "aligned_offer_status"
	ReconcileDroppedOrphan ReconcileAction = "dropped_orphan_offer_ref"
)

type ReconcileReport struct {
	RequestID uuid.UUID             `json:"requestId"`
	OfferID   uuid.UUID             `json:"offerId"`
	Action    ReconcileAction       `json:"action"`
	Offer     *entity.ResourceOffer `json:"offer,omitempty"`
}

// ReconcileService repairs pairs left inconsistent by a partial write. The
// request side is the source of truth; only the offer side is rewritten.
type ReconcileService struct {
	requests repository.RequestRepository
	offers   repository.OfferRepository
	history  repository.HistoryRepository
	clock    Clock
	logger   *zap.Logger
}

func NewReconcileService(store repository.Store, clock Clock, logger *zap.Logger) *ReconcileService {
	return &ReconcileService{
		requests: store.Requests,
		offers:   store.Offers,
		history:  store.History,
		clock:    clock,
		logger:   nopLogger(logger),
	}
}

func (s *ReconcileService) ReconcilePair(ctx context.Context, requestID, offerID uuid.UUID) (*ReconcileReport, error) {
	req, err := s.requests.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, translate(err, "request "+requestID.String())
	}
	offer, err := s.offers.GetOfferByID(ctx, offerID)
	if err != nil {
		return nil, translate(err, "offer "+offerID.String())
	}
	expireOnRead(ctx, s.offers, offer, s.clock.now(), s.logger)

	report := &ReconcileReport{RequestID: requestID, OfferID: offerID, Action: ReconcileNone}
	ri, onRequest := req.FindMatch(offerID)
	oi, onOffer := offer.FindMatch(requestID)
	now := s.clock.now()
	oldStatus := ""

	switch {
	case onRequest && !onOffer:
		ref := req.Matches[ri]
		if ref.Status != entity.MatchRejected {
			ref.Allocated = Allocate(req.Quantity, offer.QuantityRemaining)
			offer.QuantityRemaining -= ref.Allocated
			offer.Escalate()
		}
		offer.Matches = append(offer.Matches, ref)
		offer.Settle()
		report.Action = ReconcileRestoredOffer

	case onRequest && onOffer && req.Matches[ri].Status != offer.Matches[oi].Status:
		oldStatus = string(offer.Matches[oi].Status)
		want := req.Matches[ri].Status
		if want == entity.MatchRejected {
			offer.Release(offer.Matches[oi].Allocated)
			offer.Matches[oi].Allocated = 0
		}
		offer.Matches[oi].Status = want
		offer.Escalate()
		offer.Settle()
		report.Action = ReconcileAlignedStatus

	case !onRequest && onOffer:
		oldStatus = string(offer.Matches[oi].Status)
		offer.Release(offer.Matches[oi].Allocated)
		offer.Matches = append(offer.Matches[:oi], offer.Matches[oi+1:]...)
		report.Action = ReconcileDroppedOrphan

	default:
		return report, nil
	}

	offer.UpdatedAt = now
	if err := s.offers.UpdateOffer(ctx, offer); err != nil {
		return nil, translate(err, "offer "+offerID.String())
	}
	report.Offer = offer

	newStatus := "removed"
	if i, ok := offer.FindMatch(requestID); ok {
		newStatus = string(offer.Matches[i].Status)
	}
	h := &entity.HistoryStatus{
		ID:        primitive.NewObjectID(),
		RequestID: requestID,
		OfferID:   offerID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		ChangedBy: "reconciler",
		Timestamp: now,
		Note:      fmt.Sprintf("reconcile: %s", report.Action),
	}
	if err := s.history.SaveHistoryStatus(ctx, h); err != nil {
		s.logger.Warn("failed to save reconcile history", zap.Error(err))
	}
	s.logger.Info("pair reconciled",
		zap.Stringer("request_id", requestID),
		zap.Stringer("offer_id", offerID),
		zap.String("action", string(report.Action)))
	return report, nil
}
