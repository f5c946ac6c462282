package service

import (
	"context"
	"errors"

	entity "relief-exchange/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type writeStep struct {
	requestID uuid.UUID
	offerID   uuid.UUID
	apply     func(ctx context.Context) error
	undo      func(ctx context.Context) error
}

// persist writes the changed aggregates. A store with an atomic writer
// applies them as one unit; otherwise requests are written first, then
// offers, and a failure undoes the steps already applied in reverse order.
// The prev slices hold the state read before the change, index-aligned with
// the changed aggregates.
func (s *MatchingService) persist(ctx context.Context, op string,
	reqs []*entity.ResourceRequest, offers []*entity.ResourceOffer,
	prevReqs []*entity.ResourceRequest, prevOffers []*entity.ResourceOffer,
) error {
	if s.atomic != nil {
		if err := s.atomic.UpdateAggregates(ctx, reqs, offers); err != nil {
			return translate(err, op)
		}
		return nil
	}

	primaryOffer := uuid.Nil
	if len(offers) > 0 {
		primaryOffer = offers[0].ID
	}
	primaryRequest := uuid.Nil
	if len(reqs) > 0 {
		primaryRequest = reqs[0].ID
	}

	steps := make([]writeStep, 0, len(reqs)+len(offers))
	for i, r := range reqs {
		r, prev := r, prevReqs[i]
		steps = append(steps, writeStep{
			requestID: r.ID,
			offerID:   primaryOffer,
			apply:     func(ctx context.Context) error { return s.requests.UpdateRequest(ctx, r) },
			undo: func(ctx context.Context) error {
				restore := prev.Clone()
				restore.Version = r.Version
				return s.requests.UpdateRequest(ctx, restore)
			},
		})
	}
	for i, o := range offers {
		o, prev := o, prevOffers[i]
		steps = append(steps, writeStep{
			requestID: primaryRequest,
			offerID:   o.ID,
			apply:     func(ctx context.Context) error { return s.offers.UpdateOffer(ctx, o) },
			undo: func(ctx context.Context) error {
				restore := prev.Clone()
				restore.Version = o.Version
				return s.offers.UpdateOffer(ctx, restore)
			},
		})
	}
	return s.runSteps(ctx, op, steps)
}

func (s *MatchingService) runSteps(ctx context.Context, op string, steps []writeStep) error {
	for i, step := range steps {
		err := step.apply(ctx)
		if err == nil {
			continue
		}
		cause := translate(err, op)
		if i == 0 {
			return cause
		}

		// Undo with a context that outlives a cancelled caller.
		undoCtx := context.WithoutCancel(ctx)
		var compErrs []error
		failedAt := step
		for j := i - 1; j >= 0; j-- {
			if uerr := steps[j].undo(undoCtx); uerr != nil {
				if len(compErrs) == 0 {
					failedAt = steps[j]
				}
				compErrs = append(compErrs, uerr)
			}
		}
		if len(compErrs) == 0 {
			s.logger.Info("write compensated",
				zap.String("op", op),
				zap.Stringer("request_id", step.requestID),
				zap.Stringer("offer_id", step.offerID),
				zap.Error(err))
			return cause
		}

		pf := &PartialFailureError{
			Op:              op,
			RequestID:       failedAt.requestID,
			OfferID:         failedAt.offerID,
			Cause:           err,
			CompensationErr: errors.Join(compErrs...),
		}
		s.logger.Error("match pair left inconsistent",
			zap.String("op", op),
			zap.Stringer("request_id", pf.RequestID),
			zap.Stringer("offer_id", pf.OfferID),
			zap.NamedError("cause", pf.Cause),
			zap.NamedError("compensation", pf.CompensationErr))
		return pf
	}
	return nil
}
