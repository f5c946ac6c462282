package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	entity "relief-exchange/internal/domain"
	"relief-exchange/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MatchResult is both aggregates after a pairing transition.
type MatchResult struct {
	Request *entity.ResourceRequest `json:"request"`
	Offer   *entity.ResourceOffer   `json:"offer"`
	Degradation
}

type FulfillResult struct {
	Offer    *entity.ResourceOffer     `json:"offer"`
	Requests []*entity.ResourceRequest `json:"requests"`
	// Withdrawn holds other offers whose pending pairings with the fulfilled
	// requests were rejected.
	Withdrawn []*entity.ResourceOffer `json:"withdrawn,omitempty"`
	Degradation
}

type CancelResult struct {
	Request *entity.ResourceRequest `json:"request"`
	Offers  []*entity.ResourceOffer `json:"offers"`
	Degradation
}

// --- MATCHING SERVICE STRUCT ---
type MatchingService struct {
	requests   repository.RequestRepository
	offers     repository.OfferRepository
	atomic     repository.AtomicWriter
	dispatcher *Dispatcher
	clock      Clock
	logger     *zap.Logger
}

func NewMatchingService(store repository.Store, dispatcher *Dispatcher, clock Clock, logger *zap.Logger) *MatchingService {
	return &MatchingService{
		requests:   store.Requests,
		offers:     store.Offers,
		atomic:     store.Atomic,
		dispatcher: dispatcher,
		clock:      clock,
		logger:     nopLogger(logger),
	}
}

// --- HELPER FUNCTIONS ---

// loadPair reads both aggregates fresh and applies lazy expiry to the offer.
func (s *MatchingService) loadPair(ctx context.Context, requestID, offerID uuid.UUID) (*entity.ResourceRequest, *entity.ResourceOffer, error) {
	req, err := s.requests.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, nil, translate(err, "request "+requestID.String())
	}
	offer, err := s.loadOffer(ctx, offerID)
	if err != nil {
		return nil, nil, err
	}
	return req, offer, nil
}

func (s *MatchingService) loadOffer(ctx context.Context, offerID uuid.UUID) (*entity.ResourceOffer, error) {
	offer, err := s.offers.GetOfferByID(ctx, offerID)
	if err != nil {
		return nil, translate(err, "offer "+offerID.String())
	}
	expireOnRead(ctx, s.offers, offer, s.clock.now(), s.logger)
	return offer, nil
}

func checkOfferActionable(o *entity.ResourceOffer) error {
	switch o.Status {
	case entity.OfferExpired:
		return fmt.Errorf("%w: offer %s has expired", ErrUnprocessable, o.ID)
	case entity.OfferFulfilled:
		return fmt.Errorf("%w: offer %s is already fulfilled", ErrUnprocessable, o.ID)
	}
	return nil
}

// pairing finds the pairing on both sides. Missing on both is NotFound;
// missing on one side means the pair needs reconciling.
func pairing(req *entity.ResourceRequest, offer *entity.ResourceOffer) (int, int, error) {
	ri, rok := req.FindMatch(offer.ID)
	oi, ook := offer.FindMatch(req.ID)
	switch {
	case !rok && !ook:
		return -1, -1, fmt.Errorf("%w: no pairing between request %s and offer %s", ErrNotFound, req.ID, offer.ID)
	case rok != ook:
		return -1, -1, fmt.Errorf("%w: pairing between request %s and offer %s is recorded on one side only, reconcile it first", ErrConflict, req.ID, offer.ID)
	}
	return ri, oi, nil
}

func (s *MatchingService) dispatch(ctx context.Context, t Transition, d *Degradation) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.OnTransition(ctx, t); err != nil {
		d.warn(fmt.Sprintf("notification for %s transition was not saved: %v", t.To, err))
	}
}

// --- MATCHING SERVICE METHODS ---

// Propose pairs a request with an offer. The caller must own either side;
// admins may propose on behalf of the system.
func (s *MatchingService) Propose(ctx context.Context, actor entity.Actor, requestID, offerID uuid.UUID, origin entity.MatchOrigin) (*MatchResult, error) {
	req, offer, err := s.loadPair(ctx, requestID, offerID)
	if err != nil {
		return nil, err
	}
	if !isOwner(actor, req.RequesterID) && !isOwner(actor, offer.ProviderID) && actor.Role != entity.RoleAdmin {
		return nil, fmt.Errorf("%w: caller owns neither the request nor the offer", ErrForbidden)
	}
	if origin == "" {
		origin = entity.OriginManual
	}

	now := s.clock.now()
	if err := checkOfferActionable(offer); err != nil {
		return nil, err
	}
	if req.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: request %s is %s", ErrUnprocessable, req.ID, req.Status)
	}
	if req.DeadlinePassed(now) {
		return nil, fmt.Errorf("%w: request %s is past its required-by time", ErrUnprocessable, req.ID)
	}
	if req.RequestType != offer.ResourceType {
		return nil, fmt.Errorf("%w: request needs %s but offer provides %s", ErrUnprocessable, req.RequestType, offer.ResourceType)
	}
	_, onRequest := req.FindMatch(offer.ID)
	_, onOffer := offer.FindMatch(req.ID)
	if onRequest || onOffer {
		return nil, fmt.Errorf("%w: request %s and offer %s are already paired", ErrConflict, req.ID, offer.ID)
	}
	allocated := Allocate(req.Quantity, offer.QuantityRemaining)
	if allocated == 0 {
		return nil, fmt.Errorf("%w: offer %s has no remaining capacity", ErrUnprocessable, offer.ID)
	}

	prevReq, prevOffer := req.Clone(), offer.Clone()

	ref := entity.MatchRef{
		RequestID: req.ID,
		OfferID:   offer.ID,
		MatchedAt: now,
		Origin:    origin,
		Status:    entity.MatchPending,
	}
	req.Matches = append(req.Matches, ref)
	req.RecomputeStatus()
	req.UpdatedAt = now

	ref.Allocated = allocated
	offer.Matches = append(offer.Matches, ref)
	offer.QuantityRemaining -= allocated
	offer.Escalate()
	offer.UpdatedAt = now

	if err := s.persist(ctx, "propose", []*entity.ResourceRequest{req}, []*entity.ResourceOffer{offer},
		[]*entity.ResourceRequest{prevReq}, []*entity.ResourceOffer{prevOffer}); err != nil {
		return nil, err
	}

	res := &MatchResult{Request: req, Offer: offer}
	s.dispatch(ctx, Transition{
		Request: req, Offer: offer,
		To:      entity.MatchPending,
		ActorID: actor.UserID,
		At:      now,
		Note:    fmt.Sprintf("allocated %d", allocated),
	}, &res.Degradation)
	return res, nil
}

// Accept commits a pending pairing. Only the requester may accept.
func (s *MatchingService) Accept(ctx context.Context, actor entity.Actor, requestID, offerID uuid.UUID) (*MatchResult, error) {
	req, offer, err := s.loadPair(ctx, requestID, offerID)
	if err != nil {
		return nil, err
	}
	if !isOwner(actor, req.RequesterID) {
		return nil, fmt.Errorf("%w: only the requester can accept a match", ErrForbidden)
	}
	if err := checkOfferActionable(offer); err != nil {
		return nil, err
	}
	if req.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: request %s is %s", ErrUnprocessable, req.ID, req.Status)
	}
	ri, oi, err := pairing(req, offer)
	if err != nil {
		return nil, err
	}
	if !req.Matches[ri].Status.CanTransitionTo(entity.MatchAccepted) || !offer.Matches[oi].Status.CanTransitionTo(entity.MatchAccepted) {
		return nil, fmt.Errorf("%w: pairing is %s, not pending", ErrConflict, req.Matches[ri].Status)
	}

	now := s.clock.now()
	prevReq, prevOffer := req.Clone(), offer.Clone()
	req.Matches[ri].Status = entity.MatchAccepted
	req.UpdatedAt = now
	offer.Matches[oi].Status = entity.MatchAccepted
	offer.Escalate()
	offer.UpdatedAt = now

	if err := s.persist(ctx, "accept", []*entity.ResourceRequest{req}, []*entity.ResourceOffer{offer},
		[]*entity.ResourceRequest{prevReq}, []*entity.ResourceOffer{prevOffer}); err != nil {
		return nil, err
	}

	res := &MatchResult{Request: req, Offer: offer}
	s.dispatch(ctx, Transition{
		Request: req, Offer: offer,
		From:    entity.MatchPending,
		To:      entity.MatchAccepted,
		ActorID: actor.UserID,
		At:      now,
	}, &res.Degradation)
	return res, nil
}

// Reject closes a pending pairing. Either party may reject; the allocation
// goes back to the offer's remaining capacity.
func (s *MatchingService) Reject(ctx context.Context, actor entity.Actor, requestID, offerID uuid.UUID) (*MatchResult, error) {
	req, offer, err := s.loadPair(ctx, requestID, offerID)
	if err != nil {
		return nil, err
	}
	if !isOwner(actor, req.RequesterID) && !isOwner(actor, offer.ProviderID) {
		return nil, fmt.Errorf("%w: caller is not a party to this match", ErrForbidden)
	}
	if err := checkOfferActionable(offer); err != nil {
		return nil, err
	}
	ri, oi, err := pairing(req, offer)
	if err != nil {
		return nil, err
	}
	if !req.Matches[ri].Status.CanTransitionTo(entity.MatchRejected) || !offer.Matches[oi].Status.CanTransitionTo(entity.MatchRejected) {
		return nil, fmt.Errorf("%w: pairing is %s, not pending", ErrConflict, req.Matches[ri].Status)
	}

	now := s.clock.now()
	prevReq, prevOffer := req.Clone(), offer.Clone()
	released := rejectPairing(req, ri, offer, oi, now)

	if err := s.persist(ctx, "reject", []*entity.ResourceRequest{req}, []*entity.ResourceOffer{offer},
		[]*entity.ResourceRequest{prevReq}, []*entity.ResourceOffer{prevOffer}); err != nil {
		return nil, err
	}

	res := &MatchResult{Request: req, Offer: offer}
	s.dispatch(ctx, Transition{
		Request: req, Offer: offer,
		From:    entity.MatchPending,
		To:      entity.MatchRejected,
		ActorID: actor.UserID,
		At:      now,
		Note:    fmt.Sprintf("released %d", released),
	}, &res.Degradation)
	return res, nil
}

// rejectPairing flips one pairing to rejected on both sides and returns the
// released allocation.
func rejectPairing(req *entity.ResourceRequest, ri int, offer *entity.ResourceOffer, oi int, now time.Time) int {
	req.Matches[ri].Status = entity.MatchRejected
	req.RecomputeStatus()
	req.UpdatedAt = now

	released := offer.Matches[oi].Allocated
	offer.Matches[oi].Status = entity.MatchRejected
	offer.Matches[oi].Allocated = 0
	offer.Release(released)
	offer.Settle()
	offer.UpdatedAt = now
	return released
}

// Fulfill completes every accepted pairing of an offer. Only the provider
// may fulfill.
func (s *MatchingService) Fulfill(ctx context.Context, actor entity.Actor, offerID uuid.UUID) (*FulfillResult, error) {
	offer, err := s.loadOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if !isOwner(actor, offer.ProviderID) {
		return nil, fmt.Errorf("%w: only the provider can fulfill an offer", ErrForbidden)
	}
	if err := checkOfferActionable(offer); err != nil {
		return nil, err
	}

	now := s.clock.now()
	prevOffer := offer.Clone()
	var (
		reqs     []*entity.ResourceRequest
		prevReqs []*entity.ResourceRequest
	)
	for oi := range offer.Matches {
		if offer.Matches[oi].Status != entity.MatchAccepted {
			continue
		}
		req, err := s.requests.GetRequestByID(ctx, offer.Matches[oi].RequestID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: offer %s has an accepted pairing with missing request %s", ErrConflict, offer.ID, offer.Matches[oi].RequestID)
		}
		if err != nil {
			return nil, translate(err, "request "+offer.Matches[oi].RequestID.String())
		}
		ri, ok := req.FindMatch(offer.ID)
		if !ok || req.Matches[ri].Status != entity.MatchAccepted {
			return nil, fmt.Errorf("%w: request %s does not hold an accepted pairing with offer %s, reconcile it first", ErrConflict, req.ID, offer.ID)
		}
		prevReqs = append(prevReqs, req.Clone())

		req.Matches[ri].Status = entity.MatchFulfilled
		req.Status = entity.RequestFulfilled
		req.UpdatedAt = now
		offer.Matches[oi].Status = entity.MatchFulfilled
		reqs = append(reqs, req)
	}
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: offer %s has no accepted pairing", ErrConflict, offer.ID)
	}
	offer.Settle()
	offer.UpdatedAt = now

	// A fulfilled request no longer needs its other pending pairings.
	w := &withdrawal{loaded: map[uuid.UUID]*entity.ResourceOffer{offer.ID: offer}}
	for _, req := range reqs {
		if err := s.withdrawPending(ctx, w, req, offer.ID, now); err != nil {
			return nil, err
		}
	}

	offers := append([]*entity.ResourceOffer{offer}, w.offers...)
	prevOffers := append([]*entity.ResourceOffer{prevOffer}, w.prevOffers...)
	if err := s.persist(ctx, "fulfill", reqs, offers, prevReqs, prevOffers); err != nil {
		return nil, err
	}

	res := &FulfillResult{Offer: offer, Requests: reqs, Withdrawn: w.offers}
	for _, req := range reqs {
		s.dispatch(ctx, Transition{
			Request: req, Offer: offer,
			From:    entity.MatchAccepted,
			To:      entity.MatchFulfilled,
			ActorID: actor.UserID,
			At:      now,
		}, &res.Degradation)
	}
	for _, p := range w.pairs {
		s.dispatch(ctx, Transition{
			Request: p.req, Offer: p.offer,
			From:    entity.MatchPending,
			To:      entity.MatchRejected,
			ActorID: actor.UserID,
			At:      now,
			Note:    "request fulfilled elsewhere",
		}, &res.Degradation)
	}
	return res, nil
}

// withdrawal collects the offers touched while withdrawing pending pairings,
// each loaded once.
type withdrawal struct {
	loaded     map[uuid.UUID]*entity.ResourceOffer
	offers     []*entity.ResourceOffer
	prevOffers []*entity.ResourceOffer
	pairs      []withdrawnPair
}

type withdrawnPair struct {
	req   *entity.ResourceRequest
	offer *entity.ResourceOffer
}

// withdrawPending rejects req's pending pairings with offers other than
// except and returns their allocations.
func (s *MatchingService) withdrawPending(ctx context.Context, w *withdrawal, req *entity.ResourceRequest, except uuid.UUID, now time.Time) error {
	for ri := range req.Matches {
		m := req.Matches[ri]
		if m.Status != entity.MatchPending || m.OfferID == except {
			continue
		}
		other, ok := w.loaded[m.OfferID]
		if !ok {
			o, err := s.loadOffer(ctx, m.OfferID)
			if errors.Is(err, ErrNotFound) {
				req.Matches[ri].Status = entity.MatchRejected
				continue
			}
			if err != nil {
				return err
			}
			other = o
			w.loaded[o.ID] = o
			w.prevOffers = append(w.prevOffers, o.Clone())
			w.offers = append(w.offers, o)
		}
		oi, ok := other.FindMatch(req.ID)
		if !ok {
			req.Matches[ri].Status = entity.MatchRejected
			continue
		}
		rejectPairing(req, ri, other, oi, now)
		w.pairs = append(w.pairs, withdrawnPair{req: req, offer: other})
	}
	return nil
}

// CancelRequest withdraws a request. Pending pairings are rejected and their
// capacity released; a request with an accepted pairing cannot be cancelled.
func (s *MatchingService) CancelRequest(ctx context.Context, actor entity.Actor, requestID uuid.UUID) (*CancelResult, error) {
	req, err := s.requests.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, translate(err, "request "+requestID.String())
	}
	if !isOwner(actor, req.RequesterID) {
		return nil, fmt.Errorf("%w: only the requester can cancel a request", ErrForbidden)
	}
	if req.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: request %s is already %s", ErrUnprocessable, req.ID, req.Status)
	}
	if req.HasAcceptedMatches() {
		return nil, fmt.Errorf("%w: request %s has an accepted match", ErrConflict, req.ID)
	}

	now := s.clock.now()
	prevReq := req.Clone()
	var offers, prevOffers []*entity.ResourceOffer
	for ri := range req.Matches {
		if req.Matches[ri].Status != entity.MatchPending {
			continue
		}
		offer, err := s.loadOffer(ctx, req.Matches[ri].OfferID)
		if errors.Is(err, ErrNotFound) {
			s.logger.Warn("cancel: paired offer is gone",
				zap.Stringer("request_id", req.ID),
				zap.Stringer("offer_id", req.Matches[ri].OfferID))
			req.Matches[ri].Status = entity.MatchRejected
			continue
		}
		if err != nil {
			return nil, err
		}
		oi, ok := offer.FindMatch(req.ID)
		if !ok {
			req.Matches[ri].Status = entity.MatchRejected
			continue
		}
		prevOffers = append(prevOffers, offer.Clone())
		rejectPairing(req, ri, offer, oi, now)
		offers = append(offers, offer)
	}
	req.Status = entity.RequestCancelled
	req.UpdatedAt = now

	if err := s.persist(ctx, "cancel", []*entity.ResourceRequest{req}, offers,
		[]*entity.ResourceRequest{prevReq}, prevOffers); err != nil {
		return nil, err
	}

	res := &CancelResult{Request: req, Offers: offers}
	for _, offer := range offers {
		s.dispatch(ctx, Transition{
			Request: req, Offer: offer,
			From:    entity.MatchPending,
			To:      entity.MatchRejected,
			ActorID: actor.UserID,
			At:      now,
			Note:    "request cancelled",
		}, &res.Degradation)
	}
	return res, nil
}
