package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	entity "relief-exchange/internal/domain"
	"relief-exchange/internal/realtime"
	"relief-exchange/internal/repository"
	"relief-exchange/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type MatchingSuite struct {
	suite.Suite
	ctx        context.Context
	now        time.Time
	mem        *memory.Store
	store      repository.Store
	pub        *recordingPublisher
	matching   *MatchingService
	candidates *CandidateService
	requester  entity.Actor
	provider   entity.Actor
}

func TestMatchingSuite(t *testing.T) {
	suite.Run(t, new(MatchingSuite))
}

func (s *MatchingSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.mem = memory.NewStore()
	s.store = s.mem.Bundle()
	s.pub = &recordingPublisher{}
	s.requester = entity.Actor{UserID: uuid.New(), Role: entity.RoleRequester}
	s.provider = entity.Actor{UserID: uuid.New(), Role: entity.RoleProvider}
	s.build()
}

// build wires services over s.store so tests can swap repositories first.
func (s *MatchingSuite) build() {
	clock := fixedClock(&s.now)
	dispatcher := NewDispatcher(s.store.Notifications, s.store.History, s.pub, nil)
	s.matching = NewMatchingService(s.store, dispatcher, clock, nil)
	s.candidates = NewCandidateService(s.store.Requests, s.store.Offers, 0, clock)
}

func (s *MatchingSuite) seed(req *entity.ResourceRequest, offer *entity.ResourceOffer) {
	if req != nil {
		s.Require().NoError(s.mem.CreateRequest(s.ctx, req))
	}
	if offer != nil {
		s.Require().NoError(s.mem.CreateOffer(s.ctx, offer))
	}
}

func (s *MatchingSuite) reload(req *entity.ResourceRequest, offer *entity.ResourceOffer) (*entity.ResourceRequest, *entity.ResourceOffer) {
	r, err := s.mem.GetRequestByID(s.ctx, req.ID)
	s.Require().NoError(err)
	o, err := s.mem.GetOfferByID(s.ctx, offer.ID)
	s.Require().NoError(err)
	return r, o
}

func (s *MatchingSuite) inbox(user uuid.UUID) []entity.Notification {
	list, err := s.mem.ListNotifications(s.ctx, user, false, entity.Page{Limit: 100})
	s.Require().NoError(err)
	return list
}

func (s *MatchingSuite) TestFoodScenarioEndToEnd() {
	req := newRequest(s.requester.UserID, 10, 0, 0, s.now)
	offer := newOffer(s.provider.UserID, 6, 0.01, 0.01, s.now)
	s.seed(req, offer)

	hits, err := s.candidates.FindCandidatesForRequest(s.ctx, s.requester, req.ID, entity.Page{})
	s.Require().NoError(err)
	s.Require().Len(hits, 1)
	s.Equal(offer.ID, hits[0].Offer.ID)

	res, err := s.matching.Propose(s.ctx, s.requester, req.ID, offer.ID, entity.OriginManual)
	s.Require().NoError(err)
	s.False(res.Degraded)
	s.Equal(entity.RequestMatched, res.Request.Status)
	s.Equal(entity.OfferPartiallyMatched, res.Offer.Status)
	s.Require().Len(res.Offer.Matches, 1)
	s.Equal(6, res.Offer.Matches[0].Allocated)
	s.Equal(0, res.Request.Matches[0].Allocated)
	s.Equal(entity.MatchPending, res.Request.Matches[0].Status)

	providerInbox := s.inbox(s.provider.UserID)
	s.Require().Len(providerInbox, 1)
	s.Equal(entity.NotifyOfferMatched, providerInbox[0].Type)
	s.Empty(s.inbox(s.requester.UserID))

	_, err = s.matching.Accept(s.ctx, s.requester, req.ID, offer.ID)
	s.Require().NoError(err)

	done, err := s.matching.Fulfill(s.ctx, s.provider, offer.ID)
	s.Require().NoError(err)
	s.Equal(entity.OfferFulfilled, done.Offer.Status)
	s.Require().Len(done.Requests, 1)

	stored, storedOffer := s.reload(req, offer)
	s.Equal(entity.RequestFulfilled, stored.Status)
	s.Equal(entity.MatchFulfilled, stored.Matches[0].Status)
	s.Equal(entity.OfferFulfilled, storedOffer.Status)
	s.Equal(entity.MatchFulfilled, storedOffer.Matches[0].Status)

	requesterInbox := s.inbox(s.requester.UserID)
	s.Require().Len(requesterInbox, 1)
	s.Equal(entity.NotifyRequestFulfilled, requesterInbox[0].Type)
}

func (s *MatchingSuite) TestProposeKeepsBothSidesInStep() {
	req := newRequest(s.requester.UserID, 4, 0, 0, s.now)
	offer := newOffer(s.provider.UserID, 10, 0.01, 0.01, s.now)
	s.seed(req, offer)

	_, err := s.matching.Propose(s.ctx, s.provider, req.ID, offer.ID, entity.OriginManual)
	s.Require().NoError(err)

	stored, storedOffer := s.reload(req, offer)
	s.Require().Len(stored.Matches, 1)
	s.Require().Len(storedOffer.Matches, 1)
	s.Equal(offer.ID, stored.Matches[0].OfferID)
	s.Equal(req.ID, storedOffer.Matches[0].RequestID)
	s.Equal(4, storedOffer.Matches[0].Allocated)
	s.Equal(6, storedOffer.QuantityRemaining)
	s.Equal(int64(2), stored.Version)
	s.Equal(int64(2), storedOffer.Version)

	// the provider proposed, so the requester is told
	inbox := s.inbox(s.requester.UserID)
	s.Require().Len(inbox, 1)
	s.Equal(entity.NotifyRequestMatched, inbox[0].Type)
}

func (s *MatchingSuite) TestDuplicateProposalConflicts() {
	req := newRequest(s.requester.UserID, 4, 0, 0, s.now)
	offer := newOffer(s.provider.UserID, 10, 0, 0, s.now)
	s.seed(req, offer)

	_, err := s.matching.Propose(s.ctx, s.requester, req.ID, offer.ID, entity.OriginManual)
	s.Require().NoError(err)
	_, err = s.matching.Propose(s.ctx, s.requester, req.ID, offer.ID, entity.OriginManual)
	s.ErrorIs(err, ErrConflict)

	stored, storedOffer := s.reload(req, offer)
	s.Len(stored.Matches, 1)
	s.Len(storedOffer.Matches, 1)
	s.Equal(6, storedOffer.QuantityRemaining)
}

func (s *MatchingSuite) TestProposeAgainstElapsedOffer() {
	req := newRequest(s.requester.UserID, 4, 0, 0, s.now)
	offer := newOffer(s.provider.UserID, 10, 0, 0, s.now)
	offer.AvailableUntil = s.now.Add(-time.Minute)
	s.seed(req, offer)

	_, err := s.matching.Propose(s.ctx, s.requester, req.ID, offer.ID, entity.OriginManual)
	s.ErrorIs(err, ErrUnprocessable)

	stored, storedOffer := s.reload(req, offer)
	s.Empty(stored.Matches)
	s.Empty(storedOffer.Matches)
	s.Equal(entity.OfferExpired, storedOffer.Status, "expiry is persisted on read")
}

func (s *MatchingSuite) TestProposePreconditions() {
	req := newRequest(s.requester.UserID, 4, 0, 0, s.now)
	offer := newOffer(s.provider.UserID, 10, 0, 0, s.now)
	shelter := newOffer(s.provider.UserID, 10, 0, 0, s.now)
	shelter.ResourceType = entity.ResourceShelter
	s.seed(req, offer)
	s.seed(nil, shelter)

	stranger := entity.Actor{UserID: uuid.New(), Role: entity.RoleProvider}
	_, err := s.matching.Propose(s.ctx, stranger, req.ID, offer.ID, entity.OriginManual)
	s.ErrorIs(err, ErrForbidden)

	_, err = s.matching.Propose(s.ctx, s.requester, uuid.New(), offer.ID, entity.OriginManual)
	s.ErrorIs(err, ErrNotFound)

	_, err = s.matching.Propose(s.ctx, s.requester, req.ID, uuid.New(), entity.OriginManual)
	s.ErrorIs(err, ErrNotFound)

	_, err = s.matching.Propose(s.ctx, s.requester, req.ID, shelter.ID, entity.OriginManual)
	s.ErrorIs(err, ErrUnprocessable)

	admin := entity.Actor{UserID: uuid.New(), Role: entity.RoleAdmin}
	res, err := s.matching.Propose(s.ctx, admin, req.ID, offer.ID, entity.OriginSystem)
	s.Require().NoError(err)
	s.Equal(entity.OriginSystem, res.Request.Matches[0].Origin)
	// an admin proposal notifies both parties
	s.Len(s.inbox(s.requester.UserID), 1)
	s.Len(s.inbox(s.provider.UserID), 1)
}

func (s *MatchingSuite) TestProposeOnExhaustedOffer() {
	first := newRequest(s.requester.UserID, 6, 0, 0, s.now)
	second := newRequest(s.requester.UserID, 2, 0, 0, s.now)
	offer := newOffer(s.provider.UserID, 6, 0, 0, s.now)
	s.seed(first, offer)
	s.seed(second, nil)

	_, err := s.matching.Propose(s.ctx, s.requester, first.ID, offer.ID, entity.OriginManual)
	s.Require().NoError(err)
	_, err = s.matching.Propose(s.ctx, s.requester, second.ID, offer.ID, entity.OriginManual)
	s.ErrorIs(err, ErrUnprocessable)
}

func (s *MatchingSuite) TestAcceptRules() {
	req := newRequest(s.requester.UserID, 4, 0, 0, s.now)
	offer := newOffer(s.provider.UserID, 4, 0, 0, s.now)
	s.seed(req, offer)

	_, err := s.matching.Accept(s.ctx, s.requester, req.ID, offer.ID)
	s.ErrorIs(err, ErrNotFound, "no pairing yet")

	_, err = s.matching.Propose(s.ctx, s.requester, req.ID, offer.ID, entity.OriginManual)
	s.Require().NoError(err)

	_, err = s.matching.Accept(s.ctx, s.provider, req.ID, offer.ID)
	s.ErrorIs(err, ErrForbidden)

	res, err := s.matching.Accept(s.ctx, s.requester, req.ID, offer.ID)
	s.Require().NoError(err)
	s.Equal(entity.MatchAccepted, res.Request.Matches[0].Status)
	s.Equal(entity.MatchAccepted, res.Offer.Matches[0].Status)
	s.Equal(entity.OfferFullyMatched, res.Offer.Status)

	_, err = s.matching.Accept(s.ctx, s.requester, req.ID, offer.ID)
	s.ErrorIs(err, ErrConflict)

	inbox := s.inbox(s.provider.UserID)
	s.Require().Len(inbox, 2)
	s.Equal(entity.NotifyOfferAccepted, inbox[0].Type, "newest first")
}

func (s *MatchingSuite) TestAcceptOneSidedPairingNeedsReconcile() {
	req := newRequest(s.requester.UserID, 4, 0, 0, s.now)
	offer := newOffer(s.provider.UserID, 10, 0, 0, s.now)
	req.Matches = []entity.MatchRef{{RequestID: req.ID, OfferID: offer.ID, Status: entity.MatchPending, MatchedAt: s.now}}
	req.Status = entity.RequestMatched
	s.seed(req, offer)

	_, err := s.matching.Accept(s.ctx, s.requester, req.ID, offer.ID)
	s.ErrorIs(err, ErrConflict)
}

func (s *MatchingSuite) TestRejectReleasesCapacity() {
	req := newRequest(s.requester.UserID, 4, 0, 0, s.now)
	offer := newOffer(s.provider.UserID, 10, 0, 0, s.now)
	s.seed(req, offer)

	_, err := s.matching.Propose(s.ctx, s.requester, req.ID, offer.ID, entity.OriginManual)
	s.Require().NoError(err)

	res, err := s.matching.Reject(s.ctx, s.provider, req.ID, offer.ID)
	s.Require().NoError(err)
	s.Equal(entity.MatchRejected, res.Request.Matches[0].Status)
	s.Equal(entity.MatchRejected, res.Offer.Matches[0].Status)
	s.Equal(entity.RequestPending, res.Request.Status)
	s.Equal(10, res.Offer.QuantityRemaining)
	s.Equal(0, res.Offer.AllocatedTotal())
	s.Equal(entity.OfferPartiallyMatched, res.Offer.Status, "status does not step back")

	_, err = s.matching.Reject(s.ctx, s.requester, req.ID, offer.ID)
	s.ErrorIs(err, ErrConflict, "rejected is terminal")

	_, err = s.matching.Fulfill(s.ctx, s.provider, offer.ID)
	s.ErrorIs(err, ErrConflict)

	stored, _ := s.reload(req, offer)
	s.NotEqual(entity.RequestFulfilled, stored.Status)

	inbox := s.inbox(s.requester.UserID)
	s.Require().Len(inbox, 1)
	s.Equal(entity.NotifyMatchRejected, inbox[0].Type)
}

func (s *MatchingSuite) TestRejectByStranger() {
	req := newRequest(s.requester.UserID, 4, 0, 0, s.now)
	offer := newOffer(s.provider.UserID, 10, 0, 0, s.now)
	s.seed(req, offer)
	_, err := s.matching.Propose(s.ctx, s.requester, req.ID, offer.ID, entity.OriginManual)
	s.Require().NoError(err)

	_, err = s.matching.Reject(s.ctx, entity.Actor{UserID: uuid.New()}, req.ID, offer.ID)
	s.ErrorIs(err, ErrForbidden)
}

func (s *MatchingSuite) TestTransitionsOnExpiredOffer() {
	req := newRequest(s.requester.UserID, 4, 0, 0, s.now)
	offer := newOffer(s.provider.UserID, 10, 0, 0, s.now)
	s.seed(req, offer)
	_, err := s.matching.Propose(s.ctx, s.requester, req.ID, offer.ID, entity.OriginManual)
	s.Require().NoError(err)

	s.now = s.now.Add(72 * time.Hour)

	_, err = s.matching.Accept(s.ctx, s.requester, req.ID, offer.ID)
	s.ErrorIs(err, ErrUnprocessable)
	_, err = s.matching.Reject(s.ctx, s.requester, req.ID, offer.ID)
	s.ErrorIs(err, ErrUnprocessable)
	_, err = s.matching.Fulfill(s.ctx, s.provider, offer.ID)
	s.ErrorIs(err, ErrUnprocessable)
}

func (s *MatchingSuite) TestFulfillOnlyAcceptedPairings() {
	a := newRequest(s.requester.UserID, 3, 0, 0, s.now)
	other := entity.Actor{UserID: uuid.New(), Role: entity.RoleRequester}
	b := newRequest(other.UserID, 3, 0, 0, s.now)
	offer := newOffer(s.provider.UserID, 10, 0, 0, s.now)
	s.seed(a, offer)
	s.seed(b, nil)

	_, err := s.matching.Propose(s.ctx, s.requester, a.ID, offer.ID, entity.OriginManual)
	s.Require().NoError(err)
	_, err = s.matching.Propose(s.ctx, other, b.ID, offer.ID, entity.OriginManual)
	s.Require().NoError(err)
	_, err = s.matching.Accept(s.ctx, s.requester, a.ID, offer.ID)
	s.Require().NoError(err)

	_, err = s.matching.Fulfill(s.ctx, s.requester, offer.ID)
	s.ErrorIs(err, ErrForbidden)

	res, err := s.matching.Fulfill(s.ctx, s.provider, offer.ID)
	s.Require().NoError(err)
	s.Require().Len(res.Requests, 1)
	s.Equal(a.ID, res.Requests[0].ID)
	s.NotEqual(entity.OfferFulfilled, res.Offer.Status, "b is still pending")

	// closing the last open pairing settles the offer
	rej, err := s.matching.Reject(s.ctx, other, b.ID, offer.ID)
	s.Require().NoError(err)
	s.Equal(entity.OfferFulfilled, rej.Offer.Status)

	storedB, _ := s.reload(b, offer)
	s.Equal(entity.RequestPending, storedB.Status)
}

func (s *MatchingSuite) TestCancelRequest() {
	req := newRequest(s.requester.UserID, 4, 0, 0, s.now)
	offer := newOffer(s.provider.UserID, 10, 0, 0, s.now)
	s.seed(req, offer)
	_, err := s.matching.Propose(s.ctx, s.requester, req.ID, offer.ID, entity.OriginManual)
	s.Require().NoError(err)

	_, err = s.matching.CancelRequest(s.ctx, s.provider, req.ID)
	s.ErrorIs(err, ErrForbidden)

	res, err := s.matching.CancelRequest(s.ctx, s.requester, req.ID)
	s.Require().NoError(err)
	s.Equal(entity.RequestCancelled, res.Request.Status)
	s.Require().Len(res.Offers, 1)
	s.Equal(10, res.Offers[0].QuantityRemaining)

	stored, storedOffer := s.reload(req, offer)
	s.Equal(entity.MatchRejected, stored.Matches[0].Status)
	s.Equal(entity.MatchRejected, storedOffer.Matches[0].Status)

	_, err = s.matching.CancelRequest(s.ctx, s.requester, req.ID)
	s.ErrorIs(err, ErrUnprocessable)
}

func (s *MatchingSuite) TestCancelWithAcceptedMatchConflicts() {
	req := newRequest(s.requester.UserID, 4, 0, 0, s.now)
	offer := newOffer(s.provider.UserID, 10, 0, 0, s.now)
	s.seed(req, offer)
	_, err := s.matching.Propose(s.ctx, s.requester, req.ID, offer.ID, entity.OriginManual)
	s.Require().NoError(err)
	_, err = s.matching.Accept(s.ctx, s.requester, req.ID, offer.ID)
	s.Require().NoError(err)

	_, err = s.matching.CancelRequest(s.ctx, s.requester, req.ID)
	s.ErrorIs(err, ErrConflict)
}

// partlyFulfilledOffer returns an offer with one fulfilled pairing and one
// still pending for the returned request.
func (s *MatchingSuite) partlyFulfilledOffer() (*entity.ResourceOffer, *entity.ResourceRequest, entity.Actor) {
	a := newRequest(s.requester.UserID, 3, 0, 0, s.now)
	other := entity.Actor{UserID: uuid.New(), Role: entity.RoleRequester}
	b := newRequest(other.UserID, 3, 0, 0, s.now)
	offer := newOffer(s.provider.UserID, 10, 0, 0, s.now)
	s.seed(a, offer)
	s.seed(b, nil)

	_, err := s.matching.Propose(s.ctx, s.requester, a.ID, offer.ID, entity.OriginManual)
	s.Require().NoError(err)
	_, err = s.matching.Propose(s.ctx, other, b.ID, offer.ID, entity.OriginManual)
	s.Require().NoError(err)
	_, err = s.matching.Accept(s.ctx, s.requester, a.ID, offer.ID)
	s.Require().NoError(err)
	res, err := s.matching.Fulfill(s.ctx, s.provider, offer.ID)
	s.Require().NoError(err)
	s.Require().Equal(entity.OfferPartiallyMatched, res.Offer.Status)
	return offer, b, other
}

func (s *MatchingSuite) TestCancelAfterExpirySweepKeepsOfferExpired() {
	offer, b, other := s.partlyFulfilledOffer()

	s.now = s.now.Add(72 * time.Hour)
	expired, err := NewOfferService(s.store.Offers, s.store.History, fixedClock(&s.now), nil).ExpireOffers(s.ctx, 0)
	s.Require().NoError(err)
	s.Equal(1, expired)

	res, err := s.matching.CancelRequest(s.ctx, other, b.ID)
	s.Require().NoError(err)
	s.Require().Len(res.Offers, 1)
	s.Equal(entity.OfferExpired, res.Offers[0].Status)

	storedB, storedOffer := s.reload(b, offer)
	s.Equal(entity.RequestCancelled, storedB.Status)
	s.Equal(entity.OfferExpired, storedOffer.Status)
	s.Equal(entity.MatchRejected, storedOffer.Matches[1].Status)
}

func (s *MatchingSuite) TestCancelExpiresElapsedOfferOnRead() {
	offer, b, other := s.partlyFulfilledOffer()
	s.now = s.now.Add(72 * time.Hour)

	_, err := s.matching.CancelRequest(s.ctx, other, b.ID)
	s.Require().NoError(err)

	_, storedOffer := s.reload(b, offer)
	s.Equal(entity.OfferExpired, storedOffer.Status)
}

func (s *MatchingSuite) TestFulfillWithdrawsOtherPendingPairings() {
	req := newRequest(s.requester.UserID, 4, 0, 0, s.now)
	first := newOffer(s.provider.UserID, 10, 0, 0, s.now)
	second := newOffer(s.provider.UserID, 10, 0, 0, s.now)
	s.seed(req, first)
	s.seed(nil, second)

	_, err := s.matching.Propose(s.ctx, s.requester, req.ID, first.ID, entity.OriginManual)
	s.Require().NoError(err)
	_, err = s.matching.Propose(s.ctx, s.requester, req.ID, second.ID, entity.OriginManual)
	s.Require().NoError(err)
	_, err = s.matching.Accept(s.ctx, s.requester, req.ID, first.ID)
	s.Require().NoError(err)

	res, err := s.matching.Fulfill(s.ctx, s.provider, first.ID)
	s.Require().NoError(err)
	s.Equal(entity.OfferFulfilled, res.Offer.Status)
	s.Require().Len(res.Withdrawn, 1)
	s.Equal(second.ID, res.Withdrawn[0].ID)

	storedReq, storedSecond := s.reload(req, second)
	s.Equal(entity.RequestFulfilled, storedReq.Status)
	ri, ok := storedReq.FindMatch(second.ID)
	s.Require().True(ok)
	s.Equal(entity.MatchRejected, storedReq.Matches[ri].Status)

	s.Equal(10, storedSecond.QuantityRemaining)
	s.Equal(entity.MatchRejected, storedSecond.Matches[0].Status)
	s.Zero(storedSecond.Matches[0].Allocated)
	s.Equal(entity.OfferPartiallyMatched, storedSecond.Status, "status never steps back")

	var rejected bool
	for _, ev := range s.pub.on(realtime.GlobalChannel) {
		if ev.Type == entity.EventMatchRejected && ev.OfferID == second.ID {
			rejected = true
		}
	}
	s.True(rejected, "withdrawn pairing is announced")
}

func (s *MatchingSuite) TestConcurrentProposalsNeverOverAllocate() {
	for _, atomic := range []bool{true, false} {
		s.SetupTest()
		if !atomic {
			s.store.Atomic = nil
			s.build()
		}
		offer := newOffer(s.provider.UserID, 6, 0, 0, s.now)
		s.seed(nil, offer)

		const n = 8
		reqs := make([]*entity.ResourceRequest, n)
		for i := range reqs {
			reqs[i] = newRequest(s.requester.UserID, 6, 0, 0, s.now)
			s.seed(reqs[i], nil)
		}

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins int
		)
		for _, r := range reqs {
			wg.Add(1)
			go func(r *entity.ResourceRequest) {
				defer wg.Done()
				_, err := s.matching.Propose(s.ctx, s.requester, r.ID, offer.ID, entity.OriginManual)
				if err == nil {
					mu.Lock()
					wins++
					mu.Unlock()
					return
				}
				s.True(errors.Is(err, ErrConflict) || errors.Is(err, ErrUnprocessable), "unexpected error: %v", err)
			}(r)
		}
		wg.Wait()

		s.Equal(1, wins, "atomic=%v", atomic)
		stored, err := s.mem.GetOfferByID(s.ctx, offer.ID)
		s.Require().NoError(err)
		s.Equal(0, stored.QuantityRemaining)
		s.Equal(6, stored.AllocatedTotal())
		s.Len(stored.Matches, 1)

		paired := 0
		for _, r := range reqs {
			got, err := s.mem.GetRequestByID(s.ctx, r.ID)
			s.Require().NoError(err)
			paired += len(got.Matches)
		}
		s.Equal(1, paired, "losing requests were rolled back, atomic=%v", atomic)
	}
}

func (s *MatchingSuite) TestOfferWriteFailureIsCompensated() {
	req := newRequest(s.requester.UserID, 4, 0, 0, s.now)
	offer := newOffer(s.provider.UserID, 10, 0, 0, s.now)
	s.seed(req, offer)

	s.store.Atomic = nil
	s.store.Offers = flakyOffers{OfferRepository: s.mem}
	s.build()

	_, err := s.matching.Propose(s.ctx, s.requester, req.ID, offer.ID, entity.OriginManual)
	s.Require().Error(err)
	s.NotErrorIs(err, ErrPartialFailure)

	stored, storedOffer := s.reload(req, offer)
	s.Empty(stored.Matches)
	s.Equal(entity.RequestPending, stored.Status)
	s.Empty(storedOffer.Matches)
	s.Empty(s.inbox(s.provider.UserID))
}

func (s *MatchingSuite) TestFailedCompensationIsPartialFailure() {
	req := newRequest(s.requester.UserID, 4, 0, 0, s.now)
	offer := newOffer(s.provider.UserID, 10, 0, 0, s.now)
	s.seed(req, offer)

	s.store.Atomic = nil
	s.store.Offers = flakyOffers{OfferRepository: s.mem}
	s.store.Requests = &flakyRequests{RequestRepository: s.mem, allow: 1}
	s.build()

	_, err := s.matching.Propose(s.ctx, s.requester, req.ID, offer.ID, entity.OriginManual)
	s.Require().ErrorIs(err, ErrPartialFailure)

	var pf *PartialFailureError
	s.Require().True(errors.As(err, &pf))
	s.Equal("propose", pf.Op)
	s.Equal(req.ID, pf.RequestID)
	s.Equal(offer.ID, pf.OfferID)
	s.ErrorIs(pf.Cause, errBoom)
	s.ErrorIs(pf.CompensationErr, errBoom)

	// the request side advanced, which is what reconciliation repairs
	stored, storedOffer := s.reload(req, offer)
	s.Len(stored.Matches, 1)
	s.Empty(storedOffer.Matches)
}

func (s *MatchingSuite) TestNotificationFailureDegradesResult() {
	req := newRequest(s.requester.UserID, 4, 0, 0, s.now)
	offer := newOffer(s.provider.UserID, 10, 0, 0, s.now)
	s.seed(req, offer)

	s.store.Notifications = failingNotifications{NotificationRepository: s.mem}
	s.build()

	res, err := s.matching.Propose(s.ctx, s.requester, req.ID, offer.ID, entity.OriginManual)
	s.Require().NoError(err)
	s.True(res.Degraded)
	s.NotEmpty(res.Warnings)

	stored, _ := s.reload(req, offer)
	s.Len(stored.Matches, 1, "the transition stands")
}

func (s *MatchingSuite) TestPublishFailureIsSwallowed() {
	req := newRequest(s.requester.UserID, 4, 0, 0, s.now)
	offer := newOffer(s.provider.UserID, 10, 0, 0, s.now)
	s.seed(req, offer)

	dispatcher := NewDispatcher(s.store.Notifications, s.store.History, failingPublisher{}, nil)
	s.matching = NewMatchingService(s.store, dispatcher, fixedClock(&s.now), nil)

	res, err := s.matching.Propose(s.ctx, s.requester, req.ID, offer.ID, entity.OriginManual)
	s.Require().NoError(err)
	s.False(res.Degraded)
	s.Len(s.inbox(s.provider.UserID), 1)
}

func (s *MatchingSuite) TestEventsAndHistory() {
	req := newRequest(s.requester.UserID, 4, 0, 0, s.now)
	req.Urgency = entity.UrgencyCritical
	offer := newOffer(s.provider.UserID, 10, 0.01, 0.01, s.now)
	s.seed(req, offer)

	_, err := s.matching.Propose(s.ctx, s.requester, req.ID, offer.ID, entity.OriginManual)
	s.Require().NoError(err)

	global := s.pub.on(realtime.GlobalChannel)
	s.Require().Len(global, 1)
	s.Equal(entity.EventMatchProposed, global[0].Type)
	s.Require().NotNil(global[0].Location)
	s.Equal(req.Location, *global[0].Location)

	personal := s.pub.on(realtime.UserChannel(s.provider.UserID))
	s.Require().Len(personal, 1)
	s.Nil(personal[0].Location)
	s.Equal(offer.ID, personal[0].OfferID)
	s.Empty(s.pub.on(realtime.UserChannel(s.requester.UserID)))

	inbox := s.inbox(s.provider.UserID)
	s.Require().Len(inbox, 1)
	s.Equal(entity.PriorityUrgent, inbox[0].Priority)

	history, err := s.mem.ListHistoryByRequest(s.ctx, req.ID)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal("", history[0].OldStatus)
	s.Equal(string(entity.MatchPending), history[0].NewStatus)
	s.Equal(s.requester.UserID.String(), history[0].ChangedBy)
}
