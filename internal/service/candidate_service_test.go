package service

import (
	"context"
	"testing"
	"time"

	entity "relief-exchange/internal/domain"
	"relief-exchange/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type candidateFixture struct {
	ctx       context.Context
	now       time.Time
	mem       *memory.Store
	svc       *CandidateService
	requester entity.Actor
	provider  entity.Actor
}

func newCandidateFixture(t *testing.T) *candidateFixture {
	t.Helper()
	f := &candidateFixture{
		ctx:       context.Background(),
		now:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		mem:       memory.NewStore(),
		requester: entity.Actor{UserID: uuid.New(), Role: entity.RoleRequester},
		provider:  entity.Actor{UserID: uuid.New(), Role: entity.RoleProvider},
	}
	f.svc = NewCandidateService(f.mem, f.mem, 0, fixedClock(&f.now))
	return f
}

func (f *candidateFixture) addOffer(t *testing.T, o *entity.ResourceOffer) *entity.ResourceOffer {
	t.Helper()
	require.NoError(t, f.mem.CreateOffer(f.ctx, o))
	return o
}

func (f *candidateFixture) addRequest(t *testing.T, r *entity.ResourceRequest) *entity.ResourceRequest {
	t.Helper()
	require.NoError(t, f.mem.CreateRequest(f.ctx, r))
	return r
}

func TestCandidateSearchIsSymmetric(t *testing.T) {
	f := newCandidateFixture(t)
	req := f.addRequest(t, newRequest(f.requester.UserID, 10, 0, 0, f.now))
	offer := f.addOffer(t, newOffer(f.provider.UserID, 6, 0.01, 0.01, f.now))

	offers, err := f.svc.FindCandidatesForRequest(f.ctx, f.requester, req.ID, entity.Page{})
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, offer.ID, offers[0].Offer.ID)

	reqs, err := f.svc.FindCandidatesForOffer(f.ctx, f.provider, offer.ID, entity.Page{})
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, req.ID, reqs[0].Request.ID)
	assert.InDelta(t, offers[0].DistanceMeters, reqs[0].DistanceMeters, 1e-6)
}

func TestCandidateFilter(t *testing.T) {
	f := newCandidateFixture(t)
	req := f.addRequest(t, newRequest(f.requester.UserID, 10, 0, 0, f.now))

	good := f.addOffer(t, newOffer(f.provider.UserID, 6, 0.1, 0.1, f.now))

	shelter := newOffer(f.provider.UserID, 6, 0, 0, f.now)
	shelter.ResourceType = entity.ResourceShelter
	f.addOffer(t, shelter)

	f.addOffer(t, newOffer(f.provider.UserID, 6, 1, 1, f.now)) // ~157 km away

	elapsed := newOffer(f.provider.UserID, 6, 0, 0, f.now)
	elapsed.AvailableUntil = f.now
	f.addOffer(t, elapsed)

	exhausted := newOffer(f.provider.UserID, 6, 0, 0, f.now)
	exhausted.QuantityRemaining = 0
	exhausted.Status = entity.OfferPartiallyMatched
	f.addOffer(t, exhausted)

	committed := newOffer(f.provider.UserID, 6, 0, 0, f.now)
	committed.Status = entity.OfferFullyMatched
	f.addOffer(t, committed)

	hits, err := f.svc.FindCandidatesForRequest(f.ctx, f.requester, req.ID, entity.Page{})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, good.ID, hits[0].Offer.ID)
	assert.LessOrEqual(t, hits[0].DistanceMeters, f.svc.RadiusMeters())
}

func TestCandidatesNearestThenNewest(t *testing.T) {
	f := newCandidateFixture(t)
	req := f.addRequest(t, newRequest(f.requester.UserID, 10, 0, 0, f.now))

	farther := f.addOffer(t, newOffer(f.provider.UserID, 6, 0.05, 0.05, f.now))
	older := newOffer(f.provider.UserID, 6, 0.01, 0.01, f.now.Add(-2*time.Hour))
	f.addOffer(t, older)
	newer := newOffer(f.provider.UserID, 6, 0.01, 0.01, f.now.Add(-time.Hour))
	f.addOffer(t, newer)

	hits, err := f.svc.FindCandidatesForRequest(f.ctx, f.requester, req.ID, entity.Page{})
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, newer.ID, hits[0].Offer.ID)
	assert.Equal(t, older.ID, hits[1].Offer.ID)
	assert.Equal(t, farther.ID, hits[2].Offer.ID)

	page, err := f.svc.FindCandidatesForRequest(f.ctx, f.requester, req.ID, entity.Page{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, older.ID, page[0].Offer.ID)
}

func TestCandidateAnchorErrors(t *testing.T) {
	f := newCandidateFixture(t)
	req := f.addRequest(t, newRequest(f.requester.UserID, 10, 0, 0, f.now))
	offer := f.addOffer(t, newOffer(f.provider.UserID, 6, 0, 0, f.now))

	_, err := f.svc.FindCandidatesForRequest(f.ctx, f.requester, uuid.New(), entity.Page{})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.svc.FindCandidatesForRequest(f.ctx, f.provider, req.ID, entity.Page{})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.FindCandidatesForOffer(f.ctx, f.requester, offer.ID, entity.Page{})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.OfferCandidates(f.ctx, f.provider, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCandidateSequencePagesLazily(t *testing.T) {
	f := newCandidateFixture(t)
	offer := f.addOffer(t, newOffer(f.provider.UserID, 6, 0, 0, f.now))
	const total = candidatePageSize + 12
	for i := range total {
		f.addRequest(t, newRequest(uuid.New(), 2, float64(i)*0.001, 0, f.now))
	}

	seq, err := f.svc.OfferCandidates(f.ctx, f.provider, offer.ID)
	require.NoError(t, err)

	count := 0
	last := -1.0
	for hit, err := range seq {
		require.NoError(t, err)
		assert.GreaterOrEqual(t, hit.DistanceMeters, last)
		last = hit.DistanceMeters
		count++
	}
	assert.Equal(t, total, count)

	// restartable, and stops when the caller stops
	again := 0
	for _, err := range seq {
		require.NoError(t, err)
		again++
		if again == 3 {
			break
		}
	}
	assert.Equal(t, 3, again)
}
