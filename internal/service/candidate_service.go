package service

import (
	"context"
	"fmt"
	"iter"

	entity "relief-exchange/internal/domain"
	"relief-exchange/internal/repository"

	"github.com/google/uuid"
)

const (
	DefaultRadiusMeters = 50_000
	candidatePageSize   = 50
)

var (
	candidateOfferStatuses   = []entity.OfferStatus{entity.OfferAvailable, entity.OfferPartiallyMatched}
	candidateRequestStatuses = []entity.RequestStatus{entity.RequestPending, entity.RequestMatched}
)

// CandidateService searches the geo index for the other side of a match.
// It never writes.
type CandidateService struct {
	requests     repository.RequestRepository
	offers       repository.OfferRepository
	radiusMeters float64
	clock        Clock
}

func NewCandidateService(requests repository.RequestRepository, offers repository.OfferRepository, radiusMeters float64, clock Clock) *CandidateService {
	if radiusMeters <= 0 {
		radiusMeters = DefaultRadiusMeters
	}
	return &CandidateService{
		requests:     requests,
		offers:       offers,
		radiusMeters: radiusMeters,
		clock:        clock,
	}
}

func (s *CandidateService) RadiusMeters() float64 { return s.radiusMeters }

func (s *CandidateService) anchorRequest(ctx context.Context, actor entity.Actor, requestID uuid.UUID) (*entity.ResourceRequest, error) {
	req, err := s.requests.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, translate(err, "request "+requestID.String())
	}
	if !isOwner(actor, req.RequesterID) {
		return nil, fmt.Errorf("%w: only the requester can search offers for this request", ErrForbidden)
	}
	return req, nil
}

func (s *CandidateService) anchorOffer(ctx context.Context, actor entity.Actor, offerID uuid.UUID) (*entity.ResourceOffer, error) {
	offer, err := s.offers.GetOfferByID(ctx, offerID)
	if err != nil {
		return nil, translate(err, "offer "+offerID.String())
	}
	if !isOwner(actor, offer.ProviderID) {
		return nil, fmt.Errorf("%w: only the provider can search requests for this offer", ErrForbidden)
	}
	return offer, nil
}

func (s *CandidateService) offerQuery(req *entity.ResourceRequest, page entity.Page) repository.OfferQuery {
	return repository.OfferQuery{
		Near:           req.Location,
		RadiusMeters:   s.radiusMeters,
		ResourceType:   req.RequestType,
		Statuses:       candidateOfferStatuses,
		AvailableAfter: s.clock.now(),
		MinRemaining:   1,
		Page:           page.Normalize(),
	}
}

func (s *CandidateService) requestQuery(offer *entity.ResourceOffer, page entity.Page) repository.RequestQuery {
	return repository.RequestQuery{
		Near:          offer.Location,
		RadiusMeters:  s.radiusMeters,
		RequestType:   offer.ResourceType,
		Statuses:      candidateRequestStatuses,
		RequiredAfter: s.clock.now(),
		Page:          page.Normalize(),
	}
}

// FindCandidatesForRequest returns one page of offers that can serve the
// request, nearest first.
func (s *CandidateService) FindCandidatesForRequest(ctx context.Context, actor entity.Actor, requestID uuid.UUID, page entity.Page) ([]repository.OfferHit, error) {
	req, err := s.anchorRequest(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}
	hits, err := s.offers.NearbyOffers(ctx, s.offerQuery(req, page))
	if err != nil {
		return nil, fmt.Errorf("search offers: %w", err)
	}
	return hits, nil
}

// FindCandidatesForOffer returns one page of requests the offer can serve,
// nearest first.
func (s *CandidateService) FindCandidatesForOffer(ctx context.Context, actor entity.Actor, offerID uuid.UUID, page entity.Page) ([]repository.RequestHit, error) {
	offer, err := s.anchorOffer(ctx, actor, offerID)
	if err != nil {
		return nil, err
	}
	hits, err := s.requests.NearbyRequests(ctx, s.requestQuery(offer, page))
	if err != nil {
		return nil, fmt.Errorf("search requests: %w", err)
	}
	return hits, nil
}

// RequestCandidates is FindCandidatesForRequest as a lazy sequence over every
// page. The anchor is checked up front; each range starts from the first page.
func (s *CandidateService) RequestCandidates(ctx context.Context, actor entity.Actor, requestID uuid.UUID) (iter.Seq2[repository.OfferHit, error], error) {
	req, err := s.anchorRequest(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}
	return paged(func(page entity.Page) ([]repository.OfferHit, error) {
		return s.offers.NearbyOffers(ctx, s.offerQuery(req, page))
	}), nil
}

// OfferCandidates is FindCandidatesForOffer as a lazy sequence over every page.
func (s *CandidateService) OfferCandidates(ctx context.Context, actor entity.Actor, offerID uuid.UUID) (iter.Seq2[repository.RequestHit, error], error) {
	offer, err := s.anchorOffer(ctx, actor, offerID)
	if err != nil {
		return nil, err
	}
	return paged(func(page entity.Page) ([]repository.RequestHit, error) {
		return s.requests.NearbyRequests(ctx, s.requestQuery(offer, page))
	}), nil
}

func paged[T any](fetch func(entity.Page) ([]T, error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		page := entity.Page{Limit: candidatePageSize}
		for {
			items, err := fetch(page)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			for _, it := range items {
				if !yield(it, nil) {
					return
				}
			}
			if len(items) < page.Limit {
				return
			}
			page.Offset += page.Limit
		}
	}
}
