package service

import (
	"context"
	"fmt"

	entity "relief-exchange/internal/domain"
	"relief-exchange/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// --- REQUEST SERVICE STRUCT ---
type RequestService struct {
	requests repository.RequestRepository
	history  repository.HistoryRepository
	clock    Clock
	logger   *zap.Logger
}

func NewRequestService(requests repository.RequestRepository, history repository.HistoryRepository, clock Clock, logger *zap.Logger) *RequestService {
	return &RequestService{
		requests: requests,
		history:  history,
		clock:    clock,
		logger:   nopLogger(logger),
	}
}

// CreateRequest registers a new need. Only requesters can submit requests.
func (s *RequestService) CreateRequest(ctx context.Context, actor entity.Actor, input entity.CreateRequestInput) (*entity.ResourceRequest, error) {
	if actor.Role != entity.RoleRequester {
		return nil, fmt.Errorf("%w: only requesters can submit resource requests", ErrForbidden)
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	now := s.clock.now()
	if !input.RequiredBy.After(now) {
		return nil, fmt.Errorf("%w: required_by must be in the future", ErrInvalidInput)
	}

	req := &entity.ResourceRequest{
		ID:          uuid.New(),
		RequesterID: actor.UserID,
		RequestType: input.RequestType,
		Quantity:    input.Quantity,
		Urgency:     input.Urgency,
		Location:    entity.GeoPoint{Lat: input.Lat, Lng: input.Lng},
		Address:     input.Address,
		RequiredBy:  input.RequiredBy.UTC(),
		Status:      entity.RequestPending,
		Matches:     []entity.MatchRef{},
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.requests.CreateRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	s.logger.Info("request created",
		zap.Stringer("request_id", req.ID),
		zap.String("type", string(req.RequestType)),
		zap.String("urgency", string(req.Urgency)))
	return req, nil
}

func (s *RequestService) GetRequest(ctx context.Context, id uuid.UUID) (*entity.ResourceRequest, error) {
	req, err := s.requests.GetRequestByID(ctx, id)
	if err != nil {
		return nil, translate(err, "request "+id.String())
	}
	return req, nil
}

func (s *RequestService) GetMyRequests(ctx context.Context, actor entity.Actor) ([]entity.ResourceRequest, error) {
	return s.requests.ListRequestsByRequester(ctx, actor.UserID)
}

// DeleteRequest removes a request that no live pairing points at.
func (s *RequestService) DeleteRequest(ctx context.Context, actor entity.Actor, id uuid.UUID) error {
	req, err := s.requests.GetRequestByID(ctx, id)
	if err != nil {
		return translate(err, "request "+id.String())
	}
	if !isOwner(actor, req.RequesterID) {
		return fmt.Errorf("%w: only the requester can delete a request", ErrForbidden)
	}
	if req.HasLiveMatches() {
		return fmt.Errorf("%w: request %s still has matches, cancel it instead", ErrConflict, req.ID)
	}
	if err := s.requests.DeleteRequest(ctx, req.ID, req.Version); err != nil {
		return translate(err, "request "+id.String())
	}
	return nil
}

// GetRequestHistory lists the pairing transitions of a request.
func (s *RequestService) GetRequestHistory(ctx context.Context, actor entity.Actor, id uuid.UUID) ([]entity.HistoryStatus, error) {
	req, err := s.requests.GetRequestByID(ctx, id)
	if err != nil {
		return nil, translate(err, "request "+id.String())
	}
	if !canAudit(actor, req.RequesterID) {
		return nil, fmt.Errorf("%w: access denied", ErrForbidden)
	}
	return s.history.ListHistoryByRequest(ctx, id)
}
