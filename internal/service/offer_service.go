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

// --- OFFER SERVICE STRUCT ---
type OfferService struct {
	offers  repository.OfferRepository
	history repository.HistoryRepository
	clock   Clock
	logger  *zap.Logger
}

func NewOfferService(offers repository.OfferRepository, history repository.HistoryRepository, clock Clock, logger *zap.Logger) *OfferService {
	return &OfferService{
		offers:  offers,
		history: history,
		clock:   clock,
		logger:  nopLogger(logger),
	}
}

// expireOnRead applies lazy expiry and persists it best effort. A failed
// write leaves the stored offer to the next reader or the sweep.
func expireOnRead(ctx context.Context, offers repository.OfferRepository, o *entity.ResourceOffer, now time.Time, logger *zap.Logger) {
	if !o.ExpireIfElapsed(now) {
		return
	}
	snapshot := o.Clone()
	if err := offers.UpdateOffer(ctx, snapshot); err != nil {
		logger.Warn("failed to persist offer expiry", zap.Stringer("offer_id", o.ID), zap.Error(err))
		return
	}
	o.Version = snapshot.Version
}

// CreateOffer registers available capacity. Only providers can submit offers.
func (s *OfferService) CreateOffer(ctx context.Context, actor entity.Actor, input entity.CreateOfferInput) (*entity.ResourceOffer, error) {
	if actor.Role != entity.RoleProvider {
		return nil, fmt.Errorf("%w: only providers can submit resource offers", ErrForbidden)
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	now := s.clock.now()
	from := input.AvailableFrom.UTC()
	if input.AvailableFrom.IsZero() {
		from = now
	}
	until := input.AvailableUntil.UTC()
	if !until.After(from) || !until.After(now) {
		return nil, fmt.Errorf("%w: available_until must be in the future and after available_from", ErrInvalidInput)
	}

	offer := &entity.ResourceOffer{
		ID:                uuid.New(),
		ProviderID:        actor.UserID,
		ResourceType:      input.ResourceType,
		Quantity:          input.Quantity,
		QuantityRemaining: input.Quantity,
		Location:          entity.GeoPoint{Lat: input.Lat, Lng: input.Lng},
		Address:           input.Address,
		AvailableFrom:     from,
		AvailableUntil:    until,
		Status:            entity.OfferAvailable,
		Matches:           []entity.MatchRef{},
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.offers.CreateOffer(ctx, offer); err != nil {
		return nil, fmt.Errorf("create offer: %w", err)
	}
	s.logger.Info("offer created",
		zap.Stringer("offer_id", offer.ID),
		zap.String("type", string(offer.ResourceType)),
		zap.Int("quantity", offer.Quantity))
	return offer, nil
}

func (s *OfferService) GetOffer(ctx context.Context, id uuid.UUID) (*entity.ResourceOffer, error) {
	offer, err := s.offers.GetOfferByID(ctx, id)
	if err != nil {
		return nil, translate(err, "offer "+id.String())
	}
	expireOnRead(ctx, s.offers, offer, s.clock.now(), s.logger)
	return offer, nil
}

func (s *OfferService) GetMyOffers(ctx context.Context, actor entity.Actor) ([]entity.ResourceOffer, error) {
	offers, err := s.offers.ListOffersByProvider(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	now := s.clock.now()
	for i := range offers {
		expireOnRead(ctx, s.offers, &offers[i], now, s.logger)
	}
	return offers, nil
}

// DeleteOffer removes an offer that no live pairing points at.
func (s *OfferService) DeleteOffer(ctx context.Context, actor entity.Actor, id uuid.UUID) error {
	offer, err := s.offers.GetOfferByID(ctx, id)
	if err != nil {
		return translate(err, "offer "+id.String())
	}
	if !isOwner(actor, offer.ProviderID) {
		return fmt.Errorf("%w: only the provider can delete an offer", ErrForbidden)
	}
	for _, m := range offer.Matches {
		if m.Status != entity.MatchRejected {
			return fmt.Errorf("%w: offer %s still has matches", ErrConflict, offer.ID)
		}
	}
	if err := s.offers.DeleteOffer(ctx, offer.ID, offer.Version); err != nil {
		return translate(err, "offer "+id.String())
	}
	return nil
}

func (s *OfferService) GetOfferHistory(ctx context.Context, actor entity.Actor, id uuid.UUID) ([]entity.HistoryStatus, error) {
	offer, err := s.offers.GetOfferByID(ctx, id)
	if err != nil {
		return nil, translate(err, "offer "+id.String())
	}
	if !canAudit(actor, offer.ProviderID) {
		return nil, fmt.Errorf("%w: access denied", ErrForbidden)
	}
	return s.history.ListHistoryByOffer(ctx, id)
}

// ExpireOffers persists expiry for offers whose window has closed, up to
// batch at a time. Offers changed concurrently are left for the next run.
func (s *OfferService) ExpireOffers(ctx context.Context, batch int) (int, error) {
	now := s.clock.now()
	due, err := s.offers.ListExpirableOffers(ctx, now, batch)
	if err != nil {
		return 0, fmt.Errorf("list expirable offers: %w", err)
	}
	expired := 0
	for i := range due {
		o := &due[i]
		if !o.ExpireIfElapsed(now) {
			continue
		}
		if err := s.offers.UpdateOffer(ctx, o); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				s.logger.Warn("offer changed during expiry sweep", zap.Stringer("offer_id", o.ID))
				continue
			}
			return expired, fmt.Errorf("expire offer %s: %w", o.ID, err)
		}
		expired++
	}
	s.logger.Info("expiry sweep finished", zap.Int("expired", expired), zap.Int("scanned", len(due)))
	return expired, nil
}
