package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	entity "relief-exchange/internal/domain"
	"relief-exchange/internal/geo"
	"relief-exchange/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type offerRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) repository.OfferRepository {
	return &offerRepository{db: db}
}

func (r *offerRepository) CreateOffer(ctx context.Context, o *entity.ResourceOffer) error {
	row, err := toOfferRow(o)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *offerRepository) GetOfferByID(ctx context.Context, id uuid.UUID) (*entity.ResourceOffer, error) {
	var row offerRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.entity()
}

func (r *offerRepository) ListOffersByProvider(ctx context.Context, providerID uuid.UUID) ([]entity.ResourceOffer, error) {
	var rows []offerRow
	if err := r.db.WithContext(ctx).Where("provider_id = ?", providerID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return offerEntities(rows)
}

func (r *offerRepository) UpdateOffer(ctx context.Context, o *entity.ResourceOffer) error {
	if err := casOffer(r.db.WithContext(ctx), o); err != nil {
		return err
	}
	o.Version++
	return nil
}

// casOffer writes o if the stored version still equals o.Version.
func casOffer(db *gorm.DB, o *entity.ResourceOffer) error {
	matches, err := encodeMatches(o.Matches)
	if err != nil {
		return err
	}
	res := db.Model(&offerRow{}).
		Where("id = ? AND version = ?", o.ID, o.Version).
		Updates(map[string]any{
			"quantity":           o.Quantity,
			"quantity_remaining": o.QuantityRemaining,
			"lat":                o.Location.Lat,
			"lng":                o.Location.Lng,
			"address":            o.Address,
			"available_from":     o.AvailableFrom,
			"available_until":    o.AvailableUntil,
			"status":             string(o.Status),
			"matches":            matches,
			"version":            o.Version + 1,
			"updated_at":         o.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("update offer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return missOrConflict(db, &offerRow{}, o.ID)
	}
	return nil
}

func (r *offerRepository) DeleteOffer(ctx context.Context, id uuid.UUID, version int64) error {
	db := r.db.WithContext(ctx)
	res := db.Where("id = ? AND version = ?", id, version).Delete(&offerRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return missOrConflict(db, &offerRow{}, id)
	}
	return nil
}

func (r *offerRepository) NearbyOffers(ctx context.Context, q repository.OfferQuery) ([]repository.OfferHit, error) {
	page := q.Page.Normalize()
	query := nearby(r.db.WithContext(ctx).Model(&offerRow{}), q.Near, q.RadiusMeters).
		Where("resource_type = ? AND available_until > ? AND quantity_remaining >= ?",
			string(q.ResourceType), q.AvailableAfter, q.MinRemaining)
	if len(q.Statuses) > 0 {
		statuses := make([]string, len(q.Statuses))
		for i, s := range q.Statuses {
			statuses[i] = string(s)
		}
		query = query.Where("status IN ?", statuses)
	}

	var rows []offerHitRow
	if err := query.Order("distance ASC, created_at DESC").Offset(page.Offset).Limit(page.Limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("nearby offers: %w", err)
	}
	out := make([]repository.OfferHit, 0, len(rows))
	for _, row := range rows {
		o, err := row.Row.entity()
		if err != nil {
			return nil, err
		}
		out = append(out, repository.OfferHit{Offer: o, DistanceMeters: geo.Distance(q.Near.Point(), o.Location.Point())})
	}
	return out, nil
}

func (r *offerRepository) ListExpirableOffers(ctx context.Context, now time.Time, limit int) ([]entity.ResourceOffer, error) {
	query := r.db.WithContext(ctx).
		Where("status NOT IN ? AND available_until <= ?", []string{string(entity.OfferFulfilled), string(entity.OfferExpired)}, now).
		Order("available_until ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []offerRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return offerEntities(rows)
}

func offerEntities(rows []offerRow) ([]entity.ResourceOffer, error) {
	out := make([]entity.ResourceOffer, 0, len(rows))
	for _, row := range rows {
		o, err := row.entity()
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, nil
}
