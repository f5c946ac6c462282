package postgresql

import (
	"context"
	"errors"
	"fmt"

	entity "relief-exchange/internal/domain"
	"relief-exchange/internal/geo"
	"relief-exchange/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) repository.RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) CreateRequest(ctx context.Context, req *entity.ResourceRequest) error {
	row, err := toRequestRow(req)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *requestRepository) GetRequestByID(ctx context.Context, id uuid.UUID) (*entity.ResourceRequest, error) {
	var row requestRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.entity()
}

func (r *requestRepository) ListRequestsByRequester(ctx context.Context, requesterID uuid.UUID) ([]entity.ResourceRequest, error) {
	var rows []requestRow
	if err := r.db.WithContext(ctx).Where("requester_id = ?", requesterID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.ResourceRequest, 0, len(rows))
	for _, row := range rows {
		req, err := row.entity()
		if err != nil {
			return nil, err
		}
		out = append(out, *req)
	}
	return out, nil
}

func (r *requestRepository) UpdateRequest(ctx context.Context, req *entity.ResourceRequest) error {
	if err := casRequest(r.db.WithContext(ctx), req); err != nil {
		return err
	}
	req.Version++
	return nil
}

// casRequest writes req if the stored version still equals req.Version. It
// leaves req untouched so a caller inside a transaction can bump versions
// only after commit.
func casRequest(db *gorm.DB, req *entity.ResourceRequest) error {
	matches, err := encodeMatches(req.Matches)
	if err != nil {
		return err
	}
	res := db.Model(&requestRow{}).
		Where("id = ? AND version = ?", req.ID, req.Version).
		Updates(map[string]any{
			"quantity":    req.Quantity,
			"urgency":     string(req.Urgency),
			"lat":         req.Location.Lat,
			"lng":         req.Location.Lng,
			"address":     req.Address,
			"required_by": req.RequiredBy,
			"status":      string(req.Status),
			"matches":     matches,
			"version":     req.Version + 1,
			"updated_at":  req.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("update request: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return missOrConflict(db, &requestRow{}, req.ID)
	}
	return nil
}

func (r *requestRepository) DeleteRequest(ctx context.Context, id uuid.UUID, version int64) error {
	db := r.db.WithContext(ctx)
	res := db.Where("id = ? AND version = ?", id, version).Delete(&requestRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return missOrConflict(db, &requestRow{}, id)
	}
	return nil
}

func (r *requestRepository) NearbyRequests(ctx context.Context, q repository.RequestQuery) ([]repository.RequestHit, error) {
	page := q.Page.Normalize()
	query := nearby(r.db.WithContext(ctx).Model(&requestRow{}), q.Near, q.RadiusMeters).
		Where("request_type = ? AND required_by > ?", string(q.RequestType), q.RequiredAfter)
	if len(q.Statuses) > 0 {
		statuses := make([]string, len(q.Statuses))
		for i, s := range q.Statuses {
			statuses[i] = string(s)
		}
		query = query.Where("status IN ?", statuses)
	}

	var rows []requestHitRow
	if err := query.Order("distance ASC, created_at DESC").Offset(page.Offset).Limit(page.Limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("nearby requests: %w", err)
	}
	out := make([]repository.RequestHit, 0, len(rows))
	for _, row := range rows {
		req, err := row.Row.entity()
		if err != nil {
			return nil, err
		}
		out = append(out, repository.RequestHit{Request: req, DistanceMeters: geo.Distance(q.Near.Point(), req.Location.Point())})
	}
	return out, nil
}
