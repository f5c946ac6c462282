// Package postgresql is the relational backend. Aggregates live in two
// tables with their pairings in a jsonb column; pair updates run in one
// transaction so the store satisfies repository.AtomicWriter.
package postgresql

import (
	"context"
	"fmt"

	entity "relief-exchange/internal/domain"
	"relief-exchange/internal/geo"
	"relief-exchange/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// haversineSQL evaluates to meters between the row and a point.
// Placeholders: lat, lat, lng.
const haversineSQL = "6371000.0 * 2 * asin(sqrt(least(1.0, " +
	"power(sin(radians(lat - ?) / 2), 2) + " +
	"cos(radians(?)) * cos(radians(lat)) * power(sin(radians(lng - ?) / 2), 2))))"

type store struct {
	db *gorm.DB
}

// Open connects with the given DSN, migrates the schema and bundles the
// repositories.
func Open(dsn string, logger *zap.Logger) (repository.Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return repository.Store{}, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return repository.Store{}, err
	}
	logger.Info("postgres storage ready")

	logRepo := NewLogRepository(db)
	return repository.Store{
		Requests:      NewRequestRepository(db),
		Offers:        NewOfferRepository(db),
		Notifications: logRepo,
		History:       logRepo,
		Atomic:        &store{db: db},
		Close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&requestRow{}, &offerRow{}, &notificationRow{}, &historyRow{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// UpdateAggregates applies every guarded update in one transaction. On
// any miss the transaction rolls back and the in-memory versions are kept.
func (s *store) UpdateAggregates(ctx context.Context, requests []*entity.ResourceRequest, offers []*entity.ResourceOffer) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, r := range requests {
			if err := casRequest(tx, r); err != nil {
				return err
			}
		}
		for _, o := range offers {
			if err := casOffer(tx, o); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, r := range requests {
		r.Version++
	}
	for _, o := range offers {
		o.Version++
	}
	return nil
}

// nearby narrows to the bounding box, then to the exact radius, and selects
// the distance as a column so callers can order on it.
func nearby(db *gorm.DB, near entity.GeoPoint, radiusMeters float64) *gorm.DB {
	box := geo.Around(near.Point(), radiusMeters)
	q := db.Select("*, "+haversineSQL+" AS distance", near.Lat, near.Lat, near.Lng).
		Where("lat BETWEEN ? AND ?", box.MinLat, box.MaxLat)
	if !box.WrapsLng {
		q = q.Where("lng BETWEEN ? AND ?", box.MinLng, box.MaxLng)
	}
	return q.Where(haversineSQL+" <= ?", near.Lat, near.Lat, near.Lng, radiusMeters)
}

func missOrConflict(db *gorm.DB, model any, id uuid.UUID) error {
	var n int64
	if err := db.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("check %T: %w", model, err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return repository.ErrVersionConflict
}
