// Package mongodb is the document backend. Requests and offers carry a
// GeoJSON location with a 2dsphere index; updates are version-guarded
// replaces. Standalone servers have no multi-document transactions, so the
// store does not offer an atomic pair writer.
package mongodb

import (
	"context"
	"fmt"
	"time"

	entity "relief-exchange/internal/domain"
	"relief-exchange/internal/geo"
	"relief-exchange/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	CollectionRequests      = "resource_requests"
	CollectionOffers        = "resource_offers"
	CollectionNotifications = "notifications"
	CollectionStatus        = "history_status"

	opTimeout = 5 * time.Second

	// mongoEarthRadius is the sphere $geoNear measures GeoJSON distances on.
	mongoEarthRadius = 6378100.0
)

// Connect dials the server with the uuid-aware registry and pings it.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetRegistry(Registry()))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// Open connects, ensures indexes and bundles the repositories.
func Open(ctx context.Context, uri, database string, logger *zap.Logger) (repository.Store, error) {
	client, err := Connect(ctx, uri)
	if err != nil {
		return repository.Store{}, err
	}
	db := client.Database(database)
	if err := EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return repository.Store{}, err
	}
	logger.Info("mongo storage ready", zap.String("database", database))

	logRepo := NewLogRepository(db)
	return repository.Store{
		Requests:      NewRequestRepository(db),
		Offers:        NewOfferRepository(db),
		Notifications: logRepo,
		History:       logRepo,
		Close:         client.Disconnect,
	}, nil
}

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	specs := map[string][]mongo.IndexModel{
		CollectionRequests: {
			{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
			{Keys: bson.D{{Key: "requester_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		CollectionOffers: {
			{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
			{Keys: bson.D{{Key: "provider_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "available_until", Value: 1}}},
		},
		CollectionNotifications: {
			{Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		CollectionStatus: {
			{Keys: bson.D{{Key: "request_id", Value: 1}, {Key: "timestamp", Value: 1}}},
			{Keys: bson.D{{Key: "offer_id", Value: 1}, {Key: "timestamp", Value: 1}}},
		},
	}
	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// nearPipeline orders matches by distance, newest first on ties, and pages.
// maxDistance is scaled so the cutoff matches geo.Distance.
func nearPipeline(near entity.GeoPoint, radiusMeters float64, filter bson.M, page entity.Page) mongo.Pipeline {
	page = page.Normalize()
	return mongo.Pipeline{
		{{Key: "$geoNear", Value: bson.D{
			{Key: "near", Value: toGeoPoint(near)},
			{Key: "distanceField", Value: "distance"},
			{Key: "maxDistance", Value: radiusMeters * mongoEarthRadius / geo.EarthRadiusMeters},
			{Key: "spherical", Value: true},
			{Key: "query", Value: filter},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "distance", Value: 1}, {Key: "created_at", Value: -1}}}},
		{{Key: "$skip", Value: int64(page.Offset)}},
		{{Key: "$limit", Value: int64(page.Limit)}},
	}
}

// missOrConflict tells a missing document from a stale version after a
// guarded write matched nothing.
func missOrConflict(ctx context.Context, coll *mongo.Collection, id uuid.UUID) error {
	n, err := coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("check %s: %w", coll.Name(), err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return repository.ErrVersionConflict
}
