package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	entity "relief-exchange/internal/domain"
	"relief-exchange/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type offerRepository struct {
	collection *mongo.Collection
}

func NewOfferRepository(db *mongo.Database) repository.OfferRepository {
	return &offerRepository{collection: db.Collection(CollectionOffers)}
}

func (r *offerRepository) CreateOffer(ctx context.Context, o *entity.ResourceOffer) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, toOfferDocument(o)); err != nil {
		return fmt.Errorf("failed to insert offer to Mongo: %w", err)
	}
	return nil
}

func (r *offerRepository) GetOfferByID(ctx context.Context, id uuid.UUID) (*entity.ResourceOffer, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc offerDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find offer: %w", err)
	}
	return doc.entity(), nil
}

func (r *offerRepository) ListOffersByProvider(ctx context.Context, providerID uuid.UUID) ([]entity.ResourceOffer, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.collection.Find(ctx, bson.M{"provider_id": providerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	return decodeOffers(ctx, cur)
}

// UpdateOffer replaces the document only while its version is unchanged.
func (r *offerRepository) UpdateOffer(ctx context.Context, o *entity.ResourceOffer) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc := toOfferDocument(o)
	doc.Version = o.Version + 1
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": o.ID, "version": o.Version}, doc)
	if err != nil {
		return fmt.Errorf("failed to update offer: %w", err)
	}
	if res.MatchedCount == 0 {
		return missOrConflict(ctx, r.collection, o.ID)
	}
	o.Version = doc.Version
	return nil
}

func (r *offerRepository) DeleteOffer(ctx context.Context, id uuid.UUID, version int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "version": version})
	if err != nil {
		return fmt.Errorf("failed to delete offer: %w", err)
	}
	if res.DeletedCount == 0 {
		return missOrConflict(ctx, r.collection, id)
	}
	return nil
}

func (r *offerRepository) NearbyOffers(ctx context.Context, q repository.OfferQuery) ([]repository.OfferHit, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{
		"resource_type":      string(q.ResourceType),
		"available_until":    bson.M{"$gt": q.AvailableAfter},
		"quantity_remaining": bson.M{"$gte": q.MinRemaining},
	}
	if len(q.Statuses) > 0 {
		statuses := make([]string, len(q.Statuses))
		for i, s := range q.Statuses {
			statuses[i] = string(s)
		}
		filter["status"] = bson.M{"$in": statuses}
	}

	cur, err := r.collection.Aggregate(ctx, nearPipeline(q.Near, q.RadiusMeters, filter, q.Page))
	if err != nil {
		return nil, fmt.Errorf("failed to search nearby offers: %w", err)
	}
	var docs []offerHitDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode nearby offers: %w", err)
	}
	out := make([]repository.OfferHit, 0, len(docs))
	for _, d := range docs {
		o := d.entity()
		out = append(out, repository.OfferHit{Offer: o, DistanceMeters: q.Near.DistanceTo(o.Location)})
	}
	return out, nil
}

func (r *offerRepository) ListExpirableOffers(ctx context.Context, now time.Time, limit int) ([]entity.ResourceOffer, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{
		"status":          bson.M{"$nin": []string{string(entity.OfferFulfilled), string(entity.OfferExpired)}},
		"available_until": bson.M{"$lte": now},
	}
	opts := options.Find().SetSort(bson.D{{Key: "available_until", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list expirable offers: %w", err)
	}
	return decodeOffers(ctx, cur)
}

func decodeOffers(ctx context.Context, cur *mongo.Cursor) ([]entity.ResourceOffer, error) {
	var docs []offerDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode offers: %w", err)
	}
	out := make([]entity.ResourceOffer, 0, len(docs))
	for _, d := range docs {
		out = append(out, *d.entity())
	}
	return out, nil
}
