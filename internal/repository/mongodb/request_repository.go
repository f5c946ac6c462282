package mongodb

import (
	"context"
	"errors"
	"fmt"

	entity "relief-exchange/internal/domain"
	"relief-exchange/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type requestRepository struct {
	collection *mongo.Collection
}

func NewRequestRepository(db *mongo.Database) repository.RequestRepository {
	return &requestRepository{collection: db.Collection(CollectionRequests)}
}

func (r *requestRepository) CreateRequest(ctx context.Context, req *entity.ResourceRequest) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, toRequestDocument(req)); err != nil {
		return fmt.Errorf("failed to insert request to Mongo: %w", err)
	}
	return nil
}

func (r *requestRepository) GetRequestByID(ctx context.Context, id uuid.UUID) (*entity.ResourceRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc requestDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find request: %w", err)
	}
	return doc.entity(), nil
}

func (r *requestRepository) ListRequestsByRequester(ctx context.Context, requesterID uuid.UUID) ([]entity.ResourceRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.collection.Find(ctx, bson.M{"requester_id": requesterID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	var docs []requestDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode requests: %w", err)
	}
	out := make([]entity.ResourceRequest, 0, len(docs))
	for _, d := range docs {
		out = append(out, *d.entity())
	}
	return out, nil
}

// UpdateRequest replaces the document only while its version is unchanged.
func (r *requestRepository) UpdateRequest(ctx context.Context, req *entity.ResourceRequest) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc := toRequestDocument(req)
	doc.Version = req.Version + 1
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": req.ID, "version": req.Version}, doc)
	if err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}
	if res.MatchedCount == 0 {
		return missOrConflict(ctx, r.collection, req.ID)
	}
	req.Version = doc.Version
	return nil
}

func (r *requestRepository) DeleteRequest(ctx context.Context, id uuid.UUID, version int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "version": version})
	if err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	if res.DeletedCount == 0 {
		return missOrConflict(ctx, r.collection, id)
	}
	return nil
}

func (r *requestRepository) NearbyRequests(ctx context.Context, q repository.RequestQuery) ([]repository.RequestHit, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{
		"request_type": string(q.RequestType),
		"required_by":  bson.M{"$gt": q.RequiredAfter},
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
		return nil, fmt.Errorf("failed to search nearby requests: %w", err)
	}
	var docs []requestHitDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode nearby requests: %w", err)
	}
	out := make([]repository.RequestHit, 0, len(docs))
	for _, d := range docs {
		req := d.entity()
		out = append(out, repository.RequestHit{Request: req, DistanceMeters: q.Near.DistanceTo(req.Location)})
	}
	return out, nil
}
