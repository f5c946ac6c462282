package mongodb

import (
	"context"
	"fmt"
	"time"

	entity "relief-exchange/internal/domain"
	"relief-exchange/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LogRepository keeps the append-only side of the engine: inbox
// notifications and the pairing status history.
type LogRepository interface {
	repository.NotificationRepository
	repository.HistoryRepository
}

type logRepository struct {
	notifications *mongo.Collection
	history       *mongo.Collection
}

func NewLogRepository(db *mongo.Database) LogRepository {
	return &logRepository{
		notifications: db.Collection(CollectionNotifications),
		history:       db.Collection(CollectionStatus),
	}
}

// --- notifications ---

func (r *logRepository) SaveNotification(ctx context.Context, n *entity.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	if _, err := r.notifications.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("failed to insert notification to Mongo: %w", err)
	}
	return nil
}

func (r *logRepository) ListNotifications(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, page entity.Page) ([]entity.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"recipient_id": recipientID}
	if unreadOnly {
		filter["is_read"] = false
	}
	page = page.Normalize()
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(page.Offset)).
		SetLimit(int64(page.Limit))

	cur, err := r.notifications.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	var out []entity.Notification
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return out, nil
}

func (r *logRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return r.notifications.CountDocuments(ctx, bson.M{"recipient_id": recipientID, "is_read": false})
}

func (r *logRepository) MarkRead(ctx context.Context, recipientID uuid.UUID, id primitive.ObjectID, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "recipient_id": recipientID}
	res, err := r.notifications.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"is_read": true, "read_at": at}})
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *logRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID, at time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.notifications.UpdateMany(ctx,
		bson.M{"recipient_id": recipientID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "read_at": at}})
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return res.ModifiedCount, nil
}

// --- history ---

func (r *logRepository) SaveHistoryStatus(ctx context.Context, doc *entity.HistoryStatus) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if _, err := r.history.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert history status to Mongo: %w", err)
	}
	return nil
}

func (r *logRepository) ListHistoryByRequest(ctx context.Context, requestID uuid.UUID) ([]entity.HistoryStatus, error) {
	return r.listHistory(ctx, bson.M{"request_id": requestID})
}

func (r *logRepository) ListHistoryByOffer(ctx context.Context, offerID uuid.UUID) ([]entity.HistoryStatus, error) {
	return r.listHistory(ctx, bson.M{"offer_id": offerID})
}

func (r *logRepository) listHistory(ctx context.Context, filter bson.M) ([]entity.HistoryStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cur, err := r.history.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	var out []entity.HistoryStatus
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	return out, nil
}
