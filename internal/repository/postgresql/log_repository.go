package postgresql

import (
	"context"
	"fmt"
	"time"

	entity "relief-exchange/internal/domain"
	"relief-exchange/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// LogRepository stores inbox notifications and the pairing history in
// plain tables. Ids stay ObjectID hex strings so both backends hand out the
// same identifiers.
type LogRepository interface {
	repository.NotificationRepository
	repository.HistoryRepository
}

type logRepository struct {
	db *gorm.DB
}

func NewLogRepository(db *gorm.DB) LogRepository {
	return &logRepository{db: db}
}

// --- notifications ---

func (r *logRepository) SaveNotification(ctx context.Context, n *entity.Notification) error {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	row := notificationRow{
		ID:          n.ID.Hex(),
		RecipientID: n.RecipientID,
		SenderID:    n.SenderID,
		Type:        n.Type,
		Title:       n.Title,
		Message:     n.Message,
		RequestID:   n.RequestID,
		OfferID:     n.OfferID,
		Priority:    string(n.Priority),
		IsRead:      n.IsRead,
		ReadAt:      n.ReadAt,
		CreatedAt:   n.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (r *logRepository) ListNotifications(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, page entity.Page) ([]entity.Notification, error) {
	page = page.Normalize()
	query := r.db.WithContext(ctx).Where("recipient_id = ?", recipientID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	var rows []notificationRow
	if err := query.Order("created_at DESC, id DESC").Offset(page.Offset).Limit(page.Limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	out := make([]entity.Notification, 0, len(rows))
	for _, row := range rows {
		n, err := row.entity()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *logRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&notificationRow{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&n).Error
	return n, err
}

func (r *logRepository) MarkRead(ctx context.Context, recipientID uuid.UUID, id primitive.ObjectID, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&notificationRow{}).
		Where("id = ? AND recipient_id = ?", id.Hex(), recipientID).
		Updates(map[string]any{"is_read": true, "read_at": at})
	if res.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *logRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&notificationRow{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Updates(map[string]any{"is_read": true, "read_at": at})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (row notificationRow) entity() (entity.Notification, error) {
	id, err := primitive.ObjectIDFromHex(row.ID)
	if err != nil {
		return entity.Notification{}, fmt.Errorf("notification id %q: %w", row.ID, err)
	}
	return entity.Notification{
		ID:          id,
		RecipientID: row.RecipientID,
		SenderID:    row.SenderID,
		Type:        row.Type,
		Title:       row.Title,
		Message:     row.Message,
		RequestID:   row.RequestID,
		OfferID:     row.OfferID,
		Priority:    entity.NotificationPriority(row.Priority),
		IsRead:      row.IsRead,
		ReadAt:      row.ReadAt,
		CreatedAt:   row.CreatedAt.UTC(),
	}, nil
}

// --- history ---

func (r *logRepository) SaveHistoryStatus(ctx context.Context, h *entity.HistoryStatus) error {
	if h.ID.IsZero() {
		h.ID = primitive.NewObjectID()
	}
	row := historyRow{
		ID:        h.ID.Hex(),
		RequestID: h.RequestID,
		OfferID:   h.OfferID,
		OldStatus: h.OldStatus,
		NewStatus: h.NewStatus,
		ChangedBy: h.ChangedBy,
		Timestamp: h.Timestamp,
		Note:      h.Note,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert history status: %w", err)
	}
	return nil
}

func (r *logRepository) ListHistoryByRequest(ctx context.Context, requestID uuid.UUID) ([]entity.HistoryStatus, error) {
	return r.listHistory(ctx, "request_id = ?", requestID)
}

func (r *logRepository) ListHistoryByOffer(ctx context.Context, offerID uuid.UUID) ([]entity.HistoryStatus, error) {
	return r.listHistory(ctx, "offer_id = ?", offerID)
}

func (r *logRepository) listHistory(ctx context.Context, cond string, id uuid.UUID) ([]entity.HistoryStatus, error) {
	var rows []historyRow
	if err := r.db.WithContext(ctx).Where(cond, id).Order("timestamp ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	out := make([]entity.HistoryStatus, 0, len(rows))
	for _, row := range rows {
		oid, err := primitive.ObjectIDFromHex(row.ID)
		if err != nil {
			return nil, fmt.Errorf("history id %q: %w", row.ID, err)
		}
		out = append(out, entity.HistoryStatus{
			ID:        oid,
			RequestID: row.RequestID,
			OfferID:   row.OfferID,
			OldStatus: row.OldStatus,
			NewStatus: row.NewStatus,
			ChangedBy: row.ChangedBy,
			Timestamp: row.Timestamp.UTC(),
			Note:      row.Note,
		})
	}
	return out, nil
}
