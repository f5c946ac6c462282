package service

import (
	"context"
	"fmt"

	entity "relief-exchange/internal/domain"
	"relief-exchange/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationService struct {
	notifications repository.NotificationRepository
	clock         Clock
}

func NewNotificationService(notifications repository.NotificationRepository, clock Clock) *NotificationService {
	return &NotificationService{notifications: notifications, clock: clock}
}

func (s *NotificationService) GetNotifications(ctx context.Context, actor entity.Actor, unreadOnly bool, page entity.Page) ([]entity.Notification, error) {
	return s.notifications.ListNotifications(ctx, actor.UserID, unreadOnly, page.Normalize())
}

func (s *NotificationService) UnreadCount(ctx context.Context, actor entity.Actor) (int64, error) {
	return s.notifications.CountUnread(ctx, actor.UserID)
}

// MarkAsRead marks one of the caller's notifications read. Ids that do not
// belong to the caller are reported as not found.
func (s *NotificationService) MarkAsRead(ctx context.Context, actor entity.Actor, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: malformed notification id", ErrInvalidInput)
	}
	if err := s.notifications.MarkRead(ctx, actor.UserID, oid, s.clock.now()); err != nil {
		return translate(err, "notification "+id)
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, actor entity.Actor) (int64, error) {
	return s.notifications.MarkAllRead(ctx, actor.UserID, s.clock.now())
}
