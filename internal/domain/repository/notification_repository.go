package repository

import (
	"context"

	"swapskill/internal/domain/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	GetByID(ctx context.Context, id string) (*entity.Notification, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) error

	// Watch delivers the user's notifications, newest first.
	Watch(ctx context.Context, userID string, limit int, fn func([]*entity.Notification)) (Unsubscribe, error)
}
