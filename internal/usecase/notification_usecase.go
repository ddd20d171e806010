package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"swapskill/internal/domain/entity"
	"swapskill/internal/domain/repository"
	"swapskill/pkg/errors"
	"swapskill/pkg/logger"
)

type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
	pageSize         int
}

func NewNotificationUseCase(notificationRepo repository.NotificationRepository, pageSize int) *NotificationUseCase {
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
		pageSize:         pageSize,
	}
}

func newNotification(userID string, kind entity.NotificationType, title, message string, data map[string]interface{}) *entity.Notification {
	return &entity.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      kind,
		Title:     title,
		Message:   message,
		Data:      data,
		CreatedAt: time.Now(),
	}
}

// notify stores a side-effect notification. The triggering operation has
// already succeeded, so a failure here is logged and not returned.
func notify(ctx context.Context, repo repository.NotificationRepository, n *entity.Notification) {
	if err := repo.Create(ctx, n); err != nil {
		logger.Warn("Notify Error: failed to notify user %s (%s): %v", n.UserID, n.Type, err)
	}
}

func (uc *NotificationUseCase) ListNotifications(ctx context.Context, userID string) ([]*entity.Notification, error) {
	notifications, err := uc.notificationRepo.ListByUser(ctx, userID, uc.pageSize)
	if err != nil {
		logger.Error("ListNotifications Error: user %s: %v", userID, err)
		return nil, err
	}
	return notifications, nil
}

func (uc *NotificationUseCase) MarkRead(ctx context.Context, userID, notificationID string) error {
	n, err := uc.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		logger.Warn("MarkRead Error: user %s does not own notification %s", userID, notificationID)
		return errors.Forbidden("You can only update your own notifications", nil)
	}
	return uc.notificationRepo.MarkRead(ctx, notificationID)
}

func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, userID string) error {
	if err := uc.notificationRepo.MarkAllRead(ctx, userID); err != nil {
		logger.Error("MarkAllRead Error: user %s: %v", userID, err)
		return err
	}
	return nil
}

// WatchNotifications delivers the newest notifications of userID on every change.
func (uc *NotificationUseCase) WatchNotifications(ctx context.Context, userID string, fn func([]*entity.Notification)) (repository.Unsubscribe, error) {
	return uc.notificationRepo.Watch(ctx, userID, uc.pageSize, fn)
}
