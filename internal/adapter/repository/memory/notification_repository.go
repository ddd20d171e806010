package memory

import (
	"context"
	"sort"

	"swapskill/internal/domain/entity"
	"swapskill/internal/domain/repository"
	"swapskill/pkg/errors"
)

type notificationRepository struct {
	db *DB
}

func NewNotificationRepository(db *DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	r.db.mu.Lock()
	r.db.notifications[notification.ID] = cloneNotification(notification)
	r.db.mu.Unlock()

	r.db.notify(notificationsCol)
	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	n, ok := r.db.notifications[id]
	if !ok {
		return nil, errors.NotFound("Notification", nil)
	}
	return cloneNotification(n), nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	return r.byUser(userID, limit), nil
}

// byUser returns the newest limit notifications. Callers hold the read lock.
func (r *notificationRepository) byUser(userID string, limit int) []*entity.Notification {
	var out []*entity.Notification
	for _, n := range r.db.notifications {
		if n.UserID == userID {
			out = append(out, cloneNotification(n))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) error {
	r.db.mu.Lock()
	n, ok := r.db.notifications[id]
	if ok {
		n.Read = true
	}
	r.db.mu.Unlock()

	if !ok {
		return errors.NotFound("Notification", nil)
	}
	r.db.notify(notificationsCol)
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	r.db.mu.Lock()
	for _, n := range r.db.notifications {
		if n.UserID == userID {
			n.Read = true
		}
	}
	r.db.mu.Unlock()

	r.db.notify(notificationsCol)
	return nil
}

func (r *notificationRepository) Watch(ctx context.Context, userID string, limit int, fn func([]*entity.Notification)) (repository.Unsubscribe, error) {
	return r.db.watch(notificationsCol, func() {
		r.db.mu.RLock()
		notifications := r.byUser(userID, limit)
		r.db.mu.RUnlock()
		fn(notifications)
	}), nil
}
