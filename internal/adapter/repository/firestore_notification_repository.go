package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"swapskill/internal/domain/entity"
	"swapskill/internal/domain/repository"
	"swapskill/pkg/errors"
)

type firestoreNotificationRepository struct {
	client *firestore.Client
}

func NewFirestoreNotificationRepository(client *firestore.Client) repository.NotificationRepository {
	return &firestoreNotificationRepository{
		client: client,
	}
}

func (r *firestoreNotificationRepository) notifications() *firestore.CollectionRef {
	return r.client.Collection(notificationsCollection)
}

func (r *firestoreNotificationRepository) byUser(userID string, limit int) firestore.Query {
	q := r.notifications().
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}

func (r *firestoreNotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	_, err := r.notifications().Doc(notification.ID).Set(ctx, notification)
	if err != nil {
		return errors.Internal("Failed to create notification", err)
	}
	return nil
}

func (r *firestoreNotificationRepository) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	return getDocument[entity.Notification](ctx, r.notifications().Doc(id), "Notification")
}

func (r *firestoreNotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error) {
	return queryAll[entity.Notification](ctx, r.byUser(userID, limit), "notifications")
}

func (r *firestoreNotificationRepository) MarkRead(ctx context.Context, id string) error {
	_, err := r.notifications().Doc(id).Update(ctx, []firestore.Update{
		{Path: "read", Value: true},
	})
	if err != nil {
		if isNotFound(err) {
			return errors.NotFound("Notification", err)
		}
		return errors.Internal("Failed to mark notification read", err)
	}
	return nil
}

func (r *firestoreNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	q := r.notifications().
		Where("userId", "==", userID).
		Where("read", "==", false)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docs, err := tx.Documents(q).GetAll()
		if err != nil {
			return err
		}
		for _, doc := range docs {
			if err := tx.Update(doc.Ref, []firestore.Update{{Path: "read", Value: true}}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Internal("Failed to mark notifications read", err)
	}
	return nil
}

func (r *firestoreNotificationRepository) Watch(ctx context.Context, userID string, limit int, fn func([]*entity.Notification)) (repository.Unsubscribe, error) {
	decode := func(docs []*firestore.DocumentSnapshot) []*entity.Notification {
		return decodeAll[entity.Notification](docs, "notification")
	}
	return watchQuery(ctx, r.byUser(userID, limit), "notifications", decode, fn), nil
}
