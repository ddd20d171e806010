package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"

	"swapskill/internal/domain/entity"
	"swapskill/internal/domain/repository"
	"swapskill/pkg/errors"
)

type firestoreModerationRepository struct {
	client *firestore.Client
}

func NewFirestoreModerationRepository(client *firestore.Client) repository.ModerationRepository {
	return &firestoreModerationRepository{
		client: client,
	}
}

func (r *firestoreModerationRepository) flags() *firestore.CollectionRef {
	return r.client.Collection(flaggedContentCollection)
}

func (r *firestoreModerationRepository) systemMessages() *firestore.CollectionRef {
	return r.client.Collection(systemMessagesCollection)
}

func (r *firestoreModerationRepository) flagsQuery(limit int) firestore.Query {
	q := r.flags().OrderBy("reportedAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}

func (r *firestoreModerationRepository) CreateFlag(ctx context.Context, flag *entity.FlaggedContent) error {
	_, err := r.flags().Doc(flag.ID).Set(ctx, flag)
	if err != nil {
		return errors.Internal("Failed to report content", err)
	}
	return nil
}

func (r *firestoreModerationRepository) GetFlag(ctx context.Context, id string) (*entity.FlaggedContent, error) {
	return getDocument[entity.FlaggedContent](ctx, r.flags().Doc(id), "Flagged content")
}

func (r *firestoreModerationRepository) ListFlags(ctx context.Context, limit int) ([]*entity.FlaggedContent, error) {
	return queryAll[entity.FlaggedContent](ctx, r.flagsQuery(limit), "flagged content")
}

func (r *firestoreModerationRepository) DeleteFlag(ctx context.Context, id string) error {
	_, err := r.flags().Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete flagged content", err)
	}
	return nil
}

func (r *firestoreModerationRepository) UpdateFlag(ctx context.Context, id string, status entity.FlagStatus, reviewerID string, at time.Time) error {
	_, err := r.flags().Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: status},
		{Path: "reviewedBy", Value: reviewerID},
		{Path: "reviewedAt", Value: at},
	})
	if err != nil {
		if isNotFound(err) {
			return errors.NotFound("Flagged content", err)
		}
		return errors.Internal("Failed to update flagged content", err)
	}
	return nil
}

func (r *firestoreModerationRepository) CountFlags(ctx context.Context, status entity.FlagStatus) (int64, error) {
	q := r.flags().Query
	if status != "" {
		q = q.Where("status", "==", status)
	}
	return countQuery(ctx, q)
}

func (r *firestoreModerationRepository) CreateSystemMessage(ctx context.Context, message *entity.SystemMessage) error {
	_, err := r.systemMessages().Doc(message.ID).Set(ctx, message)
	if err != nil {
		return errors.Internal("Failed to create system message", err)
	}
	return nil
}

func (r *firestoreModerationRepository) ListSystemMessages(ctx context.Context, activeOnly bool) ([]*entity.SystemMessage, error) {
	q := r.systemMessages().Query
	if !activeOnly {
		return queryAll[entity.SystemMessage](ctx, q.OrderBy("createdAt", firestore.Desc), "system messages")
	}

	// Filtering and ordering on different fields needs a composite index;
	// the active set is small, so it is sorted here instead.
	messages, err := queryAll[entity.SystemMessage](ctx, q.Where("active", "==", true), "system messages")
	if err != nil {
		return nil, err
	}
	sortNewestFirst(messages)
	return messages, nil
}

func sortNewestFirst(messages []*entity.SystemMessage) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.After(messages[j].CreatedAt)
	})
}

func (r *firestoreModerationRepository) SetSystemMessageActive(ctx context.Context, id string, active bool) error {
	_, err := r.systemMessages().Doc(id).Update(ctx, []firestore.Update{
		{Path: "active", Value: active},
	})
	if err != nil {
		if isNotFound(err) {
			return errors.NotFound("System message", err)
		}
		return errors.Internal("Failed to update system message", err)
	}
	return nil
}

func (r *firestoreModerationRepository) WatchFlags(ctx context.Context, limit int, fn func([]*entity.FlaggedContent)) (repository.Unsubscribe, error) {
	decode := func(docs []*firestore.DocumentSnapshot) []*entity.FlaggedContent {
		return decodeAll[entity.FlaggedContent](docs, "flagged content")
	}
	return watchQuery(ctx, r.flagsQuery(limit), "flagged content", decode, fn), nil
}

func (r *firestoreModerationRepository) WatchActiveSystemMessages(ctx context.Context, fn func([]*entity.SystemMessage)) (repository.Unsubscribe, error) {
	decode := func(docs []*firestore.DocumentSnapshot) []*entity.SystemMessage {
		return decodeAll[entity.SystemMessage](docs, "system message")
	}
	q := r.systemMessages().Where("active", "==", true)
	return watchQuery(ctx, q, "system messages", decode, fn), nil
}
