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

type firestoreConversationRepository struct {
	client *firestore.Client
}

func NewFirestoreConversationRepository(client *firestore.Client) repository.ConversationRepository {
	return &firestoreConversationRepository{
		client: client,
	}
}

func (r *firestoreConversationRepository) conversations() *firestore.CollectionRef {
	return r.client.Collection(conversationsCollection)
}

func (r *firestoreConversationRepository) messages() *firestore.CollectionRef {
	return r.client.Collection(messagesCollection)
}

func (r *firestoreConversationRepository) Create(ctx context.Context, conversation *entity.Conversation) error {
	_, err := r.conversations().Doc(conversation.ID).Set(ctx, conversation)
	if err != nil {
		return errors.Internal("Failed to create conversation", err)
	}
	return nil
}

func (r *firestoreConversationRepository) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	return getDocument[entity.Conversation](ctx, r.conversations().Doc(id), "Conversation")
}

func (r *firestoreConversationRepository) ListByParticipant(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	q := r.conversations().Where("participants", "array-contains", userID)
	conversations, err := queryAll[entity.Conversation](ctx, q, "conversations")
	if err != nil {
		return nil, err
	}

	// Sorted here; ordering in the query would need a composite index.
	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].UpdatedAt.After(conversations[j].UpdatedAt)
	})
	return conversations, nil
}

func (r *firestoreConversationRepository) FindDirect(ctx context.Context, userA, userB string) (*entity.Conversation, error) {
	q := r.conversations().
		Where("participants", "array-contains", userA).
		Where("type", "==", entity.ConversationDirect)

	conversations, err := queryAll[entity.Conversation](ctx, q, "conversations")
	if err != nil {
		return nil, err
	}
	for _, c := range conversations {
		if len(c.Participants) == 2 && c.HasParticipant(userB) {
			return c, nil
		}
	}
	return nil, errors.NotFound("Conversation", nil)
}

func (r *firestoreConversationRepository) MarkRead(ctx context.Context, conversationID, userID string) error {
	_, err := r.conversations().Doc(conversationID).Update(ctx, []firestore.Update{
		{FieldPath: firestore.FieldPath{"unreadCount", userID}, Value: 0},
	})
	if err != nil {
		if isNotFound(err) {
			return errors.NotFound("Conversation", err)
		}
		return errors.Internal("Failed to mark conversation read", err)
	}
	return nil
}

func (r *firestoreConversationRepository) AppendMessage(ctx context.Context, conversation *entity.Conversation, message *entity.Message, notifications []*entity.Notification) error {
	convRef := r.conversations().Doc(conversation.ID)
	msgRef := r.messages().Doc(message.ID)
	notificationsRef := r.client.Collection(notificationsCollection)

	updates := []firestore.Update{
		{Path: "lastMessage", Value: entity.LastMessage{
			Content:   entity.Preview(message.Content),
			SenderID:  message.SenderID,
			Timestamp: message.CreatedAt,
			Type:      message.Type,
		}},
		{Path: "updatedAt", Value: message.CreatedAt},
	}
	for _, p := range conversation.Participants {
		if p == message.SenderID {
			continue
		}
		updates = append(updates, firestore.Update{
			FieldPath: firestore.FieldPath{"unreadCount", p},
			Value:     firestore.Increment(1),
		})
	}

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Create(msgRef, message); err != nil {
			return err
		}
		if err := tx.Update(convRef, updates); err != nil {
			return err
		}
		for _, n := range notifications {
			if err := tx.Create(notificationsRef.Doc(n.ID), n); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isNotFound(err) {
			return errors.NotFound("Conversation", err)
		}
		return errors.Internal("Failed to send message", err)
	}
	return nil
}

func (r *firestoreConversationRepository) GetMessage(ctx context.Context, id string) (*entity.Message, error) {
	return getDocument[entity.Message](ctx, r.messages().Doc(id), "Message")
}

func (r *firestoreConversationRepository) messagesQuery(conversationID string, limit int) firestore.Query {
	q := r.messages().
		Where("conversationId", "==", conversationID).
		OrderBy("createdAt", firestore.Asc)
	if limit > 0 {
		q = q.LimitToLast(limit)
	}
	return q
}

func (r *firestoreConversationRepository) ListMessages(ctx context.Context, conversationID string, limit int) ([]*entity.Message, error) {
	return queryAll[entity.Message](ctx, r.messagesQuery(conversationID, limit), "messages")
}

func (r *firestoreConversationRepository) EditMessage(ctx context.Context, id, content string, at time.Time) error {
	_, err := r.messages().Doc(id).Update(ctx, []firestore.Update{
		{Path: "content", Value: content},
		{Path: "edited", Value: true},
		{Path: "editedAt", Value: at},
	})
	if err != nil {
		if isNotFound(err) {
			return errors.NotFound("Message", err)
		}
		return errors.Internal("Failed to edit message", err)
	}
	return nil
}

func (r *firestoreConversationRepository) DeleteMessage(ctx context.Context, id string) error {
	_, err := r.messages().Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete message", err)
	}
	return nil
}

func (r *firestoreConversationRepository) UpdateReactions(ctx context.Context, id string, mutate func([]entity.Reaction) []entity.Reaction) ([]entity.Reaction, error) {
	ref := r.messages().Doc(id)

	var reactions []entity.Reaction
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var msg entity.Message
		if err := doc.DataTo(&msg); err != nil {
			return err
		}

		reactions = mutate(msg.Reactions)
		return tx.Update(ref, []firestore.Update{{Path: "reactions", Value: reactions}})
	})
	if err != nil {
		if isNotFound(err) {
			return nil, errors.NotFound("Message", err)
		}
		return nil, errors.Internal("Failed to update reactions", err)
	}
	return reactions, nil
}

func (r *firestoreConversationRepository) WatchMessages(ctx context.Context, conversationID string, fn func([]*entity.Message)) (repository.Unsubscribe, error) {
	decode := func(docs []*firestore.DocumentSnapshot) []*entity.Message {
		return decodeAll[entity.Message](docs, "message")
	}
	return watchQuery(ctx, r.messagesQuery(conversationID, 0), "messages", decode, fn), nil
}
