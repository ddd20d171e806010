package memory

import (
	"context"
	"sort"
	"time"

	"swapskill/internal/domain/entity"
	"swapskill/internal/domain/repository"
	"swapskill/pkg/errors"
)

type conversationRepository struct {
	db *DB
}

func NewConversationRepository(db *DB) repository.ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Create(ctx context.Context, conversation *entity.Conversation) error {
	r.db.mu.Lock()
	r.db.conversations[conversation.ID] = cloneConversation(conversation)
	r.db.mu.Unlock()

	r.db.notify(conversationsCol)
	return nil
}

func (r *conversationRepository) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	c, ok := r.db.conversations[id]
	if !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	return cloneConversation(c), nil
}

func (r *conversationRepository) ListByParticipant(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var out []*entity.Conversation
	for _, c := range r.db.conversations {
		if c.HasParticipant(userID) {
			out = append(out, cloneConversation(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *conversationRepository) FindDirect(ctx context.Context, userA, userB string) (*entity.Conversation, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, c := range r.db.conversations {
		if c.Type == entity.ConversationDirect && len(c.Participants) == 2 &&
			c.HasParticipant(userA) && c.HasParticipant(userB) {
			return cloneConversation(c), nil
		}
	}
	return nil, errors.NotFound("Conversation", nil)
}

func (r *conversationRepository) MarkRead(ctx context.Context, conversationID, userID string) error {
	r.db.mu.Lock()
	c, ok := r.db.conversations[conversationID]
	if ok {
		if c.UnreadCount == nil {
			c.UnreadCount = make(map[string]int)
		}
		c.UnreadCount[userID] = 0
	}
	r.db.mu.Unlock()

	if !ok {
		return errors.NotFound("Conversation", nil)
	}
	r.db.notify(conversationsCol)
	return nil
}

func (r *conversationRepository) AppendMessage(ctx context.Context, conversation *entity.Conversation, message *entity.Message, notifications []*entity.Notification) error {
	r.db.mu.Lock()
	c, ok := r.db.conversations[conversation.ID]
	if !ok {
		r.db.mu.Unlock()
		return errors.NotFound("Conversation", nil)
	}
	if _, exists := r.db.messages[message.ID]; exists {
		r.db.mu.Unlock()
		return errors.Conflict("Message already exists")
	}

	r.db.messages[message.ID] = cloneMessage(message)
	c.LastMessage = &entity.LastMessage{
		Content:   entity.Preview(message.Content),
		SenderID:  message.SenderID,
		Timestamp: message.CreatedAt,
		Type:      message.Type,
	}
	c.UpdatedAt = message.CreatedAt
	if c.UnreadCount == nil {
		c.UnreadCount = make(map[string]int)
	}
	for _, p := range c.Participants {
		if p != message.SenderID {
			c.UnreadCount[p]++
		}
	}
	for _, n := range notifications {
		r.db.notifications[n.ID] = cloneNotification(n)
	}
	r.db.mu.Unlock()

	r.db.notify(messagesCol, conversationsCol, notificationsCol)
	return nil
}

func (r *conversationRepository) GetMessage(ctx context.Context, id string) (*entity.Message, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	m, ok := r.db.messages[id]
	if !ok {
		return nil, errors.NotFound("Message", nil)
	}
	return cloneMessage(m), nil
}

func (r *conversationRepository) ListMessages(ctx context.Context, conversationID string, limit int) ([]*entity.Message, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	return r.messagesOf(conversationID, limit), nil
}

// messagesOf returns the last limit messages, oldest first. Callers hold the
// read lock.
func (r *conversationRepository) messagesOf(conversationID string, limit int) []*entity.Message {
	var out []*entity.Message
	for _, m := range r.db.messages {
		if m.ConversationID == conversationID {
			out = append(out, cloneMessage(m))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

func (r *conversationRepository) EditMessage(ctx context.Context, id, content string, at time.Time) error {
	r.db.mu.Lock()
	m, ok := r.db.messages[id]
	if ok {
		m.Content = content
		m.Edited = true
		editedAt := at
		m.EditedAt = &editedAt
	}
	r.db.mu.Unlock()

	if !ok {
		return errors.NotFound("Message", nil)
	}
	r.db.notify(messagesCol)
	return nil
}

func (r *conversationRepository) DeleteMessage(ctx context.Context, id string) error {
	r.db.mu.Lock()
	delete(r.db.messages, id)
	r.db.mu.Unlock()

	r.db.notify(messagesCol)
	return nil
}

func (r *conversationRepository) UpdateReactions(ctx context.Context, id string, mutate func([]entity.Reaction) []entity.Reaction) ([]entity.Reaction, error) {
	r.db.mu.Lock()
	m, ok := r.db.messages[id]
	if !ok {
		r.db.mu.Unlock()
		return nil, errors.NotFound("Message", nil)
	}
	m.Reactions = cloneReactions(mutate(cloneReactions(m.Reactions)))
	reactions := cloneReactions(m.Reactions)
	r.db.mu.Unlock()

	r.db.notify(messagesCol)
	return reactions, nil
}

func (r *conversationRepository) WatchMessages(ctx context.Context, conversationID string, fn func([]*entity.Message)) (repository.Unsubscribe, error) {
	return r.db.watch(messagesCol, func() {
		r.db.mu.RLock()
		messages := r.messagesOf(conversationID, 0)
		r.db.mu.RUnlock()
		fn(messages)
	}), nil
}
