package repository

import (
	"context"
	"time"

	"swapskill/internal/domain/entity"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	ListByParticipant(ctx context.Context, userID string) ([]*entity.Conversation, error)
	FindDirect(ctx context.Context, userA, userB string) (*entity.Conversation, error)
	MarkRead(ctx context.Context, conversationID, userID string) error

	// AppendMessage writes the message, refreshes the conversation summary,
	// bumps every other participant's unread counter and stores the
	// notifications, all or nothing.
	AppendMessage(ctx context.Context, conversation *entity.Conversation, message *entity.Message, notifications []*entity.Notification) error
	GetMessage(ctx context.Context, id string) (*entity.Message, error)
	ListMessages(ctx context.Context, conversationID string, limit int) ([]*entity.Message, error)
	EditMessage(ctx context.Context, id, content string, at time.Time) error
	DeleteMessage(ctx context.Context, id string) error
	UpdateReactions(ctx context.Context, id string, mutate func([]entity.Reaction) []entity.Reaction) ([]entity.Reaction, error)

	// WatchMessages delivers the conversation's messages, oldest first, on
	// every change until unsubscribed.
	WatchMessages(ctx context.Context, conversationID string, fn func([]*entity.Message)) (Unsubscribe, error)
}
