package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"swapskill/internal/domain/entity"
	"swapskill/internal/domain/repository"
	"swapskill/internal/infrastructure/ratelimit"
	"swapskill/pkg/errors"
	"swapskill/pkg/logger"
)

type ChatUseCase struct {
	conversationRepo repository.ConversationRepository
	userRepo         repository.UserRepository
	swapRepo         repository.SwapRequestRepository
	rateLimiter      RateLimiter
	pageSize         int
}

func NewChatUseCase(
	conversationRepo repository.ConversationRepository,
	userRepo repository.UserRepository,
	swapRepo repository.SwapRequestRepository,
	rateLimiter RateLimiter,
	pageSize int,
) *ChatUseCase {
	return &ChatUseCase{
		conversationRepo: conversationRepo,
		userRepo:         userRepo,
		swapRepo:         swapRepo,
		rateLimiter:      limiterOrDefault(rateLimiter),
		pageSize:         pageSize,
	}
}

type CreateConversationInput struct {
	ParticipantIDs []string // other participants; the caller is added
	Type           entity.ConversationType
	Title          string
	SwapRequestID  string
}

type SendMessageInput struct {
	ConversationID string
	Content        string
	Type           entity.MessageType
	Attachments    []entity.Attachment
	ReplyTo        string
}

// CreateConversation returns the existing direct conversation between two
// users instead of opening a second one.
func (uc *ChatUseCase) CreateConversation(ctx context.Context, userID string, input CreateConversationInput) (*entity.Conversation, error) {
	participants := []string{userID}
	seen := map[string]bool{userID: true}
	for _, p := range input.ParticipantIDs {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		participants = append(participants, p)
	}
	if len(participants) < 2 {
		return nil, errors.BadRequest("A conversation needs at least one other participant", nil)
	}

	kind := input.Type
	if kind == "" {
		kind = entity.ConversationDirect
		if input.SwapRequestID != "" {
			kind = entity.ConversationSwapRelated
		} else if len(participants) > 2 {
			kind = entity.ConversationGroup
		}
	}
	if !kind.Valid() {
		return nil, errors.BadRequest("Invalid conversation type: "+string(kind), nil)
	}
	if kind == entity.ConversationDirect && len(participants) != 2 {
		return nil, errors.BadRequest("Direct conversations have exactly two participants", nil)
	}

	if kind == entity.ConversationDirect {
		existing, err := uc.conversationRepo.FindDirect(ctx, participants[0], participants[1])
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, "NOT_FOUND") {
			logger.Error("CreateConversation Error: lookup failed: %v", err)
			return nil, err
		}
	}
	if kind == entity.ConversationSwapRelated {
		if input.SwapRequestID == "" {
			return nil, errors.BadRequest("Swap conversations need a swap request", nil)
		}
		swap, err := uc.swapRepo.GetByID(ctx, input.SwapRequestID)
		if err != nil {
			return nil, err
		}
		if !swap.Involves(userID) {
			return nil, errors.Forbidden("You are not part of this swap request", nil)
		}
	}

	if err := checkRate(uc.rateLimiter, "CreateConversation", userID, ratelimit.ActionCreateConversation); err != nil {
		return nil, err
	}

	for _, p := range participants[1:] {
		if _, err := uc.userRepo.GetByID(ctx, p); err != nil {
			logger.Error("CreateConversation Error: participant %s: %v", p, err)
			return nil, err
		}
	}

	now := time.Now()
	conversation := &entity.Conversation{
		ID:            uuid.New().String(),
		Participants:  participants,
		SwapRequestID: input.SwapRequestID,
		Title:         input.Title,
		Type:          kind,
		UnreadCount:   entity.ZeroUnreadCounts(participants),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.conversationRepo.Create(ctx, conversation); err != nil {
		logger.Error("CreateConversation Error: %v", err)
		return nil, err
	}
	return conversation, nil
}

func (uc *ChatUseCase) ListConversations(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	conversations, err := uc.conversationRepo.ListByParticipant(ctx, userID)
	if err != nil {
		logger.Error("ListConversations Error: user %s: %v", userID, err)
		return nil, err
	}
	return conversations, nil
}

func (uc *ChatUseCase) conversationFor(ctx context.Context, userID, conversationID string) (*entity.Conversation, error) {
	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(userID) {
		return nil, errors.Forbidden("You are not a participant in this conversation", nil)
	}
	return conversation, nil
}

// SendMessage stores the message together with the conversation summary,
// unread counters and one notification per other participant.
func (uc *ChatUseCase) SendMessage(ctx context.Context, userID string, input SendMessageInput) (*entity.Message, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" && len(input.Attachments) == 0 {
		return nil, errors.BadRequest("Message cannot be empty", nil)
	}
	kind := input.Type
	if kind == "" {
		kind = entity.MessageText
	}
	if !kind.Valid() {
		return nil, errors.BadRequest("Invalid message type: "+string(kind), nil)
	}

	if err := checkRate(uc.rateLimiter, "SendMessage", userID, ratelimit.ActionSendMessage); err != nil {
		return nil, err
	}

	conversation, err := uc.conversationFor(ctx, userID, input.ConversationID)
	if err != nil {
		logger.Error("SendMessage Error: conversation %s: %v", input.ConversationID, err)
		return nil, err
	}
	sender, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Error("SendMessage Error: sender %s: %v", userID, err)
		return nil, err
	}

	message := &entity.Message{
		ID:             uuid.New().String(),
		ConversationID: conversation.ID,
		SenderID:       userID,
		Content:        content,
		Type:           kind,
		CreatedAt:      time.Now(),
		Attachments:    input.Attachments,
		ReplyTo:        input.ReplyTo,
	}

	var notifications []*entity.Notification
	for _, p := range conversation.Participants {
		if p == userID {
			continue
		}
		n := newNotification(p, entity.NotificationNewMessage,
			"New message from "+sender.DisplayName,
			entity.Preview(content),
			map[string]interface{}{"conversationId": conversation.ID, "messageId": message.ID},
		)
		n.ActionURL = "/messages/" + conversation.ID
		notifications = append(notifications, n)
	}

	if err := uc.conversationRepo.AppendMessage(ctx, conversation, message, notifications); err != nil {
		logger.Error("SendMessage Error: conversation %s: %v", conversation.ID, err)
		return nil, err
	}
	return message, nil
}

func (uc *ChatUseCase) GetMessages(ctx context.Context, userID, conversationID string) ([]*entity.Message, error) {
	if _, err := uc.conversationFor(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	messages, err := uc.conversationRepo.ListMessages(ctx, conversationID, uc.pageSize)
	if err != nil {
		logger.Error("GetMessages Error: conversation %s: %v", conversationID, err)
		return nil, err
	}
	return messages, nil
}

func (uc *ChatUseCase) ownMessage(ctx context.Context, userID, messageID string) (*entity.Message, error) {
	message, err := uc.conversationRepo.GetMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if message.SenderID != userID {
		return nil, errors.Forbidden("You can only change your own messages", nil)
	}
	return message, nil
}

// EditMessage keeps the original creation time.
func (uc *ChatUseCase) EditMessage(ctx context.Context, userID, messageID, content string) (*entity.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.BadRequest("Message cannot be empty", nil)
	}

	message, err := uc.ownMessage(ctx, userID, messageID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := uc.conversationRepo.EditMessage(ctx, messageID, content, now); err != nil {
		logger.Error("EditMessage Error: message %s: %v", messageID, err)
		return nil, err
	}
	message.Content = content
	message.Edited = true
	message.EditedAt = &now
	return message, nil
}

// DeleteMessage removes the message for good. The conversation's last
// message summary is left as it was.
func (uc *ChatUseCase) DeleteMessage(ctx context.Context, userID, messageID string) error {
	if _, err := uc.ownMessage(ctx, userID, messageID); err != nil {
		return err
	}
	if err := uc.conversationRepo.DeleteMessage(ctx, messageID); err != nil {
		logger.Error("DeleteMessage Error: message %s: %v", messageID, err)
		return err
	}
	return nil
}

func (uc *ChatUseCase) AddReaction(ctx context.Context, userID, messageID, emoji string) ([]entity.Reaction, error) {
	return uc.react(ctx, userID, messageID, emoji, entity.AddReaction)
}

func (uc *ChatUseCase) RemoveReaction(ctx context.Context, userID, messageID, emoji string) ([]entity.Reaction, error) {
	return uc.react(ctx, userID, messageID, emoji, entity.RemoveReaction)
}

func (uc *ChatUseCase) react(ctx context.Context, userID, messageID, emoji string, apply func([]entity.Reaction, string, string) []entity.Reaction) ([]entity.Reaction, error) {
	if emoji == "" {
		return nil, errors.BadRequest("Emoji is required", nil)
	}

	message, err := uc.conversationRepo.GetMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.conversationFor(ctx, userID, message.ConversationID); err != nil {
		return nil, err
	}

	reactions, err := uc.conversationRepo.UpdateReactions(ctx, messageID, func(current []entity.Reaction) []entity.Reaction {
		return apply(current, emoji, userID)
	})
	if err != nil {
		logger.Error("React Error: message %s: %v", messageID, err)
		return nil, err
	}
	return reactions, nil
}

// MarkRead resets only the caller's unread counter.
func (uc *ChatUseCase) MarkRead(ctx context.Context, userID, conversationID string) error {
	if _, err := uc.conversationFor(ctx, userID, conversationID); err != nil {
		return err
	}
	return uc.conversationRepo.MarkRead(ctx, conversationID, userID)
}

func (uc *ChatUseCase) WatchMessages(ctx context.Context, userID, conversationID string, fn func([]*entity.Message)) (repository.Unsubscribe, error) {
	if _, err := uc.conversationFor(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return uc.conversationRepo.WatchMessages(ctx, conversationID, fn)
}
