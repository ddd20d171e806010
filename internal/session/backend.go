// Package session keeps one client's cached view of the remote collections
// and the live listeners that refresh it.
package session

import (
	"context"

	"swapskill/internal/domain/entity"
	"swapskill/internal/domain/repository"
	"swapskill/internal/usecase"
)

// The service interfaces are satisfied by the use cases; tests substitute
// mocks.

type UserService interface {
	SearchUsers(ctx context.Context, filter usecase.SearchFilter) ([]*entity.UserProfile, error)
}

type SkillService interface {
	AddSkill(ctx context.Context, userID string, input usecase.AddSkillInput) (*entity.Skill, error)
	DeleteSkill(ctx context.Context, userID, skillID string) error
	ListUserSkills(ctx context.Context, userID string) (offered, wanted []*entity.Skill, err error)
}

type SwapService interface {
	CreateSwapRequest(ctx context.Context, requesterID string, input usecase.CreateSwapRequestInput) (*entity.SwapRequest, error)
	GetSwapRequests(ctx context.Context, userID string, direction usecase.SwapDirection) ([]*entity.SwapRequest, error)
	UpdateStatus(ctx context.Context, actorID, requestID string, status entity.SwapStatus, adminNote string) (*entity.SwapRequest, error)
}

type RatingService interface {
	RateSwap(ctx context.Context, raterID string, input usecase.RateSwapInput) (*entity.RatingSummary, error)
}

type ChatService interface {
	CreateConversation(ctx context.Context, userID string, input usecase.CreateConversationInput) (*entity.Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]*entity.Conversation, error)
	SendMessage(ctx context.Context, userID string, input usecase.SendMessageInput) (*entity.Message, error)
	GetMessages(ctx context.Context, userID, conversationID string) ([]*entity.Message, error)
	EditMessage(ctx context.Context, userID, messageID, content string) (*entity.Message, error)
	DeleteMessage(ctx context.Context, userID, messageID string) error
	AddReaction(ctx context.Context, userID, messageID, emoji string) ([]entity.Reaction, error)
	RemoveReaction(ctx context.Context, userID, messageID, emoji string) ([]entity.Reaction, error)
	MarkRead(ctx context.Context, userID, conversationID string) error
	WatchMessages(ctx context.Context, userID, conversationID string, fn func([]*entity.Message)) (repository.Unsubscribe, error)
}

type NotificationService interface {
	ListNotifications(ctx context.Context, userID string) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
	WatchNotifications(ctx context.Context, userID string, fn func([]*entity.Notification)) (repository.Unsubscribe, error)
}

type AdminService interface {
	ListSwapRequests(ctx context.Context) ([]*entity.SwapRequest, error)
	ListFlags(ctx context.Context) ([]*entity.FlaggedContent, error)
	ResolveFlag(ctx context.Context, adminID, flagID string, resolution usecase.FlagResolution) error
	Broadcast(ctx context.Context, adminID, content string, kind entity.BroadcastType) (*entity.SystemMessage, error)
	BanUser(ctx context.Context, adminID, userID, reason string) error
	UnbanUser(ctx context.Context, adminID, userID string) error
	VerifyUser(ctx context.Context, adminID, userID string, verified bool) error
	WatchFlags(ctx context.Context, fn func([]*entity.FlaggedContent)) (repository.Unsubscribe, error)
	WatchSystemMessages(ctx context.Context, fn func([]*entity.SystemMessage)) (repository.Unsubscribe, error)
}

// Services bundles the remote operations a session calls.
type Services struct {
	Users         UserService
	Skills        SkillService
	Swaps         SwapService
	Ratings       RatingService
	Chat          ChatService
	Notifications NotificationService
	Admin         AdminService
}
