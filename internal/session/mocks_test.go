package session

import (
	"context"

	"github.com/stretchr/testify/mock"

	"swapskill/internal/domain/entity"
	"swapskill/internal/domain/repository"
	"swapskill/internal/usecase"
)

type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) SearchUsers(ctx context.Context, filter usecase.SearchFilter) ([]*entity.UserProfile, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.UserProfile), args.Error(1)
}

type MockSkills struct {
	mock.Mock
}

func (m *MockSkills) AddSkill(ctx context.Context, userID string, input usecase.AddSkillInput) (*entity.Skill, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Skill), args.Error(1)
}

func (m *MockSkills) DeleteSkill(ctx context.Context, userID, skillID string) error {
	args := m.Called(ctx, userID, skillID)
	return args.Error(0)
}

func (m *MockSkills) ListUserSkills(ctx context.Context, userID string) ([]*entity.Skill, []*entity.Skill, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]*entity.Skill), args.Get(1).([]*entity.Skill), args.Error(2)
}

type MockSwaps struct {
	mock.Mock
}

func (m *MockSwaps) CreateSwapRequest(ctx context.Context, requesterID string, input usecase.CreateSwapRequestInput) (*entity.SwapRequest, error) {
	args := m.Called(ctx, requesterID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SwapRequest), args.Error(1)
}

func (m *MockSwaps) GetSwapRequests(ctx context.Context, userID string, direction usecase.SwapDirection) ([]*entity.SwapRequest, error) {
	args := m.Called(ctx, userID, direction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.SwapRequest), args.Error(1)
}

func (m *MockSwaps) UpdateStatus(ctx context.Context, actorID, requestID string, status entity.SwapStatus, adminNote string) (*entity.SwapRequest, error) {
	args := m.Called(ctx, actorID, requestID, status, adminNote)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SwapRequest), args.Error(1)
}

type MockChat struct {
	mock.Mock
}

func (m *MockChat) CreateConversation(ctx context.Context, userID string, input usecase.CreateConversationInput) (*entity.Conversation, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Conversation), args.Error(1)
}

func (m *MockChat) ListConversations(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Conversation), args.Error(1)
}

func (m *MockChat) SendMessage(ctx context.Context, userID string, input usecase.SendMessageInput) (*entity.Message, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Message), args.Error(1)
}

func (m *MockChat) GetMessages(ctx context.Context, userID, conversationID string) ([]*entity.Message, error) {
	args := m.Called(ctx, userID, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Message), args.Error(1)
}

func (m *MockChat) EditMessage(ctx context.Context, userID, messageID, content string) (*entity.Message, error) {
	args := m.Called(ctx, userID, messageID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Message), args.Error(1)
}

func (m *MockChat) DeleteMessage(ctx context.Context, userID, messageID string) error {
	args := m.Called(ctx, userID, messageID)
	return args.Error(0)
}

func (m *MockChat) AddReaction(ctx context.Context, userID, messageID, emoji string) ([]entity.Reaction, error) {
	args := m.Called(ctx, userID, messageID, emoji)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Reaction), args.Error(1)
}

func (m *MockChat) RemoveReaction(ctx context.Context, userID, messageID, emoji string) ([]entity.Reaction, error) {
	args := m.Called(ctx, userID, messageID, emoji)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Reaction), args.Error(1)
}

func (m *MockChat) MarkRead(ctx context.Context, userID, conversationID string) error {
	args := m.Called(ctx, userID, conversationID)
	return args.Error(0)
}

func (m *MockChat) WatchMessages(ctx context.Context, userID, conversationID string, fn func([]*entity.Message)) (repository.Unsubscribe, error) {
	args := m.Called(ctx, userID, conversationID, fn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Unsubscribe), args.Error(1)
}

type MockAdmin struct {
	mock.Mock
}

func (m *MockAdmin) ListSwapRequests(ctx context.Context) ([]*entity.SwapRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.SwapRequest), args.Error(1)
}

func (m *MockAdmin) ListFlags(ctx context.Context) ([]*entity.FlaggedContent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.FlaggedContent), args.Error(1)
}

func (m *MockAdmin) ResolveFlag(ctx context.Context, adminID, flagID string, resolution usecase.FlagResolution) error {
	args := m.Called(ctx, adminID, flagID, resolution)
	return args.Error(0)
}

func (m *MockAdmin) Broadcast(ctx context.Context, adminID, content string, kind entity.BroadcastType) (*entity.SystemMessage, error) {
	args := m.Called(ctx, adminID, content, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SystemMessage), args.Error(1)
}

func (m *MockAdmin) BanUser(ctx context.Context, adminID, userID, reason string) error {
	args := m.Called(ctx, adminID, userID, reason)
	return args.Error(0)
}

func (m *MockAdmin) UnbanUser(ctx context.Context, adminID, userID string) error {
	args := m.Called(ctx, adminID, userID)
	return args.Error(0)
}

func (m *MockAdmin) VerifyUser(ctx context.Context, adminID, userID string, verified bool) error {
	args := m.Called(ctx, adminID, userID, verified)
	return args.Error(0)
}

func (m *MockAdmin) WatchFlags(ctx context.Context, fn func([]*entity.FlaggedContent)) (repository.Unsubscribe, error) {
	args := m.Called(ctx, fn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Unsubscribe), args.Error(1)
}

func (m *MockAdmin) WatchSystemMessages(ctx context.Context, fn func([]*entity.SystemMessage)) (repository.Unsubscribe, error) {
	args := m.Called(ctx, fn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Unsubscribe), args.Error(1)
}
