package session

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"swapskill/internal/adapter/repository/memory"
	"swapskill/internal/domain/entity"
	"swapskill/internal/domain/repository"
	"swapskill/internal/usecase"
	"swapskill/pkg/errors"
)

type backend struct {
	repos    *memory.Repositories
	users    *usecase.UserUseCase
	chat     *usecase.ChatUseCase
	services Services
}

func newBackend(t *testing.T, userIDs ...string) *backend {
	t.Helper()
	repos := memory.NewRepositories(memory.NewDB())
	swaps := usecase.NewSwapUseCase(repos.SwapRequests, repos.Skills, repos.Users, repos.Notifications, nil)
	b := &backend{
		repos: repos,
		users: usecase.NewUserUseCase(repos.Users, repos.Skills, 50),
		chat:  usecase.NewChatUseCase(repos.Conversations, repos.Users, repos.SwapRequests, nil, 100),
	}
	b.services = Services{
		Users:         b.users,
		Skills:        usecase.NewSkillUseCase(repos.Skills),
		Swaps:         swaps,
		Ratings:       usecase.NewRatingUseCase(repos.Ratings, repos.SwapRequests, repos.Notifications),
		Chat:          b.chat,
		Notifications: usecase.NewNotificationUseCase(repos.Notifications, 50),
		Admin:         usecase.NewAdminUseCase(repos.Users, repos.SwapRequests, repos.Moderation, repos.Notifications, swaps, nil, 50),
	}
	for _, id := range userIDs {
		_, err := b.users.EnsureUser(context.Background(), usecase.SignInInput{UserID: id, Email: id + "@example.com", DisplayName: id})
		require.NoError(t, err)
	}
	return b
}

func TestSwitchingConversationStopsPreviousListener(t *testing.T) {
	be := newBackend(t, "a", "b", "c")
	ctx := context.Background()

	first, err := be.chat.CreateConversation(ctx, "a", usecase.CreateConversationInput{ParticipantIDs: []string{"b"}})
	require.NoError(t, err)
	second, err := be.chat.CreateConversation(ctx, "a", usecase.CreateConversationInput{ParticipantIDs: []string{"c"}})
	require.NoError(t, err)

	store := NewStore("a", be.services)
	bridge := NewBridge(store)
	defer bridge.Close()

	_, err = bridge.WatchConversation(ctx, first.ID)
	require.NoError(t, err)
	_, err = be.chat.SendMessage(ctx, "b", usecase.SendMessageInput{ConversationID: first.ID, Content: "one"})
	require.NoError(t, err)
	assert.Len(t, store.Snapshot().Messages[first.ID], 1)

	_, err = bridge.WatchConversation(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, bridge.ConversationID())
	assert.Equal(t, second.ID, store.Snapshot().ActiveConversationID)

	_, err = be.chat.SendMessage(ctx, "b", usecase.SendMessageInput{ConversationID: first.ID, Content: "two"})
	require.NoError(t, err)
	_, err = be.chat.SendMessage(ctx, "c", usecase.SendMessageInput{ConversationID: second.ID, Content: "three"})
	require.NoError(t, err)

	st := store.Snapshot()
	require.Len(t, st.Messages[first.ID], 1)
	assert.Equal(t, "one", st.Messages[first.ID][0].Content)
	require.Len(t, st.Messages[second.ID], 1)
	assert.Equal(t, "three", st.Messages[second.ID][0].Content)

	bridge.CloseConversation()
	assert.Empty(t, bridge.ConversationID())
	assert.Empty(t, store.Snapshot().ActiveConversationID)
}

func TestFailedConversationWatchClearsActiveConversation(t *testing.T) {
	chat := new(MockChat)
	var stops int32
	chat.On("WatchMessages", mock.Anything, "a", "c1", mock.Anything).
		Return(repository.Unsubscribe(func() { atomic.AddInt32(&stops, 1) }), nil)
	chat.On("WatchMessages", mock.Anything, "a", "c2", mock.Anything).
		Return(nil, errors.Forbidden("You are not a participant in this conversation", nil))

	store := NewStore("a", Services{Chat: chat})
	bridge := NewBridge(store)
	defer bridge.Close()

	_, err := bridge.WatchConversation(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", store.Snapshot().ActiveConversationID)

	h, err := bridge.WatchConversation(context.Background(), "c2")
	assert.Nil(t, h)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&stops))
	assert.Empty(t, bridge.ConversationID())
	assert.Empty(t, store.Snapshot().ActiveConversationID)
	assert.Equal(t, "You are not a participant in this conversation", store.Snapshot().Error)
}

func TestWatchNotificationsKeepsUnreadCount(t *testing.T) {
	be := newBackend(t, "a", "b")
	ctx := context.Background()

	store := NewStore("b", be.services)
	bridge := NewBridge(store)
	h, err := bridge.WatchNotifications(ctx)
	require.NoError(t, err)

	conv, err := be.chat.CreateConversation(ctx, "a", usecase.CreateConversationInput{ParticipantIDs: []string{"b"}})
	require.NoError(t, err)
	for _, text := range []string{"hi", "there"} {
		_, err = be.chat.SendMessage(ctx, "a", usecase.SendMessageInput{ConversationID: conv.ID, Content: text})
		require.NoError(t, err)
	}

	st := store.Snapshot()
	assert.Len(t, st.Notifications, 2)
	assert.Equal(t, 2, st.UnreadNotifications)

	store.MarkAllNotificationsRead(ctx)
	assert.Equal(t, 0, store.Snapshot().UnreadNotifications)

	h.Cancel()
	h.Cancel()
	_, err = be.chat.SendMessage(ctx, "a", usecase.SendMessageInput{ConversationID: conv.ID, Content: "again"})
	require.NoError(t, err)
	assert.Len(t, store.Snapshot().Notifications, 2)
}

func TestAdminHandleStopsBothFeeds(t *testing.T) {
	admin := new(MockAdmin)
	var flagStops, messageStops int32
	admin.On("WatchFlags", mock.Anything, mock.Anything).
		Return(repository.Unsubscribe(func() { atomic.AddInt32(&flagStops, 1) }), nil)
	admin.On("WatchSystemMessages", mock.Anything, mock.Anything).
		Return(repository.Unsubscribe(func() { atomic.AddInt32(&messageStops, 1) }), nil)

	bridge := NewBridge(NewStore("admin", Services{Admin: admin}))
	h, err := bridge.WatchAdmin(context.Background())
	require.NoError(t, err)

	h.Cancel()
	h.Cancel()
	bridge.Close()
	assert.Equal(t, int32(1), atomic.LoadInt32(&flagStops))
	assert.Equal(t, int32(1), atomic.LoadInt32(&messageStops))
}

func TestAdminPartialFailureStopsFirstFeed(t *testing.T) {
	admin := new(MockAdmin)
	var flagStops int32
	var deliver func([]*entity.FlaggedContent)
	admin.On("WatchFlags", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { deliver = args.Get(1).(func([]*entity.FlaggedContent)) }).
		Return(repository.Unsubscribe(func() { atomic.AddInt32(&flagStops, 1) }), nil)
	admin.On("WatchSystemMessages", mock.Anything, mock.Anything).
		Return(nil, errors.Internal("Failed to watch system messages", nil))

	store := NewStore("admin", Services{Admin: admin})
	h, err := NewBridge(store).WatchAdmin(context.Background())
	assert.Nil(t, h)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&flagStops))
	assert.Equal(t, "Failed to watch system messages", store.Snapshot().Error)

	// A late delivery from the stopped feed is dropped.
	require.NotNil(t, deliver)
	deliver([]*entity.FlaggedContent{{ID: "f1"}})
	assert.Empty(t, store.Snapshot().FlaggedContent)
}

func TestAdminBroadcastsSortedNewestFirst(t *testing.T) {
	admin := new(MockAdmin)
	var deliver func([]*entity.SystemMessage)
	admin.On("WatchFlags", mock.Anything, mock.Anything).
		Return(repository.Unsubscribe(func() {}), nil)
	admin.On("WatchSystemMessages", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { deliver = args.Get(1).(func([]*entity.SystemMessage)) }).
		Return(repository.Unsubscribe(func() {}), nil)

	store := NewStore("admin", Services{Admin: admin})
	bridge := NewBridge(store)
	_, err := bridge.WatchAdmin(context.Background())
	require.NoError(t, err)
	defer bridge.Close()

	base := time.Now()
	deliver([]*entity.SystemMessage{
		{ID: "old", CreatedAt: base.Add(-time.Hour)},
		{ID: "new", CreatedAt: base},
		{ID: "mid", CreatedAt: base.Add(-time.Minute)},
	})

	var ids []string
	for _, m := range store.Snapshot().SystemMessages {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"new", "mid", "old"}, ids)
}

func TestHandleCancelIsIdempotent(t *testing.T) {
	var calls int
	h := newHandle(func() { calls++ })
	h.Cancel()
	h.Cancel()
	assert.Equal(t, 1, calls)

	var nilHandle *Handle
	assert.NotPanics(t, nilHandle.Cancel)

	combined := Combine(newHandle(func() { calls++ }), nil)
	combined.Cancel()
	combined.Cancel()
	assert.Equal(t, 2, calls)
}
