package session

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"swapskill/internal/domain/entity"
	"swapskill/internal/usecase"
	"swapskill/pkg/errors"
)

func TestConcurrentAddSkillKeepsBoth(t *testing.T) {
	skills := new(MockSkills)
	offered := &entity.Skill{ID: "s1", Name: "JavaScript", UserID: "u1", Type: entity.SkillOffered}
	wanted := &entity.Skill{ID: "s2", Name: "Python", UserID: "u1", Type: entity.SkillWanted}
	skills.On("AddSkill", mock.Anything, "u1", mock.MatchedBy(func(in usecase.AddSkillInput) bool { return in.Type == entity.SkillOffered })).Return(offered, nil)
	skills.On("AddSkill", mock.Anything, "u1", mock.MatchedBy(func(in usecase.AddSkillInput) bool { return in.Type == entity.SkillWanted })).Return(wanted, nil)

	store := NewStore("u1", Services{Skills: skills})

	var wg sync.WaitGroup
	for _, kind := range []entity.SkillType{entity.SkillOffered, entity.SkillWanted} {
		wg.Add(1)
		go func(kind entity.SkillType) {
			defer wg.Done()
			store.AddSkill(context.Background(), usecase.AddSkillInput{Name: "x", Type: kind})
		}(kind)
	}
	wg.Wait()

	buckets := store.Snapshot().UserSkills["u1"]
	require.Len(t, buckets.Offered, 1)
	require.Len(t, buckets.Wanted, 1)
	assert.Equal(t, "JavaScript", buckets.Offered[0].Name)
	assert.Equal(t, "Python", buckets.Wanted[0].Name)
	assert.True(t, buckets.Offered[0].Pending)
	skills.AssertExpectations(t)
}

func TestFailedActionRecordsErrorWithoutPatching(t *testing.T) {
	skills := new(MockSkills)
	skills.On("AddSkill", mock.Anything, "u1", mock.Anything).Return(nil, errors.BadRequest("Unknown skill category: x", nil))

	store := NewStore("u1", Services{Skills: skills})
	store.AddSkill(context.Background(), usecase.AddSkillInput{Name: "Go"})

	st := store.Snapshot()
	assert.Equal(t, "Unknown skill category: x", st.Error)
	assert.Empty(t, st.UserSkills)

	store.ClearError()
	assert.Empty(t, store.Snapshot().Error)
}

func TestLoadAlwaysClearsLoadingFlag(t *testing.T) {
	users := new(MockUsers)
	users.On("SearchUsers", mock.Anything, mock.Anything).Return(nil, stderrors.New("network down")).Once()
	users.On("SearchUsers", mock.Anything, mock.Anything).Return([]*entity.UserProfile{{User: &entity.User{ID: "u2"}}}, nil).Once()

	store := NewStore("u1", Services{Users: users})

	var sawLoading bool
	store.OnChange(func(st State) {
		if st.Loading.Users {
			sawLoading = true
		}
	})

	store.SearchUsers(context.Background(), usecase.SearchFilter{})
	st := store.Snapshot()
	assert.True(t, sawLoading)
	assert.False(t, st.Loading.Users)
	assert.Equal(t, "network down", st.Error)

	store.SearchUsers(context.Background(), usecase.SearchFilter{})
	st = store.Snapshot()
	assert.False(t, st.Loading.Users)
	assert.Len(t, st.Users, 1)
	// The previous error stays until overwritten or cleared.
	assert.Equal(t, "network down", st.Error)
}

func TestEditOfUncachedMessageIsNoOp(t *testing.T) {
	chat := new(MockChat)
	now := time.Now()
	chat.On("EditMessage", mock.Anything, "u1", "ghost", "new").Return(&entity.Message{ID: "ghost", Content: "new", Edited: true, EditedAt: &now}, nil)
	chat.On("DeleteMessage", mock.Anything, "u1", "ghost").Return(nil)

	store := NewStore("u1", Services{Chat: chat})
	store.update(func(st State) State {
		return replaceMessages(st, "c1", []*entity.Message{{ID: "m1", ConversationID: "c1", Content: "hi"}})
	})

	store.EditMessage(context.Background(), "ghost", "new")
	store.DeleteMessage(context.Background(), "ghost")

	st := store.Snapshot()
	assert.Empty(t, st.Error)
	require.Len(t, st.Messages["c1"], 1)
	assert.Equal(t, "hi", st.Messages["c1"][0].Content)
}

func TestEditAndReactFindMessageInAnyConversation(t *testing.T) {
	chat := new(MockChat)
	now := time.Now()
	chat.On("EditMessage", mock.Anything, "u1", "m2", "edited").Return(&entity.Message{ID: "m2", Content: "edited", Edited: true, EditedAt: &now}, nil)
	chat.On("AddReaction", mock.Anything, "u1", "m2", "👍").Return([]entity.Reaction{{Emoji: "👍", Users: []string{"u1"}}}, nil)

	store := NewStore("u1", Services{Chat: chat})
	store.update(func(st State) State {
		st = replaceMessages(st, "c1", []*entity.Message{{ID: "m1", ConversationID: "c1"}})
		return replaceMessages(st, "c2", []*entity.Message{{ID: "m2", ConversationID: "c2", Content: "orig"}})
	})

	store.EditMessage(context.Background(), "m2", "edited")
	store.AddReaction(context.Background(), "m2", "👍")

	m := store.Snapshot().Messages["c2"][0]
	assert.Equal(t, "edited", m.Content)
	assert.True(t, m.Edited)
	assert.Equal(t, now, *m.EditedAt)
	assert.Len(t, m.Reactions, 1)
}

func TestOptimisticMessageNotDuplicated(t *testing.T) {
	chat := new(MockChat)
	sent := &entity.Message{ID: "m1", ConversationID: "c1", SenderID: "u1", Content: "hi", CreatedAt: time.Now()}
	chat.On("SendMessage", mock.Anything, "u1", mock.Anything).Return(sent, nil)

	store := NewStore("u1", Services{Chat: chat})
	store.update(func(st State) State {
		st = replaceConversations(st, []*entity.Conversation{{ID: "c1", UnreadCount: map[string]int{"u1": 0}}})
		// The listener delivered the message before the call returned.
		return replaceMessages(st, "c1", []*entity.Message{sent})
	})

	store.SendMessage(context.Background(), usecase.SendMessageInput{ConversationID: "c1", Content: "hi"})

	st := store.Snapshot()
	require.Len(t, st.Messages["c1"], 1)
	assert.False(t, st.Messages["c1"][0].Pending)
}

func TestSendMessageAppendsPendingAndUpdatesSummary(t *testing.T) {
	chat := new(MockChat)
	sent := &entity.Message{ID: "m2", ConversationID: "c1", SenderID: "u1", Content: "second", CreatedAt: time.Now()}
	chat.On("SendMessage", mock.Anything, "u1", mock.Anything).Return(sent, nil)

	store := NewStore("u1", Services{Chat: chat})
	store.update(func(st State) State {
		st = replaceConversations(st, []*entity.Conversation{{ID: "c1"}})
		return replaceMessages(st, "c1", []*entity.Message{{ID: "m1", ConversationID: "c1"}})
	})

	store.SendMessage(context.Background(), usecase.SendMessageInput{ConversationID: "c1", Content: "second"})

	st := store.Snapshot()
	require.Len(t, st.Messages["c1"], 2)
	assert.True(t, st.Messages["c1"][1].Pending)
	require.NotNil(t, st.Conversations[0].LastMessage)
	assert.Equal(t, "second", st.Conversations[0].LastMessage.Content)
	assert.False(t, sent.Pending)
}

func TestPreconditionsFailBeforeRemoteCall(t *testing.T) {
	admin := new(MockAdmin)
	chat := new(MockChat)
	store := NewStore("admin", Services{Admin: admin, Chat: chat})

	store.BanUser(context.Background(), "u2", "   ")
	assert.Equal(t, "A ban reason is required", store.Snapshot().Error)

	store.Broadcast(context.Background(), "", entity.BroadcastInfo)
	assert.Equal(t, "Broadcast content cannot be empty", store.Snapshot().Error)

	store.SendMessage(context.Background(), usecase.SendMessageInput{ConversationID: "c1", Content: " "})
	assert.Equal(t, "Message cannot be empty", store.Snapshot().Error)

	admin.AssertNotCalled(t, "BanUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	admin.AssertNotCalled(t, "Broadcast", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	chat.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestBanPatchesCachedUser(t *testing.T) {
	admin := new(MockAdmin)
	admin.On("BanUser", mock.Anything, "admin", "u2", "spam").Return(nil)
	admin.On("UnbanUser", mock.Anything, "admin", "u2").Return(nil)

	store := NewStore("admin", Services{Admin: admin})
	original := &entity.User{ID: "u2", IsVerified: true}
	store.update(func(st State) State {
		return replaceUsers(st, []*entity.UserProfile{{User: original}})
	})

	store.BanUser(context.Background(), "u2", "spam")
	u := store.Snapshot().Users[0]
	assert.True(t, u.IsBanned)
	assert.False(t, u.IsVerified)
	assert.Equal(t, "spam", u.BanReason)
	assert.True(t, original.IsVerified)

	store.UnbanUser(context.Background(), "u2")
	u = store.Snapshot().Users[0]
	assert.False(t, u.IsBanned)
	assert.False(t, u.IsVerified)
	assert.Nil(t, u.BannedAt)
}

func TestUpdateSwapStatusKeepsCachedSkills(t *testing.T) {
	offered := &entity.Skill{ID: "s1", Name: "Knitting"}
	requested := &entity.Skill{ID: "s2", Name: "Spanish"}

	swaps := new(MockSwaps)
	swaps.On("UpdateStatus", mock.Anything, "bob", "r1", entity.SwapAccepted, "").
		Return(&entity.SwapRequest{ID: "r1", Status: entity.SwapAccepted, RequestedSkill: requested}, nil)

	store := NewStore("bob", Services{Swaps: swaps})
	store.update(func(st State) State {
		return replaceRequests(st, []*entity.SwapRequest{
			{ID: "r1", Status: entity.SwapPending, OfferedSkill: offered, RequestedSkill: requested},
		})
	})

	store.UpdateSwapStatus(context.Background(), "r1", entity.SwapAccepted, "")

	req := store.Snapshot().SwapRequests[0]
	assert.Equal(t, entity.SwapAccepted, req.Status)
	require.NotNil(t, req.OfferedSkill)
	assert.Equal(t, "Knitting", req.OfferedSkill.Name)
	assert.Equal(t, "Spanish", req.RequestedSkill.Name)
	swaps.AssertExpectations(t)
}

func TestCreateConversationReturnsError(t *testing.T) {
	chat := new(MockChat)
	chat.On("CreateConversation", mock.Anything, "u1", mock.Anything).Return(nil, errors.Forbidden("nope", nil))

	store := NewStore("u1", Services{Chat: chat})
	conv, err := store.CreateConversation(context.Background(), usecase.CreateConversationInput{ParticipantIDs: []string{"u2"}})
	assert.Nil(t, conv)
	assert.Error(t, err)
	assert.Equal(t, "nope", store.Snapshot().Error)
}

func TestSnapshotIsIndependent(t *testing.T) {
	store := NewStore("u1", Services{})
	store.update(func(st State) State {
		return replaceMessages(st, "c1", []*entity.Message{{ID: "m1"}})
	})

	snap := store.Snapshot()
	snap.Messages["c1"] = nil
	snap.Messages["c2"] = []*entity.Message{{ID: "x"}}

	st := store.Snapshot()
	assert.Len(t, st.Messages["c1"], 1)
	assert.NotContains(t, st.Messages, "c2")
}
