package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swapskill/internal/domain/entity"
	"swapskill/pkg/errors"
)

func TestBareSkillIDsAreResolved(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.user(t, "alice", "Alice", true)
	f.user(t, "bob", "Bob", true)
	skillA := f.skill(t, "alice", "Knitting", "crafts", entity.SkillOffered)
	skillB := f.skill(t, "bob", "Spanish", "languages", entity.SkillOffered)

	now := time.Now()
	require.NoError(t, f.repos.SwapRequests.Create(ctx, &entity.SwapRequest{
		ID:                "r1",
		RequesterID:       "alice",
		TargetID:          "bob",
		OfferedSkillRef:   skillA.ID,
		RequestedSkillRef: skillB.ID,
		Status:            entity.SwapPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}))

	for _, tc := range []struct {
		user      string
		direction SwapDirection
	}{
		{"bob", SwapIncoming},
		{"alice", SwapOutgoing},
		{"alice", SwapAll},
	} {
		requests, err := f.swaps.GetSwapRequests(ctx, tc.user, tc.direction)
		require.NoError(t, err, tc.direction)
		require.Len(t, requests, 1, tc.direction)
		require.NotNil(t, requests[0].OfferedSkill, tc.direction)
		assert.Equal(t, skillA.ID, requests[0].OfferedSkill.ID)
		assert.Equal(t, "Knitting", requests[0].OfferedSkill.Name)
		assert.Equal(t, "crafts", requests[0].OfferedSkill.Category.ID)
		assert.Equal(t, skillB.ID, requests[0].RequestedSkill.ID)
	}
}

func TestUnresolvableSkillDropsRequest(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.user(t, "alice", "Alice", true)
	f.user(t, "bob", "Bob", true)
	skillB := f.skill(t, "bob", "Spanish", "languages", entity.SkillOffered)

	now := time.Now()
	require.NoError(t, f.repos.SwapRequests.Create(ctx, &entity.SwapRequest{
		ID: "r1", RequesterID: "alice", TargetID: "bob",
		OfferedSkillRef: "deleted-skill", RequestedSkillRef: skillB.ID,
		Status: entity.SwapPending, CreatedAt: now, UpdatedAt: now,
	}))

	requests, err := f.swaps.GetSwapRequests(ctx, "bob", SwapIncoming)
	require.NoError(t, err)
	assert.Empty(t, requests)
}

func TestUpdateStatusResolvesRemainingSkill(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.user(t, "alice", "Alice", true)
	f.user(t, "bob", "Bob", true)
	skillB := f.skill(t, "bob", "Spanish", "languages", entity.SkillOffered)

	now := time.Now()
	require.NoError(t, f.repos.SwapRequests.Create(ctx, &entity.SwapRequest{
		ID: "r1", RequesterID: "alice", TargetID: "bob",
		OfferedSkillRef: "deleted-skill", RequestedSkillRef: skillB.ID,
		Status: entity.SwapPending, CreatedAt: now, UpdatedAt: now,
	}))

	req, err := f.swaps.UpdateStatus(ctx, "bob", "r1", entity.SwapAccepted, "")
	require.NoError(t, err)
	assert.Equal(t, entity.SwapAccepted, req.Status)
	assert.Nil(t, req.OfferedSkill)
	require.NotNil(t, req.RequestedSkill)
	assert.Equal(t, skillB.ID, req.RequestedSkill.ID)
}

func TestSwapLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.user(t, "alice", "Alice", true)
	f.user(t, "bob", "Bob", true)
	offered := f.skill(t, "alice", "Knitting", "crafts", entity.SkillOffered)
	requested := f.skill(t, "bob", "Spanish", "languages", entity.SkillOffered)

	req, err := f.swaps.CreateSwapRequest(ctx, "alice", CreateSwapRequestInput{
		TargetID:         "bob",
		OfferedSkillID:   offered.ID,
		RequestedSkillID: requested.ID,
		Message:          "Trade?",
	})
	require.NoError(t, err)
	assert.True(t, req.Resolved())
	assert.Equal(t, entity.SwapPending, req.Status)

	bobNotes, _ := f.notes.ListNotifications(ctx, "bob")
	require.Len(t, bobNotes, 1)
	assert.Equal(t, entity.NotificationSwapRequest, bobNotes[0].Type)

	// The requester may only cancel.
	_, err = f.swaps.UpdateStatus(ctx, "alice", req.ID, entity.SwapAccepted, "")
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	_, err = f.swaps.UpdateStatus(ctx, "bob", req.ID, entity.SwapCompleted, "")
	assert.True(t, errors.Is(err, "CONFLICT"))

	updated, err := f.swaps.UpdateStatus(ctx, "bob", req.ID, entity.SwapAccepted, "")
	require.NoError(t, err)
	assert.Equal(t, entity.SwapAccepted, updated.Status)
	assert.True(t, updated.UpdatedAt.After(req.CreatedAt) || updated.UpdatedAt.Equal(req.CreatedAt))

	_, err = f.swaps.UpdateStatus(ctx, "bob", req.ID, entity.SwapCompleted, "")
	require.NoError(t, err)

	alice, _ := f.repos.Users.GetByID(ctx, "alice")
	bob, _ := f.repos.Users.GetByID(ctx, "bob")
	assert.Equal(t, 1, alice.TotalSwaps)
	assert.Equal(t, 1, bob.TotalSwaps)

	_, err = f.swaps.UpdateStatus(ctx, "bob", req.ID, entity.SwapDeclined, "")
	assert.True(t, errors.Is(err, "CONFLICT"))

	aliceNotes, _ := f.notes.ListNotifications(ctx, "alice")
	assert.Len(t, aliceNotes, 2)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newFixture()

	_, err := f.swaps.UpdateStatus(context.Background(), "bob", "r1", entity.SwapStatus("paused"), "")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestCreateSwapRequestValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.user(t, "alice", "Alice", true)
	f.user(t, "bob", "Bob", true)
	wanted := f.skill(t, "alice", "Drums", "music", entity.SkillWanted)
	requested := f.skill(t, "bob", "Spanish", "languages", entity.SkillOffered)

	_, err := f.swaps.CreateSwapRequest(ctx, "alice", CreateSwapRequestInput{TargetID: "alice"})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = f.swaps.CreateSwapRequest(ctx, "alice", CreateSwapRequestInput{
		TargetID: "bob", OfferedSkillID: wanted.ID, RequestedSkillID: requested.ID,
	})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}
