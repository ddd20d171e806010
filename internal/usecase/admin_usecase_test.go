package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swapskill/internal/domain/entity"
	"swapskill/pkg/errors"
)

func TestBanClearsVerificationAndUnbanDoesNotRestoreIt(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.user(t, "u1", "Una", true)

	err := f.admin.BanUser(ctx, "admin", "u1", "  ")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	require.NoError(t, f.admin.BanUser(ctx, "admin", "u1", "harassment"))
	u, _ := f.repos.Users.GetByID(ctx, "u1")
	assert.True(t, u.IsBanned)
	assert.False(t, u.IsVerified)
	assert.Equal(t, "harassment", u.BanReason)
	require.NotNil(t, u.BannedAt)

	require.NoError(t, f.admin.UnbanUser(ctx, "admin", "u1"))
	u, _ = f.repos.Users.GetByID(ctx, "u1")
	assert.False(t, u.IsBanned)
	assert.False(t, u.IsVerified)
	assert.Empty(t, u.BanReason)
	assert.Nil(t, u.BannedAt)
}

func TestResolveFlagDoesNotTouchContent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.user(t, "u1", "Una", true)
	skill := f.skill(t, "u1", "Lockpicking", "other", entity.SkillOffered)

	first, err := f.admin.ReportContent(ctx, "u2", ReportContentInput{ContentType: "skill", ContentID: skill.ID, Reason: "illegal"})
	require.NoError(t, err)
	second, err := f.admin.ReportContent(ctx, "u3", ReportContentInput{ContentType: "skill", ContentID: skill.ID, Reason: "spam"})
	require.NoError(t, err)

	_, err = f.admin.ReportContent(ctx, "u3", ReportContentInput{ContentType: "planet", ContentID: "x", Reason: "spam"})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	require.NoError(t, f.admin.ResolveFlag(ctx, "admin", first.ID, FlagReject))
	require.NoError(t, f.admin.ResolveFlag(ctx, "admin", second.ID, FlagApprove))

	flags, err := f.admin.ListFlags(ctx)
	require.NoError(t, err)
	require.Len(t, flags, 1)
	assert.Equal(t, entity.FlagApproved, flags[0].Status)
	assert.Equal(t, "admin", flags[0].ReviewedBy)

	_, err = f.repos.Skills.GetByID(ctx, skill.ID)
	assert.NoError(t, err)
}

func TestBroadcastAndStats(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.user(t, "u1", "Una", true)
	f.user(t, "u2", "Vic", false)
	f.completedSwap(t, "s1", "u1", "u2")

	_, err := f.admin.Broadcast(ctx, "admin", "   ", entity.BroadcastInfo)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	msg, err := f.admin.Broadcast(ctx, "admin", "Maintenance tonight", "")
	require.NoError(t, err)
	assert.Equal(t, entity.BroadcastInfo, msg.Type)
	assert.True(t, msg.Active)

	stats, err := f.admin.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalUsers)
	assert.Equal(t, 1, stats.VerifiedUsers)
	assert.Equal(t, 1, stats.SwapsByStatus[entity.SwapCompleted])
	assert.Equal(t, 1, stats.ActiveNotices)

	require.NoError(t, f.admin.DeactivateBroadcast(ctx, msg.ID))
	active, err := f.admin.ListBroadcasts(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)
}
