package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"swapskill/internal/adapter/repository/memory"
	"swapskill/internal/domain/entity"
)

type fixture struct {
	repos  *memory.Repositories
	users  *UserUseCase
	skills *SkillUseCase
	swaps  *SwapUseCase
	rating *RatingUseCase
	chat   *ChatUseCase
	notes  *NotificationUseCase
	admin  *AdminUseCase
}

func newFixture() *fixture {
	repos := memory.NewRepositories(memory.NewDB())
	swaps := NewSwapUseCase(repos.SwapRequests, repos.Skills, repos.Users, repos.Notifications, nil)
	return &fixture{
		repos:  repos,
		users:  NewUserUseCase(repos.Users, repos.Skills, 50),
		skills: NewSkillUseCase(repos.Skills),
		swaps:  swaps,
		rating: NewRatingUseCase(repos.Ratings, repos.SwapRequests, repos.Notifications),
		chat:   NewChatUseCase(repos.Conversations, repos.Users, repos.SwapRequests, nil, 100),
		notes:  NewNotificationUseCase(repos.Notifications, 50),
		admin:  NewAdminUseCase(repos.Users, repos.SwapRequests, repos.Moderation, repos.Notifications, swaps, nil, 50),
	}
}

func (f *fixture) user(t *testing.T, id, name string, verified bool) *entity.User {
	t.Helper()
	u, err := f.users.EnsureUser(context.Background(), SignInInput{UserID: id, Email: id + "@example.com", DisplayName: name})
	require.NoError(t, err)
	if verified {
		require.NoError(t, f.repos.Users.SetVerified(context.Background(), id, true))
	}
	return u
}

func (f *fixture) skill(t *testing.T, userID, name, category string, kind entity.SkillType) *entity.Skill {
	t.Helper()
	s, err := f.skills.AddSkill(context.Background(), userID, AddSkillInput{
		Name:       name,
		CategoryID: category,
		Level:      entity.LevelIntermediate,
		Type:       kind,
	})
	require.NoError(t, err)
	return s
}

// completedSwap stores a finished swap between requester and target.
func (f *fixture) completedSwap(t *testing.T, id, requester, target string) {
	t.Helper()
	now := time.Now()
	require.NoError(t, f.repos.SwapRequests.Create(context.Background(), &entity.SwapRequest{
		ID: id, RequesterID: requester, TargetID: target,
		OfferedSkillRef: "x", RequestedSkillRef: "y",
		Status: entity.SwapCompleted, CreatedAt: now, UpdatedAt: now,
	}))
}
