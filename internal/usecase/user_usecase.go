package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"swapskill/internal/domain/entity"
	"swapskill/internal/domain/repository"
	"swapskill/pkg/errors"
	"swapskill/pkg/logger"
)

type UserUseCase struct {
	userRepo    repository.UserRepository
	skillRepo   repository.SkillRepository
	searchLimit int
}

func NewUserUseCase(userRepo repository.UserRepository, skillRepo repository.SkillRepository, searchLimit int) *UserUseCase {
	return &UserUseCase{
		userRepo:    userRepo,
		skillRepo:   skillRepo,
		searchLimit: searchLimit,
	}
}

type SignInInput struct {
	UserID      string
	Email       string
	DisplayName string
	PhotoURL    string
}

type UpdateProfileInput struct {
	DisplayName string
	Bio         string
	Location    string
	PhotoURL    string
}

// SearchFilter narrows a user search. NamePrefix and Location are prefix
// matches; Text is matched anywhere in the name, bio or location.
type SearchFilter struct {
	NamePrefix   string
	Category     string
	Location     string
	Text         string
	VerifiedOnly bool
}

// EnsureUser returns the user document, creating it on first sign-in.
func (uc *UserUseCase) EnsureUser(ctx context.Context, input SignInInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, input.UserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		logger.Error("EnsureUser Error: failed to load user %s: %v", input.UserID, err)
		return nil, err
	}

	displayName := input.DisplayName
	if displayName == "" {
		displayName = strings.Split(input.Email, "@")[0]
	}

	now := time.Now()
	user = &entity.User{
		ID:              input.UserID,
		Email:           input.Email,
		DisplayName:     displayName,
		PhotoURL:        input.PhotoURL,
		Role:            entity.RoleUser,
		OfferedSkillIDs: []string{},
		WantedSkillIDs:  []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
		LastActive:      now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		// Another request created it first.
		if errors.Is(err, "CONFLICT") {
			return uc.userRepo.GetByID(ctx, input.UserID)
		}
		logger.Error("EnsureUser Error: failed to create user %s: %v", input.UserID, err)
		return nil, err
	}

	logger.Info("Created user %s on first sign-in", user.ID)
	return user, nil
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.UserProfile, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.withSkills(ctx, user)
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	update := &entity.User{
		ID:          userID,
		DisplayName: strings.TrimSpace(input.DisplayName),
		Bio:         input.Bio,
		Location:    strings.TrimSpace(input.Location),
		PhotoURL:    input.PhotoURL,
	}
	if err := uc.userRepo.UpdateProfile(ctx, update); err != nil {
		logger.Error("UpdateProfile Error: user %s: %v", userID, err)
		return nil, err
	}
	return uc.userRepo.GetByID(ctx, userID)
}

// SearchUsers sends the name (or, failing that, location) prefix to the
// store and applies every other constraint to the fetched page. Skills are
// then loaded per match.
func (uc *UserUseCase) SearchUsers(ctx context.Context, filter SearchFilter) ([]*entity.UserProfile, error) {
	candidates, err := uc.userRepo.Search(ctx, repository.UserQuery{
		NamePrefix:     filter.NamePrefix,
		LocationPrefix: filter.Location,
		Limit:          uc.searchLimit,
	})
	if err != nil {
		logger.Error("SearchUsers Error: query failed: %v", err)
		return nil, err
	}

	var inCategory map[string]bool
	if filter.Category != "" {
		skills, err := uc.skillRepo.ListByCategory(ctx, filter.Category)
		if err != nil {
			logger.Error("SearchUsers Error: category %s: %v", filter.Category, err)
			return nil, err
		}
		inCategory = make(map[string]bool, len(skills))
		for _, s := range skills {
			inCategory[s.UserID] = true
		}
	}

	text := strings.ToLower(strings.TrimSpace(filter.Text))
	var matches []*entity.User
	for _, u := range candidates {
		if filter.VerifiedOnly && (u.IsBanned || !u.IsVerified) {
			continue
		}
		if inCategory != nil && !inCategory[u.ID] {
			continue
		}
		if text != "" && !matchesText(u, text) {
			continue
		}
		matches = append(matches, u)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		if a.DisplayName != b.DisplayName {
			return a.DisplayName < b.DisplayName
		}
		return a.ID < b.ID
	})

	profiles := make([]*entity.UserProfile, 0, len(matches))
	for _, u := range matches {
		profile, err := uc.withSkills(ctx, u)
		if err != nil {
			logger.Error("SearchUsers Error: skills for user %s: %v", u.ID, err)
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

func matchesText(u *entity.User, text string) bool {
	for _, field := range []string{u.DisplayName, u.Bio, u.Location} {
		if strings.Contains(strings.ToLower(field), text) {
			return true
		}
	}
	return false
}

func (uc *UserUseCase) withSkills(ctx context.Context, user *entity.User) (*entity.UserProfile, error) {
	skills, err := uc.skillRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	profile := &entity.UserProfile{
		User:          user,
		SkillsOffered: []*entity.Skill{},
		SkillsWanted:  []*entity.Skill{},
	}
	for _, s := range skills {
		if s.Type == entity.SkillWanted {
			profile.SkillsWanted = append(profile.SkillsWanted, s)
		} else {
			profile.SkillsOffered = append(profile.SkillsOffered, s)
		}
	}
	return profile, nil
}
