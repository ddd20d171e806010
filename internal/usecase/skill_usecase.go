package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"swapskill/internal/domain/entity"
	"swapskill/internal/domain/repository"
	"swapskill/pkg/errors"
	"swapskill/pkg/logger"
)

type SkillUseCase struct {
	skillRepo repository.SkillRepository
}

func NewSkillUseCase(skillRepo repository.SkillRepository) *SkillUseCase {
	return &SkillUseCase{
		skillRepo: skillRepo,
	}
}

type AddSkillInput struct {
	Name        string
	Description string
	CategoryID  string
	Level       entity.SkillLevel
	Tags        []string
	Type        entity.SkillType
}

func (uc *SkillUseCase) Categories() []entity.SkillCategory {
	return append([]entity.SkillCategory(nil), entity.SkillCategories...)
}

func (uc *SkillUseCase) AddSkill(ctx context.Context, userID string, input AddSkillInput) (*entity.Skill, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.BadRequest("Skill name is required", nil)
	}
	category, ok := entity.FindSkillCategory(input.CategoryID)
	if !ok {
		return nil, errors.BadRequest("Unknown skill category: "+input.CategoryID, nil)
	}
	if !input.Level.Valid() {
		return nil, errors.BadRequest("Invalid skill level: "+string(input.Level), nil)
	}
	if !input.Type.Valid() {
		return nil, errors.BadRequest("Skill type must be offered or wanted", nil)
	}

	tags := make([]string, 0, len(input.Tags))
	for _, t := range input.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	skill := &entity.Skill{
		ID:          uuid.New().String(),
		Name:        name,
		Description: input.Description,
		Category:    category,
		Level:       input.Level,
		Tags:        tags,
		UserID:      userID,
		Type:        input.Type,
		CreatedAt:   time.Now(),
	}
	if err := uc.skillRepo.Create(ctx, skill); err != nil {
		logger.Error("AddSkill Error: user %s: %v", userID, err)
		return nil, err
	}
	return skill, nil
}

func (uc *SkillUseCase) DeleteSkill(ctx context.Context, userID, skillID string) error {
	skill, err := uc.skillRepo.GetByID(ctx, skillID)
	if err != nil {
		return err
	}
	if skill.UserID != userID {
		logger.Warn("DeleteSkill Error: user %s does not own skill %s", userID, skillID)
		return errors.Forbidden("You can only delete your own skills", nil)
	}
	if err := uc.skillRepo.Delete(ctx, skill); err != nil {
		logger.Error("DeleteSkill Error: skill %s: %v", skillID, err)
		return err
	}
	return nil
}

// ListUserSkills returns the user's skills split into offered and wanted.
func (uc *SkillUseCase) ListUserSkills(ctx context.Context, userID string) (offered, wanted []*entity.Skill, err error) {
	skills, err := uc.skillRepo.ListByUser(ctx, userID)
	if err != nil {
		logger.Error("ListUserSkills Error: user %s: %v", userID, err)
		return nil, nil, err
	}

	offered, wanted = []*entity.Skill{}, []*entity.Skill{}
	for _, s := range skills {
		if s.Type == entity.SkillWanted {
			wanted = append(wanted, s)
		} else {
			offered = append(offered, s)
		}
	}
	return offered, wanted, nil
}
