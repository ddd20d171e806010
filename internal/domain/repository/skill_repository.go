package repository

import (
	"context"

	"swapskill/internal/domain/entity"
)

// SkillRepository keeps the owner's skillsOffered/skillsWanted id arrays in
// step with the skill documents.
type SkillRepository interface {
	Create(ctx context.Context, skill *entity.Skill) error
	GetByID(ctx context.Context, id string) (*entity.Skill, error)
	Delete(ctx context.Context, skill *entity.Skill) error
	ListByUser(ctx context.Context, userID string) ([]*entity.Skill, error)
	ListByCategory(ctx context.Context, categoryID string) ([]*entity.Skill, error)
}
