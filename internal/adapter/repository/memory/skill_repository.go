package memory

import (
	"context"
	"sort"

	"swapskill/internal/domain/entity"
	"swapskill/internal/domain/repository"
	"swapskill/pkg/errors"
)

type skillRepository struct {
	db *DB
}

func NewSkillRepository(db *DB) repository.SkillRepository {
	return &skillRepository{db: db}
}

func (r *skillRepository) Create(ctx context.Context, skill *entity.Skill) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	owner, ok := r.db.users[skill.UserID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	if _, exists := r.db.skills[skill.ID]; exists {
		return errors.Conflict("Skill already exists")
	}

	r.db.skills[skill.ID] = cloneSkill(skill)
	if skill.Type == entity.SkillWanted {
		owner.WantedSkillIDs = appendUnique(owner.WantedSkillIDs, skill.ID)
	} else {
		owner.OfferedSkillIDs = appendUnique(owner.OfferedSkillIDs, skill.ID)
	}
	owner.UpdatedAt = skill.CreatedAt
	return nil
}

func (r *skillRepository) GetByID(ctx context.Context, id string) (*entity.Skill, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	s, ok := r.db.skills[id]
	if !ok {
		return nil, errors.NotFound("Skill", nil)
	}
	return cloneSkill(s), nil
}

func (r *skillRepository) Delete(ctx context.Context, skill *entity.Skill) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	owner, ok := r.db.users[skill.UserID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	delete(r.db.skills, skill.ID)
	if skill.Type == entity.SkillWanted {
		owner.WantedSkillIDs = removeString(owner.WantedSkillIDs, skill.ID)
	} else {
		owner.OfferedSkillIDs = removeString(owner.OfferedSkillIDs, skill.ID)
	}
	return nil
}

func (r *skillRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Skill, error) {
	return r.filter(func(s *entity.Skill) bool { return s.UserID == userID }), nil
}

func (r *skillRepository) ListByCategory(ctx context.Context, categoryID string) ([]*entity.Skill, error) {
	return r.filter(func(s *entity.Skill) bool { return s.Category.ID == categoryID }), nil
}

func (r *skillRepository) filter(keep func(*entity.Skill) bool) []*entity.Skill {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var out []*entity.Skill
	for _, s := range r.db.skills {
		if keep(s) {
			out = append(out, cloneSkill(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func appendUnique(s []string, v string) []string {
	for _, x := range s {
		if x == v {
			return s
		}
	}
	return append(s, v)
}

func removeString(s []string, v string) []string {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
