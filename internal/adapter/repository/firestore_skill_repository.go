package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"swapskill/internal/domain/entity"
	"swapskill/internal/domain/repository"
	"swapskill/pkg/errors"
)

type firestoreSkillRepository struct {
	client *firestore.Client
}

func NewFirestoreSkillRepository(client *firestore.Client) repository.SkillRepository {
	return &firestoreSkillRepository{
		client: client,
	}
}

func skillArrayField(t entity.SkillType) string {
	if t == entity.SkillWanted {
		return "skillsWanted"
	}
	return "skillsOffered"
}

func (r *firestoreSkillRepository) Create(ctx context.Context, skill *entity.Skill) error {
	skillRef := r.client.Collection(skillsCollection).Doc(skill.ID)
	userRef := r.client.Collection(usersCollection).Doc(skill.UserID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Create(skillRef, skill); err != nil {
			return err
		}
		return tx.Update(userRef, []firestore.Update{
			{Path: skillArrayField(skill.Type), Value: firestore.ArrayUnion(skill.ID)},
			{Path: "updatedAt", Value: skill.CreatedAt},
		})
	})
	if err != nil {
		if isNotFound(err) {
			return errors.NotFound("User", err)
		}
		return errors.Internal("Failed to create skill", err)
	}
	return nil
}

func (r *firestoreSkillRepository) GetByID(ctx context.Context, id string) (*entity.Skill, error) {
	return getDocument[entity.Skill](ctx, r.client.Collection(skillsCollection).Doc(id), "Skill")
}

func (r *firestoreSkillRepository) Delete(ctx context.Context, skill *entity.Skill) error {
	skillRef := r.client.Collection(skillsCollection).Doc(skill.ID)
	userRef := r.client.Collection(usersCollection).Doc(skill.UserID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Delete(skillRef); err != nil {
			return err
		}
		return tx.Update(userRef, []firestore.Update{
			{Path: skillArrayField(skill.Type), Value: firestore.ArrayRemove(skill.ID)},
		})
	})
	if err != nil {
		if isNotFound(err) {
			return errors.NotFound("User", err)
		}
		return errors.Internal("Failed to delete skill", err)
	}
	return nil
}

func (r *firestoreSkillRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Skill, error) {
	q := r.client.Collection(skillsCollection).Where("userId", "==", userID)
	return queryAll[entity.Skill](ctx, q, "skills")
}

func (r *firestoreSkillRepository) ListByCategory(ctx context.Context, categoryID string) ([]*entity.Skill, error) {
	q := r.client.Collection(skillsCollection).Where("category.id", "==", categoryID)
	return queryAll[entity.Skill](ctx, q, "skills")
}
