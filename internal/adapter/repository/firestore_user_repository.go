package repository

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	"swapskill/internal/domain/entity"
	"swapskill/internal/domain/repository"
	"swapskill/pkg/errors"
	"swapskill/pkg/logger"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) users() *firestore.CollectionRef {
	return r.client.Collection(usersCollection)
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	user.SearchName = entity.SearchKey(user.DisplayName)
	user.SearchPlace = entity.SearchKey(user.Location)

	_, err := r.users().Doc(user.ID).Create(ctx, user)
	if err != nil {
		if isAlreadyExists(err) {
			return errors.Conflict("User already exists")
		}
		return errors.Internal("Failed to create user", err)
	}
	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return getDocument[entity.User](ctx, r.users().Doc(id), "User")
}

// UpdateProfile merges the editable profile fields, skipping empty strings so
// a partial edit never blanks existing data.
func (r *firestoreUserRepository) UpdateProfile(ctx context.Context, user *entity.User) error {
	updateData := map[string]interface{}{
		"displayName": user.DisplayName,
		"bio":         user.Bio,
		"location":    user.Location,
		"photoURL":    user.PhotoURL,
	}

	cleanUpdateData := map[string]interface{}{"updatedAt": time.Now()}
	for key, value := range updateData {
		if strVal, ok := value.(string); ok && strVal == "" {
			continue
		}
		cleanUpdateData[key] = value
	}
	if user.DisplayName != "" {
		cleanUpdateData["searchName"] = entity.SearchKey(user.DisplayName)
	}
	if user.Location != "" {
		cleanUpdateData["searchLocation"] = entity.SearchKey(user.Location)
	}

	logger.Debug("Updating user %s with %+v", user.ID, cleanUpdateData)

	_, err := r.users().Doc(user.ID).Set(ctx, cleanUpdateData, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to update user", err)
	}
	return nil
}

func (r *firestoreUserRepository) Search(ctx context.Context, query repository.UserQuery) ([]*entity.User, error) {
	q := r.users().Query
	namePrefix := entity.SearchKey(query.NamePrefix)
	locationPrefix := entity.SearchKey(query.LocationPrefix)

	// Only one range constraint is sent to Firestore; a second one would need
	// a composite index. The other prefix is checked on the fetched page.
	scanLocation := false
	switch {
	case namePrefix != "":
		q = q.Where("searchName", ">=", namePrefix).Where("searchName", "<=", namePrefix+prefixEnd)
		scanLocation = locationPrefix != ""
	case locationPrefix != "":
		q = q.Where("searchLocation", ">=", locationPrefix).Where("searchLocation", "<=", locationPrefix+prefixEnd)
	}
	if query.Limit > 0 {
		q = q.Limit(query.Limit)
	}

	users, err := queryAll[entity.User](ctx, q, "users")
	if err != nil {
		return nil, err
	}
	if !scanLocation {
		return users, nil
	}

	filtered := users[:0]
	for _, u := range users {
		if strings.HasPrefix(entity.SearchKey(u.Location), locationPrefix) {
			filtered = append(filtered, u)
		}
	}
	return filtered, nil
}

func (r *firestoreUserRepository) List(ctx context.Context, limit int) ([]*entity.User, error) {
	q := r.users().OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return queryAll[entity.User](ctx, q, "users")
}

func (r *firestoreUserRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	return r.update(ctx, id, []firestore.Update{
		{Path: "isVerified", Value: verified},
		{Path: "updatedAt", Value: time.Now()},
	})
}

func (r *firestoreUserRepository) Ban(ctx context.Context, id, reason string, at time.Time) error {
	return r.update(ctx, id, []firestore.Update{
		{Path: "isBanned", Value: true},
		{Path: "banReason", Value: reason},
		{Path: "bannedAt", Value: at},
		{Path: "isVerified", Value: false},
		{Path: "updatedAt", Value: at},
	})
}

func (r *firestoreUserRepository) Unban(ctx context.Context, id string) error {
	return r.update(ctx, id, []firestore.Update{
		{Path: "isBanned", Value: false},
		{Path: "banReason", Value: firestore.Delete},
		{Path: "bannedAt", Value: firestore.Delete},
		{Path: "updatedAt", Value: time.Now()},
	})
}

func (r *firestoreUserRepository) IncrementSwapCount(ctx context.Context, ids ...string) error {
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for _, id := range ids {
			if err := tx.Update(r.users().Doc(id), []firestore.Update{
				{Path: "totalSwaps", Value: firestore.Increment(1)},
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Internal("Failed to update swap counts", err)
	}
	return nil
}

func (r *firestoreUserRepository) Count(ctx context.Context, field string, value interface{}) (int64, error) {
	q := r.users().Query
	if field != "" {
		q = q.Where(field, "==", value)
	}
	return countQuery(ctx, q)
}

func (r *firestoreUserRepository) update(ctx context.Context, id string, updates []firestore.Update) error {
	_, err := r.users().Doc(id).Update(ctx, updates)
	if err != nil {
		if isNotFound(err) {
			return errors.NotFound("User", err)
		}
		return errors.Internal("Failed to update user", err)
	}
	return nil
}
