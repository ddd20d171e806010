package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"swapskill/internal/domain/entity"
	"swapskill/internal/domain/repository"
	"swapskill/pkg/errors"
)

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[user.ID]; ok {
		return errors.Conflict("User already exists")
	}
	user.SearchName = entity.SearchKey(user.DisplayName)
	user.SearchPlace = entity.SearchKey(user.Location)
	r.db.users[user.ID] = cloneUser(user)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return cloneUser(u), nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *entity.User) error {
	return r.mutate(user.ID, func(u *entity.User) {
		if user.DisplayName != "" {
			u.DisplayName = user.DisplayName
			u.SearchName = entity.SearchKey(user.DisplayName)
		}
		if user.Bio != "" {
			u.Bio = user.Bio
		}
		if user.Location != "" {
			u.Location = user.Location
			u.SearchPlace = entity.SearchKey(user.Location)
		}
		if user.PhotoURL != "" {
			u.PhotoURL = user.PhotoURL
		}
		u.UpdatedAt = time.Now()
	})
}

func (r *userRepository) Search(ctx context.Context, query repository.UserQuery) ([]*entity.User, error) {
	namePrefix := entity.SearchKey(query.NamePrefix)
	locationPrefix := entity.SearchKey(query.LocationPrefix)

	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	// Range queries come back in index order.
	all := sortedUsers(r.db.users, func(a, b *entity.User) bool {
		if namePrefix != "" || locationPrefix == "" {
			return a.SearchName < b.SearchName
		}
		return a.SearchPlace < b.SearchPlace
	})

	var out []*entity.User
	for _, u := range all {
		if namePrefix != "" && !strings.HasPrefix(u.SearchName, namePrefix) {
			continue
		}
		if locationPrefix != "" && !strings.HasPrefix(u.SearchPlace, locationPrefix) {
			continue
		}
		out = append(out, cloneUser(u))
		if query.Limit > 0 && len(out) == query.Limit {
			break
		}
	}
	return out, nil
}

func (r *userRepository) List(ctx context.Context, limit int) ([]*entity.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	all := sortedUsers(r.db.users, func(a, b *entity.User) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	out := make([]*entity.User, len(all))
	for i, u := range all {
		out[i] = cloneUser(u)
	}
	return out, nil
}

func (r *userRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	return r.mutate(id, func(u *entity.User) {
		u.IsVerified = verified
		u.UpdatedAt = time.Now()
	})
}

func (r *userRepository) Ban(ctx context.Context, id, reason string, at time.Time) error {
	return r.mutate(id, func(u *entity.User) {
		u.IsBanned = true
		u.BanReason = reason
		bannedAt := at
		u.BannedAt = &bannedAt
		u.IsVerified = false
		u.UpdatedAt = at
	})
}

func (r *userRepository) Unban(ctx context.Context, id string) error {
	return r.mutate(id, func(u *entity.User) {
		u.IsBanned = false
		u.BanReason = ""
		u.BannedAt = nil
		u.UpdatedAt = time.Now()
	})
}

func (r *userRepository) IncrementSwapCount(ctx context.Context, ids ...string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, id := range ids {
		if _, ok := r.db.users[id]; !ok {
			return errors.NotFound("User", nil)
		}
	}
	for _, id := range ids {
		r.db.users[id].TotalSwaps++
	}
	return nil
}

func (r *userRepository) Count(ctx context.Context, field string, value interface{}) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var n int64
	for _, u := range r.db.users {
		switch field {
		case "":
			n++
		case "isVerified":
			if v, ok := value.(bool); ok && u.IsVerified == v {
				n++
			}
		case "isBanned":
			if v, ok := value.(bool); ok && u.IsBanned == v {
				n++
			}
		case "role":
			if v, ok := value.(string); ok && u.Role == v {
				n++
			}
		default:
			return 0, errors.BadRequest("Unsupported count field "+field, nil)
		}
	}
	return n, nil
}

func (r *userRepository) mutate(id string, fn func(*entity.User)) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return errors.NotFound("User", nil)
	}
	fn(u)
	return nil
}

func sortedUsers(users map[string]*entity.User, less func(a, b *entity.User) bool) []*entity.User {
	out := make([]*entity.User, 0, len(users))
	for _, u := range users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if less(out[i], out[j]) {
			return true
		}
		if less(out[j], out[i]) {
			return false
		}
		return out[i].ID < out[j].ID
	})
	return out
}
