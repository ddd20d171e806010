package repository

import (
	"context"
	"time"

	"swapskill/internal/domain/entity"
)

// UserQuery holds the constraints a user search can push down to the store.
// Implementations apply at most one range natively and scan for the rest.
type UserQuery struct {
	NamePrefix     string
	LocationPrefix string
	Limit          int
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	UpdateProfile(ctx context.Context, user *entity.User) error
	Search(ctx context.Context, query UserQuery) ([]*entity.User, error)
	List(ctx context.Context, limit int) ([]*entity.User, error)

	SetVerified(ctx context.Context, id string, verified bool) error
	Ban(ctx context.Context, id, reason string, at time.Time) error
	Unban(ctx context.Context, id string) error
	IncrementSwapCount(ctx context.Context, ids ...string) error

	// Count returns the number of users, optionally restricted to field == value.
	Count(ctx context.Context, field string, value interface{}) (int64, error)
}
