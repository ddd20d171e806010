package repository

import (
	"context"
	"time"

	"swapskill/internal/domain/entity"
)

// SwapRequestRepository returns requests as stored: a skill kept as a bare id
// comes back with only the matching *Ref field set.
type SwapRequestRepository interface {
	Create(ctx context.Context, request *entity.SwapRequest) error
	GetByID(ctx context.Context, id string) (*entity.SwapRequest, error)
	ListByTarget(ctx context.Context, userID string) ([]*entity.SwapRequest, error)
	ListByRequester(ctx context.Context, userID string) ([]*entity.SwapRequest, error)
	List(ctx context.Context, limit int) ([]*entity.SwapRequest, error)
	UpdateStatus(ctx context.Context, id string, status entity.SwapStatus, adminNote string, at time.Time) error
	CountByStatus(ctx context.Context, status entity.SwapStatus) (int64, error)
}
