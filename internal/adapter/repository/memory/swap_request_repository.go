package memory

import (
	"context"
	"sort"
	"time"

	"swapskill/internal/domain/entity"
	"swapskill/internal/domain/repository"
	"swapskill/pkg/errors"
)

type swapRequestRepository struct {
	db *DB
}

func NewSwapRequestRepository(db *DB) repository.SwapRequestRepository {
	return &swapRequestRepository{db: db}
}

func (r *swapRequestRepository) Create(ctx context.Context, request *entity.SwapRequest) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.swaps[request.ID] = cloneSwapRequest(request)
	return nil
}

func (r *swapRequestRepository) GetByID(ctx context.Context, id string) (*entity.SwapRequest, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	req, ok := r.db.swaps[id]
	if !ok {
		return nil, errors.NotFound("Swap request", nil)
	}
	return cloneSwapRequest(req), nil
}

func (r *swapRequestRepository) ListByTarget(ctx context.Context, userID string) ([]*entity.SwapRequest, error) {
	return r.filter(0, func(req *entity.SwapRequest) bool { return req.TargetID == userID }), nil
}

func (r *swapRequestRepository) ListByRequester(ctx context.Context, userID string) ([]*entity.SwapRequest, error) {
	return r.filter(0, func(req *entity.SwapRequest) bool { return req.RequesterID == userID }), nil
}

func (r *swapRequestRepository) List(ctx context.Context, limit int) ([]*entity.SwapRequest, error) {
	return r.filter(limit, func(*entity.SwapRequest) bool { return true }), nil
}

func (r *swapRequestRepository) UpdateStatus(ctx context.Context, id string, status entity.SwapStatus, adminNote string, at time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	req, ok := r.db.swaps[id]
	if !ok {
		return errors.NotFound("Swap request", nil)
	}
	req.Status = status
	req.UpdatedAt = at
	if adminNote != "" {
		req.AdminNotes = adminNote
	}
	return nil
}

func (r *swapRequestRepository) CountByStatus(ctx context.Context, status entity.SwapStatus) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var n int64
	for _, req := range r.db.swaps {
		if req.Status == status {
			n++
		}
	}
	return n, nil
}

// filter returns matches newest first.
func (r *swapRequestRepository) filter(limit int, keep func(*entity.SwapRequest) bool) []*entity.SwapRequest {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var out []*entity.SwapRequest
	for _, req := range r.db.swaps {
		if keep(req) {
			out = append(out, cloneSwapRequest(req))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
