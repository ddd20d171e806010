package memory

import (
	"context"
	"sort"

	"swapskill/internal/domain/entity"
	"swapskill/internal/domain/repository"
	"swapskill/pkg/errors"
)

type ratingRepository struct {
	db *DB
}

func NewRatingRepository(db *DB) repository.RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) CreateAndSummarize(ctx context.Context, rating *entity.Rating) (*entity.RatingSummary, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, exists := r.db.ratings[rating.ID]; exists {
		return nil, errors.Conflict("You have already rated this swap")
	}
	user, ok := r.db.users[rating.ToUserID]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}

	values := []int{rating.Rating}
	for _, existing := range r.db.ratings {
		if existing.ToUserID == rating.ToUserID {
			values = append(values, existing.Rating)
		}
	}
	avg, count := entity.SummarizeRatings(values)

	r.db.ratings[rating.ID] = cloneRating(rating)
	user.Rating = avg
	user.ReviewCount = count
	user.UpdatedAt = rating.CreatedAt

	return &entity.RatingSummary{UserID: rating.ToUserID, Rating: avg, ReviewCount: count}, nil
}

func (r *ratingRepository) ListByTarget(ctx context.Context, userID string) ([]*entity.Rating, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var out []*entity.Rating
	for _, rating := range r.db.ratings {
		if rating.ToUserID == userID {
			out = append(out, cloneRating(rating))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ratingRepository) FindBySwapAndRater(ctx context.Context, swapRequestID, fromUserID string) (*entity.Rating, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, rating := range r.db.ratings {
		if rating.SwapRequestID == swapRequestID && rating.FromUserID == fromUserID {
			return cloneRating(rating), nil
		}
	}
	return nil, errors.NotFound("Rating", nil)
}
