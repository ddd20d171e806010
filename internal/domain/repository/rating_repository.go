package repository

import (
	"context"

	"swapskill/internal/domain/entity"
)

type RatingRepository interface {
	// CreateAndSummarize inserts the rating and recomputes the rated user's
	// aggregate in the same transaction.
	CreateAndSummarize(ctx context.Context, rating *entity.Rating) (*entity.RatingSummary, error)
	ListByTarget(ctx context.Context, userID string) ([]*entity.Rating, error)
	FindBySwapAndRater(ctx context.Context, swapRequestID, fromUserID string) (*entity.Rating, error)
}
