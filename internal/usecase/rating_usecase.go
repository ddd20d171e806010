package usecase

import (
	"context"
	"fmt"
	"time"

	"swapskill/internal/domain/entity"
	"swapskill/internal/domain/repository"
	"swapskill/pkg/errors"
	"swapskill/pkg/logger"
)

type RatingUseCase struct {
	ratingRepo       repository.RatingRepository
	swapRepo         repository.SwapRequestRepository
	notificationRepo repository.NotificationRepository
}

func NewRatingUseCase(
	ratingRepo repository.RatingRepository,
	swapRepo repository.SwapRequestRepository,
	notificationRepo repository.NotificationRepository,
) *RatingUseCase {
	return &RatingUseCase{
		ratingRepo:       ratingRepo,
		swapRepo:         swapRepo,
		notificationRepo: notificationRepo,
	}
}

type RateSwapInput struct {
	SwapRequestID string
	Rating        int
	Comment       string
}

// RateSwap records the rater's score for the other side of a completed swap
// and returns the rated user's new aggregate.
func (uc *RatingUseCase) RateSwap(ctx context.Context, raterID string, input RateSwapInput) (*entity.RatingSummary, error) {
	if !entity.ValidRating(input.Rating) {
		return nil, errors.BadRequest(fmt.Sprintf("Rating must be between %d and %d", entity.MinRating, entity.MaxRating), nil)
	}

	swap, err := uc.swapRepo.GetByID(ctx, input.SwapRequestID)
	if err != nil {
		return nil, err
	}
	if !swap.Involves(raterID) {
		return nil, errors.Forbidden("You are not part of this swap", nil)
	}
	if swap.Status != entity.SwapCompleted {
		return nil, errors.BadRequest("Only completed swaps can be rated", nil)
	}

	_, err = uc.ratingRepo.FindBySwapAndRater(ctx, swap.ID, raterID)
	if err == nil {
		return nil, errors.Conflict("You have already rated this swap")
	}
	if !errors.Is(err, "NOT_FOUND") {
		logger.Error("RateSwap Error: duplicate check for %s: %v", swap.ID, err)
		return nil, err
	}

	targetID := swap.TargetID
	if raterID == swap.TargetID {
		targetID = swap.RequesterID
	}

	rating := &entity.Rating{
		ID:            entity.RatingID(swap.ID, raterID),
		FromUserID:    raterID,
		ToUserID:      targetID,
		SwapRequestID: swap.ID,
		Rating:        input.Rating,
		Comment:       input.Comment,
		CreatedAt:     time.Now(),
	}
	summary, err := uc.ratingRepo.CreateAndSummarize(ctx, rating)
	if errors.Is(err, "CONFLICT") {
		return nil, err
	}
	if err != nil {
		logger.Error("RateSwap Error: swap %s: %v", swap.ID, err)
		return nil, err
	}

	notify(ctx, uc.notificationRepo, newNotification(
		targetID,
		entity.NotificationRatingReceived,
		"New rating",
		fmt.Sprintf("You received a %d-star rating", input.Rating),
		map[string]interface{}{"swapRequestId": swap.ID, "rating": input.Rating},
	))
	return summary, nil
}

func (uc *RatingUseCase) ListRatings(ctx context.Context, userID string) ([]*entity.Rating, error) {
	ratings, err := uc.ratingRepo.ListByTarget(ctx, userID)
	if err != nil {
		logger.Error("ListRatings Error: user %s: %v", userID, err)
		return nil, err
	}
	return ratings, nil
}
