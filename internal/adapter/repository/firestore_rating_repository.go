package repository

import (
	"context"
	stderrors "errors"

	"cloud.google.com/go/firestore"

	"swapskill/internal/domain/entity"
	"swapskill/internal/domain/repository"
	"swapskill/pkg/errors"
)

var errAlreadyRated = stderrors.New("rating already exists")

type firestoreRatingRepository struct {
	client *firestore.Client
}

func NewFirestoreRatingRepository(client *firestore.Client) repository.RatingRepository {
	return &firestoreRatingRepository{
		client: client,
	}
}

func (r *firestoreRatingRepository) CreateAndSummarize(ctx context.Context, rating *entity.Rating) (*entity.RatingSummary, error) {
	ratingsRef := r.client.Collection(ratingsCollection)
	ratingRef := ratingsRef.Doc(rating.ID)
	userRef := r.client.Collection(usersCollection).Doc(rating.ToUserID)

	var summary entity.RatingSummary
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// Reads first: Firestore transactions reject reads after writes.
		if _, err := tx.Get(ratingRef); err == nil {
			return errAlreadyRated
		} else if !isNotFound(err) {
			return err
		}
		if _, err := tx.Get(userRef); err != nil {
			return err
		}
		docs, err := tx.Documents(ratingsRef.Where("toUserId", "==", rating.ToUserID)).GetAll()
		if err != nil {
			return err
		}

		values := make([]int, 0, len(docs)+1)
		for _, doc := range docs {
			var existing entity.Rating
			if err := doc.DataTo(&existing); err != nil {
				continue
			}
			values = append(values, existing.Rating)
		}
		values = append(values, rating.Rating)

		avg, count := entity.SummarizeRatings(values)
		summary = entity.RatingSummary{UserID: rating.ToUserID, Rating: avg, ReviewCount: count}

		if err := tx.Create(ratingRef, rating); err != nil {
			return err
		}
		return tx.Update(userRef, []firestore.Update{
			{Path: "rating", Value: avg},
			{Path: "reviewCount", Value: count},
			{Path: "updatedAt", Value: rating.CreatedAt},
		})
	})
	if err != nil {
		if err == errAlreadyRated || isAlreadyExists(err) {
			return nil, errors.Conflict("You have already rated this swap")
		}
		if isNotFound(err) {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Internal("Failed to save rating", err)
	}
	return &summary, nil
}

func (r *firestoreRatingRepository) ListByTarget(ctx context.Context, userID string) ([]*entity.Rating, error) {
	q := r.client.Collection(ratingsCollection).Where("toUserId", "==", userID)
	return queryAll[entity.Rating](ctx, q, "ratings")
}

func (r *firestoreRatingRepository) FindBySwapAndRater(ctx context.Context, swapRequestID, fromUserID string) (*entity.Rating, error) {
	q := r.client.Collection(ratingsCollection).
		Where("swapRequestId", "==", swapRequestID).
		Where("fromUserId", "==", fromUserID).
		Limit(1)

	ratings, err := queryAll[entity.Rating](ctx, q, "ratings")
	if err != nil {
		return nil, err
	}
	if len(ratings) == 0 {
		return nil, errors.NotFound("Rating", nil)
	}
	return ratings[0], nil
}
