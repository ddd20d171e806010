package entity

import (
	"math"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Rating struct {
	ID            string    `json:"id" firestore:"id"`
	FromUserID    string    `json:"from_user_id" firestore:"fromUserId"`
	ToUserID      string    `json:"to_user_id" firestore:"toUserId"`
	SwapRequestID string    `json:"swap_request_id" firestore:"swapRequestId"`
	Rating        int       `json:"rating" firestore:"rating"`
	Comment       string    `json:"comment,omitempty" firestore:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at" firestore:"createdAt"`
}

// RatingID is the document id of a rater's rating for one swap. A second
// rating for the same pair collides with the first.
func RatingID(swapRequestID, fromUserID string) string {
	return swapRequestID + "_" + fromUserID
}

func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// RatingSummary is the aggregate persisted on the rated user.
type RatingSummary struct {
	UserID      string  `json:"user_id"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
}

// SummarizeRatings returns the mean rounded to one decimal and the count.
func SummarizeRatings(values []int) (float64, int) {
	if len(values) == 0 {
		return 0, 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	mean := float64(sum) / float64(len(values))
	return math.Round(mean*10) / 10, len(values)
}
