package entity

import "time"

type FlagStatus string

const (
	FlagPending  FlagStatus = "pending"
	FlagReviewed FlagStatus = "reviewed"
	FlagApproved FlagStatus = "approved"
)

type FlaggedContent struct {
	ID          string     `json:"id" firestore:"id"`
	ContentType string     `json:"content_type" firestore:"contentType"` // "user", "skill", "message", "swap_request"
	ContentID   string     `json:"content_id" firestore:"contentId"`
	ReportedBy  string     `json:"reported_by" firestore:"reportedBy"`
	Reason      string     `json:"reason" firestore:"reason"`
	Description string     `json:"description,omitempty" firestore:"description,omitempty"`
	Status      FlagStatus `json:"status" firestore:"status"`
	ReportedAt  time.Time  `json:"reported_at" firestore:"reportedAt"`
	ReviewedBy  string     `json:"reviewed_by,omitempty" firestore:"reviewedBy,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty" firestore:"reviewedAt,omitempty"`
}

type BroadcastType string

const (
	BroadcastInfo    BroadcastType = "info"
	BroadcastWarning BroadcastType = "warning"
	BroadcastSuccess BroadcastType = "success"
)

func (t BroadcastType) Valid() bool {
	return t == BroadcastInfo || t == BroadcastWarning || t == BroadcastSuccess
}

// SystemMessage is a broadcast shown to every dashboard viewer while active.
type SystemMessage struct {
	ID        string        `json:"id" firestore:"id"`
	Content   string        `json:"content" firestore:"content"`
	Type      BroadcastType `json:"type" firestore:"type"`
	Active    bool          `json:"active" firestore:"active"`
	CreatedBy string        `json:"created_by" firestore:"createdBy"`
	CreatedAt time.Time     `json:"created_at" firestore:"createdAt"`

	Pending bool `json:"pending,omitempty" firestore:"-"`
}

// AdminStats summarizes the dashboard counters.
type AdminStats struct {
	TotalUsers    int                `json:"total_users"`
	VerifiedUsers int                `json:"verified_users"`
	BannedUsers   int                `json:"banned_users"`
	SwapsByStatus map[SwapStatus]int `json:"swaps_by_status"`
	PendingFlags  int                `json:"pending_flags"`
	ActiveNotices int                `json:"active_broadcasts"`
}
