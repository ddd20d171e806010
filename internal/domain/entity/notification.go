package entity

import "time"

type NotificationType string

const (
	NotificationSwapRequest        NotificationType = "swap_request"
	NotificationSwapAccepted       NotificationType = "swap_accepted"
	NotificationSwapRejected       NotificationType = "swap_rejected"
	NotificationSwapCompleted      NotificationType = "swap_completed"
	NotificationSwapCancelled      NotificationType = "swap_cancelled"
	NotificationNewMessage         NotificationType = "new_message"
	NotificationSystemAnnouncement NotificationType = "system_announcement"
	NotificationVerification       NotificationType = "verification"
	NotificationRatingReceived     NotificationType = "rating_received"
	NotificationAdminAction        NotificationType = "admin_action"
)

type Notification struct {
	ID        string                 `json:"id" firestore:"id"`
	UserID    string                 `json:"user_id" firestore:"userId"`
	Type      NotificationType       `json:"type" firestore:"type"`
	Title     string                 `json:"title" firestore:"title"`
	Message   string                 `json:"message" firestore:"message"`
	Read      bool                   `json:"read" firestore:"read"`
	Data      map[string]interface{} `json:"data,omitempty" firestore:"data,omitempty"`
	ActionURL string                 `json:"action_url,omitempty" firestore:"actionUrl,omitempty"`
	CreatedAt time.Time              `json:"created_at" firestore:"createdAt"`
}

func CountUnread(notifications []*Notification) int {
	n := 0
	for _, notification := range notifications {
		if !notification.Read {
			n++
		}
	}
	return n
}
