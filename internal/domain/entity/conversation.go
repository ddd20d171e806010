package entity

import "time"

type ConversationType string

const (
	ConversationDirect      ConversationType = "direct"
	ConversationSwapRelated ConversationType = "swap_related"
	ConversationGroup       ConversationType = "group"
)

func (t ConversationType) Valid() bool {
	return t == ConversationDirect || t == ConversationSwapRelated || t == ConversationGroup
}

type LastMessage struct {
	Content   string      `json:"content" firestore:"content"`
	SenderID  string      `json:"sender_id" firestore:"senderId"`
	Timestamp time.Time   `json:"timestamp" firestore:"timestamp"`
	Type      MessageType `json:"type" firestore:"type"`
}

type Conversation struct {
	ID            string           `json:"id" firestore:"id"`
	Participants  []string         `json:"participants" firestore:"participants"`
	SwapRequestID string           `json:"swap_request_id,omitempty" firestore:"swapRequestId,omitempty"`
	Title         string           `json:"title,omitempty" firestore:"title,omitempty"`
	Type          ConversationType `json:"type" firestore:"type"`
	LastMessage   *LastMessage     `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	UnreadCount   map[string]int   `json:"unread_count" firestore:"unreadCount"` // participant id -> unread messages
	CreatedAt     time.Time        `json:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time        `json:"updated_at" firestore:"updatedAt"`

	Pending bool `json:"pending,omitempty" firestore:"-"`
}

func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// ZeroUnreadCounts seeds a counter for every participant.
func ZeroUnreadCounts(participants []string) map[string]int {
	counts := make(map[string]int, len(participants))
	for _, p := range participants {
		counts[p] = 0
	}
	return counts
}
