package entity

import "time"

type MessageType string

const (
	MessageText        MessageType = "text"
	MessageImage       MessageType = "image"
	MessageFile        MessageType = "file"
	MessageSystem      MessageType = "system"
	MessageSwapRequest MessageType = "swap_request"
	MessageSwapUpdate  MessageType = "swap_update"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageText, MessageImage, MessageFile, MessageSystem, MessageSwapRequest, MessageSwapUpdate:
		return true
	}
	return false
}

const previewLength = 50

type Attachment struct {
	URL         string `json:"url" firestore:"url"`
	Name        string `json:"name,omitempty" firestore:"name,omitempty"`
	ContentType string `json:"content_type,omitempty" firestore:"contentType,omitempty"`
	Size        int64  `json:"size,omitempty" firestore:"size,omitempty"`
}

type Reaction struct {
	Emoji string   `json:"emoji" firestore:"emoji"`
	Users []string `json:"users" firestore:"users"`
}

type Message struct {
	ID             string       `json:"id" firestore:"id"`
	ConversationID string       `json:"conversation_id" firestore:"conversationId"`
	SenderID       string       `json:"sender_id" firestore:"senderId"`
	Content        string       `json:"content" firestore:"content"`
	Type           MessageType  `json:"type" firestore:"type"`
	CreatedAt      time.Time    `json:"created_at" firestore:"createdAt"`
	Read           bool         `json:"read" firestore:"read"`
	Attachments    []Attachment `json:"attachments,omitempty" firestore:"attachments,omitempty"`
	ReplyTo        string       `json:"reply_to,omitempty" firestore:"replyTo,omitempty"`
	Edited         bool         `json:"edited,omitempty" firestore:"edited,omitempty"`
	EditedAt       *time.Time   `json:"edited_at,omitempty" firestore:"editedAt,omitempty"`
	Reactions      []Reaction   `json:"reactions,omitempty" firestore:"reactions,omitempty"`

	Pending bool `json:"pending,omitempty" firestore:"-"`
}

// Preview shortens content for notifications and conversation lists.
func Preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength]) + "..."
}

// AddReaction returns reactions with userID recorded under emoji. The input is
// not modified; adding an existing reaction returns an equal list.
func AddReaction(reactions []Reaction, emoji, userID string) []Reaction {
	out := make([]Reaction, 0, len(reactions)+1)
	found := false
	for _, r := range reactions {
		users := append([]string(nil), r.Users...)
		if r.Emoji == emoji {
			found = true
			if !containsString(users, userID) {
				users = append(users, userID)
			}
		}
		out = append(out, Reaction{Emoji: r.Emoji, Users: users})
	}
	if !found {
		out = append(out, Reaction{Emoji: emoji, Users: []string{userID}})
	}
	return out
}

// RemoveReaction returns reactions without userID under emoji, dropping the
// emoji entry once nobody is left on it.
func RemoveReaction(reactions []Reaction, emoji, userID string) []Reaction {
	out := make([]Reaction, 0, len(reactions))
	for _, r := range reactions {
		users := make([]string, 0, len(r.Users))
		for _, u := range r.Users {
			if r.Emoji == emoji && u == userID {
				continue
			}
			users = append(users, u)
		}
		if len(users) == 0 {
			continue
		}
		out = append(out, Reaction{Emoji: r.Emoji, Users: users})
	}
	return out
}

func containsString(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
