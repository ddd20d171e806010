package session

import "swapskill/internal/domain/entity"

type SkillBuckets struct {
	Offered []*entity.Skill `json:"offered"`
	Wanted  []*entity.Skill `json:"wanted"`
}

// Loading has one flag per concern so one slow load does not block the rest.
type Loading struct {
	Users         bool `json:"users"`
	Requests      bool `json:"requests"`
	Messages      bool `json:"messages"`
	Notifications bool `json:"notifications"`
	Admin         bool `json:"admin"`
}

type concern int

const (
	loadingUsers concern = iota
	loadingRequests
	loadingMessages
	loadingNotifications
	loadingAdmin
)

// State is the session's cached view. Entities reachable from a State are
// shared between snapshots and never modified in place; a transition that
// changes one replaces it with a patched copy.
type State struct {
	CurrentUserID string `json:"current_user_id"`

	Users      []*entity.UserProfile   `json:"users"`
	UserSkills map[string]SkillBuckets `json:"user_skills"`

	SwapRequests  []*entity.SwapRequest `json:"swap_requests"`
	AdminRequests []*entity.SwapRequest `json:"admin_requests"`

	Conversations        []*entity.Conversation        `json:"conversations"`
	ActiveConversationID string                        `json:"active_conversation_id,omitempty"`
	Messages             map[string][]*entity.Message `json:"messages"`

	Notifications       []*entity.Notification `json:"notifications"`
	UnreadNotifications int                    `json:"unread_notifications"`

	FlaggedContent []*entity.FlaggedContent `json:"flagged_content"`
	SystemMessages []*entity.SystemMessage  `json:"system_messages"`

	Loading Loading `json:"loading"`
	Error   string  `json:"error,omitempty"`
}

func newState(userID string) State {
	return State{
		CurrentUserID: userID,
		UserSkills:    map[string]SkillBuckets{},
		Messages:      map[string][]*entity.Message{},
	}
}

// clone copies every container so the caller may keep the result while the
// store moves on.
func (s State) clone() State {
	c := s
	c.Users = append([]*entity.UserProfile(nil), s.Users...)
	c.SwapRequests = append([]*entity.SwapRequest(nil), s.SwapRequests...)
	c.AdminRequests = append([]*entity.SwapRequest(nil), s.AdminRequests...)
	c.Conversations = append([]*entity.Conversation(nil), s.Conversations...)
	c.Notifications = append([]*entity.Notification(nil), s.Notifications...)
	c.FlaggedContent = append([]*entity.FlaggedContent(nil), s.FlaggedContent...)
	c.SystemMessages = append([]*entity.SystemMessage(nil), s.SystemMessages...)

	c.UserSkills = make(map[string]SkillBuckets, len(s.UserSkills))
	for k, v := range s.UserSkills {
		c.UserSkills[k] = SkillBuckets{
			Offered: append([]*entity.Skill(nil), v.Offered...),
			Wanted:  append([]*entity.Skill(nil), v.Wanted...),
		}
	}
	c.Messages = make(map[string][]*entity.Message, len(s.Messages))
	for k, v := range s.Messages {
		c.Messages[k] = append([]*entity.Message(nil), v...)
	}
	return c
}
