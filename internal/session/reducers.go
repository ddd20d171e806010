package session

import (
	"time"

	"swapskill/internal/domain/entity"
)

// Every transition below is pure: it returns a new State and leaves the
// containers and entities of its input untouched.

func setLoading(s State, c concern, on bool) State {
	switch c {
	case loadingUsers:
		s.Loading.Users = on
	case loadingRequests:
		s.Loading.Requests = on
	case loadingMessages:
		s.Loading.Messages = on
	case loadingNotifications:
		s.Loading.Notifications = on
	case loadingAdmin:
		s.Loading.Admin = on
	}
	return s
}

func setError(s State, msg string) State {
	s.Error = msg
	return s
}

func replaceUsers(s State, users []*entity.UserProfile) State {
	s.Users = users
	return s
}

// patchUser swaps every cached copy of userID's profile for a patched one.
func patchUser(s State, userID string, patch func(*entity.User)) State {
	users := make([]*entity.UserProfile, len(s.Users))
	for i, p := range s.Users {
		if p.User != nil && p.ID == userID {
			u := *p.User
			patch(&u)
			users[i] = &entity.UserProfile{User: &u, SkillsOffered: p.SkillsOffered, SkillsWanted: p.SkillsWanted}
			continue
		}
		users[i] = p
	}
	s.Users = users
	return s
}

func withSkillBuckets(s State, userID string, buckets SkillBuckets) State {
	skills := make(map[string]SkillBuckets, len(s.UserSkills)+1)
	for k, v := range s.UserSkills {
		skills[k] = v
	}
	skills[userID] = buckets
	s.UserSkills = skills
	return s
}

func replaceSkills(s State, userID string, offered, wanted []*entity.Skill) State {
	return withSkillBuckets(s, userID, SkillBuckets{Offered: offered, Wanted: wanted})
}

// addSkill merges skill into its owner's bucket as read from s, so two adds
// applied one after the other both survive.
func addSkill(s State, skill *entity.Skill) State {
	b := s.UserSkills[skill.UserID]
	next := SkillBuckets{Offered: b.Offered, Wanted: b.Wanted}
	if skill.Type == entity.SkillWanted {
		next.Wanted = append(append([]*entity.Skill(nil), b.Wanted...), skill)
	} else {
		next.Offered = append(append([]*entity.Skill(nil), b.Offered...), skill)
	}
	return withSkillBuckets(s, skill.UserID, next)
}

func removeSkill(s State, userID, skillID string) State {
	b, ok := s.UserSkills[userID]
	if !ok {
		return s
	}
	drop := func(in []*entity.Skill) []*entity.Skill {
		out := make([]*entity.Skill, 0, len(in))
		for _, sk := range in {
			if sk.ID != skillID {
				out = append(out, sk)
			}
		}
		return out
	}
	return withSkillBuckets(s, userID, SkillBuckets{Offered: drop(b.Offered), Wanted: drop(b.Wanted)})
}

func replaceRequests(s State, requests []*entity.SwapRequest) State {
	s.SwapRequests = requests
	return s
}

func replaceAdminRequests(s State, requests []*entity.SwapRequest) State {
	s.AdminRequests = requests
	return s
}

func prependRequest(s State, req *entity.SwapRequest) State {
	s.SwapRequests = append([]*entity.SwapRequest{req}, s.SwapRequests...)
	return s
}

// patchRequest replaces the cached request with the same id in both lists.
func patchRequest(s State, req *entity.SwapRequest) State {
	replace := func(in []*entity.SwapRequest) []*entity.SwapRequest {
		out := make([]*entity.SwapRequest, len(in))
		for i, r := range in {
			if r.ID == req.ID {
				out[i] = mergeSkills(req, r)
			} else {
				out[i] = r
			}
		}
		return out
	}
	s.SwapRequests = replace(s.SwapRequests)
	s.AdminRequests = replace(s.AdminRequests)
	return s
}

// mergeSkills keeps the cached skill records when an update arrives without
// them.
func mergeSkills(next, cached *entity.SwapRequest) *entity.SwapRequest {
	if (next.OfferedSkill != nil || cached.OfferedSkill == nil) &&
		(next.RequestedSkill != nil || cached.RequestedSkill == nil) {
		return next
	}
	merged := *next
	if merged.OfferedSkill == nil {
		merged.OfferedSkill = cached.OfferedSkill
	}
	if merged.RequestedSkill == nil {
		merged.RequestedSkill = cached.RequestedSkill
	}
	return &merged
}

func replaceConversations(s State, conversations []*entity.Conversation) State {
	s.Conversations = conversations
	return s
}

func upsertConversation(s State, conv *entity.Conversation) State {
	out := make([]*entity.Conversation, 0, len(s.Conversations)+1)
	out = append(out, conv)
	for _, c := range s.Conversations {
		if c.ID != conv.ID {
			out = append(out, c)
		}
	}
	s.Conversations = out
	return s
}

func patchConversation(s State, id string, patch func(*entity.Conversation)) State {
	out := make([]*entity.Conversation, len(s.Conversations))
	for i, c := range s.Conversations {
		if c.ID != id {
			out[i] = c
			continue
		}
		cp := *c
		cp.UnreadCount = make(map[string]int, len(c.UnreadCount))
		for k, v := range c.UnreadCount {
			cp.UnreadCount[k] = v
		}
		patch(&cp)
		out[i] = &cp
	}
	s.Conversations = out
	return s
}

func markConversationRead(s State, conversationID, userID string) State {
	return patchConversation(s, conversationID, func(c *entity.Conversation) {
		c.UnreadCount[userID] = 0
	})
}

func setActiveConversation(s State, conversationID string) State {
	s.ActiveConversationID = conversationID
	return s
}

func withMessages(s State, conversationID string, messages []*entity.Message) State {
	all := make(map[string][]*entity.Message, len(s.Messages)+1)
	for k, v := range s.Messages {
		all[k] = v
	}
	all[conversationID] = messages
	s.Messages = all
	return s
}

func replaceMessages(s State, conversationID string, messages []*entity.Message) State {
	return withMessages(s, conversationID, messages)
}

// appendMessage adds msg to its conversation unless a message with the same
// id is already cached, and refreshes the conversation summary.
func appendMessage(s State, msg *entity.Message) State {
	bucket := s.Messages[msg.ConversationID]
	for _, m := range bucket {
		if m.ID == msg.ID {
			return s
		}
	}
	next := append(append([]*entity.Message(nil), bucket...), msg)
	s = withMessages(s, msg.ConversationID, next)

	return patchConversation(s, msg.ConversationID, func(c *entity.Conversation) {
		c.LastMessage = &entity.LastMessage{
			Content:   entity.Preview(msg.Content),
			SenderID:  msg.SenderID,
			Timestamp: msg.CreatedAt,
			Type:      msg.Type,
		}
		c.UpdatedAt = msg.CreatedAt
	})
}

// findMessage scans every cached conversation for messageID.
func findMessage(s State, messageID string) (conversationID string, index int, ok bool) {
	for convID, bucket := range s.Messages {
		for i, m := range bucket {
			if m.ID == messageID {
				return convID, i, true
			}
		}
	}
	return "", 0, false
}

// patchMessage is a no-op when the message is not cached.
func patchMessage(s State, messageID string, patch func(*entity.Message)) State {
	convID, i, ok := findMessage(s, messageID)
	if !ok {
		return s
	}
	bucket := append([]*entity.Message(nil), s.Messages[convID]...)
	cp := *bucket[i]
	patch(&cp)
	bucket[i] = &cp
	return withMessages(s, convID, bucket)
}

func removeMessage(s State, messageID string) State {
	convID, i, ok := findMessage(s, messageID)
	if !ok {
		return s
	}
	old := s.Messages[convID]
	bucket := make([]*entity.Message, 0, len(old)-1)
	bucket = append(bucket, old[:i]...)
	bucket = append(bucket, old[i+1:]...)
	return withMessages(s, convID, bucket)
}

func editMessage(s State, messageID, content string, at time.Time) State {
	return patchMessage(s, messageID, func(m *entity.Message) {
		m.Content = content
		m.Edited = true
		m.EditedAt = &at
	})
}

func setReactions(s State, messageID string, reactions []entity.Reaction) State {
	return patchMessage(s, messageID, func(m *entity.Message) {
		m.Reactions = reactions
	})
}

func replaceNotifications(s State, notifications []*entity.Notification) State {
	s.Notifications = notifications
	s.UnreadNotifications = entity.CountUnread(notifications)
	return s
}

func markNotificationsRead(s State, match func(*entity.Notification) bool) State {
	out := make([]*entity.Notification, len(s.Notifications))
	for i, n := range s.Notifications {
		if n.Read || !match(n) {
			out[i] = n
			continue
		}
		cp := *n
		cp.Read = true
		out[i] = &cp
	}
	return replaceNotifications(s, out)
}

func replaceFlags(s State, flags []*entity.FlaggedContent) State {
	s.FlaggedContent = flags
	return s
}

func removeFlag(s State, flagID string) State {
	out := make([]*entity.FlaggedContent, 0, len(s.FlaggedContent))
	for _, f := range s.FlaggedContent {
		if f.ID != flagID {
			out = append(out, f)
		}
	}
	s.FlaggedContent = out
	return s
}

func approveFlag(s State, flagID, reviewerID string, at time.Time) State {
	out := make([]*entity.FlaggedContent, len(s.FlaggedContent))
	for i, f := range s.FlaggedContent {
		if f.ID != flagID {
			out[i] = f
			continue
		}
		cp := *f
		cp.Status = entity.FlagApproved
		cp.ReviewedBy = reviewerID
		cp.ReviewedAt = &at
		out[i] = &cp
	}
	s.FlaggedContent = out
	return s
}

func replaceSystemMessages(s State, messages []*entity.SystemMessage) State {
	s.SystemMessages = messages
	return s
}

func prependSystemMessage(s State, msg *entity.SystemMessage) State {
	s.SystemMessages = append([]*entity.SystemMessage{msg}, s.SystemMessages...)
	return s
}
