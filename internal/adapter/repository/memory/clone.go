package memory

import (
	"time"

	"swapskill/internal/domain/entity"
)

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.BannedAt = cloneTime(u.BannedAt)
	c.OfferedSkillIDs = cloneStrings(u.OfferedSkillIDs)
	c.WantedSkillIDs = cloneStrings(u.WantedSkillIDs)
	return &c
}

func cloneSkill(s *entity.Skill) *entity.Skill {
	if s == nil {
		return nil
	}
	c := *s
	c.Tags = cloneStrings(s.Tags)
	c.Pending = false
	return &c
}

func cloneSwapRequest(r *entity.SwapRequest) *entity.SwapRequest {
	c := *r
	c.OfferedSkill = cloneSkill(r.OfferedSkill)
	c.RequestedSkill = cloneSkill(r.RequestedSkill)
	c.Pending = false
	return &c
}

func cloneRating(r *entity.Rating) *entity.Rating {
	c := *r
	return &c
}

func cloneConversation(conv *entity.Conversation) *entity.Conversation {
	c := *conv
	c.Participants = cloneStrings(conv.Participants)
	if conv.LastMessage != nil {
		lm := *conv.LastMessage
		c.LastMessage = &lm
	}
	if conv.UnreadCount != nil {
		c.UnreadCount = make(map[string]int, len(conv.UnreadCount))
		for k, v := range conv.UnreadCount {
			c.UnreadCount[k] = v
		}
	}
	c.Pending = false
	return &c
}

func cloneReactions(reactions []entity.Reaction) []entity.Reaction {
	if reactions == nil {
		return nil
	}
	out := make([]entity.Reaction, len(reactions))
	for i, r := range reactions {
		out[i] = entity.Reaction{Emoji: r.Emoji, Users: cloneStrings(r.Users)}
	}
	return out
}

func cloneMessage(m *entity.Message) *entity.Message {
	c := *m
	c.EditedAt = cloneTime(m.EditedAt)
	c.Reactions = cloneReactions(m.Reactions)
	if m.Attachments != nil {
		c.Attachments = append([]entity.Attachment(nil), m.Attachments...)
	}
	c.Pending = false
	return &c
}

func cloneNotification(n *entity.Notification) *entity.Notification {
	c := *n
	if n.Data != nil {
		c.Data = make(map[string]interface{}, len(n.Data))
		for k, v := range n.Data {
			c.Data[k] = v
		}
	}
	return &c
}

func cloneFlag(f *entity.FlaggedContent) *entity.FlaggedContent {
	c := *f
	c.ReviewedAt = cloneTime(f.ReviewedAt)
	return &c
}

func cloneSystemMessage(m *entity.SystemMessage) *entity.SystemMessage {
	c := *m
	c.Pending = false
	return &c
}
