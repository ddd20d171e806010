package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"swapskill/internal/domain/entity"
	"swapskill/internal/usecase"
	"swapskill/pkg/errors"
	"swapskill/pkg/logger"
)

// Store is one session's cache of remote state. Actions call a service and
// then fold the result into the cache; listener callbacks replace whole
// slices. Every transition runs under the store lock, remote calls never do.
//
// Failed actions leave the cache as it was and put the error message in
// State.Error. Actions whose result the caller needs also return the error.
type Store struct {
	services Services

	mu    sync.Mutex
	state State

	notifyMu  sync.Mutex
	listeners map[int]func(State)
	nextID    int
}

func NewStore(userID string, services Services) *Store {
	return &Store{
		services:  services,
		state:     newState(userID),
		listeners: make(map[int]func(State)),
	}
}

func (s *Store) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CurrentUserID
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// OnChange registers fn to receive a snapshot after every transition, in
// transition order. fn must not call back into the store.
func (s *Store) OnChange(fn func(State)) (remove func()) {
	s.notifyMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.notifyMu.Unlock()

	return func() {
		s.notifyMu.Lock()
		delete(s.listeners, id)
		s.notifyMu.Unlock()
	}
}

func (s *Store) update(transition func(State) State) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.state = transition(s.state)
	snapshot := s.state.clone()
	s.mu.Unlock()

	for _, fn := range s.listeners {
		fn(snapshot)
	}
}

func (s *Store) fail(op string, err error) {
	logger.Warn("%s failed: %v", op, err)
	msg := errors.Message(err)
	s.update(func(st State) State { return setError(st, msg) })
}

// load runs a read with its loading flag set, always clearing it afterwards.
func (s *Store) load(c concern, op string, fetch func() (func(State) State, error)) {
	s.update(func(st State) State { return setLoading(st, c, true) })

	apply, err := fetch()
	if err != nil {
		logger.Warn("%s failed: %v", op, err)
		msg := errors.Message(err)
		s.update(func(st State) State { return setLoading(setError(st, msg), c, false) })
		return
	}
	s.update(func(st State) State { return setLoading(apply(st), c, false) })
}

func (s *Store) ClearError() {
	s.update(func(st State) State { return setError(st, "") })
}

func (s *Store) SearchUsers(ctx context.Context, filter usecase.SearchFilter) {
	s.load(loadingUsers, "SearchUsers", func() (func(State) State, error) {
		users, err := s.services.Users.SearchUsers(ctx, filter)
		if err != nil {
			return nil, err
		}
		return func(st State) State { return replaceUsers(st, users) }, nil
	})
}

func (s *Store) LoadSkills(ctx context.Context, userID string) {
	s.load(loadingUsers, "LoadSkills", func() (func(State) State, error) {
		offered, wanted, err := s.services.Skills.ListUserSkills(ctx, userID)
		if err != nil {
			return nil, err
		}
		return func(st State) State { return replaceSkills(st, userID, offered, wanted) }, nil
	})
}

// AddSkill caches the new skill as pending until the next load confirms it.
func (s *Store) AddSkill(ctx context.Context, input usecase.AddSkillInput) {
	skill, err := s.services.Skills.AddSkill(ctx, s.UserID(), input)
	if err != nil {
		s.fail("AddSkill", err)
		return
	}
	pending := *skill
	pending.Pending = true
	s.update(func(st State) State { return addSkill(st, &pending) })
}

func (s *Store) DeleteSkill(ctx context.Context, skillID string) {
	userID := s.UserID()
	if err := s.services.Skills.DeleteSkill(ctx, userID, skillID); err != nil {
		s.fail("DeleteSkill", err)
		return
	}
	s.update(func(st State) State { return removeSkill(st, userID, skillID) })
}

func (s *Store) LoadRequests(ctx context.Context, direction usecase.SwapDirection) {
	s.load(loadingRequests, "LoadRequests", func() (func(State) State, error) {
		requests, err := s.services.Swaps.GetSwapRequests(ctx, s.UserID(), direction)
		if err != nil {
			return nil, err
		}
		return func(st State) State { return replaceRequests(st, requests) }, nil
	})
}

func (s *Store) CreateSwapRequest(ctx context.Context, input usecase.CreateSwapRequestInput) (*entity.SwapRequest, error) {
	req, err := s.services.Swaps.CreateSwapRequest(ctx, s.UserID(), input)
	if err != nil {
		s.fail("CreateSwapRequest", err)
		return nil, err
	}
	pending := *req
	pending.Pending = true
	s.update(func(st State) State { return prependRequest(st, &pending) })
	return req, nil
}

func (s *Store) UpdateSwapStatus(ctx context.Context, requestID string, status entity.SwapStatus, adminNote string) {
	req, err := s.services.Swaps.UpdateStatus(ctx, s.UserID(), requestID, status, adminNote)
	if err != nil {
		s.fail("UpdateSwapStatus", err)
		return
	}
	s.update(func(st State) State { return patchRequest(st, req) })
}

func (s *Store) RateSwap(ctx context.Context, input usecase.RateSwapInput) {
	summary, err := s.services.Ratings.RateSwap(ctx, s.UserID(), input)
	if err != nil {
		s.fail("RateSwap", err)
		return
	}
	s.update(func(st State) State {
		return patchUser(st, summary.UserID, func(u *entity.User) {
			u.Rating = summary.Rating
			u.ReviewCount = summary.ReviewCount
		})
	})
}

func (s *Store) LoadConversations(ctx context.Context) {
	s.load(loadingMessages, "LoadConversations", func() (func(State) State, error) {
		conversations, err := s.services.Chat.ListConversations(ctx, s.UserID())
		if err != nil {
			return nil, err
		}
		return func(st State) State { return replaceConversations(st, conversations) }, nil
	})
}

func (s *Store) CreateConversation(ctx context.Context, input usecase.CreateConversationInput) (*entity.Conversation, error) {
	conv, err := s.services.Chat.CreateConversation(ctx, s.UserID(), input)
	if err != nil {
		s.fail("CreateConversation", err)
		return nil, err
	}
	s.update(func(st State) State { return upsertConversation(st, conv) })
	return conv, nil
}

func (s *Store) LoadMessages(ctx context.Context, conversationID string) {
	s.load(loadingMessages, "LoadMessages", func() (func(State) State, error) {
		messages, err := s.services.Chat.GetMessages(ctx, s.UserID(), conversationID)
		if err != nil {
			return nil, err
		}
		return func(st State) State { return replaceMessages(st, conversationID, messages) }, nil
	})
}

// SendMessage appends the sent message as pending. The next snapshot of the
// conversation replaces it.
func (s *Store) SendMessage(ctx context.Context, input usecase.SendMessageInput) {
	if strings.TrimSpace(input.Content) == "" && len(input.Attachments) == 0 {
		s.fail("SendMessage", errors.BadRequest("Message cannot be empty", nil))
		return
	}

	msg, err := s.services.Chat.SendMessage(ctx, s.UserID(), input)
	if err != nil {
		s.fail("SendMessage", err)
		return
	}
	pending := *msg
	pending.Pending = true
	s.update(func(st State) State { return appendMessage(st, &pending) })
}

func (s *Store) EditMessage(ctx context.Context, messageID, content string) {
	msg, err := s.services.Chat.EditMessage(ctx, s.UserID(), messageID, content)
	if err != nil {
		s.fail("EditMessage", err)
		return
	}
	at := time.Now()
	if msg.EditedAt != nil {
		at = *msg.EditedAt
	}
	s.update(func(st State) State { return editMessage(st, messageID, msg.Content, at) })
}

func (s *Store) DeleteMessage(ctx context.Context, messageID string) {
	if err := s.services.Chat.DeleteMessage(ctx, s.UserID(), messageID); err != nil {
		s.fail("DeleteMessage", err)
		return
	}
	s.update(func(st State) State { return removeMessage(st, messageID) })
}

func (s *Store) AddReaction(ctx context.Context, messageID, emoji string) {
	reactions, err := s.services.Chat.AddReaction(ctx, s.UserID(), messageID, emoji)
	if err != nil {
		s.fail("AddReaction", err)
		return
	}
	s.update(func(st State) State { return setReactions(st, messageID, reactions) })
}

func (s *Store) RemoveReaction(ctx context.Context, messageID, emoji string) {
	reactions, err := s.services.Chat.RemoveReaction(ctx, s.UserID(), messageID, emoji)
	if err != nil {
		s.fail("RemoveReaction", err)
		return
	}
	s.update(func(st State) State { return setReactions(st, messageID, reactions) })
}

func (s *Store) MarkConversationRead(ctx context.Context, conversationID string) {
	userID := s.UserID()
	if err := s.services.Chat.MarkRead(ctx, userID, conversationID); err != nil {
		s.fail("MarkConversationRead", err)
		return
	}
	s.update(func(st State) State { return markConversationRead(st, conversationID, userID) })
}

func (s *Store) LoadNotifications(ctx context.Context) {
	s.load(loadingNotifications, "LoadNotifications", func() (func(State) State, error) {
		notifications, err := s.services.Notifications.ListNotifications(ctx, s.UserID())
		if err != nil {
			return nil, err
		}
		return func(st State) State { return replaceNotifications(st, notifications) }, nil
	})
}

func (s *Store) MarkNotificationRead(ctx context.Context, notificationID string) {
	if err := s.services.Notifications.MarkRead(ctx, s.UserID(), notificationID); err != nil {
		s.fail("MarkNotificationRead", err)
		return
	}
	s.update(func(st State) State {
		return markNotificationsRead(st, func(n *entity.Notification) bool { return n.ID == notificationID })
	})
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context) {
	if err := s.services.Notifications.MarkAllRead(ctx, s.UserID()); err != nil {
		s.fail("MarkAllNotificationsRead", err)
		return
	}
	s.update(func(st State) State {
		return markNotificationsRead(st, func(*entity.Notification) bool { return true })
	})
}

func (s *Store) LoadAdminRequests(ctx context.Context) {
	s.load(loadingAdmin, "LoadAdminRequests", func() (func(State) State, error) {
		requests, err := s.services.Admin.ListSwapRequests(ctx)
		if err != nil {
			return nil, err
		}
		return func(st State) State { return replaceAdminRequests(st, requests) }, nil
	})
}

func (s *Store) LoadFlags(ctx context.Context) {
	s.load(loadingAdmin, "LoadFlags", func() (func(State) State, error) {
		flags, err := s.services.Admin.ListFlags(ctx)
		if err != nil {
			return nil, err
		}
		return func(st State) State { return replaceFlags(st, flags) }, nil
	})
}

func (s *Store) ResolveFlag(ctx context.Context, flagID string, resolution usecase.FlagResolution) {
	adminID := s.UserID()
	if err := s.services.Admin.ResolveFlag(ctx, adminID, flagID, resolution); err != nil {
		s.fail("ResolveFlag", err)
		return
	}
	now := time.Now()
	s.update(func(st State) State {
		if resolution == usecase.FlagReject {
			return removeFlag(st, flagID)
		}
		return approveFlag(st, flagID, adminID, now)
	})
}

func (s *Store) Broadcast(ctx context.Context, content string, kind entity.BroadcastType) {
	if strings.TrimSpace(content) == "" {
		s.fail("Broadcast", errors.BadRequest("Broadcast content cannot be empty", nil))
		return
	}

	msg, err := s.services.Admin.Broadcast(ctx, s.UserID(), content, kind)
	if err != nil {
		s.fail("Broadcast", err)
		return
	}
	pending := *msg
	pending.Pending = true
	s.update(func(st State) State { return prependSystemMessage(st, &pending) })
}

func (s *Store) BanUser(ctx context.Context, userID, reason string) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		s.fail("BanUser", errors.BadRequest("A ban reason is required", nil))
		return
	}

	if err := s.services.Admin.BanUser(ctx, s.UserID(), userID, reason); err != nil {
		s.fail("BanUser", err)
		return
	}
	at := time.Now()
	s.update(func(st State) State {
		return patchUser(st, userID, func(u *entity.User) {
			u.IsBanned = true
			u.BanReason = reason
			u.BannedAt = &at
			u.IsVerified = false
		})
	})
}

func (s *Store) UnbanUser(ctx context.Context, userID string) {
	if err := s.services.Admin.UnbanUser(ctx, s.UserID(), userID); err != nil {
		s.fail("UnbanUser", err)
		return
	}
	s.update(func(st State) State {
		return patchUser(st, userID, func(u *entity.User) {
			u.IsBanned = false
			u.BanReason = ""
			u.BannedAt = nil
		})
	})
}

func (s *Store) VerifyUser(ctx context.Context, userID string, verified bool) {
	if err := s.services.Admin.VerifyUser(ctx, s.UserID(), userID, verified); err != nil {
		s.fail("VerifyUser", err)
		return
	}
	s.update(func(st State) State {
		return patchUser(st, userID, func(u *entity.User) { u.IsVerified = verified })
	})
}
