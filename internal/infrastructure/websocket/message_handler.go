package websocket

import (
	"encoding/json"
	"time"

	"swapskill/internal/domain/entity"
	"swapskill/internal/usecase"
	"swapskill/pkg/errors"
	"swapskill/pkg/logger"
)

// Client commands.
const (
	MessageTypePing = "ping"

	MessageTypeSearchUsers       = "search_users"
	MessageTypeLoadSkills        = "load_skills"
	MessageTypeAddSkill          = "add_skill"
	MessageTypeDeleteSkill       = "delete_skill"
	MessageTypeLoadRequests      = "load_requests"
	MessageTypeCreateSwapRequest = "create_swap_request"
	MessageTypeUpdateSwapStatus  = "update_swap_status"
	MessageTypeRateSwap          = "rate_swap"

	MessageTypeLoadConversations    = "load_conversations"
	MessageTypeCreateConversation   = "create_conversation"
	MessageTypeOpenConversation     = "open_conversation"
	MessageTypeCloseConversation    = "close_conversation"
	MessageTypeSendMessage          = "send_message"
	MessageTypeEditMessage          = "edit_message"
	MessageTypeDeleteMessage        = "delete_message"
	MessageTypeAddReaction          = "add_reaction"
	MessageTypeRemoveReaction       = "remove_reaction"
	MessageTypeMarkConversationRead = "mark_conversation_read"

	MessageTypeLoadNotifications        = "load_notifications"
	MessageTypeMarkNotificationRead     = "mark_notification_read"
	MessageTypeMarkAllNotificationsRead = "mark_all_notifications_read"

	MessageTypeOpenAdmin         = "open_admin"
	MessageTypeLoadAdminRequests = "load_admin_requests"
	MessageTypeLoadFlags         = "load_flags"
	MessageTypeResolveFlag       = "resolve_flag"
	MessageTypeBroadcast         = "broadcast"
	MessageTypeBanUser           = "ban_user"
	MessageTypeUnbanUser         = "unban_user"
	MessageTypeVerifyUser        = "verify_user"

	MessageTypeClearError = "clear_error"
)

// Server events.
const (
	MessageTypePong  = "pong"
	MessageTypeState = "state"
	MessageTypeAck   = "ack"
	MessageTypeError = "error"
)

// ClientMessage is a command sent by the browser.
type ClientMessage struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// WSMessage is an event sent to the browser.
type WSMessage struct {
	Type      string      `json:"type"`
	RequestID string      `json:"request_id,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

func newMessage(kind string, data interface{}) WSMessage {
	return WSMessage{
		Type:      kind,
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

type SearchUsersData struct {
	NamePrefix   string `json:"name_prefix"`
	Category     string `json:"category"`
	Location     string `json:"location"`
	Text         string `json:"text"`
	VerifiedOnly bool   `json:"verified_only"`
}

type LoadSkillsData struct {
	UserID string `json:"user_id"`
}

type AddSkillData struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	CategoryID  string   `json:"category_id"`
	Level       string   `json:"level"`
	Tags        []string `json:"tags"`
	Type        string   `json:"type"`
}

type SkillIDData struct {
	SkillID string `json:"skill_id"`
}

type LoadRequestsData struct {
	Direction string `json:"direction"`
}

type CreateSwapRequestData struct {
	TargetID         string `json:"target_id"`
	OfferedSkillID   string `json:"offered_skill_id"`
	RequestedSkillID string `json:"requested_skill_id"`
	Message          string `json:"message"`
	Priority         string `json:"priority"`
}

type UpdateSwapStatusData struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	AdminNote string `json:"admin_note"`
}

type RateSwapData struct {
	SwapRequestID string `json:"swap_request_id"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
}

type CreateConversationData struct {
	ParticipantIDs []string `json:"participant_ids"`
	Type           string   `json:"type"`
	Title          string   `json:"title"`
	SwapRequestID  string   `json:"swap_request_id"`
}

type ConversationIDData struct {
	ConversationID string `json:"conversation_id"`
}

type SendMessageData struct {
	ConversationID string              `json:"conversation_id"`
	Content        string              `json:"content"`
	Type           string              `json:"type"`
	Attachments    []entity.Attachment `json:"attachments"`
	ReplyTo        string              `json:"reply_to"`
}

type EditMessageData struct {
	MessageID string `json:"message_id"`
	Content   string `json:"content"`
}

type MessageIDData struct {
	MessageID string `json:"message_id"`
}

type ReactionData struct {
	MessageID string `json:"message_id"`
	Emoji     string `json:"emoji"`
}

type NotificationIDData struct {
	NotificationID string `json:"notification_id"`
}

type ResolveFlagData struct {
	FlagID     string `json:"flag_id"`
	Resolution string `json:"resolution"`
}

type BroadcastData struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

type BanUserData struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

type UserIDData struct {
	UserID   string `json:"user_id"`
	Verified bool   `json:"verified"`
}

var adminCommands = map[string]bool{
	MessageTypeOpenAdmin:         true,
	MessageTypeLoadAdminRequests: true,
	MessageTypeLoadFlags:         true,
	MessageTypeResolveFlag:       true,
	MessageTypeBroadcast:         true,
	MessageTypeBanUser:           true,
	MessageTypeUnbanUser:         true,
	MessageTypeVerifyUser:        true,
}

// Open starts the listeners every session has and loads the inbox.
func (c *Client) Open() {
	if _, err := c.bridge.WatchNotifications(c.ctx); err != nil {
		logger.Warn("WebSocket: notifications listener for %s failed: %v", c.UserID, err)
	}
	c.store.LoadConversations(c.ctx)
	c.markDirty()
}

// HandleClientMessage runs one command against the client's session. Results
// reach the browser through the next state event; the ack only carries
// what a command returns beyond that.
func (m *Manager) HandleClientMessage(client *Client, messageBytes []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(messageBytes, &msg); err != nil {
		logger.Warn("WebSocket: Failed to unmarshal message from client %s: %v", client.UserID, err)
		m.sendErrorToClient(client, "", "Invalid message format")
		return
	}

	logger.Debug("WebSocket: Received message type '%s' from client %s", msg.Type, client.UserID)

	if adminCommands[msg.Type] && !client.IsAdmin {
		m.sendErrorToClient(client, msg.RequestID, "Admin privileges required")
		return
	}

	result, err := m.dispatch(client, msg)
	if err != nil {
		m.sendErrorToClient(client, msg.RequestID, errors.Message(err))
		return
	}
	if result == nil {
		result = map[string]string{"command": msg.Type}
	}

	kind := MessageTypeAck
	if msg.Type == MessageTypePing {
		kind = MessageTypePong
	}
	reply := newMessage(kind, result)
	reply.RequestID = msg.RequestID
	m.sendToClient(client, reply)
}

func decode(msg ClientMessage, v interface{}) error {
	if len(msg.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg.Data, v); err != nil {
		return errors.BadRequest("Invalid "+msg.Type+" data", err)
	}
	return nil
}

func (m *Manager) dispatch(client *Client, msg ClientMessage) (interface{}, error) {
	ctx := client.ctx
	store := client.store

	switch msg.Type {
	case MessageTypePing:
		return map[string]string{"status": "alive"}, nil

	case MessageTypeSearchUsers:
		var data SearchUsersData
		if err := decode(msg, &data); err != nil {
			return nil, err
		}
		store.SearchUsers(ctx, usecase.SearchFilter{
			NamePrefix:   data.NamePrefix,
			Category:     data.Category,
			Location:     data.Location,
			Text:         data.Text,
			VerifiedOnly: data.VerifiedOnly,
		})

	case MessageTypeLoadSkills:
		var data LoadSkillsData
		if err := decode(msg, &data); err != nil {
			return nil, err
		}
		if data.UserID == "" {
			data.UserID = client.UserID
		}
		store.LoadSkills(ctx, data.UserID)

	case MessageTypeAddSkill:
		var data AddSkillData
		if err := decode(msg, &data); err != nil {
			return nil, err
		}
		store.AddSkill(ctx, usecase.AddSkillInput{
			Name:        data.Name,
			Description: data.Description,
			CategoryID:  data.CategoryID,
			Level:       entity.SkillLevel(data.Level),
			Tags:        data.Tags,
			Type:        entity.SkillType(data.Type),
		})

	case MessageTypeDeleteSkill:
		var data SkillIDData
		if err := decode(msg, &data); err != nil {
			return nil, err
		}
		store.DeleteSkill(ctx, data.SkillID)

	case MessageTypeLoadRequests:
		var data LoadRequestsData
		if err := decode(msg, &data); err != nil {
			return nil, err
		}
		direction := usecase.SwapDirection(data.Direction)
		if direction == "" {
			direction = usecase.SwapAll
		}
		store.LoadRequests(ctx, direction)

	case MessageTypeCreateSwapRequest:
		var data CreateSwapRequestData
		if err := decode(msg, &data); err != nil {
			return nil, err
		}
		req, err := store.CreateSwapRequest(ctx, usecase.CreateSwapRequestInput{
			TargetID:         data.TargetID,
			OfferedSkillID:   data.OfferedSkillID,
			RequestedSkillID: data.RequestedSkillID,
			Message:          data.Message,
			Priority:         entity.SwapPriority(data.Priority),
		})
		if err != nil {
			// Already in the session error slot.
			return nil, nil
		}
		return req, nil

	case MessageTypeUpdateSwapStatus:
		var data UpdateSwapStatusData
		if err := decode(msg, &data); err != nil {
			return nil, err
		}
		store.UpdateSwapStatus(ctx, data.RequestID, entity.SwapStatus(data.Status), data.AdminNote)

	case MessageTypeRateSwap:
		var data RateSwapData
		if err := decode(msg, &data); err != nil {
			return nil, err
		}
		store.RateSwap(ctx, usecase.RateSwapInput{
			SwapRequestID: data.SwapRequestID,
			Rating:        data.Rating,
			Comment:       data.Comment,
		})

	case MessageTypeLoadConversations:
		store.LoadConversations(ctx)

	case MessageTypeCreateConversation:
		var data CreateConversationData
		if err := decode(msg, &data); err != nil {
			return nil, err
		}
		conv, err := store.CreateConversation(ctx, usecase.CreateConversationInput{
			ParticipantIDs: data.ParticipantIDs,
			Type:           entity.ConversationType(data.Type),
			Title:          data.Title,
			SwapRequestID:  data.SwapRequestID,
		})
		if err != nil {
			return nil, nil
		}
		return conv, nil

	case MessageTypeOpenConversation:
		var data ConversationIDData
		if err := decode(msg, &data); err != nil {
			return nil, err
		}
		if _, err := client.bridge.WatchConversation(ctx, data.ConversationID); err != nil {
			return nil, nil
		}
		store.MarkConversationRead(ctx, data.ConversationID)

	case MessageTypeCloseConversation:
		client.bridge.CloseConversation()

	case MessageTypeSendMessage:
		var data SendMessageData
		if err := decode(msg, &data); err != nil {
			return nil, err
		}
		if data.ConversationID == "" {
			data.ConversationID = client.bridge.ConversationID()
		}
		store.SendMessage(ctx, usecase.SendMessageInput{
			ConversationID: data.ConversationID,
			Content:        data.Content,
			Type:           entity.MessageType(data.Type),
			Attachments:    data.Attachments,
			ReplyTo:        data.ReplyTo,
		})

	case MessageTypeEditMessage:
		var data EditMessageData
		if err := decode(msg, &data); err != nil {
			return nil, err
		}
		store.EditMessage(ctx, data.MessageID, data.Content)

	case MessageTypeDeleteMessage:
		var data MessageIDData
		if err := decode(msg, &data); err != nil {
			return nil, err
		}
		store.DeleteMessage(ctx, data.MessageID)

	case MessageTypeAddReaction, MessageTypeRemoveReaction:
		var data ReactionData
		if err := decode(msg, &data); err != nil {
			return nil, err
		}
		if msg.Type == MessageTypeAddReaction {
			store.AddReaction(ctx, data.MessageID, data.Emoji)
		} else {
			store.RemoveReaction(ctx, data.MessageID, data.Emoji)
		}

	case MessageTypeMarkConversationRead:
		var data ConversationIDData
		if err := decode(msg, &data); err != nil {
			return nil, err
		}
		store.MarkConversationRead(ctx, data.ConversationID)

	case MessageTypeLoadNotifications:
		store.LoadNotifications(ctx)

	case MessageTypeMarkNotificationRead:
		var data NotificationIDData
		if err := decode(msg, &data); err != nil {
			return nil, err
		}
		store.MarkNotificationRead(ctx, data.NotificationID)

	case MessageTypeMarkAllNotificationsRead:
		store.MarkAllNotificationsRead(ctx)

	case MessageTypeOpenAdmin:
		if _, err := client.bridge.WatchAdmin(ctx); err != nil {
			return nil, nil
		}
		store.LoadAdminRequests(ctx)

	case MessageTypeLoadAdminRequests:
		store.LoadAdminRequests(ctx)

	case MessageTypeLoadFlags:
		store.LoadFlags(ctx)

	case MessageTypeResolveFlag:
		var data ResolveFlagData
		if err := decode(msg, &data); err != nil {
			return nil, err
		}
		store.ResolveFlag(ctx, data.FlagID, usecase.FlagResolution(data.Resolution))

	case MessageTypeBroadcast:
		var data BroadcastData
		if err := decode(msg, &data); err != nil {
			return nil, err
		}
		store.Broadcast(ctx, data.Content, entity.BroadcastType(data.Type))

	case MessageTypeBanUser:
		var data BanUserData
		if err := decode(msg, &data); err != nil {
			return nil, err
		}
		store.BanUser(ctx, data.UserID, data.Reason)

	case MessageTypeUnbanUser:
		var data UserIDData
		if err := decode(msg, &data); err != nil {
			return nil, err
		}
		store.UnbanUser(ctx, data.UserID)

	case MessageTypeVerifyUser:
		var data UserIDData
		if err := decode(msg, &data); err != nil {
			return nil, err
		}
		store.VerifyUser(ctx, data.UserID, data.Verified)

	case MessageTypeClearError:
		store.ClearError()

	default:
		logger.Warn("WebSocket: Unknown message type '%s' from client %s", msg.Type, client.UserID)
		return nil, errors.BadRequest("Unknown message type", nil)
	}

	return nil, nil
}

func (m *Manager) sendToClient(client *Client, message WSMessage) {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		logger.Error("WebSocket: Failed to marshal message for client %s: %v", client.UserID, err)
		return
	}

	select {
	case client.Send <- messageBytes:
	default:
		logger.Warn("WebSocket: send buffer full for client %s, dropping %s", client.UserID, message.Type)
	}
}

func (m *Manager) sendErrorToClient(client *Client, requestID, errorMsg string) {
	reply := newMessage(MessageTypeError, map[string]string{"error": errorMsg})
	reply.RequestID = requestID
	m.sendToClient(client, reply)
}
