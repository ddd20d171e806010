package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swapskill/internal/adapter/api"
	"swapskill/internal/adapter/api/handler"
	"swapskill/internal/adapter/api/middleware"
	"swapskill/internal/adapter/repository/memory"
	"swapskill/internal/domain/entity"
	"swapskill/internal/domain/repository"
	"swapskill/internal/infrastructure/firebase"
	ws "swapskill/internal/infrastructure/websocket"
	"swapskill/internal/session"
	"swapskill/internal/usecase"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	e     *echo.Echo
	repos *repository.Repositories
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	repos := memory.NewRepositories(memory.NewDB())
	users := usecase.NewUserUseCase(repos.Users, repos.Skills, 50)
	skills := usecase.NewSkillUseCase(repos.Skills)
	swaps := usecase.NewSwapUseCase(repos.SwapRequests, repos.Skills, repos.Users, repos.Notifications, nil)
	ratings := usecase.NewRatingUseCase(repos.Ratings, repos.SwapRequests, repos.Notifications)
	chat := usecase.NewChatUseCase(repos.Conversations, repos.Users, repos.SwapRequests, nil, 100)
	notifications := usecase.NewNotificationUseCase(repos.Notifications, 50)
	admin := usecase.NewAdminUseCase(repos.Users, repos.SwapRequests, repos.Moderation, repos.Notifications, swaps, nil, 50)
	uploads := usecase.NewUploadUseCase(nil, nil)

	handler.Setup(users, skills, swaps, ratings, chat, notifications, admin, uploads)
	handler.SetupHealthHandler("memory", nil)
	handler.SetupWebSocketHandler(ws.NewManager(), session.Services{
		Users:         users,
		Skills:        skills,
		Swaps:         swaps,
		Ratings:       ratings,
		Chat:          chat,
		Notifications: notifications,
		Admin:         admin,
	}, nil)

	e := echo.New()
	e.Validator = api.NewValidator()
	Setup(e, middleware.NewAuthMiddleware(firebase.NewDevTokenVerifier(), users), middleware.NewAdminMiddleware())

	return &testServer{e: e, repos: repos}
}

func (s *testServer) seedAdmin(t *testing.T, id string) {
	t.Helper()
	now := time.Now()
	require.NoError(t, s.repos.Users.Create(context.Background(), &entity.User{
		ID:          id,
		Email:       id + "@example.com",
		DisplayName: id,
		Role:        entity.RoleAdmin,
		CreatedAt:   now,
		UpdatedAt:   now,
	}))
}

func (s *testServer) do(t *testing.T, method, path, userID string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if userID != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+firebase.DevToken(userID))
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

// decodeData leaves v untouched when data was omitted for an empty result.
func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	if len(env.Data) == 0 {
		return
	}
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func (s *testServer) addSkill(t *testing.T, userID, name, skillType string) *entity.Skill {
	t.Helper()
	rec, env := s.do(t, http.MethodPost, "/v1/skills", userID, map[string]interface{}{
		"name":        name,
		"category_id": "tech",
		"level":       "advanced",
		"type":        skillType,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var skill entity.Skill
	decodeData(t, env, &skill)
	return &skill
}

func TestHealthIsPublic(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data_store":"memory"`)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-dev-token")
	rec = httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserCreatedOnFirstRequest(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/v1/users/me", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile entity.UserProfile
	decodeData(t, env, &profile)
	assert.Equal(t, "alice", profile.ID)
	assert.Equal(t, entity.RoleUser, profile.Role)

	rec, env = s.do(t, http.MethodPatch, "/v1/users/me", "alice", map[string]string{"bio": "Go and guitar", "location": "Lisbon"})
	require.Equal(t, http.StatusOK, rec.Code)

	var user entity.User
	decodeData(t, env, &user)
	assert.Equal(t, "Lisbon", user.Location)
}

func TestValidationErrorShape(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/v1/skills", "alice", map[string]string{"name": "Go", "category_id": "tech", "type": "offered"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Equal(t, "level is required", env.Error.Message)
}

func TestSwapLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)

	goSkill := s.addSkill(t, "alice", "Go", "offered")
	guitar := s.addSkill(t, "bob", "Guitar", "offered")

	rec, env := s.do(t, http.MethodGet, "/v1/users/me/skills", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var buckets struct {
		Offered []*entity.Skill `json:"offered"`
		Wanted  []*entity.Skill `json:"wanted"`
	}
	decodeData(t, env, &buckets)
	require.Len(t, buckets.Offered, 1)
	assert.Empty(t, buckets.Wanted)

	rec, env = s.do(t, http.MethodPost, "/v1/swaps", "alice", map[string]string{
		"target_id":          "bob",
		"offered_skill_id":   goSkill.ID,
		"requested_skill_id": guitar.ID,
		"message":            "Lessons for lessons?",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var swap entity.SwapRequest
	decodeData(t, env, &swap)
	assert.Equal(t, entity.SwapPending, swap.Status)

	// Only the recipient may accept.
	rec, env = s.do(t, http.MethodPatch, "/v1/swaps/"+swap.ID+"/status", "alice", map[string]string{"status": "accepted"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodPatch, "/v1/swaps/"+swap.ID+"/status", "bob", map[string]string{"status": "accepted"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodPatch, "/v1/swaps/"+swap.ID+"/status", "bob", map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(t, http.MethodGet, "/v1/swaps?direction=incoming", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var incoming []*entity.SwapRequest
	decodeData(t, env, &incoming)
	require.Len(t, incoming, 1)
	assert.Equal(t, entity.SwapCompleted, incoming[0].Status)
	require.NotNil(t, incoming[0].OfferedSkill)
	assert.Equal(t, "Go", incoming[0].OfferedSkill.Name)

	rec, env = s.do(t, http.MethodPost, "/v1/swaps/"+swap.ID+"/rating", "alice", map[string]int{"rating": 5})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var summary entity.RatingSummary
	decodeData(t, env, &summary)
	assert.Equal(t, "bob", summary.UserID)
	assert.Equal(t, 1, summary.ReviewCount)

	rec, env = s.do(t, http.MethodGet, "/v1/notifications", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var inbox struct {
		Items  []*entity.Notification `json:"items"`
		Unread int                    `json:"unread"`
	}
	decodeData(t, env, &inbox)
	assert.NotEmpty(t, inbox.Items)
	assert.Equal(t, len(inbox.Items), inbox.Unread)

	rec, _ = s.do(t, http.MethodPut, "/v1/notifications/read", "bob", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	_, env = s.do(t, http.MethodGet, "/v1/notifications", "bob", nil)
	decodeData(t, env, &inbox)
	assert.Zero(t, inbox.Unread)
}

func TestChatReactionsOverHTTP(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/v1/users/me", "bob", nil)

	rec, env := s.do(t, http.MethodPost, "/v1/conversations", "alice", map[string]interface{}{
		"participant_ids": []string{"bob"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var conv entity.Conversation
	decodeData(t, env, &conv)

	rec, env = s.do(t, http.MethodPost, "/v1/conversations/"+conv.ID+"/messages", "alice", map[string]string{"content": "hi bob"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var msg entity.Message
	decodeData(t, env, &msg)

	rec, _ = s.do(t, http.MethodPost, "/v1/messages/"+msg.ID+"/reactions", "bob", map[string]string{"emoji": "👍"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = s.do(t, http.MethodDelete, "/v1/messages/"+msg.ID+"/reactions/%F0%9F%91%8D", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var reactions []entity.Reaction
	decodeData(t, env, &reactions)
	assert.Empty(t, reactions)

	// Only the sender may edit.
	rec, _ = s.do(t, http.MethodPatch, "/v1/messages/"+msg.ID, "bob", map[string]string{"content": "hijacked"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	s := newTestServer(t)
	s.seedAdmin(t, "root")

	rec, _ := s.do(t, http.MethodGet, "/v1/admin/stats", "alice", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/v1/admin/stats", "root", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminUserListIsPaginated(t *testing.T) {
	s := newTestServer(t)
	s.seedAdmin(t, "root")
	s.do(t, http.MethodGet, "/v1/users/me", "alice", nil)
	s.do(t, http.MethodGet, "/v1/users/me", "bob", nil)

	rec, env := s.do(t, http.MethodGet, "/v1/admin/users?page=2&limit=2", "root", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Items      []*entity.User `json:"items"`
		Total      int64          `json:"total"`
		Page       int            `json:"page"`
		TotalPages int            `json:"totalPages"`
	}
	decodeData(t, env, &page)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.TotalPages)
}

func TestBannedUserIsLockedOut(t *testing.T) {
	s := newTestServer(t)
	s.seedAdmin(t, "root")
	s.do(t, http.MethodGet, "/v1/users/me", "bob", nil)

	rec, env := s.do(t, http.MethodPost, "/v1/admin/users/bob/ban", "root", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	rec, _ = s.do(t, http.MethodPost, "/v1/admin/users/bob/ban", "root", map[string]string{"reason": "spam"})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec, env = s.do(t, http.MethodGet, "/v1/users/me", "bob", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Message, "spam")

	rec, _ = s.do(t, http.MethodDelete, "/v1/admin/users/bob/ban", "root", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec, _ = s.do(t, http.MethodGet, "/v1/users/me", "bob", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReportAndResolveFlag(t *testing.T) {
	s := newTestServer(t)
	s.seedAdmin(t, "root")
	skill := s.addSkill(t, "bob", "Totally legit", "offered")

	rec, env := s.do(t, http.MethodPost, "/v1/reports", "alice", map[string]string{
		"content_type": "skill",
		"content_id":   skill.ID,
		"reason":       "spam",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var flag entity.FlaggedContent
	decodeData(t, env, &flag)
	assert.Equal(t, entity.FlagPending, flag.Status)

	rec, _ = s.do(t, http.MethodPatch, "/v1/admin/flags/"+flag.ID, "root", map[string]string{"resolution": "delete"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodPatch, "/v1/admin/flags/"+flag.ID, "root", map[string]string{"resolution": "approve"})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec, env = s.do(t, http.MethodGet, "/v1/admin/flags", "root", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Items []*entity.FlaggedContent `json:"items"`
	}
	decodeData(t, env, &page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, entity.FlagApproved, page.Items[0].Status)
}

func TestBroadcastVisibleToUsers(t *testing.T) {
	s := newTestServer(t)
	s.seedAdmin(t, "root")

	rec, env := s.do(t, http.MethodPost, "/v1/admin/broadcasts", "root", map[string]string{"content": "Maintenance at noon"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var msg entity.SystemMessage
	decodeData(t, env, &msg)
	assert.Equal(t, entity.BroadcastInfo, msg.Type)

	rec, env = s.do(t, http.MethodGet, "/v1/broadcasts", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var active []*entity.SystemMessage
	decodeData(t, env, &active)
	require.Len(t, active, 1)

	rec, _ = s.do(t, http.MethodDelete, "/v1/admin/broadcasts/"+msg.ID, "root", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, env = s.do(t, http.MethodGet, "/v1/broadcasts", "alice", nil)
	active = nil
	decodeData(t, env, &active)
	assert.Empty(t, active)
}

func TestUploadsUnavailableWithoutStorage(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/v1/uploads/signed-url", "alice", map[string]interface{}{
		"content_type": "image/png",
		"size":         1024,
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "SERVICE_UNAVAILABLE", env.Error.Code)
}
