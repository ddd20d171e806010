package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"swapskill/internal/domain/entity"
	"swapskill/internal/infrastructure/firebase"
	"swapskill/internal/infrastructure/ratelimit"
	"swapskill/internal/usecase"
	"swapskill/pkg/errors"
)

type MockUserEnsurer struct {
	mock.Mock
}

func (m *MockUserEnsurer) EnsureUser(ctx context.Context, input usecase.SignInInput) (*entity.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func serve(h echo.HandlerFunc, req *http.Request, setup func(echo.Context)) *httptest.ResponseRecorder {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if setup != nil {
		setup(c)
	}
	_ = h(c)
	return rec
}

func TestAuthenticateSetsUser(t *testing.T) {
	users := new(MockUserEnsurer)
	users.On("EnsureUser", mock.Anything, usecase.SignInInput{UserID: "alice", Email: "alice@dev.local", DisplayName: "alice"}).
		Return(&entity.User{ID: "alice", Role: entity.RoleUser}, nil)

	m := NewAuthMiddleware(firebase.NewDevTokenVerifier(), users)

	var seen *entity.User
	h := m.Authenticate(func(c echo.Context) error {
		seen = c.Get("user").(*entity.User)
		assert.Equal(t, "alice", c.Get("uid"))
		return okHandler(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+firebase.DevToken("alice"))
	rec := serve(h, req, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "alice", seen.ID)
	users.AssertExpectations(t)
}

func TestAuthenticateRejectsMalformedHeader(t *testing.T) {
	users := new(MockUserEnsurer)
	m := NewAuthMiddleware(firebase.NewDevTokenVerifier(), users)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Token abc")
	rec := serve(m.Authenticate(okHandler), req, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	users.AssertNotCalled(t, "EnsureUser", mock.Anything, mock.Anything)
}

func TestAuthenticateIgnoresQueryTokenOutsideUpgrade(t *testing.T) {
	m := NewAuthMiddleware(firebase.NewDevTokenVerifier(), new(MockUserEnsurer))

	req := httptest.NewRequest(http.MethodGet, "/?token="+firebase.DevToken("alice"), nil)
	rec := serve(m.Authenticate(okHandler), req, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateAcceptsQueryTokenOnUpgrade(t *testing.T) {
	users := new(MockUserEnsurer)
	users.On("EnsureUser", mock.Anything, mock.Anything).Return(&entity.User{ID: "alice"}, nil)
	m := NewAuthMiddleware(firebase.NewDevTokenVerifier(), users)

	req := httptest.NewRequest(http.MethodGet, "/ws?token="+firebase.DevToken("alice"), nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	rec := serve(m.Authenticate(okHandler), req, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticateRejectsBannedUser(t *testing.T) {
	users := new(MockUserEnsurer)
	users.On("EnsureUser", mock.Anything, mock.Anything).
		Return(&entity.User{ID: "bob", IsBanned: true, BanReason: "spam"}, nil)
	m := NewAuthMiddleware(firebase.NewDevTokenVerifier(), users)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+firebase.DevToken("bob"))
	rec := serve(m.Authenticate(okHandler), req, nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "spam")
}

func TestAuthenticatePropagatesStoreErrors(t *testing.T) {
	users := new(MockUserEnsurer)
	users.On("EnsureUser", mock.Anything, mock.Anything).Return(nil, errors.Internal("Failed to get user", nil))
	m := NewAuthMiddleware(firebase.NewDevTokenVerifier(), users)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+firebase.DevToken("bob"))
	rec := serve(m.Authenticate(okHandler), req, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAdminOnly(t *testing.T) {
	h := NewAdminMiddleware().AdminOnly(okHandler)

	tests := []struct {
		name string
		user *entity.User
		want int
	}{
		{"no user", nil, http.StatusUnauthorized},
		{"regular user", &entity.User{ID: "alice", Role: entity.RoleUser}, http.StatusForbidden},
		{"admin", &entity.User{ID: "root", Role: entity.RoleAdmin}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil), func(c echo.Context) {
				if tt.user != nil {
					c.Set("user", tt.user)
				}
			})
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := ratelimit.NewRateLimiter(map[string]ratelimit.Policy{
		ratelimit.ActionHTTPRequest: {Burst: 2, Interval: time.Hour},
	})
	h := RateLimitMiddleware(limiter, ratelimit.ActionHTTPRequest)(okHandler)

	call := func(uid string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		return serve(h, req, func(c echo.Context) {
			if uid != "" {
				c.Set("uid", uid)
			}
		})
	}

	assert.Equal(t, http.StatusOK, call("").Code)
	assert.Equal(t, http.StatusOK, call("").Code)

	rec := call("")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// Authenticated callers get their own bucket.
	assert.Equal(t, http.StatusOK, call("alice").Code)
}
