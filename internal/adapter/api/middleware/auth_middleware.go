package middleware

import (
	"context"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"swapskill/internal/domain/entity"
	"swapskill/internal/infrastructure/firebase"
	"swapskill/internal/usecase"
	"swapskill/pkg/errors"
	"swapskill/pkg/logger"
	"swapskill/pkg/response"
)

// TokenVerifier checks a bearer token. Implemented by the Firebase auth
// client and, in development, the dev token verifier.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*firebase.Identity, error)
}

// UserEnsurer loads the caller's user document, creating it on first sign-in.
type UserEnsurer interface {
	EnsureUser(ctx context.Context, input usecase.SignInInput) (*entity.User, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
	users    UserEnsurer
}

func NewAuthMiddleware(verifier TokenVerifier, users UserEnsurer) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		users:    users,
	}
}

// Authenticate sets "uid" and "user" on the context. Browsers cannot send
// headers on a WebSocket handshake, so upgrades may pass ?token= instead.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		idToken, err := bearerToken(c)
		if err != nil {
			return response.Error(c, err)
		}

		ctx := c.Request().Context()
		identity, err := m.verifier.VerifyToken(ctx, idToken)
		if err != nil {
			logger.Debug("Authenticate: token rejected: %v", err)
			return response.Error(c, errors.Unauthorized("Invalid or expired token", err))
		}

		user, err := m.users.EnsureUser(ctx, usecase.SignInInput{
			UserID:      identity.UID,
			Email:       identity.Email,
			DisplayName: identity.Name,
			PhotoURL:    identity.Picture,
		})
		if err != nil {
			return response.Error(c, err)
		}
		if user.IsBanned {
			return response.Error(c, errors.Forbidden("Your account has been banned: "+user.BanReason, nil))
		}

		c.Set("uid", user.ID)
		c.Set("user", user)
		return next(c)
	}
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		if websocket.IsWebSocketUpgrade(c.Request()) {
			if token := c.QueryParam("token"); token != "" {
				return token, nil
			}
		}
		return "", errors.Unauthorized("Authorization header is required", nil)
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", errors.Unauthorized("Invalid authorization format", nil)
	}
	return parts[1], nil
}
