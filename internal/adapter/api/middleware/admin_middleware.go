package middleware

import (
	"github.com/labstack/echo/v4"

	"swapskill/internal/domain/entity"
	"swapskill/pkg/errors"
	"swapskill/pkg/response"
)

type AdminMiddleware struct{}

func NewAdminMiddleware() *AdminMiddleware {
	return &AdminMiddleware{}
}

// AdminOnly must run after Authenticate.
func (m *AdminMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := c.Get("user").(*entity.User)
		if !ok || user == nil {
			return response.Error(c, errors.Unauthorized("Authentication required", nil))
		}

		if !user.IsAdmin() {
			return response.Error(c, errors.Forbidden("Admin privileges required", nil))
		}

		return next(c)
	}
}
