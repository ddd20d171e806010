package middleware

import (
	"math"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"swapskill/pkg/errors"
	"swapskill/pkg/logger"
	"swapskill/pkg/response"
)

// Limiter is satisfied by *ratelimit.RateLimiter.
type Limiter interface {
	Allow(key, action string) (bool, time.Duration)
}

// RateLimitMiddleware spends one token of action per request, keyed by the
// authenticated user when there is one and the client IP otherwise.
func RateLimitMiddleware(limiter Limiter, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key, ok := c.Get("uid").(string)
			if !ok || key == "" {
				key = "ip:" + c.RealIP()
			}

			allowed, wait := limiter.Allow(key, action)
			if !allowed {
				logger.Warn("RATE LIMIT: blocked %s for %s (retry in %v)", action, key, wait)
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				return response.Error(c, errors.TooManyRequests("Rate limit exceeded", wait))
			}

			return next(c)
		}
	}
}
