package usecase

import (
	"time"

	"swapskill/pkg/errors"
	"swapskill/pkg/logger"
)

// RateLimiter is satisfied by *ratelimit.RateLimiter.
type RateLimiter interface {
	Allow(userID, action string) (bool, time.Duration)
}

type noLimit struct{}

func (noLimit) Allow(string, string) (bool, time.Duration) { return true, 0 }

func limiterOrDefault(rl RateLimiter) RateLimiter {
	if rl == nil {
		return noLimit{}
	}
	return rl
}

func checkRate(rl RateLimiter, op, userID, action string) error {
	allowed, wait := rl.Allow(userID, action)
	if allowed {
		return nil
	}
	logger.Warn("%s Rate Limited: user %s must wait %v", op, userID, wait)
	return errors.TooManyRequests("Rate limit exceeded. Please slow down", wait)
}
