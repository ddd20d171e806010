package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Rate-limited actions.
const (
	ActionSendMessage        = "send_message"
	ActionCreateConversation = "create_conversation"
	ActionCreateSwapRequest  = "create_swap_request"
	ActionReportContent      = "report_content"
	ActionUploadAttachment   = "upload_attachment"
	ActionHTTPRequest        = "http_request"
)

// Policy is the bucket shape for one action: Burst tokens, one token back
// every Interval.
type Policy struct {
	Burst    int
	Interval time.Duration
}

// DefaultPolicies applies when NewRateLimiter is called without overrides.
var DefaultPolicies = map[string]Policy{
	// 10 messages per minute
	ActionSendMessage: {Burst: 10, Interval: 6 * time.Second},
	// 10 new conversations per hour
	ActionCreateConversation: {Burst: 10, Interval: 6 * time.Minute},
	// 5 proposals per hour
	ActionCreateSwapRequest: {Burst: 5, Interval: 12 * time.Minute},
	ActionReportContent:     {Burst: 5, Interval: 10 * time.Minute},
	ActionUploadAttachment:  {Burst: 20, Interval: 30 * time.Second},
	// 100 requests per minute per client
	ActionHTTPRequest: {Burst: 100, Interval: 600 * time.Millisecond},
}

var fallbackPolicy = Policy{Burst: 20, Interval: 3 * time.Second}

type tokenBucket struct {
	mu         sync.Mutex
	tokens     int
	policy     Policy
	lastRefill time.Time
	lastUsed   time.Time
}

func newTokenBucket(p Policy, now time.Time) *tokenBucket {
	return &tokenBucket{
		tokens:     p.Burst,
		policy:     p,
		lastRefill: now,
		lastUsed:   now,
	}
}

func (tb *tokenBucket) allow(now time.Time) (bool, time.Duration) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.lastUsed = now
	if refills := int(now.Sub(tb.lastRefill) / tb.policy.Interval); refills > 0 {
		tb.tokens += refills
		if tb.tokens > tb.policy.Burst {
			tb.tokens = tb.policy.Burst
		}
		tb.lastRefill = tb.lastRefill.Add(time.Duration(refills) * tb.policy.Interval)
	}

	if tb.tokens > 0 {
		tb.tokens--
		return true, 0
	}
	return false, tb.lastRefill.Add(tb.policy.Interval).Sub(now)
}

// RateLimiter keeps one token bucket per user and action.
type RateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*tokenBucket
	policies map[string]Policy
	now      func() time.Time
}

// NewRateLimiter builds a limiter from DefaultPolicies with the given
// per-action overrides applied on top.
func NewRateLimiter(overrides map[string]Policy) *RateLimiter {
	policies := make(map[string]Policy, len(DefaultPolicies)+len(overrides))
	for action, p := range DefaultPolicies {
		policies[action] = p
	}
	for action, p := range overrides {
		policies[action] = p
	}
	return &RateLimiter{
		buckets:  make(map[string]*tokenBucket),
		policies: policies,
		now:      time.Now,
	}
}

// Allow consumes a token for userID's action. When none is left it returns
// false and the time until the next one.
func (rl *RateLimiter) Allow(userID, action string) (bool, time.Duration) {
	now := rl.now()
	key := userID + ":" + action

	rl.mu.Lock()
	bucket, ok := rl.buckets[key]
	if !ok {
		p, known := rl.policies[action]
		if !known {
			p = fallbackPolicy
		}
		bucket = newTokenBucket(p, now)
		rl.buckets[key] = bucket
	}
	rl.mu.Unlock()

	return bucket.allow(now)
}

// Cleanup drops buckets idle for longer than maxIdle.
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, bucket := range rl.buckets {
		bucket.mu.Lock()
		idle := now.Sub(bucket.lastUsed)
		bucket.mu.Unlock()
		if idle > maxIdle {
			delete(rl.buckets, key)
		}
	}
}

// StartCleanupRoutine runs Cleanup every 30 minutes until ctx is done.
func (rl *RateLimiter) StartCleanupRoutine(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.Cleanup(time.Hour)
			}
		}
	}()
}
