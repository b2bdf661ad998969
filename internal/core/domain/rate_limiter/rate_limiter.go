package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrRateLimitExceeded = errors.New("rate limit exceeded")

type Limit struct {
	MaxAttempts uint32
	Window      time.Duration
}

type Result struct {
	IsAllowed  bool
	RetryAfter time.Duration
}

func Allowed() Result {
	return Result{IsAllowed: true}
}

func NotAllowed(retryAfter time.Duration) Result {
	return Result{IsAllowed: false, RetryAfter: retryAfter}
}

type RateLimiter interface {
	CheckLimit(ctx context.Context, key string, limit Limit) Result
}

// LimitExceededError matches ErrRateLimitExceeded with errors.Is.
type LimitExceededError struct {
	RetryAfter time.Duration
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
}

func (e *LimitExceededError) Is(target error) bool {
	return target == ErrRateLimitExceeded
}

// Message is shown to the client as is.
func (e *LimitExceededError) Message() string {
	return "Too many requests. Please try again after " + HumanizeDuration(e.RetryAfter)
}

func HumanizeDuration(d time.Duration) string {
	if d < time.Minute {
		seconds := int(math.Ceil(d.Seconds()))
		if seconds <= 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", seconds)
	}
	minutes := int(math.Ceil(d.Minutes()))
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}
