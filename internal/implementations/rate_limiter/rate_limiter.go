package ratelimiter

import (
	"context"
	"errors"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/logging"
	ratelimiter "exzly/internal/core/domain/rate_limiter"
	"fmt"
	"time"

	"github.com/go-redis/redis/v9"
)

// Redis is a fixed window counter. Every window gets its own key that
// expires together with the window.
type Redis struct {
	redisClient *redis.Client
	log         logging.Logger
	now         func() time.Time
}

func NewRedis(redisClient *redis.Client, log logging.Logger, now func() time.Time) *Redis {
	if redisClient == nil {
		panic(e.NewNilArgumentError("redisClient"))
	}
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &Redis{redisClient: redisClient, log: log, now: now}
}

func (r *Redis) CheckLimit(ctx context.Context, key string, limit ratelimiter.Limit) ratelimiter.Result {
	if limit.Window <= 0 {
		panic("invalid rate limiting window")
	}

	now := r.now()
	windowStart := now.Truncate(limit.Window)
	k := fmt.Sprintf("%s::%d", key, windowStart.Unix())

	cmds, err := r.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, k)
		pipe.PExpire(ctx, k, limit.Window)
		return nil
	})
	if errors.Is(err, context.Canceled) {
		return ratelimiter.NotAllowed(limit.Window)
	}
	if err != nil {
		r.log.Error(ctx, "Could not check rate limit due to Redis client error.", logging.Entry("err", err))
		return ratelimiter.Allowed()
	}
	intCmd := cmds[0].(*redis.IntCmd)
	if intCmd.Val() > int64(limit.MaxAttempts) {
		return ratelimiter.NotAllowed(windowStart.Add(limit.Window).Sub(now))
	}
	return ratelimiter.Allowed()
}
