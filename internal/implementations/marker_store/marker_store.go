package markerstore

import (
	"context"
	"errors"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/verification"
	"time"

	"github.com/go-redis/redis/v9"
)

const keyPrefix = "reset-marker::"

type Redis struct {
	redisClient *redis.Client
}

func NewRedis(redisClient *redis.Client) *Redis {
	if redisClient == nil {
		panic(e.NewNilArgumentError("redisClient"))
	}
	return &Redis{redisClient: redisClient}
}

func (r *Redis) SetMarker(ctx context.Context, sid verification.SessionID, token verification.Token, ttl time.Duration) error {
	return r.redisClient.Set(ctx, keyPrefix+string(sid), string(token), ttl).Err()
}

func (r *Redis) GetMarker(ctx context.Context, sid verification.SessionID) (verification.Token, error) {
	token, err := r.redisClient.Get(ctx, keyPrefix+string(sid)).Result()
	if errors.Is(err, redis.Nil) {
		return "", verification.ErrMarkerDoesNotExist
	}
	if err != nil {
		return "", err
	}
	return verification.Token(token), nil
}

func (r *Redis) ClearMarker(ctx context.Context, sid verification.SessionID) error {
	return r.redisClient.Del(ctx, keyPrefix+string(sid)).Err()
}
