package sessionstore

import (
	"context"
	"errors"
	"time"

	"github.com/jaylife/storefront-api/pkg/logger"
	"github.com/jaylife/storefront-api/pkg/redis"
)

// redisAPI is the slice of the redis client this store needs.
type redisAPI interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	CartSessionKey(clientID string) string
}

// RedisStore keeps session ids in redis under namespaced per-client keys.
type RedisStore struct {
	client redisAPI
	ttl    time.Duration
	logger *logger.Logger
}

func NewRedisStore(client *redis.Client, ttl time.Duration, logg *logger.Logger) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, logger: logg}
}

func (r *RedisStore) Get(ctx context.Context, clientID string) (string, bool) {
	id, err := r.client.Get(ctx, r.client.CartSessionKey(clientID))
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.warn(ctx, clientID, "session slot read failed")
		}
		return "", false
	}
	return id, id != ""
}

func (r *RedisStore) Set(ctx context.Context, clientID, sessionID string) {
	if err := r.client.Set(ctx, r.client.CartSessionKey(clientID), sessionID, r.ttl); err != nil {
		r.warn(ctx, clientID, "session slot write failed")
	}
}

func (r *RedisStore) Clear(ctx context.Context, clientID string) {
	if err := r.client.Del(ctx, r.client.CartSessionKey(clientID)); err != nil {
		r.warn(ctx, clientID, "session slot delete failed")
	}
}

func (r *RedisStore) Available(ctx context.Context) bool {
	return r.client.Ping(ctx) == nil
}

func (r *RedisStore) warn(ctx context.Context, clientID, msg string) {
	if r.logger == nil {
		return
	}
	r.logger.Warn(r.logger.WithClientID(ctx, clientID), msg)
}
