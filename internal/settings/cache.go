package settings

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/logger"
)

const cacheKey = "settings:system"

// cacheClient is the slice of the Redis API the cache uses. *redis.Client satisfies it.
type cacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// cachedRepository serves Get from Redis and falls through to the inner repository on a miss.
// Locked reads always go to the database.
type cachedRepository struct {
	Repository
	rdb cacheClient
	ttl time.Duration
	log *logger.Logger
}

// NewCachedRepository wraps inner with a Redis read-through cache.
// A nil client returns inner unchanged.
func NewCachedRepository(inner Repository, rdb *redis.Client, ttl time.Duration, log *logger.Logger) Repository {
	if rdb == nil {
		return inner
	}
	return newCachedRepository(inner, rdb, ttl, log)
}

func newCachedRepository(inner Repository, c cacheClient, ttl time.Duration, log *logger.Logger) *cachedRepository {
	return &cachedRepository{Repository: inner, rdb: c, ttl: ttl, log: log}
}

func (r *cachedRepository) Get(ctx context.Context) (*Settings, error) {
	data, err := r.rdb.Get(ctx, cacheKey).Bytes()
	switch {
	case err == nil:
		var s Settings
		if err := json.Unmarshal(data, &s); err == nil {
			return &s, nil
		}
		r.log.Warn("discarding undecodable cached settings", logger.Action("settings.cache"))
	case !errors.Is(err, redis.Nil):
		r.log.Warn("settings cache read failed", logger.Action("settings.cache"), logger.Error(err))
	}

	s, err := r.Repository.Get(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(s); err == nil {
		if err := r.rdb.Set(ctx, cacheKey, data, r.ttl).Err(); err != nil {
			r.log.Warn("settings cache write failed", logger.Action("settings.cache"), logger.Error(err))
		}
	}
	return s, nil
}

func (r *cachedRepository) Create(ctx context.Context, s *Settings) error {
	if err := r.Repository.Create(ctx, s); err != nil {
		return err
	}
	r.Invalidate(ctx)
	return nil
}

func (r *cachedRepository) Update(ctx context.Context, s *Settings) error {
	if err := r.Repository.Update(ctx, s); err != nil {
		return err
	}
	r.Invalidate(ctx)
	return nil
}

// Invalidate drops the cached document. The service calls it again after commit
// so a read racing the transaction cannot leave a stale copy behind.
func (r *cachedRepository) Invalidate(ctx context.Context) {
	if err := r.rdb.Del(ctx, cacheKey).Err(); err != nil {
		r.log.Warn("settings cache invalidation failed", logger.Action("settings.cache"), logger.Error(err))
	}
}
