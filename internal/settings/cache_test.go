package settings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/residence-booking-backend/internal/db"
	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/logger"
)

// stubRedis is an in-memory key/value store behind the cacheClient methods.
type stubRedis struct {
	mu      sync.Mutex
	data    map[string]string
	ttls    map[string]time.Duration
	getErr  error
	deletes int
}

func newStubRedis() *stubRedis {
	return &stubRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (s *stubRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return redis.NewStringResult("", s.getErr)
	}
	v, ok := s.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (s *stubRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		s.data[key] = string(v)
	case string:
		s.data[key] = v
	}
	s.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (s *stubRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := s.data[k]; ok {
			delete(s.data, k)
			n++
		}
	}
	s.deletes++
	return redis.NewIntResult(n, nil)
}

func (s *stubRedis) cached(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

func TestCachedRepository_ReadThrough(t *testing.T) {
	ctx := context.Background()
	inner := &memRepository{doc: DefaultSettings()}
	rdb := newStubRedis()
	repo := newCachedRepository(inner, rdb, time.Minute, logger.Nop())

	first, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.gets)

	_, ok := rdb.cached(cacheKey)
	assert.True(t, ok, "a miss must populate the cache")
	assert.Equal(t, time.Minute, rdb.ttls[cacheKey])

	second, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.gets, "a hit must not reach the database")
	assert.Equal(t, first.ResourceTypes, second.ResourceTypes)
	assert.Equal(t, first.BookingLimits, second.BookingLimits)
}

func TestCachedRepository_UpdateInvalidates(t *testing.T) {
	ctx := context.Background()
	inner := &memRepository{doc: DefaultSettings()}
	rdb := newStubRedis()
	repo := newCachedRepository(inner, rdb, time.Minute, logger.Nop())

	s, err := repo.Get(ctx)
	require.NoError(t, err)

	s.BookingLimits.DailyLimit = 9
	require.NoError(t, repo.Update(ctx, s))

	_, ok := rdb.cached(cacheKey)
	assert.False(t, ok)

	fresh, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9, fresh.BookingLimits.DailyLimit)
	assert.Equal(t, 2, inner.gets)
}

func TestCachedRepository_FallsBackToDatabase(t *testing.T) {
	ctx := context.Background()

	t.Run("redis read error", func(t *testing.T) {
		inner := &memRepository{doc: DefaultSettings()}
		rdb := newStubRedis()
		rdb.getErr = errors.New("connection refused")
		repo := newCachedRepository(inner, rdb, time.Minute, logger.Nop())

		s, err := repo.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, DefaultLimits, s.BookingLimits)
		assert.Equal(t, 1, inner.gets)
	})

	t.Run("undecodable value is replaced", func(t *testing.T) {
		inner := &memRepository{doc: DefaultSettings()}
		rdb := newStubRedis()
		rdb.data[cacheKey] = "{not json"
		repo := newCachedRepository(inner, rdb, time.Minute, logger.Nop())

		_, err := repo.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, inner.gets)

		v, _ := rdb.cached(cacheKey)
		assert.NotEqual(t, "{not json", v)
	})

	t.Run("database error is not cached", func(t *testing.T) {
		inner := &memRepository{getErr: errors.New("db down")}
		rdb := newStubRedis()
		repo := newCachedRepository(inner, rdb, time.Minute, logger.Nop())

		_, err := repo.Get(ctx)
		assert.Error(t, err)
		_, ok := rdb.cached(cacheKey)
		assert.False(t, ok)
	})
}

func TestNewCachedRepository_NilClient(t *testing.T) {
	inner := &memRepository{}
	assert.Same(t, Repository(inner), NewCachedRepository(inner, nil, time.Minute, logger.Nop()))
}

func TestService_MutationInvalidatesCacheAfterCommit(t *testing.T) {
	ctx := context.Background()
	inner := &memRepository{doc: DefaultSettings()}
	rdb := newStubRedis()
	svc := NewService(newCachedRepository(inner, rdb, time.Minute, logger.Nop()), db.NoopTxManager{}, DefaultSettings(), logger.Nop())

	before, err := svc.Get(ctx)
	require.NoError(t, err)
	require.Nil(t, before.FindType("music_room"))

	_, err = svc.AddResourceType(ctx, AddResourceTypeRequest{Label: "Music Room"})
	require.NoError(t, err)

	// once inside Update, once more after the transaction returns
	assert.Equal(t, 2, rdb.deletes)

	after, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.NotNil(t, after.FindType("music_room"))
}
