package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uteq/division-service/internal/config"
)

type view struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCache_FillGetInvalidate(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	key := DivisionViewKey(4)

	var got view
	hit, err := c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Fill(ctx, key, view{ID: 4, Name: "Engineering"}))
	assert.True(t, mr.Exists("division:view:4"))
	assert.Equal(t, time.Minute, mr.TTL(key))

	hit, err = c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, view{ID: 4, Name: "Engineering"}, got)

	require.NoError(t, c.Invalidate(ctx, key))
	assert.Equal(t, InvalidationHold, mr.TTL(key))
	hit, err = c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCache_FillKeepsExistingValue(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	require.NoError(t, c.Fill(ctx, "k", view{ID: 1, Name: "first"}))
	require.NoError(t, c.Fill(ctx, "k", view{ID: 1, Name: "second"}))

	var got view
	hit, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "first", got.Name)
}

func TestRedisCache_InvalidatedKeyRefusesFillUntilHoldExpires(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	require.NoError(t, c.Fill(ctx, "k", view{ID: 1, Name: "old"}))
	require.NoError(t, c.Invalidate(ctx, "k"))

	// a reader that loaded the old row before the write committed
	require.NoError(t, c.Fill(ctx, "k", view{ID: 1, Name: "old"}))
	var got view
	hit, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	mr.FastForward(InvalidationHold + time.Second)
	require.NoError(t, c.Fill(ctx, "k", view{ID: 1, Name: "new"}))
	hit, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "new", got.Name)
}

func TestRedisCache_ExpiresEntries(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	require.NoError(t, c.Fill(ctx, "k", view{ID: 1}))

	mr.FastForward(2 * time.Minute)

	var got view
	hit, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCache_CorruptEntry(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("k", "{not json"))

	var got view
	_, err := c.Get(context.Background(), "k", &got)
	assert.Error(t, err)
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{}
	cfg.Redis.Addr = mr.Addr()
	cfg.Redis.TTL = time.Second

	c, err := Connect(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, c.Close())

	mr.Close()
	_, err = Connect(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNoopCache(t *testing.T) {
	var c Cache = NoopCache{}
	require.NoError(t, c.Fill(context.Background(), "k", 1))
	require.NoError(t, c.Invalidate(context.Background(), "k"))
	var v int
	hit, err := c.Get(context.Background(), "k", &v)
	require.NoError(t, err)
	assert.False(t, hit)
}
