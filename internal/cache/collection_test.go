package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCollectionSetGet(t *testing.T) {
	mr, rdb := newRedis(t)
	col := NewCollection(rdb, "hotel", "extras", time.Minute)
	ctx := context.Background()

	_, found, err := col.Get(ctx, "all")
	require.NoError(t, err)
	assert.False(t, found)

	e, err := col.Set(ctx, "all", []byte(`[{"id":1}]`))
	require.NoError(t, err)
	assert.Len(t, e.Hash, 40)
	assert.True(t, mr.Exists("hotel:extras"))
	assert.Greater(t, mr.TTL("hotel:extras"), time.Duration(0))

	got, found, err := col.Get(ctx, "all")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, e.Hash, got.Hash)
	assert.JSONEq(t, `[{"id":1}]`, string(got.Value))
	assert.True(t, e.LastWrite.Equal(got.LastWrite))
}

func TestCollectionHashFollowsContent(t *testing.T) {
	_, rdb := newRedis(t)
	col := NewCollection(rdb, "", "rooms", 0)
	ctx := context.Background()

	a, err := col.Set(ctx, "id:1", []byte(`{"id":1}`))
	require.NoError(t, err)
	b, err := col.Set(ctx, "id:1", []byte(`{"id":1}`))
	require.NoError(t, err)
	c, err := col.Set(ctx, "id:1", []byte(`{"id":2}`))
	require.NoError(t, err)

	assert.Equal(t, a.Hash, b.Hash)
	assert.NotEqual(t, a.Hash, c.Hash)
}

func TestCollectionExpiredEntryIsMiss(t *testing.T) {
	_, rdb := newRedis(t)
	col := NewCollection(rdb, "", "availability", time.Minute)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	col.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := col.Set(ctx, "k", []byte(`[]`))
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, found, err := col.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCollectionInvalidateAll(t *testing.T) {
	mr, rdb := newRedis(t)
	col := NewCollection(rdb, "", "availability", time.Minute)
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		_, err := col.Set(ctx, k, []byte(`[]`))
		require.NoError(t, err)
	}
	require.NoError(t, col.InvalidateAll(ctx))
	assert.False(t, mr.Exists("availability"))

	_, found, err := col.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCollectionDisabled(t *testing.T) {
	col := NewCollection(nil, "", "availability", time.Minute)
	ctx := context.Background()

	assert.False(t, col.Enabled())
	_, found, err := col.Get(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, found)
	_, err = col.Set(ctx, "k", []byte(`[]`))
	assert.ErrorIs(t, err, ErrDisabled)
	assert.NoError(t, col.InvalidateAll(ctx))
}

func TestCollectionRedisDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	defer rdb.Close()
	col := NewCollection(rdb, "", "availability", time.Minute)

	_, _, err := col.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, col.InvalidateAll(context.Background()))
}
