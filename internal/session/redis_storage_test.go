package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestRedisStorage_GetSetRemove(t *testing.T) {
	mr, rdb := newRedis(t)
	ctx := context.Background()
	s := NewRedisStorage(rdb, "abc", time.Hour)

	// 不存在的字段按未设置处理
	_, ok, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "token", "t1"))
	v, ok, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "t1", v)
	assert.Equal(t, "t1", mr.HGet("portal:session:abc", "token"))

	require.NoError(t, s.Remove(ctx, "token"))
	_, ok, err = s.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)

	// 删除不存在的字段不报错
	require.NoError(t, s.Remove(ctx, "missing"))
}

func TestRedisStorage_TTL(t *testing.T) {
	mr, rdb := newRedis(t)
	ctx := context.Background()
	s := NewRedisStorage(rdb, "abc", time.Hour)
	key := sessionKey("abc")

	require.NoError(t, s.Set(ctx, "token", "t1"))
	assert.Equal(t, time.Hour, mr.TTL(key))

	mr.FastForward(40 * time.Minute)
	assert.Equal(t, 20*time.Minute, mr.TTL(key))

	require.NoError(t, s.Touch(ctx))
	assert.Equal(t, time.Hour, mr.TTL(key))

	mr.FastForward(40 * time.Minute)
	require.NoError(t, s.Set(ctx, "user", "{}"))
	assert.Equal(t, time.Hour, mr.TTL(key))

	mr.FastForward(2 * time.Hour)
	_, ok, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStorage_NoTTL(t *testing.T) {
	mr, rdb := newRedis(t)
	ctx := context.Background()
	s := NewRedisStorage(rdb, "abc", 0)

	require.NoError(t, s.Set(ctx, "token", "t1"))
	require.NoError(t, s.Touch(ctx))
	assert.Zero(t, mr.TTL(sessionKey("abc")))
}

func TestRedisProvider_StoreRoundTrip(t *testing.T) {
	mr, rdb := newRedis(t)
	ctx := context.Background()
	p := NewRedisProvider(rdb, time.Hour)

	store := NewStore(p.Storage(ctx, "a"))
	require.NoError(t, store.SetCredential(ctx, RoleTeacher, "ta", map[string]interface{}{"name": "Ana"}))
	require.NoError(t, store.SetCredential(ctx, RoleStudent, "sa", nil))

	// 另一个请求拿到同一个会话
	again := NewStore(p.Storage(ctx, "a"))
	role, token, ok, err := again.Active(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, RoleTeacher, role)
	assert.Equal(t, "ta", token)

	meta, err := again.Metadata(ctx, RoleTeacher)
	require.NoError(t, err)
	assert.Equal(t, "Ana", meta["name"])

	_, ok, err = NewStore(p.Storage(ctx, "b")).GetCredential(ctx, RoleTeacher)
	require.NoError(t, err)
	assert.False(t, ok)

	// 每次取会话都续期
	mr.FastForward(30 * time.Minute)
	p.Storage(ctx, "a")
	assert.Equal(t, time.Hour, mr.TTL(sessionKey("a")))

	require.NoError(t, again.ClearAll(ctx))
	_, _, ok, err = NewStore(p.Storage(ctx, "a")).Active(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
