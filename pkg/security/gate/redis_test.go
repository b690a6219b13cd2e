package gate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/acquisitions/pkg/auth"
)

func newRedisWindow(t *testing.T) (*RedisWindow, *miniredis.Miniredis, *time.Time) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	now := time.UnixMilli(1_700_000_000_000)
	w := NewRedisWindow(rdb)
	w.now = func() time.Time { return now }
	return w, mr, &now
}

func TestRedisWindow_Sliding(t *testing.T) {
	ctx := context.Background()
	w, mr, now := newRedisWindow(t)
	key := "guest-rate-limit:ip:10.0.0.1"

	for i := 0; i < 5; i++ {
		ok, err := w.Allow(ctx, key, 5, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "hit %d", i+1)
		*now = now.Add(time.Second)
	}

	ok, err := w.Allow(ctx, key, 5, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "sixth hit inside the window")

	members, err := mr.ZMembers(redisKeyPrefix + key)
	require.NoError(t, err)
	assert.Len(t, members, 5, "rejected hit is not recorded")
	assert.Equal(t, time.Minute, mr.TTL(redisKeyPrefix+key))

	// the first hit leaves the window, freeing exactly one slot
	*now = now.Add(55 * time.Second)
	ok, err = w.Allow(ctx, key, 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = w.Allow(ctx, key, 5, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisWindow_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	w, _, _ := newRedisWindow(t)

	for i := 0; i < 5; i++ {
		ok, err := w.Allow(ctx, "a", 5, time.Minute)
		require.NoError(t, err)
		require.True(t, ok)
	}
	ok, err := w.Allow(ctx, "b", 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisWindow_GuardDeniesSixthGuestHit(t *testing.T) {
	ctx := context.Background()
	w, _, _ := newRedisWindow(t)
	g := NewGuard(w)
	req := Request{UserAgent: browserUA, IP: "10.0.0.1", Path: "/api"}

	for i := 0; i < 5; i++ {
		d, err := g.Decide(ctx, req, BudgetFor(auth.RoleGuest))
		require.NoError(t, err)
		require.True(t, d.Allowed, "hit %d", i+1)
	}
	d, err := g.Decide(ctx, req, BudgetFor(auth.RoleGuest))
	require.NoError(t, err)
	assert.Equal(t, Deny(ReasonRateLimit), d)
}

func TestRedisWindow_ServerDown(t *testing.T) {
	w, mr, _ := newRedisWindow(t)
	mr.Close()

	_, err := w.Allow(context.Background(), "k", 5, time.Minute)
	assert.Error(t, err)
}

func TestRedisWindow_ScriptError(t *testing.T) {
	w, mr, _ := newRedisWindow(t)
	mr.SetError("ERR store unavailable")

	_, err := w.Allow(context.Background(), "k", 5, time.Minute)
	require.Error(t, err)
	var rerr redis.Error
	assert.True(t, errors.As(err, &rerr))
}
