package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestLoginAttempts_BlocksAtLimit(t *testing.T) {
	_, client := newMiniredis(t)
	attempts := NewLoginAttempts(client, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, attempts.RecordFailure(ctx, "alice"))
	}
	blocked, err := attempts.Blocked(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, blocked, "two failures are under the limit")

	require.NoError(t, attempts.RecordFailure(ctx, "alice"))
	blocked, err = attempts.Blocked(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, blocked)

	blocked, err = attempts.Blocked(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, blocked, "counters are per username")
}

func TestLoginAttempts_WindowExpires(t *testing.T) {
	mr, client := newMiniredis(t)
	attempts := NewLoginAttempts(client, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, attempts.RecordFailure(ctx, "alice"))
	assert.Equal(t, time.Minute, mr.TTL("login:fail:alice"))

	mr.FastForward(time.Minute + time.Second)

	blocked, err := attempts.Blocked(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestLoginAttempts_LaterFailuresKeepWindow(t *testing.T) {
	mr, client := newMiniredis(t)
	attempts := NewLoginAttempts(client, 5, time.Minute)
	ctx := context.Background()

	require.NoError(t, attempts.RecordFailure(ctx, "alice"))
	mr.FastForward(20 * time.Second)
	require.NoError(t, attempts.RecordFailure(ctx, "alice"))

	assert.Equal(t, 40*time.Second, mr.TTL("login:fail:alice"))
	got, err := mr.Get("login:fail:alice")
	require.NoError(t, err)
	assert.Equal(t, "2", got)
}

func TestLoginAttempts_CounterWithoutTTLGetsOne(t *testing.T) {
	mr, client := newMiniredis(t)
	attempts := NewLoginAttempts(client, 3, time.Minute)
	ctx := context.Background()

	require.NoError(t, mr.Set("login:fail:alice", "2"))
	require.NoError(t, attempts.RecordFailure(ctx, "alice"))
	assert.Equal(t, time.Minute, mr.TTL("login:fail:alice"))

	blocked, err := attempts.Blocked(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, blocked)

	mr.FastForward(time.Minute + time.Second)
	blocked, err = attempts.Blocked(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestLoginAttempts_ResetClearsCounter(t *testing.T) {
	mr, client := newMiniredis(t)
	attempts := NewLoginAttempts(client, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, attempts.RecordFailure(ctx, "alice"))
	require.NoError(t, attempts.Reset(ctx, "alice"))

	assert.False(t, mr.Exists("login:fail:alice"))
	blocked, err := attempts.Blocked(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestLoginAttempts_ZeroMaxDisables(t *testing.T) {
	mr, client := newMiniredis(t)
	attempts := NewLoginAttempts(client, 0, time.Minute)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, attempts.RecordFailure(ctx, "alice"))
	}
	blocked, err := attempts.Blocked(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, blocked)
	assert.False(t, mr.Exists("login:fail:alice"))
}

func TestLoginAttempts_RedisDown(t *testing.T) {
	mr, client := newMiniredis(t)
	attempts := NewLoginAttempts(client, 3, time.Minute)
	mr.Close()

	_, err := attempts.Blocked(context.Background(), "alice")
	assert.Error(t, err)
}

func TestConnect_PingsServer(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	require.NoError(t, err)
	_ = client.Close()

	mr.Close()
	_, err = Connect(context.Background(), Config{Addr: mr.Addr(), Timeout: 200 * time.Millisecond})
	assert.Error(t, err)
}
