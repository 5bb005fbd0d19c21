package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, attempts int64, window time.Duration) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewWithClient(client, attempts, window), mr
}

func TestAllowWithinBudget(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "login:1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d should be allowed", i+1)
	}

	ok, err := limiter.Allow(ctx, "login:1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok, "attempt over budget should be denied")
}

func TestKeysAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	ok, err := limiter.Allow(ctx, "login:1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = limiter.Allow(ctx, "login:1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = limiter.Allow(ctx, "login:5.6.7.8")
	require.NoError(t, err)
	assert.True(t, ok, "separate key has its own budget")
}

func TestWindowExpiry(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	ok, err := limiter.Allow(ctx, "login:1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = limiter.Allow(ctx, "login:1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(time.Minute + time.Second)

	ok, err = limiter.Allow(ctx, "login:1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok, "budget resets after the window elapses")
}

func TestReset(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "login:1.2.3.4")
	require.NoError(t, err)

	require.NoError(t, limiter.Reset(ctx, "login:1.2.3.4"))

	ok, err := limiter.Allow(ctx, "login:1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok, "reset clears the counter")
}
