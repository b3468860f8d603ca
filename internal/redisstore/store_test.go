package redisstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interior-design-backend/internal/logger"
)

func TestWindowKey(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 42, 0, time.UTC)
	key, resetIn := windowKey("generate:u1", time.Minute, now)

	assert.Equal(t, "ratelimit:generate:u1:"+"1772366400", key)
	assert.Equal(t, 18*time.Second, resetIn)
}

func TestDecide(t *testing.T) {
	d := decide(3, 10, 30*time.Second)
	assert.True(t, d.Allowed)
	assert.Equal(t, 7, d.Remaining)
	assert.Zero(t, d.RetryAfter)

	d = decide(10, 10, 30*time.Second)
	assert.True(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)

	d = decide(11, 10, 30*time.Second)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Equal(t, 30*time.Second, d.RetryAfter)
}

func newIntegrationStore(t *testing.T) *Store {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	s, err := New(context.Background(), logger.Nop(), addr, "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_AllowIntegration(t *testing.T) {
	s := newIntegrationStore(t)
	ctx := context.Background()
	key := "test:" + time.Now().Format(time.RFC3339Nano)

	for i := 0; i < 2; i++ {
		d, err := s.Allow(ctx, key, 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}
	d, err := s.Allow(ctx, key, 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
}

func TestStore_LockIntegration(t *testing.T) {
	s := newIntegrationStore(t)
	ctx := context.Background()
	name := "test-lock:" + time.Now().Format(time.RFC3339Nano)

	first, err := s.TryLock(ctx, name, time.Minute)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := s.TryLock(ctx, name, time.Minute)
	require.NoError(t, err)
	assert.Nil(t, second)

	require.NoError(t, first.Release(ctx))
	third, err := s.TryLock(ctx, name, time.Minute)
	require.NoError(t, err)
	require.NotNil(t, third)
	require.NoError(t, third.Release(ctx))
}
