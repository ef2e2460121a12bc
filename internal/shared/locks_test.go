package shared

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	srv := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: srv.Addr()})
}

func TestLockAcquireIsExclusive(t *testing.T) {
	client := testRedis(t)
	ctx := context.Background()

	first := NewLock(client, RetentionLockKey(), time.Minute)
	second := NewLock(client, RetentionLockKey(), time.Minute)

	ok, err := first.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "held lock cannot be taken")

	require.NoError(t, first.Release(ctx))

	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "released lock is free again")
}

func TestLockReleaseOnlyRemovesOwnToken(t *testing.T) {
	client := testRedis(t)
	ctx := context.Background()

	holder := NewLock(client, RetentionLockKey(), time.Minute)
	stranger := NewLock(client, RetentionLockKey(), time.Minute)

	ok, err := holder.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	// A non-holder release is a no-op, not a steal.
	require.NoError(t, stranger.Release(ctx))

	ok, err = stranger.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "holder still owns the key")
}
