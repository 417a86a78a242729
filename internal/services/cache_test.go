package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()

	t.Run("set then get", func(t *testing.T) {
		cache := NewMemoryCache()
		require.NoError(t, cache.Set(ctx, "k", []int64{1, 2, 3}, time.Minute))

		var got []int64
		require.NoError(t, cache.Get(ctx, "k", &got))
		assert.Equal(t, []int64{1, 2, 3}, got)
	})

	t.Run("missing key is a miss", func(t *testing.T) {
		cache := NewMemoryCache()
		var got []int64
		assert.ErrorIs(t, cache.Get(ctx, "absent", &got), ErrCacheMiss)
	})

	t.Run("expired entry is a miss", func(t *testing.T) {
		cache := NewMemoryCache()
		now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
		cache.now = func() time.Time { return now }

		require.NoError(t, cache.Set(ctx, "k", "v", time.Minute))

		cache.now = func() time.Time { return now.Add(2 * time.Minute) }
		var got string
		assert.ErrorIs(t, cache.Get(ctx, "k", &got), ErrCacheMiss)
	})

	t.Run("delete removes keys", func(t *testing.T) {
		cache := NewMemoryCache()
		require.NoError(t, cache.Set(ctx, "a", 1, 0))
		require.NoError(t, cache.Set(ctx, "b", 2, 0))
		require.NoError(t, cache.Delete(ctx, "a", "b"))

		var got int
		assert.ErrorIs(t, cache.Get(ctx, "a", &got), ErrCacheMiss)
	})

	t.Run("delete by prefix", func(t *testing.T) {
		cache := NewMemoryCache()
		require.NoError(t, cache.Set(ctx, "user:1:a", 1, 0))
		require.NoError(t, cache.Set(ctx, "user:1:b", 2, 0))
		require.NoError(t, cache.Set(ctx, "user:2:a", 3, 0))

		require.NoError(t, cache.DeleteByPrefix(ctx, "user:1"))

		var got int
		assert.ErrorIs(t, cache.Get(ctx, "user:1:a", &got), ErrCacheMiss)
		assert.ErrorIs(t, cache.Get(ctx, "user:1:b", &got), ErrCacheMiss)
		assert.NoError(t, cache.Get(ctx, "user:2:a", &got))
	})
}

func TestUserKeyPrefixes(t *testing.T) {
	userID := uuid.New()
	prefixes := userKeyPrefixes(userID)

	assert.Len(t, prefixes, 5)
	for _, prefix := range prefixes {
		assert.Contains(t, prefix, userID.String())
	}
}
