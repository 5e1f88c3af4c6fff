package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, config MemoryConfig) *MemoryCache {
	t.Helper()
	c, err := NewMemoryCache(config)
	require.NoError(t, err)
	return c
}

// TestMemoryCache_SetGet verifies basic storage and retrieval.
func TestMemoryCache_SetGet(t *testing.T) {
	c := newTestCache(t, DefaultMemoryConfig())
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 0))

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", got)

	_, ok, err = c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestMemoryCache_Expiry verifies that entries disappear after their TTL
// and that a zero expiration applies the default.
func TestMemoryCache_Expiry(t *testing.T) {
	c := newTestCache(t, MemoryConfig{Capacity: 8, DefaultTTL: time.Minute})
	ctx := context.Background()

	base := time.Now()
	c.now = func() time.Time { return base }

	require.NoError(t, c.Set(ctx, "short", 1, time.Second))
	require.NoError(t, c.Set(ctx, "default", 2, 0))

	c.now = func() time.Time { return base.Add(2 * time.Second) }
	_, ok, err := c.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, ok, "entry past its TTL")

	_, ok, err = c.Get(ctx, "default")
	require.NoError(t, err)
	assert.True(t, ok, "default TTL is one minute")

	c.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, ok, err = c.Get(ctx, "default")
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestMemoryCache_CapacityEviction verifies the oldest-first eviction
// policy at the capacity bound.
func TestMemoryCache_CapacityEviction(t *testing.T) {
	c := newTestCache(t, MemoryConfig{Capacity: 3, DefaultTTL: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("k%d", i), i, 0))
	}
	require.Equal(t, 3, c.Len())

	require.NoError(t, c.Set(ctx, "k3", 3, 0))
	assert.Equal(t, 3, c.Len())

	_, ok, err := c.Get(ctx, "k0")
	require.NoError(t, err)
	assert.False(t, ok, "oldest entry evicted")

	for i := 1; i <= 3; i++ {
		_, ok, err := c.Get(ctx, fmt.Sprintf("k%d", i))
		require.NoError(t, err)
		assert.True(t, ok, "k%d survives", i)
	}
}

// TestMemoryCache_OverwriteRefreshesPosition verifies that re-setting a
// key protects it from eviction as if newly inserted.
func TestMemoryCache_OverwriteRefreshesPosition(t *testing.T) {
	c := newTestCache(t, MemoryConfig{Capacity: 2, DefaultTTL: time.Minute})
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", 1, 0))
	require.NoError(t, c.Set(ctx, "b", 2, 0))
	require.NoError(t, c.Set(ctx, "a", 10, 0)) // refresh a

	require.NoError(t, c.Set(ctx, "c", 3, 0)) // evicts b, not a

	got, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 10, got)

	_, ok, err = c.Get(ctx, "b")
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestMemoryCache_OverwriteKeepsBookkeepingBounded verifies that
// repeatedly re-setting the same key does not grow the eviction queue
// without bound.
func TestMemoryCache_OverwriteKeepsBookkeepingBounded(t *testing.T) {
	c := newTestCache(t, MemoryConfig{Capacity: 4, DefaultTTL: time.Minute})
	ctx := context.Background()

	for i := 0; i < 10000; i++ {
		require.NoError(t, c.Set(ctx, "hot", i, 0))
	}
	assert.Equal(t, 1, c.Len())

	c.mu.Lock()
	slots := len(c.order)
	c.mu.Unlock()
	assert.LessOrEqual(t, slots, 2*c.config.Capacity+1)

	got, ok, err := c.Get(ctx, "hot")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 9999, got)
}

// TestMemoryCache_DeleteAndClear verifies removal operations.
func TestMemoryCache_DeleteAndClear(t *testing.T) {
	c := newTestCache(t, DefaultMemoryConfig())
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	require.NoError(t, c.Delete(ctx, "k"))
	require.NoError(t, c.Delete(ctx, "k"), "deleting a missing key is fine")

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "x", 1, 0))
	require.NoError(t, c.Set(ctx, "y", 2, 0))
	require.NoError(t, c.Clear(ctx))
	assert.Zero(t, c.Len())
}

// TestMemoryCache_Closed verifies that all operations fail after Close.
func TestMemoryCache_Closed(t *testing.T) {
	c := newTestCache(t, DefaultMemoryConfig())
	ctx := context.Background()

	require.NoError(t, c.Close())

	_, _, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheClosed)
	assert.ErrorIs(t, c.Set(ctx, "k", "v", 0), ErrCacheClosed)
	assert.ErrorIs(t, c.Delete(ctx, "k"), ErrCacheClosed)
	assert.ErrorIs(t, c.Clear(ctx), ErrCacheClosed)
}

// TestNewMemoryCache_Validation verifies config validation.
func TestNewMemoryCache_Validation(t *testing.T) {
	_, err := NewMemoryCache(MemoryConfig{Capacity: 0, DefaultTTL: time.Minute})
	assert.Error(t, err)

	_, err = NewMemoryCache(MemoryConfig{Capacity: 8, DefaultTTL: 0})
	assert.Error(t, err)
}
