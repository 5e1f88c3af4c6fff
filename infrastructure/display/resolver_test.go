package display

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acampos/votematch/infrastructure/cache"
)

func newTestResolver(t *testing.T, threshold float64) (*PartyResolver, *cache.MemoryCache) {
	t.Helper()
	store, err := cache.NewMemoryCache(cache.MemoryConfig{Capacity: 16, DefaultTTL: time.Minute})
	require.NoError(t, err)
	r, err := NewPartyResolver(newTestConfig(t), store, threshold)
	require.NoError(t, err)
	return r, store
}

// TestPartyResolver_ExactMatch verifies that normalized exact matches
// resolve without fuzzy scanning.
func TestPartyResolver_ExactMatch(t *testing.T) {
	r, _ := newTestResolver(t, 0.8)

	style, ok := r.Resolve(context.Background(), "Partido Político Frente Unido - Lista 3")
	require.True(t, ok)
	assert.Equal(t, "FU", style.ShortName)
}

// TestPartyResolver_FuzzyMatch verifies Levenshtein fallback for minor
// spelling drift, and that drift beyond the threshold resolves to
// nothing rather than to the nearest party.
func TestPartyResolver_FuzzyMatch(t *testing.T) {
	r, _ := newTestResolver(t, 0.8)
	ctx := context.Background()

	// One substitution away from "frente unido" (12 runes): 11/12 ≈ 0.92.
	style, ok := r.Resolve(ctx, "Frente Unida")
	require.True(t, ok)
	assert.Equal(t, "FU", style.ShortName)

	_, ok = r.Resolve(ctx, "Coalición Nueva")
	assert.False(t, ok, "dissimilar names must not cross-match")
}

// TestPartyResolver_Memoization verifies that lookup outcomes, including
// misses, are served from the cache on repeat.
func TestPartyResolver_Memoization(t *testing.T) {
	r, store := newTestResolver(t, 0.8)
	ctx := context.Background()

	_, ok := r.Resolve(ctx, "Frente Unida")
	require.True(t, ok)
	_, ok = r.Resolve(ctx, "Nadie Conocido")
	require.False(t, ok)
	assert.Equal(t, 2, store.Len())

	// Cached entries answer directly; a poisoned table would surface if
	// the scan re-ran.
	cached, found, err := store.Get(ctx, "party:frente unida")
	require.NoError(t, err)
	require.True(t, found)
	res, isResolution := cached.(resolution)
	require.True(t, isResolution)
	assert.True(t, res.found)
	assert.Equal(t, "FU", res.style.ShortName)

	style, ok := r.Resolve(ctx, "frente unida")
	require.True(t, ok)
	assert.Equal(t, "FU", style.ShortName)
	assert.Equal(t, 2, store.Len(), "repeat lookups add no entries")
}

// TestPartyResolver_NilCache verifies operation without memoization.
func TestPartyResolver_NilCache(t *testing.T) {
	r, err := NewPartyResolver(newTestConfig(t), nil, 0.8)
	require.NoError(t, err)

	style, ok := r.Resolve(context.Background(), "Partido Avanza")
	require.True(t, ok)
	assert.Equal(t, "PA", style.ShortName)
}

// TestNewPartyResolver_Validation verifies constructor guards.
func TestNewPartyResolver_Validation(t *testing.T) {
	_, err := NewPartyResolver(nil, nil, 0.8)
	assert.Error(t, err)

	cfg := newTestConfig(t)
	_, err = NewPartyResolver(cfg, nil, 0)
	assert.Error(t, err)
	_, err = NewPartyResolver(cfg, nil, 1.5)
	assert.Error(t, err)
}
