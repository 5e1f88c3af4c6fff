// Package cache provides a bounded in-process TTL cache implementing
// ports.CacheStore. It backs derived display lookups such as resolved
// party-name aliases; scoring results are never cached.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/acampos/votematch/internal/ports"
)

// Compile-time check that MemoryCache implements ports.CacheStore.
var _ ports.CacheStore = (*MemoryCache)(nil)

// ErrCacheClosed is returned by operations on a closed cache.
var ErrCacheClosed = errors.New("cache is closed")

var validate = validator.New()

// MemoryConfig configures a MemoryCache.
type MemoryConfig struct {
	// Capacity is the maximum number of entries. When full, the oldest
	// inserted entry is evicted first.
	Capacity int `yaml:"capacity" json:"capacity" validate:"min=1"`

	// DefaultTTL applies to Set calls with a zero expiration.
	DefaultTTL time.Duration `yaml:"default_ttl" json:"default_ttl" validate:"min=1"`
}

// DefaultMemoryConfig returns the production defaults: 1024 entries with
// a 10 minute TTL, sized for alias-resolution working sets.
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{Capacity: 1024, DefaultTTL: 10 * time.Minute}
}

type entry struct {
	value     any
	expiresAt time.Time
	seq       uint64
}

// slot records one insertion in eviction order. The sequence ties it to
// a specific write of the key; a slot whose sequence no longer matches
// the live entry is stale and carries no eviction weight.
type slot struct {
	key string
	seq uint64
}

// MemoryCache is a mutex-guarded map with insertion-order eviction and
// per-entry expiry. All operations are amortized O(1) except Clear.
// Safe for concurrent use.
type MemoryCache struct {
	config MemoryConfig

	mu      sync.Mutex
	entries map[string]*entry
	// order holds insertion slots for oldest-first eviction. Overwrites,
	// deletes, and expiry leave stale slots behind; compactLocked keeps
	// their count bounded by the capacity.
	order   []slot
	nextSeq uint64
	closed  bool

	// now is swapped out by tests to control expiry.
	now func() time.Time
}

// NewMemoryCache creates a MemoryCache with a validated configuration.
func NewMemoryCache(config MemoryConfig) (*MemoryCache, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &MemoryCache{
		config:  config,
		entries: make(map[string]*entry, config.Capacity),
		order:   make([]slot, 0, config.Capacity),
		now:     time.Now,
	}, nil
}

// Get retrieves a value by key. Expired entries are removed on access
// and reported as missing.
func (c *MemoryCache) Get(_ context.Context, key string) (any, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, false, ErrCacheClosed
	}

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set stores a value. A zero expiration applies the configured default
// TTL. Overwriting an existing key refreshes its insertion position.
func (c *MemoryCache) Set(_ context.Context, key string, value any, expiration time.Duration) error {
	if expiration <= 0 {
		expiration = c.config.DefaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCacheClosed
	}

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.config.Capacity {
		c.evictOldestLocked()
	}

	c.nextSeq++
	c.entries[key] = &entry{value: value, expiresAt: c.now().Add(expiration), seq: c.nextSeq}
	c.order = append(c.order, slot{key: key, seq: c.nextSeq})
	if len(c.order) > 2*c.config.Capacity {
		c.compactLocked()
	}
	return nil
}

// Delete removes a value. Deleting a missing key is not an error.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCacheClosed
	}

	delete(c.entries, key)
	return nil
}

// Clear removes all values.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCacheClosed
	}

	c.entries = make(map[string]*entry, c.config.Capacity)
	c.order = c.order[:0]
	return nil
}

// Close marks the cache unusable and releases its storage.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.entries = nil
	c.order = nil
	return nil
}

// Len returns the number of live entries, counting expired but not yet
// collected ones.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictOldestLocked removes the oldest live entry. Stale order slots
// are discarded along the way.
func (c *MemoryCache) evictOldestLocked() {
	for len(c.order) > 0 {
		s := c.order[0]
		c.order = c.order[1:]

		if e, ok := c.entries[s.key]; ok && e.seq == s.seq {
			delete(c.entries, s.key)
			return
		}
	}
}

// compactLocked drops stale slots so the order slice cannot grow without
// bound under repeated overwrites of the same keys.
func (c *MemoryCache) compactLocked() {
	live := c.order[:0]
	for _, s := range c.order {
		if e, ok := c.entries[s.key]; ok && e.seq == s.seq {
			live = append(live, s)
		}
	}
	c.order = live
}
