package ports

import (
	"context"
	"time"
)

// MetricsCollector defines the interface for collecting operational
// metrics. Implementations should integrate with observability platforms
// like Prometheus, OpenTelemetry, or custom monitoring solutions.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	// The labels map provides additional context for the metric.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	// This is useful for tracking events like scoring requests,
	// rejected answer sets, and cache hits/misses.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	// This is useful for tracking values like catalog sizes.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram.
	// This is useful for tracking distributions like match scores.
	RecordHistogram(metric string, value float64, labels map[string]string)
}

// CacheStore defines the interface for bounded in-process caching of
// derived lookups (e.g. resolved party-name aliases). Implementations
// must state capacity, TTL, and eviction policy up front rather than
// growing an ad hoc map.
// The scoring pipeline itself never caches results; per-request reports
// are always computed fresh.
type CacheStore interface {
	// Get retrieves a cached value by key.
	// Returns the value and true if found and unexpired, or nil and
	// false otherwise.
	Get(ctx context.Context, key string) (any, bool, error)

	// Set stores a value in the cache with an expiration time.
	// A zero duration applies the implementation's default TTL.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error

	// Delete removes a value from the cache.
	// Returns nil if the key doesn't exist.
	Delete(ctx context.Context, key string) error

	// Clear removes all values from the cache.
	Clear(ctx context.Context) error
}
