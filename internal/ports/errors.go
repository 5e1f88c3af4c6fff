package ports

import (
	"errors"
	"fmt"
)

// Common infrastructure errors that can occur around the scoring core.
var (
	// ErrUnknownStrategy indicates that a requested strategy type has no
	// registered factory.
	ErrUnknownStrategy = errors.New("unknown strategy type")

	// ErrDuplicateStrategy indicates that a strategy type is already
	// registered.
	ErrDuplicateStrategy = errors.New("strategy type already registered")

	// ErrCacheCorrupted indicates that cached data is corrupted or invalid.
	ErrCacheCorrupted = errors.New("cache corrupted")

	// ErrCatalogNotLoaded indicates that scoring was attempted before the
	// catalog finished initializing.
	ErrCatalogNotLoaded = errors.New("catalog not loaded")
)

// StrategyError wraps an error produced by a scoring strategy with
// context about which strategy and operation failed.
type StrategyError struct {
	// Strategy is the name of the strategy that failed.
	Strategy string

	// Operation is the name of the operation that failed.
	Operation string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface for StrategyError.
func (e *StrategyError) Error() string {
	return fmt.Sprintf("strategy %s: %s: %v", e.Strategy, e.Operation, e.Err)
}

// Unwrap returns the underlying error, supporting errors.Is and errors.As.
func (e *StrategyError) Unwrap() error { return e.Err }

// NewStrategyError creates a StrategyError with the given details.
func NewStrategyError(strategy, operation string, err error) *StrategyError {
	return &StrategyError{Strategy: strategy, Operation: operation, Err: err}
}
