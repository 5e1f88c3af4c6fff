package application

import (
	"fmt"
	"sync"

	"github.com/acampos/votematch/infrastructure/strategies"
	"github.com/acampos/votematch/internal/ports"
)

// Verify interface compliance at compile time.
var _ ports.StrategyRegistry = (*DefaultStrategyRegistry)(nil)

// DefaultStrategyRegistry implements the StrategyRegistry interface,
// providing a factory for creating scoring strategies based on type and
// configuration. It supports dynamic registration of strategy factories
// and injects shared dependencies like the category labeler into
// strategies that require them.
type DefaultStrategyRegistry struct {
	// factories maps strategy type strings to their factory functions.
	factories map[string]ports.StrategyFactory
	// mu protects concurrent access to the factories map.
	mu sync.RWMutex
	// labeler is injected into strategies that render reason categories.
	labeler strategies.CategoryLabeler
}

// NewDefaultStrategyRegistry creates a strategy registry with the
// built-in strategy types pre-registered. The labeler resolves reason
// category labels for the evidence model and may be nil.
func NewDefaultStrategyRegistry(labeler strategies.CategoryLabeler) *DefaultStrategyRegistry {
	registry := &DefaultStrategyRegistry{
		factories: make(map[string]ports.StrategyFactory),
		labeler:   labeler,
	}

	registry.registerBuiltinFactories()

	return registry
}

// registerBuiltinFactories registers the standard strategy types:
// likert_distance and evidence_tag.
func (r *DefaultStrategyRegistry) registerBuiltinFactories() {
	// Capture the labeler to avoid data races.
	labeler := r.labeler

	r.factories[strategies.TypeLikertDistance] = func(id string, config map[string]any) (ports.ScoringStrategy, error) {
		strategy, err := strategies.CreateLikertDistanceStrategy(id, config)
		if err != nil {
			return nil, err
		}
		return strategy, nil
	}

	r.factories[strategies.TypeEvidenceTag] = func(id string, config map[string]any) (ports.ScoringStrategy, error) {
		strategy, err := strategies.CreateEvidenceTagStrategy(id, config, labeler)
		if err != nil {
			return nil, err
		}
		return strategy, nil
	}
}

// CreateStrategy creates a new strategy instance based on the provided
// type, identifier, and configuration. It looks up the appropriate
// factory function and delegates creation.
func (r *DefaultStrategyRegistry) CreateStrategy(
	strategyType string,
	id string,
	config map[string]any,
) (ports.ScoringStrategy, error) {
	r.mu.RLock()
	factory, exists := r.factories[strategyType]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ports.ErrUnknownStrategy, strategyType)
	}

	if id == "" {
		return nil, fmt.Errorf("strategy ID cannot be empty")
	}

	if config == nil {
		config = make(map[string]any)
	}

	strategy, err := factory(id, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create strategy %s of type %s: %w", id, strategyType, err)
	}

	return strategy, nil
}

// RegisterFactory registers a new factory function for a strategy type.
// This allows extending the registry with custom scoring models at
// runtime.
func (r *DefaultStrategyRegistry) RegisterFactory(
	strategyType string,
	factory ports.StrategyFactory,
) error {
	if strategyType == "" {
		return fmt.Errorf("strategy type cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[strategyType]; exists {
		return fmt.Errorf("%w: %s", ports.ErrDuplicateStrategy, strategyType)
	}

	r.factories[strategyType] = factory
	return nil
}

// ListStrategyTypes returns all registered strategy type names.
// The order is not specified.
func (r *DefaultStrategyRegistry) ListStrategyTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for strategyType := range r.factories {
		types = append(types, strategyType)
	}
	return types
}
