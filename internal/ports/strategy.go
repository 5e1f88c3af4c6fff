// Package ports defines the core interfaces that form the contract between
// the domain/application layers and the infrastructure layer.
// These interfaces enable dependency inversion and make the system testable.
package ports

import (
	"context"

	"github.com/acampos/votematch/internal/domain"
)

// ScoringStrategy is the polymorphic capability over the two matching
// algorithms (Likert-distance scoring and evidence/tag accumulation).
// A strategy takes the user's raw answer selections and the immutable
// catalog and returns one ScoredCandidate per eligible candidate, already
// ranked per the deterministic tie-break policy.
// Strategies must be stateless and safe for concurrent invocation: per
// request they share only the read-only catalog.
type ScoringStrategy interface {
	// Name returns the unique identifier of this strategy instance.
	// The name is used for logging, metrics labels, and report stamping.
	Name() string

	// Score computes ranked per-candidate results for one answer set.
	// The catalog must never be mutated. Each strategy applies its own
	// answer-normalization contract: the distance model rejects
	// incomplete or inconsistent answer sets with an error wrapping
	// domain.ErrInvalidAnswer or domain.ErrIncompleteAnswers and returns
	// no partial results; the evidence model tolerates partial answers.
	//
	// The context parameter allows cancellation propagation from callers
	// that score in bulk; single invocations are sub-millisecond and
	// never block.
	Score(ctx context.Context, catalog *domain.Catalog, answers domain.AnswerSet) ([]domain.ScoredCandidate, error)

	// Validate checks that the strategy is properly configured and ready
	// for scoring. It is typically called at registry-construction time.
	// Return nil if validation passes, or an error describing what is
	// invalid.
	Validate() error
}

// StrategyFactory creates a ScoringStrategy instance of a specific type
// with the given identifier and configuration parameters.
// The config map contains strategy-specific parameters decoded from YAML.
type StrategyFactory func(id string, config map[string]any) (ScoringStrategy, error)

// StrategyRegistry manages the creation of scoring strategies by type,
// decoupling strategy selection (a configuration concern) from strategy
// implementations.
type StrategyRegistry interface {
	// CreateStrategy instantiates a strategy of the given type.
	// It returns an error for unknown types or invalid configuration.
	CreateStrategy(strategyType, id string, config map[string]any) (ScoringStrategy, error)

	// RegisterFactory adds a custom strategy factory to the registry.
	// It returns an error if the type is already registered.
	RegisterFactory(strategyType string, factory StrategyFactory) error

	// ListStrategyTypes returns all registered strategy type names.
	ListStrategyTypes() []string
}
