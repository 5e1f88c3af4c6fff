// Package application wires catalogs, strategies, and reporting into the
// matching pipeline: loading and validating catalog documents, creating
// scoring strategies through the registry, and producing stamped match
// reports for single submissions and analytics batches.
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/acampos/votematch/internal/domain"
	"github.com/acampos/votematch/internal/ports"
)

// Engine runs the matching pipeline for one catalog and one scoring
// strategy: normalize, score, rank, explain, stamp. It is stateless
// between calls and safe for concurrent use; per request it shares only
// the immutable catalog.
type Engine struct {
	catalog  *domain.Catalog
	strategy ports.ScoringStrategy

	// now is swapped out by tests to pin report timestamps.
	now func() time.Time
}

// NewEngine creates an Engine for the given catalog and strategy. The
// strategy is validated once here rather than per request.
func NewEngine(catalog *domain.Catalog, strategy ports.ScoringStrategy) (*Engine, error) {
	if catalog == nil {
		return nil, ports.ErrCatalogNotLoaded
	}
	if strategy == nil {
		return nil, fmt.Errorf("strategy cannot be nil")
	}
	if err := strategy.Validate(); err != nil {
		return nil, ports.NewStrategyError(strategy.Name(), "validate", err)
	}

	return &Engine{
		catalog:  catalog,
		strategy: strategy,
		now:      time.Now,
	}, nil
}

// Match scores one answer set and returns the stamped report. Identical
// catalog and answers produce an identical report apart from the
// generation timestamp.
func (e *Engine) Match(ctx context.Context, answers domain.AnswerSet) (*domain.MatchReport, error) {
	results, err := e.strategy.Score(ctx, e.catalog, answers)
	if err != nil {
		return nil, ports.NewStrategyError(e.strategy.Name(), "score", err)
	}

	return &domain.MatchReport{
		Strategy:    e.strategy.Name(),
		Results:     results,
		Versions:    e.catalog.Versions(),
		GeneratedAt: e.now(),
	}, nil
}

// Catalog returns the engine's immutable catalog.
func (e *Engine) Catalog() *domain.Catalog { return e.catalog }

// Strategy returns the engine's scoring strategy.
func (e *Engine) Strategy() ports.ScoringStrategy { return e.strategy }
