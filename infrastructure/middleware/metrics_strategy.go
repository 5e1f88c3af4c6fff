package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/acampos/votematch/internal/domain"
	"github.com/acampos/votematch/internal/ports"
)

// metricsStrategy wraps a scoring strategy with metrics collection.
// This provides observability into scoring latency, rejection rates, and
// match score distributions for operational monitoring.
type metricsStrategy struct {
	next      ports.ScoringStrategy
	collector ports.MetricsCollector
}

// StrategyMiddleware decorates a ScoringStrategy.
type StrategyMiddleware func(ports.ScoringStrategy) ports.ScoringStrategy

// MetricsMiddleware creates middleware that collects scoring metrics.
// A nil collector makes the middleware a pass-through.
func MetricsMiddleware(collector ports.MetricsCollector) StrategyMiddleware {
	return func(next ports.ScoringStrategy) ports.ScoringStrategy {
		return &metricsStrategy{next: next, collector: collector}
	}
}

// Name returns the wrapped strategy's identifier.
func (m *metricsStrategy) Name() string { return m.next.Name() }

// Validate delegates to the wrapped strategy.
func (m *metricsStrategy) Validate() error { return m.next.Validate() }

// Score executes the wrapped strategy while recording latency, request
// status, and the winning score.
func (m *metricsStrategy) Score(
	ctx context.Context,
	catalog *domain.Catalog,
	answers domain.AnswerSet,
) ([]domain.ScoredCandidate, error) {
	start := time.Now()
	results, err := m.next.Score(ctx, catalog, answers)

	if m.collector == nil {
		return results, err
	}

	labels := map[string]string{
		"strategy": m.next.Name(),
		"status":   "success",
	}
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAnswer), errors.Is(err, domain.ErrIncompleteAnswers):
			labels["status"] = "rejected"
			m.collector.RecordCounter("answers_rejected_total", 1, labels)
		case ctx.Err() != nil:
			labels["status"] = "canceled"
		default:
			labels["status"] = "error"
		}
	}

	m.collector.RecordLatency("score", time.Since(start), labels)
	m.collector.RecordCounter("score_requests_total", 1, labels)

	if err == nil && len(results) > 0 {
		m.collector.RecordHistogram("match_score", results[0].ScoreTotal, labels)
	}

	return results, err
}

// Compile-time verification that metricsStrategy implements ScoringStrategy.
var _ ports.ScoringStrategy = (*metricsStrategy)(nil)
