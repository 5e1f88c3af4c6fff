package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/acampos/votematch/internal/domain"
	"github.com/acampos/votematch/internal/ports"
)

// BatchConfig controls batch scoring concurrency.
type BatchConfig struct {
	// Workers bounds the number of concurrent scoring goroutines.
	Workers int `yaml:"workers" json:"workers"`

	// RatePerSecond throttles scoring throughput so recompute jobs do
	// not starve a serving path. Zero disables throttling.
	RatePerSecond float64 `yaml:"rate_per_second" json:"rate_per_second"`
}

// DefaultBatchConfig returns the production defaults: 8 workers,
// unthrottled.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{Workers: 8}
}

// CandidateStats aggregates one candidate's performance across a batch
// of submissions.
type CandidateStats struct {
	CandidateID string `json:"candidateId"`
	Name        string `json:"name"`

	// Appearances is the number of submissions whose ranked results
	// included this candidate.
	Appearances int `json:"appearances"`

	// MeanScore is the mean ScoreTotal over appearances.
	MeanScore float64 `json:"meanScore"`

	// Wins counts submissions where this candidate ranked first.
	Wins int `json:"wins"`

	// WinRate is Wins over processed submissions.
	WinRate float64 `json:"winRate"`

	// SectionMeans holds per-section mean scores over appearances.
	// Empty for strategies that do not produce section scores.
	SectionMeans map[string]float64 `json:"sectionMeans,omitempty"`
}

// IntelligenceReport is the aggregate outcome of one batch run.
type IntelligenceReport struct {
	Strategy    string              `json:"strategy"`
	Processed   int                 `json:"processed"`
	Rejected    int                 `json:"rejected"`
	Candidates  []CandidateStats    `json:"candidates"`
	Versions    domain.VersionStamp `json:"versions"`
	GeneratedAt time.Time           `json:"generatedAt"`
}

// BatchScorer scores many answer sets concurrently and aggregates them
// into an IntelligenceReport. Workers share only the immutable catalog;
// per-submission results land in indexed slots, and aggregation runs
// after every worker finishes, iterating candidates in catalog order, so
// aggregate values do not depend on completion order.
type BatchScorer struct {
	catalog  *domain.Catalog
	strategy ports.ScoringStrategy
	config   BatchConfig
	limiter  *rate.Limiter

	// now is swapped out by tests to pin report timestamps.
	now func() time.Time
}

// NewBatchScorer creates a BatchScorer.
func NewBatchScorer(catalog *domain.Catalog, strategy ports.ScoringStrategy, config BatchConfig) (*BatchScorer, error) {
	if catalog == nil {
		return nil, ports.ErrCatalogNotLoaded
	}
	if strategy == nil {
		return nil, fmt.Errorf("strategy cannot be nil")
	}
	if config.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", config.Workers)
	}
	if config.RatePerSecond < 0 {
		return nil, fmt.Errorf("rate_per_second cannot be negative, got %v", config.RatePerSecond)
	}

	var limiter *rate.Limiter
	if config.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RatePerSecond), config.Workers)
	}

	return &BatchScorer{
		catalog:  catalog,
		strategy: strategy,
		config:   config,
		limiter:  limiter,
		now:      time.Now,
	}, nil
}

// Aggregate scores every submission and returns the aggregate report.
// Submissions rejected by the strategy's answer contract are counted and
// skipped; they never abort the batch. Any other error does: it is
// returned and the partial batch is discarded.
func (b *BatchScorer) Aggregate(ctx context.Context, batch []domain.AnswerSet) (*IntelligenceReport, error) {
	// Indexed slots keep worker output ordered; rejected[i] marks
	// submissions dropped by the answer contract.
	results := make([][]domain.ScoredCandidate, len(batch))
	rejected := make([]bool, len(batch))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.config.Workers)

	for i, answers := range batch {
		i, answers := i, answers
		g.Go(func() error {
			if b.limiter != nil {
				if err := b.limiter.Wait(gctx); err != nil {
					return err
				}
			}

			scored, err := b.strategy.Score(gctx, b.catalog, answers)
			if err != nil {
				if errors.Is(err, domain.ErrInvalidAnswer) || errors.Is(err, domain.ErrIncompleteAnswers) {
					rejected[i] = true
					return nil
				}
				return ports.NewStrategyError(b.strategy.Name(), "score", err)
			}

			results[i] = scored
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return b.aggregate(results, rejected), nil
}

// aggregate folds per-submission results into per-candidate stats,
// iterating candidates in catalog order.
func (b *BatchScorer) aggregate(results [][]domain.ScoredCandidate, rejected []bool) *IntelligenceReport {
	type accumulator struct {
		appearances int
		scoreSum    float64
		wins        int
		sectionSums map[string]float64
	}
	accs := make(map[string]*accumulator, len(b.catalog.Candidates()))

	processed := 0
	rejectedCount := 0
	for i, scored := range results {
		if rejected[i] {
			rejectedCount++
			continue
		}
		processed++

		for rank, sc := range scored {
			acc := accs[sc.CandidateID]
			if acc == nil {
				acc = &accumulator{sectionSums: make(map[string]float64)}
				accs[sc.CandidateID] = acc
			}
			acc.appearances++
			acc.scoreSum += sc.ScoreTotal
			if rank == 0 {
				acc.wins++
			}
			for section, score := range sc.SectionScores {
				acc.sectionSums[section] += score
			}
		}
	}

	stats := make([]CandidateStats, 0, len(b.catalog.Candidates()))
	for _, cand := range b.catalog.Candidates() {
		acc := accs[cand.ID]
		if acc == nil {
			continue
		}

		cs := CandidateStats{
			CandidateID: cand.ID,
			Name:        cand.Name,
			Appearances: acc.appearances,
			MeanScore:   domain.Round2(acc.scoreSum / float64(acc.appearances)),
			Wins:        acc.wins,
		}
		if processed > 0 {
			cs.WinRate = domain.Round2(float64(acc.wins) / float64(processed))
		}
		if len(acc.sectionSums) > 0 {
			cs.SectionMeans = make(map[string]float64, len(acc.sectionSums))
			for section, sum := range acc.sectionSums {
				cs.SectionMeans[section] = domain.Round2(sum / float64(acc.appearances))
			}
		}
		stats = append(stats, cs)
	}

	return &IntelligenceReport{
		Strategy:    b.strategy.Name(),
		Processed:   processed,
		Rejected:    rejectedCount,
		Candidates:  stats,
		Versions:    b.catalog.Versions(),
		GeneratedAt: b.now(),
	}
}
