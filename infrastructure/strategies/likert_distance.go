package strategies

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"

	"github.com/acampos/votematch/internal/domain"
	"github.com/acampos/votematch/internal/ports"
)

var _ ports.ScoringStrategy = (*LikertDistanceStrategy)(nil)

// LikertDistanceStrategy implements the distance scoring model over the
// 1..5 ordinal answer scale. For every candidate with a stance vector it
// computes per-question agreement as 1 - |user - candidate| / 4, averages
// each section's questions into a 0-100 section score, and totals the
// equal-weighted section averages into the candidate's match percentage.
//
// The strategy is strict: every catalog question must carry a valid
// answer, and an unknown question id or option key rejects the whole
// request with no partial results. Silently defaulting a missing answer
// would corrupt the percentage semantics.
//
// Determinism: identical catalog and answers always produce bit-identical
// scores and ordering. Ties are resolved by catalog candidate order via
// the stable ranker.
//
// The strategy is stateless and safe for concurrent use; concurrent
// invocations share only the immutable catalog.
type LikertDistanceStrategy struct {
	// name is the unique identifier for this strategy instance.
	name string
	// config contains the validated configuration parameters.
	config LikertDistanceConfig
	// explainer renders per-section explanation lines for the winner.
	explainer *Explainer
	// tracer is the OpenTelemetry tracer for observability.
	tracer trace.Tracer
}

// LikertDistanceConfig controls ranking depth and explanation generation
// for the distance model. Configuration is immutable after strategy
// creation and validated on construction.
type LikertDistanceConfig struct {
	// TopN limits the ranked output to the N best candidates.
	TopN int `yaml:"top_n" json:"top_n" validate:"min=1"`

	// ExplainWinner enables explanation lines for the top candidate.
	// Explanation generation is reserved for the top result; other
	// candidates never receive explanations in this model.
	ExplainWinner bool `yaml:"explain_winner" json:"explain_winner"`

	// StrongestPerSection is how many highest-scoring questions per
	// section are rendered as strongest-agreement lines.
	StrongestPerSection int `yaml:"strongest_per_section" json:"strongest_per_section" validate:"min=0"`

	// WeakestPerSection is how many lowest-scoring questions per section
	// are rendered as weakest-agreement lines.
	WeakestPerSection int `yaml:"weakest_per_section" json:"weakest_per_section" validate:"min=0"`
}

// NewLikertDistanceStrategy creates a LikertDistanceStrategy with a
// validated configuration. Returns ErrEmptyStrategyName if name is empty,
// or a validation error if configuration constraints are violated.
func NewLikertDistanceStrategy(name string, config LikertDistanceConfig) (*LikertDistanceStrategy, error) {
	if name == "" {
		return nil, ErrEmptyStrategyName
	}

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &LikertDistanceStrategy{
		name:      name,
		config:    config,
		explainer: NewExplainer(config.StrongestPerSection, config.WeakestPerSection),
		tracer:    otel.Tracer("likert-distance-strategy"),
	}, nil
}

// Name returns the unique identifier for this strategy instance.
func (s *LikertDistanceStrategy) Name() string { return s.name }

// Score computes ranked distance-model results for one answer set.
//
// Pipeline: strict normalization -> per-question agreement scores ->
// per-section averages -> equal-weighted total -> stable rank -> top N ->
// explanations for the winner.
//
// Errors:
//   - answer set inconsistent with the catalog (wraps domain.ErrInvalidAnswer)
//   - no candidate carries a stance vector (domain.ErrNoCandidates)
//
// The function never modifies the catalog and returns no partial results
// on error.
func (s *LikertDistanceStrategy) Score(
	ctx context.Context,
	catalog *domain.Catalog,
	answers domain.AnswerSet,
) ([]domain.ScoredCandidate, error) {
	_, span := s.tracer.Start(ctx, "LikertDistanceStrategy.Score",
		trace.WithAttributes(
			attribute.String("strategy.type", TypeLikertDistance),
			attribute.String("strategy.id", s.name),
			attribute.Int("config.top_n", s.config.TopN),
		),
	)
	defer span.End()

	start := time.Now()

	if catalog == nil {
		span.RecordError(ErrNilCatalog)
		return nil, ErrNilCatalog
	}

	normalized, err := domain.NormalizeStrict(catalog, answers)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	sections := catalog.Sections()
	results := make([]domain.ScoredCandidate, 0, len(catalog.Candidates()))

	for _, cand := range catalog.Candidates() {
		// Candidates without a stance vector belong to the evidence
		// model and are not comparable here.
		if len(cand.Stances) == 0 {
			continue
		}

		sc := domain.ScoredCandidate{
			CandidateID:    cand.ID,
			Name:           cand.Name,
			Party:          cand.Party,
			SectionScores:  make(map[string]float64, len(sections)),
			QuestionScores: make(map[string]float64, catalog.QuestionCount()),
		}

		// Equal section weighting: each section contributes
		// 1/numberOfSections of the total regardless of question count.
		var totalOfSectionMeans float64
		for _, section := range sections {
			questions := catalog.SectionQuestions(section.ID)
			if len(questions) == 0 {
				continue
			}

			var sum float64
			for _, q := range questions {
				idx, _ := catalog.QuestionIndex(q.ID)
				score := questionAgreement(normalized[q.ID], cand.Stances[idx])
				sc.QuestionScores[q.ID] = score
				sum += score
			}
			mean := sum / float64(len(questions))
			totalOfSectionMeans += mean
			sc.SectionScores[section.ID] = domain.Round2(mean * 100)
		}

		// The total is computed from the unrounded section means; double
		// rounding would drift the equal-weight semantics.
		sc.ScoreTotal = domain.Round2(totalOfSectionMeans / float64(len(sections)) * 100)
		results = append(results, sc)
	}

	if len(results) == 0 {
		span.RecordError(domain.ErrNoCandidates)
		return nil, fmt.Errorf("%w: no candidate carries a stance vector", domain.ErrNoCandidates)
	}

	domain.RankCandidates(results)
	results = domain.TopN(results, s.config.TopN)

	if s.config.ExplainWinner {
		results[0].Explanations = s.explainer.Explain(catalog, answers, &results[0])
	}

	span.SetAttributes(
		attribute.Float64("match.top_score", results[0].ScoreTotal),
		attribute.Int("match.candidates", len(results)),
		attribute.Int64("match.latency_us", time.Since(start).Microseconds()),
	)

	return results, nil
}

// questionAgreement computes the normalized per-question agreement score:
// 1.0 for exact agreement, 0.0 for maximal disagreement (distance 4 on
// the 1..5 scale).
func questionAgreement(userValue, candidateValue int) float64 {
	distance := userValue - candidateValue
	if distance < 0 {
		distance = -distance
	}
	return 1.0 - float64(distance)/float64(domain.ScaleSpan)
}

// Validate checks that the strategy configuration is consistent.
// Safe for concurrent use.
func (s *LikertDistanceStrategy) Validate() error {
	if err := validate.Struct(s.config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// UnmarshalParameters deserializes YAML configuration parameters and
// returns a new LikertDistanceStrategy instance to maintain thread-safety.
// Strict field decoding catches configuration typos instead of silently
// ignoring them.
func (s *LikertDistanceStrategy) UnmarshalParameters(params yaml.Node) (*LikertDistanceStrategy, error) {
	config := DefaultLikertDistanceConfig()

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	if err := encoder.Encode(&params); err != nil {
		return nil, fmt.Errorf("failed to encode YAML node: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to close YAML encoder: %w", err)
	}

	decoder := yaml.NewDecoder(&buf)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode parameters (check for typos): %w", err)
	}

	return NewLikertDistanceStrategy(s.name, config)
}

// DefaultLikertDistanceConfig returns the production defaults: top 4
// candidates, explanations for the winner with 2 strongest and 1 weakest
// line per section.
func DefaultLikertDistanceConfig() LikertDistanceConfig {
	return LikertDistanceConfig{
		TopN:                4,
		ExplainWinner:       true,
		StrongestPerSection: 2,
		WeakestPerSection:   1,
	}
}

// CreateLikertDistanceStrategy is the factory used by the strategy
// registry: it overlays the provided configuration map onto the defaults
// and constructs the strategy.
func CreateLikertDistanceStrategy(id string, config map[string]any) (*LikertDistanceStrategy, error) {
	data, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	cfg := DefaultLikertDistanceConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return NewLikertDistanceStrategy(id, cfg)
}
