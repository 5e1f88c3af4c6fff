package strategies

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"

	"github.com/acampos/votematch/internal/domain"
	"github.com/acampos/votematch/internal/ports"
)

var _ ports.ScoringStrategy = (*EvidenceTagStrategy)(nil)

// CategoryLabeler translates a question's primary tag into a display
// label for match reasons. The display layer provides the production
// implementation (fixed translation table with a title-cased fallback);
// a nil labeler leaves the raw tag in place.
type CategoryLabeler interface {
	// Label returns the display label for a tag.
	Label(tag string) string
}

// EvidenceTagStrategy implements the evidence/tag accumulation model.
// For each answered question it looks up the evidence entries mapped to
// (question, selected option); every entry increments the referenced
// candidate's raw match count by one and appends a structured reason
// carrying the question label, the category derived from the question's
// primary tag, the evidence summary, and the plan's source URL.
//
// The final percentage is raw matches over the total question count,
// rounded to the nearest integer. Partial answer sets are normal
// operation: unanswered questions and answers without evidence simply
// contribute zero score and never error.
//
// The strategy is stateless and safe for concurrent use.
type EvidenceTagStrategy struct {
	// name is the unique identifier for this strategy instance.
	name string
	// config contains the validated configuration parameters.
	config EvidenceTagConfig
	// labeler resolves tag display labels; may be nil.
	labeler CategoryLabeler
	// tracer is the OpenTelemetry tracer for observability.
	tracer trace.Tracer
}

// EvidenceTagConfig controls output shaping for the evidence model.
type EvidenceTagConfig struct {
	// IncludeUnmatched keeps candidates with zero accumulated evidence in
	// the output (at 0%) so consumers can render a complete comparison.
	IncludeUnmatched bool `yaml:"include_unmatched" json:"include_unmatched"`
}

// NewEvidenceTagStrategy creates an EvidenceTagStrategy with a validated
// configuration. The labeler may be nil, in which case raw tags are used
// as category labels.
func NewEvidenceTagStrategy(name string, config EvidenceTagConfig, labeler CategoryLabeler) (*EvidenceTagStrategy, error) {
	if name == "" {
		return nil, ErrEmptyStrategyName
	}

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &EvidenceTagStrategy{
		name:    name,
		config:  config,
		labeler: labeler,
		tracer:  otel.Tracer("evidence-tag-strategy"),
	}, nil
}

// Name returns the unique identifier for this strategy instance.
func (s *EvidenceTagStrategy) Name() string { return s.name }

// Score accumulates evidence matches for one answer set and returns the
// ranked candidates. Unknown question ids and option keys are skipped,
// mirroring the lenient normalization contract; the method only errors on
// a missing catalog.
func (s *EvidenceTagStrategy) Score(
	ctx context.Context,
	catalog *domain.Catalog,
	answers domain.AnswerSet,
) ([]domain.ScoredCandidate, error) {
	_, span := s.tracer.Start(ctx, "EvidenceTagStrategy.Score",
		trace.WithAttributes(
			attribute.String("strategy.type", TypeEvidenceTag),
			attribute.String("strategy.id", s.name),
			attribute.Bool("config.include_unmatched", s.config.IncludeUnmatched),
		),
	)
	defer span.End()

	start := time.Now()

	if catalog == nil {
		span.RecordError(ErrNilCatalog)
		return nil, ErrNilCatalog
	}

	// Accumulate raw counts and reasons keyed by candidate. Iteration is
	// over catalog question order so reason lists are deterministic.
	type tally struct {
		matches int
		reasons []domain.Reason
	}
	tallies := make(map[string]*tally, len(catalog.Candidates()))

	totalMatches := 0
	for _, q := range catalog.Questions() {
		key, answered := answers[q.ID]
		if !answered {
			continue
		}
		opt, ok := q.Option(key)
		if !ok {
			// Unknown option keys are treated as "no answer" here, the
			// lenient counterpart of the strict model's rejection.
			continue
		}

		for _, ev := range opt.Evidence {
			plan, ok := catalog.Plan(ev.Plan)
			if !ok {
				continue // unreachable for catalogs built by NewCatalog
			}

			entry := tallies[plan.Candidate]
			if entry == nil {
				entry = &tally{}
				tallies[plan.Candidate] = entry
			}
			entry.matches++
			totalMatches++

			sourceURL := ev.SourceURL
			if sourceURL == "" {
				sourceURL = plan.SourceURL
			}
			entry.reasons = append(entry.reasons, domain.Reason{
				QuestionID:    q.ID,
				QuestionLabel: q.Text,
				Category:      s.categoryLabel(q.PrimaryTag()),
				Summary:       ev.Summary,
				Explanation:   ev.Explanation,
				SourceURL:     sourceURL,
			})
		}
	}

	questionCount := catalog.QuestionCount()
	results := make([]domain.ScoredCandidate, 0, len(catalog.Candidates()))
	for _, cand := range catalog.Candidates() {
		entry := tallies[cand.ID]
		if entry == nil {
			if !s.config.IncludeUnmatched {
				continue
			}
			entry = &tally{}
		}

		results = append(results, domain.ScoredCandidate{
			CandidateID:     cand.ID,
			Name:            cand.Name,
			Party:           cand.Party,
			ScoreTotal:      math.Round(float64(entry.matches) / float64(questionCount) * 100),
			MatchedEvidence: entry.matches,
			Reasons:         entry.reasons,
		})
	}

	domain.RankCandidates(results)

	span.SetAttributes(
		attribute.Int("match.evidence_total", totalMatches),
		attribute.Int("match.candidates", len(results)),
		attribute.Int64("match.latency_us", time.Since(start).Microseconds()),
	)

	return results, nil
}

// categoryLabel resolves a tag to its display label.
func (s *EvidenceTagStrategy) categoryLabel(tag string) string {
	if s.labeler == nil {
		return tag
	}
	return s.labeler.Label(tag)
}

// Validate checks that the strategy configuration is consistent.
// Safe for concurrent use.
func (s *EvidenceTagStrategy) Validate() error {
	if err := validate.Struct(s.config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// UnmarshalParameters deserializes YAML configuration parameters and
// returns a new EvidenceTagStrategy instance to maintain thread-safety.
func (s *EvidenceTagStrategy) UnmarshalParameters(params yaml.Node) (*EvidenceTagStrategy, error) {
	config := DefaultEvidenceTagConfig()

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

	return NewEvidenceTagStrategy(s.name, config, s.labeler)
}

// DefaultEvidenceTagConfig returns the production defaults: unmatched
// candidates included so comparison tables are complete.
func DefaultEvidenceTagConfig() EvidenceTagConfig {
	return EvidenceTagConfig{IncludeUnmatched: true}
}

// CreateEvidenceTagStrategy is the factory used by the strategy registry:
// it overlays the provided configuration map onto the defaults and
// constructs the strategy with the given labeler.
func CreateEvidenceTagStrategy(id string, config map[string]any, labeler CategoryLabeler) (*EvidenceTagStrategy, error) {
	data, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	cfg := DefaultEvidenceTagConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return NewEvidenceTagStrategy(id, cfg, labeler)
}
