// Package strategies provides the scoring strategies that implement the
// ports.ScoringStrategy interface for the votematch engine: the Likert
// distance model and the evidence/tag accumulation model.
package strategies

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Strategy type names used by the registry and by configuration files.
const (
	// TypeLikertDistance identifies the Likert distance scoring model.
	TypeLikertDistance = "likert_distance"

	// TypeEvidenceTag identifies the evidence/tag accumulation model.
	TypeEvidenceTag = "evidence_tag"
)

// Common errors returned by scoring strategies.
var (
	// ErrEmptyStrategyName is returned when creating a strategy with an
	// empty name.
	ErrEmptyStrategyName = errors.New("strategy name cannot be empty")

	// ErrNilCatalog is returned when scoring is invoked without a catalog.
	ErrNilCatalog = errors.New("catalog cannot be nil")
)

// Package-level validator instance for configuration validation.
// Uses go-playground/validator v10 for struct tag-based validation.
var validate = validator.New()
