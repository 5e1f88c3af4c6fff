package domain

import "fmt"

// AnswerSet maps question ids to the option key the user selected.
// An AnswerSet is request-scoped and ephemeral; it is never persisted
// by the engine.
type AnswerSet map[string]OptionKey

// NormalizedAnswers maps question ids to the ordinal value of the
// selected option, using the fixed A=1..E=5 table.
type NormalizedAnswers map[string]int

// NormalizeStrict converts an answer set to its numeric representation,
// enforcing the strict (distance) model contract: every catalog question
// must be answered, every question id must be known, and every option key
// must be one of A..E. Any violation fails the whole request with an
// InvalidAnswerError; silently defaulting a value would corrupt the
// percentage semantics, so scoring is all-or-nothing. Missing answers
// are additionally classified under ErrIncompleteAnswers so callers can
// distinguish an incomplete submission from a malformed one.
//
// NormalizeStrict is a pure function with no side effects.
func NormalizeStrict(catalog *Catalog, answers AnswerSet) (NormalizedAnswers, error) {
	for id, key := range answers {
		if _, ok := catalog.Question(id); !ok {
			return nil, &InvalidAnswerError{QuestionID: id, Reason: "unknown question"}
		}
		if _, ok := OptionValue(key); !ok {
			return nil, &InvalidAnswerError{QuestionID: id, Option: key, Reason: "unknown option key"}
		}
	}

	normalized := make(NormalizedAnswers, catalog.QuestionCount())
	for _, q := range catalog.Questions() {
		key, answered := answers[q.ID]
		if !answered {
			return nil, fmt.Errorf("%w: %w",
				ErrIncompleteAnswers, &InvalidAnswerError{QuestionID: q.ID, Reason: "missing answer"})
		}
		value, _ := OptionValue(key)
		normalized[q.ID] = value
	}
	return normalized, nil
}

// NormalizeLenient converts an answer set to its numeric representation
// under the evidence model's partial-answer tolerance: unknown question
// ids, unknown option keys, and missing answers are skipped rather than
// rejected. Skipped entries simply contribute no evidence downstream.
//
// NormalizeLenient is a pure function with no side effects.
func NormalizeLenient(catalog *Catalog, answers AnswerSet) NormalizedAnswers {
	normalized := make(NormalizedAnswers, len(answers))
	for id, key := range answers {
		if _, ok := catalog.Question(id); !ok {
			continue
		}
		value, ok := OptionValue(key)
		if !ok {
			continue
		}
		normalized[id] = value
	}
	return normalized
}
