package strategies

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/acampos/votematch/internal/domain"
	"github.com/acampos/votematch/internal/testutils"
)

func newLikertStrategy(t *testing.T, config LikertDistanceConfig) *LikertDistanceStrategy {
	t.Helper()
	s, err := NewLikertDistanceStrategy("likert", config)
	require.NoError(t, err)
	return s
}

// TestLikertDistance_ReferenceScenario verifies the reference scenario:
// 5 sections of 4 questions, user answers all "A" (value 1).
// A candidate with all-1 stances scores 100.00 everywhere, an all-5
// candidate scores 0.00, and an alternating 1,3 candidate scores 75.00.
func TestLikertDistance_ReferenceScenario(t *testing.T) {
	n := 20
	catalog := testutils.NewLikertCatalog(
		domain.Candidate{ID: "x", Name: "X", Stances: testutils.UniformStances(n, 1)},
		domain.Candidate{ID: "y", Name: "Y", Stances: testutils.UniformStances(n, 5)},
		domain.Candidate{ID: "z", Name: "Z", Stances: testutils.AlternatingStances(n, 1, 3)},
	)
	strategy := newLikertStrategy(t, DefaultLikertDistanceConfig())

	results, err := strategy.Score(context.Background(), catalog, testutils.AllAnswers(domain.OptionA))
	require.NoError(t, err)
	require.Len(t, results, 3)

	byID := make(map[string]domain.ScoredCandidate, len(results))
	for _, r := range results {
		byID[r.CandidateID] = r
	}

	assert.Equal(t, 100.00, byID["x"].ScoreTotal, "perfect agreement")
	assert.Equal(t, 0.00, byID["y"].ScoreTotal, "maximal disagreement")
	assert.Equal(t, 75.00, byID["z"].ScoreTotal, "alternating 1,3 stances")

	for _, section := range testutils.SectionIDs {
		assert.Equal(t, 100.00, byID["x"].SectionScores[section])
		assert.Equal(t, 0.00, byID["y"].SectionScores[section])
		assert.Equal(t, 75.00, byID["z"].SectionScores[section])
	}

	// Ranked descending.
	assert.Equal(t, "x", results[0].CandidateID)
	assert.Equal(t, "z", results[1].CandidateID)
	assert.Equal(t, "y", results[2].CandidateID)
}

// TestLikertDistance_ScoreBounds verifies that totals and section scores
// stay within [0,100] for assorted stance vectors and answer sets.
func TestLikertDistance_ScoreBounds(t *testing.T) {
	n := 20
	catalog := testutils.NewLikertCatalog(
		domain.Candidate{ID: "a", Name: "A", Stances: testutils.AlternatingStances(n, 2, 5)},
		domain.Candidate{ID: "b", Name: "B", Stances: testutils.AlternatingStances(n, 4, 1)},
	)
	strategy := newLikertStrategy(t, DefaultLikertDistanceConfig())

	for _, key := range []domain.OptionKey{domain.OptionA, domain.OptionC, domain.OptionE} {
		results, err := strategy.Score(context.Background(), catalog, testutils.AllAnswers(key))
		require.NoError(t, err)
		for _, r := range results {
			assert.GreaterOrEqual(t, r.ScoreTotal, 0.0)
			assert.LessOrEqual(t, r.ScoreTotal, 100.0)
			for section, score := range r.SectionScores {
				assert.GreaterOrEqual(t, score, 0.0, "section %s", section)
				assert.LessOrEqual(t, score, 100.0, "section %s", section)
			}
		}
	}
}

// TestLikertDistance_Determinism verifies that repeated invocations with
// a fixed catalog and answer set produce bit-identical results.
func TestLikertDistance_Determinism(t *testing.T) {
	n := 20
	catalog := testutils.NewLikertCatalog(
		domain.Candidate{ID: "a", Name: "A", Stances: testutils.AlternatingStances(n, 1, 4)},
		domain.Candidate{ID: "b", Name: "B", Stances: testutils.AlternatingStances(n, 3, 2)},
		domain.Candidate{ID: "c", Name: "C", Stances: testutils.UniformStances(n, 2)},
	)
	strategy := newLikertStrategy(t, DefaultLikertDistanceConfig())
	answers := testutils.AllAnswers(domain.OptionB)

	first, err := strategy.Score(context.Background(), catalog, answers)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := strategy.Score(context.Background(), catalog, answers)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

// TestLikertDistance_Monotonicity verifies that moving a single answer
// strictly closer to a candidate's stance never decreases that
// candidate's total or the containing section's score.
func TestLikertDistance_Monotonicity(t *testing.T) {
	n := 20
	catalog := testutils.NewLikertCatalog(
		domain.Candidate{ID: "a", Name: "A", Stances: testutils.UniformStances(n, 5)},
	)
	strategy := newLikertStrategy(t, LikertDistanceConfig{TopN: 4})

	answers := testutils.AllAnswers(domain.OptionA)
	base, err := strategy.Score(context.Background(), catalog, answers)
	require.NoError(t, err)

	// Walk q1_1 from A (distance 4) to E (distance 0); each step is
	// strictly closer to the all-5 stance vector.
	prevTotal := base[0].ScoreTotal
	prevSection := base[0].SectionScores["economy"]
	for _, key := range []domain.OptionKey{domain.OptionB, domain.OptionC, domain.OptionD, domain.OptionE} {
		answers["q1_1"] = key
		results, err := strategy.Score(context.Background(), catalog, answers)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, results[0].ScoreTotal, prevTotal)
		assert.GreaterOrEqual(t, results[0].SectionScores["economy"], prevSection)
		prevTotal = results[0].ScoreTotal
		prevSection = results[0].SectionScores["economy"]
	}
}

// TestLikertDistance_StableTieBreak verifies that candidates with
// identical totals keep catalog order in the ranked output.
func TestLikertDistance_StableTieBreak(t *testing.T) {
	n := 20
	stances := testutils.AlternatingStances(n, 2, 4)
	catalog := testutils.NewLikertCatalog(
		domain.Candidate{ID: "first", Name: "First", Stances: stances},
		domain.Candidate{ID: "second", Name: "Second", Stances: stances},
		domain.Candidate{ID: "third", Name: "Third", Stances: testutils.UniformStances(n, 3)},
	)
	strategy := newLikertStrategy(t, DefaultLikertDistanceConfig())

	results, err := strategy.Score(context.Background(), catalog, testutils.AllAnswers(domain.OptionC))
	require.NoError(t, err)
	require.Len(t, results, 3)

	// "third" scores 100 with all-C answers; the tied pair follows in
	// catalog order.
	assert.Equal(t, "third", results[0].CandidateID)
	assert.Equal(t, "first", results[1].CandidateID)
	assert.Equal(t, "second", results[2].CandidateID)
	assert.Equal(t, results[1].ScoreTotal, results[2].ScoreTotal)
}

// TestLikertDistance_TopN verifies that the ranked output is truncated to
// the configured depth.
func TestLikertDistance_TopN(t *testing.T) {
	n := 20
	candidates := make([]domain.Candidate, 0, 6)
	for i := 1; i <= 6; i++ {
		candidates = append(candidates, domain.Candidate{
			ID:      string(rune('a' + i - 1)),
			Name:    "Candidate",
			Stances: testutils.UniformStances(n, (i%5)+1),
		})
	}
	catalog := testutils.NewLikertCatalog(candidates...)

	strategy := newLikertStrategy(t, DefaultLikertDistanceConfig())
	results, err := strategy.Score(context.Background(), catalog, testutils.AllAnswers(domain.OptionA))
	require.NoError(t, err)
	assert.Len(t, results, 4, "default top_n is 4")
}

// TestLikertDistance_RejectsInvalidInput verifies the all-or-nothing
// contract: incomplete or inconsistent answers yield an error and no
// partial results.
func TestLikertDistance_RejectsInvalidInput(t *testing.T) {
	n := 20
	catalog := testutils.NewLikertCatalog(
		domain.Candidate{ID: "a", Name: "A", Stances: testutils.UniformStances(n, 3)},
	)
	strategy := newLikertStrategy(t, DefaultLikertDistanceConfig())

	tests := []struct {
		name    string
		answers domain.AnswerSet
	}{
		{
			name: "missing answer",
			answers: func() domain.AnswerSet {
				a := testutils.AllAnswers(domain.OptionA)
				delete(a, "q3_2")
				return a
			}(),
		},
		{
			name: "unknown question id",
			answers: func() domain.AnswerSet {
				a := testutils.AllAnswers(domain.OptionA)
				a["q9_9"] = domain.OptionA
				return a
			}(),
		},
		{
			name: "unknown option key",
			answers: func() domain.AnswerSet {
				a := testutils.AllAnswers(domain.OptionA)
				a["q1_1"] = "Z"
				return a
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := strategy.Score(context.Background(), catalog, tt.answers)
			require.Error(t, err)
			assert.Nil(t, results)
			assert.True(t, errors.Is(err, domain.ErrInvalidAnswer))
		})
	}
}

// TestLikertDistance_NoStanceCandidates verifies that a catalog whose
// candidates all lack stance vectors cannot be scored by this model.
func TestLikertDistance_NoStanceCandidates(t *testing.T) {
	catalog := testutils.NewLikertCatalog(
		domain.Candidate{ID: "evidence-only", Name: "E"},
	)
	strategy := newLikertStrategy(t, DefaultLikertDistanceConfig())

	results, err := strategy.Score(context.Background(), catalog, testutils.AllAnswers(domain.OptionA))
	require.Error(t, err)
	assert.Nil(t, results)
	assert.True(t, errors.Is(err, domain.ErrNoCandidates))
}

// TestLikertDistance_WinnerExplanations verifies that only the winning
// candidate receives explanations: exactly 3 per section (2 strongest +
// 1 weakest), 15 in total over the 5-section catalog.
func TestLikertDistance_WinnerExplanations(t *testing.T) {
	n := 20
	catalog := testutils.NewLikertCatalog(
		domain.Candidate{ID: "win", Name: "Winner", Stances: testutils.AlternatingStances(n, 1, 2)},
		domain.Candidate{ID: "lose", Name: "Loser", Stances: testutils.UniformStances(n, 5)},
	)
	strategy := newLikertStrategy(t, DefaultLikertDistanceConfig())

	results, err := strategy.Score(context.Background(), catalog, testutils.AllAnswers(domain.OptionA))
	require.NoError(t, err)
	require.Equal(t, "win", results[0].CandidateID)

	assert.Len(t, results[0].Explanations, 15)
	for _, other := range results[1:] {
		assert.Empty(t, other.Explanations)
	}

	// Tie patterns inside a section must not change the line count: the
	// winner's per-question scores alternate 1.0/0.75 so each section
	// has tied pairs.
	for _, line := range results[0].Explanations {
		assert.Contains(t, line, "agreement")
	}
}

// TestLikertDistance_ConfigValidation verifies constructor validation.
func TestLikertDistance_ConfigValidation(t *testing.T) {
	_, err := NewLikertDistanceStrategy("", DefaultLikertDistanceConfig())
	assert.ErrorIs(t, err, ErrEmptyStrategyName)

	_, err = NewLikertDistanceStrategy("s", LikertDistanceConfig{TopN: 0})
	assert.Error(t, err, "top_n must be at least 1")
}

// TestLikertDistance_UnmarshalParameters verifies strict YAML parameter
// decoding onto the defaults.
func TestLikertDistance_UnmarshalParameters(t *testing.T) {
	base := newLikertStrategy(t, DefaultLikertDistanceConfig())

	var params yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("top_n: 3\nweakest_per_section: 2\n"), &params))
	require.Len(t, params.Content, 1)

	updated, err := base.UnmarshalParameters(*params.Content[0])
	require.NoError(t, err)
	assert.Equal(t, 3, updated.config.TopN)
	assert.Equal(t, 2, updated.config.WeakestPerSection)
	assert.True(t, updated.config.ExplainWinner, "unset fields keep defaults")
	assert.NotSame(t, base, updated, "a new instance preserves thread-safety")

	var typo yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("topn: 3\n"), &typo))
	_, err = base.UnmarshalParameters(*typo.Content[0])
	assert.Error(t, err, "unknown fields are rejected")
}

// TestCreateLikertDistanceStrategy verifies the registry factory overlay
// of user configuration onto defaults.
func TestCreateLikertDistanceStrategy(t *testing.T) {
	s, err := CreateLikertDistanceStrategy("likert", map[string]any{"top_n": 2, "explain_winner": false})
	require.NoError(t, err)
	assert.Equal(t, 2, s.config.TopN)
	assert.False(t, s.config.ExplainWinner)
	assert.Equal(t, 2, s.config.StrongestPerSection, "unset fields keep defaults")
	require.NoError(t, s.Validate())
}
