package application

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acampos/votematch/internal/domain"
)

const validCatalogYAML = `
versions:
  questionnaire: "2.1.0"
  dataset: "2024.10.1"
  scoring: "1.0.0"
sections:
  - id: economy
    title: Economía
questions:
  - id: q1
    section: economy
    text: Minimum wage policy
    tags: [economy]
    options:
      - key: A
        text: Raise it
        explanation: You favor raising the minimum wage.
        evidence:
          - plan: plan-1
            summary: Plan proposes a staged raise
            source_url: https://example.org/evidence.pdf
      - key: B
        text: Keep it
  - id: q2
    section: economy
    text: Tax reform
    options:
      - key: A
        text: Lower taxes
      - key: B
        text: Raise taxes
candidates:
  - id: cand-1
    name: Ana Torres
    party: Partido Avanza
    plan: plan-1
    stances: [1, 2]
plans:
  - id: plan-1
    organization: Partido Avanza
    candidate: cand-1
    source_url: https://example.org/plan-1.pdf
`

func newTestLoader(t *testing.T) *CatalogLoader {
	t.Helper()
	loader, err := NewCatalogLoader()
	require.NoError(t, err)
	return loader
}

// TestCatalogLoader_LoadFromBytes verifies parsing, validation, and
// domain conversion of a well-formed document.
func TestCatalogLoader_LoadFromBytes(t *testing.T) {
	loader := newTestLoader(t)

	catalog, err := loader.LoadFromBytes(context.Background(), []byte(validCatalogYAML))
	require.NoError(t, err)

	assert.Equal(t, 2, catalog.QuestionCount())
	assert.Len(t, catalog.Sections(), 1)
	assert.Len(t, catalog.Candidates(), 1)
	assert.Equal(t, "2.1.0", catalog.Versions().Questionnaire)
	assert.Equal(t, "2024.10.1", catalog.Versions().Dataset)

	q, ok := catalog.Question("q1")
	require.True(t, ok)
	assert.Equal(t, "economy", q.Section)
	require.Len(t, q.Options, 2)
	assert.Len(t, q.Options[0].Evidence, 1)

	plan, ok := catalog.Plan("plan-1")
	require.True(t, ok)
	assert.Equal(t, "cand-1", plan.Candidate)
}

// TestCatalogLoader_CachesByContent verifies that semantically identical
// documents share one compiled catalog regardless of formatting.
func TestCatalogLoader_CachesByContent(t *testing.T) {
	loader := newTestLoader(t)
	ctx := context.Background()

	first, err := loader.LoadFromBytes(ctx, []byte(validCatalogYAML))
	require.NoError(t, err)

	// Extra blank lines and comments do not change the parsed document.
	reformatted := "# catalog\n" + strings.ReplaceAll(validCatalogYAML, "\n\n", "\n") + "\n"
	second, err := loader.LoadFromBytes(ctx, []byte(reformatted))
	require.NoError(t, err)

	assert.Same(t, first, second, "identical documents share one catalog")
}

// TestCatalogLoader_LoadFromReader verifies the reader entry point.
func TestCatalogLoader_LoadFromReader(t *testing.T) {
	loader := newTestLoader(t)

	catalog, err := loader.LoadFromReader(context.Background(), strings.NewReader(validCatalogYAML))
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.QuestionCount())
}

// TestCatalogLoader_Rejections verifies the failure classes: strict
// decoding, struct validation, and domain integrity checks.
func TestCatalogLoader_Rejections(t *testing.T) {
	loader := newTestLoader(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(string) string
		errPart string
	}{
		{
			name:    "unknown field",
			mutate:  func(s string) string { return s + "\nunknown_field: true\n" },
			errPart: "failed to parse YAML",
		},
		{
			name:    "malformed version stamp",
			mutate:  func(s string) string { return strings.Replace(s, `"2.1.0"`, `"not-a-version"`, 1) },
			errPart: "validation failed",
		},
		{
			name:    "invalid option key",
			mutate:  func(s string) string { return strings.Replace(s, "key: B", "key: X", 1) },
			errPart: "validation failed",
		},
		{
			name:    "stance vector length mismatch",
			mutate:  func(s string) string { return strings.Replace(s, "stances: [1, 2]", "stances: [1]", 1) },
			errPart: "failed to build catalog",
		},
		{
			name:    "dangling evidence plan reference",
			mutate:  func(s string) string { return strings.Replace(s, "plan: plan-1\n            summary", "plan: plan-9\n            summary", 1) },
			errPart: "failed to build catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.LoadFromBytes(ctx, []byte(tt.mutate(validCatalogYAML)))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

// TestCatalogLoader_IntegrityErrorsAreTyped verifies that domain
// integrity failures keep their taxonomy class through the loader.
func TestCatalogLoader_IntegrityErrorsAreTyped(t *testing.T) {
	loader := newTestLoader(t)

	broken := strings.Replace(validCatalogYAML, "section: economy", "section: ghost", 1)
	_, err := loader.LoadFromBytes(context.Background(), []byte(broken))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDataIntegrity)
}
