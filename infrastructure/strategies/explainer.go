package strategies

import (
	"fmt"
	"math"
	"sort"

	"github.com/acampos/votematch/internal/domain"
)

// Explainer renders the distance model's per-section explanation lines
// for the winning candidate. For every section it ranks the section's
// questions by per-question agreement descending (ties broken by catalog
// question order), renders the top strongest lines and the bottom weakest
// lines, and combines each with the canned explanation text keyed by
// (question, selected option) plus the rounded percentage.
//
// With the default 2 strongest + 1 weakest over a 5-section catalog this
// yields exactly 15 lines, regardless of tie patterns within a section.
type Explainer struct {
	strongest int
	weakest   int
}

// NewExplainer creates an Explainer that renders the given number of
// strongest and weakest agreement lines per section.
func NewExplainer(strongest, weakest int) *Explainer {
	return &Explainer{strongest: strongest, weakest: weakest}
}

// Explain renders the explanation lines for one scored candidate, section
// by section in catalog order. The candidate's QuestionScores must be
// populated by the distance model.
func (e *Explainer) Explain(
	catalog *domain.Catalog,
	answers domain.AnswerSet,
	sc *domain.ScoredCandidate,
) []string {
	lines := make([]string, 0, len(catalog.Sections())*(e.strongest+e.weakest))

	for _, section := range catalog.Sections() {
		questions := catalog.SectionQuestions(section.ID)
		if len(questions) == 0 {
			continue
		}

		// Rank the section's questions once, descending by agreement.
		// The stable sort preserves catalog question order among ties.
		ranked := make([]*domain.Question, len(questions))
		copy(ranked, questions)
		sort.SliceStable(ranked, func(i, j int) bool {
			return sc.QuestionScores[ranked[i].ID] > sc.QuestionScores[ranked[j].ID]
		})

		strongest := e.strongest
		if strongest > len(ranked) {
			strongest = len(ranked)
		}
		for _, q := range ranked[:strongest] {
			lines = append(lines, e.renderLine("strongest agreement", q, answers, sc))
		}

		// Weakest lines come from the tail of the same ranking and never
		// overlap the strongest picks.
		weakest := e.weakest
		if weakest > len(ranked)-strongest {
			weakest = len(ranked) - strongest
		}
		for _, q := range ranked[len(ranked)-weakest:] {
			lines = append(lines, e.renderLine("weakest agreement", q, answers, sc))
		}
	}

	return lines
}

// renderLine produces one explanation string for a question: the question
// id, the canned explanation for the user's selected option, and the
// rounded percentage agreement.
func (e *Explainer) renderLine(
	kind string,
	q *domain.Question,
	answers domain.AnswerSet,
	sc *domain.ScoredCandidate,
) string {
	text := q.Text
	if opt, ok := q.Option(answers[q.ID]); ok && opt.Explanation != "" {
		text = opt.Explanation
	}
	pct := int(math.Round(sc.QuestionScores[q.ID] * 100))
	return fmt.Sprintf("%s [%s] %s (%d%% agreement)", q.ID, kind, text, pct)
}
