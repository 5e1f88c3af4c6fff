package domain

import (
	"math"
	"sort"
	"time"
)

// Reason is a structured record explaining why a candidate matched one of
// the user's answers in the evidence model.
type Reason struct {
	// QuestionID is the answered question that produced this reason.
	QuestionID string `json:"question_id"`

	// QuestionLabel is the question wording shown alongside the reason.
	QuestionLabel string `json:"question_label"`

	// Category is the display label derived from the question's primary tag.
	Category string `json:"category"`

	// Summary is the matched evidence excerpt.
	Summary string `json:"summary"`

	// Explanation optionally expands on the excerpt.
	Explanation string `json:"explanation,omitempty"`

	// SourceURL points at the candidate's government-plan document.
	SourceURL string `json:"source_url,omitempty"`
}

// ScoredCandidate is the per-candidate outcome of a scoring pass. It is
// derived per request and never persisted.
type ScoredCandidate struct {
	// CandidateID identifies the scored candidate.
	CandidateID string `json:"candidate_id"`

	// Name is the candidate's display name.
	Name string `json:"name"`

	// Party is the candidate's party or organization.
	Party string `json:"party"`

	// ScoreTotal is the normalized total score as a 0-100 percentage.
	ScoreTotal float64 `json:"score_total"`

	// SectionScores maps section ids to 0-100 percentages (distance model).
	SectionScores map[string]float64 `json:"section_scores,omitempty"`

	// QuestionScores maps question ids to raw per-question agreement
	// scores in [0,1] (distance model). The explainer consumes these.
	QuestionScores map[string]float64 `json:"-"`

	// MatchedEvidence counts accumulated evidence entries (evidence model).
	MatchedEvidence int `json:"matched_evidence,omitempty"`

	// Reasons lists structured match reasons (evidence model).
	Reasons []Reason `json:"reasons,omitempty"`

	// Explanations lists rendered explanation lines. Only the distance
	// model's winning candidate receives explanations.
	Explanations []string `json:"explanations,omitempty"`
}

// MatchReport is the engine's output for one scoring request: the ranked
// candidates plus the version stamp identifying the static data revision
// that produced them.
type MatchReport struct {
	// Strategy names the scoring strategy that produced the report.
	Strategy string `json:"strategy"`

	// Results lists candidates ordered by ScoreTotal descending, ties
	// preserving catalog candidate order.
	Results []ScoredCandidate `json:"results"`

	// Versions stamps the questionnaire, dataset, and scoring revisions.
	Versions VersionStamp `json:"versions"`

	// GeneratedAt records when the report was computed.
	GeneratedAt time.Time `json:"generated_at"`
}

// RankCandidates orders scored candidates by ScoreTotal descending.
// The sort is stable: candidates with identical totals keep their input
// (catalog) order, which keeps results reproducible without a secondary
// numeric tie-break.
func RankCandidates(results []ScoredCandidate) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ScoreTotal > results[j].ScoreTotal
	})
}

// TopN returns the first n ranked results, or all of them when fewer
// exist. The input must already be ranked.
func TopN(results []ScoredCandidate, n int) []ScoredCandidate {
	if n <= 0 || n >= len(results) {
		return results
	}
	return results[:n]
}

// Round2 rounds a percentage to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
