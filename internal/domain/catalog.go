// Package domain contains pure, dependency-free domain models and types
// for the candidate matching engine.
package domain

import (
	"fmt"
)

// OptionKey identifies one of the five answer choices of a question.
// Keys are fixed to the letters A through E.
type OptionKey string

// The five option keys recognized by the questionnaire.
const (
	OptionA OptionKey = "A"
	OptionB OptionKey = "B"
	OptionC OptionKey = "C"
	OptionD OptionKey = "D"
	OptionE OptionKey = "E"
)

// StanceMin and StanceMax bound the ordinal value scale used by the
// distance model. Option A maps to StanceMin and option E to StanceMax.
const (
	StanceMin = 1
	StanceMax = 5
)

// ScaleSpan is the maximum possible distance between two stance values
// on the 1..5 ordinal scale. It is the denominator of the per-question
// agreement score.
const ScaleSpan = StanceMax - StanceMin

// optionValues is the fixed option-to-value table: A=1, B=2, C=3, D=4, E=5.
var optionValues = map[OptionKey]int{
	OptionA: 1,
	OptionB: 2,
	OptionC: 3,
	OptionD: 4,
	OptionE: 5,
}

// OptionValue returns the ordinal value for an option key and whether the
// key is one of the five recognized options.
func OptionValue(key OptionKey) (int, bool) {
	v, ok := optionValues[key]
	return v, ok
}

// Evidence links an answer choice to a supporting excerpt from a
// candidate's government plan. Evidence records are what the evidence/tag
// scoring model accumulates into per-candidate match counts.
type Evidence struct {
	// Plan references the government plan this excerpt belongs to.
	Plan string `json:"plan" yaml:"plan"`

	// Label is a short human-readable caption for the excerpt.
	Label string `json:"label" yaml:"label"`

	// Summary is the excerpt text shown as the match reason.
	Summary string `json:"summary" yaml:"summary"`

	// Explanation optionally expands on why the excerpt supports the choice.
	Explanation string `json:"explanation,omitempty" yaml:"explanation,omitempty"`

	// SourceURL optionally overrides the plan's document URL for this excerpt.
	SourceURL string `json:"source_url,omitempty" yaml:"source_url,omitempty"`
}

// Option is one answer choice of a question.
type Option struct {
	// Key is the option letter, unique within its question.
	Key OptionKey `json:"key" yaml:"key"`

	// Text is the choice wording shown to the user.
	Text string `json:"text" yaml:"text"`

	// Explanation is the canned explanation rendered by the explainer when
	// this option was the user's selection. Keyed by (question, option).
	Explanation string `json:"explanation,omitempty" yaml:"explanation,omitempty"`

	// Evidence lists plan excerpts supporting this choice (evidence model).
	Evidence []Evidence `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// Question is a single questionnaire item. Every question belongs to
// exactly one section; the assignment is fixed at load time.
type Question struct {
	// ID uniquely identifies the question (e.g. "q1_1").
	ID string `json:"id" yaml:"id"`

	// Section is the id of the section this question belongs to.
	Section string `json:"section" yaml:"section"`

	// Text is the question wording.
	Text string `json:"text" yaml:"text"`

	// Tags are thematic labels; the first tag is the question's primary
	// category in the evidence model.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Options are the answer choices in display order.
	Options []Option `json:"options" yaml:"options"`
}

// Option returns the option with the given key and whether it exists.
func (q *Question) Option(key OptionKey) (*Option, bool) {
	for i := range q.Options {
		if q.Options[i].Key == key {
			return &q.Options[i], true
		}
	}
	return nil, false
}

// PrimaryTag returns the question's first tag, or "" if it has none.
func (q *Question) PrimaryTag() string {
	if len(q.Tags) == 0 {
		return ""
	}
	return q.Tags[0]
}

// Section groups questions into a scoring topic. The distance model
// aggregates per-question scores to section averages with equal weights.
type Section struct {
	// ID uniquely identifies the section (e.g. "economy").
	ID string `json:"id" yaml:"id"`

	// Title is the display name of the section.
	Title string `json:"title" yaml:"title"`
}

// Candidate is a political candidate being matched.
type Candidate struct {
	// ID uniquely identifies the candidate.
	ID string `json:"id" yaml:"id"`

	// Name is the candidate's display name.
	Name string `json:"name" yaml:"name"`

	// Party is the candidate's party or organization.
	Party string `json:"party" yaml:"party"`

	// Plan optionally references the candidate's government plan
	// (evidence model linkage).
	Plan string `json:"plan,omitempty" yaml:"plan,omitempty"`

	// Stances is the candidate's per-question stance vector in catalog
	// question order, one value in 1..5 per question (distance model).
	// Candidates defined only through evidence may omit it.
	Stances []int `json:"stances,omitempty" yaml:"stances,omitempty"`
}

// Plan is a government plan document associated with a candidate or
// organization. Evidence records reference plans by id.
type Plan struct {
	// ID uniquely identifies the plan.
	ID string `json:"id" yaml:"id"`

	// Organization is the party or movement publishing the plan.
	Organization string `json:"organization" yaml:"organization"`

	// Candidate is the id of the candidate the plan belongs to.
	Candidate string `json:"candidate" yaml:"candidate"`

	// SourceURL points at the published plan document.
	SourceURL string `json:"source_url" yaml:"source_url"`
}

// VersionStamp identifies which revision of the static question, candidate,
// and scoring data produced a result. Downstream consumers compare stamps
// to detect stale caches or mismatched client/server questionnaire versions.
type VersionStamp struct {
	// Questionnaire is the semantic version of the question catalog.
	Questionnaire string `json:"questionnaire" yaml:"questionnaire"`

	// Dataset is the semantic version of the candidate/plan data.
	Dataset string `json:"dataset" yaml:"dataset"`

	// Scoring is the semantic version of the scoring rules.
	Scoring string `json:"scoring" yaml:"scoring"`
}

// Catalog is the immutable, pre-loaded questionnaire and candidate dataset.
// A Catalog is constructed once at process start via NewCatalog, which
// fail-fast validates every data-integrity invariant; after construction it
// is never mutated and is safe for unsynchronized concurrent reads.
type Catalog struct {
	versions   VersionStamp
	sections   []Section
	questions  []Question
	candidates []Candidate
	plans      []Plan

	questionIdx map[string]int   // question id -> index in questions
	sectionIdx  map[string]int   // section id -> index in sections
	sectionQs   map[string][]int // section id -> question indexes, catalog order
	planIdx     map[string]int   // plan id -> index in plans
}

// NewCatalog builds a Catalog from static data, validating every
// data-integrity invariant. A violation is fatal by design: the returned
// *DataIntegrityError must abort initialization, never be patched over.
//
// Enforced invariants:
//   - at least one section, question, and candidate
//   - section, question, candidate, and plan ids are unique and non-empty
//   - every question references an existing section
//   - every section is referenced by at least one question
//   - option keys within a question are unique and drawn from A..E
//   - stance vectors, when present, have exactly one value per question in
//     catalog question order, each within 1..5
//   - evidence records reference existing plans
//   - plans reference existing candidates
func NewCatalog(
	versions VersionStamp,
	sections []Section,
	questions []Question,
	candidates []Candidate,
	plans []Plan,
) (*Catalog, error) {
	if len(sections) == 0 {
		return nil, NewDataIntegrityError("catalog", "at least one section is required")
	}
	if len(questions) == 0 {
		return nil, NewDataIntegrityError("catalog", "at least one question is required")
	}
	if len(candidates) == 0 {
		return nil, NewDataIntegrityError("catalog", "at least one candidate is required")
	}

	c := &Catalog{
		versions:    versions,
		sections:    sections,
		questions:   questions,
		candidates:  candidates,
		plans:       plans,
		questionIdx: make(map[string]int, len(questions)),
		sectionIdx:  make(map[string]int, len(sections)),
		sectionQs:   make(map[string][]int, len(sections)),
		planIdx:     make(map[string]int, len(plans)),
	}

	for i, s := range sections {
		if s.ID == "" {
			return nil, NewDataIntegrityError("section", "section id cannot be empty")
		}
		if _, dup := c.sectionIdx[s.ID]; dup {
			return nil, NewDataIntegrityError("section", fmt.Sprintf("duplicate section id %q", s.ID))
		}
		c.sectionIdx[s.ID] = i
	}

	for i, p := range plans {
		if p.ID == "" {
			return nil, NewDataIntegrityError("plan", "plan id cannot be empty")
		}
		if _, dup := c.planIdx[p.ID]; dup {
			return nil, NewDataIntegrityError("plan", fmt.Sprintf("duplicate plan id %q", p.ID))
		}
		c.planIdx[p.ID] = i
	}

	for i := range questions {
		q := &questions[i]
		if q.ID == "" {
			return nil, NewDataIntegrityError("question", "question id cannot be empty")
		}
		if _, dup := c.questionIdx[q.ID]; dup {
			return nil, NewDataIntegrityError("question", fmt.Sprintf("duplicate question id %q", q.ID))
		}
		if _, ok := c.sectionIdx[q.Section]; !ok {
			return nil, NewDataIntegrityError("question",
				fmt.Sprintf("question %q references nonexistent section %q", q.ID, q.Section))
		}
		if len(q.Options) == 0 {
			return nil, NewDataIntegrityError("question",
				fmt.Sprintf("question %q has no options", q.ID))
		}
		seen := make(map[OptionKey]struct{}, len(q.Options))
		for _, opt := range q.Options {
			if _, valid := optionValues[opt.Key]; !valid {
				return nil, NewDataIntegrityError("option",
					fmt.Sprintf("question %q has invalid option key %q", q.ID, opt.Key))
			}
			if _, dup := seen[opt.Key]; dup {
				return nil, NewDataIntegrityError("option",
					fmt.Sprintf("question %q has duplicate option key %q", q.ID, opt.Key))
			}
			seen[opt.Key] = struct{}{}
			for _, ev := range opt.Evidence {
				if _, ok := c.planIdx[ev.Plan]; !ok {
					return nil, NewDataIntegrityError("evidence",
						fmt.Sprintf("question %q option %q references nonexistent plan %q",
							q.ID, opt.Key, ev.Plan))
				}
			}
		}
		c.questionIdx[q.ID] = i
		c.sectionQs[q.Section] = append(c.sectionQs[q.Section], i)
	}

	// Section means divide by the section count, so a section without
	// questions would silently drag every total down.
	for _, s := range sections {
		if len(c.sectionQs[s.ID]) == 0 {
			return nil, NewDataIntegrityError("section",
				fmt.Sprintf("section %q has no questions", s.ID))
		}
	}

	candidateIDs := make(map[string]struct{}, len(candidates))
	for i := range candidates {
		cand := &candidates[i]
		if cand.ID == "" {
			return nil, NewDataIntegrityError("candidate", "candidate id cannot be empty")
		}
		if _, dup := candidateIDs[cand.ID]; dup {
			return nil, NewDataIntegrityError("candidate",
				fmt.Sprintf("duplicate candidate id %q", cand.ID))
		}
		candidateIDs[cand.ID] = struct{}{}

		// A stance vector must match the question count exactly; a
		// mismatched length is corrupt data, not a runtime condition.
		if len(cand.Stances) != 0 {
			if len(cand.Stances) != len(questions) {
				return nil, NewDataIntegrityError("candidate",
					fmt.Sprintf("candidate %q stance vector has %d values, catalog has %d questions",
						cand.ID, len(cand.Stances), len(questions)))
			}
			for j, v := range cand.Stances {
				if v < StanceMin || v > StanceMax {
					return nil, NewDataIntegrityError("candidate",
						fmt.Sprintf("candidate %q stance %d for question %q is out of range [%d,%d]",
							cand.ID, v, questions[j].ID, StanceMin, StanceMax))
				}
			}
		}
		if cand.Plan != "" {
			if _, ok := c.planIdx[cand.Plan]; !ok {
				return nil, NewDataIntegrityError("candidate",
					fmt.Sprintf("candidate %q references nonexistent plan %q", cand.ID, cand.Plan))
			}
		}
	}

	for _, p := range plans {
		if _, ok := candidateIDs[p.Candidate]; !ok {
			return nil, NewDataIntegrityError("plan",
				fmt.Sprintf("plan %q references nonexistent candidate %q", p.ID, p.Candidate))
		}
	}

	return c, nil
}

// Versions returns the catalog's version stamp.
func (c *Catalog) Versions() VersionStamp { return c.versions }

// QuestionCount returns the total number of questions in the catalog.
func (c *Catalog) QuestionCount() int { return len(c.questions) }

// Sections returns the sections in catalog order.
// The returned slice must not be modified.
func (c *Catalog) Sections() []Section { return c.sections }

// Questions returns the questions in catalog order.
// The returned slice must not be modified.
func (c *Catalog) Questions() []Question { return c.questions }

// Candidates returns the candidates in catalog order. This order is the
// tie-break order used by the ranker. The returned slice must not be
// modified.
func (c *Catalog) Candidates() []Candidate { return c.candidates }

// Plans returns the plans in catalog order.
// The returned slice must not be modified.
func (c *Catalog) Plans() []Plan { return c.plans }

// Question returns the question with the given id and whether it exists.
func (c *Catalog) Question(id string) (*Question, bool) {
	i, ok := c.questionIdx[id]
	if !ok {
		return nil, false
	}
	return &c.questions[i], true
}

// QuestionIndex returns the catalog-order position of a question. This is
// the index into candidate stance vectors.
func (c *Catalog) QuestionIndex(id string) (int, bool) {
	i, ok := c.questionIdx[id]
	return i, ok
}

// Section returns the section with the given id and whether it exists.
func (c *Catalog) Section(id string) (*Section, bool) {
	i, ok := c.sectionIdx[id]
	if !ok {
		return nil, false
	}
	return &c.sections[i], true
}

// SectionQuestions returns a section's questions in catalog order.
func (c *Catalog) SectionQuestions(sectionID string) []*Question {
	idxs := c.sectionQs[sectionID]
	qs := make([]*Question, len(idxs))
	for i, idx := range idxs {
		qs[i] = &c.questions[idx]
	}
	return qs
}

// Plan returns the plan with the given id and whether it exists.
func (c *Catalog) Plan(id string) (*Plan, bool) {
	i, ok := c.planIdx[id]
	if !ok {
		return nil, false
	}
	return &c.plans[i], true
}
