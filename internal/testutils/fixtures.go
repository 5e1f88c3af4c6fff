// Package testutils provides shared catalog fixtures and builders for
// votematch tests.
package testutils

import (
	"fmt"

	"github.com/acampos/votematch/internal/domain"
)

// SectionIDs are the five reference sections of the 20-question fixture
// catalog, four questions each.
var SectionIDs = []string{"economy", "security", "education", "health", "environment"}

// Versions is the version stamp used by fixture catalogs.
var Versions = domain.VersionStamp{
	Questionnaire: "2.1.0",
	Dataset:       "2024.10.1",
	Scoring:       "1.0.0",
}

// QuestionID returns the fixture id of a question: section index s (0-4)
// and question index q (0-3) map to "q<s+1>_<q+1>".
func QuestionID(s, q int) string { return fmt.Sprintf("q%d_%d", s+1, q+1) }

// UniformStances returns a stance vector of n copies of v.
func UniformStances(n, v int) []int {
	stances := make([]int, n)
	for i := range stances {
		stances[i] = v
	}
	return stances
}

// AlternatingStances returns a stance vector alternating a, b, a, b, ...
func AlternatingStances(n, a, b int) []int {
	stances := make([]int, n)
	for i := range stances {
		if i%2 == 0 {
			stances[i] = a
		} else {
			stances[i] = b
		}
	}
	return stances
}

// ReferenceQuestions builds the 5x4 fixture questionnaire. Every question
// carries options A..E with canned per-option explanations and its
// section id as primary tag.
func ReferenceQuestions() []domain.Question {
	questions := make([]domain.Question, 0, len(SectionIDs)*4)
	for s, section := range SectionIDs {
		for q := 0; q < 4; q++ {
			id := QuestionID(s, q)
			options := make([]domain.Option, 0, 5)
			for _, key := range []domain.OptionKey{domain.OptionA, domain.OptionB, domain.OptionC, domain.OptionD, domain.OptionE} {
				options = append(options, domain.Option{
					Key:         key,
					Text:        fmt.Sprintf("Option %s of %s", key, id),
					Explanation: fmt.Sprintf("you chose %s on %s", key, id),
				})
			}
			questions = append(questions, domain.Question{
				ID:      id,
				Section: section,
				Text:    fmt.Sprintf("Question %s", id),
				Tags:    []string{section},
				Options: options,
			})
		}
	}
	return questions
}

// ReferenceSections builds the five fixture sections.
func ReferenceSections() []domain.Section {
	sections := make([]domain.Section, len(SectionIDs))
	for i, id := range SectionIDs {
		sections[i] = domain.Section{ID: id, Title: id}
	}
	return sections
}

// NewLikertCatalog builds the reference 5x4 catalog with the given
// candidates. It panics on a malformed fixture; fixtures are static, so
// an error here is a bug in the test itself.
func NewLikertCatalog(candidates ...domain.Candidate) *domain.Catalog {
	catalog, err := domain.NewCatalog(Versions, ReferenceSections(), ReferenceQuestions(), candidates, nil)
	if err != nil {
		panic(fmt.Sprintf("testutils: invalid likert fixture: %v", err))
	}
	return catalog
}

// AllAnswers returns a complete answer set selecting the same option for
// every question of the reference catalog.
func AllAnswers(key domain.OptionKey) domain.AnswerSet {
	answers := make(domain.AnswerSet, len(SectionIDs)*4)
	for s := range SectionIDs {
		for q := 0; q < 4; q++ {
			answers[QuestionID(s, q)] = key
		}
	}
	return answers
}

// NewEvidenceCatalog builds a small evidence-model catalog: two
// candidates with plans, and questions whose option A carries evidence
// for plan-1, option B for plan-2, and option C for both.
func NewEvidenceCatalog() *domain.Catalog {
	sections := []domain.Section{{ID: "economy", Title: "Economía"}, {ID: "security", Title: "Seguridad"}}
	plans := []domain.Plan{
		{ID: "plan-1", Organization: "Partido Avanza", Candidate: "cand-1", SourceURL: "https://example.org/plan-1.pdf"},
		{ID: "plan-2", Organization: "Frente Unido", Candidate: "cand-2", SourceURL: "https://example.org/plan-2.pdf"},
	}
	candidates := []domain.Candidate{
		{ID: "cand-1", Name: "Ana Torres", Party: "Partido Avanza", Plan: "plan-1"},
		{ID: "cand-2", Name: "Luis Vega", Party: "Frente Unido", Plan: "plan-2"},
	}

	questions := make([]domain.Question, 0, 4)
	for i, section := range []string{"economy", "economy", "security", "security"} {
		id := fmt.Sprintf("q%d", i+1)
		questions = append(questions, domain.Question{
			ID:      id,
			Section: section,
			Text:    fmt.Sprintf("Question %s", id),
			Tags:    []string{section},
			Options: []domain.Option{
				{Key: domain.OptionA, Text: "A", Evidence: []domain.Evidence{
					{Plan: "plan-1", Label: "p1", Summary: fmt.Sprintf("plan-1 supports %s/A", id)},
				}},
				{Key: domain.OptionB, Text: "B", Evidence: []domain.Evidence{
					{Plan: "plan-2", Label: "p2", Summary: fmt.Sprintf("plan-2 supports %s/B", id)},
				}},
				{Key: domain.OptionC, Text: "C", Evidence: []domain.Evidence{
					{Plan: "plan-1", Label: "p1", Summary: fmt.Sprintf("plan-1 supports %s/C", id)},
					{Plan: "plan-2", Label: "p2", Summary: fmt.Sprintf("plan-2 supports %s/C", id)},
				}},
				{Key: domain.OptionD, Text: "D"},
				{Key: domain.OptionE, Text: "E"},
			},
		})
	}

	catalog, err := domain.NewCatalog(Versions, sections, questions, candidates, plans)
	if err != nil {
		panic(fmt.Sprintf("testutils: invalid evidence fixture: %v", err))
	}
	return catalog
}
