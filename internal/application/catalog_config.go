package application

import (
	"github.com/acampos/votematch/internal/domain"
)

// CatalogDocument is the YAML schema for a catalog file: version stamps,
// sections, questions with their options and evidence, candidates, and
// government plans. Struct tags carry the field-level validation;
// reference integrity between the collections is enforced by
// domain.NewCatalog.
type CatalogDocument struct {
	Versions   VersionsConfig    `yaml:"versions" validate:"required"`
	Sections   []SectionConfig   `yaml:"sections" validate:"min=1,dive"`
	Questions  []QuestionConfig  `yaml:"questions" validate:"min=1,dive"`
	Candidates []CandidateConfig `yaml:"candidates" validate:"min=1,dive"`
	Plans      []PlanConfig      `yaml:"plans,omitempty" validate:"dive"`
}

// VersionsConfig stamps the catalog content.
type VersionsConfig struct {
	Questionnaire string `yaml:"questionnaire" validate:"required,semver"`
	Dataset       string `yaml:"dataset" validate:"required,semver"`
	Scoring       string `yaml:"scoring" validate:"required,semver"`
}

// SectionConfig declares one thematic section.
type SectionConfig struct {
	ID    string `yaml:"id" validate:"required"`
	Title string `yaml:"title" validate:"required"`
}

// QuestionConfig declares one question and its answer options.
type QuestionConfig struct {
	ID      string         `yaml:"id" validate:"required"`
	Section string         `yaml:"section" validate:"required"`
	Text    string         `yaml:"text" validate:"required"`
	Tags    []string       `yaml:"tags,omitempty"`
	Options []OptionConfig `yaml:"options" validate:"min=2,max=5,dive"`
}

// OptionConfig declares one answer option.
type OptionConfig struct {
	Key         string           `yaml:"key" validate:"required,oneof=A B C D E"`
	Text        string           `yaml:"text" validate:"required"`
	Explanation string           `yaml:"explanation,omitempty"`
	Evidence    []EvidenceConfig `yaml:"evidence,omitempty" validate:"dive"`
}

// EvidenceConfig links an option to a government plan entry.
type EvidenceConfig struct {
	Plan        string `yaml:"plan" validate:"required"`
	Label       string `yaml:"label,omitempty"`
	Summary     string `yaml:"summary" validate:"required"`
	Explanation string `yaml:"explanation,omitempty"`
	SourceURL   string `yaml:"source_url,omitempty" validate:"omitempty,url"`
}

// CandidateConfig declares one candidate.
type CandidateConfig struct {
	ID      string `yaml:"id" validate:"required"`
	Name    string `yaml:"name" validate:"required"`
	Party   string `yaml:"party,omitempty"`
	Plan    string `yaml:"plan,omitempty"`
	Stances []int  `yaml:"stances,omitempty" validate:"omitempty,dive,min=1,max=5"`
}

// PlanConfig declares one government plan document.
type PlanConfig struct {
	ID           string `yaml:"id" validate:"required"`
	Organization string `yaml:"organization,omitempty"`
	Candidate    string `yaml:"candidate" validate:"required"`
	SourceURL    string `yaml:"source_url,omitempty" validate:"omitempty,url"`
}

// toDomain converts the validated document into domain types.
func (d *CatalogDocument) toDomain() (domain.VersionStamp, []domain.Section, []domain.Question, []domain.Candidate, []domain.Plan) {
	versions := domain.VersionStamp{
		Questionnaire: d.Versions.Questionnaire,
		Dataset:       d.Versions.Dataset,
		Scoring:       d.Versions.Scoring,
	}

	sections := make([]domain.Section, len(d.Sections))
	for i, s := range d.Sections {
		sections[i] = domain.Section{ID: s.ID, Title: s.Title}
	}

	questions := make([]domain.Question, len(d.Questions))
	for i, q := range d.Questions {
		options := make([]domain.Option, len(q.Options))
		for j, o := range q.Options {
			evidence := make([]domain.Evidence, len(o.Evidence))
			for k, e := range o.Evidence {
				evidence[k] = domain.Evidence{
					Plan:        e.Plan,
					Label:       e.Label,
					Summary:     e.Summary,
					Explanation: e.Explanation,
					SourceURL:   e.SourceURL,
				}
			}
			options[j] = domain.Option{
				Key:         domain.OptionKey(o.Key),
				Text:        o.Text,
				Explanation: o.Explanation,
				Evidence:    evidence,
			}
		}
		questions[i] = domain.Question{
			ID:      q.ID,
			Section: q.Section,
			Text:    q.Text,
			Tags:    q.Tags,
			Options: options,
		}
	}

	candidates := make([]domain.Candidate, len(d.Candidates))
	for i, c := range d.Candidates {
		candidates[i] = domain.Candidate{
			ID:      c.ID,
			Name:    c.Name,
			Party:   c.Party,
			Plan:    c.Plan,
			Stances: c.Stances,
		}
	}

	plans := make([]domain.Plan, len(d.Plans))
	for i, p := range d.Plans {
		plans[i] = domain.Plan{
			ID:           p.ID,
			Organization: p.Organization,
			Candidate:    p.Candidate,
			SourceURL:    p.SourceURL,
		}
	}

	return versions, sections, questions, candidates, plans
}
