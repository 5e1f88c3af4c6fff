// Package display holds the presentation side tables: category labels
// for match reasons and party-name normalization with alias resolution.
// The tables are loaded once into an immutable Config and shared by
// reference; the scoring core never depends on them.
package display

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var validate = validator.New()

// folder performs Unicode case folding for alias keys. Folding, unlike
// strings.ToLower, is stable across locale conventions.
var folder = cases.Fold()

// titler renders title-cased fallback labels for tags without a table
// entry.
var titler = cases.Title(language.Und)

// PartyStyle carries the display overrides for one political party.
type PartyStyle struct {
	// ShortName is the abbreviated party name used in narrow layouts.
	ShortName string `yaml:"short_name" json:"short_name"`

	// LogoPath is the asset path of the party logo.
	LogoPath string `yaml:"logo_path" json:"logo_path"`
}

// Config is the immutable display configuration: the tag-to-label table
// for reason categories and per-party style overrides. Construct it once
// with NewConfig and pass it by reference; it is safe for concurrent
// reads.
type Config struct {
	// categoryLabels maps question tags to display labels.
	categoryLabels map[string]string

	// partyStyles maps normalized party names to their overrides.
	partyStyles map[string]PartyStyle

	// prefixes are stripped from the front of folded party names.
	prefixes []string
}

// Params configures NewConfig.
type Params struct {
	// CategoryLabels maps question tags to display labels. Tags absent
	// from the table fall back to a title-cased rendering.
	CategoryLabels map[string]string `yaml:"category_labels" json:"category_labels"`

	// PartyStyles maps party names (any casing) to style overrides.
	PartyStyles map[string]PartyStyle `yaml:"party_styles" json:"party_styles"`

	// StripPrefixes are removed from the front of party names during
	// normalization, after case folding.
	StripPrefixes []string `yaml:"strip_prefixes" json:"strip_prefixes"`
}

// DefaultParams returns the built-in side tables.
func DefaultParams() Params {
	return Params{
		CategoryLabels: map[string]string{
			"economy":     "Economía",
			"security":    "Seguridad",
			"education":   "Educación",
			"health":      "Salud",
			"environment": "Medio Ambiente",
		},
		StripPrefixes: []string{"partido político", "partido", "movimiento"},
	}
}

// NewConfig builds an immutable Config. Party style keys are normalized
// so lookups succeed regardless of the casing used in the source table.
func NewConfig(params Params) (*Config, error) {
	if err := validate.Struct(params); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	c := &Config{
		categoryLabels: make(map[string]string, len(params.CategoryLabels)),
		partyStyles:    make(map[string]PartyStyle, len(params.PartyStyles)),
		prefixes:       make([]string, 0, len(params.StripPrefixes)),
	}
	for tag, label := range params.CategoryLabels {
		c.categoryLabels[tag] = label
	}
	for _, p := range params.StripPrefixes {
		c.prefixes = append(c.prefixes, folder.String(strings.TrimSpace(p)))
	}
	for name, style := range params.PartyStyles {
		c.partyStyles[c.NormalizeParty(name)] = style
	}
	return c, nil
}

// Label returns the display label for a question tag: the table entry if
// present, otherwise the tag title-cased with separators spaced out.
// Implements the strategies.CategoryLabeler contract.
func (c *Config) Label(tag string) string {
	if label, ok := c.categoryLabels[tag]; ok {
		return label
	}
	spaced := strings.NewReplacer("_", " ", "-", " ").Replace(tag)
	return titler.String(spaced)
}

// NormalizeParty canonicalizes a party name for alias matching: Unicode
// case fold, strip known prefixes, cut everything after the first
// hyphen, trim spaces.
func (c *Config) NormalizeParty(raw string) string {
	name := folder.String(strings.TrimSpace(raw))

	for _, prefix := range c.prefixes {
		if strings.HasPrefix(name, prefix) {
			name = strings.TrimSpace(name[len(prefix):])
			break
		}
	}

	if cut, _, found := strings.Cut(name, "-"); found {
		name = cut
	}
	return strings.TrimSpace(name)
}

// Style returns the style overrides for a raw party name using exact
// normalized lookup only. Fuzzy resolution lives in PartyResolver.
func (c *Config) Style(raw string) (PartyStyle, bool) {
	style, ok := c.partyStyles[c.NormalizeParty(raw)]
	return style, ok
}

// normalizedNames returns the normalized party keys for fuzzy scans.
func (c *Config) normalizedNames() []string {
	names := make([]string, 0, len(c.partyStyles))
	for name := range c.partyStyles {
		names = append(names, name)
	}
	return names
}
