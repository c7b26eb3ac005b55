package normalize

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// StandardRule is an unconditional abbreviation expansion. The pattern is
// a regular expression; the expansion is a fixed replacement string.
type StandardRule struct {
	Pattern   string `yaml:"pattern"`
	Expansion string `yaml:"expansion"`

	re *regexp.Regexp
}

// PraenomenRule is a context-sensitive Roman praenomen expansion. Common
// forms expand under a masculine or indeterminate gender context; rare
// forms require explicit masculine evidence.
type PraenomenRule struct {
	Abbreviation string `yaml:"abbreviation"`
	Expansion    string `yaml:"expansion"`
	Common       bool   `yaml:"common"`

	re *regexp.Regexp
}

// GenderContext holds the keyword windows used to disambiguate praenomen
// abbreviations from other single-letter forms.
type GenderContext struct {
	// Window is the number of bytes inspected on each side of a match.
	Window    int      `yaml:"window"`
	Masculine []string `yaml:"masculine"`
	Feminine  []string `yaml:"feminine"`
}

// RuleSet is the full normalization rule table: abbreviation rules plus the
// line-level denylists and allowlists. Loaded once and never mutated.
type RuleSet struct {
	Standard      []StandardRule  `yaml:"standard"`
	Praenomina    []PraenomenRule `yaml:"praenomina"`
	GenderContext GenderContext   `yaml:"gender_context"`

	LanguageDenylist   []string `yaml:"language_denylist"`
	MetadataDenylist   []string `yaml:"metadata_denylist"`
	ShortWordAllowlist []string `yaml:"short_word_allowlist"`

	shortWords map[string]struct{}
}

// DefaultRules parses the embedded rule tables.
func DefaultRules() (*RuleSet, error) {
	return ParseRules(defaultRulesYAML)
}

// ParseRules parses, validates and compiles a rule set from YAML. A
// malformed rule is fatal: it would silently skew every document.
func ParseRules(data []byte) (*RuleSet, error) {
	var rules RuleSet
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if err := rules.compile(); err != nil {
		return nil, fmt.Errorf("compile rules: %w", err)
	}
	return &rules, nil
}

func (r *RuleSet) compile() error {
	if len(r.Standard) == 0 {
		return fmt.Errorf("standard rules must not be empty")
	}
	if len(r.Praenomina) == 0 {
		return fmt.Errorf("praenomen rules must not be empty")
	}
	if r.GenderContext.Window <= 0 {
		return fmt.Errorf("gender_context.window must be positive, got %d", r.GenderContext.Window)
	}
	if len(r.GenderContext.Masculine) == 0 || len(r.GenderContext.Feminine) == 0 {
		return fmt.Errorf("gender_context keyword lists must not be empty")
	}

	for i := range r.Standard {
		rule := &r.Standard[i]
		if rule.Expansion == "" {
			return fmt.Errorf("standard[%d] (%s): empty expansion", i, rule.Pattern)
		}
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return fmt.Errorf("standard[%d] (%s): %w", i, rule.Pattern, err)
		}
		rule.re = re
	}

	for i := range r.Praenomina {
		rule := &r.Praenomina[i]
		if rule.Abbreviation == "" || rule.Expansion == "" {
			return fmt.Errorf("praenomina[%d]: abbreviation and expansion are required", i)
		}
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(rule.Abbreviation))
		if err != nil {
			return fmt.Errorf("praenomina[%d] (%s): %w", i, rule.Abbreviation, err)
		}
		rule.re = re
	}

	r.shortWords = make(map[string]struct{}, len(r.ShortWordAllowlist))
	for _, w := range r.ShortWordAllowlist {
		r.shortWords[strings.ToLower(w)] = struct{}{}
	}
	return nil
}

// AllowedShortWord reports whether a one- or two-letter line is a known
// Latin word rather than an extraction artifact.
func (r *RuleSet) AllowedShortWord(word string) bool {
	_, ok := r.shortWords[strings.ToLower(word)]
	return ok
}
