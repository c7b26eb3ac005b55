package orthography

import (
	_ "embed"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed variants.yaml
var defaultTableYAML []byte

// variantWord constrains table entries to plain lowercase words; anything
// else belongs in the glyph maps.
var variantWord = regexp.MustCompile(`^[a-z]+$`)

// VariantRule maps one medieval spelling to its classical form. Matches are
// whole-word and case-insensitive.
type VariantRule struct {
	Variant  string `yaml:"variant"`
	Standard string `yaml:"standard"`

	re *regexp.Regexp
}

// Table is the full orthographic fold table. Loaded once and never mutated.
type Table struct {
	Variants  []VariantRule     `yaml:"variants"`
	Ligatures map[string]string `yaml:"ligatures"`
	Scribal   map[string]string `yaml:"scribal"`
}

// DefaultTable parses the embedded fold table.
func DefaultTable() (*Table, error) {
	return ParseTable(defaultTableYAML)
}

// ParseTable parses, validates and compiles a fold table from YAML. A
// malformed entry is fatal: it would silently skew every document.
func ParseTable(data []byte) (*Table, error) {
	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse variant table: %w", err)
	}
	if err := table.compile(); err != nil {
		return nil, fmt.Errorf("compile variant table: %w", err)
	}
	return &table, nil
}

func (t *Table) compile() error {
	if len(t.Variants) == 0 {
		return fmt.Errorf("variants must not be empty")
	}
	if len(t.Ligatures) == 0 || len(t.Scribal) == 0 {
		return fmt.Errorf("ligature and scribal maps must not be empty")
	}
	for i := range t.Variants {
		rule := &t.Variants[i]
		if !variantWord.MatchString(rule.Variant) {
			return fmt.Errorf("variants[%d]: %q is not a lowercase word", i, rule.Variant)
		}
		if !variantWord.MatchString(rule.Standard) {
			return fmt.Errorf("variants[%d] (%s): standard form %q is not a lowercase word",
				i, rule.Variant, rule.Standard)
		}
		rule.re = regexp.MustCompile(`(?i)\b` + rule.Variant + `\b`)
	}
	for from := range t.Ligatures {
		if from == "" {
			return fmt.Errorf("ligatures: empty source glyph")
		}
	}
	for from := range t.Scribal {
		if from == "" {
			return fmt.Errorf("scribal: empty source glyph")
		}
	}
	return nil
}
