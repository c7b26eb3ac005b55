package classify

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/scriptorium/corpus"
)

//go:embed lexicon.yaml
var defaultLexiconYAML []byte

// Lexicon holds the membership tables the classifier scores against.
// Loaded once at initialization and never mutated; weights live in the
// scoring code, membership lives here.
type Lexicon struct {
	Period PeriodLexicon `yaml:"period"`
	Genre  GenreLexicon  `yaml:"genre"`
}

// PeriodLexicon lists the period-classification signal sources, in
// descending order of trust.
type PeriodLexicon struct {
	// Category keywords are the strongest signal: curators declared them.
	ClassicalCategoryKeywords     []string `yaml:"classical_category_keywords"`
	PostClassicalCategoryKeywords []string `yaml:"post_classical_category_keywords"`

	// Author membership by era bucket.
	ClassicalAuthors []string `yaml:"classical_authors"`
	LateAuthors      []string `yaml:"late_authors"`
	MedievalAuthors  []string `yaml:"medieval_authors"`

	// Vocabulary co-occurrence lists for the content sample.
	ClassicalVocabulary     []string `yaml:"classical_vocabulary"`
	PostClassicalVocabulary []string `yaml:"post_classical_vocabulary"`

	// Weak title fallbacks, consulted only when no stronger signal fired.
	ClassicalTitleHints     []string `yaml:"classical_title_hints"`
	PostClassicalTitleHints []string `yaml:"post_classical_title_hints"`

	// Zero-evidence educated-guess terms.
	ClassicalGuessTerms     []string `yaml:"classical_guess_terms"`
	PostClassicalGuessTerms []string `yaml:"post_classical_guess_terms"`
}

// GenreLexicon lists the genre-classification signal sources.
type GenreLexicon struct {
	PoetryTitles []string `yaml:"poetry_titles"`
	ProseTitles  []string `yaml:"prose_titles"`
	MixedTitles  []string `yaml:"mixed_titles"`

	// AuthorAffinity maps a known author to their dominant genre.
	AuthorAffinity map[string]corpus.Genre `yaml:"author_affinity"`

	// ProseConnectors are connective words markedly more frequent in
	// prose than in verse.
	ProseConnectors []string `yaml:"prose_connectors"`

	// Zero-evidence fallback lists, consulted in order.
	PoetryFallbackWorks   []string `yaml:"poetry_fallback_works"`
	ProseFallbackWorks    []string `yaml:"prose_fallback_works"`
	PoetryFallbackAuthors []string `yaml:"poetry_fallback_authors"`
	ProseFallbackAuthors  []string `yaml:"prose_fallback_authors"`
}

// DefaultLexicon parses the embedded lexicon tables.
func DefaultLexicon() (*Lexicon, error) {
	return ParseLexicon(defaultLexiconYAML)
}

// ParseLexicon parses and validates a lexicon from YAML. Malformed tables
// are fatal at process initialization: every document would be affected
// identically.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}
	if err := lex.Validate(); err != nil {
		return nil, fmt.Errorf("validate lexicon: %w", err)
	}
	return &lex, nil
}

// Validate checks the lexicon for empty tables and unknown labels.
func (l *Lexicon) Validate() error {
	required := map[string][]string{
		"period.classical_category_keywords":      l.Period.ClassicalCategoryKeywords,
		"period.post_classical_category_keywords": l.Period.PostClassicalCategoryKeywords,
		"period.classical_authors":                l.Period.ClassicalAuthors,
		"period.late_authors":                     l.Period.LateAuthors,
		"period.classical_vocabulary":             l.Period.ClassicalVocabulary,
		"period.post_classical_vocabulary":        l.Period.PostClassicalVocabulary,
		"genre.poetry_titles":                     l.Genre.PoetryTitles,
		"genre.prose_titles":                      l.Genre.ProseTitles,
		"genre.prose_connectors":                  l.Genre.ProseConnectors,
	}
	for name, list := range required {
		if len(list) == 0 {
			return fmt.Errorf("%s must not be empty", name)
		}
		for _, entry := range list {
			if entry == "" {
				return fmt.Errorf("%s contains an empty entry", name)
			}
		}
	}
	if len(l.Genre.AuthorAffinity) == 0 {
		return fmt.Errorf("genre.author_affinity must not be empty")
	}
	for author, genre := range l.Genre.AuthorAffinity {
		if !genre.Valid() {
			return fmt.Errorf("genre.author_affinity[%s]: invalid genre %q", author, genre)
		}
	}
	return nil
}
