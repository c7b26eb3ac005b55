// Package orthography provides the orthography standardizer: the final
// transform that folds medieval spellings, diacritics, ligatures and
// scribal glyphs into one canonical alphabet. The standardizer is
// idempotent: applying it to its own output changes nothing.
package orthography

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/c360studio/scriptorium/corpus"
	"github.com/c360studio/scriptorium/patterns"
)

// quoteFolder maps typographic quote glyphs to their ASCII forms before
// the canonical-alphabet filter runs.
var quoteFolder = strings.NewReplacer(
	"“", `"`, "”", `"`, "„", `"`, "«", `"`, "»", `"`,
	"‘", "'", "’", "'", "‚", "'", "‹", "'", "›", "'", "‛", "'",
)

// diacriticStripper decomposes to NFD, removes combining marks and
// recomposes. Catches every accented form the variant tables do not name.
var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Pass is one named standardization transform. Names appear in audit
// traces.
type Pass struct {
	Name  string
	apply func(string) string
}

// Standardizer applies the orthographic passes in order. Safe for
// concurrent use once constructed.
type Standardizer struct {
	lib       *patterns.Library
	table     *Table
	ligatures *strings.Replacer
	scribal   *strings.Replacer
	passes    []Pass
}

// New creates a Standardizer. A nil library uses the process default; a nil
// table loads the embedded one.
func New(lib *patterns.Library, table *Table) (*Standardizer, error) {
	if lib == nil {
		lib = patterns.Default()
	}
	if table == nil {
		var err error
		table, err = DefaultTable()
		if err != nil {
			return nil, err
		}
	}
	s := &Standardizer{
		lib:       lib,
		table:     table,
		ligatures: newReplacer(table.Ligatures),
		scribal:   newReplacer(table.Scribal),
	}
	s.passes = []Pass{
		{"normalize_variants", s.normalizeVariants},
		{"remove_diacritics", s.removeDiacritics},
		{"fold_glyphs", s.foldGlyphs},
		{"fold_letters", s.foldLetters},
		{"final_cleanup", s.finalCleanup},
	}
	return s, nil
}

// MustNew is New with the default library and table, panicking on error.
func MustNew() *Standardizer {
	s, err := New(nil, nil)
	if err != nil {
		panic(err)
	}
	return s
}

func newReplacer(m map[string]string) *strings.Replacer {
	pairs := make([]string, 0, len(m)*2)
	for from, to := range m {
		pairs = append(pairs, from, to)
	}
	return strings.NewReplacer(pairs...)
}

// Passes returns the pass names in application order.
func (s *Standardizer) Passes() []string {
	names := make([]string, len(s.passes))
	for i, p := range s.passes {
		names[i] = p.Name
	}
	return names
}

// Standardize runs every pass over the document text in order.
func (s *Standardizer) Standardize(doc corpus.Document) corpus.Document {
	return doc.WithText(s.StandardizeText(doc.Text))
}

// StandardizeText runs every pass over raw text in order.
func (s *Standardizer) StandardizeText(text string) string {
	for _, p := range s.passes {
		text = p.apply(text)
	}
	return text
}

// normalizeVariants rewrites medieval spellings to their classical forms,
// whole words only.
func (s *Standardizer) normalizeVariants(text string) string {
	for _, rule := range s.table.Variants {
		text = rule.re.ReplaceAllString(text, rule.Standard)
	}
	return text
}

// removeDiacritics strips combining marks from every letter. Precomposed
// ligatures (ae, oe) survive: they are not combining forms and the glyph
// pass owns them.
func (s *Standardizer) removeDiacritics(text string) string {
	stripped, _, err := transform.String(diacriticStripper, text)
	if err != nil {
		return text
	}
	return stripped
}

// foldGlyphs decomposes ligatures and expands or drops scribal glyphs.
func (s *Standardizer) foldGlyphs(text string) string {
	text = s.ligatures.Replace(text)
	return s.scribal.Replace(text)
}

// foldLetters applies the medieval letter-pair folds (v to u, j to i) and
// lowercases everything else in a single sweep.
func (s *Standardizer) foldLetters(text string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case 'v', 'V':
			return 'u'
		case 'j', 'J':
			return 'i'
		default:
			return unicode.ToLower(r)
		}
	}, text)
}

// finalCleanup renormalizes punctuation and spacing disturbed by the folds
// and restricts output to the canonical alphabet: a-z, digits, whitespace
// and the allowed punctuation set.
func (s *Standardizer) finalCleanup(text string) string {
	text = quoteFolder.Replace(text)
	text = s.lib.NormalizeGlyphs(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z',
			r >= '0' && r <= '9',
			unicode.IsSpace(r),
			strings.ContainsRune(patterns.AllowedPunctuation, r):
			b.WriteRune(r)
		}
	}

	text = s.lib.CollapsePunctuation(b.String())
	return strings.TrimSpace(s.lib.NormalizeWhitespace(text))
}
