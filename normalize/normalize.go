// Package normalize provides the content normalizer: the ordered sequence
// of text transforms that turns a retained document into clean running
// Latin prose or verse. Passes apply in a fixed order and each pass is
// idempotent on its own output.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/c360studio/scriptorium/corpus"
	"github.com/c360studio/scriptorium/patterns"
)

// allowedPunct is the punctuation retained in normalized output.
const allowedPunct = patterns.AllowedPunctuation

var (
	// allCapsLine matches short shouting-case title lines.
	allCapsLine = regexp.MustCompile(`^[A-Z\s\d.,:;!?'"\-]+$`)

	// authorLine matches attribution and colophon formula lines.
	authorLine = regexp.MustCompile(`(?i)^\s*(auctore|scripsit|incipit|explicit|finis)\b`)

	// leadingNumber matches arabic list numbering at the start of a line.
	leadingNumber = regexp.MustCompile(`^\s*\d+[.)]\s+`)

	// letterRun counts evidence that a line holds words at all.
	letterRun = regexp.MustCompile(`[A-Za-z]`)

	// quoteFolder maps typographic quotes to their ASCII forms.
	quoteFolder = strings.NewReplacer(
		"“", `"`, "”", `"`, "„", `"`,
		"‘", "'", "’", "'", "‚", "'",
	)
)

// colophonMarkers begin the trailing digital-edition block; everything from
// a marker line onward is dropped.
var colophonMarkers = []string{
	"about this digital edition",
	"exported from wikisource",
}

// Pass is one named normalization transform. Names appear in audit traces.
type Pass struct {
	Name  string
	apply func(string) string
}

// Normalizer applies the normalization passes in order. Safe for concurrent
// use once constructed.
type Normalizer struct {
	lib    *patterns.Library
	rules  *RuleSet
	passes []Pass
}

// New creates a Normalizer. A nil library uses the process default; nil
// rules load the embedded tables.
func New(lib *patterns.Library, rules *RuleSet) (*Normalizer, error) {
	if lib == nil {
		lib = patterns.Default()
	}
	if rules == nil {
		var err error
		rules, err = DefaultRules()
		if err != nil {
			return nil, err
		}
	}
	n := &Normalizer{lib: lib, rules: rules}
	n.passes = []Pass{
		{"strip_header", n.stripHeaderAndColophon},
		{"remove_metadata", n.removeMetadataBlocks},
		{"remove_structure", n.removeStructuralMarkup},
		{"remove_foreign", n.removeForeignAnnotations},
		{"standardize_punctuation", n.standardizePunctuation},
		{"expand_abbreviations", n.expandAbbreviations},
		{"collapse_whitespace", n.collapseWhitespace},
	}
	return n, nil
}

// MustNew is New with the default library and rules, panicking on error.
// Intended for initialization paths where the embedded tables are known
// good.
func MustNew() *Normalizer {
	n, err := New(nil, nil)
	if err != nil {
		panic(err)
	}
	return n
}

// Passes returns the pass names in application order.
func (n *Normalizer) Passes() []string {
	names := make([]string, len(n.passes))
	for i, p := range n.passes {
		names[i] = p.Name
	}
	return names
}

// Normalize runs every pass over the document text in order.
func (n *Normalizer) Normalize(doc corpus.Document) corpus.Document {
	return doc.WithText(n.NormalizeText(doc.Text))
}

// NormalizeText runs every pass over raw text in order.
func (n *Normalizer) NormalizeText(text string) string {
	for _, p := range n.passes {
		text = p.apply(text)
	}
	return text
}

// stripHeaderAndColophon drops the metadata header block and everything
// from a digital-edition colophon marker onward.
func (n *Normalizer) stripHeaderAndColophon(text string) string {
	lines := strings.Split(text, "\n")
	lines = lines[corpus.HeaderEnd(lines):]

	for i, line := range lines {
		lower := strings.ToLower(strings.TrimSpace(line))
		for _, marker := range colophonMarkers {
			if strings.Contains(lower, marker) {
				lines = lines[:i]
				return strings.Join(lines, "\n")
			}
		}
	}
	return strings.Join(lines, "\n")
}

// removeMetadataBlocks removes commentary sections, category lines, URLs
// and any line carrying digital-edition provenance markers.
func (n *Normalizer) removeMetadataBlocks(text string) string {
	text = n.lib.CommentariumSection.ReplaceAllString(text, "")
	text = n.lib.CategoryLine.ReplaceAllString(text, "")
	text = n.lib.URL.ReplaceAllString(text, "")

	fieldPrefixes := []string{"Title:", "Source:", "Category:", "Text Type:"}
	return filterLines(text, func(line string) bool {
		trimmed := strings.TrimSpace(line)
		for _, prefix := range fieldPrefixes {
			if strings.HasPrefix(trimmed, prefix) {
				return false
			}
		}
		lower := strings.ToLower(trimmed)
		for _, marker := range n.rules.MetadataDenylist {
			if strings.Contains(lower, marker) {
				return false
			}
		}
		return true
	})
}

// removeStructuralMarkup strips wiki markup and editorial brackets, then
// drops heading, separator, numbering and title/attribution lines.
func (n *Normalizer) removeStructuralMarkup(text string) string {
	text = strings.ReplaceAll(text, "__TOC__", "")
	text = strings.ReplaceAll(text, "__NOTOC__", "")
	text = n.lib.SectionMarkup.ReplaceAllString(text, "")
	text = n.lib.WikiTemplate.ReplaceAllString(text, "")
	text = n.lib.WikiLink.ReplaceAllString(text, "$1")
	text = n.lib.BoldMarkup.ReplaceAllString(text, "$1")
	text = n.lib.ItalicMarkup.ReplaceAllString(text, "$1")
	text = n.lib.StripEditorial(text)

	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = leadingNumber.ReplaceAllString(line, "")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			kept = append(kept, line)
			continue
		}
		if n.dropStructuralLine(trimmed) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func (n *Normalizer) dropStructuralLine(trimmed string) bool {
	if n.lib.IsChapterHeading(trimmed) {
		return true
	}
	if n.lib.SeparatorLine.MatchString(trimmed) {
		return true
	}
	if n.lib.StandalonePunct.MatchString(trimmed) {
		return true
	}
	if n.lib.PageNumber.MatchString(trimmed) {
		return true
	}
	// Standalone Roman numeral heading, with or without trailing marks.
	if n.lib.IsRomanNumeral(strings.TrimRight(trimmed, ". \t-")) {
		return true
	}
	if authorLine.MatchString(trimmed) {
		return true
	}
	// Short all-caps lines with real letter content are titles.
	if len(trimmed) < 100 && allCapsLine.MatchString(trimmed) &&
		len(letterRun.FindAllString(trimmed, 4)) >= 3 {
		return true
	}
	// One- and two-character lines are artifacts unless they are known
	// short Latin words.
	if len(trimmed) < 3 && !n.rules.AllowedShortWord(trimmed) {
		return true
	}
	return false
}

// removeForeignAnnotations drops lines carrying non-Latin annotation
// markers: translations, editorial notes, bibliography entries.
func (n *Normalizer) removeForeignAnnotations(text string) string {
	return filterLines(text, func(line string) bool {
		lower := strings.ToLower(line)
		for _, marker := range n.rules.LanguageDenylist {
			if strings.Contains(lower, marker) {
				return false
			}
		}
		return true
	})
}

// standardizePunctuation folds typographic glyphs to ASCII, restricts
// punctuation to the allowed set and fixes runs and spacing.
func (n *Normalizer) standardizePunctuation(text string) string {
	text = n.lib.NormalizeGlyphs(text)
	text = quoteFolder.Replace(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) ||
			strings.ContainsRune(allowedPunct, r) {
			b.WriteRune(r)
		}
	}
	return n.lib.CollapsePunctuation(b.String())
}

// expandAbbreviations applies the unconditional fixed-string rules first,
// then the context-sensitive praenomen expansion. The single-letter standard
// rules are case-sensitive, so "C. Iulius" survives the first sweep for the
// praenomen pass to claim.
func (n *Normalizer) expandAbbreviations(text string) string {
	text = n.expandStandard(text)
	return n.expandPraenomina(text)
}

// collapseWhitespace trims line edges, collapses space runs and limits
// blank-line runs to one.
func (n *Normalizer) collapseWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = n.lib.NormalizeWhitespace(strings.Join(lines, "\n"))
	return strings.TrimSpace(text)
}

// filterLines rebuilds text keeping only lines the predicate accepts. Blank
// lines always survive; paragraph structure is whitespace's concern.
func filterLines(text string, keep func(string) bool) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" || keep(line) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
