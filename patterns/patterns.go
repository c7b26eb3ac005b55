// Package patterns provides the precompiled pattern library shared read-only
// by every curation stage. The library is initialized once per process and
// never mutated; stages hold it by reference.
package patterns

import (
	"regexp"
	"strings"
	"sync"
)

// romanNumeralBody is the canonical Roman numeral grammar. It also matches
// the empty string, so callers must pair it with a non-empty check.
const romanNumeralBody = `M{0,4}(?:CM|CD|D?C{0,3})(?:XC|XL|L?X{0,3})(?:IX|IV|V?I{0,3})`

// AllowedPunctuation is the punctuation set retained in curated output.
const AllowedPunctuation = `.,:;!?'"-()[]`

// Library is an immutable collection of precompiled text patterns.
type Library struct {
	// romanNumeral matches a complete Roman numeral form.
	romanNumeral *regexp.Regexp

	// romanStart captures a leading Roman numeral plus trailing
	// punctuation at the start of a line.
	romanStart *regexp.Regexp

	// chapterHeadings are full-line chapter/book/section heading forms.
	chapterHeadings []*regexp.Regexp

	// ChapterReference matches inline book/chapter reference forms used
	// for index detection.
	ChapterReference *regexp.Regexp

	// NumberedEntry matches table-of-contents style numbered entries.
	NumberedEntry *regexp.Regexp

	// PageNumber matches bare page-number lines.
	PageNumber *regexp.Regexp

	// FunctionWords matches a small set of common function words used by
	// the non-prose heuristic.
	FunctionWords *regexp.Regexp

	// LongLetterRun matches a run of four or more letters, the minimum
	// evidence that a line contains running text.
	LongLetterRun *regexp.Regexp

	// StandalonePunct matches lines consisting only of punctuation.
	StandalonePunct *regexp.Regexp

	// SeparatorLine matches divider lines of dashes, dots or asterisks.
	SeparatorLine *regexp.Regexp

	// CommentariumSection matches an ==Commentarium== section through to
	// the end of the text.
	CommentariumSection *regexp.Regexp

	// CategoryLine matches Categoria:/Category: metadata lines.
	CategoryLine *regexp.Regexp

	// SectionMarkup matches ==...== wiki section headings.
	SectionMarkup *regexp.Regexp

	// WikiLink captures the label of [[...]] links.
	WikiLink *regexp.Regexp

	// WikiTemplate matches {{...}} templates.
	WikiTemplate *regexp.Regexp

	// BoldMarkup and ItalicMarkup capture wiki emphasis runs.
	BoldMarkup   *regexp.Regexp
	ItalicMarkup *regexp.Regexp

	// URL matches bare http/https URLs.
	URL *regexp.Regexp

	// editorial are bracketed editorial annotations ([ed. ...], [sic],
	// [lacuna], ...).
	editorial []*regexp.Regexp

	// footnoteBracket and footnoteParen match numeric footnote markers.
	footnoteBracket *regexp.Regexp
	footnoteParen   *regexp.Regexp

	// punctuation-run collapse patterns, one per allowed mark.
	punctRuns []punctRun

	// spaceBeforePunct and punctBeforeLetter fix punctuation spacing.
	spaceBeforePunct  *regexp.Regexp
	punctBeforeLetter *regexp.Regexp

	// multiSpace, multiNewline and crlf normalize whitespace.
	multiSpace   *regexp.Regexp
	multiNewline *regexp.Regexp
	crlf         *regexp.Regexp

	// dashRun and ellipsis normalize dash and ellipsis glyphs.
	dashRun  *regexp.Regexp
	ellipsis *regexp.Regexp

	// emptyQuotes match quote pairs left empty after other removals.
	emptyDoubleQuotes *regexp.Regexp
	emptySingleQuotes *regexp.Regexp
}

var (
	defaultLibrary *Library
	defaultOnce    sync.Once
)

// Default returns the process-wide pattern library.
func Default() *Library {
	defaultOnce.Do(func() {
		defaultLibrary = newLibrary()
	})
	return defaultLibrary
}

func newLibrary() *Library {
	headingForms := []string{
		`^\s*cap\s*\.?\s*[ivxlcdm\d]*\s*[.\-–—]?\s*$`,
		`^\s*caput\s+[ivxlcdm\d]+\s*[.\-–—]?\s*$`,
		`^\s*capitulum\s+[ivxlcdm\d]+\s*[.\-–—]?\s*$`,
		`^\s*liber\s+[ivxlcdm\d]+\s*[.\-–—]?\s*$`,
		`^\s*pars\s+[ivxlcdm\d]+\s*[.\-–—]?\s*$`,
		`^\s*sectio\s+[ivxlcdm\d]+\s*[.\-–—]?\s*$`,
		`^\s*book\s+[ivxlcdm\d]+\s*[.\-–—]?\s*$`,
		`^\s*chapter\s+[ivxlcdm\d]+\s*[.\-–—]?\s*$`,
	}
	headings := make([]*regexp.Regexp, 0, len(headingForms))
	for _, form := range headingForms {
		headings = append(headings, regexp.MustCompile(`(?i)`+form))
	}

	editorialForms := []string{
		`(?i)\[[^\]]*?ed\.[^\]]*?\]`,
		`(?i)\[[^\]]*?edit[^\]]*?\]`,
		`(?i)\[sic\]`,
		`\[[^\]]*?\?\]`,
		`\[\.{3,}\]`,
		`(?i)\[lacuna\]`,
		`(?i)\[gap\]`,
		`(?i)\[missing\]`,
		`(?i)\[corrupt\]`,
		`(?i)\[illegible\]`,
	}
	editorial := make([]*regexp.Regexp, 0, len(editorialForms))
	for _, form := range editorialForms {
		editorial = append(editorial, regexp.MustCompile(form))
	}

	marks := []struct{ pattern, mark string }{
		{`\.`, "."}, {`,`, ","}, {`;`, ";"}, {`:`, ":"}, {`!`, "!"}, {`\?`, "?"},
	}
	punctRuns := make([]punctRun, 0, len(marks))
	for _, m := range marks {
		punctRuns = append(punctRuns, punctRun{
			re:   regexp.MustCompile(m.pattern + `{2,}`),
			mark: m.mark,
		})
	}

	return &Library{
		romanNumeral:        regexp.MustCompile(`(?i)^` + romanNumeralBody + `$`),
		romanStart:          regexp.MustCompile(`(?i)^(` + romanNumeralBody + `)[.\s\-–—]*`),
		chapterHeadings:     headings,
		ChapterReference:    regexp.MustCompile(`(?i)(liber|book|chapter|capitulum|epistul|carmen|versus|sectio|pars)\s+[ivxlcdm0-9]+`),
		NumberedEntry:       regexp.MustCompile(`(?i)^[ivxlcdm0-9]+[.\s\-]`),
		PageNumber:          regexp.MustCompile(`(?i)^\s*\d+\s*$|^\s*p\.\s*\d+`),
		FunctionWords:       regexp.MustCompile(`(?i)\b(et|in|de|ad|cum|ex|pro|per|ab)\b`),
		LongLetterRun:       regexp.MustCompile(`[a-zA-Z]{4,}`),
		StandalonePunct:     regexp.MustCompile(`^[.,:;!?\-–—"'()\[\]{}]+$`),
		SeparatorLine:       regexp.MustCompile(`^[\s\-–—.=*#]+$`),
		CommentariumSection: regexp.MustCompile(`(?is)==\s*Commentarium\s*==.*`),
		CategoryLine:        regexp.MustCompile(`(?im)^Categor(?:ia|y):[^\n]*$`),
		SectionMarkup:       regexp.MustCompile(`==+[^=\n]*==+`),
		WikiLink:            regexp.MustCompile(`\[\[([^\]]+)\]\]`),
		WikiTemplate:        regexp.MustCompile(`\{\{[^}]*\}\}`),
		BoldMarkup:          regexp.MustCompile(`'''([^']+)'''`),
		ItalicMarkup:        regexp.MustCompile(`''([^']+)''`),
		URL:                 regexp.MustCompile(`https?://[^\s]+`),
		editorial:           editorial,
		footnoteBracket:     regexp.MustCompile(`\[\d+\]`),
		footnoteParen:       regexp.MustCompile(`\(\d+\)`),
		punctRuns:           punctRuns,
		spaceBeforePunct:    regexp.MustCompile(`[ \t]+([,.;:!?])`),
		punctBeforeLetter:   regexp.MustCompile(`([,.;:!?])([a-zA-Z])`),
		multiSpace:          regexp.MustCompile(`[ \t]{2,}`),
		multiNewline:        regexp.MustCompile(`\n{3,}`),
		crlf:                regexp.MustCompile(`\r\n?`),
		dashRun:             regexp.MustCompile(`[–—]`),
		ellipsis:            regexp.MustCompile(`…`),
		emptyDoubleQuotes:   regexp.MustCompile(`"\s*"`),
		emptySingleQuotes:   regexp.MustCompile(`'\s*'`),
	}
}

// IsRomanNumeral reports whether s is a complete Roman numeral form.
func (l *Library) IsRomanNumeral(s string) bool {
	return s != "" && l.romanNumeral.MatchString(s)
}

// IsChapterHeading reports whether a line is a full-line chapter, book or
// section heading.
func (l *Library) IsChapterHeading(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	for _, p := range l.chapterHeadings {
		if p.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// TrimRomanStart strips a leading Roman numeral (with trailing punctuation)
// from a line, reporting whether one was present.
func (l *Library) TrimRomanStart(line string) (rest string, ok bool) {
	m := l.romanStart.FindStringSubmatch(line)
	if m == nil || m[1] == "" {
		return line, false
	}
	return strings.TrimSpace(line[len(m[0]):]), true
}

// NormalizeWhitespace converts line endings, replaces tabs, collapses space
// runs and limits consecutive newlines to two.
func (l *Library) NormalizeWhitespace(text string) string {
	text = l.crlf.ReplaceAllString(text, "\n")
	text = strings.ReplaceAll(text, "\t", " ")
	text = l.multiSpace.ReplaceAllString(text, " ")
	return l.multiNewline.ReplaceAllString(text, "\n\n")
}

// punctRun pairs a repeated-punctuation pattern with its single-mark
// replacement.
type punctRun struct {
	re   *regexp.Regexp
	mark string
}

// CollapsePunctuation collapses repeated punctuation runs and fixes spacing
// before and after punctuation marks.
func (l *Library) CollapsePunctuation(text string) string {
	for _, p := range l.punctRuns {
		text = p.re.ReplaceAllString(text, p.mark)
	}
	text = l.spaceBeforePunct.ReplaceAllString(text, "$1")
	text = l.punctBeforeLetter.ReplaceAllString(text, "$1 $2")
	return text
}

// StripEditorial removes bracketed editorial annotations and numeric
// footnote markers.
func (l *Library) StripEditorial(text string) string {
	for _, p := range l.editorial {
		text = p.ReplaceAllString(text, "")
	}
	text = l.footnoteBracket.ReplaceAllString(text, "")
	return l.footnoteParen.ReplaceAllString(text, "")
}

// NormalizeGlyphs folds dash and ellipsis glyphs to their ASCII forms and
// drops quote pairs left empty by earlier removals.
func (l *Library) NormalizeGlyphs(text string) string {
	text = l.dashRun.ReplaceAllString(text, "-")
	text = l.ellipsis.ReplaceAllString(text, "...")
	text = l.emptyDoubleQuotes.ReplaceAllString(text, "")
	return l.emptySingleQuotes.ReplaceAllString(text, "")
}
