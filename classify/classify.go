// Package classify assigns an exhaustive (period, genre, confidence) label
// to every document. Classification is a total function: ties and
// zero-evidence cases resolve to deterministic defaults, never to an
// unclassified state.
package classify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/c360studio/scriptorium/corpus"
)

// Deterministic defaults. These encode corpus-composition assumptions:
// change them and classification outcomes change with no bug present.
const (
	// DefaultPeriod resolves exact period-score ties.
	DefaultPeriod = corpus.PeriodClassical

	// DefaultGenre resolves zero-evidence genre decisions.
	DefaultGenre = corpus.GenreProse
)

// Signal weights, in descending order of trust.
const (
	weightCategory      = 5.0
	weightAuthor        = 3.0
	weightTitle         = 3.0
	weightAffinity      = 2.0
	weightVocabularyHit = 0.5
	weightVocabularyCap = 2.0
	weightFallback      = 1.0
)

// contentSampleLines bounds how much content the shape analysis inspects.
const contentSampleLines = 100

var (
	verseMarkers = regexp.MustCompile(`\b(carmen|versus|metra|hymn|elegia)\b`)
	proseMarkers = regexp.MustCompile(`\b(liber|capitulum|sectio|paragraph|oratio)\b`)
	wordToken    = regexp.MustCompile(`\w+`)
)

// Classifier assigns period and genre labels by weighted multi-signal
// scoring over a static lexicon. It performs read-only inspection and has
// no side effects beyond the returned result and its signal trace.
type Classifier struct {
	lex *Lexicon
}

// New creates a Classifier over the given lexicon. A nil lexicon loads the
// embedded default tables.
func New(lex *Lexicon) (*Classifier, error) {
	if lex == nil {
		var err error
		lex, err = DefaultLexicon()
		if err != nil {
			return nil, err
		}
	}
	return &Classifier{lex: lex}, nil
}

// MustNew creates a Classifier, panicking on malformed tables.
// Use for the embedded known-good lexicon.
func MustNew(lex *Lexicon) *Classifier {
	c, err := New(lex)
	if err != nil {
		panic(err)
	}
	return c
}

// periodScore is the fixed-field accumulator for period evidence. Using a
// struct rather than a map makes totality checkable: there is no key that
// can be absent at decision time.
type periodScore struct {
	classical     float64
	postClassical float64
}

func (s periodScore) max() float64 {
	if s.classical >= s.postClassical {
		return s.classical
	}
	return s.postClassical
}

// genreScore is the fixed-field accumulator for genre evidence.
type genreScore struct {
	poetry float64
	prose  float64
	mixed  float64
}

func (s genreScore) max() float64 {
	m := s.poetry
	if s.prose > m {
		m = s.prose
	}
	if s.mixed > m {
		m = s.mixed
	}
	return m
}

// Classify assigns a fully populated classification to a document.
// Every input yields a result, including empty metadata and empty content.
func (c *Classifier) Classify(doc corpus.Document, meta corpus.Metadata) corpus.ClassificationResult {
	title := meta.Title
	if title == "" {
		title = doc.Filename
	}
	sample := contentSample(doc.Text)

	var trace []string

	period, periodConf, periodSource := c.classifyPeriod(title, meta.Category, sample, &trace)

	// A declared text type short-circuits genre scoring: the curator
	// already told us.
	genre, genreConf, genreSource := corpus.Genre(""), corpus.Confidence(""), ""
	if declared, ok := corpus.ParseGenre(strings.ToLower(meta.TextType)); ok {
		genre, genreConf, genreSource = declared, corpus.ConfidenceHigh, "metadata"
		trace = append(trace, fmt.Sprintf("genre: declared text type %q", declared))
	} else {
		genre, genreConf, genreSource = c.classifyGenre(title, sample, &trace)
	}

	return corpus.ClassificationResult{
		Period:           period,
		PeriodConfidence: periodConf,
		Genre:            genre,
		GenreConfidence:  genreConf,
		Source:           periodSource + "/" + genreSource,
		Trace:            trace,
	}
}

// classifyPeriod accumulates weighted period evidence and resolves it to a
// label. Exact ties resolve to DefaultPeriod.
func (c *Classifier) classifyPeriod(title, category, sample string, trace *[]string) (corpus.Period, corpus.Confidence, string) {
	var score periodScore
	source := "default"

	// Declared category keywords: strongest signal.
	if category != "" {
		lower := strings.ToLower(category)
		for _, kw := range c.lex.Period.ClassicalCategoryKeywords {
			if strings.Contains(lower, kw) {
				score.classical += weightCategory
				*trace = append(*trace, "period: classical category keyword "+kw)
				source = "category"
			}
		}
		for _, kw := range c.lex.Period.PostClassicalCategoryKeywords {
			if strings.Contains(lower, kw) {
				score.postClassical += weightCategory
				*trace = append(*trace, "period: post-classical category keyword "+kw)
				source = "category"
			}
		}
	}

	// Author lexicon membership by era bucket.
	lowerTitle := strings.ToLower(title)
	for _, author := range c.lex.Period.ClassicalAuthors {
		if strings.Contains(lowerTitle, author) {
			score.classical += weightAuthor
			*trace = append(*trace, "period: classical author "+author)
			if source == "default" {
				source = "author"
			}
		}
	}
	for _, author := range c.lex.Period.LateAuthors {
		if strings.Contains(lowerTitle, author) {
			score.postClassical += weightAuthor
			*trace = append(*trace, "period: late author "+author)
			if source == "default" {
				source = "author"
			}
		}
	}
	for _, author := range c.lex.Period.MedievalAuthors {
		if strings.Contains(lowerTitle, author) {
			score.postClassical += weightAuthor
			*trace = append(*trace, "period: medieval author "+author)
			if source == "default" {
				source = "author"
			}
		}
	}

	// Vocabulary co-occurrence in the content sample, saturating.
	if sample != "" {
		lowerSample := strings.ToLower(sample)
		if hits := countMembers(lowerSample, c.lex.Period.ClassicalVocabulary); hits > 0 {
			score.classical += saturate(float64(hits)*weightVocabularyHit, weightVocabularyCap)
			*trace = append(*trace, fmt.Sprintf("period: %d classical vocabulary hits", hits))
			if source == "default" {
				source = "content"
			}
		}
		if hits := countMembers(lowerSample, c.lex.Period.PostClassicalVocabulary); hits > 0 {
			score.postClassical += saturate(float64(hits)*weightVocabularyHit, weightVocabularyCap)
			*trace = append(*trace, fmt.Sprintf("period: %d post-classical vocabulary hits", hits))
			if source == "default" {
				source = "content"
			}
		}
	}

	// Weak title fallbacks, consulted only when both buckets are zero.
	if score.max() == 0 {
		for _, hint := range c.lex.Period.ClassicalTitleHints {
			if strings.Contains(lowerTitle, hint) {
				score.classical += weightFallback
				*trace = append(*trace, "period: classical title hint "+hint)
				source = "title"
			}
		}
		for _, hint := range c.lex.Period.PostClassicalTitleHints {
			if strings.Contains(lowerTitle, hint) {
				score.postClassical += weightFallback
				*trace = append(*trace, "period: post-classical title hint "+hint)
				source = "title"
			}
		}
	}

	// Zero evidence: educated guess, then the documented default.
	if score.max() == 0 {
		for _, term := range c.lex.Period.ClassicalGuessTerms {
			if strings.Contains(lowerTitle, term) {
				*trace = append(*trace, "period: zero-evidence classical guess "+term)
				return corpus.PeriodClassical, corpus.ConfidenceLow, "title"
			}
		}
		for _, term := range c.lex.Period.PostClassicalGuessTerms {
			if strings.Contains(lowerTitle, term) {
				*trace = append(*trace, "period: zero-evidence post-classical guess "+term)
				return corpus.PeriodPostClassical, corpus.ConfidenceLow, "title"
			}
		}
		*trace = append(*trace, "period: zero evidence, default "+string(DefaultPeriod))
		return DefaultPeriod, corpus.ConfidenceVeryLow, "default"
	}

	// Ties resolve to the default period.
	winner, winning := DefaultPeriod, score.classical
	if score.postClassical > score.classical {
		winner, winning = corpus.PeriodPostClassical, score.postClassical
	}
	return winner, periodConfidence(winning), source
}

// periodConfidence derives the tier from the winning score magnitude.
func periodConfidence(score float64) corpus.Confidence {
	switch {
	case score >= 3:
		return corpus.ConfidenceHigh
	case score >= 1:
		return corpus.ConfidenceMedium
	default:
		return corpus.ConfidenceLow
	}
}

// classifyGenre accumulates weighted genre evidence. The fallback chain
// guarantees a populated result: title re-check, author re-check, then an
// unconditional DefaultGenre at the lowest tier.
func (c *Classifier) classifyGenre(title, sample string, trace *[]string) (corpus.Genre, corpus.Confidence, string) {
	var score genreScore
	source := "default"
	lowerTitle := strings.ToLower(title)

	for _, ind := range c.lex.Genre.PoetryTitles {
		if strings.Contains(lowerTitle, ind) {
			score.poetry += weightTitle
			*trace = append(*trace, "genre: poetry title indicator "+ind)
			source = "title"
		}
	}
	for _, ind := range c.lex.Genre.ProseTitles {
		if strings.Contains(lowerTitle, ind) {
			score.prose += weightTitle
			*trace = append(*trace, "genre: prose title indicator "+ind)
			source = "title"
		}
	}
	for _, ind := range c.lex.Genre.MixedTitles {
		if strings.Contains(lowerTitle, ind) {
			score.mixed += weightTitle
			*trace = append(*trace, "genre: mixed title indicator "+ind)
			source = "title"
		}
	}

	for author, genre := range c.lex.Genre.AuthorAffinity {
		if !strings.Contains(lowerTitle, author) {
			continue
		}
		switch genre {
		case corpus.GenrePoetry:
			score.poetry += weightAffinity
		case corpus.GenreProse:
			score.prose += weightAffinity
		default:
			score.mixed += weightAffinity
		}
		*trace = append(*trace, fmt.Sprintf("genre: author %s suggests %s", author, genre))
		if source == "default" {
			source = "author"
		}
	}

	if c.scoreContentShape(sample, &score, trace) && source == "default" {
		source = "content"
	}

	// Zero-evidence fallbacks, in order: title works, then authors.
	if score.max() == 0 {
		switch {
		case containsAny(lowerTitle, c.lex.Genre.PoetryFallbackWorks):
			score.poetry += weightFallback
			source = "title"
		case containsAny(lowerTitle, c.lex.Genre.ProseFallbackWorks):
			score.prose += weightFallback
			source = "title"
		case containsAny(lowerTitle, c.lex.Genre.PoetryFallbackAuthors):
			score.poetry += weightFallback
			source = "author"
		case containsAny(lowerTitle, c.lex.Genre.ProseFallbackAuthors):
			score.prose += weightFallback
			source = "author"
		}
	}

	max := score.max()
	if max == 0 {
		*trace = append(*trace, "genre: zero evidence, default "+string(DefaultGenre))
		return DefaultGenre, corpus.ConfidenceVeryLow, "default"
	}

	// Bucket priority on equal scores: poetry, prose, mixed.
	genre := corpus.GenreMixed
	switch max {
	case score.poetry:
		genre = corpus.GenrePoetry
	case score.prose:
		genre = corpus.GenreProse
	}
	return genre, genreConfidence(max), source
}

// scoreContentShape analyzes line-shape statistics of the content sample.
// Returns true when any shape signal fired.
func (c *Classifier) scoreContentShape(sample string, score *genreScore, trace *[]string) bool {
	lines := nonEmptyLines(sample)
	if len(lines) <= 5 {
		return false
	}
	fired := false
	add := func(bucket *float64, weight float64, signal string) {
		*bucket += weight
		*trace = append(*trace, "genre: "+signal)
		fired = true
	}

	var shortLines, veryShortLines, longLines int
	var periodEndings, nonPeriodEndings int
	for _, line := range lines {
		n := len(line)
		if n >= 20 && n <= 80 {
			shortLines++
		}
		if n >= 10 && n < 30 {
			veryShortLines++
		}
		if n > 100 {
			longLines++
		}
		if strings.HasSuffix(line, ".") {
			periodEndings++
		} else {
			nonPeriodEndings++
		}
	}

	total := float64(len(lines))
	if float64(veryShortLines) > total*0.3 {
		add(&score.poetry, 2, "verse-length line proportion")
	}
	if shortLines > longLines*2 {
		add(&score.poetry, 1, "medium lines dominate long lines")
	}
	if float64(longLines) > total*0.2 {
		add(&score.prose, 2, "long-line proportion")
	}
	if nonPeriodEndings > periodEndings*2 {
		add(&score.poetry, 1, "non-sentence line endings dominate")
	}
	if periodEndings > nonPeriodEndings {
		add(&score.prose, 1, "sentence-final line endings dominate")
	}

	lowerSample := strings.ToLower(sample)
	if words := len(wordToken.FindAllString(sample, -1)); words > 0 {
		connectors := 0
		for _, conn := range c.lex.Genre.ProseConnectors {
			connectors += strings.Count(lowerSample, conn)
		}
		if connectors > words/100 {
			add(&score.prose, 1, "prose-connective density")
		}
	}

	if verseMarkers.MatchString(lowerSample) {
		add(&score.poetry, 1, "verse keyword marker")
	}
	if proseMarkers.MatchString(lowerSample) {
		add(&score.prose, 1, "prose structure marker")
	}

	// Rough meter check: hexameter-length lines without sentence endings.
	probe := lines
	if len(probe) > 20 {
		probe = probe[:20]
	}
	meterLike := 0
	for _, line := range probe {
		if n := len(line); n >= 30 && n <= 60 && !strings.HasSuffix(line, ".") {
			meterLike++
		}
	}
	if float64(meterLike) > float64(len(probe))*0.4 {
		add(&score.poetry, 1, "meter-length line proportion")
	}

	return fired
}

// genreConfidence derives the tier from the winning score magnitude.
func genreConfidence(score float64) corpus.Confidence {
	switch {
	case score >= 4:
		return corpus.ConfidenceHigh
	case score >= 2:
		return corpus.ConfidenceMedium
	case score >= 1:
		return corpus.ConfidenceLow
	default:
		return corpus.ConfidenceVeryLow
	}
}

// contentSample returns the first contentSampleLines lines after the
// header block.
func contentSample(text string) string {
	lines := strings.Split(text, "\n")
	lines = lines[corpus.HeaderEnd(lines):]
	if len(lines) > contentSampleLines {
		lines = lines[:contentSampleLines]
	}
	return strings.Join(lines, "\n")
}

// nonEmptyLines splits and trims, dropping blanks.
func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// countMembers counts list entries contained in text.
func countMembers(text string, list []string) int {
	n := 0
	for _, entry := range list {
		if strings.Contains(text, entry) {
			n++
		}
	}
	return n
}

// containsAny reports whether text contains any list entry.
func containsAny(text string, list []string) bool {
	return countMembers(text, list) > 0
}

// saturate caps a score contribution.
func saturate(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}
