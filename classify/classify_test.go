package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/scriptorium/corpus"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := New(nil)
	require.NoError(t, err)
	return c
}

func TestClassifier_Classify_TotalOnEmptyInput(t *testing.T) {
	c := newTestClassifier(t)

	result := c.Classify(corpus.Document{}, corpus.Metadata{})
	require.NoError(t, result.Validate())
	assert.Equal(t, corpus.PeriodClassical, result.Period)
	assert.Equal(t, corpus.ConfidenceVeryLow, result.PeriodConfidence)
	assert.Equal(t, corpus.GenreProse, result.Genre)
	assert.Equal(t, corpus.ConfidenceVeryLow, result.GenreConfidence)
	assert.Equal(t, "default/default", result.Source)
	assert.NotEmpty(t, result.Trace)
}

func TestClassifier_Classify_CategoryDrivesPeriod(t *testing.T) {
	c := newTestClassifier(t)

	doc := corpus.Document{Filename: "opus.txt"}
	meta := corpus.Metadata{Title: "Opus incertum", Category: "Latinitas Romana"}

	result := c.Classify(doc, meta)
	assert.Equal(t, corpus.PeriodClassical, result.Period)
	assert.Equal(t, corpus.ConfidenceHigh, result.PeriodConfidence)
	assert.Equal(t, "category/default", result.Source)
}

func TestClassifier_Classify_MedievalCategory(t *testing.T) {
	c := newTestClassifier(t)

	doc := corpus.Document{Filename: "opus.txt"}
	meta := corpus.Metadata{Title: "Opus incertum", Category: "Latinitas Mediaevalis"}

	result := c.Classify(doc, meta)
	assert.Equal(t, corpus.PeriodPostClassical, result.Period)
	assert.Equal(t, corpus.ConfidenceHigh, result.PeriodConfidence)
}

func TestClassifier_Classify_AuthorInTitle(t *testing.T) {
	c := newTestClassifier(t)

	doc := corpus.Document{Filename: "caesar.txt"}
	meta := corpus.Metadata{Title: "C. Iulii Caesaris vita"}

	result := c.Classify(doc, meta)
	assert.Equal(t, corpus.PeriodClassical, result.Period)
	assert.Equal(t, corpus.ConfidenceHigh, result.PeriodConfidence)
	assert.Equal(t, corpus.GenreProse, result.Genre)
	assert.Equal(t, "author/title", result.Source)
	assert.Equal(t, "classical/prose", result.Label())
}

func TestClassifier_Classify_TieResolvesToDefaultPeriod(t *testing.T) {
	c := newTestClassifier(t)

	doc := corpus.Document{Filename: "opus.txt"}
	meta := corpus.Metadata{Title: "Opus incertum", Category: "classical et medieval"}

	result := c.Classify(doc, meta)
	assert.Equal(t, DefaultPeriod, result.Period)
	assert.Equal(t, corpus.ConfidenceHigh, result.PeriodConfidence)
}

func TestClassifier_Classify_DeclaredTextTypeShortCircuits(t *testing.T) {
	c := newTestClassifier(t)

	doc := corpus.Document{Filename: "opus.txt"}
	meta := corpus.Metadata{Title: "Opus incertum", TextType: "Poetry"}

	result := c.Classify(doc, meta)
	assert.Equal(t, corpus.GenrePoetry, result.Genre)
	assert.Equal(t, corpus.ConfidenceHigh, result.GenreConfidence)
	assert.Equal(t, "default/metadata", result.Source)
}

func TestClassifier_Classify_UnknownTextTypeIsScored(t *testing.T) {
	c := newTestClassifier(t)

	doc := corpus.Document{Filename: "carmina.txt"}
	meta := corpus.Metadata{Title: "Carmina", TextType: "verse"}

	result := c.Classify(doc, meta)
	assert.Equal(t, corpus.GenrePoetry, result.Genre)
	assert.NotEqual(t, "default/metadata", result.Source)
}

func TestClassifier_Classify_VocabularyEvidence(t *testing.T) {
	c := newTestClassifier(t)

	doc := corpus.Document{
		Filename: "fragmentum.txt",
		Text:     "senatus et populus romanus imperium tenent. consulatus et forum florent.\n",
	}

	result := c.Classify(doc, corpus.Metadata{})
	assert.Equal(t, corpus.PeriodClassical, result.Period)
	assert.Equal(t, corpus.ConfidenceMedium, result.PeriodConfidence)
	assert.Equal(t, "content/default", result.Source)
}

func TestClassifier_Classify_VerseShape(t *testing.T) {
	c := newTestClassifier(t)

	lines := []string{
		"arma virumque cano",
		"troiae qui primus",
		"lavinia venit litora",
		"multum ille terris",
		"vi superum memorem",
		"iunonis ob iram",
		"multa belli passus",
		"dum conderet urbem",
		"inferretque deos",
		"unde genus albani",
		"albanique patres",
		"moenia romae altae",
	}
	doc := corpus.Document{Filename: "fragmentum.txt", Text: strings.Join(lines, "\n")}

	result := c.Classify(doc, corpus.Metadata{})
	assert.Equal(t, corpus.GenrePoetry, result.Genre)
	assert.Equal(t, corpus.ConfidenceHigh, result.GenreConfidence)
	assert.Equal(t, "default/content", result.Source)
}

func TestClassifier_Classify_ProseShape(t *testing.T) {
	c := newTestClassifier(t)

	line := "gallia est omnis divisa in partes tres quarum unam incolunt belgae " +
		"aliam aquitani nam enim autem ita gestum atque confectum esse constat."
	doc := corpus.Document{
		Filename: "fragmentum.txt",
		Text:     strings.Repeat(line+"\n", 8),
	}

	result := c.Classify(doc, corpus.Metadata{})
	assert.Equal(t, corpus.GenreProse, result.Genre)
	assert.Equal(t, corpus.ConfidenceHigh, result.GenreConfidence)
	assert.Equal(t, "default/content", result.Source)
}

func TestClassifier_Classify_FallbackWorkTitle(t *testing.T) {
	c := newTestClassifier(t)

	doc := corpus.Document{Filename: "rome.txt"}
	meta := corpus.Metadata{Title: "The History of Rome"}

	result := c.Classify(doc, meta)
	assert.Equal(t, corpus.GenreProse, result.Genre)
	assert.Equal(t, corpus.ConfidenceLow, result.GenreConfidence)
	assert.Equal(t, "default/title", result.Source)
}

func TestClassifier_Classify_ZeroEvidenceGuessTerm(t *testing.T) {
	c := newTestClassifier(t)

	doc := corpus.Document{Filename: "saint.txt"}
	meta := corpus.Metadata{Title: "Life of a Saint"}

	result := c.Classify(doc, meta)
	assert.Equal(t, corpus.PeriodPostClassical, result.Period)
	assert.Equal(t, corpus.ConfidenceLow, result.PeriodConfidence)
}

func TestDefaultLexicon_Valid(t *testing.T) {
	lex, err := DefaultLexicon()
	require.NoError(t, err)
	assert.NotEmpty(t, lex.Period.ClassicalAuthors)
	assert.NotEmpty(t, lex.Genre.AuthorAffinity)
	assert.Equal(t, corpus.GenrePoetry, lex.Genre.AuthorAffinity["vergilius"])
}

func TestParseLexicon_RejectsEmptyTable(t *testing.T) {
	_, err := ParseLexicon([]byte(`
period:
  classical_category_keywords: [romana]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be empty")
}

func TestParseLexicon_RejectsInvalidAffinity(t *testing.T) {
	_, err := ParseLexicon([]byte(`
period:
  classical_category_keywords: [romana]
  post_classical_category_keywords: [medieval]
  classical_authors: [cicero]
  late_authors: [augustinus]
  classical_vocabulary: [senatus]
  post_classical_vocabulary: [ecclesia]
genre:
  poetry_titles: [carmen]
  prose_titles: [historia]
  prose_connectors: [autem]
  author_affinity:
    cicero: lyric
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid genre")
}

func TestParseLexicon_RejectsBadYAML(t *testing.T) {
	_, err := ParseLexicon([]byte("{unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse lexicon")
}
