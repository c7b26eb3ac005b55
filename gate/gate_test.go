package gate

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/scriptorium/corpus"
)

func newTestGate(t *testing.T) *Gate {
	t.Helper()
	g, err := New(Config{MinSize: 50}, nil)
	require.NoError(t, err)
	return g
}

func document(text string) corpus.Document {
	return corpus.Document{Filename: "doc.txt", Text: text, Size: int64(len(text))}
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	assert.Error(t, Config{MinSize: -1}.Validate())
}

func TestNew_ZeroMinSizeUsesDefault(t *testing.T) {
	g, err := New(Config{}, nil)
	require.NoError(t, err)

	result := g.Evaluate(document(strings.Repeat("a", 100)))
	assert.False(t, result.Retain)
	assert.Equal(t, ReasonTooSmall, result.Reason)
	assert.Contains(t, result.Detail, "200")
}

func TestGate_Evaluate_RejectsTooSmall(t *testing.T) {
	g := newTestGate(t)

	result := g.Evaluate(document("brevis."))
	assert.False(t, result.Retain)
	assert.Equal(t, ReasonTooSmall, result.Reason)
}

func TestGate_Evaluate_RejectsUndecodable(t *testing.T) {
	g := newTestGate(t)

	result := g.Evaluate(document(strings.Repeat("gallia est omnis ", 5) + "\xff\xfe"))
	assert.False(t, result.Retain)
	assert.Equal(t, ReasonUndecodable, result.Reason)
}

func TestGate_Evaluate_RejectsChapterIndex(t *testing.T) {
	g := newTestGate(t)

	var sb strings.Builder
	for i := 1; i <= 12; i++ {
		fmt.Fprintf(&sb, "Liber %d. De rebus gestis\n", i)
	}

	result := g.Evaluate(document(sb.String()))
	assert.False(t, result.Retain)
	assert.Equal(t, ReasonIndexContent, result.Reason)
	assert.NotEmpty(t, result.Evidence)
	assert.Contains(t, result.Evidence[0], "chapter reference")
}

func TestGate_Evaluate_RejectsBulletIndex(t *testing.T) {
	g := newTestGate(t)

	var sb strings.Builder
	for i := 1; i <= 12; i++ {
		fmt.Fprintf(&sb, "* Index entry number %d\n", i)
	}

	result := g.Evaluate(document(sb.String()))
	assert.False(t, result.Retain)
	assert.Equal(t, ReasonIndexContent, result.Reason)
	assert.NotEmpty(t, result.Evidence)
}

func TestGate_Evaluate_RejectsNonProseShape(t *testing.T) {
	g := newTestGate(t)

	var sb strings.Builder
	for i := 0; i < 10; i++ {
		sb.WriteString("@# %& ^!\n")
	}

	result := g.Evaluate(document(sb.String()))
	assert.False(t, result.Retain)
	assert.Equal(t, ReasonIndexContent, result.Reason)
	assert.Contains(t, result.Evidence[0], "non-prose shape")
}

func TestGate_Evaluate_RetainsProse(t *testing.T) {
	g := newTestGate(t)

	text := "Gallia est omnis divisa in partes tres, quarum unam incolunt Belgae.\n" +
		"Aliam Aquitani, tertiam qui ipsorum lingua Celtae, nostra Galli appellantur.\n" +
		"Hi omnes lingua, institutis, legibus inter se differunt.\n"

	result := g.Evaluate(document(text))
	assert.True(t, result.Retain)
	assert.Empty(t, result.Reason)
	assert.Empty(t, result.Evidence)
}

func TestGate_Evaluate_SkipsMetadataHeader(t *testing.T) {
	g := newTestGate(t)

	text := "Title: De Bello Gallico\n" +
		"Source: la.wikisource.org\n" +
		"--------------------------------\n" +
		"Gallia est omnis divisa in partes tres, quarum unam incolunt Belgae.\n" +
		"Hi omnes lingua, institutis, legibus inter se differunt.\n"

	result := g.Evaluate(document(text))
	assert.True(t, result.Retain)
}

func TestGate_Evaluate_RetainsHeaderOnlyDocument(t *testing.T) {
	g := newTestGate(t)

	// Emptiness after normalization is the pipeline's call, not the gate's.
	text := "Title: De Bello Gallico et de moribus Germanorum\n" +
		"--------------------------------\n"

	result := g.Evaluate(document(text))
	assert.True(t, result.Retain)
}
