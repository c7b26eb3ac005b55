package corpus

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMetadata_FullHeader(t *testing.T) {
	text := "Title: De Bello Gallico\n" +
		"Source: la.wikisource.org\n" +
		"Category: Latinitas Romana\n" +
		"Text Type: prose\n" +
		"--------------------------------\n" +
		"Gallia est omnis divisa in partes tres.\n"

	meta := ParseMetadata(text)
	assert.Equal(t, "De Bello Gallico", meta.Title)
	assert.Equal(t, "la.wikisource.org", meta.Source)
	assert.Equal(t, "Latinitas Romana", meta.Category)
	assert.Equal(t, "prose", meta.TextType)
	assert.False(t, meta.IsZero())
}

func TestParseMetadata_StopsAtSeparator(t *testing.T) {
	text := "Title: Carmina\n" +
		"--------------------------------\n" +
		"Category: Non Caput\n"

	meta := ParseMetadata(text)
	assert.Equal(t, "Carmina", meta.Title)
	assert.Empty(t, meta.Category)
}

func TestParseMetadata_NoHeader(t *testing.T) {
	meta := ParseMetadata("Gallia est omnis divisa in partes tres.\n")
	assert.True(t, meta.IsZero())
}

func TestParseMetadata_IgnoresFieldsBeyondScanLimit(t *testing.T) {
	text := strings.Repeat("filler line\n", 13) + "Title: Sero Nimis\n"
	meta := ParseMetadata(text)
	assert.True(t, meta.IsZero())
}

func TestHeaderEnd_SkipsHeaderBlock(t *testing.T) {
	lines := []string{
		"Title: De Bello Gallico",
		"Source: la.wikisource.org",
		"--------------------------------",
		"Gallia est omnis divisa in partes tres.",
	}
	assert.Equal(t, 3, HeaderEnd(lines))
}

func TestHeaderEnd_ShortDashRunIsNotASeparator(t *testing.T) {
	lines := []string{"Title: Carmina", "--", "arma virumque cano"}
	assert.Equal(t, 0, HeaderEnd(lines))
}

func TestHeaderEnd_NoSeparator(t *testing.T) {
	lines := []string{"Gallia est omnis divisa in partes tres."}
	assert.Equal(t, 0, HeaderEnd(lines))
}

func TestHeaderEnd_SeparatorBeyondSearchLimit(t *testing.T) {
	lines := make([]string, 0, 26)
	for i := 0; i < 25; i++ {
		lines = append(lines, "Gallia est omnis divisa in partes tres.")
	}
	lines = append(lines, "--------------------------------")
	assert.Equal(t, 0, HeaderEnd(lines))
}

func TestDocument_WithText_PreservesIdentityAndSize(t *testing.T) {
	doc := Document{Filename: "bellum.txt", Text: "original", Size: 8}

	got := doc.WithText("mutatum")
	assert.Equal(t, "bellum.txt", got.Filename)
	assert.Equal(t, "mutatum", got.Text)
	assert.Equal(t, int64(8), got.Size)
	assert.Equal(t, "original", doc.Text)
}
