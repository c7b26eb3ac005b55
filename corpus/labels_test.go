package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriod_Valid(t *testing.T) {
	assert.True(t, PeriodClassical.Valid())
	assert.True(t, PeriodPostClassical.Valid())
	assert.False(t, Period("renaissance").Valid())
	assert.False(t, Period("").Valid())
}

func TestParseGenre(t *testing.T) {
	g, ok := ParseGenre("poetry")
	assert.True(t, ok)
	assert.Equal(t, GenrePoetry, g)

	_, ok = ParseGenre("verse")
	assert.False(t, ok)

	_, ok = ParseGenre("")
	assert.False(t, ok)
}

func TestConfidence_Min(t *testing.T) {
	assert.Equal(t, ConfidenceMedium, ConfidenceHigh.Min(ConfidenceMedium))
	assert.Equal(t, ConfidenceVeryLow, ConfidenceVeryLow.Min(ConfidenceHigh))
	assert.Equal(t, ConfidenceLow, ConfidenceLow.Min(ConfidenceLow))
}

func TestClassificationResult_Confidence(t *testing.T) {
	r := ClassificationResult{
		PeriodConfidence: ConfidenceHigh,
		GenreConfidence:  ConfidenceLow,
	}
	assert.Equal(t, ConfidenceLow, r.Confidence())
}

func TestClassificationResult_Validate(t *testing.T) {
	valid := ClassificationResult{
		Period:           PeriodClassical,
		PeriodConfidence: ConfidenceHigh,
		Genre:            GenreProse,
		GenreConfidence:  ConfidenceMedium,
		Source:           "category/title",
	}
	require.NoError(t, valid.Validate())

	invalid := valid
	invalid.Genre = "epic"
	assert.Error(t, invalid.Validate())

	invalid = valid
	invalid.PeriodConfidence = ""
	assert.Error(t, invalid.Validate())
}

func TestClassificationResult_Label(t *testing.T) {
	r := ClassificationResult{Period: PeriodPostClassical, Genre: GenreMixed}
	assert.Equal(t, "post_classical/mixed", r.Label())
}
