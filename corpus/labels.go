package corpus

import "fmt"

// Period is the coarse chronological bucket assigned to a document.
type Period string

const (
	// PeriodClassical covers republican and imperial era texts.
	PeriodClassical Period = "classical"

	// PeriodPostClassical covers late antique, patristic and medieval texts.
	PeriodPostClassical Period = "post_classical"
)

// Valid reports whether the period is a known label.
func (p Period) Valid() bool {
	return p == PeriodClassical || p == PeriodPostClassical
}

// Genre is the textual form bucket assigned to a document.
type Genre string

const (
	// GenreProse covers histories, orations, letters and treatises.
	GenreProse Genre = "prose"

	// GenrePoetry covers verse in any meter.
	GenrePoetry Genre = "poetry"

	// GenreMixed covers forms that interleave prose and verse.
	GenreMixed Genre = "mixed"
)

// Valid reports whether the genre is a known label.
func (g Genre) Valid() bool {
	return g == GenreProse || g == GenrePoetry || g == GenreMixed
}

// ParseGenre normalizes a declared text-type value to a Genre.
// Returns false for values outside the label set.
func ParseGenre(s string) (Genre, bool) {
	g := Genre(s)
	if g.Valid() {
		return g, true
	}
	return "", false
}

// Confidence is the ordered tier summarizing how much scoring evidence
// supported a classification.
type Confidence string

const (
	// ConfidenceHigh indicates strong corroborating evidence.
	ConfidenceHigh Confidence = "high"

	// ConfidenceMedium indicates at least one positive signal.
	ConfidenceMedium Confidence = "medium"

	// ConfidenceLow indicates only weak or fallback evidence.
	ConfidenceLow Confidence = "low"

	// ConfidenceVeryLow indicates a zero-evidence deterministic default.
	ConfidenceVeryLow Confidence = "very_low"
)

// confidenceRank orders tiers from strongest to weakest.
var confidenceRank = map[Confidence]int{
	ConfidenceHigh:    0,
	ConfidenceMedium:  1,
	ConfidenceLow:     2,
	ConfidenceVeryLow: 3,
}

// Valid reports whether the confidence is a known tier.
func (c Confidence) Valid() bool {
	_, ok := confidenceRank[c]
	return ok
}

// Min returns the weaker of two confidence tiers.
func (c Confidence) Min(other Confidence) Confidence {
	if confidenceRank[c] >= confidenceRank[other] {
		return c
	}
	return other
}

// ClassificationResult is the exhaustive label assigned to a document.
// Every field is always populated; the classifier never emits an
// unclassified state.
type ClassificationResult struct {
	// Period is the chronological bucket.
	Period Period `json:"period"`

	// PeriodConfidence is the evidence tier behind the period label.
	PeriodConfidence Confidence `json:"period_confidence"`

	// Genre is the textual form bucket.
	Genre Genre `json:"genre"`

	// GenreConfidence is the evidence tier behind the genre label.
	GenreConfidence Confidence `json:"genre_confidence"`

	// Source names the signal family that drove the decision
	// (e.g. "metadata", "category", "author", "content", "default").
	Source string `json:"source"`

	// Trace lists the signals that fired, for the audit report.
	Trace []string `json:"trace,omitempty"`
}

// Confidence returns the combined tier: the lower of the period and genre
// tiers.
func (r ClassificationResult) Confidence() Confidence {
	return r.PeriodConfidence.Min(r.GenreConfidence)
}

// Validate checks that every field carries a known label.
func (r ClassificationResult) Validate() error {
	if !r.Period.Valid() {
		return fmt.Errorf("invalid period: %q", r.Period)
	}
	if !r.Genre.Valid() {
		return fmt.Errorf("invalid genre: %q", r.Genre)
	}
	if !r.PeriodConfidence.Valid() {
		return fmt.Errorf("invalid period confidence: %q", r.PeriodConfidence)
	}
	if !r.GenreConfidence.Valid() {
		return fmt.Errorf("invalid genre confidence: %q", r.GenreConfidence)
	}
	return nil
}

// Label returns the period/genre path fragment used for label-derived
// output layout, e.g. "classical/prose".
func (r ClassificationResult) Label() string {
	return string(r.Period) + "/" + string(r.Genre)
}
