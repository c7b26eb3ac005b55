// Package report records curation outcomes: per-document audit rows in a
// SQLite store plus a human-readable run summary.
package report

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/c360studio/scriptorium/pipeline"
)

// Record is one document's audit row.
type Record struct {
	RunID    string `json:"run_id"`
	Filename string `json:"filename"`
	Status   string `json:"status"`

	Period           string `json:"period,omitempty"`
	Genre            string `json:"genre,omitempty"`
	PeriodConfidence string `json:"period_confidence,omitempty"`
	GenreConfidence  string `json:"genre_confidence,omitempty"`

	// Source names the signals the classification came from.
	Source string `json:"source,omitempty"`

	// RejectReason is set for rejected documents.
	RejectReason string `json:"reject_reason,omitempty"`

	// ContentHash is the BLAKE3 digest of the curated text. Re-running the
	// pipeline over its own output must reproduce it.
	ContentHash string `json:"content_hash,omitempty"`

	ProcessedAt time.Time `json:"processed_at"`
}

// NewRunID returns a fresh identifier for one pipeline run.
func NewRunID() string {
	return uuid.NewString()
}

// NewRecord builds an audit row from a pipeline outcome.
func NewRecord(runID string, o pipeline.Outcome) Record {
	r := Record{
		RunID:       runID,
		Filename:    o.Filename,
		Status:      string(o.Status),
		ProcessedAt: time.Now().UTC(),
	}

	switch o.Status {
	case pipeline.StatusCurated:
		r.Period = string(o.Classification.Period)
		r.Genre = string(o.Classification.Genre)
		r.PeriodConfidence = string(o.Classification.PeriodConfidence)
		r.GenreConfidence = string(o.Classification.GenreConfidence)
		r.Source = o.Classification.Source
		r.ContentHash = HashText(o.Document.Text)
	case pipeline.StatusRejected:
		if o.Rejection != nil {
			r.RejectReason = string(o.Rejection.Reason)
		}
	case pipeline.StatusErrored:
		if o.Err != nil {
			r.RejectReason = o.Err.Error()
		}
	}
	return r
}

// HashText returns the hex BLAKE3 digest of text.
func HashText(text string) string {
	sum := blake3.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
