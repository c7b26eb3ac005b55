// Package gate provides the structural gate: the accept/reject filter that
// keeps fragmentary, index and table-of-contents files out of the corpus.
package gate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/c360studio/scriptorium/corpus"
	"github.com/c360studio/scriptorium/patterns"
)

// RejectReason identifies why a document was rejected.
type RejectReason string

const (
	// ReasonTooSmall indicates the raw byte size was below the minimum.
	ReasonTooSmall RejectReason = "too_small"

	// ReasonIndexContent indicates the content shape looked like an
	// index or table of contents rather than running text.
	ReasonIndexContent RejectReason = "index_content"

	// ReasonUndecodable indicates the content was not valid UTF-8.
	ReasonUndecodable RejectReason = "undecodable"

	// ReasonEmptyOutput indicates normalization left no content. Assigned
	// by the pipeline after the transform stages run.
	ReasonEmptyOutput RejectReason = "empty_output"
)

// Result is the gate's decision for one document.
type Result struct {
	// Retain is true when the document should continue through the
	// pipeline.
	Retain bool `json:"retain"`

	// Reason is set when Retain is false.
	Reason RejectReason `json:"reason,omitempty"`

	// Detail is a human-readable explanation of the rejection.
	Detail string `json:"detail,omitempty"`

	// Evidence lists the specific matched lines behind an index
	// rejection, for auditability.
	Evidence []string `json:"evidence,omitempty"`
}

// Config holds gate thresholds.
type Config struct {
	// MinSize is the minimum retainable raw size in bytes.
	MinSize int64 `yaml:"min_size"`
}

// DefaultConfig returns the gate defaults.
func DefaultConfig() Config {
	return Config{MinSize: 200}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.MinSize < 0 {
		return fmt.Errorf("min_size must not be negative, got %d", c.MinSize)
	}
	return nil
}

// Gate classifies documents as retain or reject using line-shape heuristics
// over the shared pattern library.
type Gate struct {
	config Config
	lib    *patterns.Library
}

// New creates a Gate. A zero MinSize falls back to the default threshold.
func New(cfg Config, lib *patterns.Library) (*Gate, error) {
	if cfg.MinSize == 0 {
		cfg.MinSize = DefaultConfig().MinSize
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if lib == nil {
		lib = patterns.Default()
	}
	return &Gate{config: cfg, lib: lib}, nil
}

// sampleLines bounds how much of a document the index heuristics inspect.
const (
	sampleLines      = 50
	nonProseSample   = 30
	shortLineMax     = 20
	maxEvidenceChars = 50
)

// Evaluate decides whether a document should be retained. Rejections are
// classification outcomes, not errors; the specific matched evidence is
// returned for the audit trail.
func (g *Gate) Evaluate(doc corpus.Document) Result {
	if doc.Size < g.config.MinSize {
		return Result{
			Retain: false,
			Reason: ReasonTooSmall,
			Detail: fmt.Sprintf("too small (%d bytes < %d)", doc.Size, g.config.MinSize),
		}
	}

	if !utf8.ValidString(doc.Text) {
		return Result{
			Retain: false,
			Reason: ReasonUndecodable,
			Detail: "content is not valid UTF-8",
		}
	}

	if rejected, evidence := g.detectIndexContent(doc.Text); rejected {
		return Result{
			Retain:   false,
			Reason:   ReasonIndexContent,
			Detail:   fmt.Sprintf("index/TOC content detected (%d patterns)", len(evidence)),
			Evidence: evidence,
		}
	}

	return Result{Retain: true}
}

// detectIndexContent inspects content shape after the header block for
// index and table-of-contents signatures.
func (g *Gate) detectIndexContent(text string) (bool, []string) {
	lines := strings.Split(text, "\n")
	lines = lines[corpus.HeaderEnd(lines):]

	content := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			content = append(content, trimmed)
		}
	}
	if len(content) == 0 {
		return false, nil
	}

	var (
		evidence     []string
		chapterLike  int
		bulletPoints int
	)

	sample := content
	if len(sample) > sampleLines {
		sample = sample[:sampleLines]
	}
	for _, line := range sample {
		switch {
		case g.lib.ChapterReference.MatchString(line):
			chapterLike++
			evidence = append(evidence, "chapter reference: "+clip(line))
		case g.lib.NumberedEntry.MatchString(line) && len(line) < 80:
			chapterLike++
			evidence = append(evidence, "numbered entry: "+clip(line))
		case strings.HasPrefix(line, "*") && len(line) < 100:
			bulletPoints++
			evidence = append(evidence, "bullet: "+clip(strings.TrimLeft(line, "* ")))
		case g.lib.PageNumber.MatchString(line):
			evidence = append(evidence, "page number: "+clip(line))
		}
	}

	total := len(content)

	// Strong indicator: many chapter-like lines dominating the sample.
	if chapterLike > 5 && float64(chapterLike) > float64(total)*0.3 {
		return true, evidence
	}

	// Many short bullet points in a short document.
	if bulletPoints > 10 && total < 100 {
		return true, evidence
	}

	// Very short documents that are mostly structural lines.
	if total < 30 && float64(chapterLike+bulletPoints) > float64(total)*0.5 {
		return true, evidence
	}

	// Non-prose heuristic: short lines with no letter runs, no sentence
	// ending and no function words.
	nonProse := 0
	probe := content
	if len(probe) > nonProseSample {
		probe = probe[:nonProseSample]
	}
	for _, line := range probe {
		if len(line) < shortLineMax &&
			!g.lib.LongLetterRun.MatchString(line) &&
			!strings.HasSuffix(line, ".") &&
			!g.lib.FunctionWords.MatchString(line) {
			nonProse++
		}
	}
	if float64(nonProse) > float64(total)*0.4 && total < 50 {
		if len(evidence) == 0 {
			evidence = append(evidence, fmt.Sprintf("non-prose shape: %d/%d sampled lines", nonProse, len(probe)))
		}
		return true, evidence
	}

	return false, nil
}

// clip truncates evidence strings to a displayable length.
func clip(s string) string {
	if len(s) <= maxEvidenceChars {
		return s
	}
	return s[:maxEvidenceChars] + "..."
}
