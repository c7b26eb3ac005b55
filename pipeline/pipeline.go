// Package pipeline sequences the curation stages: gate, classify,
// normalize, standardize. Stage order is fixed; per-document failures are
// outcomes, never batch failures.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/c360studio/scriptorium/classify"
	"github.com/c360studio/scriptorium/corpus"
	"github.com/c360studio/scriptorium/gate"
	"github.com/c360studio/scriptorium/normalize"
	"github.com/c360studio/scriptorium/orthography"
	"github.com/c360studio/scriptorium/patterns"
)

// Status is the terminal state of one document.
type Status string

const (
	// StatusCurated means the document passed the gate and every
	// transform; its text is ready for the corpus.
	StatusCurated Status = "curated"

	// StatusRejected means the gate (or the empty-output check) excluded
	// the document. Rejection is an outcome, not an error.
	StatusRejected Status = "rejected"

	// StatusErrored means processing was interrupted, e.g. by context
	// cancellation.
	StatusErrored Status = "errored"
)

// Outcome is the result of processing one document.
type Outcome struct {
	// Filename identifies the input; output identity is keyed by it.
	Filename string `json:"filename"`

	Status Status `json:"status"`

	// Document carries the fully transformed text when curated.
	Document corpus.Document `json:"-"`

	// Classification is set for curated documents.
	Classification corpus.ClassificationResult `json:"classification,omitempty"`

	// Rejection is set for rejected documents.
	Rejection *gate.Result `json:"rejection,omitempty"`

	// Err is set for errored documents.
	Err error `json:"-"`
}

// Stage is one named step of the pipeline. Stages run in slice order; a
// stage reporting done short-circuits the rest.
type Stage struct {
	Name string
	run  func(ctx context.Context, s *state) (done bool)
}

// state is the mutable document context threaded through the stages.
type state struct {
	doc     corpus.Document
	meta    corpus.Metadata
	outcome Outcome
}

// Config holds pipeline execution settings.
type Config struct {
	// Workers bounds the concurrent documents in a batch run.
	Workers int `yaml:"workers"`
}

// DefaultConfig returns the pipeline defaults.
func DefaultConfig() Config {
	return Config{Workers: 4}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

// Pipeline runs documents through the fixed stage sequence. Safe for
// concurrent use once constructed.
type Pipeline struct {
	config     Config
	gate       *gate.Gate
	classifier *classify.Classifier
	normalizer *normalize.Normalizer
	standard   *orthography.Standardizer
	stages     []Stage
	logger     *slog.Logger
	metrics    *Metrics
}

// New assembles a pipeline. Nil components are built with defaults; a nil
// metrics value records nothing.
func New(cfg Config, logger *slog.Logger, metrics *Metrics) (*Pipeline, error) {
	if cfg.Workers == 0 {
		cfg.Workers = DefaultConfig().Workers
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	lib := patterns.Default()

	g, err := gate.New(gate.DefaultConfig(), lib)
	if err != nil {
		return nil, fmt.Errorf("build gate: %w", err)
	}
	lex, err := classify.DefaultLexicon()
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}
	cls, err := classify.New(lex)
	if err != nil {
		return nil, fmt.Errorf("build classifier: %w", err)
	}
	norm, err := normalize.New(lib, nil)
	if err != nil {
		return nil, fmt.Errorf("build normalizer: %w", err)
	}
	std, err := orthography.New(lib, nil)
	if err != nil {
		return nil, fmt.Errorf("build standardizer: %w", err)
	}

	p := &Pipeline{
		config:     cfg,
		gate:       g,
		classifier: cls,
		normalizer: norm,
		standard:   std,
		logger:     logger,
		metrics:    metrics,
	}
	p.stages = []Stage{
		{"gate", p.runGate},
		{"classify", p.runClassify},
		{"normalize", p.runNormalize},
		{"standardize", p.runStandardize},
	}
	return p, nil
}

// Stages returns the stage names in execution order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// WithGate replaces the structural gate, e.g. to carry a configured
// minimum size.
func (p *Pipeline) WithGate(g *gate.Gate) *Pipeline {
	if g != nil {
		p.gate = g
	}
	return p
}

// Process runs one document through every stage in order. The result is
// always a terminal Outcome; Process never returns an error.
func (p *Pipeline) Process(ctx context.Context, doc corpus.Document) Outcome {
	start := time.Now()
	s := &state{
		doc:     doc,
		meta:    corpus.ParseMetadata(doc.Text),
		outcome: Outcome{Filename: doc.Filename},
	}

	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			s.outcome.Status = StatusErrored
			s.outcome.Err = fmt.Errorf("stage %s: %w", stage.Name, err)
			break
		}
		if done := stage.run(ctx, s); done {
			break
		}
	}

	p.observe(s.outcome, time.Since(start))
	return s.outcome
}

func (p *Pipeline) runGate(_ context.Context, s *state) bool {
	result := p.gate.Evaluate(s.doc)
	if !result.Retain {
		s.outcome.Status = StatusRejected
		s.outcome.Rejection = &result
		p.logger.Debug("document rejected",
			"file", s.doc.Filename,
			"reason", result.Reason,
			"detail", result.Detail)
		return true
	}
	return false
}

func (p *Pipeline) runClassify(_ context.Context, s *state) bool {
	s.outcome.Classification = p.classifier.Classify(s.doc, s.meta)
	return false
}

func (p *Pipeline) runNormalize(_ context.Context, s *state) bool {
	s.doc = p.normalizer.Normalize(s.doc)
	return false
}

func (p *Pipeline) runStandardize(_ context.Context, s *state) bool {
	s.doc = p.standard.Standardize(s.doc)

	if strings.TrimSpace(s.doc.Text) == "" {
		s.outcome.Status = StatusRejected
		s.outcome.Rejection = &gate.Result{
			Retain: false,
			Reason: gate.ReasonEmptyOutput,
			Detail: "no content survived normalization",
		}
		p.logger.Debug("document rejected",
			"file", s.doc.Filename,
			"reason", gate.ReasonEmptyOutput)
		return true
	}

	s.outcome.Status = StatusCurated
	s.outcome.Document = s.doc
	p.logger.Debug("document curated",
		"file", s.doc.Filename,
		"label", s.outcome.Classification.Label(),
		"confidence", s.outcome.Classification.Confidence())
	return true
}

// Run processes a batch with a bounded worker pool. Outcomes preserve input
// order. Run returns an error only when the context is cancelled before
// every document reaches a terminal outcome.
func (p *Pipeline) Run(ctx context.Context, docs []corpus.Document) ([]Outcome, error) {
	outcomes := make([]Outcome, len(docs))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(p.config.Workers)
	for i, doc := range docs {
		i, doc := i, doc
		group.Go(func() error {
			outcomes[i] = p.Process(ctx, doc)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return outcomes, err
	}
	if err := ctx.Err(); err != nil {
		return outcomes, err
	}

	summary := Summarize(outcomes)
	p.logger.Info("batch complete",
		"total", summary.Total,
		"curated", summary.Curated,
		"rejected", summary.Rejected,
		"errored", summary.Errored)
	return outcomes, nil
}

func (p *Pipeline) observe(o Outcome, elapsed time.Duration) {
	if p.metrics == nil {
		return
	}
	p.metrics.observe(o, elapsed)
}

// Summary aggregates a batch of outcomes.
type Summary struct {
	Total    int `json:"total"`
	Curated  int `json:"curated"`
	Rejected int `json:"rejected"`
	Errored  int `json:"errored"`

	// ByLabel counts curated documents per period/genre label.
	ByLabel map[string]int `json:"by_label,omitempty"`

	// ByReason counts rejections per reason.
	ByReason map[gate.RejectReason]int `json:"by_reason,omitempty"`
}

// Summarize folds outcomes into a batch summary.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{
		Total:    len(outcomes),
		ByLabel:  make(map[string]int),
		ByReason: make(map[gate.RejectReason]int),
	}
	for _, o := range outcomes {
		switch o.Status {
		case StatusCurated:
			s.Curated++
			s.ByLabel[o.Classification.Label()]++
		case StatusRejected:
			s.Rejected++
			if o.Rejection != nil {
				s.ByReason[o.Rejection.Reason]++
			}
		case StatusErrored:
			s.Errored++
		}
	}
	return s
}
