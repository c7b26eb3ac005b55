package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/c360studio/scriptorium/config"
	"github.com/c360studio/scriptorium/corpus"
	"github.com/c360studio/scriptorium/gate"
	"github.com/c360studio/scriptorium/output"
	"github.com/c360studio/scriptorium/patterns"
	"github.com/c360studio/scriptorium/pipeline"
	"github.com/c360studio/scriptorium/report"
	"github.com/c360studio/scriptorium/source"
)

// App wires the curation components together for one invocation.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	pipe    *pipeline.Pipeline
	scanner *source.Scanner
	writer  *output.Writer
	store   *report.Store

	metricsServer *http.Server
}

// NewApp builds the pipeline, scanner, writer and audit store from config.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		metrics  *pipeline.Metrics
		registry *prometheus.Registry
	)
	if cfg.Metrics.Addr != "" {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector())
		metrics = pipeline.NewMetrics(registry)
	}

	pipe, err := pipeline.New(pipeline.Config{Workers: cfg.Pipeline.Workers}, logger, metrics)
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}
	g, err := gate.New(gate.Config{MinSize: cfg.Gate.MinSize}, patterns.Default())
	if err != nil {
		return nil, fmt.Errorf("build gate: %w", err)
	}
	pipe.WithGate(g)

	scanner, err := source.NewScanner(cfg.Corpus.InputDir, cfg.Corpus.Include)
	if err != nil {
		return nil, fmt.Errorf("build scanner: %w", err)
	}
	writer, err := output.NewWriter(cfg.Corpus.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("build writer: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Report.Database), 0755); err != nil {
		return nil, fmt.Errorf("create report directory: %w", err)
	}
	store, err := report.Open(cfg.Report.Database)
	if err != nil {
		return nil, err
	}

	app := &App{
		cfg:     cfg,
		logger:  logger,
		pipe:    pipe,
		scanner: scanner,
		writer:  writer,
		store:   store,
	}

	if registry != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		app.metricsServer = &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
	}
	return app, nil
}

// Start brings up the optional metrics endpoint.
func (a *App) Start() {
	if a.metricsServer == nil {
		return
	}
	a.logger.Info("metrics endpoint listening", "addr", a.cfg.Metrics.Addr)
	go func() {
		if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("metrics endpoint failed", "error", err.Error())
		}
	}()
}

// Close releases the audit store and stops the metrics endpoint.
func (a *App) Close() error {
	if a.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.metricsServer.Shutdown(ctx)
	}
	return a.store.Close()
}

// CurateBatch scans the input directory, runs every document through the
// pipeline, writes the curated corpus and records the run in the audit
// store. Returns the batch summary.
func (a *App) CurateBatch(ctx context.Context) (pipeline.Summary, error) {
	docs, failures, err := a.scanner.LoadAll()
	if err != nil {
		return pipeline.Summary{}, fmt.Errorf("load input: %w", err)
	}
	for _, f := range failures {
		a.logger.Warn("excluding unreadable document", "file", f.Path, "error", f.Err.Error())
	}
	a.logger.Info("batch loaded",
		"documents", len(docs),
		"unreadable", len(failures),
		"input", a.cfg.Corpus.InputDir)

	outcomes, err := a.pipe.Run(ctx, docs)
	outcomes = appendLoadFailures(outcomes, failures)
	if err != nil {
		return pipeline.Summarize(outcomes), err
	}

	if _, err := a.writer.WriteAll(outcomes); err != nil {
		return pipeline.Summarize(outcomes), fmt.Errorf("write corpus: %w", err)
	}

	runID := report.NewRunID()
	if err := a.recordRun(ctx, runID, outcomes); err != nil {
		return pipeline.Summarize(outcomes), err
	}
	return pipeline.Summarize(outcomes), nil
}

// appendLoadFailures records unreadable inputs as errored outcomes so they
// appear in the summary and the audit trail alongside processed documents.
func appendLoadFailures(outcomes []pipeline.Outcome, failures []source.LoadFailure) []pipeline.Outcome {
	for _, f := range failures {
		outcomes = append(outcomes, pipeline.Outcome{
			Filename: f.Path,
			Status:   pipeline.StatusErrored,
			Err:      f.Err,
		})
	}
	return outcomes
}

// Watch processes new and rewritten input files until the context is
// cancelled. Each document is curated, written and recorded as it arrives.
func (a *App) Watch(ctx context.Context) error {
	watcher, err := source.NewWatcher(a.scanner, a.logger)
	if err != nil {
		return err
	}

	runID := report.NewRunID()
	a.logger.Info("watching for documents", "input", a.cfg.Corpus.InputDir, "run_id", runID)

	docs := make(chan corpus.Document)
	errs := make(chan error, 1)
	go func() { errs <- watcher.Watch(ctx, docs) }()

	for doc := range docs {
		outcome := a.pipe.Process(ctx, doc)
		if outcome.Status == pipeline.StatusCurated {
			if _, err := a.writer.Write(outcome); err != nil {
				a.logger.Error("write curated document", "file", outcome.Filename, "error", err.Error())
				continue
			}
		}
		if err := a.store.Insert(ctx, report.NewRecord(runID, outcome)); err != nil {
			a.logger.Error("record outcome", "file", outcome.Filename, "error", err.Error())
		}
		a.logger.Info("document processed",
			"file", outcome.Filename,
			"status", outcome.Status,
			"label", outcome.Classification.Label())
	}
	return <-errs
}

// Inspect runs one file through the pipeline without writing anything.
func (a *App) Inspect(ctx context.Context, path string) (pipeline.Outcome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pipeline.Outcome{}, fmt.Errorf("read %s: %w", path, err)
	}
	doc := corpus.Document{
		Filename: filepath.Base(path),
		Text:     string(data),
		Size:     int64(len(data)),
	}
	return a.pipe.Process(ctx, doc), nil
}

// recordRun persists audit rows and renders the plain-text summary.
func (a *App) recordRun(ctx context.Context, runID string, outcomes []pipeline.Outcome) error {
	records := make([]report.Record, 0, len(outcomes))
	for _, o := range outcomes {
		records = append(records, report.NewRecord(runID, o))
	}
	if err := a.store.InsertBatch(ctx, records); err != nil {
		return err
	}

	summary, err := a.store.Summarize(ctx, runID)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(a.cfg.Report.Summary), 0755); err != nil {
		return fmt.Errorf("create summary directory: %w", err)
	}
	f, err := os.Create(a.cfg.Report.Summary)
	if err != nil {
		return fmt.Errorf("create summary file: %w", err)
	}
	defer f.Close()
	if err := report.WriteSummary(f, summary, time.Now()); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	a.logger.Info("run recorded",
		"run_id", runID,
		"database", a.cfg.Report.Database,
		"summary", a.cfg.Report.Summary)
	return nil
}
