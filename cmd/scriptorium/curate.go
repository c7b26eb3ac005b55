package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/scriptorium/config"
)

// batchFlags are the config overrides shared by curate and watch.
type batchFlags struct {
	configPath  string
	inputDir    string
	outputDir   string
	workers     int
	minSize     int64
	metricsAddr string
}

func (f *batchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().StringVarP(&f.inputDir, "input", "i", "", "Input directory of raw documents")
	cmd.Flags().StringVarP(&f.outputDir, "output", "o", "", "Output directory for the curated corpus")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Concurrent documents (default from config)")
	cmd.Flags().Int64Var(&f.minSize, "min-size", 0, "Minimum retainable file size in bytes")
	cmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "Prometheus listen address (e.g. :9090)")
}

// load resolves layered config and applies flag overrides on top.
func (f *batchFlags) load() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if f.configPath != "" {
		cfg, err = config.LoadFromFile(f.configPath)
	} else {
		cfg, err = config.NewLoader(slog.Default()).Load()
	}
	if err != nil {
		return nil, err
	}

	cfg.Merge(&config.Config{
		Corpus: config.CorpusConfig{
			InputDir:  f.inputDir,
			OutputDir: f.outputDir,
		},
		Gate:     config.GateConfig{MinSize: f.minSize},
		Pipeline: config.PipelineConfig{Workers: f.workers},
		Metrics:  config.MetricsConfig{Addr: f.metricsAddr},
	})
	if cfg.Corpus.InputDir == "" {
		if cwd, err := os.Getwd(); err == nil {
			cfg.Corpus.InputDir = cwd
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func curateCmd() *cobra.Command {
	var flags batchFlags

	cmd := &cobra.Command{
		Use:   "curate",
		Short: "Curate every matching document in the input directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}

			app, err := NewApp(cfg, slog.Default())
			if err != nil {
				return err
			}
			defer app.Close()
			app.Start()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			summary, err := app.CurateBatch(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Processed %d documents: %d curated, %d rejected, %d errored\n",
				summary.Total, summary.Curated, summary.Rejected, summary.Errored)
			for label, count := range summary.ByLabel {
				fmt.Printf("  %s: %d\n", label, count)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
