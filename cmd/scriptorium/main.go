// Package main provides the scriptorium binary entry point.
// Scriptorium converts digitized Latin documents into a normalized,
// classified corpus: gate, classify, normalize, standardize.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "scriptorium"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "scriptorium",
		Short: "Latin corpus curation engine",
		Long: `Scriptorium curates digitized historical Latin documents into a
normalized corpus suitable for language-model training.

Each document passes through four stages:
- gate: reject fragments, indexes and tables of contents
- classify: assign a period (classical/post_classical) and genre
  (prose/poetry/mixed) with a confidence tier
- normalize: strip digitization artifacts, expand abbreviations
- standardize: fold medieval orthography to one canonical alphabet

Curated texts land under <output>/<period>/<genre>/, and every decision
is recorded in a SQLite audit store.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(curateCmd())
	cmd.AddCommand(inspectCmd())
	cmd.AddCommand(watchCmd())
	cmd.AddCommand(configCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func configureLogging(logLevel string) {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}
