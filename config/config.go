// Package config provides configuration loading and management for
// Scriptorium.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete Scriptorium configuration
type Config struct {
	Corpus   CorpusConfig   `yaml:"corpus"`
	Gate     GateConfig     `yaml:"gate"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Report   ReportConfig   `yaml:"report"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// CorpusConfig configures the input and output locations
type CorpusConfig struct {
	// InputDir is the directory holding raw digitized documents
	InputDir string `yaml:"input_dir"`
	// OutputDir is the root the curated corpus is written under
	OutputDir string `yaml:"output_dir"`
	// Include are doublestar glob patterns selecting input files
	Include []string `yaml:"include"`
}

// GateConfig configures the structural gate
type GateConfig struct {
	// MinSize is the minimum retainable file size in bytes
	MinSize int64 `yaml:"min_size"`
}

// PipelineConfig configures batch execution
type PipelineConfig struct {
	// Workers bounds the documents processed concurrently
	Workers int `yaml:"workers"`
}

// ReportConfig configures the audit outputs
type ReportConfig struct {
	// Database is the path of the SQLite audit store
	Database string `yaml:"database"`
	// Summary is the path of the plain-text run summary
	Summary string `yaml:"summary"`
}

// MetricsConfig configures the optional Prometheus endpoint
type MetricsConfig struct {
	// Addr is the listen address (empty = metrics disabled)
	Addr string `yaml:"addr"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			InputDir:  "", // Defaults to the working directory
			OutputDir: "curated",
			Include:   []string{"**/*.txt"},
		},
		Gate: GateConfig{
			MinSize: 200,
		},
		Pipeline: PipelineConfig{
			Workers: 4,
		},
		Report: ReportConfig{
			Database: "curated/audit.db",
			Summary:  "curated/summary.txt",
		},
		Metrics: MetricsConfig{
			Addr: "", // Disabled
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Corpus.OutputDir == "" {
		return fmt.Errorf("corpus.output_dir is required")
	}
	if len(c.Corpus.Include) == 0 {
		return fmt.Errorf("corpus.include must list at least one pattern")
	}
	if c.Gate.MinSize < 0 {
		return fmt.Errorf("gate.min_size must not be negative")
	}
	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("pipeline.workers must be at least 1")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Corpus
	if other.Corpus.InputDir != "" {
		c.Corpus.InputDir = other.Corpus.InputDir
	}
	if other.Corpus.OutputDir != "" {
		c.Corpus.OutputDir = other.Corpus.OutputDir
	}
	if len(other.Corpus.Include) > 0 {
		c.Corpus.Include = other.Corpus.Include
	}

	// Gate
	if other.Gate.MinSize != 0 {
		c.Gate.MinSize = other.Gate.MinSize
	}

	// Pipeline
	if other.Pipeline.Workers != 0 {
		c.Pipeline.Workers = other.Pipeline.Workers
	}

	// Report
	if other.Report.Database != "" {
		c.Report.Database = other.Report.Database
	}
	if other.Report.Summary != "" {
		c.Report.Summary = other.Report.Summary
	}

	// Metrics
	if other.Metrics.Addr != "" {
		c.Metrics.Addr = other.Metrics.Addr
	}
}
