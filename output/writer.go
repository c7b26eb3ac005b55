// Package output writes curated documents into the label-derived corpus
// layout: <root>/<period>/<genre>/<filename>.
package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/c360studio/scriptorium/pipeline"
)

// Writer persists curated pipeline outcomes under a root directory.
type Writer struct {
	root string
}

// NewWriter creates a Writer rooted at dir.
func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		return nil, fmt.Errorf("output root is required")
	}
	return &Writer{root: dir}, nil
}

// Write stores one curated outcome and returns the path written. Output
// identity is the input filename; re-running a batch overwrites in place.
func (w *Writer) Write(o pipeline.Outcome) (string, error) {
	if o.Status != pipeline.StatusCurated {
		return "", fmt.Errorf("outcome for %s is %s, not curated", o.Filename, o.Status)
	}
	if err := o.Classification.Validate(); err != nil {
		return "", fmt.Errorf("outcome for %s: %w", o.Filename, err)
	}

	// Filenames may carry input subdirectories; flatten to the base name
	// so the label directories stay two levels deep.
	name := filepath.Base(filepath.FromSlash(o.Filename))
	dir := filepath.Join(w.root,
		string(o.Classification.Period),
		string(o.Classification.Genre))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(o.Document.Text), 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// WriteAll stores every curated outcome in a batch, skipping the rest.
// Returns the paths written.
func (w *Writer) WriteAll(outcomes []pipeline.Outcome) ([]string, error) {
	paths := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Status != pipeline.StatusCurated {
			continue
		}
		path, err := w.Write(o)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
