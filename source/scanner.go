// Package source discovers and loads raw documents from the input
// directory, by glob scan or by filesystem watch.
package source

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/c360studio/scriptorium/corpus"
)

// Scanner finds input files under a root directory using doublestar glob
// patterns.
type Scanner struct {
	root    string
	include []string
}

// NewScanner creates a Scanner. At least one include pattern is required.
func NewScanner(root string, include []string) (*Scanner, error) {
	if root == "" {
		return nil, fmt.Errorf("input root is required")
	}
	if len(include) == 0 {
		return nil, fmt.Errorf("at least one include pattern is required")
	}
	for _, pattern := range include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern %q", pattern)
		}
	}
	return &Scanner{root: root, include: include}, nil
}

// Scan returns the matching file paths, relative to the root, sorted and
// de-duplicated. Runs are deterministic: same tree, same list.
func (s *Scanner) Scan() ([]string, error) {
	seen := make(map[string]struct{})
	fsys := os.DirFS(s.root)

	for _, pattern := range s.include {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, match := range matches {
			info, err := fs.Stat(fsys, match)
			if err != nil || info.IsDir() {
				continue
			}
			seen[match] = struct{}{}
		}
	}

	paths := make([]string, 0, len(seen))
	for path := range seen {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// Matches reports whether a path relative to the root matches any include
// pattern.
func (s *Scanner) Matches(rel string) bool {
	for _, pattern := range s.include {
		if ok, err := doublestar.Match(pattern, filepath.ToSlash(rel)); err == nil && ok {
			return true
		}
	}
	return false
}

// Load reads one input file into a Document. The document's filename is the
// path relative to the scan root, preserving any subdirectory structure.
func (s *Scanner) Load(rel string) (corpus.Document, error) {
	full := filepath.Join(s.root, filepath.FromSlash(rel))
	data, err := os.ReadFile(full)
	if err != nil {
		return corpus.Document{}, fmt.Errorf("read %s: %w", rel, err)
	}
	return corpus.Document{
		Filename: rel,
		Text:     string(data),
		Size:     int64(len(data)),
	}, nil
}

// LoadFailure records a matched file that could not be read.
type LoadFailure struct {
	Path string
	Err  error
}

// LoadAll scans and loads every matching document. A file that cannot be
// read is returned as a failure, not an error: one bad file must not stop
// the batch.
func (s *Scanner) LoadAll() ([]corpus.Document, []LoadFailure, error) {
	paths, err := s.Scan()
	if err != nil {
		return nil, nil, err
	}
	docs := make([]corpus.Document, 0, len(paths))
	var failures []LoadFailure
	for _, path := range paths {
		doc, err := s.Load(path)
		if err != nil {
			failures = append(failures, LoadFailure{Path: path, Err: err})
			continue
		}
		docs = append(docs, doc)
	}
	return docs, failures, nil
}
