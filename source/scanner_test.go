package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/scriptorium/corpus"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func TestNewScanner_RejectsBadInput(t *testing.T) {
	_, err := NewScanner("", []string{"*.txt"})
	assert.Error(t, err)

	_, err = NewScanner(t.TempDir(), nil)
	assert.Error(t, err)

	_, err = NewScanner(t.TempDir(), []string{"["})
	assert.Error(t, err)
}

func TestScanner_Scan_MatchesPatternsSorted(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.txt", "bellum")
	writeFile(t, root, "a.txt", "annales")
	writeFile(t, root, "sub/c.txt", "carmina")
	writeFile(t, root, "notes.md", "ignored")

	s, err := NewScanner(root, []string{"**/*.txt"})
	require.NoError(t, err)

	paths, err := s.Scan()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt", "sub/c.txt"}, paths)
}

func TestScanner_Scan_DeduplicatesOverlappingPatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "annales")

	s, err := NewScanner(root, []string{"**/*.txt", "a.*"})
	require.NoError(t, err)

	paths, err := s.Scan()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, paths)
}

func TestScanner_Load_KeepsRelativeIdentity(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "sub/c.txt", "carmina et elegiae")

	s, err := NewScanner(root, []string{"**/*.txt"})
	require.NoError(t, err)

	doc, err := s.Load("sub/c.txt")
	require.NoError(t, err)
	assert.Equal(t, corpus.Document{
		Filename: "sub/c.txt",
		Text:     "carmina et elegiae",
		Size:     18,
	}, doc)
}

func TestScanner_LoadAll(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "annales")
	writeFile(t, root, "b.txt", "bellum")

	s, err := NewScanner(root, []string{"*.txt"})
	require.NoError(t, err)

	docs, failures, err := s.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, docs, 2)
	assert.Equal(t, "a.txt", docs[0].Filename)
	assert.Equal(t, "b.txt", docs[1].Filename)
}

func TestScanner_LoadAll_CollectsUnreadableFiles(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	root := t.TempDir()
	writeFile(t, root, "bonus.txt", "gallia est omnis")
	writeFile(t, root, "malus.txt", "occultum")
	require.NoError(t, os.Chmod(filepath.Join(root, "malus.txt"), 0o000))

	s, err := NewScanner(root, []string{"*.txt"})
	require.NoError(t, err)

	docs, failures, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "bonus.txt", docs[0].Filename)
	require.Len(t, failures, 1)
	assert.Equal(t, "malus.txt", failures[0].Path)
	assert.Error(t, failures[0].Err)
}

func TestWatcher_EmitsNewMatchingFile(t *testing.T) {
	root := t.TempDir()

	s, err := NewScanner(root, []string{"**/*.txt"})
	require.NoError(t, err)
	w, err := NewWatcher(s, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan corpus.Document, 1)
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx, out) }()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, root, "novum.txt", "gallia est omnis")
	writeFile(t, root, "ignored.md", "not matched")

	select {
	case doc := <-out:
		assert.Equal(t, "novum.txt", doc.Filename)
		assert.Equal(t, "gallia est omnis", doc.Text)
	case <-time.After(5 * time.Second):
		t.Fatal("no document emitted within timeout")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
