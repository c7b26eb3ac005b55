package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/c360studio/scriptorium/corpus"
)

// Watcher emits documents as files matching the scanner's patterns are
// created or rewritten under the root. Intended for incremental curation of
// a drop directory.
type Watcher struct {
	scanner *Scanner
	logger  *slog.Logger
}

// NewWatcher creates a Watcher over the scanner's root.
func NewWatcher(scanner *Scanner, logger *slog.Logger) (*Watcher, error) {
	if scanner == nil {
		return nil, fmt.Errorf("scanner is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{scanner: scanner, logger: logger}, nil
}

// Watch blocks until the context is cancelled, sending each new or
// rewritten matching document to out. Subdirectories created while watching
// are picked up. The channel is closed on return.
func (w *Watcher) Watch(ctx context.Context, out chan<- corpus.Document) error {
	defer close(out)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addRecursive(fsw, w.scanner.root); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, fsw, event, out)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err.Error())
		}
	}
}

func (w *Watcher) handle(ctx context.Context, fsw *fsnotify.Watcher, event fsnotify.Event, out chan<- corpus.Document) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}
	if info.IsDir() {
		if event.Has(fsnotify.Create) {
			if err := w.addRecursive(fsw, event.Name); err != nil {
				w.logger.Warn("watch new directory", "path", event.Name, "error", err.Error())
			}
		}
		return
	}

	rel, err := filepath.Rel(w.scanner.root, event.Name)
	if err != nil || !w.scanner.Matches(rel) {
		return
	}

	doc, err := w.scanner.Load(filepath.ToSlash(rel))
	if err != nil {
		w.logger.Warn("load watched file", "path", rel, "error", err.Error())
		return
	}

	select {
	case out <- doc:
	case <-ctx.Done():
	}
}

func (w *Watcher) addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := fsw.Add(path); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
		}
		return nil
	})
}
