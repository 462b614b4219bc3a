// Package file provides a facet.Watcher that emits a record file's contents
// whenever it changes on disk.
package file

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a single file holding one source record.
//
// The parent directory is watched rather than the file itself so that
// editors and deploy tools that replace the file by rename keep working.
type Watcher struct {
	path string
}

// New creates a Watcher for the file at path.
func New(path string) *Watcher {
	return &Watcher{path: path}
}

// Watch emits the current contents immediately, then the new contents
// after every write, create or rename that lands on the path. Empty reads
// (a truncate observed mid-write) and unchanged contents are skipped.
//
// An empty file produces no initial payload, so a Projection's Start waits
// for the first write. Bound that wait with Projection.StartupTimeout.
func (w *Watcher) Watch(ctx context.Context) (<-chan []byte, error) {
	if _, err := os.Stat(w.path); err != nil {
		return nil, fmt.Errorf("failed to stat file %s: %w", w.path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	target := filepath.Clean(w.path)
	if err := fsw.Add(filepath.Dir(target)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch directory of %s: %w", w.path, err)
	}

	out := make(chan []byte)

	go func() {
		defer close(out)
		defer fsw.Close()

		var last []byte
		emit := func() bool {
			data, err := os.ReadFile(target)
			if err != nil || len(data) == 0 || bytes.Equal(data, last) {
				return true
			}
			last = data
			select {
			case out <- data:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if !emit() {
					return
				}

			case _, ok := <-fsw.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return out, nil
}
