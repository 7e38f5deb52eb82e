package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docgen-cli/internal/core/domain"
	"github.com/custodia-labs/docgen-cli/internal/logger"
)

// ErrClosed is returned by Watch after Close.
var ErrClosed = errors.New("source tree watcher is closed")

// Watch watches every directory of the tree and emits changes to source
// files. The channel is closed when ctx is cancelled or the tree is closed.
func (t *Tree) Watch(ctx context.Context) (<-chan domain.SourceChange, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil, ErrClosed
	}
	if err := t.checkRoot(); err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := t.addDirs(watcher, t.root); err != nil {
		watcher.Close()
		return nil, err
	}
	if t.watcher != nil {
		t.watcher.Close()
	}
	t.watcher = watcher

	changes := make(chan domain.SourceChange)
	go t.loop(ctx, watcher, changes)
	return changes, nil
}

func (t *Tree) loop(ctx context.Context, watcher *fsnotify.Watcher, changes chan<- domain.SourceChange) {
	defer close(changes)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := t.addDirs(watcher, event.Name); err != nil {
						logger.Warn("watch %s: %v", event.Name, err)
					}
					continue
				}
			}
			change := t.handleFsEvent(event)
			if change == nil {
				continue
			}
			select {
			case changes <- *change:
			case <-ctx.Done():
				return
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error: %v", err)
		}
	}
}

// addDirs adds dir and every documentable directory below it.
func (t *Tree) addDirs(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != t.root {
			rel, err := t.rel(p)
			if err != nil {
				return err
			}
			if t.skipDir(rel) {
				return filepath.SkipDir
			}
		}
		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}

// handleFsEvent converts an fsnotify event into a source change, or nil when
// the event does not concern a documentable file.
func (t *Tree) handleFsEvent(event fsnotify.Event) *domain.SourceChange {
	rel, err := t.rel(event.Name)
	if err != nil || !t.isSource(rel) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return &domain.SourceChange{Type: domain.ChangeDeleted, Path: event.Name}
	case event.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
			return nil
		}
		return &domain.SourceChange{Type: domain.ChangeCreated, Path: event.Name}
	case event.Has(fsnotify.Write):
		return &domain.SourceChange{Type: domain.ChangeUpdated, Path: event.Name}
	default:
		return nil
	}
}

// Close stops watching. It is safe to call more than once.
func (t *Tree) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true
	if t.watcher == nil {
		return nil
	}
	err := t.watcher.Close()
	t.watcher = nil
	return err
}
