// Package watcher provides recursive file system watching with debouncing
// for a git working tree.
package watcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/hunky/internal/log"
)

// Watcher monitors a repository's working tree and signals when files
// change. Bursts of events (editor save, branch switch) collapse into a
// single notification after the debounce window passes quietly.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	root      string
	debounce  time.Duration
	onChange  chan struct{}
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	Root        string
	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for a repository root.
func DefaultConfig(root string) Config {
	return Config{
		Root:        root,
		DebounceDur: 500 * time.Millisecond,
	}
}

// New creates a watcher for the working tree at cfg.Root.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		root:      cfg.Root,
		debounce:  cfg.DebounceDur,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start registers every directory under the root and begins watching.
// Returns a channel that receives a signal when the working tree changes.
func (w *Watcher) Start() (<-chan struct{}, error) {
	if err := w.addRecursive(w.root); err != nil {
		return nil, err
	}

	// Watch the index directly: commits and staging modify .git/index
	// without touching the working tree.
	indexDir := filepath.Join(w.root, ".git")
	if _, err := os.Stat(indexDir); err == nil {
		if err := w.fsWatcher.Add(indexDir); err != nil {
			log.Warn(log.CatWatcher, "cannot watch git dir", "path", indexDir, "error", err.Error())
		}
	}

	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// addRecursive registers dir and all its subdirectories, skipping .git.
// An unreadable or missing root is fatal; unreadable entries below it
// are skipped.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("watch root %s: %w", dir, err)
			}
			return nil // unreadable entries are not fatal
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" && path != dir {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			log.Warn(log.CatWatcher, "cannot watch dir", "path", path, "error", err.Error())
		}
		return nil
	})
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if !w.isRelevantEvent(event) {
				continue
			}

			// New directories need their own watches.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(event.Name); err != nil {
						log.Warn(log.CatWatcher, "cannot watch new dir", "path", event.Name, "error", err.Error())
					}
				}
			}

			// Reset or start debounce timer
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				pending = true
			} else {
				if !timer.Stop() {
					// Drain the timer channel if it already fired
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
				pending = true
			}

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending {
				// Non-blocking send - drop if channel full
				select {
				case w.onChange <- struct{}{}:
				default:
				}
				pending = false
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Warn(log.CatWatcher, "fsnotify error", "error", err.Error())

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent filters events from .git internals. The index file is
// the one exception: staging and committing change it, and both alter
// what counts as uncommitted.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	if rel == ".git/index" {
		return true
	}
	if rel == ".git" || strings.HasPrefix(rel, ".git/") {
		return false
	}
	return true
}
