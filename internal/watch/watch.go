// Package watch notifies kite check --watch about edited source files.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Op describes a set of file operations.
type Op uint32

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

// Event is a change to one watched file.
type Event struct {
	Path string
	Op   Op
}

// Watcher reports changes to a fixed set of files using OS-native
// notifications. The parent directories are watched rather than the files
// themselves, so editors that save by replacing the file are still seen.
type Watcher struct {
	w     *fsnotify.Watcher
	files map[string]bool
	evC   chan Event
	erC   chan error
	done  chan struct{}
	once  sync.Once
}

// New starts watching the given files.
func New(paths ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	fw := &Watcher{
		w:     w,
		files: make(map[string]bool, len(paths)),
		evC:   make(chan Event, 128),
		erC:   make(chan error, 1),
		done:  make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		fw.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	go fw.loop()
	return fw, nil
}

func (fw *Watcher) loop() {
	defer close(fw.evC)
	for {
		select {
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			path, err := filepath.Abs(ev.Name)
			if err != nil || !fw.files[path] {
				continue
			}
			var op Op
			if ev.Op&fsnotify.Create != 0 {
				op |= OpCreate
			}
			if ev.Op&fsnotify.Write != 0 {
				op |= OpWrite
			}
			if ev.Op&fsnotify.Remove != 0 {
				op |= OpRemove
			}
			if ev.Op&fsnotify.Rename != 0 {
				op |= OpRename
			}
			if ev.Op&fsnotify.Chmod != 0 {
				op |= OpChmod
			}
			select {
			case fw.evC <- Event{Path: path, Op: op}:
			case <-fw.done:
				return
			}
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			select {
			case fw.erC <- err:
			default:
			}
		}
	}
}

// Events delivers changes to the watched files. It is closed by Close.
func (fw *Watcher) Events() <-chan Event { return fw.evC }

// Errors delivers watcher failures; only the oldest unread one is kept.
func (fw *Watcher) Errors() <-chan error { return fw.erC }

// Close stops watching.
func (fw *Watcher) Close() error {
	fw.once.Do(func() { close(fw.done) })
	return fw.w.Close()
}

// Run calls fn with the sorted set of files changed since the last call.
// Changes arriving within debounce of each other are batched, and events
// that only touch permissions are ignored. Run returns when ctx is done or
// the watcher is closed.
func (fw *Watcher) Run(ctx context.Context, debounce time.Duration, fn func(paths []string)) error {
	pending := make(map[string]bool)
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-fw.erC:
			return fmt.Errorf("watch failed: %w", err)
		case ev, ok := <-fw.evC:
			if !ok {
				return nil
			}
			if ev.Op&^OpChmod == 0 {
				continue
			}
			pending[ev.Path] = true
			timer.Reset(debounce)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)
			fn(paths)
		}
	}
}
