// Package watch reports when an event log file on disk changes, so a
// running replay can reload it.
package watch

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must be quiet before a change is
// reported. Solvers append to their logs in bursts.
const DefaultDebounce = 100 * time.Millisecond

type ChangeKind int

const (
	ChangeModified ChangeKind = iota
	ChangeRemoved
)

func (k ChangeKind) String() string {
	if k == ChangeRemoved {
		return "removed"
	}
	return "modified"
}

// Change is one debounced change of the watched file.
type Change struct {
	Kind ChangeKind
	Path string
}

// Watcher watches a single file. It watches the parent directory so that
// editors and writers that replace the file by rename are still seen.
type Watcher struct {
	Path    string
	Changes <-chan Change

	changes  chan Change
	done     chan struct{}
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

func NewWatcher(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	ch := make(chan Change, 1)
	w := &Watcher{
		Path:     abs,
		Changes:  ch,
		changes:  ch,
		done:     make(chan struct{}),
		debounce: DefaultDebounce,
		watcher:  fw,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching. On failure the watcher is released and Changes is
// closed, so Stop must not be called.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		w.watcher.Close()
		close(w.changes)
		return fmt.Errorf("watching %s: %w", w.Path, err)
	}
	go w.loop()
	return nil
}

// Stop ends the watch and closes Changes. It must be called after a
// successful Start.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	var pending *Change
	var last time.Time
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if pending != nil {
					w.emit(*pending)
				}
				return
			}
			if filepath.Clean(event.Name) != w.Path {
				continue
			}
			switch {
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				pending = &Change{Kind: ChangeRemoved, Path: w.Path}
			case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
				pending = &Change{Kind: ChangeModified, Path: w.Path}
			default:
				continue
			}
			last = time.Now()

		case <-ticker.C:
			if pending != nil && time.Since(last) >= w.debounce {
				w.emit(*pending)
				pending = nil
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// emit never blocks: a change already waiting to be read covers this one.
func (w *Watcher) emit(c Change) {
	select {
	case w.changes <- c:
	default:
	}
}
