// Package watcher reports directories whose contents changed on disk.
package watcher

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kk-code-lab/rview/internal/events"
	"github.com/kk-code-lab/rview/internal/logging"
)

// Changed is posted once per burst of filesystem events in Dir. Paths lists
// the children named by the events, sorted; it is empty when only Dir itself
// was reported.
type Changed struct {
	Dir   string
	Paths []string
}

// Poster accepts events without blocking.
type Poster interface {
	Post(ev events.Event)
}

// Watcher watches a small set of directories, usually the current one and
// the hovered one.
type Watcher struct {
	fsw      *fsnotify.Watcher
	sink     Poster
	debounce time.Duration

	mu     sync.Mutex
	dirs   map[string]struct{}
	timers  map[string]*time.Timer
	pending map[string]map[string]struct{}
	closed  bool

	done chan struct{}
}

// New starts a watcher. Bursts of events within debounce collapse into one
// Changed event.
func New(sink Poster, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("cannot create watcher: %w", err)
	}
	w := &Watcher{
		fsw:      fsw,
		sink:     sink,
		debounce: debounce,
		dirs:     make(map[string]struct{}),
		timers:   make(map[string]*time.Timer),
		pending:  make(map[string]map[string]struct{}),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Watch replaces the watched set with dirs. Directories that cannot be
// watched are logged and skipped.
func (w *Watcher) Watch(dirs ...string) {
	want := make(map[string]struct{}, len(dirs))
	for _, dir := range dirs {
		if dir != "" {
			want[filepath.Clean(dir)] = struct{}{}
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	for dir := range w.dirs {
		if _, ok := want[dir]; ok {
			continue
		}
		if err := w.fsw.Remove(dir); err != nil {
			logging.Debug("unwatch failed", logging.String("dir", dir), logging.Err(err))
		}
		delete(w.dirs, dir)
		if t, ok := w.timers[dir]; ok {
			t.Stop()
			delete(w.timers, dir)
		}
		delete(w.pending, dir)
	}
	for dir := range want {
		if _, ok := w.dirs[dir]; ok {
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			logging.Debug("watch failed", logging.String("dir", dir), logging.Err(err))
			continue
		}
		w.dirs[dir] = struct{}{}
	}
}

// Watched returns the directories currently watched.
func (w *Watcher) Watched() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.dirs))
	for dir := range w.dirs {
		out = append(out, dir)
	}
	return out
}

// Close stops watching. Pending Changed events are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for dir, t := range w.timers {
		t.Stop()
		delete(w.timers, dir)
	}
	w.pending = make(map[string]map[string]struct{})
	w.mu.Unlock()

	err := w.fsw.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			w.touch(ev.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.Debug("watcher error", logging.Err(err))
		}
	}
}

// touch schedules a Changed event for the watched directory owning name.
func (w *Watcher) touch(name string) {
	name = filepath.Clean(name)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	dir := name
	if _, ok := w.dirs[dir]; !ok {
		dir = filepath.Dir(name)
		if _, ok := w.dirs[dir]; !ok {
			return
		}
	}

	if name != dir {
		children, ok := w.pending[dir]
		if !ok {
			children = make(map[string]struct{})
			w.pending[dir] = children
		}
		children[name] = struct{}{}
	}

	if t, ok := w.timers[dir]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[dir] = time.AfterFunc(w.debounce, func() {
		w.fire(dir)
	})
}

func (w *Watcher) fire(dir string) {
	w.mu.Lock()
	delete(w.timers, dir)
	children := w.pending[dir]
	delete(w.pending, dir)
	closed := w.closed
	w.mu.Unlock()

	if closed {
		return
	}
	paths := make([]string, 0, len(children))
	for name := range children {
		paths = append(paths, name)
	}
	sort.Strings(paths)
	w.sink.Post(Changed{Dir: dir, Paths: paths})
}
