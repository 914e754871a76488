package source

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to a single fixture file. Editors often write a
// file several times per save, so events are debounced into one callback.
type Watcher struct {
	fw       *fsnotify.Watcher
	path     string
	debounce time.Duration
	done     chan struct{}
	stopped  bool
	mu       sync.Mutex
	timer    *time.Timer
}

// NewWatcher creates a watcher for path. The parent directory is watched so
// that atomic replace-on-save still produces events.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(absPath)); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return &Watcher{
		fw:       fw,
		path:     absPath,
		debounce: debounce,
		done:     make(chan struct{}),
	}, nil
}

// Watch starts monitoring in a goroutine. onChange runs once per burst of
// events; onError receives watcher errors and may be nil.
func (w *Watcher) Watch(onChange func(), onError func(error)) {
	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != w.path {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
					w.schedule(onChange)
				}

			case err, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				if onError != nil {
					onError(err)
				}

			case <-w.done:
				return
			}
		}
	}()
}

// schedule (re)arms the debounce timer.
func (w *Watcher) schedule(onChange func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		stopped := w.stopped
		w.mu.Unlock()
		if !stopped {
			onChange()
		}
	})
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.done)
	return w.fw.Close()
}
