// Package watcher reports on-disk changes to listed directories.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"vired/internal/logging"
	"vired/internal/ports"
)

// DefaultDebounce is how long a directory must stay quiet before an event fires
const DefaultDebounce = 150 * time.Millisecond

const subscriberBuffer = 16

var _ ports.ChangeNotifier = (*Watcher)(nil)

// Watcher watches directories (not recursively) and emits one ChangeEvent
// per burst of activity in a directory.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	logger   *zap.Logger

	mu         sync.Mutex
	dirs       map[string]int // dir -> watch refcount
	suppressed map[string]int
	quiet      map[string]time.Time
	pending    map[string]*time.Timer
	subs       map[chan ports.ChangeEvent]struct{}
	closed     bool

	wg        conc.WaitGroup
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a watcher. A zero debounce uses DefaultDebounce.
func New(debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		fsw:        fsw,
		debounce:   debounce,
		logger:     logging.Named("watcher"),
		dirs:       make(map[string]int),
		suppressed: make(map[string]int),
		quiet:      make(map[string]time.Time),
		pending:    make(map[string]*time.Timer),
		subs:       make(map[chan ports.ChangeEvent]struct{}),
		done:       make(chan struct{}),
	}
	w.wg.Go(w.loop)
	return w, nil
}

// Watch starts watching dir. Nested calls for the same dir are counted.
func (w *Watcher) Watch(dir string) error {
	dir = filepath.Clean(dir)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("watcher closed")
	}
	if w.dirs[dir] > 0 {
		w.dirs[dir]++
		return nil
	}
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.dirs[dir] = 1
	w.logger.Debug("watching", zap.String("dir", dir))
	return nil
}

// Unwatch drops one Watch call for dir
func (w *Watcher) Unwatch(dir string) error {
	dir = filepath.Clean(dir)

	w.mu.Lock()
	defer w.mu.Unlock()

	n := w.dirs[dir]
	switch {
	case n == 0:
		return nil
	case n > 1:
		w.dirs[dir] = n - 1
		return nil
	}

	delete(w.dirs, dir)
	if t, ok := w.pending[dir]; ok {
		t.Stop()
		delete(w.pending, dir)
	}
	if err := w.fsw.Remove(dir); err != nil {
		// the directory may already be gone, which also ends the watch
		w.logger.Debug("failed to remove watch", zap.String("dir", dir), zap.Error(err))
	}
	return nil
}

// Suppress silences dir until resume is called, plus one debounce interval
// so events already in flight are dropped too.
func (w *Watcher) Suppress(dir string) (resume func()) {
	dir = filepath.Clean(dir)

	w.mu.Lock()
	w.suppressed[dir]++
	if t, ok := w.pending[dir]; ok {
		t.Stop()
		delete(w.pending, dir)
	}
	w.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			if w.suppressed[dir]--; w.suppressed[dir] <= 0 {
				delete(w.suppressed, dir)
			}
			w.quiet[dir] = time.Now().Add(w.debounce)
		})
	}
}

// Subscribe returns a channel receiving change events. Slow readers lose events.
func (w *Watcher) Subscribe() <-chan ports.ChangeEvent {
	ch := make(chan ports.ChangeEvent, subscriberBuffer)
	w.mu.Lock()
	if w.closed {
		close(ch)
	} else {
		w.subs[ch] = struct{}{}
	}
	w.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a subscriber channel
func (w *Watcher) Unsubscribe(ch <-chan ports.ChangeEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for sub := range w.subs {
		if (<-chan ports.ChangeEvent)(sub) == ch {
			delete(w.subs, sub)
			close(sub)
			return
		}
	}
}

// Close stops the watcher and closes every subscriber channel
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.wg.Wait()

		w.mu.Lock()
		defer w.mu.Unlock()
		w.closed = true
		for dir, t := range w.pending {
			t.Stop()
			delete(w.pending, dir)
		}
		for sub := range w.subs {
			close(sub)
			delete(w.subs, sub)
		}
	})
	return err
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	name := filepath.Clean(ev.Name)

	w.mu.Lock()
	defer w.mu.Unlock()

	dir := filepath.Dir(name)
	if w.dirs[name] > 0 {
		// the watched directory itself was removed or renamed
		dir = name
	}
	if w.dirs[dir] == 0 || w.suppressed[dir] > 0 {
		return
	}
	if until, ok := w.quiet[dir]; ok {
		if time.Now().Before(until) {
			return
		}
		delete(w.quiet, dir)
	}

	if t, ok := w.pending[dir]; ok {
		t.Reset(w.debounce)
		return
	}
	w.pending[dir] = time.AfterFunc(w.debounce, func() { w.fire(dir) })
}

func (w *Watcher) fire(dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.pending, dir)
	if w.closed || w.suppressed[dir] > 0 || w.dirs[dir] == 0 {
		return
	}

	event := ports.ChangeEvent{Dir: dir}
	for sub := range w.subs {
		select {
		case sub <- event:
		default:
			w.logger.Debug("dropping event for slow subscriber", zap.String("dir", dir))
		}
	}
}
