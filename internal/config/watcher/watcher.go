// Package watcher reloads configuration when the file changes on disk.
//
// The watcher monitors the config file's directory rather than the file
// itself, because editors typically replace files by rename, which drops a
// direct file watch. Rapid event bursts are debounced into a single reload.
package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event is one debounced change to the watched config file.
type Event struct {
	// Path is the absolute path of the config file.
	Path string

	// Time is when the last underlying filesystem event arrived.
	Time time.Time
}

// ErrWatcherClosed is returned for operations on a closed watcher.
var ErrWatcherClosed = errors.New("config watcher closed")

// DefaultDebounce is how long the file must be quiet before a change event
// is delivered.
const DefaultDebounce = 100 * time.Millisecond

// Watcher monitors one configuration file for changes.
type Watcher struct {
	path     string
	debounce time.Duration

	fsw    *fsnotify.Watcher
	events chan Event
	errs   chan error

	mu     sync.Mutex
	closed bool

	closeCh chan struct{}
	done    sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides the debounce duration.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New starts watching the config file at path. The file does not have to
// exist yet; its directory does.
func New(path string, opts ...Option) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     absPath,
		debounce: DefaultDebounce,
		fsw:      fsw,
		events:   make(chan Event, 16),
		errs:     make(chan error, 16),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w.done.Add(1)
	go w.loop()

	return w, nil
}

// Events returns the debounced change channel. It is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel. It is closed by Close.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Path returns the watched file path.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops the watcher and closes both channels. Safe to call twice.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.done.Wait()

	close(w.events)
	close(w.errs)
	return err
}

// loop converts raw fsnotify events into debounced config change events.
func (w *Watcher) loop() {
	defer w.done.Done()

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		lastHit time.Time
	)

	for {
		select {
		case <-w.closeCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case fsEvent, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.matches(fsEvent) {
				continue
			}
			lastHit = time.Now()
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timerC = nil
			timer = nil
			select {
			case w.events <- Event{Path: w.path, Time: lastHit}:
			default:
				// Receiver is behind; the next change will retrigger.
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

// matches reports whether a raw event concerns the watched file with an
// operation that changes its content.
func (w *Watcher) matches(e fsnotify.Event) bool {
	if filepath.Clean(e.Name) != w.path {
		return false
	}
	return e.Op.Has(fsnotify.Write) || e.Op.Has(fsnotify.Create) || e.Op.Has(fsnotify.Rename)
}

// Exists reports whether the watched file currently exists.
func (w *Watcher) Exists() bool {
	_, err := os.Stat(w.path)
	return err == nil
}
