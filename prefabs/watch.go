package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce drops repeat notifications for a file that arrive within
// this window; editors usually write a file more than once per save.
const DefaultDebounce = 100 * time.Millisecond

// Change is a level or script file that was written on disk.
type Change struct {
	Path   string
	Script bool
}

// Affects reports whether the change belongs to the given level: its own
// spec file or the script it runs.
func (c Change) Affects(spec LevelSpec) bool {
	base := filepath.Base(c.Path)
	if c.Script {
		return spec.Script != "" && base == filepath.Base(spec.Script)
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) == spec.Name
}

// Watcher reports level and script changes under a set of directories.
// Changes and Errors are closed by Close.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	seen     map[string]time.Time

	Changes chan Change
	Errors  chan error

	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fs:       fw,
		debounce: DefaultDebounce,
		seen:     make(map[string]time.Time),
		Changes:  make(chan Change, 16),
		Errors:   make(chan error, 1),
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher and waits for its goroutine before closing the
// channels.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stop)
		err = w.fs.Close()
		<-w.stopped
		close(w.Changes)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) loop() {
	defer close(w.stopped)
	for {
		select {
		case <-w.stop:
			return
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			// keep the newest error only
			select {
			case w.Errors <- err:
			default:
			}
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			change, ok := w.classify(event)
			if !ok {
				continue
			}
			select {
			case w.Changes <- change:
			case <-w.stop:
				return
			}
		}
	}
}

func (w *Watcher) classify(event fsnotify.Event) (Change, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return Change{}, false
	}
	var change Change
	switch {
	case isSpecFile(event.Name):
		change = Change{Path: event.Name}
	case isScriptFile(event.Name):
		change = Change{Path: event.Name, Script: true}
	default:
		return Change{}, false
	}

	now := time.Now()
	if at, ok := w.seen[event.Name]; ok && now.Sub(at) < w.debounce {
		return Change{}, false
	}
	w.seen[event.Name] = now
	return change, true
}

func isSpecFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func isScriptFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".tengo")
}
