package codebase

import (
	"os"
	"sync"
	"time"
)

// ChangeFunc is called after a file was reparsed, or with a nil info after
// it disappeared.
type ChangeFunc func(path string, info *FileInfo)

// FileWatcher polls the project's source files and reparses those whose
// modification time changed.
type FileWatcher struct {
	codebase     *Codebase
	pollInterval time.Duration
	onChange     ChangeFunc

	startOnce sync.Once
	stopOnce  sync.Once
	stopCh    chan struct{}
	doneCh    chan struct{}

	mu       sync.Mutex
	files    []string
	modTimes map[string]time.Time
}

func NewFileWatcher(c *Codebase, onChange ChangeFunc) *FileWatcher {
	return &FileWatcher{
		codebase:     c,
		pollInterval: c.Project().WatchInterval(),
		onChange:     onChange,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
		modTimes:     make(map[string]time.Time),
	}
}

// SetFiles restricts the watcher to the given paths instead of every source
// file of the project. A nil slice restores the default.
func (w *FileWatcher) SetFiles(paths []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if paths == nil {
		w.files = nil
		return
	}
	w.files = append(make([]string, 0, len(paths)), paths...)
}

// Start begins polling in the background. Calls after the first, or after
// Stop, do nothing.
func (w *FileWatcher) Start() {
	w.startOnce.Do(func() { go w.run() })
}

// Stop ends polling and waits for the running scan to finish. It is safe to
// call before Start.
func (w *FileWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.startOnce.Do(func() { close(w.doneCh) })
	<-w.doneCh
}

func (w *FileWatcher) run() {
	defer close(w.doneCh)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.Scan()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Scan()
		}
	}
}

// Scan performs one polling pass and returns the paths that changed.
// Concurrent passes are serialized; onChange runs while the pass holds the
// watcher's lock and must not call Scan.
func (w *FileWatcher) Scan() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths := w.files
	if paths == nil {
		var err error
		paths, err = w.codebase.Project().Files()
		if err != nil {
			log.Warningf("watch: %s", err)
			return nil
		}
	}

	var changed []string
	current := make(map[string]bool, len(paths))
	for _, path := range paths {
		current[path] = true
		stat, err := os.Stat(path)
		if err != nil {
			continue
		}
		lastMod, known := w.modTimes[path]
		if known && !stat.ModTime().After(lastMod) {
			continue
		}
		w.modTimes[path] = stat.ModTime()
		if err := w.codebase.ScanFile(path); err != nil {
			log.Warningf("watch: %s", err)
			continue
		}
		changed = append(changed, path)
		if w.onChange != nil {
			w.onChange(path, w.codebase.GetFile(path))
		}
	}

	for path := range w.modTimes {
		if current[path] {
			continue
		}
		delete(w.modTimes, path)
		w.codebase.RemoveFile(path)
		changed = append(changed, path)
		if w.onChange != nil {
			w.onChange(path, nil)
		}
	}
	return changed
}
