package gallery

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"image-renamer/internal/logging"
	"image-renamer/internal/metrics"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors the media root for changes and bumps a generation
// counter on every event. The UI polls the counter (it rides along on
// listings) and rescans when it moves; stale thumbnails need no explicit
// invalidation, since cache entries are fingerprint-keyed and simply stop
// being referenced.
type Watcher struct {
	root     string
	gen      atomic.Int64
	fsw      *fsnotify.Watcher
	stop     chan struct{}
	stopOnce sync.Once
}

// NewWatcher creates a Watcher for the media root.
func NewWatcher(root string) *Watcher {
	return &Watcher{root: root, stop: make(chan struct{})}
}

// Generation returns the current change counter.
func (w *Watcher) Generation() int64 {
	return w.gen.Load()
}

// Start registers every directory under the root and begins processing
// events in a background goroutine.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		metrics.ScannerWatcherErrors.Inc()
		return err
	}
	w.fsw = fsw

	watchCount := w.addDirectories()
	metrics.ScannerWatchedDirectories.Set(float64(watchCount))
	logging.Debug("Gallery watcher started, watching %d directories", watchCount)

	go w.loop()
	return nil
}

// Stop shuts the watcher down. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		if w.fsw != nil {
			if err := w.fsw.Close(); err != nil {
				logging.Error("failed to close file watcher: %v", err)
			}
		}
	})
}

func (w *Watcher) addDirectories() int {
	watchCount := 0
	err := filepath.Walk(w.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() && !strings.HasPrefix(info.Name(), ".") {
			if addErr := w.fsw.Add(path); addErr != nil {
				logging.Warn("failed to watch %s: %v", path, addErr)
				metrics.ScannerWatcherErrors.Inc()
			} else {
				watchCount++
			}
		}
		return nil
	})
	if err != nil {
		logging.Error("failed to walk media root for watcher: %v", err)
		metrics.ScannerWatcherErrors.Inc()
	}
	return watchCount
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.Error("Watcher error: %v", err)
			metrics.ScannerWatcherErrors.Inc()

		case <-w.stop:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Hidden files include the cache's own temp artifacts
	if strings.Contains(event.Name, string(filepath.Separator)+".") {
		return
	}

	metrics.ScannerWatcherEventsTotal.WithLabelValues(eventType(event.Op)).Inc()
	w.gen.Add(1)

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if addErr := w.fsw.Add(event.Name); addErr != nil {
				logging.Warn("failed to watch new directory %s: %v", event.Name, addErr)
				metrics.ScannerWatcherErrors.Inc()
			} else {
				logging.Debug("Watching new directory: %s", event.Name)
				metrics.ScannerWatchedDirectories.Inc()
			}
		}
	}
}

func eventType(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Create != 0:
		return "create"
	case op&fsnotify.Write != 0:
		return "write"
	case op&fsnotify.Remove != 0:
		return "remove"
	case op&fsnotify.Rename != 0:
		return "rename"
	case op&fsnotify.Chmod != 0:
		return "chmod"
	default:
		return "unknown"
	}
}
