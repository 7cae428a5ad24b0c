package gallery

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// =============================================================================
// Watcher Tests
// =============================================================================

func TestWatcherGenerationStartsAtZero(t *testing.T) {
	t.Parallel()

	w := NewWatcher(t.TempDir())
	if w.Generation() != 0 {
		t.Errorf("Expected generation 0 before any events, got %d", w.Generation())
	}
}

func TestWatcherBumpsGenerationOnCreate(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	w := NewWatcher(root)
	if err := w.Start(); err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(root, "new.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for w.Generation() == 0 {
		select {
		case <-deadline:
			t.Fatal("Generation never bumped after file creation")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestWatcherIgnoresHiddenFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	w := NewWatcher(root)
	if err := w.Start(); err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(root, ".hidden"), []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	// Give the event time to arrive; the generation must stay put.
	time.Sleep(300 * time.Millisecond)
	if w.Generation() != 0 {
		t.Errorf("Expected hidden file to be ignored, generation is %d", w.Generation())
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	t.Parallel()

	w := NewWatcher(t.TempDir())
	if err := w.Start(); err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}

	w.Stop()
	w.Stop()
}
