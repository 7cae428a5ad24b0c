package thumbs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"image-renamer/internal/logging"
)

// Store is the on-disk thumbnail cache: one JPEG file per fingerprint under
// a fixed root. Entries are write-once and immutable, so reads need no
// locking, and the whole directory can be deleted at any time to force full
// regeneration.
type Store struct {
	dir string
}

// NewStore creates the cache directory if needed and returns a Store.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the cache root.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) entryPath(fp Fingerprint) string {
	return filepath.Join(s.dir, string(fp)+".jpg")
}

// Get returns the cached bytes for a fingerprint, or false on a miss.
// Any read error counts as a miss; the entry will simply be regenerated.
func (s *Store) Get(fp Fingerprint) ([]byte, bool) {
	data, err := os.ReadFile(s.entryPath(fp))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put writes a cache entry. The write goes through a temp file and a rename
// so readers never observe partial content and concurrent puts of the same
// fingerprint are idempotent (the content is identical by construction).
func (s *Store) Put(fp Fingerprint, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, string(fp)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close cache entry: %w", err)
	}

	if err := os.Rename(tmpName, s.entryPath(fp)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to commit cache entry: %w", err)
	}
	return nil
}

// Stats returns the number of cached thumbnails and their total size.
func (s *Store) Stats() (count int, bytes int64) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, 0
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jpg") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		count++
		bytes += info.Size()
	}
	return count, bytes
}

// Clear deletes every cached thumbnail. Cache entries are derived data, so
// this only forces regeneration.
func (s *Store) Clear() int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0
	}
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jpg") {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			logging.Warn("Failed to delete cached thumbnail %s: %v", entry.Name(), err)
			continue
		}
		removed++
	}
	return removed
}
