package thumbs

import (
	"crypto/md5" //nolint:gosec // MD5 used for cache key generation, not security
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Fingerprint is the cache identity of a derived thumbnail: the hex digest
// of (absolute source path, source mtime, target pixel size). Source content
// is never read; staleness is detected purely by fingerprint mismatch, so a
// touched file produces a new fingerprint and the old entry is orphaned.
type Fingerprint string

// FingerprintFor computes the fingerprint for a source file with a known
// modification time. Pure function, no I/O.
func FingerprintFor(absPath string, modTime time.Time, targetSize int) Fingerprint {
	sum := md5.Sum([]byte(fmt.Sprintf("%s|%d|%d", absPath, modTime.UnixNano(), targetSize))) //nolint:gosec
	return Fingerprint(fmt.Sprintf("%x", sum))
}

// StatFingerprint resolves path to an absolute path, stats it, and returns
// the current fingerprint for the live file.
func StatFingerprint(path string, targetSize int) (Fingerprint, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", absPath, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", absPath)
	}

	return FingerprintFor(absPath, info.ModTime(), targetSize), nil
}
