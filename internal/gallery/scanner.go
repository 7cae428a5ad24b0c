package gallery

import (
	"fmt"
	"image"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"image-renamer/internal/logging"
	"image-renamer/internal/metrics"
	"image-renamer/internal/thumbs"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Scanner lists supported images under a fixed media root. All paths handed
// to it are relative to that root and validated against escape attempts.
type Scanner struct {
	root    string
	watcher *Watcher
}

// NewScanner creates a Scanner rooted at mediaDir. The watcher is optional;
// when present its generation counter is included in listings so the UI can
// detect directory changes.
func NewScanner(mediaDir string, watcher *Watcher) *Scanner {
	return &Scanner{root: mediaDir, watcher: watcher}
}

// Scan returns the supported images in one directory, sorted by filename
// for stable ordering. The listing is a snapshot; it is assumed not to
// change during a single request.
func (s *Scanner) Scan(relativePath string) (*Listing, error) {
	start := time.Now()
	var err error
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.ScannerOperationsTotal.WithLabelValues("scan", status).Inc()
		metrics.ScannerOperationDuration.WithLabelValues("scan").Observe(time.Since(start).Seconds())
	}()

	relativePath = normalizePath(relativePath)

	fullPath, err := s.validateDir(relativePath)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, err
	}

	images := make([]SourceImage, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !thumbs.IsSupported(entry.Name()) {
			continue
		}
		info, infoErr := entry.Info()
		if infoErr != nil {
			continue
		}

		relPath := entry.Name()
		if relativePath != "" {
			relPath = filepath.Join(relativePath, entry.Name())
		}

		images = append(images, SourceImage{
			Name:         entry.Name(),
			Path:         relPath,
			AbsPath:      filepath.Join(fullPath, entry.Name()),
			Size:         info.Size(),
			ModTime:      info.ModTime(),
			MimeType:     MimeType(strings.ToLower(filepath.Ext(entry.Name()))),
			ThumbnailURL: "/api/thumbnail?path=" + url.QueryEscape(relPath),
		})
	}

	sort.Slice(images, func(i, j int) bool {
		return images[i].Name < images[j].Name
	})

	metrics.ScannerItemsReturned.WithLabelValues("scan").Observe(float64(len(images)))
	logging.Debug("Scanned %s: %d images", fullPath, len(images))

	listing := &Listing{Dir: relativePath, Images: images}
	if s.watcher != nil {
		listing.Generation = s.watcher.Generation()
	}
	return listing, nil
}

// Count returns the number of supported images in a directory without
// building the full listing.
func (s *Scanner) Count(relativePath string) int {
	start := time.Now()
	defer func() {
		metrics.ScannerOperationsTotal.WithLabelValues("count", "success").Inc()
		metrics.ScannerOperationDuration.WithLabelValues("count").Observe(time.Since(start).Seconds())
	}()

	fullPath, err := s.validateDir(normalizePath(relativePath))
	if err != nil {
		return 0
	}
	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return 0
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if thumbs.IsSupported(entry.Name()) {
			count++
		}
	}
	return count
}

// Describe returns the details of a single image, reading pixel dimensions
// and EXIF capture time lazily. Dimension or EXIF read failures degrade to
// an entry without those fields rather than an error.
func (s *Scanner) Describe(relativePath string) (*ImageDetails, error) {
	start := time.Now()
	var err error
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.ScannerOperationsTotal.WithLabelValues("describe", status).Inc()
		metrics.ScannerOperationDuration.WithLabelValues("describe").Observe(time.Since(start).Seconds())
	}()

	absPath, err := s.ResolveFile(relativePath)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}

	details := &ImageDetails{
		SourceImage: SourceImage{
			Name:         filepath.Base(absPath),
			Path:         normalizePath(relativePath),
			AbsPath:      absPath,
			Size:         info.Size(),
			ModTime:      info.ModTime(),
			MimeType:     MimeType(strings.ToLower(filepath.Ext(absPath))),
			ThumbnailURL: "/api/thumbnail?path=" + url.QueryEscape(normalizePath(relativePath)),
		},
	}

	if w, h, dimErr := imageDimensions(absPath); dimErr == nil {
		details.Width, details.Height = w, h
	} else {
		logging.Debug("Could not read dimensions for %s: %v", absPath, dimErr)
	}
	details.Taken = captureTime(absPath)

	return details, nil
}

// ResolveFile validates a root-relative path and returns the absolute path
// of an existing regular file with a supported extension.
func (s *Scanner) ResolveFile(relativePath string) (string, error) {
	relativePath = normalizePath(relativePath)
	if relativePath == "" {
		return "", fmt.Errorf("path is required")
	}

	fullPath := filepath.Join(s.root, relativePath)
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", err
	}
	if !s.withinRoot(absPath) {
		return "", os.ErrPermission
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", relativePath)
	}
	if !thumbs.IsSupported(absPath) {
		return "", fmt.Errorf("%s: unsupported file type", relativePath)
	}

	return absPath, nil
}

// ResolveDir validates a root-relative directory path and returns its
// absolute path.
func (s *Scanner) ResolveDir(relativePath string) (string, error) {
	return s.validateDir(normalizePath(relativePath))
}

func (s *Scanner) validateDir(relativePath string) (string, error) {
	fullPath := filepath.Join(s.root, relativePath)

	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", err
	}
	if !s.withinRoot(absPath) {
		return "", os.ErrPermission
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", os.ErrInvalid
	}

	return absPath, nil
}

func (s *Scanner) withinRoot(absPath string) bool {
	absRoot, err := filepath.Abs(s.root)
	if err != nil {
		return false
	}
	return absPath == absRoot || strings.HasPrefix(absPath, absRoot+string(filepath.Separator))
}

func normalizePath(relativePath string) string {
	relativePath = filepath.Clean(relativePath)
	if relativePath == "." {
		relativePath = ""
	}
	return relativePath
}

func imageDimensions(path string) (int, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()

	config, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, 0, err
	}
	return config.Width, config.Height, nil
}
