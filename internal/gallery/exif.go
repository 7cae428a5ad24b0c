package gallery

import (
	"os"
	"time"

	"image-renamer/internal/logging"

	"github.com/rwcarlsen/goexif/exif"
)

// captureTime reads the EXIF DateTimeOriginal from an image, or nil when
// the file has no usable EXIF block. Strictly best-effort: listing and
// renaming never depend on it.
func captureTime(path string) *time.Time {
	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()

	meta, err := exif.Decode(file)
	if err != nil {
		return nil
	}

	taken, err := meta.DateTime()
	if err != nil {
		logging.Debug("No EXIF capture time in %s: %v", path, err)
		return nil
	}
	return &taken
}
