package gallery

import "time"

// SourceImage is a read-only view of one image file on disk, re-derived on
// every scan. Identity is the absolute path; there is no persistent identity
// beyond path and mtime.
type SourceImage struct {
	Name         string    `json:"name"`
	Path         string    `json:"path"` // relative to the media root
	AbsPath      string    `json:"-"`
	Size         int64     `json:"size"`
	ModTime      time.Time `json:"modTime"`
	MimeType     string    `json:"mimeType"`
	ThumbnailURL string    `json:"thumbnailUrl"`
}

// Listing is the result of scanning one directory.
type Listing struct {
	Dir        string        `json:"dir"`
	Generation int64         `json:"generation"`
	Images     []SourceImage `json:"images"`
}

// ImageDetails extends SourceImage with lazily-read pixel dimensions and,
// when present, the EXIF capture time.
type ImageDetails struct {
	SourceImage
	Width  int        `json:"width,omitempty"`
	Height int        `json:"height,omitempty"`
	Taken  *time.Time `json:"taken,omitempty"`
}

var mimeTypes = map[string]string{
	".jpg": "image/jpeg", ".jpeg": "image/jpeg", ".png": "image/png",
	".gif": "image/gif", ".webp": "image/webp", ".bmp": "image/bmp",
	".tif": "image/tiff", ".tiff": "image/tiff",
}

// MimeType returns the content type for a supported image extension.
func MimeType(ext string) string {
	if mime, ok := mimeTypes[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}
