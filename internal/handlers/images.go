package handlers

import (
	"net/http"
	"time"

	"image-renamer/internal/logging"
)

// ListImages returns the images in a media subdirectory, sorted by name.
func (h *Handlers) ListImages(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	dir := r.URL.Query().Get("dir")

	logging.Debug("ListImages called: dir=%q", dir)

	listing, err := h.scanner.Scan(dir)
	if err != nil {
		logging.Error("ListImages scan error for %q: %v", dir, err)
		writeJSONError(w, "Failed to list directory", http.StatusBadRequest)
		return
	}

	logging.Debug("ListImages completed in %v, found %d images", time.Since(start), len(listing.Images))

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, listing)
}

// GetImage serves an original image file from the media directory.
func (h *Handlers) GetImage(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSONError(w, "Path is required", http.StatusBadRequest)
		return
	}

	absPath, err := h.scanner.ResolveFile(path)
	if err != nil {
		writeJSONError(w, "Invalid path", http.StatusBadRequest)
		return
	}

	http.ServeFile(w, r, absPath)
}

// GetImageDetails returns metadata for a single image: size, dimensions,
// and EXIF capture time when present.
func (h *Handlers) GetImageDetails(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSONError(w, "Path is required", http.StatusBadRequest)
		return
	}

	details, err := h.scanner.Describe(path)
	if err != nil {
		logging.Warn("GetImageDetails failed for %q: %v", path, err)
		writeJSONError(w, "Image not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, details)
}
