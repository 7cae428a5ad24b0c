package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"image-renamer/internal/logging"
	"image-renamer/internal/thumbs"
)

// WarmRequest asks for thumbnails to be generated ahead of display.
type WarmRequest struct {
	Paths []string `json:"paths"`
}

// WarmResult is the per-path outcome of a warm request.
type WarmResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// maxWarmPaths bounds a single warm request.
const maxWarmPaths = 500

// GetThumbnail serves a cached thumbnail, generating it on first request.
func (h *Handlers) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSONError(w, "Path is required", http.StatusBadRequest)
		return
	}

	if !h.thumbnailsEnabled {
		writeJSONError(w, "Thumbnails disabled", http.StatusServiceUnavailable)
		return
	}

	absPath, err := h.scanner.ResolveFile(path)
	if err != nil {
		logging.Warn("Thumbnail: cannot resolve %q: %v", path, err)
		writeJSONError(w, "File not found", http.StatusNotFound)
		return
	}

	data, err := h.thumbs.GetThumbnail(r.Context(), absPath)
	if err != nil {
		status, msg := thumbnailErrorStatus(err)
		logging.Error("Thumbnail: generation failed for %q: %v", path, err)
		writeJSONError(w, msg, status)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := w.Write(data); err != nil {
		logging.Debug("Thumbnail: write failed for %q: %v", path, err)
	}
}

// WarmThumbnails generates thumbnails for a batch of images, typically the
// contents of a directory about to be displayed.
func (h *Handlers) WarmThumbnails(w http.ResponseWriter, r *http.Request) {
	var req WarmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if len(req.Paths) == 0 {
		writeJSONError(w, "Paths array is required", http.StatusBadRequest)
		return
	}
	if len(req.Paths) > maxWarmPaths {
		req.Paths = req.Paths[:maxWarmPaths]
	}

	if !h.thumbnailsEnabled {
		writeJSONError(w, "Thumbnails disabled", http.StatusServiceUnavailable)
		return
	}

	// Map resolved absolute paths back to the paths the caller sent. Several
	// request paths can resolve to the same file; each gets its own entry.
	absPaths := make([]string, 0, len(req.Paths))
	byAbs := make(map[string][]string, len(req.Paths))
	results := make(map[string]WarmResult, len(req.Paths))

	for _, p := range req.Paths {
		if p == "" {
			continue
		}
		abs, err := h.scanner.ResolveFile(p)
		if err != nil {
			results[p] = WarmResult{Status: "error", Error: "not found"}
			continue
		}
		if len(byAbs[abs]) == 0 {
			absPaths = append(absPaths, abs)
		}
		byAbs[abs] = append(byAbs[abs], p)
	}

	for abs, res := range h.thumbs.EnsureThumbnails(r.Context(), absPaths) {
		for _, rel := range byAbs[abs] {
			if res.Err != nil {
				results[rel] = WarmResult{Status: "error", Error: res.Err.Error()}
			} else {
				results[rel] = WarmResult{Status: "ok"}
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, results)
}

// ClearThumbnailCache drops every cached thumbnail. Entries regenerate on
// demand afterwards.
func (h *Handlers) ClearThumbnailCache(w http.ResponseWriter, _ *http.Request) {
	if h.cache == nil {
		writeJSONError(w, "Thumbnails disabled", http.StatusServiceUnavailable)
		return
	}

	removed := h.cache.Clear()
	logging.Info("Thumbnail cache cleared: %d entries removed", removed)

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]interface{}{
		"status":  "ok",
		"removed": removed,
	})
}

func thumbnailErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, thumbs.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType, "Unsupported image format"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Thumbnail generation timed out"
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest, "Request cancelled"
	default:
		return http.StatusInternalServerError, "Failed to generate thumbnail"
	}
}

// Nginx convention for a client that went away before the response.
const statusClientClosedRequest = 499
