package handlers

import (
	"net/http"
	"runtime"
	"time"

	"image-renamer/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`

	ThumbnailsEnabled bool  `json:"thumbnailsEnabled"`
	CachedThumbnails  int   `json:"cachedThumbnails"`
	CacheBytes        int64 `json:"cacheBytes"`
	Tags              int   `json:"tags"`

	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	var count int
	var bytes int64
	if h.cache != nil {
		count, bytes = h.cache.Stats()
	}

	response := HealthResponse{
		Version:           startup.Version,
		Uptime:            time.Since(h.started).Round(time.Second).String(),
		ThumbnailsEnabled: h.thumbnailsEnabled,
		CachedThumbnails:  count,
		CacheBytes:        bytes,
		Tags:              h.tagStore.Count(),
		GoVersion:         runtime.Version(),
		NumCPU:            runtime.NumCPU(),
		NumGoroutine:      runtime.NumGoroutine(),
	}

	// The service still works without thumbnails, just degraded.
	if h.thumbnailsEnabled {
		response.Status = statusHealthy
	} else {
		response.Status = statusDegraded
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	writeJSON(w, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{
			"status": "alive",
		})
	}
}

// ReadinessCheck returns 200 once the tag catalog is loaded, which happens
// during startup, so readiness follows liveness here.
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	writeJSON(w, map[string]string{
		"status": "ready",
	})
}
