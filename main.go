package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"image-renamer/internal/gallery"
	"image-renamer/internal/handlers"
	"image-renamer/internal/logging"
	"image-renamer/internal/metrics"
	"image-renamer/internal/middleware"
	"image-renamer/internal/rename"
	"image-renamer/internal/startup"
	"image-renamer/internal/tags"
	"image-renamer/internal/thumbs"
	"image-renamer/internal/workers"

	"github.com/gorilla/mux"
)

// appStats aggregates store statistics for the metrics collector.
type appStats struct {
	cache    *thumbs.Store
	tagStore *tags.Store
}

func (s appStats) GetStats() metrics.Stats {
	stats := metrics.Stats{Tags: s.tagStore.Count()}
	if s.cache != nil {
		stats.CachedThumbnails, stats.CacheBytes = s.cache.Stats()
	}
	return stats
}

func main() {
	startTime := time.Now()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Initialize libvips for the fast decode path. Falls back to pure Go
	// decoding when unavailable.
	if err := thumbs.InitVips(); err != nil {
		logging.Warn("libvips unavailable, using pure Go image decoding: %v", err)
	}
	defer thumbs.ShutdownVips()

	// Thumbnail cache store and manager. The service degrades rather than
	// exits when the cache directory is unusable.
	var (
		cache   *thumbs.Store
		manager *thumbs.Manager
	)
	if config.ThumbnailsEnabled {
		cache, err = thumbs.NewStore(config.ThumbnailDir)
		if err != nil {
			logging.Warn("Thumbnail cache unavailable, thumbnails disabled: %v", err)
			config.ThumbnailsEnabled = false
		} else {
			poolSize := thumbnailWorkers()
			manager = thumbs.NewManager(cache, thumbs.NewGenerator(), config.ThumbnailSize, poolSize, config.ThumbnailTimeout)
			logging.Info("Thumbnail manager: size=%d workers=%d timeout=%s", config.ThumbnailSize, poolSize, config.ThumbnailTimeout)
		}
	} else {
		logging.Warn("Thumbnails disabled: cache directory unavailable")
	}

	// Tag catalog
	tagStore, err := tags.NewStore(config.TagsPath)
	if err != nil {
		startup.LogFatal("Failed to initialize tag catalog: %v", err)
	}
	logging.Info("Tag catalog loaded: %d tags", tagStore.Count())

	// Directory watcher bumps the listing generation on media changes
	watcher := gallery.NewWatcher(config.MediaDir)
	if err := watcher.Start(); err != nil {
		logging.Warn("Directory watcher unavailable: %v", err)
	}
	defer watcher.Stop()

	scanner := gallery.NewScanner(config.MediaDir, watcher)
	coordinator := rename.NewCoordinator()

	// Metrics
	var collector *metrics.Collector
	if config.MetricsEnabled {
		metrics.InitializeMetrics()
		metrics.SetAppInfo(startup.Version, startup.Commit, runtime.Version())
		collector = metrics.NewCollector(appStats{cache: cache, tagStore: tagStore}, 30*time.Second)
		collector.Start()
		defer collector.Stop()
	}

	// Initialize handlers
	h := handlers.New(scanner, manager, coordinator, tagStore, cache, config)

	// Setup router
	router := setupRouter(h)
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	// Apply logging middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler := middleware.Logger(loggingConfig)(router)

	// Apply metrics middleware
	if config.MetricsEnabled {
		handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)
	}

	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Metrics server on a separate port keeps scrape traffic out of the
	// application access logs.
	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", h.MetricsHandler())
		metricsSrv = &http.Server{
			Addr:         ":" + config.MetricsPort,
			Handler:      metricsMux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != http.ErrServerClosed {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, metricsSrv, watcher)

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/images", h.ListImages).Methods("GET")
	api.HandleFunc("/image", h.GetImage).Methods("GET")
	api.HandleFunc("/image/details", h.GetImageDetails).Methods("GET")
	api.HandleFunc("/thumbnail", h.GetThumbnail).Methods("GET")
	api.HandleFunc("/thumbnails/warm", h.WarmThumbnails).Methods("POST")
	api.HandleFunc("/cache/clear", h.ClearThumbnailCache).Methods("POST")

	// Tags
	api.HandleFunc("/tags", h.GetTags).Methods("GET")
	api.HandleFunc("/tags", h.AddTag).Methods("POST")

	// Rename
	api.HandleFunc("/rename/preview", h.PreviewRename).Methods("POST")
	api.HandleFunc("/rename", h.ApplyRename).Methods("POST")

	// Static files
	r.PathPrefix("/").Handler(http.FileServer(http.Dir("./static")))

	return r
}

// thumbnailWorkers sizes the generation pool for CPU-bound image decoding,
// capped to keep peak decode memory bounded.
func thumbnailWorkers() int {
	const maxWorkers = 8
	return workers.ForCPU(maxWorkers)
}

func handleShutdown(srv, metricsSrv *http.Server, watcher *gallery.Watcher) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Stopping directory watcher")
	watcher.Stop()
	startup.LogShutdownStepComplete("Directory watcher stopped")

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
