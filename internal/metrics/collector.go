package metrics

import (
	"time"

	"image-renamer/internal/logging"
)

// StatsProvider supplies the point-in-time values the collector exports.
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds the current gauge values.
type Stats struct {
	CachedThumbnails int
	CacheBytes       int64
	Tags             int
}

// Collector periodically polls a StatsProvider and updates gauges.
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector.
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the collection loop.
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the collection loop.
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.GetStats()

	ThumbnailCacheCount.Set(float64(stats.CachedThumbnails))
	ThumbnailCacheSize.Set(float64(stats.CacheBytes))
	TagsTotal.Set(float64(stats.Tags))

	logging.Debug("Metrics collected: thumbnails=%d, cacheBytes=%d, tags=%d",
		stats.CachedThumbnails, stats.CacheBytes, stats.Tags)
}
