// Package metrics defines the Prometheus instrumentation for the service:
// HTTP traffic, thumbnail generation and cache behavior, directory scanning,
// rename batches, and the tag library gauge.
//
// Metrics register themselves via promauto at package load. Call
// InitializeMetrics once at startup to pre-populate label combinations, and
// run a Collector to keep the cache and tag gauges current.
package metrics
