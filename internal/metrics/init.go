package metrics

// InitializeMetrics pre-populates expected label combinations so that every
// metric is exported from the first Prometheus scrape.
// Call once at startup after metric registration.
func InitializeMetrics() {
	for _, status := range []string{"success", "error_unsupported", "error_decode", "error_timeout"} {
		ThumbnailGenerationsTotal.WithLabelValues(status)
	}

	for _, op := range []string{"scan", "count", "describe"} {
		ScannerOperationsTotal.WithLabelValues(op, "success")
		ScannerOperationsTotal.WithLabelValues(op, "error")
		ScannerOperationDuration.WithLabelValues(op)
		ScannerItemsReturned.WithLabelValues(op)
	}

	for _, event := range []string{"create", "write", "remove", "rename", "chmod", "unknown"} {
		ScannerWatcherEventsTotal.WithLabelValues(event)
	}

	for _, status := range []string{"applied", "aborted"} {
		RenameBatchesTotal.WithLabelValues(status)
	}
	for _, status := range []string{"renamed", "failed"} {
		RenameFilesTotal.WithLabelValues(status)
	}
}
