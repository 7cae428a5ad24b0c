package workers

import (
	"os"
	"runtime"
	"strconv"
)

// Count returns a worker pool size for a given task profile. It respects
// container CPU limits because GOMAXPROCS tracks cgroup quotas (Go 1.19+),
// unlike runtime.NumCPU which reports host CPUs.
//
// The multiplier adjusts for task characteristics: 1.0 for CPU-bound work,
// 2.0 for I/O-bound work. The limit caps the result; 0 means no cap.
//
// THUMBNAIL_WORKERS overrides the computed value.
func Count(multiplier float64, limit int) int {
	if override := os.Getenv("THUMBNAIL_WORKERS"); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			if limit > 0 && count > limit {
				return limit
			}
			return count
		}
	}

	available := runtime.GOMAXPROCS(0)

	workers := int(float64(available) * multiplier)

	if workers < 1 {
		workers = 1
	}
	if limit > 0 && workers > limit {
		workers = limit
	}

	return workers
}

// ForCPU returns a worker count for CPU-bound tasks (1 per CPU),
// capped at limit.
func ForCPU(limit int) int {
	return Count(1.0, limit)
}
