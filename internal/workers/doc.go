// Package workers sizes worker pools from the CPUs actually available to
// the process. GOMAXPROCS reflects container CPU limits, so pool sizes stay
// sane when the binary runs under cgroup quotas on a many-core host.
package workers
