// Package thumbs implements the thumbnail pipeline: a write-once on-disk
// cache keyed by source fingerprint, a pure generator that decodes, flattens,
// fits, and JPEG-encodes source images, and a manager that fronts both with
// a bounded worker pool and per-fingerprint request coalescing.
//
// Cache entries are immutable once written, so reads take no locks; the only
// synchronized state is the in-flight generation map. The cache directory is
// derived data and can be deleted wholesale at any time.
package thumbs
