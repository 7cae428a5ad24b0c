// Package tags persists the tag library used to build filenames. The
// catalog lives in a single JSON file, is seeded with defaults on first run,
// and is append-only.
package tags
