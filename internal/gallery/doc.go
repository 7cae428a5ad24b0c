// Package gallery lists browsable images under a fixed media root. The
// scanner filters to the supported format set, validates every path against
// root escapes, and reads pixel dimensions and EXIF capture times lazily.
// A filesystem watcher exposes a generation counter so clients can tell
// when a directory changed underneath them.
package gallery
