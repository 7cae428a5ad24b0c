// Package rename implements the batch rename engine: a pure naming function
// that builds deterministic filenames from prefix, sorted tags, suffix, and
// a zero-padded sequence number, and a coordinator that resolves collisions
// against both the batch and the live filesystem, validates the batch up
// front, and applies renames with per-file failure accounting.
//
// The failure policy is asymmetric on purpose: location-level problems (bad
// destination, missing sources) abort the whole batch before anything moves,
// while a failure renaming an individual file after validation is recorded
// for that file alone and never rolls back the rest.
package rename
