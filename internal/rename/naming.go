package rename

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// placeholderBase is used when prefix, tags, and suffix are all empty.
	placeholderBase = "untitled"

	// seqWidth is the zero-padded width of the sequence number.
	seqWidth = 3

	// SeqCapacity is the number of distinct sequence values the numbering
	// width can represent (000 through 999).
	SeqCapacity = 1000
)

// ComputeName builds a target filename from its components. Pure and
// deterministic: tags are sorted by ordinal comparison regardless of input
// order, empty components are omitted entirely, and the sequence number is
// always present, zero-padded. The original filename never contributes; a
// rename is a full replacement. The extension is appended as found in the
// source (case preserved), with a leading dot added if missing.
//
//	ComputeName("monochrome", []string{"nancy", "comics"}, "", 0, ".png")
//	  == "monochrome_comics_nancy_000.png"
func ComputeName(prefix string, tags []string, suffix string, seq int, ext string) string {
	sorted := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag != "" {
			sorted = append(sorted, tag)
		}
	}
	sort.Strings(sorted)

	parts := make([]string, 0, len(sorted)+2)
	if prefix != "" {
		parts = append(parts, prefix)
	}
	parts = append(parts, sorted...)
	if suffix != "" {
		parts = append(parts, suffix)
	}

	base := strings.Join(parts, "_")
	if base == "" {
		base = placeholderBase
	}

	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	return fmt.Sprintf("%s_%0*d%s", base, seqWidth, seq, ext)
}
