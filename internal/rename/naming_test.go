package rename

import (
	"testing"
)

// =============================================================================
// ComputeName Tests
// =============================================================================

func TestComputeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		tags   []string
		suffix string
		seq    int
		ext    string
		want   string
	}{
		{
			name:   "Prefix tags and suffix",
			prefix: "monochrome",
			tags:   []string{"sluggo", "comics", "nancy", "food"},
			suffix: "",
			seq:    0,
			ext:    ".png",
			want:   "monochrome_comics_food_nancy_sluggo_000.png",
		},
		{
			name:   "Tags only",
			prefix: "",
			tags:   []string{"warhol", "popart"},
			suffix: "",
			seq:    3,
			ext:    ".jpg",
			want:   "popart_warhol_003.jpg",
		},
		{
			name:   "Suffix only",
			prefix: "",
			tags:   nil,
			suffix: "edit",
			seq:    0,
			ext:    ".jpeg",
			want:   "edit_000.jpeg",
		},
		{
			name:   "All components empty",
			prefix: "",
			tags:   nil,
			suffix: "",
			seq:    0,
			ext:    ".gif",
			want:   "untitled_000.gif",
		},
		{
			name:   "Empty tags are dropped",
			prefix: "scan",
			tags:   []string{"", "fineart", ""},
			suffix: "",
			seq:    12,
			ext:    ".webp",
			want:   "scan_fineart_012.webp",
		},
		{
			name:   "Extension without leading dot",
			prefix: "logo",
			tags:   nil,
			suffix: "",
			seq:    1,
			ext:    "png",
			want:   "logo_001.png",
		},
		{
			name:   "Extension preserved verbatim including case",
			prefix: "photo",
			tags:   nil,
			suffix: "",
			seq:    0,
			ext:    ".JPG",
			want:   "photo_000.JPG",
		},
		{
			name:   "No extension",
			prefix: "raw",
			tags:   nil,
			suffix: "",
			seq:    7,
			ext:    "",
			want:   "raw_007",
		},
		{
			name:   "Sequence above three digits is not truncated",
			prefix: "big",
			tags:   nil,
			suffix: "",
			seq:    1234,
			ext:    ".png",
			want:   "big_1234.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeName(tt.prefix, tt.tags, tt.suffix, tt.seq, tt.ext)
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestComputeNameTagOrderIndependent(t *testing.T) {
	t.Parallel()

	// The same tag set in any order must produce the same name.
	a := ComputeName("p", []string{"zebra", "apple", "mango"}, "s", 0, ".jpg")
	b := ComputeName("p", []string{"mango", "zebra", "apple"}, "s", 0, ".jpg")
	c := ComputeName("p", []string{"apple", "mango", "zebra"}, "s", 0, ".jpg")

	if a != b || b != c {
		t.Errorf("Expected identical names for reordered tags, got %q, %q, %q", a, b, c)
	}
}

func TestComputeNameOrdinalSort(t *testing.T) {
	t.Parallel()

	// Byte-wise ordering: uppercase sorts before lowercase.
	got := ComputeName("", []string{"banana", "Apple"}, "", 0, ".png")
	want := "Apple_banana_000.png"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestComputeNameDeterministic(t *testing.T) {
	t.Parallel()

	first := ComputeName("x", []string{"a", "b"}, "y", 42, ".png")
	for i := 0; i < 10; i++ {
		if got := ComputeName("x", []string{"a", "b"}, "y", 42, ".png"); got != first {
			t.Fatalf("Expected deterministic output, got %q then %q", first, got)
		}
	}
}

func TestComputeNameDoesNotMutateTags(t *testing.T) {
	t.Parallel()

	tags := []string{"zebra", "apple"}
	ComputeName("", tags, "", 0, ".jpg")

	if tags[0] != "zebra" || tags[1] != "apple" {
		t.Errorf("Expected caller slice unchanged, got %v", tags)
	}
}
