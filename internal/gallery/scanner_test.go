package gallery

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// Test Helpers
// =============================================================================

func writeTestFile(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

func writeTestPNG(t *testing.T, dir, name string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{100, 100, 100, 255})
		}
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("Failed to create %s: %v", name, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
}

// =============================================================================
// Scan Tests
// =============================================================================

func TestScanFiltersAndSorts(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTestFile(t, root, "zebra.jpg")
	writeTestFile(t, root, "apple.png")
	writeTestFile(t, root, "notes.txt")
	writeTestFile(t, root, ".hidden.jpg")
	if err := os.Mkdir(filepath.Join(root, "subdir"), 0o755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}

	s := NewScanner(root, nil)
	listing, err := s.Scan("")
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(listing.Images) != 2 {
		t.Fatalf("Expected 2 images, got %d", len(listing.Images))
	}
	if listing.Images[0].Name != "apple.png" || listing.Images[1].Name != "zebra.jpg" {
		t.Errorf("Expected sorted [apple.png zebra.jpg], got [%s %s]",
			listing.Images[0].Name, listing.Images[1].Name)
	}
}

func TestScanSubdirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	sub := filepath.Join(root, "vacation")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}
	writeTestFile(t, sub, "beach.jpg")

	s := NewScanner(root, nil)
	listing, err := s.Scan("vacation")
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(listing.Images) != 1 {
		t.Fatalf("Expected 1 image, got %d", len(listing.Images))
	}

	img := listing.Images[0]
	if img.Path != filepath.Join("vacation", "beach.jpg") {
		t.Errorf("Expected root-relative path, got %q", img.Path)
	}
	if img.MimeType != "image/jpeg" {
		t.Errorf("Expected image/jpeg, got %q", img.MimeType)
	}
	if img.ThumbnailURL == "" {
		t.Error("Expected thumbnail URL to be set")
	}
}

func TestScanRejectsEscapePaths(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	s := NewScanner(root, nil)

	tests := []string{"..", "../..", "../outside", "a/../../b"}
	for _, rel := range tests {
		t.Run(rel, func(t *testing.T) {
			if _, err := s.Scan(rel); err == nil {
				t.Errorf("Expected error for escaping path %q", rel)
			}
		})
	}
}

func TestScanMissingDirectory(t *testing.T) {
	t.Parallel()

	s := NewScanner(t.TempDir(), nil)
	if _, err := s.Scan("nope"); err == nil {
		t.Error("Expected error for missing directory")
	}
}

// =============================================================================
// Count Tests
// =============================================================================

func TestCount(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTestFile(t, root, "a.jpg")
	writeTestFile(t, root, "b.png")
	writeTestFile(t, root, "c.txt")

	s := NewScanner(root, nil)
	if got := s.Count(""); got != 2 {
		t.Errorf("Expected count 2, got %d", got)
	}
	if got := s.Count("missing"); got != 0 {
		t.Errorf("Expected count 0 for missing dir, got %d", got)
	}
}

// =============================================================================
// Describe Tests
// =============================================================================

func TestDescribeReadsDimensions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTestPNG(t, root, "img.png", 120, 80)

	s := NewScanner(root, nil)
	details, err := s.Describe("img.png")
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}

	if details.Width != 120 || details.Height != 80 {
		t.Errorf("Expected 120x80, got %dx%d", details.Width, details.Height)
	}
	if details.Name != "img.png" {
		t.Errorf("Expected name img.png, got %q", details.Name)
	}
}

func TestDescribeCorruptImageDegrades(t *testing.T) {
	t.Parallel()

	// A file with an image extension but junk content still gets an entry,
	// just without dimensions.
	root := t.TempDir()
	writeTestFile(t, root, "junk.jpg")

	s := NewScanner(root, nil)
	details, err := s.Describe("junk.jpg")
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}

	if details.Width != 0 || details.Height != 0 {
		t.Errorf("Expected zero dimensions for junk file, got %dx%d", details.Width, details.Height)
	}
	if details.Taken != nil {
		t.Errorf("Expected no capture time for junk file, got %v", details.Taken)
	}
}

// =============================================================================
// ResolveFile Tests
// =============================================================================

func TestResolveFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTestFile(t, root, "ok.jpg")
	writeTestFile(t, root, "doc.pdf")
	if err := os.Mkdir(filepath.Join(root, "dir"), 0o755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}

	s := NewScanner(root, nil)

	tests := []struct {
		name    string
		rel     string
		wantErr bool
	}{
		{"Supported file", "ok.jpg", false},
		{"Unsupported extension", "doc.pdf", true},
		{"Directory", "dir", true},
		{"Missing", "gone.jpg", true},
		{"Empty path", "", true},
		{"Escape attempt", "../ok.jpg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			abs, err := s.ResolveFile(tt.rel)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q, got path %q", tt.rel, abs)
				}
				return
			}
			if err != nil {
				t.Errorf("Expected success for %q, got %v", tt.rel, err)
			}
			if abs != filepath.Join(root, tt.rel) {
				t.Errorf("Expected %q, got %q", filepath.Join(root, tt.rel), abs)
			}
		})
	}
}

// =============================================================================
// MimeType Tests
// =============================================================================

func TestMimeType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ext  string
		want string
	}{
		{".jpg", "image/jpeg"},
		{".png", "image/png"},
		{".webp", "image/webp"},
		{".tiff", "image/tiff"},
		{".xyz", "application/octet-stream"},
	}

	for _, tt := range tests {
		if got := MimeType(tt.ext); got != tt.want {
			t.Errorf("MimeType(%q): expected %q, got %q", tt.ext, tt.want, got)
		}
	}
}
