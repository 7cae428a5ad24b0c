package thumbs

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// =============================================================================
// Test Helpers
// =============================================================================

// writePNG writes a solid-color PNG of the given dimensions.
func writePNG(t *testing.T, dir, name string, w, h int, c color.Color) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", name, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	return path
}

func decodeThumb(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Output is not a decodable JPEG: %v", err)
	}
	return img
}

// =============================================================================
// IsSupported Tests
// =============================================================================

func TestIsSupported(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"photo.jpg", true},
		{"photo.JPEG", true},
		{"anim.gif", true},
		{"pic.webp", true},
		{"scan.TIFF", true},
		{"image.bmp", true},
		{"doc.pdf", false},
		{"clip.mp4", false},
		{"noext", false},
		{"archive.tar.gz", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsSupported(tt.path); got != tt.want {
				t.Errorf("IsSupported(%q): expected %v, got %v", tt.path, tt.want, got)
			}
		})
	}
}

// =============================================================================
// Generate Tests
// =============================================================================

func TestGenerateFitsWithinTarget(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writePNG(t, dir, "wide.png", 400, 100, color.NRGBA{0, 0, 255, 255})

	gen := NewGenerator()
	data, err := gen.Generate(context.Background(), src, 200)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	thumb := decodeThumb(t, data)
	b := thumb.Bounds()
	if b.Dx() > 200 || b.Dy() > 200 {
		t.Errorf("Expected thumbnail within 200x200, got %dx%d", b.Dx(), b.Dy())
	}

	// Aspect ratio preserved: 400x100 fits to 200x50.
	if b.Dx() != 200 || b.Dy() != 50 {
		t.Errorf("Expected 200x50, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestGenerateFlattensTransparency(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writePNG(t, dir, "clear.png", 100, 100, color.NRGBA{0, 0, 0, 0})

	gen := NewGenerator()
	data, err := gen.Generate(context.Background(), src, 50)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	thumb := decodeThumb(t, data)
	r, g, b, _ := thumb.At(25, 25).RGBA()

	// Fully transparent input flattens to white, allowing for JPEG loss.
	const min = 0xf000
	if r < min || g < min || b < min {
		t.Errorf("Expected near-white pixel, got r=%x g=%x b=%x", r, g, b)
	}
}

func TestGenerateUnsupportedExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	gen := NewGenerator()
	_, err := gen.Generate(context.Background(), path, 200)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestGenerateCorruptFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "broken.jpg")
	if err := os.WriteFile(path, []byte("this is not a jpeg"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	gen := NewGenerator()
	_, err := gen.Generate(context.Background(), path, 200)

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("Expected *DecodeError, got %v", err)
	}
	if decodeErr.Path != path {
		t.Errorf("Expected path %q in error, got %q", path, decodeErr.Path)
	}
}

func TestGenerateContextCancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writePNG(t, dir, "img.png", 100, 100, color.NRGBA{255, 0, 0, 255})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := NewGenerator()
	_, err := gen.Generate(ctx, src, 200)

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("Expected *DecodeError for cancelled context, got %v", err)
	}
	if !errors.Is(decodeErr.Err, context.Canceled) {
		t.Errorf("Expected wrapped context.Canceled, got %v", decodeErr.Err)
	}
}

func TestGenerateDeadlineExceededClassifiesAsTimeout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writePNG(t, dir, "img.png", 800, 800, color.NRGBA{0, 255, 0, 255})

	// A deadline in the past expires before the render finishes.
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	gen := NewGenerator()
	_, err := gen.Generate(ctx, src, 200)

	if status := generationStatus(err); status != "error_timeout" {
		t.Errorf("Expected error_timeout classification, got %q (err: %v)", status, err)
	}
}

func TestGenerateSmallSourceNotEnlarged(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writePNG(t, dir, "tiny.png", 40, 30, color.NRGBA{10, 20, 30, 255})

	gen := NewGenerator()
	data, err := gen.Generate(context.Background(), src, 200)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	thumb := decodeThumb(t, data)
	b := thumb.Bounds()
	if b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("Expected tiny source to stay 40x30, got %dx%d", b.Dx(), b.Dy())
	}
}
