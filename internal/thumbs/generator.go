package thumbs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"image-renamer/internal/logging"

	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned for files outside the supported set.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// DecodeError wraps a failure to decode a file that carries a supported
// extension (corrupt, truncated, or mislabeled content). Timeouts during
// generation are reported the same way.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// SupportedExtensions maps lowercased file extensions to whether the
// generator will attempt them.
var SupportedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".webp": true, ".bmp": true, ".tif": true, ".tiff": true,
}

// IsSupported reports whether a path carries a supported image extension.
func IsSupported(path string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(path))]
}

const jpegQuality = 85

// Generator produces fixed-size derived images from source files. It holds
// no state and never persists anything; callers decide where bytes go.
type Generator struct{}

// NewGenerator returns a Generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate decodes the source image, flattens any transparency against an
// opaque white background (JPEG output has no alpha channel), resizes so the
// longer edge equals targetSize preserving aspect ratio, and encodes to JPEG.
// The context bounds the attempt; on expiry the result is a *DecodeError.
func (g *Generator) Generate(ctx context.Context, path string, targetSize int) ([]byte, error) {
	if !IsSupported(path) {
		return nil, fmt.Errorf("%s: %w", filepath.Ext(path), ErrUnsupportedFormat)
	}

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)

	go func() {
		data, err := g.render(path, targetSize)
		done <- result{data: data, err: err}
	}()

	select {
	case r := <-done:
		return r.data, r.err
	case <-ctx.Done():
		// The render goroutine finishes on its own; its result is dropped.
		return nil, &DecodeError{Path: path, Err: ctx.Err()}
	}
}

func (g *Generator) render(path string, targetSize int) ([]byte, error) {
	img, err := g.decode(path, targetSize)
	if err != nil {
		return nil, err
	}

	thumb := imaging.Fit(img, targetSize, targetSize, imaging.Lanczos)

	// Flatten against white: the encoding below cannot represent alpha.
	background := imaging.New(thumb.Bounds().Dx(), thumb.Bounds().Dy(), color.NRGBA{255, 255, 255, 255})
	flat := imaging.Overlay(background, thumb, image.Pt(0, 0), 1.0)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail for %s: %w", path, err)
	}
	return buf.Bytes(), nil
}

// decode opens the source image, preferring the libvips fast path when
// available (decode-time shrinking keeps memory bounded on large sources),
// then the imaging library with EXIF auto-orientation, then the stdlib
// decoders as a last resort.
func (g *Generator) decode(path string, targetSize int) (image.Image, error) {
	if IsVipsAvailable() {
		img, err := loadImageWithVips(path, targetSize)
		if err == nil {
			return img, nil
		}
		logging.Debug("vips decode failed for %s: %v, falling back", path, err)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err == nil {
		return img, nil
	}
	logging.Debug("imaging.Open failed for %s: %v, trying stdlib decode", path, err)

	file, openErr := os.Open(path)
	if openErr != nil {
		return nil, &DecodeError{Path: path, Err: openErr}
	}
	defer file.Close()

	img, format, decErr := image.Decode(file)
	if decErr != nil {
		return nil, &DecodeError{Path: path, Err: decErr}
	}
	logging.Debug("Decoded image format: %s for %s", format, path)
	return img, nil
}
