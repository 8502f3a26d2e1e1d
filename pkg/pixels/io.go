package pixels

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	// webp is decode-only; the remaining formats are registered by imaging
	_ "golang.org/x/image/webp"
)

// SupportedInputExtensions lists the file extensions Load accepts
var SupportedInputExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// SupportedOutputExtensions lists the file extensions Save accepts
var SupportedOutputExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff"}

// IsSupportedInput reports whether the path has a decodable extension
func IsSupportedInput(path string) bool {
	return hasExtension(path, SupportedInputExtensions)
}

// IsSupportedOutput reports whether the path has an encodable extension
func IsSupportedOutput(path string) bool {
	return hasExtension(path, SupportedOutputExtensions)
}

func hasExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// Decode reads an image from r and wraps it in a Source
func Decode(r io.Reader) (*Source, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return FromImage(img), nil
}

// Load opens and decodes the image file at path
func Load(path string) (*Source, error) {
	if !IsSupportedInput(path) {
		return nil, fmt.Errorf("unsupported input format: %q", filepath.Ext(path))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	src, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return src, nil
}

// Save encodes img to path. The format is chosen from the file extension;
// quality only affects JPEG output.
func Save(img image.Image, path string, quality int) error {
	if !IsSupportedOutput(path) {
		return fmt.Errorf("unsupported output format: %q", filepath.Ext(path))
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}
