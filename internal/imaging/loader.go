// Package imaging reads and writes the still images used by the file frame
// source, the PNG sink and the library facade.
package imaging

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	_ "golang.org/x/image/webp"
)

// Extensions lists the file extensions Load understands.
var Extensions = []string{".png", ".jpg", ".jpeg", ".webp"}

// IsSupported reports whether path has an extension Load understands.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Load reads an image file from disk. Supports PNG, JPEG, and WEBP.
// The path is normalized: ~ is expanded to the user's home directory,
// and relative paths are resolved to absolute.
func Load(path string) (image.Image, error) {
	path = ExpandPath(path)
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening image")
	}
	defer f.Close()

	var img image.Image
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png":
		img, err = png.Decode(f)
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(f)
	case ".webp":
		// Decoded via the blank import of golang.org/x/image/webp
		img, _, err = image.Decode(f)
	default:
		return nil, errors.Errorf("unsupported image format %q (supported: png, jpg, jpeg, webp)", ext)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", filepath.Base(path))
	}
	return img, nil
}

// SavePNG writes an image to disk as PNG.
// The path is normalized: ~ is expanded and relative paths are resolved.
func SavePNG(path string, img image.Image) error {
	path = ExpandPath(path)
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating output file")
	}

	if err := EncodePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "closing output file")
}

// EncodePNG writes img to w with fast compression, which suits per-frame output.
func EncodePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(w, img); err != nil {
		return errors.Wrap(err, "encoding PNG")
	}
	return nil
}

// ExpandPath normalizes a file path by expanding ~ to the user's home
// directory and resolving relative paths to absolute.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	// Expand ~ and ~/ to home directory
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}

	// On Windows, also handle ~\
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "~\\") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	// Resolve relative paths to absolute
	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return filepath.Clean(path)
}
