// Package source provides the frame sources that feed the capture loop.
package source

import (
	"image"

	"github.com/pkg/errors"
)

var (
	// ErrUnavailable is returned when a source cannot be opened.
	ErrUnavailable = errors.New("frame source unavailable")

	// ErrNoFrame is returned by Read when no frame could be acquired. The
	// stream is considered finished after it.
	ErrNoFrame = errors.New("no frame")
)

// FrameSource produces frames of a fixed size until it fails.
type FrameSource interface {
	// Read returns the next frame, or an error wrapping ErrNoFrame.
	Read() (image.Image, error)

	// Close releases the underlying device or files.
	Close() error
}
