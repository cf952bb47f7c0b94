// Package display contains presentation sinks for rendered frames.
package display

import (
	"image"

	"github.com/maax3v3/colormood/internal/color"
)

// Sink presents rendered frames and reports when the user asked to stop.
type Sink interface {
	Show(img image.Image) error
	QuitRequested() bool
	Close() error
}

// PaletteObserver is implemented by sinks that also want the raw palette of
// every frame, before smoothing.
type PaletteObserver interface {
	ObservePalette(p color.Palette)
}
