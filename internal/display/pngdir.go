package display

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/maax3v3/colormood/internal/imaging"
)

// PNGDir writes every frame as a numbered PNG file. With a limit set it asks
// to quit once that many frames were written.
type PNGDir struct {
	dir   string
	limit int
	count int
}

// NewPNGDir creates dir if needed.
func NewPNGDir(dir string, limit int) (*PNGDir, error) {
	dir = imaging.ExpandPath(dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating output directory %s", dir)
	}
	return &PNGDir{dir: dir, limit: limit}, nil
}

// Path returns the file name used for the n-th frame, starting at 1.
func (p *PNGDir) Path(n int) string {
	return filepath.Join(p.dir, fmt.Sprintf("frame-%06d.png", n))
}

// Count returns the number of frames written so far.
func (p *PNGDir) Count() int { return p.count }

func (p *PNGDir) Show(img image.Image) error {
	path := p.Path(p.count + 1)
	if err := imaging.SavePNG(path, img); err != nil {
		return errors.Wrapf(err, "writing frame %d", p.count+1)
	}
	p.count++
	return nil
}

func (p *PNGDir) QuitRequested() bool {
	return p.limit > 0 && p.count >= p.limit
}

func (p *PNGDir) Close() error { return nil }
