package source

import (
	"image"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/maax3v3/colormood/internal/imaging"
)

// Files replays still images as frames: a single file, or every supported
// image of a directory in name order.
type Files struct {
	paths  []string
	next   int
	loop   bool
	closed bool
}

// NewFiles opens path as a frame source. With loop set the images repeat
// forever; otherwise the stream ends after the last one.
func NewFiles(path string, loop bool) (*Files, error) {
	path = imaging.ExpandPath(path)
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "stat %s: %v", path, err)
	}

	var paths []string
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, errors.Wrapf(ErrUnavailable, "reading %s: %v", path, err)
		}
		for _, e := range entries {
			if !e.IsDir() && imaging.IsSupported(e.Name()) {
				paths = append(paths, filepath.Join(path, e.Name()))
			}
		}
		sort.Strings(paths)
	} else if imaging.IsSupported(path) {
		paths = []string{path}
	}

	if len(paths) == 0 {
		return nil, errors.Wrapf(ErrUnavailable, "no png, jpeg or webp images at %s", path)
	}
	return &Files{paths: paths, loop: loop}, nil
}

// Len returns the number of images in the source.
func (f *Files) Len() int { return len(f.paths) }

func (f *Files) Read() (image.Image, error) {
	if f.closed {
		return nil, errors.Wrap(ErrNoFrame, "file source closed")
	}
	if f.next >= len(f.paths) {
		if !f.loop {
			return nil, errors.Wrap(ErrNoFrame, "no more images")
		}
		f.next = 0
	}

	path := f.paths[f.next]
	f.next++
	img, err := imaging.Load(path)
	if err != nil {
		return nil, errors.Wrapf(ErrNoFrame, "%v", err)
	}
	return img, nil
}

func (f *Files) Close() error {
	f.closed = true
	return nil
}
