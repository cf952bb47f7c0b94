// Package cvio connects the pipeline to OpenCV: a webcam frame source and a
// display window. It needs the OpenCV shared libraries at run time.
package cvio

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/maax3v3/colormood/internal/source"
)

// Requested capture size. Cameras that cannot honor it pick their closest mode.
const (
	CaptureWidth  = 1280
	CaptureHeight = 720
)

const (
	keyEscape = 27
	keyQ      = 'q'
	keyUpperQ = 'Q'
)

// Camera reads frames from a video capture device.
type Camera struct {
	capture *gocv.VideoCapture
	mat     gocv.Mat
}

// OpenCamera opens the capture device with the given index.
func OpenCamera(device int) (*Camera, error) {
	capture, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, errors.Wrapf(source.ErrUnavailable, "opening camera %d: %v", device, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, errors.Wrapf(source.ErrUnavailable, "camera %d is not available", device)
	}
	capture.Set(gocv.VideoCaptureFrameWidth, CaptureWidth)
	capture.Set(gocv.VideoCaptureFrameHeight, CaptureHeight)
	return &Camera{capture: capture, mat: gocv.NewMat()}, nil
}

func (c *Camera) Read() (image.Image, error) {
	if ok := c.capture.Read(&c.mat); !ok || c.mat.Empty() {
		return nil, errors.Wrap(source.ErrNoFrame, "camera returned no frame")
	}
	img, err := c.mat.ToImage()
	if err != nil {
		return nil, errors.Wrapf(source.ErrNoFrame, "converting camera frame: %v", err)
	}
	return img, nil
}

func (c *Camera) Close() error {
	c.mat.Close()
	return errors.Wrap(c.capture.Close(), "closing camera")
}

// Window shows frames in an OpenCV window. q, Q and Escape request a quit,
// as does closing the window.
type Window struct {
	window *gocv.Window
	quit   bool
	shown  bool
}

// NewWindow opens a window with the given title.
func NewWindow(title string) *Window {
	return &Window{window: gocv.NewWindow(title)}
}

func (w *Window) Show(img image.Image) error {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return errors.Wrap(err, "converting frame for display")
	}
	defer mat.Close()

	w.window.IMShow(mat)
	w.shown = true
	switch w.window.WaitKey(1) {
	case keyEscape, keyQ, keyUpperQ:
		w.quit = true
	}
	return nil
}

func (w *Window) QuitRequested() bool {
	if w.quit {
		return true
	}
	if w.shown && w.window.GetWindowProperty(gocv.WindowPropertyVisible) < 1 {
		w.quit = true
	}
	return w.quit
}

func (w *Window) Close() error {
	return errors.Wrap(w.window.Close(), "closing window")
}
