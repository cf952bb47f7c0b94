package display

import (
	"image"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// Terminal draws frames in a true-color terminal using upper half blocks,
// two image rows per cell. q, Q, Escape and Ctrl-C request a quit.
type Terminal struct {
	screen    tcell.Screen
	quit      atomic.Bool
	closeOnce sync.Once
}

// NewTerminal opens the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, errors.Wrap(err, "creating terminal screen")
	}
	return NewTerminalOn(screen)
}

// NewTerminalOn initializes screen and starts listening for key events.
func NewTerminalOn(screen tcell.Screen) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, errors.Wrap(err, "initializing terminal screen")
	}
	screen.HideCursor()
	screen.Clear()

	t := &Terminal{screen: screen}
	go t.poll()
	return t, nil
}

func (t *Terminal) poll() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if isQuitKey(ev) {
				t.quit.Store(true)
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

// Show scales img to the terminal and draws it.
func (t *Terminal) Show(img image.Image) error {
	cols, rows := t.screen.Size()
	if cols <= 0 || rows <= 0 {
		return nil
	}
	scaled := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := scaled.RGBAAt(x, 2*y)
			bottom := scaled.RGBAAt(x, 2*y+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			t.screen.SetContent(x, y, '▀', nil, style)
		}
	}
	t.screen.Show()
	return nil
}

func (t *Terminal) QuitRequested() bool {
	return t.quit.Load()
}

// Close restores the terminal. It is safe to call more than once.
func (t *Terminal) Close() error {
	t.closeOnce.Do(t.screen.Fini)
	return nil
}
