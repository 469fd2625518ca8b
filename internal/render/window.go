package render

import (
	"gocv.io/x/gocv"
)

// Window wraps a gocv window configured for projector output.
type Window struct {
	win *gocv.Window
}

// NewWindow opens a window with the given title. When fullscreen is set
// the window is switched to borderless fullscreen for the projector.
func NewWindow(title string, fullscreen bool) *Window {
	win := gocv.NewWindow(title)
	if fullscreen {
		win.SetWindowProperty(gocv.WindowPropertyFullscreen, gocv.WindowFullscreen)
	}
	return &Window{win: win}
}

// Show displays the mat and pumps the GUI event loop for 1ms.
// It returns false when the user pressed Escape or closed the window.
func (w *Window) Show(mat *gocv.Mat) bool {
	w.win.IMShow(*mat)
	if key := w.win.WaitKey(1); key == 27 {
		return false
	}
	return w.win.IsOpen()
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.win.Close()
}
