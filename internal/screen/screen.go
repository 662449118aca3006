// Package screen captures a display as an image.
package screen

import (
	"fmt"
	"image"

	verrors "github.com/GuestDaProtogen/Vortex-MacroPad/internal/errors"
	"github.com/kbinani/screenshot"
)

// Capturer grabs the current contents of a display.
type Capturer interface {
	Capture() (image.Image, error)
}

// Display captures one monitor. Index 0 is the primary display.
type Display struct {
	Index int
}

// Capture grabs the full bounds of the display.
func (d Display) Capture() (image.Image, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, verrors.ErrNoDisplay
	}
	if d.Index < 0 || d.Index >= n {
		return nil, fmt.Errorf("display %d: %w (have %d)", d.Index, verrors.ErrNoDisplay, n)
	}

	img, err := screenshot.CaptureRect(screenshot.GetDisplayBounds(d.Index))
	if err != nil {
		return nil, verrors.Transient("capture display", err)
	}
	return img, nil
}

// Bounds lists the bounds of every active display.
func Bounds() []image.Rectangle {
	n := screenshot.NumActiveDisplays()
	out := make([]image.Rectangle, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, screenshot.GetDisplayBounds(i))
	}
	return out
}
