package components

import (
	"strings"

	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/mirror"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

// Screen shows a mirror frame as it appears on the device. Two pixel rows
// share one terminal row through half-block glyphs.
type Screen struct{}

// NewScreen creates a new Screen component
func NewScreen() *Screen {
	return &Screen{}
}

// Render renders the screen panel
func (s *Screen) Render(f *mirror.Frame, width, height int, focused bool) string {
	title := styles.PanelTitle("Screen", focused)

	var content string
	if f == nil {
		content = styles.Muted.Render("No frame captured")
	} else {
		content = styles.Screen.Render(HalfBlocks(f))
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

// HalfBlocks renders f with one glyph per 1x2 pixel cell.
func HalfBlocks(f *mirror.Frame) string {
	var b strings.Builder
	for y := 0; y < f.Height; y += 2 {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < f.Width; x++ {
			top := f.At(x, y)
			bottom := y+1 < f.Height && f.At(x, y+1)
			switch {
			case top && bottom:
				b.WriteString("█")
			case top:
				b.WriteString("▀")
			case bottom:
				b.WriteString("▄")
			default:
				b.WriteByte(' ')
			}
		}
	}
	return b.String()
}
