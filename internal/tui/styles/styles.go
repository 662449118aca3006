package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Accent    = lipgloss.Color("#F59E0B") // Amber

	Success = lipgloss.Color("#10B981")
	Warning = lipgloss.Color("#F59E0B")
	Error   = lipgloss.Color("#EF4444")

	Border    = lipgloss.Color("#4B5563")
	Text      = lipgloss.Color("#F9FAFB")
	TextMuted = lipgloss.Color("#9CA3AF")
	TextDim   = lipgloss.Color("#6B7280")

	// Pixel colors of the macropad's OLED.
	PixelOn  = lipgloss.Color("#E0F2FE")
	PixelOff = lipgloss.Color("#111827")
)

// Text styles
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Text)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextMuted)

	Label = lipgloss.NewStyle().
		Foreground(TextDim)

	Highlight = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	Dim = lipgloss.NewStyle().
		Foreground(TextDim)

	Playing = lipgloss.NewStyle().
		Foreground(Success)

	Idle = lipgloss.NewStyle().
		Foreground(Warning)

	Failure = lipgloss.NewStyle().
		Foreground(Error)

	Wire = lipgloss.NewStyle().
		Foreground(Secondary)

	Screen = lipgloss.NewStyle().
		Foreground(PixelOn).
		Background(PixelOff)
)

// Border styles
var (
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border)

	FocusedBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary)
)

// Panel creates a styled panel with optional focus
func Panel(focused bool) lipgloss.Style {
	if focused {
		return FocusedBorder.Padding(0, 1)
	}
	return BorderStyle.Padding(0, 1)
}

// PanelTitle creates a styled panel title
func PanelTitle(title string, focused bool) string {
	style := Label
	if focused {
		style = Highlight
	}
	return style.Render(" " + title + " ")
}

// LevelBar draws a segmented VU bar of max cells with level lit. The top
// quarter is amber and the last cell red.
func LevelBar(level, max int) string {
	if level < 0 {
		level = 0
	}
	if level > max {
		level = max
	}

	var b strings.Builder
	for i := 0; i < max; i++ {
		if i >= level {
			b.WriteString(Dim.Render("·"))
			continue
		}
		color := Success
		switch {
		case i == max-1:
			color = Error
		case i >= max*3/4:
			color = Warning
		}
		b.WriteString(lipgloss.NewStyle().Foreground(color).Render("█"))
	}
	return b.String()
}

// StatusIcon returns an icon for the media state.
func StatusIcon(active bool) string {
	if active {
		return Playing.Render("▶")
	}
	return Idle.Render("■")
}
