package components

import (
	"fmt"

	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/telemetry"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

// Levels displays the VU meters and the system volume.
type Levels struct {
	Max int
}

// NewLevels creates a new Levels component
func NewLevels(max int) *Levels {
	return &Levels{Max: max}
}

// Render renders the levels panel
func (l *Levels) Render(p *telemetry.Payload, width, height int, focused bool) string {
	title := styles.PanelTitle("Levels", focused)

	var left, right, vol int
	if p != nil {
		left, right, vol = p.Left, p.Right, p.Volume
	}

	volBar := styles.LevelBar(vol*l.Max/100, l.Max)
	content := lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("%s %s %d", styles.Label.Render("L"), styles.LevelBar(left, l.Max), left),
		fmt.Sprintf("%s %s %d", styles.Label.Render("R"), styles.LevelBar(right, l.Max), right),
		"",
		fmt.Sprintf("%s %s %d%%", styles.Label.Render("V"), volBar, vol),
	)

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}
