package components

import (
	"fmt"

	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/telemetry"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/timeline"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/tui/styles"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// NowPlaying displays the media half of the telemetry line.
type NowPlaying struct {
	bar progress.Model
}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{
		bar: progress.New(
			progress.WithSolidFill(string(styles.Primary)),
			progress.WithoutPercentage(),
		),
	}
}

// Render renders the now playing panel
func (n *NowPlaying) Render(p *telemetry.Payload, width, height int, focused bool) string {
	title := styles.PanelTitle("Now Playing", focused)

	var content string
	if p == nil {
		content = styles.Muted.Render("Waiting for first tick")
	} else {
		content = n.renderTrack(p, width-4)
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

func (n *NowPlaying) renderTrack(p *telemetry.Payload, width int) string {
	idle := p.Title == timeline.IdleTitle && p.Artist == timeline.IdleArtist

	icon := styles.StatusIcon(!idle)
	titleLine := styles.Title.Width(width - 2).Render(p.Title)
	artist := styles.Subtitle.Render(p.Artist)

	// Room for the clocks on either side.
	barWidth := width - len(p.Elapsed) - len(p.Duration) - 2
	if barWidth < 10 {
		barWidth = 10
	}
	n.bar.Width = barWidth
	progressLine := fmt.Sprintf("%s %s %s", p.Elapsed, n.bar.ViewAs(Fraction(p.Elapsed, p.Duration)), p.Duration)

	return lipgloss.JoinVertical(lipgloss.Left,
		icon+" "+titleLine,
		"  "+artist,
		"",
		progressLine,
	)
}

// Fraction returns elapsed/duration for two M:SS clocks, in [0,1].
func Fraction(elapsed, duration string) float64 {
	e, err1 := timeline.ParseClock(elapsed)
	d, err2 := timeline.ParseClock(duration)
	if err1 != nil || err2 != nil || d <= 0 {
		return 0
	}
	f := float64(e) / float64(d)
	if f > 1 {
		return 1
	}
	return f
}
