package components

import (
	"fmt"
	"time"

	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// HistoryEntry is a track seen on the telemetry line.
type HistoryEntry struct {
	Title    string
	Artist   string
	PlayedAt time.Time
}

// History displays recently seen tracks
type History struct{}

// NewHistory creates a new History component
func NewHistory() *History {
	return &History{}
}

// Render renders the history panel
func (h *History) Render(entries []HistoryEntry, now time.Time, width, height int, focused bool) string {
	title := styles.PanelTitle("History", focused)

	var content string
	if len(entries) == 0 {
		content = styles.Muted.Render("No tracks yet")
	} else {
		content = h.renderHistory(entries, now, width-4, height-4)
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

func (h *History) renderHistory(entries []HistoryEntry, now time.Time, width, maxLines int) string {
	lines := make([]string, 0, maxLines)

	for i, entry := range entries {
		if i >= maxLines {
			break
		}

		ago := humanize.RelTime(entry.PlayedAt, now, "ago", "from now")
		info := truncate(fmt.Sprintf("%s — %s", entry.Title, entry.Artist), width-len(ago)-1)

		padding := width - lipgloss.Width(info) - len(ago)
		if padding < 1 {
			padding = 1
		}
		lines = append(lines, info+lipgloss.NewStyle().Width(padding).Render("")+styles.Dim.Render(ago))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
