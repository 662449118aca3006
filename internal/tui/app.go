package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/mirror"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/telemetry"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/tui/components"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/tui/styles"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Panel represents which panel is focused
type Panel int

const (
	PanelNowPlaying Panel = iota
	PanelLevels
	PanelScreen
	PanelHistory
	panelCount
)

const maxHistory = 50

// Update is one observation pushed into the dashboard. Either field may be
// nil.
type Update struct {
	Payload *telemetry.Payload
	Frame   *mirror.Frame
	Err     error
}

type keyMap struct {
	Quit  key.Binding
	Next  key.Binding
	Prev  key.Binding
	Pause key.Binding
	Help  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Pause, k.Next, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Quit, k.Pause}, {k.Next, k.Prev, k.Help}}
}

var keys = keyMap{
	Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Next:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next panel")),
	Prev:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous panel")),
	Pause: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "freeze display")),
	Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
}

// Model is the preview dashboard
type Model struct {
	updates <-chan Update
	source  string
	width   int
	height  int
	focused Panel
	frozen  bool

	payload *telemetry.Payload
	frame   *mirror.Frame
	lines   int
	history []components.HistoryEntry
	now     time.Time

	nowPlaying *components.NowPlaying
	levels     *components.Levels
	screen     *components.Screen
	historyV   *components.History
	help       help.Model

	lastError   error
	errorExpiry time.Time
	quitting    bool
}

// NewModel creates a dashboard reading from updates. source names where the
// line is going, such as a port name or "dry run".
func NewModel(updates <-chan Update, source string, maxLevel int) Model {
	return Model{
		updates:    updates,
		source:     source,
		nowPlaying: components.NewNowPlaying(),
		levels:     components.NewLevels(maxLevel),
		screen:     components.NewScreen(),
		historyV:   components.NewHistory(),
		help:       help.New(),
		now:        time.Now(),
	}
}

type updateMsg Update
type closedMsg struct{}

func waitForUpdate(ch <-chan Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return updateMsg(u)
	}
}

// Init starts listening for updates
func (m Model) Init() tea.Cmd {
	return waitForUpdate(m.updates)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case updateMsg:
		m.apply(Update(msg), time.Now())
		return m, waitForUpdate(m.updates)

	case closedMsg:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// apply folds one update into the model.
func (m *Model) apply(u Update, now time.Time) {
	m.now = now
	if now.After(m.errorExpiry) {
		m.lastError = nil
	}
	if u.Err != nil {
		m.lastError = u.Err
		m.errorExpiry = now.Add(5 * time.Second)
	}
	if m.frozen {
		return
	}

	if u.Payload != nil {
		m.lines++
		if m.payload == nil || m.payload.Title != u.Payload.Title || m.payload.Artist != u.Payload.Artist {
			m.addToHistory(u.Payload, now)
		}
		m.payload = u.Payload
	}
	if u.Frame != nil {
		m.frame = u.Frame
	}
}

func (m *Model) addToHistory(p *telemetry.Payload, now time.Time) {
	entry := components.HistoryEntry{Title: p.Title, Artist: p.Artist, PlayedAt: now}
	m.history = append([]components.HistoryEntry{entry}, m.history...)
	if len(m.history) > maxHistory {
		m.history = m.history[:maxHistory]
	}
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, keys.Next):
		m.focused = (m.focused + 1) % panelCount
	case key.Matches(msg, keys.Prev):
		m.focused = (m.focused + panelCount - 1) % panelCount
	case key.Matches(msg, keys.Pause):
		m.frozen = !m.frozen
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	// Left: Now Playing (top), Levels (bottom)
	// Right: Screen (top), History (bottom)
	leftWidth := m.width * 45 / 100
	rightWidth := m.width - leftWidth - 2
	topHeight := m.height * 55 / 100
	bottomHeight := m.height - topHeight - 3

	nowPlaying := m.nowPlaying.Render(m.payload, leftWidth-2, topHeight-2, m.focused == PanelNowPlaying)
	levels := m.levels.Render(m.payload, leftWidth-2, bottomHeight-2, m.focused == PanelLevels)
	screen := m.screen.Render(m.frame, rightWidth-2, topHeight-2, m.focused == PanelScreen)
	history := m.historyV.Render(m.history, m.now, rightWidth-2, bottomHeight-2, m.focused == PanelHistory)

	leftCol := lipgloss.JoinVertical(lipgloss.Left, nowPlaying, levels)
	rightCol := lipgloss.JoinVertical(lipgloss.Left, screen, history)
	main := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, rightCol)

	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) renderStatusBar() string {
	line := ""
	if m.payload != nil {
		line = styles.Wire.Render(m.payload.String())
	}
	status := fmt.Sprintf("%s  %s", styles.Dim.Render(fmt.Sprintf("%s · %d lines", m.source, m.lines)), line)
	if m.frozen {
		status = styles.Idle.Render("frozen") + "  " + status
	}
	if m.lastError != nil {
		status = styles.Failure.Render("Error: " + m.lastError.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Width(m.width).Padding(0, 1).Render(status),
		lipgloss.NewStyle().Padding(0, 1).Render(m.help.View(keys)),
	)
}

// Run shows the dashboard until the user quits, ctx is done or updates is
// closed.
func Run(ctx context.Context, updates <-chan Update, source string, maxLevel int) error {
	p := tea.NewProgram(NewModel(updates, source, maxLevel), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if ctx.Err() != nil {
		return nil
	}
	return err
}
