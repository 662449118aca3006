package tail

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/telemetry"
)

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	template      *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithTemplate sets a custom format template. Use ParseTemplate first to
// report errors; an invalid template here is ignored.
func WithTemplate(tmpl string) FormatterOption {
	return func(f *Formatter) {
		if t, err := ParseTemplate(tmpl); err == nil {
			f.template = t
		}
	}
}

// ParseTemplate parses a --format template. An empty string yields nil.
func ParseTemplate(tmpl string) (*template.Template, error) {
	if tmpl == "" {
		return nil, nil
	}
	t, err := template.New("format").Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("parse format: %w", err)
	}
	return t, nil
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{showEmoji: true}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format formats an event as a string.
func (f *Formatter) Format(e Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

func (f *Formatter) formatLine(e Event) string {
	var parts []string
	if f.showTimestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}
	if f.showEmoji {
		parts = append(parts, eventEmoji(e.Type))
	}
	parts = append(parts, eventDescription(e))
	return strings.Join(parts, " ")
}

func (f *Formatter) formatTemplate(e Event) string {
	data := templateData{
		Type:      e.Type.String(),
		Emoji:     eventEmoji(e.Type),
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
	}
	if c := e.Current; c != nil {
		data.Title = c.Title
		data.Artist = c.Artist
		data.Elapsed = c.Elapsed
		data.Duration = c.Duration
		data.Volume = c.Volume
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

type templateData struct {
	Type      string
	Emoji     string
	Timestamp time.Time
	Time      string
	Title     string
	Artist    string
	Elapsed   string
	Duration  string
	Volume    int
}

func (t EventType) String() string {
	switch t {
	case EventTrackChange:
		return "track"
	case EventTrackComplete:
		return "complete"
	case EventTrackSkip:
		return "skip"
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	case EventSeek:
		return "seek"
	case EventVolumeChange:
		return "volume"
	case EventIdle:
		return "idle"
	default:
		return "unknown"
	}
}

func track(p *telemetry.Payload) string {
	return p.Artist + " - " + p.Title
}

// eventDescription returns a human-readable description of the event.
func eventDescription(e Event) string {
	switch e.Type {
	case EventTrackChange:
		if e.Current != nil {
			return fmt.Sprintf("Now playing: %s (%s)", track(e.Current), e.Current.Duration)
		}
		return "Track changed"

	case EventTrackComplete:
		if e.Previous != nil {
			return "Finished: " + track(e.Previous)
		}
		return "Track completed"

	case EventTrackSkip:
		if e.Previous != nil {
			return fmt.Sprintf("Skipped: %s at %s", track(e.Previous), e.Previous.Elapsed)
		}
		return "Track skipped"

	case EventPause:
		if e.Current != nil {
			return "Paused at " + e.Current.Elapsed
		}
		return "Paused"

	case EventResume:
		return "Resumed"

	case EventSeek:
		if e.Previous != nil && e.Current != nil {
			return fmt.Sprintf("Seeked %s → %s", e.Previous.Elapsed, e.Current.Elapsed)
		}
		return "Seeked"

	case EventVolumeChange:
		if e.Current != nil {
			return fmt.Sprintf("Volume: %d%%", e.Current.Volume)
		}
		return "Volume changed"

	case EventIdle:
		return "No media session"

	default:
		return "Unknown event"
	}
}

// eventEmoji returns an emoji for the event type.
func eventEmoji(t EventType) string {
	switch t {
	case EventTrackChange:
		return "🎵"
	case EventTrackComplete:
		return "✅"
	case EventTrackSkip:
		return "⏭️"
	case EventPause:
		return "⏸️"
	case EventResume:
		return "▶️"
	case EventSeek:
		return "⏩"
	case EventVolumeChange:
		return "🔊"
	case EventIdle:
		return "💤"
	default:
		return "❓"
	}
}
