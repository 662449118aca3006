package tail

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/telemetry"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/timeline"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func song(title, elapsed, duration string) telemetry.Payload {
	return telemetry.Payload{Title: title, Artist: "Band", Volume: 50, Elapsed: elapsed, Duration: duration}
}

func idle() telemetry.Payload {
	s := timeline.Idle()
	return telemetry.Payload{Title: s.Title, Artist: s.Artist, Volume: 50, Elapsed: s.Elapsed, Duration: s.Duration}
}

func types(events []Event) []EventType {
	var out []EventType
	for _, e := range events {
		out = append(out, e.Type)
	}
	return out
}

func equalTypes(a, b []EventType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestObserve(t *testing.T) {
	tests := []struct {
		name  string
		prev  telemetry.Payload
		curr  telemetry.Payload
		after time.Duration
		want  []EventType
	}{
		{"same second", song("A", "0:10", "3:00"), song("A", "0:10", "3:00"), 40 * time.Millisecond, nil},
		{"next second", song("A", "0:10", "3:00"), song("A", "0:11", "3:00"), time.Second, nil},
		{"skip", song("A", "0:10", "3:00"), song("B", "0:00", "2:00"), time.Second, []EventType{EventTrackSkip, EventTrackChange}},
		{"complete", song("A", "2:59", "3:00"), song("B", "0:00", "2:00"), time.Second, []EventType{EventTrackComplete, EventTrackChange}},
		{"seek forward", song("A", "0:10", "3:00"), song("A", "1:30", "3:00"), 40 * time.Millisecond, []EventType{EventSeek}},
		{"seek backward", song("A", "1:30", "3:00"), song("A", "0:05", "3:00"), 40 * time.Millisecond, []EventType{EventSeek}},
		{"to idle", song("A", "0:10", "3:00"), idle(), time.Second, []EventType{EventTrackSkip, EventIdle}},
		{"from idle", idle(), song("A", "0:00", "3:00"), time.Second, []EventType{EventTrackChange}},
		{"stalled", song("A", "0:10", "3:00"), song("A", "0:10", "3:00"), 2 * time.Second, []EventType{EventPause}},
		{"stalled at end", song("A", "3:00", "3:00"), song("A", "3:00", "3:00"), 2 * time.Second, nil},
		{"idle stays idle", idle(), idle(), 5 * time.Second, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWatcher(nil, 0)
			w.Observe(tt.prev, t0)
			got := types(w.Observe(tt.curr, t0.Add(tt.after)))
			if !equalTypes(got, tt.want) {
				t.Errorf("Observe() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestObserveFirstLine(t *testing.T) {
	w := NewWatcher(nil, 0)
	if got := types(w.Observe(song("A", "0:00", "3:00"), t0)); !equalTypes(got, []EventType{EventTrackChange}) {
		t.Errorf("first Observe() = %v, want track change", got)
	}

	w = NewWatcher(nil, 0)
	if got := types(w.Observe(idle(), t0)); !equalTypes(got, []EventType{EventIdle}) {
		t.Errorf("first idle Observe() = %v, want idle", got)
	}
}

func TestObservePauseResume(t *testing.T) {
	w := NewWatcher(nil, time.Second)
	p := song("A", "0:10", "3:00")

	w.Observe(p, t0)
	if got := w.Observe(p, t0.Add(1500*time.Millisecond)); !equalTypes(types(got), []EventType{EventPause}) {
		t.Fatalf("Observe() = %v, want pause", types(got))
	}
	// Reported once.
	if got := w.Observe(p, t0.Add(5*time.Second)); len(got) != 0 {
		t.Errorf("Observe() while paused = %v, want none", types(got))
	}

	p.Elapsed = "0:11"
	if got := w.Observe(p, t0.Add(6*time.Second)); !equalTypes(types(got), []EventType{EventResume}) {
		t.Errorf("Observe() = %v, want resume", types(got))
	}
}

func TestObserveVolume(t *testing.T) {
	w := NewWatcher(nil, 0)
	p := song("A", "0:10", "3:00")
	w.Observe(p, t0)

	p.Volume = 70
	got := w.Observe(p, t0.Add(40*time.Millisecond))
	if !equalTypes(types(got), []EventType{EventVolumeChange}) {
		t.Fatalf("Observe() = %v, want volume", types(got))
	}
	if got[0].Previous.Volume != 50 || got[0].Current.Volume != 70 {
		t.Errorf("volume event = %d -> %d, want 50 -> 70", got[0].Previous.Volume, got[0].Current.Volume)
	}
}

func TestStart(t *testing.T) {
	in := make(chan telemetry.Payload, 3)
	in <- song("A", "0:00", "3:00")
	in <- song("A", "0:00", "3:00")
	in <- song("B", "0:00", "2:00")
	close(in)

	w := NewWatcher(in, 0)
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	var got []EventType
	for e := range w.Events() {
		got = append(got, e.Type)
	}
	want := []EventType{EventTrackChange, EventTrackSkip, EventTrackChange}
	if !equalTypes(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestStartCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewWatcher(make(chan telemetry.Payload), 0)
	if err := w.Start(ctx); err != context.Canceled {
		t.Errorf("Start() error = %v, want context.Canceled", err)
	}
	if _, ok := <-w.Events(); ok {
		t.Error("Events() still open after Start returned")
	}
}

func TestFormat(t *testing.T) {
	prev := song("A", "1:02", "3:00")
	curr := song("B", "0:00", "2:00")
	curr.Volume = 65
	ts := time.Date(2024, 5, 1, 9, 30, 15, 0, time.UTC)

	tests := []struct {
		name string
		opts []FormatterOption
		e    Event
		want string
	}{
		{"track", []FormatterOption{WithEmoji(false)}, Event{Type: EventTrackChange, Current: &curr}, "Now playing: Band - B (2:00)"},
		{"skip", []FormatterOption{WithEmoji(false)}, Event{Type: EventTrackSkip, Previous: &prev, Current: &curr}, "Skipped: Band - A at 1:02"},
		{"volume", []FormatterOption{WithEmoji(false)}, Event{Type: EventVolumeChange, Current: &curr}, "Volume: 65%"},
		{"emoji", nil, Event{Type: EventIdle}, "💤 No media session"},
		{"timestamp", []FormatterOption{WithEmoji(false), WithTimestamp(true)}, Event{Type: EventResume, Timestamp: ts}, "09:30:15 Resumed"},
		{"template", []FormatterOption{WithTemplate("{{.Type}} {{.Title}} {{.Volume}}")}, Event{Type: EventVolumeChange, Current: &curr}, "volume B 65"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewFormatter(tt.opts...).Format(tt.e); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseTemplate(t *testing.T) {
	if tmpl, err := ParseTemplate(""); tmpl != nil || err != nil {
		t.Errorf("ParseTemplate(\"\") = %v, %v, want nil, nil", tmpl, err)
	}
	_, err := ParseTemplate("{{.Title")
	if err == nil || !strings.Contains(err.Error(), "parse format") {
		t.Errorf("ParseTemplate() error = %v, want parse format error", err)
	}
}
