// Package tail turns the telemetry stream into human-readable media events.
package tail

import (
	"context"
	"time"

	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/telemetry"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/timeline"
)

// EventType represents the type of media event.
type EventType int

const (
	EventTrackChange EventType = iota
	EventTrackComplete
	EventTrackSkip
	EventPause
	EventResume
	EventSeek
	EventVolumeChange
	EventIdle
)

// DefaultStall is how long the clock must stand still before a pause is
// reported. It must exceed one second since the line carries whole seconds.
const DefaultStall = 1500 * time.Millisecond

// seekJump is the largest forward step in seconds between two lines that
// still counts as normal playback.
const seekJump = 2

// Event represents a change between two telemetry lines.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  *telemetry.Payload
	Current   *telemetry.Payload
}

// Watcher diffs consecutive telemetry payloads and emits events.
type Watcher struct {
	in     <-chan telemetry.Payload
	stall  time.Duration
	events chan Event
	now    func() time.Time

	prev        *telemetry.Payload
	lastAdvance time.Time
	paused      bool
}

// NewWatcher creates a watcher reading payloads from in.
func NewWatcher(in <-chan telemetry.Payload, stall time.Duration) *Watcher {
	if stall == 0 {
		stall = DefaultStall
	}
	return &Watcher{
		in:     in,
		stall:  stall,
		events: make(chan Event, 16),
		now:    time.Now,
	}
}

// Events returns the channel of media events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start consumes payloads until ctx is done or the input closes.
func (w *Watcher) Start(ctx context.Context) error {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case p, ok := <-w.in:
			if !ok {
				return nil
			}
			for _, e := range w.Observe(p, w.now()) {
				select {
				case w.events <- e:
				default:
					// Drop event if channel is full
				}
			}
		}
	}
}

// Observe records curr and returns the events it implies relative to the
// previous payload.
func (w *Watcher) Observe(curr telemetry.Payload, now time.Time) []Event {
	prev := w.prev
	w.prev = &curr

	event := func(t EventType, p *telemetry.Payload) Event {
		return Event{Type: t, Timestamp: now, Previous: p, Current: &curr}
	}

	// First line
	if prev == nil {
		w.lastAdvance = now
		if isIdle(curr) {
			return []Event{event(EventIdle, nil)}
		}
		return []Event{event(EventTrackChange, nil)}
	}

	var events []Event

	if trackChanged(prev, &curr) {
		w.lastAdvance = now
		w.paused = false

		if !isIdle(*prev) {
			if wasCompleted(prev) {
				events = append(events, event(EventTrackComplete, prev))
			} else {
				events = append(events, event(EventTrackSkip, prev))
			}
		}
		if isIdle(curr) {
			events = append(events, event(EventIdle, prev))
		} else {
			events = append(events, event(EventTrackChange, prev))
		}
	} else if !isIdle(curr) {
		events = append(events, w.clockEvents(prev, &curr, now, event)...)
	}

	if prev.Volume != curr.Volume {
		events = append(events, event(EventVolumeChange, prev))
	}

	return events
}

// clockEvents detects seeks, pauses and resumes within one track.
func (w *Watcher) clockEvents(prev, curr *telemetry.Payload, now time.Time, event func(EventType, *telemetry.Payload) Event) []Event {
	if curr.Elapsed == prev.Elapsed {
		if w.paused || now.Sub(w.lastAdvance) <= w.stall || atEnd(curr) {
			return nil
		}
		w.paused = true
		return []Event{event(EventPause, prev)}
	}

	w.lastAdvance = now
	before, err1 := timeline.ParseClock(prev.Elapsed)
	after, err2 := timeline.ParseClock(curr.Elapsed)
	if err1 == nil && err2 == nil && (after < before || after-before > seekJump) {
		w.paused = false
		return []Event{event(EventSeek, prev)}
	}
	if w.paused {
		w.paused = false
		return []Event{event(EventResume, prev)}
	}
	return nil
}

// isIdle reports whether p is the placeholder sent without a media session.
func isIdle(p telemetry.Payload) bool {
	return p.Title == timeline.IdleTitle && p.Artist == timeline.IdleArtist
}

// trackChanged returns true if the track changed.
func trackChanged(prev, curr *telemetry.Payload) bool {
	return prev.Title != curr.Title || prev.Artist != curr.Artist || prev.Duration != curr.Duration
}

// wasCompleted returns true if the track likely completed naturally.
func wasCompleted(p *telemetry.Payload) bool {
	elapsed, err1 := timeline.ParseClock(p.Elapsed)
	duration, err2 := timeline.ParseClock(p.Duration)
	if err1 != nil || err2 != nil || duration == 0 {
		return false
	}
	// Consider completed if progress is >= 95% of duration
	return float64(elapsed) >= float64(duration)*0.95
}

// atEnd reports whether the clock is parked at the end of a known duration.
func atEnd(p *telemetry.Payload) bool {
	return p.Duration != "0:00" && p.Elapsed == p.Duration
}
