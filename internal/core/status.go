package core

import "strings"

// PlaybackStatus is the transport state reported by a media session.
type PlaybackStatus string

const (
	StatusClosed   PlaybackStatus = "closed"
	StatusOpened   PlaybackStatus = "opened"
	StatusChanging PlaybackStatus = "changing"
	StatusStopped  PlaybackStatus = "stopped"
	StatusPlaying  PlaybackStatus = "playing"
	StatusPaused   PlaybackStatus = "paused"
)

// ParsePlaybackStatus maps a player-reported status string onto a
// PlaybackStatus. Unknown values map to StatusStopped.
func ParsePlaybackStatus(s string) PlaybackStatus {
	switch PlaybackStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusClosed:
		return StatusClosed
	case StatusOpened:
		return StatusOpened
	case StatusChanging:
		return StatusChanging
	case StatusPlaying:
		return StatusPlaying
	case StatusPaused:
		return StatusPaused
	default:
		return StatusStopped
	}
}

// IsPlaying reports whether the transport is advancing.
func (s PlaybackStatus) IsPlaying() bool {
	return s == StatusPlaying
}
