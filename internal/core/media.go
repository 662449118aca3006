package core

import (
	"context"
	"time"
)

// MediaSource hands out the operating system's current media session.
type MediaSource interface {
	// CurrentSession returns the session the OS considers current. It returns
	// errors.ErrNoSession when nothing is registered.
	CurrentSession(ctx context.Context) (Session, error)
}

// Session is a handle to one media player's transport controls.
type Session interface {
	// Properties returns the track metadata.
	Properties(ctx context.Context) (*Properties, error)

	// Timeline returns the transport position and state.
	Timeline(ctx context.Context) (*Timeline, error)
}

// Properties holds the metadata a session reports for the current track.
type Properties struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
}

// Timeline is an authoritative transport snapshot.
type Timeline struct {
	Position    time.Duration  `json:"position"`
	MaxSeekTime time.Duration  `json:"max_seek_time"`
	Status      PlaybackStatus `json:"status"`
}
