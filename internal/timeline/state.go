package timeline

import "time"

// State is the estimator's view of the transport at its last resync.
type State struct {
	Title        string
	Artist       string
	BasePosition time.Duration // elapsed at BaseTime
	BaseTime     time.Time
	Duration     time.Duration
	Playing      bool
	LastRefresh  time.Time // last successful timeline query
}

// Simulated returns BasePosition advanced to now when playing. It is never
// negative and never advances for now before BaseTime.
func (s State) Simulated(now time.Time) time.Duration {
	pos := s.BasePosition
	if s.Playing {
		if d := now.Sub(s.BaseTime); d > 0 {
			pos += d
		}
	}
	if pos < 0 {
		pos = 0
	}
	return pos
}

// ElapsedAt is Simulated clamped to the track duration when one is known.
func (s State) ElapsedAt(now time.Time) time.Duration {
	pos := s.Simulated(now)
	if s.Duration > 0 && pos > s.Duration {
		pos = s.Duration
	}
	return pos
}
