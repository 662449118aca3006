// Package logging builds the zerolog logger shared by every component.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/config"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// New returns a logger configured from cfg. Console output goes to stderr;
// when cfg.File is set, JSON lines are appended to that file instead, each
// tagged with a per-process run id. The returned closer releases the file
// and is never nil.
func New(cfg config.LogConfig, verbose bool) (zerolog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}
	if verbose {
		level = zerolog.DebugLevel
	}

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("open log file: %w", err)
		}
		return zerolog.New(f).Level(level).With().Timestamp().Str("run", uuid.NewString()).Logger(), f, nil
	}

	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nopCloser{}, nil
}

// ParseLevel maps a config level name onto a zerolog level. Empty means info.
func ParseLevel(name string) (zerolog.Level, error) {
	switch name {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", name)
	}
}

// Throttle limits how often a repeating message is logged. Transient
// failures recur on every tick; only the first within each interval is
// written.
type Throttle struct {
	s rate.Sometimes
}

// NewThrottle returns a Throttle that lets one call through per interval.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{s: rate.Sometimes{First: 1, Interval: interval}}
}

// Do runs f if the throttle allows it.
func (t *Throttle) Do(f func()) {
	t.s.Do(f)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
