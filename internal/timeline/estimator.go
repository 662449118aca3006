// Package timeline keeps a smoothly advancing track clock between
// infrequent queries of the OS media session.
package timeline

import (
	"context"
	"fmt"
	"time"

	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/core"
	verrors "github.com/GuestDaProtogen/Vortex-MacroPad/internal/errors"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/logging"
	"github.com/rs/zerolog"
)

const (
	DefaultSessionRefresh  = 3 * time.Second
	DefaultTimelineRefresh = 3 * time.Second
	DefaultDriftThreshold  = 2 * time.Second

	IdleTitle  = "No Media"
	IdleArtist = "System Idle"

	untitled  = "No Title"
	noArtist  = "No Artist"
	zeroClock = "0:00"
	logEvery  = 30 * time.Second
)

// Sample is what one telemetry tick displays.
type Sample struct {
	Title    string
	Artist   string
	Elapsed  string
	Duration string
}

// Idle is the sample shown when there is no session or a lookup failed.
func Idle() Sample {
	return Sample{Title: IdleTitle, Artist: IdleArtist, Elapsed: zeroClock, Duration: zeroClock}
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithSessionRefresh sets the maximum age of the cached session handle.
func WithSessionRefresh(d time.Duration) Option {
	return func(e *Estimator) {
		e.sessionRefresh = d
	}
}

// WithTimelineRefresh sets the maximum time between timeline resyncs.
func WithTimelineRefresh(d time.Duration) Option {
	return func(e *Estimator) {
		e.timelineRefresh = d
	}
}

// WithDriftThreshold sets the largest difference between the smoothed and
// reported position that is absorbed instead of snapped.
func WithDriftThreshold(d time.Duration) Option {
	return func(e *Estimator) {
		e.driftThreshold = d
	}
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Estimator) {
		e.log = log
	}
}

// Estimator approximates the transport position between authoritative
// lookups. It is owned by a single polling goroutine and is not safe for
// concurrent use.
type Estimator struct {
	source          core.MediaSource
	sessionRefresh  time.Duration
	timelineRefresh time.Duration
	driftThreshold  time.Duration
	log             zerolog.Logger
	failures        *logging.Throttle

	session    core.Session
	lastLookup time.Time
	state      State
	synced     bool
}

// New creates an Estimator reading from source.
func New(source core.MediaSource, opts ...Option) *Estimator {
	e := &Estimator{
		source:          source,
		sessionRefresh:  DefaultSessionRefresh,
		timelineRefresh: DefaultTimelineRefresh,
		driftThreshold:  DefaultDriftThreshold,
		log:             zerolog.Nop(),
		failures:        logging.NewThrottle(logEvery),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns a copy of the current timeline record.
func (e *Estimator) State() State {
	return e.state
}

// Sample returns the display values at now, querying the media source only
// when the refresh intervals have elapsed.
func (e *Estimator) Sample(ctx context.Context, now time.Time) Sample {
	if err := e.refresh(ctx, now); err != nil {
		if !verrors.IsNoSignal(err) {
			e.failures.Do(func() {
				e.log.Warn().Err(err).Str("kind", verrors.KindOf(err).String()).Msg("media lookup failed")
			})
		}
		return Idle()
	}
	return e.render(now)
}

func (e *Estimator) refresh(ctx context.Context, now time.Time) error {
	if e.session == nil || now.Sub(e.lastLookup) > e.sessionRefresh {
		session, err := e.source.CurrentSession(ctx)
		if err == nil && session == nil {
			err = verrors.ErrNoSession
		}
		if verrors.Is(err, verrors.ErrNoSession) {
			e.session = nil
			e.synced = false
			return err
		}
		if err != nil {
			return verrors.Transient("media session", err)
		}
		e.session = session
		e.lastLookup = now
	}

	if e.synced && now.Sub(e.state.LastRefresh) <= e.timelineRefresh {
		return nil
	}
	return e.resync(ctx, now)
}

// resync replaces the state record from an authoritative snapshot. Small
// drift from the smoothed clock is absorbed; larger drift (a seek or track
// change) snaps to the reported position.
func (e *Estimator) resync(ctx context.Context, now time.Time) error {
	props, err := e.session.Properties(ctx)
	if err != nil {
		return verrors.Transient("media properties", err)
	}
	tl, err := e.session.Timeline(ctx)
	if err != nil {
		return verrors.Transient("media timeline", err)
	}

	reported := tl.Position
	if reported < 0 {
		reported = 0
	}
	base := reported
	if e.synced {
		simulated := e.state.Simulated(now)
		if drift := reported - simulated; drift >= -e.driftThreshold && drift <= e.driftThreshold {
			base = simulated
		} else {
			e.log.Debug().Dur("drift", drift).Msg("timeline snapped to reported position")
		}
	}

	next := State{
		Title:        props.Title,
		Artist:       props.Artist,
		BasePosition: base,
		BaseTime:     now,
		Duration:     tl.MaxSeekTime,
		Playing:      tl.Status.IsPlaying(),
		LastRefresh:  now,
	}
	if next.Title == "" {
		next.Title = untitled
	}
	if next.Artist == "" {
		next.Artist = noArtist
	}
	if next.Title != e.state.Title || next.Artist != e.state.Artist {
		e.log.Debug().Str("title", next.Title).Str("artist", next.Artist).Msg("track changed")
	}

	e.state = next
	e.synced = true
	return nil
}

func (e *Estimator) render(now time.Time) Sample {
	return Sample{
		Title:    e.state.Title,
		Artist:   e.state.Artist,
		Elapsed:  FormatDuration(e.state.ElapsedAt(now)),
		Duration: FormatDuration(e.state.Duration),
	}
}

func (s Sample) String() string {
	return fmt.Sprintf("%s - %s [%s/%s]", s.Artist, s.Title, s.Elapsed, s.Duration)
}
