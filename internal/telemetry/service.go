package telemetry

import (
	"context"
	"io"
	"time"

	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/core"
	verrors "github.com/GuestDaProtogen/Vortex-MacroPad/internal/errors"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/timeline"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/volume"
	"github.com/mitchellh/hashstructure/v2"
	"github.com/rs/zerolog"
)

// DefaultInterval is the 25 Hz send period.
const DefaultInterval = 40 * time.Millisecond

// Sampler is the media side of a tick.
type Sampler interface {
	Sample(ctx context.Context, now time.Time) timeline.Sample
}

// LevelReader is the VU side of a tick.
type LevelReader interface {
	Levels() core.Levels
}

// Service writes one telemetry line per tick.
type Service struct {
	Out      io.Writer
	Media    Sampler
	Meter    LevelReader
	Volume   <-chan int
	Interval time.Duration
	Log      zerolog.Logger

	// OnSend, when set, sees every payload after it is written.
	OnSend func(Payload)

	now      func() time.Time
	volume   int
	lastHash uint64
	sent     int
}

// NewService creates a Service with the initial volume of 50.
func NewService(out io.Writer, media Sampler, meter LevelReader, vol <-chan int, log zerolog.Logger) *Service {
	return &Service{
		Out:      out,
		Media:    media,
		Meter:    meter,
		Volume:   vol,
		Interval: DefaultInterval,
		Log:      log,
		now:      time.Now,
		volume:   volume.DefaultInitial,
	}
}

// SetVolume sets the volume reported until the first poller update.
func (s *Service) SetVolume(v int) {
	s.volume = v
}

// Sent returns the number of lines written so far.
func (s *Service) Sent() int {
	return s.sent
}

// Run sends until ctx is done or a write fails. A failed write means the
// link is gone and is returned as fatal.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for ctx.Err() == nil {
		if err := s.Tick(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
	return nil
}

// Tick assembles and writes a single line.
func (s *Service) Tick(ctx context.Context) error {
	s.volume = volume.Drain(s.Volume, s.volume)

	var levels core.Levels
	if s.Meter != nil {
		levels = s.Meter.Levels()
	}
	p := NewPayload(s.Media.Sample(ctx, s.now()), levels, s.volume)

	if _, err := s.Out.Write(p.Encode()); err != nil {
		return verrors.Fatal("telemetry write", err)
	}
	s.sent++
	s.noteTrack(p)

	if s.OnSend != nil {
		s.OnSend(p)
	}
	return nil
}

type trackKey struct {
	Title    string
	Artist   string
	Duration string
}

// noteTrack logs when the displayed track changes.
func (s *Service) noteTrack(p Payload) {
	h, err := hashstructure.Hash(trackKey{p.Title, p.Artist, p.Duration}, hashstructure.FormatV2, nil)
	if err != nil || h == s.lastHash {
		return
	}
	s.lastHash = h
	s.Log.Info().Str("title", p.Title).Str("artist", p.Artist).Str("duration", p.Duration).Msg("now playing")
}
