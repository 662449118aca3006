// Package meter turns loopback audio into left/right VU levels.
package meter

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/audio"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/core"
	verrors "github.com/GuestDaProtogen/Vortex-MacroPad/internal/errors"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/logging"
	"github.com/rs/zerolog"
)

const (
	DefaultGain            = 18.0
	DefaultMaxLevel        = 8
	DefaultRebindBackoff   = time.Second
	DefaultNoDeviceBackoff = 2 * time.Second
)

// PeakLevels returns the scaled peak amplitude of each of the first two
// channels of an interleaved block. Mono input leaves Right at zero.
func PeakLevels(block []float32, channels int, gain float64, max int) core.Levels {
	if channels < 1 {
		channels = 1
	}
	var peaks [2]float64
	for i, s := range block {
		ch := i % channels
		if ch > 1 {
			continue
		}
		if a := math.Abs(float64(s)); a > peaks[ch] {
			peaks[ch] = a
		}
	}
	return core.Levels{
		Left:  scale(peaks[0], gain, max),
		Right: scale(peaks[1], gain, max),
	}
}

func scale(peak, gain float64, max int) int {
	v := peak * gain
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v >= float64(max) {
		return max
	}
	return int(v)
}

// Meter captures audio on its own goroutine and publishes the latest levels.
// Levels may be called from any goroutine.
type Meter struct {
	binder          audio.Binder
	gain            float64
	max             int
	rebindBackoff   time.Duration
	noDeviceBackoff time.Duration
	log             zerolog.Logger
	failures        *logging.Throttle

	latest atomic.Pointer[core.Levels]
}

// Option configures a Meter.
type Option func(*Meter)

// WithGain sets the amplitude multiplier.
func WithGain(g float64) Option {
	return func(m *Meter) { m.gain = g }
}

// WithMaxLevel sets the level ceiling.
func WithMaxLevel(n int) Option {
	return func(m *Meter) { m.max = n }
}

// WithBackoff sets the pauses after a capture error and after finding no device.
func WithBackoff(rebind, noDevice time.Duration) Option {
	return func(m *Meter) {
		m.rebindBackoff = rebind
		m.noDeviceBackoff = noDevice
	}
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Meter) { m.log = log }
}

// New creates a Meter reading from binder.
func New(binder audio.Binder, opts ...Option) *Meter {
	m := &Meter{
		binder:          binder,
		gain:            DefaultGain,
		max:             DefaultMaxLevel,
		rebindBackoff:   DefaultRebindBackoff,
		noDeviceBackoff: DefaultNoDeviceBackoff,
		log:             zerolog.Nop(),
		failures:        logging.NewThrottle(30 * time.Second),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.latest.Store(&core.Levels{})
	return m
}

// Levels returns the most recently published reading.
func (m *Meter) Levels() core.Levels {
	return *m.latest.Load()
}

func (m *Meter) publish(l core.Levels) {
	m.latest.Store(&l)
}

// Run binds the loopback device and publishes levels until ctx is done. A
// missing device or a capture error resets the levels to zero and rebinds
// after a backoff.
func (m *Meter) Run(ctx context.Context) error {
	for {
		stream, err := m.binder.Bind(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			m.publish(core.Levels{})
			m.warn(err, "audio bind failed")
			if !sleep(ctx, m.noDeviceBackoff) {
				return nil
			}
			continue
		}

		err = m.pump(ctx, stream)
		_ = stream.Close()
		m.publish(core.Levels{})
		if ctx.Err() != nil {
			return nil
		}
		m.warn(err, "audio capture stopped")
		if !sleep(ctx, m.rebindBackoff) {
			return nil
		}
	}
}

func (m *Meter) pump(ctx context.Context, stream audio.Stream) error {
	channels := stream.Channels()
	for {
		block, err := stream.Read(ctx)
		if err != nil {
			return err
		}
		m.publish(PeakLevels(block, channels, m.gain, m.max))
	}
}

func (m *Meter) warn(err error, msg string) {
	if verrors.Is(err, verrors.ErrNoAudioDevice) {
		m.failures.Do(func() { m.log.Info().Msg("no loopback audio device, levels held at zero") })
		return
	}
	m.failures.Do(func() { m.log.Warn().Err(err).Msg(msg) })
}

// sleep waits for d or until ctx is done, reporting whether the full wait
// elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
