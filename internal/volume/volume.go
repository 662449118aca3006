// Package volume polls the system master volume.
package volume

import (
	"context"
	"math"
	"time"

	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/logging"
	"github.com/rs/zerolog"
)

const (
	DefaultInterval = 200 * time.Millisecond
	DefaultInitial  = 50
)

// Backend reads the master volume of the default output as a scalar in [0,1].
type Backend interface {
	Volume(ctx context.Context) (float64, error)
}

// Percent converts a volume scalar to a rounded, clamped percentage.
func Percent(scalar float64) int {
	if math.IsNaN(scalar) || scalar <= 0 {
		return 0
	}
	if scalar >= 1 {
		return 100
	}
	return int(math.Round(scalar * 100))
}

// Poller publishes volume percentages on a one-slot channel. A newer value
// replaces one the consumer has not read yet, so the consumer only ever sees
// the latest.
type Poller struct {
	backend  Backend
	interval time.Duration
	log      zerolog.Logger
	failures *logging.Throttle
	updates  chan int
}

// NewPoller creates a Poller that reads backend every interval.
func NewPoller(backend Backend, interval time.Duration, log zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		backend:  backend,
		interval: interval,
		log:      log,
		failures: logging.NewThrottle(30 * time.Second),
		updates:  make(chan int, 1),
	}
}

// Updates returns the channel new percentages arrive on.
func (p *Poller) Updates() <-chan int {
	return p.updates
}

// Run polls until ctx is done. Only changed values are published; read
// failures are logged and skipped.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	last := -1
	for {
		v, err := p.backend.Volume(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.failures.Do(func() { p.log.Warn().Err(err).Msg("volume read failed") })
		} else if pct := Percent(v); pct != last {
			last = pct
			p.publish(pct)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// publish is only called from Run, so a drained slot stays free for the send.
func (p *Poller) publish(pct int) {
	select {
	case <-p.updates:
	default:
	}
	p.updates <- pct
}

// Drain returns the newest value waiting on ch, or last when none is.
func Drain(ch <-chan int, last int) int {
	for {
		select {
		case v := <-ch:
			last = v
		default:
			return last
		}
	}
}
