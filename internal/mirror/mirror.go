package mirror

import (
	"context"
	"io"
	"time"

	verrors "github.com/GuestDaProtogen/Vortex-MacroPad/internal/errors"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/logging"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/screen"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

const (
	// StartByte precedes every frame.
	StartByte = 0x02
	// AckByte is sent by the device when it is ready for the next frame.
	AckByte = 0x06

	DefaultReadTimeout = 100 * time.Millisecond

	statsEvery   = 30 * time.Second
	captureRetry = 250 * time.Millisecond
)

// Link is the serial connection the frames travel over.
type Link interface {
	io.ReadWriter
	SetReadTimeout(t time.Duration) error
	ResetInputBuffer() error
}

type state int

const (
	stateSend state = iota
	stateWaitAck
)

func (s state) String() string {
	if s == stateSend {
		return "send"
	}
	return "wait_ack"
}

// Stats counts what a mirror session has sent.
type Stats struct {
	Frames  uint64
	Bytes   uint64
	Started time.Time
}

// FPS is the average frame rate since Started.
func (s Stats) FPS(now time.Time) float64 {
	secs := now.Sub(s.Started).Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(s.Frames) / secs
}

func (s Stats) String() string {
	return humanize.Comma(int64(s.Frames)) + " frames, " + humanize.Bytes(s.Bytes)
}

// Mirror runs the send/acknowledge loop. Exactly one frame is in flight:
// the next capture starts only after the device acknowledges the last one.
type Mirror struct {
	Link        Link
	Screen      screen.Capturer
	Converter   *Converter
	ReadTimeout time.Duration
	Log         zerolog.Logger

	// OnFrame, when set, sees every frame after it is written.
	OnFrame func(*Frame)

	stats    Stats
	failures *logging.Throttle
}

// New creates a Mirror with the default converter and read timeout.
func New(link Link, capturer screen.Capturer, log zerolog.Logger) *Mirror {
	return &Mirror{
		Link:        link,
		Screen:      capturer,
		Converter:   NewConverter(),
		ReadTimeout: DefaultReadTimeout,
		Log:         log,
	}
}

// Stats returns the counters so far.
func (m *Mirror) Stats() Stats {
	return m.stats
}

// Run sends an initial frame and then one frame per ACK byte until ctx is
// done. Serial errors end the run; capture errors are retried.
func (m *Mirror) Run(ctx context.Context) error {
	if m.failures == nil {
		m.failures = logging.NewThrottle(statsEvery)
	}
	if err := m.Link.SetReadTimeout(m.ReadTimeout); err != nil {
		return verrors.Fatal("set read timeout", err)
	}
	if err := m.Link.ResetInputBuffer(); err != nil {
		return verrors.Fatal("reset input buffer", err)
	}

	m.stats = Stats{Started: time.Now()}
	lastStats := m.stats.Started
	buf := make([]byte, 1)
	st := stateSend

	for ctx.Err() == nil {
		switch st {
		case stateSend:
			sent, err := m.sendFrame()
			if err != nil {
				return err
			}
			if !sent {
				sleep(ctx, captureRetry)
				continue
			}
			st = stateWaitAck

		case stateWaitAck:
			n, err := m.Link.Read(buf)
			if err != nil {
				return verrors.Fatal("read ack", err)
			}
			if n == 1 && buf[0] == AckByte {
				st = stateSend
			}
		}

		if now := time.Now(); now.Sub(lastStats) >= statsEvery {
			lastStats = now
			m.Log.Info().
				Str("sent", m.stats.String()).
				Float64("fps", m.stats.FPS(now)).
				Msg("mirror stats")
		}
	}
	return nil
}

// sendFrame captures, converts and writes one frame. It reports false when
// the capture failed and nothing was written.
func (m *Mirror) sendFrame() (bool, error) {
	img, err := m.Screen.Capture()
	if err != nil {
		if verrors.Is(err, verrors.ErrNoDisplay) {
			return false, verrors.Fatal("capture", err)
		}
		m.failures.Do(func() { m.Log.Warn().Err(err).Msg("screen capture failed") })
		return false, nil
	}

	f := m.Converter.Convert(img)
	packet := make([]byte, 0, 1+len(f.Bits))
	packet = append(packet, StartByte)
	packet = append(packet, f.Bits...)

	if _, err := m.Link.Write(packet); err != nil {
		return false, verrors.Fatal("write frame", err)
	}
	m.stats.Frames++
	m.stats.Bytes += uint64(len(packet))

	if m.OnFrame != nil {
		m.OnFrame(f)
	}
	return true, nil
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
