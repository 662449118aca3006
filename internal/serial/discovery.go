package serial

import (
	"context"
	"strings"
	"time"

	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/core"
	verrors "github.com/GuestDaProtogen/Vortex-MacroPad/internal/errors"
	"github.com/rs/zerolog"
)

const (
	DefaultIdentifyCommand = "IDENTIFY"
	DefaultDeviceID        = "MACROPAD_STATION"
	DefaultSettle          = 2 * time.Second
	DefaultProbeTimeout    = time.Second

	maxLineLength = 256
)

// Discovery finds the macropad by asking each port to identify itself.
type Discovery struct {
	Open     Opener
	List     func() ([]core.Port, error)
	Baud     int
	Command  string
	DeviceID string
	// Settle is the wait after opening, while the board resets.
	Settle  time.Duration
	Timeout time.Duration
	Log     zerolog.Logger
}

// NewDiscovery creates a Discovery over the host's real ports.
func NewDiscovery(log zerolog.Logger) *Discovery {
	return &Discovery{
		Open:     Open,
		List:     List,
		Baud:     DefaultBaudRate,
		Command:  DefaultIdentifyCommand,
		DeviceID: DefaultDeviceID,
		Settle:   DefaultSettle,
		Timeout:  DefaultProbeTimeout,
		Log:      log,
	}
}

// Discover probes every port in turn and returns the first that answers with
// the device id, left open. Ports that fail to open or answer wrongly are
// closed and skipped. It returns errors.ErrDeviceNotFound when none match.
func (d *Discovery) Discover(ctx context.Context) (string, Port, error) {
	ports, err := d.List()
	if err != nil && !verrors.Is(err, verrors.ErrNoPorts) {
		return "", nil, err
	}

	for _, p := range ports {
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}

		port, ok, err := d.Probe(ctx, p.Name)
		if err != nil {
			if ctx.Err() != nil {
				return "", nil, ctx.Err()
			}
			d.Log.Debug().Err(err).Str("port", p.Name).Msg("probe failed")
			continue
		}
		if ok {
			d.Log.Info().Str("port", p.Name).Msg("macropad found")
			return p.Name, port, nil
		}
		d.Log.Debug().Str("port", p.Name).Msg("no identify reply")
	}
	return "", nil, verrors.Fatal("discover", verrors.ErrDeviceNotFound)
}

// Probe opens name, waits for the board to settle, sends the identify
// command and checks the reply. On a match the port is returned open.
func (d *Discovery) Probe(ctx context.Context, name string) (Port, bool, error) {
	port, err := d.Open(name, d.Baud)
	if err != nil {
		return nil, false, err
	}

	ok, err := d.identify(ctx, port)
	if err != nil || !ok {
		_ = port.Close()
		return nil, false, err
	}
	return port, true, nil
}

func (d *Discovery) identify(ctx context.Context, port Port) (bool, error) {
	if !sleep(ctx, d.Settle) {
		return false, ctx.Err()
	}
	if _, err := port.Write([]byte(d.Command + "\n")); err != nil {
		return false, err
	}
	line, err := ReadLine(ctx, port, d.Timeout)
	if err != nil {
		return false, err
	}
	return strings.Contains(line, d.DeviceID), nil
}

// ReadLine reads up to and excluding the next newline, giving up after
// timeout. A partial line is returned when the timeout expires first.
func ReadLine(ctx context.Context, port Port, timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	if err := port.SetReadTimeout(timeout); err != nil {
		return "", err
	}

	var line []byte
	buf := make([]byte, 1)
	for time.Now().Before(deadline) && len(line) < maxLineLength {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		n, err := port.Read(buf)
		if err != nil {
			return string(line), err
		}
		if n == 0 {
			continue
		}
		if buf[0] == '\n' {
			break
		}
		line = append(line, buf[0])
	}
	return strings.TrimRight(string(line), "\r"), nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
