// Package audio binds the system loopback capture device.
package audio

import (
	"context"
	"strings"
)

// Stream delivers interleaved float32 sample blocks from a bound device.
type Stream interface {
	// Read blocks until the next block is available. The slice is owned by
	// the caller.
	Read(ctx context.Context) ([]float32, error)
	// Channels is the number of interleaved channels per frame.
	Channels() int
	Close() error
}

// Binder opens a capture stream on the current loopback device.
// It returns errors.ErrNoAudioDevice when nothing suitable exists.
type Binder interface {
	Bind(ctx context.Context) (Stream, error)
}

// Device is one enumerated audio endpoint.
type Device struct {
	ID      string
	Name    string
	Default bool
}

// SelectLoopback picks the loopback device for the default output. It prefers
// an exact id match, then a loopback whose name contains the output's name
// ignoring case, then the first loopback.
func SelectLoopback(outputs, loopbacks []Device) (Device, bool) {
	if len(loopbacks) == 0 {
		return Device{}, false
	}

	out, ok := defaultDevice(outputs)
	if !ok {
		return loopbacks[0], true
	}

	for _, d := range loopbacks {
		if d.ID != "" && d.ID == out.ID {
			return d, true
		}
	}
	if out.Name != "" {
		name := strings.ToLower(out.Name)
		for _, d := range loopbacks {
			if strings.Contains(strings.ToLower(d.Name), name) {
				return d, true
			}
		}
	}
	return loopbacks[0], true
}

func defaultDevice(devices []Device) (Device, bool) {
	for _, d := range devices {
		if d.Default {
			return d, true
		}
	}
	if len(devices) > 0 {
		return devices[0], true
	}
	return Device{}, false
}
