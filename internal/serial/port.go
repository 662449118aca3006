// Package serial lists, probes and opens the macropad's serial link.
package serial

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/core"
	verrors "github.com/GuestDaProtogen/Vortex-MacroPad/internal/errors"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// DefaultBaudRate is the macropad firmware's fixed link speed.
const DefaultBaudRate = 115200

// Port is an open serial link.
type Port interface {
	io.ReadWriteCloser
	// SetReadTimeout bounds each Read. A Read that times out returns 0, nil.
	SetReadTimeout(t time.Duration) error
	ResetInputBuffer() error
}

// Opener opens a port by name at a baud rate.
type Opener func(name string, baud int) (Port, error)

// Open opens name at baud, 8N1.
func Open(name string, baud int) (Port, error) {
	p, err := serial.Open(name, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return p, nil
}

// List returns the serial ports on the host. USB details come from the
// enumerator when the platform supports it.
func List() ([]core.Port, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err == nil && len(details) > 0 {
		ports := make([]core.Port, 0, len(details))
		for _, d := range details {
			ports = append(ports, fromDetails(d))
		}
		sortPorts(ports)
		return ports, nil
	}

	names, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	if len(names) == 0 {
		return nil, verrors.ErrNoPorts
	}
	ports := make([]core.Port, 0, len(names))
	for _, n := range names {
		ports = append(ports, core.Port{Name: n})
	}
	sortPorts(ports)
	return ports, nil
}

func fromDetails(d *enumerator.PortDetails) core.Port {
	p := core.Port{
		Name:         d.Name,
		Description:  d.Product,
		IsUSB:        d.IsUSB,
		SerialNumber: d.SerialNumber,
	}
	if d.IsUSB {
		p.VID = strings.ToLower(d.VID)
		p.PID = strings.ToLower(d.PID)
		if p.Description == "" {
			p.Description = fmt.Sprintf("USB %s:%s", p.VID, p.PID)
		}
	}
	return p
}

// sortPorts puts USB ports first, since the macropad enumerates as USB CDC.
func sortPorts(ports []core.Port) {
	sort.SliceStable(ports, func(i, j int) bool {
		if ports[i].IsUSB != ports[j].IsUSB {
			return ports[i].IsUSB
		}
		return ports[i].Name < ports[j].Name
	})
}
