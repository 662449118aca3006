// Package wizard holds the interactive prompts used when a command is run
// without enough flags.
package wizard

import (
	"errors"
	"fmt"
	"os"

	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/core"
	verrors "github.com/GuestDaProtogen/Vortex-MacroPad/internal/errors"
	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ErrCancelled is returned when the user backs out of a prompt.
var ErrCancelled = errors.New("selection cancelled")

// IsTerminal returns true if stdin and stdout are terminals.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// NeedsPort returns true if the port must be asked for: no --port was given
// and there is not exactly one USB port to assume.
func NeedsPort(portFlag string, ports []core.Port) bool {
	if portFlag != "" {
		return false
	}
	return SingleUSBPort(ports) == nil
}

// SingleUSBPort returns the only USB port, or nil if there are zero or
// several.
func SingleUSBPort(ports []core.Port) *core.Port {
	var usb *core.Port
	for i := range ports {
		if !ports[i].IsUSB {
			continue
		}
		if usb != nil {
			return nil
		}
		usb = &ports[i]
	}
	return usb
}

// PortOptions builds picker options labelled with each port's description.
func PortOptions(ports []core.Port) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(ports))
	for _, p := range ports {
		label := p.Label()
		if p.IsUSB && p.VID != "" {
			label = fmt.Sprintf("%s [%s:%s]", label, p.VID, p.PID)
		}
		options = append(options, huh.NewOption(label, p.Name))
	}
	return options
}

// PromptPort shows a picker over ports and returns the chosen port name.
func PromptPort(ports []core.Port) (string, error) {
	if len(ports) == 0 {
		return "", verrors.ErrNoPorts
	}
	if !IsTerminal() {
		return "", fmt.Errorf("no --port given and not a terminal: %w", verrors.ErrDeviceNotFound)
	}

	var selected string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select the macropad's serial port").
				Description("Use --auto to probe every port with IDENTIFY instead").
				Options(PortOptions(ports)...).
				Value(&selected),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("port picker: %w", err)
	}
	return selected, nil
}
