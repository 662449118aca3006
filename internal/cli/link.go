package cli

import (
	"context"
	"fmt"

	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/serial"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/wizard"
	"github.com/spf13/cobra"
)

// linkFlags are shared by the commands that talk to the macropad.
type linkFlags struct {
	port string
	auto bool
}

func (f *linkFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.port, "port", "p", "", "serial port (default: serial.port from config)")
	cmd.Flags().BoolVarP(&f.auto, "auto", "a", false, "find the macropad by sending IDENTIFY to every port")
}

// discovery builds an IDENTIFY prober from the serial config.
func discovery() *serial.Discovery {
	d := serial.NewDiscovery(log)
	d.Baud = cfg.Serial.BaudRate
	d.Command = cfg.Serial.IdentifyCommand
	d.DeviceID = cfg.Serial.DeviceID
	d.Settle = cfg.Serial.Settle()
	d.Timeout = cfg.Serial.ProbeTimeout()
	return d
}

// openLink resolves and opens the macropad's port. The order is --port,
// serial.port from config, --auto discovery, the only USB port, and finally
// an interactive picker.
func openLink(ctx context.Context, f *linkFlags, defaultAuto bool) (string, serial.Port, error) {
	name := f.port
	if name == "" {
		name = cfg.Serial.Port
	}

	if name == "" && (f.auto || defaultAuto) {
		return discovery().Discover(ctx)
	}

	if name == "" {
		ports, err := serial.List()
		if err != nil {
			return "", nil, err
		}
		if !wizard.NeedsPort("", ports) {
			name = wizard.SingleUSBPort(ports).Name
		} else if name, err = wizard.PromptPort(ports); err != nil {
			return "", nil, err
		}
	}

	port, err := serial.Open(name, cfg.Serial.BaudRate)
	if err != nil {
		return "", nil, err
	}
	log.Info().Str("port", name).Int("baud", cfg.Serial.BaudRate).Msg("serial link open")
	return name, port, nil
}

// closeLink closes port, logging rather than returning the error.
func closeLink(name string, port serial.Port) {
	if err := port.Close(); err != nil {
		log.Warn().Err(err).Str("port", name).Msg("close serial port")
	}
}

func describeLink(name string, auto bool) string {
	if auto {
		return fmt.Sprintf("%s (found by IDENTIFY)", name)
	}
	return name
}
