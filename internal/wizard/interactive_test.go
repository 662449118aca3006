package wizard

import (
	"testing"

	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/core"
)

func TestSingleUSBPort(t *testing.T) {
	tests := []struct {
		name  string
		ports []core.Port
		want  string
	}{
		{"none", nil, ""},
		{"no usb", []core.Port{{Name: "/dev/ttyS0"}}, ""},
		{"one usb", []core.Port{{Name: "/dev/ttyS0"}, {Name: "/dev/ttyACM0", IsUSB: true}}, "/dev/ttyACM0"},
		{"two usb", []core.Port{{Name: "COM3", IsUSB: true}, {Name: "COM4", IsUSB: true}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SingleUSBPort(tt.ports)
			name := ""
			if got != nil {
				name = got.Name
			}
			if name != tt.want {
				t.Errorf("SingleUSBPort() = %q, want %q", name, tt.want)
			}
		})
	}
}

func TestNeedsPort(t *testing.T) {
	usb := []core.Port{{Name: "/dev/ttyACM0", IsUSB: true}}
	if NeedsPort("COM5", nil) {
		t.Error("NeedsPort() with --port = true, want false")
	}
	if NeedsPort("", usb) {
		t.Error("NeedsPort() with one USB port = true, want false")
	}
	if !NeedsPort("", append(usb, core.Port{Name: "/dev/ttyACM1", IsUSB: true})) {
		t.Error("NeedsPort() with two USB ports = false, want true")
	}
}

func TestPortOptions(t *testing.T) {
	opts := PortOptions([]core.Port{
		{Name: "/dev/ttyACM0", Description: "Pico", IsUSB: true, VID: "2e8a", PID: "000a"},
		{Name: "/dev/ttyS0"},
	})
	if len(opts) != 2 {
		t.Fatalf("len(options) = %d, want 2", len(opts))
	}
	if opts[0].Key != "/dev/ttyACM0 - Pico [2e8a:000a]" {
		t.Errorf("options[0].Key = %q", opts[0].Key)
	}
	if opts[0].Value != "/dev/ttyACM0" {
		t.Errorf("options[0].Value = %q, want port name", opts[0].Value)
	}
	if opts[1].Key != "/dev/ttyS0" {
		t.Errorf("options[1].Key = %q, want bare name", opts[1].Key)
	}
}

func TestPromptPortNoPorts(t *testing.T) {
	if _, err := PromptPort(nil); err == nil {
		t.Error("PromptPort(nil) error = nil, want error")
	}
}
