package cli

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/core"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		s      string
		maxLen int
		want   string
	}{
		{"short", "COM3", 40, "COM3"},
		{"exact", "abcdef", 6, "abcdef"},
		{"ascii", "USB Serial Device (COM3)", 10, "USB Ser..."},
		{"tiny limit", "abcdef", 2, "ab"},
		{"multibyte under limit", strings.Repeat("é", 5), 10, strings.Repeat("é", 5)},
		{"multibyte cut", strings.Repeat("é", 21), 10, strings.Repeat("é", 7) + "..."},
		{"multibyte tiny", "日本語ポート", 3, "日本語"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateString(tt.s, tt.maxLen)
			if got != tt.want {
				t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.s, tt.maxLen, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("TruncateString(%q, %d) = %q, not valid UTF-8", tt.s, tt.maxLen, got)
			}
		})
	}
}

func TestOutputPortsTable(t *testing.T) {
	tests := []struct {
		name  string
		infos []portInfo
		want  []string
	}{
		{
			name: "one port",
			infos: []portInfo{
				{Port: core.Port{Name: "COM3", Description: "USB Serial Device", IsUSB: true, VID: "2E8A", PID: "000A"}},
			},
			want: []string{"PORT", "DESCRIPTION", "COM3", "2E8A:000A", "1 port, 1 USB"},
		},
		{
			name: "two ports",
			infos: []portInfo{
				{Port: core.Port{Name: "COM1", Description: "Communications Port"}},
				{Port: core.Port{Name: "COM3", Description: "USB Serial Device", IsUSB: true, VID: "2E8A", PID: "000A"}},
			},
			want: []string{"COM1", "Communications Port", "COM3", "2 ports, 1 USB"},
		},
		{
			name:  "none",
			infos: nil,
			want:  []string{"PORT", "0 ports, 0 USB"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := outputPortsTable(&buf, tt.infos); err != nil {
				t.Fatalf("outputPortsTable() error = %v", err)
			}
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output = %q, want it to contain %q", out, w)
				}
			}
		})
	}
}
