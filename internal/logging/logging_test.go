package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/config"
	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"info", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil {
			t.Errorf("ParseLevel(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel(loud) error = nil, want error")
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vortex.log")
	log, closer, err := New(config.LogConfig{Level: "warn", File: path}, false)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	log.Info().Msg("hidden")
	log.Warn().Str("port", "COM3").Msg("visible")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if strings.Contains(out, "hidden") {
		t.Errorf("log contains info line below warn level: %s", out)
	}
	if !strings.Contains(out, `"port":"COM3"`) {
		t.Errorf("log missing structured field: %s", out)
	}
	if !strings.Contains(out, `"run":"`) {
		t.Errorf("log missing run id: %s", out)
	}
}

func TestNewVerboseForcesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vortex.log")
	log, closer, err := New(config.LogConfig{Level: "error", File: path}, true)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer closer.Close()

	if log.GetLevel() != zerolog.DebugLevel {
		t.Errorf("GetLevel() = %v, want debug", log.GetLevel())
	}
}

func TestThrottle(t *testing.T) {
	th := NewThrottle(time.Hour)
	n := 0
	for i := 0; i < 25; i++ {
		th.Do(func() { n++ })
	}
	if n != 1 {
		t.Errorf("throttled calls = %d, want 1", n)
	}
}
