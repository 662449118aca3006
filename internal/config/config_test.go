package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}

	if cfg.Telemetry.Interval() != 40*time.Millisecond {
		t.Errorf("Interval() = %v, want 40ms", cfg.Telemetry.Interval())
	}
	if cfg.Telemetry.DriftThreshold() != 2*time.Second {
		t.Errorf("DriftThreshold() = %v, want 2s", cfg.Telemetry.DriftThreshold())
	}
	if cfg.Telemetry.SessionRefresh() != 3*time.Second {
		t.Errorf("SessionRefresh() = %v, want 3s", cfg.Telemetry.SessionRefresh())
	}
	if cfg.Serial.BaudRate != 115200 {
		t.Errorf("BaudRate = %d, want 115200", cfg.Serial.BaudRate)
	}
	if cfg.Mirror.Width != 128 || cfg.Mirror.Height != 64 {
		t.Errorf("frame = %dx%d, want 128x64", cfg.Mirror.Width, cfg.Mirror.Height)
	}
}

func TestLoadFromKeepsDefaultsForMissingKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[serial]
port = "/dev/ttyACM1"

[mirror]
dither = false

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Serial.Port != "/dev/ttyACM1" {
		t.Errorf("Port = %q, want %q", cfg.Serial.Port, "/dev/ttyACM1")
	}
	if cfg.Serial.BaudRate != 115200 {
		t.Errorf("BaudRate = %d, want default 115200", cfg.Serial.BaudRate)
	}
	if cfg.Serial.SettleMs != 2000 {
		t.Errorf("SettleMs = %d, want default 2000", cfg.Serial.SettleMs)
	}
	if cfg.Mirror.Dither {
		t.Error("Dither = true, want false from file")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q, want %q", cfg.Log.Level, "debug")
	}
}

func TestLoadFromKeepsExplicitZeros(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[telemetry]
drift_threshold_ms = 0
session_refresh_ms = 0

[audio]
rebind_backoff_ms = 0

[mirror]
threshold = 0
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	tests := []struct {
		name string
		got  int
	}{
		{"drift_threshold_ms", cfg.Telemetry.DriftThresholdMs},
		{"session_refresh_ms", cfg.Telemetry.SessionRefreshMs},
		{"rebind_backoff_ms", cfg.Audio.RebindBackoffMs},
		{"threshold", cfg.Mirror.Threshold},
	}
	for _, tt := range tests {
		if tt.got != 0 {
			t.Errorf("%s = %d, want 0", tt.name, tt.got)
		}
	}
	if cfg.Telemetry.TimelineRefreshMs != 3000 {
		t.Errorf("TimelineRefreshMs = %d, want default 3000", cfg.Telemetry.TimelineRefreshMs)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadFromInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[serial\nport ="), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() error = nil, want parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("VORTEX_SERIAL_PORT", "COM7")
	t.Setenv("VORTEX_SERIAL_BAUD_RATE", "9600")
	t.Setenv("VORTEX_TELEMETRY_INTERVAL_MS", "100")
	t.Setenv("VORTEX_AUDIO_GAIN", "12.5")
	t.Setenv("VORTEX_MIRROR_DITHER", "false")
	t.Setenv("VORTEX_LOG_LEVEL", "warn")

	cfg := Default()
	applyEnvOverrides(cfg)

	if cfg.Serial.Port != "COM7" {
		t.Errorf("Port = %q, want COM7", cfg.Serial.Port)
	}
	if cfg.Serial.BaudRate != 9600 {
		t.Errorf("BaudRate = %d, want 9600", cfg.Serial.BaudRate)
	}
	if cfg.Telemetry.IntervalMs != 100 {
		t.Errorf("IntervalMs = %d, want 100", cfg.Telemetry.IntervalMs)
	}
	if cfg.Audio.Gain != 12.5 {
		t.Errorf("Gain = %v, want 12.5", cfg.Audio.Gain)
	}
	if cfg.Mirror.Dither {
		t.Error("Dither = true, want false")
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Level = %q, want warn", cfg.Log.Level)
	}
}

func TestEnvOverrideIgnoresGarbage(t *testing.T) {
	t.Setenv("VORTEX_SERIAL_BAUD_RATE", "fast")
	cfg := Default()
	applyEnvOverrides(cfg)
	if cfg.Serial.BaudRate != 115200 {
		t.Errorf("BaudRate = %d, want unchanged 115200", cfg.Serial.BaudRate)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	d := Default()
	if cfg.Serial.BaudRate != d.Serial.BaudRate {
		t.Errorf("BaudRate = %d, want %d", cfg.Serial.BaudRate, d.Serial.BaudRate)
	}
	if cfg.Audio.Gain != d.Audio.Gain {
		t.Errorf("Gain = %v, want %v", cfg.Audio.Gain, d.Audio.Gain)
	}
	if cfg.Telemetry.IntervalMs != d.Telemetry.IntervalMs {
		t.Errorf("IntervalMs = %d, want %d", cfg.Telemetry.IntervalMs, d.Telemetry.IntervalMs)
	}
	if cfg.Telemetry.DriftThresholdMs != 0 {
		t.Errorf("DriftThresholdMs = %d, want 0 left alone", cfg.Telemetry.DriftThresholdMs)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() after ApplyDefaults error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero baud", func(c *Config) { c.Serial.BaudRate = 0 }},
		{"multiline identify", func(c *Config) { c.Serial.IdentifyCommand = "ID\nX" }},
		{"zero interval", func(c *Config) { c.Telemetry.IntervalMs = 0 }},
		{"negative drift", func(c *Config) { c.Telemetry.DriftThresholdMs = -1 }},
		{"max level too high", func(c *Config) { c.Audio.MaxLevel = 10 }},
		{"negative gain", func(c *Config) { c.Audio.Gain = -1 }},
		{"initial volume over 100", func(c *Config) { c.Volume.Initial = 101 }},
		{"zero width", func(c *Config) { c.Mirror.Width = 0 }},
		{"threshold over 255", func(c *Config) { c.Mirror.Threshold = 300 }},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() error = nil, want error")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Serial.Port = "/dev/ttyUSB0"
	cfg.Mirror.Dither = false

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if loaded.Serial.Port != "/dev/ttyUSB0" {
		t.Errorf("Port = %q, want /dev/ttyUSB0", loaded.Serial.Port)
	}
	if loaded.Mirror.Dither {
		t.Error("Dither = true, want false")
	}
}
