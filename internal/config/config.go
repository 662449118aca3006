package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.vortexrc, $XDG_CONFIG_HOME/vortex/config.toml, ~/.config/vortex/config.toml
func Load() (*Config, error) {
	path := findConfigFile()
	if path == "" {
		cfg := Default()
		applyEnvOverrides(cfg)
		return cfg, nil
	}
	return LoadFrom(path)
}

// LoadFrom reads configuration from a specific file path. Keys missing from
// the file keep their default values.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Path returns the file Load would read, or the default location for a new
// file when none exists yet.
func Path() string {
	if p := findConfigFile(); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vortexrc"
	}
	return filepath.Join(home, ".vortexrc")
}

// Save writes cfg as TOML to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	_, _ = fmt.Fprintln(f, "# Vortex MacroPad configuration")
	_, _ = fmt.Fprintln(f, "")

	encoder := toml.NewEncoder(f)
	encoder.Indent = "  "
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".vortexrc"),
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "vortex", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Serial
	if v := os.Getenv("VORTEX_SERIAL_PORT"); v != "" {
		cfg.Serial.Port = v
	}
	if v := os.Getenv("VORTEX_SERIAL_BAUD_RATE"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Serial.BaudRate = i
		}
	}
	if v := os.Getenv("VORTEX_SERIAL_DEVICE_ID"); v != "" {
		cfg.Serial.DeviceID = v
	}

	// Telemetry
	if v := os.Getenv("VORTEX_TELEMETRY_INTERVAL_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Telemetry.IntervalMs = i
		}
	}
	if v := os.Getenv("VORTEX_TELEMETRY_DRIFT_THRESHOLD_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Telemetry.DriftThresholdMs = i
		}
	}

	// Audio
	if v := os.Getenv("VORTEX_AUDIO_GAIN"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Audio.Gain = f
		}
	}

	// Mirror
	if v := os.Getenv("VORTEX_MIRROR_DITHER"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Mirror.Dither = b
		}
	}

	// Log
	if v := os.Getenv("VORTEX_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("VORTEX_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
