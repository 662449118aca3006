package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Serial.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("serial: %w", err))
	}
	if err := c.Telemetry.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("telemetry: %w", err))
	}
	if err := c.Audio.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("audio: %w", err))
	}
	if err := c.Volume.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("volume: %w", err))
	}
	if err := c.Mirror.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("mirror: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks SerialConfig for errors.
func (c *SerialConfig) Validate() error {
	if c.BaudRate <= 0 {
		return errors.New("baud_rate must be positive")
	}
	if strings.ContainsAny(c.IdentifyCommand, "\r\n") {
		return errors.New("identify_command must be a single line")
	}
	if c.SettleMs < 0 || c.ProbeTimeoutMs < 0 {
		return errors.New("settle_ms and probe_timeout_ms must be non-negative")
	}
	return nil
}

// Validate checks TelemetryConfig for errors.
func (c *TelemetryConfig) Validate() error {
	if c.IntervalMs < 1 {
		return errors.New("interval_ms must be at least 1")
	}
	if c.SessionRefreshMs < 0 || c.TimelineRefreshMs < 0 {
		return errors.New("refresh intervals must be non-negative")
	}
	if c.DriftThresholdMs < 0 {
		return errors.New("drift_threshold_ms must be non-negative")
	}
	return nil
}

// Validate checks AudioConfig for errors.
func (c *AudioConfig) Validate() error {
	if c.SampleRate <= 0 {
		return errors.New("sample_rate must be positive")
	}
	if c.BlockSize <= 0 {
		return errors.New("block_size must be positive")
	}
	if c.Gain <= 0 {
		return errors.New("gain must be positive")
	}
	if c.MaxLevel < 1 || c.MaxLevel > 9 {
		return fmt.Errorf("max_level must be between 1 and 9 (got %d)", c.MaxLevel)
	}
	if c.RebindBackoffMs < 0 || c.NoDeviceBackoffMs < 0 {
		return errors.New("backoff values must be non-negative")
	}
	return nil
}

// Validate checks VolumeConfig for errors.
func (c *VolumeConfig) Validate() error {
	if c.PollIntervalMs < 1 {
		return errors.New("poll_interval_ms must be at least 1")
	}
	if c.Initial < 0 || c.Initial > 100 {
		return errors.New("initial must be between 0 and 100")
	}
	return nil
}

// Validate checks MirrorConfig for errors.
func (c *MirrorConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", c.Width, c.Height)
	}
	if c.Threshold < 0 || c.Threshold > 255 {
		return errors.New("threshold must be between 0 and 255")
	}
	if c.ReadTimeoutMs < 1 {
		return errors.New("read_timeout_ms must be at least 1")
	}
	if c.Display < 0 {
		return errors.New("display must be non-negative")
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	return nil
}
