package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Serial    SerialConfig    `toml:"serial"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Audio     AudioConfig     `toml:"audio"`
	Volume    VolumeConfig    `toml:"volume"`
	Mirror    MirrorConfig    `toml:"mirror"`
	Log       LogConfig       `toml:"log"`
}

// SerialConfig holds the serial link and discovery settings.
type SerialConfig struct {
	Port            string `toml:"port"`
	BaudRate        int    `toml:"baud_rate"`
	IdentifyCommand string `toml:"identify_command"`
	DeviceID        string `toml:"device_id"`
	SettleMs        int    `toml:"settle_ms"`
	ProbeTimeoutMs  int    `toml:"probe_timeout_ms"`
}

// TelemetryConfig holds the MET sender cadence and timeline tuning.
type TelemetryConfig struct {
	IntervalMs        int `toml:"interval_ms"`
	SessionRefreshMs  int `toml:"session_refresh_ms"`
	TimelineRefreshMs int `toml:"timeline_refresh_ms"`
	DriftThresholdMs  int `toml:"drift_threshold_ms"`
}

// AudioConfig holds the loopback capture and VU meter settings.
type AudioConfig struct {
	SampleRate        int     `toml:"sample_rate"`
	BlockSize         int     `toml:"block_size"`
	Gain              float64 `toml:"gain"`
	MaxLevel          int     `toml:"max_level"`
	RebindBackoffMs   int     `toml:"rebind_backoff_ms"`
	NoDeviceBackoffMs int     `toml:"no_device_backoff_ms"`
}

// VolumeConfig holds the system volume poller settings.
type VolumeConfig struct {
	PollIntervalMs int `toml:"poll_interval_ms"`
	Initial        int `toml:"initial"`
}

// MirrorConfig holds the screen mirroring frame settings.
type MirrorConfig struct {
	Width         int  `toml:"width"`
	Height        int  `toml:"height"`
	Dither        bool `toml:"dither"`
	Threshold     int  `toml:"threshold"`
	ReadTimeoutMs int  `toml:"read_timeout_ms"`
	Display       int  `toml:"display"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// Settle is how long to wait after opening a port before probing it.
func (c SerialConfig) Settle() time.Duration { return ms(c.SettleMs) }

// ProbeTimeout bounds the wait for an IDENTIFY reply.
func (c SerialConfig) ProbeTimeout() time.Duration { return ms(c.ProbeTimeoutMs) }

// Interval is the telemetry tick period.
func (c TelemetryConfig) Interval() time.Duration { return ms(c.IntervalMs) }

// SessionRefresh is the maximum age of a cached media session handle.
func (c TelemetryConfig) SessionRefresh() time.Duration { return ms(c.SessionRefreshMs) }

// TimelineRefresh is the maximum time between timeline resyncs.
func (c TelemetryConfig) TimelineRefresh() time.Duration { return ms(c.TimelineRefreshMs) }

// DriftThreshold is the largest drift absorbed without snapping.
func (c TelemetryConfig) DriftThreshold() time.Duration { return ms(c.DriftThresholdMs) }

// RebindBackoff is the pause after a capture error.
func (c AudioConfig) RebindBackoff() time.Duration { return ms(c.RebindBackoffMs) }

// NoDeviceBackoff is the pause when no loopback device exists.
func (c AudioConfig) NoDeviceBackoff() time.Duration { return ms(c.NoDeviceBackoffMs) }

// PollInterval is the volume polling period.
func (c VolumeConfig) PollInterval() time.Duration { return ms(c.PollIntervalMs) }

// ReadTimeout is the per-read timeout while waiting for an ACK.
func (c MirrorConfig) ReadTimeout() time.Duration { return ms(c.ReadTimeoutMs) }
