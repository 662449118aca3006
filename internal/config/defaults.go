package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			BaudRate:        115200,
			IdentifyCommand: "IDENTIFY",
			DeviceID:        "MACROPAD_STATION",
			SettleMs:        2000,
			ProbeTimeoutMs:  1000,
		},
		Telemetry: TelemetryConfig{
			IntervalMs:        40,
			SessionRefreshMs:  3000,
			TimelineRefreshMs: 3000,
			DriftThresholdMs:  2000,
		},
		Audio: AudioConfig{
			SampleRate:        44100,
			BlockSize:         1024,
			Gain:              18.0,
			MaxLevel:          8,
			RebindBackoffMs:   1000,
			NoDeviceBackoffMs: 2000,
		},
		Volume: VolumeConfig{
			PollIntervalMs: 200,
			Initial:        50,
		},
		Mirror: MirrorConfig{
			Width:         128,
			Height:        64,
			Dither:        true,
			Threshold:     128,
			ReadTimeoutMs: 100,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in fields whose zero value is never valid. Fields
// where zero is a meaningful setting, such as drift_threshold_ms = 0 to
// always snap, are left alone.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Serial
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = d.Serial.BaudRate
	}
	if c.Serial.IdentifyCommand == "" {
		c.Serial.IdentifyCommand = d.Serial.IdentifyCommand
	}
	if c.Serial.DeviceID == "" {
		c.Serial.DeviceID = d.Serial.DeviceID
	}

	// Telemetry
	if c.Telemetry.IntervalMs == 0 {
		c.Telemetry.IntervalMs = d.Telemetry.IntervalMs
	}

	// Audio
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = d.Audio.SampleRate
	}
	if c.Audio.BlockSize == 0 {
		c.Audio.BlockSize = d.Audio.BlockSize
	}
	if c.Audio.Gain == 0 {
		c.Audio.Gain = d.Audio.Gain
	}
	if c.Audio.MaxLevel == 0 {
		c.Audio.MaxLevel = d.Audio.MaxLevel
	}

	// Volume
	if c.Volume.PollIntervalMs == 0 {
		c.Volume.PollIntervalMs = d.Volume.PollIntervalMs
	}

	// Mirror
	if c.Mirror.Width == 0 {
		c.Mirror.Width = d.Mirror.Width
	}
	if c.Mirror.Height == 0 {
		c.Mirror.Height = d.Mirror.Height
	}
	if c.Mirror.ReadTimeoutMs == 0 {
		c.Mirror.ReadTimeoutMs = d.Mirror.ReadTimeoutMs
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
