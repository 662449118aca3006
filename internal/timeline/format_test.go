package timeline

import (
	"testing"
	"time"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{65, "1:05"},
		{125, "2:05"},
		{3599, "59:59"},
		{3600, "60:00"},
		{-3, "0:00"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.seconds); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatDurationTruncates(t *testing.T) {
	if got := FormatDuration(65*time.Second + 999*time.Millisecond); got != "1:05" {
		t.Errorf("FormatDuration() = %q, want 1:05", got)
	}
}

func TestStateSimulated(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := State{BasePosition: 10 * time.Second, BaseTime: base, Playing: true}

	if got := s.Simulated(base.Add(2 * time.Second)); got != 12*time.Second {
		t.Errorf("Simulated(+2s) = %v, want 12s", got)
	}
	if got := s.Simulated(base.Add(-time.Second)); got != 10*time.Second {
		t.Errorf("Simulated(-1s) = %v, want 10s", got)
	}

	s.Playing = false
	if got := s.Simulated(base.Add(time.Minute)); got != 10*time.Second {
		t.Errorf("paused Simulated() = %v, want 10s", got)
	}

	s.BasePosition = -5 * time.Second
	if got := s.Simulated(base); got != 0 {
		t.Errorf("Simulated() = %v, want clamped 0", got)
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"0:00", 0, false},
		{"1:05", 65, false},
		{"60:00", 3600, false},
		{"", 0, true},
		{"abc", 0, true},
		{"1:75", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseClock(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
