package timeline

import (
	"fmt"
	"time"
)

// FormatClock renders whole seconds as M:SS. Minutes are not padded and do
// not roll over into hours; negative input renders as 0:00.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// FormatDuration renders d truncated to whole seconds as M:SS.
func FormatDuration(d time.Duration) string {
	return FormatClock(int(d / time.Second))
}

// ParseClock reads an M:SS clock back into whole seconds.
func ParseClock(s string) (int, error) {
	var m, sec int
	if _, err := fmt.Sscanf(s, "%d:%02d", &m, &sec); err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	if m < 0 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("parse clock %q: out of range", s)
	}
	return m*60 + sec, nil
}
