package volume

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
)

var percentPattern = regexp.MustCompile(`(\d+)%`)

// Pactl reads the default sink volume through PulseAudio's pactl, which
// PipeWire also provides.
type Pactl struct{}

func (Pactl) Volume(ctx context.Context) (float64, error) {
	out, err := exec.CommandContext(ctx, "pactl", "get-sink-volume", "@DEFAULT_SINK@").Output()
	if err != nil {
		return 0, fmt.Errorf("pactl get-sink-volume: %w", err)
	}
	return parsePactl(string(out))
}

// parsePactl averages the per-channel percentages of pactl's volume line.
func parsePactl(out string) (float64, error) {
	matches := percentPattern.FindAllStringSubmatch(out, -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("no volume in pactl output %q", out)
	}
	total := 0
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, err
		}
		total += n
	}
	return float64(total) / float64(len(matches)) / 100, nil
}

// Fixed always reports the same volume. It stands in where no mixer is
// reachable.
type Fixed float64

func (f Fixed) Volume(ctx context.Context) (float64, error) {
	return float64(f), nil
}
