// Package telemetry builds and sends the MET status line.
package telemetry

import (
	"fmt"
	"strings"

	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/core"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/timeline"
)

// Prefix starts every telemetry line.
const Prefix = "MET:"

const (
	maxLevel  = 8
	maxVolume = 100
)

// Payload is the content of one telemetry line.
type Payload struct {
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Left     int    `json:"left"`
	Right    int    `json:"right"`
	Volume   int    `json:"volume"`
	Elapsed  string `json:"elapsed"`
	Duration string `json:"duration"`
}

// NewPayload combines one tick's readings.
func NewPayload(s timeline.Sample, l core.Levels, volume int) Payload {
	return Payload{
		Title:    s.Title,
		Artist:   s.Artist,
		Left:     l.Left,
		Right:    l.Right,
		Volume:   volume,
		Elapsed:  s.Elapsed,
		Duration: s.Duration,
	}
}

var fieldReplacer = strings.NewReplacer("|", "/", "\r\n", " ", "\r", " ", "\n", " ")

// Encode renders p as
// MET:<title>|<artist>|<left>|<right>|<volume>|<elapsed>|<duration>\n.
// Separators and line breaks inside text fields are replaced, and numbers
// are clamped to their ranges.
func (p Payload) Encode() []byte {
	return []byte(fmt.Sprintf("%s%s|%s|%d|%d|%d|%s|%s\n",
		Prefix,
		fieldReplacer.Replace(p.Title),
		fieldReplacer.Replace(p.Artist),
		clamp(p.Left, maxLevel),
		clamp(p.Right, maxLevel),
		clamp(p.Volume, maxVolume),
		fieldReplacer.Replace(p.Elapsed),
		fieldReplacer.Replace(p.Duration),
	))
}

func (p Payload) String() string {
	return strings.TrimSuffix(string(p.Encode()), "\n")
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// Decode parses a line produced by Encode.
func Decode(line string) (Payload, error) {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, Prefix) {
		return Payload{}, fmt.Errorf("missing %q prefix", Prefix)
	}
	fields := strings.Split(strings.TrimPrefix(line, Prefix), "|")
	if len(fields) != 7 {
		return Payload{}, fmt.Errorf("got %d fields, want 7", len(fields))
	}

	p := Payload{
		Title:    fields[0],
		Artist:   fields[1],
		Elapsed:  fields[5],
		Duration: fields[6],
	}
	for i, dst := range []*int{&p.Left, &p.Right, &p.Volume} {
		if _, err := fmt.Sscanf(fields[2+i], "%d", dst); err != nil {
			return Payload{}, fmt.Errorf("field %d: %w", 2+i, err)
		}
	}
	return p, nil
}
