package telemetry

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/core"
	verrors "github.com/GuestDaProtogen/Vortex-MacroPad/internal/errors"
	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/timeline"
	"github.com/rs/zerolog"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		p    Payload
		want string
	}{
		{
			name: "playing",
			p:    Payload{Title: "Song", Artist: "Band", Left: 3, Right: 5, Volume: 42, Elapsed: "0:12", Duration: "3:20"},
			want: "MET:Song|Band|3|5|42|0:12|3:20\n",
		},
		{
			name: "idle",
			p:    NewPayload(timeline.Idle(), core.Levels{}, 50),
			want: "MET:No Media|System Idle|0|0|50|0:00|0:00\n",
		},
		{
			name: "separators replaced",
			p:    Payload{Title: "A|B", Artist: "line\r\nbreak", Elapsed: "0:00", Duration: "0:00"},
			want: "MET:A/B|line break|0|0|0|0:00|0:00\n",
		},
		{
			name: "clamped",
			p:    Payload{Title: "x", Artist: "y", Left: 12, Right: -1, Volume: 140, Elapsed: "0:01", Duration: "0:02"},
			want: "MET:x|y|8|0|100|0:01|0:02\n",
		},
		{
			name: "utf-8",
			p:    Payload{Title: "Café", Artist: "Sigur Rós", Elapsed: "1:05", Duration: "4:00"},
			want: "MET:Café|Sigur Rós|0|0|0|1:05|4:00\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(tt.p.Encode()); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	p, err := Decode("MET:Song|Band|3|5|42|0:12|3:20\r\n")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := Payload{Title: "Song", Artist: "Band", Left: 3, Right: 5, Volume: 42, Elapsed: "0:12", Duration: "3:20"}
	if p != want {
		t.Errorf("Decode() = %+v, want %+v", p, want)
	}

	for _, bad := range []string{"Song|Band", "MET:a|b|c", "MET:a|b|x|0|0|0:00|0:00"} {
		if _, err := Decode(bad); err == nil {
			t.Errorf("Decode(%q) error = nil, want error", bad)
		}
	}
}

type fixedSampler struct {
	sample timeline.Sample
	times  []time.Time
}

func (f *fixedSampler) Sample(ctx context.Context, now time.Time) timeline.Sample {
	f.times = append(f.times, now)
	return f.sample
}

type fixedLevels core.Levels

func (f fixedLevels) Levels() core.Levels { return core.Levels(f) }

func TestTickUsesLatestVolume(t *testing.T) {
	var out bytes.Buffer
	media := &fixedSampler{sample: timeline.Sample{Title: "Song", Artist: "Band", Elapsed: "0:12", Duration: "3:20"}}
	vol := make(chan int, 1)
	s := NewService(&out, media, fixedLevels{Left: 2, Right: 7}, vol, zerolog.Nop())
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	ctx := context.Background()
	if err := s.Tick(ctx); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	vol <- 80
	if err := s.Tick(ctx); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	lines := strings.SplitAfter(out.String(), "\n")
	if lines[0] != "MET:Song|Band|2|7|50|0:12|3:20\n" {
		t.Errorf("line 1 = %q, want initial volume 50", lines[0])
	}
	if lines[1] != "MET:Song|Band|2|7|80|0:12|3:20\n" {
		t.Errorf("line 2 = %q, want volume 80", lines[1])
	}
	if s.Sent() != 2 {
		t.Errorf("Sent() = %d, want 2", s.Sent())
	}
	if len(media.times) != 2 || !media.times[0].Equal(now) {
		t.Errorf("Sample called with %v, want the injected clock", media.times)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("device disconnected") }

func TestRunStopsOnWriteError(t *testing.T) {
	media := &fixedSampler{sample: timeline.Idle()}
	s := NewService(failingWriter{}, media, nil, nil, zerolog.Nop())

	err := s.Run(context.Background())
	if err == nil {
		t.Fatal("Run() error = nil, want write error")
	}
	if verrors.IsTransient(err) {
		t.Errorf("write error classified transient: %v", err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	var out bytes.Buffer
	media := &fixedSampler{sample: timeline.Idle()}
	s := NewService(&out, media, nil, nil, zerolog.Nop())
	s.Interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	var seen []Payload
	s.OnSend = func(p Payload) {
		seen = append(seen, p)
		if len(seen) == 3 {
			cancel()
		}
	}

	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(seen) != 3 {
		t.Errorf("sent %d payloads, want 3", len(seen))
	}
	if seen[0].Title != timeline.IdleTitle {
		t.Errorf("Title = %q, want %q", seen[0].Title, timeline.IdleTitle)
	}
}
