// Package media reads the desktop's current media session.
package media

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/core"
	verrors "github.com/GuestDaProtogen/Vortex-MacroPad/internal/errors"
	"github.com/godbus/dbus/v5"
)

const (
	mprisPrefix     = "org.mpris.MediaPlayer2."
	mprisPath       = dbus.ObjectPath("/org/mpris/MediaPlayer2")
	playerInterface = "org.mpris.MediaPlayer2.Player"
	propertiesGet   = "org.freedesktop.DBus.Properties.Get"
	listNames       = "org.freedesktop.DBus.ListNames"
)

// caller is the slice of a D-Bus connection the MPRIS source needs.
type caller interface {
	// Names lists the bus names currently owned.
	Names(ctx context.Context) ([]string, error)
	// Property reads one property of the MPRIS player object owned by dest.
	Property(ctx context.Context, dest, iface, prop string) (dbus.Variant, error)
}

// MPRIS is a core.MediaSource backed by MPRIS players on the session bus.
type MPRIS struct {
	bus caller
}

// NewMPRIS connects to the session bus.
func NewMPRIS() (*MPRIS, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	return &MPRIS{bus: &busCaller{conn: conn}}, nil
}

// CurrentSession returns the first playing MPRIS player, or the first
// player at all when none is playing.
func (m *MPRIS) CurrentSession(ctx context.Context) (core.Session, error) {
	names, err := m.bus.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bus names: %w", err)
	}

	players := filterPlayers(names)
	if len(players) == 0 {
		return nil, verrors.ErrNoSession
	}

	for _, name := range players {
		v, err := m.bus.Property(ctx, name, playerInterface, "PlaybackStatus")
		if err != nil {
			continue
		}
		if s, ok := v.Value().(string); ok && core.ParsePlaybackStatus(s).IsPlaying() {
			return &session{bus: m.bus, name: name}, nil
		}
	}
	return &session{bus: m.bus, name: players[0]}, nil
}

// filterPlayers returns the MPRIS player names in a stable order.
func filterPlayers(names []string) []string {
	var players []string
	for _, n := range names {
		if strings.HasPrefix(n, mprisPrefix) {
			players = append(players, n)
		}
	}
	sort.Strings(players)
	return players
}

type session struct {
	bus  caller
	name string
}

func (s *session) metadata(ctx context.Context) (map[string]dbus.Variant, error) {
	v, err := s.bus.Property(ctx, s.name, playerInterface, "Metadata")
	if err != nil {
		return nil, fmt.Errorf("%s metadata: %w", s.name, err)
	}
	md, ok := v.Value().(map[string]dbus.Variant)
	if !ok {
		return nil, fmt.Errorf("%s metadata: unexpected type %s", s.name, v.Signature())
	}
	return md, nil
}

func (s *session) Properties(ctx context.Context) (*core.Properties, error) {
	md, err := s.metadata(ctx)
	if err != nil {
		return nil, err
	}
	return parseProperties(md), nil
}

func (s *session) Timeline(ctx context.Context) (*core.Timeline, error) {
	md, err := s.metadata(ctx)
	if err != nil {
		return nil, err
	}

	status, err := s.bus.Property(ctx, s.name, playerInterface, "PlaybackStatus")
	if err != nil {
		return nil, fmt.Errorf("%s status: %w", s.name, err)
	}
	statusStr, _ := status.Value().(string)

	tl := &core.Timeline{
		MaxSeekTime: microseconds(md["mpris:length"]),
		Status:      core.ParsePlaybackStatus(statusStr),
	}

	// Position is optional for players that cannot seek.
	if pos, err := s.bus.Property(ctx, s.name, playerInterface, "Position"); err == nil {
		tl.Position = microseconds(pos)
	}
	return tl, nil
}

// parseProperties reads xesam title and artist fields from MPRIS metadata.
func parseProperties(md map[string]dbus.Variant) *core.Properties {
	p := &core.Properties{}
	if v, ok := md["xesam:title"]; ok {
		p.Title, _ = v.Value().(string)
	}
	if v, ok := md["xesam:album"]; ok {
		p.Album, _ = v.Value().(string)
	}
	if v, ok := md["xesam:artist"]; ok {
		switch a := v.Value().(type) {
		case []string:
			p.Artist = strings.Join(a, ", ")
		case string:
			p.Artist = a
		}
	}
	return p
}

// microseconds converts an MPRIS time value to a duration. Players disagree
// on the integer type, so every signed and unsigned width is accepted.
func microseconds(v dbus.Variant) time.Duration {
	var us int64
	switch n := v.Value().(type) {
	case int64:
		us = n
	case uint64:
		us = int64(n)
	case int32:
		us = int64(n)
	case uint32:
		us = int64(n)
	case float64:
		us = int64(n)
	default:
		return 0
	}
	if us < 0 {
		return 0
	}
	return time.Duration(us) * time.Microsecond
}

// busCaller adapts a live *dbus.Conn.
type busCaller struct {
	conn *dbus.Conn
}

func (b *busCaller) Names(ctx context.Context) ([]string, error) {
	var names []string
	err := b.conn.BusObject().CallWithContext(ctx, listNames, 0).Store(&names)
	return names, err
}

func (b *busCaller) Property(ctx context.Context, dest, iface, prop string) (dbus.Variant, error) {
	var v dbus.Variant
	err := b.conn.Object(dest, mprisPath).CallWithContext(ctx, propertiesGet, 0, iface, prop).Store(&v)
	return v, err
}

// Close releases the bus connection.
func (m *MPRIS) Close() error {
	if b, ok := m.bus.(*busCaller); ok {
		return b.conn.Close()
	}
	return nil
}
