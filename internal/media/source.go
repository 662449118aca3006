package media

import (
	"context"

	"github.com/GuestDaProtogen/Vortex-MacroPad/internal/core"
	verrors "github.com/GuestDaProtogen/Vortex-MacroPad/internal/errors"
)

// Source is a MediaSource holding an OS resource.
type Source interface {
	core.MediaSource
	Close() error
}

// None never has a session. It stands in on platforms without a supported
// media API, so the telemetry line still goes out with idle metadata.
type None struct{}

func (None) CurrentSession(ctx context.Context) (core.Session, error) {
	return nil, verrors.ErrNoSession
}

func (None) Close() error { return nil }
