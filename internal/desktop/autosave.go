package desktop

import (
	"context"
	"errors"
	"time"

	"github.com/yourusername/webdesk/internal/logging"
	"github.com/yourusername/webdesk/internal/loop"
)

// Autosaver periodically writes the desktop session to disk. It
// satisfies suture.Service.
type Autosaver struct {
	Desktop  *Desktop
	Path     string
	Interval time.Duration
}

// Serve saves every Interval until ctx is cancelled
func (a *Autosaver) Serve(ctx context.Context) error {
	if a.Interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(a.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := a.Desktop.SaveSession(ctx, a.Path)
			switch {
			case err == nil:
				logging.Debug().Str("path", a.Path).Msg("session saved")
			case errors.Is(err, loop.ErrStopped), errors.Is(err, context.Canceled):
				// loop restarting or shutting down; try again next tick
			default:
				logging.Warn().Err(err).Str("path", a.Path).Msg("autosave failed")
			}
		}
	}
}

// String names the service in supervisor logs
func (a *Autosaver) String() string { return "autosave" }
