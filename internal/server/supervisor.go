package server

import (
	"context"
	"errors"

	"github.com/thejerf/suture/v4"

	"github.com/yourusername/webdesk/internal/logging"
	"github.com/yourusername/webdesk/internal/loop"
)

// Run supervises the page loop, the socket server and any extra services
// (autosave) until ctx is cancelled. Services that fail are restarted.
func Run(ctx context.Context, l *loop.Loop, srv *Server, extra ...suture.Service) error {
	if err := removeStale(srv.socketPath); err != nil {
		return err
	}

	sup := suture.New("webdesk", suture.Spec{
		EventHook: func(e suture.Event) {
			logging.Warn().Interface("event", e.Map()).Msg(e.String())
		},
	})
	sup.Add(l)
	sup.Add(srv)
	for _, s := range extra {
		sup.Add(s)
	}

	err := sup.Serve(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
