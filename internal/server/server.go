// Package server exposes a desktop over a Unix domain socket using
// newline-delimited JSON envelopes.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"

	"github.com/yourusername/webdesk/internal/desktop"
	"github.com/yourusername/webdesk/internal/logging"
	"github.com/yourusername/webdesk/internal/models"
)

// maxLine bounds a single request line
const maxLine = 1 << 20

// eventBuffer is the per-subscriber event backlog
const eventBuffer = 64

// Server accepts socket connections and dispatches their requests to a
// desktop. It satisfies suture.Service.
type Server struct {
	socketPath string
	desk       *desktop.Desktop
	handlers   map[string]HandlerFunc

	mu    sync.Mutex
	conns map[*conn]struct{}
}

// New creates a server for d listening on socketPath
func New(socketPath string, d *desktop.Desktop) *Server {
	s := &Server{
		socketPath: socketPath,
		desk:       d,
		conns:      make(map[*conn]struct{}),
	}
	s.handlers = s.routes()
	return s
}

// String names the service in supervisor logs
func (s *Server) String() string { return "socket server" }

// Methods returns the supported method names
func (s *Server) Methods() []string {
	out := make([]string, 0, len(s.handlers))
	for m := range s.handlers {
		out = append(out, m)
	}
	return out
}

// Serve listens until ctx is cancelled. A stale socket file from an
// earlier run is removed first.
func (s *Server) Serve(ctx context.Context) error {
	if err := removeStale(s.socketPath); err != nil {
		return err
	}

	ln, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.socketPath, err)
	}
	logging.Info().Str("socket", s.socketPath).Msg("server listening")

	go func() {
		<-ctx.Done()
		ln.Close()
	}()
	defer os.Remove(s.socketPath)

	var wg sync.WaitGroup
	defer wg.Wait()
	defer s.closeAll()

	for {
		nc, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("accept failed: %w", err)
		}

		c := &conn{nc: nc}
		s.track(c, true)
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer s.track(c, false)
			s.handleConn(ctx, c)
		}()
	}
}

func removeStale(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if nc, err := net.Dial("unix", path); err == nil {
		nc.Close()
		return fmt.Errorf("socket %s is already in use", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove stale socket: %w", err)
	}
	return nil
}

func (s *Server) track(c *conn, add bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if add {
		s.conns[c] = struct{}{}
	} else {
		delete(s.conns, c)
	}
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.conns {
		c.nc.Close()
	}
}

// conn serializes writes from the request loop and event forwarder
type conn struct {
	nc    net.Conn
	wmu   sync.Mutex
	unsub func()
}

func (c *conn) send(env *models.MessageEnvelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", env.Type, err)
	}
	data = append(data, '\n')

	c.wmu.Lock()
	defer c.wmu.Unlock()
	_, err = c.nc.Write(data)
	return err
}

func (s *Server) handleConn(ctx context.Context, c *conn) {
	defer c.nc.Close()
	defer func() {
		if c.unsub != nil {
			c.unsub()
		}
	}()

	scanner := bufio.NewScanner(c.nc)
	scanner.Buffer(make([]byte, 0, 4096), maxLine)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var env models.MessageEnvelope
		if err := json.Unmarshal(line, &env); err != nil {
			c.send(models.NewErrorResponse("", models.CodeInvalidRequest, "malformed message: "+err.Error()))
			continue
		}
		if env.Type != models.TypeRequest || env.Request == nil {
			c.send(models.NewErrorResponse("", models.CodeInvalidRequest, "expected a request envelope"))
			continue
		}

		req := env.Request
		if req.Method == MethodSubscribe {
			s.subscribe(c)
			c.send(models.NewResponse(req.ID, map[string]interface{}{"subscribed": true}))
			continue
		}

		if err := c.send(s.Dispatch(ctx, req)); err != nil {
			logging.Debug().Err(err).Msg("write failed, dropping connection")
			return
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		logging.Debug().Err(err).Msg("connection read failed")
	}
}

// subscribe starts forwarding desktop events to c. Repeated calls are no-ops.
func (s *Server) subscribe(c *conn) {
	if c.unsub != nil {
		return
	}
	events, cancel := s.desk.Subscribe(eventBuffer)
	c.unsub = cancel

	go func() {
		for ev := range events {
			if err := c.send(models.NewEvent(ev.EventType, ev.Data, ev.Timestamp)); err != nil {
				cancel()
				return
			}
		}
	}()
}

// Dispatch runs one request and builds its response envelope
func (s *Server) Dispatch(ctx context.Context, req *models.Request) *models.MessageEnvelope {
	h, ok := s.handlers[req.Method]
	if !ok {
		return models.NewErrorResponse(req.ID, models.CodeUnknownMethod, "unknown method: "+req.Method)
	}

	result, err := h(ctx, req)
	if err != nil {
		code := errorCode(err)
		logging.Debug().Err(err).Str("method", req.Method).Int("code", code).Msg("request failed")
		return models.NewErrorResponse(req.ID, code, err.Error())
	}
	if result == nil {
		result = map[string]interface{}{}
	}
	return models.NewResponse(req.ID, result)
}
