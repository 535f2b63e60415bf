package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/webdesk/internal/desktop"
	"github.com/yourusername/webdesk/internal/loop"
	"github.com/yourusername/webdesk/internal/models"
	"github.com/yourusername/webdesk/internal/types"
)

// Method names
const (
	MethodPing        = "ping"
	MethodDump        = "dump"
	MethodSubscribe   = "subscribe"
	MethodWindowsList = "windows.list"
	MethodAppsList    = "apps.list"
	MethodClosedList  = "closed.list"
	MethodAppOpen     = "app.open"
	MethodWindowOpen  = "window.open"
	MethodMinimize    = "window.minimize"
	MethodRestore     = "window.restore"
	MethodMaximize    = "window.maximize"
	MethodClose       = "window.close"
	MethodFocus       = "window.focus"
	MethodMove        = "window.move"
	MethodResize      = "window.resize"
	MethodTitle       = "window.title"
	MethodArrange     = "desktop.arrange"
	MethodLayout      = "desktop.layout"
	MethodMinimizeAll = "desktop.minimizeAll"
	MethodRestoreAll  = "desktop.restoreAll"
	MethodCloseAll    = "desktop.closeAll"
	MethodReopen      = "closed.reopen"
	MethodSearch      = "launcher.search"
)

// errInvalidParams marks errors caused by the request itself
var errInvalidParams = errors.New("invalid params")

// HandlerFunc serves one method
type HandlerFunc func(ctx context.Context, req *models.Request) (map[string]interface{}, error)

func (s *Server) routes() map[string]HandlerFunc {
	d := s.desk
	started := time.Now()

	windowOp := func(op func(context.Context, string) (*models.Window, error)) HandlerFunc {
		return func(ctx context.Context, req *models.Request) (map[string]interface{}, error) {
			id, err := requireString(req, "id")
			if err != nil {
				return nil, err
			}
			return windowResult(op(ctx, id))
		}
	}
	bulk := func(op func(context.Context) error) HandlerFunc {
		return func(ctx context.Context, _ *models.Request) (map[string]interface{}, error) {
			if err := op(ctx); err != nil {
				return nil, err
			}
			return map[string]interface{}{"ok": true}, nil
		}
	}

	return map[string]HandlerFunc{
		MethodPing: func(context.Context, *models.Request) (map[string]interface{}, error) {
			return map[string]interface{}{
				"pong":   true,
				"uptime": time.Since(started).Round(time.Second).String(),
			}, nil
		},
		MethodDump: func(ctx context.Context, _ *models.Request) (map[string]interface{}, error) {
			st, err := d.State(ctx)
			if err != nil {
				return nil, err
			}
			return models.ToMap(st)
		},
		MethodWindowsList: func(ctx context.Context, _ *models.Request) (map[string]interface{}, error) {
			ws, err := d.Windows(ctx)
			if err != nil {
				return nil, err
			}
			return listResult("windows", ws)
		},
		MethodAppsList: func(ctx context.Context, _ *models.Request) (map[string]interface{}, error) {
			apps, err := d.Apps(ctx)
			if err != nil {
				return nil, err
			}
			return listResult("apps", apps)
		},
		MethodClosedList: func(ctx context.Context, _ *models.Request) (map[string]interface{}, error) {
			closed, err := d.Closed(ctx)
			if err != nil {
				return nil, err
			}
			return listResult("closed", closed)
		},
		MethodAppOpen: func(ctx context.Context, req *models.Request) (map[string]interface{}, error) {
			app, err := requireString(req, "app")
			if err != nil {
				return nil, err
			}
			return windowResult(d.OpenApp(ctx, app, openParams(req)))
		},
		MethodWindowOpen: func(ctx context.Context, req *models.Request) (map[string]interface{}, error) {
			return windowResult(d.OpenWindow(ctx, openParams(req)))
		},
		MethodMinimize: windowOp(d.Minimize),
		MethodRestore:  windowOp(d.Restore),
		MethodMaximize: windowOp(d.Maximize),
		MethodClose:    windowOp(d.CloseWindow),
		MethodFocus:    windowOp(d.Focus),
		MethodMove: func(ctx context.Context, req *models.Request) (map[string]interface{}, error) {
			id, x, y, err := idAndPair(req, "x", "y")
			if err != nil {
				return nil, err
			}
			return windowResult(d.Move(ctx, id, x, y))
		},
		MethodResize: func(ctx context.Context, req *models.Request) (map[string]interface{}, error) {
			id, w, h, err := idAndPair(req, "width", "height")
			if err != nil {
				return nil, err
			}
			return windowResult(d.Resize(ctx, id, w, h))
		},
		MethodTitle: func(ctx context.Context, req *models.Request) (map[string]interface{}, error) {
			id, err := requireString(req, "id")
			if err != nil {
				return nil, err
			}
			title, err := requireString(req, "title")
			if err != nil {
				return nil, err
			}
			return windowResult(d.SetTitle(ctx, id, title))
		},
		MethodArrange: func(ctx context.Context, req *models.Request) (map[string]interface{}, error) {
			mode, ok := types.ParseArrangeMode(req.String("mode"))
			if !ok {
				return nil, fmt.Errorf("%w: unknown arrange mode %q", errInvalidParams, req.String("mode"))
			}
			if err := d.Arrange(ctx, mode); err != nil {
				return nil, err
			}
			return map[string]interface{}{"mode": string(mode)}, nil
		},
		MethodLayout: func(ctx context.Context, req *models.Request) (map[string]interface{}, error) {
			id, err := requireString(req, "layout")
			if err != nil {
				return nil, err
			}
			placed, err := d.ApplyLayout(ctx, id)
			if err != nil {
				return nil, err
			}
			cells := make(map[string]interface{}, len(placed))
			for w, c := range placed {
				cells[w] = c
			}
			return map[string]interface{}{"layout": id, "placed": cells}, nil
		},
		MethodMinimizeAll: bulk(d.MinimizeAll),
		MethodRestoreAll:  bulk(d.RestoreAll),
		MethodCloseAll:    bulk(d.CloseAll),
		MethodReopen: func(ctx context.Context, req *models.Request) (map[string]interface{}, error) {
			id, err := requireString(req, "id")
			if err != nil {
				return nil, err
			}
			return windowResult(d.Reopen(ctx, id))
		},
		MethodSearch: func(ctx context.Context, req *models.Request) (map[string]interface{}, error) {
			res, err := d.Search(ctx, req.String("query"))
			if err != nil {
				return nil, err
			}
			return models.ToMap(res)
		},
	}
}

func requireString(req *models.Request, key string) (string, error) {
	s, err := req.RequireString(key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	return s, nil
}

func idAndPair(req *models.Request, a, b string) (string, float64, float64, error) {
	id, err := requireString(req, "id")
	if err != nil {
		return "", 0, 0, err
	}
	va, ok := req.Float(a)
	if !ok {
		return "", 0, 0, fmt.Errorf("%w: missing number %q", errInvalidParams, a)
	}
	vb, ok := req.Float(b)
	if !ok {
		return "", 0, 0, fmt.Errorf("%w: missing number %q", errInvalidParams, b)
	}
	return id, va, vb, nil
}

func openParams(req *models.Request) desktop.OpenParams {
	p := desktop.OpenParams{
		ID:      req.String("id"),
		Title:   req.String("title"),
		Icon:    req.String("icon"),
		URL:     req.String("url"),
		Content: req.String("content"),
	}
	p.Width, _ = req.Float("width")
	p.Height, _ = req.Float("height")
	if x, ok := req.Float("x"); ok {
		p.X = &x
	}
	if y, ok := req.Float("y"); ok {
		p.Y = &y
	}
	return p
}

func windowResult(w *models.Window, err error) (map[string]interface{}, error) {
	if err != nil {
		return nil, err
	}
	m, err := models.ToMap(w)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"window": m}, nil
}

func listResult[T any](key string, items []T) (map[string]interface{}, error) {
	list := make([]interface{}, 0, len(items))
	for _, item := range items {
		m, err := models.ToMap(item)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return map[string]interface{}{key: list, "count": len(items)}, nil
}

// errorCode maps an error onto a response code
func errorCode(err error) int {
	switch {
	case errors.Is(err, desktop.ErrWindowNotFound), errors.Is(err, desktop.ErrAppNotFound), errors.Is(err, desktop.ErrLayoutNotFound):
		return models.CodeNotFound
	case errors.Is(err, errInvalidParams), errors.Is(err, desktop.ErrInvalid):
		return models.CodeInvalidRequest
	case errors.Is(err, loop.ErrStopped), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return models.CodeUnavailable
	default:
		return models.CodeInternal
	}
}
