// Package desktop hosts one page: the document, the taskbar and its
// windows, all driven by a single loop. Everything outside the page
// reaches it through the methods here, which hop onto the loop and wait.
package desktop

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/yourusername/webdesk/internal/config"
	"github.com/yourusername/webdesk/internal/dom"
	"github.com/yourusername/webdesk/internal/logging"
	"github.com/yourusername/webdesk/internal/loop"
	"github.com/yourusername/webdesk/internal/models"
	"github.com/yourusername/webdesk/internal/state"
	"github.com/yourusername/webdesk/internal/taskbar"
	"github.com/yourusername/webdesk/internal/types"
	"github.com/yourusername/webdesk/internal/window"
)

var (
	// ErrWindowNotFound is returned for ids that name no open (or closed) window
	ErrWindowNotFound = errors.New("window not found")
	// ErrAppNotFound is returned for ids that name no registered app
	ErrAppNotFound = errors.New("app not found")
	// ErrLayoutNotFound is returned for ids that name no configured layout
	ErrLayoutNotFound = errors.New("layout not found")
	// ErrInvalid is returned for arguments the desktop cannot act on
	ErrInvalid = errors.New("invalid argument")
)

// Runner is a scheduler that can also run a task and wait for it.
// Both loop.Loop and loop.Virtual satisfy it.
type Runner interface {
	loop.Scheduler
	Do(ctx context.Context, fn func()) error
}

// forwarded are the body events relayed to subscribers
var forwarded = []string{
	window.EventCreated,
	window.EventMinimized,
	window.EventRestored,
	window.EventClosed,
	window.EventFocused,
	window.EventTitleChanged,
	taskbar.EventReady,
}

// Desktop owns one page
type Desktop struct {
	cfg  *config.Config
	run  Runner
	doc  *dom.Document
	desk *dom.Element
	tb   *taskbar.Taskbar

	focused string
	offs    []func()

	subMu   sync.Mutex
	subs    map[int]chan models.Event
	nextSub int
}

// New builds the page described by cfg. It touches the page, so call it
// before the loop starts serving or from a loop task.
func New(cfg *config.Config, run Runner) *Desktop {
	if cfg == nil {
		cfg = config.Default()
	}
	s := cfg.Settings

	d := &Desktop{
		cfg:  cfg,
		run:  run,
		doc:  dom.NewDocument(s.Viewport.Width, s.Viewport.Height, run),
		subs: make(map[int]chan models.Event),
	}

	d.desk = d.doc.CreateElement("div")
	d.desk.AddClass("desktop")
	d.desk.SetPositioned(true)
	d.desk.Style.Width, d.desk.Style.Height = s.Viewport.Width, s.Viewport.Height
	d.doc.Body().AppendChild(d.desk)

	body := d.doc.Body()
	for _, name := range forwarded {
		d.offs = append(d.offs, body.On(name, d.forward))
	}
	d.offs = append(d.offs,
		body.On(window.EventFocused, func(ev *dom.Event) {
			if det, ok := ev.Detail.(window.Detail); ok {
				d.focused = det.ID
			}
		}),
		body.On(window.EventClosed, func(ev *dom.Event) {
			if det, ok := ev.Detail.(window.Detail); ok && det.ID == d.focused {
				d.focused = ""
			}
		}),
	)

	strip := d.doc.CreateElement("div")
	d.desk.AppendChild(strip)
	d.tb = taskbar.New(strip, taskbar.Options{
		Height:         s.TaskbarHeight,
		Padding:        s.Padding,
		WindowDefaults: cfg.WindowDefaults(),
	})

	for _, app := range cfg.Apps {
		d.tb.RegisterApp(taskbar.App{
			ID:        app.ID,
			Title:     app.Title,
			Icon:      app.Icon,
			URL:       app.URL,
			Content:   app.Content,
			Width:     app.Width,
			Height:    app.Height,
			Singleton: app.Singleton,
		})
	}
	if mode := cfg.GetArrangeMode(); mode != types.ArrangeNone {
		d.tb.SetArrangeMode(mode)
	}

	logging.Info().
		Float64("width", s.Viewport.Width).
		Float64("height", s.Viewport.Height).
		Int("apps", len(cfg.Apps)).
		Msg("desktop created")
	return d
}

// Document returns the page. Page-side use only.
func (d *Desktop) Document() *dom.Document { return d.doc }

// Taskbar returns the page's taskbar. Page-side use only.
func (d *Desktop) Taskbar() *taskbar.Taskbar { return d.tb }

// Config returns the configuration the desktop was built from
func (d *Desktop) Config() *config.Config { return d.cfg }

// Do runs fn on the page's loop and waits for it
func (d *Desktop) Do(ctx context.Context, fn func()) error {
	return d.run.Do(ctx, fn)
}

// call runs fn on the loop and returns its error
func (d *Desktop) call(ctx context.Context, fn func() error) error {
	var err error
	if derr := d.run.Do(ctx, func() { err = fn() }); derr != nil {
		return derr
	}
	return err
}

// Close tears the page down. Page-side use only.
func (d *Desktop) Close() {
	for _, w := range d.tb.OpenWindows() {
		w.Window.Destroy()
	}
	d.tb.Destroy()
	for _, off := range d.offs {
		off()
	}
	d.offs = nil

	d.subMu.Lock()
	for id, ch := range d.subs {
		close(ch)
		delete(d.subs, id)
	}
	d.subMu.Unlock()
}

// Subscribe returns a channel of page events and a func that ends the
// subscription. Events are dropped for subscribers that fall behind.
func (d *Desktop) Subscribe(buffer int) (<-chan models.Event, func()) {
	ch := make(chan models.Event, buffer)

	d.subMu.Lock()
	id := d.nextSub
	d.nextSub++
	d.subs[id] = ch
	d.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			d.subMu.Lock()
			defer d.subMu.Unlock()
			if _, ok := d.subs[id]; ok {
				delete(d.subs, id)
				close(ch)
			}
		})
	}
}

func (d *Desktop) forward(ev *dom.Event) {
	data := map[string]interface{}{}
	switch det := ev.Detail.(type) {
	case window.Detail:
		data["id"] = det.ID
		data["title"] = det.Title
		if det.Icon != "" {
			data["icon"] = det.Icon
		}
		if det.AppID != "" {
			data["appId"] = det.AppID
		}
		if w := det.Window; w != nil && !w.Destroyed() {
			data["mode"] = w.Mode().String()
		}
	case taskbar.ReadyDetail:
		if det.Taskbar != nil {
			data["windows"] = len(det.Taskbar.OpenWindows())
		}
	}
	out := models.Event{EventType: ev.Type, Data: data, Timestamp: d.run.Now()}

	d.subMu.Lock()
	defer d.subMu.Unlock()
	for id, ch := range d.subs {
		select {
		case ch <- out:
		default:
			logging.Debug().Int("subscriber", id).Str("event", ev.Type).Msg("subscriber behind, event dropped")
		}
	}
}

// RestoreSession rebuilds windows, the closed registry and the
// arrangement mode from a saved session. Page-side use only.
func (d *Desktop) RestoreSession(s *state.Session) {
	if s == nil {
		return
	}
	windows := append([]state.WindowState(nil), s.Windows...)

	opened := make(map[string]*window.Window, len(windows))
	for _, ws := range windows {
		if w := d.reopen(ws); w != nil {
			opened[ws.ID] = w
		}
	}

	// replay stacking bottom to top, then modes
	sort.SliceStable(windows, func(i, j int) bool { return windows[i].ZIndex < windows[j].ZIndex })
	for _, ws := range windows {
		w := opened[ws.ID]
		if w == nil {
			continue
		}
		w.Focus()
		switch ws.ParsedMode() {
		case types.ModeMaximized:
			w.Maximize()
		case types.ModeMinimized:
			w.Minimize()
		}
	}
	if w := opened[s.Focused]; w != nil && !w.IsMinimized() {
		w.Focus()
	}

	closed := make([]taskbar.ClosedWindow, len(s.Closed))
	for i, c := range s.Closed {
		closed[i] = taskbar.ClosedWindow{ID: c.ID, Title: c.Title, Icon: c.Icon, AppID: c.AppID}
	}
	d.tb.RestoreClosed(closed)
	d.tb.SetInstanceCount(s.InstanceCount)

	if mode := s.Arrange(); mode != types.ArrangeNone {
		d.tb.SetArrangeMode(mode)
	}
	logging.Info().Int("windows", len(opened)).Int("closed", len(closed)).Msg("session restored")
}

// reopen opens one saved window at its normal geometry
func (d *Desktop) reopen(ws state.WindowState) *window.Window {
	if d.tb.Window(ws.ID) != nil {
		return nil
	}
	g := ws.Geometry
	if ws.Saved != nil && ws.ParsedMode() != types.ModeNormal {
		g = *ws.Saved
	}
	opts := &taskbar.OpenOptions{
		ID:     ws.ID,
		Title:  ws.Title,
		Icon:   ws.Icon,
		Width:  g.Width,
		Height: g.Height,
		X:      &g.X,
		Y:      &g.Y,
	}
	if ws.AppID != "" {
		if w := d.tb.OpenApp(ws.AppID, opts); w != nil {
			return w
		}
	}
	return d.tb.OpenWindow(*opts)
}

// Capture records the page into a session. Page-side use only.
func (d *Desktop) Capture() *state.Session {
	s := state.NewSession()
	for _, item := range d.tb.OpenWindows() {
		w := item.Window
		ws := state.WindowState{
			ID:       w.ID(),
			Title:    w.Title(),
			Icon:     w.Icon(),
			AppID:    w.AppID(),
			Mode:     w.Mode().String(),
			Geometry: w.Geometry(),
			ZIndex:   w.ZIndex(),
		}
		if saved, ok := w.SavedGeometry(); ok {
			ws.Saved = &saved
		}
		s.Windows = append(s.Windows, ws)
	}
	for _, cw := range d.tb.ClosedWindows() {
		s.Closed = append(s.Closed, state.ClosedState{ID: cw.ID, Title: cw.Title, Icon: cw.Icon, AppID: cw.AppID})
	}
	s.ArrangeMode = string(d.tb.ArrangeMode())
	s.InstanceCount = d.tb.InstanceCount()
	s.Focused = d.focused
	return s
}

// SaveSession captures the page on the loop and writes it to path
func (d *Desktop) SaveSession(ctx context.Context, path string) error {
	var s *state.Session
	if err := d.run.Do(ctx, func() { s = d.Capture() }); err != nil {
		return err
	}
	return s.SaveTo(path)
}
