package desktop

import (
	"context"
	"fmt"

	"github.com/yourusername/webdesk/internal/dom"
	"github.com/yourusername/webdesk/internal/logging"
	"github.com/yourusername/webdesk/internal/models"
	"github.com/yourusername/webdesk/internal/taskbar"
	"github.com/yourusername/webdesk/internal/types"
	"github.com/yourusername/webdesk/internal/window"
)

// remotePointer is the pointer id used for moves and resizes requested
// from outside the page
const remotePointer = 900

// grab is where a remote drag takes hold of the title bar
var grab = types.Point{X: 20, Y: 10}

// OpenParams describes a window to open from outside the page
type OpenParams struct {
	ID      string   `json:"id,omitempty"`
	Title   string   `json:"title,omitempty"`
	Icon    string   `json:"icon,omitempty"`
	URL     string   `json:"url,omitempty"`
	Content string   `json:"content,omitempty"`
	Width   float64  `json:"width,omitempty"`
	Height  float64  `json:"height,omitempty"`
	X       *float64 `json:"x,omitempty"`
	Y       *float64 `json:"y,omitempty"`
}

func (p OpenParams) options() *taskbar.OpenOptions {
	return &taskbar.OpenOptions{
		ID:      p.ID,
		Title:   p.Title,
		Icon:    p.Icon,
		URL:     p.URL,
		Content: p.Content,
		Width:   p.Width,
		Height:  p.Height,
		X:       p.X,
		Y:       p.Y,
	}
}

// State returns a snapshot of the whole desktop
func (d *Desktop) State(ctx context.Context) (*models.State, error) {
	var st *models.State
	err := d.Do(ctx, func() { st = d.snapshot() })
	return st, err
}

// Windows lists the open windows in taskbar order
func (d *Desktop) Windows(ctx context.Context) ([]*models.Window, error) {
	var out []*models.Window
	err := d.Do(ctx, func() { out = d.windowModels() })
	return out, err
}

// Apps lists the registered apps
func (d *Desktop) Apps(ctx context.Context) ([]*models.Application, error) {
	var out []*models.Application
	err := d.Do(ctx, func() { out = d.appModels(d.tb.RegisteredApps()) })
	return out, err
}

// Closed lists the reopenable windows, oldest first
func (d *Desktop) Closed(ctx context.Context) ([]*models.ClosedWindow, error) {
	var out []*models.ClosedWindow
	err := d.Do(ctx, func() { out = closedModels(d.tb.ClosedWindows()) })
	return out, err
}

// OpenApp opens a window for a registered app
func (d *Desktop) OpenApp(ctx context.Context, appID string, p OpenParams) (*models.Window, error) {
	var out *models.Window
	err := d.call(ctx, func() error {
		if !d.registered(appID) {
			return fmt.Errorf("%w: %s", ErrAppNotFound, appID)
		}
		if p.ID != "" && d.tb.Window(p.ID) != nil {
			return fmt.Errorf("%w: window %s is already open", ErrInvalid, p.ID)
		}
		w := d.tb.OpenApp(appID, p.options())
		if w == nil {
			return fmt.Errorf("%w: %s", ErrAppNotFound, appID)
		}
		out = d.windowModel(w)
		return nil
	})
	return out, err
}

// OpenWindow opens an ad-hoc window
func (d *Desktop) OpenWindow(ctx context.Context, p OpenParams) (*models.Window, error) {
	var out *models.Window
	err := d.call(ctx, func() error {
		if p.ID != "" && d.tb.Window(p.ID) != nil {
			return fmt.Errorf("%w: window %s is already open", ErrInvalid, p.ID)
		}
		if p.URL != "" && p.Content != "" {
			return fmt.Errorf("%w: url and content are mutually exclusive", ErrInvalid)
		}
		out = d.windowModel(d.tb.OpenWindow(*p.options()))
		return nil
	})
	return out, err
}

// Minimize minimizes a window
func (d *Desktop) Minimize(ctx context.Context, id string) (*models.Window, error) {
	return d.windowOp(ctx, id, func(w *window.Window) error { w.Minimize(); return nil })
}

// Restore returns a window to normal mode
func (d *Desktop) Restore(ctx context.Context, id string) (*models.Window, error) {
	return d.windowOp(ctx, id, func(w *window.Window) error { w.Restore(); return nil })
}

// Maximize fills the desktop with a window
func (d *Desktop) Maximize(ctx context.Context, id string) (*models.Window, error) {
	return d.windowOp(ctx, id, func(w *window.Window) error { w.Maximize(); return nil })
}

// CloseWindow starts closing a window. It leaves the taskbar once the
// close animation finishes.
func (d *Desktop) CloseWindow(ctx context.Context, id string) (*models.Window, error) {
	return d.windowOp(ctx, id, func(w *window.Window) error { w.Close(); return nil })
}

// Focus raises a window, restoring it if minimized
func (d *Desktop) Focus(ctx context.Context, id string) (*models.Window, error) {
	return d.windowOp(ctx, id, func(w *window.Window) error { w.Focus(); return nil })
}

// SetTitle renames a window
func (d *Desktop) SetTitle(ctx context.Context, id, title string) (*models.Window, error) {
	return d.windowOp(ctx, id, func(w *window.Window) error {
		if title == "" {
			return fmt.Errorf("%w: title cannot be empty", ErrInvalid)
		}
		w.SetTitle(title)
		return nil
	})
}

// Move drags a window by its title bar so its top-left corner lands at
// x, y. The usual drag clamping applies.
func (d *Desktop) Move(ctx context.Context, id string, x, y float64) (*models.Window, error) {
	return d.windowOp(ctx, id, func(w *window.Window) error {
		d.normalize(w)
		g := w.Geometry()
		from := types.Point{X: g.X + grab.X, Y: g.Y + grab.Y}
		to := types.Point{X: x + grab.X, Y: y + grab.Y}
		d.drag(w.TitleBar(), from, to)
		return nil
	})
}

// Resize drags a window's bottom-right handle to make it width by
// height. The usual resize clamping applies.
func (d *Desktop) Resize(ctx context.Context, id string, width, height float64) (*models.Window, error) {
	return d.windowOp(ctx, id, func(w *window.Window) error {
		if width <= 0 || height <= 0 {
			return fmt.Errorf("%w: size must be positive, got %gx%g", ErrInvalid, width, height)
		}
		d.normalize(w)
		g := w.Geometry()
		from := types.Point{X: g.Right(), Y: g.Bottom()}
		to := types.Point{X: g.X + width, Y: g.Y + height}
		d.drag(w.Handle(types.HandleSE), from, to)
		return nil
	})
}

// Arrange sets the persistent arrangement mode and applies it
func (d *Desktop) Arrange(ctx context.Context, mode types.ArrangeMode) error {
	return d.Do(ctx, func() { d.tb.SetArrangeMode(mode) })
}

// ApplyLayout places the visible windows onto a configured grid layout
func (d *Desktop) ApplyLayout(ctx context.Context, layoutID string) (map[string]string, error) {
	grid, err := d.cfg.GetLayout(layoutID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLayoutNotFound, layoutID)
	}
	var placed map[string]string
	err = d.Do(ctx, func() { placed = d.tb.ArrangeGrid(grid) })
	return placed, err
}

// MinimizeAll minimizes every open window
func (d *Desktop) MinimizeAll(ctx context.Context) error {
	return d.Do(ctx, d.tb.MinimizeAll)
}

// RestoreAll restores every minimized window
func (d *Desktop) RestoreAll(ctx context.Context) error {
	return d.Do(ctx, d.tb.RestoreAll)
}

// CloseAll closes every open window
func (d *Desktop) CloseAll(ctx context.Context) error {
	return d.Do(ctx, d.tb.CloseAll)
}

// Reopen opens a window from the closed registry
func (d *Desktop) Reopen(ctx context.Context, id string) (*models.Window, error) {
	var out *models.Window
	err := d.call(ctx, func() error {
		w := d.tb.ReopenClosed(id)
		if w == nil {
			return fmt.Errorf("%w: no closed window %s", ErrWindowNotFound, id)
		}
		out = d.windowModel(w)
		return nil
	})
	return out, err
}

// Search filters apps and closed windows by title, the way the launcher does
func (d *Desktop) Search(ctx context.Context, query string) (*models.SearchResult, error) {
	var out *models.SearchResult
	err := d.Do(ctx, func() {
		apps, closed := d.tb.Search(query)
		out = &models.SearchResult{Query: query, Apps: d.appModels(apps), Closed: closedModels(closed)}
	})
	return out, err
}

// windowOp runs fn on the loop against the open window id
func (d *Desktop) windowOp(ctx context.Context, id string, fn func(w *window.Window) error) (*models.Window, error) {
	var out *models.Window
	err := d.call(ctx, func() error {
		w := d.tb.Window(id)
		if w == nil || w.Destroyed() {
			return fmt.Errorf("%w: %s", ErrWindowNotFound, id)
		}
		if err := fn(w); err != nil {
			return err
		}
		out = d.windowModel(w)
		return nil
	})
	return out, err
}

func (d *Desktop) registered(appID string) bool {
	for _, app := range d.tb.RegisteredApps() {
		if app.ID == appID {
			return true
		}
	}
	return false
}

// normalize brings a window back to normal mode so it accepts gestures,
// then focuses it. A gesture focuses its window on pointerdown, which may
// re-cascade it, so the geometry is only stable after this.
func (d *Desktop) normalize(w *window.Window) {
	if w.Mode() != types.ModeNormal {
		w.Restore()
	}
	w.Focus()
}

// drag replays a pointer gesture from one container point to another
func (d *Desktop) drag(target *dom.Element, from, to types.Point) {
	origin := d.desk.PageRect()
	p0 := dom.Pointer{ID: remotePointer, X: origin.X + from.X, Y: origin.Y + from.Y, Kind: "mouse"}
	p1 := dom.Pointer{ID: remotePointer, X: origin.X + to.X, Y: origin.Y + to.Y, Kind: "mouse"}

	d.doc.DispatchPointer(target, "pointerdown", p0)
	d.doc.DispatchPointer(d.desk, "pointermove", p1)
	d.doc.DispatchPointer(d.desk, "pointerup", p1)
	logging.Debug().Float64("dx", to.X-from.X).Float64("dy", to.Y-from.Y).Msg("remote drag")
}
