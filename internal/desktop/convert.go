package desktop

import (
	"github.com/yourusername/webdesk/internal/models"
	"github.com/yourusername/webdesk/internal/taskbar"
	"github.com/yourusername/webdesk/internal/types"
	"github.com/yourusername/webdesk/internal/window"
)

func rect(r types.Rect) models.Rect {
	return models.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func (d *Desktop) windowModel(w *window.Window) *models.Window {
	m := &models.Window{
		ID:      w.ID(),
		Title:   w.Title(),
		Icon:    w.Icon(),
		AppID:   w.AppID(),
		Mode:    w.Mode().String(),
		Frame:   rect(w.Geometry()),
		ZIndex:  w.ZIndex(),
		Focused: w.ID() == d.focused && !w.IsMinimized(),
		Closing: w.Closing(),
	}
	if saved, ok := w.SavedGeometry(); ok {
		r := rect(saved)
		m.Saved = &r
	}
	return m
}

func (d *Desktop) windowModels() []*models.Window {
	items := d.tb.OpenWindows()
	out := make([]*models.Window, 0, len(items))
	for _, item := range items {
		out = append(out, d.windowModel(item.Window))
	}
	return out
}

func (d *Desktop) appModels(apps []taskbar.App) []*models.Application {
	open := make(map[string]int)
	for _, item := range d.tb.OpenWindows() {
		if item.AppID != "" {
			open[item.AppID]++
		}
	}

	out := make([]*models.Application, 0, len(apps))
	for _, app := range apps {
		out = append(out, &models.Application{
			ID:          app.ID,
			Title:       app.Title,
			Icon:        app.Icon,
			URL:         app.URL,
			Width:       app.Width,
			Height:      app.Height,
			Singleton:   app.Singleton,
			Placeholder: app.Placeholder,
			Open:        open[app.ID],
		})
	}
	return out
}

func closedModels(closed []taskbar.ClosedWindow) []*models.ClosedWindow {
	out := make([]*models.ClosedWindow, 0, len(closed))
	for _, cw := range closed {
		out = append(out, &models.ClosedWindow{ID: cw.ID, Title: cw.Title, Icon: cw.Icon, AppID: cw.AppID})
	}
	return out
}

func (d *Desktop) snapshot() *models.State {
	return &models.State{
		Viewport:      rect(d.doc.Viewport()),
		TaskbarHeight: d.tb.Options().Height,
		ArrangeMode:   string(d.tb.ArrangeMode()),
		Focused:       d.focused,
		InstanceCount: d.tb.InstanceCount(),
		Windows:       d.windowModels(),
		Apps:          d.appModels(d.tb.RegisteredApps()),
		Closed:        closedModels(d.tb.ClosedWindows()),
		Launcher:      &models.Launcher{Open: d.tb.LauncherOpen(), Query: d.tb.Query()},
		Metadata: &models.StateMetadata{
			Timestamp: d.run.Now(),
			Clock:     d.tb.Clock(),
		},
	}
}
