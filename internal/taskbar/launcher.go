package taskbar

import (
	"strings"

	"github.com/yourusername/webdesk/internal/dom"
	"github.com/yourusername/webdesk/internal/loop"
	"github.com/yourusername/webdesk/internal/window"
)

// launcher is the full-screen app grid with search
type launcher struct {
	overlay   *dom.Element
	search    *dom.Element
	appsEl    *dom.Element
	closedEl  *dom.Element
	runningEl *dom.Element
	open      bool
	query     string
	pending   map[*dom.Element]loop.Timer
}

func (t *Taskbar) buildLauncher() {
	l := &t.launcher
	l.pending = make(map[*dom.Element]loop.Timer)
	l.overlay = t.doc.CreateElement("div")
	l.overlay.AddClass("app-launcher")
	l.overlay.Style.Hidden = true

	l.search = t.doc.CreateElement("input")
	l.search.AddClass("launcher-search")
	l.search.SetAttr("placeholder", "Search apps")
	t.on(l.search, "input", func(ev *dom.Event) {
		if q, ok := ev.Detail.(string); ok {
			t.SetQuery(q)
		}
	})

	section := func(class, heading string) *dom.Element {
		title := t.doc.CreateElement("h3")
		title.SetText(heading)
		el := t.doc.CreateElement("div")
		el.AddClass(class)
		l.overlay.AppendChild(title)
		l.overlay.AppendChild(el)
		return el
	}

	l.overlay.AppendChild(l.search)
	l.appsEl = section("launcher-apps", "Apps")
	l.closedEl = section("launcher-closed", "Recently closed")
	l.runningEl = section("launcher-running", "Running")

	// Clicks on the backdrop itself dismiss the overlay
	t.on(l.overlay, "click", func(ev *dom.Event) {
		if ev.Target == l.overlay {
			t.CloseLauncher()
		}
	})

	t.container.AppendChild(l.overlay)
}

// OpenLauncher shows the app launcher
func (t *Taskbar) OpenLauncher() {
	l := &t.launcher
	if l.open {
		return
	}
	l.open = true
	l.overlay.Style.Hidden = false
	l.overlay.Style.ZIndex = window.TopZ() + 1
	t.renderLauncher()

	// focus the search box once the overlay is laid out
	t.sched.RequestFrame(func() {
		if l.open {
			l.search.SetAttr("autofocus", "true")
		}
	})
}

// CloseLauncher hides the launcher and clears its search
func (t *Taskbar) CloseLauncher() {
	l := &t.launcher
	if !l.open {
		return
	}
	l.open = false
	l.overlay.Style.Hidden = true
	l.search.RemoveAttr("autofocus")
	l.query = ""
	l.search.SetAttr("value", "")
}

// ToggleLauncher opens a closed launcher and closes an open one
func (t *Taskbar) ToggleLauncher() {
	if t.launcher.open {
		t.CloseLauncher()
	} else {
		t.OpenLauncher()
	}
}

// LauncherOpen reports whether the launcher is showing
func (t *Taskbar) LauncherOpen() bool { return t.launcher.open }

// Launcher returns the launcher overlay element
func (t *Taskbar) Launcher() *dom.Element { return t.launcher.overlay }

// Query returns the current launcher search text
func (t *Taskbar) Query() string { return t.launcher.query }

// SetQuery filters the launcher's app and closed-window entries
func (t *Taskbar) SetQuery(q string) {
	t.launcher.query = q
	t.launcher.search.SetAttr("value", q)
	t.renderLauncher()
}

// Search returns the apps and closed windows whose titles contain q,
// ignoring case
func (t *Taskbar) Search(q string) ([]App, []ClosedWindow) {
	var apps []App
	for _, app := range t.RegisteredApps() {
		if matches(app.Title, q) {
			apps = append(apps, app)
		}
	}
	var closed []ClosedWindow
	for _, cw := range t.ClosedWindows() {
		if matches(cw.Title, q) {
			closed = append(closed, cw)
		}
	}
	return apps, closed
}

func matches(title, q string) bool {
	return strings.Contains(strings.ToLower(title), strings.ToLower(q))
}

func (t *Taskbar) renderLauncher() {
	l := &t.launcher
	if !l.open || t.destroyed {
		return
	}
	apps, closed := t.Search(l.query)

	l.appsEl.RemoveChildren()
	for _, app := range apps {
		id := app.ID
		entry := t.launcherEntry("launcher-app", app.Icon, app.Title)
		entry.SetData("app-id", id)
		t.bindLaunch(entry, func() { t.OpenApp(id, nil) })
		l.appsEl.AppendChild(entry)
	}

	l.closedEl.RemoveChildren()
	for _, cw := range closed {
		id := cw.ID
		entry := t.launcherEntry("launcher-closed-item", cw.Icon, cw.Title)
		entry.SetData("window-id", id)
		t.bindLaunch(entry, func() { t.ReopenClosed(id) })
		l.closedEl.AppendChild(entry)
	}

	l.runningEl.RemoveChildren()
	for _, item := range t.OpenWindows() {
		entry := t.launcherEntry("launcher-running-item", item.Icon, item.Title)
		entry.SetData("window-id", item.ID)

		dot := t.doc.CreateElement("span")
		dot.AddClass("status-dot")
		if item.Minimized {
			dot.AddClass("status-minimized")
			dot.SetData("color", "yellow")
		} else {
			dot.AddClass("status-normal")
			dot.SetData("color", "green")
		}
		entry.AppendChild(dot)

		w := item.Window
		entry.On("click", func(*dom.Event) { w.Focus() })
		l.runningEl.AppendChild(entry)
	}
}

func (t *Taskbar) launcherEntry(class, icon, title string) *dom.Element {
	entry := t.doc.CreateElement("div")
	entry.AddClass("launcher-entry", class)

	iconEl := t.doc.CreateElement("span")
	iconEl.AddClass("launcher-entry-icon")
	iconEl.SetText(icon)
	label := t.doc.CreateElement("span")
	label.AddClass("launcher-entry-title")
	label.SetText(title)

	entry.AppendChild(iconEl)
	entry.AppendChild(label)
	return entry
}

// bindLaunch wires single and double click on a launcher entry. A single
// click opens after ClickDelay and leaves the launcher open; a double
// click opens at once and closes it. Each entry has its own pending click.
func (t *Taskbar) bindLaunch(entry *dom.Element, open func()) {
	l := &t.launcher
	entry.On("click", func(*dom.Event) {
		if _, ok := l.pending[entry]; ok {
			return
		}
		l.pending[entry] = t.sched.AfterFunc(ClickDelay, func() {
			delete(l.pending, entry)
			open()
		})
	})
	entry.On("dblclick", func(*dom.Event) {
		if timer, ok := l.pending[entry]; ok {
			timer.Stop()
			delete(l.pending, entry)
		}
		open()
		t.CloseLauncher()
	})
}

// LauncherEntries returns the rendered entries of a launcher section:
// "apps", "closed" or "running"
func (t *Taskbar) LauncherEntries(section string) []*dom.Element {
	l := &t.launcher
	switch section {
	case "apps":
		return l.appsEl.Children()
	case "closed":
		return l.closedEl.Children()
	case "running":
		return l.runningEl.Children()
	}
	return nil
}
