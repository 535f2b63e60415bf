// Package taskbar tracks the open windows of a page, launches registered
// apps and arranges windows in bulk. It learns about windows only through
// the lifecycle events they broadcast on the document body.
package taskbar

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/yourusername/webdesk/internal/dom"
	"github.com/yourusername/webdesk/internal/logging"
	"github.com/yourusername/webdesk/internal/loop"
	"github.com/yourusername/webdesk/internal/types"
	"github.com/yourusername/webdesk/internal/window"
)

// staggerWrap bounds how far the instance counter pushes new windows
const staggerWrap = 10

// Taskbar is the controller behind the taskbar strip
type Taskbar struct {
	el        *dom.Element
	doc       *dom.Document
	container *dom.Element
	sched     loop.Scheduler
	opts      Options

	startBtn *dom.Element
	itemsEl  *dom.Element
	clockEl  *dom.Element
	menu     *dom.Element
	launcher launcher

	open   *orderedmap.OrderedMap[string, *Item]
	closed *orderedmap.OrderedMap[string, ClosedWindow]
	apps   *orderedmap.OrderedMap[string, App]

	mode         types.ArrangeMode
	arranging    bool
	instances    int
	arrangeTimer loop.Timer
	clockTimer   loop.Timer
	destroyed    bool
	offs         []func()
}

// New builds a taskbar inside el. The launcher overlay and desktop menu
// are attached to el's positioning ancestor, or the body.
func New(el *dom.Element, opts Options) *Taskbar {
	def := DefaultOptions()
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.Padding <= 0 {
		opts.Padding = def.Padding
	}
	if opts.WindowDefaults == (window.Defaults{}) {
		opts.WindowDefaults = def.WindowDefaults
	}

	doc := el.OwnerDocument()
	t := &Taskbar{
		el:     el,
		doc:    doc,
		sched:  doc.Scheduler(),
		opts:   opts,
		open:   orderedmap.New[string, *Item](),
		closed: orderedmap.New[string, ClosedWindow](),
		apps:   orderedmap.New[string, App](),
	}
	t.container = el.OffsetParent()
	if t.container == nil {
		t.container = doc.Body()
	}

	t.buildStrip()
	t.buildLauncher()
	t.buildMenu()

	for _, app := range placeholderApps {
		app.Placeholder = true
		t.apps.Set(app.ID, app)
	}

	t.subscribe()
	t.adopt()
	t.tickClock()

	dom.Instances.Set(el, t)
	t.render()

	logging.Info().Int("windows", t.open.Len()).Msg("taskbar ready")
	dom.Emit(el, EventReady, ReadyDetail{Taskbar: t})
	if opts.OnReady != nil {
		opts.OnReady(t)
	}
	return t
}

func (t *Taskbar) buildStrip() {
	t.el.AddClass("taskbar")
	t.el.Style.Height = t.opts.Height

	t.startBtn = t.doc.CreateElement("button")
	t.startBtn.AddClass("taskbar-start")
	t.startBtn.SetText("⊞")

	t.itemsEl = t.doc.CreateElement("div")
	t.itemsEl.AddClass("taskbar-items")

	t.clockEl = t.doc.CreateElement("div")
	t.clockEl.AddClass("taskbar-clock")

	t.el.AppendChild(t.startBtn)
	t.el.AppendChild(t.itemsEl)
	t.el.AppendChild(t.clockEl)

	t.on(t.startBtn, "click", func(*dom.Event) { t.ToggleLauncher() })
}

func (t *Taskbar) on(el *dom.Element, typ string, fn dom.Listener) {
	t.offs = append(t.offs, el.On(typ, fn))
}

func (t *Taskbar) subscribe() {
	body := t.doc.Body()
	t.on(body, window.EventCreated, func(ev *dom.Event) {
		if d, ok := ev.Detail.(window.Detail); ok {
			t.onCreated(d)
		}
	})
	t.on(body, window.EventMinimized, func(ev *dom.Event) {
		if d, ok := ev.Detail.(window.Detail); ok {
			t.onModeChanged(d.ID, true)
		}
	})
	t.on(body, window.EventRestored, func(ev *dom.Event) {
		if d, ok := ev.Detail.(window.Detail); ok {
			t.onModeChanged(d.ID, false)
		}
	})
	t.on(body, window.EventClosed, func(ev *dom.Event) {
		if d, ok := ev.Detail.(window.Detail); ok {
			t.onClosed(d.ID)
		}
	})
	t.on(body, window.EventFocused, func(ev *dom.Event) {
		if d, ok := ev.Detail.(window.Detail); ok {
			t.onFocused(d.ID)
		}
	})
	t.on(body, window.EventTitleChanged, func(ev *dom.Event) {
		if d, ok := ev.Detail.(window.Detail); ok {
			t.onTitleChanged(d.ID, d.Title)
		}
	})

	t.on(t.container, "contextmenu", t.onContextMenu)
	t.on(body, "click", func(ev *dom.Event) {
		if !t.menu.Style.Hidden && !t.menu.Contains(ev.Target) {
			t.closeMenu()
		}
	})
	t.on(body, "keydown", func(ev *dom.Event) {
		if ev.Key == "Escape" {
			t.closeMenu()
			t.CloseLauncher()
		}
	})
}

// adopt registers windows created before the taskbar existed
func (t *Taskbar) adopt() {
	for _, w := range window.All() {
		if w.Destroyed() || w.Element().OwnerDocument() != t.doc {
			continue
		}
		t.track(w)
	}
}

func (t *Taskbar) track(w *window.Window) {
	if _, ok := t.open.Get(w.ID()); ok {
		return
	}
	t.open.Set(w.ID(), &Item{
		ID:        w.ID(),
		Title:     w.Title(),
		Icon:      w.Icon(),
		AppID:     w.AppID(),
		Minimized: w.IsMinimized(),
		Window:    w,
	})
}

func (t *Taskbar) onCreated(d window.Detail) {
	if d.Window == nil {
		return
	}
	t.track(d.Window)
	t.changed()
}

func (t *Taskbar) onModeChanged(id string, minimized bool) {
	item, ok := t.open.Get(id)
	if !ok {
		return
	}
	item.Minimized = minimized
	t.changed()
}

func (t *Taskbar) onClosed(id string) {
	item, ok := t.open.Delete(id)
	if !ok {
		return
	}
	t.closed.Delete(id)
	t.closed.Set(id, ClosedWindow{ID: item.ID, Title: item.Title, Icon: item.Icon, AppID: item.AppID})
	t.changed()
}

func (t *Taskbar) onFocused(id string) {
	t.render()
	if t.mode != types.ArrangeCascade || t.arranging {
		return
	}
	t.cascade(id)
}

func (t *Taskbar) onTitleChanged(id, title string) {
	item, ok := t.open.Get(id)
	if !ok {
		return
	}
	item.Title = title
	t.render()
}

// changed re-renders and re-applies the arrangement mode after a
// registry update
func (t *Taskbar) changed() {
	t.render()
	if t.mode != types.ArrangeNone && !t.arranging {
		t.scheduleArrange()
	}
}

func (t *Taskbar) scheduleArrange() {
	if t.arrangeTimer != nil {
		t.arrangeTimer.Stop()
	}
	t.arrangeTimer = t.sched.AfterFunc(ArrangeDebounce, func() {
		t.arrangeTimer = nil
		switch t.mode {
		case types.ArrangeTile:
			t.Tile()
		case types.ArrangeCascade:
			// the topmost window keeps the top slot
			t.cascade(t.topmost())
		}
	})
}

// RegisterApp adds or replaces an app. The first real registration clears
// the placeholder catalog.
func (t *Taskbar) RegisterApp(app App) {
	if app.ID == "" {
		return
	}
	if !app.Placeholder {
		for pair := t.apps.Oldest(); pair != nil; {
			next := pair.Next()
			if pair.Value.Placeholder {
				t.apps.Delete(pair.Key)
			}
			pair = next
		}
	}
	t.apps.Set(app.ID, app)
	logging.Debug().Str("app", app.ID).Msg("app registered")
	t.renderLauncher()
}

// OpenApp opens a window for a registered app. A singleton app that is
// already open is focused instead. Unknown ids yield nil.
func (t *Taskbar) OpenApp(id string, overrides *OpenOptions) *window.Window {
	app, ok := t.apps.Get(id)
	if !ok {
		logging.Warn().Str("app", id).Msg("cannot open unregistered app")
		return nil
	}

	if app.Singleton {
		for pair := t.open.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Value.AppID == id {
				return pair.Value.Window.Focus()
			}
		}
	}

	opts := overrides.merge(OpenOptions{
		Title:    app.Title,
		Icon:     app.Icon,
		URL:      app.URL,
		Content:  app.Content,
		Generate: app.Generate,
		Width:    app.Width,
		Height:   app.Height,
		OnLoad:   app.OnLoad,
	})
	opts.AppID = id
	return t.OpenWindow(opts)
}

// OpenWindow creates a window in the taskbar's container
func (t *Taskbar) OpenWindow(opts OpenOptions) *window.Window {
	t.instances++
	n := t.instances

	id := opts.ID
	if _, taken := t.open.Get(id); taken {
		logging.Warn().Str("window", id).Msg("window id in use, assigning a new one")
		id = ""
	}
	if id == "" {
		id = t.freeID(n)
	}

	el := t.doc.CreateElement("div")
	el.SetID(id)
	content := t.doc.CreateElement("div")
	content.AddClass("window-content")
	t.fill(content, opts)
	el.AppendChild(content)

	d := t.opts.WindowDefaults
	offset := d.StaggerBase + d.Stagger*float64((n-1)%staggerWrap)
	x, y := offset, offset
	if opts.X != nil {
		x = *opts.X
	}
	if opts.Y != nil {
		y = *opts.Y
	}

	t.container.AppendChild(el)
	w := window.New(el,
		window.WithDefaults(d),
		window.WithID(id),
		window.WithTitle(opts.Title),
		window.WithIcon(opts.Icon),
		window.WithAppID(opts.AppID),
		window.WithPosition(x, y),
		window.WithSize(opts.Width, opts.Height),
	)

	if opts.OnLoad != nil {
		onLoad := opts.OnLoad
		t.sched.AfterFunc(OnLoadDelay, func() {
			if !w.Destroyed() {
				onLoad(w.Element(), content)
			}
		})
	}
	return w
}

// fill populates a window's content element from an iframe source, inline
// markup, generated markup or a placeholder
func (t *Taskbar) fill(content *dom.Element, opts OpenOptions) {
	switch {
	case opts.URL != "":
		loading := t.doc.CreateElement("div")
		loading.AddClass("window-loading")
		loading.SetText("Loading…")

		frame := t.doc.CreateElement("iframe")
		frame.SetAttr("src", opts.URL)
		frame.Style.Hidden = true
		frame.On("load", func(*dom.Event) {
			loading.Remove()
			frame.Style.Hidden = false
		})

		content.AppendChild(loading)
		content.AppendChild(frame)

	case opts.Content != "":
		content.SetText(opts.Content)

	case opts.Generate != nil:
		content.SetText(opts.Generate())

	default:
		placeholder := t.doc.CreateElement("div")
		placeholder.AddClass("window-placeholder")
		placeholder.SetText(opts.Icon)
		content.AppendChild(placeholder)
	}
}

// freeID returns the first win-<n> id, counting up from n, that no open
// window uses
func (t *Taskbar) freeID(n int) string {
	for ; ; n++ {
		id := fmt.Sprintf("win-%d", n)
		if _, taken := t.open.Get(id); !taken {
			return id
		}
	}
}

// ReopenClosed opens a new window from a closed-window entry and removes
// the entry. The entry's id is reused unless an open window has taken it
// meanwhile. Unknown ids yield nil.
func (t *Taskbar) ReopenClosed(id string) *window.Window {
	cw, ok := t.closed.Delete(id)
	if !ok {
		return nil
	}
	opts := &OpenOptions{ID: cw.ID, Title: cw.Title, Icon: cw.Icon}

	if cw.AppID != "" {
		if _, ok := t.apps.Get(cw.AppID); ok {
			if w := t.OpenApp(cw.AppID, opts); w != nil {
				return w
			}
		}
	}
	return t.OpenWindow(*opts)
}

// RestoreClosed seeds the closed-window registry, e.g. from a saved session
func (t *Taskbar) RestoreClosed(entries []ClosedWindow) {
	for _, cw := range entries {
		if cw.ID != "" {
			t.closed.Set(cw.ID, cw)
		}
	}
	t.renderLauncher()
}

// RegisteredApps returns the apps in registration order
func (t *Taskbar) RegisteredApps() []App {
	out := make([]App, 0, t.apps.Len())
	for pair := t.apps.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// OpenWindows returns a snapshot of the open-window registry in open order
func (t *Taskbar) OpenWindows() []Item {
	out := make([]Item, 0, t.open.Len())
	for pair := t.open.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, *pair.Value)
	}
	return out
}

// ClosedWindows returns the reopenable windows, oldest first
func (t *Taskbar) ClosedWindows() []ClosedWindow {
	out := make([]ClosedWindow, 0, t.closed.Len())
	for pair := t.closed.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Window returns the open window with the given id
func (t *Taskbar) Window(id string) *window.Window {
	if item, ok := t.open.Get(id); ok {
		return item.Window
	}
	return nil
}

// Element returns the taskbar strip element
func (t *Taskbar) Element() *dom.Element { return t.el }

// Container returns the positioning element windows are opened in
func (t *Taskbar) Container() *dom.Element { return t.container }

// Options returns the taskbar's settings
func (t *Taskbar) Options() Options { return t.opts }

// ArrangeMode returns the persistent arrangement mode
func (t *Taskbar) ArrangeMode() types.ArrangeMode { return t.mode }

// InstanceCount returns the running window-instance counter
func (t *Taskbar) InstanceCount() int { return t.instances }

// SetInstanceCount moves the instance counter forward, e.g. after
// restoring a session. It never moves backwards.
func (t *Taskbar) SetInstanceCount(n int) {
	t.instances = max(t.instances, n)
}

// Destroy detaches the taskbar from the page
func (t *Taskbar) Destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	for _, timer := range []loop.Timer{t.arrangeTimer, t.clockTimer} {
		if timer != nil {
			timer.Stop()
		}
	}
	for entry, timer := range t.launcher.pending {
		timer.Stop()
		delete(t.launcher.pending, entry)
	}
	for _, off := range t.offs {
		off()
	}
	t.offs = nil
	t.launcher.overlay.Remove()
	t.menu.Remove()
	dom.Instances.Delete(t.el)
}

func (t *Taskbar) tickClock() {
	if t.destroyed {
		return
	}
	t.clockEl.SetText(t.sched.Now().Format("15:04"))
	t.clockTimer = t.sched.AfterFunc(ClockInterval, t.tickClock)
}

// Clock returns the displayed clock text
func (t *Taskbar) Clock() string { return t.clockEl.Text() }

// topmost returns the id of the highest non-minimized open window
func (t *Taskbar) topmost() string {
	var id string
	z := -1
	for pair := t.open.Oldest(); pair != nil; pair = pair.Next() {
		w := pair.Value.Window
		if !w.IsMinimized() && w.ZIndex() > z {
			id, z = pair.Key, w.ZIndex()
		}
	}
	return id
}

// render rebuilds the running-items strip
func (t *Taskbar) render() {
	if t.destroyed {
		return
	}
	t.itemsEl.RemoveChildren()
	top := t.topmost()

	for pair := t.open.Oldest(); pair != nil; pair = pair.Next() {
		item := pair.Value
		btn := t.doc.CreateElement("div")
		btn.AddClass("taskbar-item")
		btn.SetData("window-id", item.ID)
		btn.ToggleClass("minimized", item.Minimized)
		btn.ToggleClass("active", item.ID == top)

		icon := t.doc.CreateElement("span")
		icon.AddClass("taskbar-item-icon")
		icon.SetText(item.Icon)
		label := t.doc.CreateElement("span")
		label.AddClass("taskbar-item-title")
		label.SetText(item.Title)
		btn.AppendChild(icon)
		btn.AppendChild(label)

		id := item.ID
		btn.On("click", func(*dom.Event) { t.Activate(id) })
		t.itemsEl.AppendChild(btn)
	}
	t.renderLauncher()
}

// ItemElements returns the rendered strip entries
func (t *Taskbar) ItemElements() []*dom.Element {
	return t.itemsEl.Children()
}

// Activate handles a click on a taskbar item: a minimized window is
// restored, the topmost window is minimized, any other window is focused
func (t *Taskbar) Activate(id string) {
	item, ok := t.open.Get(id)
	if !ok {
		return
	}
	w := item.Window
	switch {
	case w.IsMinimized():
		w.Focus()
	case id == t.topmost():
		w.Minimize()
	default:
		w.Focus()
	}
}
