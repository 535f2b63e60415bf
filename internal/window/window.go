// Package window turns page elements into floating windows: draggable,
// resizable, stackable panels with minimize, maximize, restore and close.
//
// Windows announce their lifecycle on the document body and never hold a
// reference to whatever listens there.
package window

import (
	"strings"

	"github.com/google/uuid"

	"github.com/yourusername/webdesk/internal/dom"
	"github.com/yourusername/webdesk/internal/logging"
	"github.com/yourusername/webdesk/internal/loop"
	"github.com/yourusername/webdesk/internal/types"
)

// Lifecycle event names
const (
	EventCreated      = "window:created"
	EventMinimized    = "window:minimized"
	EventRestored     = "window:restored"
	EventMaximized    = "window:maximized"
	EventClosed       = "window:closed"
	EventFocused      = "window:focused"
	EventTitleChanged = "window:titlechanged"
)

// Control button glyphs
const (
	GlyphMinimize = "─"
	GlyphMaximize = "□"
	GlyphRestore  = "❐"
	GlyphClose    = "✕"
)

// CornerRadius is the border radius of a window that is not maximized
const CornerRadius = 8

// Detail is the payload carried by lifecycle events
type Detail struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Icon   string  `json:"icon,omitempty"`
	AppID  string  `json:"appId,omitempty"`
	Window *Window `json:"-"`
}

// Window is the controller behind one floating panel
type Window struct {
	el        *dom.Element
	titleBar  *dom.Element
	titleText *dom.Element
	iconEl    *dom.Element
	body      *dom.Element
	btnMin    *dom.Element
	btnMax    *dom.Element
	btnClose  *dom.Element
	handles   map[types.Handle]*dom.Element

	id    string
	title string
	icon  string
	appID string

	geom     types.Rect
	saved    types.Rect
	hasSaved bool
	minSize  types.Size
	mode     types.Mode
	z        int

	defaults   Defaults
	sched      loop.Scheduler
	closeTimer loop.Timer
	closing    bool
	destroyed  bool

	gesture gesture
	offs    []func()
}

// New turns el into a window. Existing children become the window body;
// the title bar and resize handles are synthesized.
func New(el *dom.Element, opts ...Option) *Window {
	s := readSettings(el, opts)

	w := &Window{
		el:       el,
		id:       s.id,
		title:    s.title,
		icon:     s.icon,
		appID:    s.appID,
		minSize:  types.Size{Width: s.minWidth, Height: s.minHeight},
		defaults: s.defaults,
		handles:  make(map[types.Handle]*dom.Element, len(types.Handles)),
	}
	if doc := el.OwnerDocument(); doc != nil {
		w.sched = doc.Scheduler()
	}

	if w.id == "" {
		w.id = "window-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}
	el.SetID(w.id)
	el.SetData("title", w.title)
	el.SetData("icon", w.icon)
	if w.appID != "" {
		el.SetData("app-id", w.appID)
	}

	x, y := s.x, s.y
	if x == nil || y == nil {
		offset := w.defaults.StaggerBase + w.defaults.Stagger*float64(Count())
		if x == nil {
			x = &offset
		}
		if y == nil {
			y = &offset
		}
	}
	w.geom = types.Rect{X: *x, Y: *y, Width: s.width, Height: s.height}

	w.build()
	w.applyGeometry()
	w.bind()

	w.raise()
	register(w)
	dom.Instances.Set(el, w)

	logging.Debug().Str("window", w.id).Str("title", w.title).Msg("window created")
	w.broadcast(EventCreated)
	return w
}

func (w *Window) build() {
	doc := w.el.OwnerDocument()
	w.el.AddClass("window")
	w.el.SetPositioned(true)
	w.el.Style.BorderRadius = CornerRadius

	content := w.el.Children()
	w.el.RemoveChildren()

	w.titleBar = doc.CreateElement("div")
	w.titleBar.AddClass("window-titlebar")

	w.iconEl = doc.CreateElement("span")
	w.iconEl.AddClass("window-icon")
	w.iconEl.SetText(w.icon)

	w.titleText = doc.CreateElement("span")
	w.titleText.AddClass("window-title")
	w.titleText.SetText(w.title)

	controls := doc.CreateElement("div")
	controls.AddClass("window-controls")
	w.btnMin = controlButton(doc, "minimize", GlyphMinimize)
	w.btnMax = controlButton(doc, "maximize", GlyphMaximize)
	w.btnClose = controlButton(doc, "close", GlyphClose)
	controls.AppendChild(w.btnMin)
	controls.AppendChild(w.btnMax)
	controls.AppendChild(w.btnClose)

	w.titleBar.AppendChild(w.iconEl)
	w.titleBar.AppendChild(w.titleText)
	w.titleBar.AppendChild(controls)

	w.body = doc.CreateElement("div")
	w.body.AddClass("window-body")
	for _, c := range content {
		w.body.AppendChild(c)
	}

	w.el.AppendChild(w.titleBar)
	w.el.AppendChild(w.body)

	for _, h := range types.Handles {
		handle := doc.CreateElement("div")
		handle.AddClass("window-resize-handle", "window-resize-"+string(h))
		handle.SetData("handle", string(h))
		w.handles[h] = handle
		w.el.AppendChild(handle)
	}
}

func controlButton(doc *dom.Document, action, glyph string) *dom.Element {
	btn := doc.CreateElement("button")
	btn.AddClass("window-btn", "window-btn-"+action)
	btn.SetData("action", action)
	btn.SetText(glyph)
	return btn
}

// ID returns the window id
func (w *Window) ID() string { return w.id }

// Title returns the current title
func (w *Window) Title() string { return w.title }

// Icon returns the icon glyph
func (w *Window) Icon() string { return w.icon }

// AppID returns the registered app that opened the window, if any
func (w *Window) AppID() string { return w.appID }

// Element returns the window's container element
func (w *Window) Element() *dom.Element { return w.el }

// Body returns the content element
func (w *Window) Body() *dom.Element { return w.body }

// TitleBar returns the title bar element
func (w *Window) TitleBar() *dom.Element { return w.titleBar }

// Handle returns the resize handle for h
func (w *Window) Handle(h types.Handle) *dom.Element { return w.handles[h] }

// Geometry returns the live geometry relative to the positioning container
func (w *Window) Geometry() types.Rect { return w.geom }

// SavedGeometry returns the restore snapshot, if one was taken
func (w *Window) SavedGeometry() (types.Rect, bool) { return w.saved, w.hasSaved }

// MinSize returns the minimum width and height
func (w *Window) MinSize() types.Size { return w.minSize }

// Mode returns the display mode
func (w *Window) Mode() types.Mode { return w.mode }

// IsMinimized reports whether the window is minimized
func (w *Window) IsMinimized() bool { return w.mode == types.ModeMinimized }

// IsMaximized reports whether the window is maximized
func (w *Window) IsMaximized() bool { return w.mode == types.ModeMaximized }

// ZIndex returns the stacking value last assigned to the window
func (w *Window) ZIndex() int { return w.z }

// Closing reports whether Close has been called
func (w *Window) Closing() bool { return w.closing }

// Destroyed reports whether the window has been torn down
func (w *Window) Destroyed() bool { return w.destroyed }

// Minimize hides the window, keeping its geometry for Restore
func (w *Window) Minimize() *Window {
	if w.destroyed || w.mode == types.ModeMinimized {
		return w
	}
	w.endGesture()

	switch w.mode {
	case types.ModeNormal:
		w.snapshot()
	case types.ModeMaximized:
		// keeps the pre-maximize snapshot
		w.unmaximize()
	}
	w.el.Style.Scale = 0
	w.el.Style.Opacity = 0
	w.el.Style.Interactive = false
	w.mode = types.ModeMinimized

	logging.Debug().Str("window", w.id).Msg("window minimized")
	w.emitLocal(EventMinimized)
	w.broadcast(EventMinimized)
	return w
}

// Restore returns a minimized or maximized window to normal mode
func (w *Window) Restore() *Window {
	if w.destroyed {
		return w
	}

	switch w.mode {
	case types.ModeMinimized:
		w.el.Style.Scale = 1
		w.el.Style.Opacity = 1
		w.el.Style.Interactive = true
		w.writeBack()
		w.mode = types.ModeNormal
		w.raise()

		logging.Debug().Str("window", w.id).Msg("window restored")
		w.emitLocal(EventRestored)
		w.broadcast(EventRestored)

	case types.ModeMaximized:
		w.unmaximize()
		w.writeBack()

		// Maximize state is not visible on the page bus
		logging.Debug().Str("window", w.id).Msg("window restored from maximized")
		w.emitLocal(EventRestored)
	}
	return w
}

// Maximize fills the positioning container (the viewport when there is none)
func (w *Window) Maximize() *Window {
	if w.destroyed || w.mode == types.ModeMaximized {
		return w
	}
	if w.mode == types.ModeMinimized {
		w.Restore()
	}
	w.endGesture()

	w.snapshot()
	area := w.el.ContainingRect()
	w.geom = types.Rect{Width: area.Width, Height: area.Height}
	w.applyGeometry()

	w.el.Style.BorderRadius = 0
	w.btnMax.SetText(GlyphRestore)
	w.el.AddClass("maximized")
	w.mode = types.ModeMaximized
	w.raise()

	logging.Debug().Str("window", w.id).Msg("window maximized")
	w.emitLocal(EventMaximized)
	return w
}

// ToggleMaximize maximizes a normal window and restores a maximized one
func (w *Window) ToggleMaximize() *Window {
	if w.mode == types.ModeMaximized {
		return w.Restore()
	}
	return w.Maximize()
}

// Close fades the window out and tears it down after the close delay.
// Calling Close again while the delay runs has no effect.
func (w *Window) Close() *Window {
	if w.destroyed || w.closing {
		return w
	}
	w.closing = true
	w.endGesture()

	w.el.Style.Scale = 0.9
	w.el.Style.Opacity = 0
	w.el.Style.Interactive = false

	finish := func() {
		if w.destroyed {
			return
		}
		logging.Debug().Str("window", w.id).Msg("window closed")
		w.emitLocal(EventClosed)
		w.broadcast(EventClosed)
		w.Destroy()
	}

	if w.sched == nil {
		finish()
		return w
	}
	w.closeTimer = w.sched.AfterFunc(w.defaults.CloseDelay, finish)
	return w
}

// Focus restores a minimized window and raises it above every other window
func (w *Window) Focus() *Window {
	if w.destroyed {
		return w
	}
	if w.mode == types.ModeMinimized {
		w.Restore()
	}
	w.raise()
	w.broadcast(EventFocused)
	return w
}

// SetTitle changes the displayed title
func (w *Window) SetTitle(title string) *Window {
	if w.destroyed {
		return w
	}
	w.title = title
	w.titleText.SetText(title)
	w.el.SetData("title", title)
	w.broadcast(EventTitleChanged)
	return w
}

// SetBounds moves and resizes the window, enforcing the minimum size. A
// maximized window drops back to normal mode without an event.
func (w *Window) SetBounds(r types.Rect) *Window {
	if w.destroyed {
		return w
	}
	if w.mode == types.ModeMaximized {
		w.unmaximize()
		w.mode = types.ModeNormal
	}
	r.Width = max(r.Width, w.minSize.Width)
	r.Height = max(r.Height, w.minSize.Height)
	w.geom = r
	w.applyGeometry()
	return w
}

// Destroy tears the window down immediately without a closed event
func (w *Window) Destroy() {
	if w.destroyed {
		return
	}
	w.destroyed = true
	if w.closeTimer != nil {
		w.closeTimer.Stop()
	}
	w.endGesture()

	for _, off := range w.offs {
		off()
	}
	w.offs = nil

	unregister(w)
	dom.Instances.Delete(w.el)
	w.el.Remove()
}

func (w *Window) detail() Detail {
	return Detail{ID: w.id, Title: w.title, Icon: w.icon, AppID: w.appID, Window: w}
}

// emitLocal notifies listeners on the window element only
func (w *Window) emitLocal(name string) {
	dom.EmitLocal(w.el, name, w.detail())
}

// broadcast notifies the page-wide bus on the document body
func (w *Window) broadcast(name string) {
	doc := w.el.OwnerDocument()
	if doc == nil {
		return
	}
	doc.Body().Dispatch(&dom.Event{Type: name, Target: w.el, Detail: w.detail(), Bubbles: true})
}

func (w *Window) raise() {
	w.z = nextZ()
	w.el.Style.ZIndex = w.z
}

func (w *Window) snapshot() {
	w.saved = w.geom
	w.hasSaved = true
}

func (w *Window) writeBack() {
	if !w.hasSaved {
		return
	}
	w.geom = w.saved
	w.hasSaved = false
	w.applyGeometry()
}

func (w *Window) unmaximize() {
	w.el.Style.BorderRadius = CornerRadius
	w.btnMax.SetText(GlyphMaximize)
	w.el.RemoveClass("maximized")
	w.mode = types.ModeNormal
}

func (w *Window) applyGeometry() {
	w.el.Style.Left = w.geom.X
	w.el.Style.Top = w.geom.Y
	w.el.Style.Width = w.geom.Width
	w.el.Style.Height = w.geom.Height
}
