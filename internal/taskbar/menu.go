package taskbar

import (
	"github.com/yourusername/webdesk/internal/dom"
	"github.com/yourusername/webdesk/internal/types"
	"github.com/yourusername/webdesk/internal/window"
)

// Fallback menu box used to keep the menu inside the container
const (
	menuWidth  = 180
	menuHeight = 200
)

func (t *Taskbar) buildMenu() {
	t.menu = t.doc.CreateElement("div")
	t.menu.AddClass("desktop-menu")
	t.menu.Style.Hidden = true

	for _, a := range menuActions {
		entry := t.doc.CreateElement("div")
		entry.AddClass("desktop-menu-item")
		entry.SetData("action", a.action)
		entry.SetText(a.label)

		action := a.action
		t.on(entry, "click", func(*dom.Event) {
			t.closeMenu()
			t.RunAction(action)
		})
		t.menu.AppendChild(entry)
	}
	t.container.AppendChild(t.menu)
}

// onContextMenu opens the desktop menu for right-clicks on empty desktop
// space
func (t *Taskbar) onContextMenu(ev *dom.Event) {
	target := ev.Target
	if target == nil || ev.Pointer == nil {
		return
	}
	if target.Closest(dom.HasClass("window")) != nil ||
		t.launcher.overlay.Contains(target) ||
		t.menu.Contains(target) ||
		t.el.Contains(target) {
		return
	}
	ev.PreventDefault()

	origin := t.container.PageRect()
	t.OpenMenu(types.Point{X: ev.Pointer.X - origin.X, Y: ev.Pointer.Y - origin.Y})
}

// OpenMenu shows the desktop menu at p in container space. The position
// is corrected on the next frame so the menu stays inside the container.
func (t *Taskbar) OpenMenu(p types.Point) {
	t.menu.Style.Left = p.X
	t.menu.Style.Top = p.Y
	t.menu.Style.Hidden = false
	t.menu.Style.ZIndex = window.TopZ() + 1

	t.sched.RequestFrame(func() {
		c := t.container.PageRect()
		w := t.menu.Style.Width
		if w <= 0 {
			w = menuWidth
		}
		h := t.menu.Style.Height
		if h <= 0 {
			h = menuHeight
		}
		t.menu.Style.Left = types.Clamp(t.menu.Style.Left, 0, c.Width-w)
		t.menu.Style.Top = types.Clamp(t.menu.Style.Top, 0, c.Height-t.opts.Height-h)
	})
}

func (t *Taskbar) closeMenu() {
	t.menu.Style.Hidden = true
}

// MenuOpen reports whether the desktop menu is showing
func (t *Taskbar) MenuOpen() bool { return !t.menu.Style.Hidden }

// Menu returns the desktop menu element
func (t *Taskbar) Menu() *dom.Element { return t.menu }
