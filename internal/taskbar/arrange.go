package taskbar

import (
	"slices"

	"github.com/yourusername/webdesk/internal/layout"
	"github.com/yourusername/webdesk/internal/logging"
	"github.com/yourusername/webdesk/internal/types"
	"github.com/yourusername/webdesk/internal/window"
)

// Menu actions offered by the desktop context menu
const (
	ActionMinimizeAll = "minimize-all"
	ActionRestoreAll  = "restore-all"
	ActionCascade     = "cascade"
	ActionTile        = "tile"
	ActionCloseAll    = "close-all"
)

var menuActions = []struct{ action, label string }{
	{ActionMinimizeAll, "Minimize all"},
	{ActionRestoreAll, "Restore all"},
	{ActionCascade, "Arrange: cascade"},
	{ActionTile, "Arrange: tile"},
	{ActionCloseAll, "Close all"},
}

// windows returns the open windows in registry order
func (t *Taskbar) windows() []*window.Window {
	out := make([]*window.Window, 0, t.open.Len())
	for pair := t.open.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value.Window)
	}
	return out
}

// visible returns the open windows that are not minimized
func (t *Taskbar) visible() []*window.Window {
	return slices.DeleteFunc(t.windows(), (*window.Window).IsMinimized)
}

// MinimizeAll minimizes every open window
func (t *Taskbar) MinimizeAll() {
	for _, w := range t.windows() {
		w.Minimize()
	}
}

// RestoreAll restores every minimized window
func (t *Taskbar) RestoreAll() {
	for _, w := range t.windows() {
		if w.IsMinimized() {
			w.Restore()
		}
	}
}

// CloseAll closes every open window
func (t *Taskbar) CloseAll() {
	for _, w := range t.windows() {
		w.Close()
	}
}

// SetArrangeMode sets the persistent arrangement and applies it now
func (t *Taskbar) SetArrangeMode(mode types.ArrangeMode) {
	t.mode = mode
	logging.Debug().Str("mode", string(mode)).Msg("arrange mode set")

	switch mode {
	case types.ArrangeCascade:
		t.Cascade()
	case types.ArrangeTile:
		t.Tile()
	}
}

// usableArea is the container minus the taskbar strip, in container space
func (t *Taskbar) usableArea() types.Rect {
	c := t.container.PageRect()
	return types.Rect{Width: c.Width, Height: max(c.Height-t.opts.Height, 0)}
}

// Cascade stacks the visible windows diagonally and focuses the last one
func (t *Taskbar) Cascade() {
	t.cascade("")
}

// cascade lays out the visible windows with last, if set, moved to the
// end so it lands on top
func (t *Taskbar) cascade(last string) {
	if t.arranging {
		return
	}
	t.arranging = true
	defer func() { t.arranging = false }()

	ws := t.visible()
	if last != "" {
		if i := slices.IndexFunc(ws, func(w *window.Window) bool { return w.ID() == last }); i >= 0 {
			w := ws[i]
			ws = append(slices.Delete(ws, i, i+1), w)
		}
	}
	if len(ws) == 0 {
		return
	}

	sizes := make([]types.Size, len(ws))
	for i, w := range ws {
		g := w.Geometry()
		if saved, ok := w.SavedGeometry(); ok && w.IsMaximized() {
			g = saved
		}
		sizes[i] = types.Size{Width: g.Width, Height: g.Height}
	}

	rects := layout.Cascade(sizes, t.usableArea(), layout.DefaultCascade)
	for i, w := range ws {
		w.SetBounds(rects[i])
		w.Focus()
	}
	t.render()
}

// Tile divides the usable area evenly among the visible windows
func (t *Taskbar) Tile() {
	if t.arranging {
		return
	}
	t.arranging = true
	defer func() { t.arranging = false }()

	ws := t.visible()
	if len(ws) == 0 {
		return
	}

	pad := t.opts.Padding
	area := t.usableArea().Inset(pad)
	for i, r := range layout.Tile(len(ws), area, pad) {
		ws[i].SetBounds(r)
	}
	t.render()
}

// TileArea returns the area tiled windows share
func (t *Taskbar) TileArea() types.Rect {
	return t.usableArea().Inset(t.opts.Padding)
}

// RunAction performs a desktop menu action by name. Unknown actions are
// ignored.
func (t *Taskbar) RunAction(action string) {
	switch action {
	case ActionMinimizeAll:
		t.MinimizeAll()
	case ActionRestoreAll:
		t.RestoreAll()
	case ActionCascade:
		t.SetArrangeMode(types.ArrangeCascade)
	case ActionTile:
		t.SetArrangeMode(types.ArrangeTile)
	case ActionCloseAll:
		t.CloseAll()
	default:
		logging.Debug().Str("action", action).Msg("unknown desktop action")
	}
}

// ArrangeGrid places the visible windows onto the cells of grid, in
// reading order of the cells. Windows beyond the cell count wrap around.
// It returns the cell each window landed in and turns off any persistent
// arrangement mode.
func (t *Taskbar) ArrangeGrid(grid *types.Grid) map[string]string {
	placed := make(map[string]string)
	if grid == nil || len(grid.Cells) == 0 || t.arranging {
		return placed
	}
	t.mode = types.ArrangeNone
	t.arranging = true
	defer func() { t.arranging = false }()

	pad := t.opts.Padding
	calc := layout.CalculateGrid(grid, t.TileArea(), pad)
	order := layout.SortCellsByPosition(calc.CellBounds)
	if len(order) == 0 {
		return placed
	}

	for i, w := range t.visible() {
		cell := order[i%len(order)]
		w.SetBounds(calc.CellBounds[cell])
		placed[w.ID()] = cell
	}
	logging.Debug().Int("windows", len(placed)).Int("cells", len(order)).Msg("arranged onto grid")
	t.render()
	return placed
}
