package window

import (
	"github.com/yourusername/webdesk/internal/dom"
	"github.com/yourusername/webdesk/internal/types"
)

type gestureKind int

const (
	gestureNone gestureKind = iota
	gestureDrag
	gestureResize
)

// gesture is the in-flight drag or resize. Only the pointer that started
// it may drive it.
type gesture struct {
	kind      gestureKind
	pointer   int
	handle    types.Handle
	offset    types.Point // pointer minus top-left, for drag
	start     types.Point // pointer at resize start
	startGeom types.Rect
	capture   *dom.Element
	release   func() // detaches mouse/touch tracking listeners
}

func (w *Window) bind() {
	on := func(el *dom.Element, typ string, fn dom.Listener) {
		w.offs = append(w.offs, el.On(typ, fn))
	}

	// Pointer events
	on(w.titleBar, "pointerdown", func(ev *dom.Event) {
		if ev.Pointer == nil || w.onControl(ev.Target) {
			return
		}
		w.beginDrag(*ev.Pointer, w.titleBar)
	})
	for h, el := range w.handles {
		on(el, "pointerdown", func(ev *dom.Event) {
			if ev.Pointer == nil {
				return
			}
			w.beginResize(h, *ev.Pointer, el)
		})
	}
	on(w.el, "pointerdown", func(ev *dom.Event) {
		if w.gesture.kind == gestureNone && !w.onControl(ev.Target) {
			w.Focus()
		}
	})
	on(w.el, "pointermove", func(ev *dom.Event) {
		if ev.Pointer != nil {
			w.pointerMove(*ev.Pointer)
		}
	})
	end := func(ev *dom.Event) {
		if ev.Pointer != nil {
			w.pointerEnd(ev.Pointer.ID)
		}
	}
	on(w.el, "pointerup", end)
	on(w.el, "pointercancel", end)

	// Mouse events
	on(w.titleBar, "mousedown", func(ev *dom.Event) {
		if ev.Pointer == nil || w.onControl(ev.Target) {
			return
		}
		if w.beginDrag(*ev.Pointer, nil) {
			w.trackMouse()
		}
	})
	for h, el := range w.handles {
		on(el, "mousedown", func(ev *dom.Event) {
			if ev.Pointer != nil && w.beginResize(h, *ev.Pointer, nil) {
				w.trackMouse()
			}
		})
	}

	// Touch events
	on(w.titleBar, "touchstart", func(ev *dom.Event) {
		if len(ev.Touches) == 0 || w.onControl(ev.Target) {
			return
		}
		if w.beginDrag(dom.TouchPointer(ev.Touches[0]), nil) {
			w.trackTouch()
		}
	})
	for h, el := range w.handles {
		on(el, "touchstart", func(ev *dom.Event) {
			if len(ev.Touches) > 0 && w.beginResize(h, dom.TouchPointer(ev.Touches[0]), nil) {
				w.trackTouch()
			}
		})
	}

	on(w.titleBar, "dblclick", func(ev *dom.Event) {
		if !w.onControl(ev.Target) {
			w.ToggleMaximize()
		}
	})

	on(w.btnMin, "click", func(*dom.Event) { w.Minimize() })
	on(w.btnMax, "click", func(*dom.Event) { w.ToggleMaximize() })
	on(w.btnClose, "click", func(*dom.Event) { w.Close() })
}

// onControl reports whether target is one of the title bar buttons
func (w *Window) onControl(target *dom.Element) bool {
	if target == nil {
		return false
	}
	return target.Closest(dom.HasClass("window-btn")) != nil
}

func (w *Window) canGesture() bool {
	return !w.destroyed && !w.closing && w.mode == types.ModeNormal && w.gesture.kind == gestureNone
}

// toLocal converts page coordinates into the positioning container's space
func (w *Window) toLocal(p dom.Pointer) types.Point {
	area := w.el.ContainingRect()
	return types.Point{X: p.X - area.X, Y: p.Y - area.Y}
}

func (w *Window) beginDrag(p dom.Pointer, capture *dom.Element) bool {
	if !w.canGesture() {
		return false
	}
	w.Focus()

	local := w.toLocal(p)
	w.gesture = gesture{
		kind:    gestureDrag,
		pointer: p.ID,
		offset:  types.Point{X: local.X - w.geom.X, Y: local.Y - w.geom.Y},
	}
	w.startCapture(p.ID, capture)
	w.el.Style.Transition = false
	w.el.AddClass("dragging")
	return true
}

func (w *Window) beginResize(h types.Handle, p dom.Pointer, capture *dom.Element) bool {
	if !w.canGesture() {
		return false
	}
	w.Focus()

	w.gesture = gesture{
		kind:      gestureResize,
		pointer:   p.ID,
		handle:    h,
		start:     w.toLocal(p),
		startGeom: w.geom,
	}
	w.startCapture(p.ID, capture)
	w.el.Style.Transition = false
	w.el.AddClass("resizing")
	return true
}

func (w *Window) startCapture(id int, capture *dom.Element) {
	if capture == nil {
		return
	}
	if doc := w.el.OwnerDocument(); doc != nil {
		doc.SetPointerCapture(id, capture)
		w.gesture.capture = capture
	}
}

func (w *Window) pointerMove(p dom.Pointer) {
	if w.gesture.kind == gestureNone || p.ID != w.gesture.pointer {
		return
	}
	local := w.toLocal(p)

	switch w.gesture.kind {
	case gestureDrag:
		w.geom.X, w.geom.Y = w.dragPosition(local)
	case gestureResize:
		w.geom = w.resizeGeometry(local)
	}
	w.applyGeometry()
}

func (w *Window) pointerEnd(id int) {
	if w.gesture.kind == gestureNone || id != w.gesture.pointer {
		return
	}
	w.endGesture()
}

// endGesture releases capture and tracking listeners and re-enables
// transitions. Safe to call with no gesture in flight.
func (w *Window) endGesture() {
	g := w.gesture
	if g.kind == gestureNone {
		return
	}
	w.gesture = gesture{}

	if g.capture != nil {
		if doc := w.el.OwnerDocument(); doc != nil {
			doc.ReleasePointerCapture(g.pointer, g.capture)
		}
	}
	if g.release != nil {
		g.release()
	}
	w.el.Style.Transition = true
	w.el.RemoveClass("dragging")
	w.el.RemoveClass("resizing")
}

// dragPosition keeps the whole window inside the container, above the
// taskbar reserve
func (w *Window) dragPosition(local types.Point) (x, y float64) {
	area := w.el.ContainingRect()
	x = types.Clamp(local.X-w.gesture.offset.X, 0, area.Width-w.geom.Width)
	y = types.Clamp(local.Y-w.gesture.offset.Y, 0, area.Height-w.defaults.TaskbarReserve-w.geom.Height)
	return x, y
}

func (w *Window) resizeGeometry(local types.Point) types.Rect {
	area := w.el.ContainingRect()
	start := w.gesture.startGeom
	h := w.gesture.handle
	dx := local.X - w.gesture.start.X
	dy := local.Y - w.gesture.start.Y
	g := start

	if h.East() {
		g.Width = types.Clamp(start.Width+dx, w.minSize.Width, area.Width-start.X)
	}
	if h.South() {
		g.Height = types.Clamp(start.Height+dy, w.minSize.Height, area.Height-w.defaults.TaskbarReserve-start.Y)
	}
	if h.West() {
		g.X, g.Width = resizeLeading(start.X, start.Width, dx, w.minSize.Width)
	}
	if h.North() {
		g.Y, g.Height = resizeLeading(start.Y, start.Height, dy, w.minSize.Height)
	}
	return g
}

// resizeLeading moves a leading edge by delta while the trailing edge
// stays put. The edge cannot go negative and the size cannot drop below
// minSize; at the minimum the position is derived from the pinned edge.
func resizeLeading(pos, size, delta, minSize float64) (float64, float64) {
	trailing := pos + size
	newPos := pos + delta
	newSize := size - delta

	if newPos < 0 {
		newPos = 0
		newSize = trailing
	}
	if newSize < minSize {
		newSize = minSize
		newPos = max(trailing-minSize, 0)
	}
	return newPos, newSize
}

// trackMouse follows an in-flight mouse gesture from anywhere on the page
func (w *Window) trackMouse() {
	body := w.el.OwnerDocument().Body()
	offs := []func(){
		body.On("mousemove", func(ev *dom.Event) {
			if ev.Pointer != nil {
				w.pointerMove(*ev.Pointer)
			}
		}),
		body.On("mouseup", func(ev *dom.Event) {
			w.pointerEnd(dom.PointerMouse)
		}),
	}
	w.gesture.release = func() {
		for _, off := range offs {
			off()
		}
	}
}

// trackTouch follows an in-flight touch gesture by its touch identifier
func (w *Window) trackTouch() {
	body := w.el.OwnerDocument().Body()
	move := func(ev *dom.Event) {
		for _, t := range ev.Touches {
			w.pointerMove(dom.TouchPointer(t))
		}
	}
	end := func(ev *dom.Event) {
		for _, t := range ev.Touches {
			w.pointerEnd(dom.TouchPointer(t).ID)
		}
	}
	offs := []func(){
		body.On("touchmove", move),
		body.On("touchend", end),
		body.On("touchcancel", end),
	}
	w.gesture.release = func() {
		for _, off := range offs {
			off()
		}
	}
}
