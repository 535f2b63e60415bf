package dom

import (
	"github.com/yourusername/webdesk/internal/loop"
	"github.com/yourusername/webdesk/internal/types"
)

// Document is a page: a body element, a viewport and a scheduler
type Document struct {
	body     *Element
	width    float64
	height   float64
	sched    loop.Scheduler
	captures map[int]*Element
}

// NewDocument creates an empty page with the given viewport size
func NewDocument(width, height float64, sched loop.Scheduler) *Document {
	d := &Document{
		width:    width,
		height:   height,
		sched:    sched,
		captures: make(map[int]*Element),
	}
	d.body = d.CreateElement("body")
	return d
}

// Body returns the body element, the page-wide event bus
func (d *Document) Body() *Element { return d.body }

// Scheduler returns the loop the page runs on
func (d *Document) Scheduler() loop.Scheduler { return d.sched }

// Viewport returns the viewport bounds
func (d *Document) Viewport() types.Rect {
	return types.Rect{Width: d.width, Height: d.height}
}

// SetViewport resizes the viewport
func (d *Document) SetViewport(width, height float64) {
	d.width = width
	d.height = height
}

// CreateElement creates a detached element owned by d
func (d *Document) CreateElement(tag string) *Element {
	return &Element{doc: d, tag: tag, Style: DefaultStyle()}
}

// SetPointerCapture routes subsequent events of pointer id to el
func (d *Document) SetPointerCapture(id int, el *Element) {
	d.captures[id] = el
}

// ReleasePointerCapture clears the capture of pointer id if el holds it
func (d *Document) ReleasePointerCapture(id int, el *Element) {
	if d.captures[id] == el {
		delete(d.captures, id)
	}
}

// PointerCapture returns the element capturing pointer id, if any
func (d *Document) PointerCapture(id int) *Element {
	return d.captures[id]
}

// DispatchPointer delivers a bubbling pointer event of type typ. If the
// pointer is captured the capturing element becomes the target. Capture
// is released implicitly after pointerup and pointercancel.
func (d *Document) DispatchPointer(target *Element, typ string, p Pointer) bool {
	if c := d.captures[p.ID]; c != nil {
		target = c
	}
	if target == nil {
		target = d.body
	}
	ok := target.Dispatch(&Event{Type: typ, Pointer: &p, Bubbles: true})
	if typ == "pointerup" || typ == "pointercancel" {
		delete(d.captures, p.ID)
	}
	return ok
}

// DispatchMouse delivers a bubbling mouse event (mousedown, mousemove,
// mouseup, click, dblclick, contextmenu) at page coordinates x, y
func (d *Document) DispatchMouse(target *Element, typ string, x, y float64) bool {
	if target == nil {
		target = d.body
	}
	return target.Dispatch(&Event{
		Type:    typ,
		Bubbles: true,
		Pointer: &Pointer{ID: PointerMouse, X: x, Y: y, Kind: "mouse"},
	})
}

// DispatchTouch delivers a bubbling touch event (touchstart, touchmove,
// touchend, touchcancel) for the changed touches
func (d *Document) DispatchTouch(target *Element, typ string, touches ...Pointer) bool {
	if target == nil {
		target = d.body
	}
	for i := range touches {
		touches[i].Kind = "touch"
	}
	return target.Dispatch(&Event{Type: typ, Bubbles: true, Touches: touches})
}

// DispatchKey delivers a bubbling keydown event to the body
func (d *Document) DispatchKey(key string) bool {
	return d.body.Dispatch(&Event{Type: "keydown", Key: key, Bubbles: true})
}

// Click delivers a bubbling click event to el
func (d *Document) Click(el *Element) bool {
	return d.DispatchMouse(el, "click", 0, 0)
}

// DoubleClick delivers a bubbling dblclick event to el
func (d *Document) DoubleClick(el *Element) bool {
	return d.DispatchMouse(el, "dblclick", 0, 0)
}

// TouchPointer converts a touch point into the pointer space used by
// pointer state machines, keeping touch IDs disjoint from the mouse
func TouchPointer(t Pointer) Pointer {
	t.ID += PointerTouchMin
	t.Kind = "touch"
	return t
}
