package dom

import "slices"

// Pointer IDs for synthesized mouse and touch input
const (
	PointerMouse    = 1
	PointerTouchMin = 1000
)

// Pointer carries pointer, mouse or touch coordinates in page space
type Pointer struct {
	ID     int
	X      float64
	Y      float64
	Button int
	Kind   string // "mouse", "touch" or "pen"
}

// Event is a dispatched page event
type Event struct {
	Type          string
	Target        *Element
	CurrentTarget *Element
	Detail        any
	Bubbles       bool
	Pointer       *Pointer
	Touches       []Pointer // changed touches for touch* events
	Key           string

	stopped          bool
	defaultPrevented bool
}

// StopPropagation prevents ancestors from seeing the event
func (ev *Event) StopPropagation() { ev.stopped = true }

// PreventDefault marks the event as handled
func (ev *Event) PreventDefault() { ev.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called
func (ev *Event) DefaultPrevented() bool { return ev.defaultPrevented }

// Listener handles a dispatched event
type Listener func(ev *Event)

type listener struct {
	fn      Listener
	removed bool
}

// On registers fn for events of type typ and returns a function that
// removes it
func (e *Element) On(typ string, fn Listener) (off func()) {
	if e.listeners == nil {
		e.listeners = make(map[string][]*listener)
	}
	l := &listener{fn: fn}
	e.listeners[typ] = append(e.listeners[typ], l)

	return func() {
		if l.removed {
			return
		}
		l.removed = true
		e.listeners[typ] = slices.DeleteFunc(e.listeners[typ], func(x *listener) bool { return x == l })
	}
}

// ListenerCount returns the number of listeners registered for typ
func (e *Element) ListenerCount(typ string) int {
	return len(e.listeners[typ])
}

// Dispatch delivers ev to e and, when ev.Bubbles, to its ancestors.
// It returns false if a listener called PreventDefault.
func (e *Element) Dispatch(ev *Event) bool {
	if ev.Target == nil {
		ev.Target = e
	}
	for n := e; n != nil; n = n.parent {
		n.invoke(ev)
		if !ev.Bubbles || ev.stopped {
			break
		}
	}
	return !ev.defaultPrevented
}

func (e *Element) invoke(ev *Event) {
	ls := slices.Clone(e.listeners[ev.Type])
	ev.CurrentTarget = e
	for _, l := range ls {
		if l.removed {
			continue
		}
		l.fn(ev)
	}
}

// Emit dispatches a bubbling namespaced event carrying detail, observable
// by every ancestor of el
func Emit(el *Element, name string, detail any) bool {
	if el == nil {
		return true
	}
	return el.Dispatch(&Event{Type: name, Detail: detail, Bubbles: true})
}

// EmitLocal dispatches a non-bubbling event seen only by el's own listeners
func EmitLocal(el *Element, name string, detail any) bool {
	if el == nil {
		return true
	}
	return el.Dispatch(&Event{Type: name, Detail: detail})
}
