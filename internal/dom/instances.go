package dom

import (
	"runtime"
	"sync"
	"weak"
)

// instancesMu guards every registry and the controllers field of every
// element, since cleanups run on the runtime's cleanup goroutine
var instancesMu sync.Mutex

// Registry associates opaque controller objects with elements without
// keeping the elements alive. Controllers live on the element and the
// registry holds only weak pointers, so a controller may point back at
// its element. Entries disappear when their element is garbage collected
// or Delete is called.
type Registry struct {
	cleanups map[weak.Pointer[Element]]runtime.Cleanup
}

// Instances is the page-lifetime controller registry
var Instances = NewRegistry()

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{cleanups: make(map[weak.Pointer[Element]]runtime.Cleanup)}
}

// Set associates ctrl with el, replacing any previous controller
func (r *Registry) Set(el *Element, ctrl any) {
	if el == nil {
		return
	}
	wp := weak.Make(el)

	instancesMu.Lock()
	defer instancesMu.Unlock()

	if el.controllers == nil {
		el.controllers = make(map[*Registry]any)
	}
	el.controllers[r] = ctrl
	if _, ok := r.cleanups[wp]; !ok {
		r.cleanups[wp] = runtime.AddCleanup(el, r.collect, wp)
	}
}

// Get returns the controller associated with el
func (r *Registry) Get(el *Element) (any, bool) {
	if el == nil {
		return nil, false
	}
	instancesMu.Lock()
	defer instancesMu.Unlock()

	ctrl, ok := el.controllers[r]
	return ctrl, ok
}

// Delete dissociates el from its controller
func (r *Registry) Delete(el *Element) {
	if el == nil {
		return
	}
	wp := weak.Make(el)

	instancesMu.Lock()
	defer instancesMu.Unlock()

	delete(el.controllers, r)
	if c, ok := r.cleanups[wp]; ok {
		c.Stop()
		delete(r.cleanups, wp)
	}
}

// Len returns the number of live associations
func (r *Registry) Len() int {
	instancesMu.Lock()
	defer instancesMu.Unlock()
	return len(r.cleanups)
}

func (r *Registry) collect(wp weak.Pointer[Element]) {
	instancesMu.Lock()
	defer instancesMu.Unlock()
	delete(r.cleanups, wp)
}

// InstanceOf returns the controller of type T associated with el
func InstanceOf[T any](el *Element) (T, bool) {
	var zero T
	ctrl, ok := Instances.Get(el)
	if !ok {
		return zero, false
	}
	typed, ok := ctrl.(T)
	return typed, ok
}
