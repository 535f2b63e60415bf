package window

import (
	"slices"
	"sync"
)

// BaseZ is the stacking value below every window
const BaseZ = 100

// Process-wide stacking counter and live-window set, shared by every
// page in the process. Initialized on first use and never torn down.
var (
	registryMu sync.Mutex
	topZ       = BaseZ
	live       []*Window
)

// nextZ returns a stacking value above every previously assigned one
func nextZ() int {
	registryMu.Lock()
	defer registryMu.Unlock()
	topZ++
	return topZ
}

// TopZ returns the highest stacking value assigned so far
func TopZ() int {
	registryMu.Lock()
	defer registryMu.Unlock()
	return topZ
}

// Count returns the number of live windows
func Count() int {
	registryMu.Lock()
	defer registryMu.Unlock()
	return len(live)
}

// All returns the live windows in creation order
func All() []*Window {
	registryMu.Lock()
	defer registryMu.Unlock()
	return slices.Clone(live)
}

// Find returns the live window with the given id
func Find(id string) *Window {
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, w := range live {
		if w.id == id {
			return w
		}
	}
	return nil
}

func register(w *Window) {
	registryMu.Lock()
	defer registryMu.Unlock()
	live = append(live, w)
}

func unregister(w *Window) {
	registryMu.Lock()
	defer registryMu.Unlock()
	live = slices.DeleteFunc(live, func(x *Window) bool { return x == w })
}
