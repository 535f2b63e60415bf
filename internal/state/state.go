package state

import (
	"sync"
	"time"

	"github.com/yourusername/webdesk/internal/types"
)

const (
	// StateVersion is the current session file format version
	StateVersion = 1
)

// Session is the root structure persisted to disk: enough of the desktop
// to rebuild it after a restart
type Session struct {
	Version       int           `json:"version"`
	Windows       []WindowState `json:"windows"` // taskbar registry order
	Closed        []ClosedState `json:"closed"`  // oldest first
	ArrangeMode   string        `json:"arrangeMode"`
	InstanceCount int           `json:"instanceCount"`
	Focused       string        `json:"focused,omitempty"`
	LastUpdated   time.Time     `json:"lastUpdated"`

	mu sync.RWMutex `json:"-"`
}

// WindowState is one open window
type WindowState struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Icon     string      `json:"icon"`
	AppID    string      `json:"appId,omitempty"`
	Mode     string      `json:"mode"`
	Geometry types.Rect  `json:"geometry"`
	Saved    *types.Rect `json:"saved,omitempty"` // pre-minimize/maximize geometry
	ZIndex   int         `json:"zIndex"`
}

// ClosedState is one entry of the closed-window registry
type ClosedState struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Icon  string `json:"icon"`
	AppID string `json:"appId,omitempty"`
}

// NewSession creates a new empty session
func NewSession() *Session {
	return &Session{
		Version:     StateVersion,
		Windows:     make([]WindowState, 0),
		Closed:      make([]ClosedState, 0),
		ArrangeMode: string(types.ArrangeNone),
		LastUpdated: time.Now(),
	}
}

// Replace swaps in the contents of a freshly captured session
func (s *Session) Replace(next *Session) {
	next.mu.RLock()
	windows := append([]WindowState(nil), next.Windows...)
	closed := append([]ClosedState(nil), next.Closed...)
	mode, count, focused := next.ArrangeMode, next.InstanceCount, next.Focused
	next.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.Windows = windows
	s.Closed = closed
	s.ArrangeMode = mode
	s.InstanceCount = count
	s.Focused = focused
	s.LastUpdated = time.Now()
}

// Clear drops every window and closed entry. The instance counter is kept
// so later ids stay unique.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Windows = make([]WindowState, 0)
	s.Closed = make([]ClosedState, 0)
	s.ArrangeMode = string(types.ArrangeNone)
	s.Focused = ""
	s.LastUpdated = time.Now()
}

// Window returns a copy of the window state with the given id
func (s *Session) Window(id string) (WindowState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, w := range s.Windows {
		if w.ID == id {
			return w, true
		}
	}
	return WindowState{}, false
}

// WindowIDs returns the open window ids in registry order
func (s *Session) WindowIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, len(s.Windows))
	for i, w := range s.Windows {
		ids[i] = w.ID
	}
	return ids
}

// ClosedIDs returns the closed window ids, oldest first
func (s *Session) ClosedIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, len(s.Closed))
	for i, c := range s.Closed {
		ids[i] = c.ID
	}
	return ids
}

// ParsedMode parses the stored mode, falling back to normal
func (w WindowState) ParsedMode() types.Mode {
	m, _ := types.ParseMode(w.Mode)
	return m
}

// Arrange parses the stored arrangement mode
func (s *Session) Arrange() types.ArrangeMode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, _ := types.ParseArrangeMode(s.ArrangeMode)
	return m
}

// MarkUpdated updates the LastUpdated timestamp
func (s *Session) MarkUpdated() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastUpdated = time.Now()
}
