package models

import (
	"fmt"
	"sort"
	"time"
)

// State is the complete desktop state returned by "dump"
type State struct {
	Viewport      Rect            `json:"viewport"`
	TaskbarHeight float64         `json:"taskbarHeight"`
	ArrangeMode   string          `json:"arrangeMode"`
	Focused       string          `json:"focused,omitempty"`
	InstanceCount int             `json:"instanceCount"`
	Windows       []*Window       `json:"windows"`
	Apps          []*Application  `json:"apps"`
	Closed        []*ClosedWindow `json:"closed"`
	Launcher      *Launcher       `json:"launcher,omitempty"`
	Metadata      *StateMetadata  `json:"metadata"`
}

// Rect is a pixel rectangle relative to the desktop
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Window is one open window
type Window struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Icon    string `json:"icon"`
	AppID   string `json:"appId,omitempty"`
	Mode    string `json:"mode"`
	Frame   Rect   `json:"frame"`
	Saved   *Rect  `json:"saved,omitempty"`
	ZIndex  int    `json:"zIndex"`
	Focused bool   `json:"focused"`
	Closing bool   `json:"closing,omitempty"`
}

// IsMinimized returns true if the window is minimized
func (w *Window) IsMinimized() bool { return w.Mode == "minimized" }

// IsMaximized returns true if the window is maximized
func (w *Window) IsMaximized() bool { return w.Mode == "maximized" }

// FormatFrame returns a formatted string representation of the window frame
func (w *Window) FormatFrame() string {
	return fmt.Sprintf("%.0fx%.0f @ (%.0f, %.0f)", w.Frame.Width, w.Frame.Height, w.Frame.X, w.Frame.Y)
}

// Application is a registered app
type Application struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Icon        string  `json:"icon"`
	URL         string  `json:"url,omitempty"`
	Width       float64 `json:"width,omitempty"`
	Height      float64 `json:"height,omitempty"`
	Singleton   bool    `json:"singleton,omitempty"`
	Placeholder bool    `json:"placeholder,omitempty"`
	Open        int     `json:"open"` // windows currently open for this app
}

// ClosedWindow is a reopenable closed window
type ClosedWindow struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Icon  string `json:"icon"`
	AppID string `json:"appId,omitempty"`
}

// Launcher is the state of the launcher overlay
type Launcher struct {
	Open  bool   `json:"open"`
	Query string `json:"query,omitempty"`
}

// SearchResult is the launcher filter output
type SearchResult struct {
	Query  string          `json:"query"`
	Apps   []*Application  `json:"apps"`
	Closed []*ClosedWindow `json:"closed"`
}

// StateMetadata contains metadata about the state
type StateMetadata struct {
	Timestamp time.Time `json:"timestamp"`
	Clock     string    `json:"clock"`
}

// ParseState parses the dump result into a State struct
func ParseState(result map[string]interface{}) (*State, error) {
	var state State
	if err := FromMap(result, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state: %w", err)
	}
	return &state, nil
}

// FindWindowByID finds a window by its ID
func (s *State) FindWindowByID(id string) *Window {
	for _, w := range s.Windows {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// StackOrder returns the windows bottom to top
func (s *State) StackOrder() []*Window {
	out := make([]*Window, len(s.Windows))
	copy(out, s.Windows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}

// CountByMode returns how many windows are in each mode
func (s *State) CountByMode() map[string]int {
	counts := make(map[string]int)
	for _, w := range s.Windows {
		counts[w.Mode]++
	}
	return counts
}
