package taskbar

import (
	"time"

	"github.com/yourusername/webdesk/internal/dom"
	"github.com/yourusername/webdesk/internal/window"
)

// Timing of the taskbar's deferred work
const (
	ArrangeDebounce = 50 * time.Millisecond
	ClickDelay      = 250 * time.Millisecond
	OnLoadDelay     = 100 * time.Millisecond
	ClockInterval   = 30 * time.Second
)

// EventReady is emitted on the taskbar element once it is built
const EventReady = "taskbar:ready"

// Item is the taskbar's record of one open window
type Item struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Icon      string         `json:"icon"`
	AppID     string         `json:"appId,omitempty"`
	Minimized bool           `json:"minimized"`
	Window    *window.Window `json:"-"`
}

// ClosedWindow is what the taskbar remembers about a closed window so it
// can be reopened
type ClosedWindow struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Icon  string `json:"icon" yaml:"icon"`
	AppID string `json:"appId,omitempty" yaml:"app_id,omitempty"`
}

// App is a registered application template
type App struct {
	ID        string
	Title     string
	Icon      string
	URL       string        // loaded in an iframe
	Content   string        // inline markup
	Generate  func() string // markup generated per window
	Width     float64
	Height    float64
	Singleton bool
	OnLoad    func(root, content *dom.Element)

	// Placeholder marks the seeded catalog shown until a real app is
	// registered
	Placeholder bool
}

// OpenOptions describes a window to open. Zero fields fall back to defaults.
type OpenOptions struct {
	ID       string
	Title    string
	Icon     string
	URL      string
	Content  string
	Generate func() string
	Width    float64
	Height   float64
	X        *float64
	Y        *float64
	AppID    string
	OnLoad   func(root, content *dom.Element)
}

// merge overlays the non-zero fields of o onto base
func (o *OpenOptions) merge(base OpenOptions) OpenOptions {
	if o == nil {
		return base
	}
	out := base
	if o.ID != "" {
		out.ID = o.ID
	}
	if o.Title != "" {
		out.Title = o.Title
	}
	if o.Icon != "" {
		out.Icon = o.Icon
	}
	if o.URL != "" {
		out.URL = o.URL
	}
	if o.Content != "" {
		out.Content = o.Content
	}
	if o.Generate != nil {
		out.Generate = o.Generate
	}
	if o.Width > 0 {
		out.Width = o.Width
	}
	if o.Height > 0 {
		out.Height = o.Height
	}
	if o.X != nil {
		out.X = o.X
	}
	if o.Y != nil {
		out.Y = o.Y
	}
	if o.OnLoad != nil {
		out.OnLoad = o.OnLoad
	}
	return out
}

// Options configures a Taskbar
type Options struct {
	Height         float64 // strip height reserved at the bottom
	Padding        float64 // gap around and between tiled windows
	WindowDefaults window.Defaults
	OnReady        func(t *Taskbar)
}

// DefaultOptions returns the standard taskbar geometry
func DefaultOptions() Options {
	return Options{
		Height:         48,
		Padding:        10,
		WindowDefaults: window.StandardDefaults,
	}
}

// ReadyDetail is the payload of EventReady
type ReadyDetail struct {
	Taskbar *Taskbar `json:"-"`
}

// placeholderApps seed the launcher until real apps are registered
var placeholderApps = []App{
	{ID: "files", Title: "Files", Icon: "📁"},
	{ID: "browser", Title: "Browser", Icon: "🌐"},
	{ID: "terminal", Title: "Terminal", Icon: "🖥"},
	{ID: "notes", Title: "Notes", Icon: "📝"},
	{ID: "calculator", Title: "Calculator", Icon: "🧮"},
	{ID: "settings", Title: "Settings", Icon: "⚙"},
}
