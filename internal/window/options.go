package window

import (
	"strconv"
	"time"

	"github.com/yourusername/webdesk/internal/dom"
)

// Defaults holds the fallback geometry and timing for new windows
type Defaults struct {
	Width          float64       `json:"width" yaml:"width"`
	Height         float64       `json:"height" yaml:"height"`
	MinWidth       float64       `json:"minWidth" yaml:"min_width"`
	MinHeight      float64       `json:"minHeight" yaml:"min_height"`
	StaggerBase    float64       `json:"staggerBase" yaml:"stagger_base"`
	Stagger        float64       `json:"stagger" yaml:"stagger"`
	TaskbarReserve float64       `json:"taskbarReserve" yaml:"taskbar_reserve"`
	CloseDelay     time.Duration `json:"closeDelay" yaml:"close_delay"`
}

// StandardDefaults are used when no Defaults option is supplied
var StandardDefaults = Defaults{
	Width:          600,
	Height:         400,
	MinWidth:       300,
	MinHeight:      200,
	StaggerBase:    50,
	Stagger:        30,
	TaskbarReserve: 48,
	CloseDelay:     150 * time.Millisecond,
}

// Option overrides construction settings read from the element
type Option func(*settings)

type settings struct {
	id, title, icon, appID string
	x, y                   *float64
	width, height          float64
	minWidth, minHeight    float64
	defaults               Defaults
}

// WithID sets the window id
func WithID(id string) Option {
	return func(s *settings) { s.id = id }
}

// WithTitle sets the initial title
func WithTitle(title string) Option {
	return func(s *settings) { s.title = title }
}

// WithIcon sets the title bar icon glyph
func WithIcon(icon string) Option {
	return func(s *settings) { s.icon = icon }
}

// WithAppID tags the window with the registered app that opened it
func WithAppID(appID string) Option {
	return func(s *settings) { s.appID = appID }
}

// WithPosition places the window explicitly instead of staggering it
func WithPosition(x, y float64) Option {
	return func(s *settings) { s.x, s.y = &x, &y }
}

// WithSize sets the initial size
func WithSize(width, height float64) Option {
	return func(s *settings) { s.width, s.height = width, height }
}

// WithMinSize sets the minimum size
func WithMinSize(width, height float64) Option {
	return func(s *settings) { s.minWidth, s.minHeight = width, height }
}

// WithDefaults replaces StandardDefaults for this window
func WithDefaults(d Defaults) Option {
	return func(s *settings) { s.defaults = d }
}

// readSettings collects data attributes, then applies options on top
func readSettings(el *dom.Element, opts []Option) settings {
	s := settings{
		id:        el.ID(),
		title:     el.Data("title"),
		icon:      el.Data("icon"),
		appID:     el.Data("app-id"),
		width:     dataFloat(el, "width"),
		height:    dataFloat(el, "height"),
		minWidth:  dataFloat(el, "min-width"),
		minHeight: dataFloat(el, "min-height"),
		defaults:  StandardDefaults,
	}
	if _, ok := el.Attr("data-x"); ok {
		x := dataFloat(el, "x")
		s.x = &x
	}
	if _, ok := el.Attr("data-y"); ok {
		y := dataFloat(el, "y")
		s.y = &y
	}

	for _, opt := range opts {
		opt(&s)
	}

	if s.title == "" {
		s.title = "Window"
	}
	if s.icon == "" {
		s.icon = "🗔"
	}
	if s.minWidth <= 0 {
		s.minWidth = s.defaults.MinWidth
	}
	if s.minHeight <= 0 {
		s.minHeight = s.defaults.MinHeight
	}
	if s.width <= 0 {
		s.width = s.defaults.Width
	}
	if s.height <= 0 {
		s.height = s.defaults.Height
	}
	s.width = max(s.width, s.minWidth)
	s.height = max(s.height, s.minHeight)
	return s
}

// dataFloat parses a numeric data attribute, returning 0 when absent or
// malformed
func dataFloat(el *dom.Element, key string) float64 {
	v, err := strconv.ParseFloat(el.Data(key), 64)
	if err != nil {
		return 0
	}
	return v
}
