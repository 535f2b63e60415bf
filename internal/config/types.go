package config

// Config is the root configuration structure
type Config struct {
	Settings Settings       `yaml:"settings" json:"settings"`
	Apps     []AppConfig    `yaml:"apps,omitempty" json:"apps,omitempty"`
	Layouts  []LayoutConfig `yaml:"layouts,omitempty" json:"layouts,omitempty"`
}

// Settings contains global desktop settings
type Settings struct {
	Viewport         ViewportConfig `yaml:"viewport" json:"viewport"`
	TaskbarHeight    float64        `yaml:"taskbarHeight" json:"taskbarHeight"`
	Padding          float64        `yaml:"padding" json:"padding"`
	ArrangeMode      string         `yaml:"arrangeMode,omitempty" json:"arrangeMode,omitempty"`
	Window           WindowConfig   `yaml:"window" json:"window"`
	SocketPath       string         `yaml:"socketPath,omitempty" json:"socketPath,omitempty"`
	StatePath        string         `yaml:"statePath,omitempty" json:"statePath,omitempty"`
	AutosaveInterval int            `yaml:"autosaveInterval" json:"autosaveInterval"` // seconds, 0 disables
	RestoreSession   bool           `yaml:"restoreSession" json:"restoreSession"`
}

// ViewportConfig is the size of the simulated page
type ViewportConfig struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// WindowConfig holds defaults applied to every new window
type WindowConfig struct {
	Width        float64 `yaml:"width" json:"width"`
	Height       float64 `yaml:"height" json:"height"`
	MinWidth     float64 `yaml:"minWidth" json:"minWidth"`
	MinHeight    float64 `yaml:"minHeight" json:"minHeight"`
	Stagger      float64 `yaml:"stagger" json:"stagger"`
	StaggerBase  float64 `yaml:"staggerBase" json:"staggerBase"`
	CloseDelayMs int     `yaml:"closeDelayMs" json:"closeDelayMs"`
}

// AppConfig registers an application with the taskbar
type AppConfig struct {
	ID        string  `yaml:"id" json:"id"`
	Title     string  `yaml:"title" json:"title"`
	Icon      string  `yaml:"icon,omitempty" json:"icon,omitempty"`
	URL       string  `yaml:"url,omitempty" json:"url,omitempty"`
	Content   string  `yaml:"content,omitempty" json:"content,omitempty"`
	Width     float64 `yaml:"width,omitempty" json:"width,omitempty"`
	Height    float64 `yaml:"height,omitempty" json:"height,omitempty"`
	Singleton bool    `yaml:"singleton,omitempty" json:"singleton,omitempty"`
}

// LayoutConfig is a named grid windows can be arranged onto.
// Supports both explicit cells and areas syntax.
type LayoutConfig struct {
	ID          string       `yaml:"id" json:"id"`
	Name        string       `yaml:"name" json:"name"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	Grid        GridConfig   `yaml:"grid" json:"grid"`
	Areas       [][]string   `yaml:"areas,omitempty" json:"areas,omitempty"` // ASCII grid syntax
	Cells       []CellConfig `yaml:"cells,omitempty" json:"cells,omitempty"` // Explicit cell definitions
}

// GridConfig defines the grid structure
type GridConfig struct {
	Columns []string `yaml:"columns" json:"columns"` // Track size strings
	Rows    []string `yaml:"rows" json:"rows"`       // Track size strings
}

// CellConfig is the configuration representation of a cell
type CellConfig struct {
	ID     string `yaml:"id" json:"id"`
	Column string `yaml:"column" json:"column"` // "start/end" format, e.g., "1/3"
	Row    string `yaml:"row" json:"row"`       // "start/end" format, e.g., "1/2"
}
