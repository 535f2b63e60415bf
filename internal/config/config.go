package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/webdesk/internal/types"
	"github.com/yourusername/webdesk/internal/window"
)

const (
	DefaultConfigDir  = ".config/webdesk"
	DefaultConfigFile = "config.yaml"
)

// ErrNoConfig is returned by LoadConfig when no file exists at the default location
var ErrNoConfig = errors.New("no config file found")

// Default returns the built-in configuration
func Default() *Config {
	d := window.StandardDefaults
	return &Config{
		Settings: Settings{
			Viewport:      ViewportConfig{Width: 1280, Height: 800},
			TaskbarHeight: 48,
			Padding:       10,
			ArrangeMode:   string(types.ArrangeNone),
			Window: WindowConfig{
				Width:        d.Width,
				Height:       d.Height,
				MinWidth:     d.MinWidth,
				MinHeight:    d.MinHeight,
				Stagger:      d.Stagger,
				StaggerBase:  d.StaggerBase,
				CloseDelayMs: int(d.CloseDelay / time.Millisecond),
			},
			AutosaveInterval: 30,
			RestoreSession:   true,
		},
	}
}

// LoadConfig loads configuration from the specified path or default location
// If path is empty, uses ~/.config/webdesk/config.yaml, then config.json
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		yamlPath := filepath.Join(home, DefaultConfigDir, "config.yaml")
		jsonPath := filepath.Join(home, DefaultConfigDir, "config.json")

		if _, err := os.Stat(yamlPath); err == nil {
			path = yamlPath
		} else if _, err := os.Stat(jsonPath); err == nil {
			path = jsonPath
		} else {
			return nil, fmt.Errorf("%w at %s or %s", ErrNoConfig, yamlPath, jsonPath)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext != "yaml" && ext != "yml" && ext != "json" {
		return nil, fmt.Errorf("unsupported config format: .%s", ext)
	}
	return LoadConfigFromBytes(data, ext)
}

// LoadConfigOrDefault is LoadConfig that falls back to Default when
// the default location holds no file
func LoadConfigOrDefault(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if errors.Is(err, ErrNoConfig) {
		return Default(), nil
	}
	return cfg, err
}

// LoadConfigFromBytes loads configuration from raw bytes on top of Default.
// format should be "yaml" or "json"
func LoadConfigFromBytes(data []byte, format string) (*Config, error) {
	cfg := Default()

	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", format)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Marshal encodes the config as "yaml" or "json"
func (c *Config) Marshal(format string) ([]byte, error) {
	switch format {
	case "yaml", "yml":
		return yaml.Marshal(c)
	case "json":
		return json.MarshalIndent(c, "", "  ")
	default:
		return nil, fmt.Errorf("unsupported config format: %s", format)
	}
}

// Save writes the config to path, choosing the format from its extension
func (c *Config) Save(path string) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	data, err := c.Marshal(format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, DefaultConfigDir, DefaultConfigFile)
}

// WindowDefaults converts the window settings for window.WithDefaults
func (c *Config) WindowDefaults() window.Defaults {
	w := c.Settings.Window
	return window.Defaults{
		Width:          w.Width,
		Height:         w.Height,
		MinWidth:       w.MinWidth,
		MinHeight:      w.MinHeight,
		StaggerBase:    w.StaggerBase,
		Stagger:        w.Stagger,
		TaskbarReserve: c.Settings.TaskbarHeight,
		CloseDelay:     time.Duration(w.CloseDelayMs) * time.Millisecond,
	}
}

// GetArrangeMode returns the configured initial arrangement mode
func (c *Config) GetArrangeMode() types.ArrangeMode {
	mode, _ := types.ParseArrangeMode(c.Settings.ArrangeMode)
	return mode
}

// GetApp returns a registered app by ID
func (c *Config) GetApp(id string) (*AppConfig, bool) {
	for i := range c.Apps {
		if c.Apps[i].ID == id {
			return &c.Apps[i], true
		}
	}
	return nil, false
}

// GetLayout returns a layout by ID, converting from LayoutConfig to types.Grid
func (c *Config) GetLayout(id string) (*types.Grid, error) {
	for _, lc := range c.Layouts {
		if lc.ID == id {
			return lc.ToGrid()
		}
	}
	return nil, fmt.Errorf("layout not found: %s", id)
}

// GetLayoutIDs returns all available layout IDs
func (c *Config) GetLayoutIDs() []string {
	ids := make([]string, len(c.Layouts))
	for i, l := range c.Layouts {
		ids[i] = l.ID
	}
	return ids
}

// ToGrid converts LayoutConfig to types.Grid
func (lc *LayoutConfig) ToGrid() (*types.Grid, error) {
	columns, err := parseTracks(lc.Grid.Columns)
	if err != nil {
		return nil, fmt.Errorf("invalid columns: %w", err)
	}
	rows, err := parseTracks(lc.Grid.Rows)
	if err != nil {
		return nil, fmt.Errorf("invalid rows: %w", err)
	}

	var cells []types.Cell
	if len(lc.Areas) > 0 {
		cells = AreasToCell(lc.Areas)
	} else {
		cells = make([]types.Cell, len(lc.Cells))
		for i, cc := range lc.Cells {
			cell, err := cc.ToCell()
			if err != nil {
				return nil, fmt.Errorf("invalid cell %s: %w", cc.ID, err)
			}
			cells[i] = cell
		}
	}

	return &types.Grid{Columns: columns, Rows: rows, Cells: cells}, nil
}

func parseTracks(specs []string) ([]types.TrackSize, error) {
	tracks := make([]types.TrackSize, len(specs))
	for i, s := range specs {
		ts, err := ParseTrackSize(s)
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", i, err)
		}
		tracks[i] = ts
	}
	return tracks, nil
}

// ToCell converts CellConfig to types.Cell
func (cc *CellConfig) ToCell() (types.Cell, error) {
	colStart, colEnd, err := parseSpan(cc.Column)
	if err != nil {
		return types.Cell{}, fmt.Errorf("invalid column span: %w", err)
	}

	rowStart, rowEnd, err := parseSpan(cc.Row)
	if err != nil {
		return types.Cell{}, fmt.Errorf("invalid row span: %w", err)
	}

	return types.Cell{
		ID:          cc.ID,
		ColumnStart: colStart,
		ColumnEnd:   colEnd,
		RowStart:    rowStart,
		RowEnd:      rowEnd,
	}, nil
}
