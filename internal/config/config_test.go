package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yourusername/webdesk/internal/types"
)

func TestParseTrackSize(t *testing.T) {
	tests := []struct {
		input    string
		expected types.TrackSize
		hasError bool
	}{
		{"1fr", types.TrackSize{Type: types.TrackFr, Value: 1}, false},
		{"2fr", types.TrackSize{Type: types.TrackFr, Value: 2}, false},
		{"2.5fr", types.TrackSize{Type: types.TrackFr, Value: 2.5}, false},
		{"300px", types.TrackSize{Type: types.TrackPx, Value: 300}, false},
		{"100.5px", types.TrackSize{Type: types.TrackPx, Value: 100.5}, false},
		{"  1fr  ", types.TrackSize{Type: types.TrackFr, Value: 1}, false},
		{"auto", types.TrackSize{}, true},
		{"minmax(200px, 1fr)", types.TrackSize{}, true},
		{"", types.TrackSize{}, true},
		{"10", types.TrackSize{}, true},
		{"-1fr", types.TrackSize{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTrackSize(tt.input)
			if tt.hasError {
				if err == nil {
					t.Errorf("ParseTrackSize(%q) expected error, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTrackSize(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseTrackSize(%q) = %+v, want %+v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatTrackSize(t *testing.T) {
	tests := []struct {
		input    types.TrackSize
		expected string
	}{
		{types.TrackSize{Type: types.TrackFr, Value: 1}, "1fr"},
		{types.TrackSize{Type: types.TrackFr, Value: 2.5}, "2.50fr"},
		{types.TrackSize{Type: types.TrackPx, Value: 300}, "300px"},
		{types.TrackSize{Type: types.TrackPx, Value: 100.5}, "100.50px"},
		{types.TrackSize{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := FormatTrackSize(tt.input); got != tt.expected {
				t.Errorf("FormatTrackSize(%+v) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestAreasToCell(t *testing.T) {
	tests := []struct {
		name     string
		areas    [][]string
		expected []types.Cell
	}{
		{
			name:  "side by side",
			areas: [][]string{{"left", "right"}},
			expected: []types.Cell{
				{ID: "left", ColumnStart: 1, ColumnEnd: 2, RowStart: 1, RowEnd: 2},
				{ID: "right", ColumnStart: 2, ColumnEnd: 3, RowStart: 1, RowEnd: 2},
			},
		},
		{
			name: "editor with terminal strip",
			areas: [][]string{
				{"editor", "editor", "term"},
				{"editor", "editor", "term"},
				{"notes", "notes", "notes"},
			},
			expected: []types.Cell{
				{ID: "editor", ColumnStart: 1, ColumnEnd: 3, RowStart: 1, RowEnd: 3},
				{ID: "term", ColumnStart: 3, ColumnEnd: 4, RowStart: 1, RowEnd: 3},
				{ID: "notes", ColumnStart: 1, ColumnEnd: 4, RowStart: 3, RowEnd: 4},
			},
		},
		{
			name:  "empty slots skipped",
			areas: [][]string{{".", "main"}},
			expected: []types.Cell{
				{ID: "main", ColumnStart: 2, ColumnEnd: 3, RowStart: 1, RowEnd: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AreasToCell(tt.areas)
			if len(got) != len(tt.expected) {
				t.Fatalf("AreasToCell() returned %d cells, want %d", len(got), len(tt.expected))
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("cell %d = %+v, want %+v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
	if cfg.GetArrangeMode() != types.ArrangeNone {
		t.Errorf("GetArrangeMode() = %q, want none", cfg.GetArrangeMode())
	}

	d := cfg.WindowDefaults()
	if d.Width != 600 || d.Height != 400 || d.MinWidth != 300 || d.MinHeight != 200 {
		t.Errorf("WindowDefaults() sizes = %+v", d)
	}
	if d.CloseDelay != 150*time.Millisecond {
		t.Errorf("CloseDelay = %v, want 150ms", d.CloseDelay)
	}
	if d.TaskbarReserve != 48 {
		t.Errorf("TaskbarReserve = %v, want 48", d.TaskbarReserve)
	}
}

func TestLoadConfigFromBytes_YAML(t *testing.T) {
	yamlConfig := `
settings:
  padding: 12
  arrangeMode: tile
  window:
    width: 640
    height: 480

apps:
  - id: notes
    title: Notes
    icon: "📝"
    content: "hello"
    singleton: true
  - id: docs
    title: Docs
    url: https://example.com

layouts:
  - id: two-column
    name: Two Column
    grid:
      columns: ["1fr", "1fr"]
      rows: ["1fr"]
    areas:
      - [left, right]
`
	cfg, err := LoadConfigFromBytes([]byte(yamlConfig), "yaml")
	if err != nil {
		t.Fatalf("LoadConfigFromBytes() error: %v", err)
	}

	if cfg.Settings.Padding != 12 {
		t.Errorf("Settings.Padding = %v, want 12", cfg.Settings.Padding)
	}
	if cfg.GetArrangeMode() != types.ArrangeTile {
		t.Errorf("GetArrangeMode() = %q, want tile", cfg.GetArrangeMode())
	}
	// unset fields keep their defaults
	if cfg.Settings.Window.MinWidth != 300 {
		t.Errorf("Window.MinWidth = %v, want default 300", cfg.Settings.Window.MinWidth)
	}
	if cfg.Settings.Viewport.Width != 1280 {
		t.Errorf("Viewport.Width = %v, want default 1280", cfg.Settings.Viewport.Width)
	}
	if cfg.Settings.Window.Width != 640 {
		t.Errorf("Window.Width = %v, want 640", cfg.Settings.Window.Width)
	}

	app, ok := cfg.GetApp("notes")
	if !ok || !app.Singleton || app.Content != "hello" {
		t.Errorf("GetApp(notes) = %+v, %v", app, ok)
	}
	if _, ok := cfg.GetApp("missing"); ok {
		t.Error("GetApp(missing) should not be found")
	}
}

func TestLoadConfigFromBytes_JSON(t *testing.T) {
	jsonConfig := `{
  "settings": {"taskbarHeight": 40, "viewport": {"width": 1024, "height": 768}},
  "apps": [{"id": "calc", "title": "Calculator", "width": 320, "height": 480}]
}`
	cfg, err := LoadConfigFromBytes([]byte(jsonConfig), "json")
	if err != nil {
		t.Fatalf("LoadConfigFromBytes() error: %v", err)
	}
	if cfg.Settings.TaskbarHeight != 40 {
		t.Errorf("TaskbarHeight = %v, want 40", cfg.Settings.TaskbarHeight)
	}
	if cfg.WindowDefaults().TaskbarReserve != 40 {
		t.Errorf("TaskbarReserve = %v, want 40", cfg.WindowDefaults().TaskbarReserve)
	}
	if len(cfg.Apps) != 1 || cfg.Apps[0].Width != 320 {
		t.Errorf("Apps = %+v", cfg.Apps)
	}
}

func TestLoadConfigFromBytes_UnsupportedFormat(t *testing.T) {
	if _, err := LoadConfigFromBytes([]byte("x"), "toml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "app missing id",
			yaml:    "apps:\n  - title: x\n",
			wantErr: "missing ID",
		},
		{
			name:    "duplicate app id",
			yaml:    "apps:\n  - id: a\n  - id: a\n",
			wantErr: "duplicate app ID",
		},
		{
			name:    "url and content",
			yaml:    "apps:\n  - id: a\n    url: http://x\n    content: y\n",
			wantErr: "mutually exclusive",
		},
		{
			name:    "negative app size",
			yaml:    "apps:\n  - id: a\n    width: -1\n",
			wantErr: "negative",
		},
		{
			name:    "bad arrange mode",
			yaml:    "settings:\n  arrangeMode: spiral\n",
			wantErr: "invalid arrange mode",
		},
		{
			name:    "zero viewport",
			yaml:    "settings:\n  viewport: {width: 0, height: 800}\n",
			wantErr: "viewport",
		},
		{
			name:    "taskbar taller than viewport",
			yaml:    "settings:\n  taskbarHeight: 900\n",
			wantErr: "taskbar height",
		},
		{
			name:    "window below minimum",
			yaml:    "settings:\n  window: {width: 100}\n",
			wantErr: "below the minimum",
		},
		{
			name: "duplicate layout id",
			yaml: `layouts:
  - {id: a, grid: {columns: ["1fr"], rows: ["1fr"]}, areas: [[main]]}
  - {id: a, grid: {columns: ["1fr"], rows: ["1fr"]}, areas: [[main]]}
`,
			wantErr: "duplicate layout ID",
		},
		{
			name:    "layout without cells or areas",
			yaml:    "layouts:\n  - {id: a, grid: {columns: [\"1fr\"], rows: [\"1fr\"]}}\n",
			wantErr: "either 'cells' or 'areas'",
		},
		{
			name: "non rectangular area",
			yaml: `layouts:
  - id: a
    grid: {columns: ["1fr", "1fr"], rows: ["1fr", "1fr"]}
    areas:
      - [main, main]
      - [main, side]
`,
			wantErr: "does not form a rectangle",
		},
		{
			name:    "invalid track size",
			yaml:    "layouts:\n  - {id: a, grid: {columns: [\"auto\"], rows: [\"1fr\"]}, areas: [[m]]}\n",
			wantErr: "invalid track size",
		},
		{
			name: "cell out of bounds",
			yaml: `layouts:
  - id: a
    grid: {columns: ["1fr"], rows: ["1fr"]}
    cells:
      - {id: m, column: "1/3", row: "1/2"}
`,
			wantErr: "out of bounds",
		},
		{
			name: "areas dimension mismatch",
			yaml: `layouts:
  - id: a
    grid: {columns: ["1fr", "1fr"], rows: ["1fr"]}
    areas:
      - [m]
`,
			wantErr: "grid defines 2 columns",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfigFromBytes([]byte(tt.yaml), "yaml")
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestGetLayout(t *testing.T) {
	cfg := Default()
	cfg.Layouts = []LayoutConfig{
		{
			ID:   "split",
			Name: "Split",
			Grid: GridConfig{Columns: []string{"2fr", "300px"}, Rows: []string{"1fr"}},
			Cells: []CellConfig{
				{ID: "main", Column: "1/2", Row: "1/2"},
				{ID: "side", Column: "2/3", Row: "1/2"},
			},
		},
	}

	grid, err := cfg.GetLayout("split")
	if err != nil {
		t.Fatalf("GetLayout() error: %v", err)
	}
	if len(grid.Columns) != 2 || grid.Columns[1] != (types.TrackSize{Type: types.TrackPx, Value: 300}) {
		t.Errorf("Columns = %+v", grid.Columns)
	}
	if len(grid.Cells) != 2 || grid.Cells[1].ColumnStart != 2 {
		t.Errorf("Cells = %+v", grid.Cells)
	}

	if _, err := cfg.GetLayout("missing"); err == nil {
		t.Error("GetLayout(missing) expected error")
	}
	if ids := cfg.GetLayoutIDs(); len(ids) != 1 || ids[0] != "split" {
		t.Errorf("GetLayoutIDs() = %v", ids)
	}
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()

	cfg := Default()
	cfg.Apps = []AppConfig{{ID: "notes", Title: "Notes", Content: "hi"}}

	for _, name := range []string{"config.yaml", "config.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, "nested", name)
			if err := cfg.Save(path); err != nil {
				t.Fatalf("Save() error: %v", err)
			}
			loaded, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig() error: %v", err)
			}
			if len(loaded.Apps) != 1 || loaded.Apps[0].ID != "notes" {
				t.Errorf("Apps = %+v", loaded.Apps)
			}
		})
	}

	bad := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(bad, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(bad); err == nil {
		t.Error("expected error for .toml")
	}
}

func TestLoadConfig_NoDefaultFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := LoadConfig("")
	if !errors.Is(err, ErrNoConfig) {
		t.Fatalf("LoadConfig(\"\") error = %v, want ErrNoConfig", err)
	}

	cfg, err := LoadConfigOrDefault("")
	if err != nil {
		t.Fatalf("LoadConfigOrDefault() error: %v", err)
	}
	if cfg.Settings.TaskbarHeight != 48 {
		t.Errorf("TaskbarHeight = %v, want default 48", cfg.Settings.TaskbarHeight)
	}
}
