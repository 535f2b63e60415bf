package config

import (
	"fmt"
	"strings"

	"github.com/yourusername/webdesk/internal/types"
)

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	appIDs := make(map[string]bool)
	for i, app := range c.Apps {
		if app.ID == "" {
			return fmt.Errorf("app %d: missing ID", i)
		}
		if appIDs[app.ID] {
			return fmt.Errorf("duplicate app ID: %s", app.ID)
		}
		appIDs[app.ID] = true

		if err := validateApp(&app); err != nil {
			return fmt.Errorf("app %s: %w", app.ID, err)
		}
	}

	layoutIDs := make(map[string]bool)
	for i, layout := range c.Layouts {
		if layout.ID == "" {
			return fmt.Errorf("layout %d: missing ID", i)
		}
		if layoutIDs[layout.ID] {
			return fmt.Errorf("duplicate layout ID: %s", layout.ID)
		}
		layoutIDs[layout.ID] = true

		if err := validateLayout(&layout); err != nil {
			return fmt.Errorf("layout %s: %w", layout.ID, err)
		}
	}

	if err := validateSettings(&c.Settings); err != nil {
		return fmt.Errorf("settings: %w", err)
	}

	return nil
}

func validateApp(app *AppConfig) error {
	if app.URL != "" && app.Content != "" {
		return fmt.Errorf("url and content are mutually exclusive")
	}
	if app.Width < 0 || app.Height < 0 {
		return fmt.Errorf("size cannot be negative")
	}
	return nil
}

func validateLayout(layout *LayoutConfig) error {
	if len(layout.Grid.Columns) == 0 {
		return fmt.Errorf("missing columns definition")
	}
	if len(layout.Grid.Rows) == 0 {
		return fmt.Errorf("missing rows definition")
	}

	for i, col := range layout.Grid.Columns {
		if _, err := ParseTrackSize(col); err != nil {
			return fmt.Errorf("column %d: %w", i, err)
		}
	}
	for i, row := range layout.Grid.Rows {
		if _, err := ParseTrackSize(row); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}

	hasCells := len(layout.Cells) > 0
	hasAreas := len(layout.Areas) > 0

	if !hasCells && !hasAreas {
		return fmt.Errorf("must define either 'cells' or 'areas'")
	}

	if hasCells {
		cellIDs := make(map[string]bool)
		for _, cell := range layout.Cells {
			if cell.ID == "" {
				return fmt.Errorf("cell missing ID")
			}
			if cellIDs[cell.ID] {
				return fmt.Errorf("duplicate cell ID: %s", cell.ID)
			}
			cellIDs[cell.ID] = true

			if err := validateCellConfig(&cell, len(layout.Grid.Columns), len(layout.Grid.Rows)); err != nil {
				return fmt.Errorf("cell %s: %w", cell.ID, err)
			}
		}
	}

	if hasAreas {
		if err := validateAreas(layout.Areas, len(layout.Grid.Columns), len(layout.Grid.Rows)); err != nil {
			return fmt.Errorf("areas: %w", err)
		}
	}

	return nil
}

func validateCellConfig(cell *CellConfig, numCols, numRows int) error {
	colStart, colEnd, err := parseSpan(cell.Column)
	if err != nil {
		return fmt.Errorf("invalid column: %w", err)
	}
	rowStart, rowEnd, err := parseSpan(cell.Row)
	if err != nil {
		return fmt.Errorf("invalid row: %w", err)
	}

	// 1-indexed, end exclusive
	if colStart < 1 || colEnd > numCols+1 || colStart >= colEnd {
		return fmt.Errorf("column span %d/%d out of bounds (grid has %d columns)", colStart, colEnd, numCols)
	}
	if rowStart < 1 || rowEnd > numRows+1 || rowStart >= rowEnd {
		return fmt.Errorf("row span %d/%d out of bounds (grid has %d rows)", rowStart, rowEnd, numRows)
	}

	return nil
}

func validateAreas(areas [][]string, numCols, numRows int) error {
	if len(areas) != numRows {
		return fmt.Errorf("areas has %d rows but grid defines %d rows", len(areas), numRows)
	}
	for i, row := range areas {
		if len(row) != numCols {
			return fmt.Errorf("row %d has %d columns but grid defines %d columns", i, len(row), numCols)
		}
	}

	cellMap := make(map[string][][2]int) // cellID -> [row, col] positions
	for rowIdx, row := range areas {
		for colIdx, cellID := range row {
			if cellID == "." || cellID == "" {
				continue
			}
			cellMap[cellID] = append(cellMap[cellID], [2]int{rowIdx, colIdx})
		}
	}

	for cellID, positions := range cellMap {
		if !isRectangular(positions) {
			return fmt.Errorf("cell '%s' does not form a rectangle", cellID)
		}
	}

	return nil
}

func isRectangular(positions [][2]int) bool {
	if len(positions) == 0 {
		return false
	}

	minRow, maxRow := positions[0][0], positions[0][0]
	minCol, maxCol := positions[0][1], positions[0][1]
	for _, pos := range positions {
		minRow = min(minRow, pos[0])
		maxRow = max(maxRow, pos[0])
		minCol = min(minCol, pos[1])
		maxCol = max(maxCol, pos[1])
	}

	return len(positions) == (maxRow-minRow+1)*(maxCol-minCol+1)
}

func validateSettings(s *Settings) error {
	if s.Viewport.Width <= 0 || s.Viewport.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %gx%g", s.Viewport.Width, s.Viewport.Height)
	}
	if s.TaskbarHeight < 0 || s.TaskbarHeight >= s.Viewport.Height {
		return fmt.Errorf("taskbar height %g does not fit the viewport", s.TaskbarHeight)
	}
	if s.Padding < 0 {
		return fmt.Errorf("padding cannot be negative")
	}
	if _, ok := types.ParseArrangeMode(s.ArrangeMode); !ok {
		return fmt.Errorf("invalid arrange mode: %s", s.ArrangeMode)
	}
	w := s.Window
	if w.MinWidth < 0 || w.MinHeight < 0 {
		return fmt.Errorf("window minimum size cannot be negative")
	}
	if w.Width < w.MinWidth || w.Height < w.MinHeight {
		return fmt.Errorf("window size %gx%g is below the minimum %gx%g", w.Width, w.Height, w.MinWidth, w.MinHeight)
	}
	if w.CloseDelayMs < 0 {
		return fmt.Errorf("close delay cannot be negative")
	}
	if s.AutosaveInterval < 0 {
		return fmt.Errorf("autosave interval cannot be negative")
	}
	return nil
}

// parseSpan parses "start/end" format into integers
func parseSpan(s string) (start, end int, err error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected 'start/end' format, got: %s", s)
	}
	_, err = fmt.Sscanf(parts[0], "%d", &start)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start value: %s", parts[0])
	}
	_, err = fmt.Sscanf(parts[1], "%d", &end)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid end value: %s", parts[1])
	}
	return start, end, nil
}
