package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/yourusername/webdesk/internal/types"
)

var (
	frPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*fr$`)
	pxPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*px$`)
)

// ParseTrackSize parses a track size string into a TrackSize struct
// Supported formats:
//   - "1fr", "2fr", "1.5fr" - Fractional units
//   - "300px", "100.5px" - Fixed pixels
func ParseTrackSize(s string) (types.TrackSize, error) {
	s = strings.TrimSpace(s)

	if matches := frPattern.FindStringSubmatch(s); matches != nil {
		value, _ := strconv.ParseFloat(matches[1], 64)
		return types.TrackSize{Type: types.TrackFr, Value: value}, nil
	}

	if matches := pxPattern.FindStringSubmatch(s); matches != nil {
		value, _ := strconv.ParseFloat(matches[1], 64)
		return types.TrackSize{Type: types.TrackPx, Value: value}, nil
	}

	return types.TrackSize{}, fmt.Errorf("invalid track size format: %s", s)
}

// AreasToCell converts an areas grid to cell definitions
// Areas format:
//
//	areas:
//	  - [editor, editor, term]
//	  - [editor, editor, term]
//	  - [notes, notes, notes]
//
// This creates cells: editor (columns 1-2, rows 1-2), term (column 3,
// rows 1-2), notes (columns 1-3, row 3). "." marks an empty slot.
func AreasToCell(areas [][]string) []types.Cell {
	if len(areas) == 0 {
		return nil
	}

	cellMap := make(map[string]*types.Cell)
	var order []string

	for rowIdx, row := range areas {
		for colIdx, cellID := range row {
			if cellID == "." || cellID == "" {
				continue
			}
			col, rowNum := colIdx+1, rowIdx+1

			existing, ok := cellMap[cellID]
			if !ok {
				cellMap[cellID] = &types.Cell{
					ID:          cellID,
					ColumnStart: col,
					ColumnEnd:   col + 1,
					RowStart:    rowNum,
					RowEnd:      rowNum + 1,
				}
				order = append(order, cellID)
				continue
			}
			existing.ColumnStart = min(existing.ColumnStart, col)
			existing.ColumnEnd = max(existing.ColumnEnd, col+1)
			existing.RowStart = min(existing.RowStart, rowNum)
			existing.RowEnd = max(existing.RowEnd, rowNum+1)
		}
	}

	cells := make([]types.Cell, 0, len(order))
	for _, id := range order {
		cells = append(cells, *cellMap[id])
	}
	return cells
}

// FormatTrackSize converts a TrackSize back to string representation
func FormatTrackSize(ts types.TrackSize) string {
	var unit string
	switch ts.Type {
	case types.TrackFr:
		unit = "fr"
	case types.TrackPx:
		unit = "px"
	default:
		return ""
	}
	if ts.Value == float64(int(ts.Value)) {
		return fmt.Sprintf("%d%s", int(ts.Value), unit)
	}
	return fmt.Sprintf("%.2f%s", ts.Value, unit)
}
