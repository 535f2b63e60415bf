package layout

import (
	"sort"

	"github.com/yourusername/webdesk/internal/types"
)

// CalculateCellBounds computes the pixel rect for a cell.
//
// Parameters:
//   - cell: Cell definition with column/row spans (1-indexed, exclusive end)
//   - colPositions: Starting X position for each column (len = columns + 1)
//   - rowPositions: Starting Y position for each row (len = rows + 1)
//   - colSizes: Width of each column
//   - rowSizes: Height of each row
//   - gap: Gap between cells
//
// Returns: Rect with cell's position and size, or a zero Rect when the
// span is out of range
func CalculateCellBounds(
	cell types.Cell,
	colPositions, rowPositions []float64,
	colSizes, rowSizes []float64,
	gap float64,
) types.Rect {
	colStart, colEnd := cell.ColumnStart-1, cell.ColumnEnd-1
	rowStart, rowEnd := cell.RowStart-1, cell.RowEnd-1

	if colStart < 0 || colEnd > len(colSizes) || colStart >= colEnd {
		return types.Rect{}
	}
	if rowStart < 0 || rowEnd > len(rowSizes) || rowStart >= rowEnd {
		return types.Rect{}
	}

	return types.Rect{
		X:      colPositions[colStart],
		Y:      rowPositions[rowStart],
		Width:  spanSize(colSizes[colStart:colEnd], gap),
		Height: spanSize(rowSizes[rowStart:rowEnd], gap),
	}
}

func spanSize(sizes []float64, gap float64) float64 {
	var total float64
	for i, s := range sizes {
		total += s
		if i < len(sizes)-1 {
			total += gap
		}
	}
	return total
}

// CellAt finds which cell contains the given point.
// Returns cell ID or empty string if no cell contains the point.
func CellAt(cellBounds map[string]types.Rect, point types.Point) string {
	for _, id := range SortCellsByPosition(cellBounds) {
		if cellBounds[id].Contains(point) {
			return id
		}
	}
	return ""
}

// SortCellsByPosition returns cell IDs sorted by visual position.
// Sort order: top-to-bottom, then left-to-right within each row.
func SortCellsByPosition(cellBounds map[string]types.Rect) []string {
	ids := make([]string, 0, len(cellBounds))
	for id := range cellBounds {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		a, b := cellBounds[ids[i]], cellBounds[ids[j]]
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return ids[i] < ids[j]
	})

	return ids
}
