package layout

import (
	"github.com/yourusername/webdesk/internal/types"
)

// CalculateTracks converts track definitions to pixel sizes.
//
// Parameters:
//   - tracks: Track size definitions
//   - available: Total available space in pixels
//   - gap: Gap between tracks in pixels
//
// Returns: Array of pixel sizes for each track
func CalculateTracks(tracks []types.TrackSize, available float64, gap float64) []float64 {
	if len(tracks) == 0 {
		return nil
	}

	available -= gap * float64(len(tracks)-1)

	sizes := make([]float64, len(tracks))
	remaining := available

	// Fixed tracks first, then share what is left among fr tracks
	var totalFr float64
	for i, track := range tracks {
		switch track.Type {
		case types.TrackPx:
			sizes[i] = track.Value
			remaining -= track.Value
		case types.TrackFr:
			totalFr += track.Value
		}
	}

	if totalFr > 0 && remaining > 0 {
		frUnit := remaining / totalFr
		for i, track := range tracks {
			if track.Type == types.TrackFr {
				sizes[i] = frUnit * track.Value
			}
		}
	}

	for i := range sizes {
		if sizes[i] < 0 {
			sizes[i] = 0
		}
	}

	return sizes
}

// CalculateTrackPositions returns the starting position of each track.
// The returned slice has length len(sizes)+1, where positions[i] is the
// start of track i, and positions[len(sizes)] is the end of the last track.
func CalculateTrackPositions(sizes []float64, gap float64) []float64 {
	positions := make([]float64, len(sizes)+1)

	for i, size := range sizes {
		positions[i+1] = positions[i] + size
		if i < len(sizes)-1 {
			positions[i+1] += gap
		}
	}

	return positions
}

// CalculateGrid computes the bounds of every cell of grid inside area.
// This is the main entry point for grid calculation.
func CalculateGrid(grid *types.Grid, area types.Rect, gap float64) *types.CalculatedGrid {
	if grid == nil {
		return nil
	}

	columnSizes := CalculateTracks(grid.Columns, area.Width, gap)
	rowSizes := CalculateTracks(grid.Rows, area.Height, gap)

	colPositions := CalculateTrackPositions(columnSizes, gap)
	rowPositions := CalculateTrackPositions(rowSizes, gap)

	cellBounds := make(map[string]types.Rect, len(grid.Cells))
	for _, cell := range grid.Cells {
		bounds := CalculateCellBounds(cell, colPositions, rowPositions, columnSizes, rowSizes, gap)
		bounds.X += area.X
		bounds.Y += area.Y
		cellBounds[cell.ID] = bounds
	}

	return &types.CalculatedGrid{
		Area:        area,
		Gap:         gap,
		ColumnSizes: columnSizes,
		RowSizes:    rowSizes,
		CellBounds:  cellBounds,
	}
}
