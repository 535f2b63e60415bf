package layout

import (
	"fmt"
	"math"

	"github.com/yourusername/webdesk/internal/types"
)

// TileGrid returns the rows and columns used to tile n windows: a
// near-square grid with 2 and 3 windows laid out side by side.
func TileGrid(n int) (rows, cols int) {
	switch {
	case n <= 0:
		return 0, 0
	case n == 2:
		return 1, 2
	case n == 3:
		return 1, 3
	}
	cols = int(math.Ceil(math.Sqrt(float64(n))))
	rows = int(math.Ceil(float64(n) / float64(cols)))
	return rows, cols
}

// TileLayout builds an equal-track grid with one cell per window, filled
// row by row. Cell IDs are the window indexes.
func TileLayout(n int) *types.Grid {
	rows, cols := TileGrid(n)
	grid := &types.Grid{
		Columns: types.Fr(cols),
		Rows:    types.Fr(rows),
		Cells:   make([]types.Cell, 0, n),
	}
	for i := 0; i < n; i++ {
		r, c := i/cols, i%cols
		grid.Cells = append(grid.Cells, types.Cell{
			ID:          fmt.Sprint(i),
			ColumnStart: c + 1,
			ColumnEnd:   c + 2,
			RowStart:    r + 1,
			RowEnd:      r + 2,
		})
	}
	return grid
}

// Tile divides area among n windows separated by gap. The result is in
// window order.
func Tile(n int, area types.Rect, gap float64) []types.Rect {
	if n <= 0 {
		return nil
	}
	calc := CalculateGrid(TileLayout(n), area, gap)

	out := make([]types.Rect, n)
	for i := range out {
		out[i] = calc.CellBounds[fmt.Sprint(i)]
	}
	return out
}

// CascadeOptions controls the diagonal stacking layout
type CascadeOptions struct {
	Origin   float64 // Offset of the first window from the area's corner
	Step     float64 // Diagonal offset between consecutive windows
	Fraction float64 // Maximum window size as a fraction of the area
}

// DefaultCascade is the cascade used by the taskbar
var DefaultCascade = CascadeOptions{Origin: 20, Step: 30, Fraction: 0.7}

// Cascade stacks windows of the given sizes diagonally inside area. Sizes
// are capped at opts.Fraction of the area; when the next offset would push
// a window past the area the sequence starts again at the origin.
func Cascade(sizes []types.Size, area types.Rect, opts CascadeOptions) []types.Rect {
	if len(sizes) == 0 {
		return nil
	}
	maxW := area.Width * opts.Fraction
	maxH := area.Height * opts.Fraction

	out := make([]types.Rect, len(sizes))
	k := 0
	for i, s := range sizes {
		w := min(s.Width, maxW)
		h := min(s.Height, maxH)

		off := opts.Origin + float64(k)*opts.Step
		if k > 0 && (off+w > area.Width || off+h > area.Height) {
			k = 0
			off = opts.Origin
		}
		out[i] = types.Rect{X: area.X + off, Y: area.Y + off, Width: w, Height: h}
		k++
	}
	return out
}
