package types

// TrackSize represents a grid track dimension (column or row)
// Supports: "1fr", "2fr", "300px"
type TrackSize struct {
	Type  TrackType // Type of track sizing
	Value float64   // Primary value (for fr/px)
}

// TrackType categorizes track sizing methods
type TrackType string

const (
	TrackFr TrackType = "fr" // Fractional unit
	TrackPx TrackType = "px" // Fixed pixels
)

// Fr returns n equal fractional tracks
func Fr(n int) []TrackSize {
	tracks := make([]TrackSize, n)
	for i := range tracks {
		tracks[i] = TrackSize{Type: TrackFr, Value: 1}
	}
	return tracks
}

// Cell is a grid area spanning 1-indexed, end-exclusive tracks
type Cell struct {
	ID          string
	ColumnStart int
	ColumnEnd   int
	RowStart    int
	RowEnd      int
}

// Grid is a set of tracks and the cells laid out on them
type Grid struct {
	Columns []TrackSize
	Rows    []TrackSize
	Cells   []Cell
}

// CalculatedGrid contains all computed bounds for a grid
type CalculatedGrid struct {
	Area        Rect            // Bounds used for calculation
	Gap         float64         // Gap between cells in pixels
	ColumnSizes []float64       // Calculated column widths
	RowSizes    []float64       // Calculated row heights
	CellBounds  map[string]Rect // cellID -> calculated bounds
}
