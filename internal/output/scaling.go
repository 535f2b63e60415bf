package output

import (
	"github.com/yourusername/webdesk/internal/models"
)

// border is the number of terminal cells kept around the desktop outline
const border = 1

// ScalingContext maps desktop pixels onto terminal cells
type ScalingContext struct {
	PixelWidth  float64
	PixelHeight float64

	TermWidth  int
	TermHeight int

	ScaleX float64
	ScaleY float64
}

// NewScalingContext fits a viewport into termWidth x termHeight cells
func NewScalingContext(viewport models.Rect, termWidth, termHeight int) *ScalingContext {
	pw, ph := viewport.Width, viewport.Height
	if pw <= 0 || ph <= 0 {
		pw, ph = 1280, 800
	}

	availWidth := max(termWidth-2*border, 10)
	availHeight := max(termHeight-2*border, 5)

	return &ScalingContext{
		PixelWidth:  pw,
		PixelHeight: ph,
		TermWidth:   availWidth + 2*border,
		TermHeight:  availHeight + 2*border,
		ScaleX:      float64(availWidth) / pw,
		ScaleY:      float64(availHeight) / ph,
	}
}

// PixelToTerminal converts a desktop point to a terminal cell
func (sc *ScalingContext) PixelToTerminal(x, y float64) (int, int) {
	return int(x*sc.ScaleX) + border, int(y*sc.ScaleY) + border
}

// ScaleSize converts pixel dimensions to cells, at least 3x2
func (sc *ScalingContext) ScaleSize(w, h float64) (int, int) {
	return max(int(w*sc.ScaleX), 3), max(int(h*sc.ScaleY), 2)
}

// ClampToCanvas keeps a box inside the desktop outline
func (sc *ScalingContext) ClampToCanvas(x, y, w, h int) (int, int, int, int) {
	if x < border {
		w -= border - x
		x = border
	}
	if y < border {
		h -= border - y
		y = border
	}

	maxX := sc.TermWidth - border
	maxY := sc.TermHeight - border
	if x+w > maxX {
		w = maxX - x
	}
	if y+h > maxY {
		h = maxY - y
	}

	return x, y, w, h
}
