package output

import (
	"strings"
)

// BoxStyle defines the character set for drawing boxes
type BoxStyle struct {
	TopLeft     rune
	TopRight    rune
	BottomLeft  rune
	BottomRight rune
	Horizontal  rune
	Vertical    rune
}

var (
	// ASCIIStyle uses simple ASCII characters for box drawing
	ASCIIStyle = BoxStyle{
		TopLeft:     '+',
		TopRight:    '+',
		BottomLeft:  '+',
		BottomRight: '+',
		Horizontal:  '-',
		Vertical:    '|',
	}

	// ASCIIFocusStyle marks the focused window in ASCII mode
	ASCIIFocusStyle = BoxStyle{
		TopLeft:     '#',
		TopRight:    '#',
		BottomLeft:  '#',
		BottomRight: '#',
		Horizontal:  '=',
		Vertical:    '#',
	}

	// UnicodeStyle uses Unicode box drawing characters
	UnicodeStyle = BoxStyle{
		TopLeft:     '┌',
		TopRight:    '┐',
		BottomLeft:  '└',
		BottomRight: '┘',
		Horizontal:  '─',
		Vertical:    '│',
	}

	// UnicodeFocusStyle uses heavy lines for the focused window
	UnicodeFocusStyle = BoxStyle{
		TopLeft:     '┏',
		TopRight:    '┓',
		BottomLeft:  '┗',
		BottomRight: '┛',
		Horizontal:  '━',
		Vertical:    '┃',
	}
)

// Canvas is a 2D character buffer. Later draws overwrite earlier ones, so
// windows are painted bottom to top.
type Canvas struct {
	Width  int
	Height int
	buffer [][]rune
	style  BoxStyle
	focus  BoxStyle
}

// NewCanvas creates a new canvas with the specified dimensions
func NewCanvas(width, height int, useUnicode bool) *Canvas {
	buffer := make([][]rune, height)
	for i := range buffer {
		buffer[i] = make([]rune, width)
	}

	c := &Canvas{
		Width:  width,
		Height: height,
		buffer: buffer,
		style:  ASCIIStyle,
		focus:  ASCIIFocusStyle,
	}
	if useUnicode {
		c.style, c.focus = UnicodeStyle, UnicodeFocusStyle
	}
	c.Clear()
	return c
}

// Clear resets the canvas to empty spaces
func (c *Canvas) Clear() {
	c.FillRect(0, 0, c.Width, c.Height, ' ')
}

// SetCell sets a character at the specified position
func (c *Canvas) SetCell(x, y int, r rune) {
	if x >= 0 && x < c.Width && y >= 0 && y < c.Height {
		c.buffer[y][x] = r
	}
}

// GetCell returns the character at the specified position
func (c *Canvas) GetCell(x, y int) rune {
	if x >= 0 && x < c.Width && y >= 0 && y < c.Height {
		return c.buffer[y][x]
	}
	return ' '
}

// DrawBox draws a box in the normal style
func (c *Canvas) DrawBox(x, y, width, height int) {
	c.drawBox(x, y, width, height, c.style)
}

// DrawFocusBox draws a box in the focus style
func (c *Canvas) DrawFocusBox(x, y, width, height int) {
	c.drawBox(x, y, width, height, c.focus)
}

func (c *Canvas) drawBox(x, y, width, height int, s BoxStyle) {
	if width < 2 || height < 2 {
		return
	}

	c.SetCell(x, y, s.TopLeft)
	c.SetCell(x+width-1, y, s.TopRight)
	c.SetCell(x, y+height-1, s.BottomLeft)
	c.SetCell(x+width-1, y+height-1, s.BottomRight)

	for i := 1; i < width-1; i++ {
		c.SetCell(x+i, y, s.Horizontal)
		c.SetCell(x+i, y+height-1, s.Horizontal)
	}
	for i := 1; i < height-1; i++ {
		c.SetCell(x, y+i, s.Vertical)
		c.SetCell(x+width-1, y+i, s.Vertical)
	}
}

// DrawHLine draws a horizontal rule across width cells
func (c *Canvas) DrawHLine(x, y, width int) {
	for i := 0; i < width; i++ {
		c.SetCell(x+i, y, c.style.Horizontal)
	}
}

// DrawText writes text at the specified position
func (c *Canvas) DrawText(x, y int, text string) {
	i := 0
	for _, r := range text {
		c.SetCell(x+i, y, r)
		i++
	}
}

// DrawTextCentered writes text centered within a width
func (c *Canvas) DrawTextCentered(x, y, width int, text string) {
	runes := []rune(text)
	if len(runes) >= width {
		c.DrawText(x, y, string(runes[:max(width, 0)]))
		return
	}
	c.DrawText(x+(width-len(runes))/2, y, text)
}

// FillRect fills a rectangle with a character
func (c *Canvas) FillRect(x, y, width, height int, r rune) {
	for dy := 0; dy < height; dy++ {
		for dx := 0; dx < width; dx++ {
			c.SetCell(x+dx, y+dy, r)
		}
	}
}

// String renders the canvas with trailing spaces trimmed from each row
func (c *Canvas) String() string {
	var sb strings.Builder
	for i, row := range c.buffer {
		sb.WriteString(strings.TrimRight(string(row), " "))
		if i < len(c.buffer)-1 {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}
