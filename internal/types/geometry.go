package types

// Rect represents pixel bounds relative to a positioning container
type Rect struct {
	X      float64 `json:"x" yaml:"x"`           // Left edge
	Y      float64 `json:"y" yaml:"y"`           // Top edge
	Width  float64 `json:"width" yaml:"width"`   // Width in pixels
	Height float64 `json:"height" yaml:"height"` // Height in pixels
}

// Point represents a 2D coordinate
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a minimum width/height pair
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Right returns the trailing horizontal edge
func (r Rect) Right() float64 {
	return r.X + r.Width
}

// Bottom returns the trailing vertical edge
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// Center returns the center point of a Rect
func (r Rect) Center() Point {
	return Point{
		X: r.X + r.Width/2,
		Y: r.Y + r.Height/2,
	}
}

// Contains checks if a point is inside the rect
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Overlap returns the area of intersection between two Rects
func (r Rect) Overlap(other Rect) float64 {
	left := max(r.X, other.X)
	right := min(r.X+r.Width, other.X+other.Width)
	top := max(r.Y, other.Y)
	bottom := min(r.Y+r.Height, other.Y+other.Height)

	if left >= right || top >= bottom {
		return 0
	}
	return (right - left) * (bottom - top)
}

// Inset shrinks the rect by d on every side. Negative sizes collapse to 0.
func (r Rect) Inset(d float64) Rect {
	out := Rect{X: r.X + d, Y: r.Y + d, Width: r.Width - 2*d, Height: r.Height - 2*d}
	if out.Width < 0 {
		out.Width = 0
	}
	if out.Height < 0 {
		out.Height = 0
	}
	return out
}

// Clamp limits v to [lo, hi]. When hi < lo the lower bound wins.
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
