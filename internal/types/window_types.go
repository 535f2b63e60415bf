package types

import "strings"

// Mode is the display mode of a window. Exactly one holds at any time.
type Mode int

const (
	ModeNormal Mode = iota
	ModeMinimized
	ModeMaximized
)

// String returns the string representation of a Mode
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeMinimized:
		return "minimized"
	case ModeMaximized:
		return "maximized"
	default:
		return "unknown"
	}
}

// ParseMode converts a string to Mode
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "normal", "":
		return ModeNormal, true
	case "minimized":
		return ModeMinimized, true
	case "maximized":
		return ModeMaximized, true
	default:
		return ModeNormal, false
	}
}

// Handle identifies a resize affordance: one of the four edges or corners.
type Handle string

const (
	HandleN  Handle = "n"
	HandleS  Handle = "s"
	HandleE  Handle = "e"
	HandleW  Handle = "w"
	HandleNE Handle = "ne"
	HandleNW Handle = "nw"
	HandleSE Handle = "se"
	HandleSW Handle = "sw"
)

// Handles lists every resize handle in creation order
var Handles = []Handle{HandleN, HandleS, HandleE, HandleW, HandleNE, HandleNW, HandleSE, HandleSW}

// North reports whether the handle moves the top edge
func (h Handle) North() bool { return strings.Contains(string(h), "n") }

// South reports whether the handle moves the bottom edge
func (h Handle) South() bool { return strings.Contains(string(h), "s") }

// East reports whether the handle moves the right edge
func (h Handle) East() bool { return strings.Contains(string(h), "e") }

// West reports whether the handle moves the left edge
func (h Handle) West() bool { return strings.Contains(string(h), "w") }

// ParseHandle validates a handle name
func ParseHandle(s string) (Handle, bool) {
	for _, h := range Handles {
		if string(h) == s {
			return h, true
		}
	}
	return "", false
}

// ArrangeMode is the taskbar's persistent bulk-arrangement mode
type ArrangeMode string

const (
	ArrangeNone    ArrangeMode = "none"
	ArrangeCascade ArrangeMode = "cascade"
	ArrangeTile    ArrangeMode = "tile"
)

// ParseArrangeMode converts a string to ArrangeMode
func ParseArrangeMode(s string) (ArrangeMode, bool) {
	switch ArrangeMode(s) {
	case ArrangeNone, ArrangeCascade, ArrangeTile:
		return ArrangeMode(s), true
	case "":
		return ArrangeNone, true
	default:
		return ArrangeNone, false
	}
}
