package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/yourusername/webdesk/internal/models"
	"golang.org/x/sys/unix"
)

// VisualizationOptions controls the appearance of the visualization
type VisualizationOptions struct {
	UseUnicode bool
	ShowIDs    bool
	MaxWidth   int
	MaxHeight  int
}

// DefaultVisualizationOptions sizes the drawing to the terminal
func DefaultVisualizationOptions() VisualizationOptions {
	width, height := getTerminalSize()
	return VisualizationOptions{
		UseUnicode: supportsUnicode(),
		ShowIDs:    false,
		MaxWidth:   width,
		MaxHeight:  height - 4,
	}
}

// VisualizeDesktop draws the desktop, its visible windows bottom to top
// and the taskbar strip along the bottom edge
func VisualizeDesktop(state *models.State, opts VisualizationOptions) string {
	sc := NewScalingContext(state.Viewport, opts.MaxWidth, opts.MaxHeight)
	canvas := NewCanvas(sc.TermWidth, sc.TermHeight, opts.UseUnicode)
	canvas.DrawBox(0, 0, sc.TermWidth, sc.TermHeight)

	for _, win := range state.StackOrder() {
		if win.IsMinimized() {
			continue
		}

		x, y := sc.PixelToTerminal(win.Frame.X, win.Frame.Y)
		w, h := sc.ScaleSize(win.Frame.Width, win.Frame.Height)
		x, y, w, h = sc.ClampToCanvas(x, y, w, h)
		if w < 3 || h < 2 {
			continue
		}

		canvas.FillRect(x, y, w, h, ' ')
		if win.Focused {
			canvas.DrawFocusBox(x, y, w, h)
		} else {
			canvas.DrawBox(x, y, w, h)
		}
		if h >= 3 {
			canvas.DrawText(x+1, y+1, truncate(windowLabel(win, opts.ShowIDs), w-2))
		}
	}

	if state.TaskbarHeight > 0 {
		_, top := sc.PixelToTerminal(0, state.Viewport.Height-state.TaskbarHeight)
		top = min(top, sc.TermHeight-3)
		canvas.FillRect(1, top, sc.TermWidth-2, sc.TermHeight-1-top, ' ')
		canvas.DrawHLine(1, top, sc.TermWidth-2)
		canvas.DrawText(2, top+1, truncate(taskbarLine(state.Windows), sc.TermWidth-4))
	}

	return canvas.String()
}

// Summary is the header line printed above a visualization
func Summary(state *models.State) string {
	counts := state.CountByMode()
	focused := state.Focused
	if focused == "" {
		focused = "none"
	}
	return fmt.Sprintf("Desktop %.0fx%.0f | arrange: %s | %d windows (%d minimized, %d maximized) | focus: %s",
		state.Viewport.Width, state.Viewport.Height, state.ArrangeMode,
		len(state.Windows), counts["minimized"], counts["maximized"], focused)
}

func windowLabel(win *models.Window, showID bool) string {
	label := fmt.Sprintf("%s (%.0fx%.0f)", win.Title, win.Frame.Width, win.Frame.Height)
	if win.IsMaximized() {
		label += " max"
	}
	if showID {
		label = "[" + win.ID + "] " + label
	}
	return label
}

// getTerminalSize returns the current terminal dimensions
func getTerminalSize() (width, height int) {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 {
		return 80, 24
	}
	return int(ws.Col), int(ws.Row)
}

// supportsUnicode checks if the terminal supports Unicode
func supportsUnicode() bool {
	lang := os.Getenv("LANG")
	lcAll := os.Getenv("LC_ALL")

	return strings.Contains(lang, "UTF-8") || strings.Contains(lcAll, "UTF-8")
}

// PrintVisualization writes the summary and drawing to w
func PrintVisualization(w io.Writer, state *models.State, opts VisualizationOptions) {
	header := color.New(color.FgYellow, color.Bold)
	body := color.New(color.FgCyan)

	header.Fprintln(w, Summary(state))
	body.Fprintln(w, VisualizeDesktop(state, opts))
}
