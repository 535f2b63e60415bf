package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/yourusername/webdesk/internal/models"
)

// PrintWindowsTable prints windows in taskbar order
func PrintWindowsTable(w io.Writer, windows []*models.Window) {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Title", "App", "Mode", "Frame", "Z", "Focus")

	for _, win := range windows {
		focus := ""
		if win.Focused {
			focus = "*"
		}
		mode := win.Mode
		if win.Closing {
			mode += " (closing)"
		}

		table.Append(
			win.ID,
			truncate(iconTitle(win.Icon, win.Title), 30),
			orDash(win.AppID),
			mode,
			win.FormatFrame(),
			fmt.Sprintf("%d", win.ZIndex),
			focus,
		)
	}

	table.Render()
}

// PrintApplicationsTable prints the registered apps
func PrintApplicationsTable(w io.Writer, apps []*models.Application) {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Title", "Source", "Size", "Singleton", "Open")

	for _, app := range apps {
		source := "content"
		if app.URL != "" {
			source = truncate(app.URL, 35)
		}
		if app.Placeholder {
			source = "placeholder"
		}
		size := "default"
		if app.Width > 0 && app.Height > 0 {
			size = fmt.Sprintf("%.0fx%.0f", app.Width, app.Height)
		}
		singleton := ""
		if app.Singleton {
			singleton = "yes"
		}

		table.Append(
			app.ID,
			truncate(iconTitle(app.Icon, app.Title), 25),
			source,
			size,
			singleton,
			fmt.Sprintf("%d", app.Open),
		)
	}

	table.Render()
}

// PrintClosedTable prints the reopenable windows, oldest first
func PrintClosedTable(w io.Writer, closed []*models.ClosedWindow) {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Title", "App")

	for _, cw := range closed {
		table.Append(cw.ID, truncate(iconTitle(cw.Icon, cw.Title), 30), orDash(cw.AppID))
	}

	table.Render()
}

// PrintWindowDetail prints detailed information about a single window
func PrintWindowDetail(w io.Writer, win *models.Window) {
	fmt.Fprintf(w, "Window ID: %s\n", win.ID)
	fmt.Fprintf(w, "Title: %s\n", iconTitle(win.Icon, win.Title))
	fmt.Fprintf(w, "App: %s\n", orDash(win.AppID))
	fmt.Fprintf(w, "Mode: %s\n", win.Mode)
	fmt.Fprintf(w, "Frame: %s\n", win.FormatFrame())
	if win.Saved != nil {
		fmt.Fprintf(w, "Restores To: %.0fx%.0f @ (%.0f, %.0f)\n", win.Saved.Width, win.Saved.Height, win.Saved.X, win.Saved.Y)
	}
	fmt.Fprintf(w, "Z-Index: %d\n", win.ZIndex)
	fmt.Fprintf(w, "Focused: %v\n", win.Focused)
}

func iconTitle(icon, title string) string {
	if icon == "" {
		return title
	}
	return icon + " " + title
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:max(maxLen, 0)])
	}
	return string(r[:maxLen-3]) + "..."
}

// taskbarEntry is one button on the rendered taskbar strip
func taskbarEntry(win *models.Window) string {
	switch {
	case win.IsMinimized():
		return "(" + win.Title + ")"
	case win.Focused:
		return "[*" + win.Title + "]"
	default:
		return "[" + win.Title + "]"
	}
}

func taskbarLine(windows []*models.Window) string {
	entries := make([]string, 0, len(windows))
	for _, win := range windows {
		entries = append(entries, taskbarEntry(win))
	}
	return strings.Join(entries, " ")
}
