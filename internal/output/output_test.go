package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/yourusername/webdesk/internal/models"
)

func TestCanvasDrawBox(t *testing.T) {
	c := NewCanvas(6, 4, false)
	c.DrawBox(0, 0, 6, 4)
	c.DrawText(1, 1, "ab")

	want := "+----+\n|ab  |\n|    |\n+----+"
	if got := c.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestCanvasFocusBoxAndClipping(t *testing.T) {
	c := NewCanvas(4, 3, true)
	c.DrawFocusBox(0, 0, 4, 3)
	c.SetCell(10, 10, 'x')

	if got := c.GetCell(0, 0); got != '┏' {
		t.Errorf("corner = %q, want ┏", got)
	}
	if got := c.GetCell(10, 10); got != ' ' {
		t.Errorf("out of bounds cell = %q, want space", got)
	}
}

func TestCanvasDrawTextCentered(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"ab", "  ab"},
		{"abcdefgh", "abcdef"},
		{"日本", "  日本"},
	}
	for _, tt := range tests {
		c := NewCanvas(6, 1, false)
		c.DrawTextCentered(0, 0, 6, tt.text)
		if got := c.String(); got != tt.want {
			t.Errorf("DrawTextCentered(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestScalingContext(t *testing.T) {
	sc := NewScalingContext(models.Rect{Width: 1280, Height: 800}, 66, 18)

	if sc.ScaleX != 64.0/1280 || sc.ScaleY != 16.0/800 {
		t.Fatalf("scale = %v,%v", sc.ScaleX, sc.ScaleY)
	}
	if x, y := sc.PixelToTerminal(640, 400); x != 33 || y != 9 {
		t.Errorf("PixelToTerminal(640,400) = %d,%d want 33,9", x, y)
	}
	if w, h := sc.ScaleSize(10, 10); w != 3 || h != 2 {
		t.Errorf("ScaleSize(10,10) = %d,%d want minimum 3,2", w, h)
	}
	if x, y, w, h := sc.ClampToCanvas(0, 0, 100, 100); x != 1 || y != 1 || w != 64 || h != 16 {
		t.Errorf("ClampToCanvas = %d,%d %dx%d want 1,1 64x16", x, y, w, h)
	}
}

func TestScalingContextFallsBackForEmptyViewport(t *testing.T) {
	sc := NewScalingContext(models.Rect{}, 4, 4)
	if sc.PixelWidth != 1280 || sc.TermWidth != 12 || sc.TermHeight != 7 {
		t.Errorf("got %+v", sc)
	}
}

func testState() *models.State {
	return &models.State{
		Viewport:      models.Rect{Width: 1280, Height: 800},
		TaskbarHeight: 48,
		ArrangeMode:   "none",
		Focused:       "b",
		Windows: []*models.Window{
			{ID: "a", Title: "Alpha", Mode: "normal", Frame: models.Rect{X: 0, Y: 0, Width: 640, Height: 400}, ZIndex: 1},
			{ID: "b", Title: "Beta", Mode: "normal", Frame: models.Rect{X: 640, Y: 0, Width: 640, Height: 400}, ZIndex: 2, Focused: true},
			{ID: "c", Title: "Gamma", Mode: "minimized", Frame: models.Rect{X: 0, Y: 400, Width: 640, Height: 300}, ZIndex: 3},
		},
	}
}

func TestVisualizeDesktop(t *testing.T) {
	out := VisualizeDesktop(testState(), VisualizationOptions{MaxWidth: 82, MaxHeight: 26})
	lines := strings.Split(out, "\n")

	if len(lines) != 26 {
		t.Fatalf("got %d lines, want 26", len(lines))
	}
	if !strings.Contains(out, "Alpha (640x400)") || !strings.Contains(out, "Beta (640x400)") {
		t.Errorf("window labels missing:\n%s", out)
	}
	if strings.Contains(out, "Gamma (") {
		t.Errorf("minimized window drawn on the desktop:\n%s", out)
	}
	if !strings.Contains(lines[24], "[Alpha] [*Beta] (Gamma)") {
		t.Errorf("taskbar line = %q", lines[24])
	}
	if !strings.Contains(out, "#===") {
		t.Errorf("focused window not drawn in focus style:\n%s", out)
	}
}

func TestVisualizeDesktopShowIDs(t *testing.T) {
	out := VisualizeDesktop(testState(), VisualizationOptions{MaxWidth: 82, MaxHeight: 26, ShowIDs: true})
	if !strings.Contains(out, "[a] Alpha") {
		t.Errorf("ids not shown:\n%s", out)
	}
}

func TestSummary(t *testing.T) {
	got := Summary(testState())
	want := "Desktop 1280x800 | arrange: none | 3 windows (1 minimized, 0 maximized) | focus: b"
	if got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}

func TestTables(t *testing.T) {
	st := testState()

	var buf bytes.Buffer
	PrintWindowsTable(&buf, st.Windows)
	for _, s := range []string{"Alpha", "Beta", "minimized", "640x400 @ (640, 0)"} {
		if !strings.Contains(buf.String(), s) {
			t.Errorf("windows table missing %q:\n%s", s, buf.String())
		}
	}

	buf.Reset()
	PrintApplicationsTable(&buf, []*models.Application{
		{ID: "docs", Title: "Docs", URL: "https://example.com", Width: 800, Height: 500, Open: 2},
		{ID: "notes", Title: "Notes", Singleton: true},
	})
	for _, s := range []string{"https://example.com", "800x500", "content", "yes"} {
		if !strings.Contains(buf.String(), s) {
			t.Errorf("apps table missing %q:\n%s", s, buf.String())
		}
	}

	buf.Reset()
	PrintClosedTable(&buf, []*models.ClosedWindow{{ID: "x", Title: "Gone", AppID: "docs"}})
	if !strings.Contains(buf.String(), "Gone") {
		t.Errorf("closed table missing title:\n%s", buf.String())
	}
}

func TestPrintWindowDetail(t *testing.T) {
	var buf bytes.Buffer
	saved := models.Rect{X: 10, Y: 20, Width: 300, Height: 200}
	PrintWindowDetail(&buf, &models.Window{ID: "a", Title: "Alpha", Mode: "maximized", Saved: &saved})

	if !strings.Contains(buf.String(), "Restores To: 300x200 @ (10, 20)") {
		t.Errorf("detail = %s", buf.String())
	}
	if !strings.Contains(buf.String(), "App: -") {
		t.Errorf("detail = %s", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"a longer title", 8, "a lon..."},
		{"abc", 2, "ab"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
