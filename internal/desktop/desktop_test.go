package desktop

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/yourusername/webdesk/internal/config"
	"github.com/yourusername/webdesk/internal/loop"
	"github.com/yourusername/webdesk/internal/models"
	"github.com/yourusername/webdesk/internal/state"
	"github.com/yourusername/webdesk/internal/types"
)

var ctx = context.Background()

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Apps = []config.AppConfig{
		{ID: "notes", Title: "Notes", Icon: "📝", Content: "hello", Singleton: true},
		{ID: "docs", Title: "Docs", Icon: "📄", URL: "https://example.com", Width: 800, Height: 500},
	}
	cfg.Layouts = []config.LayoutConfig{{
		ID:    "split",
		Name:  "Split",
		Grid:  config.GridConfig{Columns: []string{"900px", "1fr"}, Rows: []string{"1fr"}},
		Areas: [][]string{{"main", "side"}},
	}}
	return cfg
}

func newDesktop(t *testing.T, cfg *config.Config) (*Desktop, *loop.Virtual) {
	t.Helper()
	clk := loop.NewVirtual(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	d := New(cfg, clk)
	clk.Settle()
	t.Cleanup(d.Close)
	return d, clk
}

func at(x, y float64) (*float64, *float64) { return &x, &y }

func openAt(t *testing.T, d *Desktop, id string, x, y float64) *models.Window {
	t.Helper()
	px, py := at(x, y)
	w, err := d.OpenWindow(ctx, OpenParams{ID: id, Title: id, Width: 600, Height: 400, X: px, Y: py})
	if err != nil {
		t.Fatalf("OpenWindow(%s) error: %v", id, err)
	}
	return w
}

func TestNewRegistersConfiguredApps(t *testing.T) {
	d, _ := newDesktop(t, testConfig())

	apps, err := d.Apps(ctx)
	if err != nil {
		t.Fatalf("Apps() error: %v", err)
	}
	if len(apps) != 2 || apps[0].ID != "notes" || apps[1].ID != "docs" {
		t.Fatalf("Apps() = %+v, want notes and docs only", apps)
	}
	for _, a := range apps {
		if a.Placeholder {
			t.Errorf("app %s marked placeholder", a.ID)
		}
	}
}

func TestNewWithoutAppsKeepsPlaceholders(t *testing.T) {
	d, _ := newDesktop(t, nil)

	apps, _ := d.Apps(ctx)
	if len(apps) == 0 || !apps[0].Placeholder {
		t.Errorf("Apps() = %+v, want the placeholder catalog", apps)
	}
}

func TestOpenApp(t *testing.T) {
	d, _ := newDesktop(t, testConfig())

	w, err := d.OpenApp(ctx, "docs", OpenParams{})
	if err != nil {
		t.Fatalf("OpenApp() error: %v", err)
	}
	if w.AppID != "docs" || w.Title != "Docs" || w.Frame.Width != 800 {
		t.Errorf("OpenApp() = %+v", w)
	}

	first, _ := d.OpenApp(ctx, "notes", OpenParams{})
	again, _ := d.OpenApp(ctx, "notes", OpenParams{})
	if first.ID != again.ID {
		t.Errorf("singleton opened twice: %s, %s", first.ID, again.ID)
	}

	apps, _ := d.Apps(ctx)
	for _, a := range apps {
		if a.Open != 1 {
			t.Errorf("app %s Open = %d, want 1", a.ID, a.Open)
		}
	}

	if _, err := d.OpenApp(ctx, "nope", OpenParams{}); !errors.Is(err, ErrAppNotFound) {
		t.Errorf("OpenApp(nope) error = %v, want ErrAppNotFound", err)
	}
	if _, err := d.OpenApp(ctx, "docs", OpenParams{ID: w.ID}); err == nil {
		t.Error("OpenApp with an id already open should fail")
	}
}

func TestOpenWindowValidation(t *testing.T) {
	d, _ := newDesktop(t, testConfig())

	if _, err := d.OpenWindow(ctx, OpenParams{URL: "https://x", Content: "y"}); err == nil {
		t.Error("url and content together should fail")
	}
	openAt(t, d, "a", 100, 100)
	if _, err := d.OpenWindow(ctx, OpenParams{ID: "a"}); err == nil {
		t.Error("duplicate id should fail")
	}
}

func TestWindowModes(t *testing.T) {
	d, _ := newDesktop(t, testConfig())
	openAt(t, d, "a", 100, 100)

	w, err := d.Minimize(ctx, "a")
	if err != nil || w.Mode != "minimized" {
		t.Fatalf("Minimize() = %+v, %v", w, err)
	}
	w, _ = d.Restore(ctx, "a")
	if w.Mode != "normal" || w.Frame != (models.Rect{X: 100, Y: 100, Width: 600, Height: 400}) {
		t.Errorf("Restore() = %+v", w)
	}

	w, _ = d.Maximize(ctx, "a")
	if w.Mode != "maximized" || w.Frame != (models.Rect{Width: 1280, Height: 800}) {
		t.Errorf("Maximize() = %+v", w)
	}
	if w.Saved == nil || w.Saved.X != 100 {
		t.Errorf("Maximize() saved = %+v", w.Saved)
	}

	w, _ = d.Focus(ctx, "a")
	if !w.Focused {
		t.Error("Focus() should mark the window focused")
	}

	w, _ = d.SetTitle(ctx, "a", "Renamed")
	if w.Title != "Renamed" {
		t.Errorf("SetTitle() title = %q", w.Title)
	}
	if _, err := d.SetTitle(ctx, "a", ""); err == nil {
		t.Error("empty title should fail")
	}
}

func TestUnknownWindow(t *testing.T) {
	d, _ := newDesktop(t, testConfig())

	ops := map[string]func() error{
		"minimize": func() error { _, err := d.Minimize(ctx, "ghost"); return err },
		"restore":  func() error { _, err := d.Restore(ctx, "ghost"); return err },
		"maximize": func() error { _, err := d.Maximize(ctx, "ghost"); return err },
		"close":    func() error { _, err := d.CloseWindow(ctx, "ghost"); return err },
		"focus":    func() error { _, err := d.Focus(ctx, "ghost"); return err },
		"move":     func() error { _, err := d.Move(ctx, "ghost", 0, 0); return err },
		"resize":   func() error { _, err := d.Resize(ctx, "ghost", 400, 400); return err },
		"title":    func() error { _, err := d.SetTitle(ctx, "ghost", "x"); return err },
		"reopen":   func() error { _, err := d.Reopen(ctx, "ghost"); return err },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			if err := op(); !errors.Is(err, ErrWindowNotFound) {
				t.Errorf("error = %v, want ErrWindowNotFound", err)
			}
		})
	}
}

func TestMove(t *testing.T) {
	d, _ := newDesktop(t, testConfig())
	openAt(t, d, "a", 100, 100)

	tests := []struct {
		name string
		x, y float64
		want models.Rect
	}{
		{"inside", 200, 150, models.Rect{X: 200, Y: 150, Width: 600, Height: 400}},
		{"past bottom right", 2000, 2000, models.Rect{X: 680, Y: 352, Width: 600, Height: 400}},
		{"past top left", -50, -50, models.Rect{X: 0, Y: 0, Width: 600, Height: 400}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := d.Move(ctx, "a", tt.x, tt.y)
			if err != nil {
				t.Fatalf("Move() error: %v", err)
			}
			if w.Frame != tt.want {
				t.Errorf("Frame = %+v, want %+v", w.Frame, tt.want)
			}
		})
	}
}

func TestMoveRestoresMaximized(t *testing.T) {
	d, _ := newDesktop(t, testConfig())
	openAt(t, d, "a", 100, 100)
	d.Maximize(ctx, "a")

	w, err := d.Move(ctx, "a", 300, 200)
	if err != nil {
		t.Fatalf("Move() error: %v", err)
	}
	if w.Mode != "normal" || w.Frame.X != 300 || w.Frame.Y != 200 {
		t.Errorf("Move() = %+v", w)
	}
}

func TestMoveInCascadeMode(t *testing.T) {
	d, _ := newDesktop(t, testConfig())
	openAt(t, d, "a", 100, 100)
	openAt(t, d, "b", 300, 200)
	if err := d.Arrange(ctx, types.ArrangeCascade); err != nil {
		t.Fatal(err)
	}

	w, err := d.Move(ctx, "a", 400, 300)
	if err != nil {
		t.Fatalf("Move() error: %v", err)
	}
	if w.Frame != (models.Rect{X: 400, Y: 300, Width: 600, Height: 400}) {
		t.Errorf("Frame = %+v, want 600x400 at 400,300", w.Frame)
	}
	st, _ := d.State(ctx)
	if b := st.FindWindowByID("b"); b.Frame.X != 20 || b.Frame.Y != 20 {
		t.Errorf("b at %v,%v, want the first cascade slot", b.Frame.X, b.Frame.Y)
	}
}

func TestResizeInCascadeMode(t *testing.T) {
	d, _ := newDesktop(t, testConfig())
	openAt(t, d, "a", 100, 100)
	openAt(t, d, "b", 300, 200)
	d.Arrange(ctx, types.ArrangeCascade)

	w, err := d.Resize(ctx, "a", 700, 500)
	if err != nil {
		t.Fatalf("Resize() error: %v", err)
	}
	if w.Frame != (models.Rect{X: 50, Y: 50, Width: 700, Height: 500}) {
		t.Errorf("Frame = %+v, want 700x500 in the last cascade slot", w.Frame)
	}
}

func TestResize(t *testing.T) {
	d, _ := newDesktop(t, testConfig())
	openAt(t, d, "a", 100, 100)

	w, err := d.Resize(ctx, "a", 700, 500)
	if err != nil {
		t.Fatalf("Resize() error: %v", err)
	}
	if w.Frame != (models.Rect{X: 100, Y: 100, Width: 700, Height: 500}) {
		t.Errorf("Frame = %+v", w.Frame)
	}

	w, _ = d.Resize(ctx, "a", 10, 10)
	if w.Frame.Width != 300 || w.Frame.Height != 200 {
		t.Errorf("Resize below minimum = %+v, want 300x200", w.Frame)
	}

	if _, err := d.Resize(ctx, "a", 0, 100); err == nil {
		t.Error("non-positive size should fail")
	}
}

func TestCloseAndReopen(t *testing.T) {
	d, clk := newDesktop(t, testConfig())
	w, _ := d.OpenApp(ctx, "docs", OpenParams{})

	closing, err := d.CloseWindow(ctx, w.ID)
	if err != nil || !closing.Closing {
		t.Fatalf("CloseWindow() = %+v, %v", closing, err)
	}
	if ws, _ := d.Windows(ctx); len(ws) != 1 {
		t.Errorf("window left the taskbar before the close delay")
	}

	clk.Advance(150 * time.Millisecond)

	if ws, _ := d.Windows(ctx); len(ws) != 0 {
		t.Errorf("Windows() = %+v, want none", ws)
	}
	closed, _ := d.Closed(ctx)
	if len(closed) != 1 || closed[0].ID != w.ID || closed[0].AppID != "docs" {
		t.Fatalf("Closed() = %+v", closed)
	}

	again, err := d.Reopen(ctx, w.ID)
	if err != nil {
		t.Fatalf("Reopen() error: %v", err)
	}
	if again.ID != w.ID || again.AppID != "docs" {
		t.Errorf("Reopen() = %+v", again)
	}
	if closed, _ := d.Closed(ctx); len(closed) != 0 {
		t.Errorf("closed registry not emptied: %+v", closed)
	}
}

func TestBulkActions(t *testing.T) {
	d, clk := newDesktop(t, testConfig())
	openAt(t, d, "a", 50, 50)
	openAt(t, d, "b", 80, 80)

	if err := d.MinimizeAll(ctx); err != nil {
		t.Fatal(err)
	}
	st, _ := d.State(ctx)
	if st.CountByMode()["minimized"] != 2 {
		t.Errorf("modes after MinimizeAll = %v", st.CountByMode())
	}

	d.RestoreAll(ctx)
	st, _ = d.State(ctx)
	if st.CountByMode()["normal"] != 2 {
		t.Errorf("modes after RestoreAll = %v", st.CountByMode())
	}

	d.CloseAll(ctx)
	clk.Advance(150 * time.Millisecond)
	st, _ = d.State(ctx)
	if len(st.Windows) != 0 || len(st.Closed) != 2 {
		t.Errorf("after CloseAll: %d open, %d closed", len(st.Windows), len(st.Closed))
	}
}

func TestArrange(t *testing.T) {
	d, _ := newDesktop(t, testConfig())
	openAt(t, d, "a", 50, 50)
	openAt(t, d, "b", 80, 80)

	if err := d.Arrange(ctx, types.ArrangeTile); err != nil {
		t.Fatal(err)
	}
	st, _ := d.State(ctx)
	if st.ArrangeMode != "tile" {
		t.Errorf("ArrangeMode = %q, want tile", st.ArrangeMode)
	}
	a, b := st.FindWindowByID("a"), st.FindWindowByID("b")
	if a.Frame.Y != b.Frame.Y || a.Frame.X >= b.Frame.X {
		t.Errorf("two windows should tile side by side: %+v %+v", a.Frame, b.Frame)
	}
}

func TestApplyLayout(t *testing.T) {
	d, _ := newDesktop(t, testConfig())
	openAt(t, d, "a", 50, 50)
	openAt(t, d, "b", 80, 80)

	placed, err := d.ApplyLayout(ctx, "split")
	if err != nil {
		t.Fatalf("ApplyLayout() error: %v", err)
	}
	if placed["a"] != "main" || placed["b"] != "side" {
		t.Errorf("placed = %v", placed)
	}

	ws, _ := d.Windows(ctx)
	if ws[0].Frame != (models.Rect{X: 10, Y: 10, Width: 900, Height: 732}) {
		t.Errorf("main frame = %+v", ws[0].Frame)
	}

	if _, err := d.ApplyLayout(ctx, "missing"); err == nil {
		t.Error("unknown layout should fail")
	}
}

func TestSearch(t *testing.T) {
	d, clk := newDesktop(t, testConfig())
	w := openAt(t, d, "scratch", 50, 50)
	d.CloseWindow(ctx, w.ID)
	clk.Advance(150 * time.Millisecond)

	res, err := d.Search(ctx, "O")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Apps) != 2 {
		t.Errorf("apps matching 'O' = %d, want 2", len(res.Apps))
	}

	res, _ = d.Search(ctx, "scr")
	if len(res.Apps) != 0 || len(res.Closed) != 1 {
		t.Errorf("Search(scr) = %+v", res)
	}
}

func TestSubscribe(t *testing.T) {
	d, _ := newDesktop(t, testConfig())
	events, cancel := d.Subscribe(16)

	openAt(t, d, "a", 50, 50)
	d.Minimize(ctx, "a")

	want := []string{"window:created", "window:minimized"}
	for _, name := range want {
		select {
		case ev := <-events:
			if ev.EventType != name || ev.Data["id"] != "a" {
				t.Errorf("event = %+v, want %s for a", ev, name)
			}
		default:
			t.Fatalf("missing %s event", name)
		}
	}

	cancel()
	cancel()
	if _, ok := <-events; ok {
		t.Error("channel should be closed after cancel")
	}
}

func TestSubscriberThatFallsBehindDropsEvents(t *testing.T) {
	d, _ := newDesktop(t, testConfig())
	events, cancel := d.Subscribe(1)
	defer cancel()

	openAt(t, d, "a", 50, 50)
	openAt(t, d, "b", 80, 80)

	if len(events) != 1 {
		t.Errorf("buffered events = %d, want 1", len(events))
	}
}

func TestSessionRoundTrip(t *testing.T) {
	cfg := testConfig()
	d, clk := newDesktop(t, cfg)

	openAt(t, d, "a", 50, 50)
	docs, _ := d.OpenApp(ctx, "docs", OpenParams{})
	openAt(t, d, "c", 120, 120)
	openAt(t, d, "gone", 150, 150)

	d.Maximize(ctx, docs.ID)
	d.Minimize(ctx, "c")
	d.Focus(ctx, "a")
	d.CloseWindow(ctx, "gone")
	clk.Advance(150 * time.Millisecond)

	path := filepath.Join(t.TempDir(), "session.json")
	if err := d.SaveSession(ctx, path); err != nil {
		t.Fatalf("SaveSession() error: %v", err)
	}
	before, _ := d.State(ctx)
	d.Close()

	saved, err := state.LoadSessionFrom(path)
	if err != nil {
		t.Fatalf("LoadSessionFrom() error: %v", err)
	}

	restored, _ := newDesktop(t, cfg)
	restored.Do(ctx, func() { restored.RestoreSession(saved) })
	after, _ := restored.State(ctx)

	if len(after.Windows) != 3 {
		t.Fatalf("restored %d windows, want 3", len(after.Windows))
	}
	for _, bw := range before.Windows {
		aw := after.FindWindowByID(bw.ID)
		if aw == nil {
			t.Errorf("window %s not restored", bw.ID)
			continue
		}
		if aw.Mode != bw.Mode || aw.Frame != bw.Frame || aw.AppID != bw.AppID {
			t.Errorf("window %s = %+v, want %+v", bw.ID, aw, bw)
		}
	}

	var beforeOrder, afterOrder []string
	for _, w := range before.StackOrder() {
		beforeOrder = append(beforeOrder, w.ID)
	}
	for _, w := range after.StackOrder() {
		afterOrder = append(afterOrder, w.ID)
	}
	for i := range beforeOrder {
		if beforeOrder[i] != afterOrder[i] {
			t.Errorf("stack order = %v, want %v", afterOrder, beforeOrder)
			break
		}
	}

	if len(after.Closed) != 1 || after.Closed[0].ID != "gone" {
		t.Errorf("Closed = %+v", after.Closed)
	}
	if after.InstanceCount != 4 {
		t.Errorf("InstanceCount = %d, want 4", after.InstanceCount)
	}
	if after.Focused != "a" {
		t.Errorf("Focused = %q, want a", after.Focused)
	}

	// the maximized window still returns to its original geometry
	w, _ := restored.Restore(ctx, docs.ID)
	if w.Frame != *before.FindWindowByID(docs.ID).Saved {
		t.Errorf("restored maximized window came back at %+v", w.Frame)
	}
}

func TestDoOnRealLoop(t *testing.T) {
	l := loop.New()
	d := New(testConfig(), l)

	runCtx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Serve(runCtx) }()

	deadline := time.Now().Add(time.Second)
	for !l.Running() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	if _, err := d.OpenApp(ctx, "notes", OpenParams{}); err != nil {
		t.Fatalf("OpenApp() error: %v", err)
	}
	ws, err := d.Windows(ctx)
	if err != nil || len(ws) != 1 {
		t.Fatalf("Windows() = %v, %v", ws, err)
	}
	d.Do(ctx, d.Close)

	stop()
	<-done
	if _, err := d.Windows(ctx); !errors.Is(err, loop.ErrStopped) {
		t.Errorf("Windows() after stop error = %v, want ErrStopped", err)
	}
}
