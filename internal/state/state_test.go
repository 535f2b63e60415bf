package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yourusername/webdesk/internal/types"
)

func sampleSession() *Session {
	s := NewSession()
	s.Windows = []WindowState{
		{ID: "win-1", Title: "Notes", Icon: "📝", AppID: "notes", Mode: "normal",
			Geometry: types.Rect{X: 50, Y: 50, Width: 600, Height: 400}, ZIndex: 101},
		{ID: "win-2", Title: "Files", Mode: "maximized",
			Geometry: types.Rect{Width: 1280, Height: 800},
			Saved:    &types.Rect{X: 80, Y: 80, Width: 600, Height: 400}, ZIndex: 102},
	}
	s.Closed = []ClosedState{{ID: "win-0", Title: "Old", Icon: "🗔"}}
	s.ArrangeMode = string(types.ArrangeCascade)
	s.InstanceCount = 2
	s.Focused = "win-2"
	return s
}

func TestNewSession(t *testing.T) {
	s := NewSession()

	if s.Version != StateVersion {
		t.Errorf("Version = %d, want %d", s.Version, StateVersion)
	}
	if s.Windows == nil || s.Closed == nil {
		t.Error("registries should not be nil")
	}
	if s.Arrange() != types.ArrangeNone {
		t.Errorf("Arrange() = %q, want none", s.Arrange())
	}
}

func TestSessionQueries(t *testing.T) {
	s := sampleSession()

	if ids := s.WindowIDs(); len(ids) != 2 || ids[0] != "win-1" || ids[1] != "win-2" {
		t.Errorf("WindowIDs() = %v", ids)
	}
	if ids := s.ClosedIDs(); len(ids) != 1 || ids[0] != "win-0" {
		t.Errorf("ClosedIDs() = %v", ids)
	}

	w, ok := s.Window("win-2")
	if !ok {
		t.Fatal("Window(win-2) not found")
	}
	if w.ParsedMode() != types.ModeMaximized {
		t.Errorf("ParsedMode() = %v, want maximized", w.ParsedMode())
	}
	if _, ok := s.Window("nope"); ok {
		t.Error("Window(nope) should not be found")
	}

	bad := WindowState{Mode: "sideways"}
	if bad.ParsedMode() != types.ModeNormal {
		t.Errorf("unknown mode should parse as normal")
	}
}

func TestSessionReplaceAndClear(t *testing.T) {
	s := NewSession()
	next := sampleSession()

	s.Replace(next)
	if len(s.Windows) != 2 || s.InstanceCount != 2 || s.Focused != "win-2" {
		t.Errorf("Replace() did not copy: %+v", s)
	}

	// the replaced session does not alias the source slices
	next.Windows[0].Title = "changed"
	if s.Windows[0].Title != "Notes" {
		t.Error("Replace() aliased the source windows")
	}

	s.Clear()
	if len(s.Windows) != 0 || len(s.Closed) != 0 || s.Focused != "" {
		t.Errorf("Clear() left data: %+v", s)
	}
	if s.InstanceCount != 2 {
		t.Errorf("Clear() reset InstanceCount to %d", s.InstanceCount)
	}
	if s.Arrange() != types.ArrangeNone {
		t.Errorf("Clear() left arrange mode %q", s.Arrange())
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	s := sampleSession()
	if err := s.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should be renamed away")
	}

	loaded, err := LoadSessionFrom(path)
	if err != nil {
		t.Fatalf("LoadSessionFrom() error: %v", err)
	}

	if len(loaded.Windows) != 2 {
		t.Fatalf("len(Windows) = %d, want 2", len(loaded.Windows))
	}
	w := loaded.Windows[1]
	if w.Saved == nil || *w.Saved != (types.Rect{X: 80, Y: 80, Width: 600, Height: 400}) {
		t.Errorf("Saved = %+v", w.Saved)
	}
	if w.ZIndex != 102 {
		t.Errorf("ZIndex = %d, want 102", w.ZIndex)
	}
	if loaded.Arrange() != types.ArrangeCascade {
		t.Errorf("Arrange() = %q, want cascade", loaded.Arrange())
	}
	if loaded.InstanceCount != 2 {
		t.Errorf("InstanceCount = %d, want 2", loaded.InstanceCount)
	}
	if loaded.LastUpdated.IsZero() {
		t.Error("LastUpdated should be set")
	}
}

func TestLoadMissingFile(t *testing.T) {
	s, err := LoadSessionFrom(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadSessionFrom() error: %v", err)
	}
	if len(s.Windows) != 0 {
		t.Error("missing file should give an empty session")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"corrupt", "{not json"},
		{"future version", `{"version": 99}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "session.json")
			if err := os.WriteFile(path, []byte(tt.data), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadSessionFrom(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadNullRegistries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte(`{"version": 1, "windows": null}`), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadSessionFrom(path)
	if err != nil {
		t.Fatalf("LoadSessionFrom() error: %v", err)
	}
	if s.Windows == nil || s.Closed == nil {
		t.Error("nil registries should be initialized")
	}
}

func TestResetAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := sampleSession()

	if err := s.ResetAt(path); err != nil {
		t.Fatalf("ResetAt() error: %v", err)
	}

	loaded, err := LoadSessionFrom(path)
	if err != nil {
		t.Fatalf("LoadSessionFrom() error: %v", err)
	}
	if len(loaded.Windows) != 0 || len(loaded.Closed) != 0 {
		t.Errorf("reset session not empty: %+v", loaded)
	}
	if loaded.InstanceCount != 2 {
		t.Errorf("InstanceCount = %d, want 2", loaded.InstanceCount)
	}
}
