package main

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yourusername/webdesk/internal/models"
)

func watchState() *models.State {
	return &models.State{
		Viewport:      models.Rect{Width: 1280, Height: 800},
		TaskbarHeight: 48,
		ArrangeMode:   "tile",
		Windows: []*models.Window{
			{ID: "a", Title: "Alpha", Mode: "normal", Frame: models.Rect{Width: 640, Height: 752}, ZIndex: 1},
		},
	}
}

func TestWatchModelRefreshesOnEvents(t *testing.T) {
	fetches := 0
	m := newWatchModel(func() (*models.State, error) {
		fetches++
		return watchState(), nil
	}, false)

	if v := m.View(); !strings.Contains(v, "connecting") {
		t.Errorf("initial view = %q", v)
	}

	m.Update(m.Init()())
	if fetches != 1 || m.state == nil {
		t.Fatalf("fetches = %d, state = %v", fetches, m.state)
	}

	ev := &models.Event{EventType: "window:focused", Data: map[string]interface{}{"id": "a", "title": "Alpha"}, Timestamp: time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)}
	_, cmd := m.Update(eventMsg{event: ev})
	if cmd == nil {
		t.Fatal("event should trigger a refresh")
	}
	m.Update(cmd())
	if fetches != 2 {
		t.Errorf("fetches = %d, want 2", fetches)
	}

	view := m.View()
	for _, want := range []string{"arrange: tile", "Alpha (640x752)", "window:focused", "id=a title=Alpha", "09:30:00"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestWatchModelKeepsRecentEvents(t *testing.T) {
	m := newWatchModel(func() (*models.State, error) { return watchState(), nil }, false)
	for i := 0; i < maxLogLines+3; i++ {
		m.Update(eventMsg{event: &models.Event{EventType: "window:created"}})
	}
	if len(m.log) != maxLogLines {
		t.Errorf("log has %d lines, want %d", len(m.log), maxLogLines)
	}
}

func TestWatchModelErrorsAndQuit(t *testing.T) {
	m := newWatchModel(func() (*models.State, error) { return nil, errors.New("dial unix: no such file") }, false)
	m.Update(m.Init()())
	if v := m.View(); !strings.Contains(v, "no such file") {
		t.Errorf("view = %q, want the fetch error", v)
	}

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	if m.width != 100 || m.height != 40 {
		t.Errorf("size = %dx%d", m.width, m.height)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not produce QuitMsg")
	}
}

func TestFormatEvent(t *testing.T) {
	ev := &models.Event{
		EventType: "window:closed",
		Data:      map[string]interface{}{"title": "Docs", "id": "w1"},
		Timestamp: time.Date(2024, 1, 1, 9, 0, 5, 0, time.UTC),
	}
	got := formatEvent(ev)
	want := "09:00:05 window:closed        id=w1 title=Docs"
	if got != want {
		t.Errorf("formatEvent() = %q, want %q", got, want)
	}
}
