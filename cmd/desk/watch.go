package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/yourusername/webdesk/internal/models"
	"github.com/yourusername/webdesk/internal/output"
)

// maxLogLines is how many recent events the watch view keeps
const maxLogLines = 8

var (
	watchTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6")).Padding(0, 1)
	watchInfoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	watchLogStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
	watchErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	watchHelpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// stateMsg carries a fresh dump
type stateMsg struct {
	state *models.State
	err   error
}

// eventMsg carries one pushed desktop event
type eventMsg struct {
	event *models.Event
}

// streamEndMsg reports the event stream closing
type streamEndMsg struct {
	err error
}

// watchModel is the bubbletea model behind desk watch
type watchModel struct {
	fetch   func() (*models.State, error)
	unicode bool

	state  *models.State
	log    []string
	err    error
	width  int
	height int
}

func newWatchModel(fetch func() (*models.State, error), unicode bool) *watchModel {
	return &watchModel{fetch: fetch, unicode: unicode, width: 80, height: 24}
}

func (m *watchModel) refresh() tea.Cmd {
	return func() tea.Msg {
		st, err := m.fetch()
		return stateMsg{state: st, err: err}
	}
}

// Init implements tea.Model
func (m *watchModel) Init() tea.Cmd {
	return m.refresh()
}

// Update implements tea.Model
func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			return m, m.refresh()
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case stateMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.state, m.err = msg.state, nil

	case eventMsg:
		m.log = append(m.log, formatEvent(msg.event))
		if len(m.log) > maxLogLines {
			m.log = m.log[len(m.log)-maxLogLines:]
		}
		return m, m.refresh()

	case streamEndMsg:
		m.err = fmt.Errorf("event stream closed: %w", msg.err)
	}
	return m, nil
}

// View implements tea.Model
func (m *watchModel) View() string {
	var b strings.Builder

	b.WriteString(watchTitleStyle.Render("desk watch"))
	b.WriteString("\n")

	if m.state == nil {
		if m.err != nil {
			b.WriteString(watchErrStyle.Render(m.err.Error()))
		} else {
			b.WriteString("connecting...")
		}
		return b.String()
	}

	b.WriteString(watchInfoStyle.Render(output.Summary(m.state)))
	b.WriteString("\n")

	logHeight := maxLogLines + 2
	opts := output.VisualizationOptions{
		UseUnicode: m.unicode,
		MaxWidth:   m.width,
		MaxHeight:  max(m.height-logHeight-4, 8),
	}
	b.WriteString(output.VisualizeDesktop(m.state, opts))
	b.WriteString("\n")

	lines := m.log
	if len(lines) == 0 {
		lines = []string{"waiting for events..."}
	}
	b.WriteString(watchLogStyle.Width(max(m.width-4, 20)).Render(strings.Join(lines, "\n")))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(watchErrStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(watchHelpStyle.Render("q quit • r refresh"))
	return b.String()
}

// formatEvent renders one event as a log line
func formatEvent(ev *models.Event) string {
	keys := make([]string, 0, len(ev.Data))
	for k := range ev.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, ev.Data[k]))
	}
	return fmt.Sprintf("%s %-20s %s", ev.Timestamp.Format("15:04:05"), ev.EventType, strings.Join(parts, " "))
}

var watchASCII bool

// watchCmd shows the desktop live
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the desktop live",
	Long:  `Shows the desktop drawing and a log of window events, redrawn on every event.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		queries := newClient()
		defer queries.Close()
		fetch := func() (*models.State, error) { return queries.Dump(ctx) }

		unicode := output.DefaultVisualizationOptions().UseUnicode && !watchASCII
		p := tea.NewProgram(newWatchModel(fetch, unicode), tea.WithAltScreen())

		events := newClient()
		defer events.Close()
		go func() {
			err := events.Subscribe(ctx, func(ev *models.Event) { p.Send(eventMsg{event: ev}) })
			if !errors.Is(err, context.Canceled) {
				p.Send(streamEndMsg{err: err})
			}
		}()

		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchASCII, "ascii", false, "Force ASCII drawing")
}
