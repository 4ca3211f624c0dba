// Package timelines provides the tab charting the activity timelines of the
// focused vault log.
package timelines

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/vault-dashboard-tui/internal/app"
	"github.com/j-veylop/vault-dashboard-tui/internal/models"
	"github.com/j-veylop/vault-dashboard-tui/internal/services"
)

// recentStartsLimit bounds the restart history shown below the charts.
const recentStartsLimit = 10

// StartHistory looks up journaled vault starts.
type StartHistory interface {
	RecentStarts(path string, limit int) ([]models.StartEvent, error)
}

// keyMap defines the key bindings specific to the timelines tab.
type keyMap struct {
	ToggleLayout key.Binding
	Up           key.Binding
	Down         key.Binding
}

// defaultKeyMap returns the default key bindings for the timelines tab.
func defaultKeyMap() keyMap {
	return keyMap{
		ToggleLayout: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "combined/separate"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// startsLoadedMsg carries the journaled starts of one log.
type startsLoadedMsg struct {
	path   string
	starts []models.StartEvent
	err    error
}

// Model represents the timelines tab state.
type Model struct {
	state    *app.State
	history  StartHistory
	width    int
	height   int
	keys     keyMap
	viewport viewport.Model

	combined   bool
	startsPath string
	starts     []models.StartEvent
	startsErr  error
}

// New creates a new timelines model. history may be nil when no journal is
// available.
func New(state *app.State, history StartHistory) *Model {
	return &Model{
		state:    state,
		history:  history,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
		combined: true,
	}
}

// Init initializes the timelines tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// loadStartsCmd reads the restart history of the focused log.
func (m *Model) loadStartsCmd() tea.Cmd {
	if m.history == nil {
		return nil
	}
	src, ok := m.state.FocusedSource()
	if !ok {
		return nil
	}
	history := m.history
	return func() tea.Msg {
		starts, err := history.RecentStarts(src.Path, recentStartsLimit)
		return startsLoadedMsg{path: src.Path, starts: starts, err: err}
	}
}

// Update handles messages for the timelines tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case startsLoadedMsg:
		m.startsPath = msg.path
		m.starts = msg.starts
		m.startsErr = msg.err
		if msg.err != nil {
			return m, app.Notify(app.NotificationError, fmt.Sprintf("Restart history: %v", msg.err))
		}

	case app.SourcesLoadedMsg, app.FocusChangedMsg:
		if src, ok := m.state.FocusedSource(); ok && src.Path != m.startsPath {
			return m, m.loadStartsCmd()
		}

	case app.ServiceEventMsg:
		if _, ok := msg.Event.(services.RestartEvent); ok {
			return m, m.loadStartsCmd()
		}

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ToggleLayout) {
			m.combined = !m.combined
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

// SetSize sets the available size for the timelines tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.ToggleLayout}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.ToggleLayout},
		{m.keys.Up, m.keys.Down},
	}
}
