// Package debug provides the tab showing the parser diagnostics window and
// the running configuration.
package debug

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/vault-dashboard-tui/internal/app"
	"github.com/j-veylop/vault-dashboard-tui/internal/config"
	"github.com/j-veylop/vault-dashboard-tui/internal/models"
)

// journalLimit bounds how many journaled diagnostics are listed.
const journalLimit = 200

// Journal reads diagnostics persisted across runs.
type Journal interface {
	JournaledDiagnostics(path string, limit int) ([]models.Diagnostic, error)
}

// journalLoadedMsg carries one read of the journal. An empty path means
// every log was read.
type journalLoadedMsg struct {
	path  string
	diags []models.Diagnostic
	err   error
}

// keyMap defines the key bindings specific to the debug tab.
type keyMap struct {
	Filter key.Binding
	Up     key.Binding
	Down   key.Binding
}

// defaultKeyMap returns the default key bindings for the debug tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "focused log only"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// Model represents the debug tab state.
type Model struct {
	state    *app.State
	config   *config.Config
	width    int
	height   int
	keys     keyMap
	viewport viewport.Model

	focusedOnly bool

	journal    Journal
	journaled  []models.Diagnostic
	journalErr error
}

// New creates a new debug model. cfg and journal may be nil; without a
// journal the in-memory debug window is shown.
func New(state *app.State, cfg *config.Config, journal Journal) *Model {
	return &Model{
		state:    state,
		config:   cfg,
		journal:  journal,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// journalPath is the log the journal is read for, "" for every log.
func (m *Model) journalPath() string {
	if !m.focusedOnly {
		return ""
	}
	if src, ok := m.state.FocusedSource(); ok {
		return src.Path
	}
	return ""
}

// loadJournalCmd reads the newest journaled diagnostics.
func (m *Model) loadJournalCmd() tea.Cmd {
	if m.journal == nil {
		return nil
	}
	journal := m.journal
	path := m.journalPath()
	return func() tea.Msg {
		diags, err := journal.JournaledDiagnostics(path, journalLimit)
		return journalLoadedMsg{path: path, diags: diags, err: err}
	}
}

// Init initializes the debug tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the debug tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case journalLoadedMsg:
		// Drop reads made before the filter or focus changed.
		if msg.path != m.journalPath() {
			return m, nil
		}
		m.journaled = msg.diags
		m.journalErr = msg.err
		if msg.err != nil {
			return m, app.Notify(app.NotificationError, fmt.Sprintf("Diagnostics journal: %v", msg.err))
		}

	case app.SourcesLoadedMsg, app.TickMsg:
		return m, m.loadJournalCmd()

	case app.FocusChangedMsg:
		if m.focusedOnly {
			return m, m.loadJournalCmd()
		}

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Filter) {
			m.focusedOnly = !m.focusedOnly
			m.viewport.GotoTop()
			return m, m.loadJournalCmd()
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

// SetSize sets the available size for the debug tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Filter}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Filter},
		{m.keys.Up, m.keys.Down},
	}
}
