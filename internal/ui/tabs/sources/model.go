// Package sources provides the tab listing every monitored vault log.
package sources

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/vault-dashboard-tui/internal/app"
	"github.com/j-veylop/vault-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/vault-dashboard-tui/internal/ui/styles"
)

// keyMap defines the key bindings specific to the sources tab.
type keyMap struct {
	Enter key.Binding
	Up    key.Binding
	Down  key.Binding
}

// defaultKeyMap returns the default key bindings for the sources tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "show on dashboard"),
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

// Model represents the sources tab state.
type Model struct {
	state   *app.State
	table   table.Model
	spinner components.Loader
	keys    keyMap
	width   int
	height  int
}

// New creates a new sources model.
func New(state *app.State) *Model {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Log", Width: 28},
		{Title: "Age", Width: 8},
		{Title: "Gets", Width: 8},
		{Title: "Puts", Width: 8},
		{Title: "Errors", Width: 8},
		{Title: "Lines", Width: 8},
		{Title: "Rejected", Width: 8},
		{Title: "Last entry", Width: 19},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	t.SetStyles(table.Styles{
		Header:   styles.TableHeaderStyle.Padding(0, 1),
		Cell:     styles.TableCellStyle,
		Selected: styles.TableSelectedStyle,
	})

	return &Model{
		state:   state,
		table:   t,
		spinner: components.NewLoader("Reading logs..."),
		keys:    defaultKeyMap(),
	}
}

// Init initializes the sources tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the sources tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Enter) {
			if len(m.table.Rows()) == 0 {
				return m, nil
			}
			idx := m.table.Cursor()
			return m, func() tea.Msg {
				return app.FocusSourceMsg{Index: idx}
			}
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd

	case app.SourcesLoadedMsg:
		m.updateTableData()

	case app.FocusChangedMsg:
		m.updateTableData()
		m.table.SetCursor(msg.Index)
	}

	return m, nil
}

// updateTableData refreshes the rows from the shared state.
func (m *Model) updateTableData() {
	sources := m.state.GetSources()
	rows := make([]table.Row, 0, len(sources))

	for i, src := range sources {
		s := src.Metrics
		rows = append(rows, table.Row{
			fmt.Sprint(i + 1),
			filepath.Base(src.Path),
			s.AgeBracket.String(),
			fmt.Sprint(s.Gets),
			fmt.Sprint(s.Puts),
			fmt.Sprint(s.Errors),
			fmt.Sprint(s.LinesSeen),
			fmt.Sprint(s.LinesRejected),
			components.FormatTimestamp(s.MostRecent),
		})
	}

	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// SetSize sets the available size for the sources tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(height-8, 3))
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Enter, m.keys.Up, m.keys.Down}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Enter},
		{m.keys.Up, m.keys.Down},
	}
}
