package sources

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/vault-dashboard-tui/internal/ui/styles"
)

// View renders the sources tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return m.spinner.Centered(m.width, m.height)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(),
		m.renderTable(),
	)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Logs")
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%d logs monitored", m.state.SourceCount()))
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderTable() string {
	cardWidth := max(m.width-6, 60)

	if m.state.SourceCount() == 0 {
		return styles.CardStyle.Width(cardWidth).Render(
			styles.HelpStyle.Render("No logs are being monitored"),
		)
	}

	m.updateTableData()
	return styles.CardStyle.Width(cardWidth).Render(m.table.View())
}
