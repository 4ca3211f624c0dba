package dashboard

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/vault-dashboard-tui/internal/metrics"
	"github.com/j-veylop/vault-dashboard-tui/internal/services"
	"github.com/j-veylop/vault-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/vault-dashboard-tui/internal/ui/styles"
)

// View renders the dashboard component.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return m.spinner.Centered(m.width, m.height)
	}

	src, ok := m.state.FocusedSource()
	if !ok {
		return styles.DocStyle.Width(m.width).Height(m.height).Render(
			styles.HelpStyle.Render("No logs are being monitored"),
		)
	}

	cardWidth := max(m.width-6, 40)

	sections := []string{
		m.renderTitle(src),
		lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderStatusCard(src.Metrics, cardWidth/2),
			m.renderLifecycleCard(src.Metrics, cardWidth-cardWidth/2),
		),
		m.renderActivityCard(src.Metrics, cardWidth),
		m.renderCategoriesCard(src.Metrics, cardWidth),
		m.renderLogTail(src, cardWidth),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle(src services.MonitorSnapshot) string {
	title := styles.TitleStyle.Render("Vault Dashboard")
	subtitle := styles.HelpStyle.Render(src.Path)
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func statRow(label, value string) string {
	return styles.StatLabelStyle.Render(label) + " " + styles.StatValueStyle.Render(value)
}

func (m *Model) renderStatusCard(s metrics.Snapshot, width int) string {
	running := s.RunningMessage
	if running == "" {
		running = "no start line seen"
	}
	version := s.Version
	if version == "" {
		version = "-"
	}

	rows := []string{
		styles.CardTitleStyle.Render("Status"),
		ansi.Truncate(styles.SuccessTextStyle.Render(running), max(width-6, 10), "…"),
		"",
		statRow("Version", version),
		statRow("Started", components.FormatTimestamp(s.StartedAt)),
		statRow("Uptime", components.FormatUptime(s.Uptime())),
		statRow("Last entry", components.FormatTimestamp(s.MostRecent)),
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderLifecycleCard(s metrics.Snapshot, width int) string {
	bracket := s.AgeBracket.String()

	rows := []string{
		styles.CardTitleStyle.Render("Vault"),
		styles.StatLabelStyle.Render("Age") + " " + styles.AgeBracketStyle(bracket).Render(bracket),
		statRow("Section adults", fmt.Sprint(s.Adults)),
		statRow("Section elders", fmt.Sprint(s.Elders)),
		"",
		statRow("Timeline", m.state.Granularity().String()),
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderActivityCard(s metrics.Snapshot, width int) string {
	total := s.TotalActivity()
	inner := max(width-6, 30)

	rows := []string{
		styles.CardTitleStyle.Render(fmt.Sprintf("Activity (%d)", total)),
		m.gets.View("gets", s.Gets, total, inner),
		m.puts.View("puts", s.Puts, total, inner),
		m.errors.View("errors", s.Errors, total, inner),
		m.other.View("other", s.Other, total, inner),
		"",
	}

	g := m.state.Granularity()
	sparkWidth := max(inner-12, 10)
	for _, line := range []struct {
		name  string
		color lipgloss.Color
	}{
		{metrics.TimelineGets, styles.GetsColor},
		{metrics.TimelinePuts, styles.PutsColor},
		{metrics.TimelineErrors, styles.ErrorsColor},
	} {
		spark := components.RenderSparkline(components.ToFloats(s.Timeline(line.name, g)), sparkWidth)
		label := styles.ProgressLabelStyle.Width(10).Render(line.name)
		rows = append(rows, label+" "+lipgloss.NewStyle().Foreground(line.color).Render(spark))
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderCategoriesCard(s metrics.Snapshot, width int) string {
	rows := []string{
		styles.CardTitleStyle.Render("Lines"),
		statRow("Seen", fmt.Sprint(s.LinesSeen)) + "   " + statRow("Rejected", fmt.Sprint(s.LinesRejected)),
	}

	if len(s.CategoryCounts) > 0 {
		labels := slices.Sorted(maps.Keys(s.CategoryCounts))
		values := make([]uint64, len(labels))
		for i, l := range labels {
			values[i] = s.CategoryCounts[l]
		}
		rows = append(rows, "", components.RenderBarChart(values, labels, max(width-6, 30)))
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderLogTail(src services.MonitorSnapshot, width int) string {
	rows := []string{styles.CardTitleStyle.Render(fmt.Sprintf("Log (%d lines)", len(src.Content)))}

	if len(src.Content) == 0 {
		rows = append(rows, styles.HelpStyle.Render("Waiting for log lines..."))
	}

	inner := max(width-6, 20)
	for _, line := range src.Content {
		text := ansi.Truncate(line, inner, "…")
		rows = append(rows, styles.CategoryStyle(components.LineCategory(line)).Render(text))
	}

	return styles.CardStyle.Width(width).Render(strings.Join(rows, "\n"))
}
