package debug

import (
	"fmt"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/vault-dashboard-tui/internal/models"
	"github.com/j-veylop/vault-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/vault-dashboard-tui/internal/ui/styles"
	"github.com/j-veylop/vault-dashboard-tui/internal/version"
)

// View renders the debug tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderDiagnostics(),
		m.renderConfigCard(),
		m.renderAboutCard(),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Debug")
	subtitle := styles.HelpStyle.Render("Parser diagnostics and configuration")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 120)
}

// visibleDiagnostics returns the entries to list, newest first, optionally
// limited to the focused log. The journal already filters and orders.
func (m *Model) visibleDiagnostics() []models.Diagnostic {
	if m.journal != nil {
		return m.journaled
	}

	diags := m.state.GetDiagnostics()
	if m.focusedOnly {
		src, ok := m.state.FocusedSource()
		diags = slices.DeleteFunc(diags, func(d models.Diagnostic) bool {
			return !ok || d.Source != src.Path
		})
	}
	slices.Reverse(diags)
	return diags
}

func (m *Model) renderDiagnostics() string {
	width := m.cardWidth()

	title := "Diagnostics"
	if m.journal != nil {
		title += " journal"
	}
	if m.focusedOnly {
		title += " (focused log)"
	}
	rows := []string{styles.CardTitleStyle.Render(title)}

	switch {
	case m.journal == nil && m.config != nil && !m.config.DebugWindow:
		rows = append(rows, styles.HelpStyle.Render("Start with --debug-window to see parser output"))
		return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	case m.journalErr != nil:
		rows = append(rows, styles.ErrorTextStyle.Render(m.journalErr.Error()))
		return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	diags := m.visibleDiagnostics()
	if len(diags) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No diagnostics yet"))
		return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	textWidth := max(width-8, 20)
	for _, d := range diags {
		head := styles.HelpStyle.Render(filepath.Base(d.Source))
		if !d.CreatedAt.IsZero() {
			head += " " + styles.HelpStyle.Render(d.CreatedAt.Format("15:04:05"))
		}
		style := styles.CategoryStyle(components.LineCategory(d.Line))
		rows = append(rows,
			head,
			style.Render(ansi.Truncate(d.Line, textWidth, "…")),
			outputStyle(d.Output).Render("  "+ansi.Truncate(d.Output, textWidth-2, "…")),
		)
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// outputStyle highlights diagnostics that report a failure.
func outputStyle(output string) lipgloss.Style {
	if strings.Contains(output, "failed") || strings.Contains(output, "unknown") {
		return styles.WarningTextStyle
	}
	return styles.SuccessTextStyle
}

func (m *Model) renderConfigCard() string {
	rows := []string{styles.CardTitleStyle.Render("Configuration"), ""}

	if m.config == nil {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	} else {
		c := m.config
		rows = append(rows,
			configRow("Log files", strings.Join(c.Files, ", ")),
			configRow("App name", c.AppName),
			configRow("Lines kept", strconv.Itoa(c.LinesMax)),
			configRow("Timeline steps", strconv.Itoa(c.TimelineSteps)),
			configRow("Ignore existing", strconv.FormatBool(c.IgnoreExisting)),
			configRow("Diagnostics", orNone(c.DiagnosticsPath)),
			configRow("Metrics address", orNone(c.MetricsAddr)),
			configRow("Prefs file", orNone(c.PrefsPath)),
			configRow("Log file", orNone(c.LogPath)),
			configRow("Refresh", c.TickInterval.String()),
		)
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func configRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func (m *Model) renderAboutCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("About Vault Dashboard"),
		"",
		configRow("Version", version.GetVersion()),
		configRow("Build date", version.GetDate()),
		configRow("Git commit", version.GetCommit()),
		configRow("Go version", runtime.Version()),
		configRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
		"",
		fmt.Sprintf("Logs: %s", styles.InfoTextStyle.Render(strconv.Itoa(m.state.SourceCount()))),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
