package timelines

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/vault-dashboard-tui/internal/metrics"
	"github.com/j-veylop/vault-dashboard-tui/internal/models"
	"github.com/j-veylop/vault-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/vault-dashboard-tui/internal/ui/styles"
)

// timeline describes how one of the store's timelines is drawn.
type timeline struct {
	name  string
	label string
	color asciigraph.AnsiColor
	style lipgloss.Color
}

var timelines = []timeline{
	{metrics.TimelineGets, "Gets", asciigraph.DodgerBlue, styles.GetsColor},
	{metrics.TimelinePuts, "Puts", asciigraph.DarkOrange, styles.PutsColor},
	{metrics.TimelineErrors, "Errors", asciigraph.Red, styles.ErrorsColor},
}

// View renders the timelines tab.
func (m *Model) View() string {
	src, ok := m.state.FocusedSource()
	if !ok {
		return styles.DocStyle.Width(m.width).Height(m.height).Render(
			styles.HelpStyle.Render("No timelines to show"),
		)
	}

	g := m.state.Granularity()
	chartWidth := max(m.width-16, 20)

	sections := []string{m.renderHeader(src.Path, src.Metrics, g)}
	if m.combined {
		sections = append(sections, m.renderCombined(src.Metrics, g, chartWidth))
	} else {
		for _, tl := range timelines {
			sections = append(sections, m.renderSingle(src.Metrics, tl, g, chartWidth))
		}
	}
	sections = append(sections, m.renderStarts(src.Path))

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderHeader(path string, snap metrics.Snapshot, g models.Granularity) string {
	title := styles.TitleStyle.Render("Timelines")

	steps := len(snap.Timeline(metrics.TimelineGets, g))
	span := g.Duration() * time.Duration(steps)
	info := fmt.Sprintf("%s · %s buckets · %d shown (%s)",
		path, g, steps, components.FormatUptime(span))

	layout := "combined"
	if !m.combined {
		layout = "separate"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		styles.HelpStyle.Render(info),
		styles.HelpStyle.Render("Layout: "+layout),
		"",
	)
}

func (m *Model) renderCombined(snap metrics.Snapshot, g models.Granularity, width int) string {
	series := make([]components.Series, 0, len(timelines))
	legend := make([]components.LegendItem, 0, len(timelines))
	for _, tl := range timelines {
		data := snap.Timeline(tl.name, g)
		series = append(series, components.Series{
			Label: tl.label,
			Data:  components.ToFloats(data),
			Color: tl.color,
			Style: tl.style,
		})
		legend = append(legend, components.LegendItem{
			Label: fmt.Sprintf("%s (%d)", tl.label, components.Sum(data)),
			Color: tl.style,
		})
	}

	chart := components.RenderMultiLineChart(series, width, 12, "per "+g.String())

	return styles.CardStyle.Width(width + 8).Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.CardTitleStyle.Render("Activity"),
		chart,
		"",
		components.RenderLegend(legend),
	))
}

func (m *Model) renderSingle(snap metrics.Snapshot, tl timeline, g models.Granularity, width int) string {
	data := snap.Timeline(tl.name, g)
	title := fmt.Sprintf("%s (%d)", tl.label, components.Sum(data))

	return styles.CardStyle.Width(width + 8).Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Foreground(tl.style).Render(title),
		components.RenderLineChart(components.ToFloats(data), width, 6, "per "+g.String()),
	))
}

func (m *Model) renderStarts(path string) string {
	var b strings.Builder
	b.WriteString(styles.CardTitleStyle.Render("Recent restarts"))
	b.WriteString("\n")

	switch {
	case m.history == nil:
		b.WriteString(styles.HelpStyle.Render("No diagnostics journal configured"))
	case m.startsErr != nil:
		b.WriteString(styles.ErrorTextStyle.Render(m.startsErr.Error()))
	case m.startsPath != path || len(m.starts) == 0:
		b.WriteString(styles.HelpStyle.Render("No restarts recorded for " + filepath.Base(path)))
	default:
		for _, s := range m.starts {
			version := s.Version
			if version == "" {
				version = "unknown version"
			}
			at := s.StartedAt
			if at.IsZero() {
				at = s.ObservedAt
			}
			fmt.Fprintf(&b, "%s  %s\n",
				styles.StatValueStyle.Render(components.FormatTimestamp(at)),
				styles.HelpStyle.Render(version))
		}
	}

	return styles.CardStyle.Render(strings.TrimRight(b.String(), "\n"))
}
