package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/vault-dashboard-tui/internal/ui/styles"
)

// ShareBar renders what fraction of a total one counter makes up, e.g. the
// share of gets among all data handler responses.
type ShareBar struct {
	progress progress.Model
}

// NewShareBar creates a share bar with a solid fill color.
func NewShareBar(color lipgloss.Color) ShareBar {
	return ShareBar{
		progress: progress.New(
			progress.WithSolidFill(string(color)),
			progress.WithWidth(30),
			progress.WithoutPercentage(),
		),
	}
}

// Percent returns part as a percentage of total, 0 when total is 0.
func Percent(part, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// View renders "label [bar] count pct%" in width columns.
func (s ShareBar) View(label string, part, total uint64, width int) string {
	pct := Percent(part, total)

	labelStr := styles.ProgressLabelStyle.Width(10).Render(label)
	countStr := fmt.Sprintf("%8d", part)
	pctStr := styles.ProgressPercentStyle.Render(fmt.Sprintf("%.0f%%", pct))

	s.progress.Width = max(width-lipgloss.Width(labelStr)-lipgloss.Width(countStr)-lipgloss.Width(pctStr)-4, 5)

	return fmt.Sprintf("%s %s %s %s", labelStr, s.progress.ViewAs(pct/100), countStr, pctStr)
}
