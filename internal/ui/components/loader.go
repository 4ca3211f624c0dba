package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/vault-dashboard-tui/internal/ui/styles"
)

// Loader is the spinner shown while existing log content is ingested. Once
// loading takes longer than a second it also shows the elapsed time.
type Loader struct {
	spinner spinner.Model
	label   string
	started time.Time
	now     func() time.Time
}

// NewLoader creates a loader with the given label, timed from now.
func NewLoader(label string) Loader {
	s := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Primary)),
	)
	return Loader{spinner: s, label: label, started: time.Now(), now: time.Now}
}

// Init starts the spinner.
func (l Loader) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the spinner on its tick messages.
func (l Loader) Update(msg tea.Msg) (Loader, tea.Cmd) {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return l, cmd
}

// Elapsed returns the time since the loader was created, in whole seconds.
func (l Loader) Elapsed() time.Duration {
	return l.now().Sub(l.started).Truncate(time.Second)
}

// View renders the spinner, the label and, after a second, the elapsed time.
func (l Loader) View() string {
	text := l.label
	if d := l.Elapsed(); d >= time.Second {
		text = fmt.Sprintf("%s (%s)", text, d)
	}
	return l.spinner.View() + " " + styles.HelpDescStyle.Render(text)
}

// Centered renders the loader in the middle of a width x height area.
func (l Loader) Centered(width, height int) string {
	return styles.CenterBoth(l.View(), width, height)
}
