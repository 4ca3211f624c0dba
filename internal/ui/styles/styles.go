// Package styles holds the lipgloss palette and shared styles of the
// dashboard.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Primary   = lipgloss.Color("205")
	Secondary = lipgloss.Color("63")
	Subtle    = lipgloss.Color("240")

	Success = lipgloss.Color("42")
	Error   = lipgloss.Color("196")
	Warning = lipgloss.Color("220")
	Info    = lipgloss.Color("39")

	BgDark   = lipgloss.Color("235")
	BgAccent = lipgloss.Color("236")

	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
	TextMuted     = lipgloss.Color("240")

	// Timeline colors. The ANSI codes match asciigraph's DodgerBlue,
	// DarkOrange and Red.
	GetsColor   = lipgloss.Color("33")
	PutsColor   = lipgloss.Color("208")
	ErrorsColor = lipgloss.Color("9")
)

// Layout.
var (
	DocStyle = lipgloss.NewStyle().Margin(1, 2).Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Subtle).
			Padding(1, 2).
			MarginBottom(1)

	CardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1)

	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1).
			MarginBottom(1)
)

// Text.
var (
	HelpStyle     = lipgloss.NewStyle().Foreground(TextMuted)
	HelpKeyStyle  = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	HelpDescStyle = lipgloss.NewStyle().Foreground(TextSecondary)

	HelpPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(Primary).
			Padding(1, 3).
			Background(BgDark)

	ErrorTextStyle   = lipgloss.NewStyle().Foreground(Error)
	SuccessTextStyle = lipgloss.NewStyle().Foreground(Success)
	WarningTextStyle = lipgloss.NewStyle().Foreground(Warning)
	InfoTextStyle    = lipgloss.NewStyle().Foreground(Info)

	// StatLabelStyle and StatValueStyle form the key/value rows of cards.
	StatLabelStyle = lipgloss.NewStyle().Foreground(TextSecondary).Width(16)
	StatValueStyle = lipgloss.NewStyle().Foreground(TextPrimary).Bold(true)

	// ProgressLabelStyle and ProgressPercentStyle frame the share bars.
	ProgressLabelStyle   = lipgloss.NewStyle().Foreground(TextSecondary).Width(20)
	ProgressPercentStyle = lipgloss.NewStyle().Foreground(TextPrimary).Width(6).Align(lipgloss.Right)
)

// Tables.
var (
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(Primary).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(Subtle)
	TableCellStyle     = lipgloss.NewStyle().Padding(0, 1)
	TableSelectedStyle = lipgloss.NewStyle().Background(BgAccent).Foreground(TextPrimary).Bold(true)
)

// CategoryStyle returns the style for a log line category.
func CategoryStyle(category string) lipgloss.Style {
	switch category {
	case "ERRO":
		return ErrorTextStyle
	case "WARN":
		return WarningTextStyle
	case "INFO":
		return InfoTextStyle
	case "START":
		return SuccessTextStyle.Bold(true)
	default:
		return HelpStyle
	}
}

// AgeBracketStyle returns the style for a vault age bracket name.
func AgeBracketStyle(bracket string) lipgloss.Style {
	switch bracket {
	case "Elder":
		return SuccessTextStyle.Bold(true)
	case "Adult":
		return SuccessTextStyle
	case "Infant":
		return WarningTextStyle
	default:
		return HelpStyle
	}
}

// CenterBoth centers content in a width x height box.
func CenterBoth(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
