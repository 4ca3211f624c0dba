// Package app implements the main Bubble Tea application with tab-based navigation.
package app

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/vault-dashboard-tui/internal/models"
	"github.com/j-veylop/vault-dashboard-tui/internal/prefs"
	"github.com/j-veylop/vault-dashboard-tui/internal/services"
	"github.com/j-veylop/vault-dashboard-tui/internal/ui/styles"
)

// TabID represents the identifier for a tab in the application.
type TabID int

const (
	// TabDashboard shows the focused source.
	TabDashboard TabID = iota
	// TabSources lists every monitored source.
	TabSources
	// TabTimelines charts the focused source's timelines.
	TabTimelines
	// TabDebug shows parser diagnostics.
	TabDebug

	tabCount = 4
)

// String returns the string representation of the TabID.
func (t TabID) String() string {
	switch t {
	case TabDashboard:
		return "Dashboard"
	case TabSources:
		return "Sources"
	case TabTimelines:
		return "Timelines"
	case TabDebug:
		return "Debug"
	default:
		return "Unknown"
	}
}

// Key returns the identifier stored in the preferences file.
func (t TabID) Key() string {
	return strings.ToLower(t.String())
}

// ParseTabID is the inverse of Key. Unknown keys select the dashboard.
func ParseTabID(k string) TabID {
	for t := TabID(0); t < tabCount; t++ {
		if t.Key() == k {
			return t
		}
	}
	return TabDashboard
}

// Tab defines the interface that all tabs must implement.
type Tab interface {
	// Init initializes the tab and returns any initial commands.
	Init() tea.Cmd

	// Update handles messages and returns the updated tab and any commands.
	Update(msg tea.Msg) (Tab, tea.Cmd)

	// View renders the tab content.
	View() string

	// SetSize sets the available size for the tab.
	SetSize(width, height int)

	// ShortHelp returns key bindings for the short help view.
	ShortHelp() []key.Binding

	// FullHelp returns key bindings for the full help view.
	FullHelp() [][]key.Binding
}

// Services is the part of the service manager the UI depends on.
type Services interface {
	MonitorSnapshots() []services.MonitorSnapshot
	DebugDiagnostics() []models.Diagnostic
	Subscribe() (chan services.ServiceEvent, tea.Cmd)
}

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	Tab1       key.Binding
	Tab2       key.Binding
	Tab3       key.Binding
	Tab4       key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	NextSource key.Binding
	PrevSource key.Binding
	ZoomIn     key.Binding
	ZoomOut    key.Binding
	Help       key.Binding
	Quit       key.Binding
	Escape     key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab1:       key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "dashboard")),
		Tab2:       key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "sources")),
		Tab3:       key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "timelines")),
		Tab4:       key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "debug")),
		NextTab:    key.NewBinding(key.WithKeys("tab", "right"), key.WithHelp("tab/→", "next tab")),
		PrevTab:    key.NewBinding(key.WithKeys("shift+tab", "left"), key.WithHelp("shift+tab/←", "prev tab")),
		NextSource: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next log")),
		PrevSource: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev log")),
		ZoomIn:     key.NewBinding(key.WithKeys("i", "+"), key.WithHelp("i/+", "zoom in")),
		ZoomOut:    key.NewBinding(key.WithKeys("o", "-"), key.WithHelp("o/-", "zoom out")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Escape:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.NextSource, k.ZoomOut, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab1, k.Tab2, k.Tab3, k.Tab4},
		{k.NextTab, k.PrevTab},
		{k.NextSource, k.PrevSource, k.ZoomIn, k.ZoomOut},
		{k.Help, k.Quit},
	}
}

// Styles defines the application styles.
type Styles struct {
	TabBar      lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	Status      lipgloss.Style

	NotificationSuccess lipgloss.Style
	NotificationError   lipgloss.Style
	NotificationWarning lipgloss.Style
	NotificationInfo    lipgloss.Style

	Content lipgloss.Style
	Toast   lipgloss.Style

	Title     lipgloss.Style
	Subtle    lipgloss.Style
	Highlight lipgloss.Style
}

// DefaultStyles returns the default application styles.
func DefaultStyles() Styles {
	subtle := lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	highlight := lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	success := lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	warning := lipgloss.AdaptiveColor{Light: "#FF8C00", Dark: "#FF8C00"}
	errorColor := lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"}
	info := lipgloss.AdaptiveColor{Light: "#0087D7", Dark: "#5FAFFF"}

	s := Styles{}
	s.TabBar = lipgloss.NewStyle().Padding(0, 1).BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).BorderForeground(subtle)
	s.ActiveTab = lipgloss.NewStyle().Bold(true).Foreground(highlight).Padding(0, 2)
	s.InactiveTab = lipgloss.NewStyle().Foreground(subtle).Padding(0, 2)
	s.Status = lipgloss.NewStyle().Foreground(subtle).Padding(0, 1)

	s.NotificationSuccess = lipgloss.NewStyle().Foreground(success).Padding(0, 1)
	s.NotificationError = lipgloss.NewStyle().Foreground(errorColor).Bold(true).Padding(0, 1)
	s.NotificationWarning = lipgloss.NewStyle().Foreground(warning).Padding(0, 1)
	s.NotificationInfo = lipgloss.NewStyle().Foreground(info).Padding(0, 1)

	s.Content = lipgloss.NewStyle().Padding(1, 2)
	s.Toast = styles.ToastStyle

	s.Title = lipgloss.NewStyle().Bold(true).Foreground(highlight)
	s.Subtle = lipgloss.NewStyle().Foreground(subtle)
	s.Highlight = lipgloss.NewStyle().Foreground(highlight)

	return s
}

// Options configures a Model.
type Options struct {
	TickInterval time.Duration
	// PrefsPath is where tab and zoom changes are saved. Empty disables
	// saving.
	PrefsPath string
	Prefs     prefs.Prefs
	// InitialTab overrides the tab stored in Prefs when set.
	InitialTab *TabID
}

// Model is the main application model.
type Model struct {
	activeTab TabID
	tabs      []Tab
	tabNames  []string

	state    *State
	services Services
	keymap   KeyMap
	styles   Styles
	opts     Options

	spinner spinner.Model

	width  int
	height int

	showHelp bool
	ready    bool

	eventChannel chan services.ServiceEvent
}

// NewModel initializes a new application model. svc may be nil, in which
// case the model only renders what is put into its state.
func NewModel(svc Services, opts Options) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}

	state := NewState()
	state.SetGranularity(opts.Prefs.Granularity())

	active := ParseTabID(opts.Prefs.Tab)
	if opts.InitialTab != nil {
		active = *opts.InitialTab
	}

	names := make([]string, tabCount)
	for t := TabID(0); t < tabCount; t++ {
		names[t] = t.String()
	}

	return &Model{
		activeTab: active,
		tabNames:  names,
		tabs:      make([]Tab, tabCount),
		state:     state,
		services:  svc,
		keymap:    DefaultKeyMap(),
		styles:    DefaultStyles(),
		opts:      opts,
		spinner:   s,
	}
}

// SetTabs sets the tabs for the model.
func (m *Model) SetTabs(tabs []Tab) {
	m.tabs = tabs
	if m.width > 0 && m.height > 0 {
		m.updateTabSizes()
	}
}

// GetState returns the application state.
func (m *Model) GetState() *State {
	return m.state
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	m.state.SetLoadingNotification("Reading logs...")

	cmds := []tea.Cmd{
		m.spinner.Tick,
		tickCmd(m.opts.TickInterval),
	}

	if m.services != nil {
		cmds = append(cmds, subscribeToServicesCmd(m.services), loadSourcesCmd(m.services))
	}

	for _, tab := range m.tabs {
		if tab != nil {
			cmds = append(cmds, tab.Init())
		}
	}

	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)
	case tea.KeyMsg:
		// Keys the root model consumes are not passed on to the tab.
		if cmd, handled := m.handleKeyMsg(msg); handled {
			return m, cmd
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	default:
		cmds = append(cmds, m.handleAppMsg(msg)...)
	}

	if cmd := m.updateActiveTab(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleAppMsg(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case TickMsg:
		m.state.ClearExpiredNotifications()
		if m.services != nil {
			cmds = append(cmds, loadSourcesCmd(m.services))
		}
		cmds = append(cmds, tickCmd(m.opts.TickInterval))
	case SourcesLoadedMsg:
		m.state.SetSources(msg.Sources)
		m.state.SetDiagnostics(msg.Diagnostics)
		m.state.ClearLoadingNotification()
	case SubscriptionEventMsg:
		m.eventChannel = msg.Channel
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
	case ServiceEventMsg:
		cmds = append(cmds, m.handleServiceEvent(msg.Event))
		if m.eventChannel != nil {
			cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
		}
	case AddNotificationMsg:
		id := m.state.AddNotification(msg.Type, msg.Message, msg.Duration)
		if msg.Duration > 0 {
			cmds = append(cmds, clearNotificationCmd(id, msg.Duration))
		}
	case RemoveNotificationMsg:
		m.state.RemoveNotification(msg.ID)
	case ClearExpiredNotificationsMsg:
		m.state.ClearExpiredNotifications()
	case ErrorMsg:
		text := msg.Error.Error()
		if msg.Context != "" {
			text = msg.Context + ": " + text
		}
		cmds = append(cmds, Notify(NotificationError, text))
	case TabSwitchMsg:
		cmds = append(cmds, m.switchTab(msg.Tab))
	case ToggleHelpMsg:
		m.showHelp = !m.showHelp
	case FocusSourceMsg:
		m.state.SetFocusedIndex(msg.Index)
		cmds = append(cmds, m.focusChanged(), m.switchTab(TabDashboard))
	case PrefsSavedMsg:
		if msg.Err != nil {
			cmds = append(cmds, Notify(NotificationWarning, fmt.Sprintf("Preferences not saved: %v", msg.Err)))
		}
	}
	return cmds
}

func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.updateTabSizes()
}

func (m *Model) handleServiceEvent(event services.ServiceEvent) tea.Cmd {
	var cmds []tea.Cmd
	if m.services != nil {
		cmds = append(cmds, loadSourcesCmd(m.services))
	}

	switch e := event.(type) {
	case services.RestartEvent:
		text := fmt.Sprintf("Vault restarted: %s", filepath.Base(e.Path))
		if e.Version != "" {
			text += " (" + e.Version + ")"
		}
		cmds = append(cmds, Notify(NotificationInfo, text))
	case services.TruncatedEvent:
		cmds = append(cmds, Notify(NotificationWarning, fmt.Sprintf("Log truncated: %s", filepath.Base(e.Path))))
	case services.ErrorEvent:
		cmds = append(cmds, Notify(NotificationError, fmt.Sprintf("[%s] %v", e.Service, e.Error)))
	}

	return tea.Batch(cmds...)
}

func (m *Model) updateActiveTab(msg tea.Msg) tea.Cmd {
	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		var cmd tea.Cmd
		m.tabs[m.activeTab], cmd = m.tabs[m.activeTab].Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) updateTabSizes() {
	contentHeight := max(0, m.height-5)

	for _, tab := range m.tabs {
		if tab != nil {
			tab.SetSize(m.width, contentHeight)
		}
	}
}

func (m *Model) switchTab(t TabID) tea.Cmd {
	if t < 0 || int(t) >= len(m.tabs) || t == m.activeTab {
		return nil
	}
	m.activeTab = t
	m.updateTabSizes()
	return m.savePrefs()
}

func (m *Model) savePrefs() tea.Cmd {
	if m.opts.PrefsPath == "" {
		return nil
	}
	p := m.opts.Prefs.WithGranularity(m.state.Granularity())
	p.Tab = m.activeTab.Key()
	m.opts.Prefs = p
	return savePrefsCmd(m.opts.PrefsPath, p)
}

func (m *Model) focusChanged() tea.Cmd {
	idx := m.state.FocusedIndex()
	src, _ := m.state.FocusedSource()
	return func() tea.Msg {
		return FocusChangedMsg{Index: idx, Path: src.Path}
	}
}

func (m *Model) zoomed() tea.Cmd {
	g := m.state.Granularity()
	return tea.Batch(
		func() tea.Msg { return GranularityChangedMsg{Granularity: g} },
		m.savePrefs(),
	)
}

// handleKeyMsg handles global keys and reports whether the key was
// consumed.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return tea.Quit, true

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		return nil, true

	case key.Matches(msg, m.keymap.Escape):
		if m.showHelp {
			m.showHelp = false
			return nil, true
		}
		return nil, false

	case key.Matches(msg, m.keymap.Tab1):
		return m.switchTab(TabDashboard), true
	case key.Matches(msg, m.keymap.Tab2):
		return m.switchTab(TabSources), true
	case key.Matches(msg, m.keymap.Tab3):
		return m.switchTab(TabTimelines), true
	case key.Matches(msg, m.keymap.Tab4):
		return m.switchTab(TabDebug), true

	case key.Matches(msg, m.keymap.NextTab):
		if m.showHelp || len(m.tabs) == 0 {
			return nil, true
		}
		return m.switchTab(TabID((int(m.activeTab) + 1) % len(m.tabs))), true

	case key.Matches(msg, m.keymap.PrevTab):
		if m.showHelp || len(m.tabs) == 0 {
			return nil, true
		}
		return m.switchTab(TabID((int(m.activeTab) - 1 + len(m.tabs)) % len(m.tabs))), true

	case key.Matches(msg, m.keymap.NextSource):
		m.state.FocusNext()
		return m.focusChanged(), true

	case key.Matches(msg, m.keymap.PrevSource):
		m.state.FocusPrev()
		return m.focusChanged(), true

	case key.Matches(msg, m.keymap.ZoomIn):
		if m.state.ZoomIn() {
			return m.zoomed(), true
		}
		return nil, true

	case key.Matches(msg, m.keymap.ZoomOut):
		if m.state.ZoomOut() {
			return m.zoomed(), true
		}
		return nil, true
	}

	return nil, false
}

// View renders the application UI.
func (m *Model) View() string {
	var b strings.Builder

	if m.width > 0 {
		b.WriteString(m.renderNavbar())
		b.WriteString("\n")
	}

	if !m.ready {
		b.WriteString(m.styles.Content.Render(fmt.Sprintf("%s Loading...", m.spinner.View())))
		return b.String()
	}

	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		b.WriteString(m.tabs[m.activeTab].View())
	} else {
		b.WriteString(m.renderPlaceholder())
	}

	mainView := b.String()

	if m.showHelp {
		mainView = m.overlayCentered(mainView, m.renderHelp())
	}

	if toasts := m.renderNotifications(); len(toasts) > 0 {
		return m.overlayToasts(mainView, toasts)
	}

	return mainView
}

// padLines splits view into at least m.height lines so overlays have
// rows to land on.
func (m *Model) padLines(view string) []string {
	lines := strings.Split(view, "\n")
	for len(lines) < m.height {
		lines = append(lines, "")
	}
	return lines
}

func (m *Model) overlayCentered(mainView string, overlay string) string {
	mainLines := m.padLines(mainView)
	overlayLines := strings.Split(overlay, "\n")

	overlayWidth := lipgloss.Width(overlay)

	y := max((m.height-len(overlayLines))/2, 0)
	x := max((m.width-overlayWidth)/2, 0)

	for i, overlayLine := range overlayLines {
		mainY := y + i
		if mainY >= len(mainLines) {
			break
		}

		mainLine := mainLines[mainY]

		left := ansi.Truncate(mainLine, x, "")
		right := ansi.TruncateLeft(mainLine, x+overlayWidth, "")

		if lipgloss.Width(left) < x {
			left += strings.Repeat(" ", x-lipgloss.Width(left))
		}

		mainLines[mainY] = left + overlayLine + right
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) renderNavbar() string {
	tabs := make([]string, 0, len(m.tabNames))

	for i, name := range m.tabNames {
		if TabID(i) == m.activeTab {
			tabs = append(tabs, m.styles.ActiveTab.Render(fmt.Sprintf("[%d] %s", i+1, name)))
		} else {
			tabs = append(tabs, m.styles.InactiveTab.Render(fmt.Sprintf(" %d  %s", i+1, name)))
		}
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if room := m.width - lipgloss.Width(bar) - 4; room > 0 {
		bar += m.styles.Status.Render(ansi.Truncate(m.statusText(), room-2, "…"))
	}

	return m.styles.TabBar.Width(m.width).Render(bar)
}

// statusText summarises which log is focused and the timeline zoom, and
// flags a refresh that is overdue.
func (m *Model) statusText() string {
	text := "timeline " + m.state.Granularity().String()
	if n := m.state.SourceCount(); n > 0 {
		src, _ := m.state.FocusedSource()
		text = fmt.Sprintf("log %d/%d %s · %s", m.state.FocusedIndex()+1, n, filepath.Base(src.Path), text)
	}
	if since := m.state.TimeSinceUpdate(); since >= staleAfterTicks*m.opts.TickInterval {
		text += " · stale " + since.Truncate(time.Second).String()
	}
	return text
}

func (m *Model) renderNotifications() []string {
	notifications := m.state.GetNotifications()
	if len(notifications) == 0 {
		return nil
	}

	toasts := make([]string, 0, len(notifications))
	for _, n := range notifications {
		var style lipgloss.Style
		var prefix string

		switch n.Type {
		case NotificationSuccess:
			style = m.styles.NotificationSuccess
			prefix = "[OK]"
		case NotificationError:
			style = m.styles.NotificationError
			prefix = "[ERR]"
		case NotificationWarning:
			style = m.styles.NotificationWarning
			prefix = "[WARN]"
		case NotificationInfo:
			style = m.styles.NotificationInfo
			prefix = "[INFO]"
		case NotificationLoading:
			style = m.styles.NotificationInfo
			prefix = m.spinner.View()
		}

		content := style.Render(fmt.Sprintf("%s %s", prefix, n.Message))
		toasts = append(toasts, m.styles.Toast.Render(content))
	}

	return toasts
}

func (m *Model) overlayToasts(mainView string, toasts []string) string {
	toastStack := lipgloss.JoinVertical(lipgloss.Right, toasts...)
	toastLines := strings.Split(toastStack, "\n")
	mainLines := m.padLines(mainView)

	startX := max(m.width-lipgloss.Width(toastStack)-2, 0)
	startY := 2

	for i, toastLine := range toastLines {
		lineIdx := startY + i
		if lineIdx >= len(mainLines) {
			break
		}

		mainLine := mainLines[lineIdx]
		if w := lipgloss.Width(mainLine); w < startX {
			mainLines[lineIdx] = mainLine + strings.Repeat(" ", startX-w) + toastLine
		} else {
			mainLines[lineIdx] = ansi.Truncate(mainLine, startX, "") + toastLine
		}
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) renderHelp() string {
	var lines []string

	lines = append(lines, m.styles.Title.Render("Keyboard Shortcuts"), "")

	for _, group := range m.keymap.FullHelp() {
		for _, binding := range group {
			lines = append(lines, helpLine(binding))
		}
		lines = append(lines, "")
	}

	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		if tabHelp := m.tabs[m.activeTab].ShortHelp(); len(tabHelp) > 0 {
			lines = append(lines, m.styles.Highlight.Render(fmt.Sprintf("%s Tab", m.tabNames[m.activeTab])))
			for _, binding := range tabHelp {
				lines = append(lines, helpLine(binding))
			}
			lines = append(lines, "")
		}
	}

	lines = append(lines, m.styles.Subtle.Render("Press ? or Esc to close"))

	return styles.HelpPanelStyle.Render(strings.Join(lines, "\n"))
}

func helpLine(b key.Binding) string {
	return "  " + styles.HelpKeyStyle.Width(13).Render(b.Help().Key) + styles.HelpDescStyle.Render(b.Help().Desc)
}

func (m *Model) renderPlaceholder() string {
	content := fmt.Sprintf(
		"Tab %d: %s\n\n%s",
		m.activeTab+1,
		m.tabNames[m.activeTab],
		m.styles.Subtle.Render("This tab is not available."),
	)
	return m.styles.Content.Render(content)
}
