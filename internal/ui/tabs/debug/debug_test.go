package debug

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/vault-dashboard-tui/internal/app"
	"github.com/j-veylop/vault-dashboard-tui/internal/config"
	"github.com/j-veylop/vault-dashboard-tui/internal/models"
	"github.com/j-veylop/vault-dashboard-tui/internal/services"
)

type fakeJournal struct {
	byPath map[string][]models.Diagnostic
	err    error
	paths  []string
}

func (f *fakeJournal) JournaledDiagnostics(path string, limit int) ([]models.Diagnostic, error) {
	f.paths = append(f.paths, path)
	if f.err != nil {
		return nil, f.err
	}
	diags := f.byPath[path]
	if len(diags) > limit {
		diags = diags[:limit]
	}
	return diags, nil
}

// deliver runs cmd and feeds its message back into the model.
func deliver(t *testing.T, m *Model, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a journal read command")
	}
	_, next := m.Update(cmd())
	return next
}

func testConfig() *config.Config {
	return &config.Config{
		Files:         []string{"/var/log/vault/a.log", "/var/log/vault/b.log"},
		AppName:       "safe-vault",
		LinesMax:      100,
		TimelineSteps: 100,
		DebugWindow:   true,
		MetricsAddr:   ":9100",
		TickInterval:  2 * time.Second,
	}
}

func stateWithDiagnostics() *app.State {
	state := app.NewState()
	state.SetSources([]services.MonitorSnapshot{
		{Index: 0, Path: "/var/log/vault/a.log"},
		{Index: 1, Path: "/var/log/vault/b.log"},
	})
	state.SetDiagnostics([]models.Diagnostic{
		{Source: "/var/log/vault/a.log", Line: "INFO first line", Output: "c: INFO, first"},
		{Source: "/var/log/vault/b.log", Line: "garbage", Output: "failed to decode: garbage"},
		{Source: "/var/log/vault/a.log", Line: "Running safe-vault 0.24.0", Output: "START at 2022-03-05"},
	})
	return state
}

func TestNew(t *testing.T) {
	m := New(app.NewState(), nil, nil)
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() != nil {
		t.Error("Init should not return a command")
	}
}

func TestModel_View(t *testing.T) {
	m := New(stateWithDiagnostics(), testConfig(), nil)
	m.SetSize(120, 80)

	view := m.View()
	for _, want := range []string{
		"Debug", "Diagnostics", "a.log", "b.log",
		"failed to decode: garbage", "START at 2022-03-05",
		"Configuration", "safe-vault", ":9100", "2s",
		"About Vault Dashboard", "Logs: 2",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}
}

func TestModel_View_NewestFirst(t *testing.T) {
	m := New(stateWithDiagnostics(), testConfig(), nil)
	m.SetSize(120, 80)

	view := m.View()
	newest := strings.Index(view, "START at")
	oldest := strings.Index(view, "c: INFO")
	if newest < 0 || oldest < 0 || newest > oldest {
		t.Error("diagnostics should be listed newest first")
	}
}

func TestModel_View_DebugWindowDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.DebugWindow = false
	m := New(stateWithDiagnostics(), cfg, nil)
	m.SetSize(120, 80)

	view := m.View()
	if !strings.Contains(view, "--debug-window") {
		t.Error("View should explain how to enable the debug window")
	}
	if strings.Contains(view, "failed to decode") {
		t.Error("diagnostics should be hidden when the debug window is off")
	}
}

func TestModel_View_Empty(t *testing.T) {
	m := New(app.NewState(), nil, nil)
	m.SetSize(80, 40)

	view := m.View()
	if !strings.Contains(view, "No diagnostics yet") {
		t.Error("View should show the empty diagnostics state")
	}
	if !strings.Contains(view, "Configuration not loaded") {
		t.Error("View should note the missing configuration")
	}
}

func TestModel_FilterFocused(t *testing.T) {
	state := stateWithDiagnostics()
	state.SetFocusedIndex(1)
	m := New(state, testConfig(), nil)
	m.SetSize(120, 80)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	if cmd != nil {
		t.Error("filter toggle should not return a command")
	}
	if updated == nil {
		t.Fatal("Update returned nil model")
	}

	view := m.View()
	if !strings.Contains(view, "(focused log)") {
		t.Error("title should mark the focused filter")
	}
	if strings.Contains(view, "START at") {
		t.Error("diagnostics of other logs should be hidden")
	}
	if !strings.Contains(view, "failed to decode") {
		t.Error("diagnostics of the focused log should be shown")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	if m.focusedOnly {
		t.Error("second f should clear the filter")
	}
}

func TestModel_IgnoresOtherMessages(t *testing.T) {
	m := New(app.NewState(), nil, nil)
	if _, cmd := m.Update(app.TickMsg{}); cmd != nil {
		t.Error("non-key messages should be ignored")
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState(), nil, nil)
	if len(m.ShortHelp()) != 1 {
		t.Errorf("ShortHelp length = %d, want 1", len(m.ShortHelp()))
	}
	if len(m.FullHelp()) != 2 {
		t.Errorf("FullHelp length = %d, want 2", len(m.FullHelp()))
	}
}

func TestModel_Journal(t *testing.T) {
	journal := &fakeJournal{byPath: map[string][]models.Diagnostic{
		"": {
			{Source: "/var/log/vault/b.log", Line: "newest", Output: "journal entry two"},
			{Source: "/var/log/vault/a.log", Line: "oldest", Output: "journal entry one"},
		},
		"/var/log/vault/b.log": {
			{Source: "/var/log/vault/b.log", Line: "newest", Output: "journal entry two"},
		},
	}}
	state := stateWithDiagnostics()
	state.SetFocusedIndex(1)
	cfg := testConfig()
	cfg.DebugWindow = false

	m := New(state, cfg, journal)
	m.SetSize(120, 80)

	_, cmd := m.Update(app.SourcesLoadedMsg{})
	if next := deliver(t, m, cmd); next != nil {
		t.Error("a successful read should not notify")
	}

	view := m.View()
	if !strings.Contains(view, "Diagnostics journal") {
		t.Error("title should name the journal")
	}
	if strings.Contains(view, "--debug-window") {
		t.Error("the journal does not depend on the debug window")
	}
	if strings.Contains(view, "failed to decode") {
		t.Error("the in-memory window should not be listed when a journal is open")
	}
	two, one := strings.Index(view, "journal entry two"), strings.Index(view, "journal entry one")
	if two < 0 || one < 0 || two > one {
		t.Error("journal entries should be listed in the order read")
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	deliver(t, m, cmd)

	view = m.View()
	if strings.Contains(view, "journal entry one") {
		t.Error("the focused filter should read only the focused log")
	}
	if !strings.Contains(view, "journal entry two") {
		t.Error("entries of the focused log should be shown")
	}
	if got := journal.paths; len(got) != 2 || got[0] != "" || got[1] != "/var/log/vault/b.log" {
		t.Errorf("journal read for %q, want every log then b.log", got)
	}
}

func TestModel_JournalStaleRead(t *testing.T) {
	journal := &fakeJournal{byPath: map[string][]models.Diagnostic{
		"": {{Source: "/var/log/vault/a.log", Line: "x", Output: "from every log"}},
	}}
	state := stateWithDiagnostics()
	state.SetFocusedIndex(1)
	m := New(state, testConfig(), journal)
	m.SetSize(120, 80)

	_, stale := m.Update(app.TickMsg{})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	deliver(t, m, stale)

	if strings.Contains(m.View(), "from every log") {
		t.Error("a read made before the filter changed should be dropped")
	}
}

func TestModel_JournalError(t *testing.T) {
	journal := &fakeJournal{err: errors.New("database is locked")}
	m := New(stateWithDiagnostics(), testConfig(), journal)
	m.SetSize(120, 80)

	_, cmd := m.Update(app.TickMsg{})
	if next := deliver(t, m, cmd); next == nil {
		t.Error("a failed read should notify")
	}
	if !strings.Contains(m.View(), "database is locked") {
		t.Error("View should show the journal error")
	}
}
