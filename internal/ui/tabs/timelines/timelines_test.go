package timelines

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/vault-dashboard-tui/internal/app"
	"github.com/j-veylop/vault-dashboard-tui/internal/metrics"
	"github.com/j-veylop/vault-dashboard-tui/internal/models"
	"github.com/j-veylop/vault-dashboard-tui/internal/services"
)

const nodeLog = "/var/log/vault/node.log"

type fakeHistory struct {
	starts []models.StartEvent
	err    error
	calls  []string
}

func (f *fakeHistory) RecentStarts(path string, limit int) ([]models.StartEvent, error) {
	f.calls = append(f.calls, path)
	if limit != recentStartsLimit {
		return nil, errors.New("unexpected limit")
	}
	return f.starts, f.err
}

func stateWithSource() *app.State {
	state := app.NewState()
	state.SetSources([]services.MonitorSnapshot{{
		Path: nodeLog,
		Metrics: metrics.Snapshot{
			Name: nodeLog,
			Timelines: map[string]map[models.Granularity][]uint64{
				metrics.TimelineGets: {
					models.GranularityMinute: {1, 2, 3},
					models.GranularityHour:   {6},
				},
				metrics.TimelinePuts: {
					models.GranularityMinute: {0, 1, 1},
				},
			},
		},
	}})
	return state
}

func TestModel_View_NoSources(t *testing.T) {
	m := New(app.NewState(), nil)
	m.SetSize(100, 40)
	if !strings.Contains(m.View(), "No timelines to show") {
		t.Error("View should explain that nothing is monitored")
	}
}

func TestModel_View_Combined(t *testing.T) {
	m := New(stateWithSource(), nil)
	m.SetSize(120, 80)

	view := m.View()
	for _, want := range []string{"Timelines", nodeLog, "1 minute", "3 shown", "Gets (6)", "Puts (2)", "Errors (0)", "Layout: combined"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}
	if !strings.Contains(view, "No diagnostics journal configured") {
		t.Error("View should note the missing journal")
	}
}

func TestModel_View_FollowsGranularity(t *testing.T) {
	state := stateWithSource()
	state.SetGranularity(models.GranularityHour)
	m := New(state, nil)
	m.SetSize(120, 80)

	view := m.View()
	if !strings.Contains(view, "1 hour") || !strings.Contains(view, "1 shown") {
		t.Error("View should render the hourly buckets")
	}
}

func TestModel_ToggleLayout(t *testing.T) {
	m := New(stateWithSource(), nil)
	m.SetSize(120, 80)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	if cmd != nil {
		t.Error("toggling the layout should not return a command")
	}
	if m.combined {
		t.Fatal("t should switch to separate charts")
	}

	view := m.View()
	if !strings.Contains(view, "Layout: separate") {
		t.Error("View should report the separate layout")
	}
	if !strings.Contains(view, "No data available") {
		t.Error("empty errors timeline should render a placeholder chart")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	if !m.combined {
		t.Error("second t should switch back to the combined chart")
	}
}

func TestModel_LoadStarts(t *testing.T) {
	started := time.Date(2022, 3, 5, 10, 0, 0, 0, time.UTC)
	history := &fakeHistory{starts: []models.StartEvent{
		{Source: nodeLog, Version: "0.24.0", StartedAt: started},
		{Source: nodeLog, ObservedAt: started.Add(-time.Hour)},
	}}
	m := New(stateWithSource(), history)
	m.SetSize(120, 80)

	_, cmd := m.Update(app.SourcesLoadedMsg{})
	if cmd == nil {
		t.Fatal("first sources load should fetch the restart history")
	}
	msg := cmd()
	if len(history.calls) != 1 || history.calls[0] != nodeLog {
		t.Fatalf("RecentStarts calls = %v", history.calls)
	}

	if _, cmd := m.Update(msg); cmd != nil {
		t.Error("a successful load should not notify")
	}

	view := m.View()
	for _, want := range []string{"Recent restarts", "2022-03-05 10:00:00", "0.24.0", "2022-03-05 09:00:00", "unknown version"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}

	if _, cmd := m.Update(app.SourcesLoadedMsg{}); cmd != nil {
		t.Error("history should not reload while the focused log is unchanged")
	}

	_, cmd = m.Update(app.ServiceEventMsg{Event: services.RestartEvent{Path: nodeLog}})
	if cmd == nil {
		t.Error("a restart should reload the history")
	}
}

func TestModel_LoadStartsError(t *testing.T) {
	history := &fakeHistory{err: errors.New("database is locked")}
	m := New(stateWithSource(), history)
	m.SetSize(120, 80)

	_, cmd := m.Update(app.FocusChangedMsg{Index: 0, Path: nodeLog})
	if cmd == nil {
		t.Fatal("focus change should fetch the restart history")
	}

	_, cmd = m.Update(cmd())
	if cmd == nil {
		t.Fatal("a failed load should notify")
	}
	note, ok := cmd().(app.AddNotificationMsg)
	if !ok {
		t.Fatalf("expected AddNotificationMsg, got %T", cmd())
	}
	if note.Type != app.NotificationError || !strings.Contains(note.Message, "database is locked") {
		t.Errorf("notification = %+v", note)
	}
	if !strings.Contains(m.View(), "database is locked") {
		t.Error("View should show the load error")
	}
}

func TestModel_NoHistory(t *testing.T) {
	m := New(stateWithSource(), nil)
	if _, cmd := m.Update(app.SourcesLoadedMsg{}); cmd != nil {
		t.Error("without a journal nothing should be loaded")
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState(), nil)
	if len(m.ShortHelp()) != 1 {
		t.Errorf("ShortHelp length = %d, want 1", len(m.ShortHelp()))
	}
	if len(m.FullHelp()) != 2 {
		t.Errorf("FullHelp length = %d, want 2", len(m.FullHelp()))
	}
	if m.Init() != nil {
		t.Error("Init should not return a command")
	}
}
