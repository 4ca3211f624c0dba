package dashboard

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/vault-dashboard-tui/internal/app"
	"github.com/j-veylop/vault-dashboard-tui/internal/metrics"
	"github.com/j-veylop/vault-dashboard-tui/internal/models"
	"github.com/j-veylop/vault-dashboard-tui/internal/services"
)

func sampleSource() services.MonitorSnapshot {
	started := time.Date(2022, 3, 5, 10, 0, 0, 0, time.UTC)
	return services.MonitorSnapshot{
		Path: "/var/log/vault/node.log",
		Content: []string{
			"Running safe-vault 0.24.0",
			"INFO 2022-03-05T10:00:00.000000000+00:00 [src/node.rs:10] Vault promoted to Elder",
		},
		Metrics: metrics.Snapshot{
			Name:           "/var/log/vault/node.log",
			StartedAt:      started,
			RunningMessage: "Running safe-vault 0.24.0",
			Version:        "0.24.0",
			MostRecent:     started.Add(90 * time.Minute),
			AgeBracket:     models.AgeBracketElder,
			Adults:         3,
			Elders:         7,
			Gets:           6,
			Puts:           2,
			LinesSeen:      10,
			CategoryCounts: map[string]uint64{"INFO": 9, "START": 1},
			Timelines: map[string]map[models.Granularity][]uint64{
				metrics.TimelineGets: {models.GranularityMinute: {1, 2, 3}},
			},
		},
	}
}

func TestNew(t *testing.T) {
	m := New(app.NewState())
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() == nil {
		t.Error("Init should start the spinner")
	}
}

func TestModel_View_Loading(t *testing.T) {
	m := New(app.NewState())
	m.SetSize(80, 24)
	if !strings.Contains(m.View(), "Reading logs") {
		t.Error("View should show the spinner label while loading")
	}
}

func TestModel_View_NoSources(t *testing.T) {
	state := app.NewState()
	state.SetSources(nil)
	m := New(state)
	m.SetSize(80, 24)
	if !strings.Contains(m.View(), "No logs") {
		t.Error("View should explain that nothing is monitored")
	}
}

func TestModel_View(t *testing.T) {
	state := app.NewState()
	state.SetSources([]services.MonitorSnapshot{sampleSource()})

	m := New(state)
	m.SetSize(120, 200)
	view := m.View()

	for _, want := range []string{
		"node.log",
		"0.24.0",
		"Elder",
		"1h 30m 0s",
		"Activity (8)",
		"gets",
		"75%",
		"INFO",
		"Vault promoted to Elder",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View should contain %q", want)
		}
	}
}

func TestModel_View_NoStart(t *testing.T) {
	state := app.NewState()
	state.SetSources([]services.MonitorSnapshot{{Path: "empty.log"}})

	m := New(state)
	m.SetSize(100, 80)
	view := m.View()
	if !strings.Contains(view, "no start line seen") {
		t.Error("View should show the missing start line")
	}
	if !strings.Contains(view, "Waiting for log lines") {
		t.Error("View should show the empty log placeholder")
	}
}

func TestModel_Update(t *testing.T) {
	state := app.NewState()
	state.SetSources([]services.MonitorSnapshot{sampleSource()})
	m := New(state)
	m.SetSize(80, 10)
	m.View()

	keys := []tea.KeyMsg{
		{Type: tea.KeyDown},
		{Type: tea.KeyUp},
		{Type: tea.KeyRunes, Runes: []rune{'G'}},
		{Type: tea.KeyRunes, Runes: []rune{'g'}},
	}
	for _, k := range keys {
		if updated, _ := m.Update(k); updated == nil {
			t.Fatal("Update returned nil model")
		}
	}

	m.Update(app.FocusChangedMsg{Index: 0})
	if m.viewport.YOffset != 0 {
		t.Errorf("focus change should scroll to top, offset %d", m.viewport.YOffset)
	}

	if _, cmd := m.Update(spinner.TickMsg{}); cmd == nil {
		t.Error("spinner tick should return a command")
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState())
	if len(m.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(m.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}
