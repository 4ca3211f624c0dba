package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/vault-dashboard-tui/internal/models"
	"github.com/j-veylop/vault-dashboard-tui/internal/prefs"
	"github.com/j-veylop/vault-dashboard-tui/internal/services"
)

// fakeServices serves canned snapshots and a subscription channel.
type fakeServices struct {
	sources []services.MonitorSnapshot
	diags   []models.Diagnostic
	ch      chan services.ServiceEvent
}

func newFakeServices(paths ...string) *fakeServices {
	return &fakeServices{
		sources: snapshots(paths...),
		diags:   []models.Diagnostic{{Source: "a", Output: "c: INFO"}},
		ch:      make(chan services.ServiceEvent, 4),
	}
}

func (f *fakeServices) MonitorSnapshots() []services.MonitorSnapshot { return f.sources }

func (f *fakeServices) DebugDiagnostics() []models.Diagnostic { return f.diags }

func (f *fakeServices) Subscribe() (chan services.ServiceEvent, tea.Cmd) {
	return f.ch, services.WaitForEvent(f.ch)
}

func TestTickCmd(t *testing.T) {
	msg := tickCmd(time.Millisecond)()
	if _, ok := msg.(TickMsg); !ok {
		t.Errorf("Expected TickMsg, got %T", msg)
	}
}

func TestLoadSourcesCmd(t *testing.T) {
	svc := newFakeServices("a.log", "b.log")
	msg, ok := loadSourcesCmd(svc)().(SourcesLoadedMsg)
	if !ok {
		t.Fatal("Expected SourcesLoadedMsg")
	}
	if len(msg.Sources) != 2 || len(msg.Diagnostics) != 1 {
		t.Errorf("SourcesLoadedMsg = %+v", msg)
	}
}

func TestSubscribeAndWait(t *testing.T) {
	svc := newFakeServices()
	sub, ok := subscribeToServicesCmd(svc)().(SubscriptionEventMsg)
	if !ok {
		t.Fatal("Expected SubscriptionEventMsg")
	}

	svc.ch <- services.TruncatedEvent{Path: "a.log"}
	msg, ok := waitForServiceEventCmd(sub.Channel)().(ServiceEventMsg)
	if !ok {
		t.Fatal("Expected ServiceEventMsg")
	}
	if e, ok := msg.Event.(services.TruncatedEvent); !ok || e.Path != "a.log" {
		t.Errorf("Event = %#v", msg.Event)
	}

	close(svc.ch)
	if got := waitForServiceEventCmd(sub.Channel)(); got != nil {
		t.Errorf("closed channel should yield nil, got %T", got)
	}
}

func TestNotify(t *testing.T) {
	tests := []struct {
		typ      NotificationType
		duration time.Duration
	}{
		{NotificationSuccess, 5 * time.Second},
		{NotificationError, 10 * time.Second},
		{NotificationWarning, 5 * time.Second},
		{NotificationInfo, 3 * time.Second},
		{NotificationLoading, 0},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			addMsg, ok := Notify(tt.typ, "msg")().(AddNotificationMsg)
			if !ok {
				t.Fatal("expected AddNotificationMsg")
			}
			if addMsg.Type != tt.typ {
				t.Errorf("Type = %v, want %v", addMsg.Type, tt.typ)
			}
			if addMsg.Message != "msg" {
				t.Errorf("Message = %q, want msg", addMsg.Message)
			}
			if addMsg.Duration != tt.duration {
				t.Errorf("Duration = %v, want %v", addMsg.Duration, tt.duration)
			}
		})
	}
}

func TestClearNotificationCmd(t *testing.T) {
	msg := clearNotificationCmd("id", time.Millisecond)()
	if rm, ok := msg.(RemoveNotificationMsg); !ok || rm.ID != "id" {
		t.Errorf("Expected RemoveNotificationMsg{id}, got %#v", msg)
	}
}

func TestSavePrefsCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	p := prefs.Default().WithGranularity(models.GranularityDay)

	msg, ok := savePrefsCmd(path, p)().(PrefsSavedMsg)
	if !ok {
		t.Fatal("Expected PrefsSavedMsg")
	}
	if msg.Err != nil {
		t.Fatalf("save failed: %v", msg.Err)
	}

	got, err := prefs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Granularity() != models.GranularityDay {
		t.Errorf("saved granularity = %v, want day", got.Granularity())
	}
}

func TestSavePrefsCmd_Error(t *testing.T) {
	// A file where a directory is expected makes MkdirAll fail.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	msg := savePrefsCmd(filepath.Join(blocker, "prefs.toml"), prefs.Default())().(PrefsSavedMsg)
	if msg.Err == nil {
		t.Error("expected an error")
	}
}
