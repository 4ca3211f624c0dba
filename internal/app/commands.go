package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/vault-dashboard-tui/internal/prefs"
	"github.com/j-veylop/vault-dashboard-tui/internal/services"
)

// DefaultTickInterval is how often sources are reloaded when no interval
// is configured.
const DefaultTickInterval = 2 * time.Second

// staleAfterTicks is how many missed refreshes mark the status bar stale.
const staleAfterTicks = 3

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// loadSourcesCmd snapshots every monitor and the debug window.
func loadSourcesCmd(svc Services) tea.Cmd {
	return func() tea.Msg {
		return SourcesLoadedMsg{
			Sources:     svc.MonitorSnapshots(),
			Diagnostics: svc.DebugDiagnostics(),
		}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(svc Services) tea.Cmd {
	ch, _ := svc.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// savePrefsCmd writes the preferences file off the UI goroutine.
func savePrefsCmd(path string, p prefs.Prefs) tea.Cmd {
	return func() tea.Msg {
		return PrefsSavedMsg{Err: prefs.Save(path, p)}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

// Notify returns a command that shows a toast of type t for its default
// duration.
func Notify(t NotificationType, message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{Type: t, Message: message, Duration: t.Duration()}
	}
}
