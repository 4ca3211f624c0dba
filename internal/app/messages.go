package app

import (
	"time"

	"github.com/j-veylop/vault-dashboard-tui/internal/models"
	"github.com/j-veylop/vault-dashboard-tui/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// SourcesLoadedMsg carries fresh snapshots of every monitored source.
type SourcesLoadedMsg struct {
	Sources     []services.MonitorSnapshot
	Diagnostics []models.Diagnostic
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}

// FocusSourceMsg requests focusing the source at Index and showing it on
// the dashboard.
type FocusSourceMsg struct {
	Index int
}

// FocusChangedMsg is sent to tabs after the focused source changed.
type FocusChangedMsg struct {
	Index int
	Path  string
}

// GranularityChangedMsg is sent to tabs after a zoom.
type GranularityChangedMsg struct {
	Granularity models.Granularity
}

// PrefsSavedMsg reports the outcome of writing the preferences file.
type PrefsSavedMsg struct {
	Err error
}
