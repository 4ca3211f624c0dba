// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"strconv"
	"sync"
	"time"

	"github.com/j-veylop/vault-dashboard-tui/internal/models"
	"github.com/j-veylop/vault-dashboard-tui/internal/services"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Duration returns how long a toast of this type stays on screen. Loading
// notifications stay until cleared.
func (n NotificationType) Duration() time.Duration {
	switch n {
	case NotificationError:
		return 10 * time.Second
	case NotificationInfo:
		return 3 * time.Second
	case NotificationLoading:
		return 0
	default:
		return 5 * time.Second
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// State is shared between the root model and the tabs. Tabs only read it;
// the root model writes it in response to messages.
type State struct {
	mu sync.RWMutex

	sources     []services.MonitorSnapshot
	diagnostics []models.Diagnostic
	focused     int
	granularity models.Granularity

	initialLoading bool
	lastUpdated    time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates an empty state that is still loading.
func NewState() *State {
	return &State{
		granularity:    models.GranularityMinute,
		initialLoading: true,
		notifications:  make([]Notification, 0),
	}
}

// IsInitialLoading returns true until the first sources were loaded.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialLoading
}

// SetSources replaces the source snapshots. The focused index is clamped
// to the new list.
func (s *State) SetSources(sources []services.MonitorSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sources = sources
	s.initialLoading = false
	s.lastUpdated = time.Now()
	s.focused = clampIndex(s.focused, len(sources))
}

// GetSources returns a copy of the source list.
func (s *State) GetSources() []services.MonitorSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sources := make([]services.MonitorSnapshot, len(s.sources))
	copy(sources, s.sources)
	return sources
}

// SourceCount returns the number of monitored sources.
func (s *State) SourceCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sources)
}

// FocusedIndex returns the index of the source shown on the dashboard.
func (s *State) FocusedIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.focused
}

// FocusedSource returns the snapshot of the focused source.
func (s *State) FocusedSource() (services.MonitorSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.focused < 0 || s.focused >= len(s.sources) {
		return services.MonitorSnapshot{}, false
	}
	return s.sources[s.focused], true
}

// SetFocusedIndex focuses the source at idx, clamped to the source list.
func (s *State) SetFocusedIndex(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focused = clampIndex(idx, len(s.sources))
}

// FocusNext focuses the next source, wrapping around.
func (s *State) FocusNext() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.sources); n > 0 {
		s.focused = (s.focused + 1) % n
	}
	return s.focused
}

// FocusPrev focuses the previous source, wrapping around.
func (s *State) FocusPrev() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.sources); n > 0 {
		s.focused = (s.focused - 1 + n) % n
	}
	return s.focused
}

func clampIndex(idx, n int) int {
	if n == 0 || idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

// SetDiagnostics replaces the debug window contents.
func (s *State) SetDiagnostics(diags []models.Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diagnostics = diags
}

// GetDiagnostics returns a copy of the debug window, oldest first.
func (s *State) GetDiagnostics() []models.Diagnostic {
	s.mu.RLock()
	defer s.mu.RUnlock()

	diags := make([]models.Diagnostic, len(s.diagnostics))
	copy(diags, s.diagnostics)
	return diags
}

// Granularity returns the timeline granularity being displayed.
func (s *State) Granularity() models.Granularity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.granularity
}

// SetGranularity selects the timeline granularity. Invalid values are
// ignored.
func (s *State) SetGranularity(g models.Granularity) {
	if !g.Valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.granularity = g
}

// ZoomIn switches to the next finer granularity, stopping at minutes. It
// reports whether the granularity changed.
func (s *State) ZoomIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.granularity == models.GranularityMinute {
		return false
	}
	s.granularity = s.granularity.Prev()
	return true
}

// ZoomOut switches to the next coarser granularity, stopping at years. It
// reports whether the granularity changed.
func (s *State) ZoomOut() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.granularity == models.GranularityYear {
		return false
	}
	s.granularity = s.granularity.Next()
	return true
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + strconv.Itoa(s.notificationSeq)

	s.notifications = append(s.notifications, Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	})

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
}

func (s *State) removeLocked(id string) {
	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(LoadingNotificationID)
}

// TimeSinceUpdate returns the duration since the last refresh.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.lastUpdated)
}
