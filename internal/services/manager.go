// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/vault-dashboard-tui/internal/config"
	"github.com/j-veylop/vault-dashboard-tui/internal/db"
	"github.com/j-veylop/vault-dashboard-tui/internal/exporter"
	"github.com/j-veylop/vault-dashboard-tui/internal/logger"
	"github.com/j-veylop/vault-dashboard-tui/internal/metrics"
	"github.com/j-veylop/vault-dashboard-tui/internal/models"
	"github.com/j-veylop/vault-dashboard-tui/internal/services/tailer"
)

// DebugWindowMax is how many diagnostics the debug window keeps.
const DebugWindowMax = 100

// journalKeep bounds the sqlite journal when it is opened.
const journalKeep = 100_000

type (
	// LinesAppendedEvent is emitted after new lines of a log were ingested.
	LinesAppendedEvent struct {
		Path  string
		Count int
	}

	// RestartEvent is emitted when a log announces a vault process start.
	RestartEvent struct {
		Path      string
		Version   string
		StartedAt time.Time
	}

	// TruncatedEvent is emitted when a log is being read again from its start.
	TruncatedEvent struct {
		Path string
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (LinesAppendedEvent) isServiceEvent() {}
func (RestartEvent) isServiceEvent()       {}
func (TruncatedEvent) isServiceEvent()     {}
func (ErrorEvent) isServiceEvent()         {}

// Manager owns the monitor arena, one tailer per log, the diagnostics
// journal and the optional metrics exporter, and fans events out to
// subscribers.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	monitors    map[string]*Monitor
	order       []string
	tailers     []*tailer.Tailer
	database    *db.DB
	exporter    *exporter.Server
	subscribers []chan<- ServiceEvent
	stopChan    chan struct{}
	closeOnce   sync.Once
	wg          sync.WaitGroup

	debugMu sync.Mutex
	debug   *metrics.History[models.Diagnostic]

	notify func(title, message string) error
}

// NewManager opens the journal, loads every log and starts following them.
func NewManager(cfg *config.Config) (*Manager, error) {
	return newManager(cfg, desktopNotify)
}

func desktopNotify(title, message string) error {
	return beeep.Notify(title, message, "")
}

func newManager(cfg *config.Config, notify func(title, message string) error) (*Manager, error) {
	m := &Manager{
		cfg:      cfg,
		monitors: make(map[string]*Monitor, len(cfg.Files)),
		stopChan: make(chan struct{}),
		debug:    metrics.NewHistory[models.Diagnostic](DebugWindowMax),
		notify:   notify,
	}

	if cfg.DiagnosticsPath != "" {
		database, err := db.New(cfg.DiagnosticsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize diagnostics journal: %w", err)
		}
		m.database = database
		if n, err := database.PruneDiagnostics(journalKeep); err != nil {
			logger.Warn("Failed to prune diagnostics journal", "error", err)
		} else if n > 0 {
			logger.Info("Pruned diagnostics journal", "deleted", n)
		}
	}

	for _, path := range cfg.Files {
		if err := m.addSource(path); err != nil {
			_ = m.Close()
			return nil, err
		}
	}

	if cfg.MetricsAddr != "" {
		srv, err := exporter.New(cfg.MetricsAddr, m)
		if err != nil {
			_ = m.Close()
			return nil, fmt.Errorf("failed to create metrics exporter: %w", err)
		}
		if err := srv.Start(); err != nil {
			_ = m.Close()
			return nil, err
		}
		m.exporter = srv
	}

	return m, nil
}

// addSource creates the monitor for path, ingests existing content and
// starts its tailer. Duplicate paths are ignored.
func (m *Manager) addSource(path string) error {
	t, err := tailer.New(path, m.cfg.IgnoreExisting)
	if err != nil {
		return err
	}
	key := t.Path()

	m.mu.Lock()
	if _, ok := m.monitors[key]; ok {
		m.mu.Unlock()
		return nil
	}
	mon := NewMonitor(len(m.order), key, m.cfg.LinesMax, metrics.Options{
		AppName:       m.cfg.AppName,
		TimelineSteps: m.cfg.TimelineSteps,
		Sink:          m,
	})
	m.monitors[key] = mon
	m.order = append(m.order, key)
	m.tailers = append(m.tailers, t)
	m.mu.Unlock()

	lines, _, err := t.ReadNew()
	if err != nil {
		return err
	}
	m.ingest(mon, lines, false)

	if err := t.Start(); err != nil {
		return err
	}

	m.wg.Add(1)
	go m.routeEvents(mon, t)

	logger.Info("Following log", "path", key, "existing_lines", len(lines))
	return nil
}

// routeEvents feeds one tailer's events into its monitor.
func (m *Manager) routeEvents(mon *Monitor, t *tailer.Tailer) {
	defer m.wg.Done()

	for {
		select {
		case event := <-t.Events():
			m.handleTailerEvent(mon, event)
		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleTailerEvent(mon *Monitor, event tailer.Event) {
	switch event.Type {
	case tailer.EventLines:
		m.ingest(mon, event.Lines, true)

	case tailer.EventTruncated:
		logger.Info("Log truncated, reading from start", "path", event.Path)
		m.broadcast(TruncatedEvent{Path: event.Path})

	case tailer.EventError:
		logger.Error("Tailer error", "path", event.Path, "error", event.Error)
		m.broadcast(ErrorEvent{Service: "tailer", Error: event.Error})
	}
}

// ingest appends lines to a monitor and reports what happened. Starts found
// in content that existed before the dashboard ran are not journaled or
// notified.
func (m *Manager) ingest(mon *Monitor, lines []string, live bool) {
	if len(lines) == 0 {
		return
	}

	outcomes, err := mon.Append(lines)
	if err != nil {
		logger.Error("Failed to journal diagnostics", "path", mon.Path(), "error", err)
		m.broadcast(ErrorEvent{Service: "journal", Error: err})
	}

	for _, out := range outcomes {
		if out.Started {
			m.handleRestart(mon, out, live)
		}
	}

	m.broadcast(LinesAppendedEvent{Path: mon.Path(), Count: len(lines)})
}

func (m *Manager) handleRestart(mon *Monitor, out metrics.Outcome, live bool) {
	event := RestartEvent{
		Path:      mon.Path(),
		Version:   out.Version,
		StartedAt: out.StartedAt,
	}

	if !live {
		m.broadcast(event)
		return
	}

	if m.database != nil {
		err := m.database.InsertStart(&models.StartEvent{
			Source:    event.Path,
			Version:   event.Version,
			StartedAt: event.StartedAt,
		})
		if err != nil {
			logger.Error("Failed to journal vault start", "path", event.Path, "error", err)
		}
	}

	if m.cfg.NotifyRestart && m.notify != nil {
		title := fmt.Sprintf("Vault restarted: %s", filepath.Base(event.Path))
		body := "Version " + event.Version
		if err := m.notify(title, body); err != nil {
			logger.Warn("Failed to send notification", "error", err)
		}
	}

	m.broadcast(event)
}

// WriteDiagnostic implements metrics.DiagnosticSink. Diagnostics always go
// to the debug window, and to the journal when one is open.
func (m *Manager) WriteDiagnostic(source, line, output string) error {
	d := models.Diagnostic{
		Source:    source,
		Line:      line,
		Output:    output,
		CreatedAt: time.Now(),
	}

	m.debugMu.Lock()
	m.debug.Push(d)
	m.debugMu.Unlock()

	if m.database == nil {
		return nil
	}
	return m.database.InsertDiagnostic(&d)
}

// DebugDiagnostics returns the debug window, oldest first.
func (m *Manager) DebugDiagnostics() []models.Diagnostic {
	m.debugMu.Lock()
	defer m.debugMu.Unlock()
	return m.debug.Items()
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// Sources returns the followed paths in display order.
func (m *Manager) Sources() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...)
}

// Monitor returns the monitor at index i in display order.
func (m *Manager) Monitor(i int) (*Monitor, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i < 0 || i >= len(m.order) {
		return nil, false
	}
	return m.monitors[m.order[i]], true
}

// MonitorSnapshots returns a copy of every monitor in display order.
func (m *Manager) MonitorSnapshots() []MonitorSnapshot {
	m.mu.RLock()
	monitors := make([]*Monitor, 0, len(m.order))
	for _, p := range m.order {
		monitors = append(monitors, m.monitors[p])
	}
	m.mu.RUnlock()

	snaps := make([]MonitorSnapshot, len(monitors))
	for i, mon := range monitors {
		snaps[i] = mon.Snapshot()
	}
	return snaps
}

// Snapshots implements exporter.SnapshotSource.
func (m *Manager) Snapshots() []metrics.Snapshot {
	m.mu.RLock()
	monitors := make([]*Monitor, 0, len(m.order))
	for _, p := range m.order {
		monitors = append(monitors, m.monitors[p])
	}
	m.mu.RUnlock()

	snaps := make([]metrics.Snapshot, len(monitors))
	for i, mon := range monitors {
		snaps[i] = mon.Metrics()
	}
	return snaps
}

// RecentStarts returns up to limit journaled starts of the log at path,
// newest first. It returns nothing when the journal is disabled.
func (m *Manager) RecentStarts(path string, limit int) ([]models.StartEvent, error) {
	if m.database == nil {
		return nil, nil
	}
	return m.database.RecentStarts(path, limit)
}

// JournaledDiagnostics returns up to limit journaled diagnostics, newest
// first. An empty path selects every log. It returns nothing when the
// journal is disabled.
func (m *Manager) JournaledDiagnostics(path string, limit int) ([]models.Diagnostic, error) {
	if m.database == nil {
		return nil, nil
	}
	return m.database.RecentDiagnostics(path, limit)
}

// HasJournal reports whether diagnostics are journaled to sqlite.
func (m *Manager) HasJournal() bool {
	return m.database != nil
}

// MetricsAddr returns the exporter's bound address, or "" when disabled.
func (m *Manager) MetricsAddr() string {
	if m.exporter == nil {
		return ""
	}
	return m.exporter.Addr()
}

// Close stops every tailer, the exporter and the journal.
func (m *Manager) Close() error {
	var errs []error
	m.closeOnce.Do(func() {
		errs = m.shutdown()
	})
	return errors.Join(errs...)
}

func (m *Manager) shutdown() []error {
	close(m.stopChan)

	var errs []error

	m.mu.Lock()
	tailers := m.tailers
	m.tailers = nil
	m.mu.Unlock()

	for _, t := range tailers {
		if err := t.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	m.wg.Wait()

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	if m.exporter != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := m.exporter.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
		cancel()
	}

	if m.database != nil {
		if err := m.database.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}
