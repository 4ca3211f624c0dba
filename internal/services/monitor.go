package services

import (
	"errors"
	"sync"

	"github.com/j-veylop/vault-dashboard-tui/internal/metrics"
)

// Monitor owns everything known about one followed log file: the tail of
// its raw content and its metrics store.
type Monitor struct {
	mu      sync.RWMutex
	index   int
	path    string
	content *metrics.History[string]
	store   *metrics.Store
}

// MonitorSnapshot is a copy of a Monitor for rendering.
type MonitorSnapshot struct {
	Index   int
	Path    string
	Content []string
	Metrics metrics.Snapshot
}

// NewMonitor creates a monitor keeping at most linesMax content lines.
func NewMonitor(index int, path string, linesMax int, opts metrics.Options) *Monitor {
	opts.Name = path
	return &Monitor{
		index:   index,
		path:    path,
		content: metrics.NewHistory[string](linesMax),
		store:   metrics.NewStore(opts),
	}
}

// Index returns the monitor's position in the manager's order.
func (m *Monitor) Index() int {
	return m.index
}

// Path returns the followed file path.
func (m *Monitor) Path() string {
	return m.path
}

// Append records lines in order and feeds each to the store. Every line is
// processed even if a diagnostic write fails; the failures are joined.
func (m *Monitor) Append(lines []string) ([]metrics.Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	outcomes := make([]metrics.Outcome, 0, len(lines))
	var errs []error
	for _, line := range lines {
		m.content.Push(line)
		out, err := m.store.Ingest(line)
		if err != nil {
			errs = append(errs, err)
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, errors.Join(errs...)
}

// Metrics returns a snapshot of the store only.
func (m *Monitor) Metrics() metrics.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.Snapshot()
}

// Snapshot returns a copy of the monitor.
func (m *Monitor) Snapshot() MonitorSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return MonitorSnapshot{
		Index:   m.index,
		Path:    m.path,
		Content: m.content.Items(),
		Metrics: m.store.Snapshot(),
	}
}
