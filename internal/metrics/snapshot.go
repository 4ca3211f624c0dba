package metrics

import (
	"time"

	"github.com/j-veylop/vault-dashboard-tui/internal/models"
)

// Snapshot is a point in time copy of a Store, safe to hand to other
// goroutines.
type Snapshot struct {
	Name           string
	StartedAt      time.Time
	RunningMessage string
	Version        string
	MostRecent     time.Time

	AgeBracket models.AgeBracket
	Adults     uint64
	Elders     uint64

	Gets   uint64
	Puts   uint64
	Errors uint64
	Other  uint64

	LinesSeen      uint64
	LinesRejected  uint64
	CategoryCounts map[string]uint64

	Records    []models.LogRecord
	Activities []models.ActivityRecord

	// Timelines is keyed by timeline name, then granularity.
	Timelines map[string]map[models.Granularity][]uint64
}

// Timeline returns the buckets of one timeline at granularity g.
func (s Snapshot) Timeline(name string, g models.Granularity) []uint64 {
	return s.Timelines[name][g]
}

// Uptime returns how long the vault has been running as of its most recent
// log line. It is zero until a start line has been seen.
func (s Snapshot) Uptime() time.Duration {
	if s.StartedAt.IsZero() || s.MostRecent.Before(s.StartedAt) {
		return 0
	}
	return s.MostRecent.Sub(s.StartedAt)
}

// TotalActivity returns the sum of the activity counters.
func (s Snapshot) TotalActivity() uint64 {
	return s.Gets + s.Puts + s.Errors + s.Other
}
