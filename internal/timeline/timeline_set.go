package timeline

import (
	"time"

	"github.com/j-veylop/vault-dashboard-tui/internal/models"
)

// TimelineSet groups one BucketSet per granularity. All of them see the
// same timestamps and the same increments.
type TimelineSet struct {
	name  string
	order []models.Granularity
	sets  map[models.Granularity]*BucketSet
}

// NewTimelineSet creates an empty timeline set.
func NewTimelineSet(name string) *TimelineSet {
	return &TimelineSet{
		name: name,
		sets: make(map[models.Granularity]*BucketSet),
	}
}

// NewStandardTimelineSet creates a timeline set holding every granularity,
// each keeping steps buckets.
func NewStandardTimelineSet(name string, steps int) *TimelineSet {
	ts := NewTimelineSet(name)
	for _, g := range models.Granularities() {
		ts.AddBucketSet(g, steps)
	}
	return ts
}

// AddBucketSet adds (or replaces) the bucket set for g.
func (ts *TimelineSet) AddBucketSet(g models.Granularity, maxBuckets int) {
	if _, exists := ts.sets[g]; !exists {
		ts.order = append(ts.order, g)
	}
	ts.sets[g] = NewBucketSet(g.Duration(), maxBuckets)
}

// Name returns the timeline name.
func (ts *TimelineSet) Name() string {
	return ts.name
}

// Granularities returns the held granularities in insertion order.
func (ts *TimelineSet) Granularities() []models.Granularity {
	out := make([]models.Granularity, len(ts.order))
	copy(out, ts.order)
	return out
}

// AdvanceAll advances every bucket set to t.
func (ts *TimelineSet) AdvanceAll(t time.Time) {
	for _, g := range ts.order {
		ts.sets[g].AdvanceTo(t)
	}
}

// IncrementAll increments the current bucket of every bucket set.
func (ts *TimelineSet) IncrementAll() {
	for _, g := range ts.order {
		ts.sets[g].Increment()
	}
}

// BucketSet returns the bucket set for g.
func (ts *TimelineSet) BucketSet(g models.Granularity) (*BucketSet, bool) {
	bs, ok := ts.sets[g]
	return bs, ok
}

// Buckets returns a copy of the buckets for g, or nil when g is not held.
func (ts *TimelineSet) Buckets(g models.Granularity) []uint64 {
	bs, ok := ts.sets[g]
	if !ok {
		return nil
	}
	return bs.Buckets()
}
