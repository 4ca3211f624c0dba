// Package timeline keeps sliding windows of event counts at fixed bucket widths.
package timeline

import "time"

// BucketSet is a sliding window of consecutive fixed-width counting buckets.
// The last bucket is the current one. It always holds at least one bucket
// and never more than MaxBuckets.
//
// A BucketSet is not safe for concurrent use.
type BucketSet struct {
	bucketDuration time.Duration
	maxBuckets     int
	start          time.Time
	anchored       bool
	buckets        []uint64
}

// NewBucketSet creates a bucket set with a single empty bucket and no
// anchored start time. maxBuckets below one is treated as one.
func NewBucketSet(bucketDuration time.Duration, maxBuckets int) *BucketSet {
	if maxBuckets < 1 {
		maxBuckets = 1
	}
	if bucketDuration <= 0 {
		bucketDuration = time.Minute
	}
	return &BucketSet{
		bucketDuration: bucketDuration,
		maxBuckets:     maxBuckets,
		buckets:        make([]uint64, 1, maxBuckets),
	}
}

// AdvanceTo moves the window forward so that t falls in the current bucket.
// The first call only anchors the window. Times at or before the current
// bucket boundary leave the set unchanged.
func (b *BucketSet) AdvanceTo(t time.Time) {
	if !b.anchored {
		b.start = t
		b.anchored = true
		return
	}

	elapsed := t.Sub(b.start)
	if elapsed < b.bucketDuration {
		return
	}
	steps := int64(elapsed / b.bucketDuration)

	// Every existing bucket would be evicted: the result is a full window of
	// empty buckets, whatever the gap.
	if steps >= int64(b.maxBuckets) {
		b.buckets = b.buckets[:b.maxBuckets]
		clear(b.buckets)
		b.start = b.start.Add(time.Duration(steps) * b.bucketDuration)
		return
	}

	for i := int64(0); i < steps; i++ {
		b.buckets = append(b.buckets, 0)
		b.start = b.start.Add(b.bucketDuration)
		if len(b.buckets) > b.maxBuckets {
			b.buckets = append(b.buckets[:0], b.buckets[1:]...)
		}
	}
}

// Increment adds one to the current bucket.
func (b *BucketSet) Increment() {
	b.buckets[len(b.buckets)-1]++
}

// SetValue overwrites the current bucket.
func (b *BucketSet) SetValue(v uint64) {
	b.buckets[len(b.buckets)-1] = v
}

// Buckets returns a copy of the bucket values, oldest first.
func (b *BucketSet) Buckets() []uint64 {
	out := make([]uint64, len(b.buckets))
	copy(out, b.buckets)
	return out
}

// BucketDuration returns the width of one bucket.
func (b *BucketSet) BucketDuration() time.Duration {
	return b.bucketDuration
}

// MaxBuckets returns the window size in buckets.
func (b *BucketSet) MaxBuckets() int {
	return b.maxBuckets
}

// TotalDuration returns the time span covered by a full window.
func (b *BucketSet) TotalDuration() time.Duration {
	return b.bucketDuration * time.Duration(b.maxBuckets)
}

// Start returns the start time of the current bucket.
func (b *BucketSet) Start() time.Time {
	return b.start
}

// Anchored reports whether a start time has been set.
func (b *BucketSet) Anchored() bool {
	return b.anchored
}
