package models

import "time"

// Granularity selects the bucket width of a timeline.
type Granularity int

const (
	// GranularityMinute uses one minute buckets.
	GranularityMinute Granularity = iota
	// GranularityHour uses one hour buckets.
	GranularityHour
	// GranularityDay uses one day buckets.
	GranularityDay
	// GranularityTwelfthYear uses buckets of roughly one month.
	GranularityTwelfthYear
	// GranularityYear uses 365 day buckets.
	GranularityYear

	granularityCount = 5
)

const day = 24 * time.Hour

// Granularities returns every granularity, finest first.
func Granularities() []Granularity {
	return []Granularity{
		GranularityMinute,
		GranularityHour,
		GranularityDay,
		GranularityTwelfthYear,
		GranularityYear,
	}
}

// String returns the display name for a granularity.
func (g Granularity) String() string {
	switch g {
	case GranularityMinute:
		return "1 minute"
	case GranularityHour:
		return "1 hour"
	case GranularityDay:
		return "1 day"
	case GranularityTwelfthYear:
		return "1/12 year"
	case GranularityYear:
		return "1 year"
	default:
		return "Unknown"
	}
}

// Key returns a stable identifier, used in prefs files and metric labels.
func (g Granularity) Key() string {
	switch g {
	case GranularityMinute:
		return "minute"
	case GranularityHour:
		return "hour"
	case GranularityDay:
		return "day"
	case GranularityTwelfthYear:
		return "twelfth_year"
	case GranularityYear:
		return "year"
	default:
		return "unknown"
	}
}

// ParseGranularity is the inverse of Key.
func ParseGranularity(key string) (Granularity, bool) {
	for _, g := range Granularities() {
		if g.Key() == key {
			return g, true
		}
	}
	return GranularityMinute, false
}

// Duration returns the width of one bucket.
func (g Granularity) Duration() time.Duration {
	switch g {
	case GranularityMinute:
		return time.Minute
	case GranularityHour:
		return time.Hour
	case GranularityDay:
		return day
	case GranularityTwelfthYear:
		return 30 * day
	case GranularityYear:
		return 365 * day
	default:
		return time.Minute
	}
}

// Valid reports whether g is one of the defined granularities.
func (g Granularity) Valid() bool {
	return g >= GranularityMinute && g < granularityCount
}

// Next cycles to the next coarser granularity.
func (g Granularity) Next() Granularity {
	return (g + 1) % granularityCount
}

// Prev cycles to the next finer granularity.
func (g Granularity) Prev() Granularity {
	return (g - 1 + granularityCount) % granularityCount
}
