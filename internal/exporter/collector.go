// Package exporter publishes per source vault metrics over HTTP in the
// Prometheus text format.
package exporter

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/j-veylop/vault-dashboard-tui/internal/metrics"
	"github.com/j-veylop/vault-dashboard-tui/internal/models"
)

const namespace = "vdash"

// SnapshotSource provides the current state of every monitored log.
type SnapshotSource interface {
	Snapshots() []metrics.Snapshot
}

// Collector turns store snapshots into const metrics at scrape time.
type Collector struct {
	source SnapshotSource

	activity      *prometheus.Desc
	members       *prometheus.Desc
	ageBracket    *prometheus.Desc
	linesSeen     *prometheus.Desc
	linesRejected *prometheus.Desc
	categoryLines *prometheus.Desc
	uptime        *prometheus.Desc
	currentBucket *prometheus.Desc
}

// NewCollector creates a collector reading from source.
func NewCollector(source SnapshotSource) *Collector {
	return &Collector{
		source: source,
		activity: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "activity"),
			"Data handler responses since the last vault start, by kind.",
			[]string{"source", "kind"}, nil,
		),
		members: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "section", "members"),
			"Last reported number of section members, by role.",
			[]string{"source", "role"}, nil,
		),
		ageBracket: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "vault", "age_bracket"),
			"Current vault age bracket; 1 for the active bracket.",
			[]string{"source", "bracket"}, nil,
		),
		linesSeen: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "lines", "seen_total"),
			"Log lines ingested.",
			[]string{"source"}, nil,
		),
		linesRejected: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "lines", "rejected_total"),
			"Log lines that could not be decoded.",
			[]string{"source"}, nil,
		),
		categoryLines: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "category", "lines_total"),
			"Decoded log lines by category.",
			[]string{"source", "category"}, nil,
		),
		uptime: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "vault", "uptime_seconds"),
			"Time between the last vault start and the most recent log line.",
			[]string{"source"}, nil,
		),
		currentBucket: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "timeline", "current_bucket"),
			"Count in the newest bucket of a timeline.",
			[]string{"source", "timeline", "granularity"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.activity
	ch <- c.members
	ch <- c.ageBracket
	ch <- c.linesSeen
	ch <- c.linesRejected
	ch <- c.categoryLines
	ch <- c.uptime
	ch <- c.currentBucket
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, snap := range c.source.Snapshots() {
		src := snap.Name

		for kind, v := range map[string]uint64{
			"get":   snap.Gets,
			"put":   snap.Puts,
			"error": snap.Errors,
			"other": snap.Other,
		} {
			ch <- prometheus.MustNewConstMetric(c.activity, prometheus.GaugeValue, float64(v), src, kind)
		}

		ch <- prometheus.MustNewConstMetric(c.members, prometheus.GaugeValue, float64(snap.Adults), src, "adults")
		ch <- prometheus.MustNewConstMetric(c.members, prometheus.GaugeValue, float64(snap.Elders), src, "elders")

		for _, b := range []models.AgeBracket{
			models.AgeBracketUnknown,
			models.AgeBracketInfant,
			models.AgeBracketAdult,
			models.AgeBracketElder,
		} {
			v := 0.0
			if snap.AgeBracket == b {
				v = 1
			}
			ch <- prometheus.MustNewConstMetric(c.ageBracket, prometheus.GaugeValue, v, src, b.String())
		}

		ch <- prometheus.MustNewConstMetric(c.linesSeen, prometheus.CounterValue, float64(snap.LinesSeen), src)
		ch <- prometheus.MustNewConstMetric(c.linesRejected, prometheus.CounterValue, float64(snap.LinesRejected), src)

		for category, n := range snap.CategoryCounts {
			ch <- prometheus.MustNewConstMetric(c.categoryLines, prometheus.CounterValue, float64(n), src, category)
		}

		ch <- prometheus.MustNewConstMetric(c.uptime, prometheus.GaugeValue, snap.Uptime().Seconds(), src)

		for name, byGranularity := range snap.Timelines {
			for g, buckets := range byGranularity {
				if len(buckets) == 0 {
					continue
				}
				ch <- prometheus.MustNewConstMetric(c.currentBucket, prometheus.GaugeValue,
					float64(buckets[len(buckets)-1]), src, name, g.Key())
			}
		}
	}
}
