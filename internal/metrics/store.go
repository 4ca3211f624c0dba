// Package metrics aggregates decoded vault log lines into counters, lifecycle
// state and timelines, one Store per monitored log file.
package metrics

import (
	"fmt"
	"maps"
	"time"

	"github.com/j-veylop/vault-dashboard-tui/internal/logger"
	"github.com/j-veylop/vault-dashboard-tui/internal/models"
	"github.com/j-veylop/vault-dashboard-tui/internal/parser"
	"github.com/j-veylop/vault-dashboard-tui/internal/timeline"
)

// Timeline names.
const (
	TimelinePuts   = "puts"
	TimelineGets   = "gets"
	TimelineErrors = "errors"
)

// Defaults used when Options leaves a size unset.
const (
	DefaultTimelineSteps = 100
	DefaultHistoryMax    = 100
)

// DiagnosticSink receives the parser output for every ingested line.
type DiagnosticSink interface {
	WriteDiagnostic(source, line, output string) error
}

// Options configures a Store.
type Options struct {
	// Name identifies the monitored log, usually its path.
	Name          string
	AppName       string
	TimelineSteps int
	HistoryMax    int
	Sink          DiagnosticSink
}

// Outcome describes what Ingest did with a line.
type Outcome struct {
	Diagnostic string
	Decoded    bool
	Kind       parser.Kind
	// Started is true when the line announced a process start.
	Started   bool
	Version   string
	StartedAt time.Time
}

// Store is the per log aggregate. It is not safe for concurrent use; each
// monitored log owns exactly one Store.
type Store struct {
	name       string
	decoder    *parser.Decoder
	classifier *parser.Classifier
	sink       DiagnosticSink

	startedAt      time.Time
	runningMessage string
	version        string
	mostRecent     time.Time

	puts   *timeline.TimelineSet
	gets   *timeline.TimelineSet
	errors *timeline.TimelineSet

	ageBracket models.AgeBracket
	adults     uint64
	elders     uint64

	activityGets   uint64
	activityPuts   uint64
	activityErrors uint64
	activityOther  uint64

	categoryCounts map[string]uint64
	records        *History[models.LogRecord]
	activities     *History[models.ActivityRecord]

	linesSeen     uint64
	linesRejected uint64
}

// NewStore creates an empty store.
func NewStore(opts Options) *Store {
	steps := opts.TimelineSteps
	if steps <= 0 {
		steps = DefaultTimelineSteps
	}
	historyMax := opts.HistoryMax
	if historyMax <= 0 {
		historyMax = DefaultHistoryMax
	}

	return &Store{
		name:           opts.Name,
		decoder:        parser.NewDecoder(opts.AppName),
		classifier:     parser.NewClassifier(),
		sink:           opts.Sink,
		puts:           timeline.NewStandardTimelineSet(TimelinePuts, steps),
		gets:           timeline.NewStandardTimelineSet(TimelineGets, steps),
		errors:         timeline.NewStandardTimelineSet(TimelineErrors, steps),
		ageBracket:     models.AgeBracketInfant,
		categoryCounts: make(map[string]uint64),
		records:        NewHistory[models.LogRecord](historyMax),
		activities:     NewHistory[models.ActivityRecord](historyMax),
	}
}

// Name returns the name the store was created with.
func (s *Store) Name() string {
	return s.name
}

// Ingest processes one line. Malformed input is never an error; only a
// failure to write the diagnostic is returned.
func (s *Store) Ingest(line string) (Outcome, error) {
	s.linesSeen++

	res := s.decoder.Decode(line)
	if res.Record == nil {
		s.linesRejected++
		out := Outcome{Diagnostic: res.Diagnostic}
		return out, s.writeDiagnostic(line, out.Diagnostic)
	}
	rec := *res.Record

	s.updateTime(&rec)
	if !s.mostRecent.IsZero() {
		s.puts.AdvanceAll(s.mostRecent)
		s.gets.AdvanceAll(s.mostRecent)
		s.errors.AdvanceAll(s.mostRecent)
	}

	cls := s.classifier.Classify(rec.RawText)
	out := Outcome{
		Diagnostic: res.Diagnostic,
		Decoded:    true,
		Kind:       cls.Kind,
	}
	routed := s.apply(rec, cls)
	if cls.Kind != parser.KindNone {
		out.Diagnostic = cls.Diagnostic
	}

	if rec.Category == models.ErrorCategory && !routed {
		s.activityErrors++
		s.errors.IncrementAll()
	}

	if rec.IsStart() {
		out.Started = true
		out.Version = res.Version
		out.StartedAt = s.mostRecent
		out.Diagnostic = "START at " + formatTime(s.mostRecent)
		s.startedAt = s.mostRecent
		s.version = res.Version
		s.runningMessage = rec.RawText
	}

	rec.ParserOutput = out.Diagnostic
	s.categoryCounts[rec.Category]++
	s.records.Push(rec)

	if rec.IsStart() {
		s.ResetMetrics()
	}

	return out, s.writeDiagnostic(line, out.Diagnostic)
}

// updateTime keeps mostRecent monotonic and backfills records without a
// timestamp.
func (s *Store) updateTime(rec *models.LogRecord) {
	if !rec.HasTime() {
		if !s.mostRecent.IsZero() {
			*rec = rec.WithTime(s.mostRecent)
		}
		return
	}
	if rec.Time.After(s.mostRecent) {
		s.mostRecent = rec.Time
		return
	}
	if rec.Time.Before(s.mostRecent) {
		logger.Debug("timestamp earlier than most recent, timelines not moved",
			"log", s.name, "time", rec.Time, "most_recent", s.mostRecent)
	}
}

// apply updates counters and lifecycle state. It reports whether the line
// was routed to the gets or puts timeline.
func (s *Store) apply(rec models.LogRecord, cls parser.Classification) bool {
	switch cls.Kind {
	case parser.KindActivity:
		s.activities.Push(models.NewActivityRecord(rec, cls.Activity))
		switch parser.ActivityKindOf(cls.Activity) {
		case parser.ActivityGet:
			s.activityGets++
			s.gets.IncrementAll()
			return true
		case parser.ActivityPut:
			s.activityPuts++
			s.puts.IncrementAll()
			return true
		default:
			s.activityOther++
		}
	case parser.KindElders:
		s.elders = cls.Count
	case parser.KindAdults:
		s.adults = cls.Count
	case parser.KindAgeBracket:
		s.ageBracket = cls.AgeBracket
	}
	return false
}

// ResetMetrics clears the counters and lifecycle state after a vault
// restart. Timelines and histories are kept.
func (s *Store) ResetMetrics() {
	s.activityGets = 0
	s.activityPuts = 0
	s.activityErrors = 0
	s.activityOther = 0
	s.ageBracket = models.AgeBracketInfant
	s.adults = 0
	s.elders = 0
}

func (s *Store) writeDiagnostic(line, output string) error {
	if s.sink == nil {
		return nil
	}
	if err := s.sink.WriteDiagnostic(s.name, line, output); err != nil {
		return fmt.Errorf("failed to write diagnostic for %s: %w", s.name, err)
	}
	return nil
}

// Timeline returns the named timeline set, or nil.
func (s *Store) Timeline(name string) *timeline.TimelineSet {
	switch name {
	case TimelinePuts:
		return s.puts
	case TimelineGets:
		return s.gets
	case TimelineErrors:
		return s.errors
	default:
		return nil
	}
}

// MostRecent returns the latest timestamp seen.
func (s *Store) MostRecent() time.Time {
	return s.mostRecent
}

// Snapshot returns a copy of the store's state.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		Name:           s.name,
		StartedAt:      s.startedAt,
		RunningMessage: s.runningMessage,
		Version:        s.version,
		MostRecent:     s.mostRecent,
		AgeBracket:     s.ageBracket,
		Adults:         s.adults,
		Elders:         s.elders,
		Gets:           s.activityGets,
		Puts:           s.activityPuts,
		Errors:         s.activityErrors,
		Other:          s.activityOther,
		LinesSeen:      s.linesSeen,
		LinesRejected:  s.linesRejected,
		CategoryCounts: maps.Clone(s.categoryCounts),
		Records:        s.records.Items(),
		Activities:     s.activities.Items(),
		Timelines:      make(map[string]map[models.Granularity][]uint64, 3),
	}
	for _, ts := range []*timeline.TimelineSet{s.puts, s.gets, s.errors} {
		byGranularity := make(map[models.Granularity][]uint64)
		for _, g := range ts.Granularities() {
			byGranularity[g] = ts.Buckets(g)
		}
		snap.Timelines[ts.Name()] = byGranularity
	}
	return snap
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "unknown time"
	}
	return t.Format(time.RFC3339Nano)
}
