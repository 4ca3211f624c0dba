package metrics

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/j-veylop/vault-dashboard-tui/internal/models"
	"github.com/j-veylop/vault-dashboard-tui/internal/parser"
)

const (
	ts0 = "2020-07-08T19:58:26.841778689+01:00"
	ts1 = "2020-07-08T19:59:27.841778689+01:00"
)

func line(category, ts, msg string) string {
	return category + " " + ts + " [src/vault.rs:1] " + msg
}

type recordingSink struct {
	calls []string
	err   error
}

func (r *recordingSink) WriteDiagnostic(source, line, output string) error {
	r.calls = append(r.calls, source+"|"+output)
	return r.err
}

func mustIngest(t *testing.T, s *Store, l string) Outcome {
	t.Helper()
	out, err := s.Ingest(l)
	if err != nil {
		t.Fatalf("Ingest(%q) error: %v", l, err)
	}
	return out
}

func TestStore_GetActivity(t *testing.T) {
	s := NewStore(Options{Name: "vault.log", TimelineSteps: 10})
	out := mustIngest(t, s, line("INFO", ts0, parser.ResponseMarker+"GetSuccess, id: 1 }"))

	if out.Kind != parser.KindActivity {
		t.Errorf("Kind = %v, want activity", out.Kind)
	}
	snap := s.Snapshot()
	if snap.Gets != 1 || snap.Puts != 0 || snap.Other != 0 {
		t.Errorf("counters gets=%d puts=%d other=%d", snap.Gets, snap.Puts, snap.Other)
	}
	for _, g := range models.Granularities() {
		if got := snap.Timeline(TimelineGets, g); !slices.Equal(got, []uint64{1}) {
			t.Errorf("gets %v = %v, want [1]", g, got)
		}
		if got := snap.Timeline(TimelinePuts, g); !slices.Equal(got, []uint64{0}) {
			t.Errorf("puts %v = %v, want [0]", g, got)
		}
	}
	if len(snap.Activities) != 1 || snap.Activities[0].Activity != "GetSuccess" {
		t.Errorf("Activities = %+v", snap.Activities)
	}
}

func TestStore_PutAndOtherActivity(t *testing.T) {
	s := NewStore(Options{TimelineSteps: 10})
	mustIngest(t, s, line("INFO", ts0, parser.ResponseMarker+"Mutation(Ok(())), id: 1 }"))
	mustIngest(t, s, line("INFO", ts0, parser.ResponseMarker+"Transfer(Ok(())), id: 2 }"))

	snap := s.Snapshot()
	if snap.Puts != 1 || snap.Other != 1 || snap.Gets != 0 {
		t.Errorf("counters gets=%d puts=%d other=%d", snap.Gets, snap.Puts, snap.Other)
	}
	if got := snap.Timeline(TimelinePuts, models.GranularityMinute); !slices.Equal(got, []uint64{1}) {
		t.Errorf("puts = %v, want [1]", got)
	}
}

func TestStore_EldersLeavesOtherStateAlone(t *testing.T) {
	s := NewStore(Options{})
	mustIngest(t, s, line("INFO", ts0, "No. of Adults: 3"))
	mustIngest(t, s, line("INFO", ts0, "Vault promoted to Adult"))
	mustIngest(t, s, line("INFO", ts1, "No. of Elders: 7"))

	snap := s.Snapshot()
	if snap.Elders != 7 {
		t.Errorf("Elders = %d, want 7", snap.Elders)
	}
	if snap.Adults != 3 {
		t.Errorf("Adults = %d, want 3", snap.Adults)
	}
	if snap.AgeBracket != models.AgeBracketAdult {
		t.Errorf("AgeBracket = %v, want Adult", snap.AgeBracket)
	}
}

func TestStore_ParseFailureKeepsPriorValue(t *testing.T) {
	s := NewStore(Options{})
	mustIngest(t, s, line("INFO", ts0, "No. of Elders: 7"))
	out := mustIngest(t, s, line("INFO", ts0, "No. of Elders: lots"))

	if out.Kind != parser.KindParseFailure {
		t.Errorf("Kind = %v, want parse failure", out.Kind)
	}
	if got := s.Snapshot().Elders; got != 7 {
		t.Errorf("Elders = %d, want 7", got)
	}
}

func TestStore_UnknownAgeBracket(t *testing.T) {
	s := NewStore(Options{})
	out := mustIngest(t, s, line("INFO", ts0, "Vault promoted to Sage"))
	if got := s.Snapshot().AgeBracket; got != models.AgeBracketUnknown {
		t.Errorf("AgeBracket = %v, want Unknown", got)
	}
	if !strings.Contains(out.Diagnostic, "Sage") {
		t.Errorf("Diagnostic = %q", out.Diagnostic)
	}
}

func TestStore_StartResetsCounters(t *testing.T) {
	s := NewStore(Options{TimelineSteps: 10})
	mustIngest(t, s, line("INFO", ts0, parser.ResponseMarker+"GetSuccess, id: 1 }"))
	mustIngest(t, s, line("INFO", ts0, "No. of Elders: 7"))
	mustIngest(t, s, line("INFO", ts0, "Vault promoted to Elder"))

	out := mustIngest(t, s, "Running safe-vault v0.24.0")
	if !out.Started || out.Version != "v0.24.0" {
		t.Fatalf("Outcome = %+v", out)
	}

	snap := s.Snapshot()
	if snap.Gets != 0 || snap.Elders != 0 || snap.AgeBracket != models.AgeBracketInfant {
		t.Errorf("after restart gets=%d elders=%d bracket=%v", snap.Gets, snap.Elders, snap.AgeBracket)
	}
	if snap.Version != "v0.24.0" || snap.RunningMessage != "Running safe-vault v0.24.0" {
		t.Errorf("Version = %q, RunningMessage = %q", snap.Version, snap.RunningMessage)
	}
	want, _ := time.Parse(time.RFC3339Nano, ts0)
	if !snap.StartedAt.Equal(want) {
		t.Errorf("StartedAt = %v, want %v", snap.StartedAt, want)
	}
	if got := snap.Timeline(TimelineGets, models.GranularityHour); !slices.Equal(got, []uint64{1}) {
		t.Errorf("gets timeline = %v, want it to survive the restart", got)
	}
	if len(snap.Records) != 4 {
		t.Errorf("len(Records) = %d, want 4", len(snap.Records))
	}
	last := snap.Records[len(snap.Records)-1]
	if !last.IsStart() || !last.Time.Equal(want) {
		t.Errorf("start record = %+v, want it backfilled with %v", last, want)
	}
	if !strings.HasPrefix(out.Diagnostic, "START at ") {
		t.Errorf("Diagnostic = %q", out.Diagnostic)
	}

	mustIngest(t, s, line("INFO", ts1, parser.ResponseMarker+"GetSuccess, id: 2 }"))
	if got := s.Snapshot().Gets; got != 1 {
		t.Errorf("Gets after restart = %d, want 1", got)
	}
}

func TestStore_StartBeforeAnyTimestamp(t *testing.T) {
	s := NewStore(Options{})
	out := mustIngest(t, s, "Running safe-vault v0.24.0")
	if !out.Started {
		t.Fatal("expected a start")
	}
	snap := s.Snapshot()
	if !snap.StartedAt.IsZero() {
		t.Errorf("StartedAt = %v, want zero", snap.StartedAt)
	}
	if snap.Records[0].HasTime() {
		t.Error("record should have no timestamp to backfill")
	}
}

func TestStore_ErrorCategory(t *testing.T) {
	s := NewStore(Options{TimelineSteps: 10})
	mustIngest(t, s, line("ERRO", ts0, "failed to connect"))
	mustIngest(t, s, line("ERRO", ts0, parser.ResponseMarker+"GetSuccess, id: 1 }"))

	snap := s.Snapshot()
	if snap.Errors != 1 || snap.Gets != 1 {
		t.Errorf("errors=%d gets=%d, want 1 and 1", snap.Errors, snap.Gets)
	}
	if got := snap.Timeline(TimelineErrors, models.GranularityDay); !slices.Equal(got, []uint64{1}) {
		t.Errorf("errors timeline = %v, want [1]", got)
	}
}

func TestStore_RejectedLine(t *testing.T) {
	sink := &recordingSink{}
	s := NewStore(Options{Name: "a.log", Sink: sink})
	out := mustIngest(t, s, "garbage")

	if out.Decoded {
		t.Error("garbage decoded")
	}
	snap := s.Snapshot()
	if snap.LinesRejected != 1 || len(snap.Records) != 0 {
		t.Errorf("rejected=%d records=%d", snap.LinesRejected, len(snap.Records))
	}
	if len(sink.calls) != 1 || !strings.Contains(sink.calls[0], "garbage") {
		t.Errorf("sink calls = %v", sink.calls)
	}
}

func TestStore_SinkErrorPropagates(t *testing.T) {
	sinkErr := errors.New("disk full")
	s := NewStore(Options{Sink: &recordingSink{err: sinkErr}})
	_, err := s.Ingest(line("INFO", ts0, "hello"))
	if !errors.Is(err, sinkErr) {
		t.Errorf("Ingest() error = %v, want %v", err, sinkErr)
	}
	if got := s.Snapshot().CategoryCounts["INFO"]; got != 1 {
		t.Errorf("line should still be counted, got %d", got)
	}
}

func TestStore_TimelinesAdvance(t *testing.T) {
	s := NewStore(Options{TimelineSteps: 5})
	mustIngest(t, s, line("INFO", ts0, parser.ResponseMarker+"GetSuccess, id: 1 }"))
	mustIngest(t, s, line("INFO", ts1, parser.ResponseMarker+"GetSuccess, id: 2 }"))

	snap := s.Snapshot()
	if got := snap.Timeline(TimelineGets, models.GranularityMinute); !slices.Equal(got, []uint64{1, 1}) {
		t.Errorf("minute gets = %v, want [1 1]", got)
	}
	if got := snap.Timeline(TimelinePuts, models.GranularityMinute); !slices.Equal(got, []uint64{0, 0}) {
		t.Errorf("minute puts = %v, want [0 0]", got)
	}
}

func TestStore_BackwardTimestamp(t *testing.T) {
	s := NewStore(Options{TimelineSteps: 5})
	mustIngest(t, s, line("INFO", ts1, "later"))
	before := s.Snapshot().Timeline(TimelineGets, models.GranularityMinute)

	mustIngest(t, s, line("INFO", ts0, "earlier"))

	want, _ := time.Parse(time.RFC3339Nano, ts1)
	if !s.MostRecent().Equal(want) {
		t.Errorf("MostRecent() = %v, want %v", s.MostRecent(), want)
	}
	if got := s.Snapshot().Timeline(TimelineGets, models.GranularityMinute); !slices.Equal(got, before) {
		t.Errorf("timeline changed on backward time: %v -> %v", before, got)
	}
}

func TestStore_BoundedHistory(t *testing.T) {
	s := NewStore(Options{HistoryMax: 3})
	for range 10 {
		mustIngest(t, s, line("INFO", ts0, parser.ResponseMarker+"GetSuccess, id: 1 }"))
	}
	snap := s.Snapshot()
	if len(snap.Records) != 3 || len(snap.Activities) != 3 {
		t.Errorf("records=%d activities=%d, want 3 each", len(snap.Records), len(snap.Activities))
	}
	if snap.CategoryCounts["INFO"] != 10 {
		t.Errorf("CategoryCounts[INFO] = %d, want 10", snap.CategoryCounts["INFO"])
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := NewStore(Options{})
	mustIngest(t, s, line("INFO", ts0, "x"))
	snap := s.Snapshot()
	snap.CategoryCounts["INFO"] = 99
	snap.Timelines[TimelineGets][models.GranularityMinute][0] = 99

	again := s.Snapshot()
	if again.CategoryCounts["INFO"] != 1 || again.Timeline(TimelineGets, models.GranularityMinute)[0] != 0 {
		t.Error("mutating a snapshot changed the store")
	}
}

func TestSnapshot_Uptime(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{StartedAt: start, MostRecent: start.Add(90 * time.Second)}
	if snap.Uptime() != 90*time.Second {
		t.Errorf("Uptime() = %v", snap.Uptime())
	}
	if (Snapshot{}).Uptime() != 0 {
		t.Error("Uptime() should be zero without a start")
	}
}
