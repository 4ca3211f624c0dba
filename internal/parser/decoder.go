// Package parser decodes vault log lines and recognises the events the
// dashboard counts.
package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/j-veylop/vault-dashboard-tui/internal/models"
)

// DefaultAppName is the process name announced in vault start lines.
const DefaultAppName = "safe-vault"

// timestampWidth is the length of an RFC 3339 timestamp with nanoseconds
// and a numeric offset, e.g. 2020-07-08T19:58:26.841778689+01:00.
const timestampWidth = 35

// lineRe matches: CATEGORY TIMESTAMP [SOURCE] MESSAGE
var lineRe = regexp.MustCompile(fmt.Sprintf(`^([A-Z]{4}) ([^ ]{%d}) (\[[^\]]*\])(?: (.*))?$`, timestampWidth))

// Result is the outcome of decoding one line.
type Result struct {
	// Record is nil when the line matched neither grammar.
	Record *models.LogRecord
	// Version is set for process start lines.
	Version    string
	Diagnostic string
}

// Decoder turns raw log lines into records. It holds no mutable state and
// may be shared.
type Decoder struct {
	startPrefix string
}

// NewDecoder creates a decoder that recognises start lines for appName.
func NewDecoder(appName string) *Decoder {
	if strings.TrimSpace(appName) == "" {
		appName = DefaultAppName
	}
	return &Decoder{startPrefix: "Running " + appName + " "}
}

// Decode parses a line using the timestamped grammar, falling back to the
// process start grammar.
func (d *Decoder) Decode(line string) Result {
	if rec, ok := decodeTimestamped(line); ok {
		return Result{Record: rec, Diagnostic: rec.ParserOutput}
	}

	if version, ok := strings.CutPrefix(line, d.startPrefix); ok {
		version = strings.TrimSpace(version)
		diag := "START " + version
		return Result{
			Record: &models.LogRecord{
				RawText:      line,
				Category:     models.StartCategory,
				Message:      line,
				ParserOutput: diag,
			},
			Version:    version,
			Diagnostic: diag,
		}
	}

	return Result{Diagnostic: "failed to decode: " + line}
}

func decodeTimestamped(line string) (*models.LogRecord, bool) {
	m := lineRe.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}

	ts, err := time.Parse(time.RFC3339Nano, m[2])
	if err != nil {
		return nil, false
	}

	rec := &models.LogRecord{
		RawText:  line,
		Category: m[1],
		Time:     ts,
		Source:   m[3],
		Message:  m[4],
	}
	rec.ParserOutput = fmt.Sprintf("c: %s, t: %s, s: %s, m: %s", rec.Category, m[2], rec.Source, rec.Message)
	return rec, true
}
