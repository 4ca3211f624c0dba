// Package models defines data structures and domain types.
package models

import "time"

// StartCategory is the synthetic category given to process start lines.
const StartCategory = "START"

// ErrorCategory is the category vault loggers use for error lines.
const ErrorCategory = "ERRO"

// LogRecord is one decoded log line.
type LogRecord struct {
	RawText  string
	Category string
	// Time is the zero value when the line carried no timestamp and none
	// could be backfilled.
	Time         time.Time
	Source       string
	Message      string
	ParserOutput string
}

// HasTime reports whether the record carries a timestamp.
func (r LogRecord) HasTime() bool {
	return !r.Time.IsZero()
}

// IsStart reports whether the record marks a process start.
func (r LogRecord) IsStart() bool {
	return r.Category == StartCategory
}

// WithTime returns a copy of the record stamped with t.
func (r LogRecord) WithTime(t time.Time) LogRecord {
	r.Time = t
	return r
}

// ActivityRecord is a log record that carried a data handler response.
type ActivityRecord struct {
	Activity string
	RawText  string
	Category string
	Time     time.Time
	Source   string
}

// NewActivityRecord derives an activity record from a decoded log record.
func NewActivityRecord(r LogRecord, activity string) ActivityRecord {
	return ActivityRecord{
		Activity: activity,
		RawText:  r.RawText,
		Category: r.Category,
		Time:     r.Time,
		Source:   r.Source,
	}
}

// Diagnostic is one line of parser output as stored in the journal.
type Diagnostic struct {
	ID        int64
	Source    string
	Line      string
	Output    string
	CreatedAt time.Time
}

// StartEvent records one observed vault process start.
type StartEvent struct {
	ID         int64
	Source     string
	Version    string
	StartedAt  time.Time
	ObservedAt time.Time
}
