package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// captureLogger swaps Logger for one writing JSON lines at level into the
// returned buffer.
func captureLogger(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := Logger
	Logger = slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level}))
	t.Cleanup(func() { Logger = orig })
	return &buf
}

func TestHelpers(t *testing.T) {
	helpers := map[string]func(string, ...any){
		"DEBUG": Debug,
		"INFO":  Info,
		"WARN":  Warn,
		"ERROR": Error,
	}

	for level, fn := range helpers {
		t.Run(level, func(t *testing.T) {
			buf := captureLogger(t, slog.LevelDebug)
			fn("line rejected", "path", "/var/log/vault/node.log")

			var rec map[string]any
			if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
				t.Fatalf("output is not one JSON record: %v (%q)", err, buf.String())
			}
			if rec["level"] != level {
				t.Errorf("level = %v, want %s", rec["level"], level)
			}
			if rec["msg"] != "line rejected" {
				t.Errorf("msg = %v", rec["msg"])
			}
			if rec["path"] != "/var/log/vault/node.log" {
				t.Errorf("path attr = %v", rec["path"])
			}
		})
	}
}

func TestHelpers_RespectLevel(t *testing.T) {
	buf := captureLogger(t, slog.LevelWarn)

	Debug("dropped")
	Info("dropped")
	Warn("kept")

	if strings.Contains(buf.String(), "dropped") {
		t.Errorf("records below warn were written: %q", buf.String())
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("want exactly one record, got %q", buf.String())
	}
}

func TestInit(t *testing.T) {
	originalLogger := Logger
	defer func() { Logger = originalLogger }()

	path := filepath.Join(t.TempDir(), "logs", "vdash.log")
	closer, err := Init(path, "debug")
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}

	Debug("tailing file", "path", "/var/log/vault.log")
	Info("second line")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "tailing file") || !strings.Contains(string(data), "second line") {
		t.Errorf("log file missing messages, got %q", data)
	}
}

func TestInit_InfoDropsDebug(t *testing.T) {
	originalLogger := Logger
	defer func() { Logger = originalLogger }()

	path := filepath.Join(t.TempDir(), "vdash.log")
	closer, err := Init(path, "info")
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	Debug("backward timestamp ignored")
	Info("source added")
	_ = closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if strings.Contains(string(data), "backward timestamp") {
		t.Error("debug record written at info level")
	}
	if !strings.Contains(string(data), "source added") {
		t.Error("info record missing")
	}
}

func TestInit_EmptyPath(t *testing.T) {
	originalLogger := Logger
	defer func() { Logger = originalLogger }()

	closer, err := Init("", "info")
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	if closer == nil {
		t.Fatal("Init() returned a nil closer")
	}
	if Logger != originalLogger {
		t.Error("Init with an empty path replaced the logger")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
