// Package config contains everything related to configuration
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	Files           []string
	AppName         string
	LinesMax        int
	TimelineSteps   int
	IgnoreExisting  bool
	DebugWindow     bool
	DebugDashboard  bool
	DiagnosticsPath string
	MetricsAddr     string
	NotifyRestart   bool
	PrefsPath       string
	LogPath         string
	LogLevel        string
	TickInterval    time.Duration
}

// Default values
const (
	defaultAppName       = "safe-vault"
	defaultLinesMax      = 100
	defaultTimelineSteps = 100
	defaultTickInterval  = 2 * time.Second
	defaultLogLevel      = "info"

	// MinTimelineSteps is the smallest timeline window accepted.
	MinTimelineSteps = 10
)

// ErrNoLogfiles is returned when no log file was given.
var ErrNoLogfiles = errors.New("no logfile(s) specified")

// Load reads configuration from .env files, environment variables and the
// command line, in increasing order of precedence. args excludes the
// program name.
func Load(args []string) (*Config, error) {
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := fromEnv()
	if err := cfg.parseFlags(args, io.Discard); err != nil {
		return nil, err
	}
	cfg.applyModes()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fromEnv builds a config from environment variables and defaults.
func fromEnv() *Config {
	return &Config{
		Files:           splitList(os.Getenv("VDASH_LOGFILES")),
		AppName:         getEnvString("VDASH_APP_NAME", defaultAppName),
		LinesMax:        getEnvInt("VDASH_LINES_MAX", defaultLinesMax),
		TimelineSteps:   getEnvInt("VDASH_TIMELINE_STEPS", defaultTimelineSteps),
		IgnoreExisting:  getEnvBool("VDASH_IGNORE_EXISTING", false),
		DebugWindow:     getEnvBool("VDASH_DEBUG_WINDOW", false),
		DebugDashboard:  getEnvBool("VDASH_DEBUG_DASHBOARD", false),
		DiagnosticsPath: getEnvString("VDASH_DIAGNOSTICS_PATH", ""),
		MetricsAddr:     getEnvString("VDASH_METRICS_ADDR", ""),
		NotifyRestart:   getEnvBool("VDASH_NOTIFY_RESTART", false),
		PrefsPath:       getEnvString("VDASH_PREFS_PATH", getDefaultPrefsPath()),
		LogPath:         getEnvString("VDASH_LOG_PATH", ""),
		LogLevel:        getEnvString("VDASH_LOG_LEVEL", defaultLogLevel),
		TickInterval:    getEnvDuration("VDASH_TICK_INTERVAL", defaultTickInterval),
	}
}

// newFlagSet binds command line flags to the fields of c.
func (c *Config) newFlagSet(output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("vdash", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&c.AppName, "app-name", c.AppName, "process name announced in start lines")
	fs.IntVar(&c.LinesMax, "lines-max", c.LinesMax, "maximum lines kept per log")
	fs.IntVar(&c.TimelineSteps, "timeline-steps", c.TimelineSteps, "buckets kept per timeline")
	fs.BoolVar(&c.IgnoreExisting, "ignore-existing", c.IgnoreExisting, "skip content already in the log files")
	fs.BoolVar(&c.DebugWindow, "debug-window", c.DebugWindow, "show parser diagnostics")
	fs.BoolVar(&c.DebugDashboard, "debug-dashboard", c.DebugDashboard, "monitor the first file only and open the debug view")
	fs.StringVar(&c.DiagnosticsPath, "diagnostics", c.DiagnosticsPath, "sqlite file recording parser diagnostics")
	fs.StringVar(&c.MetricsAddr, "metrics-addr", c.MetricsAddr, "serve Prometheus metrics on this address")
	fs.BoolVar(&c.NotifyRestart, "notify", c.NotifyRestart, "desktop notification when a vault restarts")
	fs.StringVar(&c.PrefsPath, "prefs", c.PrefsPath, "preferences file")
	fs.StringVar(&c.LogPath, "log-file", c.LogPath, "write dashboard logs to this file")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn, error")
	fs.DurationVar(&c.TickInterval, "tick", c.TickInterval, "screen refresh interval")
	return fs
}

// parseFlags overrides fields from command line flags. Positional
// arguments replace any log files taken from the environment.
func (c *Config) parseFlags(args []string, output io.Writer) error {
	fs := c.newFlagSet(output)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	if fs.NArg() > 0 {
		c.Files = fs.Args()
	}
	return nil
}

// applyModes adjusts settings implied by other settings.
func (c *Config) applyModes() {
	if !c.DebugDashboard {
		return
	}
	c.DebugWindow = true
	if len(c.Files) > 1 {
		c.Files = c.Files[:1]
	}
	if c.DiagnosticsPath == "" {
		c.DiagnosticsPath = filepath.Join(os.TempDir(), "vdash-diagnostics.db")
	}
}

// Validate checks the configuration for values the dashboard cannot run with.
func (c *Config) Validate() error {
	if len(c.Files) == 0 {
		return ErrNoLogfiles
	}
	if c.TimelineSteps < MinTimelineSteps {
		return fmt.Errorf("timeline steps %d is below the minimum of %d", c.TimelineSteps, MinTimelineSteps)
	}
	if c.LinesMax < 1 {
		return fmt.Errorf("lines max must be at least 1, got %d", c.LinesMax)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", c.TickInterval)
	}
	return nil
}

// Usage returns the flag help text with defaults taken from the
// environment.
func Usage() string {
	var b strings.Builder
	fromEnv().newFlagSet(&b).PrintDefaults()
	return b.String()
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "vdash", ".env"))
	}

	return paths
}

// getDefaultPrefsPath returns the default path for the preferences file.
func getDefaultPrefsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "prefs.toml"
	}
	return filepath.Join(home, ".config", "vdash", "prefs.toml")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
// Accepts the forms understood by strconv.ParseBool.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// splitList splits a comma separated list, dropping empty entries.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
